// Package advisor turns one poll's snapshots into a prioritized list of
// recommendations and an executive summary. Every function here is pure:
// no I/O, no logging, no state carried between calls.
package advisor

import (
	"github.com/dm/esadvisor/internal/model"
)

// DefaultEndpoint is the host:port written into suggested curl commands when
// the caller does not supply one.
const DefaultEndpoint = "elasticsearch:9200"

// Input is one coherent set of snapshots from a single poll cycle. Nil
// sections are treated as absent and the advisors that need them are skipped.
type Input struct {
	Nodes        []model.NodeSnapshot
	Shards       *model.ShardAnalysis
	Allocation   *model.AllocationSnapshot
	Health       *model.ClusterHealthSnapshot
	PendingTasks []model.PendingTask
	Tasks        *model.TaskSummary
	Indices      []model.IndexMetrics
	Recoveries   []model.Recovery

	// Endpoint is used only to render example commands.
	Endpoint string
}

// Report is the result of one analysis pass.
type Report struct {
	Recommendations    []model.Recommendation       `json:"recommendations"`
	Summary            model.ExecutiveSummary       `json:"summary"`
	NodeAnalysis       []model.NodeSnapshot         `json:"nodeAnalysis"`
	ShardAnalysis      *model.ShardAnalysis         `json:"shardAnalysis,omitempty"`
	AllocationAnalysis *model.AllocationSnapshot    `json:"allocationAnalysis,omitempty"`
	ClusterHealth      *model.ClusterHealthSnapshot `json:"clusterHealth,omitempty"`
	Details            model.DetailedAnalysis       `json:"detailedAnalysis"`
	IndexMetrics       []model.IndexMetrics         `json:"indexMetrics,omitempty"`
	TopIndices         *model.IndexRanking          `json:"topIndices,omitempty"`
	Recoveries         []model.Recovery             `json:"recoveries,omitempty"`
}

// Generate runs every advisor against in and merges their output in a fixed
// order: node rules (including heap-driven shard moves), cluster-wide
// rebalancing, index, topology, operations, contention.
func Generate(in Input) Report {
	endpoint := in.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	recs := []model.Recommendation{}
	details := model.DetailedAnalysis{
		NodeInsights:     []model.NodeInsight{},
		IndexInsights:    []model.IndexInsight{},
		MemoryContention: []string{},
	}

	for _, node := range in.Nodes {
		nodeRecs, insight := EvaluateNode(node, in.Nodes, in.Shards, endpoint)
		recs = append(recs, nodeRecs...)
		details.NodeInsights = append(details.NodeInsights, insight)
	}

	rebalanceRecs, rebalance := RebalanceCluster(in.Nodes, in.Shards, endpoint)
	recs = append(recs, rebalanceRecs...)
	details.RebalancingInsight = rebalance

	indexRecs, indexInsights := AnalyzeIndices(in.Nodes, in.Shards, endpoint)
	recs = append(recs, indexRecs...)
	details.IndexInsights = append(details.IndexInsights, indexInsights...)

	recs = append(recs, CheckTopology(in.Nodes, in.Health, in.Shards, in.Allocation)...)

	opsRecs, ops := AnalyzeOperations(in.Nodes, in.PendingTasks, in.Tasks)
	recs = append(recs, opsRecs...)
	details.OperationsInsight = ops

	contentionRecs, contended := CheckContention(in.Nodes)
	recs = append(recs, contentionRecs...)
	details.MemoryContention = append(details.MemoryContention, contended...)

	var top *model.IndexRanking
	if in.Indices != nil {
		ranking := model.RankIndices(in.Indices, model.DefaultIndexLimit)
		top = &ranking
	}

	return Report{
		Recommendations:    recs,
		Summary:            Summarize(recs, in.Nodes, in.Health, details),
		NodeAnalysis:       in.Nodes,
		ShardAnalysis:      in.Shards,
		AllocationAnalysis: in.Allocation,
		ClusterHealth:      in.Health,
		Details:            details,
		IndexMetrics:       in.Indices,
		TopIndices:         top,
		Recoveries:         in.Recoveries,
	}
}
