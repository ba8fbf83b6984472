package advisor

import (
	"fmt"
	"strings"

	"github.com/dm/esadvisor/internal/format"
	"github.com/dm/esadvisor/internal/model"
)

// imbalanceFactor flags a node whose shard count or cumulative shard size
// exceeds this multiple of the cluster average.
const imbalanceFactor = 1.3

// RebalanceCluster flags nodes carrying disproportionately many or large
// shards, independent of heap pressure. Shard counts come from the shard
// distribution (keyed by node name); sizes are summed from the largest-shards
// list. Only nodes present in nodes take part in the averages. A
// recommendation is emitted only for flagged nodes with an eligible target.
func RebalanceCluster(nodes []model.NodeSnapshot, shards *model.ShardAnalysis, endpoint string) ([]model.Recommendation, model.RebalancingInsight) {
	result := []model.Recommendation{}
	insight := model.RebalancingInsight{ImbalancedNodes: []model.ImbalancedNode{}}
	if shards == nil {
		return result, insight
	}

	type load struct {
		node  model.NodeSnapshot
		count int
		size  int64
	}
	var loads []load
	for _, n := range nodes {
		count, ok := shards.ShardDistribution[n.NodeName]
		if !ok {
			continue
		}
		var size int64
		for _, s := range shards.LargestShards {
			if s.NodeID == n.NodeID {
				size += s.StoreBytes
			}
		}
		loads = append(loads, load{node: n, count: count, size: size})
	}
	if len(loads) == 0 {
		return result, insight
	}

	var countSum, sizeSum float64
	for _, l := range loads {
		countSum += float64(l.count)
		sizeSum += float64(l.size)
	}
	avgCount := countSum / float64(len(loads))
	avgSize := sizeSum / float64(len(loads))
	insight.AvgShardCount = avgCount
	insight.AvgShardSize = avgSize

	for _, l := range loads {
		if float64(l.count) <= avgCount*imbalanceFactor && float64(l.size) <= avgSize*imbalanceFactor {
			continue
		}

		candidates := []model.ShardMove{}
		if target, ok := bestTarget(nodes, l.node.NodeID); ok {
			for _, s := range heaviest(nodeShards(shards, l.node.NodeID), maxShardsToMove) {
				m := newShardMove(s, target)
				m.Reason = "Balance shard distribution"
				candidates = append(candidates, m)
			}
		}

		insight.ImbalancedNodes = append(insight.ImbalancedNodes, model.ImbalancedNode{
			NodeID:            l.node.NodeID,
			NodeName:          l.node.NodeName,
			CurrentShardCount: l.count,
			CurrentShardSize:  l.size,
			ImbalanceRatio:    imbalanceRatio(l.count, l.size, avgCount, avgSize),
			MovableCandidates: candidates,
		})

		if len(candidates) == 0 {
			continue
		}
		targets := make([]string, len(candidates))
		for i, c := range candidates {
			targets[i] = c.SuggestedTarget
		}
		result = append(result, model.Recommendation{
			Severity: model.SeverityInfo,
			Category: model.CategoryBalance,
			Title:    fmt.Sprintf("Rebalance Shards from Overloaded %s", l.node.NodeName),
			Description: fmt.Sprintf("Node has %d shards (avg: %.0f) with %s data (avg: %s). Rebalancing can improve performance.",
				l.count, avgCount, format.FormatBytes(l.size), format.FormatBytes(int64(avgSize))),
			Impact:   model.ImpactMedium,
			Action:   fmt.Sprintf("Move %d shards to underutilized nodes: %s", len(candidates), strings.Join(targets, ", ")),
			Priority: 3,
			NodeID:   l.node.NodeID,
			Specifics: model.RebalancePlan{
				Moves:               candidates,
				ExpectedImprovement: "More even resource distribution, reduced hotspots",
				Commands:            rerouteCommands(endpoint, candidates),
			},
		})
	}

	return result, insight
}

func imbalanceRatio(count int, size int64, avgCount, avgSize float64) float64 {
	var ratio float64
	if avgCount > 0 {
		ratio = float64(count) / avgCount
	}
	if avgSize > 0 {
		if r := float64(size) / avgSize; r > ratio {
			ratio = r
		}
	}
	return ratio
}
