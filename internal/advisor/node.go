package advisor

import (
	"fmt"
	"strings"

	"github.com/dm/esadvisor/internal/format"
	"github.com/dm/esadvisor/internal/model"
)

// Per-node thresholds, in percent (load average is absolute).
const (
	heapCritical  = 85.0
	heapElevated  = 75.0
	diskCritical  = 90.0
	diskHigh      = 85.0
	cpuHigh       = 80.0
	loadAvgHigh   = 4.0
	heapGrowth    = 1.5
	insightShards = 5
)

var (
	cpuActions       = []string{"Optimize bulk request sizes", "Review query patterns", "Consider index refresh intervals"}
	cpuOptimizations = []string{"Reduce bulk size if > 15MB", "Use async search for heavy queries", "Implement query caching"}
)

// EvaluateNode applies the per-node threshold rules to node. nodes is the
// full node list, used to choose shard-move targets; shards may be nil, in
// which case no move plan is produced. Rules are independent and their
// output follows evaluation order: heap, disk, CPU, load.
func EvaluateNode(node model.NodeSnapshot, nodes []model.NodeSnapshot, shards *model.ShardAnalysis, endpoint string) ([]model.Recommendation, model.NodeInsight) {
	result := []model.Recommendation{}
	hosted := nodeShards(shards, node.NodeID)
	insight := model.NodeInsight{
		NodeID:        node.NodeID,
		NodeName:      node.NodeName,
		Roles:         node.Roles,
		Issues:        []model.NodeIssue{},
		ShardCount:    len(hosted),
		LargestShards: heaviest(hosted, insightShards),
	}
	if insight.LargestShards == nil {
		insight.LargestShards = []model.ShardRecord{}
	}

	switch {
	case node.HeapUsedPercent > heapCritical:
		insight.Issues = append(insight.Issues, model.NodeIssue{
			Type:      model.IssueHighHeap,
			Severity:  model.SeverityCritical,
			Current:   format.FormatPercent(node.HeapUsedPercent),
			Threshold: "85%",
			Impact:    "GC pressure, performance degradation, potential OOM",
		})
		result = append(result, model.Recommendation{
			Severity:    model.SeverityCritical,
			Category:    model.CategoryMemory,
			Title:       fmt.Sprintf("High Heap Usage on %s", node.NodeName),
			Description: fmt.Sprintf("Node %s is using %.1f%% of heap memory. This can cause GC pressure and performance issues.", node.NodeName, node.HeapUsedPercent),
			Impact:      model.ImpactHigh,
			Action:      "Increase heap size or reduce data/query load",
			Priority:    1,
			NodeID:      node.NodeID,
		})
		if rec, ok := heapRebalance(node, hosted, nodes, endpoint); ok {
			result = append(result, rec)
		}
		result = append(result, heapResize(node))
	case node.HeapUsedPercent > heapElevated:
		insight.Issues = append(insight.Issues, model.NodeIssue{
			Type:      model.IssueElevatedHeap,
			Severity:  model.SeverityWarning,
			Current:   format.FormatPercent(node.HeapUsedPercent),
			Threshold: "75%",
			Impact:    "More frequent garbage collection",
		})
		result = append(result, model.Recommendation{
			Severity:    model.SeverityWarning,
			Category:    model.CategoryMemory,
			Title:       fmt.Sprintf("Elevated Heap Usage on %s", node.NodeName),
			Description: fmt.Sprintf("Node %s is using %.1f%% of heap memory. Monitor closely.", node.NodeName, node.HeapUsedPercent),
			Impact:      model.ImpactMedium,
			Action:      "Monitor heap usage and consider optimization",
			Priority:    2,
			NodeID:      node.NodeID,
		})
	}

	switch {
	case node.DiskUsagePercent > diskCritical:
		insight.Issues = append(insight.Issues, model.NodeIssue{
			Type:      model.IssueCriticalDisk,
			Severity:  model.SeverityCritical,
			Current:   format.FormatPercent(node.DiskUsagePercent),
			Threshold: "90%",
			Impact:    "Shard allocation blocked, writes refused at 95%",
		})
		result = append(result, model.Recommendation{
			Severity:    model.SeverityCritical,
			Category:    model.CategoryStorage,
			Title:       fmt.Sprintf("Critical Disk Usage on %s", node.NodeName),
			Description: fmt.Sprintf("Node %s is using %.1f%% of disk space. Elasticsearch will start refusing new data at 95%%.", node.NodeName, node.DiskUsagePercent),
			Impact:      model.ImpactCritical,
			Action:      "Free up disk space immediately or add storage",
			Priority:    1,
			NodeID:      node.NodeID,
		})
	case node.DiskUsagePercent > diskHigh:
		insight.Issues = append(insight.Issues, model.NodeIssue{
			Type:      model.IssueHighDisk,
			Severity:  model.SeverityWarning,
			Current:   format.FormatPercent(node.DiskUsagePercent),
			Threshold: "85%",
			Impact:    "Approaching allocation watermarks",
		})
		result = append(result, model.Recommendation{
			Severity:    model.SeverityWarning,
			Category:    model.CategoryStorage,
			Title:       fmt.Sprintf("High Disk Usage on %s", node.NodeName),
			Description: fmt.Sprintf("Node %s is using %.1f%% of disk space.", node.NodeName, node.DiskUsagePercent),
			Impact:      model.ImpactMedium,
			Action:      "Plan for additional storage or data cleanup",
			Priority:    2,
			NodeID:      node.NodeID,
		})
	}

	if node.CPUUsagePercent > cpuHigh {
		insight.Issues = append(insight.Issues, model.NodeIssue{
			Type:      model.IssueHighCPU,
			Severity:  model.SeverityWarning,
			Current:   format.FormatPercent(node.CPUUsagePercent),
			Threshold: "80%",
			Impact:    "Query slowdown, indexing delays",
		})
		result = append(result, model.Recommendation{
			Severity: model.SeverityWarning,
			Category: model.CategoryCPU,
			Title:    fmt.Sprintf("High CPU Load on %s", node.NodeName),
			Description: fmt.Sprintf("Node %s shows %.1f%% CPU usage. This may indicate heavy query load or inefficient queries.", node.NodeName, node.CPUUsagePercent),
			Impact: model.ImpactMedium,
			Action: fmt.Sprintf("Indexing ops: %s, search ops: %s, load average (1m): %.2f. %s",
				format.FormatNumber(node.IndexingTotal), format.FormatNumber(node.SearchTotal), node.LoadAverage1m, strings.Join(cpuActions, "; ")),
			Priority: 2,
			NodeID:   node.NodeID,
			Specifics: model.CPUBreakdown{
				IndexingTotal: node.IndexingTotal,
				SearchTotal:   node.SearchTotal,
				LoadAverage:   node.LoadAverage1m,
				Optimizations: append([]string(nil), cpuOptimizations...),
			},
		})
	}

	if node.LoadAverage1m > loadAvgHigh {
		insight.Issues = append(insight.Issues, model.NodeIssue{
			Type:      model.IssueHighLoad,
			Severity:  model.SeverityWarning,
			Current:   fmt.Sprintf("%.2f", node.LoadAverage1m),
			Threshold: "4",
			Impact:    "System stress, scheduling delays",
		})
		result = append(result, model.Recommendation{
			Severity:    model.SeverityWarning,
			Category:    model.CategoryPerformance,
			Title:       fmt.Sprintf("High Load Average on %s", node.NodeName),
			Description: fmt.Sprintf("Node %s has a 1-minute load average of %.2f. This indicates system stress.", node.NodeName, node.LoadAverage1m),
			Impact:      model.ImpactMedium,
			Action:      "Investigate system bottlenecks",
			Priority:    2,
			NodeID:      node.NodeID,
		})
	}

	return result, insight
}

// heapRebalance builds the move plan for a heap pressured node. ok is false
// when the node hosts no known shards or no eligible target exists.
func heapRebalance(node model.NodeSnapshot, hosted []model.ShardRecord, nodes []model.NodeSnapshot, endpoint string) (model.Recommendation, bool) {
	moves := pairMoves(hosted, nodes, node.NodeID)
	if len(moves) == 0 {
		return model.Recommendation{}, false
	}

	shardNames := make([]string, len(moves))
	targetNames := make([]string, len(moves))
	for i, m := range moves {
		shardNames[i] = fmt.Sprintf("%s[%d]", m.Index, m.Shard)
		targetNames[i] = m.SuggestedTarget
	}

	return model.Recommendation{
		Severity: model.SeverityCritical,
		Category: model.CategoryShardRebalancing,
		Title:    fmt.Sprintf("Rebalance Heavy Shards from %s", node.NodeName),
		Description: fmt.Sprintf("Node %s (%.1f%% heap) has %d large shards consuming significant memory. Move specific shards to reduce heap pressure.",
			node.NodeName, node.HeapUsedPercent, len(heaviest(hosted, maxShardsToMove))),
		Impact:   model.ImpactHigh,
		Action:   fmt.Sprintf("Move shards: %s to nodes: %s", strings.Join(shardNames, ", "), strings.Join(targetNames, ", ")),
		Priority: 1,
		NodeID:   node.NodeID,
		Specifics: model.ShardMovePlan{
			ShardsToMove:          moves,
			ExpectedHeapReduction: totalHeapReduction(moves),
			Commands:              rerouteCommands(endpoint, moves),
		},
	}, true
}

func heapResize(node model.NodeSnapshot) model.Recommendation {
	suggested := int64(float64(node.HeapMaxBytes) * heapGrowth)
	return model.Recommendation{
		Severity:    model.SeverityWarning,
		Category:    model.CategoryMemory,
		Title:       fmt.Sprintf("Increase Heap Size for %s", node.NodeName),
		Description: fmt.Sprintf("Current heap: %s/%s. Consider increasing heap size.", format.FormatBytes(node.HeapUsedBytes), format.FormatBytes(node.HeapMaxBytes)),
		Impact:      model.ImpactMedium,
		Action:      fmt.Sprintf("Increase heap from %s to %s (but not exceed 50%% of RAM)", format.FormatBytes(node.HeapMaxBytes), format.FormatBytes(suggested)),
		Priority:    2,
		NodeID:      node.NodeID,
		Specifics: model.HeapResize{
			CurrentHeap:   node.HeapMaxBytes,
			SuggestedHeap: suggested,
			Commands:      []string{heapCommand(suggested)},
		},
	}
}
