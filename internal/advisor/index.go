package advisor

import (
	"fmt"
	"math"
	"strings"

	"github.com/dm/esadvisor/internal/format"
	"github.com/dm/esadvisor/internal/model"
)

const (
	oversizedShardBytes  = 50 * format.GiB
	targetShardBytes     = 30 * format.GiB
	shardImbalanceRatio  = 2.0
	hotNodeMinShards     = 2
	hotNodeHeapThreshold = 75.0
)

// Index insight issue tags.
const (
	IndexIssueOversized = "OVERSIZED_SHARDS"
	IndexIssueImbalance = "SHARD_IMBALANCE"
	IndexIssueHotNodes  = "HOT_NODES"
)

// AnalyzeIndices groups the largest-shards list by index and checks each
// index for oversized shards, uneven shard sizes and hot nodes. Indices are
// reported in the order they first appear in the list.
func AnalyzeIndices(nodes []model.NodeSnapshot, shards *model.ShardAnalysis, endpoint string) ([]model.Recommendation, []model.IndexInsight) {
	result := []model.Recommendation{}
	insights := []model.IndexInsight{}
	if shards == nil {
		return result, insights
	}

	var order []string
	byIndex := make(map[string][]model.ShardRecord)
	for _, s := range shards.LargestShards {
		if _, seen := byIndex[s.Index]; !seen {
			order = append(order, s.Index)
		}
		byIndex[s.Index] = append(byIndex[s.Index], s)
	}

	for _, name := range order {
		recs, insight := analyzeIndex(name, byIndex[name], nodes, endpoint)
		result = append(result, recs...)
		insights = append(insights, insight)
	}
	return result, insights
}

func analyzeIndex(name string, shards []model.ShardRecord, nodes []model.NodeSnapshot, endpoint string) ([]model.Recommendation, model.IndexInsight) {
	var result []model.Recommendation

	var total int64
	maxSize, minSize := shards[0].StoreBytes, shards[0].StoreBytes
	primaries := 0
	for _, s := range shards {
		total += s.StoreBytes
		if s.StoreBytes > maxSize {
			maxSize = s.StoreBytes
		}
		if s.StoreBytes < minSize {
			minSize = s.StoreBytes
		}
		if s.Role == model.ShardPrimary {
			primaries++
		}
	}

	insight := model.IndexInsight{
		IndexName:    name,
		TotalSize:    total,
		ShardCount:   len(shards),
		AvgShardSize: float64(total) / float64(len(shards)),
		MaxShardSize: maxSize,
		MinShardSize: minSize,
		HotNodes:     hotNodes(shards, nodes),
		Issues:       []string{},
	}

	if maxSize > oversizedShardBytes {
		suggested := int(math.Ceil(float64(total) / targetShardBytes))
		insight.Issues = append(insight.Issues, IndexIssueOversized)
		result = append(result, model.Recommendation{
			Severity:    model.SeverityWarning,
			Category:    model.CategoryIndexOptimization,
			Title:       fmt.Sprintf("Oversized Shards in Index: %s", name),
			Description: fmt.Sprintf("Index %s has shards up to %s. Large shards impact recovery time and performance.", name, format.FormatBytes(maxSize)),
			Impact:      model.ImpactMedium,
			Action:      fmt.Sprintf("Consider reindexing with more primary shards. Current: %d primary, suggest: %d primary shards", primaries, suggested),
			Priority:    3,
			Specifics: model.ReindexPlan{
				CurrentPrimaryShards:   primaries,
				SuggestedPrimaryShards: suggested,
				ReindexCommand:         reindexCommand(endpoint, name, suggested),
			},
		})
	}

	// An empty shard next to a non-empty one counts as imbalanced; the ratio
	// is undefined there.
	imbalanced := minSize > 0 && float64(maxSize)/float64(minSize) > shardImbalanceRatio
	if minSize == 0 && maxSize > 0 {
		imbalanced = true
	}
	if imbalanced {
		dist := make([]model.ShardSize, len(shards))
		for i, s := range shards {
			dist[i] = model.ShardSize{Shard: s.Shard, Size: format.FormatBytes(s.StoreBytes), Node: s.Node}
		}
		insight.Issues = append(insight.Issues, IndexIssueImbalance)
		result = append(result, model.Recommendation{
			Severity:    model.SeverityInfo,
			Category:    model.CategoryIndexOptimization,
			Title:       fmt.Sprintf("Shard Size Imbalance in Index: %s", name),
			Description: fmt.Sprintf("Index %s has uneven shard sizes (%s to %s). This may indicate uneven data distribution.", name, format.FormatBytes(minSize), format.FormatBytes(maxSize)),
			Impact:      model.ImpactLow,
			Action:      "Review indexing strategy. Consider custom routing or document distribution patterns.",
			Priority:    4,
			Specifics:   model.ShardSizeDistribution{Shards: dist},
		})
	}

	if len(insight.HotNodes) > 0 {
		names := make([]string, len(insight.HotNodes))
		for i, h := range insight.HotNodes {
			names[i] = h.NodeName
		}
		insight.Issues = append(insight.Issues, IndexIssueHotNodes)
		result = append(result, model.Recommendation{
			Severity:    model.SeverityWarning,
			Category:    model.CategoryShardRebalancing,
			Title:       fmt.Sprintf("Hot Nodes Detected for Index: %s", name),
			Description: fmt.Sprintf("Index %s has multiple shards on high-resource nodes: %s", name, strings.Join(names, ", ")),
			Impact:      model.ImpactMedium,
			Action:      "Redistribute shards from hot nodes to cooler nodes for better performance",
			Priority:    2,
			Specifics: model.HotNodePlan{
				HotNodes:           insight.HotNodes,
				RedistributionPlan: redistributionPlan(shards, insight.HotNodes, nodes),
			},
		})
	}

	return result, insight
}

// hotNodes returns the nodes holding more than hotNodeMinShards of the given
// shards whose own heap exceeds hotNodeHeapThreshold. Nodes missing from the
// node list count as 0% heap and are never hot.
func hotNodes(shards []model.ShardRecord, nodes []model.NodeSnapshot) []model.HotNode {
	var order []string
	counts := make(map[string]int)
	for _, s := range shards {
		if s.Node == "" {
			continue
		}
		if _, seen := counts[s.Node]; !seen {
			order = append(order, s.Node)
		}
		counts[s.Node]++
	}

	hot := []model.HotNode{}
	for _, name := range order {
		if counts[name] <= hotNodeMinShards {
			continue
		}
		var heap float64
		for _, n := range nodes {
			if n.NodeName == name {
				heap = n.HeapUsedPercent
				break
			}
		}
		if heap > hotNodeHeapThreshold {
			hot = append(hot, model.HotNode{NodeName: name, ShardCount: counts[name], HeapUsedPercent: heap})
		}
	}
	return hot
}

// redistributionPlan suggests the least loaded eligible node for each shard
// sitting on a hot node. Shards with no eligible target are left out.
func redistributionPlan(shards []model.ShardRecord, hot []model.HotNode, nodes []model.NodeSnapshot) []model.Redistribution {
	isHot := make(map[string]bool, len(hot))
	for _, h := range hot {
		isHot[h.NodeName] = true
	}

	plan := []model.Redistribution{}
	for _, s := range shards {
		if !isHot[s.Node] {
			continue
		}
		target, ok := bestTarget(nodes, s.NodeID)
		if !ok {
			continue
		}
		plan = append(plan, model.Redistribution{
			Index:     s.Index,
			Shard:     s.Shard,
			Current:   s.Node,
			Suggested: target.NodeName,
			Reason:    "Reduce hot node pressure",
		})
	}
	return plan
}
