package advisor

import (
	"fmt"

	"github.com/dm/esadvisor/internal/format"
	"github.com/dm/esadvisor/internal/model"
)

const (
	minMasterNodes       = 3
	minDataNodes         = 2
	diskSpreadThreshold  = 20.0
	unassignedSampleSize = 5
	highWatermarkPercent = 95.0
	nearWatermarkPercent = 85.0
	largeShardBytes      = 50 * format.GiB
	largeShardSampleSize = 5
	unevenShardRatio     = 1.5
)

// CheckTopology runs the cluster-level checks: health status, node counts,
// disk balance across data nodes, unassigned shards and allocation
// watermarks, large shards and shard-count skew. Each check is skipped when the section it reads is absent.
func CheckTopology(nodes []model.NodeSnapshot, health *model.ClusterHealthSnapshot, shards *model.ShardAnalysis, alloc *model.AllocationSnapshot) []model.Recommendation {
	result := []model.Recommendation{}

	if health != nil {
		switch health.Status {
		case model.StatusRed:
			result = append(result, model.Recommendation{
				Severity:    model.SeverityCritical,
				Category:    model.CategoryClusterHealth,
				Title:       "Cluster Status is RED",
				Description: "Cluster health is RED, indicating some primary shards are not allocated. Data may be unavailable.",
				Impact:      model.ImpactCritical,
				Action:      "Immediately investigate and resolve shard allocation issues",
				Priority:    1,
			})
		case model.StatusYellow:
			result = append(result, model.Recommendation{
				Severity:    model.SeverityWarning,
				Category:    model.CategoryClusterHealth,
				Title:       "Cluster Status is YELLOW",
				Description: "Cluster health is YELLOW, indicating some replica shards are not allocated. Data is available but not fully replicated.",
				Impact:      model.ImpactMedium,
				Action:      "Investigate replica shard allocation issues",
				Priority:    2,
			})
		}
	}

	totalNodes := len(nodes)
	if health != nil && health.NumberOfNodes > 0 {
		totalNodes = health.NumberOfNodes
	}
	if totalNodes == 1 {
		result = append(result, model.Recommendation{
			Severity:    model.SeverityWarning,
			Category:    model.CategoryClusterStability,
			Title:       "Single Node Cluster",
			Description: "Running a single-node cluster provides no redundancy. Node failure will result in data loss.",
			Impact:      model.ImpactHigh,
			Action:      "Add additional nodes for redundancy",
			Priority:    2,
		})
	}

	if len(nodes) > 0 {
		masters, data := 0, []model.NodeSnapshot{}
		for _, n := range nodes {
			if n.IsMaster {
				masters++
			}
			if n.IsData {
				data = append(data, n)
			}
		}

		if masters < minMasterNodes {
			result = append(result, model.Recommendation{
				Severity:    model.SeverityCritical,
				Category:    model.CategoryClusterStability,
				Title:       "Insufficient Master Nodes",
				Description: fmt.Sprintf("You have %d master-eligible nodes. For production clusters, you should have at least 3 master-eligible nodes to prevent split-brain scenarios.", masters),
				Impact:      model.ImpactHigh,
				Action:      "Add more master-eligible nodes",
				Priority:    1,
			})
		}

		if len(data) < minDataNodes {
			result = append(result, model.Recommendation{
				Severity:    model.SeverityWarning,
				Category:    model.CategoryClusterStability,
				Title:       "Insufficient Data Nodes",
				Description: fmt.Sprintf("Only %d data node(s) available. Add more data nodes for better performance and redundancy.", len(data)),
				Impact:      model.ImpactMedium,
				Action:      "Add additional data nodes",
				Priority:    3,
			})
		} else if minDisk, maxDisk := diskRange(data); maxDisk-minDisk > diskSpreadThreshold {
			result = append(result, model.Recommendation{
				Severity:    model.SeverityWarning,
				Category:    model.CategoryBalance,
				Title:       "Unbalanced Disk Usage Across Data Nodes",
				Description: fmt.Sprintf("Disk usage varies significantly across data nodes (%.1f%% to %.1f%%). This may indicate poor shard allocation.", minDisk, maxDisk),
				Impact:      model.ImpactMedium,
				Action:      "Review shard allocation and rebalance if necessary",
				Priority:    3,
			})
		}
	}

	if shards != nil && len(shards.UnassignedShards) > 0 {
		sample := shards.UnassignedShards
		if len(sample) > unassignedSampleSize {
			sample = sample[:unassignedSampleSize]
		}
		result = append(result, model.Recommendation{
			Severity:    model.SeverityCritical,
			Category:    model.CategoryShards,
			Title:       "Unassigned Shards Detected",
			Description: fmt.Sprintf("%d shards are unassigned. This means data is not fully replicated and cluster health is degraded.", len(shards.UnassignedShards)),
			Impact:      model.ImpactHigh,
			Action:      "Investigate and resolve shard allocation issues",
			Priority:    1,
			Specifics:   model.UnassignedDetail{Shards: append([]model.ShardRecord(nil), sample...)},
		})
	}

	if shards != nil {
		if rec, ok := largeShards(shards.LargestShards); ok {
			result = append(result, rec)
		}
		if rec, ok := unevenDistribution(shards.ShardDistribution); ok {
			result = append(result, rec)
		}
	}

	if alloc != nil {
		for _, a := range alloc.NodeAllocations {
			switch {
			case a.DiskPercent > highWatermarkPercent:
				result = append(result, model.Recommendation{
					Severity:    model.SeverityCritical,
					Category:    model.CategoryStorage,
					Title:       fmt.Sprintf("Node %s Exceeds High Watermark", a.Node),
					Description: fmt.Sprintf("Node %s is using %.0f%% disk space, exceeding the high watermark (95%%). New shards cannot be allocated to this node.", a.Node, a.DiskPercent),
					Impact:      model.ImpactCritical,
					Action:      "Immediately free up disk space or add storage",
					Priority:    1,
				})
			case a.DiskPercent > nearWatermarkPercent:
				result = append(result, model.Recommendation{
					Severity:    model.SeverityWarning,
					Category:    model.CategoryStorage,
					Title:       fmt.Sprintf("Node %s Approaching High Watermark", a.Node),
					Description: fmt.Sprintf("Node %s is using %.0f%% disk space, approaching the high watermark (95%%).", a.Node, a.DiskPercent),
					Impact:      model.ImpactMedium,
					Action:      "Plan for additional storage or data cleanup",
					Priority:    2,
				})
			}
		}
	}

	return result
}

func diskRange(nodes []model.NodeSnapshot) (minDisk, maxDisk float64) {
	minDisk, maxDisk = nodes[0].DiskUsagePercent, nodes[0].DiskUsagePercent
	for _, n := range nodes[1:] {
		if n.DiskUsagePercent < minDisk {
			minDisk = n.DiskUsagePercent
		}
		if n.DiskUsagePercent > maxDisk {
			maxDisk = n.DiskUsagePercent
		}
	}
	return minDisk, maxDisk
}

// largeShards reports the shards over 50GiB. LargestShards is sorted by
// size, so the sample holds the biggest ones.
func largeShards(largest []model.ShardRecord) (model.Recommendation, bool) {
	var large []model.ShardRecord
	for _, s := range largest {
		if s.StoreBytes > largeShardBytes {
			large = append(large, s)
		}
	}
	if len(large) == 0 {
		return model.Recommendation{}, false
	}
	sample := large
	if len(sample) > largeShardSampleSize {
		sample = sample[:largeShardSampleSize]
	}
	return model.Recommendation{
		Severity:    model.SeverityWarning,
		Category:    model.CategoryShards,
		Title:       "Large Shards Detected",
		Description: fmt.Sprintf("%d shards are larger than 50GB. Large shards can impact performance and recovery times.", len(large)),
		Impact:      model.ImpactMedium,
		Action:      "Consider re-indexing with more primary shards or implementing index lifecycle management",
		Priority:    3,
		Specifics:   model.LargeShardDetail{Shards: append([]model.ShardRecord(nil), sample...)},
	}, true
}

func unevenDistribution(dist map[string]int) (model.Recommendation, bool) {
	if len(dist) < 2 {
		return model.Recommendation{}, false
	}
	minCount, maxCount := -1, 0
	for _, c := range dist {
		if minCount < 0 || c < minCount {
			minCount = c
		}
		if c > maxCount {
			maxCount = c
		}
	}
	if float64(maxCount) <= float64(minCount)*unevenShardRatio {
		return model.Recommendation{}, false
	}
	return model.Recommendation{
		Severity:    model.SeverityInfo,
		Category:    model.CategoryBalance,
		Title:       "Uneven Shard Distribution",
		Description: fmt.Sprintf("Shards are not evenly distributed across nodes (%d to %d shards per node).", minCount, maxCount),
		Impact:      model.ImpactLow,
		Action:      "Consider rebalancing shards for optimal performance",
		Priority:    4,
	}, true
}
