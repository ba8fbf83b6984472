package advisor

import (
	"strings"

	"github.com/dm/esadvisor/internal/format"
	"github.com/dm/esadvisor/internal/model"
)

// makeNode builds a NodeSnapshot named name (id name+"-id") with the given
// heap/disk/cpu percentages. Role flags follow the role names.
func makeNode(name string, heap, disk, cpu float64, roles ...string) model.NodeSnapshot {
	n := model.NodeSnapshot{
		NodeID:           name + "-id",
		NodeName:         name,
		Roles:            roles,
		HeapUsedPercent:  heap,
		DiskUsagePercent: disk,
		CPUUsagePercent:  cpu,
	}
	for _, r := range roles {
		switch r {
		case "master":
			n.IsMaster = true
		case "data", "data_hot", "data_warm", "data_cold":
			n.IsData = true
		case "ingest":
			n.IsIngest = true
		}
	}
	return n
}

// makeShard builds a started shard of gib GiB hosted on node.
func makeShard(index string, shard int, role model.ShardRole, gib float64, node string) model.ShardRecord {
	return model.ShardRecord{
		Index:      index,
		Shard:      shard,
		Role:       role,
		State:      "STARTED",
		StoreBytes: int64(gib * format.GiB),
		Node:       node,
		NodeID:     node + "-id",
	}
}

// shardAnalysis wraps shards as the largest-shards list and derives the
// per-node distribution from them.
func shardAnalysis(shards ...model.ShardRecord) *model.ShardAnalysis {
	sa := &model.ShardAnalysis{
		LargestShards:     shards,
		UnassignedShards:  []model.ShardRecord{},
		ShardDistribution: map[string]int{},
		IndexShardCounts:  map[string]int{},
	}
	for _, s := range shards {
		sa.ShardDistribution[s.Node]++
		sa.IndexShardCounts[s.Index]++
	}
	return sa
}

// hasRec returns true if any recommendation in recs has the given severity and
// contains titleSubstr in its Title field.
func hasRec(recs []model.Recommendation, sev model.RecommendationSeverity, titleSubstr string) bool {
	for _, r := range recs {
		if r.Severity == sev && strings.Contains(r.Title, titleSubstr) {
			return true
		}
	}
	return false
}

// filterCategory returns the recommendations in recs with category cat.
func filterCategory(recs []model.Recommendation, cat model.RecommendationCategory) []model.Recommendation {
	var out []model.Recommendation
	for _, r := range recs {
		if r.Category == cat {
			out = append(out, r)
		}
	}
	return out
}
