package advisor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dm/esadvisor/internal/format"
	"github.com/dm/esadvisor/internal/model"
)

func TestAnalyzeIndices_NilShards(t *testing.T) {
	recs, insights := AnalyzeIndices(nil, nil, DefaultEndpoint)
	assert.NotNil(t, recs)
	assert.Empty(t, recs)
	assert.NotNil(t, insights)
	assert.Empty(t, insights)
}

func TestAnalyzeIndices_OversizedAndImbalanced(t *testing.T) {
	nodes := []model.NodeSnapshot{
		makeNode("n1", 40, 40, 10, "data"),
		makeNode("n2", 40, 40, 10, "data"),
	}
	shards := shardAnalysis(
		makeShard("logs-2024", 0, model.ShardPrimary, 60, "n1"),
		makeShard("logs-2024", 1, model.ShardPrimary, 5, "n2"),
	)

	recs, insights := AnalyzeIndices(nodes, shards, DefaultEndpoint)
	require.Len(t, recs, 2)

	oversized := recs[0]
	assert.Equal(t, model.SeverityWarning, oversized.Severity)
	assert.Equal(t, model.CategoryIndexOptimization, oversized.Category)
	assert.Equal(t, "Oversized Shards in Index: logs-2024", oversized.Title)
	assert.Equal(t, 3, oversized.Priority)
	assert.Equal(t, "Consider reindexing with more primary shards. Current: 2 primary, suggest: 3 primary shards", oversized.Action)
	plan, ok := oversized.Specifics.(model.ReindexPlan)
	require.True(t, ok)
	assert.Equal(t, 2, plan.CurrentPrimaryShards)
	assert.Equal(t, 3, plan.SuggestedPrimaryShards)
	assert.Equal(t,
		`curl -X PUT "elasticsearch:9200/logs-2024_reindexed" -H 'Content-Type: application/json' -d'{"settings":{"number_of_shards":3,"number_of_replicas":1}}'`,
		plan.ReindexCommand)

	imbalance := recs[1]
	assert.Equal(t, model.SeverityInfo, imbalance.Severity)
	assert.Equal(t, model.CategoryIndexOptimization, imbalance.Category)
	assert.Equal(t, "Shard Size Imbalance in Index: logs-2024", imbalance.Title)
	assert.Equal(t, model.ImpactLow, imbalance.Impact)
	assert.Equal(t, 4, imbalance.Priority)
	dist, ok := imbalance.Specifics.(model.ShardSizeDistribution)
	require.True(t, ok)
	require.Len(t, dist.Shards, 2)
	assert.Equal(t, model.ShardSize{Shard: 0, Size: "60.0 GB", Node: "n1"}, dist.Shards[0])

	require.Len(t, insights, 1)
	in := insights[0]
	assert.Equal(t, "logs-2024", in.IndexName)
	assert.Equal(t, int64(65*format.GiB), in.TotalSize)
	assert.Equal(t, int64(60*format.GiB), in.MaxShardSize)
	assert.Equal(t, int64(5*format.GiB), in.MinShardSize)
	assert.Equal(t, []string{IndexIssueOversized, IndexIssueImbalance}, in.Issues)
}

func TestAnalyzeIndices_ImbalanceThreshold(t *testing.T) {
	tests := []struct {
		name string
		a, b float64
		want bool
	}{
		{"equal", 4, 4, false},
		{"ratio_two", 4, 2, false},
		{"ratio_above_two", 4.1, 2, true},
		{"empty_shard", 1, 0, true},
		{"all_empty", 0, 0, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			shards := shardAnalysis(
				makeShard("idx", 0, model.ShardPrimary, tc.a, "n1"),
				makeShard("idx", 1, model.ShardPrimary, tc.b, "n2"),
			)
			recs, _ := AnalyzeIndices(nil, shards, DefaultEndpoint)
			assert.Equal(t, tc.want, hasRec(recs, model.SeverityInfo, "Shard Size Imbalance"))
		})
	}
}

func TestAnalyzeIndices_HotNodes(t *testing.T) {
	nodes := []model.NodeSnapshot{
		makeNode("hot", 80, 40, 10, "data"),
		makeNode("cool", 30, 40, 10, "data"),
	}
	shards := shardAnalysis(
		makeShard("metrics", 0, model.ShardPrimary, 1, "hot"),
		makeShard("metrics", 1, model.ShardPrimary, 1, "hot"),
		makeShard("metrics", 2, model.ShardPrimary, 1, "hot"),
		makeShard("metrics", 3, model.ShardPrimary, 1, "cool"),
	)

	recs, insights := AnalyzeIndices(nodes, shards, DefaultEndpoint)
	require.Len(t, recs, 1)
	r := recs[0]
	assert.Equal(t, model.SeverityWarning, r.Severity)
	assert.Equal(t, model.CategoryShardRebalancing, r.Category)
	assert.Equal(t, "Hot Nodes Detected for Index: metrics", r.Title)
	assert.Equal(t, 2, r.Priority)
	assert.Contains(t, r.Description, "high-resource nodes: hot")

	plan, ok := r.Specifics.(model.HotNodePlan)
	require.True(t, ok)
	assert.Equal(t, []model.HotNode{{NodeName: "hot", ShardCount: 3, HeapUsedPercent: 80}}, plan.HotNodes)
	require.Len(t, plan.RedistributionPlan, 3, "only shards on hot nodes are redistributed")
	for _, p := range plan.RedistributionPlan {
		assert.Equal(t, "hot", p.Current)
		assert.Equal(t, "cool", p.Suggested)
	}

	require.Len(t, insights, 1)
	assert.Equal(t, []string{IndexIssueHotNodes}, insights[0].Issues)
}

func TestAnalyzeIndices_HotNodeNeedsShardsAndHeap(t *testing.T) {
	tests := []struct {
		name   string
		heap   float64
		shards int
	}{
		{"two_shards_high_heap", 90, 2},
		{"many_shards_low_heap", 75, 5},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			nodes := []model.NodeSnapshot{makeNode("n1", tc.heap, 40, 10, "data")}
			var list []model.ShardRecord
			for i := 0; i < tc.shards; i++ {
				list = append(list, makeShard("idx", i, model.ShardPrimary, 1, "n1"))
			}
			recs, insights := AnalyzeIndices(nodes, shardAnalysis(list...), DefaultEndpoint)
			assert.Empty(t, filterCategory(recs, model.CategoryShardRebalancing))
			assert.Empty(t, insights[0].HotNodes)
		})
	}
}

func TestAnalyzeIndices_FirstAppearanceOrder(t *testing.T) {
	shards := shardAnalysis(
		makeShard("zeta", 0, model.ShardPrimary, 9, "n1"),
		makeShard("alpha", 0, model.ShardPrimary, 8, "n1"),
		makeShard("zeta", 1, model.ShardReplica, 7, "n2"),
	)
	_, insights := AnalyzeIndices(nil, shards, DefaultEndpoint)
	require.Len(t, insights, 2)
	assert.Equal(t, "zeta", insights[0].IndexName)
	assert.Equal(t, 2, insights[0].ShardCount)
	assert.Equal(t, "alpha", insights[1].IndexName)
}
