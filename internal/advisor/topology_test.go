package advisor

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dm/esadvisor/internal/model"
)

// threeMasters returns a healthy topology: three master+data nodes.
func threeMasters() []model.NodeSnapshot {
	return []model.NodeSnapshot{
		makeNode("m1", 40, 40, 40, "master", "data"),
		makeNode("m2", 40, 40, 40, "master", "data"),
		makeNode("m3", 40, 40, 40, "master", "data"),
	}
}

func health(status model.ClusterStatus, nodes int) *model.ClusterHealthSnapshot {
	return &model.ClusterHealthSnapshot{ClusterName: "test", Status: status, NumberOfNodes: nodes}
}

func TestCheckTopology_Healthy(t *testing.T) {
	recs := CheckTopology(threeMasters(), health(model.StatusGreen, 3), shardAnalysis(), &model.AllocationSnapshot{})
	assert.NotNil(t, recs)
	assert.Empty(t, recs)
}

func TestCheckTopology_StatusRed(t *testing.T) {
	recs := CheckTopology(threeMasters(), health(model.StatusRed, 3), nil, nil)
	got := filterCategory(recs, model.CategoryClusterHealth)
	require.Len(t, got, 1)
	assert.Equal(t, model.SeverityCritical, got[0].Severity)
	assert.Equal(t, 1, got[0].Priority)
	assert.Equal(t, model.ImpactCritical, got[0].Impact)
	assert.Equal(t, "Cluster Status is RED", got[0].Title)
}

func TestCheckTopology_StatusYellow(t *testing.T) {
	recs := CheckTopology(threeMasters(), health(model.StatusYellow, 3), nil, nil)
	got := filterCategory(recs, model.CategoryClusterHealth)
	require.Len(t, got, 1)
	assert.Equal(t, model.SeverityWarning, got[0].Severity)
	assert.Equal(t, 2, got[0].Priority)
}

func TestCheckTopology_NilHealthSkipsStatus(t *testing.T) {
	recs := CheckTopology(threeMasters(), nil, nil, nil)
	assert.Empty(t, recs)
}

func TestCheckTopology_InsufficientMasters(t *testing.T) {
	for _, dataNodes := range []int{0, 1, 2, 5} {
		t.Run(fmt.Sprintf("data_%d", dataNodes), func(t *testing.T) {
			nodes := []model.NodeSnapshot{
				makeNode("m1", 10, 10, 10, "master"),
				makeNode("m2", 10, 10, 10, "master"),
			}
			for i := 0; i < dataNodes; i++ {
				nodes = append(nodes, makeNode(fmt.Sprintf("d%d", i), 10, 10, 10, "data"))
			}
			recs := CheckTopology(nodes, health(model.StatusGreen, len(nodes)), nil, nil)

			var p1 []model.Recommendation
			for _, r := range filterCategory(recs, model.CategoryClusterStability) {
				if r.Priority == 1 {
					p1 = append(p1, r)
				}
			}
			require.Len(t, p1, 1)
			assert.Equal(t, "Insufficient Master Nodes", p1[0].Title)
			assert.Equal(t, model.SeverityCritical, p1[0].Severity)
			assert.Contains(t, p1[0].Description, "You have 2 master-eligible nodes")
		})
	}
}

func TestCheckTopology_SingleNode(t *testing.T) {
	node := []model.NodeSnapshot{makeNode("solo", 10, 10, 10, "master", "data")}

	recs := CheckTopology(node, health(model.StatusGreen, 1), nil, nil)
	assert.True(t, hasRec(recs, model.SeverityWarning, "Single Node Cluster"))

	// Without health the node list length is used.
	recs = CheckTopology(node, nil, nil, nil)
	assert.True(t, hasRec(recs, model.SeverityWarning, "Single Node Cluster"))

	// Health's node count wins over a partial node list.
	recs = CheckTopology(node, health(model.StatusGreen, 4), nil, nil)
	assert.False(t, hasRec(recs, model.SeverityWarning, "Single Node Cluster"))
}

func TestCheckTopology_InsufficientDataNodes(t *testing.T) {
	nodes := []model.NodeSnapshot{
		makeNode("m1", 10, 10, 10, "master", "data"),
		makeNode("m2", 10, 10, 10, "master"),
		makeNode("m3", 10, 10, 10, "master"),
	}
	recs := CheckTopology(nodes, health(model.StatusGreen, 3), nil, nil)
	require.Len(t, recs, 1)
	assert.Equal(t, "Insufficient Data Nodes", recs[0].Title)
	assert.Equal(t, model.SeverityWarning, recs[0].Severity)
	assert.Equal(t, 3, recs[0].Priority)
	assert.Contains(t, recs[0].Description, "Only 1 data node(s)")
}

func TestCheckTopology_EmptyNodeListSkipsRoleChecks(t *testing.T) {
	recs := CheckTopology(nil, health(model.StatusGreen, 3), nil, nil)
	assert.Empty(t, recs)
}

func TestCheckTopology_DiskSpread(t *testing.T) {
	tests := []struct {
		name  string
		disks []float64
		want  bool
	}{
		{"spread_25", []float64{30, 55, 40}, true},
		{"spread_20", []float64{30, 50}, false},
		{"even", []float64{40, 41, 42}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			nodes := threeMasters()
			for i := range nodes {
				nodes[i].IsData = false
			}
			for i, d := range tc.disks {
				nodes = append(nodes, makeNode(fmt.Sprintf("d%d", i), 10, d, 10, "data"))
			}
			recs := CheckTopology(nodes, nil, nil, nil)
			got := filterCategory(recs, model.CategoryBalance)
			if !tc.want {
				assert.Empty(t, got)
				return
			}
			require.Len(t, got, 1)
			assert.Equal(t, "Unbalanced Disk Usage Across Data Nodes", got[0].Title)
			assert.Equal(t, 3, got[0].Priority)
			assert.Contains(t, got[0].Description, "(30.0% to 55.0%)")
		})
	}
}

func TestCheckTopology_DiskSpreadIgnoresNonDataNodes(t *testing.T) {
	nodes := []model.NodeSnapshot{
		makeNode("m1", 10, 99, 10, "master"),
		makeNode("m2", 10, 1, 10, "master"),
		makeNode("m3", 10, 50, 10, "master"),
		makeNode("d1", 10, 40, 10, "data"),
		makeNode("d2", 10, 45, 10, "data"),
	}
	recs := CheckTopology(nodes, nil, nil, nil)
	assert.Empty(t, filterCategory(recs, model.CategoryBalance))
}

func TestCheckTopology_UnassignedShards(t *testing.T) {
	shards := shardAnalysis()
	for i := 0; i < 7; i++ {
		shards.UnassignedShards = append(shards.UnassignedShards, model.ShardRecord{
			Index: "logs", Shard: i, Role: model.ShardReplica, State: model.ShardStateUnassigned, UnassignedReason: "NODE_LEFT",
		})
	}
	recs := CheckTopology(threeMasters(), nil, shards, nil)
	got := filterCategory(recs, model.CategoryShards)
	require.Len(t, got, 1)
	assert.Equal(t, model.SeverityCritical, got[0].Severity)
	assert.Equal(t, 1, got[0].Priority)
	assert.Contains(t, got[0].Description, "7 shards are unassigned")
	detail, ok := got[0].Specifics.(model.UnassignedDetail)
	require.True(t, ok)
	assert.Len(t, detail.Shards, 5)
}

func TestCheckTopology_Watermarks(t *testing.T) {
	alloc := &model.AllocationSnapshot{NodeAllocations: []model.NodeAllocation{
		{Node: "full", DiskPercent: 96},
		{Node: "near", DiskPercent: 90},
		{Node: "edge", DiskPercent: 85},
		{Node: "fine", DiskPercent: 20},
	}}
	recs := CheckTopology(threeMasters(), nil, nil, alloc)
	got := filterCategory(recs, model.CategoryStorage)
	require.Len(t, got, 2)
	assert.Equal(t, "Node full Exceeds High Watermark", got[0].Title)
	assert.Equal(t, model.SeverityCritical, got[0].Severity)
	assert.Equal(t, 1, got[0].Priority)
	assert.Equal(t, "Node near Approaching High Watermark", got[1].Title)
	assert.Equal(t, model.SeverityWarning, got[1].Severity)
	assert.Equal(t, 2, got[1].Priority)
}

func TestCheckTopology_LargeShards(t *testing.T) {
	shards := shardAnalysis(
		makeShard("big", 0, model.ShardPrimary, 80, "m1"),
		makeShard("big", 1, model.ShardPrimary, 75, "m2"),
		makeShard("big", 2, model.ShardPrimary, 70, "m3"),
		makeShard("big", 3, model.ShardPrimary, 65, "m1"),
		makeShard("big", 4, model.ShardPrimary, 60, "m2"),
		makeShard("big", 5, model.ShardPrimary, 55, "m3"),
		makeShard("small", 0, model.ShardPrimary, 50, "m1"),
	)
	recs := CheckTopology(threeMasters(), nil, shards, nil)
	got := filterCategory(recs, model.CategoryShards)
	require.Len(t, got, 1)
	assert.Equal(t, "Large Shards Detected", got[0].Title)
	assert.Equal(t, model.SeverityWarning, got[0].Severity)
	assert.Equal(t, model.ImpactMedium, got[0].Impact)
	assert.Equal(t, 3, got[0].Priority)
	assert.Contains(t, got[0].Description, "6 shards are larger than 50GB")
	detail, ok := got[0].Specifics.(model.LargeShardDetail)
	require.True(t, ok)
	require.Len(t, detail.Shards, 5)
	assert.Equal(t, 0, detail.Shards[0].Shard)
}

func TestCheckTopology_ShardAtThresholdIsNotLarge(t *testing.T) {
	shards := shardAnalysis(makeShard("edge", 0, model.ShardPrimary, 50, "m1"))
	recs := CheckTopology(threeMasters(), nil, shards, nil)
	assert.Empty(t, filterCategory(recs, model.CategoryShards))
}

func TestCheckTopology_UnevenShardDistribution(t *testing.T) {
	cases := []struct {
		name string
		dist map[string]int
		want bool
	}{
		{"skewed", map[string]int{"m1": 10, "m2": 16}, true},
		{"at ratio", map[string]int{"m1": 10, "m2": 15}, false},
		{"single node", map[string]int{"m1": 100}, false},
		{"empty node", map[string]int{"m1": 0, "m2": 1}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			shards := shardAnalysis()
			shards.ShardDistribution = tc.dist
			got := filterCategory(CheckTopology(threeMasters(), nil, shards, nil), model.CategoryBalance)
			if !tc.want {
				assert.Empty(t, got)
				return
			}
			require.Len(t, got, 1)
			assert.Equal(t, "Uneven Shard Distribution", got[0].Title)
			assert.Equal(t, model.SeverityInfo, got[0].Severity)
			assert.Equal(t, model.ImpactLow, got[0].Impact)
			assert.Equal(t, 4, got[0].Priority)
		})
	}
}
