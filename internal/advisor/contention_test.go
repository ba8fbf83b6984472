package advisor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dm/esadvisor/internal/model"
)

func TestCheckContention(t *testing.T) {
	tests := []struct {
		name  string
		heaps []float64
		want  bool
	}{
		{"empty", nil, false},
		{"half", []float64{80, 10}, false},
		{"edge_75", []float64{75, 75, 75}, false},
		{"majority", []float64{80, 90, 10}, true},
		{"all", []float64{76, 77, 78, 79}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var nodes []model.NodeSnapshot
			for i, h := range tc.heaps {
				nodes = append(nodes, makeNode(string(rune('a'+i)), h, 10, 10, "data"))
			}
			recs, pressured := CheckContention(nodes)
			assert.NotNil(t, recs)
			if !tc.want {
				assert.Empty(t, recs)
				assert.Empty(t, pressured)
				return
			}
			require.Len(t, recs, 1, "fires at most once per pass")
			assert.Equal(t, model.SeverityCritical, recs[0].Severity)
			assert.Equal(t, model.CategoryClusterScaling, recs[0].Category)
			assert.Equal(t, 1, recs[0].Priority)
		})
	}
}

func TestCheckContention_ScalingPlan(t *testing.T) {
	nodes := []model.NodeSnapshot{
		makeNode("a", 80, 10, 10, "data"),
		makeNode("b", 90, 10, 10, "data"),
		makeNode("c", 95, 10, 10, "data"),
		makeNode("d", 10, 10, 10, "data"),
	}
	recs, pressured := CheckContention(nodes)
	require.Len(t, recs, 1)
	assert.Equal(t, []string{"a", "b", "c"}, pressured)
	assert.Equal(t, "3/4 nodes show high memory usage. This indicates cluster-wide memory pressure.", recs[0].Description)

	plan, ok := recs[0].Specifics.(model.ScalingPlan)
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b", "c"}, plan.AffectedNodes)
	assert.Equal(t, []string{
		"Add 2 more data nodes",
		"Increase memory by 50% on existing nodes",
		"Implement data tiering (hot/warm/cold)",
	}, plan.ScalingOptions)
}
