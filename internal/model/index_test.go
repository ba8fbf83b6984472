package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func indexNames(ms []IndexMetrics) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.Name
	}
	return out
}

func TestRankIndices(t *testing.T) {
	ms := []IndexMetrics{
		{Name: "logs", SizeBytes: 500, SearchTotal: 10, IndexingTotal: 10},
		{Name: "metrics", SizeBytes: 900, SearchTotal: 1, IndexingTotal: 2},
		{Name: "users", SizeBytes: 100, SearchTotal: 400, IndexingTotal: 5},
		{Name: "audit", SizeBytes: 500, SearchTotal: 0, IndexingTotal: 20},
	}

	r := RankIndices(ms, 3)
	assert.Equal(t, []string{"metrics", "audit", "logs"}, indexNames(r.Largest), "size desc, ties by name")
	assert.Equal(t, []string{"users", "audit", "logs"}, indexNames(r.MostActive), "activity desc, ties by name")

	// The input slice is not reordered.
	assert.Equal(t, "logs", ms[0].Name)
}

func TestRankIndices_NoLimitAndEmpty(t *testing.T) {
	ms := []IndexMetrics{{Name: "a", SizeBytes: 1}, {Name: "b", SizeBytes: 2}}
	assert.Len(t, RankIndices(ms, 0).Largest, 2)

	empty := RankIndices(nil, DefaultIndexLimit)
	require.NotNil(t, empty.Largest)
	require.NotNil(t, empty.MostActive)
	assert.Empty(t, empty.Largest)
}

func TestIndexMetrics_Activity(t *testing.T) {
	assert.Equal(t, int64(15), IndexMetrics{SearchTotal: 5, IndexingTotal: 10}.Activity())
}
