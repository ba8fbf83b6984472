package engine

import (
	"time"

	"github.com/dm/esadvisor/internal/model"
)

// Sanity bounds for delta-based rates.
const (
	minTimeDiffSeconds = 1.0
	maxRatePerSec      = 50_000_000.0
)

// clampRate returns 0 if r exceeds maxRatePerSec (counter wrap / bad data),
// otherwise returns r unchanged.
func clampRate(r float64) float64 {
	if r > maxRatePerSec {
		return 0
	}
	return r
}

// maxFloat64 returns the larger of a and b.
func maxFloat64(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// clusterTotals sums the indexing and search counters across all nodes.
func clusterTotals(snap *model.Snapshot) (indexOps, searchOps int64) {
	for _, node := range snap.NodeStats.Nodes {
		if node.Indices == nil {
			continue
		}
		indexOps += node.Indices.Indexing.IndexTotal
		searchOps += node.Indices.Search.QueryTotal
	}
	return indexOps, searchOps
}

// CalcClusterRates computes cluster-level indexing and search throughput
// from the delta between two consecutive snapshots.
//
// Returns zero PerformanceMetrics when:
//   - prev or curr is nil (first snapshot, no baseline)
//   - elapsed < minTimeDiffSeconds (interval too short, data unreliable)
func CalcClusterRates(prev, curr *model.Snapshot, elapsed time.Duration) model.PerformanceMetrics {
	if prev == nil || curr == nil || elapsed.Seconds() < minTimeDiffSeconds {
		return model.PerformanceMetrics{}
	}

	prevIndexOps, prevSearchOps := clusterTotals(prev)
	currIndexOps, currSearchOps := clusterTotals(curr)
	elapsedSec := elapsed.Seconds()

	// Counter reset protection: clamp negative deltas to zero.
	indexOpsDelta := maxFloat64(0, float64(currIndexOps-prevIndexOps))
	searchOpsDelta := maxFloat64(0, float64(currSearchOps-prevSearchOps))

	return model.PerformanceMetrics{
		IndexingRate: clampRate(indexOpsDelta / elapsedSec),
		SearchRate:   clampRate(searchOpsDelta / elapsedSec),
	}
}

// indexTotals returns each index's cumulative indexing and search counters.
func indexTotals(snap *model.Snapshot) map[string][2]int64 {
	out := map[string][2]int64{}
	if snap.IndexStats == nil {
		return out
	}
	for name, entry := range snap.IndexStats.Indices {
		var t [2]int64
		if entry.Total != nil {
			if entry.Total.Indexing != nil {
				t[0] = entry.Total.Indexing.IndexTotal
			}
			if entry.Total.Search != nil {
				t[1] = entry.Total.Search.QueryTotal
			}
		}
		out[name] = t
	}
	return out
}

// CalcIndexRates computes per-index indexing and search throughput from the
// delta between two consecutive snapshots. Indices absent from prev (newly
// created) are omitted, as is everything under the same conditions that make
// CalcClusterRates return zero or when either snapshot lacks index stats.
func CalcIndexRates(prev, curr *model.Snapshot, elapsed time.Duration) map[string]model.PerformanceMetrics {
	out := map[string]model.PerformanceMetrics{}
	if prev == nil || curr == nil || elapsed.Seconds() < minTimeDiffSeconds {
		return out
	}
	if prev.IndexStats == nil || curr.IndexStats == nil {
		return out
	}

	before := indexTotals(prev)
	elapsedSec := elapsed.Seconds()
	for name, now := range indexTotals(curr) {
		was, ok := before[name]
		if !ok {
			continue
		}
		out[name] = model.PerformanceMetrics{
			IndexingRate: clampRate(maxFloat64(0, float64(now[0]-was[0])) / elapsedSec),
			SearchRate:   clampRate(maxFloat64(0, float64(now[1]-was[1])) / elapsedSec),
		}
	}
	return out
}
