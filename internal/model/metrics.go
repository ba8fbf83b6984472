package model

// PerformanceMetrics holds cluster-level throughput derived from the delta
// between two consecutive polls.
type PerformanceMetrics struct {
	IndexingRate float64 // ops/sec
	SearchRate   float64 // ops/sec
}
