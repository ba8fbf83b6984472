package model

import "time"

const defaultHistoryCap = 60

// Sample is a single timestamped data point stored in the ring buffer.
type Sample struct {
	Timestamp      time.Time `json:"timestamp"`
	AvgHeapPercent float64   `json:"avgHeapPercent"`
	AvgCPUPercent  float64   `json:"avgCpuPercent"`
	AvgDiskPercent float64   `json:"avgDiskPercent"`
	IndexingRate   float64   `json:"indexingRate"`
	SearchRate     float64   `json:"searchRate"`
	Critical       int       `json:"critical"`
	Warnings       int       `json:"warnings"`
}

// NewSample condenses one poll's summary and rates into a history sample.
func NewSample(at time.Time, s ExecutiveSummary, rates PerformanceMetrics) Sample {
	return Sample{
		Timestamp:      at,
		AvgHeapPercent: s.AvgHeapUsage,
		AvgCPUPercent:  s.AvgCPUUsage,
		AvgDiskPercent: s.AvgDiskUsage,
		IndexingRate:   rates.IndexingRate,
		SearchRate:     rates.SearchRate,
		Critical:       s.CriticalIssues,
		Warnings:       s.Warnings,
	}
}

// SampleHistory is a fixed-size ring buffer of Samples. Its capacity is the
// lookback window used for averages. When the buffer is full, new pushes
// overwrite the oldest entry. SampleHistory is not safe for concurrent use.
type SampleHistory struct {
	buf  []Sample
	head int // index of the next write position
	size int // number of valid entries
}

// NewSampleHistory creates a SampleHistory with the given capacity.
// If capacity <= 0, the defaultHistoryCap (60) is used.
func NewSampleHistory(capacity int) *SampleHistory {
	if capacity <= 0 {
		capacity = defaultHistoryCap
	}
	return &SampleHistory{
		buf: make([]Sample, capacity),
	}
}

// Push appends a new sample to the history, overwriting the oldest if full.
func (h *SampleHistory) Push(s Sample) {
	h.buf[h.head] = s
	h.head = (h.head + 1) % len(h.buf)
	if h.size < len(h.buf) {
		h.size++
	}
}

// Len returns the number of valid entries in the history.
func (h *SampleHistory) Len() int {
	return h.size
}

// Cap returns the lookback window size.
func (h *SampleHistory) Cap() int {
	return len(h.buf)
}

// Clear resets the history to empty.
func (h *SampleHistory) Clear() {
	h.head = 0
	h.size = 0
}

// Samples returns a copy of the valid entries in chronological order.
func (h *SampleHistory) Samples() []Sample {
	out := make([]Sample, h.size)
	// oldest entry sits at (head - size + cap) % cap
	start := (h.head - h.size + len(h.buf)) % len(h.buf)
	for i := 0; i < h.size; i++ {
		out[i] = h.buf[(start+i)%len(h.buf)]
	}
	return out
}

// Values returns a slice of float64 for the named field in chronological order
// (oldest first). Valid field names: "heap", "cpu", "disk", "indexingRate",
// "searchRate". Unknown names yield zeros.
func (h *SampleHistory) Values(field string) []float64 {
	samples := h.Samples()
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = sampleField(s, field)
	}
	return out
}

// Average returns the simple mean of the named field over the window, or 0
// when the history is empty.
func (h *SampleHistory) Average(field string) float64 {
	if h.size == 0 {
		return 0
	}
	var sum float64
	for _, v := range h.Values(field) {
		sum += v
	}
	return sum / float64(h.size)
}

func sampleField(s Sample, field string) float64 {
	switch field {
	case "heap":
		return s.AvgHeapPercent
	case "cpu":
		return s.AvgCPUPercent
	case "disk":
		return s.AvgDiskPercent
	case "indexingRate":
		return s.IndexingRate
	case "searchRate":
		return s.SearchRate
	}
	return 0
}
