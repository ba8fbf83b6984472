package model

import "slices"

// DefaultIndexLimit is the length of the largest and most-active index lists.
const DefaultIndexLimit = 10

// IndexMetrics is one index's entry from the index stats API. Size and docs
// count primaries only; the operation counters and segment memory cover all
// copies. Counters are cumulative, not per-second rates.
type IndexMetrics struct {
	Name               string `json:"indexName"`
	SizeBytes          int64  `json:"sizeBytes"`
	TotalSizeBytes     int64  `json:"totalSizeBytes"`
	DocsCount          int64  `json:"docsCount"`
	SearchTotal        int64  `json:"searchTotal"`
	IndexingTotal      int64  `json:"indexingTotal"`
	SegmentMemoryBytes int64  `json:"memoryUsage"`
}

// Activity is the index's combined search and indexing operation count.
func (m IndexMetrics) Activity() int64 {
	return m.SearchTotal + m.IndexingTotal
}

// IndexRanking holds the largest and the most active indices of one poll.
type IndexRanking struct {
	Largest    []IndexMetrics `json:"largest"`
	MostActive []IndexMetrics `json:"mostActive"`
}

// RankIndices orders ms by primary size and by activity, each descending
// with ties broken by name, and keeps at most limit entries per list. A
// non-positive limit keeps every index.
func RankIndices(ms []IndexMetrics, limit int) IndexRanking {
	return IndexRanking{
		Largest:    topIndices(ms, limit, func(m IndexMetrics) int64 { return m.SizeBytes }),
		MostActive: topIndices(ms, limit, IndexMetrics.Activity),
	}
}

func topIndices(ms []IndexMetrics, limit int, key func(IndexMetrics) int64) []IndexMetrics {
	out := slices.Clone(ms)
	if out == nil {
		out = []IndexMetrics{}
	}
	slices.SortStableFunc(out, func(a, b IndexMetrics) int {
		ka, kb := key(a), key(b)
		switch {
		case ka > kb:
			return -1
		case ka < kb:
			return 1
		}
		if a.Name < b.Name {
			return -1
		}
		if a.Name > b.Name {
			return 1
		}
		return 0
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Recovery is one in-flight shard recovery.
type Recovery struct {
	Index          string  `json:"index"`
	Shard          int     `json:"shard"`
	Time           string  `json:"time"`
	Type           string  `json:"type"`
	Stage          string  `json:"stage"`
	SourceHost     string  `json:"sourceHost,omitempty"`
	SourceNode     string  `json:"sourceNode,omitempty"`
	TargetHost     string  `json:"targetHost"`
	TargetNode     string  `json:"targetNode"`
	Repository     string  `json:"repository,omitempty"`
	Snapshot       string  `json:"snapshot,omitempty"`
	FilesPercent   float64 `json:"filesPercent"`
	FilesTotal     int64   `json:"filesTotal"`
	BytesRecovered int64   `json:"bytesRecovered"`
	BytesPercent   float64 `json:"bytesPercent"`
	BytesTotal     int64   `json:"bytesTotal"`
	TranslogOps    int64   `json:"translogOps"`
	TranslogPct    float64 `json:"translogOpsPercent"`
}
