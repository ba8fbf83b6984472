package model

import (
	"slices"
	"sort"
	"time"
)

// Default thresholds for ProblemNodes.
const (
	DefaultProblemCPUPercent  = 80
	DefaultProblemHeapPercent = 85
)

// NodeSample is one node's gauges at one poll.
type NodeSample struct {
	Timestamp        time.Time `json:"timestamp"`
	CPUUsagePercent  float64   `json:"cpuUsage"`
	HeapUsedPercent  float64   `json:"heapUsedPercent"`
	DiskUsagePercent float64   `json:"diskUsage"`
	LoadAverage1m    float64   `json:"loadAverage1m"`
}

// NodeAverage is a node's mean gauges over the samples kept for it.
type NodeAverage struct {
	NodeID         string    `json:"nodeId"`
	NodeName       string    `json:"nodeName"`
	Roles          []string  `json:"nodeRoles"`
	IsMaster       bool      `json:"isMaster"`
	IsData         bool      `json:"isData"`
	AvgCPU         float64   `json:"avgCpu"`
	AvgHeapPercent float64   `json:"avgHeapPercent"`
	AvgDisk        float64   `json:"avgDisk"`
	AvgLoad1m      float64   `json:"avgLoad1m"`
	SampleCount    int       `json:"sampleCount"`
	LastSeen       time.Time `json:"lastSeen"`
}

type nodeSeries struct {
	node    NodeSnapshot
	samples []NodeSample
}

// NodeHistory keeps the last capacity samples of every node seen in the most
// recent poll. A node missing from a poll is forgotten. NodeHistory is not
// safe for concurrent use.
type NodeHistory struct {
	capacity int
	nodes    map[string]*nodeSeries
}

// NewNodeHistory creates a NodeHistory keeping capacity samples per node.
// If capacity <= 0, the defaultHistoryCap (60) is used.
func NewNodeHistory(capacity int) *NodeHistory {
	if capacity <= 0 {
		capacity = defaultHistoryCap
	}
	return &NodeHistory{capacity: capacity, nodes: map[string]*nodeSeries{}}
}

// Push records one poll's node snapshots taken at at.
func (h *NodeHistory) Push(at time.Time, nodes []NodeSnapshot) {
	seen := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		seen[n.NodeID] = true
		s, ok := h.nodes[n.NodeID]
		if !ok {
			s = &nodeSeries{}
			h.nodes[n.NodeID] = s
		}
		s.node = n
		s.samples = append(s.samples, NodeSample{
			Timestamp:        at,
			CPUUsagePercent:  n.CPUUsagePercent,
			HeapUsedPercent:  n.HeapUsedPercent,
			DiskUsagePercent: n.DiskUsagePercent,
			LoadAverage1m:    n.LoadAverage1m,
		})
		if over := len(s.samples) - h.capacity; over > 0 {
			s.samples = slices.Delete(s.samples, 0, over)
		}
	}
	for id := range h.nodes {
		if !seen[id] {
			delete(h.nodes, id)
		}
	}
}

// Len returns the number of tracked nodes.
func (h *NodeHistory) Len() int {
	return len(h.nodes)
}

// Samples returns a copy of one node's samples, oldest first.
func (h *NodeHistory) Samples(nodeID string) []NodeSample {
	s, ok := h.nodes[nodeID]
	if !ok {
		return nil
	}
	return slices.Clone(s.samples)
}

// Averages returns every tracked node's window averages sorted by node name,
// then node id.
func (h *NodeHistory) Averages() []NodeAverage {
	out := make([]NodeAverage, 0, len(h.nodes))
	for _, s := range h.nodes {
		out = append(out, average(s))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].NodeName != out[j].NodeName {
			return out[i].NodeName < out[j].NodeName
		}
		return out[i].NodeID < out[j].NodeID
	})
	return out
}

func average(s *nodeSeries) NodeAverage {
	a := NodeAverage{
		NodeID:      s.node.NodeID,
		NodeName:    s.node.NodeName,
		Roles:       s.node.Roles,
		IsMaster:    s.node.IsMaster,
		IsData:      s.node.IsData,
		SampleCount: len(s.samples),
	}
	if len(s.samples) == 0 {
		return a
	}
	for _, smp := range s.samples {
		a.AvgCPU += smp.CPUUsagePercent
		a.AvgHeapPercent += smp.HeapUsedPercent
		a.AvgDisk += smp.DiskUsagePercent
		a.AvgLoad1m += smp.LoadAverage1m
		if smp.Timestamp.After(a.LastSeen) {
			a.LastSeen = smp.Timestamp
		}
	}
	n := float64(len(s.samples))
	a.AvgCPU /= n
	a.AvgHeapPercent /= n
	a.AvgDisk /= n
	a.AvgLoad1m /= n
	return a
}

// ProblemNodes keeps the averages whose CPU exceeds cpuThreshold or whose
// heap exceeds heapThreshold, ordered by average CPU then average heap,
// both descending.
func ProblemNodes(avgs []NodeAverage, cpuThreshold, heapThreshold float64) []NodeAverage {
	out := []NodeAverage{}
	for _, a := range avgs {
		if a.AvgCPU > cpuThreshold || a.AvgHeapPercent > heapThreshold {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].AvgCPU != out[j].AvgCPU {
			return out[i].AvgCPU > out[j].AvgCPU
		}
		return out[i].AvgHeapPercent > out[j].AvgHeapPercent
	})
	return out
}
