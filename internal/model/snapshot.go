package model

import (
	"time"

	"github.com/dm/esadvisor/internal/client"
)

// Snapshot holds the raw results of a single poll cycle. The optional
// sections (Allocation, PendingTasks, Tasks, IndexStats, Recovery) are nil
// when their endpoint failed or is unsupported by the cluster.
type Snapshot struct {
	Health       client.ClusterHealth
	NodeStats    client.NodeStatsResponse
	NodeInfo     client.NodeInfoResponse
	CatNodes     []client.CatNode
	Shards       []client.CatShard
	Allocation   []client.CatAllocation
	PendingTasks *client.PendingTasksResponse
	Tasks        *client.TaskListResponse
	IndexStats   *client.IndexStatsResponse
	Recovery     []client.CatRecovery
	FetchedAt    time.Time
}

// NodeSnapshot is one node's current stats, derived from node stats, node
// info and cat nodes. Missing gauges are 0.
type NodeSnapshot struct {
	NodeID   string   `json:"nodeId"`
	NodeName string   `json:"nodeName"`
	Roles    []string `json:"nodeRoles"`
	IsMaster bool     `json:"isMaster"`
	IsData   bool     `json:"isData"`
	IsIngest bool     `json:"isIngest"`

	CPUUsagePercent    float64 `json:"cpuUsage"`
	HeapUsedPercent    float64 `json:"heapUsedPercent"`
	HeapUsedBytes      int64   `json:"heapUsed"`
	HeapMaxBytes       int64   `json:"heapMax"`
	DiskUsagePercent   float64 `json:"diskUsage"`
	DiskTotalBytes     int64   `json:"diskTotal"`
	DiskUsedBytes      int64   `json:"diskUsed"`
	DiskAvailableBytes int64   `json:"diskAvailable"`

	LoadAverage1m  float64 `json:"loadAverage1m"`
	LoadAverage5m  float64 `json:"loadAverage5m"`
	LoadAverage15m float64 `json:"loadAverage15m"`

	OpenFileDescriptors int64 `json:"openFileDescriptors"`
	MaxFileDescriptors  int64 `json:"maxFileDescriptors"`

	// Cumulative counters, not per-second rates.
	IndexingTotal int64 `json:"indexingRate"`
	SearchTotal   int64 `json:"searchRate"`

	Uptime  string `json:"uptime"`
	Version string `json:"version"`
}

// ShardRole is the replication role of a shard copy.
type ShardRole string

const (
	ShardPrimary ShardRole = "primary"
	ShardReplica ShardRole = "replica"
)

// ShardStateUnassigned is the cat shards state of a shard with no node.
const ShardStateUnassigned = "UNASSIGNED"

// ShardRecord is one shard copy's identity and placement.
type ShardRecord struct {
	Index            string    `json:"index"`
	Shard            int       `json:"shard"`
	Role             ShardRole `json:"prirep"`
	State            string    `json:"state"`
	Docs             int64     `json:"docs"`
	Store            string    `json:"store,omitempty"`
	StoreBytes       int64     `json:"storeByte"`
	Node             string    `json:"node,omitempty"`
	NodeID           string    `json:"nodeId,omitempty"`
	UnassignedReason string    `json:"unassignedReason,omitempty"`
}

// ShardAnalysis is the aggregate view over all shard records of one poll.
type ShardAnalysis struct {
	LargestShards     []ShardRecord  `json:"largestShards"`
	UnassignedShards  []ShardRecord  `json:"unassignedShards"`
	ShardDistribution map[string]int `json:"shardDistribution"`
	IndexShardCounts  map[string]int `json:"indexShardCounts"`
}

// NodeAllocation is one row of /_cat/allocation.
type NodeAllocation struct {
	Node             string  `json:"node"`
	Shards           int     `json:"shards"`
	DiskIndicesBytes int64   `json:"diskIndices"`
	DiskUsedBytes    int64   `json:"diskUsed"`
	DiskAvailBytes   int64   `json:"diskAvail"`
	DiskTotalBytes   int64   `json:"diskTotal"`
	DiskPercent      float64 `json:"diskPercent"`
	Host             string  `json:"host"`
	IP               string  `json:"ip"`
}

// ShardCounters are the cluster-wide shard counters reported by cluster health.
type ShardCounters struct {
	ActivePrimaryShards int `json:"activePrimaryShards"`
	ActiveShards        int `json:"activeShards"`
	RelocatingShards    int `json:"relocatingShards"`
	InitializingShards  int `json:"initializingShards"`
	UnassignedShards    int `json:"unassignedShards"`
}

// AllocationSnapshot combines per-node disk allocation with cluster shard counters.
type AllocationSnapshot struct {
	NodeAllocations   []NodeAllocation `json:"nodeAllocations"`
	ClusterShardStats ShardCounters    `json:"clusterShardStats"`
}

// ClusterStatus is the cluster health colour.
type ClusterStatus string

const (
	StatusGreen  ClusterStatus = "green"
	StatusYellow ClusterStatus = "yellow"
	StatusRed    ClusterStatus = "red"
)

// ClusterHealthSnapshot is the subset of /_cluster/health the advisors use.
type ClusterHealthSnapshot struct {
	ClusterName   string        `json:"clusterName"`
	Status        ClusterStatus `json:"status"`
	NumberOfNodes int           `json:"numberOfNodes"`
	DataNodes     int           `json:"numberOfDataNodes"`
	ShardCounters
}

// PendingTask is one entry of /_cluster/pending_tasks.
type PendingTask struct {
	InsertOrder     int64  `json:"insertOrder"`
	Priority        string `json:"priority"`
	Source          string `json:"source"`
	TimeInQueueMill int64  `json:"timeInQueueMillis"`
}

// RunningTask is one entry of the /_tasks list.
type RunningTask struct {
	ID          string        `json:"id"`
	NodeID      string        `json:"nodeId"`
	Action      string        `json:"action"`
	Description string        `json:"description,omitempty"`
	RunningTime time.Duration `json:"runningTime"`
	Cancellable bool          `json:"cancellable"`
}

// TaskSummary groups the running tasks of a poll by node id.
type TaskSummary struct {
	ByNode map[string][]RunningTask `json:"byNode"`
}
