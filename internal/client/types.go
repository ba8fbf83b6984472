package client

// ClusterHealth represents the response from /_cluster/health.
type ClusterHealth struct {
	ClusterName         string `json:"cluster_name"`
	Status              string `json:"status"`
	NumberOfNodes       int    `json:"number_of_nodes"`
	NumberOfDataNodes   int    `json:"number_of_data_nodes"`
	ActivePrimaryShards int    `json:"active_primary_shards"`
	ActiveShards        int    `json:"active_shards"`
	RelocatingShards    int    `json:"relocating_shards"`
	InitializingShards  int    `json:"initializing_shards"`
	UnassignedShards    int    `json:"unassigned_shards"`
}

// NodeStatsResponse represents the response from /_nodes/stats.
type NodeStatsResponse struct {
	Nodes map[string]NodeStats `json:"nodes"`
}

// NodeStats holds per-node runtime data. Sections are pointers because a
// node may omit any of them.
type NodeStats struct {
	Name    string            `json:"name"`
	Host    string            `json:"host"`
	IP      string            `json:"ip"`
	Roles   []string          `json:"roles"`
	Indices *NodeIndicesStats `json:"indices,omitempty"`
	OS      *NodeOSStats      `json:"os,omitempty"`
	JVM     *NodeJVMStats     `json:"jvm,omitempty"`
	FS      *NodeFSStats      `json:"fs,omitempty"`
	Process *NodeProcessStats `json:"process,omitempty"`
}

// NodeIndicesStats holds indexing and search counters for a node.
type NodeIndicesStats struct {
	Indexing struct {
		IndexTotal int64 `json:"index_total"`
	} `json:"indexing"`
	Search struct {
		QueryTotal int64 `json:"query_total"`
	} `json:"search"`
}

// LoadAverage is the os.cpu.load_average object. It is absent on Windows.
type LoadAverage struct {
	OneMinute      float64 `json:"1m"`
	FiveMinutes    float64 `json:"5m"`
	FifteenMinutes float64 `json:"15m"`
}

// NodeOSStats holds OS-level metrics.
type NodeOSStats struct {
	CPU struct {
		Percent     int          `json:"percent"`
		LoadAverage *LoadAverage `json:"load_average,omitempty"`
	} `json:"cpu"`
}

// NodeJVMStats holds JVM heap metrics.
type NodeJVMStats struct {
	Mem struct {
		HeapUsedInBytes int64 `json:"heap_used_in_bytes"`
		HeapMaxInBytes  int64 `json:"heap_max_in_bytes"`
	} `json:"mem"`
}

// NodeFSStats holds filesystem metrics.
type NodeFSStats struct {
	Total struct {
		TotalInBytes     int64 `json:"total_in_bytes"`
		AvailableInBytes int64 `json:"available_in_bytes"`
	} `json:"total"`
}

// NodeProcessStats holds file descriptor usage.
type NodeProcessStats struct {
	OpenFileDescriptors int64 `json:"open_file_descriptors"`
	MaxFileDescriptors  int64 `json:"max_file_descriptors"`
}

// NodeInfoResponse represents the response from /_nodes.
type NodeInfoResponse struct {
	Nodes map[string]NodeInfo `json:"nodes"`
}

// NodeInfo holds the static attributes of a node.
type NodeInfo struct {
	Name    string   `json:"name"`
	Host    string   `json:"host"`
	IP      string   `json:"ip"`
	Version string   `json:"version"`
	Roles   []string `json:"roles"`
}

// CatNode represents a single row from /_cat/nodes.
type CatNode struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Uptime  string `json:"uptime"`
	Version string `json:"version"`
}

// CatShard represents a single row from /_cat/shards. Cat APIs return every
// column as a string; empty columns may be null.
type CatShard struct {
	Index            string `json:"index"`
	Shard            string `json:"shard"`
	PriRep           string `json:"prirep"`
	State            string `json:"state"`
	Docs             string `json:"docs"`
	Store            string `json:"store"`
	Node             string `json:"node"`
	ID               string `json:"id"`
	UnassignedReason string `json:"unassigned.reason"`
}

// CatAllocation represents a single row from /_cat/allocation, requested
// with bytes=b so the disk columns are plain byte counts.
type CatAllocation struct {
	Shards      string `json:"shards"`
	DiskIndices string `json:"disk.indices"`
	DiskUsed    string `json:"disk.used"`
	DiskAvail   string `json:"disk.avail"`
	DiskTotal   string `json:"disk.total"`
	DiskPercent string `json:"disk.percent"`
	Host        string `json:"host"`
	IP          string `json:"ip"`
	Node        string `json:"node"`
}

// PendingTasksResponse represents the response from /_cluster/pending_tasks.
type PendingTasksResponse struct {
	Tasks []PendingTask `json:"tasks"`
}

// PendingTask is one queued cluster state update.
type PendingTask struct {
	InsertOrder       int64  `json:"insert_order"`
	Priority          string `json:"priority"`
	Source            string `json:"source"`
	TimeInQueueMillis int64  `json:"time_in_queue_millis"`
}

// TaskListResponse represents the response from /_tasks, grouped by node.
type TaskListResponse struct {
	Nodes map[string]TaskNode `json:"nodes"`
}

// TaskNode holds the running tasks of one node, keyed by task id.
type TaskNode struct {
	Name  string          `json:"name"`
	Tasks map[string]Task `json:"tasks"`
}

// Task is one running task.
type Task struct {
	Node               string `json:"node"`
	ID                 int64  `json:"id"`
	Action             string `json:"action"`
	Description        string `json:"description"`
	RunningTimeInNanos int64  `json:"running_time_in_nanos"`
	Cancellable        bool   `json:"cancellable"`
}

// IndexStatsResponse represents the response from /_stats at index level.
type IndexStatsResponse struct {
	Indices map[string]IndexStatEntry `json:"indices"`
}

// IndexStatEntry holds per-index statistics split by primaries and total.
type IndexStatEntry struct {
	Primaries *IndexStatShard `json:"primaries,omitempty"`
	Total     *IndexStatShard `json:"total,omitempty"`
}

// IndexStatShard holds the aggregated shard statistics of one index.
type IndexStatShard struct {
	Docs     *DocsStats     `json:"docs,omitempty"`
	Store    *StoreStats    `json:"store,omitempty"`
	Indexing *IndexingStats `json:"indexing,omitempty"`
	Search   *SearchStats   `json:"search,omitempty"`
	Segments *SegmentsStats `json:"segments,omitempty"`
}

// DocsStats holds document counters.
type DocsStats struct {
	Count   int64 `json:"count"`
	Deleted int64 `json:"deleted"`
}

// StoreStats holds storage size.
type StoreStats struct {
	SizeInBytes int64 `json:"size_in_bytes"`
}

// IndexingStats holds indexing operation counters.
type IndexingStats struct {
	IndexTotal        int64 `json:"index_total"`
	IndexTimeInMillis int64 `json:"index_time_in_millis"`
}

// SearchStats holds search query counters.
type SearchStats struct {
	QueryTotal        int64 `json:"query_total"`
	QueryTimeInMillis int64 `json:"query_time_in_millis"`
}

// SegmentsStats holds segment counters. memory_in_bytes is reported as 0 by
// clusters that no longer track segment heap usage.
type SegmentsStats struct {
	Count         int64 `json:"count"`
	MemoryInBytes int64 `json:"memory_in_bytes"`
}

// CatRecovery represents a single row from /_cat/recovery, requested with
// bytes=b.
type CatRecovery struct {
	Index          string `json:"index"`
	Shard          string `json:"shard"`
	Time           string `json:"time"`
	Type           string `json:"type"`
	Stage          string `json:"stage"`
	SourceHost     string `json:"source_host"`
	SourceNode     string `json:"source_node"`
	TargetHost     string `json:"target_host"`
	TargetNode     string `json:"target_node"`
	Repository     string `json:"repository"`
	Snapshot       string `json:"snapshot"`
	FilesPercent   string `json:"files_percent"`
	FilesTotal     string `json:"files_total"`
	BytesRecovered string `json:"bytes_recovered"`
	BytesPercent   string `json:"bytes_percent"`
	BytesTotal     string `json:"bytes_total"`
	TranslogOps    string `json:"translog_ops"`
	TranslogPct    string `json:"translog_ops_percent"`
}
