package model

// IssueType names a rule that fired for a node.
type IssueType string

const (
	IssueHighHeap     IssueType = "HIGH_HEAP_USAGE"
	IssueElevatedHeap IssueType = "ELEVATED_HEAP_USAGE"
	IssueCriticalDisk IssueType = "CRITICAL_DISK_USAGE"
	IssueHighDisk     IssueType = "HIGH_DISK_USAGE"
	IssueHighCPU      IssueType = "HIGH_CPU_USAGE"
	IssueHighLoad     IssueType = "HIGH_LOAD_AVERAGE"
)

// NodeIssue records one rule that fired for a node.
type NodeIssue struct {
	Type      IssueType              `json:"type"`
	Severity  RecommendationSeverity `json:"severity"`
	Current   string                 `json:"current"`
	Threshold string                 `json:"threshold"`
	Impact    string                 `json:"impact"`
}

// NodeInsight is the per-node output of the node rule evaluator.
type NodeInsight struct {
	NodeID        string        `json:"nodeId"`
	NodeName      string        `json:"nodeName"`
	Roles         []string      `json:"roles"`
	Issues        []NodeIssue   `json:"issues"`
	ShardCount    int           `json:"shardCount"`
	LargestShards []ShardRecord `json:"largestShards"`
}

// ImbalancedNode is a node flagged by the cluster-wide rebalancing pass.
type ImbalancedNode struct {
	NodeID            string      `json:"nodeId"`
	NodeName          string      `json:"nodeName"`
	CurrentShardCount int         `json:"currentShardCount"`
	CurrentShardSize  int64       `json:"currentShardSize"`
	ImbalanceRatio    float64     `json:"imbalanceRatio"`
	MovableCandidates []ShardMove `json:"movableCandidates"`
}

// RebalancingInsight is the output of the cluster-wide rebalancing pass.
type RebalancingInsight struct {
	AvgShardCount   float64          `json:"avgShardCount"`
	AvgShardSize    float64          `json:"avgShardSize"`
	ImbalancedNodes []ImbalancedNode `json:"imbalancedNodes"`
}

// IndexInsight summarises one index's shards from the largest-shards list.
type IndexInsight struct {
	IndexName    string    `json:"indexName"`
	TotalSize    int64     `json:"totalSize"`
	ShardCount   int       `json:"shardCount"`
	AvgShardSize float64   `json:"avgShardSize"`
	MaxShardSize int64     `json:"maxShardSize"`
	MinShardSize int64     `json:"minShardSize"`
	HotNodes     []HotNode `json:"hotNodes"`
	Issues       []string  `json:"issues"`
}

// OperationsInsight summarises pending and long-running tasks.
type OperationsInsight struct {
	PendingTasks   int            `json:"pendingTasks"`
	PendingByType  map[string]int `json:"pendingByType,omitempty"`
	HighImpactByID map[string]int `json:"highImpactByNode,omitempty"`
}

// DetailedAnalysis collects the advisors' intermediate insights.
type DetailedAnalysis struct {
	NodeInsights       []NodeInsight      `json:"nodeInsights"`
	RebalancingInsight RebalancingInsight `json:"rebalancingInsights"`
	IndexInsights      []IndexInsight     `json:"indexInsights"`
	OperationsInsight  OperationsInsight  `json:"operationsInsights"`
	MemoryContention   []string           `json:"memoryContention"`
}

// ExecutiveSummary is derived from a recommendation list and node snapshots.
type ExecutiveSummary struct {
	OverallHealth          string           `json:"overallHealth"`
	TotalNodes             int              `json:"totalNodes"`
	DataNodes              int              `json:"dataNodes"`
	MasterNodes            int              `json:"masterNodes"`
	CriticalIssues         int              `json:"criticalIssues"`
	Warnings               int              `json:"warnings"`
	AvgHeapUsage           float64          `json:"avgHeapUsage"`
	AvgDiskUsage           float64          `json:"avgDiskUsage"`
	AvgCPUUsage            float64          `json:"avgCpuUsage"`
	TopPriority            []Recommendation `json:"topPriority"`
	ActionableInsights     []string         `json:"actionableInsights"`
	NodesWithIssues        int              `json:"nodesWithIssues"`
	RebalanceOpportunities int              `json:"rebalanceOpportunities"`
	IndexOptimizations     int              `json:"indexOptimizations"`
}
