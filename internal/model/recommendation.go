package model

// RecommendationSeverity indicates the urgency level of a recommendation.
type RecommendationSeverity string

const (
	SeverityCritical RecommendationSeverity = "CRITICAL"
	SeverityWarning  RecommendationSeverity = "WARNING"
	SeverityInfo     RecommendationSeverity = "INFO"
)

// RecommendationCategory groups related recommendations.
type RecommendationCategory string

const (
	CategoryMemory            RecommendationCategory = "MEMORY"
	CategoryStorage           RecommendationCategory = "STORAGE"
	CategoryCPU               RecommendationCategory = "CPU"
	CategoryPerformance       RecommendationCategory = "PERFORMANCE"
	CategoryShards            RecommendationCategory = "SHARDS"
	CategoryShardRebalancing  RecommendationCategory = "SHARD_REBALANCING"
	CategoryClusterStability  RecommendationCategory = "CLUSTER_STABILITY"
	CategoryClusterHealth     RecommendationCategory = "CLUSTER_HEALTH"
	CategoryBalance           RecommendationCategory = "BALANCE"
	CategoryIndexOptimization RecommendationCategory = "INDEX_OPTIMIZATION"
	CategoryOperations        RecommendationCategory = "OPERATIONS"
	CategoryClusterScaling    RecommendationCategory = "CLUSTER_SCALING"
)

// Impact estimates how much a finding affects the cluster.
type Impact string

const (
	ImpactLow      Impact = "LOW"
	ImpactMedium   Impact = "MEDIUM"
	ImpactHigh     Impact = "HIGH"
	ImpactCritical Impact = "CRITICAL"
)

// Recommendation is a single actionable suggestion derived from cluster state.
// Priority 1 is the most urgent. Specifics holds one of the *Plan / *Detail
// types below, or nil.
type Recommendation struct {
	Severity    RecommendationSeverity `json:"type"`
	Category    RecommendationCategory `json:"category"`
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	Impact      Impact                 `json:"impact"`
	Action      string                 `json:"action"`
	Priority    int                    `json:"priority"`
	NodeID      string                 `json:"nodeId,omitempty"`
	Specifics   any                    `json:"specifics,omitempty"`
}

// ShardMove pairs a shard on a source node with a suggested target node.
type ShardMove struct {
	Index           string    `json:"index"`
	Shard           int       `json:"shard"`
	Role            ShardRole `json:"prirep"`
	Store           string    `json:"store,omitempty"`
	StoreBytes      int64     `json:"storeByte"`
	SourceNode      string    `json:"node"`
	SourceNodeID    string    `json:"nodeId"`
	SuggestedTarget string    `json:"suggestedTarget"`
	TargetNodeID    string    `json:"targetNodeId"`
	ExpectedBenefit string    `json:"expectedBenefit,omitempty"`
	Reason          string    `json:"reason,omitempty"`
}

// ShardMovePlan is attached to heap-driven rebalancing recommendations.
type ShardMovePlan struct {
	ShardsToMove          []ShardMove `json:"shardsToMove"`
	ExpectedHeapReduction float64     `json:"expectedHeapReduction"`
	Commands              []string    `json:"commands"`
}

// RebalancePlan is attached to shard-count/size imbalance recommendations.
type RebalancePlan struct {
	Moves               []ShardMove `json:"rebalancePlan"`
	ExpectedImprovement string      `json:"expectedImprovement"`
	Commands            []string    `json:"commands"`
}

// HeapResize suggests a larger JVM heap.
type HeapResize struct {
	CurrentHeap   int64    `json:"currentHeap"`
	SuggestedHeap int64    `json:"suggestedHeap"`
	Commands      []string `json:"commands"`
}

// CPUBreakdown summarises what a CPU-bound node is doing.
type CPUBreakdown struct {
	IndexingTotal int64    `json:"indexing"`
	SearchTotal   int64    `json:"searching"`
	LoadAverage   float64  `json:"loadAverage"`
	Optimizations []string `json:"optimizations"`
}

// ReindexPlan suggests a new primary shard count for an index.
type ReindexPlan struct {
	CurrentPrimaryShards   int    `json:"currentPrimaryShards"`
	SuggestedPrimaryShards int    `json:"suggestedPrimaryShards"`
	ReindexCommand         string `json:"reindexCommand"`
}

// ShardSize is one entry of a per-index shard size breakdown.
type ShardSize struct {
	Shard int    `json:"shard"`
	Size  string `json:"size"`
	Node  string `json:"node"`
}

// ShardSizeDistribution is attached to shard size imbalance recommendations.
type ShardSizeDistribution struct {
	Shards []ShardSize `json:"shardSizeDistribution"`
}

// HotNode is a node carrying several shards of one index under heap pressure.
type HotNode struct {
	NodeName        string  `json:"nodeName"`
	ShardCount      int     `json:"shardCount"`
	HeapUsedPercent float64 `json:"heapUsage"`
}

// Redistribution suggests moving one shard away from its current node.
type Redistribution struct {
	Index     string `json:"index"`
	Shard     int    `json:"shard"`
	Current   string `json:"current"`
	Suggested string `json:"suggested"`
	Reason    string `json:"reason"`
}

// HotNodePlan is attached to hot node recommendations.
type HotNodePlan struct {
	HotNodes           []HotNode        `json:"hotNodes"`
	RedistributionPlan []Redistribution `json:"redistributionPlan"`
}

// ScalingPlan is attached to cluster-wide scaling recommendations.
type ScalingPlan struct {
	AffectedNodes  []string `json:"affectedNodes"`
	ScalingOptions []string `json:"scalingOptions"`
}

// UnassignedDetail lists a sample of unassigned shards.
type UnassignedDetail struct {
	Shards []ShardRecord `json:"details"`
}

// LargeShardDetail lists the shards above the large-shard threshold.
type LargeShardDetail struct {
	Shards []ShardRecord `json:"largeShards"`
}

// PendingTaskBreakdown counts pending cluster tasks by source.
type PendingTaskBreakdown struct {
	PendingTaskTypes map[string]int `json:"pendingTaskTypes"`
	Recommendations  []string       `json:"recommendations"`
}

// OperationsDetail lists long-running tasks on one node.
type OperationsDetail struct {
	Operations    []RunningTask `json:"operations"`
	Optimizations []string      `json:"optimizations"`
}
