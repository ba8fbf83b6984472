package client

import (
	"context"
	"fmt"
	"time"

	"github.com/elastic/go-elasticsearch/v8/esapi"
)

var (
	nodeStatsMetrics = []string{"jvm", "os", "fs", "process", "indices"}
	catNodeColumns   = []string{"id", "name", "uptime", "version"}
	catShardColumns  = []string{"index", "shard", "prirep", "state", "docs", "store", "node", "id", "unassigned.reason"}
	catAllocColumns  = []string{"shards", "disk.indices", "disk.used", "disk.avail", "disk.total", "disk.percent", "host", "ip", "node"}
	taskActions      = []string{"*search*", "*index*"}
	indexStatsMetric = []string{"docs", "store", "indexing", "search", "segments"}
	catRecoveryCols  = []string{
		"index", "shard", "time", "type", "stage", "source_host", "source_node",
		"target_host", "target_node", "repository", "snapshot", "files_percent", "files_total",
		"bytes_recovered", "bytes_percent", "bytes_total", "translog_ops", "translog_ops_percent",
	}
)

// Hot threads sampling parameters.
const (
	hotThreadsCount     = 10
	hotThreadsInterval  = time.Second
	hotThreadsSnapshots = 5
)

// GetClusterHealth fetches cluster health from /_cluster/health.
func (c *DefaultClient) GetClusterHealth(ctx context.Context) (*ClusterHealth, error) {
	var result ClusterHealth
	err := c.do(ctx, func(ctx context.Context) (*esapi.Response, error) {
		return c.es.Cluster.Health(c.es.Cluster.Health.WithContext(ctx))
	}, &result)
	if err != nil {
		return nil, fmt.Errorf("GetClusterHealth: %w", err)
	}
	return &result, nil
}

// GetNodeStats fetches per-node statistics from /_nodes/stats.
func (c *DefaultClient) GetNodeStats(ctx context.Context) (*NodeStatsResponse, error) {
	var result NodeStatsResponse
	err := c.do(ctx, func(ctx context.Context) (*esapi.Response, error) {
		return c.es.Nodes.Stats(
			c.es.Nodes.Stats.WithContext(ctx),
			c.es.Nodes.Stats.WithMetric(nodeStatsMetrics...),
		)
	}, &result)
	if err != nil {
		return nil, fmt.Errorf("GetNodeStats: %w", err)
	}
	return &result, nil
}

// GetNodeInfo fetches static node attributes (roles, version) from /_nodes.
func (c *DefaultClient) GetNodeInfo(ctx context.Context) (*NodeInfoResponse, error) {
	var result NodeInfoResponse
	err := c.do(ctx, func(ctx context.Context) (*esapi.Response, error) {
		return c.es.Nodes.Info(c.es.Nodes.Info.WithContext(ctx))
	}, &result)
	if err != nil {
		return nil, fmt.Errorf("GetNodeInfo: %w", err)
	}
	return &result, nil
}

// GetCatNodes fetches node uptime and version from /_cat/nodes.
func (c *DefaultClient) GetCatNodes(ctx context.Context) ([]CatNode, error) {
	var result []CatNode
	err := c.do(ctx, func(ctx context.Context) (*esapi.Response, error) {
		return c.es.Cat.Nodes(
			c.es.Cat.Nodes.WithContext(ctx),
			c.es.Cat.Nodes.WithFormat("json"),
			c.es.Cat.Nodes.WithFullID(true),
			c.es.Cat.Nodes.WithH(catNodeColumns...),
		)
	}, &result)
	if err != nil {
		return nil, fmt.Errorf("GetCatNodes: %w", err)
	}
	return result, nil
}

// GetShards fetches every shard copy from /_cat/shards, largest first.
func (c *DefaultClient) GetShards(ctx context.Context) ([]CatShard, error) {
	var result []CatShard
	err := c.do(ctx, func(ctx context.Context) (*esapi.Response, error) {
		return c.es.Cat.Shards(
			c.es.Cat.Shards.WithContext(ctx),
			c.es.Cat.Shards.WithFormat("json"),
			c.es.Cat.Shards.WithH(catShardColumns...),
			c.es.Cat.Shards.WithS("store:desc"),
		)
	}, &result)
	if err != nil {
		return nil, fmt.Errorf("GetShards: %w", err)
	}
	return result, nil
}

// GetAllocation fetches per-node disk allocation from /_cat/allocation.
func (c *DefaultClient) GetAllocation(ctx context.Context) ([]CatAllocation, error) {
	var result []CatAllocation
	err := c.do(ctx, func(ctx context.Context) (*esapi.Response, error) {
		return c.es.Cat.Allocation(
			c.es.Cat.Allocation.WithContext(ctx),
			c.es.Cat.Allocation.WithFormat("json"),
			c.es.Cat.Allocation.WithBytes("b"),
			c.es.Cat.Allocation.WithH(catAllocColumns...),
		)
	}, &result)
	if err != nil {
		return nil, fmt.Errorf("GetAllocation: %w", err)
	}
	return result, nil
}

// GetPendingTasks fetches queued cluster state updates from /_cluster/pending_tasks.
func (c *DefaultClient) GetPendingTasks(ctx context.Context) (*PendingTasksResponse, error) {
	var result PendingTasksResponse
	err := c.do(ctx, func(ctx context.Context) (*esapi.Response, error) {
		return c.es.Cluster.PendingTasks(c.es.Cluster.PendingTasks.WithContext(ctx))
	}, &result)
	if err != nil {
		return nil, fmt.Errorf("GetPendingTasks: %w", err)
	}
	return &result, nil
}

// GetTasks fetches running search and indexing tasks from /_tasks.
func (c *DefaultClient) GetTasks(ctx context.Context) (*TaskListResponse, error) {
	var result TaskListResponse
	err := c.do(ctx, func(ctx context.Context) (*esapi.Response, error) {
		return c.es.Tasks.List(
			c.es.Tasks.List.WithContext(ctx),
			c.es.Tasks.List.WithDetailed(true),
			c.es.Tasks.List.WithActions(taskActions...),
		)
	}, &result)
	if err != nil {
		return nil, fmt.Errorf("GetTasks: %w", err)
	}
	return &result, nil
}

// GetIndexStats fetches per-index document, store, indexing, search and
// segment statistics from /_stats.
func (c *DefaultClient) GetIndexStats(ctx context.Context) (*IndexStatsResponse, error) {
	var result IndexStatsResponse
	err := c.do(ctx, func(ctx context.Context) (*esapi.Response, error) {
		return c.es.Indices.Stats(
			c.es.Indices.Stats.WithContext(ctx),
			c.es.Indices.Stats.WithMetric(indexStatsMetric...),
		)
	}, &result)
	if err != nil {
		return nil, fmt.Errorf("GetIndexStats: %w", err)
	}
	return &result, nil
}

// GetRecovery fetches in-flight shard recoveries from /_cat/recovery.
func (c *DefaultClient) GetRecovery(ctx context.Context) ([]CatRecovery, error) {
	var result []CatRecovery
	err := c.do(ctx, func(ctx context.Context) (*esapi.Response, error) {
		return c.es.Cat.Recovery(
			c.es.Cat.Recovery.WithContext(ctx),
			c.es.Cat.Recovery.WithFormat("json"),
			c.es.Cat.Recovery.WithActiveOnly(true),
			c.es.Cat.Recovery.WithBytes("b"),
			c.es.Cat.Recovery.WithH(catRecoveryCols...),
		)
	}, &result)
	if err != nil {
		return nil, fmt.Errorf("GetRecovery: %w", err)
	}
	return result, nil
}

// GetHotThreads samples the busiest threads of every node from
// /_nodes/hot_threads. The response is plain text.
func (c *DefaultClient) GetHotThreads(ctx context.Context) (string, error) {
	text, err := c.text(ctx, func(ctx context.Context) (*esapi.Response, error) {
		return c.es.Nodes.HotThreads(
			c.es.Nodes.HotThreads.WithContext(ctx),
			c.es.Nodes.HotThreads.WithThreads(hotThreadsCount),
			c.es.Nodes.HotThreads.WithInterval(hotThreadsInterval),
			c.es.Nodes.HotThreads.WithSnapshots(hotThreadsSnapshots),
		)
	})
	if err != nil {
		return "", fmt.Errorf("GetHotThreads: %w", err)
	}
	return text, nil
}
