// Package clienttest provides a func-field client.ESClient for tests.
package clienttest

import (
	"context"

	"github.com/dm/esadvisor/internal/client"
)

// MockESClient implements client.ESClient for testing. Unset funcs return a
// small healthy default.
type MockESClient struct {
	HealthFn     func(ctx context.Context) (*client.ClusterHealth, error)
	NodeStatsFn  func(ctx context.Context) (*client.NodeStatsResponse, error)
	NodeInfoFn   func(ctx context.Context) (*client.NodeInfoResponse, error)
	CatNodesFn   func(ctx context.Context) ([]client.CatNode, error)
	ShardsFn     func(ctx context.Context) ([]client.CatShard, error)
	AllocationFn func(ctx context.Context) ([]client.CatAllocation, error)
	PendingFn    func(ctx context.Context) (*client.PendingTasksResponse, error)
	TasksFn      func(ctx context.Context) (*client.TaskListResponse, error)
	IndexStatsFn func(ctx context.Context) (*client.IndexStatsResponse, error)
	RecoveryFn   func(ctx context.Context) ([]client.CatRecovery, error)
	HotThreadsFn func(ctx context.Context) (string, error)
	PingFn       func(ctx context.Context) error
}

func (m *MockESClient) GetClusterHealth(ctx context.Context) (*client.ClusterHealth, error) {
	if m.HealthFn != nil {
		return m.HealthFn(ctx)
	}
	return &client.ClusterHealth{ClusterName: "test", Status: "green", NumberOfNodes: 1}, nil
}

func (m *MockESClient) GetNodeStats(ctx context.Context) (*client.NodeStatsResponse, error) {
	if m.NodeStatsFn != nil {
		return m.NodeStatsFn(ctx)
	}
	return &client.NodeStatsResponse{Nodes: map[string]client.NodeStats{
		"n1": {Name: "node1", Roles: []string{"master", "data"}},
	}}, nil
}

func (m *MockESClient) GetNodeInfo(ctx context.Context) (*client.NodeInfoResponse, error) {
	if m.NodeInfoFn != nil {
		return m.NodeInfoFn(ctx)
	}
	return &client.NodeInfoResponse{Nodes: map[string]client.NodeInfo{
		"n1": {Name: "node1", Version: "8.15.0", Roles: []string{"master", "data"}},
	}}, nil
}

func (m *MockESClient) GetCatNodes(ctx context.Context) ([]client.CatNode, error) {
	if m.CatNodesFn != nil {
		return m.CatNodesFn(ctx)
	}
	return []client.CatNode{{ID: "n1", Name: "node1", Uptime: "1d", Version: "8.15.0"}}, nil
}

func (m *MockESClient) GetShards(ctx context.Context) ([]client.CatShard, error) {
	if m.ShardsFn != nil {
		return m.ShardsFn(ctx)
	}
	return []client.CatShard{{Index: "test-index", Shard: "0", PriRep: "p", State: "STARTED", Store: "1kb", Node: "node1", ID: "n1"}}, nil
}

func (m *MockESClient) GetAllocation(ctx context.Context) ([]client.CatAllocation, error) {
	if m.AllocationFn != nil {
		return m.AllocationFn(ctx)
	}
	return []client.CatAllocation{{Node: "node1", Shards: "1", DiskPercent: "10"}}, nil
}

func (m *MockESClient) GetPendingTasks(ctx context.Context) (*client.PendingTasksResponse, error) {
	if m.PendingFn != nil {
		return m.PendingFn(ctx)
	}
	return &client.PendingTasksResponse{Tasks: []client.PendingTask{}}, nil
}

func (m *MockESClient) GetTasks(ctx context.Context) (*client.TaskListResponse, error) {
	if m.TasksFn != nil {
		return m.TasksFn(ctx)
	}
	return &client.TaskListResponse{Nodes: map[string]client.TaskNode{}}, nil
}

func (m *MockESClient) GetIndexStats(ctx context.Context) (*client.IndexStatsResponse, error) {
	if m.IndexStatsFn != nil {
		return m.IndexStatsFn(ctx)
	}
	return &client.IndexStatsResponse{Indices: map[string]client.IndexStatEntry{
		"test-index": {
			Primaries: &client.IndexStatShard{
				Docs:  &client.DocsStats{Count: 10},
				Store: &client.StoreStats{SizeInBytes: 1024},
			},
			Total: &client.IndexStatShard{
				Store:    &client.StoreStats{SizeInBytes: 1024},
				Indexing: &client.IndexingStats{IndexTotal: 100},
				Search:   &client.SearchStats{QueryTotal: 50},
			},
		},
	}}, nil
}

func (m *MockESClient) GetRecovery(ctx context.Context) ([]client.CatRecovery, error) {
	if m.RecoveryFn != nil {
		return m.RecoveryFn(ctx)
	}
	return []client.CatRecovery{}, nil
}

func (m *MockESClient) GetHotThreads(ctx context.Context) (string, error) {
	if m.HotThreadsFn != nil {
		return m.HotThreadsFn(ctx)
	}
	return "::: {node1}{n1}\n   Hot threads at 2026-01-01T00:00:00Z, interval=1s, busiestThreads=10\n", nil
}

func (m *MockESClient) Ping(ctx context.Context) error {
	if m.PingFn != nil {
		return m.PingFn(ctx)
	}
	return nil
}

func (m *MockESClient) BaseURL() string {
	return "http://mock:9200"
}

var _ client.ESClient = (*MockESClient)(nil)
