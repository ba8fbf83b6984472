package engine

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dm/esadvisor/internal/client"
	"github.com/dm/esadvisor/internal/model"
)

// optional collects the sections that may fail without failing the poll.
type optional struct {
	allocation []client.CatAllocation
	pending    *client.PendingTasksResponse
	tasks      *client.TaskListResponse
	indexStats *client.IndexStatsResponse
	recovery   []client.CatRecovery
}

// FetchAll calls the 5 required Elasticsearch endpoints concurrently, plus the
// optional allocation, pending tasks, task list, index stats and recovery
// endpoints. If any required
// endpoint fails, FetchAll returns the first error. Optional failures are
// non-fatal (older clusters or restricted users may reject them); on error
// the section is left nil.
func FetchAll(ctx context.Context, c client.ESClient) (*model.Snapshot, error) {
	var (
		health    *client.ClusterHealth
		nodeStats *client.NodeStatsResponse
		nodeInfo  *client.NodeInfoResponse
		catNodes  []client.CatNode
		shards    []client.CatShard
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		health, err = c.GetClusterHealth(gctx)
		return err
	})

	g.Go(func() error {
		var err error
		nodeStats, err = c.GetNodeStats(gctx)
		return err
	})

	g.Go(func() error {
		var err error
		nodeInfo, err = c.GetNodeInfo(gctx)
		return err
	})

	g.Go(func() error {
		var err error
		catNodes, err = c.GetCatNodes(gctx)
		return err
	})

	g.Go(func() error {
		var err error
		shards, err = c.GetShards(gctx)
		return err
	})

	// Optional sections run outside the errgroup so a slow or rejected call
	// does not cancel the required ones. They use the parent ctx, and the
	// buffered channel lets the goroutine finish even if nobody reads it.
	optCh := make(chan optional, 1)
	go func() {
		optCh <- fetchOptional(ctx, c)
	}()

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var opt optional
	select {
	case opt = <-optCh:
	case <-ctx.Done():
	}

	if health == nil || nodeStats == nil || nodeInfo == nil {
		return nil, fmt.Errorf("FetchAll: incomplete response (unexpected nil)")
	}

	return &model.Snapshot{
		Health:       *health,
		NodeStats:    *nodeStats,
		NodeInfo:     *nodeInfo,
		CatNodes:     catNodes,
		Shards:       shards,
		Allocation:   opt.allocation,
		PendingTasks: opt.pending,
		Tasks:        opt.tasks,
		IndexStats:   opt.indexStats,
		Recovery:     opt.recovery,
		FetchedAt:    time.Now(),
	}, nil
}

// fetchOptional runs the optional calls concurrently. Each failure leaves its
// field nil.
func fetchOptional(ctx context.Context, c client.ESClient) optional {
	var (
		opt optional
		g   errgroup.Group
	)
	g.Go(func() error {
		if alloc, err := c.GetAllocation(ctx); err == nil {
			opt.allocation = alloc
		}
		return nil
	})
	g.Go(func() error {
		if pending, err := c.GetPendingTasks(ctx); err == nil {
			opt.pending = pending
		}
		return nil
	})
	g.Go(func() error {
		if tasks, err := c.GetTasks(ctx); err == nil {
			opt.tasks = tasks
		}
		return nil
	})
	g.Go(func() error {
		if stats, err := c.GetIndexStats(ctx); err == nil {
			opt.indexStats = stats
		}
		return nil
	})
	g.Go(func() error {
		if rows, err := c.GetRecovery(ctx); err == nil {
			opt.recovery = rows
		}
		return nil
	})
	_ = g.Wait()
	return opt
}
