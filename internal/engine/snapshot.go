package engine

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dm/esadvisor/internal/client"
	"github.com/dm/esadvisor/internal/format"
	"github.com/dm/esadvisor/internal/model"
)

// largestShardsLimit bounds ShardAnalysis.LargestShards.
const largestShardsLimit = 20

// dataRoles are the node roles that hold shard data.
var dataRoles = map[string]bool{
	"data":         true,
	"data_hot":     true,
	"data_warm":    true,
	"data_cold":    true,
	"data_content": true,
	"data_frozen":  true,
}

// BuildNodeSnapshots derives one NodeSnapshot per node-stats entry. Roles
// and version come from node info when present; uptime comes from cat nodes.
// The result is sorted by node name, then node id.
func BuildNodeSnapshots(snap *model.Snapshot) []model.NodeSnapshot {
	if snap == nil {
		return []model.NodeSnapshot{}
	}

	catByID := make(map[string]client.CatNode, len(snap.CatNodes))
	for _, cn := range snap.CatNodes {
		catByID[cn.ID] = cn
	}

	out := make([]model.NodeSnapshot, 0, len(snap.NodeStats.Nodes))
	for id, stats := range snap.NodeStats.Nodes {
		info, hasInfo := snap.NodeInfo.Nodes[id]
		n := model.NodeSnapshot{
			NodeID:   id,
			NodeName: stats.Name,
			Roles:    stats.Roles,
		}
		if hasInfo {
			if len(info.Roles) > 0 {
				n.Roles = info.Roles
			}
			if n.NodeName == "" {
				n.NodeName = info.Name
			}
			n.Version = info.Version
		}
		if n.Roles == nil {
			n.Roles = []string{}
		}
		for _, r := range n.Roles {
			switch {
			case r == "master":
				n.IsMaster = true
			case r == "ingest":
				n.IsIngest = true
			case dataRoles[r]:
				n.IsData = true
			}
		}

		if stats.JVM != nil {
			n.HeapUsedBytes = stats.JVM.Mem.HeapUsedInBytes
			n.HeapMaxBytes = stats.JVM.Mem.HeapMaxInBytes
			n.HeapUsedPercent = percent(n.HeapUsedBytes, n.HeapMaxBytes)
		}
		if stats.FS != nil {
			n.DiskTotalBytes = stats.FS.Total.TotalInBytes
			n.DiskAvailableBytes = stats.FS.Total.AvailableInBytes
			n.DiskUsedBytes = n.DiskTotalBytes - n.DiskAvailableBytes
			n.DiskUsagePercent = percent(n.DiskUsedBytes, n.DiskTotalBytes)
		}
		if stats.OS != nil {
			n.CPUUsagePercent = float64(stats.OS.CPU.Percent)
			if la := stats.OS.CPU.LoadAverage; la != nil {
				n.LoadAverage1m = la.OneMinute
				n.LoadAverage5m = la.FiveMinutes
				n.LoadAverage15m = la.FifteenMinutes
			}
		}
		if stats.Process != nil {
			n.OpenFileDescriptors = stats.Process.OpenFileDescriptors
			n.MaxFileDescriptors = stats.Process.MaxFileDescriptors
		}
		if stats.Indices != nil {
			n.IndexingTotal = stats.Indices.Indexing.IndexTotal
			n.SearchTotal = stats.Indices.Search.QueryTotal
		}

		if cn, ok := catByID[id]; ok {
			n.Uptime = cn.Uptime
			if n.Version == "" {
				n.Version = cn.Version
			}
		}
		out = append(out, n)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].NodeName != out[j].NodeName {
			return out[i].NodeName < out[j].NodeName
		}
		return out[i].NodeID < out[j].NodeID
	})
	return out
}

// BuildShardAnalysis aggregates the cat shards rows. Only shards with a
// parseable store size are ranked; unassigned shards are always listed.
func BuildShardAnalysis(rows []client.CatShard) *model.ShardAnalysis {
	sa := &model.ShardAnalysis{
		LargestShards:     []model.ShardRecord{},
		UnassignedShards:  []model.ShardRecord{},
		ShardDistribution: map[string]int{},
		IndexShardCounts:  map[string]int{},
	}

	var sized []model.ShardRecord
	for _, row := range rows {
		rec := shardRecord(row)
		sa.IndexShardCounts[rec.Index]++

		if rec.State == model.ShardStateUnassigned {
			if rec.UnassignedReason == "" {
				rec.UnassignedReason = "unknown"
			}
			sa.UnassignedShards = append(sa.UnassignedShards, rec)
		}
		if rec.Node != "" && rec.Node != model.ShardStateUnassigned {
			sa.ShardDistribution[rec.Node]++
		}
		if bytes, ok := format.ParseSize(row.Store); ok {
			rec.StoreBytes = bytes
			sized = append(sized, rec)
		}
	}

	sort.SliceStable(sized, func(i, j int) bool {
		return sized[i].StoreBytes > sized[j].StoreBytes
	})
	if len(sized) > largestShardsLimit {
		sized = sized[:largestShardsLimit]
	}
	sa.LargestShards = append(sa.LargestShards, sized...)
	return sa
}

func shardRecord(row client.CatShard) model.ShardRecord {
	rec := model.ShardRecord{
		Index:            row.Index,
		Shard:            atoi(row.Shard),
		Role:             model.ShardReplica,
		State:            row.State,
		Docs:             atoi64(row.Docs),
		Store:            row.Store,
		Node:             row.Node,
		NodeID:           row.ID,
		UnassignedReason: row.UnassignedReason,
	}
	if row.PriRep == "p" {
		rec.Role = model.ShardPrimary
	}
	return rec
}

// BuildAllocation maps cat allocation rows (requested with bytes=b) and the
// cluster shard counters. It returns nil when the allocation call failed.
func BuildAllocation(rows []client.CatAllocation, health client.ClusterHealth) *model.AllocationSnapshot {
	if rows == nil {
		return nil
	}
	alloc := &model.AllocationSnapshot{
		NodeAllocations:   make([]model.NodeAllocation, 0, len(rows)),
		ClusterShardStats: shardCounters(health),
	}
	for _, row := range rows {
		alloc.NodeAllocations = append(alloc.NodeAllocations, model.NodeAllocation{
			Node:             row.Node,
			Shards:           atoi(row.Shards),
			DiskIndicesBytes: sizeOrZero(row.DiskIndices),
			DiskUsedBytes:    sizeOrZero(row.DiskUsed),
			DiskAvailBytes:   sizeOrZero(row.DiskAvail),
			DiskTotalBytes:   sizeOrZero(row.DiskTotal),
			DiskPercent:      atof(row.DiskPercent),
			Host:             row.Host,
			IP:               row.IP,
		})
	}
	return alloc
}

// BuildClusterHealth maps the cluster health response.
func BuildClusterHealth(h client.ClusterHealth) *model.ClusterHealthSnapshot {
	return &model.ClusterHealthSnapshot{
		ClusterName:   h.ClusterName,
		Status:        model.ClusterStatus(strings.ToLower(h.Status)),
		NumberOfNodes: h.NumberOfNodes,
		DataNodes:     h.NumberOfDataNodes,
		ShardCounters: shardCounters(h),
	}
}

func shardCounters(h client.ClusterHealth) model.ShardCounters {
	return model.ShardCounters{
		ActivePrimaryShards: h.ActivePrimaryShards,
		ActiveShards:        h.ActiveShards,
		RelocatingShards:    h.RelocatingShards,
		InitializingShards:  h.InitializingShards,
		UnassignedShards:    h.UnassignedShards,
	}
}

// BuildPendingTasks maps the pending tasks response. A nil response yields nil.
func BuildPendingTasks(resp *client.PendingTasksResponse) []model.PendingTask {
	if resp == nil {
		return nil
	}
	out := make([]model.PendingTask, 0, len(resp.Tasks))
	for _, t := range resp.Tasks {
		out = append(out, model.PendingTask{
			InsertOrder:     t.InsertOrder,
			Priority:        t.Priority,
			Source:          t.Source,
			TimeInQueueMill: t.TimeInQueueMillis,
		})
	}
	return out
}

// BuildTasks groups running tasks by node id. Task ids take the
// "<node>:<id>" form used by the tasks API. A nil response yields nil.
func BuildTasks(resp *client.TaskListResponse) *model.TaskSummary {
	if resp == nil {
		return nil
	}
	summary := &model.TaskSummary{ByNode: make(map[string][]model.RunningTask, len(resp.Nodes))}
	for nodeID, node := range resp.Nodes {
		tasks := make([]model.RunningTask, 0, len(node.Tasks))
		for id, t := range node.Tasks {
			tasks = append(tasks, model.RunningTask{
				ID:          id,
				NodeID:      nodeID,
				Action:      t.Action,
				Description: t.Description,
				RunningTime: time.Duration(t.RunningTimeInNanos),
				Cancellable: t.Cancellable,
			})
		}
		sort.Slice(tasks, func(i, j int) bool { return tasks[i].ID < tasks[j].ID })
		summary.ByNode[nodeID] = tasks
	}
	return summary
}

// BuildIndexMetrics maps the index stats response to one IndexMetrics per
// index, sorted by name. A nil response yields nil.
func BuildIndexMetrics(resp *client.IndexStatsResponse) []model.IndexMetrics {
	if resp == nil {
		return nil
	}
	out := make([]model.IndexMetrics, 0, len(resp.Indices))
	for name, entry := range resp.Indices {
		m := model.IndexMetrics{Name: name}
		if p := entry.Primaries; p != nil {
			if p.Store != nil {
				m.SizeBytes = p.Store.SizeInBytes
			}
			if p.Docs != nil {
				m.DocsCount = p.Docs.Count
			}
		}
		if t := entry.Total; t != nil {
			if t.Store != nil {
				m.TotalSizeBytes = t.Store.SizeInBytes
			}
			if t.Search != nil {
				m.SearchTotal = t.Search.QueryTotal
			}
			if t.Indexing != nil {
				m.IndexingTotal = t.Indexing.IndexTotal
			}
			if t.Segments != nil {
				m.SegmentMemoryBytes = t.Segments.MemoryInBytes
			}
		}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// BuildRecoveries maps the cat recovery rows (requested with bytes=b). A nil
// slice yields nil.
func BuildRecoveries(rows []client.CatRecovery) []model.Recovery {
	if rows == nil {
		return nil
	}
	out := make([]model.Recovery, 0, len(rows))
	for _, row := range rows {
		out = append(out, model.Recovery{
			Index:          row.Index,
			Shard:          atoi(row.Shard),
			Time:           row.Time,
			Type:           row.Type,
			Stage:          row.Stage,
			SourceHost:     row.SourceHost,
			SourceNode:     row.SourceNode,
			TargetHost:     row.TargetHost,
			TargetNode:     row.TargetNode,
			Repository:     row.Repository,
			Snapshot:       row.Snapshot,
			FilesPercent:   pct(row.FilesPercent),
			FilesTotal:     atoi64(row.FilesTotal),
			BytesRecovered: atoi64(row.BytesRecovered),
			BytesPercent:   pct(row.BytesPercent),
			BytesTotal:     atoi64(row.BytesTotal),
			TranslogOps:    atoi64(row.TranslogOps),
			TranslogPct:    pct(row.TranslogPct),
		})
	}
	return out
}

func percent(part, whole int64) float64 {
	if whole <= 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}

func sizeOrZero(s string) int64 {
	n, _ := format.ParseSize(s)
	return n
}

func atoi(s string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(s))
	return n
}

func atoi64(s string) int64 {
	n, _ := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	return n
}

// pct parses cat percentages such as "42.5%".
func pct(s string) float64 {
	return atof(strings.TrimSuffix(strings.TrimSpace(s), "%"))
}

func atof(s string) float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f
}
