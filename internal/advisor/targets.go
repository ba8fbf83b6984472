package advisor

import (
	"fmt"
	"sort"

	"github.com/dm/esadvisor/internal/format"
	"github.com/dm/esadvisor/internal/model"
)

const (
	// targetHeapCeiling is the heap percentage at or above which a node is
	// never suggested as a shard-move target.
	targetHeapCeiling = 70.0

	// maxShardsToMove bounds every move plan.
	maxShardsToMove = 3

	// heapReductionPerGiB is a heuristic: percentage points of source heap
	// freed per GiB of shard store moved away.
	heapReductionPerGiB = 0.1
)

// moveTargets returns the data nodes other than sourceID whose heap is below
// targetHeapCeiling, least loaded first. Ties keep node-list order.
func moveTargets(nodes []model.NodeSnapshot, sourceID string) []model.NodeSnapshot {
	var out []model.NodeSnapshot
	for _, n := range nodes {
		if n.NodeID == sourceID || !n.IsData || n.HeapUsedPercent >= targetHeapCeiling {
			continue
		}
		out = append(out, n)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].HeapUsedPercent < out[j].HeapUsedPercent
	})
	return out
}

// bestTarget returns the least loaded eligible target for sourceID.
func bestTarget(nodes []model.NodeSnapshot, sourceID string) (model.NodeSnapshot, bool) {
	targets := moveTargets(nodes, sourceID)
	if len(targets) == 0 {
		return model.NodeSnapshot{}, false
	}
	return targets[0], true
}

// nodeShards returns the largest-shards entries hosted on nodeID, largest
// first. The input is never reordered.
func nodeShards(shards *model.ShardAnalysis, nodeID string) []model.ShardRecord {
	if shards == nil {
		return nil
	}
	var out []model.ShardRecord
	for _, s := range shards.LargestShards {
		if s.NodeID == nodeID {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StoreBytes > out[j].StoreBytes
	})
	return out
}

func heaviest(shards []model.ShardRecord, n int) []model.ShardRecord {
	if len(shards) > n {
		return shards[:n]
	}
	return shards
}

func heapBenefit(storeBytes int64) float64 {
	return format.BytesToGiB(storeBytes) * heapReductionPerGiB
}

func newShardMove(s model.ShardRecord, target model.NodeSnapshot) model.ShardMove {
	return model.ShardMove{
		Index:           s.Index,
		Shard:           s.Shard,
		Role:            s.Role,
		Store:           s.Store,
		StoreBytes:      s.StoreBytes,
		SourceNode:      s.Node,
		SourceNodeID:    s.NodeID,
		SuggestedTarget: target.NodeName,
		TargetNodeID:    target.NodeID,
	}
}

// pairMoves pairs shard[i] with target[i] for the heaviest shards of a heap
// pressured node. Shards beyond the number of eligible targets are dropped
// rather than doubled up on one node.
func pairMoves(shards []model.ShardRecord, nodes []model.NodeSnapshot, sourceID string) []model.ShardMove {
	targets := moveTargets(nodes, sourceID)
	var moves []model.ShardMove
	for i, s := range heaviest(shards, maxShardsToMove) {
		if i >= len(targets) {
			break
		}
		m := newShardMove(s, targets[i])
		m.ExpectedBenefit = fmt.Sprintf("Reduce source heap by ~%.1f%%", heapBenefit(s.StoreBytes))
		moves = append(moves, m)
	}
	return moves
}

func totalHeapReduction(moves []model.ShardMove) float64 {
	var total float64
	for _, m := range moves {
		total += heapBenefit(m.StoreBytes)
	}
	return total
}
