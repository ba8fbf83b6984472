package advisor

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dm/esadvisor/internal/model"
)

func pendingTasks(n int, source string) []model.PendingTask {
	out := make([]model.PendingTask, n)
	for i := range out {
		out[i] = model.PendingTask{InsertOrder: int64(i), Priority: "NORMAL", Source: source}
	}
	return out
}

func TestAnalyzeOperations_NoData(t *testing.T) {
	recs, insight := AnalyzeOperations(threeMasters(), nil, nil)
	assert.NotNil(t, recs)
	assert.Empty(t, recs)
	assert.Equal(t, 0, insight.PendingTasks)
	assert.Nil(t, insight.PendingByType)
	assert.Nil(t, insight.HighImpactByID)
}

func TestAnalyzeOperations_PendingThreshold(t *testing.T) {
	recs, insight := AnalyzeOperations(nil, pendingTasks(10, "put-mapping"), nil)
	assert.Empty(t, recs, "10 pending tasks is not above the threshold")
	assert.Equal(t, map[string]int{"put-mapping": 10}, insight.PendingByType)

	pending := append(pendingTasks(8, "put-mapping"), pendingTasks(3, "")...)
	recs, insight = AnalyzeOperations(nil, pending, nil)
	require.Len(t, recs, 1)
	r := recs[0]
	assert.Equal(t, model.SeverityWarning, r.Severity)
	assert.Equal(t, model.CategoryOperations, r.Category)
	assert.Equal(t, "High Number of Pending Tasks", r.Title)
	assert.Equal(t, 2, r.Priority)
	assert.Contains(t, r.Description, "11 tasks are pending")

	breakdown, ok := r.Specifics.(model.PendingTaskBreakdown)
	require.True(t, ok)
	assert.Equal(t, map[string]int{"put-mapping": 8, "unknown": 3}, breakdown.PendingTaskTypes)
	assert.Len(t, breakdown.Recommendations, 3)
	assert.Equal(t, 11, insight.PendingTasks)
}

func TestAnalyzeOperations_LongRunningTasks(t *testing.T) {
	nodes := []model.NodeSnapshot{
		makeNode("n1", 10, 10, 10, "data"),
		makeNode("n2", 10, 10, 10, "data"),
	}
	tasks := &model.TaskSummary{ByNode: map[string][]model.RunningTask{
		"n1-id": {
			{ID: "n1-id:1", Action: "indices:data/read/search", RunningTime: 10 * time.Second},
			{ID: "n1-id:2", Action: "indices:data/write/bulk", RunningTime: 90 * time.Second},
			{ID: "n1-id:3", Action: "indices:data/read/search", RunningTime: 2 * time.Minute},
		},
		"n2-id":    {{ID: "n2-id:1", Action: "indices:data/read/search", RunningTime: 60 * time.Second}},
		"ghost-id": {{ID: "ghost-id:1", Action: "indices:data/read/search", RunningTime: time.Hour}},
	}}

	recs, insight := AnalyzeOperations(nodes, nil, tasks)
	require.Len(t, recs, 1, "60s exactly is not long running; unknown nodes are ignored")
	r := recs[0]
	assert.Equal(t, "High Impact Operations on n1", r.Title)
	assert.Equal(t, "n1-id", r.NodeID)
	assert.Contains(t, r.Description, "running 2 resource-intensive operations")
	assert.Contains(t, r.Description, "running for 120.00 s")

	detail, ok := r.Specifics.(model.OperationsDetail)
	require.True(t, ok)
	require.Len(t, detail.Operations, 2)
	assert.Equal(t, "n1-id:3", detail.Operations[0].ID, "longest first")
	assert.Equal(t, map[string]int{"n1-id": 2}, insight.HighImpactByID)
}

func TestAnalyzeOperations_NodeOrder(t *testing.T) {
	var nodes []model.NodeSnapshot
	tasks := &model.TaskSummary{ByNode: map[string][]model.RunningTask{}}
	for i := 0; i < 5; i++ {
		n := makeNode(fmt.Sprintf("n%d", i), 10, 10, 10, "data")
		nodes = append(nodes, n)
		tasks.ByNode[n.NodeID] = []model.RunningTask{{ID: "x", RunningTime: 5 * time.Minute}}
	}
	recs, _ := AnalyzeOperations(nodes, nil, tasks)
	require.Len(t, recs, 5)
	for i, r := range recs {
		assert.Equal(t, fmt.Sprintf("n%d-id", i), r.NodeID)
	}
}
