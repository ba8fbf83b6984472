package advisor

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dm/esadvisor/internal/format"
	"github.com/dm/esadvisor/internal/model"
)

const (
	pendingTasksThreshold = 10
	longRunningTask       = 60 * time.Second
)

var (
	pendingTaskAdvice = []string{"Consider increasing master node capacity", "Review bulk operation sizing", "Implement operation throttling"}
	taskActions       = []string{"Monitor task queue lengths", "Optimize heavy operations"}
	taskOptimizations = []string{"Batch smaller operations", "Use async processing"}
)

// AnalyzeOperations checks the pending cluster task queue and, per node,
// running search/index tasks older than longRunningTask. Nodes are visited in
// node-list order; task summaries for unknown nodes are ignored.
func AnalyzeOperations(nodes []model.NodeSnapshot, pending []model.PendingTask, tasks *model.TaskSummary) ([]model.Recommendation, model.OperationsInsight) {
	result := []model.Recommendation{}
	insight := model.OperationsInsight{PendingTasks: len(pending)}

	if tasks != nil {
		for _, n := range nodes {
			var heavy []model.RunningTask
			for _, t := range tasks.ByNode[n.NodeID] {
				if t.RunningTime > longRunningTask {
					heavy = append(heavy, t)
				}
			}
			if len(heavy) == 0 {
				continue
			}
			sort.SliceStable(heavy, func(i, j int) bool {
				return heavy[i].RunningTime > heavy[j].RunningTime
			})
			if insight.HighImpactByID == nil {
				insight.HighImpactByID = make(map[string]int)
			}
			insight.HighImpactByID[n.NodeID] = len(heavy)

			longest := heavy[0]
			result = append(result, model.Recommendation{
				Severity: model.SeverityWarning,
				Category: model.CategoryOperations,
				Title:    fmt.Sprintf("High Impact Operations on %s", n.NodeName),
				Description: fmt.Sprintf("Node is running %d resource-intensive operations: longest is %s, running for %s",
					len(heavy), longest.Action, format.FormatLatency(float64(longest.RunningTime.Milliseconds()))),
				Impact:   model.ImpactMedium,
				Action:   strings.Join(taskActions, "; "),
				Priority: 2,
				NodeID:   n.NodeID,
				Specifics: model.OperationsDetail{
					Operations:    heavy,
					Optimizations: append([]string(nil), taskOptimizations...),
				},
			})
		}
	}

	if len(pending) > 0 {
		insight.PendingByType = make(map[string]int)
		for _, t := range pending {
			source := t.Source
			if source == "" {
				source = "unknown"
			}
			insight.PendingByType[source]++
		}
	}

	if len(pending) > pendingTasksThreshold {
		result = append(result, model.Recommendation{
			Severity:    model.SeverityWarning,
			Category:    model.CategoryOperations,
			Title:       "High Number of Pending Tasks",
			Description: fmt.Sprintf("%d tasks are pending execution. This may indicate cluster congestion.", len(pending)),
			Impact:      model.ImpactMedium,
			Action:      "Review cluster capacity and consider scaling or optimizing operations",
			Priority:    2,
			Specifics: model.PendingTaskBreakdown{
				PendingTaskTypes: insight.PendingByType,
				Recommendations:  append([]string(nil), pendingTaskAdvice...),
			},
		})
	}

	return result, insight
}
