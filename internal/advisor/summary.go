package advisor

import (
	"fmt"
	"math"

	"github.com/dm/esadvisor/internal/model"
)

const topPriorityCount = 3

// Summarize derives the executive summary from the merged recommendation
// list. Averages are unweighted means over all nodes rounded to one decimal;
// an empty node list averages to 0.
func Summarize(recs []model.Recommendation, nodes []model.NodeSnapshot, health *model.ClusterHealthSnapshot, details model.DetailedAnalysis) model.ExecutiveSummary {
	s := model.ExecutiveSummary{
		OverallHealth: "unknown",
		TotalNodes:    len(nodes),
		TopPriority:   []model.Recommendation{},
	}
	if health != nil && health.Status != "" {
		s.OverallHealth = string(health.Status)
	}

	var heap, disk, cpu float64
	for _, n := range nodes {
		if n.IsData {
			s.DataNodes++
		}
		if n.IsMaster {
			s.MasterNodes++
		}
		heap += n.HeapUsedPercent
		disk += n.DiskUsagePercent
		cpu += n.CPUUsagePercent
	}
	if len(nodes) > 0 {
		s.AvgHeapUsage = round1(heap / float64(len(nodes)))
		s.AvgDiskUsage = round1(disk / float64(len(nodes)))
		s.AvgCPUUsage = round1(cpu / float64(len(nodes)))
	}

	for _, r := range recs {
		switch r.Severity {
		case model.SeverityCritical:
			s.CriticalIssues++
		case model.SeverityWarning:
			s.Warnings++
		}
		if r.Priority == 1 && len(s.TopPriority) < topPriorityCount {
			s.TopPriority = append(s.TopPriority, r)
		}
	}

	for _, ni := range details.NodeInsights {
		if len(ni.Issues) > 0 {
			s.NodesWithIssues++
		}
	}
	for _, in := range details.RebalancingInsight.ImbalancedNodes {
		if len(in.MovableCandidates) > 0 {
			s.RebalanceOpportunities++
		}
	}
	s.IndexOptimizations = len(details.IndexInsights)

	s.ActionableInsights = []string{
		fmt.Sprintf("%d critical issues requiring immediate attention", s.CriticalIssues),
		fmt.Sprintf("%d warnings that should be addressed", s.Warnings),
		fmt.Sprintf("%d nodes analyzed for optimization opportunities", len(details.NodeInsights)),
	}
	return s
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
