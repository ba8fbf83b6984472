package tui

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"

	"github.com/dm/esadvisor/internal/advisor"
	"github.com/dm/esadvisor/internal/format"
	"github.com/dm/esadvisor/internal/model"
)

const reportWidth = 100

// RenderReport writes a one-shot, human-readable analysis of r to w: the
// executive summary, a node table, the largest and most active indices, every
// recommendation grouped by severity and the suggested commands of the
// top-priority items.
func RenderReport(w io.Writer, r advisor.Report) error {
	var b strings.Builder
	sum := r.Summary

	name, status := "", "unknown"
	if h := r.ClusterHealth; h != nil {
		name, status = sanitize(h.ClusterName), string(h.Status)
	}
	b.WriteString(StyleHeader.Bold(true).Render(fmt.Sprintf("Cluster %s", name)))
	b.WriteString("  ")
	b.WriteString(StatusStyle(status).Render("● " + strings.ToUpper(status)))
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "Overall health: %s\n", StatusStyle(sum.OverallHealth).Render(strings.ToUpper(sum.OverallHealth)))
	fmt.Fprintf(&b, "Nodes: %d (data %d, master %d)   Critical: %s   Warnings: %s\n",
		sum.TotalNodes, sum.DataNodes, sum.MasterNodes,
		StyleRed.Render(strconv.Itoa(sum.CriticalIssues)),
		StyleYellow.Render(strconv.Itoa(sum.Warnings)))
	fmt.Fprintf(&b, "Avg heap: %s   Avg CPU: %s   Avg disk: %s\n",
		severityToStyle(heapSeverity(sum.AvgHeapUsage)).Render(format.FormatPercent(sum.AvgHeapUsage)),
		severityToStyle(cpuSeverity(sum.AvgCPUUsage)).Render(format.FormatPercent(sum.AvgCPUUsage)),
		severityToStyle(diskSeverity(sum.AvgDiskUsage)).Render(format.FormatPercent(sum.AvgDiskUsage)))
	fmt.Fprintf(&b, "Nodes with issues: %d   Rebalance opportunities: %d   Index optimizations: %d\n",
		sum.NodesWithIssues, sum.RebalanceOpportunities, sum.IndexOptimizations)

	if len(sum.ActionableInsights) > 0 {
		b.WriteString("\n" + StyleDim.Bold(true).Render("Insights") + "\n")
		for _, in := range sum.ActionableInsights {
			b.WriteString("  • " + in + "\n")
		}
	}

	if rows := buildNodeRows(r); len(rows) > 0 {
		b.WriteString("\n" + StyleDim.Bold(true).Render("Nodes") + "\n")
		b.WriteString(reportNodeTable(rows))
		b.WriteString("\n")
	}

	if top := r.TopIndices; top != nil && len(top.Largest) > 0 {
		b.WriteString("\n" + StyleDim.Bold(true).Render("Largest indices") + "\n")
		b.WriteString(reportIndexTable(top.Largest))
		b.WriteString("\n")
		b.WriteString("\n" + StyleDim.Bold(true).Render("Most active indices") + "\n")
		b.WriteString(reportIndexTable(top.MostActive))
		b.WriteString("\n")
	}

	b.WriteString("\n" + StyleDim.Bold(true).Render("Recommendations") + "\n")
	b.WriteString(strings.Join(buildRecommendationLines(r.Recommendations, reportWidth), "\n"))
	b.WriteString("\n")

	if cmds := topPriorityCommands(sum.TopPriority); cmds != "" {
		b.WriteString("\n" + StyleDim.Bold(true).Render("Suggested commands") + "\n")
		b.WriteString(cmds)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func reportNodeTable(rows []nodeRow) string {
	rows = sortNodeRows(rows, 0, false)
	t := ltable.New().
		Headers("Node", "Roles", "Heap%", "CPU%", "Disk%", "Load", "Shards").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == ltable.HeaderRow {
				return lipgloss.NewStyle().Bold(true).Foreground(colorGray).Padding(0, 1)
			}
			s := lipgloss.NewStyle().Padding(0, 1)
			if row < 0 || row >= len(rows) {
				return s
			}
			switch col {
			case 2:
				return s.Inherit(severityToStyle(heapSeverity(rows[row].Heap)))
			case 3:
				return s.Inherit(severityToStyle(cpuSeverity(rows[row].CPU)))
			case 4:
				return s.Inherit(severityToStyle(diskSeverity(rows[row].Disk)))
			case 5:
				return s.Inherit(severityToStyle(loadSeverity(rows[row].Load)))
			}
			return s
		}).
		BorderStyle(lipgloss.NewStyle().Foreground(colorGray))
	for _, r := range rows {
		t = t.Row(
			sanitize(r.Name),
			r.Roles,
			format.FormatPercent(r.Heap),
			format.FormatPercent(r.CPU),
			format.FormatPercent(r.Disk),
			strconv.FormatFloat(r.Load, 'f', 2, 64),
			strconv.Itoa(r.Shards),
		)
	}
	return t.String()
}

func reportIndexTable(ms []model.IndexMetrics) string {
	t := ltable.New().
		Headers("Index", "Size", "Docs", "Indexing ops", "Search ops", "Segment mem").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == ltable.HeaderRow {
				return lipgloss.NewStyle().Bold(true).Foreground(colorGray).Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		BorderStyle(lipgloss.NewStyle().Foreground(colorGray))
	for _, m := range ms {
		t = t.Row(
			sanitize(m.Name),
			format.FormatBytes(m.SizeBytes),
			format.FormatNumber(m.DocsCount),
			format.FormatNumber(m.IndexingTotal),
			format.FormatNumber(m.SearchTotal),
			format.FormatBytes(m.SegmentMemoryBytes),
		)
	}
	return t.String()
}

// topPriorityCommands lists the example commands carried by the top-priority
// recommendations, grouped under their titles.
func topPriorityCommands(recs []model.Recommendation) string {
	var b strings.Builder
	for _, r := range recs {
		cmds := specificCommands(r.Specifics)
		if len(cmds) == 0 {
			continue
		}
		b.WriteString("  " + sanitize(r.Title) + "\n")
		for _, c := range cmds {
			b.WriteString("    " + StyleCyan.Render(c) + "\n")
		}
	}
	return b.String()
}

// specificCommands extracts the command examples from a recommendation's
// Specifics payload.
func specificCommands(specifics any) []string {
	switch s := specifics.(type) {
	case model.ShardMovePlan:
		return s.Commands
	case model.RebalancePlan:
		return s.Commands
	case model.HeapResize:
		return s.Commands
	case model.ReindexPlan:
		if s.ReindexCommand != "" {
			return []string{s.ReindexCommand}
		}
	}
	return nil
}
