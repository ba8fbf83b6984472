package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderOverview renders the seven-card overview row: status, nodes, data
// nodes, shards and the three average gauges. Terminals narrower than 80
// columns get the cards in rows of two. Empty before the first poll.
func renderOverview(app *App) string {
	if app.current == nil {
		return ""
	}

	width := app.width
	if width <= 0 {
		width = 80
	}
	narrow := width < 80

	var cardWidth int
	if narrow {
		cardWidth = (width - 4) / 2
		if cardWidth < 10 {
			cardWidth = 10
		}
	} else {
		cardWidth = (width - 14) / 7
		if cardWidth < 8 {
			cardWidth = 8
		}
	}
	barWidth := cardWidth - 4
	if barWidth < 4 {
		barWidth = 4
	}

	status := app.current.Health.Status
	if h := app.report.ClusterHealth; h != nil {
		status = string(h.Status)
	}
	statusText := strings.ToUpper(sanitize(status))
	if statusText == "" {
		statusText = "UNKNOWN"
	}
	statusCard := StyleOverviewCard.
		Background(statusColor(status)).
		Foreground(colorDark).
		Bold(true).
		Width(cardWidth).
		Render(statusText + "\nStatus")

	sum := app.report.Summary
	nodesCard := countCard(sum.TotalNodes, "Nodes", colorBlue, cardWidth)
	dataCard := countCard(sum.DataNodes, "Data Nodes", colorPurple, cardWidth)

	shardsText := "0\nShards"
	if h := app.report.ClusterHealth; h != nil {
		shardsText = fmt.Sprintf("%d\nShards", h.ActiveShards)
		if h.UnassignedShards > 0 {
			shardsText = fmt.Sprintf("%d (%d!)\nShards", h.ActiveShards, h.UnassignedShards)
		}
	}
	shardsCard := StyleOverviewCard.Foreground(colorIndigo).Width(cardWidth).Render(shardsText)

	cpuCard := gaugeCard("CPU", sum.AvgCPUUsage, cpuSeverity(sum.AvgCPUUsage), cardWidth, barWidth)
	heapCard := gaugeCard("Heap", sum.AvgHeapUsage, heapSeverity(sum.AvgHeapUsage), cardWidth, barWidth)
	diskCard := gaugeCard("Disk", sum.AvgDiskUsage, diskSeverity(sum.AvgDiskUsage), cardWidth, barWidth)

	if narrow {
		row1 := lipgloss.JoinHorizontal(lipgloss.Top, statusCard, nodesCard)
		row2 := lipgloss.JoinHorizontal(lipgloss.Top, dataCard, shardsCard)
		row3 := lipgloss.JoinHorizontal(lipgloss.Top, cpuCard, heapCard)
		return lipgloss.JoinVertical(lipgloss.Left, row1, row2, row3, diskCard)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, statusCard, nodesCard, dataCard, shardsCard, cpuCard, heapCard, diskCard)
}

func countCard(n int, label string, fg lipgloss.Color, width int) string {
	return StyleOverviewCard.
		Foreground(fg).
		Width(width).
		Render(fmt.Sprintf("%d\n%s", n, label))
}

// gaugeCard renders an average percentage with a mini bar, coloured by sev.
// Critical values get a trailing "!".
func gaugeCard(label string, pct float64, sev severity, width, barWidth int) string {
	val := fmt.Sprintf("%.1f%%", pct)
	if sev == severityCritical {
		val += "!"
	}
	return StyleOverviewCard.
		Foreground(severityFg(sev)).
		Width(width).
		Render(val + "\n" + renderMiniBar(pct, barWidth) + "\n" + label)
}

// renderMiniBar renders a progress bar of "█" filled and "░" empty cells.
func renderMiniBar(percent float64, width int) string {
	if width <= 0 {
		return ""
	}
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := int(percent / 100.0 * float64(width))
	if filled > width {
		filled = width
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
