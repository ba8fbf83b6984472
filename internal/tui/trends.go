package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/dm/esadvisor/internal/format"
)

// renderTrendCard renders one bordered card: title, current value and a
// sparkline of the recent history.
//
//	╭──────────────────╮
//	│ Avg Heap         │
//	│ 71.4%            │
//	│ ▁▂▃▅▇█▇▅▃▂       │
//	╰──────────────────╯
func renderTrendCard(title, value string, sparkValues []float64, cardWidth int, color lipgloss.Color, titleStyle lipgloss.Style) string {
	const minCardWidth = 8
	if cardWidth < minCardWidth {
		cardWidth = minCardWidth
	}
	// Border (2) and padding (2) come off the card width.
	innerWidth := cardWidth - 6
	if innerWidth < 1 {
		innerWidth = 1
	}

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorGray).
		Padding(0, 1).
		Width(cardWidth - 4)

	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(title),
		lipgloss.NewStyle().Bold(true).Foreground(color).Render(value),
		RenderSparkline(sparkValues, innerWidth, color),
	))
}

// renderTrendsRow renders heap, CPU, indexing rate and search rate cards with
// sparklines over the sample history. Gauge titles turn yellow or red past
// their thresholds. Narrow terminals get a 2x2 grid.
func renderTrendsRow(app *App) string {
	if app.current == nil {
		return ""
	}

	sum := app.report.Summary
	heapTitle := severityToStyle(heapSeverity(sum.AvgHeapUsage))
	cpuTitle := severityToStyle(cpuSeverity(sum.AvgCPUUsage))
	if heapSeverity(sum.AvgHeapUsage) == severityNormal {
		heapTitle = StyleDim
	}
	if cpuSeverity(sum.AvgCPUUsage) == severityNormal {
		cpuTitle = StyleDim
	}

	label := fmt.Sprintf("Trends (last %d polls)", app.history.Len())
	cards := func(cardWidth int) []string {
		return []string{
			renderTrendCard("Avg Heap", format.FormatPercent(sum.AvgHeapUsage), app.history.Values("heap"), cardWidth, colorOrange, heapTitle),
			renderTrendCard("Avg CPU", format.FormatPercent(sum.AvgCPUUsage), app.history.Values("cpu"), cardWidth, colorBlue, cpuTitle),
			renderTrendCard("Indexing Rate", format.FormatRate(app.rates.IndexingRate), app.history.Values("indexingRate"), cardWidth, colorGreen, StyleDim),
			renderTrendCard("Search Rate", format.FormatRate(app.rates.SearchRate), app.history.Values("searchRate"), cardWidth, colorCyan, StyleDim),
		}
	}

	if app.width > 0 && app.width < 80 {
		// Two cards render at 2*(cardWidth-2) columns.
		cardWidth := (app.width + 4) / 2
		if cardWidth < 8 {
			return ""
		}
		c := cards(cardWidth)
		top := lipgloss.JoinHorizontal(lipgloss.Top, c[0], c[1])
		bottom := lipgloss.JoinHorizontal(lipgloss.Top, c[2], c[3])
		return lipgloss.JoinVertical(lipgloss.Left, StyleDim.MaxWidth(app.width).Render(label), top, bottom)
	}

	cardWidth := (app.width + 8) / 4
	if cardWidth < 20 {
		cardWidth = 20
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, cards(cardWidth)...)
	return lipgloss.JoinVertical(lipgloss.Left, StyleDim.Render(label), row)
}
