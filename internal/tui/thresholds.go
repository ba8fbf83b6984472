package tui

import "github.com/charmbracelet/lipgloss"

// severity is the display alert level of a gauge. The cut-offs mirror the
// advisor's warning and critical thresholds so a red cell always has a
// matching recommendation.
type severity int

const (
	severityNormal severity = iota
	severityWarning
	severityCritical
)

// cpuSeverity returns Warning above 80% and Critical above 90%.
func cpuSeverity(pct float64) severity {
	switch {
	case pct > 90:
		return severityCritical
	case pct > 80:
		return severityWarning
	default:
		return severityNormal
	}
}

// heapSeverity returns Warning above 75% and Critical above 85%.
func heapSeverity(pct float64) severity {
	switch {
	case pct > 85:
		return severityCritical
	case pct > 75:
		return severityWarning
	default:
		return severityNormal
	}
}

// diskSeverity returns Warning above 85% and Critical above 90%.
func diskSeverity(pct float64) severity {
	switch {
	case pct > 90:
		return severityCritical
	case pct > 85:
		return severityWarning
	default:
		return severityNormal
	}
}

// loadSeverity flags a 1m load average above the advisor's limit of 4.
func loadSeverity(load float64) severity {
	if load > 4 {
		return severityWarning
	}
	return severityNormal
}

func severityToStyle(s severity) lipgloss.Style {
	switch s {
	case severityWarning:
		return StyleYellow
	case severityCritical:
		return StyleRed
	default:
		return lipgloss.NewStyle()
	}
}

// severityFg is the foreground colour of an overview card.
func severityFg(s severity) lipgloss.Color {
	switch s {
	case severityWarning:
		return colorYellow
	case severityCritical:
		return colorRed
	default:
		return colorGreen
	}
}
