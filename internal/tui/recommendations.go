package tui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/dm/esadvisor/internal/model"
)

// severityOrder is the group order of the recommendations view.
var severityOrder = []model.RecommendationSeverity{
	model.SeverityCritical,
	model.SeverityWarning,
	model.SeverityInfo,
}

func severityLabel(sev model.RecommendationSeverity) string {
	switch sev {
	case model.SeverityCritical:
		return "Critical"
	case model.SeverityWarning:
		return "Warnings"
	case model.SeverityInfo:
		return "Informational"
	default:
		return "Other"
	}
}

// categoryLabel turns a category constant into a display name.
func categoryLabel(cat model.RecommendationCategory) string {
	switch cat {
	case model.CategoryMemory:
		return "Memory"
	case model.CategoryStorage:
		return "Storage"
	case model.CategoryCPU:
		return "CPU"
	case model.CategoryPerformance:
		return "Performance"
	case model.CategoryShards:
		return "Shards"
	case model.CategoryShardRebalancing:
		return "Shard Rebalancing"
	case model.CategoryClusterStability:
		return "Cluster Stability"
	case model.CategoryClusterHealth:
		return "Cluster Health"
	case model.CategoryBalance:
		return "Balance"
	case model.CategoryIndexOptimization:
		return "Index Optimization"
	case model.CategoryOperations:
		return "Operations"
	case model.CategoryClusterScaling:
		return "Cluster Scaling"
	default:
		return "Other"
	}
}

// severityBadge returns a coloured, fixed-width badge.
func severityBadge(sev model.RecommendationSeverity) string {
	switch sev {
	case model.SeverityCritical:
		return StyleRed.Bold(true).Render("[CRITICAL]")
	case model.SeverityWarning:
		return StyleYellow.Bold(true).Render("[WARN]    ")
	default:
		return StyleBlue.Bold(true).Render("[INFO]    ")
	}
}

// wrapText wraps text at maxWidth runes on word boundaries. Words longer
// than maxWidth are left whole.
func wrapText(text string, maxWidth int) string {
	if maxWidth <= 0 || utf8.RuneCountInString(text) <= maxWidth {
		return text
	}
	words := strings.Fields(text)
	if len(words) == 0 {
		return text
	}
	var lines []string
	var current strings.Builder
	currentLen := 0
	for _, word := range words {
		wordLen := utf8.RuneCountInString(word)
		switch {
		case currentLen == 0:
			current.WriteString(word)
			currentLen = wordLen
		case currentLen+1+wordLen <= maxWidth:
			current.WriteByte(' ')
			current.WriteString(word)
			currentLen += 1 + wordLen
		default:
			lines = append(lines, current.String())
			current.Reset()
			current.WriteString(word)
			currentLen = wordLen
		}
	}
	if currentLen > 0 {
		lines = append(lines, current.String())
	}
	return strings.Join(lines, "\n")
}

// buildRecommendationLines renders every recommendation as display lines,
// grouped by severity and kept in priority order inside each group. Both
// the view and the scroll bound in Update use it.
func buildRecommendationLines(recs []model.Recommendation, width int) []string {
	var lines []string
	if len(recs) == 0 {
		return []string{"", "  " + StyleGreen.Bold(true).Render("No issues found, cluster looks healthy"), ""}
	}
	for _, sev := range severityOrder {
		var group []model.Recommendation
		for _, r := range recs {
			if r.Severity == sev {
				group = append(group, r)
			}
		}
		if len(group) == 0 {
			continue
		}
		lines = append(lines, "", "  "+StyleDim.Bold(true).Underline(true).Render(fmt.Sprintf("%s (%d)", severityLabel(sev), len(group))))
		for _, r := range group {
			lines = append(lines, fmt.Sprintf("  %s %s %s",
				severityBadge(r.Severity),
				sanitize(r.Title),
				StyleDim.Render("· "+categoryLabel(r.Category)+" · P"+fmt.Sprint(r.Priority))))
			for _, text := range []string{r.Description, r.Action} {
				if text == "" {
					continue
				}
				for _, l := range strings.Split(wrapText(sanitize(text), width-6), "\n") {
					lines = append(lines, "    "+l)
				}
			}
		}
	}
	return lines
}

// renderRecommendationsTitle is measured by both the view and
// recommendationsMaxOffset, since it can wrap on narrow terminals.
func renderRecommendationsTitle(width int) string {
	const titleText = "Recommendations"
	hint := StyleDim.Render("[a/esc: back  ↑↓: scroll]")
	gap := width - 2 - lipgloss.Width(titleText) - lipgloss.Width(hint)
	if gap < 1 {
		gap = 1
	}
	return StyleHeader.Width(width).MaxWidth(width).Render(titleText + strings.Repeat(" ", gap) + hint)
}

// recommendationsLayout returns the content lines and the number of lines
// that fit between the header, title bar and footer.
func recommendationsLayout(app *App) (lines []string, contentH int, overflows bool) {
	width := app.width
	if width <= 0 {
		width = 80
	}
	height := app.height
	if height <= 0 {
		height = 24
	}
	availH := height -
		renderedHeight(renderHeader(app)) -
		renderedHeight(renderRecommendationsTitle(width)) -
		renderedHeight(renderFooter(app))
	if availH < 1 {
		availH = 1
	}
	lines = buildRecommendationLines(app.report.Recommendations, width)
	overflows = len(lines) > availH
	contentH = availH
	// The last line is kept for the scroll hint.
	if overflows && contentH > 1 {
		contentH--
	}
	return lines, contentH, overflows
}

// recommendationsMaxOffset bounds the scroll offset so repeated ↓ presses
// past the end do not build up a debt that ↑ has to pay back.
func recommendationsMaxOffset(app *App) int {
	lines, contentH, _ := recommendationsLayout(app)
	return max(len(lines)-contentH, 0)
}

// renderRecommendations renders the title bar and the visible slice of the
// recommendation list. View draws the header above and the footer below.
func renderRecommendations(app *App) string {
	width := app.width
	if width <= 0 {
		width = 80
	}
	lines, contentH, overflows := recommendationsLayout(app)

	maxOffset := max(len(lines)-contentH, 0)
	offset := min(app.scrollOffset, maxOffset)
	end := min(offset+contentH, len(lines))

	visible := append([]string{}, lines[offset:end]...)
	for len(visible) < contentH {
		visible = append(visible, "")
	}
	if overflows {
		var hint string
		switch {
		case offset == 0:
			hint = "  ↓ scroll for more"
		case offset >= maxOffset:
			hint = "  ↑ scroll up"
		default:
			hint = "  ↑↓ scroll"
		}
		visible = append(visible, StyleDim.Render(hint))
	}
	return renderRecommendationsTitle(width) + "\n" + strings.Join(visible, "\n")
}

// renderedHeight counts the lines of a rendered block; "" is zero lines.
func renderedHeight(s string) int {
	if s == "" {
		return 0
	}
	return lipgloss.Height(s)
}
