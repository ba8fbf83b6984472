package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

const maxErrorLen = 40

// renderHeader renders the single-line top bar.
//
//	left:   cluster name, or "Connecting to <URL>..." before the first poll
//	center: "● STATUS", or "● <error>" while disconnected
//	right:  "Last: HH:MM:SS  Poll: 30s", or the retry countdown
//
// Segments are truncated so the bar never wraps.
func renderHeader(app *App) string {
	width := app.width
	if width <= 0 {
		width = 80
	}

	var left, center, right string
	var centerStyle, rightStyle lipgloss.Style

	if app.current == nil {
		baseURL := ""
		if app.client != nil {
			baseURL = app.client.BaseURL()
		}
		left = "Connecting to " + sanitize(baseURL) + "..."
	} else {
		left = sanitize(app.current.Health.ClusterName)
		if left == "" && app.client != nil {
			left = sanitize(app.client.BaseURL())
		}
	}

	switch {
	case app.connState == stateDisconnected && app.lastError != nil:
		center = "● " + classifyError(app.lastError)
		centerStyle = StyleError
		right = retryCountdown(app.nextRetryAt)
		rightStyle = StyleError
	case app.current != nil:
		status := strings.ToUpper(sanitize(app.current.Health.Status))
		if status == "" {
			status = "UNKNOWN"
		}
		center = "● " + status
		centerStyle = StatusStyle(app.current.Health.Status)
		lastStr := "--:--:--"
		if !app.lastUpdated.IsZero() {
			lastStr = app.lastUpdated.Format("15:04:05")
		}
		right = fmt.Sprintf("Last: %s  Poll: %s", lastStr, formatDuration(app.pollInterval))
		rightStyle = StyleDim
	}

	// StyleHeader has Padding(0, 1).
	innerWidth := width - 2
	if innerWidth < 1 {
		innerWidth = 1
	}

	// Drop the right segment first, then shrink the cluster name, then the center.
	if lipgloss.Width(left)+lipgloss.Width(center)+lipgloss.Width(right)+2 > innerWidth {
		right = ""
	}
	if room := innerWidth - lipgloss.Width(center) - 1; lipgloss.Width(left) > room {
		left = truncateName(left, room)
	}
	if room := innerWidth - lipgloss.Width(left); lipgloss.Width(center) > room {
		center = truncateName(center, room)
	}

	spacing := innerWidth - lipgloss.Width(left) - lipgloss.Width(center) - lipgloss.Width(right)
	if spacing < 0 {
		spacing = 0
	}
	leftSpacing := spacing / 2
	rightSpacing := spacing - leftSpacing

	row := left +
		strings.Repeat(" ", leftSpacing) +
		centerStyle.Render(center) +
		strings.Repeat(" ", rightSpacing) +
		rightStyle.Render(right)

	return StyleHeader.Width(width).MaxWidth(width).Render(row)
}

// classifyError maps a poll error onto a short operator-facing label.
func classifyError(err error) string {
	if err == nil {
		return ""
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "connection refused"):
		return "Connection refused"
	case strings.Contains(msg, "401") || strings.Contains(msg, "unauthorized"):
		return "Authentication failed (401)"
	case strings.Contains(msg, "403") || strings.Contains(msg, "forbidden"):
		return "Authentication failed (403)"
	case isTLSError(err):
		return "TLS error"
	case strings.Contains(msg, "deadline exceeded") || strings.Contains(msg, "timeout"):
		return "Timeout"
	}
	clean := []rune(sanitize(err.Error()))
	if len(clean) > maxErrorLen {
		return string(clean[:maxErrorLen]) + "..."
	}
	return string(clean)
}

func isTLSError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "x509") ||
		strings.Contains(msg, "tls") ||
		strings.Contains(msg, "certificate")
}

// retryCountdown describes when the next reconnect attempt fires.
func retryCountdown(at time.Time) string {
	if at.IsZero() {
		return "Press r to retry"
	}
	left := time.Until(at)
	if left <= 0 {
		return "Retrying..."
	}
	secs := int(math.Ceil(left.Seconds()))
	return fmt.Sprintf("Retrying in %ds  r: retry now", secs)
}

// formatDuration renders a poll interval compactly: "10s", "2m", "1m30s".
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	m := int(d / time.Minute)
	s := int((d % time.Minute) / time.Second)
	if s == 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dm%ds", m, s)
}

// sanitize strips terminal escape sequences and control characters from
// strings that come from the cluster (names, errors, index names).
func sanitize(s string) string {
	runes := []rune(s)
	var b strings.Builder
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r == 0x1b {
			i = skipEscape(runes, i)
			continue
		}
		if r < 0x20 || r == 0x7f || (r >= 0x80 && r <= 0x9f) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// skipEscape returns the index of the last rune of the escape sequence
// starting at runes[i].
func skipEscape(runes []rune, i int) int {
	if i+1 >= len(runes) {
		return i
	}
	switch runes[i+1] {
	case '[':
		for j := i + 2; j < len(runes); j++ {
			if runes[j] >= 0x40 && runes[j] <= 0x7e {
				return j
			}
		}
	case ']':
		for j := i + 2; j < len(runes); j++ {
			if runes[j] == 0x07 {
				return j
			}
			if runes[j] == 0x1b && j+1 < len(runes) && runes[j+1] == '\\' {
				return j + 1
			}
		}
	default:
		return i + 1
	}
	return len(runes) - 1
}
