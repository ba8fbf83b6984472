package tui

import (
	"time"

	"github.com/dm/esadvisor/internal/advisor"
	"github.com/dm/esadvisor/internal/model"
)

// SnapshotMsg delivers one successful poll and its analysis to the TUI.
type SnapshotMsg struct {
	Snapshot *model.Snapshot
	Report   advisor.Report
	Rates    model.PerformanceMetrics
	// IndexRates holds per-index rates keyed by index name. Empty on the
	// first poll.
	IndexRates map[string]model.PerformanceMetrics
}

// FetchErrorMsg signals a poll failure.
type FetchErrorMsg struct{ Err error }

// TickMsg triggers the next scheduled poll.
type TickMsg time.Time

// CountdownTickMsg refreshes the retry countdown in the header once a second
// while disconnected. Gen ties the tick to one failure so stale ticks from an
// earlier backoff are dropped.
type CountdownTickMsg struct{ Gen int }
