package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dm/esadvisor/internal/advisor"
	"github.com/dm/esadvisor/internal/client"
	"github.com/dm/esadvisor/internal/engine"
	"github.com/dm/esadvisor/internal/model"
)

type connState int

const (
	stateConnected connState = iota
	stateDisconnected
)

// focusArea is the table receiving navigation keys.
type focusArea int

const (
	focusNone focusArea = iota
	focusNodes
	focusIndices
)

// App is the root Bubble Tea model of the watch dashboard.
type App struct {
	client       client.ESClient
	pollInterval time.Duration
	endpoint     string

	// Poll state
	fetching bool // a fetchCmd is in flight
	current  *model.Snapshot
	previous *model.Snapshot
	report   advisor.Report
	rates    model.PerformanceMetrics
	history  *model.SampleHistory

	// Connection state
	connState        connState
	consecutiveFails int
	lastError        error
	lastUpdated      time.Time
	nextRetryAt      time.Time
	countdownGen     int

	nodeTable  NodeTableModel
	indexTable IndexTableModel
	focus      focusArea

	width, height int

	showHelp            bool
	recommendationsMode bool
	scrollOffset        int
}

// NewApp creates an App polling c every interval. Suggested commands in the
// recommendations point at c's base URL.
func NewApp(c client.ESClient, interval time.Duration) *App {
	endpoint := advisor.DefaultEndpoint
	if c != nil {
		endpoint = engine.CommandEndpoint(c.BaseURL())
	}
	return &App{
		client:       c,
		pollInterval: interval,
		endpoint:     endpoint,
		history:      model.NewSampleHistory(0),
		connState:    stateDisconnected,
		nodeTable:    NewNodeTable(),
		indexTable:   NewIndexTable(),
		fetching:     true, // Init issues the first fetch
	}
}

// Init starts the first fetch immediately.
func (app *App) Init() tea.Cmd {
	return fetchCmd(app.client, nil, app.pollInterval, app.endpoint)
}

func (app *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		app.width = msg.Width
		app.height = msg.Height

	case SnapshotMsg:
		app.fetching = false
		app.previous = app.current
		app.current = msg.Snapshot
		app.report = msg.Report
		app.rates = msg.Rates
		app.history.Push(model.NewSample(msg.Snapshot.FetchedAt, msg.Report.Summary, msg.Rates))
		app.nodeTable.SetData(buildNodeRows(msg.Report))
		app.indexTable.SetData(buildIndexRows(msg.Report, msg.IndexRates))
		app.consecutiveFails = 0
		app.lastError = nil
		app.nextRetryAt = time.Time{}
		app.connState = stateConnected
		app.lastUpdated = msg.Snapshot.FetchedAt
		return app, tickCmd(app.pollInterval)

	case FetchErrorMsg:
		app.fetching = false
		app.consecutiveFails++
		app.lastError = msg.Err
		app.connState = stateDisconnected
		backoff := backoffDuration(app.consecutiveFails)
		app.nextRetryAt = time.Now().Add(backoff)
		app.countdownGen++
		return app, tea.Batch(tickCmd(backoff), countdownCmd(app.countdownGen))

	case CountdownTickMsg:
		if msg.Gen != app.countdownGen || app.connState != stateDisconnected {
			return app, nil
		}
		return app, countdownCmd(msg.Gen)

	case TickMsg:
		return app, app.startFetch()

	case tea.KeyMsg:
		return app.handleKey(msg)
	}

	return app, nil
}

func (app *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// A table with an open search box receives every key.
	if app.searching() {
		return app, app.updateFocusedTable(msg)
	}

	switch {
	case key.Matches(msg, keys.Quit):
		return app, tea.Quit
	case key.Matches(msg, keys.Refresh):
		return app, app.startFetch()
	case key.Matches(msg, keys.Help):
		app.showHelp = !app.showHelp
		return app, nil
	case key.Matches(msg, keys.Analytics):
		app.recommendationsMode = !app.recommendationsMode
		app.scrollOffset = 0
		return app, nil
	}

	if app.recommendationsMode {
		switch {
		case key.Matches(msg, keys.Escape):
			app.recommendationsMode = false
			app.scrollOffset = 0
		case key.Matches(msg, keys.Up):
			if app.scrollOffset > 0 {
				app.scrollOffset--
			}
		case key.Matches(msg, keys.Down):
			app.scrollOffset = min(app.scrollOffset+1, recommendationsMaxOffset(app))
		}
		return app, nil
	}

	switch {
	case key.Matches(msg, keys.Tab):
		app.setFocus((app.focus + 1) % 3)
		return app, nil
	case key.Matches(msg, keys.ShiftTab):
		app.setFocus((app.focus + 2) % 3)
		return app, nil
	}
	return app, app.updateFocusedTable(msg)
}

// startFetch issues a fetch unless one is already in flight.
func (app *App) startFetch() tea.Cmd {
	if app.fetching {
		return nil
	}
	app.fetching = true
	return fetchCmd(app.client, app.current, app.pollInterval, app.endpoint)
}

func (app *App) setFocus(f focusArea) {
	app.focus = f
	app.nodeTable.focused = f == focusNodes
	app.indexTable.focused = f == focusIndices
}

func (app *App) searching() bool {
	return app.nodeTable.searching || app.indexTable.searching
}

func (app *App) updateFocusedTable(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch app.focus {
	case focusNodes:
		app.nodeTable, cmd = app.nodeTable.Update(msg)
	case focusIndices:
		app.indexTable, cmd = app.indexTable.Update(msg)
	}
	return cmd
}

func (app *App) View() string {
	var parts []string
	parts = append(parts, renderHeader(app))

	if app.recommendationsMode {
		parts = append(parts, renderRecommendations(app))
		parts = append(parts, renderFooter(app))
		return strings.Join(parts, "\n")
	}

	if o := renderOverview(app); o != "" {
		parts = append(parts, o)
	}
	if t := renderTrendsRow(app); t != "" {
		parts = append(parts, t)
	}
	if app.current != nil {
		parts = append(parts, app.nodeTable.renderTable(app.width))
		parts = append(parts, app.indexTable.renderTable(app.width))
	}
	parts = append(parts, renderFooter(app))
	return strings.Join(parts, "\n")
}

// tickCmd schedules the next poll after d.
func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// countdownCmd redraws the retry countdown one second from now.
func countdownCmd(gen int) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return CountdownTickMsg{Gen: gen}
	})
}

// fetchCmd polls the cluster, derives rates against prev and runs the
// advisors. The request budget is the poll interval less half a second.
func fetchCmd(c client.ESClient, prev *model.Snapshot, interval time.Duration, endpoint string) tea.Cmd {
	return func() tea.Msg {
		timeout := interval - 500*time.Millisecond
		if timeout < 500*time.Millisecond {
			timeout = 500 * time.Millisecond
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		snap, err := engine.FetchAll(ctx, c)
		if err != nil {
			return FetchErrorMsg{Err: err}
		}

		var elapsed time.Duration
		if prev != nil {
			elapsed = snap.FetchedAt.Sub(prev.FetchedAt)
		}
		return SnapshotMsg{
			Snapshot: snap,
			Report:   engine.Analyze(snap, endpoint),
			Rates:    engine.CalcClusterRates(prev, snap, elapsed),

			IndexRates: engine.CalcIndexRates(prev, snap, elapsed),
		}
	}
}

// backoffDuration returns min(2^fails seconds, 60s).
func backoffDuration(fails int) time.Duration {
	const maxBackoff = 60 * time.Second
	if fails <= 0 {
		return time.Second
	}
	if fails >= 6 {
		return maxBackoff
	}
	return time.Duration(1<<fails) * time.Second
}
