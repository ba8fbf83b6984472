package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dm/esadvisor/internal/advisor"
	"github.com/dm/esadvisor/internal/client"
	"github.com/dm/esadvisor/internal/client/clienttest"
	"github.com/dm/esadvisor/internal/model"
)

func makeFixtureSnapshot() *model.Snapshot {
	snap := &model.Snapshot{FetchedAt: time.Now()}
	snap.Health.ClusterName = "prod"
	snap.Health.Status = "green"
	return snap
}

// fixtureReport is a small two-node report with one critical and one
// warning recommendation.
func fixtureReport() advisor.Report {
	return advisor.Report{
		Recommendations: []model.Recommendation{
			{Severity: model.SeverityCritical, Category: model.CategoryMemory, Title: "High Heap Usage on node-1", Priority: 1},
			{Severity: model.SeverityWarning, Category: model.CategoryStorage, Title: "High Disk Usage on node-2", Priority: 2},
		},
		Summary: model.ExecutiveSummary{
			OverallHealth:  "green",
			TotalNodes:     2,
			DataNodes:      2,
			MasterNodes:    1,
			CriticalIssues: 1,
			Warnings:       1,
			AvgHeapUsage:   70,
			AvgCPUUsage:    42,
			AvgDiskUsage:   60,
		},
		NodeAnalysis: []model.NodeSnapshot{
			{NodeID: "a", NodeName: "node-1", Roles: []string{"master", "data"}, HeapUsedPercent: 90, CPUUsagePercent: 40, DiskUsagePercent: 50, LoadAverage1m: 1.5},
			{NodeID: "b", NodeName: "node-2", Roles: []string{"data"}, HeapUsedPercent: 50, CPUUsagePercent: 44, DiskUsagePercent: 87, LoadAverage1m: 0.5},
		},
		ShardAnalysis: &model.ShardAnalysis{
			ShardDistribution: map[string]int{"node-1": 12, "node-2": 8},
		},
		ClusterHealth: &model.ClusterHealthSnapshot{
			ClusterName:   "prod",
			Status:        model.StatusGreen,
			NumberOfNodes: 2,
			ShardCounters: model.ShardCounters{ActiveShards: 20},
		},
		Details: model.DetailedAnalysis{
			IndexInsights: []model.IndexInsight{
				{IndexName: "logs", TotalSize: 3 << 30, ShardCount: 3, AvgShardSize: 1 << 30, MaxShardSize: 2 << 30},
			},
		},
	}
}

func makeFixtureMsg(snap *model.Snapshot) SnapshotMsg {
	return SnapshotMsg{
		Snapshot: snap,
		Report:   fixtureReport(),
		Rates:    model.PerformanceMetrics{IndexingRate: 100, SearchRate: 200},
	}
}

func TestApp_SnapshotMsgUpdatesState(t *testing.T) {
	app := NewApp(nil, 10*time.Second)
	require.Nil(t, app.current)
	require.Equal(t, 0, app.consecutiveFails)

	snap := makeFixtureSnapshot()
	msg := makeFixtureMsg(snap)

	newModel, cmd := app.Update(msg)
	updated := newModel.(*App)

	assert.Equal(t, snap, updated.current)
	assert.Nil(t, updated.previous)
	assert.False(t, updated.fetching)
	assert.Equal(t, 0, updated.consecutiveFails)
	assert.Nil(t, updated.lastError)
	assert.Equal(t, stateConnected, updated.connState)
	assert.Equal(t, msg.Report, updated.report)
	assert.Equal(t, msg.Rates, updated.rates)
	assert.Equal(t, snap.FetchedAt, updated.lastUpdated)
	assert.Equal(t, 1, updated.history.Len(), "every poll records a sample")
	assert.Len(t, updated.nodeTable.displayRows, 2)
	assert.Len(t, updated.indexTable.displayRows, 1)
	require.NotNil(t, cmd)
}

func TestApp_SnapshotMsgRotatesPreviousCurrent(t *testing.T) {
	app := NewApp(nil, 10*time.Second)
	snap1 := makeFixtureSnapshot()
	snap2 := makeFixtureSnapshot()

	newModel, _ := app.Update(makeFixtureMsg(snap1))
	app = newModel.(*App)
	newModel, _ = app.Update(makeFixtureMsg(snap2))
	app = newModel.(*App)

	assert.Equal(t, snap2, app.current)
	assert.Equal(t, snap1, app.previous)
}

func TestApp_HistoryTracksSummary(t *testing.T) {
	app := NewApp(nil, 10*time.Second)
	for i := 1; i <= 3; i++ {
		msg := makeFixtureMsg(makeFixtureSnapshot())
		msg.Report.Summary.AvgHeapUsage = float64(i * 20)
		msg.Rates.IndexingRate = float64(i * 100)
		newModel, _ := app.Update(msg)
		app = newModel.(*App)
	}

	require.Equal(t, 3, app.history.Len())
	assert.Equal(t, []float64{20, 40, 60}, app.history.Values("heap"))
	assert.Equal(t, []float64{100, 200, 300}, app.history.Values("indexingRate"))

	sparkline := stripANSI(RenderSparkline(app.history.Values("heap"), 10, testColor))
	assert.Contains(t, sparkline, "█")
}

func TestApp_FetchErrorIncreasesFails(t *testing.T) {
	app := NewApp(nil, 10*time.Second)

	err1 := errors.New("connection refused")
	newModel, cmd1 := app.Update(FetchErrorMsg{Err: err1})
	app = newModel.(*App)

	assert.Equal(t, 1, app.consecutiveFails)
	assert.Equal(t, err1, app.lastError)
	assert.Equal(t, stateDisconnected, app.connState)
	require.NotNil(t, cmd1)

	newModel, cmd2 := app.Update(FetchErrorMsg{Err: err1})
	app = newModel.(*App)

	assert.Equal(t, 2, app.consecutiveFails)
	assert.Equal(t, 2, app.countdownGen)
	require.NotNil(t, cmd2)
}

func TestApp_FetchErrorResetsOnSuccess(t *testing.T) {
	app := NewApp(nil, 10*time.Second)

	newModel, _ := app.Update(FetchErrorMsg{Err: errors.New("timeout")})
	newModel, _ = newModel.(*App).Update(FetchErrorMsg{Err: errors.New("timeout")})
	app = newModel.(*App)
	require.Equal(t, 2, app.consecutiveFails)

	newModel, _ = app.Update(makeFixtureMsg(makeFixtureSnapshot()))
	app = newModel.(*App)

	assert.Equal(t, 0, app.consecutiveFails)
	assert.Nil(t, app.lastError)
	assert.Equal(t, stateConnected, app.connState)
}

func TestApp_TickSkippedWhileFetching(t *testing.T) {
	app := NewApp(nil, 10*time.Second)
	require.True(t, app.fetching, "Init's fetch is in flight")

	_, cmd := app.Update(TickMsg(time.Now()))
	assert.Nil(t, cmd)

	app.fetching = false
	_, cmd = app.Update(TickMsg(time.Now()))
	assert.NotNil(t, cmd)
	assert.True(t, app.fetching)
}

func TestApp_WindowSizeStored(t *testing.T) {
	app := NewApp(nil, 10*time.Second)

	newModel, cmd := app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	updated := newModel.(*App)

	assert.Equal(t, 120, updated.width)
	assert.Equal(t, 40, updated.height)
	assert.Nil(t, cmd)
}

func TestApp_QuitKey(t *testing.T) {
	app := NewApp(nil, 10*time.Second)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	result := cmd()
	_, isQuit := result.(tea.QuitMsg)
	assert.True(t, isQuit, "expected tea.QuitMsg, got %T", result)
}

func TestApp_QuitKeyTypedIntoSearch(t *testing.T) {
	app := NewApp(nil, 10*time.Second)
	app.setFocus(focusNodes)
	app.nodeTable.searching = true
	app.nodeTable.input.Focus()

	newModel, _ := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	app = newModel.(*App)
	assert.Equal(t, "q", app.nodeTable.input.Value())
}

func TestApp_RefreshKey(t *testing.T) {
	app := NewApp(nil, 10*time.Second)
	app.fetching = false

	newModel, cmd := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	updated := newModel.(*App)

	require.NotNil(t, cmd, "expected fetch command returned for 'r' key")
	assert.True(t, updated.fetching)
}

func TestApp_RefreshKeyNoopWhileFetching(t *testing.T) {
	app := NewApp(nil, 10*time.Second)
	app.fetching = true

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	assert.Nil(t, cmd)
}

func TestApp_HelpToggle(t *testing.T) {
	app := NewApp(nil, 10*time.Second)
	require.False(t, app.showHelp)

	newModel, _ := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("?")})
	app = newModel.(*App)
	assert.True(t, app.showHelp)
	assert.Contains(t, stripANSI(renderFooter(app)), "q: quit")

	newModel, _ = app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("?")})
	app = newModel.(*App)
	assert.False(t, app.showHelp)
}

func TestApp_TabCyclesFocus(t *testing.T) {
	app := NewApp(nil, 10*time.Second)
	require.Equal(t, focusNone, app.focus)

	tab := tea.KeyMsg{Type: tea.KeyTab}
	newModel, _ := app.Update(tab)
	app = newModel.(*App)
	assert.Equal(t, focusNodes, app.focus)
	assert.True(t, app.nodeTable.focused)
	assert.False(t, app.indexTable.focused)

	newModel, _ = app.Update(tab)
	app = newModel.(*App)
	assert.Equal(t, focusIndices, app.focus)
	assert.False(t, app.nodeTable.focused)
	assert.True(t, app.indexTable.focused)

	newModel, _ = app.Update(tab)
	app = newModel.(*App)
	assert.Equal(t, focusNone, app.focus)

	newModel, _ = app.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	app = newModel.(*App)
	assert.Equal(t, focusIndices, app.focus)
}

func TestApp_SortKeyReachesFocusedTable(t *testing.T) {
	app := NewApp(nil, 10*time.Second)
	newModel, _ := app.Update(makeFixtureMsg(makeFixtureSnapshot()))
	app = newModel.(*App)
	require.Equal(t, "node-1", app.nodeTable.displayRows[0].Name, "default sort is heap desc")

	app.setFocus(focusNodes)
	// Column 5 is Disk%.
	newModel, _ = app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("5")})
	app = newModel.(*App)
	assert.Equal(t, 4, app.nodeTable.sortCol)
	assert.Equal(t, "node-2", app.nodeTable.displayRows[0].Name)
}

func TestBackoffDuration(t *testing.T) {
	cases := []struct {
		fails    int
		expected time.Duration
	}{
		{0, time.Second},
		{1, 2 * time.Second},
		{2, 4 * time.Second},
		{3, 8 * time.Second},
		{4, 16 * time.Second},
		{5, 32 * time.Second},
		{6, 60 * time.Second},
		{10, 60 * time.Second},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.expected, backoffDuration(tc.fails), "fails=%d", tc.fails)
	}
}

func TestFetchCmd_Success(t *testing.T) {
	mock := &clienttest.MockESClient{}
	prev := &model.Snapshot{FetchedAt: time.Now().Add(-10 * time.Second)}

	msg := fetchCmd(mock, prev, 10*time.Second, "http://mock:9200")()
	snapMsg, ok := msg.(SnapshotMsg)
	require.True(t, ok, "expected SnapshotMsg, got %T", msg)

	require.NotNil(t, snapMsg.Snapshot)
	assert.Equal(t, 1, snapMsg.Report.Summary.TotalNodes)
	require.NotNil(t, snapMsg.Report.ClusterHealth)
	assert.Equal(t, "test", snapMsg.Report.ClusterHealth.ClusterName)
	require.Len(t, snapMsg.Report.IndexMetrics, 1)
	assert.NotNil(t, snapMsg.IndexRates)
	assert.Empty(t, snapMsg.IndexRates, "prev has no index stats")
}

func TestFetchCmd_Failure(t *testing.T) {
	mock := &clienttest.MockESClient{
		HealthFn: func(ctx context.Context) (*client.ClusterHealth, error) {
			return nil, errors.New("connection refused")
		},
	}

	msg := fetchCmd(mock, nil, time.Second, "http://mock:9200")()
	errMsg, ok := msg.(FetchErrorMsg)
	require.True(t, ok, "expected FetchErrorMsg, got %T", msg)
	assert.Contains(t, errMsg.Err.Error(), "connection refused")
}

func TestNewApp_EndpointFromClient(t *testing.T) {
	app := NewApp(&clienttest.MockESClient{}, time.Second)
	assert.Equal(t, "http://mock:9200", app.endpoint)

	app = NewApp(nil, time.Second)
	assert.Equal(t, advisor.DefaultEndpoint, app.endpoint)
}

func TestRenderMiniBar(t *testing.T) {
	cases := []struct {
		percent  float64
		width    int
		wantFill int
	}{
		{0, 10, 0},
		{100, 10, 10},
		{50, 10, 5},
		{25, 8, 2},
		{75, 8, 6},
		{150, 8, 8},
	}
	for _, tc := range cases {
		result := renderMiniBar(tc.percent, tc.width)
		assert.Len(t, []rune(result), tc.width, "total bar width percent=%v", tc.percent)
		assert.Equal(t, tc.wantFill, strings.Count(result, "█"), "filled count percent=%v width=%v", tc.percent, tc.width)
	}
	assert.Equal(t, "", renderMiniBar(50, 0))
}

func TestRenderOverview_NilSnapshot(t *testing.T) {
	app := NewApp(nil, 10*time.Second)
	app.width = 120
	assert.Equal(t, "", renderOverview(app))
}

func TestRenderOverview_WithReport(t *testing.T) {
	app := NewApp(nil, 10*time.Second)
	app.width = 120
	newModel, _ := app.Update(makeFixtureMsg(makeFixtureSnapshot()))
	app = newModel.(*App)

	stripped := stripANSI(renderOverview(app))
	assert.Contains(t, stripped, "GREEN")
	assert.Contains(t, stripped, "Data Nodes")
	assert.Contains(t, stripped, "20")
	assert.Contains(t, stripped, "70.0%")
	assert.Contains(t, stripped, "42.0%")
}

func TestRenderOverview_UnassignedShardsFlagged(t *testing.T) {
	app := NewApp(nil, 10*time.Second)
	app.width = 60
	msg := makeFixtureMsg(makeFixtureSnapshot())
	msg.Report.ClusterHealth.Status = model.StatusYellow
	msg.Report.ClusterHealth.UnassignedShards = 3
	newModel, _ := app.Update(msg)
	app = newModel.(*App)

	stripped := stripANSI(renderOverview(app))
	assert.Contains(t, stripped, "YELLOW")
	assert.Contains(t, stripped, "20 (3!)")
}

func TestRenderTrendsRow(t *testing.T) {
	app := NewApp(nil, 10*time.Second)
	assert.Equal(t, "", renderTrendsRow(app))

	app.width = 120
	newModel, _ := app.Update(makeFixtureMsg(makeFixtureSnapshot()))
	app = newModel.(*App)

	stripped := stripANSI(renderTrendsRow(app))
	assert.Contains(t, stripped, "Trends (last 1 polls)")
	assert.Contains(t, stripped, "Avg Heap")
	assert.Contains(t, stripped, "Indexing Rate")
	assert.Contains(t, stripped, "100.0 /s")
}

func TestApp_ViewShowsDashboard(t *testing.T) {
	app := NewApp(nil, 10*time.Second)
	app.width = 120
	app.height = 50
	newModel, _ := app.Update(makeFixtureMsg(makeFixtureSnapshot()))
	app = newModel.(*App)

	stripped := stripANSI(app.View())
	assert.Contains(t, stripped, "prod")
	assert.Contains(t, stripped, "Nodes")
	assert.Contains(t, stripped, "node-1")
	assert.Contains(t, stripped, "Largest Indices")
	assert.NotContains(t, stripped, "[a/esc: back")
}

// stripANSI removes CSI escape sequences for plain-text assertions.
func stripANSI(s string) string {
	var out strings.Builder
	inEscape := false
	for _, r := range s {
		if r == '\x1b' {
			inEscape = true
			continue
		}
		if inEscape {
			// CSI final bytes are 0x40-0x7E.
			if r >= 0x40 && r <= 0x7E && r != '[' {
				inEscape = false
			}
			continue
		}
		out.WriteRune(r)
	}
	return out.String()
}
