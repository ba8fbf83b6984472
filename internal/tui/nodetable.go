package tui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dm/esadvisor/internal/advisor"
	"github.com/dm/esadvisor/internal/format"
)

// NodeTableModel is a sortable, paginated, searchable table of node gauges.
type NodeTableModel struct {
	tableModel
	allRows     []nodeRow
	displayRows []nodeRow // after filter + sort
}

// NewNodeTable returns a node table sorted by heap usage, highest first.
func NewNodeTable() NodeTableModel {
	cols := []columnDef{
		{Title: "Node", Width: 22},
		{Title: "Roles", Width: 7},
		{Title: "Heap%", Width: 7},
		{Title: "CPU%", Width: 7},
		{Title: "Disk%", Width: 7},
		{Title: "Load", Width: 6},
		{Title: "Shards", Width: 7},
	}
	m := NodeTableModel{tableModel: newTableModel(cols)}
	m.sortCol = 2
	m.sortDesc = true
	return m
}

// SetData replaces the rows and re-applies the current filter and sort.
func (m *NodeTableModel) SetData(rows []nodeRow) {
	m.allRows = rows
	m.refresh()
}

func (m *NodeTableModel) refresh() {
	m.displayRows = sortNodeRows(filterNodeRows(m.allRows, m.search), m.sortCol, m.sortDesc)
	m.clampPage(len(m.displayRows))
	m.clampCursor(len(m.pageIndices(len(m.displayRows))))
}

func (m NodeTableModel) Update(msg tea.Msg) (NodeTableModel, tea.Cmd) {
	prevSort, prevDesc, prevSearch := m.sortCol, m.sortDesc, m.search

	base, cmd := m.tableModel.Update(msg)
	m.tableModel = base

	if m.sortCol != prevSort || m.sortDesc != prevDesc || m.search != prevSearch {
		m.displayRows = sortNodeRows(filterNodeRows(m.allRows, m.search), m.sortCol, m.sortDesc)
	}
	m.clampPage(len(m.displayRows))
	m.clampCursor(len(m.pageIndices(len(m.displayRows))))
	return m, cmd
}

// renderTable renders the "Nodes" section for the current page.
func (m *NodeTableModel) renderTable(width int) string {
	title := m.renderTitle("Nodes", len(m.displayRows))
	pageIdx := m.pageIndices(len(m.displayRows))
	if len(pageIdx) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, title, StyleDim.Render("  (no nodes)"))
	}

	cells := make([][]string, 0, len(pageIdx))
	rows := make([]nodeRow, 0, len(pageIdx))
	for _, idx := range pageIdx {
		r := m.displayRows[idx]
		rows = append(rows, r)
		cells = append(cells, []string{
			sanitize(r.Name),
			r.Roles,
			format.FormatPercent(r.Heap),
			format.FormatPercent(r.CPU),
			format.FormatPercent(r.Disk),
			strconv.FormatFloat(r.Load, 'f', 2, 64),
			strconv.Itoa(r.Shards),
		})
	}

	body := m.renderBody(width, cells, func(row, col int) lipgloss.Color {
		if row < 0 || row >= len(rows) {
			return colorWhite
		}
		r := rows[row]
		switch col {
		case 1:
			return colorBlue
		case 2:
			return severityColor(heapSeverity(r.Heap))
		case 3:
			return severityColor(cpuSeverity(r.CPU))
		case 4:
			return severityColor(diskSeverity(r.Disk))
		case 5:
			return severityColor(loadSeverity(r.Load))
		default:
			return colorWhite
		}
	})

	if m.focused && m.cursor < len(rows) {
		r := rows[m.cursor]
		detail := StyleDim.Render(fmt.Sprintf("  %s  id=%s  roles=%s", sanitize(r.Name), sanitize(r.ID), r.Roles))
		return lipgloss.JoinVertical(lipgloss.Left, title, body, detail)
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, body)
}

// severityColor is the table cell colour of a gauge; normal cells stay white.
func severityColor(s severity) lipgloss.Color {
	if s == severityNormal {
		return colorWhite
	}
	return severityFg(s)
}

// buildNodeRows flattens the report's node analysis, joining shard counts
// from the shard distribution by node name.
func buildNodeRows(r advisor.Report) []nodeRow {
	rows := make([]nodeRow, 0, len(r.NodeAnalysis))
	for _, n := range r.NodeAnalysis {
		row := nodeRow{
			ID:    n.NodeID,
			Name:  n.NodeName,
			Roles: roleLetters(n.Roles),
			Heap:  n.HeapUsedPercent,
			CPU:   n.CPUUsagePercent,
			Disk:  n.DiskUsagePercent,
			Load:  n.LoadAverage1m,
		}
		if r.ShardAnalysis != nil {
			row.Shards = r.ShardAnalysis.ShardDistribution[n.NodeName]
		}
		rows = append(rows, row)
	}
	return rows
}

var roleAbbrev = map[string]string{
	"master":                "m",
	"data":                  "d",
	"data_content":          "s",
	"data_hot":              "h",
	"data_warm":             "w",
	"data_cold":             "c",
	"data_frozen":           "f",
	"ingest":                "i",
	"ml":                    "l",
	"remote_cluster_client": "r",
	"transform":             "t",
	"voting_only":           "v",
}

// roleLetters abbreviates node roles the way _cat/nodes does ("dim").
// A node without roles is coordinating-only and shows "-".
func roleLetters(roles []string) string {
	if len(roles) == 0 {
		return "-"
	}
	var b strings.Builder
	for _, role := range roles {
		if a, ok := roleAbbrev[role]; ok {
			b.WriteString(a)
		} else if role != "" {
			b.WriteString(role[:1])
		}
	}
	return b.String()
}
