package tui

import (
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dm/esadvisor/internal/advisor"
	"github.com/dm/esadvisor/internal/format"
	"github.com/dm/esadvisor/internal/model"
)

// IndexTableModel lists the cluster's indices with their size, document count
// and live indexing and search rates.
type IndexTableModel struct {
	tableModel
	allRows     []indexRow
	displayRows []indexRow
}

// NewIndexTable returns an index table sorted by size, largest first.
func NewIndexTable() IndexTableModel {
	cols := []columnDef{
		{Title: "Index", Width: 26},
		{Title: "Shards", Width: 7},
		{Title: "Size", Width: 10},
		{Title: "Docs", Width: 13},
		{Title: "Index/s", Width: 11},
		{Title: "Search/s", Width: 11},
		{Title: "Max Shard", Width: 10},
		{Title: "Issues", Width: 7},
	}
	m := IndexTableModel{tableModel: newTableModel(cols)}
	m.sortCol = 2
	m.sortDesc = true
	return m
}

func (m *IndexTableModel) SetData(rows []indexRow) {
	m.allRows = rows
	m.displayRows = sortIndexRows(filterIndexRows(m.allRows, m.search), m.sortCol, m.sortDesc)
	m.clampPage(len(m.displayRows))
	m.clampCursor(len(m.pageIndices(len(m.displayRows))))
}

func (m IndexTableModel) Update(msg tea.Msg) (IndexTableModel, tea.Cmd) {
	prevSort, prevDesc, prevSearch := m.sortCol, m.sortDesc, m.search

	base, cmd := m.tableModel.Update(msg)
	m.tableModel = base

	if m.sortCol != prevSort || m.sortDesc != prevDesc || m.search != prevSearch {
		m.displayRows = sortIndexRows(filterIndexRows(m.allRows, m.search), m.sortCol, m.sortDesc)
	}
	m.clampPage(len(m.displayRows))
	m.clampCursor(len(m.pageIndices(len(m.displayRows))))
	return m, cmd
}

// renderTable renders the "Largest Indices" section for the current page.
// The selected row's issues are listed underneath when the table has focus.
func (m *IndexTableModel) renderTable(width int) string {
	title := m.renderTitle("Largest Indices", len(m.displayRows))
	pageIdx := m.pageIndices(len(m.displayRows))
	if len(pageIdx) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, title, StyleDim.Render("  (no index stats)"))
	}

	cells := make([][]string, 0, len(pageIdx))
	rows := make([]indexRow, 0, len(pageIdx))
	for _, idx := range pageIdx {
		r := m.displayRows[idx]
		rows = append(rows, r)
		cells = append(cells, []string{
			sanitize(r.Name),
			strconv.Itoa(r.Shards),
			format.FormatBytes(r.Size),
			format.FormatNumber(r.Docs),
			format.FormatRate(r.IndexRate),
			format.FormatRate(r.SearchRate),
			format.FormatBytes(r.MaxShard),
			strconv.Itoa(len(r.Issues)),
		})
	}

	body := m.renderBody(width, cells, func(row, col int) lipgloss.Color {
		if row < 0 || row >= len(rows) {
			return colorWhite
		}
		switch col {
		case 2, 6:
			return colorPurple
		case 4, 5:
			return colorCyan
		case 7:
			if len(rows[row].Issues) > 0 {
				return colorYellow
			}
		}
		return colorWhite
	})

	if m.focused && m.cursor < len(rows) && len(rows[m.cursor].Issues) > 0 {
		detail := StyleDim.Render("  " + sanitize(strings.Join(rows[m.cursor].Issues, "; ")))
		return lipgloss.JoinVertical(lipgloss.Left, title, body, detail)
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, body)
}

// buildIndexRows joins the per-index stats with the shard-based insights and
// the rates since the previous poll. Without index stats only the indices
// owning one of the largest shards are listed. A rate of -1 means no baseline.
func buildIndexRows(r advisor.Report, rates map[string]model.PerformanceMetrics) []indexRow {
	insights := make(map[string]model.IndexInsight, len(r.Details.IndexInsights))
	for _, in := range r.Details.IndexInsights {
		insights[in.IndexName] = in
	}

	if r.IndexMetrics == nil {
		rows := make([]indexRow, 0, len(r.Details.IndexInsights))
		for _, in := range r.Details.IndexInsights {
			rows = append(rows, indexRow{
				Name:       in.IndexName,
				Shards:     in.ShardCount,
				Size:       in.TotalSize,
				IndexRate:  -1,
				SearchRate: -1,
				MaxShard:   in.MaxShardSize,
				Issues:     in.Issues,
			})
		}
		return rows
	}

	var shardCounts map[string]int
	if r.ShardAnalysis != nil {
		shardCounts = r.ShardAnalysis.IndexShardCounts
	}
	rows := make([]indexRow, 0, len(r.IndexMetrics))
	for _, im := range r.IndexMetrics {
		row := indexRow{
			Name:       im.Name,
			Shards:     shardCounts[im.Name],
			Size:       im.TotalSizeBytes,
			Docs:       im.DocsCount,
			IndexRate:  -1,
			SearchRate: -1,
		}
		if row.Size == 0 {
			row.Size = im.SizeBytes
		}
		if rate, ok := rates[im.Name]; ok {
			row.IndexRate = rate.IndexingRate
			row.SearchRate = rate.SearchRate
		}
		if in, ok := insights[im.Name]; ok {
			row.MaxShard = in.MaxShardSize
			row.Issues = in.Issues
		}
		rows = append(rows, row)
	}
	return rows
}
