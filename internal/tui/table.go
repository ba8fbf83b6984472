package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-runewidth"
)

const (
	defaultPageSize = 10
	minColWidth     = 4
)

// columnDef describes a single column in a table. Width is the preferred
// width used to share out the terminal width proportionally.
type columnDef struct {
	Title string
	Width int
}

// tableModel is the sortable, paginated, searchable base shared by the node
// and index tables. Row data lives in the embedding type.
type tableModel struct {
	columns   []columnDef
	sortCol   int // -1 = unsorted
	sortDesc  bool
	page      int // 0-indexed
	pageSize  int
	cursor    int // row within the current page
	search    string
	searching bool
	input     textinput.Model
	focused   bool
}

func newTableModel(cols []columnDef) tableModel {
	ti := textinput.New()
	ti.Placeholder = "filter..."
	ti.CharLimit = 80
	return tableModel{
		columns:  cols,
		sortCol:  -1,
		pageSize: defaultPageSize,
		input:    ti,
	}
}

// Update handles keyboard input for the cursor, sorting, pagination and
// search. Unfocused tables ignore all input.
func (t tableModel) Update(msg tea.Msg) (tableModel, tea.Cmd) {
	if !t.focused {
		return t, nil
	}
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return t, nil
	}

	if t.searching {
		switch {
		case key.Matches(km, keys.Escape):
			t.searching = false
			t.input.Blur()
			if t.input.Value() == "" {
				t.search = ""
			}
			return t, nil
		case km.Type == tea.KeyEnter:
			t.search = t.input.Value()
			t.searching = false
			t.input.Blur()
			t.page = 0
			t.cursor = 0
			return t, nil
		default:
			var cmd tea.Cmd
			t.input, cmd = t.input.Update(km)
			return t, cmd
		}
	}

	switch {
	case key.Matches(km, keys.Search):
		t.searching = true
		t.input.SetValue(t.search)
		t.input.Focus()
		return t, textinput.Blink
	case key.Matches(km, keys.Escape):
		t.search = ""
		t.input.SetValue("")
		t.page = 0
		t.cursor = 0
	case key.Matches(km, keys.Up):
		if t.cursor > 0 {
			t.cursor--
		}
	case key.Matches(km, keys.Down):
		// Upper bound is applied by the caller via clampCursor.
		t.cursor++
	case key.Matches(km, keys.PrevPage):
		if t.page > 0 {
			t.page--
		}
		t.cursor = 0
	case key.Matches(km, keys.NextPage):
		t.page++
		t.cursor = 0
	default:
		col := digitToCol(km.String())
		if col >= 0 && col < len(t.columns) {
			if col == t.sortCol {
				t.sortDesc = !t.sortDesc
			} else {
				t.sortCol = col
				t.sortDesc = true
			}
			t.page = 0
			t.cursor = 0
		}
	}
	return t, nil
}

// digitToCol converts a "1"-"9" key string to a 0-indexed column number.
// Returns -1 for any other string.
func digitToCol(s string) int {
	if len(s) == 1 && s[0] >= '1' && s[0] <= '9' {
		return int(s[0] - '1')
	}
	return -1
}

// pageCount is always at least 1.
func pageCount(totalRows, pageSize int) int {
	if totalRows == 0 || pageSize <= 0 {
		return 1
	}
	c := totalRows / pageSize
	if totalRows%pageSize != 0 {
		c++
	}
	return c
}

// currentPageIndices returns the slice of row indices visible on page. A page
// past the end falls back to the first page.
func currentPageIndices(allIndices []int, page, pageSize int) []int {
	if pageSize <= 0 || len(allIndices) == 0 {
		return allIndices
	}
	start := page * pageSize
	if start >= len(allIndices) {
		start = 0
	}
	end := start + pageSize
	if end > len(allIndices) {
		end = len(allIndices)
	}
	return allIndices[start:end]
}

func (t *tableModel) clampPage(totalRows int) {
	pc := pageCount(totalRows, t.pageSize)
	if t.page >= pc {
		t.page = pc - 1
	}
	if t.page < 0 {
		t.page = 0
	}
}

func (t *tableModel) clampCursor(pageRows int) {
	if pageRows <= 0 {
		t.cursor = 0
		return
	}
	if t.cursor >= pageRows {
		t.cursor = pageRows - 1
	}
	if t.cursor < 0 {
		t.cursor = 0
	}
}

// pageIndices returns the row indices shown on the current page.
func (t *tableModel) pageIndices(totalRows int) []int {
	all := make([]int, totalRows)
	for i := range all {
		all[i] = i
	}
	return currentPageIndices(all, t.page, t.pageSize)
}

// renderTitle renders the section title with search, sort and page hints.
func (t *tableModel) renderTitle(title string, totalRows int) string {
	pageInfo := fmt.Sprintf("Page %d/%d", t.page+1, pageCount(totalRows, t.pageSize))

	var right string
	switch {
	case t.searching:
		right = "Search: " + t.input.View()
	case t.search != "":
		right = fmt.Sprintf("filter=%q  %s", t.search, pageInfo)
	default:
		right = fmt.Sprintf("[/: search]  [1-%d: sort]  [←→: page]  %s", len(t.columns), pageInfo)
	}
	if t.focused {
		title = StyleBlue.Bold(true).Render("▶ " + title)
	}
	return StyleDim.Render(title + "  " + right)
}

// renderBody renders cells (already limited to the current page) under the
// column headers. colColor picks the foreground for a body cell.
func (t *tableModel) renderBody(width int, cells [][]string, colColor func(row, col int) lipgloss.Color) string {
	var colWidths []int
	if width > 0 {
		colWidths = columnWidths(width, t.columns)
	}

	headers := make([]string, len(t.columns))
	for i, c := range t.columns {
		h := c.Title
		if i == t.sortCol {
			if t.sortDesc {
				h += "↓"
			} else {
				h += "↑"
			}
		}
		// Padding the headers steers the table toward the proportional widths.
		if len(colWidths) == len(t.columns) {
			if w := runewidth.StringWidth(h); w < colWidths[i] {
				h += strings.Repeat(" ", colWidths[i]-w)
			}
		}
		headers[i] = h
	}

	sortCol := t.sortCol
	focused := t.focused
	cursor := t.cursor
	tbl := ltable.New().
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == ltable.HeaderRow {
				if col == sortCol {
					return lipgloss.NewStyle().Bold(true).Foreground(colorBlue)
				}
				return lipgloss.NewStyle().Bold(true).Foreground(colorGray)
			}
			base := lipgloss.NewStyle()
			if focused && row == cursor {
				base = base.Background(colorSelectedBg)
			} else if row%2 == 0 {
				base = base.Background(colorAlt)
			}
			return base.Foreground(colColor(row, col))
		}).
		BorderStyle(lipgloss.NewStyle().Foreground(colorGray)).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(true).
		BorderColumn(false)

	if width > 0 {
		tbl = tbl.Width(width)
	}
	for _, row := range cells {
		if len(colWidths) > 0 {
			row[0] = truncateName(row[0], colWidths[0])
		}
		tbl = tbl.Row(row...)
	}
	return tbl.String()
}

// columnWidths shares available out in proportion to the preferred widths.
// The last column takes the remainder. Every column gets at least
// minColWidth. Non-positive available returns the preferred widths.
func columnWidths(available int, defs []columnDef) []int {
	out := make([]int, len(defs))
	if len(defs) == 0 {
		return out
	}
	if available <= 0 {
		for i, d := range defs {
			out[i] = d.Width
		}
		return out
	}
	total := 0
	for _, d := range defs {
		total += d.Width
	}
	if total <= 0 {
		total = len(defs)
	}
	used := 0
	for i, d := range defs {
		w := available * d.Width / total
		if i == len(defs)-1 {
			w = available - used
		}
		if w < minColWidth {
			w = minColWidth
		}
		out[i] = w
		used += w
	}
	return out
}

// truncateName shortens s to maxWidth terminal cells, ending with "..." when
// there is room for it.
func truncateName(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth <= 3 {
		return runewidth.Truncate(s, maxWidth, "")
	}
	return runewidth.Truncate(s, maxWidth, "...")
}
