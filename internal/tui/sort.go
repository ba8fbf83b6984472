package tui

import (
	"cmp"
	"slices"
	"strings"
)

// nodeRow is one line of the node table.
type nodeRow struct {
	ID     string
	Name   string
	Roles  string // abbreviated, e.g. "dim"
	Heap   float64
	CPU    float64
	Disk   float64
	Load   float64
	Shards int
}

// indexRow is one line of the index table.
type indexRow struct {
	Name       string
	Shards     int
	Size       int64
	Docs       int64
	IndexRate  float64
	SearchRate float64
	MaxShard   int64
	Issues     []string
}

// sortNodeRows returns a sorted copy of rows.
// Columns: 0=Name, 1=Roles, 2=Heap, 3=CPU, 4=Disk, 5=Load, 6=Shards.
// col -1 keeps the input order. Ties are broken by name ascending.
func sortNodeRows(rows []nodeRow, col int, desc bool) []nodeRow {
	out := slices.Clone(rows)
	if col < 0 {
		return out
	}
	slices.SortStableFunc(out, func(a, b nodeRow) int {
		var c int
		switch col {
		case 0:
			c = compareNames(a.Name, b.Name)
		case 1:
			c = strings.Compare(a.Roles, b.Roles)
		case 2:
			c = cmp.Compare(a.Heap, b.Heap)
		case 3:
			c = cmp.Compare(a.CPU, b.CPU)
		case 4:
			c = cmp.Compare(a.Disk, b.Disk)
		case 5:
			c = cmp.Compare(a.Load, b.Load)
		case 6:
			c = cmp.Compare(a.Shards, b.Shards)
		}
		return directed(c, desc, a.Name, b.Name)
	})
	return out
}

// sortIndexRows returns a sorted copy of rows.
// Columns: 0=Name, 1=Shards, 2=Size, 3=Docs, 4=IndexRate, 5=SearchRate,
// 6=MaxShard, 7=Issues.
func sortIndexRows(rows []indexRow, col int, desc bool) []indexRow {
	out := slices.Clone(rows)
	if col < 0 {
		return out
	}
	slices.SortStableFunc(out, func(a, b indexRow) int {
		var c int
		switch col {
		case 0:
			c = compareNames(a.Name, b.Name)
		case 1:
			c = cmp.Compare(a.Shards, b.Shards)
		case 2:
			c = cmp.Compare(a.Size, b.Size)
		case 3:
			c = cmp.Compare(a.Docs, b.Docs)
		case 4:
			c = cmp.Compare(a.IndexRate, b.IndexRate)
		case 5:
			c = cmp.Compare(a.SearchRate, b.SearchRate)
		case 6:
			c = cmp.Compare(a.MaxShard, b.MaxShard)
		case 7:
			c = cmp.Compare(len(a.Issues), len(b.Issues))
		}
		return directed(c, desc, a.Name, b.Name)
	})
	return out
}

func compareNames(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

// directed applies the sort direction to c and falls back to ascending name.
func directed(c int, desc bool, nameA, nameB string) int {
	if c == 0 {
		return compareNames(nameA, nameB)
	}
	if desc {
		return -c
	}
	return c
}

// filterNodeRows keeps rows whose name or roles contain search, ignoring case.
func filterNodeRows(rows []nodeRow, search string) []nodeRow {
	if search == "" {
		return rows
	}
	lower := strings.ToLower(search)
	out := rows[:0:0]
	for _, r := range rows {
		if strings.Contains(strings.ToLower(r.Name), lower) ||
			strings.Contains(strings.ToLower(r.Roles), lower) {
			out = append(out, r)
		}
	}
	return out
}

// filterIndexRows keeps rows whose name contains search, ignoring case.
func filterIndexRows(rows []indexRow, search string) []indexRow {
	if search == "" {
		return rows
	}
	lower := strings.ToLower(search)
	out := rows[:0:0]
	for _, r := range rows {
		if strings.Contains(strings.ToLower(r.Name), lower) {
			out = append(out, r)
		}
	}
	return out
}
