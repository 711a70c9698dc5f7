// Package grid turns uploaded spreadsheets into a rectangular array of raw
// cell values and resolves semantic columns against a header row.
package grid

import (
	"strconv"
	"time"
)

// CellKind discriminates the primitive value held by a Cell.
type CellKind int

// Cell kinds.
const (
	CellAbsent CellKind = iota
	CellText
	CellNumber
	CellBool
	CellTime
)

// Cell is one raw spreadsheet cell. Raw always carries the cell's text as
// rendered by the spreadsheet, so downstream consumers that persist values
// verbatim never lose formatting.
type Cell struct {
	Time   time.Time
	Raw    string
	Kind   CellKind
	Number float64
	Bool   bool
}

// Absent returns the cell used for blank/empty positions.
func Absent() Cell {
	return Cell{Kind: CellAbsent}
}

// Text returns a text cell.
func Text(s string) Cell {
	return Cell{Kind: CellText, Raw: s}
}

// Number returns a numeric cell.
func Number(v float64) Cell {
	return Cell{Kind: CellNumber, Raw: strconv.FormatFloat(v, 'f', -1, 64), Number: v}
}

// Bool returns a boolean cell.
func Bool(v bool) Cell {
	return Cell{Kind: CellBool, Raw: strconv.FormatBool(v), Bool: v}
}

// Timestamp returns a time-valued cell rendered as s.
func Timestamp(t time.Time, s string) Cell {
	return Cell{Kind: CellTime, Raw: s, Time: t}
}

// String returns the cell's verbatim text, or "" for an absent cell.
func (c Cell) String() string {
	if c.Kind == CellAbsent {
		return ""
	}
	return c.Raw
}

// IsAbsent reports whether the cell is blank.
func (c Cell) IsAbsent() bool {
	return c.Kind == CellAbsent
}

// Grid is an ordered sequence of rows of cells. Rows need not be uniform
// length, and absolute row indices are stable: no row is ever dropped or
// renumbered after parsing.
type Grid [][]Cell

// Row returns the row at absolute index i, or nil when out of range.
func (g Grid) Row(i int) []Cell {
	if i < 0 || i >= len(g) {
		return nil
	}
	return g[i]
}

// Cell returns the cell at (row, col), or an absent cell when out of range.
func (g Grid) Cell(row, col int) Cell {
	r := g.Row(row)
	if col < 0 || col >= len(r) {
		return Absent()
	}
	return r[col]
}
