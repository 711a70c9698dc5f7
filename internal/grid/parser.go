package grid

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/jangbu-dev/jangbu/internal/common"
)

// ParseFile reads the first sheet of an xlsx/xls workbook into a Grid.
// Blank cells become absent cells and blank rows are preserved, so absolute
// row indices match what the user sees in their spreadsheet program.
func ParseFile(path string) (Grid, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %v", common.ErrParseFailure, path, err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return Grid{}, nil
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: reading sheet %q: %v", common.ErrParseFailure, sheets[0], err)
	}

	g := make(Grid, len(rows))
	for i, row := range rows {
		cells := make([]Cell, len(row))
		for j, raw := range row {
			cells[j] = parseCell(raw)
		}
		g[i] = cells
	}
	return g, nil
}

// parseCell classifies a rendered cell value. excelize hands back formatted
// text, so typing is recovered from the text itself; Raw keeps the original
// rendering either way.
func parseCell(raw string) Cell {
	if raw == "" {
		return Absent()
	}
	if n, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64); err == nil {
		return Cell{Kind: CellNumber, Raw: raw, Number: n}
	}
	switch strings.ToUpper(raw) {
	case "TRUE":
		return Cell{Kind: CellBool, Raw: raw, Bool: true}
	case "FALSE":
		return Cell{Kind: CellBool, Raw: raw, Bool: false}
	}
	return Text(raw)
}
