// Package engine wires the upload pipeline together: parsed grid in,
// classified and party-resolved records out.
package engine

import (
	"github.com/jangbu-dev/jangbu/internal/classify"
	"github.com/jangbu-dev/jangbu/internal/grid"
	"github.com/jangbu-dev/jangbu/internal/model"
)

// Preview holds the in-flight state of one upload: the raw grid, the
// user-chosen start row, per-row selection flags and party names. All
// slices are indexed by absolute grid row; body rows start right after the
// header row and nothing is ever renumbered.
type Preview struct {
	Grid     grid.Grid
	Parties  []string
	Selected []bool
	edited   []bool
	StartRow int

	// Resolved semantic column indices, -1 when not found.
	DateCol  int
	DescCol  int
	DebitCol int
	CredCol  int
}

// NewPreview builds a preview over a parsed grid with the given 1-based
// start row (the header row is startRow-1 in absolute terms).
func NewPreview(g grid.Grid, startRow int) *Preview {
	p := &Preview{
		Grid:     g,
		Parties:  make([]string, len(g)),
		Selected: make([]bool, len(g)),
		edited:   make([]bool, len(g)),
	}
	for i := range p.Parties {
		p.Parties[i] = classify.SentinelParty
	}
	p.SetStartRow(startRow)
	return p
}

func clamp(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// SetStartRow moves the header row, re-resolves columns, and re-derives
// default party names for rows the user has not edited.
func (p *Preview) SetStartRow(startRow int) {
	limit := len(p.Grid)
	if limit < 1 {
		limit = 1
	}
	p.StartRow = clamp(startRow, 1, limit)

	header := p.HeaderRow()
	p.DateCol = grid.FindColumn(header, grid.DateKeys)
	p.DescCol = grid.FindColumn(header, grid.DescriptionKeys)
	p.DebitCol = grid.FindColumn(header, grid.DebitKeys)
	p.CredCol = grid.FindColumn(header, grid.CreditKeys)

	p.applyDefaultParties()
}

// HeaderAbs returns the absolute index of the header row.
func (p *Preview) HeaderAbs() int {
	return p.StartRow - 1
}

// HeaderRow returns the header row's cells.
func (p *Preview) HeaderRow() []grid.Cell {
	return p.Grid.Row(p.HeaderAbs())
}

// BodyFrom returns the absolute index of the first body row.
func (p *Preview) BodyFrom() int {
	from := p.HeaderAbs() + 1
	if from > len(p.Grid) {
		return len(p.Grid)
	}
	return from
}

// applyDefaultParties re-derives extracted party candidates for body rows,
// leaving names the user has set explicitly alone. With no description
// column resolved, unedited rows fall back to the sentinel.
func (p *Preview) applyDefaultParties() {
	for abs := p.BodyFrom(); abs < len(p.Grid); abs++ {
		if p.edited[abs] {
			continue
		}
		if p.DescCol < 0 {
			p.Parties[abs] = classify.SentinelParty
			continue
		}
		memo := p.Grid.Cell(abs, p.DescCol).String()
		p.Parties[abs] = classify.ExtractParty(memo)
	}
}

// SetParty overrides the party name for one absolute row. Empty input
// falls back to the sentinel. An explicit override survives start-row
// changes; derived defaults do not.
func (p *Preview) SetParty(abs int, name string) {
	if abs < 0 || abs >= len(p.Parties) {
		return
	}
	if name == "" {
		name = classify.SentinelParty
	}
	p.Parties[abs] = name
	p.edited[abs] = true
}

// Party returns the current party name for one absolute row.
func (p *Preview) Party(abs int) string {
	if abs < 0 || abs >= len(p.Parties) {
		return classify.SentinelParty
	}
	return p.Parties[abs]
}

// ToggleRow flips the selection state of one absolute body row.
func (p *Preview) ToggleRow(abs int) {
	if abs >= p.BodyFrom() && abs < len(p.Selected) {
		p.Selected[abs] = !p.Selected[abs]
	}
}

// SelectAll sets the selection state of every body row.
func (p *Preview) SelectAll(selected bool) {
	for abs := p.BodyFrom(); abs < len(p.Selected); abs++ {
		p.Selected[abs] = selected
	}
}

// SelectedCount returns how many body rows are currently selected.
func (p *Preview) SelectedCount() int {
	n := 0
	for abs := p.BodyFrom(); abs < len(p.Selected); abs++ {
		if p.Selected[abs] {
			n++
		}
	}
	return n
}

// RowKind classifies one absolute body row from its debit/credit cells.
func (p *Preview) RowKind(abs int) model.Kind {
	return classify.Classify(p.rowDebit(abs), p.rowCredit(abs))
}

func (p *Preview) rowDebit(abs int) float64 {
	if p.DebitCol < 0 {
		return 0
	}
	return classify.ParseAmount(p.Grid.Cell(abs, p.DebitCol))
}

func (p *Preview) rowCredit(abs int) float64 {
	if p.CredCol < 0 {
		return 0
	}
	return classify.ParseAmount(p.Grid.Cell(abs, p.CredCol))
}

// BuildRecords assembles finalized records for every selected body row,
// applying the account label chosen for this upload batch. Date and
// description text is carried verbatim; a missing column yields "" or 0.
func (p *Preview) BuildRecords(account string) []model.Record {
	var records []model.Record
	for abs := p.BodyFrom(); abs < len(p.Grid); abs++ {
		if !p.Selected[abs] {
			continue
		}

		debit := p.rowDebit(abs)
		credit := p.rowCredit(abs)

		var transactionTime, description string
		if p.DateCol >= 0 {
			transactionTime = p.Grid.Cell(abs, p.DateCol).String()
		}
		if p.DescCol >= 0 {
			description = p.Grid.Cell(abs, p.DescCol).String()
		}

		partyName := p.Party(abs)
		if partyName == "" {
			partyName = classify.SentinelParty
		}

		records = append(records, model.Record{
			Account:         account,
			TransactionTime: transactionTime,
			Description:     description,
			DebitAmount:     debit,
			CreditAmount:    credit,
			Kind:            classify.Classify(debit, credit),
			PartyName:       partyName,
		})
	}
	return records
}
