package tui

import "github.com/jangbu-dev/jangbu/internal/model"

// debounceElapsedMsg fires after the autocomplete rest period. The
// generation stamps which keystroke it belongs to.
type debounceElapsedMsg struct {
	query string
	gen   uint64
}

// suggestionsMsg carries the results of one autocomplete search.
type suggestionsMsg struct {
	err     error
	query   string
	parties []model.Party
	gen     uint64
}

// commitResultMsg carries the outcome of persisting the selection.
type commitResultMsg struct {
	err   error
	count int
}
