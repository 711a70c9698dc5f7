// Package tui implements the interactive upload preview using bubbletea:
// row selection, start-row adjustment, and party editing with debounced
// autocomplete against the party store.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jangbu-dev/jangbu/internal/engine"
	"github.com/jangbu-dev/jangbu/internal/model"
	"github.com/jangbu-dev/jangbu/internal/party"
)

// State represents the current state of the TUI.
type State int

const (
	StateRows State = iota
	StatePartyEdit
	StateConfirm
	StateDone
)

const suggestionLimit = 8

// Config holds everything the preview screen needs.
type Config struct {
	Preview  *engine.Preview
	Engine   *engine.Engine
	Resolver *party.Resolver
	Account  string
	Accounts []string
}

// Model holds the preview TUI state.
type Model struct {
	ctx         context.Context
	preview     *engine.Preview
	eng         *engine.Engine
	resolver    *party.Resolver
	session     *party.Session
	lastError   error
	input       textinput.Model
	account     string
	accounts    []string
	suggestions []model.Party
	keymap      KeyMap
	cursor      int
	editRow     int
	sugCursor   int
	committed   int
	width       int
	height      int
	state       State
	showAllCols bool
	quitting    bool
}

func newModel(ctx context.Context, cfg Config) Model {
	input := textinput.New()
	input.Placeholder = "거래처 이름"
	input.CharLimit = 64

	m := Model{
		ctx:      ctx,
		preview:  cfg.Preview,
		eng:      cfg.Engine,
		resolver: cfg.Resolver,
		session:  cfg.Resolver.NewSession(),
		input:    input,
		account:  cfg.Account,
		accounts: cfg.Accounts,
		keymap:   DefaultKeyMap(),
		state:    StateRows,
	}
	m.cursor = m.preview.BodyFrom()
	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.EnterAltScreen
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case debounceElapsedMsg:
		// A newer keystroke supersedes this timer.
		if !m.session.Current(msg.gen) {
			return m, nil
		}
		return m, m.searchParties(msg.gen, msg.query)

	case suggestionsMsg:
		// Stale results from an out-of-date query are dropped.
		if !m.session.Current(msg.gen) {
			return m, nil
		}
		if msg.err != nil {
			m.lastError = msg.err
			return m, nil
		}
		m.suggestions = msg.parties
		m.sugCursor = -1
		return m, nil

	case commitResultMsg:
		if msg.err != nil {
			m.lastError = msg.err
			m.state = StateRows
			return m, nil
		}
		m.committed = msg.count
		m.state = StateDone
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keymap.ForceQuit) {
			m.quitting = true
			return m, tea.Quit
		}
		switch m.state {
		case StateRows:
			return m.updateRows(msg)
		case StatePartyEdit:
			return m.updatePartyEdit(msg)
		case StateConfirm:
			return m.updateConfirm(msg)
		case StateDone:
			m.quitting = true
			return m, tea.Quit
		}
	}

	return m, nil
}

func (m Model) updateRows(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keymap
	switch {
	case key.Matches(msg, k.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, k.Up):
		if m.cursor > m.preview.BodyFrom() {
			m.cursor--
		}
	case key.Matches(msg, k.Down):
		if m.cursor < len(m.preview.Grid)-1 {
			m.cursor++
		}
	case key.Matches(msg, k.PageUp):
		m.cursor = clampCursor(m.cursor-10, m.preview)
	case key.Matches(msg, k.PageDown):
		m.cursor = clampCursor(m.cursor+10, m.preview)

	case key.Matches(msg, k.ToggleSelect):
		m.preview.ToggleRow(m.cursor)
	case key.Matches(msg, k.SelectAll):
		m.preview.SelectAll(true)
	case key.Matches(msg, k.DeselectAll):
		m.preview.SelectAll(false)

	case key.Matches(msg, k.StartRowUp):
		m.preview.SetStartRow(m.preview.StartRow - 1)
		m.cursor = clampCursor(m.cursor, m.preview)
	case key.Matches(msg, k.StartRowDown):
		m.preview.SetStartRow(m.preview.StartRow + 1)
		m.cursor = clampCursor(m.cursor, m.preview)

	case key.Matches(msg, k.CycleAccount):
		m.account = nextAccount(m.accounts, m.account)

	case key.Matches(msg, k.ToggleCols):
		m.showAllCols = !m.showAllCols

	case key.Matches(msg, k.EditParty):
		return m.openPartyEditor()

	case key.Matches(msg, k.Commit):
		if m.preview.SelectedCount() > 0 {
			m.state = StateConfirm
		}
	}
	return m, nil
}

func (m Model) openPartyEditor() (tea.Model, tea.Cmd) {
	if m.cursor < m.preview.BodyFrom() || m.cursor >= len(m.preview.Grid) {
		return m, nil
	}
	m.state = StatePartyEdit
	m.editRow = m.cursor
	m.input.SetValue(m.preview.Party(m.cursor))
	m.input.CursorEnd()
	m.suggestions = nil
	m.sugCursor = -1
	gen := m.session.Next()
	return m, tea.Batch(m.input.Focus(), m.debounce(gen, m.input.Value()))
}

func (m Model) updatePartyEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "esc":
		m.state = StateRows
		m.input.Blur()
		return m, nil

	case msg.String() == "up":
		if m.sugCursor > -1 {
			m.sugCursor--
		}
		return m, nil
	case msg.String() == "down":
		if m.sugCursor < len(m.suggestions)-1 {
			m.sugCursor++
		}
		return m, nil

	case msg.String() == "enter":
		var name string
		if m.sugCursor >= 0 && m.sugCursor < len(m.suggestions) {
			name = m.resolver.SelectExisting(m.ctx, m.suggestions[m.sugCursor])
		} else {
			name = m.resolver.CommitFreeText(m.ctx, m.input.Value())
		}
		m.preview.SetParty(m.editRow, name)
		m.state = StateRows
		m.input.Blur()
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() == before {
		return m, cmd
	}

	// Each edit starts a fresh generation; in-flight searches for older
	// text will be discarded when they land.
	m.sugCursor = -1
	gen := m.session.Next()
	return m, tea.Batch(cmd, m.debounce(gen, m.input.Value()))
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keymap
	switch {
	case key.Matches(msg, k.Confirm):
		return m, m.commit()
	case key.Matches(msg, k.Cancel):
		m.state = StateRows
	}
	return m, nil
}

func (m Model) debounce(gen uint64, query string) tea.Cmd {
	return tea.Tick(m.resolver.Debounce(), func(time.Time) tea.Msg {
		return debounceElapsedMsg{gen: gen, query: query}
	})
}

func (m Model) searchParties(gen uint64, query string) tea.Cmd {
	return func() tea.Msg {
		parties, err := m.resolver.Suggest(m.ctx, query, suggestionLimit)
		return suggestionsMsg{gen: gen, query: query, parties: parties, err: err}
	}
}

func (m Model) commit() tea.Cmd {
	preview, account := m.preview, m.account
	eng, ctx := m.eng, m.ctx
	return func() tea.Msg {
		count, err := eng.Commit(ctx, preview, account)
		return commitResultMsg{count: count, err: err}
	}
}

func clampCursor(abs int, p *engine.Preview) int {
	if abs < p.BodyFrom() {
		abs = p.BodyFrom()
	}
	if abs > len(p.Grid)-1 {
		abs = len(p.Grid) - 1
	}
	return abs
}

func nextAccount(accounts []string, current string) string {
	if len(accounts) == 0 {
		return current
	}
	for i, a := range accounts {
		if a == current {
			return accounts[(i+1)%len(accounts)]
		}
	}
	return accounts[0]
}
