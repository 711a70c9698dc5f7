// Package party turns raw memo text and user input into confirmed,
// deduplicated counterparty identities.
package party

import (
	"context"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/jangbu-dev/jangbu/internal/classify"
	"github.com/jangbu-dev/jangbu/internal/model"
	"github.com/jangbu-dev/jangbu/internal/service"
)

// DefaultDebounce is how long an autocomplete input rests before a store
// search is issued.
const DefaultDebounce = 180 * time.Millisecond

// Resolver mediates between party-name input and the party store. The
// interactive phase (autocomplete, selection, on-the-fly creation) and the
// commit phase (batch reconciliation) are deliberately separate: users type
// names for many rows before any of them are persisted.
type Resolver struct {
	store    service.Storage
	debounce time.Duration
}

// NewResolver creates a resolver over the given store.
func NewResolver(store service.Storage) *Resolver {
	return &Resolver{store: store, debounce: DefaultDebounce}
}

// Debounce returns the recommended input-rest interval before searching.
func (r *Resolver) Debounce() time.Duration {
	return r.debounce
}

// Session serializes autocomplete lookups for one logical input field.
// Every keystroke takes a new generation; a completed lookup applies its
// result only when its generation is still the latest, so slow responses
// to superseded queries are discarded instead of overwriting fresh ones.
type Session struct {
	gen atomic.Uint64
}

// NewSession starts an input session.
func (r *Resolver) NewSession() *Session {
	return &Session{}
}

// Next invalidates all earlier lookups and returns the new generation.
func (s *Session) Next() uint64 {
	return s.gen.Add(1)
}

// Current reports whether gen is still the latest issued generation.
func (s *Session) Current(gen uint64) bool {
	return s.gen.Load() == gen
}

// Suggest performs a ranked party search for the autocomplete list.
func (r *Resolver) Suggest(ctx context.Context, query string, limit int) ([]model.Party, error) {
	return r.store.SearchParties(ctx, query, limit)
}

// SelectExisting records the choice of an existing suggestion and returns
// the canonical stored name. The frequency bump is best-effort: a store
// failure must not undo the user's selection.
func (r *Resolver) SelectExisting(ctx context.Context, p model.Party) string {
	if err := r.store.IncrementPartyFreq(ctx, p.ID, 1); err != nil {
		slog.Warn("failed to bump party freq", "id", p.ID, "error", err)
	}
	return p.Name
}

// CommitFreeText resolves user-typed free text into a party name, creating
// the party when no normalized match exists. On store failure the raw text
// is kept as an unpersisted display value; data entry is never blocked.
func (r *Resolver) CommitFreeText(ctx context.Context, text string) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return ""
	}

	created, err := r.store.CreateParty(ctx, trimmed)
	if err != nil {
		slog.Warn("party creation failed, keeping raw text", "name", trimmed, "error", err)
		return trimmed
	}
	return created.Name
}

// Reconcile guarantees that every distinct, non-sentinel party name among
// the given names exists in the store before records referencing them are
// persisted. Interactive-phase creations may have failed or been bypassed
// entirely (auto-extracted defaults the user never touched); this is the
// safety net. Failures are logged and skipped per name: one bad name must
// not abort the commit of unrelated rows.
func (r *Resolver) Reconcile(ctx context.Context, names []string) {
	picked := make(map[string]struct{}, len(names))
	for _, name := range names {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" || trimmed == classify.SentinelParty {
			continue
		}
		picked[trimmed] = struct{}{}
	}

	for name := range picked {
		list, err := r.store.SearchParties(ctx, name, 5)
		if err != nil {
			slog.Warn("party reconciliation lookup failed", "name", name, "error", err)
			continue
		}
		exact := false
		for i := range list {
			if list[i].Name == name {
				exact = true
				break
			}
		}
		if exact {
			continue
		}
		if _, err := r.store.CreateParty(ctx, name); err != nil {
			slog.Warn("party reconciliation create failed", "name", name, "error", err)
		}
	}
}

// Lookup resolves a display name to its stored party, or nil when the name
// has no normalized match.
func (r *Resolver) Lookup(ctx context.Context, name string) (*model.Party, error) {
	norm := model.NormalizePartyName(name)
	if norm == "" {
		return nil, nil
	}
	return r.store.GetPartyByNameNorm(ctx, norm)
}
