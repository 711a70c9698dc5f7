package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/jangbu-dev/jangbu/internal/model"
)

// CreateParty inserts a new party for the given display name. If a party
// with the same normalized name already exists it is returned unchanged:
// creation is idempotent under repeated attempts. The unique index on
// name_norm backs the existence check, and a constraint conflict from a
// concurrent create is resolved by re-fetching the winner.
func (s *SQLiteStorage) CreateParty(ctx context.Context, name string) (*model.Party, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}

	trimmed := strings.TrimSpace(name)
	norm := model.NormalizePartyName(trimmed)
	if norm == "" {
		return nil, fmt.Errorf("%w: name %q normalizes to nothing", ErrInvalidParty, name)
	}

	if existing, err := s.GetPartyByNameNorm(ctx, norm); err != nil {
		return nil, err
	} else if existing != nil {
		return existing, nil
	}

	now := time.Now()
	party := &model.Party{
		ID:        model.NewPartyID(),
		Name:      trimmed,
		NameNorm:  norm,
		Freq:      0,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO parties (id, name, name_norm, freq, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, party.ID, party.Name, party.NameNorm, party.Freq, party.CreatedAt, party.UpdatedAt)

	if err != nil {
		// A concurrent create for the same normalized name got there
		// first; the winner is authoritative.
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
			winner, fetchErr := s.GetPartyByNameNorm(ctx, norm)
			if fetchErr == nil && winner != nil {
				return winner, nil
			}
		}
		return nil, fmt.Errorf("failed to create party: %w", err)
	}

	slog.Debug("created party", "id", party.ID, "name", party.Name)
	return party, nil
}

// GetPartyByID retrieves a party by its opaque identifier. Returns
// (nil, nil) when no party has that id.
func (s *SQLiteStorage) GetPartyByID(ctx context.Context, id string) (*model.Party, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}
	return s.getPartyBy(ctx, "id", id)
}

// GetPartyByNameNorm is the point lookup on the uniqueness index. Returns
// (nil, nil) when no party has that normalized name.
func (s *SQLiteStorage) GetPartyByNameNorm(ctx context.Context, nameNorm string) (*model.Party, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	key := strings.TrimSpace(nameNorm)
	if key == "" {
		return nil, nil
	}
	return s.getPartyBy(ctx, "name_norm", key)
}

func (s *SQLiteStorage) getPartyBy(ctx context.Context, column, value string) (*model.Party, error) {
	var party model.Party
	err := s.db.QueryRowContext(ctx, fmt.Sprintf(`
		SELECT id, name, name_norm, freq, created_at, updated_at
		FROM parties
		WHERE %s = ?
	`, column), value).Scan(
		&party.ID,
		&party.Name,
		&party.NameNorm,
		&party.Freq,
		&party.CreatedAt,
		&party.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get party: %w", err)
	}
	return &party, nil
}

// IncrementPartyFreq bumps a party's usage counter and updated_at. A
// missing id is a no-op, never an error: frequency tracking must not block
// data entry.
func (s *SQLiteStorage) IncrementPartyFreq(ctx context.Context, id string, delta int) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		UPDATE parties
		SET freq = freq + ?, updated_at = ?
		WHERE id = ?
	`, delta, time.Now(), id)

	if err != nil {
		return fmt.Errorf("failed to increment party freq: %w", err)
	}
	return nil
}

// SearchParties returns up to limit parties matching the query. An empty
// query returns all parties by freq descending. Otherwise candidates whose
// normalized name contains the normalized query are ranked prefix matches
// first, then by freq descending, then by created_at descending, so the
// autocomplete gets stable, usage-weighted suggestions.
func (s *SQLiteStorage) SearchParties(ctx context.Context, query string, limit int) ([]model.Party, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 8
	}

	qn := model.NormalizePartyName(query)

	if qn == "" {
		return s.queryParties(ctx, `
			SELECT id, name, name_norm, freq, created_at, updated_at
			FROM parties
			ORDER BY freq DESC
			LIMIT ?
		`, limit)
	}

	// instr avoids LIKE wildcard escaping; ranking happens in memory.
	matches, err := s.queryParties(ctx, `
		SELECT id, name, name_norm, freq, created_at, updated_at
		FROM parties
		WHERE instr(name_norm, ?) > 0
	`, qn)
	if err != nil {
		return nil, err
	}

	score := func(p model.Party) int {
		if strings.HasPrefix(p.NameNorm, qn) {
			return 0
		}
		return 1
	}
	sort.SliceStable(matches, func(i, j int) bool {
		si, sj := score(matches[i]), score(matches[j])
		if si != sj {
			return si < sj
		}
		if matches[i].Freq != matches[j].Freq {
			return matches[i].Freq > matches[j].Freq
		}
		return matches[i].CreatedAt.After(matches[j].CreatedAt)
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

func (s *SQLiteStorage) queryParties(ctx context.Context, query string, args ...any) ([]model.Party, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query parties: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var parties []model.Party
	for rows.Next() {
		var party model.Party
		err := rows.Scan(
			&party.ID,
			&party.Name,
			&party.NameNorm,
			&party.Freq,
			&party.CreatedAt,
			&party.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan party: %w", err)
		}
		parties = append(parties, party)
	}

	return parties, rows.Err()
}
