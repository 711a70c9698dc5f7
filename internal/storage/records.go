package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jangbu-dev/jangbu/internal/common"
	"github.com/jangbu-dev/jangbu/internal/model"
	"github.com/jangbu-dev/jangbu/internal/service"
)

const recordColumns = `id, account, transaction_time, description,
	debit_amount, credit_amount, kind, party_id, party_name, memo, created_at`

// SaveRecords persists a batch of finalized records in one transaction and
// returns the number inserted.
func (s *SQLiteStorage) SaveRecords(ctx context.Context, records []model.Record) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateRecords(records); err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO records (
			account, transaction_time, description,
			debit_amount, credit_amount, kind, party_id, party_name, memo, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	count := 0
	for i := range records {
		rec := &records[i]
		if rec.CreatedAt.IsZero() {
			rec.CreatedAt = time.Now()
		}
		result, execErr := stmt.ExecContext(ctx,
			rec.Account,
			rec.TransactionTime,
			rec.Description,
			rec.DebitAmount,
			rec.CreditAmount,
			string(rec.Kind),
			rec.PartyID,
			rec.PartyName,
			rec.Memo,
			rec.CreatedAt,
		)
		if execErr != nil {
			return 0, fmt.Errorf("failed to insert record %d: %w", i, execErr)
		}
		if id, idErr := result.LastInsertId(); idErr == nil {
			rec.ID = id
		}
		count++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit records: %w", err)
	}

	slog.Debug("saved records", "count", count)
	return count, nil
}

// GetAllRecords returns every persisted record in insertion order.
func (s *SQLiteStorage) GetAllRecords(ctx context.Context) ([]model.Record, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.queryRecords(ctx, `
		SELECT `+recordColumns+`
		FROM records
		ORDER BY id
	`)
}

// GetRecordsByPartyID returns all records referencing the given party.
func (s *SQLiteStorage) GetRecordsByPartyID(ctx context.Context, partyID string) ([]model.Record, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(partyID, "partyID"); err != nil {
		return nil, err
	}
	return s.queryRecords(ctx, `
		SELECT `+recordColumns+`
		FROM records
		WHERE party_id = ?
		ORDER BY id
	`, partyID)
}

// GetRecordByID returns one record, or common.ErrNotFound.
func (s *SQLiteStorage) GetRecordByID(ctx context.Context, id int64) (*model.Record, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT `+recordColumns+`
		FROM records
		WHERE id = ?
	`, id)

	rec, err := scanRecord(row.Scan)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("record %d: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get record: %w", err)
	}
	return rec, nil
}

// UpdateRecord applies a partial patch to one record. Returns
// common.ErrNotFound when the id does not exist.
func (s *SQLiteStorage) UpdateRecord(ctx context.Context, id int64, patch service.RecordPatch) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if patch.IsEmpty() {
		return nil
	}
	if patch.Kind != nil && !patch.Kind.Valid() {
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidRecord, *patch.Kind)
	}

	set := make([]string, 0, 4)
	args := make([]any, 0, 5)
	if patch.PartyID != nil {
		set = append(set, "party_id = ?")
		args = append(args, *patch.PartyID)
	}
	if patch.PartyName != nil {
		set = append(set, "party_name = ?")
		args = append(args, *patch.PartyName)
	}
	if patch.Memo != nil {
		set = append(set, "memo = ?")
		args = append(args, *patch.Memo)
	}
	if patch.Kind != nil {
		set = append(set, "kind = ?")
		args = append(args, string(*patch.Kind))
	}
	args = append(args, id)

	query := "UPDATE records SET " + strings.Join(set, ", ") + " WHERE id = ?"
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update record: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("record %d: %w", id, common.ErrNotFound)
	}
	return nil
}

// DeleteAllRecords clears the records collection and returns the number of
// rows that were removed.
func (s *SQLiteStorage) DeleteAllRecords(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var count int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM records`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM records`); err != nil {
		return 0, fmt.Errorf("failed to delete records: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit delete: %w", err)
	}

	slog.Info("deleted all records", "count", count)
	return count, nil
}

func (s *SQLiteStorage) queryRecords(ctx context.Context, query string, args ...any) ([]model.Record, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []model.Record
	for rows.Next() {
		rec, scanErr := scanRecord(rows.Scan)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan record: %w", scanErr)
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

func scanRecord(scan func(...any) error) (*model.Record, error) {
	var rec model.Record
	var kind string
	err := scan(
		&rec.ID,
		&rec.Account,
		&rec.TransactionTime,
		&rec.Description,
		&rec.DebitAmount,
		&rec.CreditAmount,
		&kind,
		&rec.PartyID,
		&rec.PartyName,
		&rec.Memo,
		&rec.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	rec.Kind = model.Kind(kind)
	return &rec, nil
}
