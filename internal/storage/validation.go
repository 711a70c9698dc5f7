// Package storage provides the data persistence layer for the jangbu
// application.
package storage

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/jangbu-dev/jangbu/internal/model"
)

// Validation errors.
var (
	ErrNilContext    = errors.New("context cannot be nil")
	ErrEmptyString   = errors.New("string parameter cannot be empty")
	ErrNilParameter  = errors.New("parameter cannot be nil")
	ErrEmptySlice    = errors.New("slice cannot be empty")
	ErrInvalidParty  = errors.New("invalid party")
	ErrInvalidRecord = errors.New("invalid record")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateRecords validates a slice of records.
func validateRecords(records []model.Record) error {
	if records == nil {
		return fmt.Errorf("%w: records", ErrNilParameter)
	}
	if len(records) == 0 {
		return fmt.Errorf("%w: records", ErrEmptySlice)
	}

	for i := range records {
		if err := validateRecord(&records[i]); err != nil {
			return fmt.Errorf("record at index %d: %w", i, err)
		}
	}
	return nil
}

// validateRecord validates a single record.
func validateRecord(rec *model.Record) error {
	if rec == nil {
		return fmt.Errorf("%w: record", ErrNilParameter)
	}
	// Negative amounts are allowed: refund rows come through with a
	// negative debit and are stored as-is.
	if math.IsNaN(rec.DebitAmount) || math.IsInf(rec.DebitAmount, 0) {
		return fmt.Errorf("%w: non-finite debit amount", ErrInvalidRecord)
	}
	if math.IsNaN(rec.CreditAmount) || math.IsInf(rec.CreditAmount, 0) {
		return fmt.Errorf("%w: non-finite credit amount", ErrInvalidRecord)
	}
	if !rec.Kind.Valid() {
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidRecord, rec.Kind)
	}
	return nil
}
