// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/jangbu-dev/jangbu/internal/model"
)

// Storage defines the contract for the persistence layer: two collections,
// "parties" (unique on the normalized name) and "records".
type Storage interface {
	// Party operations
	CreateParty(ctx context.Context, name string) (*model.Party, error)
	GetPartyByID(ctx context.Context, id string) (*model.Party, error)
	GetPartyByNameNorm(ctx context.Context, nameNorm string) (*model.Party, error)
	IncrementPartyFreq(ctx context.Context, id string, delta int) error
	SearchParties(ctx context.Context, query string, limit int) ([]model.Party, error)

	// Record operations
	SaveRecords(ctx context.Context, records []model.Record) (int, error)
	GetAllRecords(ctx context.Context) ([]model.Record, error)
	GetRecordsByPartyID(ctx context.Context, partyID string) ([]model.Record, error)
	GetRecordByID(ctx context.Context, id int64) (*model.Record, error)
	UpdateRecord(ctx context.Context, id int64, patch RecordPatch) error
	DeleteAllRecords(ctx context.Context) (int, error)

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// RecordPatch is a partial update for one record. Nil fields are left
// untouched.
type RecordPatch struct {
	PartyID   *string
	PartyName *string
	Memo      *string
	Kind      *model.Kind
}

// IsEmpty reports whether the patch changes nothing.
func (p RecordPatch) IsEmpty() bool {
	return p.PartyID == nil && p.PartyName == nil && p.Memo == nil && p.Kind == nil
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
