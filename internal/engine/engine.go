package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jangbu-dev/jangbu/internal/classify"
	"github.com/jangbu-dev/jangbu/internal/common"
	"github.com/jangbu-dev/jangbu/internal/events"
	"github.com/jangbu-dev/jangbu/internal/party"
	"github.com/jangbu-dev/jangbu/internal/service"
	"github.com/jangbu-dev/jangbu/internal/storage"
)

// Engine commits previewed uploads: it reconciles party names against the
// store, links records to their parties, and persists the batch.
type Engine struct {
	storage  service.Storage
	resolver *party.Resolver
	bus      *events.Bus
	logger   *slog.Logger
}

// NewEngine creates a commit engine. The bus may be nil when nothing
// listens for change notifications.
func NewEngine(storage service.Storage, resolver *party.Resolver, bus *events.Bus, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		storage:  storage,
		resolver: resolver,
		bus:      bus,
		logger:   logger,
	}
}

// Commit persists the selected rows of a preview under the given account
// label and returns the number of records saved.
func (e *Engine) Commit(ctx context.Context, p *Preview, account string) (int, error) {
	records := p.BuildRecords(account)
	if len(records) == 0 {
		return 0, common.ErrNoRowsSelected
	}

	names := make([]string, len(records))
	for i, rec := range records {
		names[i] = rec.PartyName
	}
	e.resolver.Reconcile(ctx, names)

	// Link each record to its party. A failed lookup keeps the cached
	// name so the record still reads correctly.
	for i := range records {
		name := records[i].PartyName
		if name == "" || name == classify.SentinelParty {
			continue
		}
		pty, err := e.resolver.Lookup(ctx, name)
		if err != nil {
			e.logger.Warn("party lookup failed during commit",
				slog.String("party", name),
				slog.String("error", err.Error()))
			continue
		}
		if pty != nil {
			records[i].PartyID = pty.ID
		}
	}

	var count int
	err := common.WithRetry(ctx, func() error {
		n, saveErr := e.storage.SaveRecords(ctx, records)
		if saveErr != nil {
			return &common.RetryableError{Err: saveErr, Retryable: saveErrRetryable(saveErr)}
		}
		count = n
		return nil
	}, service.RetryOptions{
		MaxAttempts:  3,
		InitialDelay: 100 * time.Millisecond,
		MaxDelay:     time.Second,
		Multiplier:   2.0,
	})
	if err != nil {
		common.LogError(err, "saving records failed", common.Fields{
			"account": account,
			"count":   len(records),
		})
		return 0, fmt.Errorf("saving records: %w", err)
	}

	e.logger.Info("committed upload batch",
		slog.String("account", account),
		slog.Int("count", count))

	if e.bus != nil {
		e.bus.Publish(events.RecordsUpdated)
	}
	return count, nil
}

// saveErrRetryable reports whether a failed batch save is worth another
// attempt. Validation rejections are permanent and fail fast.
func saveErrRetryable(err error) bool {
	return !errors.Is(err, storage.ErrInvalidRecord) && !errors.Is(err, storage.ErrInvalidParty)
}
