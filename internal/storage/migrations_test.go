package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jangbu-dev/jangbu/internal/model"
)

func TestMigrateFreshDatabase(t *testing.T) {
	store := createTestStorage(t)

	var version int
	require.NoError(t, store.db.QueryRow("PRAGMA user_version").Scan(&version))
	assert.Equal(t, ExpectedSchemaVersion, version)
}

func TestMigrateIsIdempotent(t *testing.T) {
	store := createTestStorage(t)
	require.NoError(t, store.Migrate(context.Background()))
}

func TestMigratePreservesExistingRows(t *testing.T) {
	// Simulate a database created before the party-reference migration:
	// run v1 only, insert a record through raw SQL, then migrate the rest.
	path := filepath.Join(t.TempDir(), "old.db")
	store, err := NewSQLiteStorage(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	tx, err := store.db.Begin()
	require.NoError(t, err)
	require.NoError(t, migrations[0].Up(tx))
	_, err = tx.Exec("PRAGMA user_version = 1")
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	_, err = store.db.Exec(`
		INSERT INTO records (account, transaction_time, description, debit_amount, credit_amount, kind, party_name, memo)
		VALUES ('우리 101', '2023-12-01', '이월 기록', 5000, 0, 'EXPENSE', '한빛상사', '')
	`)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.Migrate(ctx))

	// The pre-existing row survives and picks up the additive party_id
	// column with its default.
	all, err := store.GetAllRecords(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "이월 기록", all[0].Description)
	assert.Equal(t, model.KindExpense, all[0].Kind)
	assert.Equal(t, "", all[0].PartyID)
}

func TestMigrateCreatesPartyIndexes(t *testing.T) {
	store := createTestStorage(t)

	rows, err := store.db.Query(`SELECT name FROM sqlite_master WHERE type = 'index'`)
	require.NoError(t, err)
	defer func() { _ = rows.Close() }()

	found := map[string]bool{}
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		found[name] = true
	}
	require.NoError(t, rows.Err())

	for _, idx := range []string{
		"idx_parties_name_norm",
		"idx_parties_created_at",
		"idx_parties_freq",
		"idx_records_transaction_time",
		"idx_records_party_id",
	} {
		assert.True(t, found[idx], "missing index %s", idx)
	}
}
