package party

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jangbu-dev/jangbu/internal/classify"
	"github.com/jangbu-dev/jangbu/internal/model"
	"github.com/jangbu-dev/jangbu/internal/service"
	"github.com/jangbu-dev/jangbu/internal/testutil"
)

func TestSessionGenerations(t *testing.T) {
	store := testutil.SetupTestDB(t)
	r := NewResolver(store)
	s := r.NewSession()

	first := s.Next()
	second := s.Next()

	assert.False(t, s.Current(first), "superseded lookup must be stale")
	assert.True(t, s.Current(second))

	third := s.Next()
	assert.False(t, s.Current(second))
	assert.True(t, s.Current(third))
}

func TestSelectExistingBumpsFreq(t *testing.T) {
	store := testutil.SetupTestDB(t)
	r := NewResolver(store)
	ctx := context.Background()

	p, err := store.CreateParty(ctx, "한빛상사")
	require.NoError(t, err)

	name := r.SelectExisting(ctx, *p)
	assert.Equal(t, "한빛상사", name)

	got, err := store.GetPartyByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Freq)
}

func TestCommitFreeTextCreatesParty(t *testing.T) {
	store := testutil.SetupTestDB(t)
	r := NewResolver(store)
	ctx := context.Background()

	name := r.CommitFreeText(ctx, "  새거래처  ")
	assert.Equal(t, "새거래처", name)

	got, err := store.GetPartyByNameNorm(ctx, model.NormalizePartyName("새거래처"))
	require.NoError(t, err)
	require.NotNil(t, got)
}

func TestCommitFreeTextReturnsCanonicalName(t *testing.T) {
	store := testutil.SetupTestDB(t)
	r := NewResolver(store)
	ctx := context.Background()

	_, err := store.CreateParty(ctx, "한빛상사")
	require.NoError(t, err)

	// A variant spelling resolves to the stored canonical name.
	name := r.CommitFreeText(ctx, "㈜한빛상사")
	assert.Equal(t, "한빛상사", name)
}

func TestCommitFreeTextEmpty(t *testing.T) {
	store := testutil.SetupTestDB(t)
	r := NewResolver(store)

	assert.Equal(t, "", r.CommitFreeText(context.Background(), "   "))
}

// failingCreateStore wraps a real store but refuses party creation.
type failingCreateStore struct {
	service.Storage
}

func (f *failingCreateStore) CreateParty(_ context.Context, _ string) (*model.Party, error) {
	return nil, errors.New("store unavailable")
}

func TestCommitFreeTextFallsBackOnStoreFailure(t *testing.T) {
	store := testutil.SetupTestDB(t)
	r := NewResolver(&failingCreateStore{Storage: store})

	// Creation fails, but the typed text still becomes the display value.
	name := r.CommitFreeText(context.Background(), "유령거래처")
	assert.Equal(t, "유령거래처", name)
}

func TestReconcileCreatesMissingParties(t *testing.T) {
	store := testutil.SetupTestDB(t)
	r := NewResolver(store)
	ctx := context.Background()

	_, err := store.CreateParty(ctx, "기존거래처")
	require.NoError(t, err)

	r.Reconcile(ctx, []string{
		"기존거래처",
		"신규거래처",
		"신규거래처", // duplicates collapse
		classify.SentinelParty,
		"  ",
	})

	created, err := store.GetPartyByNameNorm(ctx, model.NormalizePartyName("신규거래처"))
	require.NoError(t, err)
	require.NotNil(t, created, "missing party must be created at commit")

	sentinel, err := store.GetPartyByNameNorm(ctx, model.NormalizePartyName(classify.SentinelParty))
	require.NoError(t, err)
	assert.Nil(t, sentinel, "sentinel must never become a party")

	// Exactly two parties total: the pre-existing one and the new one.
	all, err := store.SearchParties(ctx, "", 10)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestReconcileSurvivesPerNameFailure(t *testing.T) {
	store := testutil.SetupTestDB(t)
	r := NewResolver(&failingCreateStore{Storage: store})
	ctx := context.Background()

	// Creation fails for every name; Reconcile must not error or panic,
	// and the commit path continues regardless.
	r.Reconcile(ctx, []string{"실패거래처", "다른거래처"})

	all, err := store.SearchParties(ctx, "", 10)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestLookup(t *testing.T) {
	store := testutil.SetupTestDB(t)
	r := NewResolver(store)
	ctx := context.Background()

	p, err := store.CreateParty(ctx, "한빛상사")
	require.NoError(t, err)

	got, err := r.Lookup(ctx, "㈜한빛상사")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, p.ID, got.ID)

	missing, err := r.Lookup(ctx, "없는곳")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
