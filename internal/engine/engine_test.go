package engine_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jangbu-dev/jangbu/internal/classify"
	"github.com/jangbu-dev/jangbu/internal/common"
	"github.com/jangbu-dev/jangbu/internal/engine"
	"github.com/jangbu-dev/jangbu/internal/events"
	"github.com/jangbu-dev/jangbu/internal/grid"
	"github.com/jangbu-dev/jangbu/internal/model"
	"github.com/jangbu-dev/jangbu/internal/party"
	"github.com/jangbu-dev/jangbu/internal/service"
	"github.com/jangbu-dev/jangbu/internal/storage"
	"github.com/jangbu-dev/jangbu/internal/testutil"
)

// bankGrid mimics a typical bank export: a title row, a blank spacer, a
// header row at absolute index 2, then body rows.
func bankGrid() grid.Grid {
	return grid.Grid{
		{grid.Text("2024년 거래내역")},
		{},
		{grid.Text("거래일시"), grid.Text("기재내용"), grid.Text("지급(원)"), grid.Text("입금(원)")},
		{grid.Text("2024-01-05"), grid.Text("신한 ABC상사(123)"), grid.Text("10,000"), grid.Text("0")},
		{grid.Text("2024-01-06"), grid.Text("카페한빛"), grid.Text("0"), grid.Text("25,000")},
		{grid.Text("2024-01-07"), grid.Text(""), grid.Text("0"), grid.Text("0")},
	}
}

func TestPreviewResolvesColumnsAndParties(t *testing.T) {
	p := engine.NewPreview(bankGrid(), 3)

	assert.Equal(t, 2, p.HeaderAbs(), "header sits at start row minus one")
	assert.Equal(t, 0, p.DateCol)
	assert.Equal(t, 1, p.DescCol)
	assert.Equal(t, 2, p.DebitCol)
	assert.Equal(t, 3, p.CredCol)

	assert.Equal(t, "ABC상사", p.Party(3), "bank prefix and paren suffix stripped")
	assert.Equal(t, "카페한빛", p.Party(4))
	assert.Equal(t, classify.SentinelParty, p.Party(5), "blank memo falls back to sentinel")
}

func TestPreviewStartRowClampAndReapply(t *testing.T) {
	p := engine.NewPreview(bankGrid(), 99)
	assert.Equal(t, len(bankGrid()), p.StartRow, "start row clamps to grid length")

	p.SetStartRow(0)
	assert.Equal(t, 1, p.StartRow, "start row clamps to 1")

	p.SetStartRow(3)
	p.SetParty(3, "내거래처")
	p.SetStartRow(4)
	p.SetStartRow(3)
	assert.Equal(t, "내거래처", p.Party(3), "user-edited party survives start-row changes")
	assert.Equal(t, "카페한빛", p.Party(4), "default party re-derived")
}

func TestPreviewSelection(t *testing.T) {
	p := engine.NewPreview(bankGrid(), 3)

	assert.Equal(t, 0, p.SelectedCount())
	p.ToggleRow(3)
	assert.Equal(t, 1, p.SelectedCount())
	p.ToggleRow(3)
	assert.Equal(t, 0, p.SelectedCount())

	p.ToggleRow(2)
	assert.Equal(t, 0, p.SelectedCount(), "header row is not selectable")

	p.SelectAll(true)
	assert.Equal(t, 3, p.SelectedCount())
	p.SelectAll(false)
	assert.Equal(t, 0, p.SelectedCount())
}

func TestPreviewBuildRecords(t *testing.T) {
	p := engine.NewPreview(bankGrid(), 3)
	p.SelectAll(true)

	records := p.BuildRecords("신한은행")
	require.Len(t, records, 3)

	assert.Equal(t, "신한은행", records[0].Account)
	assert.Equal(t, "2024-01-05", records[0].TransactionTime)
	assert.Equal(t, "신한 ABC상사(123)", records[0].Description)
	assert.InDelta(t, 10000, records[0].DebitAmount, 0.001)
	assert.InDelta(t, 0, records[0].CreditAmount, 0.001)
	assert.Equal(t, model.KindExpense, records[0].Kind)
	assert.Equal(t, "ABC상사", records[0].PartyName)

	assert.Equal(t, model.KindIncome, records[1].Kind)
	assert.InDelta(t, 25000, records[1].CreditAmount, 0.001)

	assert.Equal(t, model.Kind(""), records[2].Kind, "zero/zero row has no kind")
	assert.Equal(t, classify.SentinelParty, records[2].PartyName)
}

func TestCommitEndToEnd(t *testing.T) {
	ctx := context.Background()
	store := testutil.SetupTestDB(t)
	bus := events.NewBus()
	eng := engine.NewEngine(store, party.NewResolver(store), bus, nil)

	updates, cancel := bus.Subscribe(events.RecordsUpdated)
	defer cancel()

	g := grid.Grid{
		{grid.Text("내역")},
		{},
		{},
		{grid.Text("거래일시"), grid.Text("기재내용"), grid.Text("지급(원)"), grid.Text("입금(원)")},
		{grid.Text("2024-01-05"), grid.Text("신한 ABC상사 대금"), grid.Text("10000"), grid.Text("0")},
	}
	p := engine.NewPreview(g, 4)
	p.SelectAll(true)

	count, err := eng.Commit(ctx, p, "신한은행")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	records, err := store.GetAllRecords(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.InDelta(t, 10000, records[0].DebitAmount, 0.001)
	assert.InDelta(t, 0, records[0].CreditAmount, 0.001)
	assert.Equal(t, model.KindExpense, records[0].Kind)
	assert.Equal(t, "ABC상사", records[0].PartyName)

	pty, err := store.GetPartyByNameNorm(ctx, model.NormalizePartyName("ABC상사"))
	require.NoError(t, err)
	require.NotNil(t, pty, "commit creates the missing party")
	assert.Equal(t, pty.ID, records[0].PartyID, "record is linked to the created party")

	select {
	case <-updates:
	default:
		t.Fatal("commit did not publish a records update")
	}
}

func TestCommitNoRowsSelected(t *testing.T) {
	store := testutil.SetupTestDB(t)
	eng := engine.NewEngine(store, party.NewResolver(store), nil, nil)

	p := engine.NewPreview(bankGrid(), 3)
	_, err := eng.Commit(context.Background(), p, "신한은행")
	assert.ErrorIs(t, err, common.ErrNoRowsSelected)
}

func TestCommitSentinelRowsNotLinked(t *testing.T) {
	ctx := context.Background()
	store := testutil.SetupTestDB(t)
	eng := engine.NewEngine(store, party.NewResolver(store), nil, nil)

	p := engine.NewPreview(bankGrid(), 3)
	p.SelectAll(true)

	count, err := eng.Commit(ctx, p, "신한은행")
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	records, err := store.GetAllRecords(ctx)
	require.NoError(t, err)
	for _, rec := range records {
		if rec.PartyName == classify.SentinelParty {
			assert.Empty(t, rec.PartyID, "sentinel rows stay unlinked")
		} else {
			assert.NotEmpty(t, rec.PartyID)
		}
	}

	pty, err := store.GetPartyByNameNorm(ctx, model.NormalizePartyName(classify.SentinelParty))
	require.NoError(t, err)
	assert.Nil(t, pty, "sentinel never becomes a party")
}

// failingStore fails every batch save while delegating everything else to
// a real store.
type failingStore struct {
	service.Storage
	saveErr  error
	attempts int
}

func (f *failingStore) SaveRecords(ctx context.Context, records []model.Record) (int, error) {
	f.attempts++
	return 0, f.saveErr
}

func TestCommitFailsFastOnValidationError(t *testing.T) {
	ctx := context.Background()
	store := testutil.SetupTestDB(t)
	failing := &failingStore{
		Storage: store,
		saveErr: fmt.Errorf("record at index 0: %w", storage.ErrInvalidRecord),
	}
	eng := engine.NewEngine(failing, party.NewResolver(store), nil, nil)

	p := engine.NewPreview(bankGrid(), 3)
	p.SelectAll(true)

	_, err := eng.Commit(ctx, p, "신한은행")
	require.Error(t, err)
	assert.ErrorIs(t, err, storage.ErrInvalidRecord)
	assert.Equal(t, 1, failing.attempts, "validation rejections are not retried")
}

func TestCommitRetriesTransientSaveFailure(t *testing.T) {
	ctx := context.Background()
	store := testutil.SetupTestDB(t)
	failing := &failingStore{Storage: store, saveErr: errors.New("database is locked")}
	eng := engine.NewEngine(failing, party.NewResolver(store), nil, nil)

	p := engine.NewPreview(bankGrid(), 3)
	p.SelectAll(true)

	_, err := eng.Commit(ctx, p, "신한은행")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrMaxRetries)
	assert.Equal(t, 3, failing.attempts)
}

func TestCommitKeepsRefundRows(t *testing.T) {
	ctx := context.Background()
	store := testutil.SetupTestDB(t)
	eng := engine.NewEngine(store, party.NewResolver(store), nil, nil)

	g := grid.Grid{
		{grid.Text("거래일시"), grid.Text("기재내용"), grid.Text("지급(원)"), grid.Text("입금(원)")},
		{grid.Text("2024-02-01"), grid.Text("카드대금 환급"), grid.Text("-10000"), grid.Text("0")},
	}
	p := engine.NewPreview(g, 1)
	p.SelectAll(true)

	count, err := eng.Commit(ctx, p, "신한은행")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	records, err := store.GetAllRecords(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, model.KindUnspecified, records[0].Kind)
	assert.Equal(t, float64(-10000), records[0].DebitAmount)
}

func TestSummarizeByParty(t *testing.T) {
	ctx := context.Background()
	store := testutil.SetupTestDB(t)
	eng := engine.NewEngine(store, party.NewResolver(store), nil, nil)

	p := engine.NewPreview(grid.Grid{
		{grid.Text("거래일시"), grid.Text("기재내용"), grid.Text("지급"), grid.Text("입금")},
		{grid.Text("2024-01-05"), grid.Text("카페한빛"), grid.Text("3000"), grid.Text("0")},
		{grid.Text("2024-01-06"), grid.Text("카페한빛"), grid.Text("4500"), grid.Text("0")},
		{grid.Text("2024-01-07"), grid.Text("ABC상사"), grid.Text("0"), grid.Text("20000")},
		{grid.Text("2024-01-08"), grid.Text(""), grid.Text("0"), grid.Text("0")},
	}, 1)
	p.SelectAll(true)

	_, err := eng.Commit(ctx, p, "신한은행")
	require.NoError(t, err)

	summaries, err := engine.SummarizeByParty(ctx, store)
	require.NoError(t, err)
	require.Len(t, summaries, 3)

	assert.Equal(t, "카페한빛", summaries[0].Name, "most frequent party first")
	assert.Equal(t, 2, summaries[0].Count)
	assert.InDelta(t, 7500, summaries[0].DebitTotal, 0.001)

	byName := make(map[string]engine.PartySummary)
	for _, s := range summaries {
		byName[s.Name] = s
	}
	assert.InDelta(t, 20000, byName["ABC상사"].CreditTotal, 0.001)

	unassigned, ok := byName[engine.UnassignedLabel]
	require.True(t, ok, "sentinel rows aggregate under the unassigned bucket")
	assert.Empty(t, unassigned.PartyID)
	assert.Equal(t, 1, unassigned.Count)
}
