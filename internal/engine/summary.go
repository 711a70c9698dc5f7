package engine

import (
	"context"
	"sort"

	"github.com/jangbu-dev/jangbu/internal/model"
	"github.com/jangbu-dev/jangbu/internal/service"
)

// UnassignedLabel names the aggregation bucket for records without a
// linked party.
const UnassignedLabel = "(미지정)"

// PartySummary aggregates the records attributed to one party.
type PartySummary struct {
	PartyID     string
	Name        string
	Count       int
	DebitTotal  float64
	CreditTotal float64
}

// SummarizeByParty groups all stored records by their linked party and
// totals debits and credits. Party names are resolved live so renames
// show through; records whose party has since vanished fall back to the
// cached name, and unlinked records collect under the unassigned bucket.
func SummarizeByParty(ctx context.Context, storage service.Storage) ([]PartySummary, error) {
	records, err := storage.GetAllRecords(ctx)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*PartySummary)
	names := make(map[string]string)
	var order []string

	for _, rec := range records {
		id := rec.PartyID
		sum, ok := byID[id]
		if !ok {
			sum = &PartySummary{PartyID: id}
			byID[id] = sum
			order = append(order, id)
		}
		sum.Count++
		sum.DebitTotal += rec.DebitAmount
		sum.CreditTotal += rec.CreditAmount

		if id == "" {
			sum.Name = UnassignedLabel
			continue
		}
		name, seen := names[id]
		if !seen {
			pty, lookupErr := storage.GetPartyByID(ctx, id)
			if lookupErr == nil && pty != nil {
				name = pty.Name
			}
			names[id] = name
		}
		if name != "" {
			sum.Name = name
		} else if sum.Name == "" {
			sum.Name = rec.PartyName
		}
	}

	summaries := make([]PartySummary, 0, len(order))
	for _, id := range order {
		summaries = append(summaries, *byID[id])
	}
	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].Count > summaries[j].Count
	})
	return summaries, nil
}

// RecordsForParty returns the stored records linked to one party, in
// insertion order.
func RecordsForParty(ctx context.Context, storage service.Storage, partyID string) ([]model.Record, error) {
	return storage.GetRecordsByPartyID(ctx, partyID)
}
