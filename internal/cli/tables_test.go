package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jangbu-dev/jangbu/internal/model"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		name  string
		want  string
		input float64
	}{
		{name: "zero", input: 0, want: "0"},
		{name: "small", input: 999, want: "999"},
		{name: "grouped", input: 10000, want: "10,000"},
		{name: "millions", input: 1234567, want: "1,234,567"},
		{name: "negative", input: -25000, want: "-25,000"},
		{name: "fraction rounds", input: 1000.4, want: "1,000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatAmount(tt.input))
		})
	}
}

func TestRenderRecordsTable(t *testing.T) {
	var buf strings.Builder
	RenderRecordsTable(&buf, []model.Record{
		{
			ID:              1,
			TransactionTime: "2024-01-05",
			Description:     "신한 ABC상사 대금",
			DebitAmount:     10000,
			Kind:            model.KindExpense,
			PartyName:       "ABC상사",
			Account:         "신한은행",
		},
	})

	out := buf.String()
	assert.Contains(t, out, "ABC상사")
	assert.Contains(t, out, "10,000")
	assert.Contains(t, out, "비용")
	assert.Contains(t, out, "합계")
}
