package cli

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/jangbu-dev/jangbu/internal/engine"
	"github.com/jangbu-dev/jangbu/internal/model"
)

// FormatAmount renders a won amount without decimals, comma-grouped.
func FormatAmount(v float64) string {
	s := fmt.Sprintf("%.0f", v)
	neg := false
	if len(s) > 0 && s[0] == '-' {
		neg = true
		s = s[1:]
	}
	var out []byte
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, c)
	}
	if neg {
		return "-" + string(out)
	}
	return string(out)
}

func kindCell(k model.Kind) string {
	switch k {
	case model.KindExpense:
		return text.FgRed.Sprint(k.Label())
	case model.KindIncome:
		return text.FgGreen.Sprint(k.Label())
	case model.KindReview:
		return text.FgYellow.Sprint(k.Label())
	default:
		return text.FgHiBlack.Sprint(k.Label())
	}
}

// RenderRecordsTable writes a records listing to w.
func RenderRecordsTable(w io.Writer, records []model.Record) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"ID", "일시", "내용", "지급", "입금", "구분", "거래처", "계좌"})

	var debitTotal, creditTotal float64
	for _, rec := range records {
		debitTotal += rec.DebitAmount
		creditTotal += rec.CreditAmount
		t.AppendRow(table.Row{
			rec.ID,
			rec.TransactionTime,
			rec.Description,
			FormatAmount(rec.DebitAmount),
			FormatAmount(rec.CreditAmount),
			kindCell(rec.Kind),
			rec.PartyName,
			rec.Account,
		})
	}

	t.AppendSeparator()
	t.AppendFooter(table.Row{
		"", "", text.Bold.Sprint("합계"),
		text.Bold.Sprint(FormatAmount(debitTotal)),
		text.Bold.Sprint(FormatAmount(creditTotal)),
		"", "", "",
	})

	t.SetStyle(table.StyleRounded)
	t.Style().Format.Header = text.FormatDefault
	t.Style().Format.Footer = text.FormatDefault
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})
	t.Render()
}

// RenderPartiesTable writes a party listing to w.
func RenderPartiesTable(w io.Writer, parties []model.Party) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"ID", "이름", "사용횟수", "등록일"})

	for _, p := range parties {
		t.AppendRow(table.Row{
			p.ID,
			p.Name,
			p.Freq,
			p.CreatedAt.Format("2006-01-02"),
		})
	}

	t.SetStyle(table.StyleRounded)
	t.Style().Format.Header = text.FormatDefault
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
	})
	t.Render()
}

// RenderSummaryTable writes a by-party aggregation to w.
func RenderSummaryTable(w io.Writer, summaries []engine.PartySummary) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"거래처", "건수", "지급합계", "입금합계"})

	var debitTotal, creditTotal float64
	for _, s := range summaries {
		debitTotal += s.DebitTotal
		creditTotal += s.CreditTotal
		t.AppendRow(table.Row{
			s.Name,
			s.Count,
			FormatAmount(s.DebitTotal),
			FormatAmount(s.CreditTotal),
		})
	}

	t.AppendSeparator()
	t.AppendFooter(table.Row{
		text.Bold.Sprint("합계"), "",
		text.Bold.Sprint(FormatAmount(debitTotal)),
		text.Bold.Sprint(FormatAmount(creditTotal)),
	})

	t.SetStyle(table.StyleRounded)
	t.Style().Format.Header = text.FormatDefault
	t.Style().Format.Footer = text.FormatDefault
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
	})
	t.Render()
}
