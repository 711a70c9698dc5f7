package model

import "time"

// Kind classifies a transaction by its debit/credit amounts.
type Kind string

// Kind constants.
const (
	KindExpense     Kind = "EXPENSE"
	KindIncome      Kind = "INCOME"
	KindReview      Kind = "REVIEW"
	KindUnspecified Kind = ""
)

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindExpense, KindIncome, KindReview, KindUnspecified:
		return true
	}
	return false
}

// Label returns the Korean display label used in list views.
func (k Kind) Label() string {
	switch k {
	case KindExpense:
		return "비용"
	case KindIncome:
		return "매출"
	case KindReview:
		return "확인요망"
	default:
		return "-"
	}
}

// Record is one finalized, persisted ledger entry. TransactionTime and
// Description carry the raw spreadsheet text verbatim. PartyID references
// the parties store; PartyName is the denormalized display name kept for
// resilience when the referenced party cannot be found.
type Record struct {
	CreatedAt       time.Time
	Account         string
	TransactionTime string
	Description     string
	Kind            Kind
	PartyID         string
	PartyName       string
	Memo            string
	ID              int64
	DebitAmount     float64
	CreditAmount    float64
}
