// Package classify derives transaction kinds from debit/credit amounts and
// extracts counterparty name candidates from free-text statement memos.
package classify

import (
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/jangbu-dev/jangbu/internal/grid"
	"github.com/jangbu-dev/jangbu/internal/model"
)

// Classify assigns a transaction kind from its debit and credit amounts.
// The four conditions are mutually exclusive over the (debit>0, credit>0)
// quadrants, so evaluation order does not matter.
func Classify(debit, credit float64) model.Kind {
	switch {
	case debit > 0 && credit == 0:
		return model.KindExpense
	case credit > 0 && debit == 0:
		return model.KindIncome
	case debit > 0 && credit > 0:
		return model.KindReview
	default:
		return model.KindUnspecified
	}
}

// ParseAmount reads a monetary amount from a raw cell: commas, whitespace
// (including NBSP and ideographic space, which show up as digit separators
// in Korean bank exports), ₩ and 원 are stripped before parsing, and
// anything that does not parse to a finite number is treated as 0. An
// absent cell is 0.
func ParseAmount(c grid.Cell) float64 {
	var b strings.Builder
	for _, r := range c.String() {
		switch {
		case r == ',' || r == '₩' || r == '원':
		case unicode.IsSpace(r):
		default:
			b.WriteRune(r)
		}
	}
	s := b.String()
	if s == "" {
		return 0
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(n, 0) || math.IsNaN(n) {
		return 0
	}
	return n
}
