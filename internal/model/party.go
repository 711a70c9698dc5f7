// Package model defines the core domain models used throughout the application.
package model

import (
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
)

// Party represents a counterparty (payer/payee) identity.
type Party struct {
	CreatedAt time.Time
	UpdatedAt time.Time
	ID        string
	Name      string
	NameNorm  string
	Freq      int
}

// NewPartyID returns a fresh opaque party identifier.
func NewPartyID() string {
	return "p_" + uuid.NewString()
}

// strippedRunes are removed from party names before comparison: punctuation,
// separators, currency glyphs and the 원 unit marker.
const strippedRunes = "().·,/_-|₩$€¥원"

// corporateMarkers are corporate-entity prefixes that carry no identifying
// information. Stripped after the character pass, so the parenthesized form
// only matches if it survived that pass intact.
var corporateMarkers = []string{"주식회사", "㈜", "(주)"}

// NormalizePartyName derives the dedup-key form of a party display name.
// Two names that normalize identically are considered the same party.
func NormalizePartyName(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsSpace(r) || strings.ContainsRune(strippedRunes, r) {
			continue
		}
		b.WriteRune(r)
	}
	out := b.String()
	for _, marker := range corporateMarkers {
		out = strings.ReplaceAll(out, marker, "")
	}
	return out
}
