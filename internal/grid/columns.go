package grid

import (
	"regexp"
	"strings"
	"unicode"
)

// Candidate key sets for semantic column resolution. Bank export formats
// vary in wording ("지급(원)" vs "출금액"), so matching is substring
// containment over normalized text rather than equality.
var (
	DateKeys        = []string{"거래일시", "거래일자", "일시", "거래시간"}
	DescriptionKeys = []string{"기재내용", "내용"}
	DebitKeys       = []string{"지급", "출금", "지출"}
	CreditKeys      = []string{"입금", "수입"}
)

// DefaultVisibleKeys marks header labels shown by default in the preview.
var DefaultVisibleKeys = []string{"거래일시", "기재내용", "지급", "입금"}

// DefaultHidePatterns marks noise columns hidden by default in the preview.
var DefaultHidePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^(?i)no\.?`),
	regexp.MustCompile(`적요`),
	regexp.MustCompile(`거래후\s*잔액`),
	regexp.MustCompile(`취급점`),
	regexp.MustCompile(`메모`),
	regexp.MustCompile(`(수표|어음|증권)`),
}

// normalizeLabel lowercases a header label and strips whitespace, the
// characters ().· and the 원 unit marker.
func normalizeLabel(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsSpace(r) || strings.ContainsRune("().·원", r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// FindColumn returns the index of the first header cell whose normalized
// text contains any of the normalized candidate keys, or -1 when no cell
// matches. Ties break on header order; there is no scoring beyond
// containment.
func FindColumn(header []Cell, keys []string) int {
	for i, cell := range header {
		h := normalizeLabel(cell.String())
		if h == "" {
			continue
		}
		for _, key := range keys {
			k := normalizeLabel(key)
			if k != "" && strings.Contains(h, k) {
				return i
			}
		}
	}
	return -1
}

// DefaultVisible reports whether a header label should be shown by default:
// hide patterns win, then the semantic keys, then hidden.
func DefaultVisible(label string) bool {
	trimmed := strings.TrimSpace(label)
	for _, re := range DefaultHidePatterns {
		if re.MatchString(trimmed) {
			return false
		}
	}
	for _, key := range DefaultVisibleKeys {
		if strings.Contains(trimmed, key) {
			return true
		}
	}
	return false
}
