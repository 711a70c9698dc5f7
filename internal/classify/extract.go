package classify

import (
	"regexp"
	"strings"
)

// SentinelParty is the placeholder shown when no counterparty could be
// determined from a memo.
const SentinelParty = "미확인거래처"

// corporateMarker alone carries no identifying information; the real
// company name follows it in the memo.
const corporateMarker = "주식회사"

// bankPrefixRe matches transfer-origin bank tags that source banks prepend
// to memos, plus any separator characters that follow. These tags name the
// sending bank, not the counterparty.
var bankPrefixRe = regexp.MustCompile(`^(기업|신한|농협|국민|카카|토뱅|하나|금고)[\s\-_/|·]*`)

// ExtractParty derives a best-guess counterparty name from a free-text
// statement memo. It is a deterministic single-pass heuristic: bank CSV/XLSX
// exports embed the counterparty inside noise (bank tags, trailing
// parenthetical notes, corporate boilerplate), and the user can always
// override the result before commit.
func ExtractParty(memo string) string {
	raw := strings.TrimSpace(memo)
	if raw == "" {
		return SentinelParty
	}

	first := truncateAtParen(firstToken(raw))

	// The bare corporate marker means the company name follows it;
	// truncating here would throw the name away.
	if first == corporateMarker {
		return raw
	}

	if bankPrefixRe.MatchString(first) {
		stripped := strings.TrimSpace(bankPrefixRe.ReplaceAllString(raw, ""))
		if stripped == "" {
			return SentinelParty
		}
		if t := truncateAtParen(firstToken(stripped)); t != "" {
			return t
		}
		return SentinelParty
	}

	if first == "" {
		return SentinelParty
	}
	return first
}

func firstToken(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// truncateAtParen cuts a token at the earlier of an ASCII or fullwidth
// opening parenthesis.
func truncateAtParen(token string) string {
	cut := strings.Index(token, "(")
	if full := strings.Index(token, "（"); full >= 0 && (cut < 0 || full < cut) {
		cut = full
	}
	if cut >= 0 {
		token = token[:cut]
	}
	return strings.TrimSpace(token)
}
