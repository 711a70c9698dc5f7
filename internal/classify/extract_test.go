package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractParty(t *testing.T) {
	tests := []struct {
		name string
		memo string
		want string
	}{
		{name: "first token", memo: "스타벅스 커피값", want: "스타벅스"},
		{name: "single token", memo: "한빛상사", want: "한빛상사"},
		{name: "paren truncation", memo: "한빛상사(123) 대금", want: "한빛상사"},
		{name: "fullwidth paren truncation", memo: "한빛상사（서울） 대금", want: "한빛상사"},
		{
			name: "earlier paren wins",
			memo: "한빛（a(b",
			want: "한빛",
		},
		{
			name: "corporate marker returns whole memo",
			memo: "주식회사 한빛 (서울)",
			want: "주식회사 한빛 (서울)",
		},
		{
			name: "corporate marker via paren truncation",
			memo: "주식회사(송금) 한빛",
			want: "주식회사(송금) 한빛",
		},
		{
			name: "bank prefix stripped",
			memo: "신한 ABC상사(123)",
			want: "ABC상사",
		},
		{
			name: "bank prefix with separator",
			memo: "카카-홍길동 이체",
			want: "홍길동",
		},
		{
			name: "bank prefix fused with name",
			memo: "국민홍길동",
			want: "홍길동",
		},
		{name: "bank prefix only", memo: "토뱅", want: SentinelParty},
		{name: "bank prefix and separators only", memo: "하나 - ", want: SentinelParty},
		{name: "empty", memo: "", want: SentinelParty},
		{name: "whitespace only", memo: "   ", want: SentinelParty},
		{name: "leading paren token", memo: "(주)한빛 대금", want: SentinelParty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractParty(tt.memo))
		})
	}
}
