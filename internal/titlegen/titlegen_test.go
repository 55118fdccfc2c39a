package titlegen

import (
	"strings"
	"testing"
)

func TestCleanTitle(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "plain", raw: "Only 1% Know This Club #shorts", want: "Only 1% Know This Club #shorts"},
		{name: "quoted", raw: `"Only 1% Know This Club"`, want: "Only 1% Know This Club"},
		{name: "trailingChatter", raw: "Great Title Here\nLet me know if you want more!", want: "Great Title Here"},
		{name: "whitespace", raw: "  padded title \n", want: "padded title"},
		{name: "truncated", raw: strings.Repeat("a", 140), want: strings.Repeat("a", 100)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanTitle(tt.raw); got != tt.want {
				t.Errorf("CleanTitle(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}
