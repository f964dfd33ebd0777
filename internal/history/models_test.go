package history

import (
	"strings"
	"testing"
)

func TestSummarize(t *testing.T) {
	exact := strings.Repeat("a", 50)
	long := strings.Repeat("b", 51)

	tests := []struct {
		name, in, want string
	}{
		{"short", "write a haiku", "write a haiku"},
		{"exactly fifty", exact, exact},
		{"fifty one", long, strings.Repeat("b", 50) + "..."},
		{"multibyte", strings.Repeat("é", 60), strings.Repeat("é", 50) + "..."},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Summarize(tt.in); got != tt.want {
				t.Errorf("Summarize() = %q, want %q", got, tt.want)
			}
		})
	}
}
