// internal/engine/normalize_test.go
package engine

import "testing"

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercase", "PARIS", "paris"},
		{"surrounding whitespace", "  paris  ", "paris"},
		{"collapsed whitespace", "the  city   of\tparis", "the city of paris"},
		{"terminal period", "paris.", "paris"},
		{"terminal bang", "paris!", "paris"},
		{"terminal question", "paris?", "paris"},
		{"stacked punctuation", "paris!!!", "paris"},
		{"filler answer", "The answer is Paris.", "paris"},
		{"filler believe", "I believe Paris", "paris"},
		{"filler it is", "It is Paris", "paris"},
		{"filler only", "the answer is", ""},
		{"stacked fillers", "The answer is I believe it is Paris.", "paris"},
		{"filler mid-sentence kept", "I know the answer is Paris", "i know the answer is paris"},
		{"empty", "", ""},
		{"punctuation only", "?!.", ""},
		{"interior punctuation kept", "3.14 is pi", "3.14 is pi"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

// TestNormalizeIdempotent verifies Normalize(Normalize(s)) == Normalize(s)
// across inputs chosen to stress prefix stripping and punctuation.
func TestNormalizeIdempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"The answer is I believe it is Paris.",
		"  IT IS   the answer is 42!?  ",
		"i believe",
		"the answer is it is",
		"Plain response with no folding needed",
		"...",
		"",
		"It is what it is.",
	}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}
