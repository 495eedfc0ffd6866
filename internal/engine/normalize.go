// internal/engine/normalize.go
package engine

import "strings"

// fillerPrefixes are stripped when they form the entire leading clause of
// a response ("the answer is paris" and "paris" compare equal).
var fillerPrefixes = []string{"the answer is", "i believe", "it is"}

// Normalize folds a response into canonical comparison form: lowercased,
// whitespace collapsed, terminal punctuation removed, filler prefixes
// stripped. The pipeline runs to a fixpoint, so Normalize(Normalize(s))
// always equals Normalize(s).
func Normalize(s string) string {
	out := strings.ToLower(s)
	for {
		prev := out
		out = strings.Join(strings.Fields(out), " ")
		out = strings.TrimRight(out, ".!?")
		out = strings.TrimSpace(out)
		out = stripFiller(out)
		if out == prev {
			return out
		}
	}
}

func stripFiller(s string) string {
	for _, prefix := range fillerPrefixes {
		if s == prefix {
			return ""
		}
		if strings.HasPrefix(s, prefix+" ") {
			return strings.TrimSpace(s[len(prefix)+1:])
		}
	}
	return s
}
