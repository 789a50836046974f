package gate

import "strings"

// Normalize canonicalizes a typed answer: commas become spaces, runs of
// whitespace collapse to one space, and the result is trimmed.
// Normalize(Normalize(s)) == Normalize(s) for every s.
func Normalize(s string) string {
	return strings.Join(strings.Fields(strings.ReplaceAll(s, ",", " ")), " ")
}

// NormalizeAnswers normalizes and de-duplicates an accepted-answer list,
// dropping entries that normalize to the empty string
func NormalizeAnswers(answers []string) []string {
	seen := make(map[string]bool, len(answers))
	out := make([]string, 0, len(answers))
	for _, a := range answers {
		n := Normalize(a)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}
