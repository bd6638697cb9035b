// Package answer normalizes and compares free-text challenge answers.
// Users type on mobile keyboards outdoors, so small typos are
// tolerated; the tolerance is tight enough that a wrong answer of
// similar length does not slip through.
package answer

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// maxDissimilarity is the fuzzy-match cutoff: the Levenshtein distance
// between the normalized answers, divided by the length of the longer
// one, must not exceed it. Tunable, not load-bearing precision.
const maxDissimilarity = 0.3

// minFuzzyLength guards short answers: below this many runes a single
// edit is too large a fraction of the word to trust, so they must
// match exactly.
const minFuzzyLength = 5

var nonWord = regexp.MustCompile(`[^\w\s]`)

// Normalize lowercases s, strips everything that is not a word
// character or whitespace, and trims the result.
func Normalize(s string) string {
	return strings.TrimSpace(nonWord.ReplaceAllString(strings.ToLower(s), ""))
}

// IsCorrect reports whether userAnswer matches the canonical answer or
// any alternate. Exact matches (after normalization) are accepted
// immediately; otherwise each candidate is fuzzy-compared.
func IsCorrect(userAnswer, canonical string, alternates []string) bool {
	user := Normalize(userAnswer)
	if user == "" {
		return false
	}

	candidates := make([]string, 0, len(alternates)+1)
	candidates = append(candidates, Normalize(canonical))
	for _, alt := range alternates {
		candidates = append(candidates, Normalize(alt))
	}

	for _, c := range candidates {
		if user == c {
			return true
		}
	}
	for _, c := range candidates {
		if fuzzyMatch(user, c) {
			return true
		}
	}
	return false
}

// fuzzyMatch accepts candidates within maxDissimilarity edit distance.
// Numeric answers never fuzzy-match: "1890" is a wrong year, not a
// typo of "1889" (near-miss years are listed as explicit alternates).
func fuzzyMatch(user, candidate string) bool {
	if candidate == "" || isNumeric(user) || isNumeric(candidate) {
		return false
	}
	longest := max(utf8.RuneCountInString(user), utf8.RuneCountInString(candidate))
	if longest < minFuzzyLength {
		return false
	}
	dist := levenshtein.ComputeDistance(user, candidate)
	return float64(dist)/float64(longest) <= maxDissimilarity
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
