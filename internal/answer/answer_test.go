package answer

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"  Gothic Revival  ", "gothic revival"},
		{"St. Mary's Cathedral!", "st marys cathedral"},
		{"1889", "1889"},
		{"ARCHIBALD   FOUNTAIN", "archibald   fountain"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := Normalize(tc.in); got != tc.want {
			t.Errorf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestIsCorrectExact(t *testing.T) {
	if !IsCorrect("1889", "1889", nil) {
		t.Error("exact numeric answer rejected")
	}
	if !IsCorrect("  Gothic Revival ", "Gothic Revival", []string{"Gothic", "Neo-Gothic"}) {
		t.Error("exact answer with surrounding whitespace rejected")
	}
	if !IsCorrect("neo-gothic", "Gothic Revival", []string{"Gothic", "Neo-Gothic"}) {
		t.Error("alternate answer rejected")
	}
	if !IsCorrect("Canton", "Guangzhou", []string{"Canton"}) {
		t.Error("alternate answer rejected")
	}
}

func TestIsCorrectNumericStaysStrict(t *testing.T) {
	// One digit off is a wrong year, not a typo.
	if IsCorrect("1890", "1889", nil) {
		t.Error("accepted a wrong year one digit away")
	}
	if IsCorrect("189", "1889", nil) {
		t.Error("accepted a truncated year")
	}
	// Explicit alternates still work for near-miss years.
	if !IsCorrect("1890", "1889", []string{"1888", "1890"}) {
		t.Error("rejected a year listed as an alternate")
	}
}

func TestIsCorrectFuzzy(t *testing.T) {
	// Transposed letters within tolerance.
	if !IsCorrect("Guanghzou", "Guangzhou", []string{"Canton"}) {
		t.Error("rejected a transposition typo")
	}
	if !IsCorrect("Archibold Fountain", "Archibald Fountain", nil) {
		t.Error("rejected a one-letter typo")
	}
	// Semantically different answers must not pass.
	if IsCorrect("Shanghai", "Guangzhou", []string{"Canton"}) {
		t.Error("accepted a different city")
	}
	if IsCorrect("Baroque", "Gothic Revival", []string{"Gothic"}) {
		t.Error("accepted a different style")
	}
}

func TestIsCorrectShortAnswers(t *testing.T) {
	if !IsCorrect("cats", "Cats", []string{"Cats the Musical"}) {
		t.Error("rejected exact short answer")
	}
	// Too short for fuzzy matching: one edit on a 4-rune word.
	if IsCorrect("bats", "Cats", nil) {
		t.Error("accepted a different 4-letter word")
	}
}

func TestIsCorrectEmpty(t *testing.T) {
	if IsCorrect("", "Guangzhou", nil) {
		t.Error("accepted empty answer")
	}
	if IsCorrect("   !!! ", "Guangzhou", nil) {
		t.Error("accepted answer that normalizes to empty")
	}
}
