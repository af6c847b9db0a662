package score

import (
	"sort"

	"github.com/RowanDark/monocrack/internal/lang"
)

// Counts tallies the alphabet symbols of text after case folding. Every
// alphabet symbol is present in the result; the second value is the number
// of symbols counted.
func Counts(text string, a lang.Alphabet) (map[rune]int, int) {
	counts := make(map[rune]int, a.Len())
	for _, r := range a.Symbols() {
		counts[r] = 0
	}
	length := 0
	for _, r := range text {
		if folded, ok := a.Fold(r); ok {
			counts[folded]++
			length++
		}
	}
	return counts, length
}

// Frequencies returns the relative frequency of each alphabet symbol in text.
// Text without alphabet symbols yields all zeros.
func Frequencies(text string, a lang.Alphabet) map[rune]float64 {
	counts, length := Counts(text, a)
	freqs := make(map[rune]float64, len(counts))
	for r, c := range counts {
		if length > 0 {
			freqs[r] = float64(c) / float64(length)
		} else {
			freqs[r] = 0
		}
	}
	return freqs
}

// SquaredDifferences returns Σ (observed − expected)² over the symbols of
// both distributions. A symbol missing from one side counts as 0 there.
func SquaredDifferences(observed, expected map[rune]float64) float64 {
	var total float64
	for _, r := range unionKeys(observed, expected) {
		d := observed[r] - expected[r]
		total += d * d
	}
	return total
}

// ChiSquared returns Σ (c − e·L)² / (e·L) where c is the observed count of a
// symbol, e its expected frequency and L the text length. Symbols with no
// expected occurrences are skipped.
func ChiSquared(counts map[rune]int, length int, expected map[rune]float64) float64 {
	var total float64
	for _, r := range unionKeys(nil, expected) {
		e := expected[r] * float64(length)
		if e == 0 {
			continue
		}
		d := float64(counts[r]) - e
		total += d * d / e
	}
	return total
}

// IndexOfCoincidence returns the probability that two symbols drawn without
// replacement from a text with these counts are equal. Texts shorter than two
// symbols return 0.
func IndexOfCoincidence(counts map[rune]int, length int) float64 {
	if length < 2 {
		return 0
	}
	var pairs int
	for _, c := range counts {
		pairs += c * (c - 1)
	}
	return float64(pairs) / float64(length*(length-1))
}

// ExpectedIC returns Σ f² for a frequency distribution, the index of
// coincidence expected from text following it.
func ExpectedIC(freqs map[rune]float64) float64 {
	var total float64
	for _, r := range unionKeys(nil, freqs) {
		total += freqs[r] * freqs[r]
	}
	return total
}

// FrequencyScorer compares the unigram distribution of a text with the
// model's, by squared differences or by chi-squared.
type FrequencyScorer struct {
	alphabet lang.Alphabet
	expected map[rune]float64
	chi      bool
}

// NewFrequencyScorer builds a squared-differences scorer, or a chi-squared
// scorer when chi is set.
func NewFrequencyScorer(model *lang.Model, chi bool) *FrequencyScorer {
	return &FrequencyScorer{alphabet: model.Alphabet(), expected: model.Frequencies(), chi: chi}
}

func (s *FrequencyScorer) Score(text string) float64 {
	if s.chi {
		counts, length := Counts(text, s.alphabet)
		return ChiSquared(counts, length, s.expected)
	}
	return SquaredDifferences(Frequencies(text, s.alphabet), s.expected)
}

// unionKeys returns the keys of a and b in ascending order so sums are
// accumulated in a fixed order.
func unionKeys(a, b map[rune]float64) []rune {
	seen := make(map[rune]struct{}, len(a)+len(b))
	for r := range a {
		seen[r] = struct{}{}
	}
	for r := range b {
		seen[r] = struct{}{}
	}
	keys := make([]rune, 0, len(seen))
	for r := range seen {
		keys = append(keys, r)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
