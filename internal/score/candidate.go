package score

import (
	"strings"

	"github.com/RowanDark/monocrack/internal/lang"
)

// Candidate is a scored key hypothesis.
type Candidate[K any] struct {
	Key       K
	Plaintext string
	Score     float64
}

// Best returns the candidate with the lowest score. Ties keep the earliest
// candidate. ok is false for an empty slice.
func Best[K any](candidates []Candidate[K]) (best Candidate[K], ok bool) {
	for i, c := range candidates {
		if i == 0 || c.Score < best.Score {
			best = c
		}
	}
	return best, len(candidates) > 0
}

// BestText scores each text and returns the index and score of the lowest.
// Ties keep the earliest text; an empty list returns -1.
func BestText(s Scorer, texts []string) (int, float64) {
	best, bestScore := -1, 0.0
	for i, t := range texts {
		if sc := s.Score(t); best < 0 || sc < bestScore {
			best, bestScore = i, sc
		}
	}
	return best, bestScore
}

// ScoreList returns the mean score of texts, 0 for an empty list.
func ScoreList(s Scorer, texts []string) float64 {
	if len(texts) == 0 {
		return 0
	}
	var total float64
	for _, t := range texts {
		total += s.Score(t)
	}
	return total / float64(len(texts))
}

// BestList returns the index and mean score of the list with the lowest mean
// score. Ties keep the earliest list; no lists returns -1.
func BestList(s Scorer, lists [][]string) (int, float64) {
	best, bestScore := -1, 0.0
	for i, l := range lists {
		if sc := ScoreList(s, l); best < 0 || sc < bestScore {
			best, bestScore = i, sc
		}
	}
	return best, bestScore
}

// FormatSolution lays a cleaned plaintext (alphabet symbols only) out like
// the ciphertext it was recovered from: every alphabet symbol of ciphertext
// takes the next plaintext symbol and everything else is copied. Symbols
// left over in plaintext are dropped.
func FormatSolution(ciphertext, plaintext string, a lang.Alphabet) string {
	clean := []rune(plaintext)
	var b strings.Builder
	b.Grow(len(ciphertext))
	i := 0
	for _, r := range ciphertext {
		if _, ok := a.Fold(r); ok && i < len(clean) {
			b.WriteRune(clean[i])
			i++
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
