package lang

import (
	"errors"
	"fmt"
	"math"
)

// maxDenseEntries bounds the size of the positional lookup table. Larger
// tables fall back to map lookups.
const maxDenseEntries = 1 << 21

// floorFraction is the pseudo count assigned to n-grams absent from the
// corpus, relative to the corpus total.
const floorFraction = 0.01

// NgramTable holds n-gram probabilities for one language. It is immutable
// once built and safe for concurrent use.
type NgramTable struct {
	n        int
	alphabet Alphabet
	total    uint64
	probs    map[string]float64
	logs     map[string]float64
	floor    float64
	expected float64
	dense    []float64
}

// NewNgramTable normalises counts into probabilities. Every key must be n
// alphabet symbols long; keys are case folded into the alphabet.
func NewNgramTable(n int, alphabet Alphabet, counts map[string]uint64) (*NgramTable, error) {
	if n <= 0 {
		return nil, fmt.Errorf("invalid n-gram order %d", n)
	}
	normalised := make(map[string]uint64, len(counts))
	var total uint64
	for key, count := range counts {
		runes := []rune(key)
		if len(runes) != n {
			return nil, fmt.Errorf("n-gram %q has length %d, want %d", key, len(runes), n)
		}
		for i, r := range runes {
			folded, ok := alphabet.Fold(r)
			if !ok {
				return nil, fmt.Errorf("n-gram %q contains symbol %q outside the alphabet", key, r)
			}
			runes[i] = folded
		}
		normalised[string(runes)] += count
		total += count
	}
	if total == 0 {
		return nil, errors.New("n-gram corpus is empty")
	}

	t := &NgramTable{
		n:        n,
		alphabet: alphabet,
		total:    total,
		probs:    make(map[string]float64, len(normalised)),
		logs:     make(map[string]float64, len(normalised)),
		floor:    math.Log10(floorFraction / float64(total)),
	}
	for key, count := range normalised {
		p := float64(count) / float64(total)
		t.probs[key] = p
		t.logs[key] = math.Log10(p)
		t.expected += p * t.logs[key]
	}

	if size := denseSize(alphabet.Len(), n); size > 0 {
		t.dense = make([]float64, size)
		for i := range t.dense {
			t.dense[i] = t.floor
		}
		for key, lp := range t.logs {
			code := 0
			for _, r := range key {
				idx, _ := alphabet.Index(r)
				code = code*alphabet.Len() + idx
			}
			t.dense[code] = lp
		}
	}
	return t, nil
}

func denseSize(symbols, n int) int {
	size := 1
	for i := 0; i < n; i++ {
		size *= symbols
		if size > maxDenseEntries {
			return 0
		}
	}
	return size
}

// N returns the n-gram order.
func (t *NgramTable) N() int { return t.n }

// Len returns the number of distinct n-grams observed in the corpus.
func (t *NgramTable) Len() int { return len(t.probs) }

// Total returns the corpus count the probabilities were normalised by.
func (t *NgramTable) Total() uint64 { return t.total }

// Alphabet returns the alphabet the table is keyed by.
func (t *NgramTable) Alphabet() Alphabet { return t.alphabet }

// Prob returns the probability of gram and whether it was observed.
func (t *NgramTable) Prob(gram string) (float64, bool) {
	p, ok := t.probs[gram]
	return p, ok
}

// Floor returns the log10 probability used for unobserved n-grams.
func (t *NgramTable) Floor() float64 { return t.floor }

// ExpectedLogProb returns Σ P(g)·log10 P(g), the mean log10 probability of an
// n-gram drawn from text that follows the corpus.
func (t *NgramTable) ExpectedLogProb() float64 { return t.expected }

// LogProb returns log10 P(gram), or the floor when gram was never observed.
func (t *NgramTable) LogProb(gram string) float64 {
	if lp, ok := t.logs[gram]; ok {
		return lp
	}
	return t.floor
}

// LogProbIndices returns log10 P of the n-gram made of the alphabet positions
// in idx, which must hold exactly N positions.
func (t *NgramTable) LogProbIndices(idx []int) float64 {
	if t.dense != nil {
		code := 0
		for _, i := range idx {
			code = code*t.alphabet.Len() + i
		}
		return t.dense[code]
	}
	runes := make([]rune, len(idx))
	for k, i := range idx {
		runes[k] = t.alphabet.At(i)
	}
	return t.LogProb(string(runes))
}
