package score

import (
	"github.com/RowanDark/monocrack/internal/lang"
)

// NgramScorer scores text by the negative log10 likelihood of its overlapping
// n-grams. N-grams missing from the corpus get the table's floor probability.
type NgramScorer struct {
	table *lang.NgramTable
}

// NewNgramScorer wraps a loaded table.
func NewNgramScorer(table *lang.NgramTable) *NgramScorer {
	return &NgramScorer{table: table}
}

// ForModel loads the order n table of model. n <= 0 selects
// DefaultNgramOrder.
func ForModel(model *lang.Model, n int) (*NgramScorer, error) {
	if n <= 0 {
		n = DefaultNgramOrder
	}
	table, err := model.Ngrams(n)
	if err != nil {
		return nil, err
	}
	return NewNgramScorer(table), nil
}

// N returns the n-gram order.
func (s *NgramScorer) N() int { return s.table.N() }

// Table returns the underlying n-gram table.
func (s *NgramScorer) Table() *lang.NgramTable { return s.table }

// Score reduces text to its case folded alphabet symbols and sums
// -log10 P over every window of N symbols. Text shorter than N scores 0.
func (s *NgramScorer) Score(text string) float64 {
	return s.ScoreIndices(s.table.Alphabet().Indices(text))
}

// ScoreIndices is Score over text already reduced to alphabet positions.
func (s *NgramScorer) ScoreIndices(idx []int) float64 {
	n := s.table.N()
	if len(idx) < n {
		return 0
	}
	var total float64
	for i := 0; i+n <= len(idx); i++ {
		total -= s.table.LogProbIndices(idx[i : i+n])
	}
	return total
}
