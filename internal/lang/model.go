// Package lang describes the languages the crackers score candidate
// plaintext against: an alphabet, its single-symbol frequencies, the expected
// index of coincidence and n-gram tables read from a corpus on first use.
//
// Languages are data. A new one is added by registering a Spec, never by
// declaring a new type.
package lang

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Spec is the static description of a language.
type Spec struct {
	Name     string
	Alphabet string
	// Frequencies maps alphabet symbols to their relative frequency. Symbols
	// that are missing have frequency zero.
	Frequencies map[rune]float64
	// ExpectedIC is computed from Frequencies when left zero.
	ExpectedIC float64
	// Ngrams maps an n-gram order to the corpus resource holding its counts.
	Ngrams map[int]string
	Source Source
}

// Model is an immutable language model. The n-gram tables are loaded lazily
// and cached for the lifetime of the model.
type Model struct {
	spec     Spec
	alphabet Alphabet
	freqs    map[rune]float64
	ic       float64

	mu     sync.Mutex
	tables map[int]*lazyTable
}

type lazyTable struct {
	once  sync.Once
	table *NgramTable
	err   error
}

// NewModel validates spec and builds a model from it.
func NewModel(spec Spec) (*Model, error) {
	spec.Name = strings.ToLower(strings.TrimSpace(spec.Name))
	if spec.Name == "" {
		return nil, errors.New("language name cannot be empty")
	}
	alphabet, err := NewAlphabet(spec.Alphabet)
	if err != nil {
		return nil, fmt.Errorf("language %q: %w", spec.Name, err)
	}

	freqs := make(map[rune]float64, alphabet.Len())
	for _, r := range alphabet.symbols {
		freqs[r] = 0
	}
	for r, f := range spec.Frequencies {
		if !alphabet.Contains(r) {
			return nil, fmt.Errorf("language %q: frequency given for %q which is not in the alphabet", spec.Name, r)
		}
		if f < 0 {
			return nil, fmt.Errorf("language %q: negative frequency for %q", spec.Name, r)
		}
		freqs[r] = f
	}

	ic := spec.ExpectedIC
	if ic == 0 {
		for _, f := range freqs {
			ic += f * f
		}
	}

	resources := make(map[int]string, len(spec.Ngrams))
	for n, name := range spec.Ngrams {
		resources[n] = name
	}
	spec.Ngrams = resources
	spec.Frequencies = nil

	return &Model{
		spec:     spec,
		alphabet: alphabet,
		freqs:    freqs,
		ic:       ic,
		tables:   make(map[int]*lazyTable),
	}, nil
}

// MustModel is NewModel that panics on error.
func MustModel(spec Spec) *Model {
	m, err := NewModel(spec)
	if err != nil {
		panic(err)
	}
	return m
}

// Name returns the registry key of the language.
func (m *Model) Name() string { return m.spec.Name }

// Alphabet returns the language alphabet.
func (m *Model) Alphabet() Alphabet { return m.alphabet }

// Frequencies returns a copy of the unigram distribution.
func (m *Model) Frequencies() map[rune]float64 {
	out := make(map[rune]float64, len(m.freqs))
	for r, f := range m.freqs {
		out[r] = f
	}
	return out
}

// Frequency returns the unigram probability of r.
func (m *Model) Frequency(r rune) float64 { return m.freqs[r] }

// ExpectedIC returns the index of coincidence expected for text in this
// language.
func (m *Model) ExpectedIC() float64 { return m.ic }

// NgramOrders lists the orders a corpus resource is registered for.
func (m *Model) NgramOrders() []int {
	orders := make([]int, 0, len(m.spec.Ngrams))
	for n := range m.spec.Ngrams {
		orders = append(orders, n)
	}
	sort.Ints(orders)
	return orders
}

// WithSource returns a fresh model reading its corpora from src. The copy has
// its own n-gram cache.
func (m *Model) WithSource(src Source) *Model {
	spec := m.spec
	spec.Source = src
	spec.Frequencies = m.Frequencies()
	spec.ExpectedIC = m.ic
	return MustModel(spec)
}

// Ngrams returns the order-n table, reading it from the corpus on the first
// call. Concurrent first calls load the table once. Errors match
// ErrResourceUnavailable.
func (m *Model) Ngrams(n int) (*NgramTable, error) {
	if n <= 0 {
		return nil, fmt.Errorf("invalid n-gram order %d", n)
	}
	if _, ok := m.spec.Ngrams[n]; !ok {
		return nil, &ResourceError{Language: m.spec.Name, Err: fmt.Errorf("no %d-gram corpus registered", n)}
	}
	m.mu.Lock()
	lt, ok := m.tables[n]
	if !ok {
		lt = &lazyTable{}
		m.tables[n] = lt
	}
	m.mu.Unlock()

	lt.once.Do(func() {
		lt.table, lt.err = m.loadNgrams(n)
	})
	return lt.table, lt.err
}

func (m *Model) loadNgrams(n int) (*NgramTable, error) {
	name := m.spec.Ngrams[n]
	if m.spec.Source == nil {
		return nil, &ResourceError{Language: m.spec.Name, Resource: name, Err: errors.New("no corpus source configured")}
	}
	rc, err := m.spec.Source.Open(name)
	if err != nil {
		return nil, &ResourceError{Language: m.spec.Name, Resource: name, Err: err}
	}
	defer rc.Close()

	counts, err := ParseCounts(rc)
	if err != nil {
		return nil, &ResourceError{Language: m.spec.Name, Resource: name, Err: err}
	}
	table, err := NewNgramTable(n, m.alphabet, counts)
	if err != nil {
		return nil, &ResourceError{Language: m.spec.Name, Resource: name, Err: err}
	}
	return table, nil
}
