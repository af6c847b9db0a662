package lang

import (
	"errors"
	"fmt"
	"unicode"
)

// Latin is the default alphabet shared by the bundled languages.
const Latin = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// Alphabet is an ordered set of unique symbols. The zero value is empty and
// unusable; construct one with NewAlphabet.
type Alphabet struct {
	symbols []rune
	index   map[rune]int
}

// NewAlphabet builds an alphabet from the runes of symbols in order.
func NewAlphabet(symbols string) (Alphabet, error) {
	runes := []rune(symbols)
	if len(runes) == 0 {
		return Alphabet{}, errors.New("alphabet cannot be empty")
	}
	index := make(map[rune]int, len(runes))
	for i, r := range runes {
		if _, dup := index[r]; dup {
			return Alphabet{}, fmt.Errorf("alphabet symbol %q appears more than once", r)
		}
		index[r] = i
	}
	return Alphabet{symbols: runes, index: index}, nil
}

// MustAlphabet is NewAlphabet that panics on error. Intended for package level
// declarations.
func MustAlphabet(symbols string) Alphabet {
	a, err := NewAlphabet(symbols)
	if err != nil {
		panic(err)
	}
	return a
}

// Len returns the number of symbols, which is also the affine modulus.
func (a Alphabet) Len() int { return len(a.symbols) }

// At returns the symbol at position i.
func (a Alphabet) At(i int) rune { return a.symbols[i] }

// Symbols returns a copy of the ordered symbols.
func (a Alphabet) Symbols() []rune {
	out := make([]rune, len(a.symbols))
	copy(out, a.symbols)
	return out
}

// Index returns the position of r in the alphabet.
func (a Alphabet) Index(r rune) (int, bool) {
	i, ok := a.index[r]
	return i, ok
}

// Contains reports whether r is an alphabet symbol. No case folding is applied.
func (a Alphabet) Contains(r rune) bool {
	_, ok := a.index[r]
	return ok
}

// Fold maps r onto an alphabet symbol, trying r itself and then its upper and
// lower case forms.
func (a Alphabet) Fold(r rune) (rune, bool) {
	if a.Contains(r) {
		return r, true
	}
	if u := unicode.ToUpper(r); a.Contains(u) {
		return u, true
	}
	if l := unicode.ToLower(r); a.Contains(l) {
		return l, true
	}
	return r, false
}

// Indices returns the alphabet positions of the symbols of text after case
// folding. Symbols outside the alphabet are dropped.
func (a Alphabet) Indices(text string) []int {
	out := make([]int, 0, len(text))
	for _, r := range text {
		if folded, ok := a.Fold(r); ok {
			out = append(out, a.index[folded])
		}
	}
	return out
}

// Filter returns text reduced to alphabet symbols, case folded.
func (a Alphabet) Filter(text string) string {
	out := make([]rune, 0, len(text))
	for _, r := range text {
		if folded, ok := a.Fold(r); ok {
			out = append(out, folded)
		}
	}
	return string(out)
}

func (a Alphabet) String() string { return string(a.symbols) }
