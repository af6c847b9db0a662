package cipher

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/RowanDark/monocrack/internal/lang"
)

// ErrInvalidKey reports a key that does not describe a bijection over the
// alphabet.
var ErrInvalidKey = errors.New("invalid key")

// Mapping is a substitution table from alphabet symbols to alphabet symbols.
// Keys are the symbols of the text being transformed.
type Mapping map[rune]rune

// Apply replaces every symbol of text that is a key of m with its image.
// Anything else (punctuation, whitespace, symbols of another case) is copied
// unchanged.
func Apply(text string, m Mapping) string {
	return strings.Map(func(r rune) rune {
		if image, ok := m[r]; ok {
			return image
		}
		return r
	}, text)
}

// Invert swaps the keys and values of m.
func Invert(m Mapping) Mapping {
	inv := make(Mapping, len(m))
	for k, v := range m {
		inv[v] = k
	}
	return inv
}

// Encrypt applies the encryption mapping m to plaintext.
func Encrypt(plaintext string, m Mapping) string {
	return Apply(plaintext, m)
}

// Decrypt undoes Encrypt by applying the inverse of m, the mapping that was
// used for encryption.
func Decrypt(ciphertext string, m Mapping) string {
	return Apply(ciphertext, Invert(m))
}

// Normalize case folds the symbols of text onto the alphabet so lowercase
// ciphertext is transformed like its uppercase form. Other symbols are kept.
func Normalize(text string, a lang.Alphabet) string {
	return strings.Map(func(r rune) rune {
		folded, _ := a.Fold(r)
		return folded
	}, text)
}

// Validate reports whether m is a permutation of the alphabet.
func Validate(m Mapping, a lang.Alphabet) error {
	if len(m) != a.Len() {
		return fmt.Errorf("%w: mapping covers %d symbols, alphabet has %d", ErrInvalidKey, len(m), a.Len())
	}
	seen := make(map[rune]rune, len(m))
	for k, v := range m {
		if !a.Contains(k) {
			return fmt.Errorf("%w: %q is not in the alphabet", ErrInvalidKey, k)
		}
		if !a.Contains(v) {
			return fmt.Errorf("%w: image %q of %q is not in the alphabet", ErrInvalidKey, v, k)
		}
		if prev, dup := seen[v]; dup {
			return fmt.Errorf("%w: %q and %q both map to %q", ErrInvalidKey, prev, k, v)
		}
		seen[v] = k
	}
	return nil
}

// Identity returns the mapping that leaves every symbol in place.
func Identity(a lang.Alphabet) Mapping {
	m := make(Mapping, a.Len())
	for i := 0; i < a.Len(); i++ {
		m[a.At(i)] = a.At(i)
	}
	return m
}

// RandomMapping draws a uniformly random permutation of the alphabet.
func RandomMapping(rng *rand.Rand, a lang.Alphabet) Mapping {
	perm := rng.Perm(a.Len())
	m := make(Mapping, a.Len())
	for i, j := range perm {
		m[a.At(i)] = a.At(j)
	}
	return m
}

// Clone returns a copy of m.
func (m Mapping) Clone() Mapping {
	out := make(Mapping, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Swap returns a copy of m with the images of x and y exchanged.
func (m Mapping) Swap(x, y rune) Mapping {
	out := m.Clone()
	out[x], out[y] = m[y], m[x]
	return out
}

// Equal reports whether m and o contain the same pairs.
func (m Mapping) Equal(o Mapping) bool {
	if len(m) != len(o) {
		return false
	}
	for k, v := range m {
		if w, ok := o[k]; !ok || w != v {
			return false
		}
	}
	return true
}

// Key renders m as the images of the alphabet symbols in alphabet order, e.g.
// "DEFGHIJKLMNOPQRSTUVWXYZABC" for a shift of 3.
func (m Mapping) Key(a lang.Alphabet) string {
	out := make([]rune, a.Len())
	for i := 0; i < a.Len(); i++ {
		image, ok := m[a.At(i)]
		if !ok {
			image = '?'
		}
		out[i] = image
	}
	return string(out)
}

// ParseKey is the inverse of Mapping.Key. The key is case folded onto the
// alphabet and must be a permutation of it.
func ParseKey(key string, a lang.Alphabet) (Mapping, error) {
	runes := []rune(strings.TrimSpace(key))
	if len(runes) != a.Len() {
		return nil, fmt.Errorf("%w: key has %d symbols, alphabet has %d", ErrInvalidKey, len(runes), a.Len())
	}
	m := make(Mapping, a.Len())
	for i, r := range runes {
		folded, ok := a.Fold(r)
		if !ok {
			return nil, fmt.Errorf("%w: %q is not in the alphabet", ErrInvalidKey, r)
		}
		m[a.At(i)] = folded
	}
	if err := Validate(m, a); err != nil {
		return nil, err
	}
	return m, nil
}
