package cipher

import (
	"fmt"

	"github.com/RowanDark/monocrack/internal/lang"
)

// AffineKey is the key (a, b) of the affine cipher E(i) = a*i + b mod n. The
// multiplier a must be invertible modulo the alphabet size.
type AffineKey struct {
	A int `json:"a"`
	B int `json:"b"`
}

func (k AffineKey) String() string { return fmt.Sprintf("(%d, %d)", k.A, k.B) }

// AffineMapping builds the encryption mapping
// alphabet[i] -> alphabet[(a*i + b) mod n]. It returns ErrInvalidKey when a
// has no inverse modulo n.
func AffineMapping(key AffineKey, a lang.Alphabet) (Mapping, error) {
	n := a.Len()
	if n == 0 {
		return nil, fmt.Errorf("%w: empty alphabet", ErrInvalidKey)
	}
	if gcd(mod(key.A, n), n) != 1 {
		return nil, fmt.Errorf("%w: a=%d is not invertible modulo %d", ErrInvalidKey, key.A, n)
	}
	m := make(Mapping, n)
	for i := 0; i < n; i++ {
		m[a.At(i)] = a.At(mod(key.A*i+key.B, n))
	}
	return m, nil
}

// ShiftMapping is the affine mapping with a = 1.
func ShiftMapping(shift int, a lang.Alphabet) Mapping {
	m, err := AffineMapping(AffineKey{A: 1, B: shift}, a)
	if err != nil {
		// a = 1 is invertible for every modulus.
		panic(err)
	}
	return m
}

// AtbashMapping reverses the alphabet. It is the affine mapping with
// a = b = n-1 and is its own inverse.
func AtbashMapping(a lang.Alphabet) Mapping {
	n := a.Len()
	m, err := AffineMapping(AffineKey{A: n - 1, B: n - 1}, a)
	if err != nil {
		// n-1 is coprime to n for every n >= 1.
		panic(err)
	}
	return m
}

// InvertibleResidues returns the multipliers in [0, n) that are coprime to n,
// in ascending order. There are φ(n) of them.
func InvertibleResidues(n int) []int {
	out := make([]int, 0, n)
	for a := 0; a < n; a++ {
		if gcd(a, n) == 1 {
			out = append(out, a)
		}
	}
	return out
}

// ModInverse returns x with a*x = 1 mod n.
func ModInverse(a, n int) (int, error) {
	if n <= 0 {
		return 0, fmt.Errorf("%w: modulus %d", ErrInvalidKey, n)
	}
	a = mod(a, n)
	oldR, r := a, n
	oldS, s := 1, 0
	for r != 0 {
		q := oldR / r
		oldR, r = r, oldR-q*r
		oldS, s = s, oldS-q*s
	}
	if oldR != 1 && n != 1 {
		return 0, fmt.Errorf("%w: %d has no inverse modulo %d", ErrInvalidKey, a, n)
	}
	return mod(oldS, n), nil
}

func gcd(a, b int) int {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func mod(x, n int) int {
	r := x % n
	if r < 0 {
		r += n
	}
	return r
}
