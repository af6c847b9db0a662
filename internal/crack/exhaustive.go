// Package crack recovers the key and plaintext of monoalphabetic ciphertext.
// Keyed families with small key spaces (shift, affine, Atbash) are broken by
// trying every key; generic substitution is broken by hill climbing.
package crack

import (
	"context"
	"fmt"

	"github.com/RowanDark/monocrack/internal/cipher"
	"github.com/RowanDark/monocrack/internal/lang"
	"github.com/RowanDark/monocrack/internal/score"
)

// Options selects the language and the metric of an exhaustive crack.
type Options struct {
	// Model defaults to lang.Default().
	Model *lang.Model
	// Metric defaults to score.MetricNgram.
	Metric score.Metric
	// NgramOrder defaults to score.DefaultNgramOrder.
	NgramOrder int
}

func (o Options) model() *lang.Model {
	if o.Model != nil {
		return o.Model
	}
	return lang.Default()
}

// KeyResult is the outcome of an exhaustive crack.
type KeyResult struct {
	Cipher    string           `json:"cipher"`
	Key       cipher.AffineKey `json:"key"`
	Mapping   cipher.Mapping   `json:"-"`
	Plaintext string           `json:"plaintext"`
	Score     float64          `json:"score"`
	Metric    score.Metric     `json:"metric"`
}

// Shift returns the shift of a shift cipher key.
func (r KeyResult) Shift() int { return r.Key.B }

// CrackShift tries every shift in [0, n) and returns the one whose
// decryption scores lowest.
func CrackShift(ctx context.Context, ciphertext string, opts Options) (KeyResult, error) {
	n := opts.model().Alphabet().Len()
	keys := make([]cipher.AffineKey, 0, n)
	for b := 0; b < n; b++ {
		keys = append(keys, cipher.AffineKey{A: 1, B: b})
	}
	return crackKeys(ctx, "shift", ciphertext, opts, keys)
}

// CrackAffine tries every key (a, b) with a invertible modulo the alphabet
// size and b in [0, n).
func CrackAffine(ctx context.Context, ciphertext string, opts Options) (KeyResult, error) {
	n := opts.model().Alphabet().Len()
	residues := cipher.InvertibleResidues(n)
	keys := make([]cipher.AffineKey, 0, len(residues)*n)
	for _, a := range residues {
		for b := 0; b < n; b++ {
			keys = append(keys, cipher.AffineKey{A: a, B: b})
		}
	}
	return crackKeys(ctx, "affine", ciphertext, opts, keys)
}

// CrackAtbash decrypts with the only Atbash key. The score is reported so
// the result can be compared with the other families.
func CrackAtbash(ciphertext string, opts Options) (KeyResult, error) {
	n := opts.model().Alphabet().Len()
	return crackKeys(context.Background(), "atbash", ciphertext, opts, []cipher.AffineKey{{A: n - 1, B: n - 1}})
}

func crackKeys(ctx context.Context, family, ciphertext string, opts Options, keys []cipher.AffineKey) (KeyResult, error) {
	model := opts.model()
	metric := opts.Metric
	if metric == "" {
		metric = score.MetricNgram
	}
	scorer, err := score.New(metric, model, opts.NgramOrder)
	if err != nil {
		return KeyResult{}, fmt.Errorf("%s crack: %w", family, err)
	}

	alphabet := model.Alphabet()
	text := cipher.Normalize(ciphertext, alphabet)
	candidates := make([]score.Candidate[cipher.AffineKey], 0, len(keys))
	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return KeyResult{}, err
		}
		m, err := cipher.AffineMapping(key, alphabet)
		if err != nil {
			return KeyResult{}, fmt.Errorf("%s crack: %w", family, err)
		}
		plaintext := cipher.Decrypt(text, m)
		candidates = append(candidates, score.Candidate[cipher.AffineKey]{
			Key:       key,
			Plaintext: plaintext,
			Score:     scorer.Score(plaintext),
		})
	}

	best, ok := score.Best(candidates)
	if !ok {
		return KeyResult{}, fmt.Errorf("%s crack: empty key space", family)
	}
	m, _ := cipher.AffineMapping(best.Key, alphabet)
	return KeyResult{
		Cipher:    family,
		Key:       best.Key,
		Mapping:   m,
		Plaintext: best.Plaintext,
		Score:     best.Score,
		Metric:    metric,
	}, nil
}
