package crack

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/RowanDark/monocrack/internal/cipher"
	"github.com/RowanDark/monocrack/internal/lang"
	"github.com/RowanDark/monocrack/internal/score"
)

// Cipher names accepted by Run. CipherAuto lets the detector pick the family.
const (
	CipherAuto         = "auto"
	CipherShift        = FamilyShift
	CipherAffine       = FamilyAffine
	CipherAtbash       = FamilyAtbash
	CipherSubstitution = FamilySubstitution
)

var (
	// ErrUnknownCipher is returned for a cipher family Run cannot crack.
	ErrUnknownCipher = errors.New("unknown cipher")
	// ErrUnknownLanguage is returned when the requested language is not
	// registered.
	ErrUnknownLanguage = errors.New("unknown language")
	// ErrUnsupportedMetric is returned when a family cannot search with the
	// requested metric.
	ErrUnsupportedMetric = errors.New("unsupported metric")
)

// Ciphers lists the cipher names accepted by Run.
func Ciphers() []string {
	return []string{CipherAuto, CipherShift, CipherAffine, CipherAtbash, CipherSubstitution}
}

// Request describes one crack. It is the shape shared by the CLI, the REST
// API and the gRPC service. Zero search settings select the defaults; Seed is
// a pointer so that an explicit zero seed survives defaulting.
type Request struct {
	Cipher     string  `json:"cipher"`
	Ciphertext string  `json:"ciphertext"`
	Language   string  `json:"language,omitempty"`
	Metric     string  `json:"metric,omitempty"`
	Restarts   int     `json:"restarts,omitempty"`
	Iterations int     `json:"iterations,omitempty"`
	Frontier   int     `json:"frontier,omitempty"`
	Workers    int     `json:"workers,omitempty"`
	Seed       *uint64 `json:"seed,omitempty"`
	NgramOrder int     `json:"ngram_order,omitempty"`
}

// SeedValue returns the requested seed, or 0 when none was given.
func (r Request) SeedValue() uint64 {
	if r.Seed == nil {
		return 0
	}
	return *r.Seed
}

// Seed returns a pointer to seed for use in a Request literal.
func Seed(seed uint64) *uint64 { return &seed }

// Result is the outcome of Run for any family.
type Result struct {
	Cipher    string            `json:"cipher"`
	Language  string            `json:"language"`
	Metric    score.Metric      `json:"metric"`
	Key       string            `json:"key"`
	Affine    *cipher.AffineKey `json:"affine,omitempty"`
	Plaintext string            `json:"plaintext"`
	Score     float64           `json:"score"`
	Restart   int               `json:"restart,omitempty"`
}

// Run cracks req.Ciphertext with the requested family. Key is the encryption
// mapping rendered as the images of the alphabet in order.
func Run(ctx context.Context, req Request, observer Observer) (Result, error) {
	model, ok := lang.Lookup(req.Language)
	if !ok {
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownLanguage, req.Language)
	}
	metric, err := score.ParseMetric(req.Metric)
	if err != nil {
		return Result{}, err
	}
	if err := CheckBudget(req.Restarts, req.Iterations, req.Frontier, req.Workers); err != nil {
		return Result{}, err
	}

	family := strings.ToLower(strings.TrimSpace(req.Cipher))
	if family == CipherSubstitution && metric != score.MetricNgram {
		return Result{}, fmt.Errorf("%w: %s cracks search with %s only, got %s", ErrUnsupportedMetric, CipherSubstitution, score.MetricNgram, metric)
	}
	if family == "" || family == CipherAuto {
		family, err = detectFamily(ctx, model, req.Ciphertext)
		if err != nil {
			return Result{}, err
		}
	}

	opts := Options{Model: model, Metric: metric, NgramOrder: req.NgramOrder}
	var kr KeyResult
	switch family {
	case FamilyPlaintext:
		m := cipher.Identity(model.Alphabet())
		text := cipher.Normalize(req.Ciphertext, model.Alphabet())
		scorer, err := score.New(metric, model, req.NgramOrder)
		if err != nil {
			return Result{}, err
		}
		return Result{
			Cipher:    FamilyPlaintext,
			Language:  model.Name(),
			Metric:    metric,
			Key:       m.Key(model.Alphabet()),
			Plaintext: text,
			Score:     scorer.Score(text),
		}, nil
	case CipherShift:
		kr, err = CrackShift(ctx, req.Ciphertext, opts)
	case CipherAffine:
		kr, err = CrackAffine(ctx, req.Ciphertext, opts)
	case CipherAtbash:
		kr, err = CrackAtbash(req.Ciphertext, opts)
	case CipherSubstitution:
		sr, err := CrackSubstitution(ctx, req.Ciphertext, Config{
			Model:      model,
			Restarts:   req.Restarts,
			Iterations: req.Iterations,
			Frontier:   req.Frontier,
			Workers:    req.Workers,
			Seed:       req.SeedValue(),
			NgramOrder: req.NgramOrder,
			Observer:   observer,
		})
		if err != nil {
			return Result{}, err
		}
		return Result{
			Cipher:    CipherSubstitution,
			Language:  model.Name(),
			Metric:    score.MetricNgram,
			Key:       sr.Key.Key(model.Alphabet()),
			Plaintext: sr.Plaintext,
			Score:     sr.Score,
			Restart:   sr.Restart,
		}, nil
	default:
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownCipher, req.Cipher)
	}
	if err != nil {
		return Result{}, err
	}

	key := kr.Key
	return Result{
		Cipher:    kr.Cipher,
		Language:  model.Name(),
		Metric:    kr.Metric,
		Key:       kr.Mapping.Key(model.Alphabet()),
		Affine:    &key,
		Plaintext: kr.Plaintext,
		Score:     kr.Score,
	}, nil
}

// detectFamily returns the most likely monoalphabetic family of ciphertext.
// Short texts and text the detector considers polyalphabetic fall back to
// generic substitution, which covers every monoalphabetic cipher.
func detectFamily(ctx context.Context, model *lang.Model, ciphertext string) (string, error) {
	results, err := NewDetector(model).Detect(ctx, []byte(ciphertext))
	if err != nil {
		return "", err
	}
	for _, r := range results {
		if r.Cipher == FamilyPolyalphabetic {
			continue
		}
		return r.Cipher, nil
	}
	return CipherSubstitution, nil
}
