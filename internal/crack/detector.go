package crack

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/RowanDark/monocrack/internal/cipher"
	"github.com/RowanDark/monocrack/internal/lang"
	"github.com/RowanDark/monocrack/internal/score"
)

// Cipher families reported by the detector.
const (
	FamilyPlaintext      = "plaintext"
	FamilyShift          = "shift"
	FamilyAtbash         = "atbash"
	FamilyAffine         = "affine"
	FamilySubstitution   = "substitution"
	FamilyPolyalphabetic = "polyalphabetic"
)

// minDetectSymbols is the shortest text the index of coincidence says
// anything useful about.
const minDetectSymbols = 20

// Detector classifies ciphertext. The index of coincidence separates
// monoalphabetic ciphertext (which keeps the language's IC) from text that
// flattens it; the n-gram fit of the best key of each keyed family then ranks
// the monoalphabetic families.
type Detector struct {
	model *lang.Model
}

// NewDetector returns a detector for model, or for the default language when
// model is nil.
func NewDetector(model *lang.Model) *Detector {
	if model == nil {
		model = lang.Default()
	}
	return &Detector{model: model}
}

var _ cipher.Detector = (*Detector)(nil)

func (d *Detector) SupportedCiphers() []string {
	return []string{FamilyPlaintext, FamilyShift, FamilyAtbash, FamilyAffine, FamilySubstitution, FamilyPolyalphabetic}
}

// Detect returns one result per family, most likely first. Text with too few
// alphabet symbols yields no results.
func (d *Detector) Detect(ctx context.Context, input []byte) ([]cipher.DetectionResult, error) {
	alphabet := d.model.Alphabet()
	text := cipher.Normalize(string(input), alphabet)
	counts, length := score.Counts(text, alphabet)
	if length < minDetectSymbols {
		return nil, nil
	}

	scorer, err := score.ForModel(d.model, score.DefaultNgramOrder)
	if err != nil {
		return nil, fmt.Errorf("detect: %w", err)
	}
	table := scorer.Table()
	windows := float64(length - table.N() + 1)
	// fit maps the mean n-gram log probability onto [0, 1]: 0 at the floor,
	// 1 at the mean of text that follows the corpus. The cube pushes the fit
	// of wrong keys, which still hit common n-grams by chance, towards 0.
	fit := func(s float64) float64 {
		mean := -s / windows
		return math.Pow(clamp((mean-table.Floor())/(table.ExpectedLogProb()-table.Floor())), 3)
	}

	ic := score.IndexOfCoincidence(counts, length)
	random := 1 / float64(alphabet.Len())
	mono := clamp((ic - random) / (d.model.ExpectedIC() - random))

	opts := Options{Model: d.model, Metric: score.MetricNgram}
	shift, err := CrackShift(ctx, text, opts)
	if err != nil {
		return nil, err
	}
	affine, err := CrackAffine(ctx, text, opts)
	if err != nil {
		return nil, err
	}
	atbash, err := CrackAtbash(text, opts)
	if err != nil {
		return nil, err
	}
	plainFit := fit(scorer.Score(text))
	shiftFit, affineFit, atbashFit := fit(shift.Score), fit(affine.Score), fit(atbash.Score)

	shiftConf := mono * shiftFit
	if shift.Key.B == 0 {
		shiftConf /= 2
	}
	affineConf := mono * affineFit
	if affine.Key.A == 1 || affine.Key == atbash.Key {
		affineConf /= 2
	}
	keyed := math.Max(math.Max(plainFit, shiftFit), math.Max(affineFit, atbashFit))

	results := []cipher.DetectionResult{
		{
			Cipher:     FamilyPlaintext,
			Confidence: mono * plainFit,
			Reasoning:  fmt.Sprintf("IC %.4f, n-gram fit %.2f without decryption", ic, plainFit),
		},
		{
			Cipher:     FamilyAtbash,
			Confidence: mono * atbashFit,
			Reasoning:  fmt.Sprintf("IC %.4f, n-gram fit %.2f after Atbash", ic, atbashFit),
			Operation:  "atbash",
		},
		{
			Cipher:     FamilyShift,
			Confidence: shiftConf,
			Reasoning:  fmt.Sprintf("IC %.4f, n-gram fit %.2f with shift %d", ic, shiftFit, shift.Key.B),
			Operation:  "shift_decrypt",
			Parameters: map[string]interface{}{"shift": shift.Key.B},
		},
		{
			Cipher:     FamilyAffine,
			Confidence: affineConf,
			Reasoning:  fmt.Sprintf("IC %.4f, n-gram fit %.2f with key %s", ic, affineFit, affine.Key),
			Operation:  "affine_decrypt",
			Parameters: map[string]interface{}{"a": affine.Key.A, "b": affine.Key.B},
		},
		{
			Cipher:     FamilySubstitution,
			Confidence: mono * (1 - keyed),
			Reasoning:  fmt.Sprintf("IC %.4f matches %s but no keyed family fits better than %.2f", ic, d.model.Name(), keyed),
			Operation:  "substitution_crack",
		},
		{
			Cipher:     FamilyPolyalphabetic,
			Confidence: 1 - mono,
			Reasoning:  fmt.Sprintf("IC %.4f against %.4f expected and %.4f for uniform text", ic, d.model.ExpectedIC(), random),
		},
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Confidence > results[j].Confidence
	})
	return results, nil
}

func clamp(x float64) float64 {
	switch {
	case math.IsNaN(x) || x < 0:
		return 0
	case x > 1:
		return 1
	}
	return x
}
