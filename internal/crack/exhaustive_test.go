package crack

import (
	"context"
	"errors"
	"testing"

	"github.com/RowanDark/monocrack/internal/cipher"
	"github.com/RowanDark/monocrack/internal/lang"
	"github.com/RowanDark/monocrack/internal/score"
)

func TestCrackShiftHello(t *testing.T) {
	res, err := CrackShift(context.Background(), "KHOOR", Options{})
	if err != nil {
		t.Fatalf("CrackShift: %v", err)
	}
	if res.Shift() != 3 || res.Plaintext != "HELLO" {
		t.Fatalf("expected shift 3 and HELLO, got %d and %q", res.Shift(), res.Plaintext)
	}
	if res.Metric != score.MetricNgram {
		t.Fatalf("expected default metric ngram, got %q", res.Metric)
	}
}

func TestCrackShiftLowercase(t *testing.T) {
	res, err := CrackShift(context.Background(), "khoor, zruog!", Options{})
	if err != nil {
		t.Fatalf("CrackShift: %v", err)
	}
	if res.Plaintext != "HELLO, WORLD!" {
		t.Fatalf("got %q", res.Plaintext)
	}
}

func TestExhaustiveCrackersAreExact(t *testing.T) {
	alphabet := lang.Default().Alphabet()
	plaintext := cipher.Normalize(passage, alphabet)

	keys := []cipher.AffineKey{{A: 5, B: 8}, {A: 7, B: 3}, {A: 25, B: 25}, {A: 11, B: 20}, {A: 3, B: 17}, {A: 1, B: 3}}
	for _, metric := range score.Metrics() {
		for _, key := range keys {
			t.Run(string(metric)+key.String(), func(t *testing.T) {
				m, err := cipher.AffineMapping(key, alphabet)
				if err != nil {
					t.Fatalf("AffineMapping: %v", err)
				}
				ciphertext := cipher.Encrypt(passage, m)

				res, err := CrackAffine(context.Background(), ciphertext, Options{Metric: metric})
				if err != nil {
					t.Fatalf("CrackAffine: %v", err)
				}
				if res.Key != key {
					t.Fatalf("expected key %s, got %s", key, res.Key)
				}
				if res.Plaintext != plaintext {
					t.Fatalf("unexpected plaintext %q", res.Plaintext)
				}
				if cipher.Decrypt(ciphertext, res.Mapping) != plaintext {
					t.Fatal("mapping does not decrypt the ciphertext")
				}

				if key.A != 1 {
					return
				}
				shift, err := CrackShift(context.Background(), ciphertext, Options{Metric: metric})
				if err != nil {
					t.Fatalf("CrackShift: %v", err)
				}
				if shift.Shift() != key.B {
					t.Fatalf("expected shift %d, got %d", key.B, shift.Shift())
				}
			})
		}
	}
}

func TestCrackAtbash(t *testing.T) {
	res, err := CrackAtbash("SVOOL, DLIOW", Options{})
	if err != nil {
		t.Fatalf("CrackAtbash: %v", err)
	}
	if res.Plaintext != "HELLO, WORLD" {
		t.Fatalf("got %q", res.Plaintext)
	}
	if res.Key != (cipher.AffineKey{A: 25, B: 25}) {
		t.Fatalf("unexpected key %s", res.Key)
	}
}

func TestExhaustiveDegenerateInput(t *testing.T) {
	// Every key scores 0, so the first key in enumeration order wins.
	for _, text := range []string{"", "AB", "12 !"} {
		shift, err := CrackShift(context.Background(), text, Options{})
		if err != nil {
			t.Fatalf("CrackShift(%q): %v", text, err)
		}
		if shift.Shift() != 0 || shift.Score != 0 {
			t.Fatalf("CrackShift(%q) = %+v", text, shift)
		}
		affine, err := CrackAffine(context.Background(), text, Options{})
		if err != nil {
			t.Fatalf("CrackAffine(%q): %v", text, err)
		}
		if affine.Key != (cipher.AffineKey{A: 1, B: 0}) || affine.Score != 0 {
			t.Fatalf("CrackAffine(%q) = %+v", text, affine)
		}
	}
}

func TestExhaustiveMissingCorpus(t *testing.T) {
	model := lang.MustModel(lang.Spec{Name: "nocorpus", Alphabet: lang.Latin})
	_, err := CrackShift(context.Background(), "KHOOR", Options{Model: model})
	if !errors.Is(err, lang.ErrResourceUnavailable) {
		t.Fatalf("expected ErrResourceUnavailable, got %v", err)
	}
}

func TestExhaustiveCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := CrackAffine(ctx, "KHOOR", Options{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
