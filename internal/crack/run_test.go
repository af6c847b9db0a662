package crack

import (
	"context"
	"errors"
	"testing"

	"github.com/RowanDark/monocrack/internal/cipher"
	"github.com/RowanDark/monocrack/internal/lang"
	"github.com/RowanDark/monocrack/internal/score"
)

func TestRun(t *testing.T) {
	alphabet := lang.Default().Alphabet()
	affine, _ := cipher.AffineMapping(cipher.AffineKey{A: 7, B: 3}, alphabet)

	tests := []struct {
		name       string
		req        Request
		wantCipher string
		wantKey    *cipher.AffineKey
	}{
		{
			name:       "shift",
			req:        Request{Cipher: "shift", Ciphertext: cipher.Encrypt(passage, cipher.ShiftMapping(4, alphabet))},
			wantCipher: CipherShift,
			wantKey:    &cipher.AffineKey{A: 1, B: 4},
		},
		{
			name:       "affine chi-squared",
			req:        Request{Cipher: "Affine", Metric: "chi2", Ciphertext: cipher.Encrypt(passage, affine)},
			wantCipher: CipherAffine,
			wantKey:    &cipher.AffineKey{A: 7, B: 3},
		},
		{
			name:       "auto detects affine",
			req:        Request{Cipher: "auto", Ciphertext: cipher.Encrypt(passage, affine)},
			wantCipher: CipherAffine,
			wantKey:    &cipher.AffineKey{A: 7, B: 3},
		},
		{
			name:       "auto detects plaintext",
			req:        Request{Ciphertext: passage},
			wantCipher: FamilyPlaintext,
		},
		{
			name:       "atbash",
			req:        Request{Cipher: "atbash", Language: "english", Ciphertext: cipher.Encrypt(passage, cipher.AtbashMapping(alphabet))},
			wantCipher: CipherAtbash,
			wantKey:    &cipher.AffineKey{A: 25, B: 25},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Run(context.Background(), tt.req, nil)
			if err != nil {
				t.Fatalf("Run: %v", err)
			}
			if res.Cipher != tt.wantCipher {
				t.Fatalf("expected cipher %s, got %s", tt.wantCipher, res.Cipher)
			}
			if res.Plaintext != passage {
				t.Fatalf("unexpected plaintext %q", res.Plaintext)
			}
			if res.Language != "english" {
				t.Fatalf("unexpected language %q", res.Language)
			}
			if tt.wantKey != nil && (res.Affine == nil || *res.Affine != *tt.wantKey) {
				t.Fatalf("expected key %s, got %v", tt.wantKey, res.Affine)
			}
			m, err := cipher.ParseKey(res.Key, alphabet)
			if err != nil {
				t.Fatalf("result key %q: %v", res.Key, err)
			}
			if cipher.Decrypt(tt.req.Ciphertext, m) != passage {
				t.Fatal("result key does not decrypt the ciphertext")
			}
		})
	}
}

func TestRunSubstitution(t *testing.T) {
	ciphertext := encryptWithKey(t, declaration, substitutionKey)
	progress := 0
	res, err := Run(context.Background(), Request{
		Cipher:     "substitution",
		Ciphertext: ciphertext,
		Seed:       Seed(5),
		Workers:    4,
	}, ObserverFunc(func(Progress) { progress++ }))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Plaintext != declaration || res.Metric != score.MetricNgram {
		t.Fatalf("unexpected result %+v", res)
	}
	if progress == 0 {
		t.Fatal("observer not called")
	}
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name string
		req  Request
		want error
	}{
		{"unknown cipher", Request{Cipher: "vigenere", Ciphertext: "ABC"}, ErrUnknownCipher},
		{"unknown language", Request{Cipher: "shift", Language: "klingon", Ciphertext: "ABC"}, ErrUnknownLanguage},
		{"substitution with chi-squared", Request{Cipher: "substitution", Metric: "chi-squared", Ciphertext: "ABC"}, ErrUnsupportedMetric},
		{"too many restarts", Request{Cipher: "substitution", Restarts: 1 << 40, Ciphertext: "ABC"}, ErrInvalidBudget},
		{"frontier too wide", Request{Cipher: "substitution", Frontier: 1 << 40, Ciphertext: "ABC"}, ErrInvalidBudget},
		{"budget checked for every family", Request{Cipher: "shift", Workers: MaxWorkers + 1, Ciphertext: "ABC"}, ErrInvalidBudget},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Run(context.Background(), tt.req, nil); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
	if _, err := Run(context.Background(), Request{Cipher: "shift", Metric: "entropy"}, nil); err == nil {
		t.Fatal("expected error for unknown metric")
	}
}

func TestCrackOperations(t *testing.T) {
	ops := cipher.ListOperationsByType(cipher.OperationTypeCrack)
	if len(ops) != len(Ciphers()) {
		t.Fatalf("expected %d crack operations, got %d", len(Ciphers()), len(ops))
	}

	pipeline := &cipher.Pipeline{Operations: []cipher.OperationConfig{
		{Name: "shift_encrypt", Parameters: map[string]interface{}{"shift": 9}},
		{Name: "shift_crack", Parameters: map[string]interface{}{"metric": "squared-differences"}},
	}}
	out, err := pipeline.Execute(context.Background(), []byte(passage))
	if err != nil {
		t.Fatalf("pipeline: %v", err)
	}
	if string(out) != passage {
		t.Fatalf("unexpected output %q", out)
	}

	op, _ := cipher.GetOperation("substitution_crack")
	if _, err := op.Execute(context.Background(), []byte("ABC"), map[string]interface{}{"seed": -1}); err == nil {
		t.Fatal("expected error for negative seed")
	}
	if _, err := op.Execute(context.Background(), []byte("ABC"), map[string]interface{}{"metric": 3}); err == nil {
		t.Fatal("expected error for non-string metric")
	}
	if _, ok := op.Reverse(); ok {
		t.Fatal("crack operations have no reverse")
	}
}
