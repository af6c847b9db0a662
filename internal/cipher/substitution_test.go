package cipher

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/RowanDark/monocrack/internal/lang"
)

var latin = lang.MustAlphabet(lang.Latin)

func TestApplyPassesThroughUnknownSymbols(t *testing.T) {
	m := ShiftMapping(1, latin)
	got := Apply("Hi, THERE! 42", m)
	if got != "Ii, UIFSF! 42" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	texts := []string{
		"",
		"ATTACK AT DAWN",
		"The quick brown fox jumps over the lazy dog.",
		"ZZZ---AAA\n\tmixed Case 123",
	}
	for i := 0; i < 50; i++ {
		m := RandomMapping(rng, latin)
		if err := Validate(m, latin); err != nil {
			t.Fatalf("random mapping is not a permutation: %v", err)
		}
		for _, text := range texts {
			if got := Decrypt(Encrypt(text, m), m); got != text {
				t.Fatalf("round trip failed for %q: got %q", text, got)
			}
			if got := Apply(Apply(text, m), Invert(m)); got != text {
				t.Fatalf("apply/invert round trip failed for %q: got %q", text, got)
			}
		}
	}
}

func TestValidate(t *testing.T) {
	abc := lang.MustAlphabet("ABC")
	tests := []struct {
		name    string
		mapping Mapping
		valid   bool
	}{
		{"identity", Mapping{'A': 'A', 'B': 'B', 'C': 'C'}, true},
		{"rotation", Mapping{'A': 'B', 'B': 'C', 'C': 'A'}, true},
		{"collision", Mapping{'A': 'B', 'B': 'B', 'C': 'A'}, false},
		{"short", Mapping{'A': 'B', 'B': 'A'}, false},
		{"foreign image", Mapping{'A': 'B', 'B': 'C', 'C': 'D'}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.mapping, abc)
			if tt.valid && err != nil {
				t.Fatalf("expected valid mapping, got %v", err)
			}
			if !tt.valid && !errors.Is(err, ErrInvalidKey) {
				t.Fatalf("expected ErrInvalidKey, got %v", err)
			}
		})
	}
}

func TestKeyAndParseKey(t *testing.T) {
	m := ShiftMapping(3, latin)
	key := m.Key(latin)
	if key != "DEFGHIJKLMNOPQRSTUVWXYZABC" {
		t.Fatalf("unexpected key %q", key)
	}

	parsed, err := ParseKey("defghijklmnopqrstuvwxyzabc", latin)
	if err != nil {
		t.Fatalf("ParseKey: %v", err)
	}
	if diff := cmp.Diff(m, parsed); diff != "" {
		t.Fatalf("parsed mapping mismatch (-want +got):\n%s", diff)
	}

	for _, bad := range []string{"ABC", "AACDEFGHIJKLMNOPQRSTUVWXYZ", "ABCDEFGHIJKLMNOPQRSTUVWXY1"} {
		if _, err := ParseKey(bad, latin); !errors.Is(err, ErrInvalidKey) {
			t.Fatalf("ParseKey(%q): expected ErrInvalidKey, got %v", bad, err)
		}
	}
}

func TestSwapLeavesOriginalUntouched(t *testing.T) {
	m := Identity(latin)
	swapped := m.Swap('A', 'B')

	if m['A'] != 'A' || m['B'] != 'B' {
		t.Fatal("Swap must not modify the receiver")
	}
	if swapped['A'] != 'B' || swapped['B'] != 'A' {
		t.Fatalf("unexpected swap result A->%q B->%q", swapped['A'], swapped['B'])
	}
	if err := Validate(swapped, latin); err != nil {
		t.Fatalf("swapped mapping must stay a permutation: %v", err)
	}
	if swapped.Equal(m) {
		t.Fatal("Equal should report the difference")
	}
}

func TestNormalize(t *testing.T) {
	if got := Normalize("Khoor, zruog!", latin); got != "KHOOR, ZRUOG!" {
		t.Fatalf("unexpected normalized text %q", got)
	}
}
