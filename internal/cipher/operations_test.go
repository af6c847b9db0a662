package cipher

import (
	"context"
	"errors"
	"testing"
)

func TestClassicalOperations(t *testing.T) {
	tests := []struct {
		name     string
		encrypt  string
		params   map[string]interface{}
		input    string
		expected string
	}{
		{"shift", "shift_encrypt", map[string]interface{}{"shift": 3}, "HELLO, WORLD", "KHOOR, ZRUOG"},
		{"shift default", "shift_encrypt", nil, "ABC", "DEF"},
		{"shift json number", "shift_encrypt", map[string]interface{}{"shift": float64(13)}, "URYYB", "HELLO"},
		{"affine", "affine_encrypt", map[string]interface{}{"a": 5, "b": 8}, "AFFINE CIPHER", "IHHWVC SWFRCP"},
		{"substitution", "substitution_encrypt", map[string]interface{}{"key": "QWERTYUIOPASDFGHJKLZXCVBNM"}, "ABC XYZ", "QWE BNM"},
		{"explicit language", "shift_encrypt", map[string]interface{}{"shift": "1", "language": "English"}, "AZ", "BA"},
	}

	ctx := context.Background()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc, ok := GetOperation(tt.encrypt)
			if !ok {
				t.Fatalf("operation %s not registered", tt.encrypt)
			}
			out, err := enc.Execute(ctx, []byte(tt.input), tt.params)
			if err != nil {
				t.Fatalf("encrypt failed: %v", err)
			}
			if string(out) != tt.expected {
				t.Fatalf("encrypt: expected %q, got %q", tt.expected, string(out))
			}

			dec, ok := enc.Reverse()
			if !ok {
				t.Fatalf("operation %s should be reversible", tt.encrypt)
			}
			back, err := dec.Execute(ctx, out, tt.params)
			if err != nil {
				t.Fatalf("decrypt failed: %v", err)
			}
			if string(back) != tt.input {
				t.Fatalf("decrypt: expected %q, got %q", tt.input, string(back))
			}
		})
	}
}

func TestAtbashOperationIsSelfReverse(t *testing.T) {
	op, ok := GetOperation("atbash")
	if !ok {
		t.Fatal("atbash not registered")
	}
	rev, ok := op.Reverse()
	if !ok || rev.Name() != "atbash" {
		t.Fatal("atbash must reverse to itself")
	}
	out, err := op.Execute(context.Background(), []byte("HELLO"), nil)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if string(out) != "SVOOL" {
		t.Fatalf("expected SVOOL, got %q", out)
	}
}

func TestOperationParameterErrors(t *testing.T) {
	tests := []struct {
		name   string
		op     string
		params map[string]interface{}
		isKey  bool
	}{
		{"affine missing b", "affine_encrypt", map[string]interface{}{"a": 5}, false},
		{"affine non invertible", "affine_encrypt", map[string]interface{}{"a": 13, "b": 1}, true},
		{"affine fractional", "affine_encrypt", map[string]interface{}{"a": 2.5, "b": 1}, false},
		{"substitution missing key", "substitution_encrypt", nil, false},
		{"substitution bad key", "substitution_decrypt", map[string]interface{}{"key": "AAAA"}, true},
		{"unknown language", "shift_encrypt", map[string]interface{}{"language": "klingon"}, false},
		{"language wrong type", "shift_encrypt", map[string]interface{}{"language": 7}, false},
		{"shift wrong type", "shift_encrypt", map[string]interface{}{"shift": true}, false},
	}

	ctx := context.Background()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op, _ := GetOperation(tt.op)
			_, err := op.Execute(ctx, []byte("TEXT"), tt.params)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.isKey && !errors.Is(err, ErrInvalidKey) {
				t.Fatalf("expected ErrInvalidKey, got %v", err)
			}
		})
	}
}

func TestRegisteredCipherOperations(t *testing.T) {
	want := map[string]OperationType{
		"affine_decrypt":       OperationTypeDecrypt,
		"affine_encrypt":       OperationTypeEncrypt,
		"atbash":               OperationTypeEncrypt,
		"shift_decrypt":        OperationTypeDecrypt,
		"shift_encrypt":        OperationTypeEncrypt,
		"substitution_decrypt": OperationTypeDecrypt,
		"substitution_encrypt": OperationTypeEncrypt,
	}
	for name, typ := range want {
		op, ok := GetOperation(name)
		if !ok {
			t.Fatalf("operation %s missing", name)
		}
		if op.Type() != typ {
			t.Errorf("%s: expected type %s, got %s", name, typ, op.Type())
		}
		if op.Description() == "" {
			t.Errorf("%s: description should not be empty", name)
		}
	}
}

func TestOperationName(t *testing.T) {
	tests := []struct {
		family  string
		decrypt bool
		want    string
		ok      bool
	}{
		{"shift", false, "shift_encrypt", true},
		{" Affine ", true, "affine_decrypt", true},
		{"atbash", true, "atbash", true},
		{"substitution", false, "substitution_encrypt", true},
		{"vigenere", false, "", false},
	}
	for _, tt := range tests {
		got, ok := OperationName(tt.family, tt.decrypt)
		if got != tt.want || ok != tt.ok {
			t.Fatalf("OperationName(%q, %v) = %q, %v", tt.family, tt.decrypt, got, ok)
		}
		if ok {
			if _, exists := GetOperation(got); !exists {
				t.Fatalf("%s is not registered", got)
			}
		}
	}
}
