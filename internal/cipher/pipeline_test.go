package cipher

import (
	"context"
	"testing"
)

func TestPipelineExecution(t *testing.T) {
	tests := []struct {
		name       string
		operations []OperationConfig
		input      string
		expected   string
	}{
		{
			name:       "single operation",
			operations: []OperationConfig{{Name: "shift_encrypt", Parameters: map[string]interface{}{"shift": 3}}},
			input:      "HELLO",
			expected:   "KHOOR",
		},
		{
			name: "two shifts compose",
			operations: []OperationConfig{
				{Name: "shift_encrypt", Parameters: map[string]interface{}{"shift": 3}},
				{Name: "shift_encrypt", Parameters: map[string]interface{}{"shift": 4}},
			},
			input:    "HELLO",
			expected: "OLSSV",
		},
		{
			name: "atbash twice",
			operations: []OperationConfig{
				{Name: "atbash"},
				{Name: "atbash"},
			},
			input:    "UNCHANGED",
			expected: "UNCHANGED",
		},
		{
			name: "encrypt then decrypt",
			operations: []OperationConfig{
				{Name: "affine_encrypt", Parameters: map[string]interface{}{"a": 7, "b": 2}},
				{Name: "affine_decrypt", Parameters: map[string]interface{}{"a": 7, "b": 2}},
			},
			input:    "ROUND TRIP",
			expected: "ROUND TRIP",
		},
	}

	ctx := context.Background()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pipeline := &Pipeline{Operations: tt.operations, Reversible: true}

			result, err := pipeline.Execute(ctx, []byte(tt.input))
			if err != nil {
				t.Fatalf("pipeline execution failed: %v", err)
			}
			if string(result) != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, string(result))
			}
		})
	}
}

func TestPipelineReversibility(t *testing.T) {
	pipeline := &Pipeline{
		Operations: []OperationConfig{
			{Name: "shift_encrypt", Parameters: map[string]interface{}{"shift": 5}},
			{Name: "atbash"},
			{Name: "substitution_encrypt", Parameters: map[string]interface{}{"key": "QWERTYUIOPASDFGHJKLZXCVBNM"}},
			{Name: "affine_encrypt", Parameters: map[string]interface{}{"a": 11, "b": 20}},
		},
		Reversible: true,
	}
	ctx := context.Background()
	input := "NOTHING IS LOST IN TRANSLATION."

	encrypted, err := pipeline.Execute(ctx, []byte(input))
	if err != nil {
		t.Fatalf("forward pipeline failed: %v", err)
	}
	if string(encrypted) == input {
		t.Fatal("pipeline should change the text")
	}

	reversed, err := pipeline.Reverse()
	if err != nil {
		t.Fatalf("reverse failed: %v", err)
	}
	if reversed.Operations[0].Name != "affine_decrypt" || reversed.Operations[3].Name != "shift_decrypt" {
		t.Fatalf("unexpected reversed order: %+v", reversed.Operations)
	}

	decrypted, err := reversed.Execute(ctx, encrypted)
	if err != nil {
		t.Fatalf("reversed pipeline failed: %v", err)
	}
	if string(decrypted) != input {
		t.Fatalf("expected %q, got %q", input, string(decrypted))
	}
}

func TestPipelineErrors(t *testing.T) {
	ctx := context.Background()

	unknown := &Pipeline{Operations: []OperationConfig{{Name: "rot47"}}}
	if _, err := unknown.Execute(ctx, []byte("x")); err == nil {
		t.Fatal("expected error for unknown operation")
	}

	notReversible := &Pipeline{Operations: []OperationConfig{{Name: "atbash"}}}
	if _, err := notReversible.Reverse(); err == nil {
		t.Fatal("expected error reversing a pipeline not marked reversible")
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	p := &Pipeline{Operations: []OperationConfig{{Name: "atbash"}}}
	if _, err := p.Execute(cancelled, []byte("x")); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}
