// Package cipher implements the classical monoalphabetic ciphers as
// substitutions over a language alphabet, and exposes them as named,
// reversible operations.
package cipher

import (
	"context"
	"errors"
	"fmt"
)

// OperationType defines the category of an operation.
type OperationType string

const (
	OperationTypeEncrypt OperationType = "encrypt"
	OperationTypeDecrypt OperationType = "decrypt"
	OperationTypeCrack   OperationType = "crack"
)

// Operation is a single transformation that can be applied to text.
type Operation interface {
	// Name is the registry key, e.g. "shift_encrypt".
	Name() string
	Type() OperationType
	Description() string
	// Execute applies the operation to input. Keys and the language come in
	// params.
	Execute(ctx context.Context, input []byte, params map[string]interface{}) ([]byte, error)
	// Reverse returns the operation undoing this one, if there is one.
	Reverse() (Operation, bool)
}

// OperationConfig represents configuration for an operation in a pipeline.
type OperationConfig struct {
	Name       string                 `json:"name"`
	Parameters map[string]interface{} `json:"parameters,omitempty"`
}

// Pipeline is a chain of operations applied in order, e.g. a shift followed
// by an Atbash.
type Pipeline struct {
	Operations []OperationConfig `json:"operations"`
	Reversible bool              `json:"reversible"`
}

// Execute feeds input through every step in order. ctx is checked before
// each step.
func (p *Pipeline) Execute(ctx context.Context, input []byte) ([]byte, error) {
	text := input
	for step, cfg := range p.Operations {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		op, ok := GetOperation(cfg.Name)
		if !ok {
			return nil, fmt.Errorf("step %d: unknown operation %q", step, cfg.Name)
		}
		out, err := op.Execute(ctx, text, cfg.Parameters)
		if err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", step, cfg.Name, err)
		}
		text = out
	}
	return text, nil
}

// Reverse builds the pipeline that undoes p. Every step keeps its parameters
// because decryption takes the encryption key.
func (p *Pipeline) Reverse() (*Pipeline, error) {
	if !p.Reversible {
		return nil, errors.New("pipeline is not marked reversible")
	}
	n := len(p.Operations)
	steps := make([]OperationConfig, n)
	for i, cfg := range p.Operations {
		op, ok := GetOperation(cfg.Name)
		if !ok {
			return nil, fmt.Errorf("unknown operation %q", cfg.Name)
		}
		inverse, ok := op.Reverse()
		if !ok {
			return nil, fmt.Errorf("operation %s has no inverse", cfg.Name)
		}
		steps[n-1-i] = OperationConfig{Name: inverse.Name(), Parameters: cfg.Parameters}
	}
	return &Pipeline{Operations: steps, Reversible: true}, nil
}

// DetectionResult is one hypothesis about how a ciphertext was produced.
type DetectionResult struct {
	Cipher     string                 `json:"cipher"`
	Confidence float64                `json:"confidence"` // 0.0 to 1.0
	Reasoning  string                 `json:"reasoning"`
	Operation  string                 `json:"operation,omitempty"` // Suggested operation to recover the plaintext
	Parameters map[string]interface{} `json:"parameters,omitempty"`
}

// Detector identifies the cipher family of a ciphertext.
type Detector interface {
	// Detect ranks the cipher families that could have produced input.
	Detect(ctx context.Context, input []byte) ([]DetectionResult, error)
	// SupportedCiphers lists the families the detector can recognise.
	SupportedCiphers() []string
}

// OperationInfo carries the identity of a registered operation. Operations
// embed it and supply only Execute.
type OperationInfo struct {
	ID      string
	Kind    OperationType
	Summary string
	// Inverse undoes the operation. Nil marks a one-way operation such as a
	// crack.
	Inverse Operation
}

func (o *OperationInfo) Name() string        { return o.ID }
func (o *OperationInfo) Type() OperationType { return o.Kind }
func (o *OperationInfo) Description() string { return o.Summary }

func (o *OperationInfo) Reverse() (Operation, bool) {
	return o.Inverse, o.Inverse != nil
}
