package cipher

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/RowanDark/monocrack/internal/lang"
)

// mappingBuilder derives the encryption mapping for an operation from its
// parameters.
type mappingBuilder func(params map[string]interface{}, model *lang.Model) (Mapping, error)

// SubstitutionOp encrypts or decrypts with a mapping derived from its
// parameters. Every classical cipher in this package is one of these.
type SubstitutionOp struct {
	OperationInfo
	build   mappingBuilder
	decrypt bool
}

func (op *SubstitutionOp) Execute(ctx context.Context, input []byte, params map[string]interface{}) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	model, err := LanguageParam(params)
	if err != nil {
		return nil, err
	}
	m, err := op.build(params, model)
	if err != nil {
		return nil, err
	}
	text := string(input)
	if op.decrypt {
		return []byte(Decrypt(text, m)), nil
	}
	return []byte(Encrypt(text, m)), nil
}

// LanguageParam resolves the "language" parameter, defaulting to English.
func LanguageParam(params map[string]interface{}) (*lang.Model, error) {
	name := ""
	if v, ok := params["language"]; ok && v != nil {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("language parameter must be a string, got %T", v)
		}
		name = s
	}
	model, ok := lang.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("unknown language %q", name)
	}
	return model, nil
}

// IntParam reads an integer parameter. JSON numbers arrive as float64 and are
// accepted when integral; numeric strings are accepted too.
func IntParam(params map[string]interface{}, name string, def int, required bool) (int, error) {
	v, ok := params[name]
	if !ok || v == nil {
		if required {
			return 0, fmt.Errorf("missing required parameter %q", name)
		}
		return def, nil
	}
	switch val := v.(type) {
	case int:
		return val, nil
	case int32:
		return int(val), nil
	case int64:
		return int(val), nil
	case float64:
		if val != math.Trunc(val) {
			return 0, fmt.Errorf("parameter %q must be an integer, got %v", name, val)
		}
		return int(val), nil
	case json.Number:
		n, err := val.Int64()
		if err != nil {
			return 0, fmt.Errorf("parameter %q: %w", name, err)
		}
		return int(n), nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return 0, fmt.Errorf("parameter %q: %w", name, err)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("parameter %q must be an integer, got %T", name, v)
	}
}

func substitutionKey(params map[string]interface{}, model *lang.Model) (Mapping, error) {
	v, ok := params["key"]
	if !ok {
		return nil, fmt.Errorf("missing required parameter %q", "key")
	}
	key, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("key parameter must be a string, got %T", v)
	}
	return ParseKey(key, model.Alphabet())
}

func affineKey(params map[string]interface{}, model *lang.Model) (Mapping, error) {
	a, err := IntParam(params, "a", 0, true)
	if err != nil {
		return nil, err
	}
	b, err := IntParam(params, "b", 0, true)
	if err != nil {
		return nil, err
	}
	return AffineMapping(AffineKey{A: a, B: b}, model.Alphabet())
}

func shiftKey(params map[string]interface{}, model *lang.Model) (Mapping, error) {
	shift, err := IntParam(params, "shift", 3, false)
	if err != nil {
		return nil, err
	}
	return ShiftMapping(shift, model.Alphabet()), nil
}

func atbashKey(_ map[string]interface{}, model *lang.Model) (Mapping, error) {
	return AtbashMapping(model.Alphabet()), nil
}

func newSubstitutionPair(name, what string, build mappingBuilder) (*SubstitutionOp, *SubstitutionOp) {
	enc := &SubstitutionOp{
		OperationInfo: OperationInfo{
			ID:      name + "_encrypt",
			Kind:    OperationTypeEncrypt,
			Summary: "Encrypt text with " + what,
		},
		build: build,
	}
	dec := &SubstitutionOp{
		OperationInfo: OperationInfo{
			ID:      name + "_decrypt",
			Kind:    OperationTypeDecrypt,
			Summary: "Decrypt text with " + what,
		},
		build:   build,
		decrypt: true,
	}
	enc.Inverse = dec
	dec.Inverse = enc
	return enc, dec
}

func init() {
	substEnc, substDec := newSubstitutionPair("substitution", "a substitution key (images of the alphabet in order)", substitutionKey)
	affineEnc, affineDec := newSubstitutionPair("affine", "an affine key (a, b)", affineKey)
	shiftEnc, shiftDec := newSubstitutionPair("shift", "a shift (Caesar) key", shiftKey)

	atbash := &SubstitutionOp{
		OperationInfo: OperationInfo{
			ID:      "atbash",
			Kind:    OperationTypeEncrypt,
			Summary: "Apply the Atbash cipher (its own inverse)",
		},
		build: atbashKey,
	}
	atbash.Inverse = atbash

	MustRegisterOperation(substEnc, substDec, affineEnc, affineDec, shiftEnc, shiftDec, atbash)
}

// OperationName returns the registered operation that encrypts, or decrypts
// when decrypt is set, with the named cipher family.
func OperationName(family string, decrypt bool) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(family)) {
	case "atbash":
		return "atbash", true
	case "shift", "affine", "substitution":
		name := strings.ToLower(strings.TrimSpace(family))
		if decrypt {
			return name + "_decrypt", true
		}
		return name + "_encrypt", true
	}
	return "", false
}
