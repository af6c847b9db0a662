package crack

import (
	"context"
	"fmt"

	"github.com/RowanDark/monocrack/internal/cipher"
)

// Operation exposes a cracker as a cipher operation so it can end a
// pipeline. The output is the recovered plaintext.
type Operation struct {
	cipher.OperationInfo
	family string
}

func (op *Operation) Execute(ctx context.Context, input []byte, params map[string]interface{}) ([]byte, error) {
	req, err := requestFromParams(op.family, string(input), params)
	if err != nil {
		return nil, err
	}
	res, err := Run(ctx, req, nil)
	if err != nil {
		return nil, err
	}
	return []byte(res.Plaintext), nil
}

func requestFromParams(family, ciphertext string, params map[string]interface{}) (Request, error) {
	req := Request{Cipher: family, Ciphertext: ciphertext}
	var err error
	if req.Language, err = stringParam(params, "language"); err != nil {
		return req, err
	}
	if req.Metric, err = stringParam(params, "metric"); err != nil {
		return req, err
	}
	ints := []struct {
		name string
		dst  *int
	}{
		{"restarts", &req.Restarts},
		{"iterations", &req.Iterations},
		{"frontier", &req.Frontier},
		{"workers", &req.Workers},
		{"ngram_order", &req.NgramOrder},
	}
	for _, p := range ints {
		if *p.dst, err = cipher.IntParam(params, p.name, 0, false); err != nil {
			return req, err
		}
	}
	seed, err := cipher.IntParam(params, "seed", 0, false)
	if err != nil {
		return req, err
	}
	if seed < 0 {
		return req, fmt.Errorf("parameter %q must not be negative", "seed")
	}
	if _, ok := params["seed"]; ok {
		req.Seed = Seed(uint64(seed))
	}
	return req, nil
}

func stringParam(params map[string]interface{}, name string) (string, error) {
	v, ok := params[name]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("parameter %q must be a string, got %T", name, v)
	}
	return s, nil
}

func init() {
	ops := []struct{ family, what string }{
		{CipherShift, "a shift cipher by trying every shift"},
		{CipherAffine, "an affine cipher by trying every key"},
		{CipherAtbash, "the Atbash cipher"},
		{CipherSubstitution, "a substitution cipher by hill climbing"},
		{CipherAuto, "a monoalphabetic cipher of the detected family"},
	}
	for _, o := range ops {
		cipher.MustRegisterOperation(&Operation{
			OperationInfo: cipher.OperationInfo{
				ID:      o.family + "_crack",
				Kind:    cipher.OperationTypeCrack,
				Summary: "Crack " + o.what,
			},
			family: o.family,
		})
	}
}
