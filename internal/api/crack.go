package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/RowanDark/monocrack/internal/cipher"
	"github.com/RowanDark/monocrack/internal/crack"
	"github.com/RowanDark/monocrack/internal/lang"
	"github.com/RowanDark/monocrack/internal/score"
)

// CrackResponse is the body of a successful crack.
type CrackResponse struct {
	RunID string `json:"run_id"`
	crack.Result
	// Formatted is the plaintext laid out like the submitted ciphertext.
	Formatted string `json:"formatted"`
}

func (s *Server) handleCrack(w http.ResponseWriter, r *http.Request) {
	var req crack.Request
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Ciphertext == "" {
		http.Error(w, "ciphertext field is required", http.StatusBadRequest)
		return
	}

	res, runID, err := s.runner.Run(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, context.Canceled):
			http.Error(w, "request canceled", http.StatusRequestTimeout)
		case errors.Is(err, context.DeadlineExceeded):
			http.Error(w, "crack timed out", http.StatusGatewayTimeout)
		default:
			s.writeJSON(w, statusForError(err), map[string]string{"run_id": runID, "error": err.Error()})
		}
		return
	}

	formatted := res.Plaintext
	if m, ok := lang.Lookup(res.Language); ok {
		formatted = score.FormatSolution(req.Ciphertext, m.Alphabet().Filter(res.Plaintext), m.Alphabet())
	}
	s.writeJSON(w, http.StatusOK, CrackResponse{RunID: runID, Result: res, Formatted: formatted})
}

// statusForError maps domain errors onto HTTP status codes: bad requests are
// 400, keys that do not fit the cipher are 422 and a missing corpus is 503.
func statusForError(err error) int {
	switch {
	case errors.Is(err, crack.ErrUnknownCipher),
		errors.Is(err, crack.ErrUnknownLanguage),
		errors.Is(err, crack.ErrUnsupportedMetric),
		errors.Is(err, crack.ErrInvalidBudget),
		errors.Is(err, score.ErrUnknownMetric):
		return http.StatusBadRequest
	case errors.Is(err, lang.ErrResourceUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, cipher.ErrInvalidKey):
		return http.StatusUnprocessableEntity
	}
	return http.StatusUnprocessableEntity
}
