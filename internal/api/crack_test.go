package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/RowanDark/monocrack/internal/cipher"
	"github.com/RowanDark/monocrack/internal/crack"
	"github.com/RowanDark/monocrack/internal/lang"
)

func TestCrackShift(t *testing.T) {
	server, buf := setupTestServer(t)
	ct := cipher.Encrypt(passage, cipher.ShiftMapping(11, lang.Default().Alphabet()))
	body, _ := json.Marshal(crack.Request{Cipher: "shift", Ciphertext: strings.ToLower(ct)})

	rec := doRequest(t, server.Handler(), http.MethodPost, "/api/v1/crack", string(body))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp CrackResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Affine == nil || resp.Affine.B != 11 {
		t.Fatalf("key = %+v", resp.Affine)
	}
	if resp.Plaintext != passage {
		t.Fatalf("plaintext = %q", resp.Plaintext)
	}
	if resp.Formatted != passage {
		t.Fatalf("formatted = %q", resp.Formatted)
	}
	if resp.RunID == "" {
		t.Fatal("missing run id")
	}

	journal := buf.String()
	for _, want := range []string{`"event_type":"crack_started"`, `"event_type":"crack_completed"`, resp.RunID} {
		if !strings.Contains(journal, want) {
			t.Fatalf("journal missing %s: %s", want, journal)
		}
	}
}

func TestCrackErrorStatusCodes(t *testing.T) {
	server, buf := setupTestServer(t)
	h := server.Handler()

	tests := []struct {
		name       string
		payload    string
		wantStatus int
	}{
		{"missing ciphertext", `{"cipher": "shift"}`, http.StatusBadRequest},
		{"unknown cipher", `{"cipher": "enigma", "ciphertext": "KHOOR"}`, http.StatusBadRequest},
		{"unknown language", `{"cipher": "shift", "ciphertext": "KHOOR", "language": "klingon"}`, http.StatusBadRequest},
		{"unknown metric", `{"cipher": "shift", "ciphertext": "KHOOR", "metric": "entropy"}`, http.StatusBadRequest},
		{"invalid json", `{"cipher": `, http.StatusBadRequest},
		{"substitution with chi-squared", `{"cipher": "substitution", "ciphertext": "KHOOR", "metric": "chi-squared"}`, http.StatusBadRequest},
		{"oversized restarts", `{"cipher": "substitution", "ciphertext": "KHOOR", "restarts": 1099511627776}`, http.StatusBadRequest},
		{"oversized frontier", `{"cipher": "substitution", "ciphertext": "KHOOR", "frontier": 1099511627776}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, h, http.MethodPost, "/api/v1/crack", tt.payload)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
		})
	}
	if !strings.Contains(buf.String(), `"event_type":"crack_failed"`) {
		t.Fatalf("failures not journalled: %s", buf.String())
	}
}

func TestCrackTimeout(t *testing.T) {
	server, _ := setupTestServer(t)
	server.runner.Timeout = time.Nanosecond
	body := `{"cipher": "affine", "ciphertext": "` + passage + `"}`

	rec := doRequest(t, server.Handler(), http.MethodPost, "/api/v1/crack", body)
	if rec.Code != http.StatusGatewayTimeout {
		t.Fatalf("status = %d, want 504", rec.Code)
	}
}
