package main

import (
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/RowanDark/monocrack/internal/config"
	"github.com/RowanDark/monocrack/internal/crack"
	"github.com/RowanDark/monocrack/internal/rpc"
)

func listen(t *testing.T) net.Listener {
	t.Helper()
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	return lis
}

func TestServeBootsAndShutsDown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	journal := filepath.Join(t.TempDir(), "journal.jsonl")
	cfg := config.Default()
	cfg.JournalPath = journal
	ls := listeners{api: listen(t), grpc: listen(t), metrics: listen(t)}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	errCh := make(chan error, 1)
	go func() {
		errCh <- serve(ctx, cfg, time.Minute, ls, logger)
	}()

	client, err := rpc.Dial(ls.grpc.Addr().String())
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	callCtx, callCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer callCancel()
	res, _, err := client.Crack(callCtx, crack.Request{Cipher: "shift", Ciphertext: "KHOOR"})
	if err != nil {
		t.Fatalf("Crack: %v", err)
	}
	if res.Plaintext != "HELLO" {
		t.Fatalf("plaintext = %q", res.Plaintext)
	}
	if err := client.Close(); err != nil {
		t.Fatalf("failed to close client connection: %v", err)
	}

	resp, err := http.Get("http://" + ls.api.Addr().String() + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("healthz status = %d", resp.StatusCode)
	}

	resp, err = http.Get("http://" + ls.metrics.Addr().String() + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if !strings.Contains(string(body), "monocrack_cracks_total") {
		t.Fatalf("metrics missing crack counter:\n%s", body)
	}

	cancel()
	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("serve returned error: %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("daemon did not shut down")
	}

	data, err := os.ReadFile(journal)
	if err != nil {
		t.Fatalf("read journal: %v", err)
	}
	for _, want := range []string{`"phase":"starting"`, `"event_type":"crack_completed"`, `"phase":"stopped"`} {
		if !strings.Contains(string(data), want) {
			t.Fatalf("journal missing %s:\n%s", want, data)
		}
	}
}

func TestServeRejectsUnknownLanguage(t *testing.T) {
	cfg := config.Default()
	cfg.Language = "klingon"
	err := serve(context.Background(), cfg, time.Minute, listeners{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err == nil {
		t.Fatal("expected error for unknown language")
	}
}
