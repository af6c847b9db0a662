package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/RowanDark/monocrack/internal/crack"
	"github.com/RowanDark/monocrack/internal/lang"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLoadPrecedence(t *testing.T) {
	tempDir := t.TempDir()

	homeDir := filepath.Join(tempDir, "home")
	t.Setenv("HOME", homeDir)
	writeFile(t, filepath.Join(homeDir, ".monocrack", "config.yml"), `
restarts: 50
iterations: 1000
metric: chi-squared
grpc:
  addr: 0.0.0.0:1111
  max_conns: 8
`)

	workDir := filepath.Join(tempDir, "work")
	writeFile(t, filepath.Join(workDir, "monocrack.yml"), `
iterations: 2000
api:
  addr: 127.0.0.1:6500
grpc:
  addr: 127.0.0.1:6501
`)

	t.Setenv("MONOCRACK_WORKERS", "4")
	t.Setenv("MONOCRACK_METRIC", "ngram")
	t.Chdir(workDir)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	want := Default()
	want.Restarts = 50
	want.Iterations = 2000
	want.Metric = "ngram"
	want.Workers = 4
	want.API.Addr = "127.0.0.1:6500"
	want.GRPC = GRPCConfig{Addr: "127.0.0.1:6501", MaxConns: 8}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("unexpected config (-want +got):\n%s", diff)
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", filepath.Join(t.TempDir(), "home"))
	t.Chdir(t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("expected defaults, got %#v", cfg)
	}
}

func TestLegacyEnvironment(t *testing.T) {
	t.Setenv("MONOCRACK_NUM_STARTS", "7")
	t.Setenv("MONOCRACK_SEED", "99")

	cfg, err := LoadFiles()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Restarts != 7 || cfg.Seed != 99 {
		t.Fatalf("unexpected config %#v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yml")
	writeFile(t, bad, "restarts: [1, 2")
	if _, err := LoadFiles(bad); err == nil {
		t.Fatal("expected parse error")
	}

	invalid := filepath.Join(dir, "invalid.yml")
	writeFile(t, invalid, "workers: 0")
	if _, err := LoadFiles(invalid); err == nil {
		t.Fatal("expected validation error for zero workers")
	}

	t.Setenv("MONOCRACK_FRONTIER", "wide")
	if _, err := LoadFiles(); err == nil {
		t.Fatal("expected error for non-numeric environment value")
	}
}

func TestValidateSearchSettings(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"climbing disabled", func(c *Config) { c.Iterations = -1 }, false},
		{"zero iterations", func(c *Config) { c.Iterations = 0 }, true},
		{"restarts above cap", func(c *Config) { c.Restarts = crack.MaxRestarts + 1 }, true},
		{"frontier above cap", func(c *Config) { c.Frontier = crack.MaxFrontier + 1 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Fatalf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateMetric(t *testing.T) {
	cfg := Default()
	cfg.Metric = "entropy"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown metric")
	}
}

func TestApplyLanguage(t *testing.T) {
	cfg := Default()
	model, err := cfg.ApplyLanguage()
	if err != nil || model.Name() != lang.DefaultLanguage {
		t.Fatalf("ApplyLanguage = %v, %v", model, err)
	}

	cfg.Language = "klingon"
	if _, err := cfg.ApplyLanguage(); err == nil {
		t.Fatal("expected error for unknown language")
	}

	test := lang.MustModel(lang.Spec{Name: "configtest", Alphabet: "AB", Ngrams: map[int]string{2: "ab.txt"}})
	if err := lang.Register(test); err != nil {
		t.Fatalf("Register: %v", err)
	}
	defer lang.Unregister("configtest")

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "ab.txt"), "AB 3\nBA 1\n")
	cfg = Default()
	cfg.Language = "configtest"
	cfg.CorpusDir = dir
	model, err = cfg.ApplyLanguage()
	if err != nil {
		t.Fatalf("ApplyLanguage: %v", err)
	}
	table, err := model.Ngrams(2)
	if err != nil {
		t.Fatalf("Ngrams: %v", err)
	}
	if p, _ := table.Prob("AB"); p != 0.75 {
		t.Fatalf("expected P(AB) = 0.75, got %v", p)
	}
	if registered, _ := lang.Lookup("configtest"); registered != model {
		t.Fatal("configured model should replace the registered one")
	}

	cfg.CorpusDir = filepath.Join(dir, "missing")
	if _, err := cfg.ApplyLanguage(); err == nil {
		t.Fatal("expected error for missing corpus dir")
	}
}

func TestRequest(t *testing.T) {
	cfg := Default()
	cfg.Seed = 5
	req := cfg.Request("shift", "KHOOR")
	if req.Cipher != "shift" || req.Ciphertext != "KHOOR" || req.SeedValue() != 5 || req.Restarts != cfg.Restarts {
		t.Fatalf("unexpected request %+v", req)
	}
}
