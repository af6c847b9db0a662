// Package config resolves monocrack settings from defaults, optional YAML
// files and MONOCRACK_* environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/RowanDark/monocrack/internal/crack"
	"github.com/RowanDark/monocrack/internal/env"
	"github.com/RowanDark/monocrack/internal/lang"
	"github.com/RowanDark/monocrack/internal/score"
)

// Config captures the monocrack configuration.
type Config struct {
	Language    string     `yaml:"language"`
	CorpusDir   string     `yaml:"corpus_dir"`
	Metric      string     `yaml:"metric"`
	Restarts    int        `yaml:"restarts"`
	Iterations  int        `yaml:"iterations"`
	Frontier    int        `yaml:"frontier"`
	Workers     int        `yaml:"workers"`
	Seed        uint64     `yaml:"seed"`
	API         APIConfig  `yaml:"api"`
	GRPC        GRPCConfig `yaml:"grpc"`
	MetricsAddr string     `yaml:"metrics_addr"`
	JournalPath string     `yaml:"journal_path"`
}

// APIConfig controls the REST listener of monocrackd.
type APIConfig struct {
	Addr string `yaml:"addr"`
}

// GRPCConfig controls the gRPC listener of monocrackd.
type GRPCConfig struct {
	Addr     string `yaml:"addr"`
	MaxConns int    `yaml:"max_conns"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Language:   lang.DefaultLanguage,
		Metric:     string(score.MetricNgram),
		Restarts:   crack.DefaultRestarts,
		Iterations: crack.DefaultIterations,
		Frontier:   crack.DefaultFrontier,
		Workers:    1,
		Seed:       1,
		API:        APIConfig{Addr: "127.0.0.1:8713"},
		GRPC:       GRPCConfig{Addr: "127.0.0.1:8714", MaxConns: 64},
	}
}

// Load resolves the configuration from defaults, ~/.monocrack/config.yml,
// ./monocrack.yml and the environment. Later sources win.
func Load() (Config, error) {
	var paths []string
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".monocrack", "config.yml"))
	}
	if wd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(wd, "monocrack.yml"))
	} else {
		return Config{}, fmt.Errorf("determine working directory: %w", err)
	}
	return LoadFiles(paths...)
}

// LoadFiles applies the given files over the defaults, skipping missing ones,
// then applies the environment and validates the result.
func LoadFiles(paths ...string) (Config, error) {
	cfg := Default()
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := applyFileConfig(&cfg, data); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := applyEnvOverrides(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports settings no component could run with.
func (c Config) Validate() error {
	if _, err := score.ParseMetric(c.Metric); err != nil {
		return err
	}
	switch {
	case c.Restarts <= 0:
		return fmt.Errorf("restarts must be positive, got %d", c.Restarts)
	case c.Iterations == 0:
		return errors.New("iterations must not be zero, use a negative value to disable climbing")
	case c.Frontier <= 0:
		return fmt.Errorf("frontier must be positive, got %d", c.Frontier)
	case c.Workers <= 0:
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	case c.GRPC.MaxConns < 0:
		return fmt.Errorf("grpc.max_conns must not be negative, got %d", c.GRPC.MaxConns)
	}
	return crack.CheckBudget(c.Restarts, c.Iterations, c.Frontier, c.Workers)
}

// ApplyLanguage points the configured language at CorpusDir when one is set,
// replacing the registered model. It returns the model cracks should use.
func (c Config) ApplyLanguage() (*lang.Model, error) {
	model, ok := lang.Lookup(c.Language)
	if !ok {
		return nil, fmt.Errorf("unknown language %q", c.Language)
	}
	if c.CorpusDir == "" {
		return model, nil
	}
	info, err := os.Stat(c.CorpusDir)
	if err != nil {
		return nil, fmt.Errorf("corpus_dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("corpus_dir %s is not a directory", c.CorpusDir)
	}
	model = model.WithSource(lang.DirSource(c.CorpusDir))
	lang.Replace(model)
	return model, nil
}

// Request builds a crack request carrying the configured search settings.
func (c Config) Request(cipherName, ciphertext string) crack.Request {
	return crack.Request{
		Cipher:     cipherName,
		Ciphertext: ciphertext,
		Language:   c.Language,
		Metric:     c.Metric,
		Restarts:   c.Restarts,
		Iterations: c.Iterations,
		Frontier:   c.Frontier,
		Workers:    c.Workers,
		Seed:       crack.Seed(c.Seed),
	}
}

// fileConfig mirrors Config with pointers so a file only overrides the keys
// it sets.
type fileConfig struct {
	Language    *string         `yaml:"language"`
	CorpusDir   *string         `yaml:"corpus_dir"`
	Metric      *string         `yaml:"metric"`
	Restarts    *int            `yaml:"restarts"`
	Iterations  *int            `yaml:"iterations"`
	Frontier    *int            `yaml:"frontier"`
	Workers     *int            `yaml:"workers"`
	Seed        *uint64         `yaml:"seed"`
	API         *fileAPIConfig  `yaml:"api"`
	GRPC        *fileGRPCConfig `yaml:"grpc"`
	MetricsAddr *string         `yaml:"metrics_addr"`
	JournalPath *string         `yaml:"journal_path"`
}

type fileAPIConfig struct {
	Addr *string `yaml:"addr"`
}

type fileGRPCConfig struct {
	Addr     *string `yaml:"addr"`
	MaxConns *int    `yaml:"max_conns"`
}

func applyFileConfig(cfg *Config, data []byte) error {
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return err
	}

	setString(&cfg.Language, fc.Language)
	setString(&cfg.CorpusDir, fc.CorpusDir)
	setString(&cfg.Metric, fc.Metric)
	setInt(&cfg.Restarts, fc.Restarts)
	setInt(&cfg.Iterations, fc.Iterations)
	setInt(&cfg.Frontier, fc.Frontier)
	setInt(&cfg.Workers, fc.Workers)
	if fc.Seed != nil {
		cfg.Seed = *fc.Seed
	}
	if fc.API != nil {
		setString(&cfg.API.Addr, fc.API.Addr)
	}
	if fc.GRPC != nil {
		setString(&cfg.GRPC.Addr, fc.GRPC.Addr)
		setInt(&cfg.GRPC.MaxConns, fc.GRPC.MaxConns)
	}
	setString(&cfg.MetricsAddr, fc.MetricsAddr)
	setString(&cfg.JournalPath, fc.JournalPath)
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func applyEnvOverrides(cfg *Config) error {
	strs := []struct {
		name string
		dst  *string
		old  []string
	}{
		{"language", &cfg.Language, []string{"MONOCRACK_LANG"}},
		{"corpus_dir", &cfg.CorpusDir, nil},
		{"metric", &cfg.Metric, nil},
		{"api.addr", &cfg.API.Addr, []string{"MONOCRACK_API"}},
		{"grpc.addr", &cfg.GRPC.Addr, []string{"MONOCRACK_SERVER"}},
		{"metrics_addr", &cfg.MetricsAddr, nil},
		{"journal_path", &cfg.JournalPath, []string{"MONOCRACK_JOURNAL"}},
	}
	for _, s := range strs {
		if v, ok := env.Lookup(env.Key(s.name), s.old...); ok && strings.TrimSpace(v) != "" {
			*s.dst = strings.TrimSpace(v)
		}
	}

	ints := []struct {
		name string
		dst  *int
		old  []string
	}{
		{"restarts", &cfg.Restarts, []string{"MONOCRACK_NUM_STARTS"}},
		{"iterations", &cfg.Iterations, []string{"MONOCRACK_NUM_ITERATIONS"}},
		{"frontier", &cfg.Frontier, nil},
		{"workers", &cfg.Workers, nil},
		{"grpc.max_conns", &cfg.GRPC.MaxConns, nil},
	}
	for _, i := range ints {
		n, ok, err := env.Int(env.Key(i.name), i.old...)
		if err != nil {
			return err
		}
		if ok {
			*i.dst = n
		}
	}

	seed, ok, err := env.Uint64(env.Key("seed"))
	if err != nil {
		return err
	}
	if ok {
		cfg.Seed = seed
	}
	return nil
}
