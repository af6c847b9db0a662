package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/RowanDark/monocrack/internal/config"
	"github.com/RowanDark/monocrack/internal/lang"
)

// readInput returns the positional arguments joined by spaces, the contents
// of path when one is given, or standard input otherwise.
func readInput(args []string, path string) (string, error) {
	if path != "" {
		if len(args) > 0 {
			return "", errors.New("pass either text arguments or -in, not both")
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}
		return strings.TrimRight(string(data), "\r\n"), nil
	}
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}

// loadConfig resolves the configuration and points the configured language
// at its corpus directory.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	if _, err := cfg.ApplyLanguage(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// lookupLanguage resolves name, falling back to the configured language.
func lookupLanguage(name, fallback string) (*lang.Model, error) {
	if name == "" {
		name = fallback
	}
	model, ok := lang.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("unknown language %q (known: %s)", name, strings.Join(lang.Names(), ", "))
	}
	return model, nil
}
