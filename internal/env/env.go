// Package env reads MONOCRACK_* settings from the environment, accepting the
// legacy names of renamed variables with a one-time deprecation warning.
package env

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"
)

// Prefix is prepended to every variable name.
const Prefix = "MONOCRACK_"

var (
	warnLogger func(msg string, args ...any) = slog.Warn
	warnMu     sync.Mutex
	warnedKeys sync.Map
)

// Key returns the variable name for a setting, e.g. Key("restarts") is
// MONOCRACK_RESTARTS.
func Key(name string) string {
	return Prefix + strings.ToUpper(strings.NewReplacer(".", "_", "-", "_").Replace(name))
}

// Lookup returns the value of newKey if it exists. Otherwise the first legacy
// key present is returned and a deprecation warning is logged once per key.
func Lookup(newKey string, oldKeys ...string) (string, bool) {
	if v, ok := os.LookupEnv(newKey); ok {
		return v, true
	}
	for _, oldKey := range oldKeys {
		if v, ok := os.LookupEnv(oldKey); ok {
			logDeprecated(oldKey, newKey)
			return v, true
		}
	}
	return "", false
}

// Int is Lookup parsed as a decimal integer.
func Int(newKey string, oldKeys ...string) (int, bool, error) {
	v, ok := Lookup(newKey, oldKeys...)
	if !ok {
		return 0, false, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, true, fmt.Errorf("%s: %w", newKey, err)
	}
	return n, true, nil
}

// Uint64 is Lookup parsed as an unsigned integer.
func Uint64(newKey string, oldKeys ...string) (uint64, bool, error) {
	v, ok := Lookup(newKey, oldKeys...)
	if !ok {
		return 0, false, nil
	}
	n, err := strconv.ParseUint(strings.TrimSpace(v), 10, 64)
	if err != nil {
		return 0, true, fmt.Errorf("%s: %w", newKey, err)
	}
	return n, true, nil
}

func logDeprecated(oldKey, newKey string) {
	onceIface, _ := warnedKeys.LoadOrStore(oldKey, &sync.Once{})
	once := onceIface.(*sync.Once)
	once.Do(func() {
		warnMu.Lock()
		logger := warnLogger
		warnMu.Unlock()
		logger("deprecated environment variable", "name", oldKey, "use", newKey)
	})
}

// ResetWarningsForTesting clears the cached once guards so tests can verify
// warning behaviour deterministically.
func ResetWarningsForTesting() {
	warnMu.Lock()
	warnedKeys = sync.Map{}
	warnMu.Unlock()
}

// SetWarnLoggerForTesting swaps the logger used for warnings. The returned
// function restores the previous logger and should be deferred in tests.
func SetWarnLoggerForTesting(fn func(msg string, args ...any)) (restore func()) {
	warnMu.Lock()
	previous := warnLogger
	warnLogger = fn
	warnMu.Unlock()
	return func() {
		warnMu.Lock()
		warnLogger = previous
		warnMu.Unlock()
	}
}
