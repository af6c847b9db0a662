package lang

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// DefaultLanguage is used when callers do not name a language.
const DefaultLanguage = "english"

var (
	models     = make(map[string]*Model)
	registryMu sync.RWMutex
)

// Register adds a model to the language registry.
func Register(m *Model) error {
	if m == nil {
		return fmt.Errorf("cannot register nil language model")
	}

	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := models[m.Name()]; exists {
		return fmt.Errorf("language %s is already registered", m.Name())
	}
	models[m.Name()] = m
	return nil
}

// Replace registers m, overwriting any model of the same name. Used when the
// corpus location is reconfigured at startup.
func Replace(m *Model) {
	registryMu.Lock()
	defer registryMu.Unlock()
	models[m.Name()] = m
}

// Lookup returns the registered model for name. An empty name selects
// DefaultLanguage.
func Lookup(name string) (*Model, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = DefaultLanguage
	}

	registryMu.RLock()
	defer registryMu.RUnlock()

	m, ok := models[name]
	return m, ok
}

// MustLookup is Lookup that panics when the language is unknown.
func MustLookup(name string) *Model {
	m, ok := Lookup(name)
	if !ok {
		panic(fmt.Sprintf("language %q is not registered", name))
	}
	return m
}

// Default returns the model registered as DefaultLanguage.
func Default() *Model {
	return MustLookup(DefaultLanguage)
}

// Names lists the registered languages in sorted order.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(models))
	for name := range models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Unregister removes a language (mainly for testing).
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()

	delete(models, strings.ToLower(strings.TrimSpace(name)))
}
