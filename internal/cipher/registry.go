package cipher

import (
	"fmt"
	"sort"
	"sync"
)

var (
	operations = make(map[string]Operation)
	registryMu sync.RWMutex
)

// RegisterOperation adds an operation to the global registry. Packages that
// build on cipher (the crackers) register their own operations this way.
func RegisterOperation(op Operation) error {
	if op == nil {
		return fmt.Errorf("cannot register nil operation")
	}
	name := op.Name()
	if name == "" {
		return fmt.Errorf("operation name cannot be empty")
	}

	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := operations[name]; exists {
		return fmt.Errorf("operation %s is already registered", name)
	}
	operations[name] = op
	return nil
}

// MustRegisterOperation is RegisterOperation that panics on error. Intended
// for init functions.
func MustRegisterOperation(ops ...Operation) {
	for _, op := range ops {
		if err := RegisterOperation(op); err != nil {
			panic(err)
		}
	}
}

// GetOperation retrieves an operation by name.
func GetOperation(name string) (Operation, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	op, exists := operations[name]
	return op, exists
}

// ListOperations returns all registered operations sorted by name.
func ListOperations() []Operation {
	return listOperations(func(Operation) bool { return true })
}

// ListOperationsByType returns the operations of one category sorted by name.
func ListOperationsByType(opType OperationType) []Operation {
	return listOperations(func(op Operation) bool { return op.Type() == opType })
}

func listOperations(keep func(Operation) bool) []Operation {
	registryMu.RLock()
	defer registryMu.RUnlock()

	ops := make([]Operation, 0, len(operations))
	for _, op := range operations {
		if keep(op) {
			ops = append(ops, op)
		}
	}
	sort.Slice(ops, func(i, j int) bool {
		return ops[i].Name() < ops[j].Name()
	})
	return ops
}

// UnregisterOperation removes an operation (mainly for testing).
func UnregisterOperation(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()

	delete(operations, name)
}
