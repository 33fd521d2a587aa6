package transform

import (
	"fmt"
	"sort"
	"sync"

	"github.com/datalens-app/datalens/internal/dataset"
)

// ApplyFunc runs an operation against a table and returns the resulting
// table and a user-facing success message. The input table is a fresh copy
// owned by the call; implementations may mutate it.
type ApplyFunc func(t *dataset.Table, p Params) (*dataset.Table, string, error)

// Definition describes one registered operation: its parameter contract and
// its effect.
type Definition struct {
	Name    string // Operation name: "fill-mean"
	Summary string // One-line description for the trigger catalog

	// Validate checks the parameter bundle before the table is touched.
	// It returns a *ValidationError for missing or invalid parameters.
	Validate func(p Params) error

	// Apply executes the operation. It must either fully succeed or
	// return an error without committing partial results.
	Apply ApplyFunc
}

var (
	registry   = make(map[string]Definition)
	registryMu sync.RWMutex
)

// Register adds an operation to the registry.
// Panics if an operation with the same name is already registered.
func Register(def Definition) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := registry[def.Name]; exists {
		panic(fmt.Sprintf("operation already registered: %s", def.Name))
	}
	registry[def.Name] = def
}

// Get returns an operation definition by name.
// Returns false if not found.
func Get(name string) (Definition, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	def, ok := registry[name]
	return def, ok
}

// All returns all registered operations, sorted by name for consistent
// ordering.
func All() []Definition {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make([]Definition, 0, len(registry))
	for _, def := range registry {
		result = append(result, def)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})

	return result
}

// Count returns the number of registered operations.
func Count() int {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return len(registry)
}

// requireColumn returns the named column or a NotFoundError.
func requireColumn(t *dataset.Table, name string) (*dataset.Column, error) {
	col, ok := t.Column(name)
	if !ok {
		return nil, &NotFoundError{Column: name}
	}
	return col, nil
}

// requireNumeric returns the named column, which must be numeric.
func requireNumeric(t *dataset.Table, name string) (*dataset.Column, error) {
	col, err := requireColumn(t, name)
	if err != nil {
		return nil, err
	}
	if col.Type != dataset.TypeNumeric {
		return nil, &TypeError{Column: name, Message: "not numeric"}
	}
	return col, nil
}

// wrongParams reports a registry entry invoked with a parameter bundle of
// the wrong variant.
func wrongParams(op string, p Params) error {
	return &ValidationError{Message: fmt.Sprintf("operation %s: unexpected parameter type %T", op, p)}
}
