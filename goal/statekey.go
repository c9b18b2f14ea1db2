package goal

import (
	"fmt"

	"github.com/vrp-solver/vrp-solver/solution"
)

// ViolationCode identifies which constraint rejected a move, used both for
// unassignment diagnostics and for features that special-case specific failures
// (e.g. capacity overflow vs. time-window miss).
type ViolationCode int

// StateKeyRegistry issues process-wide-unique solution.StateKey tokens to features
// at problem-build time. Duplicate registration under the same name is a
// configuration error, caught before the solver ever runs.
type StateKeyRegistry struct {
	next  solution.StateKey
	names map[string]solution.StateKey
}

// NewStateKeyRegistry returns an empty registry.
func NewStateKeyRegistry() *StateKeyRegistry {
	return &StateKeyRegistry{next: 1, names: make(map[string]solution.StateKey)}
}

// Register issues a new StateKey for name, or panics if name was already
// registered — two features racing for the same named slot is a build-time bug,
// not a runtime condition to recover from.
func (r *StateKeyRegistry) Register(name string) solution.StateKey {
	if _, exists := r.names[name]; exists {
		panic(fmt.Sprintf("goal: state key %q already registered", name))
	}
	key := r.next
	r.next++
	r.names[name] = key
	return key
}

// Lookup returns the key registered for name, if any.
func (r *StateKeyRegistry) Lookup(name string) (solution.StateKey, bool) {
	k, ok := r.names[name]
	return k, ok
}
