// Package statemachine provides a minimal state-function machine
// following Rob Pike's pattern: each state is a function that does its
// work and returns the next state function, or nil to terminate.
package statemachine

// StateFn is a state of the machine over an entity of type T.
type StateFn[T any] func(*T) StateFn[T]

// Machine drives an entity through its state functions.
type Machine[T any] struct {
	entity *T
	state  StateFn[T]
}

// New creates a machine for the given entity in the initial state.
func New[T any](entity *T, initial StateFn[T]) *Machine[T] {
	return &Machine[T]{entity: entity, state: initial}
}

// Step executes the current state once and advances to the returned
// state. It reports whether the machine can still run.
func (m *Machine[T]) Step() bool {
	if m.state == nil {
		return false
	}
	m.state = m.state(m.entity)
	return m.state != nil
}

// Run steps the machine until it terminates.
func (m *Machine[T]) Run() {
	for m.Step() {
	}
}

// Done reports whether the machine has terminated.
func (m *Machine[T]) Done() bool {
	return m.state == nil
}
