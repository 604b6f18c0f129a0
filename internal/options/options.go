// Package options implements the functional-option plumbing shared by the
// builder, validator and JSON bridge option sets.
package options

// Option configures a target of type T. Concrete option sets in the public
// packages are thin typed aliases of this type; they are applied through
// Apply so a failing option rejects the whole construction.
type Option[T any] func(target T) error

// New creates an option from a function that may fail validation.
func New[T any](fn func(T) error) Option[T] {
	return fn
}

// NoError creates an option from a function that cannot fail.
func NoError[T any](fn func(T)) Option[T] {
	return func(target T) error {
		fn(target)
		return nil
	}
}

// Apply applies opts to target in order, stopping at the first error.
func Apply[T any](target T, opts ...Option[T]) error {
	for _, opt := range opts {
		if err := opt(target); err != nil {
			return err
		}
	}

	return nil
}
