// Package options implements the generic functional-option plumbing shared
// by the series container constructors and the blob encoder.
//
// A constructor declares its option type as an alias of Option[*X], exposes
// WithXxx helpers built from New or NoError, and applies the caller's
// options with Apply. Validation lives inside the option: an option built
// with New can reject its argument, and Apply surfaces the first failure.
package options

// Option configures a value of type T. Constructors take a variadic list
// of these and run them through Apply.
type Option[T any] interface {
	apply(T) error
}

// Func wraps a configuration function as an Option.
type Func[T any] struct {
	applyFunc func(T) error
}

func (f *Func[T]) apply(target T) error {
	return f.applyFunc(target)
}

// New creates an option from a function that may reject its target, for
// settings that need validation (units, ranges, enum values).
func New[T any](fn func(T) error) *Func[T] {
	return &Func[T]{applyFunc: fn}
}

// Apply runs the options against target in order and returns the first
// error. Options after a failing one are not applied.
func Apply[T any](target T, opts ...Option[T]) error {
	for _, opt := range opts {
		if err := opt.apply(target); err != nil {
			return err
		}
	}

	return nil
}

// NoError creates an option from a plain setter that cannot fail.
func NoError[T any](fn func(T)) *Func[T] {
	return &Func[T]{
		applyFunc: func(target T) error {
			fn(target)
			return nil
		},
	}
}
