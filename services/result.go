package services

// Result encapsulates the outcome of the bike tracker services in a
// consistent pattern: either a value or a map of field errors, so partial
// validation failures reach the caller without corrupting state.
type Result[T any] struct {
	Value  T
	Errors map[string]string
}

// Success wraps a value in a successful result.
func Success[T any](value T) Result[T] {
	return Result[T]{Value: value}
}

// Failure wraps an error map in a failed result.
func Failure[T any](errs map[string]string) Result[T] {
	return Result[T]{Errors: errs}
}

// Failed reports whether the result carries errors.
func (r Result[T]) Failed() bool {
	return len(r.Errors) > 0
}
