package sources

// Outcome is the settled result of one source query: either a value or an
// unavailability reason. The orchestrator works on Outcomes so a failed
// source can never propagate an error past it.
type Outcome[T any] struct {
	value  T
	ok     bool
	reason string
}

// Ok wraps a successful fetch.
func Ok[T any](v T) Outcome[T] {
	return Outcome[T]{value: v, ok: true}
}

// Unavailable marks a source that could not be queried.
func Unavailable[T any](reason string) Outcome[T] {
	return Outcome[T]{reason: reason}
}

// Get returns the value and whether it is present.
func (o Outcome[T]) Get() (T, bool) {
	return o.value, o.ok
}

// Available reports whether the source produced a value.
func (o Outcome[T]) Available() bool {
	return o.ok
}

// Reason returns the unavailability reason, empty for successful outcomes.
func (o Outcome[T]) Reason() string {
	return o.reason
}

// Settle converts a (value, error) pair into an Outcome.
func Settle[T any](v T, err error) Outcome[T] {
	if err != nil {
		return Unavailable[T](err.Error())
	}
	return Ok(v)
}
