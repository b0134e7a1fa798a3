// Package valid is an error-accumulating validation result type.
//
// Valid[T] holds either a value or one or more structured failure causes.
// Map and AndThen sequence dependent computations and short-circuit on the
// first failure; Zip and FromIter combine independent computations and keep
// every failure from every side, so a single pass over a schema can report
// all of its defects at once.
package valid

import (
	"fmt"
	"strings"
)

// Cause is a single structured failure with the context trace that produced it.
type Cause struct {
	Message     string   `json:"message"`
	Trace       []string `json:"trace,omitempty"`
	Description string   `json:"description,omitempty"`
}

func (c *Cause) String() string {
	var b strings.Builder
	if len(c.Trace) > 0 {
		b.WriteString("[" + strings.Join(c.Trace, ", ") + "] ")
	}
	b.WriteString(c.Message)
	if c.Description != "" {
		b.WriteString(": " + c.Description)
	}
	return b.String()
}

// Error is a non-empty ordered list of causes.
type Error []*Cause

func (e Error) Error() string {
	msg := "validation failed:\n"
	for _, c := range e {
		msg += "- " + c.String() + "\n"
	}
	return msg
}

// Valid holds either a value of type T or the causes that prevented one.
type Valid[T any] struct {
	value T
	errs  []*Cause
}

func Succeed[T any](v T) Valid[T] {
	return Valid[T]{value: v}
}

func Fail[T any](msg string) Valid[T] {
	return Valid[T]{errs: []*Cause{{Message: msg}}}
}

func Failf[T any](format string, args ...any) Valid[T] {
	return Fail[T](fmt.Sprintf(format, args...))
}

// FailWith attaches a human-readable description to the failure.
func FailWith[T any](msg, description string) Valid[T] {
	return Valid[T]{errs: []*Cause{{Message: msg, Description: description}}}
}

// FromErrors wraps already-collected causes. The slice must be non-empty.
func FromErrors[T any](errs []*Cause) Valid[T] {
	if len(errs) == 0 {
		panic("valid: FromErrors with no causes")
	}
	return Valid[T]{errs: errs}
}

// FromOption lifts a lookup result, failing with msg when ok is false.
func FromOption[T any](v T, ok bool, msg string) Valid[T] {
	if !ok {
		return Fail[T](msg)
	}
	return Succeed(v)
}

func (v Valid[T]) IsFail() bool { return len(v.errs) > 0 }

// Errors returns the accumulated causes, nil on success.
func (v Valid[T]) Errors() []*Cause { return v.errs }

// Value returns the held value. Only meaningful when IsFail is false.
func (v Valid[T]) Value() T { return v.value }

// ToResult converts to Go's two-value convention.
func (v Valid[T]) ToResult() (T, error) {
	if v.IsFail() {
		var zero T
		return zero, Error(v.errs)
	}
	return v.value, nil
}

// Trace prepends label to every cause's trace. Successes pass through.
func (v Valid[T]) Trace(label string) Valid[T] {
	if !v.IsFail() {
		return v
	}
	errs := make([]*Cause, len(v.errs))
	for i, c := range v.errs {
		trace := make([]string, 0, len(c.Trace)+1)
		trace = append(trace, label)
		trace = append(trace, c.Trace...)
		errs[i] = &Cause{Message: c.Message, Trace: trace, Description: c.Description}
	}
	return Valid[T]{errs: errs}
}

// Map transforms the value of a successful result. Failures pass through.
func Map[A, B any](v Valid[A], f func(A) B) Valid[B] {
	if v.IsFail() {
		return Valid[B]{errs: v.errs}
	}
	return Succeed(f(v.value))
}

// AndThen sequences a dependent computation, short-circuiting on failure.
func AndThen[A, B any](v Valid[A], f func(A) Valid[B]) Valid[B] {
	if v.IsFail() {
		return Valid[B]{errs: v.errs}
	}
	return f(v.value)
}

// Zip combines two independent results. Unlike AndThen, failures from both
// sides are concatenated so neither hides the other.
func Zip[A, B, C any](a Valid[A], b Valid[B], f func(A, B) C) Valid[C] {
	if a.IsFail() || b.IsFail() {
		return Valid[C]{errs: append(append([]*Cause(nil), a.errs...), b.errs...)}
	}
	return Succeed(f(a.value, b.value))
}

// Zip3 combines three independent results applicatively.
func Zip3[A, B, C, D any](a Valid[A], b Valid[B], c Valid[C], f func(A, B, C) D) Valid[D] {
	return Zip(Zip(a, b, func(av A, bv B) func(C) D {
		return func(cv C) D { return f(av, bv, cv) }
	}), c, func(g func(C) D, cv C) D { return g(cv) })
}

// FromIter maps f over items, collecting either every result or every
// failure. Failure order follows item order.
func FromIter[A, B any](items []A, f func(A) Valid[B]) Valid[[]B] {
	out := make([]B, 0, len(items))
	var errs []*Cause
	for _, item := range items {
		r := f(item)
		if r.IsFail() {
			errs = append(errs, r.errs...)
			continue
		}
		out = append(out, r.value)
	}
	if len(errs) > 0 {
		return Valid[[]B]{errs: errs}
	}
	return Succeed(out)
}
