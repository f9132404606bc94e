// Package remote provides Data, a value that is fetched from a remote source
// and is either not yet requested, in flight, failed or succeeded.
package remote

import "fmt"

// Kind discriminates the four cases of Data.
type Kind uint8

const (
	// KindInitial means nothing has been requested yet. It is the zero Kind.
	KindInitial Kind = iota
	// KindPending means a request is in flight.
	KindPending
	// KindFailure means the request failed with an error.
	KindFailure
	// KindSuccess means the request succeeded with a value.
	KindSuccess
)

func (k Kind) String() string {
	switch k {
	case KindInitial:
		return "Initial"
	case KindPending:
		return "Pending"
	case KindFailure:
		return "Failure"
	case KindSuccess:
		return "Success"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Data is the result of a remote fetch.
//
// The zero value is Initial. Data is immutable; use the constructors to build a new one.
type Data[E, A any] struct {
	kind  Kind
	err   E
	value A
}

// Initial returns Data that has not been requested.
func Initial[E, A any]() Data[E, A] {
	return Data[E, A]{kind: KindInitial}
}

// Pending returns Data for a request that is in flight.
func Pending[E, A any]() Data[E, A] {
	return Data[E, A]{kind: KindPending}
}

// Failure returns Data for a request that failed with e.
func Failure[E, A any](e E) Data[E, A] {
	return Data[E, A]{kind: KindFailure, err: e}
}

// Success returns Data for a request that succeeded with a.
func Success[E, A any](a A) Data[E, A] {
	return Data[E, A]{kind: KindSuccess, value: a}
}

// Kind returns which of the four cases d is.
func (d Data[E, A]) Kind() Kind {
	return d.kind
}

// IsInitial reports whether nothing has been requested yet.
func (d Data[E, A]) IsInitial() bool {
	return d.kind == KindInitial
}

// IsPending reports whether d is a request in flight.
func (d Data[E, A]) IsPending() bool {
	return d.kind == KindPending
}

// IsFailure reports whether d is a Failure.
func (d Data[E, A]) IsFailure() bool {
	return d.kind == KindFailure
}

// IsSuccess reports whether d is a Success.
func (d Data[E, A]) IsSuccess() bool {
	return d.kind == KindSuccess
}

// Error returns the failure payload, and whether d is a Failure.
func (d Data[E, A]) Error() (e E, ok bool) {
	return d.err, d.kind == KindFailure
}

// Value returns the success payload, and whether d is a Success.
func (d Data[E, A]) Value() (a A, ok bool) {
	return d.value, d.kind == KindSuccess
}

func (d Data[E, A]) String() string {
	switch d.kind {
	case KindFailure:
		return fmt.Sprintf("Failure(%#v)", d.err)
	case KindSuccess:
		return fmt.Sprintf("Success(%#v)", d.value)
	default:
		return d.kind.String()
	}
}

// Fold calls exactly one of the handlers, depending on the case of d, and returns its result.
//
// Fold panics if d holds a Kind outside the four known cases, which can only happen through unsafe code.
func Fold[E, A, B any](
	d Data[E, A],
	onInitial func() B,
	onPending func() B,
	onFailure func(e E) B,
	onSuccess func(a A) B,
) B {
	switch d.kind {
	case KindInitial:
		return onInitial()
	case KindPending:
		return onPending()
	case KindFailure:
		return onFailure(d.err)
	case KindSuccess:
		return onSuccess(d.value)
	}
	panic(fmt.Sprintf("remote: unknown kind %v", d.kind))
}
