package remote

// Either is the outcome of a completed fetch: an error payload on the left or a value on the right.
type Either[E, A any] struct {
	right bool
	left  E
	value A
}

// Left returns a failed outcome carrying e.
func Left[E, A any](e E) Either[E, A] {
	return Either[E, A]{left: e}
}

// Right returns a successful outcome carrying a.
func Right[E, A any](a A) Either[E, A] {
	return Either[E, A]{right: true, value: a}
}

// IsLeft reports whether e is a failure.
func (e Either[E, A]) IsLeft() bool {
	return !e.right
}

// IsRight reports whether e is a success.
func (e Either[E, A]) IsRight() bool {
	return e.right
}

// Unwrap returns both payloads; only the one matching the side of e is meaningful.
func (e Either[E, A]) Unwrap() (left E, right A, isRight bool) {
	return e.left, e.value, e.right
}

// FromEither converts a completed outcome into a Failure or a Success.
func FromEither[E, A any](e Either[E, A]) Data[E, A] {
	if e.right {
		return Success[E](e.value)
	}
	return Failure[E, A](e.left)
}

// FromResult converts a Go (value, error) pair into Data.
// A non-nil err yields a Failure, otherwise a Success of a.
func FromResult[A any](a A, err error) Data[error, A] {
	if err != nil {
		return Failure[error, A](err)
	}
	return Success[error](a)
}

// EitherFromResult converts a Go (value, error) pair into an Either.
func EitherFromResult[A any](a A, err error) Either[error, A] {
	if err != nil {
		return Left[error, A](err)
	}
	return Right[error](a)
}
