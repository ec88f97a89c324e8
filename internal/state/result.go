package state

import "github.com/mmcdole/panda/internal/domain"

// Result is the outcome of an effect: either a value or an error
type Result[T any] struct {
	Value T
	Err   *domain.AppError
}

// Success wraps a value
func Success[T any](v T) Result[T] {
	return Result[T]{Value: v}
}

// Failure wraps an error, classifying it as an AppError
func Failure[T any](err error) Result[T] {
	if err == nil {
		return Result[T]{Err: &domain.AppError{Kind: domain.KindUnknown}}
	}
	return Result[T]{Err: domain.AsAppError(err)}
}

// Ok reports whether the result holds a value
func (r Result[T]) Ok() bool {
	return r.Err == nil
}

// Get returns the value and the error as a plain error
func (r Result[T]) Get() (T, error) {
	if r.Err != nil {
		return r.Value, r.Err
	}
	return r.Value, nil
}
