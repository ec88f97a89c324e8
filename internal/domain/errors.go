package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain operations
var (
	// ErrNotFound indicates the requested gallery or page does not exist
	ErrNotFound = errors.New("not found")

	// ErrNetwork indicates the gallery site is unreachable
	ErrNetwork = errors.New("gallery site is unreachable")

	// ErrParse indicates a response could not be parsed
	ErrParse = errors.New("unexpected response format")

	// ErrAuthFailed indicates the stored cookies were rejected
	ErrAuthFailed = errors.New("cookies are missing or invalid")

	// ErrInvalidLogName indicates a log name that would escape the log directory
	ErrInvalidLogName = errors.New("invalid log name")
)

// ErrorKind classifies an AppError
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindNetwork
	KindParse
	KindNotFound
	KindAuth
)

func (k ErrorKind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindParse:
		return "parse"
	case KindNotFound:
		return "not found"
	case KindAuth:
		return "auth"
	default:
		return "unknown"
	}
}

// AppError is the single error type carried by effect results
type AppError struct {
	Kind ErrorKind
	Err  error
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Kind.String() + " error"
	}
	return fmt.Sprintf("%s error: %v", e.Kind, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel that corresponds to the error's kind
func (e *AppError) Is(target error) bool {
	switch target {
	case ErrNetwork:
		return e.Kind == KindNetwork
	case ErrParse:
		return e.Kind == KindParse
	case ErrNotFound:
		return e.Kind == KindNotFound
	case ErrAuthFailed:
		return e.Kind == KindAuth
	}
	return false
}

// AsAppError wraps err in an AppError, classifying it by the sentinels it
// wraps. An AppError is returned as is; nil stays nil.
func AsAppError(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	kind := KindUnknown
	switch {
	case errors.Is(err, ErrNetwork):
		kind = KindNetwork
	case errors.Is(err, ErrParse):
		kind = KindParse
	case errors.Is(err, ErrNotFound):
		kind = KindNotFound
	case errors.Is(err, ErrAuthFailed):
		kind = KindAuth
	}
	return &AppError{Kind: kind, Err: err}
}
