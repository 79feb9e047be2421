package errx

import (
	"errors"
	"fmt"
)

// Kind classifies an error by the collaborator boundary it crossed.
type Kind string

const (
	// KindInference covers classification/generation/judgment/summarization
	// failures, including malformed structured output.
	KindInference Kind = "inference"
	// KindRetrieval covers knowledge search unavailability.
	KindRetrieval Kind = "retrieval"
	// KindPersistence covers ticket store and session store write failures.
	KindPersistence Kind = "persistence"
	// KindConfiguration covers missing required runtime configuration.
	KindConfiguration Kind = "configuration"
)

const (
	// SystemErrorMessage is a user-facing fallback when internal errors occur.
	SystemErrorMessage = "internal error"
	// RedisErrorMessage describes Redis related failures.
	RedisErrorMessage = "redis operation failed"
	// RedisNotFoundMessage describes a missing Redis key.
	RedisNotFoundMessage = "redis key not found"
)

// AppError wraps an underlying error with a kind and a safe message.
type AppError struct {
	Err     error
	Kind    Kind
	Message string
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
}

// Unwrap exposes the underlying error for errors.Is / errors.As support.
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError with the provided information.
func New(err error, kind Kind, message string) *AppError {
	return &AppError{
		Err:     err,
		Kind:    kind,
		Message: message,
	}
}

// Inference wraps err as an inference-boundary failure.
func Inference(err error, message string) *AppError {
	return New(err, KindInference, message)
}

// Retrieval wraps err as a knowledge-retrieval failure.
func Retrieval(err error, message string) *AppError {
	return New(err, KindRetrieval, message)
}

// Persistence wraps err as a storage failure.
func Persistence(err error, message string) *AppError {
	return New(err, KindPersistence, message)
}

// Configuration wraps err as a startup configuration failure.
func Configuration(err error, message string) *AppError {
	return New(err, KindConfiguration, message)
}

// IsKind reports whether err (or anything it wraps) carries the given kind.
func IsKind(err error, kind Kind) bool {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Kind == kind
	}
	return false
}
