package domain

import "errors"

var (
	// ErrInvalidCredential covers any authentication or credential verification failure.
	ErrInvalidCredential = errors.New("invalid credential")
	// ErrNotFound means a referenced account, participant or monster is absent.
	ErrNotFound = errors.New("not found")
	// ErrPersistence wraps background save failures. It never reaches gameplay.
	ErrPersistence = errors.New("persistence failure")
	// ErrValidation marks missing or malformed input.
	ErrValidation = errors.New("validation failure")
	// ErrConflict marks a duplicate username or an already attached session.
	ErrConflict = errors.New("conflict")
)
