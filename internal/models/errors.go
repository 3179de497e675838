package models

import "errors"

var (
	// ErrNotFound is returned when a slug, id or type yields no row.
	ErrNotFound = errors.New("not found")

	// ErrStoreUnavailable wraps any failure of the underlying query execution.
	// Callers treat it as fatal for the current request; nothing retries.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrInvalid is returned when an entity fails field validation.
	ErrInvalid = errors.New("invalid")

	// ErrIntegrity is returned when a write would break an application-level
	// invariant the database does not enforce, such as a parent category of a
	// different type.
	ErrIntegrity = errors.New("integrity violation")
)
