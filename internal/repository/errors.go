package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when an entity with the same key already exists
	ErrConflict = errors.New("conflict: entity already exists")

	// ErrUnauthorized is returned when the upstream rejects the access token
	ErrUnauthorized = errors.New("unauthorized")

	// ErrRateLimited is returned when the upstream throttles the caller
	ErrRateLimited = errors.New("rate limited")

	// ErrUpstream is returned for upstream failures without a more specific kind
	ErrUpstream = errors.New("upstream error")

	// ErrTimeout is returned when an upstream call exceeds its deadline
	ErrTimeout = errors.New("upstream timeout")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")
)
