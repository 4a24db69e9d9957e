package listing

import "errors"

var (
	// ErrInvalidExpiredFilter indicates an unsupported expired_filter value.
	ErrInvalidExpiredFilter = errors.New("expired_filter must be one of all, expired, not-expired")
	// ErrInvalidInput indicates invalid listing input.
	ErrInvalidInput = errors.New("invalid listing input")
)
