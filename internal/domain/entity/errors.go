package entity

import (
	"errors"
	"fmt"
)

var (
	// ErrEntityNotFound indicates no lookup identified the entity.
	ErrEntityNotFound = errors.New("entity not found")
	// ErrInvalidInput indicates invalid entity input.
	ErrInvalidInput = errors.New("invalid entity input")
	// ErrNoInvite indicates the entity has no invite to act on.
	ErrNoInvite = errors.New("entity has no invite")
	// ErrEmptyGroup indicates a document group without documents.
	ErrEmptyGroup = errors.New("document group has no documents")
)

// ResolutionError reports an id that matched neither lookup.
type ResolutionError struct {
	ID    string
	Order LookupOrder
}

func (e *ResolutionError) Error() string {
	first, second := "document group", "document"
	if e.Order == DocumentFirst {
		first, second = second, first
	}
	return fmt.Sprintf("Entity with ID %s not found as either %s or %s", e.ID, first, second)
}

func (e *ResolutionError) Is(target error) bool {
	return target == ErrEntityNotFound
}
