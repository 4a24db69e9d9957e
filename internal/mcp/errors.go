package mcp

import (
	"errors"
	"fmt"

	"github.com/rpggio/sn-mcp/internal/auth"
	"github.com/rpggio/sn-mcp/internal/domain/entity"
	"github.com/rpggio/sn-mcp/internal/domain/listing"
	"github.com/rpggio/sn-mcp/internal/domain/sending"
	"github.com/rpggio/sn-mcp/internal/repository"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	if e.RecoveryHint == "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.RecoveryHint)
}

// MapError maps domain and upstream errors to MCP error codes.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, entity.ErrEntityNotFound):
		return &APIError{Code: "ENTITY_NOT_FOUND", Message: err.Error(), RecoveryHint: "Check the id or pass entity_type explicitly"}
	case errors.Is(err, entity.ErrNoInvite):
		return &APIError{Code: "NO_INVITE", Message: err.Error(), RecoveryHint: "Send an invite first"}
	case errors.Is(err, entity.ErrEmptyGroup):
		return &APIError{Code: "EMPTY_GROUP", Message: err.Error()}
	case errors.Is(err, sending.ErrNameRequired):
		return &APIError{Code: "INVALID_INPUT", Message: err.Error(), RecoveryHint: "Provide name"}
	case errors.Is(err, entity.ErrInvalidInput),
		errors.Is(err, listing.ErrInvalidExpiredFilter),
		errors.Is(err, listing.ErrInvalidInput),
		errors.Is(err, sending.ErrInvalidInput),
		errors.Is(err, repository.ErrInvalidInput):
		return &APIError{Code: "INVALID_INPUT", Message: err.Error()}
	case errors.Is(err, auth.ErrNoToken):
		return &APIError{Code: "UNAUTHENTICATED", Message: "no access token", RecoveryHint: "Send a bearer token in the Authorization header"}
	case errors.Is(err, repository.ErrUnauthorized):
		return &APIError{Code: "UNAUTHORIZED", Message: err.Error(), RecoveryHint: "Re-authenticate"}
	case errors.Is(err, repository.ErrNotFound):
		return &APIError{Code: "NOT_FOUND", Message: err.Error(), RecoveryHint: "Check ID spelling"}
	case errors.Is(err, repository.ErrRateLimited):
		return &APIError{Code: "RATE_LIMITED", Message: err.Error(), RecoveryHint: "Retry after a short delay"}
	case errors.Is(err, repository.ErrTimeout):
		return &APIError{Code: "UPSTREAM_TIMEOUT", Message: err.Error(), RecoveryHint: "Retry"}
	case errors.Is(err, repository.ErrUpstream):
		return &APIError{Code: "UPSTREAM_ERROR", Message: err.Error()}
	default:
		return nil
	}
}

func mapError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}
