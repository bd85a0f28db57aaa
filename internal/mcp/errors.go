package mcp

import (
	"errors"
	"fmt"

	"github.com/ganot/docflow/internal/domain/activity"
	"github.com/ganot/docflow/internal/domain/document"
	"github.com/ganot/docflow/internal/domain/item"
)

var (
	// ErrUnknownMethod is returned by Handle for names that are not tools.
	ErrUnknownMethod = errors.New("unknown method")
	// ErrInvalidParams is returned by Handle when params do not decode.
	ErrInvalidParams = errors.New("invalid params")
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MapError maps domain errors to MCP error codes. It returns nil for errors
// that have no stable code.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}

	var validation *item.ValidationError
	switch {
	case errors.Is(err, document.ErrDocumentNotFound):
		return &APIError{Code: "DOCUMENT_NOT_FOUND", Message: "document not found", RecoveryHint: "Call list_documents to find the document id"}
	case errors.Is(err, item.ErrItemNotFound):
		return &APIError{Code: "ITEM_NOT_FOUND", Message: "item not found", RecoveryHint: "Call list_items for the document"}
	case errors.Is(err, item.ErrInvalidStatus):
		return &APIError{Code: "INVALID_STATUS", Message: "invalid item status", RecoveryHint: "Use pending or done"}
	case errors.Is(err, document.ErrInvalidBaseDate):
		return &APIError{Code: "INVALID_DATE", Message: err.Error(), RecoveryHint: "Use YYYY-MM-DD or DD/MM/YYYY"}
	case errors.As(err, &validation):
		return &APIError{
			Code:    "INVALID_INPUT",
			Message: err.Error(),
			Details: map[string]any{
				"index":  validation.Index,
				"field":  validation.Field,
				"reason": validation.Reason,
			},
			RecoveryHint: "Fix the item and resend the whole batch",
		}
	case errors.Is(err, item.ErrInvalidInput),
		errors.Is(err, document.ErrInvalidInput),
		errors.Is(err, activity.ErrInvalidInput):
		return &APIError{Code: "INVALID_INPUT", Message: err.Error()}
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
