package domain

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/returnly/pkg/db/pagination"
)

// Service exposes return request submission and retrieval.
type Service interface {
	// Submit validates the draft and persists it. On ErrPartialWrite the
	// response still carries the committed request id.
	Submit(ctx context.Context, draft Draft) (*SubmitResponse, error)
	Get(ctx context.Context, id, email string) (*RequestDetail, error)
	List(ctx context.Context, req ListRequest) (ListResponse, error)
	// UpdateStatus applies an operator-driven lifecycle transition.
	UpdateStatus(ctx context.Context, req UpdateStatusRequest) (*ReturnRequest, error)
}

// UpdateStatusRequest moves a request through its lifecycle on behalf of an
// operator.
type UpdateStatusRequest struct {
	ID        string
	NewStatus string
	Actor     string
}

// SubmitResponse reports the persisted request.
type SubmitResponse struct {
	RequestID snowflake.ID `json:"request_id"`
	Status    string       `json:"status"`
}

// RequestDetail is a request with its product lines and status history.
type RequestDetail struct {
	Request ReturnRequest        `json:"request"`
	Items   []ReturnRequestItem  `json:"items"`
	History []StatusHistoryEntry `json:"history"`
}

// ListRequest filters a customer's submitted requests.
type ListRequest struct {
	Email     string
	PageToken string
	PageSize  int32
}

// ListResponse is one page of submitted requests.
type ListResponse struct {
	pagination.PageInfo
	Requests []ReturnRequest `json:"requests"`
}

// ValidationError carries the user-correctable failure categories.
type ValidationError struct {
	Categories []ErrorCategory
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Categories))
	for _, category := range e.Categories {
		parts = append(parts, string(category))
	}
	return "return request validation failed: " + strings.Join(parts, ", ")
}

var (
	// ErrDraftInternal flags a draft missing its address type, an upstream
	// integration defect rather than a user error.
	ErrDraftInternal = errors.New("draft_missing_address_type")
	// ErrPartialWrite flags a committed request header with failed
	// product-line or history writes. No rollback is attempted.
	ErrPartialWrite = errors.New("return_request_partial_write")
	ErrInvalidEmail = errors.New("invalid_email")
	ErrInvalidIBAN  = errors.New("invalid_iban")
	ErrNotFound     = errors.New("return_request_not_found")
	// ErrInvalidStatusTransition rejects a lifecycle move the current status
	// does not allow.
	ErrInvalidStatusTransition = errors.New("invalid_status_transition")
)
