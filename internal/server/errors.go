package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	eligibilitydomain "github.com/smallbiznis/returnly/internal/eligibility/domain"
	obscontext "github.com/smallbiznis/returnly/internal/observability/context"
	orderdomain "github.com/smallbiznis/returnly/internal/order/domain"
	returndomain "github.com/smallbiznis/returnly/internal/returnrequest/domain"
	settingsdomain "github.com/smallbiznis/returnly/internal/settings/domain"
)

// APIError is an error with a fixed HTTP status and machine-readable code.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func (e *APIError) Error() string { return e.Code }

var (
	ErrNotFound     = &APIError{Status: http.StatusNotFound, Code: "not_found", Message: "resource not found"}
	ErrUnauthorized = &APIError{Status: http.StatusUnauthorized, Code: "unauthorized", Message: "missing customer identity"}
	ErrRateLimited  = &APIError{Status: http.StatusTooManyRequests, Code: "rate_limited", Message: "too many requests"}
)

func invalidRequestError() *APIError {
	return &APIError{Status: http.StatusBadRequest, Code: "invalid_request", Message: "malformed request body"}
}

func newValidationError(field, code, message string) *APIError {
	return &APIError{Status: http.StatusUnprocessableEntity, Code: code, Message: message, Field: field}
}

// AbortWithError translates service errors into HTTP responses. Validation
// failures carry their categories so the storefront can highlight each
// incomplete section; internal defects return a generic message.
func AbortWithError(c *gin.Context, err error) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		c.AbortWithStatusJSON(apiErr.Status, gin.H{"error": apiErr})
		return
	}

	var validationErr *returndomain.ValidationError
	if errors.As(err, &validationErr) {
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": gin.H{
			"code":       "validation_failed",
			"categories": validationErr.Categories,
		}})
		return
	}

	switch {
	case errors.Is(err, settingsdomain.ErrNotConfigured),
		errors.Is(err, eligibilitydomain.ErrSettingsNotConfigured):
		c.AbortWithStatusJSON(http.StatusPreconditionFailed, gin.H{"error": gin.H{
			"code":    "settings_not_configured",
			"message": "return settings have not been configured",
		}})
	case errors.Is(err, settingsdomain.ErrInvalidMaxDays):
		AbortWithError(c, newValidationError("max_days", "invalid_max_days", "max days must be positive"))
	case errors.Is(err, returndomain.ErrInvalidEmail):
		AbortWithError(c, newValidationError("email", "invalid_email", "email address is not valid"))
	case errors.Is(err, returndomain.ErrInvalidIBAN):
		AbortWithError(c, newValidationError("iban", "invalid_iban", "iban failed verification"))
	case errors.Is(err, returndomain.ErrInvalidStatusTransition):
		AbortWithError(c, newValidationError("status", "invalid_status_transition", "status change is not allowed from the current status"))
	case errors.Is(err, returndomain.ErrNotFound),
		errors.Is(err, orderdomain.ErrOrderNotFound),
		errors.Is(err, eligibilitydomain.ErrProfileUnavailable):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": gin.H{
			"code":    "not_found",
			"message": "resource not found",
		}})
	case errors.Is(err, returndomain.ErrPartialWrite):
		// The header committed; give the customer a reference for support.
		c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": gin.H{
			"code":       "partial_write",
			"message":    "request was recorded but some details failed to save",
			"request_id": obscontext.RequestIDFromGin(c),
		}})
	case errors.Is(err, returndomain.ErrDraftInternal):
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": gin.H{
			"code":    "internal_error",
			"message": "something went wrong",
		}})
	default:
		_ = c.Error(err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": gin.H{
			"code":    "internal_error",
			"message": "something went wrong",
		}})
	}
}
