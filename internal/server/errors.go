package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	billingcore "github.com/praxisjuris/praxis/internal/billing"
	clientdomain "github.com/praxisjuris/praxis/internal/client/domain"
	contractdomain "github.com/praxisjuris/praxis/internal/contract/domain"
	"github.com/praxisjuris/praxis/internal/currency"
	invoicedomain "github.com/praxisjuris/praxis/internal/invoice/domain"
	lawyerdomain "github.com/praxisjuris/praxis/internal/lawyer/domain"
	reportsdomain "github.com/praxisjuris/praxis/internal/reports/domain"
	taskdomain "github.com/praxisjuris/praxis/internal/task/domain"
	tedomain "github.com/praxisjuris/praxis/internal/timeentry/domain"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{Field: field, Code: code, Message: message},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	switch {
	case isValidationError(err):
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: err.Error(),
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case isConflictError(err):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: err.Error(),
		}
	case errors.Is(err, invoicedomain.ErrExternalService):
		return http.StatusServiceUnavailable, errorPayload{
			Type:    "service_unavailable",
			Message: "service unavailable",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, tedomain.ErrInvalidInterval),
		errors.Is(err, tedomain.ErrInvalidDuration),
		errors.Is(err, tedomain.ErrInvalidID),
		errors.Is(err, tedomain.ErrInvalidTask),
		errors.Is(err, tedomain.ErrInvalidLawyer),
		errors.Is(err, taskdomain.ErrUnknownBillingModel),
		errors.Is(err, taskdomain.ErrInvalidID),
		errors.Is(err, taskdomain.ErrInvalidClient),
		errors.Is(err, taskdomain.ErrInvalidTitle),
		errors.Is(err, taskdomain.ErrInvalidLimit),
		errors.Is(err, lawyerdomain.ErrInvalidID),
		errors.Is(err, lawyerdomain.ErrInvalidName),
		errors.Is(err, lawyerdomain.ErrInvalidRate),
		errors.Is(err, clientdomain.ErrInvalidID),
		errors.Is(err, clientdomain.ErrInvalidName),
		errors.Is(err, contractdomain.ErrInvalidID),
		errors.Is(err, contractdomain.ErrInvalidValue),
		errors.Is(err, invoicedomain.ErrInvalidID),
		errors.Is(err, invoicedomain.ErrInvalidPeriod),
		errors.Is(err, reportsdomain.ErrInvalidPeriod),
		errors.Is(err, currency.ErrMissingExchangeRate),
		errors.Is(err, currency.ErrInvalidAmount),
		errors.Is(err, billingcore.ErrInvalidPercentage),
		errors.Is(err, billingcore.ErrNoReferenceTotal),
		errors.Is(err, billingcore.ErrMissingRate),
		errors.Is(err, billingcore.ErrNegativeLimit):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, lawyerdomain.ErrNotFound),
		errors.Is(err, clientdomain.ErrNotFound),
		errors.Is(err, taskdomain.ErrNotFound),
		errors.Is(err, tedomain.ErrNotFound),
		errors.Is(err, contractdomain.ErrNotFound),
		errors.Is(err, invoicedomain.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func isConflictError(err error) bool {
	switch {
	case errors.Is(err, tedomain.ErrEntryBilled),
		errors.Is(err, clientdomain.ErrAlreadyExists),
		errors.Is(err, contractdomain.ErrOverBilled),
		errors.Is(err, contractdomain.ErrInactive),
		errors.Is(err, invoicedomain.ErrLocked),
		errors.Is(err, invoicedomain.ErrTaskInactive),
		errors.Is(err, invoicedomain.ErrNothingToBill):
		return true
	default:
		return false
	}
}
