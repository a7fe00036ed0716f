package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Reason classifies a failure independently of its HTTP status so callers can
// branch on it (the UI shows a different message per reason).
type Reason string

const (
	ReasonNotFound              Reason = "not_found"
	ReasonAmbiguous             Reason = "ambiguous"
	ReasonInsufficientStock     Reason = "insufficient_stock"
	ReasonInsufficientPayment   Reason = "insufficient_payment"
	ReasonSubmissionFailed      Reason = "submission_failed"
	ReasonSubmissionInProgress  Reason = "submission_in_progress"
	// the backend answered but the outcome of the sale is unknown
	ReasonSubmissionUnconfirmed Reason = "submission_unconfirmed"
	ReasonEmptyCart             Reason = "empty_cart"
)

// AppError represents an application error with HTTP status code
type AppError struct {
	Code    int            `json:"code"`
	Message string         `json:"message"`
	Reason  Reason         `json:"reason,omitempty"`
	Details map[string]any `json:"details,omitempty"`
	Errors  []FieldError   `json:"errors,omitempty"`
	cause   error
}

// FieldError represents a validation error for a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.cause
}

// Is matches on reason when both errors carry one, so errors.Is(err, ErrAmbiguous) works
// for constructed errors too.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	if e.Reason != "" && t.Reason != "" {
		return e.Reason == t.Reason
	}
	return e == t
}

// Common errors
var (
	ErrNotFound          = &AppError{Code: http.StatusNotFound, Message: "Resource not found", Reason: ReasonNotFound}
	ErrUnauthorized      = &AppError{Code: http.StatusUnauthorized, Message: "Unauthorized"}
	ErrForbidden         = &AppError{Code: http.StatusForbidden, Message: "Forbidden"}
	ErrBadRequest        = &AppError{Code: http.StatusBadRequest, Message: "Bad request"}
	ErrInternalServer    = &AppError{Code: http.StatusInternalServerError, Message: "Internal server error"}
	ErrConflict          = &AppError{Code: http.StatusConflict, Message: "Resource already exists"}
	ErrUnprocessable     = &AppError{Code: http.StatusUnprocessableEntity, Message: "Unprocessable entity"}
	ErrInvalidToken      = &AppError{Code: http.StatusUnauthorized, Message: "Invalid token"}
	ErrAmbiguous         = &AppError{Code: http.StatusConflict, Message: "Search matches more than one product", Reason: ReasonAmbiguous}
	ErrInsufficientStock = &AppError{Code: http.StatusConflict, Message: "Insufficient stock", Reason: ReasonInsufficientStock}
	ErrInsufficientPay   = &AppError{Code: http.StatusUnprocessableEntity, Message: "Insufficient payment", Reason: ReasonInsufficientPayment}
	ErrSubmissionFailed  = &AppError{Code: http.StatusBadGateway, Message: "Sale could not be registered", Reason: ReasonSubmissionFailed}
	ErrUnconfirmed       = &AppError{Code: http.StatusBadGateway, Message: "Sale outcome unknown", Reason: ReasonSubmissionUnconfirmed}
	ErrInProgress        = &AppError{Code: http.StatusConflict, Message: "A submission for this ticket is already in progress", Reason: ReasonSubmissionInProgress}
	ErrEmptyCart         = &AppError{Code: http.StatusBadRequest, Message: "Ticket is empty", Reason: ReasonEmptyCart}
)

// NewAppError creates a new application error
func NewAppError(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(fieldErrors []FieldError) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Message: "Validation failed",
		Errors:  fieldErrors,
	}
}

// NewNotFoundError creates a not found error with a custom message
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Code:    http.StatusNotFound,
		Message: resource + " not found",
		Reason:  ReasonNotFound,
	}
}

// NewAmbiguousError reports a lookup token that matched several products.
func NewAmbiguousError(token string, matches int) *AppError {
	return &AppError{
		Code:    http.StatusConflict,
		Message: fmt.Sprintf("%d products match %q, refine the search", matches, token),
		Reason:  ReasonAmbiguous,
		Details: map[string]any{"token": token, "matches": matches},
	}
}

// NewInsufficientStockError names the product whose requested quantity exceeds stock.
func NewInsufficientStockError(description string, requested, available int) *AppError {
	return &AppError{
		Code:    http.StatusConflict,
		Message: fmt.Sprintf("No hay suficiente stock de %q", description),
		Reason:  ReasonInsufficientStock,
		Details: map[string]any{
			"product":   description,
			"requested": requested,
			"available": available,
		},
	}
}

// NewInsufficientPaymentError carries the shortfall already formatted for display.
func NewInsufficientPaymentError(shortfall string) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Message: "Monto insuficiente, faltan " + shortfall,
		Reason:  ReasonInsufficientPayment,
		Details: map[string]any{"shortfall": shortfall},
	}
}

// NewSubmissionError wraps an upstream failure while registering a sale.
func NewSubmissionError(cause error) *AppError {
	return &AppError{
		Code:    http.StatusBadGateway,
		Message: "Error al registrar la venta",
		Reason:  ReasonSubmissionFailed,
		cause:   cause,
	}
}

// NewSubmissionUnconfirmedError reports a commit the backend may have recorded.
// The cashier must check the sale history instead of retrying.
func NewSubmissionUnconfirmedError(cause error) *AppError {
	return &AppError{
		Code:    http.StatusBadGateway,
		Message: "No se pudo confirmar la venta, revise el historial de ventas antes de reintentar",
		Reason:  ReasonSubmissionUnconfirmed,
		cause:   cause,
	}
}

// NewUpstreamError wraps a failed call to the backend that is not a sale submission.
func NewUpstreamError(message string, cause error) *AppError {
	return &AppError{
		Code:    http.StatusBadGateway,
		Message: message,
		cause:   cause,
	}
}

// NewConflictError creates a conflict error with a custom message
func NewConflictError(message string) *AppError {
	return &AppError{
		Code:    http.StatusConflict,
		Message: message,
	}
}

// NewBadRequestError creates a bad request error with a custom message
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Message: message,
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// HasReason reports whether err is an AppError with the given reason.
func HasReason(err error, reason Reason) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Reason == reason
}

// GetAppError converts an error to AppError if possible
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return &AppError{
		Code:    http.StatusInternalServerError,
		Message: err.Error(),
	}
}
