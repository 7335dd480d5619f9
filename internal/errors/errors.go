// Package errors provides custom error types for the Cashflow API.
// All service-layer errors should use AppError to ensure consistent,
// secure error responses that never leak internal details to clients.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Authentication & authorization errors.
var (
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid email or password", StatusCode: http.StatusUnauthorized}
	ErrForbidden          = &AppError{Code: "FORBIDDEN", Message: "Access denied", StatusCode: http.StatusForbidden}
	ErrAccountLocked      = &AppError{Code: "ACCOUNT_LOCKED", Message: "Account is temporarily locked", StatusCode: http.StatusLocked}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// User errors.
var (
	ErrUserNotFound   = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrDuplicateEmail = &AppError{Code: "DUPLICATE_EMAIL", Message: "A user with this email already exists", StatusCode: http.StatusConflict}
)

// Household & membership errors.
var (
	ErrHouseholdNotFound = &AppError{Code: "HOUSEHOLD_NOT_FOUND", Message: "Household not found", StatusCode: http.StatusNotFound}
	ErrNoActiveHousehold = &AppError{Code: "NO_HOUSEHOLD", Message: "No active household for this user", StatusCode: http.StatusNotFound}
	ErrMemberNotFound    = &AppError{Code: "MEMBER_NOT_FOUND", Message: "Household member not found", StatusCode: http.StatusNotFound}
	ErrLastOwner         = &AppError{Code: "LAST_OWNER", Message: "A household must keep at least one active owner", StatusCode: http.StatusConflict}
)

// Invite errors.
var (
	ErrInviteNotFound = &AppError{Code: "INVITE_NOT_FOUND", Message: "Invite not found", StatusCode: http.StatusNotFound}
	ErrInviteExpired  = &AppError{Code: "INVITE_EXPIRED", Message: "Invite has expired", StatusCode: http.StatusGone}
	ErrInviteConsumed = &AppError{Code: "INVITE_CONSUMED", Message: "Invite has already been used", StatusCode: http.StatusConflict}
	ErrInviteMismatch = &AppError{Code: "INVITE_MISMATCH", Message: "Invite was issued for a different email", StatusCode: http.StatusForbidden}
)

// Template errors.
var (
	ErrTemplateNotFound     = &AppError{Code: "TEMPLATE_NOT_FOUND", Message: "Template not found", StatusCode: http.StatusNotFound}
	ErrTemplateItemNotFound = &AppError{Code: "TEMPLATE_ITEM_NOT_FOUND", Message: "Template line item not found", StatusCode: http.StatusNotFound}
)

// Monthly budget errors.
var (
	ErrBudgetNotFound     = &AppError{Code: "BUDGET_NOT_FOUND", Message: "Monthly budget not found", StatusCode: http.StatusNotFound}
	ErrBudgetExists       = &AppError{Code: "BUDGET_EXISTS", Message: "A budget already exists for this month", StatusCode: http.StatusConflict}
	ErrBudgetItemNotFound = &AppError{Code: "BUDGET_ITEM_NOT_FOUND", Message: "Budget line item not found", StatusCode: http.StatusNotFound}
)
