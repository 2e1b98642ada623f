package errors

import (
	"errors"
	"fmt"
	"net/http"
)

type AppError struct {
	Code    string
	Message string
	Status  int
	Err     error
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(code string, message string, status int, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

func NotFound(resource string, err error) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s not found", resource),
		Status:  http.StatusNotFound,
		Err:     err,
	}
}

func BadRequest(message string, err error) *AppError {
	return &AppError{
		Code:    "BAD_REQUEST",
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     err,
	}
}

func Unauthorized(message string, err error) *AppError {
	return &AppError{
		Code:    "UNAUTHORIZED",
		Message: message,
		Status:  http.StatusUnauthorized,
		Err:     err,
	}
}

func Forbidden(message string, err error) *AppError {
	return &AppError{
		Code:    "FORBIDDEN",
		Message: message,
		Status:  http.StatusForbidden,
		Err:     err,
	}
}

func Conflict(message string) *AppError {
	return &AppError{
		Code:    "CONFLICT",
		Message: message,
		Status:  http.StatusConflict,
	}
}

func Internal(message string, err error) *AppError {
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Message: message,
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// Match domain errors.

const (
	CodeMatchClosed     = "MATCH_CLOSED"
	CodePaymentConflict = "PAYMENT_CONFLICT"
	CodeAlreadyOnTeam   = "ALREADY_ON_TEAM"
	CodeNotOpen         = "NOT_OPEN_FOR_PLAYERS"
	CodeEmptySelection  = "EMPTY_SELECTION"
	CodePlayerNotFound  = "PLAYER_NOT_FOUND"
	CodeDuplicateTitle  = "DUPLICATE_TITLE"
)

func MatchClosed() *AppError {
	return New(CodeMatchClosed, "Match is locked or cancelled", http.StatusNotFound, nil)
}

func PaymentConflict() *AppError {
	return New(CodePaymentConflict, "Paid players cannot leave the match, reverse the payment first", http.StatusForbidden, nil)
}

func AlreadyOnTeam() *AppError {
	return New(CodeAlreadyOnTeam, "Player is already assigned to a team", http.StatusForbidden, nil)
}

func NotOpen() *AppError {
	return New(CodeNotOpen, "Match is not open for players", http.StatusForbidden, nil)
}

func EmptySelection() *AppError {
	return New(CodeEmptySelection, "No members selected", http.StatusBadRequest, nil)
}

func PlayerNotFound() *AppError {
	return New(CodePlayerNotFound, "Player not found", http.StatusNotFound, nil)
}

func DuplicateTitle(title string) *AppError {
	return New(CodeDuplicateTitle, fmt.Sprintf("A match titled %q already exists in this chat", title), http.StatusBadRequest, nil)
}

func Is(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// As is errors.As re-exported so callers importing this package under the
// name errors keep access to it.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

func TooManyRequests(message string) *AppError {
	return &AppError{
		Code:    "TOO_MANY_REQUESTS",
		Message: message,
		Status:  http.StatusTooManyRequests,
	}
}
