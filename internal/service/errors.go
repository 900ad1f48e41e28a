package service

import (
	"errors"
	"fmt"
	"strings"

	"kiosk-service/internal/repository"
)

var (
	ErrNotFound     = repository.ErrNotFound
	ErrConflict     = repository.ErrConflict
	ErrInsufficient = repository.ErrInsufficientStock
	ErrInvalidInput = errors.New("invalid input")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
)

// kindError carries a caller-facing message while matching one of the sentinels above.
type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.kind }

func newError(kind error, format string, args ...interface{}) error {
	return &kindError{kind: kind, msg: fmt.Sprintf(format, args...)}
}

func invalidf(format string, args ...interface{}) error {
	return newError(ErrInvalidInput, format, args...)
}

func notFoundf(format string, args ...interface{}) error {
	return newError(ErrNotFound, format, args...)
}

// RejectionError is a validation failure with an itemised list, e.g. every cart line short of stock.
type RejectionError struct {
	Message string
	Errors  []string
}

func (e *RejectionError) Error() string {
	if len(e.Errors) == 0 {
		return e.Message
	}
	return e.Message + ": " + strings.Join(e.Errors, " ")
}

func reject(message string, errs ...string) *RejectionError {
	return &RejectionError{Message: message, Errors: errs}
}

// Caller identifies who is acting on a resource.
type Caller struct {
	UserID    int64
	SuperUser bool
}

// CanAccess is true for the owner of userID's resources and for SuperUsers.
func (c Caller) CanAccess(userID int64) bool {
	return c.SuperUser || c.UserID == userID
}

func (c Caller) mustAccess(userID int64) error {
	if !c.CanAccess(userID) {
		return newError(ErrForbidden, "You may only access your own resources.")
	}
	return nil
}
