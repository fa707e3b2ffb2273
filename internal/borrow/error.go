package borrow

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/lauvAri/soa-lab1/internal/gateway"
)

type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

const (
	ErrCodeNotFound          = "NOT_FOUND"
	ErrCodeInvalidArgument   = "INVALID_ARGUMENT"
	ErrCodeConflict          = "CONFLICT"
	ErrCodeRemoteUnavailable = "REMOTE_UNAVAILABLE"
	ErrCodeInternal          = "INTERNAL"
)

func NewNotFoundError(msg string) error {
	return &DomainError{Code: ErrCodeNotFound, Message: msg}
}

func NewInvalidArgumentError(msg string) error {
	return &DomainError{Code: ErrCodeInvalidArgument, Message: msg}
}

func NewConflictError(msg string) error {
	return &DomainError{Code: ErrCodeConflict, Message: msg}
}

// NewRemoteError names the downstream call that failed; it surfaces as an
// internal failure to the caller.
func NewRemoteError(service string, err error) error {
	return &DomainError{
		Code:    ErrCodeRemoteUnavailable,
		Message: fmt.Sprintf("%s service call failed: %v", service, err),
	}
}

func NewInternalError(msg string) error {
	return &DomainError{Code: ErrCodeInternal, Message: msg}
}

// ToHTTPStatus maps an error from the service layer to the response code.
func ToHTTPStatus(err error) int {
	var de *DomainError
	if errors.As(err, &de) {
		switch de.Code {
		case ErrCodeNotFound:
			return http.StatusNotFound
		case ErrCodeInvalidArgument:
			return http.StatusBadRequest
		case ErrCodeConflict:
			return http.StatusConflict
		default:
			return http.StatusInternalServerError
		}
	}
	var te *gateway.TransportError
	if errors.As(err, &te) {
		return http.StatusInternalServerError
	}
	return http.StatusInternalServerError
}
