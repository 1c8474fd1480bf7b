package location

import (
	"errors"
	"net/http"
)

// ErrorCode is the closed taxonomy every remote failure is mapped into,
// regardless of transport detail.
type ErrorCode string

const (
	ErrNetwork             ErrorCode = "NETWORK_ERROR"
	ErrValidation          ErrorCode = "VALIDATION_ERROR"
	ErrPermissionDenied    ErrorCode = "PERMISSION_DENIED"
	ErrLocationUnavailable ErrorCode = "LOCATION_UNAVAILABLE"
	ErrVerificationFailed  ErrorCode = "VERIFICATION_FAILED"
	ErrAPI                 ErrorCode = "API_ERROR"
	ErrUnknown             ErrorCode = "UNKNOWN_ERROR"
)

// Common sentinel errors shared across the core packages.
var (
	ErrOffline   = errors.New("device is offline")
	ErrCacheMiss = errors.New("cache miss")
)

// CodeFromStatus maps an HTTP status to the taxonomy. Transport-level
// failures that never reached the server map to ErrNetwork at the call
// site, not here.
func CodeFromStatus(status int) ErrorCode {
	switch {
	case status == http.StatusBadRequest:
		return ErrValidation
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return ErrPermissionDenied
	case status == http.StatusNotFound:
		return ErrLocationUnavailable
	case status == http.StatusUnprocessableEntity:
		return ErrVerificationFailed
	case status >= 500:
		return ErrAPI
	default:
		return ErrUnknown
	}
}

// APIError carries a taxonomy code through an error chain.
type APIError struct {
	Code    ErrorCode
	Message string
}

func (e *APIError) Error() string {
	return string(e.Code) + ": " + e.Message
}

// CodeOf extracts the taxonomy code from an error, defaulting to
// ErrUnknown for errors produced outside the remote client.
func CodeOf(err error) ErrorCode {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return ErrUnknown
}
