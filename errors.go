package authgate

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode represents gate rejection categories.
type ErrorCode string

const (
	ErrCodeMissingCredentials  ErrorCode = "missing_credentials"
	ErrCodeInvalidToken        ErrorCode = "invalid_token"
	ErrCodeExpired             ErrorCode = "token_expired"
	ErrCodeNotYetValid         ErrorCode = "token_not_yet_valid"
	ErrCodeMalformedClaims     ErrorCode = "malformed_claims"
	ErrCodeInvalidIssuer       ErrorCode = "invalid_issuer"
	ErrCodeInvalidAudience     ErrorCode = "invalid_audience"
	ErrCodeMisconfigured       ErrorCode = "server_misconfigured"
	ErrCodeUpstreamUnavailable ErrorCode = "upstream_unavailable"
)

var errorMessages = map[ErrorCode]string{
	ErrCodeMissingCredentials:  "Missing credentials",
	ErrCodeInvalidToken:        "Invalid token",
	ErrCodeExpired:             "Token expired",
	ErrCodeNotYetValid:         "Token not yet valid",
	ErrCodeMalformedClaims:     "Malformed claims",
	ErrCodeInvalidIssuer:       "Invalid issuer",
	ErrCodeInvalidAudience:     "Invalid audience",
	ErrCodeMisconfigured:       "Server misconfigured",
	ErrCodeUpstreamUnavailable: "Identity provider unavailable",
}

// Error wraps gate errors with a stable code and message.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	base := e.Message
	if base == "" {
		base = string(e.Code)
	}
	if e.Err == nil {
		return base
	}
	return fmt.Sprintf("%s: %v", base, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

func newError(code ErrorCode, err error) error {
	msg, ok := errorMessages[code]
	if !ok {
		msg = string(code)
	}
	return &Error{Code: code, Message: msg, Err: err}
}

// CodeOf extracts the gate error code from err, returning ErrCodeInvalidToken
// for errors that carry no code.
func CodeOf(err error) ErrorCode {
	var gateErr *Error
	if errors.As(err, &gateErr) {
		return gateErr.Code
	}
	return ErrCodeInvalidToken
}

// HTTPStatus maps a rejection code to the response status written by the gate.
// Configuration faults are server-side, upstream faults are availability
// problems; everything else is a client credential failure.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeMisconfigured:
		return http.StatusInternalServerError
	case ErrCodeUpstreamUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusUnauthorized
	}
}
