package carrier

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"syscall"
	"time"

	"github.com/parcelmesh/ups-adapter/pkg/model"
)

//
// ────────────────────────────────────────────────
//   Classified Error Taxonomy
// ────────────────────────────────────────────────
//

// Code identifies one kind of classified failure. The set is closed:
// consumers switch on the code rather than on concrete error types.
type Code string

const (
	CodeValidation         Code = "validation"
	CodeInvalidCredentials Code = "invalid_credentials"
	CodeAuthentication     Code = "authentication"
	CodeTimeout            Code = "timeout"
	CodeNetwork            Code = "network"
	CodeCarrierAPI         Code = "carrier_api"
	CodeRateLimit          Code = "rate_limit"
	CodeResponseParsing    Code = "response_parsing"
	CodeConfiguration      Code = "configuration"
)

// Error is a classified carrier-integration failure. Code-specific fields
// are populated only for their own code and zero otherwise. Cause carries
// the original low-level error for diagnostics; control flow never
// inspects it.
type Error struct {
	Code          Code
	Message       string
	Carrier       string
	CorrelationID string
	Retryable     bool
	Cause         error

	HTTPStatus  int           // authentication, carrier_api
	CarrierCode string        // carrier-supplied error code, carrier_api
	RetryAfter  *int          // seconds to wait, rate_limit
	Issues      []model.Issue // validation
	Timeout     time.Duration // configured transport timeout, timeout
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	if e.Carrier != "" {
		b.WriteString(e.Carrier)
		b.WriteString(": ")
	}
	b.WriteString(string(e.Code))
	if e.HTTPStatus != 0 {
		fmt.Fprintf(&b, " (status %d)", e.HTTPStatus)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		fmt.Fprintf(&b, ": %v", e.Cause)
	}
	return b.String()
}

// Unwrap exposes the original cause for errors.Is/As chains.
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithCorrelationID returns a shallow copy tagged with the given id.
func (e *Error) WithCorrelationID(id string) *Error {
	clone := *e
	clone.CorrelationID = id
	return &clone
}

//
// ────────────────────────────────────────────────
//   Constructors
// ────────────────────────────────────────────────
//

// NewValidationError reports structural constraint violations in a request.
func NewValidationError(carrier string, issues []model.Issue) *Error {
	return &Error{
		Code:    CodeValidation,
		Message: fmt.Sprintf("request failed validation with %d issue(s)", len(issues)),
		Carrier: carrier,
		Issues:  issues,
	}
}

// NewInvalidCredentialsError reports missing or rejected client credentials.
func NewInvalidCredentialsError(carrier, message string, cause error) *Error {
	return &Error{
		Code:    CodeInvalidCredentials,
		Message: message,
		Carrier: carrier,
		Cause:   cause,
	}
}

// NewAuthenticationError reports a non-credential failure of the auth endpoint.
func NewAuthenticationError(carrier string, status int, message string, cause error) *Error {
	return &Error{
		Code:       CodeAuthentication,
		Message:    message,
		Carrier:    carrier,
		HTTPStatus: status,
		Cause:      cause,
	}
}

// NewTimeoutError reports a transport-level timeout on an auth or rating call.
func NewTimeoutError(carrier string, timeout time.Duration, cause error) *Error {
	return &Error{
		Code:      CodeTimeout,
		Message:   fmt.Sprintf("request timed out after %s", timeout),
		Carrier:   carrier,
		Retryable: true,
		Timeout:   timeout,
		Cause:     cause,
	}
}

// NewNetworkError reports a connection-level failure (refused, reset, DNS).
func NewNetworkError(carrier, message string, cause error) *Error {
	return &Error{
		Code:      CodeNetwork,
		Message:   message,
		Carrier:   carrier,
		Retryable: true,
		Cause:     cause,
	}
}

// NewCarrierAPIError reports a rating-endpoint HTTP failure.
// Retryable for server errors and throttling, terminal otherwise.
func NewCarrierAPIError(carrier string, status int, carrierCode, message string) *Error {
	return &Error{
		Code:        CodeCarrierAPI,
		Message:     message,
		Carrier:     carrier,
		HTTPStatus:  status,
		CarrierCode: carrierCode,
		Retryable:   status >= 500 || status == 429,
	}
}

// NewRateLimitError reports an HTTP 429 from the rating endpoint.
// retryAfter is the carrier- or header-supplied wait in seconds, nil when absent.
func NewRateLimitError(carrier string, retryAfter *int) *Error {
	return &Error{
		Code:       CodeRateLimit,
		Message:    "rate limit exceeded",
		Carrier:    carrier,
		HTTPStatus: 429,
		Retryable:  true,
		RetryAfter: retryAfter,
	}
}

// NewResponseParsingError reports a well-formed HTTP success whose body
// violates the expected contract. Never retried: the server broke the
// contract, the condition is not transient.
func NewResponseParsingError(carrier, message string, cause error) *Error {
	return &Error{
		Code:    CodeResponseParsing,
		Message: message,
		Carrier: carrier,
		Cause:   cause,
	}
}

// NewConfigurationError reports missing required configuration values.
func NewConfigurationError(message string) *Error {
	return &Error{
		Code:    CodeConfiguration,
		Message: message,
	}
}

//
// ────────────────────────────────────────────────
//   Inspection Helpers
// ────────────────────────────────────────────────
//

// As extracts a classified *Error from an error chain.
func As(err error) (*Error, bool) {
	var ce *Error
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// CodeOf returns the classification code of err, or "" if unclassified.
func CodeOf(err error) Code {
	if ce, ok := As(err); ok {
		return ce.Code
	}
	return ""
}

// IsRetryable reports whether err is a classified error marked retryable.
// Unclassified errors are not retryable.
func IsRetryable(err error) bool {
	if ce, ok := As(err); ok {
		return ce.Retryable
	}
	return false
}

// IsTimeout reports whether err is a transport-level timeout.
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// IsConnectionError reports whether err is a connection-class failure:
// refused, reset, unreachable, or DNS resolution.
func IsConnectionError(err error) bool {
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}

// ClassifyTransport maps a low-level transport failure on a rating call to
// a classified error: timeouts are timeout errors, everything else is a
// network error (both retryable).
func ClassifyTransport(carrier string, err error, timeout time.Duration) *Error {
	if IsTimeout(err) {
		return NewTimeoutError(carrier, timeout, err)
	}
	return NewNetworkError(carrier, "transport failure", err)
}
