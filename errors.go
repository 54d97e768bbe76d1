package xrplsale

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/xrplsale/xrplsale-go/headers"
)

// ConfigError reports invalid client configuration.
type ConfigError struct {
	Reason string
}

func (e ConfigError) Error() string {
	return "xrplsale: " + e.Reason
}

// APIError captures a non-2xx response that does not map to a more specific
// error type. Status and Code carry the HTTP status and the platform's
// machine-readable error code; Body holds the raw response when the body did
// not match the structured error shape.
type APIError struct {
	Status  int
	Code    string
	Message string
	Body    string
}

func (e APIError) Error() string {
	code := e.Code
	if code == "" {
		code = "UNKNOWN"
	}
	msg := e.Message
	if msg == "" {
		msg = fmt.Sprintf("http %d", e.Status)
	}
	return fmt.Sprintf("xrplsale: %s: %s", code, msg)
}

// AuthenticationError is returned for 401/403 responses.
type AuthenticationError struct {
	Status  int
	Code    string
	Message string
}

func (e AuthenticationError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("xrplsale: authentication failed (%d)", e.Status)
	}
	return "xrplsale: " + e.Message
}

// NotFoundError is returned for 404 responses.
type NotFoundError struct {
	Code    string
	Message string
}

func (e NotFoundError) Error() string {
	if e.Message == "" {
		return "xrplsale: resource not found"
	}
	return "xrplsale: " + e.Message
}

// ValidationError is returned for 422 responses, or 400 responses carrying
// field-level errors. Fields maps each field name to its failure messages.
type ValidationError struct {
	Status  int
	Code    string
	Message string
	Fields  map[string][]string
}

func (e ValidationError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("xrplsale: validation failed (%d fields)", len(e.Fields))
	}
	return "xrplsale: " + e.Message
}

// RateLimitError is returned for 429 responses after retries are exhausted.
// RetryAfter is the server's hint when a Retry-After header was present.
type RateLimitError struct {
	Code       string
	Message    string
	RetryAfter time.Duration
}

func (e RateLimitError) Error() string {
	if e.Message == "" {
		return "xrplsale: rate limit exceeded"
	}
	return "xrplsale: " + e.Message
}

// TransportError wraps a network-level failure (unreachable host, timeout,
// cancelled context) after the retry policy gave up.
type TransportError struct {
	Err error
}

func (e TransportError) Error() string {
	return fmt.Sprintf("xrplsale: transport: %v", e.Err)
}

func (e TransportError) Unwrap() error { return e.Err }

// ParseError reports a response body that did not match the expected shape.
type ParseError struct {
	Err error
}

func (e ParseError) Error() string {
	return fmt.Sprintf("xrplsale: parse response: %v", e.Err)
}

func (e ParseError) Unwrap() error { return e.Err }

// errorEnvelope mirrors the platform's structured error body. Both the
// nested and the flat form occur in the wild; the nested form wins.
type errorEnvelope struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors"`
	Error   *struct {
		Code    string              `json:"code"`
		Message string              `json:"message"`
		Errors  map[string][]string `json:"errors"`
	} `json:"error"`
	RequestID string `json:"request_id"`
}

func (e errorEnvelope) flatten() (code, message string, fields map[string][]string) {
	code, message, fields = e.Code, e.Message, e.Errors
	if e.Error != nil {
		if e.Error.Code != "" {
			code = e.Error.Code
		}
		if e.Error.Message != "" {
			message = e.Error.Message
		}
		if len(e.Error.Errors) > 0 {
			fields = e.Error.Errors
		}
	}
	return code, message, fields
}

// decodeAPIError converts a final non-2xx response into one of the typed
// errors. The body is consumed but not closed.
func decodeAPIError(resp *http.Response) error {
	data, _ := io.ReadAll(resp.Body)

	var env errorEnvelope
	code, message, fields := "", "", map[string][]string(nil)
	if len(data) > 0 {
		if err := json.Unmarshal(data, &env); err == nil {
			code, message, fields = env.flatten()
		}
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return AuthenticationError{Status: resp.StatusCode, Code: code, Message: message}
	case resp.StatusCode == http.StatusNotFound:
		return NotFoundError{Code: code, Message: message}
	case resp.StatusCode == http.StatusUnprocessableEntity,
		resp.StatusCode == http.StatusBadRequest && len(fields) > 0:
		return ValidationError{Status: resp.StatusCode, Code: code, Message: message, Fields: fields}
	case resp.StatusCode == http.StatusTooManyRequests:
		return RateLimitError{Code: code, Message: message, RetryAfter: retryAfterHint(resp)}
	default:
		apiErr := APIError{Status: resp.StatusCode, Code: code, Message: message}
		if code == "" && message == "" {
			apiErr.Body = string(data)
		}
		return apiErr
	}
}

func retryAfterHint(resp *http.Response) time.Duration {
	raw := resp.Header.Get(headers.RetryAfter)
	if raw == "" {
		return 0
	}
	secs, err := strconv.Atoi(raw)
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
