package jira

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
)

// Configuration errors, raised at construction or env bootstrap.
var (
	ErrConfigRequired          = errors.New("jira config is required")
	ErrConfigBaseURLRequired   = errors.New("jira base url is required")
	ErrConfigAuthTypeRequired  = errors.New("jira auth type is required")
	ErrConfigAuthTypeInvalid   = errors.New("jira auth type must be api_token, pat, oauth, or connect")
	ErrConfigAPITokenAuth      = errors.New("api_token auth requires email and token")
	ErrConfigPATAuth           = errors.New("pat auth requires token")
	ErrConfigOAuthAuth         = errors.New("oauth auth requires token or a token source")
	ErrConfigConnectAuth       = errors.New("connect auth requires issuer and shared secret")
	ErrConfigTokenRequired     = errors.New("jira api token is required")
	ErrConfigTimeoutInvalid    = errors.New("jira timeout must be a positive count of milliseconds")
	ErrConfigAPIVersionInvalid = errors.New("api_version must be 2 or 3")
)

// Sentinel errors for remote-call failures, reachable through errors.Is
// on any *APIError returned by the client.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrUnauthorized = errors.New("authentication failed")
	ErrForbidden    = errors.New("permission denied")
	ErrNotFound     = errors.New("resource not found")
	ErrRateLimited  = errors.New("rate limit exceeded")
	ErrServerError  = errors.New("server error")
)

// Request validation errors.
var (
	ErrIssueKeyInvalid      = errors.New("invalid issue key format")
	ErrJQLRequired          = errors.New("jql query is required")
	ErrTransitionIDRequired = errors.New("transition id is required")
	ErrCommentIDRequired    = errors.New("comment id is required")
	ErrAccountIDRequired    = errors.New("account id is required")
)

// Lookup errors, raised by name-or-ID resolution helpers.
var (
	ErrTransitionNotFound = errors.New("transition not found")
)

// Webhook errors.
var (
	ErrWebhookInvalidPayload = errors.New("invalid webhook payload")
)

// ADF errors.
var (
	ErrADFVersionOnly = errors.New("ADF version must be 1")
	ErrADFTypeInvalid = errors.New("ADF root type must be 'doc'")
)

// APIError is the normalized shape of every failed remote call. All failure
// origins (non-2xx responses, network errors, malformed bodies) are converted
// into this one type before reaching the caller.
type APIError struct {
	// StatusCode is the HTTP status of the failed call. Transport-level
	// failures that never produced a status are reported as 500.
	StatusCode int `json:"-"`

	// ErrorMessages is the ordered message list from the Jira error body.
	ErrorMessages []string `json:"errorMessages,omitempty"`

	// Errors maps field names to field-level error messages.
	Errors map[string]string `json:"errors,omitempty"`

	// Endpoint is the API path that was called.
	Endpoint string `json:"-"`

	// RequestID is the X-Request-Id header value, if the server sent one.
	RequestID string `json:"-"`
}

// Message returns the summary message for the error: the first entry of
// ErrorMessages, else a summary synthesized from the first field error
// (fields ordered lexically for determinism), else the HTTP status text.
func (e *APIError) Message() string {
	if len(e.ErrorMessages) > 0 {
		return e.ErrorMessages[0]
	}
	if len(e.Errors) > 0 {
		fields := make([]string, 0, len(e.Errors))
		for field := range e.Errors {
			fields = append(fields, field)
		}
		sort.Strings(fields)
		return fmt.Sprintf("%s: %s", fields[0], e.Errors[fields[0]])
	}
	if text := http.StatusText(e.StatusCode); text != "" {
		return text
	}
	return "unknown error"
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Endpoint != "" {
		if e.RequestID != "" {
			return fmt.Sprintf("jira api error (%d) at %s [%s]: %s",
				e.StatusCode, e.Endpoint, e.RequestID, e.Message())
		}
		return fmt.Sprintf("jira api error (%d) at %s: %s", e.StatusCode, e.Endpoint, e.Message())
	}
	return fmt.Sprintf("jira api error (%d): %s", e.StatusCode, e.Message())
}

// Unwrap returns the sentinel error matching the status code, so callers can
// classify failures with errors.Is instead of string matching.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusBadRequest:
		return ErrBadRequest
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusTooManyRequests:
		return ErrRateLimited
	default:
		if e.StatusCode >= 500 {
			return ErrServerError
		}
		return nil
	}
}

// NewAPIError creates an APIError from a status code, message list, and
// field-error map.
func NewAPIError(statusCode int, messages []string, fieldErrors map[string]string) *APIError {
	return &APIError{
		StatusCode:    statusCode,
		ErrorMessages: messages,
		Errors:        fieldErrors,
	}
}

// newAPIError normalizes a non-2xx response into an APIError. The body is
// parsed as a Jira error envelope when possible; an unparseable body still
// yields a usable error keyed on the status code.
func newAPIError(resp *http.Response, endpoint string) *APIError {
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Endpoint:   endpoint,
		RequestID:  resp.Header.Get("X-Request-Id"),
	}

	body, _ := io.ReadAll(resp.Body)
	_ = json.Unmarshal(body, apiErr)

	return apiErr
}

// newTransportError normalizes a failure that never produced an HTTP status
// (network error, request construction, malformed response body).
func newTransportError(err error, endpoint string) *APIError {
	return &APIError{
		StatusCode:    http.StatusInternalServerError,
		ErrorMessages: []string{err.Error()},
		Endpoint:      endpoint,
	}
}

// LookupError reports that a name-or-ID lookup found no matching candidate.
// It is distinct from a remote 404: the candidate fetch succeeded, the name
// just did not match anything.
type LookupError struct {
	// Kind names the candidate type, e.g. "transition".
	Kind string

	// Name is the identifier that failed to resolve.
	Name string

	// Resource is the parent resource key, e.g. the issue key.
	Resource string

	// Err is the underlying sentinel, e.g. ErrTransitionNotFound.
	Err error
}

// Error implements the error interface.
func (e *LookupError) Error() string {
	return fmt.Sprintf("%s %q not found for %s", e.Kind, e.Name, e.Resource)
}

// Unwrap returns the underlying sentinel error.
func (e *LookupError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether the error indicates a remote resource was not
// found (HTTP 404).
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsUnauthorized reports whether the error indicates authentication failed.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsForbidden reports whether the error indicates permission was denied.
func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden)
}

// IsRateLimited reports whether the error indicates rate limiting.
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}
