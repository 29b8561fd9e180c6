package salesforce

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/tidwall/gjson"
)

// ErrNoSession is returned when an authenticator yields no usable session.
var ErrNoSession = errors.New("salesforce: no session")

// AuthenticationError is a rejected login. Code is the Salesforce exception
// code (INVALID_LOGIN, invalid_grant, ...).
type AuthenticationError struct {
	Code    string
	Message string
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("salesforce authentication failed: %s: %s", e.Code, e.Message)
}

// APIError is a non-2xx response from the REST API.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("salesforce API returned %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("salesforce API returned %d: %s: %s", e.Status, e.Code, e.Message)
}

// NotFound reports whether the API rejected the id.
func (e *APIError) NotFound() bool { return e.Status == http.StatusNotFound }

// parseAPIError reads the REST error body. Salesforce sends a list of
// {errorCode, message} objects; a bare object is accepted too.
func parseAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{Status: status}
	if !gjson.ValidBytes(body) {
		apiErr.Message = truncate(string(body), 200)
		return apiErr
	}

	first := gjson.ParseBytes(body)
	if first.IsArray() {
		first = first.Get("0")
	}
	apiErr.Code = first.Get("errorCode").String()
	apiErr.Message = first.Get("message").String()
	if apiErr.Message == "" {
		apiErr.Message = truncate(string(body), 200)
	}
	return apiErr
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
