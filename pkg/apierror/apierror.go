package apierror

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind classifies where a failure came from.
type Kind string

const (
	KindTransport    Kind = "transport"
	KindUnauthorized Kind = "unauthorized"
	KindAPI          Kind = "api"
	KindMalformed    Kind = "malformed"
	KindValidation   Kind = "validation"
)

// APIError is shared by both sides of the wire: the client builds one from a
// failed response, the stand-in backend renders one as {"detail": Message}.
type APIError struct {
	Kind    Kind   `json:"-"`
	Status  int    `json:"-"`
	Message string `json:"detail"`
	Body    string `json:"-"`
	Method  string `json:"-"`
	Path    string `json:"-"`
	Err     error  `json:"-"`
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}

	switch e.Kind {
	case KindTransport:
		return fmt.Sprintf("transport error: %s %s: %v", e.Method, e.Path, e.Err)
	case KindMalformed:
		return fmt.Sprintf("malformed response from %s %s: %v", e.Method, e.Path, e.Err)
	case KindValidation:
		return e.Message
	}

	if e.Body != "" {
		return fmt.Sprintf("API Error: %d %s", e.Status, e.Body)
	}
	return fmt.Sprintf("API Error: %d %s", e.Status, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// New is used server-side: status plus a human readable detail.
func New(status int, message string) *APIError {
	kind := KindAPI
	if status == http.StatusUnauthorized {
		kind = KindUnauthorized
	}
	return &APIError{Kind: kind, Status: status, Message: message}
}

// FromResponse builds the error for a non-2xx response.
func FromResponse(method, path string, status int, body []byte) *APIError {
	e := New(status, Detail(body))
	e.Method = method
	e.Path = path
	e.Body = strings.TrimSpace(string(body))
	return e
}

func Transport(method, path string, err error) *APIError {
	return &APIError{Kind: KindTransport, Method: method, Path: path, Err: err}
}

func Malformed(method, path string, err error) *APIError {
	return &APIError{Kind: KindMalformed, Method: method, Path: path, Err: err}
}

func Validation(err error) *APIError {
	return &APIError{Kind: KindValidation, Status: http.StatusBadRequest, Message: err.Error(), Err: err}
}

// Detail extracts FastAPI's {"detail": "..."} message, falling back to the raw
// body. Validation errors carry a list under detail; the first msg is used.
func Detail(body []byte) string {
	var parsed struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil || len(parsed.Detail) == 0 {
		return strings.TrimSpace(string(body))
	}

	var text string
	if err := json.Unmarshal(parsed.Detail, &text); err == nil {
		return text
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(parsed.Detail, &items); err == nil && len(items) > 0 && items[0].Msg != "" {
		return items[0].Msg
	}

	return strings.TrimSpace(string(body))
}

func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

func KindOf(err error) Kind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return ""
}

func IsUnauthorized(err error) bool {
	return KindOf(err) == KindUnauthorized
}

// UserMessage is what a view shows for a failed operation.
func UserMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Kind {
		case KindTransport:
			return "cannot reach the interview service: " + apiErr.Err.Error()
		case KindAPI, KindUnauthorized:
			if apiErr.Message != "" {
				return fmt.Sprintf("%s (%d)", apiErr.Message, apiErr.Status)
			}
		}
		return apiErr.Error()
	}

	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}
