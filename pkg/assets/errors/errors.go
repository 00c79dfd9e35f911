package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

var ErrInternal = fmt.Errorf("internal error")
var ErrNotFound = fmt.Errorf("not found")
var ErrRequest = fmt.Errorf("request error")
var ErrBadRequest = fmt.Errorf("bad request")
var ErrBadResponse = fmt.Errorf("bad response")
var ErrUnauthorized = fmt.Errorf("unauthorized")
var ErrForbidden = fmt.Errorf("forbidden")
var ErrRateLimited = fmt.Errorf("rate limited")
var ErrNoWorkspace = fmt.Errorf("no workspace available")
var ErrWorkspaceNotResolved = fmt.Errorf("workspace not resolved")

type myError struct {
	msg    string
	code   int
	target error
}

func (m myError) Error() string        { return m.msg }
func (m myError) Is(target error) bool { return target == m.target }

// StatusCode returns the http status code that caused the error, or 0 if unknown
func (m myError) StatusCode() int { return m.code }

func NewBadRequestError(msg string) error {
	return &myError{msg: msg, code: http.StatusBadRequest, target: ErrBadRequest}
}

func NewUnauthorizedError(msg string) error {
	return &myError{msg: msg, code: http.StatusUnauthorized, target: ErrUnauthorized}
}

func NewForbiddenError(msg string) error {
	return &myError{msg: msg, code: http.StatusForbidden, target: ErrForbidden}
}

func NewNotFoundError(msg string) error {
	return &myError{msg: msg, code: http.StatusNotFound, target: ErrNotFound}
}

func NewRateLimitedError(msg string) error {
	return &myError{msg: msg, code: http.StatusTooManyRequests, target: ErrRateLimited}
}

func NewInternalError(code int, msg string) error {
	return &myError{msg: msg, code: code, target: ErrInternal}
}

// NewErrorFromResponse maps an error response from the assets api to one of the
// sentinel errors in this package. The body is expected to contain the usual
// Atlassian error document, but anything that can not be parsed is passed along
// as the error detail.
func NewErrorFromResponse(code int, contentType string, body []byte) error {
	detail := errorDetail(contentType, body)
	msg := fmt.Sprintf("[code: %d] %s", code, detail)

	switch code {
	case http.StatusBadRequest:
		return NewBadRequestError(msg)
	case http.StatusUnauthorized:
		return NewUnauthorizedError(msg)
	case http.StatusForbidden:
		return NewForbiddenError(msg)
	case http.StatusNotFound:
		return NewNotFoundError(msg)
	case http.StatusTooManyRequests:
		return NewRateLimitedError(msg)
	}

	return NewInternalError(code, msg)
}

func errorDetail(contentType string, body []byte) string {
	if len(body) == 0 {
		return "no details provided"
	}

	if strings.HasPrefix(contentType, "application/json") {
		report := &struct {
			ErrorMessages []string          `json:"errorMessages"`
			Errors        map[string]string `json:"errors"`
			Message       string            `json:"message"`
		}{}

		if err := json.Unmarshal(body, report); err == nil {
			messages := append([]string{}, report.ErrorMessages...)
			for field, msg := range report.Errors {
				messages = append(messages, field+": "+msg)
			}
			if report.Message != "" {
				messages = append(messages, report.Message)
			}
			if len(messages) > 0 {
				return strings.Join(messages, "; ")
			}
		}
	}

	const maxLength = 256
	if len(body) > maxLength {
		return string(body[:maxLength]) + "..."
	}

	return string(body)
}
