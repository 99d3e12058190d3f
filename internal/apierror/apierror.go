// Package apierror defines the single error taxonomy the HTTP surface
// renders, replacing the "one builder function per error kind" pattern
// the original source used with one Error type and one render path.
package apierror

import "net/http"

// Error is an API-facing error: an HTTP status, a stable JSON code clients
// can branch on, a human message, and any extra headers the response needs
// (e.g. Allow on a 405).
type Error struct {
	Status  int
	Code    string
	Message string
	Headers map[string]string
}

func (e *Error) Error() string {
	return e.Message
}

// New builds an Error with no extra headers.
func New(status int, code, message string) *Error {
	return &Error{Status: status, Code: code, Message: message}
}

// WithHeader returns a copy of e with an additional response header.
func (e *Error) WithHeader(key, value string) *Error {
	headers := make(map[string]string, len(e.Headers)+1)
	for k, v := range e.Headers {
		headers[k] = v
	}
	headers[key] = value
	return &Error{Status: e.Status, Code: e.Code, Message: e.Message, Headers: headers}
}

// Constructors for the error kinds enumerated in spec §7.

func InvalidToken(message string) *Error {
	return New(http.StatusUnauthorized, "invalidToken", message)
}

func UnknownToken() *Error {
	return New(http.StatusUnauthorized, "unknownToken", "player token has not been found")
}

func MapNotFound() *Error {
	return New(http.StatusNotFound, "mapNotFound", "map not found")
}

func InvalidArgument(message string) *Error {
	return New(http.StatusBadRequest, "invalidArgument", message)
}

func InvalidMethod(allow string) *Error {
	return New(http.StatusMethodNotAllowed, "invalidMethod", "invalid method").WithHeader("Allow", allow)
}

func BadRequest(message string) *Error {
	return New(http.StatusBadRequest, "badRequest", message)
}

func NotFound(message string) *Error {
	return New(http.StatusNotFound, "notFound", message)
}
