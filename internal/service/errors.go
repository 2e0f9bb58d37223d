package service

import "net/http"

// HTTPError represents an error with an associated HTTP status code.
type HTTPError struct {
	StatusCode int
	Wrapped    error
}

func (e HTTPError) Error() string {
	return e.Wrapped.Error()
}

func (e HTTPError) Unwrap() error {
	return e.Wrapped
}

func httpError(statusCode int, err error) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Wrapped:    err,
	}
}

// BadGateway wraps an upstream adapter failure so the presenter maps it to
// a 502 instead of hanging or masking the failure.
func BadGateway(err error) *HTTPError {
	return httpError(http.StatusBadGateway, err)
}
