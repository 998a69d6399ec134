package repository

import "fmt"

// TransportError covers everything that prevents a usable response: unreachable host,
// timeout, cancellation, rate limiter wait failure or a body that is not JSON.
type TransportError struct {
	Endpoint   string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("transport error calling %s (status %d): %v", e.Endpoint, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("transport error calling %s: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ApplicationError is a parsed response whose success flag is not true. Message is the
// server supplied error and may be empty.
type ApplicationError struct {
	Endpoint   string
	StatusCode int
	Message    string
}

func (e *ApplicationError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s reported failure (status %d)", e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("%s reported failure (status %d): %s", e.Endpoint, e.StatusCode, e.Message)
}
