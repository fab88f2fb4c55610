package client

import (
	"errors"
	"fmt"
	"net/http"
)

// StatusError is returned when the deal service responds with a non-2xx
// status. For streaming calls it is returned before any event is delivered,
// so callers can distinguish "never connected" from "stream broke".
type StatusError struct {
	// Code is the HTTP status code.
	Code int

	// Body is the (truncated) response body, usually a JSON error message.
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("deal service returned status %d", e.Code)
	}
	return fmt.Sprintf("deal service returned status %d: %s", e.Code, e.Body)
}

// NotFound reports whether the error is a 404.
func (e *StatusError) NotFound() bool {
	return e.Code == http.StatusNotFound
}

// ErrIllegalTransition indicates a stage move the transition table forbids.
// The client checks the table before the round trip so obviously invalid
// moves fail fast.
var ErrIllegalTransition = errors.New("illegal stage transition")
