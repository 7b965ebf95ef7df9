package httpclient

import "fmt"

// StatusError is returned by the circuit breaker wrapper when an upstream
// response carries a server-error status. Carrying the status and body lets
// callers translate the failure into their own error taxonomy without
// re-reading a consumed response body.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server error %d: %s", e.StatusCode, e.Body)
}
