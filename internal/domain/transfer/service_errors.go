package transfer

import "fmt"

// ServiceError is a non-success response from the workflow service. It
// carries the human-readable detail the service returned, or a
// status-coded fallback when the body was not parseable.
type ServiceError struct {
	StatusCode int
	Detail     string
}

// Error implements the error interface
func (e *ServiceError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

// NetworkError is a transport failure: the service produced no response
// at all. It surfaces as a generic connectivity message.
type NetworkError struct {
	Err error
}

// Error implements the error interface
func (e *NetworkError) Error() string {
	return "could not reach the transfer service"
}

// Unwrap returns the underlying transport error
func (e *NetworkError) Unwrap() error {
	return e.Err
}
