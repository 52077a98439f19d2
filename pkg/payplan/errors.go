package payplan

import (
	"errors"
	"fmt"
)

// ErrMissingTotal is returned when a response carries no recordsTotal
// metadata, which the aggregator needs before paging can start.
var ErrMissingTotal = errors.New("payplan: response is missing recordsTotal")

// APIError represents a non-success HTTP response from the pay plan
// endpoint.
type APIError struct {
	StatusCode int
	Message    string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("payplan: http status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("payplan: http status %d", e.StatusCode)
}
