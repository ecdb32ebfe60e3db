package openfoodfacts

import "errors"

// Op names the catalog call that failed.
type Op string

const (
	OpSearch  Op = "search"
	OpProduct Op = "product"
)

// ErrProductNotFound is the cause of a DecodeError when the catalog reports
// status 0 or omits the product object.
var ErrProductNotFound = errors.New("product not found")

// TransportError is a failure to obtain a response body: connection errors,
// timeouts, cancelled contexts and non-2xx statuses.
type TransportError struct {
	Op         Op
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.Op == OpProduct {
		return "Details request failed: " + e.Err.Error()
	}
	return "Request failed: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error { return e.Err }

// DecodeError is a response body that could not be turned into catalog types.
type DecodeError struct {
	Op  Op
	Err error
}

func (e *DecodeError) Error() string {
	if e.Op == OpProduct {
		return "Failed to parse details: " + e.Err.Error()
	}
	return "Failed to parse response: " + e.Err.Error()
}

func (e *DecodeError) Unwrap() error { return e.Err }
