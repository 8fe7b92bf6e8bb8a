package gateway

import "errors"

var (
	// ErrMissingParameter is returned when a required target id was not supplied.
	ErrMissingParameter = errors.New("missing required parameter")
	// ErrInvalidParameter is returned for malformed dates or unknown exam types.
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrDenied is returned when the policy refuses the request. It carries no data.
	ErrDenied = errors.New("access denied")
	// ErrNotFound is returned when the requested record does not exist in the tenant.
	ErrNotFound = errors.New("not found")
	// ErrTimeout is returned when the query bound expired.
	ErrTimeout = errors.New("query timed out")
)
