package tools

import (
	"errors"
	"strings"

	"github.com/stemsi/schoolbot-backend/internal/gateway"
)

// ErrorKind classifies a refused tool call for the reasoning loop.
type ErrorKind string

const (
	KindAccessDenied     ErrorKind = "access_denied"
	KindNotFound         ErrorKind = "not_found"
	KindMissingParameter ErrorKind = "missing_parameter"
	KindInvalidParameter ErrorKind = "invalid_parameter"
	KindTimeout          ErrorKind = "timeout"
	KindUnknownTool      ErrorKind = "unknown_tool"
	// KindInternal marks a storage fault in audit records. It is never sent
	// to the caller.
	KindInternal ErrorKind = "internal"
)

// Result is the structured outcome of a tool call. Data is set only when OK.
type Result struct {
	OK        bool      `json:"ok"`
	Data      any       `json:"data,omitempty"`
	ErrorKind ErrorKind `json:"error_kind,omitempty"`
	Message   string    `json:"message,omitempty"`
}

// Success wraps data in a successful result.
func Success(data any) Result {
	return Result{OK: true, Data: data}
}

// Failure builds a refused result with a user-safe message.
func Failure(kind ErrorKind, message string) Result {
	return Result{ErrorKind: kind, Message: message}
}

// fromError maps gateway outcomes to refused results. Errors it does not
// recognize are returned unchanged for the caller to treat as fatal.
func fromError(err error, notFound string) (Result, error) {
	switch {
	case errors.Is(err, gateway.ErrDenied):
		return Failure(KindAccessDenied, "Access denied: you don't have permission to view this data."), nil
	case errors.Is(err, gateway.ErrNotFound):
		return Failure(KindNotFound, notFound), nil
	case errors.Is(err, gateway.ErrMissingParameter):
		return Failure(KindMissingParameter, paramMessage(err, gateway.ErrMissingParameter, "Missing required parameter")), nil
	case errors.Is(err, gateway.ErrInvalidParameter):
		return Failure(KindInvalidParameter, paramMessage(err, gateway.ErrInvalidParameter, "Invalid parameter")), nil
	case errors.Is(err, gateway.ErrTimeout):
		return Failure(KindTimeout, "The query took too long. Please try again with a narrower request."), nil
	}
	return Result{}, err
}

// paramMessage strips the sentinel text, leaving the field name and expected format.
func paramMessage(err, sentinel error, label string) string {
	detail := strings.TrimPrefix(err.Error(), sentinel.Error())
	detail = strings.TrimPrefix(detail, ": ")
	if detail == "" {
		return label + "."
	}
	return label + ": " + detail
}
