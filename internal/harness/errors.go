package harness

import (
	"errors"
	"fmt"
)

// Code categorizes harness failures.
type Code string

const (
	CodeConnectionFailed Code = "CONNECTION_FAILED"
	CodeSchemaFailed     Code = "SCHEMA_FAILED"
	CodeInsertFailed     Code = "INSERT_FAILED"
	CodeQueryFailed      Code = "QUERY_FAILED"
	CodePurgeFailed      Code = "PURGE_FAILED"
)

// ErrNotConnected is wrapped by every operation attempted without a live
// connection, including after a failed Connect.
var ErrNotConnected = errors.New("harness is not connected")

// Error carries the failing operation and its category.
type Error struct {
	Code Code
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// CodeOf returns the code of the first *Error in err's chain, or "" when
// there is none.
func CodeOf(err error) Code {
	var herr *Error
	if errors.As(err, &herr) {
		return herr.Code
	}
	return ""
}
