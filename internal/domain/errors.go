package domain

import (
	"errors"
	"fmt"
)

// ErrSessionClosed is returned for calls on a pipeline that has already been evaluated.
var ErrSessionClosed = errors.New("pipeline already evaluated")

// DomainMismatchError reports an operation invoked on a domain it is not defined for.
type DomainMismatchError struct {
	Op     string
	Domain Kind
}

func (e DomainMismatchError) Error() string {
	return fmt.Sprintf("%s is not defined for domain %v", e.Op, e.Domain)
}

// LengthMismatchError reports two sequences that must align positionally but do not.
type LengthMismatchError struct {
	What string
	Want int
	Got  int
}

func (e LengthMismatchError) Error() string {
	return fmt.Sprintf("%s: length %d, want %d", e.What, e.Got, e.Want)
}

// MalformedQueryError reports a query NoREC cannot rewrite.
type MalformedQueryError struct {
	Query  string
	Reason string
}

func (e MalformedQueryError) Error() string {
	return fmt.Sprintf("malformed query %q: %s", e.Query, e.Reason)
}

// OracleFailureError wraps an oracle that raised or returned an unusable result.
// Index is the element the failure belongs to, -1 for the whole batch.
type OracleFailureError struct {
	Oracle string
	Index  int
	Err    error
}

func (e OracleFailureError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("oracle %s: %v", e.Oracle, e.Err)
	}
	return fmt.Sprintf("oracle %s: element %d: %v", e.Oracle, e.Index, e.Err)
}

func (e OracleFailureError) Unwrap() error { return e.Err }

// InvalidParameterError rejects a parameter at the call boundary.
type InvalidParameterError struct {
	Op     string
	Param  string
	Reason string
}

func (e InvalidParameterError) Error() string {
	return fmt.Sprintf("%s: invalid %s: %s", e.Op, e.Param, e.Reason)
}

// OutputShapeError reports an output a relation cannot interpret, e.g. a scalar
// where a collection is required.
type OutputShapeError struct {
	Relation string
	Index    int
	Reason   string
}

func (e OutputShapeError) Error() string {
	return fmt.Sprintf("%s: output %d: %s", e.Relation, e.Index, e.Reason)
}

// IsErrorType reports whether err or anything it wraps is a T.
func IsErrorType[T error](err error) bool {
	var target T
	return errors.As(err, &target)
}
