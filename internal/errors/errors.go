// Package errors carries the operation-scoped error type used across the
// bootstrap: every failure names the step it happened in ("ssh-auth",
// "clone", "profile") so step output and logs stay attributable.
package errors

// OperationError couples a bootstrap operation name with its cause.
type OperationError struct {
	Op  string
	Err error
}

// New wraps err under the named operation
func New(op string, err error) *OperationError {
	return &OperationError{Op: op, Err: err}
}

func (e *OperationError) Error() string {
	if e.Err == nil {
		return e.Op
	}
	return e.Op + ": " + e.Err.Error()
}

// Unwrap exposes the cause to errors.Is and errors.As
func (e *OperationError) Unwrap() error {
	return e.Err
}

// Is treats two OperationErrors as equal when they name the same operation,
// so a bare New(op, nil) works as a match target.
func (e *OperationError) Is(target error) bool {
	t, ok := target.(*OperationError)
	return ok && e.Op == t.Op
}
