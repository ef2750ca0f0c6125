package utils

import "fmt"

// BenchError is the base error for package level sentinels. Two BenchErrors
// match under errors.Is when their messages match, so a sentinel decorated
// with WithDetails still compares equal to the bare sentinel.
type BenchError struct {
	msg     string
	details string
}

func NewBenchError(msg string) *BenchError {
	return &BenchError{msg: msg}
}

func (e *BenchError) Error() string {
	if e.details == "" {
		return e.msg
	}
	return fmt.Sprintf("%s: %s", e.msg, e.details)
}

// WithDetails returns a copy of e carrying extra context.
func (e *BenchError) WithDetails(details string) *BenchError {
	return &BenchError{msg: e.msg, details: details}
}

func (e *BenchError) Is(target error) bool {
	t, ok := target.(*BenchError)
	if !ok {
		return false
	}
	return t.msg == e.msg
}

var ErrDuplicateID = NewBenchError("duplicate ID detected")
