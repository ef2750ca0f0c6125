package dataset

import (
	"fmt"

	"kyberbench/internal/utils"
)

var (
	ErrCancelled     = utils.NewBenchError("dataset build cancelled")
	ErrInvalidConfig = utils.NewBenchError("invalid dataset config")
)

// TrialError reports which trial aborted a build and why.
type TrialError struct {
	Index int
	Err   error
}

func (e *TrialError) Error() string {
	return fmt.Sprintf("trial %d: %v", e.Index, e.Err)
}

func (e *TrialError) Unwrap() error {
	return e.Err
}
