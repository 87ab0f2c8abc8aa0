package pipeline

import "fmt"

// StageError reports which pipeline stage failed and wraps the cause.
type StageError struct {
	Stage string // "submit" or "extract"
	RunID string
	Cause error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("pipeline stage %s failed (run %s): %v", e.Stage, e.RunID, e.Cause)
}

func (e *StageError) Unwrap() error {
	return e.Cause
}
