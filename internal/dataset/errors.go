package dataset

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by this package wraps exactly one of
// these, so callers can branch with errors.Is.
var (
	ErrPathNotFound        = errors.New("dataset path not found")
	ErrFileOpen            = errors.New("unable to open file")
	ErrCapacityExceeded    = errors.New("capacity exceeded")
	ErrUnresolvedReference = errors.New("unresolved reference")
	ErrMalformedField      = errors.New("malformed field")
	ErrNotInitialized      = errors.New("not initialized")
	ErrDuplicateEntry      = errors.New("duplicate entry")
	ErrOutOfRange          = errors.New("out of range")
)

// FieldError reports a field that is missing or cannot be parsed.
type FieldError struct {
	Line  int    // 1-based line number in the source file
	Index int    // 0-based field index
	Text  string // raw field text, empty when the field is missing
	Err   error  // underlying strconv error, nil when the field is missing
}

func (e *FieldError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("line %d: field %d missing: %v", e.Line, e.Index, ErrMalformedField)
	}
	return fmt.Sprintf("line %d: field %d %q: %v: %v", e.Line, e.Index, e.Text, ErrMalformedField, e.Err)
}

func (e *FieldError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrMalformedField}
	}
	return []error{ErrMalformedField, e.Err}
}

// Step names one unit of work in an extraction run.
type Step string

const (
	StepBarcodes     Step = "barcodes"
	StepLandmarks    Step = "landmarks"
	StepGroundtruth  Step = "groundtruth"
	StepOdometry     Step = "odometry"
	StepMeasurements Step = "measurements"
)

// StepError records the failure of a single extraction step.
type StepError struct {
	Step    Step
	RobotID int // 0-based robot identity, -1 for shared tables
	Path    string
	Err     error
}

func (e *StepError) Error() string {
	if e.RobotID < 0 {
		return fmt.Sprintf("%s (%s): %v", e.Step, e.Path, e.Err)
	}
	return fmt.Sprintf("robot %d %s (%s): %v", e.RobotID+1, e.Step, e.Path, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// ExtractionError aggregates every failed step of an extraction run.
type ExtractionError struct {
	Path     string
	RunID    string
	Steps    int // number of steps attempted
	Failures []*StepError
}

func (e *ExtractionError) Error() string {
	if len(e.Failures) == 0 {
		return fmt.Sprintf("unable to extract dataset %s", e.Path)
	}
	return fmt.Sprintf("unable to extract dataset %s: %d of %d steps failed (first: %v)",
		e.Path, len(e.Failures), e.Steps, e.Failures[0])
}

func (e *ExtractionError) Unwrap() []error {
	errs := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		errs[i] = f
	}
	return errs
}
