package common

import (
	"errors"
	"fmt"
)

type PlanErrorCode int

const (
	// DuplicateObjectError indicates an attempt to register a source or a plan
	// node id that already exists.
	DuplicateObjectError PlanErrorCode = iota
	// NoSuchObjectError indicates a reference to a source or plan node that
	// was never defined.
	NoSuchObjectError
	// MisconfiguredRuleError is returned at registration time when a rule
	// applies to no node kind in one of the stages it was registered for.
	MisconfiguredRuleError
	// UnknownStageError indicates a stage identifier outside the known set.
	UnknownStageError
	// PassLimitExceededError is returned when a stage keeps firing rules past
	// the configured maximum number of passes or rule applications.
	PassLimitExceededError
	// InvalidPlanError indicates a malformed plan: wrong arity, column offsets
	// out of range, mismatched inputs.
	InvalidPlanError
	// ResourceLimitError is returned by executors that exceed the row budget
	// of their ExecutorContext.
	ResourceLimitError
)

func (ec PlanErrorCode) String() string {
	switch ec {
	case DuplicateObjectError:
		return "DuplicateObjectError"
	case NoSuchObjectError:
		return "NoSuchObjectError"
	case MisconfiguredRuleError:
		return "MisconfiguredRuleError"
	case UnknownStageError:
		return "UnknownStageError"
	case PassLimitExceededError:
		return "PassLimitExceededError"
	case InvalidPlanError:
		return "InvalidPlanError"
	case ResourceLimitError:
		return "ResourceLimitError"
	}
	return "unknown"
}

// PlanError is the custom error type used across the optimizer.
// It wraps a specific PlanErrorCode with a detailed message so callers can
// branch on the code with errors.As or HasCode.
type PlanError struct {
	Code      PlanErrorCode
	ErrString string
}

func (e PlanError) Error() string {
	return fmt.Sprintf("err: %s; msg: %s", e.Code.String(), e.ErrString)
}

// NewPlanError formats a PlanError with the given code.
func NewPlanError(code PlanErrorCode, format string, args ...any) PlanError {
	return PlanError{Code: code, ErrString: fmt.Sprintf(format, args...)}
}

// HasCode reports whether err, or any error it wraps, is a PlanError with the given code. Aggregates such as
// go-multierror chains and errors.Join are searched element by element, not only up to the first PlanError.
func HasCode(err error, code PlanErrorCode) bool {
	for err != nil {
		var pe PlanError
		if errors.As(err, &pe) && pe.Code == code {
			return true
		}
		if joined, ok := err.(interface{ Unwrap() []error }); ok {
			for _, e := range joined.Unwrap() {
				if HasCode(e, code) {
					return true
				}
			}
			return false
		}
		err = errors.Unwrap(err)
	}
	return false
}
