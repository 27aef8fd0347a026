package apperrors

import (
	"errors"
	"fmt"
)

// Kind is the stable, transport-independent name of a failure
type Kind string

const (
	KindProgramNotFound        Kind = "ProgramNotFound"
	KindSpecializationNotFound Kind = "SpecializationNotFound"
	KindInsufficientHorizon    Kind = "InsufficientHorizon"
	KindCourseNotFound         Kind = "CourseNotFound"
	KindCourseNotOffered       Kind = "CourseNotOffered"
	KindPrerequisiteUnmet      Kind = "PrerequisiteUnmet"
	KindAntirequisiteConflict  Kind = "AntirequisiteConflict"
	KindCapacityExceeded       Kind = "CapacityExceeded"
	KindConstraintViolation    Kind = "ConstraintViolation"
	KindInvalidTermCode        Kind = "InvalidTermCode"
	KindInvalidCapacity        Kind = "InvalidCapacity"
	KindMalformedSnapshot      Kind = "MalformedSnapshot"
)

// Resolver errors
var (
	ErrProgramNotFound        = errors.New("program not found")
	ErrSpecializationNotFound = errors.New("specialization not found")
	ErrInsufficientHorizon    = errors.New("insufficient planning horizon")
	ErrInvalidCapacity        = errors.New("invalid capacity pattern")
)

// Placement errors
var (
	ErrCourseNotFound        = errors.New("course not found")
	ErrCourseNotOffered      = errors.New("course not offered in term")
	ErrPrerequisiteUnmet     = errors.New("prerequisite not met")
	ErrAntirequisiteConflict = errors.New("antirequisite conflict")
	ErrCapacityExceeded      = errors.New("term capacity exceeded")
	ErrConstraintViolation   = errors.New("program constraint violated")
)

// Data errors
var (
	ErrInvalidTermCode   = errors.New("invalid term code")
	ErrMalformedSnapshot = errors.New("malformed snapshot")
)

var kinds = map[error]Kind{
	ErrProgramNotFound:        KindProgramNotFound,
	ErrSpecializationNotFound: KindSpecializationNotFound,
	ErrInsufficientHorizon:    KindInsufficientHorizon,
	ErrInvalidCapacity:        KindInvalidCapacity,
	ErrCourseNotFound:         KindCourseNotFound,
	ErrCourseNotOffered:       KindCourseNotOffered,
	ErrPrerequisiteUnmet:      KindPrerequisiteUnmet,
	ErrAntirequisiteConflict:  KindAntirequisiteConflict,
	ErrCapacityExceeded:       KindCapacityExceeded,
	ErrConstraintViolation:    KindConstraintViolation,
	ErrInvalidTermCode:        KindInvalidTermCode,
	ErrMalformedSnapshot:      KindMalformedSnapshot,
}

// CustomError carries a sentinel error plus the context a caller needs to report it
type CustomError struct {
	Err     error          `json:"-"`
	Message string         `json:"message"`
	Code    Kind           `json:"kind"`
	Details map[string]any `json:"details,omitempty"`
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// New creates a CustomError for the sentinel err, deriving its code from the sentinel
func New(err error, format string, args ...any) *CustomError {
	return &CustomError{
		Err:     err,
		Message: fmt.Sprintf(format, args...),
		Code:    kinds[err],
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]any) *CustomError {
	e.Details = details
	return e
}

// KindOf returns the kind of the first sentinel found in err's chain, or "" if none
func KindOf(err error) Kind {
	var custom *CustomError
	if errors.As(err, &custom) && custom.Code != "" {
		return custom.Code
	}
	for sentinel, kind := range kinds {
		if errors.Is(err, sentinel) {
			return kind
		}
	}
	return ""
}
