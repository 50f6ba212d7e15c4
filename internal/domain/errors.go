package domain

import (
	"errors"
	"fmt"
)

// Domain errors.
var (
	ErrDayLocked          = errors.New("day is locked")
	ErrTaskNotFound       = errors.New("task not found")
	ErrGroupNotFound      = errors.New("group not found")
	ErrTaskCompleted      = errors.New("task already completed")
	ErrValidation         = errors.New("validation failed")
	ErrStoreUnavailable   = errors.New("remote store unavailable")
	ErrAdvisoryFailure    = errors.New("advisory request failed")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("username or email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotLoggedIn        = errors.New("not logged in (run 'focusday login' first)")
	ErrEmptyText          = errors.New("text cannot be empty")
	ErrInvalidDuration    = errors.New("duration must be positive")
	ErrInvalidDate        = errors.New("date must be YYYY-MM-DD")
	ErrInvalidSystem      = errors.New("invalid system")
	ErrConfigExists       = errors.New("config file already exists")
)

// DayLockedError reports which locked date rejected a mutation.
type DayLockedError struct {
	Date string
}

func (e *DayLockedError) Error() string {
	return fmt.Sprintf("day %s is locked", e.Date)
}

// Unwrap makes errors.Is(err, ErrDayLocked) work.
func (e *DayLockedError) Unwrap() error {
	return ErrDayLocked
}

// AdvisoryKind distinguishes the two ways an advisory call can fail.
type AdvisoryKind string

// Advisory failure kinds.
const (
	// AdvisoryKindValidation means the remote answered with a malformed shape.
	AdvisoryKindValidation AdvisoryKind = "validation"
	// AdvisoryKindFailure means the call itself failed or timed out.
	AdvisoryKindFailure AdvisoryKind = "failure"
)

// AdvisoryError is the failure arm of every advisory result.
// The message is meant to be shown to the user verbatim.
type AdvisoryError struct {
	Action  AdvisoryAction
	Kind    AdvisoryKind
	Message string
	Err     error
}

func (e *AdvisoryError) Error() string {
	return fmt.Sprintf("%s: %s", e.Action, e.Message)
}

// Unwrap returns ErrValidation or ErrAdvisoryFailure depending on Kind,
// falling back to the underlying cause.
func (e *AdvisoryError) Unwrap() []error {
	errs := make([]error, 0, 2)
	switch e.Kind {
	case AdvisoryKindValidation:
		errs = append(errs, ErrValidation)
	default:
		errs = append(errs, ErrAdvisoryFailure)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// NewAdvisoryFailure builds a failure-kind AdvisoryError.
func NewAdvisoryFailure(action AdvisoryAction, err error) *AdvisoryError {
	return &AdvisoryError{Action: action, Kind: AdvisoryKindFailure, Message: err.Error(), Err: err}
}

// NewAdvisoryValidation builds a validation-kind AdvisoryError.
func NewAdvisoryValidation(action AdvisoryAction, msg string) *AdvisoryError {
	return &AdvisoryError{Action: action, Kind: AdvisoryKindValidation, Message: msg}
}
