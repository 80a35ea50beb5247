package apperr

import (
	"errors"
	"fmt"
)

// Error kinds shared by the calculation packages. Callers match them with errors.Is.
var (
	ErrInvalidInput               = errors.New("invalid input")
	ErrHolidayResourceUnavailable = errors.New("holiday resource unavailable")
	ErrHolidayResourceMalformed   = errors.New("holiday resource malformed")
	ErrUnexpectedComputation      = errors.New("unexpected computation error")
)

// InvalidInput returns an error of kind ErrInvalidInput with a formatted reason
func InvalidInput(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// Unavailable returns an error of kind ErrHolidayResourceUnavailable wrapping the cause
func Unavailable(resource string, cause error) error {
	if cause == nil {
		return fmt.Errorf("%w: %s", ErrHolidayResourceUnavailable, resource)
	}
	return fmt.Errorf("%w: %s: %v", ErrHolidayResourceUnavailable, resource, cause)
}

// ComputationError carries enough context to reproduce a failed calculation
type ComputationError struct {
	Year               int
	Month              int
	HourlyRate         float64
	TransportAllowance float64
	AbsentDays         int
	Reason             string
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("%v: %s (year=%d month=%d hourly_rate=%v transport=%v absent_days=%d)",
		ErrUnexpectedComputation, e.Reason, e.Year, e.Month, e.HourlyRate, e.TransportAllowance, e.AbsentDays)
}

// Unwrap lets errors.Is match ErrUnexpectedComputation
func (e *ComputationError) Unwrap() error {
	return ErrUnexpectedComputation
}
