package bodies

import (
	"errors"
	"fmt"
)

var (
	// ErrEpochOutOfRange is returned when a time series cannot answer a query
	// epoch outside of its [first, last] sample epochs.
	ErrEpochOutOfRange = errors.New("epoch out of range")
	// ErrMalformedTrajectoryRecord is returned when a trajectory record cannot be
	// parsed into an epoch, a position and a velocity.
	ErrMalformedTrajectoryRecord = errors.New("malformed trajectory record")
	// ErrEmptyTrajectory is returned when a trajectory holds no sample.
	ErrEmptyTrajectory = errors.New("empty trajectory")
	// ErrUnsortedTrajectory is returned when sample epochs decrease.
	ErrUnsortedTrajectory = errors.New("trajectory epochs are not sorted")
	// ErrEphemerisUnavailable is returned when a body has no way to compute its ephemeris.
	ErrEphemerisUnavailable = errors.New("ephemeris unavailable")
	// ErrDivisionByZero is returned when the spacecraft sits exactly at the body center.
	ErrDivisionByZero = errors.New("spacecraft position coincides with body center")
	// ErrInvalidParameter is returned for negative or NaN physical constants and empty names.
	ErrInvalidParameter = errors.New("invalid parameter")
)

// EpochRangeError reports a query epoch outside the span of a time series.
type EpochRangeError struct {
	Source      string
	Epoch       float64
	First, Last float64
}

func (e *EpochRangeError) Error() string {
	return fmt.Sprintf("%s: epoch %v not in [%v, %v]", e.Source, e.Epoch, e.First, e.Last)
}

// Is makes errors.Is(err, ErrEpochOutOfRange) hold.
func (e *EpochRangeError) Is(target error) bool {
	return target == ErrEpochOutOfRange
}

// RecordError reports the trajectory record which aborted a load.
type RecordError struct {
	Source string
	Line   int
	Record string
	Err    error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("%s:%d: %s: %q: %s", e.Source, e.Line, ErrMalformedTrajectoryRecord, e.Record, e.Err)
}

// Is makes errors.Is(err, ErrMalformedTrajectoryRecord) hold.
func (e *RecordError) Is(target error) bool {
	return target == ErrMalformedTrajectoryRecord
}

func (e *RecordError) Unwrap() error {
	return e.Err
}
