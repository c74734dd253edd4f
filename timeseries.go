package bodies

import (
	"fmt"
	"sync"
)

// Sample is a recorded state of a body.
type Sample struct {
	Epoch float64
	R, V  Vec3
}

// TimeSeries is the ephemeris of a body known only through recorded samples.
// It is immutable once built, hence safe for concurrent queries.
type TimeSeries struct {
	source  string
	samples []Sample
	metrics *Metrics
}

// NewTimeSeries returns the time series of the provided samples, which must be non-empty
// and sorted by non-decreasing epoch. Duplicate epochs are kept. The slice is copied.
func NewTimeSeries(source string, samples []Sample) (*TimeSeries, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("%s: %w", source, ErrEmptyTrajectory)
	}
	for i := 1; i < len(samples); i++ {
		if !(samples[i].Epoch >= samples[i-1].Epoch) {
			return nil, &RecordError{
				Source: source,
				Line:   i + 1,
				Record: fmt.Sprintf("epoch %v after %v", samples[i].Epoch, samples[i-1].Epoch),
				Err:    ErrUnsortedTrajectory,
			}
		}
	}
	cpy := make([]Sample, len(samples))
	copy(cpy, samples)
	return &TimeSeries{source: source, samples: cpy}, nil
}

// Source returns where the samples were loaded from.
func (t *TimeSeries) Source() string {
	return t.source
}

// Len returns the number of samples.
func (t *TimeSeries) Len() int {
	return len(t.samples)
}

// Span returns the first and last sample epochs, which bound the valid query domain.
func (t *TimeSeries) Span() (first, last float64) {
	return t.samples[0].Epoch, t.samples[len(t.samples)-1].Epoch
}

// Samples returns a copy of the samples.
func (t *TimeSeries) Samples() []Sample {
	cpy := make([]Sample, len(t.samples))
	copy(cpy, t.samples)
	return cpy
}

// Ephemeris returns the position and velocity at the provided epoch.
// A sample recorded at exactly that epoch is returned as is (the first one wins when
// epochs are duplicated). Otherwise both vectors are linearly interpolated between the
// bracketing samples. Epochs outside [first, last] fail with an *EpochRangeError.
func (t *TimeSeries) Ephemeris(epoch float64) (r, v Vec3, err error) {
	for i, cur := range t.samples {
		if cur.Epoch > epoch {
			// Only reachable on the first sample: the epoch precedes the series.
			break
		}
		if cur.Epoch == epoch {
			t.metrics.lookup(t.source, lookupExact)
			return cur.R, cur.V, nil
		}
		if i+1 == len(t.samples) {
			break
		}
		next := t.samples[i+1]
		if next.Epoch == epoch {
			t.metrics.lookup(t.source, lookupExact)
			return next.R, next.V, nil
		}
		if cur.Epoch < epoch && epoch < next.Epoch {
			dt := next.Epoch - cur.Epoch
			wCur := (next.Epoch - epoch) / dt
			wNext := (epoch - cur.Epoch) / dt
			t.metrics.lookup(t.source, lookupInterpolated)
			return blend(cur.R, next.R, wCur, wNext), blend(cur.V, next.V, wCur, wNext), nil
		}
	}
	t.metrics.lookup(t.source, lookupOutOfRange)
	first, last := t.Span()
	return r, v, &EpochRangeError{Source: t.source, Epoch: epoch, First: first, Last: last}
}

// LazyTimeSeries defers the load of a trajectory to its first query. The load happens
// exactly once and completes before any query is answered; a failed load is returned
// by every query.
type LazyTimeSeries struct {
	source string
	load   func() (*TimeSeries, error)
	once   sync.Once
	ts     *TimeSeries
	err    error
}

// NewLazyTimeSeries returns a LazyTimeSeries which calls load on first use.
func NewLazyTimeSeries(source string, load func() (*TimeSeries, error)) *LazyTimeSeries {
	return &LazyTimeSeries{source: source, load: load}
}

// Source returns the trajectory source.
func (l *LazyTimeSeries) Source() string {
	return l.source
}

// TimeSeries loads the trajectory if needed and returns it.
func (l *LazyTimeSeries) TimeSeries() (*TimeSeries, error) {
	l.once.Do(func() {
		l.ts, l.err = l.load()
	})
	return l.ts, l.err
}

// Ephemeris implements Ephemeris.
func (l *LazyTimeSeries) Ephemeris(epoch float64) (r, v Vec3, err error) {
	ts, err := l.TimeSeries()
	if err != nil {
		return r, v, err
	}
	return ts.Ephemeris(epoch)
}
