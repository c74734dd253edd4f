package bodies

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	kitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// recordFields is the number of fields of a trajectory record: epoch x y z vx vy vz.
const recordFields = 7

// ParseTrajectory reads every record of a trajectory source. Records are whitespace
// separated lines `epoch x y z vx vy vz`; blank lines and lines starting with `#` are
// skipped. The first malformed record aborts the parse with a *RecordError and no
// sample is returned.
func ParseTrajectory(r io.Reader, source string) ([]Sample, error) {
	var samples []Sample
	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanLines)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		s, err := parseRecord(line)
		if err != nil {
			return nil, &RecordError{Source: source, Line: lineNo, Record: line, Err: err}
		}
		if n := len(samples); n > 0 && s.Epoch < samples[n-1].Epoch {
			return nil, &RecordError{Source: source, Line: lineNo, Record: line, Err: ErrUnsortedTrajectory}
		}
		samples = append(samples, s)
	}
	if err := scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return nil, &RecordError{Source: source, Line: lineNo + 1, Err: err}
		}
		return nil, fmt.Errorf("reading %s: %w", source, err)
	}
	return samples, nil
}

func parseRecord(line string) (s Sample, err error) {
	fields := strings.Fields(line)
	if len(fields) != recordFields {
		return s, fmt.Errorf("got %d fields, want %d", len(fields), recordFields)
	}
	var vals [recordFields]float64
	for i, f := range fields {
		if vals[i], err = strconv.ParseFloat(f, 64); err != nil {
			return s, err
		}
	}
	if math.IsNaN(vals[0]) || math.IsInf(vals[0], 0) {
		return s, fmt.Errorf("non-finite epoch %v", vals[0])
	}
	s.Epoch = vals[0]
	copy(s.R[:], vals[1:4])
	copy(s.V[:], vals[4:7])
	return s, nil
}

// WriteTrajectory writes the samples in the format read by ParseTrajectory. Values are
// written with the shortest representation which parses back to the same float.
func WriteTrajectory(w io.Writer, samples []Sample) error {
	bw := bufio.NewWriter(w)
	fields := make([]string, recordFields)
	for _, s := range samples {
		fields[0] = strconv.FormatFloat(s.Epoch, 'g', -1, 64)
		for i := 0; i < 3; i++ {
			fields[1+i] = strconv.FormatFloat(s.R[i], 'g', -1, 64)
			fields[4+i] = strconv.FormatFloat(s.V[i], 'g', -1, 64)
		}
		if _, err := bw.WriteString(strings.Join(fields, " ") + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// maxSampledEpochs bounds the size of a tabulated ephemeris.
const maxSampledEpochs = 10000000

// SampleEphemeris tabulates an ephemeris every step from `from` until `to`, both included.
func SampleEphemeris(e Ephemeris, from, to, step float64) ([]Sample, error) {
	if !(step > 0) || !(to >= from) {
		return nil, fmt.Errorf("sampling [%v, %v] every %v: %w", from, to, step, ErrInvalidParameter)
	}
	count := math.Floor((to - from) / step)
	if !(count < maxSampledEpochs) {
		return nil, fmt.Errorf("sampling [%v, %v] every %v: more than %d epochs: %w", from, to, step, maxSampledEpochs, ErrInvalidParameter)
	}
	n := int(count)
	samples := make([]Sample, 0, n+2)
	for k := 0; k <= n; k++ {
		epoch := from + float64(k)*step
		if epoch > to {
			break
		}
		r, v, err := e.Ephemeris(epoch)
		if err != nil {
			return nil, err
		}
		samples = append(samples, Sample{Epoch: epoch, R: r, V: v})
	}
	if last := samples[len(samples)-1].Epoch; last < to {
		r, v, err := e.Ephemeris(to)
		if err != nil {
			return nil, err
		}
		samples = append(samples, Sample{Epoch: to, R: r, V: v})
	}
	return samples, nil
}

// TrajectoryLoader loads trajectory files from a single directory.
type TrajectoryLoader struct {
	Dir     string
	logger  kitlog.Logger
	metrics *Metrics
}

// NewTrajectoryLoader returns a loader of the trajectory files stored in dir. The logger
// and the metrics may be nil.
func NewTrajectoryLoader(dir string, logger kitlog.Logger, metrics *Metrics) *TrajectoryLoader {
	if logger == nil {
		logger = NopLogger()
	}
	return &TrajectoryLoader{Dir: dir, logger: kitlog.With(logger, "subsys", "trajectory"), metrics: metrics}
}

// Path returns the location of a trajectory file.
func (l *TrajectoryLoader) Path(file string) string {
	return filepath.Join(l.Dir, file)
}

// Load reads the whole trajectory file once and returns its time series.
func (l *TrajectoryLoader) Load(file string) (*TimeSeries, error) {
	path := l.Path(file)
	ts, err := l.load(path)
	if err != nil {
		l.metrics.loadFailed(path)
		level.Error(l.logger).Log("source", path, "err", err)
		return nil, err
	}
	first, last := ts.Span()
	l.metrics.loaded(path, ts.Len())
	level.Info(l.logger).Log("source", path, "samples", ts.Len(), "first", first, "last", last)
	return ts, nil
}

func (l *TrajectoryLoader) load(path string) (*TimeSeries, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	samples, err := ParseTrajectory(f, path)
	if err != nil {
		return nil, err
	}
	ts, err := NewTimeSeries(path, samples)
	if err != nil {
		return nil, err
	}
	ts.metrics = l.metrics
	return ts, nil
}

// Lazy returns a time series which loads the file on its first query.
func (l *TrajectoryLoader) Lazy(file string) *LazyTimeSeries {
	return NewLazyTimeSeries(l.Path(file), func() (*TimeSeries, error) {
		return l.Load(file)
	})
}
