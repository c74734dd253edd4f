package bodies

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gonum.org/v1/gonum/floats"
)

func TestParseTrajectory(t *testing.T) {
	input := `# comment
0 1 0 0 0 1 0

5	1.5  0 0 0 1 0
10 2e0 0 0 0 1 0
`
	samples, err := ParseTrajectory(strings.NewReader(input), "inline")
	if err != nil {
		t.Fatal(err)
	}
	if len(samples) != 3 {
		t.Fatalf("got %d samples", len(samples))
	}
	if samples[1].Epoch != 5 || samples[1].R != (Vec3{1.5, 0, 0}) || samples[2].V != (Vec3{0, 1, 0}) {
		t.Fatalf("invalid samples %+v", samples)
	}
}

func TestParseTrajectoryMalformed(t *testing.T) {
	for _, tc := range []struct {
		name, input string
		line        int
		unsorted    bool
	}{
		{"missing field", "0 1 0 0 0 1 0\n5 1.5 0 0 0 1\n", 2, false},
		{"extra field", "0 1 0 0 0 1 0 9\n", 1, false},
		{"not a number", "0 1 0 0 0 1 0\n\n5 1.5 0 zero 0 1 0\n", 3, false},
		{"nan epoch", "NaN 1 0 0 0 1 0\n", 1, false},
		{"unsorted", "0 1 0 0 0 1 0\n10 2 0 0 0 1 0\n5 1.5 0 0 0 1 0\n", 3, true},
		{"overlong", "0 1 0 0 0 1 0\n" + strings.Repeat("7", 1<<17) + "\n", 2, false},
	} {
		samples, err := ParseTrajectory(strings.NewReader(tc.input), tc.name)
		if samples != nil {
			t.Fatalf("%s: partial load returned %d samples", tc.name, len(samples))
		}
		if !errors.Is(err, ErrMalformedTrajectoryRecord) {
			t.Fatalf("%s: expected ErrMalformedTrajectoryRecord, got %v", tc.name, err)
		}
		var recErr *RecordError
		if !errors.As(err, &recErr) || recErr.Line != tc.line || recErr.Source != tc.name {
			t.Fatalf("%s: invalid record error %v", tc.name, err)
		}
		if errors.Is(err, ErrUnsortedTrajectory) != tc.unsorted {
			t.Fatalf("%s: unsorted = %t: %v", tc.name, !tc.unsorted, err)
		}
	}
}

func TestWriteTrajectoryRoundTrip(t *testing.T) {
	samples := randomSeries(t, 20)
	var buf bytes.Buffer
	if err := WriteTrajectory(&buf, samples); err != nil {
		t.Fatal(err)
	}
	if lines := strings.Count(buf.String(), "\n"); lines != len(samples) {
		t.Fatalf("wrote %d lines", lines)
	}
	read, err := ParseTrajectory(&buf, "buffer")
	if err != nil {
		t.Fatal(err)
	}
	for i := range samples {
		if read[i] != samples[i] {
			t.Fatalf("sample %d changed\ngot %+v\nexp %+v", i, read[i], samples[i])
		}
	}
}

func TestTrajectoryLoader(t *testing.T) {
	loader := NewTrajectoryLoader("testdata", nil, nil)
	ts, err := loader.Load("line.traj")
	if err != nil {
		t.Fatal(err)
	}
	if ts.Len() != 2 || ts.Source() != filepath.Join("testdata", "line.traj") {
		t.Fatalf("invalid time series %s (%d samples)", ts.Source(), ts.Len())
	}
	R, V, err := ts.Ephemeris(5)
	if err != nil {
		t.Fatal(err)
	}
	if !R.Equals(Vec3{1.5, 0, 0}, 1e-15) || !V.Equals(Vec3{0, 1, 0}, 1e-15) {
		t.Fatalf("got %s %s", R, V)
	}

	if _, err := loader.Load("malformed.traj"); !errors.Is(err, ErrMalformedTrajectoryRecord) {
		t.Fatalf("expected ErrMalformedTrajectoryRecord, got %v", err)
	}
	if _, err := loader.Load("unsorted.traj"); !errors.Is(err, ErrUnsortedTrajectory) {
		t.Fatalf("expected ErrUnsortedTrajectory, got %v", err)
	}
	if _, err := loader.Load("missing.traj"); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected os.ErrNotExist, got %v", err)
	}

	empty := filepath.Join(t.TempDir(), "empty.traj")
	if err := os.WriteFile(empty, []byte("# nothing\n\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewTrajectoryLoader(filepath.Dir(empty), nil, nil).Load("empty.traj"); !errors.Is(err, ErrEmptyTrajectory) {
		t.Fatalf("expected ErrEmptyTrajectory, got %v", err)
	}
}

func TestTrajectoryLoaderLazy(t *testing.T) {
	dir := t.TempDir()
	loader := NewTrajectoryLoader(dir, nil, nil)
	lazy := loader.Lazy("later.traj")
	// Nothing is read before the first query.
	var buf bytes.Buffer
	if err := WriteTrajectory(&buf, []Sample{{0, Vec3{1, 0, 0}, Vec3{}}, {2, Vec3{3, 0, 0}, Vec3{}}}); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "later.traj"), buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	R, _, err := lazy.Ephemeris(1)
	if err != nil {
		t.Fatal(err)
	}
	if R != (Vec3{2, 0, 0}) {
		t.Fatalf("got %s", R)
	}
	if lazy.Source() != filepath.Join(dir, "later.traj") {
		t.Fatalf("source %s", lazy.Source())
	}
}

func TestSampleEphemeris(t *testing.T) {
	p := fakeProvider{gm: 1}
	samples, err := SampleEphemeris(p, 0, 1, 0.3)
	if err != nil {
		t.Fatal(err)
	}
	epochs := make([]float64, len(samples))
	for i, s := range samples {
		epochs[i] = s.Epoch
		if s.R != (Vec3{s.Epoch, 0, 0}) {
			t.Fatalf("sample %d: %s", i, s.R)
		}
	}
	if !floats.EqualApprox(epochs, []float64{0, 0.3, 0.6, 0.9, 1}, 1e-12) {
		t.Fatalf("epochs %v", epochs)
	}
	if samples[len(samples)-1].Epoch != 1 {
		t.Fatal("last epoch not included")
	}

	samples, err = SampleEphemeris(p, 2, 2, 1)
	if err != nil || len(samples) != 1 {
		t.Fatalf("single epoch: %d samples, %v", len(samples), err)
	}
	for _, bad := range [][3]float64{{0, 1, 0}, {0, 1, -1}, {1, 0, 0.1}, {0, 1e300, 1e-300}, {0, 1e12, 1}, {0, math.Inf(1), 1}} {
		if _, err := SampleEphemeris(p, bad[0], bad[1], bad[2]); !errors.Is(err, ErrInvalidParameter) {
			t.Fatalf("%v: expected ErrInvalidParameter, got %v", bad, err)
		}
	}
	providerErr := errors.New("nope")
	if _, err := SampleEphemeris(fakeProvider{err: providerErr}, 0, 1, 0.5); err != providerErr {
		t.Fatalf("expected provider error, got %v", err)
	}
}
