package bodies

import (
	"fmt"
	"math"
)

// Ephemeris answers the position and velocity of a body at an epoch.
type Ephemeris interface {
	Ephemeris(epoch float64) (r, v Vec3, err error)
}

// Body is the capability set shared by every gravitating body: physical constants
// and an ephemeris.
type Body interface {
	Ephemeris
	Constants() (mu, radius float64)
}

// Kind tells how a CelestialBody sources its ephemeris.
type Kind uint8

const (
	// BaseKind bodies only carry constants.
	BaseKind Kind = iota
	// KnownKind bodies delegate to an external planetary provider.
	KnownKind
	// TimeSeriesKind bodies interpolate a recorded trajectory.
	TimeSeriesKind
)

func (k Kind) String() string {
	switch k {
	case KnownKind:
		return "known"
	case TimeSeriesKind:
		return "time-series"
	default:
		return "base"
	}
}

// CelestialBody is a gravitating body: a name, a gravitational parameter μ (m^3/s^2),
// an equatorial radius (m) and an optional ephemeris source.
type CelestialBody struct {
	Name   string
	μ      float64
	radius float64
	kind   Kind
	eph    Ephemeris
	source string
}

// NewBody returns a body which only knows its constants. Any ephemeris query on it
// fails with ErrEphemerisUnavailable.
func NewBody(name string, mu, radius float64) (*CelestialBody, error) {
	if err := checkConstants(name, mu, radius); err != nil {
		return nil, err
	}
	return &CelestialBody{Name: name, μ: mu, radius: radius, kind: BaseKind}, nil
}

// NewTimeSeriesBody returns a body whose ephemeris comes from a recorded trajectory,
// typically a *TimeSeries or a *LazyTimeSeries.
func NewTimeSeriesBody(name string, mu, radius float64, eph Ephemeris) (*CelestialBody, error) {
	if err := checkConstants(name, mu, radius); err != nil {
		return nil, err
	}
	if eph == nil {
		return nil, fmt.Errorf("%s: nil trajectory: %w", name, ErrInvalidParameter)
	}
	b := &CelestialBody{Name: name, μ: mu, radius: radius, kind: TimeSeriesKind, eph: eph}
	if s, ok := eph.(interface{ Source() string }); ok {
		b.source = s.Source()
	}
	return b, nil
}

// GM returns μ (which is unexported because it's a lowercase letter).
func (c *CelestialBody) GM() float64 {
	return c.μ
}

// Radius returns the equatorial radius.
func (c *CelestialBody) Radius() float64 {
	return c.radius
}

// SetGM updates μ.
func (c *CelestialBody) SetGM(mu float64) error {
	if !validConstant(mu) {
		return fmt.Errorf("%s: μ = %v: %w", c.Name, mu, ErrInvalidParameter)
	}
	c.μ = mu
	return nil
}

// SetRadius updates the equatorial radius.
func (c *CelestialBody) SetRadius(radius float64) error {
	if !validConstant(radius) {
		return fmt.Errorf("%s: radius = %v: %w", c.Name, radius, ErrInvalidParameter)
	}
	c.radius = radius
	return nil
}

// Constants implements Body.
func (c *CelestialBody) Constants() (mu, radius float64) {
	return c.μ, c.radius
}

// Kind returns how this body sources its ephemeris.
func (c *CelestialBody) Kind() Kind {
	return c.kind
}

// Source returns the trajectory file of a time-series body or the provider name of a
// known body.
func (c *CelestialBody) Source() string {
	return c.source
}

// Ephemeris implements Body. Errors of the underlying source are returned as is.
func (c *CelestialBody) Ephemeris(epoch float64) (r, v Vec3, err error) {
	if c.eph == nil {
		return r, v, fmt.Errorf("%s: %w", c.Name, ErrEphemerisUnavailable)
	}
	return c.eph.Ephemeris(epoch)
}

// RelativePosition returns the position of the spacecraft with respect to this body.
func (c *CelestialBody) RelativePosition(epoch float64, sc Vec3) (Vec3, error) {
	return RelativePosition(c, epoch, sc)
}

// AccelerationIntensity returns the gravitational acceleration magnitude felt by the
// spacecraft.
func (c *CelestialBody) AccelerationIntensity(epoch float64, sc Vec3) (float64, error) {
	return AccelerationIntensity(c, epoch, sc)
}

// String implements the Stringer interface.
func (c *CelestialBody) String() string {
	return fmt.Sprintf("%s (%s body, μ = %g m^3/s^2, radius = %g m)", c.Name, c.kind, c.μ, c.radius)
}

// RelativePosition returns sc - r where r is the position of the body at the epoch.
func RelativePosition(b Ephemeris, epoch float64, sc Vec3) (Vec3, error) {
	r, _, err := b.Ephemeris(epoch)
	if err != nil {
		return Vec3{}, err
	}
	return sc.Sub(r), nil
}

// AccelerationIntensity returns μ/|r|² where r is the relative position of the
// spacecraft. The direction is left to the caller (see RelativePosition).
func AccelerationIntensity(b Body, epoch float64, sc Vec3) (float64, error) {
	rel, err := RelativePosition(b, epoch, sc)
	if err != nil {
		return 0, err
	}
	mu, _ := b.Constants()
	r2 := rel.Norm2()
	acc := mu / r2
	// A subnormal r2 overflows the quotient as surely as a zero one.
	if r2 == 0 || math.IsInf(acc, 0) {
		return 0, fmt.Errorf("epoch %v, spacecraft at %s: %w", epoch, sc, ErrDivisionByZero)
	}
	return acc, nil
}

func validConstant(x float64) bool {
	return x >= 0 && !math.IsInf(x, 1)
}

func checkConstants(name string, mu, radius float64) error {
	if !validConstant(mu) {
		return fmt.Errorf("%s: μ = %v: %w", name, mu, ErrInvalidParameter)
	}
	if !validConstant(radius) {
		return fmt.Errorf("%s: radius = %v: %w", name, radius, ErrInvalidParameter)
	}
	return nil
}
