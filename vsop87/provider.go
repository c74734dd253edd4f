// Package vsop87 resolves the ephemerides of the Sun and the planets from the VSOP87
// theory (and Pluto from Meeus' analytical series).
//
// Epochs are Julian Ephemeris Dates. Dates converted with EpochFromTime are Julian dates
// in UTC used as JDE, so ΔT (about a minute nowadays) is ignored. Positions are
// heliocentric, ecliptic J2000, in meters; velocities are in m/s.
package vsop87

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
	pp "github.com/soniakeys/meeus/v3/planetposition"
	"github.com/soniakeys/meeus/v3/pluto"
	"github.com/soniakeys/unit"

	bodies "github.com/tobspm/TS-v1-1"
)

// velocityStep is the half width, in days, of the central difference giving velocities.
const velocityStep = 1e-2

// ErrUnknownBody is returned for a name outside of the catalog.
var ErrUnknownBody = errors.New("unknown body")

var (
	// Meeus' Pluto series is only valid over 1885-2099.
	plutoFirst = julian.CalendarGregorianToJD(1885, 1, 1)
	plutoLast  = julian.CalendarGregorianToJD(2099, 12, 31)
)

// Resolver loads planets from the VSOP87B files stored in Dir.
type Resolver struct {
	Dir string
}

// NewResolver returns a resolver of the VSOP87 files in dir.
func NewResolver(dir string) *Resolver {
	return &Resolver{Dir: dir}
}

// Resolve implements bodies.Resolver.
func (r *Resolver) Resolve(name string) (bodies.Provider, error) {
	p, err := r.Planet(name)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Planet returns the provider of the named body. The VSOP87 file, if any, is loaded here
// and never again, so that queries do not mutate the planet.
func (r *Resolver) Planet(name string) (*Planet, error) {
	c, ok := lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w '%s'", ErrUnknownBody, name)
	}
	p := &Planet{name: c.name, gm: c.gm, radius: c.radius}
	switch {
	case c.name == "Pluto":
		p.position = pluto.Heliocentric
		p.first, p.last = plutoFirst, plutoLast
	case c.vsop >= 0:
		planet, err := pp.LoadPlanetPath(c.vsop, r.Dir)
		if err != nil {
			return nil, fmt.Errorf("could not load %s from %s: %v: %w", c.name, r.Dir, err, bodies.ErrEphemerisUnavailable)
		}
		p.position = planet.Position2000
		p.first, p.last = math.Inf(-1), math.Inf(1)
	}
	return p, nil
}

// Planet is the ephemeris of one body. The Sun is the origin.
type Planet struct {
	name        string
	gm, radius  float64
	position    func(jde float64) (l, b unit.Angle, r float64)
	first, last float64
}

// Name returns the name of the body.
func (p *Planet) Name() string {
	return p.name
}

// GM implements bodies.Provider.
func (p *Planet) GM() float64 {
	return p.gm
}

// Radius implements bodies.Provider.
func (p *Planet) Radius() float64 {
	return p.radius
}

// Ephemeris implements bodies.Provider. The velocity is the central difference of the
// positions velocityStep days around the epoch.
func (p *Planet) Ephemeris(jde float64) (r, v bodies.Vec3, err error) {
	if math.IsNaN(jde) || math.IsInf(jde, 0) {
		return r, v, fmt.Errorf("%s: epoch %v: %w", p.name, jde, bodies.ErrEphemerisUnavailable)
	}
	if p.position == nil {
		return r, v, nil
	}
	if jde < p.first || jde > p.last {
		return r, v, fmt.Errorf("%s: JDE %v not in [%v, %v]: %w", p.name, jde, p.first, p.last, bodies.ErrEphemerisUnavailable)
	}
	r = p.cartesian(jde)
	after, before := p.cartesian(jde+velocityStep), p.cartesian(jde-velocityStep)
	v = after.Sub(before).Scale(1 / (2 * velocityStep * secondsPerDay))
	return r, v, nil
}

// cartesian returns the position from the L, B, R spherical coordinates.
func (p *Planet) cartesian(jde float64) bodies.Vec3 {
	l, b, rAU := p.position(jde)
	r := rAU * AU
	sB, cB := math.Sincos(b.Rad())
	sL, cL := math.Sincos(l.Rad())
	return bodies.Vec3{r * cB * cL, r * cB * sL, r * sB}
}

func (p *Planet) String() string {
	return p.name + " (VSOP87)"
}

// EpochFromTime returns the Julian date of t in UTC. It is used as a JDE without any
// ΔT correction.
func EpochFromTime(t time.Time) float64 {
	return julian.TimeToJD(t.UTC())
}

// TimeFromEpoch returns the UTC time of a Julian date, ignoring ΔT.
func TimeFromEpoch(jde float64) time.Time {
	return julian.JDToTime(jde)
}
