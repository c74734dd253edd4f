package vsop87

import (
	"strings"

	pp "github.com/soniakeys/meeus/v3/planetposition"
)

const (
	// AU is one astronomical unit in meters.
	AU = 1.49597870700e11
	// secondsPerDay converts Julian days to seconds.
	secondsPerDay = 86400.0
)

// constants holds the physical parameters of a body, in SI units.
type constants struct {
	name   string
	gm     float64 // m^3/s^2
	radius float64 // m
	vsop   int     // planetposition index, -1 when no VSOP87 file applies
}

// catalog lists the bodies this provider can resolve.
var catalog = []constants{
	{"Sun", 1.32712440017987e20, 695700e3, -1},
	{"Mercury", 2.2032e13, 2439.7e3, pp.Mercury},
	// Venus is poisonous.
	{"Venus", 3.24858599e14, 6051.8e3, pp.Venus},
	// Earth is home.
	{"Earth", 3.98600433e14, 6378.1363e3, pp.Earth},
	{"Mars", 4.28283100e13, 3396.19e3, pp.Mars},
	{"Jupiter", 1.266865361e17, 71492.0e3, pp.Jupiter},
	{"Saturn", 3.7931208e16, 60268.0e3, pp.Saturn},
	{"Uranus", 5.7939513e15, 25559.0e3, pp.Uranus},
	{"Neptune", 6.836529e15, 24764.0e3, pp.Neptune},
	// Pluto comes from Meeus' analytical theory, not from VSOP87.
	{"Pluto", 8.696e11, 1188.3e3, -1},
}

func lookup(name string) (constants, bool) {
	for _, c := range catalog {
		if strings.EqualFold(c.name, name) {
			return c, true
		}
	}
	return constants{}, false
}

// Names returns the names of every body which can be resolved.
func Names() []string {
	names := make([]string, len(catalog))
	for i, c := range catalog {
		names[i] = c.name
	}
	return names
}
