package bodies

import "fmt"

// Provider is an external planetary ephemeris for a single body. Its constants are
// read once when the body is built.
type Provider interface {
	Ephemeris
	GM() float64
	Radius() float64
}

// Resolver finds the Provider of a body from its name.
type Resolver interface {
	Resolve(name string) (Provider, error)
}

// ResolverFunc adapts a function to a Resolver.
type ResolverFunc func(name string) (Provider, error)

// Resolve implements Resolver.
func (f ResolverFunc) Resolve(name string) (Provider, error) {
	return f(name)
}

// NewKnownBody returns a body whose ephemeris and constants come from the provider
// resolved for its name. The ephemeris is a pass-through: provider errors reach the
// caller unchanged.
func NewKnownBody(name string, res Resolver) (*CelestialBody, error) {
	if name == "" {
		return nil, fmt.Errorf("known body without a name: %w", ErrInvalidParameter)
	}
	if res == nil {
		return nil, fmt.Errorf("%s: nil resolver: %w", name, ErrInvalidParameter)
	}
	p, err := res.Resolve(name)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", name, err)
	}
	mu, radius := p.GM(), p.Radius()
	if err := checkConstants(name, mu, radius); err != nil {
		return nil, err
	}
	return &CelestialBody{Name: name, μ: mu, radius: radius, kind: KnownKind, eph: p, source: name}, nil
}
