package bodies

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"
)

// Vec3 is a Cartesian vector. No unit conversion is ever performed on it.
type Vec3 [3]float64

// Add returns v + w.
func (v Vec3) Add(w Vec3) Vec3 {
	floats.Add(v[:], w[:])
	return v
}

// Sub returns v - w.
func (v Vec3) Sub(w Vec3) Vec3 {
	floats.Sub(v[:], w[:])
	return v
}

// Scale returns s*v.
func (v Vec3) Scale(s float64) Vec3 {
	floats.Scale(s, v[:])
	return v
}

// Norm returns the Euclidean norm of v.
func (v Vec3) Norm() float64 {
	return floats.Norm(v[:], 2)
}

// Norm2 returns the squared norm of v, computed without the square root.
func (v Vec3) Norm2() float64 {
	return floats.Dot(v[:], v[:])
}

// Dot returns the inner product of v and w.
func (v Vec3) Dot(w Vec3) float64 {
	return floats.Dot(v[:], w[:])
}

// Cross returns the cross product v x w.
func (v Vec3) Cross(w Vec3) Vec3 {
	return Vec3{v[1]*w[2] - v[2]*w[1],
		v[2]*w[0] - v[0]*w[2],
		v[0]*w[1] - v[1]*w[0]}
}

// Unit returns the unit vector of v, or the zero vector if v is null.
func (v Vec3) Unit() Vec3 {
	n := v.Norm()
	if scalar.EqualWithinAbs(n, 0, 1e-12) {
		return Vec3{}
	}
	return v.Scale(1 / n)
}

// Equals returns whether each component of v is within tol of w.
func (v Vec3) Equals(w Vec3, tol float64) bool {
	return floats.EqualApprox(v[:], w[:], tol)
}

// IsNaN returns whether any component is NaN.
func (v Vec3) IsNaN() bool {
	return math.IsNaN(v[0]) || math.IsNaN(v[1]) || math.IsNaN(v[2])
}

func (v Vec3) String() string {
	return fmt.Sprintf("(%g, %g, %g)", v[0], v[1], v[2])
}

// blend returns a*wa + b*wb.
func blend(a, b Vec3, wa, wb float64) (r Vec3) {
	floats.ScaleTo(r[:], wa, a[:])
	floats.AddScaled(r[:], wb, b[:])
	return
}
