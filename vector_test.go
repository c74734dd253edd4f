package bodies

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

func TestVec3Arithmetic(t *testing.T) {
	a := Vec3{1, 2, 3}
	b := Vec3{-4, 0.5, 10}
	if a.Add(b) != (Vec3{-3, 2.5, 13}) {
		t.Fatalf("add: %s", a.Add(b))
	}
	if a.Sub(b) != (Vec3{5, 1.5, -7}) {
		t.Fatalf("sub: %s", a.Sub(b))
	}
	if a.Scale(-2) != (Vec3{-2, -4, -6}) {
		t.Fatalf("scale: %s", a.Scale(-2))
	}
	if a != (Vec3{1, 2, 3}) {
		t.Fatal("receiver modified")
	}
	if !scalar.EqualWithinAbs(a.Norm(), math.Sqrt(14), 1e-15) || a.Norm2() != 14 {
		t.Fatalf("norm: %f %f", a.Norm(), a.Norm2())
	}
	if a.Dot(b) != 27 {
		t.Fatalf("dot: %f", a.Dot(b))
	}
}

func TestVec3Cross(t *testing.T) {
	i := Vec3{1, 0, 0}
	j := Vec3{0, 1, 0}
	k := Vec3{0, 0, 1}
	if i.Cross(j) != k {
		t.Fatal("i x j != k")
	}
	if j.Cross(k) != i {
		t.Fatal("j x k != i")
	}
	// From Vallado
	if !(Vec3{6524.834, 6862.875, 6448.296}).Cross(Vec3{4.901327, 5.533756, -1.976341}).Equals(Vec3{-4.924667792015100e4, 4.450050424118601e4, 0.246964476137900e4}, 1e-9) {
		t.Fatal("cross fail")
	}
}

func TestVec3Unit(t *testing.T) {
	if (Vec3{}).Unit() != (Vec3{}) {
		t.Fatal("unit of null vector")
	}
	u := Vec3{3, 0, 4}.Unit()
	if !u.Equals(Vec3{0.6, 0, 0.8}, 1e-15) {
		t.Fatalf("unit: %s", u)
	}
	if !(Vec3{1, math.NaN(), 0}).IsNaN() || (Vec3{}).IsNaN() {
		t.Fatal("IsNaN")
	}
}

func TestBlend(t *testing.T) {
	r := blend(Vec3{1, 0, -2}, Vec3{2, 4, 2}, 0.25, 0.75)
	if !r.Equals(Vec3{1.75, 3, 1}, 1e-15) {
		t.Fatalf("blend: %s", r)
	}
	if blend(Vec3{1, 2, 3}, Vec3{9, 9, 9}, 1, 0) != (Vec3{1, 2, 3}) {
		t.Fatal("blend with unit weight")
	}
}
