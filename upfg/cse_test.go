package upfg

import (
	"math"
	"testing"

	"github.com/gonum/floats"
)

const earthMu = 3.986004418e14

func TestPropagateConservesCircularOrbit(t *testing.T) {
	radius := 6371000.0 + 200000
	speed := math.Sqrt(earthMu / radius)

	r := []float64{radius, 0, 0}
	v := []float64{0, speed, 0}

	period := 2 * math.Pi * math.Sqrt(radius*radius*radius/earthMu)
	rNew, vNew, _ := Propagate(CSEState{}, earthMu, r, v, period/4)

	if !floats.EqualWithinAbs(norm(rNew), radius, radius*1e-6) {
		t.Fatalf("propagated radius = %f, want ~%f (circular orbit radius preserved)", norm(rNew), radius)
	}
	if !floats.EqualWithinAbs(norm(vNew), speed, speed*1e-6) {
		t.Fatalf("propagated speed = %f, want ~%f (circular orbit speed preserved)", norm(vNew), speed)
	}
	// A quarter period of a circular orbit should land on the +y axis.
	if !floats.EqualWithinAbs(rNew[0], 0, radius*1e-6) {
		t.Fatalf("rNew = %v, want x~0 after a quarter period", rNew)
	}
	if !floats.EqualWithinAbs(rNew[1], radius, radius*1e-6) {
		t.Fatalf("rNew = %v, want y~%f after a quarter period", rNew, radius)
	}
}

func TestPropagateZeroTimeIsIdentity(t *testing.T) {
	r := []float64{7000000, 1000, 2000}
	v := []float64{10, 7500, 20}
	rNew, vNew, _ := Propagate(CSEState{}, earthMu, r, v, 0)
	for i := 0; i < 3; i++ {
		if !floats.EqualWithinAbs(rNew[i], r[i], 1e-3) {
			t.Fatalf("zero-dt propagation moved position: %v -> %v", r, rNew)
		}
		if !floats.EqualWithinAbs(vNew[i], v[i], 1e-3) {
			t.Fatalf("zero-dt propagation changed velocity: %v -> %v", v, vNew)
		}
	}
}

func TestStumpffAtZeroMatchesSeriesLimit(t *testing.T) {
	c2, c3 := stumpff(0)
	if !floats.EqualWithinAbs(c2, 0.5, 1e-12) {
		t.Fatalf("c2(0) = %f, want 0.5", c2)
	}
	if !floats.EqualWithinAbs(c3, 1.0/6.0, 1e-12) {
		t.Fatalf("c3(0) = %f, want 1/6", c3)
	}
}
