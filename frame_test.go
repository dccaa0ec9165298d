package ascent

import (
	"math"
	"testing"

	"github.com/gonum/floats"
)

func TestNavballOrthonormal(t *testing.T) {
	r := []float64{Earth.Radius, 1000, 2000}
	nav := Navball(r)
	for _, axis := range [][]float64{nav.Up, nav.North, nav.East} {
		if !floats.EqualWithinAbs(Norm(axis), 1, 1e-9) {
			t.Fatalf("axis %v is not unit length: %f", axis, Norm(axis))
		}
	}
	if !floats.EqualWithinAbs(Dot(nav.Up, nav.North), 0, 1e-9) {
		t.Fatalf("up . north = %f, want 0", Dot(nav.Up, nav.North))
	}
	if !floats.EqualWithinAbs(Dot(nav.Up, nav.East), 0, 1e-9) {
		t.Fatalf("up . east = %f, want 0", Dot(nav.Up, nav.East))
	}
	if !floats.EqualWithinAbs(Dot(nav.North, nav.East), 0, 1e-9) {
		t.Fatalf("north . east = %f, want 0", Dot(nav.North, nav.East))
	}
}

func TestCircumferentialOrthonormal(t *testing.T) {
	r := []float64{Earth.Radius + 200000, 0, 0}
	v := []float64{0, 7800, 0}
	rnc := Circumferential(r, v)
	if !floats.EqualWithinAbs(Dot(rnc.Radial, rnc.Normal), 0, 1e-9) {
		t.Fatalf("radial . normal = %f, want 0", Dot(rnc.Radial, rnc.Normal))
	}
	if !floats.EqualWithinAbs(Dot(rnc.Radial, rnc.Circumferential), 0, 1e-9) {
		t.Fatalf("radial . circumferential = %f, want 0", Dot(rnc.Radial, rnc.Circumferential))
	}
	if !floats.EqualWithinAbs(Dot(v, rnc.Circumferential), Norm(v), 1e-6) {
		t.Fatalf("purely tangential velocity should project entirely onto circumferential axis")
	}
}

func TestRodriguesIdentityAndQuarterTurn(t *testing.T) {
	v := []float64{1, 0, 0}
	axis := []float64{0, 0, 1}

	same := Rodrigues(v, axis, 0)
	for i := range v {
		if !floats.EqualWithinAbs(same[i], v[i], 1e-9) {
			t.Fatalf("Rodrigues(v, axis, 0) = %v, want %v", same, v)
		}
	}

	quarter := Rodrigues(v, axis, 90)
	want := []float64{0, 1, 0}
	for i := range want {
		if !floats.EqualWithinAbs(quarter[i], want[i], 1e-9) {
			t.Fatalf("Rodrigues(v, axis, 90) = %v, want %v", quarter, want)
		}
	}
}

func TestAttitudeVectorAtZeroPitchYawIsUp(t *testing.T) {
	r := []float64{Earth.Radius, 0, 0}
	nav := Navball(r)
	dir := AttitudeVector(nav, 0, 0)
	for i := range dir {
		if !floats.EqualWithinAbs(dir[i], nav.Up[i], 1e-9) {
			t.Fatalf("AttitudeVector at pitch=yaw=0 = %v, want up = %v", dir, nav.Up)
		}
	}
}

func TestSurfaceVelocityMagnitudeAtEquator(t *testing.T) {
	r := []float64{Earth.Radius, 0, 0}
	nav := Navball(r)
	sv := SurfaceVelocity(Earth, r, nav)
	want := 2 * math.Pi * Earth.Radius / Earth.RotationPeriod
	if !floats.EqualWithinAbs(Norm(sv), want, 1e-6) {
		t.Fatalf("equatorial surface speed = %f, want %f", Norm(sv), want)
	}
}
