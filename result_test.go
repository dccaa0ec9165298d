package ascent

import (
	"math"
	"testing"

	"github.com/gonum/floats"
)

func TestOrbitalElementsCircularOrbit(t *testing.T) {
	radius := Earth.Radius + 200000
	speed := math.Sqrt(Earth.GM / radius)

	r := []float64{radius, 0, 0}
	v := []float64{0, speed, 0}

	elements, apoapsis, periapsis := orbitalElements(r, v, Earth.GM)

	if !floats.EqualWithinAbs(elements.SemiMajorAxis, radius, 1) {
		t.Fatalf("semi-major axis = %f, want ~%f", elements.SemiMajorAxis, radius)
	}
	if elements.Eccentricity > 1e-3 {
		t.Fatalf("eccentricity = %f, want ~0 for a circular orbit", elements.Eccentricity)
	}
	if !floats.EqualWithinAbs(apoapsis, radius, 1) || !floats.EqualWithinAbs(periapsis, radius, 1) {
		t.Fatalf("apoapsis/periapsis = %f/%f, want both ~%f", apoapsis, periapsis, radius)
	}
}

func TestBuildResultEmptyHistory(t *testing.T) {
	h := NewHistory(10, 1)
	result := buildResult(h, Earth, FuelDepleted, 100, 50, 0, 0, 0, nil)
	if result.TerminationCode != FuelDepleted {
		t.Fatalf("termination code = %v, want FuelDepleted", result.TerminationCode)
	}
	if len(result.History) != 0 {
		t.Fatalf("history length = %d, want 0 for a phase with no written samples", len(result.History))
	}
	if result.GravityLoss != 100 || result.DragLoss != 50 {
		t.Fatalf("losses = %f/%f, want 100/50 preserved even with no samples", result.GravityLoss, result.DragLoss)
	}
}
