package ascent

import (
	"testing"

	"github.com/gonum/floats"
)

func TestThrustSumsAcrossEngines(t *testing.T) {
	engines := []Engine{
		{ThrustCurve: [][2]float64{{0, 1000}}, MassFlowCurve: [][2]float64{{0, 1}}},
		{ThrustCurve: [][2]float64{{0, 2000}}, MassFlowCurve: [][2]float64{{0, 2}}},
	}
	force, flow := Thrust(engines, 0)
	if !floats.EqualWithinAbs(force, 3000, 1e-9) {
		t.Fatalf("summed thrust = %f, want 3000", force)
	}
	if !floats.EqualWithinAbs(flow, 3, 1e-9) {
		t.Fatalf("summed mass flow = %f, want 3", flow)
	}
}

func TestEvaluateConstantThrustIgnoresGLimit(t *testing.T) {
	stage := Stage{
		Mode:        ConstantThrust,
		GLimit:      1,
		Engines:     []Engine{{ThrustCurve: [][2]float64{{0, 5000}}, MassFlowCurve: [][2]float64{{0, 2}}, ThrottleMax: 1}},
	}
	ps := Evaluate(stage, Earth, 0, 10000)
	if !floats.EqualWithinAbs(ps.Force, 5000, 1e-9) || ps.Throttle != 1 {
		t.Fatalf("constant-thrust evaluate = %+v", ps)
	}
}

func TestEvaluateConstantAccelerationClampsThrottle(t *testing.T) {
	stage := Stage{
		Mode:    ConstantAcceleration,
		GLimit:  4,
		Engines: []Engine{{ThrustCurve: [][2]float64{{0, 10000}}, MassFlowCurve: [][2]float64{{0, 4}}, ThrottleMin: 0.4, ThrottleMax: 1}},
	}
	// Desired thrust = GLimit*g0*mass = 4*9.80665*100 = 3922.66N, just below
	// the throttle-min floor of 4000N (10000*0.4), so the clamp should bind.
	ps := Evaluate(stage, Earth, 0, 100)
	if ps.Throttle != 0.4 {
		t.Fatalf("throttle = %f, want clamped to 0.4", ps.Throttle)
	}
	if !floats.EqualWithinAbs(ps.Force, 4000, 1e-9) {
		t.Fatalf("clamped force = %f, want 4000", ps.Force)
	}
}

func TestEvaluateCoastStageIsZero(t *testing.T) {
	ps := Evaluate(Stage{}, Earth, 0, 1000)
	if ps.Force != 0 || ps.MassFlow != 0 || ps.Throttle != 0 {
		t.Fatalf("coast stage evaluate = %+v, want all-zero", ps)
	}
}
