package ascent

import (
	"math"

	"github.com/ubik2/PEGAS-kRPC/upfg"
)

// OrbitalElements is the six classical orbital elements, in radians for
// angles, per spec.md §6's `get_orbital_elements` collaborator contract.
type OrbitalElements struct {
	SemiMajorAxis float64
	Eccentricity  float64
	Inclination   float64
	RAAN          float64
	ArgOfPeriapsis float64
	TrueAnomaly   float64
}

// Result is the finalized outcome of one Simulate phase, per spec.md §3.
type Result struct {
	FinalAltitude float64
	Apoapsis      float64
	Periapsis     float64
	Elements      OrbitalElements

	FinalSpeed          float64
	FinalRadialSpeed    float64
	FinalTangentialSpeed float64

	MaxDynamicPressure     float64
	MaxDynamicPressureTime float64

	GravityLoss float64
	DragLoss    float64

	RemainingBurnTime float64

	History []TrajectorySample

	TerminationCode TerminationCode
	UPFG            *upfg.Internal
}

// buildResult trims the history to its written length and derives the
// remaining result fields, per spec.md §4.7.
func buildResult(history *History, env Environment, code TerminationCode, gLoss, dLoss, maxQ, maxQTime, remainingBurn float64, finalUPFG *upfg.Internal) *Result {
	samples := history.Trim()
	last, ok := history.Last()
	if !ok {
		return &Result{TerminationCode: code, GravityLoss: gLoss, DragLoss: dLoss, History: samples, UPFG: finalUPFG}
	}

	elements, apoapsis, periapsis := orbitalElements(last.Position, last.Velocity, env.GM)
	rnc := Circumferential(last.Position, last.Velocity)

	return &Result{
		FinalAltitude:          last.PositionMagnitude - env.Radius,
		Apoapsis:               apoapsis,
		Periapsis:              periapsis,
		Elements:                elements,
		FinalSpeed:              last.SpeedMagnitude,
		FinalRadialSpeed:        Dot(last.Velocity, rnc.Radial),
		FinalTangentialSpeed:    Dot(last.Velocity, rnc.Circumferential),
		MaxDynamicPressure:      maxQ,
		MaxDynamicPressureTime:  maxQTime,
		GravityLoss:             gLoss,
		DragLoss:                dLoss,
		RemainingBurnTime:       math.Max(remainingBurn, 0),
		History:                 samples,
		TerminationCode:         code,
		UPFG:                    finalUPFG,
	}
}

// orbitalElements computes the six classical elements plus apoapsis and
// periapsis from a state vector, adapted from the teacher's
// Orbit.Elements() (Vallado, 4th edition, page 113, "RV2COE"), generalized
// from the teacher's body-centric Orbit type to a bare (r, v, mu) triple.
func orbitalElements(r, v []float64, mu float64) (OrbitalElements, float64, float64) {
	const eccentricityEps = 1e-7
	const angleEps = 1e-7

	hVec := Cross(r, v)
	n := Cross([]float64{0, 0, 1}, hVec)
	vn, rn := Norm(v), Norm(r)

	xi := (vn*vn)/2 - mu/rn
	a := -mu / (2 * xi)

	eVec := make([]float64, 3)
	for i := 0; i < 3; i++ {
		eVec[i] = ((vn*vn-mu/rn)*r[i] - Dot(r, v)*v[i]) / mu
	}
	e := Norm(eVec)
	if e < eccentricityEps {
		e = eccentricityEps
	}

	inc := math.Acos(clamp(hVec[2]/Norm(hVec), -1, 1))
	if inc < angleEps {
		inc = angleEps
	}

	raan := math.Acos(clamp(n[0]/Norm(n), -1, 1))
	if math.IsNaN(raan) {
		raan = angleEps
	}
	if n[1] < 0 {
		raan = 2*math.Pi - raan
	}

	argP := math.Acos(clamp(Dot(n, eVec)/(Norm(n)*e), -1, 1))
	if math.IsNaN(argP) {
		argP = 0
	}
	if eVec[2] < 0 {
		argP = 2*math.Pi - argP
	}

	cosNu := clamp(Dot(eVec, r)/(e*rn), -1, 1)
	nu := math.Acos(cosNu)
	if Dot(r, v) < 0 {
		nu = 2*math.Pi - nu
	}

	return OrbitalElements{
		SemiMajorAxis:  a,
		Eccentricity:   e,
		Inclination:    inc,
		RAAN:           raan,
		ArgOfPeriapsis: argP,
		TrueAnomaly:    nu,
	}, a * (1 + e), a * (1 - e)
}
