package ascent

import (
	"math"
)

// Environment carries the process-wide physical constants and atmosphere
// tables. It replaces the teacher's singleton-backed `smdConfig()` global
// (see config.go in the teacher) with an immutable value built once at
// startup and threaded explicitly, per the spec's "no singletons" design
// note.
type Environment struct {
	GM               float64     // gravitational parameter, m^3/s^2
	Radius           float64     // planet radius, m
	G0               float64     // surface gravity, m/s^2
	RotationPeriod   float64     // sidereal rotation period, s
	ConvergenceLimit float64      // UPFG convergence criterion
	PressureTable    [][2]float64 // altitude [km] -> pressure [atm]
	TemperatureTable [][2]float64 // altitude [km] -> temperature [C]
}

// Earth is the default Environment used throughout the test suite and CLI,
// with tabulated US Standard Atmosphere values (truncated) in the style of
// the original `init_simulation` module.
var Earth = Environment{
	GM:               3.986004418e14,
	Radius:           6371000,
	G0:               9.80665,
	RotationPeriod:   86164.0905,
	ConvergenceLimit: 1e-4,
	PressureTable: [][2]float64{
		{0, 1.0},
		{11, 0.223},
		{20, 0.0541},
		{32, 0.00883},
		{47, 0.00111},
		{51, 0.000704},
		{71, 0.0000415},
		{84.852, 0.00000373},
		{1000, 0},
	},
	TemperatureTable: [][2]float64{
		{0, 15.0},
		{11, -56.5},
		{20, -56.5},
		{32, -44.5},
		{47, -2.5},
		{51, -2.5},
		{71, -58.5},
		{84.852, -86.2},
		{1000, -86.2},
	},
}

// NavballFrame is the local (up, north, east) orthonormal basis at a
// position, per spec.md §4.1.
type NavballFrame struct {
	Up, North, East []float64
}

// CircumferentialFrame is the local (radial, normal, circumferential)
// orthonormal basis at a (position, velocity) pair, per spec.md §4.1.
type CircumferentialFrame struct {
	Radial, Normal, Circumferential []float64
}

// spinAxis is the planet's rotation axis, assumed aligned with +Z, as in
// the original `get_navball_frame`.
var spinAxis = []float64{0, 0, 1}

// Navball builds the navball frame at position r.
func Navball(r []float64) NavballFrame {
	up := Unit(r)
	east := Unit(Cross(spinAxis, up))
	north := Unit(Cross(up, east))
	return NavballFrame{Up: up, North: north, East: east}
}

// Circumferential builds the radial-normal-circumferential frame at (r, v).
func Circumferential(r, v []float64) CircumferentialFrame {
	radial := Unit(r)
	normal := Unit(Cross(r, v))
	circum := Cross(normal, radial)
	return CircumferentialFrame{Radial: radial, Normal: normal, Circumferential: circum}
}

// SurfaceVelocity returns the inertial velocity of a point fixed to the
// rotating planet's surface at position r, per spec.md §4.1.
func SurfaceVelocity(env Environment, r []float64, nav NavballFrame) []float64 {
	lat := math.Asin(clamp(r[2]/Norm(r), -1, 1))
	speed := 2 * math.Pi * env.Radius * math.Cos(lat) / env.RotationPeriod
	return Scale(nav.East, speed)
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// Rodrigues rotates vector v about unit axis by angle (degrees), using
// Rodrigues' rotation formula.
func Rodrigues(v, axis []float64, angleDeg float64) []float64 {
	θ := Deg2rad(angleDeg)
	s, c := math.Sincos(θ)
	k := Unit(axis)
	kxv := Cross(k, v)
	kdotv := Dot(k, v)
	out := make([]float64, 3)
	for i := 0; i < 3; i++ {
		out[i] = v[i]*c + kxv[i]*s + k[i]*kdotv*(1-c)
	}
	return out
}

// AttitudeVector returns the unit inertial thrust direction for a commanded
// pitch (from up toward east) and yaw (rotated about up toward north),
// per spec.md §4.1.
func AttitudeVector(nav NavballFrame, pitchDeg, yawDeg float64) []float64 {
	v := Rodrigues(nav.Up, nav.North, pitchDeg)
	v = Rodrigues(v, nav.Up, yawDeg)
	return v
}

// AngleFromFrame returns the surface/orbital pitch or yaw angle (degrees)
// that vector dir makes with the given frame, matching the original
// `get_angle_from_frame` semantics: pitch is measured from the frame's
// "up" axis, yaw from its "east" axis projected onto the local horizon.
func AngleFromFrame(dir []float64, nav NavballFrame, which string) float64 {
	u := Unit(dir)
	switch which {
	case "pitch":
		cosp := clamp(Dot(u, nav.Up), -1, 1)
		return Rad2deg(math.Acos(cosp))
	case "yaw":
		horiz := Sub(u, Scale(nav.Up, Dot(u, nav.Up)))
		if Norm(horiz) < 1e-12 {
			return 0
		}
		horiz = Unit(horiz)
		return Rad2deg(math.Atan2(Dot(horiz, nav.North), Dot(horiz, nav.East)))
	default:
		panic("unknown angle kind: " + which)
	}
}
