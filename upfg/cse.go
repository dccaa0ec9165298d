package upfg

import "math"

// CSEState is the conic-state-extrapolation working state carried between
// calls, named for the original's "cser" record. Primed marks the state as
// holding a previous extrapolation; when its A matches the current orbit,
// Propagate reuses the previous universal anomaly as its Newton-iteration
// seed instead of guessing from scratch.
type CSEState struct {
	DtPrime float64 // s, time span the last extrapolation covered
	Xprime  float64 // universal anomaly at the end of the last extrapolation
	A       float64 // 1/semimajor axis, from the last extrapolation
	Primed  bool
}

// stumpff returns the C2/C3 Stumpff functions of z, per the standard
// universal-variable formulation (Vallado, "Fundamentals of Astrodynamics
// and Applications").
func stumpff(z float64) (c2, c3 float64) {
	switch {
	case z > 1e-6:
		sq := math.Sqrt(z)
		c2 = (1 - math.Cos(sq)) / z
		c3 = (sq - math.Sin(sq)) / (sq * sq * sq)
	case z < -1e-6:
		sq := math.Sqrt(-z)
		c2 = (math.Cosh(sq) - 1) / (-z)
		c3 = (math.Sinh(sq) - sq) / (sq * sq * sq)
	default:
		c2 = 0.5
		c3 = 1.0 / 6.0
	}
	return
}

// Propagate extrapolates (r, v) forward by dt seconds under two-body
// gravity with parameter mu, using the universal-variable Kepler solver.
// It returns the propagated position/velocity and an updated CSEState
// whose Xprime seeds the next call's Newton iteration, so repeated short
// extrapolations (as guidance issues every cycle) stay cheap to solve.
func Propagate(cse CSEState, mu float64, r, v []float64, dt float64) ([]float64, []float64, CSEState) {
	r0n := norm(r)
	v0n := norm(v)
	vr0 := dot(r, v) / r0n
	alpha := 2/r0n - v0n*v0n/mu

	x := math.Sqrt(mu) * math.Abs(alpha) * dt
	if cse.Primed && cse.A == alpha {
		x = cse.Xprime
	}

	var c2, c3, r1 float64
	for i := 0; i < 50; i++ {
		z := alpha * x * x
		c2, c3 = stumpff(z)
		r1 = x*x*c2 + (r0n*vr0/math.Sqrt(mu))*x*(1-z*c3) + r0n*(1-z*c2)
		f := (r0n*vr0/math.Sqrt(mu))*x*x*c2 + (1-alpha*r0n)*x*x*x*c3 + r0n*x - math.Sqrt(mu)*dt
		if r1 == 0 {
			break
		}
		dx := -f / r1
		x += dx
		if math.Abs(dx) < 1e-8 {
			break
		}
	}

	z := alpha * x * x
	c2, c3 = stumpff(z)
	f := 1 - (x*x/r0n)*c2
	g := dt - (x*x*x/math.Sqrt(mu))*c3

	rNew := make([]float64, 3)
	for i := range rNew {
		rNew[i] = f*r[i] + g*v[i]
	}
	rNewN := norm(rNew)

	fdot := (math.Sqrt(mu)/(rNewN*r0n))*x*(z*c3-1)
	gdot := 1 - (x*x/rNewN)*c2

	vNew := make([]float64, 3)
	for i := range vNew {
		vNew[i] = fdot*r[i] + gdot*v[i]
	}

	return rNew, vNew, CSEState{DtPrime: dt, Xprime: x, A: alpha, Primed: true}
}

func norm(v []float64) float64 {
	var s float64
	for _, x := range v {
		s += x * x
	}
	return math.Sqrt(s)
}

func dot(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

func sub(a, b []float64) []float64 {
	out := make([]float64, len(a))
	for i := range a {
		out[i] = a[i] - b[i]
	}
	return out
}

func add(a, b []float64) []float64 {
	out := make([]float64, len(a))
	for i := range a {
		out[i] = a[i] + b[i]
	}
	return out
}

func scale(a []float64, s float64) []float64 {
	out := make([]float64, len(a))
	for i := range a {
		out[i] = a[i] * s
	}
	return out
}

func unit(a []float64) []float64 {
	n := norm(a)
	if n == 0 {
		return []float64{0, 0, 0}
	}
	return scale(a, 1/n)
}

func cross(a, b []float64) []float64 {
	return []float64{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}
