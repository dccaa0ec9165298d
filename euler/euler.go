// Package euler adapts the teacher repo's RK4 integrator idiom
// (src/integrator/rk4.go, integrable.go) to the fixed-step explicit Euler
// scheme spec.md §4.6 requires: each step evaluates the state derivative
// once and advances it linearly, rather than sampling it four times and
// blending.
//
// The Integrable contract is widened in two ways the teacher's RK4 never
// needed: Func also receives the step size that will be applied (a
// gravity-turn control law needs to know how far to ramp its pitch command
// this step before the derivative can be evaluated), and StepSize lets an
// Integrable driven by an external clock report back the actual elapsed
// time of the last step, per spec.md §9's "External clock injection"
// design note. A plain fixed-Δt Integrable just returns its nominal
// argument unchanged.
package euler

// Integrable defines something which can be integrated, i.e. has a state
// vector. Implementations manage their own state across iterations.
type Integrable interface {
	GetState() []float64            // Latest state of this integrable.
	SetState(i uint64, s []float64) // Set the state s of a given iteration i.
	Stop(i uint64) bool             // Whether to stop integration from iteration i.
	// StepSize reports the step size to use for the next step, given the
	// stepper's nominal configured size. Override to honor an
	// external clock; otherwise return nominal unchanged.
	StepSize(nominal float64) float64
	// Func is the derivative of s at time t, evaluated over a step of the
	// given size (needed by control laws that ramp a command linearly in
	// time, e.g. the gravity-turn kickover rate).
	Func(t, step float64, s []float64) []float64
}

// Stepper defines a fixed-step explicit Euler integrator.
type Stepper struct {
	X0         float64    // Initial independent variable.
	StepSize   float64    // Nominal step size.
	Integrable Integrable // What is to be integrated.
}

// NewStepper returns a configured Stepper.
func NewStepper(x0, stepSize float64, inte Integrable) *Stepper {
	if stepSize <= 0 {
		panic("config StepSize must be positive")
	}
	if inte == nil {
		panic("config Integrable may not be nil")
	}
	return &Stepper{X0: x0, StepSize: stepSize, Integrable: inte}
}

// Solve runs the configured Euler stepper to completion, returning the
// number of iterations performed and the final independent-variable value.
func (s *Stepper) Solve() (uint64, float64) {
	iterNum := uint64(0)
	xi := s.X0
	for !s.Integrable.Stop(iterNum) {
		state := s.Integrable.GetState()
		step := s.Integrable.StepSize(s.StepSize)
		deriv := s.Integrable.Func(xi, step, state)
		newState := make([]float64, len(state))
		for i, d := range deriv {
			newState[i] = state[i] + d*step
		}
		s.Integrable.SetState(iterNum, newState)

		xi += step
		iterNum++
	}
	return iterNum, xi
}
