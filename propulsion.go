package ascent

// Thrust returns the summed thrust (N) and mass flow (kg/s) of an engine
// set at ambient pressure p (atm), per spec.md §6's `get_thrust`
// collaborator contract.
func Thrust(engines []Engine, pressureAtm float64) (force, massFlow float64) {
	for _, e := range engines {
		force += ApproxFromCurve(pressureAtm, e.ThrustCurve)
		massFlow += ApproxFromCurve(pressureAtm, e.MassFlowCurve)
	}
	return
}

// PropulsionState is the result of evaluating a stage's propulsion model
// for one integration step, per spec.md §4.3.
type PropulsionState struct {
	Force    float64 // N
	MassFlow float64 // kg/s
	Throttle float64 // [0,1]
}

// Evaluate computes thrust and mass flow for a stage given ambient pressure
// and current vehicle mass, applying the constant-acceleration throttle
// clamp described in spec.md §4.3. Coast (no engines) yields a zero state.
func Evaluate(stage Stage, env Environment, pressureAtm, mass float64) PropulsionState {
	if len(stage.Engines) == 0 {
		return PropulsionState{}
	}
	force, massFlow := Thrust(stage.Engines, pressureAtm)
	switch stage.Mode {
	case ConstantAcceleration:
		if force == 0 {
			return PropulsionState{}
		}
		desiredThrust := stage.GLimit * env.G0 * mass
		throttle := desiredThrust / force
		throttleMin, throttleMax := throttleRange(stage.Engines)
		throttle = clamp(throttle, throttleMin, throttleMax)
		return PropulsionState{Force: force * throttle, MassFlow: massFlow * throttle, Throttle: throttle}
	default: // ConstantThrust
		return PropulsionState{Force: force, MassFlow: massFlow, Throttle: 1}
	}
}

// throttleRange returns the widest [min,max] throttle band across an
// engine set: the union of all engines' ranges rather than the first
// engine's alone, so a mixed set never clamps tighter than any single
// engine allows.
func throttleRange(engines []Engine) (min, max float64) {
	min, max = 0, 1
	if len(engines) > 0 {
		min, max = engines[0].ThrottleMin, engines[0].ThrottleMax
	}
	for _, e := range engines {
		if e.ThrottleMin < min {
			min = e.ThrottleMin
		}
		if e.ThrottleMax > max {
			max = e.ThrottleMax
		}
	}
	return
}
