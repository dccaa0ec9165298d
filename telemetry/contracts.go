// Package telemetry defines the two optional callback contracts the
// integrator accepts, per spec.md §6, and a websocket-backed transport
// implementing them over a live link.
package telemetry

// StateProbe returns the actual current vehicle state, overriding the
// integrator's own forecast update for this step. Invoked at most once
// per integration step, after thrust/drag are computed.
type StateProbe func() (position, velocity []float64, mass, time float64, err error)

// Actuator is invoked at the end of each step with the commanded
// attitude and throttle.
type Actuator func(pitchDeg, yawDeg, throttle float64) error
