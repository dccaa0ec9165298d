package ascent

import (
	"math"

	kitlog "github.com/go-kit/kit/log"
	"github.com/ubik2/PEGAS-kRPC/upfg"
)

// UPFGDriver runs the UPFG closed-loop guidance collaborator at a fixed
// cadence inside the integrator's faster step loop, per spec.md §4.5. It
// owns the *last-call* timer, the persisted guidance output, and the
// UPFG persistence record, and implements the sticky divergence pin.
type UPFGDriver struct {
	control  *UPFGControl
	env      Environment
	vehicle  Vehicle
	stageIdx int

	lastCall float64
	guidance upfg.Guidance
	internal *upfg.Internal

	prevTgo       float64
	havePrevTgo   bool
	divergeSticky bool
	logger        kitlog.Logger
}

// NewUPFGDriver constructs a driver for one guided phase and runs the
// §4.5 initialization convergence before the integrator ever calls Step:
// if inbound is present, its burn-time-elapsed is reset to zero and it is
// reconverged; otherwise a fresh seed is synthesized and converged: the
// target built by SynthesizeTarget (which performs the "project up(r)
// onto the target plane, rotate 20° prograde" seed formula) is handed to
// Guidance1 with a nil persistence record, which seeds the record from it.
// Without this, lastCall starts at zero and the first cadence-gated Step
// call holds the stale zero-valued guidance, spuriously reporting a
// guided cutoff on the very first integration step.
func NewUPFGDriver(control *UPFGControl, env Environment, vehicle Vehicle, stageIdx int, inbound *upfg.Internal, state upfg.State, anchorUnixSeconds float64, logger kitlog.Logger) *UPFGDriver {
	d := &UPFGDriver{control: control, env: env, vehicle: vehicle, stageIdx: stageIdx, logger: logger}

	var seed *upfg.Internal
	if inbound != nil {
		reset := *inbound
		reset.BurnTimeElapsed = 0
		seed = &reset
	}

	pressureAtm := env.Pressure(Norm(state.Position) - env.Radius)
	tail := VehicleTailSpecs(vehicle, stageIdx, pressureAtm, state.Mass)
	target := SynthesizeTarget(control.Target, state.Position)

	result := upfg.Converge(tail, target, state, seed, env.GM, 50, env.ConvergenceLimit, anchorUnixSeconds)
	if result.Diagnostic != "" {
		logger.Log("msg", result.Diagnostic)
	}

	d.internal = result.Internal
	d.guidance = result.Guidance
	d.prevTgo = result.Guidance.Tgo
	d.havePrevTgo = true
	return d
}

// cadenceDivergenceThreshold is the relative tgo swing between two
// consecutive cadence calls past which guidance is considered to be
// diverging rather than merely refining its estimate as burnout nears.
const cadenceDivergenceThreshold = 0.5

// upfgOutcome is the return of a single Step call: the steering command
// to use this integration step, and whether a §4.5 cutoff condition
// fired, in which case Terminated carries the TerminationCode in Code.
type upfgOutcome struct {
	Command    PitchYaw
	Terminated bool
	Code       TerminationCode
}

// Step advances the driver by one integration step, per spec.md §4.5's
// five-point sequence. phaseElapsed is time since the phase began; state
// is the current physical snapshot; engineRunning reports whether this
// stage still has thrust available; anchorUnixSeconds is a real-world
// epoch (or 0), unused here now that convergence only runs at init, kept
// for signature symmetry with NewUPFGDriver.
func (d *UPFGDriver) Step(phaseElapsed, dt float64, state upfg.State, engineRunning bool, maxBurnTime, anchorUnixSeconds float64) upfgOutcome {
	if engineRunning && phaseElapsed > maxBurnTime {
		return upfgOutcome{Terminated: true, Code: FuelDepleted}
	}

	if d.lastCall < d.control.CyclePeriod-dt {
		d.lastCall += dt
	} else {
		// Per spec.md §4.5 step 3, the cadence loop invokes UPFG exactly
		// once per cycle; the iterate-to-convergence loop of §4.9 only
		// runs at phase initialization (see NewUPFGDriver).
		pressureAtm := d.env.Pressure(Norm(state.Position) - d.env.Radius)
		tail := VehicleTailSpecs(d.vehicle, d.stageIdx, pressureAtm, state.Mass)
		target := SynthesizeTarget(d.control.Target, state.Position)

		internal, guidance, _ := upfg.Guidance1(tail, target, state, d.internal, d.env.GM)

		// The collaborator contract's debug.diverge flag is only
		// meaningful across an iterate-to-convergence loop, which this
		// per-cadence call doesn't run; instead, reproduce the original's
		// call-to-call divergence check directly off consecutive tgo
		// estimates, and pin the sticky flag the same way the original's
		// debug aggregator does (a 1->0 transition is forced back to 1).
		// A healthy cadence-to-cadence tgo can legitimately drift by more
		// than the tight convergence-loop criterion, so divergence uses
		// its own, much looser relative bound.
		diverging := d.havePrevTgo && d.prevTgo != 0 &&
			math.Abs(guidance.Tgo-d.prevTgo)/math.Abs(d.prevTgo) >= cadenceDivergenceThreshold
		if diverging && !d.divergeSticky {
			d.divergeSticky = true
			d.logger.Log("event", "upfg_divergence", "time", state.Time)
		}
		d.prevTgo = guidance.Tgo
		d.havePrevTgo = true

		d.internal = internal
		d.guidance = guidance
		d.lastCall = 0
	}

	command := PitchYaw{PitchDeg: d.guidance.PitchDeg, YawDeg: d.guidance.YawDeg}

	if engineRunning && (d.guidance.Tgo-d.lastCall) < dt {
		return upfgOutcome{Command: command, Terminated: true, Code: GuidedCutoff}
	}
	if Norm(state.Velocity) >= d.control.Target.Velocity {
		return upfgOutcome{Command: command, Terminated: true, Code: VelocityLimitCutoff}
	}
	return upfgOutcome{Command: command}
}

// Internal returns the driver's current persistence record, to be carried
// forward into the result per spec.md §4.7/§9's propagation rule.
func (d *UPFGDriver) Internal() *upfg.Internal { return d.internal }
