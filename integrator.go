package ascent

import (
	"math"

	kitlog "github.com/go-kit/kit/log"
	"github.com/ubik2/PEGAS-kRPC/euler"
	"github.com/ubik2/PEGAS-kRPC/metrics"
	"github.com/ubik2/PEGAS-kRPC/telemetry"
	"github.com/ubik2/PEGAS-kRPC/upfg"
)

// PhaseConfig bundles the inputs to one call of Simulate: the vehicle and
// which of its stages is flying, the initial condition, the control law,
// the environment, the nominal step, the maximum phase duration, any
// pending jettison events, and the two optional callback hooks of
// spec.md §6.
type PhaseConfig struct {
	Vehicle       Vehicle
	StageIndex    int
	Initial       InitialCondition
	Control       Control
	Env           Environment
	Dt            float64
	MaxT          float64
	Jettisons     []JettisonEvent
	Probe         telemetry.StateProbe
	Actuator      telemetry.Actuator
	AnchorSeconds float64 // real-world epoch for UPFG diagnostic stamping, or 0
	Logger        kitlog.Logger
	ReportMetrics bool // publish live gauges via metrics.Get() while running
}

// Simulate runs the fixed-step explicit Euler integrator over one phase,
// per spec.md §4.6, by driving a phaseIntegrable through euler.Stepper. It
// returns the finalized Result, or an error if the initial condition is
// invalid (spec.md §7) or a callback hook fails.
func Simulate(cfg PhaseConfig) (*Result, error) {
	if !cfg.Initial.Valid() {
		return nil, ErrInvalidInitialCondition
	}
	if cfg.Logger == nil {
		cfg.Logger = PhaseLogInit(cfg.Vehicle.Name)
	}

	p, t0 := newPhaseIntegrable(cfg)

	stepper := euler.NewStepper(t0, cfg.Dt, p)
	stepper.Solve()

	if p.callbackErr != nil {
		return nil, p.callbackErr
	}

	var finalUPFG *upfg.Internal
	switch {
	case p.driver != nil:
		finalUPFG = p.driver.Internal()
	case cfg.Control.Coast != nil:
		finalUPFG = p.inboundUPFG
	}

	remaining := p.stage.MaxBurnTime - (p.t - p.phaseStart)
	return buildResult(p.history, p.env, p.code, p.gLoss, p.dLoss, p.maxQ, p.maxQTime, remaining, finalUPFG), nil
}

// phaseIntegrable adapts one Simulate phase to euler.Integrable: its state
// vector is (position[3], velocity[3], mass); t is tracked separately
// since the independent variable the Stepper advances is time itself.
// Func computes and caches this step's control command, propulsion,
// gravity, and drag; SetState consumes that cache to apply the optional
// state probe override, build the TrajectorySample, fire due jettisons,
// invoke the optional actuator, and evaluate every §4.6 termination
// condition.
type phaseIntegrable struct {
	cfg   PhaseConfig
	stage Stage
	env   Environment

	jettisons   []JettisonEvent
	phaseStart  float64
	driver      *UPFGDriver
	inboundUPFG *upfg.Internal

	state []float64 // r(0:3) v(3:6) m(6)
	t     float64

	history        *History
	gLoss, dLoss   float64
	maxQ, maxQTime float64
	fb             StepFeedback
	code           TerminationCode
	engineRunning  bool
	effectiveDt    float64

	// cached by Func, consumed by SetState
	command  PitchYaw
	prop     PropulsionState
	accelMag float64
	dynamicQ float64

	terminated  bool
	callbackErr error
}

func newPhaseIntegrable(cfg PhaseConfig) (*phaseIntegrable, float64) {
	stage := cfg.Vehicle.Stages[cfg.StageIndex]
	env := cfg.Env

	r, v, t0, inboundUPFG := resolveInitial(cfg.Initial, env)
	m := stage.InitialMass

	var driver *UPFGDriver
	if cfg.Control.UPFG != nil {
		driver = NewUPFGDriver(cfg.Control.UPFG, env, cfg.Vehicle, cfg.StageIndex, inboundUPFG,
			upfg.State{Time: t0, Mass: m, Position: r, Velocity: v}, cfg.AnchorSeconds, cfg.Logger)
	}

	// Seed the step feedback a non-UPFG control law reads on its very
	// first dispatch from the actual initial state, rather than from the
	// zero value. At a launch pad the vertical speed is zero and the zero
	// air-relative velocity evaluates to a surface pitch of 90 degrees,
	// which the Rising gravity-turn state does not read; when resuming
	// from an in-flight FlightState both values are the real ones.
	nav0 := Navball(r)
	surfVel0 := SurfaceVelocity(env, r, nav0)
	fb0 := StepFeedback{
		PreviousVerticalSpeed:   Dot(v, nav0.Up),
		PreviousSurfacePitchDeg: AngleFromFrame(Sub(v, surfVel0), nav0, "pitch"),
	}

	p := &phaseIntegrable{
		cfg:           cfg,
		stage:         stage,
		env:           env,
		jettisons:     cfg.Jettisons,
		phaseStart:    t0,
		driver:        driver,
		inboundUPFG:   inboundUPFG,
		state:         append(append(append([]float64{}, r...), v...), m),
		t:             t0,
		history:       NewHistory(cfg.MaxT, cfg.Dt),
		code:          Running,
		engineRunning: len(stage.Engines) > 0,
		effectiveDt:   cfg.Dt,
		fb:            fb0,
	}
	return p, t0
}

func (p *phaseIntegrable) GetState() []float64 { return p.state }

func (p *phaseIntegrable) StepSize(nominal float64) float64 { return p.effectiveDt }

// Func evaluates the derivative of (r, v, m) at time t over a step of the
// given size, per spec.md §4.6 steps 1-6: control dispatch, propulsion,
// gravity, and drag. Thrust/drag/gravity quantities are cached for
// SetState to record and for the next Stop() check.
func (p *phaseIntegrable) Func(t, step float64, s []float64) []float64 {
	r := s[0:3]
	v := s[3:6]
	m := s[6]

	elapsed := t - p.phaseStart
	navPrev := Navball(r)

	if p.driver != nil {
		out := p.driver.Step(elapsed, step, upfg.State{Time: t, Mass: m, Position: r, Velocity: v}, p.engineRunning, p.stage.MaxBurnTime, p.cfg.AnchorSeconds)
		p.command = out.Command
		if out.Terminated {
			p.terminated = true
			p.code = out.Code
		}
	} else {
		p.command = p.cfg.Control.Evaluate(t, step, p.fb)
	}

	pressureAtm := p.env.Pressure(Norm(r) - p.env.Radius)
	var prop PropulsionState
	if p.cfg.Control.Coast == nil {
		prop = Evaluate(p.stage, p.env, pressureAtm, m)
	}
	p.prop = prop

	accelMag := 0.0
	if m > 0 {
		accelMag = prop.Force / m
	}
	p.accelMag = accelMag
	thrustAccel := Scale(AttitudeVector(navPrev, p.command.PitchDeg, p.command.YawDeg), accelMag)

	// Spec defines G pointing outward (+mu*r/|r|^3); the update below
	// subtracts it to pull the vehicle inward.
	gravityOutward := Scale(r, p.env.GM/math.Pow(Norm(r), 3))
	p.gLoss += Norm(gravityOutward) * step

	surfVel := SurfaceVelocity(p.env, r, navPrev)
	vAir := Sub(v, surfVel)
	vAirMag := math.Max(Norm(vAir), 1)

	cd := DragCoefficient(vAirMag, p.stage.DragCurve)
	rho := AirDensity(pressureAtm*101325, p.env.Temperature(Norm(r)-p.env.Radius))
	q := 0.5 * rho * vAirMag * vAirMag
	p.dynamicQ = q
	dragAccelMag := 0.0
	if m > 0 {
		dragAccelMag = p.stage.Area * cd * q / m
	}
	dragDir := Unit(Scale(vAir, -1))
	p.dLoss += dragAccelMag * step

	netAccel := Sub(Add(thrustAccel, Scale(dragDir, dragAccelMag)), gravityOutward)

	// Spec.md §4.6 step 7 and euler.Stepper's newState[i] = state[i] +
	// deriv[i]*step both update position and velocity off the *same*
	// deriv entry, so to get the prescribed symplectic coupling (r
	// advances on the just-updated velocity, not the pre-step one) the
	// position "derivative" returned here is the already-updated
	// velocity rather than v itself.
	vNew := Add(v, Scale(netAccel, step))

	deriv := make([]float64, 7)
	copy(deriv[0:3], vNew)
	copy(deriv[3:6], netAccel)
	deriv[6] = -prop.MassFlow
	return deriv
}

// SetState applies spec.md §4.6 steps 7-12 to the forecast state the
// stepper computed: the optional state-probe override, sample recording,
// jettison bookkeeping, the actuator callback, effective-Δt recomputation,
// and the termination checks.
func (p *phaseIntegrable) SetState(i uint64, forecast []float64) {
	tPrev := p.t
	tNew := tPrev + p.effectiveDt

	var rNew, vNew []float64
	var mNew float64
	if p.cfg.Probe != nil {
		pr, pv, pm, pt, err := p.cfg.Probe()
		if err != nil {
			p.callbackErr = err
			p.terminated = true
			return
		}
		rNew, vNew, mNew, tNew = pr, pv, pm, pt
	} else {
		rNew, vNew, mNew = forecast[0:3], forecast[3:6], forecast[6]
	}

	navNew := Navball(rNew)
	rnc := Circumferential(rNew, vNew)
	surfVelNew := SurfaceVelocity(p.env, rNew, navNew)
	vAirNew := Sub(vNew, surfVelNew)

	sample := TrajectorySample{
		Time: tNew, Position: rNew, Velocity: vNew,
		PositionMagnitude: Norm(rNew),
		VerticalSpeed:     Dot(vNew, navNew.Up),
		TangentialSpeed:   Dot(vNew, rnc.Circumferential),
		SpeedMagnitude:    Norm(vNew),
		Thrust:            p.prop.Force,
		Acceleration:      p.accelMag,
		DynamicPressure:   p.dynamicQ,
		CommandedPitchDeg: p.command.PitchDeg,
		CommandedYawDeg:   p.command.YawDeg,
		SurfaceVelocity:   Sub(vNew, surfVelNew),
		SurfacePitchDeg:   AngleFromFrame(vAirNew, navNew, "pitch"),
		SurfaceYawDeg:     AngleFromFrame(vAirNew, navNew, "yaw"),
		InertialPitchDeg:  AngleFromFrame(vNew, navNew, "pitch"),
		InertialYawDeg:    AngleFromFrame(vNew, navNew, "yaw"),
	}
	sample.SurfaceVelocityMagnitude = Norm(sample.SurfaceVelocity)

	mNew = ApplyJettisons(p.jettisons, p.phaseStart, tNew, mNew)

	if p.cfg.Actuator != nil {
		if err := p.cfg.Actuator(p.command.PitchDeg, p.command.YawDeg, p.prop.Throttle); err != nil {
			p.callbackErr = err
			p.terminated = true
			return
		}
	}

	if p.cfg.ReportMetrics {
		tgo := 0.0
		if p.driver != nil {
			tgo = p.driver.guidance.Tgo
		}
		mx := metrics.Get()
		mx.RecordStep(sample.PositionMagnitude-p.env.Radius, sample.SpeedMagnitude, sample.DynamicPressure, tgo)
	}

	effectiveDt := tNew - tPrev
	if effectiveDt <= 0 {
		effectiveDt = p.cfg.Dt
	}

	p.history.Write(sample)
	if sample.DynamicPressure > p.maxQ {
		p.maxQ, p.maxQTime = sample.DynamicPressure, sample.Time
	}

	p.state = append(append(append([]float64{}, rNew...), vNew...), mNew)
	p.t = tNew
	p.fb = StepFeedback{
		PreviousVerticalSpeed:   sample.VerticalSpeed,
		PreviousSurfacePitchDeg: sample.SurfacePitchDeg,
		PreviousCommandedPitch:  sample.CommandedPitchDeg,
	}
	p.effectiveDt = effectiveDt

	elapsed := tNew - p.phaseStart
	switch {
	case p.terminated:
		// code already set by Func (driver cutoff) or above (callback error).
	case elapsed > p.stage.MaxBurnTime && p.engineRunning:
		p.code = FuelDepleted
		p.terminated = true
	case Norm(rNew)-p.env.Radius < -10:
		p.code = Crash
		p.terminated = true
	case p.cfg.Control.Coast != nil && elapsed >= p.cfg.Control.Coast.Duration:
		p.code = CoastCompleted
		p.terminated = true
	case elapsed >= p.cfg.MaxT:
		if p.cfg.Control.Coast != nil {
			p.code = CoastCompleted
		} else {
			p.code = FuelDepleted
		}
		p.terminated = true
	}

	if p.cfg.ReportMetrics && p.terminated {
		metrics.Get().RecordTermination(int(p.code))
	}
}

func (p *phaseIntegrable) Stop(i uint64) bool { return p.terminated }

// resolveInitial extracts the starting (position, velocity, time, inbound
// UPFG persistence) from either variant of InitialCondition, per
// spec.md §3.
func resolveInitial(ic InitialCondition, env Environment) ([]float64, []float64, float64, *upfg.Internal) {
	if ic.Site != nil {
		latRad := Deg2rad(ic.Site.LatitudeDeg)
		lonRad := Deg2rad(ic.Site.LongitudeDeg)
		radius := env.Radius + ic.Site.AltitudeM
		r := []float64{
			radius * math.Cos(latRad) * math.Cos(lonRad),
			radius * math.Cos(latRad) * math.Sin(lonRad),
			radius * math.Sin(latRad),
		}
		nav := Navball(r)
		v := SurfaceVelocity(env, r, nav)
		return r, v, 0, nil
	}
	fs := ic.State
	return fs.Position, fs.Velocity, fs.Time, fs.UPFG
}
