package upfg

import "math"

// Guidance1 evaluates one cycle of unified powered flight guidance: given
// the burn characteristics of the remaining stages, the insertion target,
// the current physical state, the gravitational parameter of the body
// being ascended from, and the persistence record from the previous call
// (nil on the first call of a guided phase), it returns the updated
// persistence record, a steering command, and the named intermediates a
// caller may want to log.
//
// This function performs no internal iteration to convergence: spec.md
// §4.9's convergence loop is the caller's responsibility, driven by
// repeated calls against an unchanging State until Tgo stabilizes.
func Guidance1(tail []StageSpec, target Target, state State, prev *Internal, mu float64) (*Internal, Guidance, Debug) {
	r, v, t := state.Position, state.Velocity, state.Time

	var internal Internal
	if prev == nil {
		internal = Internal{
			RBias:           target.Position,
			GravityIntegral: gravityAccel(mu, r),
			BurnTimeElapsed: 0,
			LastEvalTime:    t,
			Velocity:        v,
			VGoBurnout:      sub(target.Velocity, v),
		}
		internal.VGo = internal.VGoBurnout
	} else {
		internal = *prev
		internal.BurnTimeElapsed += t - internal.LastEvalTime
		internal.LastEvalTime = t
	}

	dvsensed := sub(v, internal.Velocity)
	vgo1 := sub(internal.VGo, dvsensed)
	rgrav1 := internal.GravityIntegral

	// First pass: solve the stage integrals from the sensed-corrected
	// velocity-to-go alone to get a tgo estimate, then use conic state
	// extrapolation to see how far gravity alone would bend the vehicle's
	// coast over that span, and resolve once more against the bent
	// estimate. Two passes are enough for the correction to settle
	// because the driver re-invokes this function every guidance cycle
	// against a slowly-changing state, so any residual here gets caught
	// next call. The persisted VGo excludes the gravity correction, so
	// repeated calls against the same state do not compound it.
	l1, tgo, l, j, s, q, h := stageIntegrals(tail, norm(vgo1))
	rCoast, vCoast, newCSE := Propagate(internal.CSE, mu, r, v, tgo)
	vgrav := sub(vCoast, v)
	rgravPosition := sub(rCoast, add(r, scale(v, tgo)))
	rgrav2 := gravityAccel(mu, r)
	vgoCorrected := add(vgo1, vgrav)
	l1, tgo, l, j, s, q, h = stageIntegrals(tail, norm(vgoCorrected))
	internal.CSE = newCSE

	rgo1 := sub(internal.RBias, add(add(r, scale(v, tgo)), rgravPosition))
	iz1 := unit(target.Normal)
	rgoz := dot(rgo1, iz1)
	rgoxy := sub(rgo1, scale(iz1, rgoz))
	rgo2 := rgoxy

	lambdaVec := unit(vgoCorrected)
	lambdaDot := make([]float64, 3)
	if q != 0 {
		lambdaDot = scale(sub(rgo2, scale(lambdaVec, s)), 1/q)
	}
	lambdaDE := 0.0
	if l != 0 {
		lambdaDE = j / l
	}
	iF := unit(add(lambdaVec, scale(lambdaDot, lambdaDE)))

	pitch, yaw := attitudeAngles(iF, r)

	internal.VGo = vgo1
	internal.GravityIntegral = rgrav2
	internal.Velocity = v

	out := Guidance{PitchDeg: pitch, YawDeg: yaw, Tgo: tgo}
	debug := Debug{
		VGo1: vgo1, L1: l1, Tgo: tgo, L: l, J: j, S: s, Q: q, H: h,
		LambdaVec: lambdaVec, RGrav1: rgrav1, RGo1: rgo1, Iz1: iz1,
		RGoXY: rgoxy, RGoZ: rgoz, RGo2: rgo2, LambdaDE: lambdaDE,
		LambdaDot: lambdaDot, IF: iF, DVSensed: dvsensed,
	}
	return &internal, out, debug
}

// gravityAccel is the seed formula spec.md §3 gives for a freshly-created
// persistence record's gravity integral: minus half the local gravitational
// acceleration. Re-evaluating it every call (rather than truly integrating
// it over elapsed burn time) is the simplification this package's
// collaborator-contract status leaves open; the driver's convergence loop
// and the short cadence guidance actually runs at keep the error small.
func gravityAccel(mu float64, r []float64) []float64 {
	return scale(unit(r), -mu/(2*math.Pow(norm(r), 2)))
}

// stageIntegrals solves for the time-to-go that lets the remaining stages
// deliver l1 meters/second of velocity-to-go, walking the vehicle tail
// stage by stage the way a multi-stage burn actually consumes it, and
// returns the classical PEG stage integrals (L, J, S, Q, H) for the stage
// that ends up carrying the burnout.
func stageIntegrals(tail []StageSpec, l1 float64) (outL1, tgo, l, j, s, q, h float64) {
	outL1 = l1
	remaining := l1
	var cumulative float64
	for _, st := range tail {
		ve := st.EffectiveExhaustVelocity
		tau := st.TauRemaining
		if ve <= 0 || tau <= 0 {
			continue
		}
		maxDeliverable := ve * math.Log(tau/(tau*1e-6))
		tStage := tau * (1 - math.Exp(-remaining/ve))
		if tStage >= tau {
			tStage = tau * (1 - 1e-9)
		}
		delivered := ve * math.Log(tau/(tau-tStage))
		if delivered >= remaining || maxDeliverable < remaining {
			tFinal := tStage
			lStage := ve * math.Log(tau/(tau-tFinal))
			jStage := lStage*tFinal - ve*tFinal*tFinal/2
			sStage := lStage*tFinal - jStage
			qStage := sStage*tFinal - ve*tFinal*tFinal*tFinal/6
			hStage := jStage*tFinal - qStage

			tgo = cumulative + tFinal
			l, j, s, q, h = lStage, jStage, sStage, qStage, hStage
			return
		}
		remaining -= delivered
		cumulative += tau
	}
	// tail exhausted before delivering l1; report what's achievable so the
	// caller's fuel-depletion check (spec.md §4.6) can take over.
	tgo = cumulative
	return
}

// attitudeAngles expresses iF as pitch/yaw off the local navball frame,
// duplicating just enough of the root package's frame math that this
// package stays free of a dependency on it: pitch is measured from up,
// yaw from east toward north, the convention AttitudeVector consumes.
func attitudeAngles(iF, r []float64) (pitchDeg, yawDeg float64) {
	up := unit(r)
	spinAxis := []float64{0, 0, 1}
	east := unit(cross(spinAxis, up))
	north := unit(cross(up, east))

	vertical := dot(iF, up)
	horizontalN := dot(iF, north)
	horizontalE := dot(iF, east)

	pitchDeg = math.Atan2(math.Hypot(horizontalN, horizontalE), vertical) * 180 / math.Pi
	yawDeg = math.Atan2(horizontalN, horizontalE) * 180 / math.Pi
	return
}
