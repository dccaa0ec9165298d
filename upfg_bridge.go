package ascent

import "github.com/ubik2/PEGAS-kRPC/upfg"

// SynthesizeTarget builds the UPFG-facing Target (desired burnout position
// and desired burnout velocity) from the mission Target and the vehicle's current
// position, per spec.md §4.5's initialization seed formula: project up(r)
// onto the target plane, rotate 20 degrees prograde about the target
// normal, scale to target radius, then derive the desired velocity from
// the target speed and the burnout position.
func SynthesizeTarget(tgt Target, r []float64) upfg.Target {
	normal := Unit(tgt.Normal)
	up := Unit(r)
	onPlane := Unit(Sub(up, Scale(normal, Dot(up, normal))))
	rd := Scale(Rodrigues(onPlane, normal, 20), tgt.Radius)

	vdDir := Unit(Cross(Scale(normal, -1), rd))
	vd := Scale(vdDir, tgt.Velocity)

	return upfg.Target{Position: rd, Velocity: vd, Normal: normal}
}

// VehicleTailSpecs converts the remaining stages of a vehicle (starting at
// fromStage) into the numeric burn characteristics UPFG's guidance math
// needs, per spec.md §6's "UPFG" collaborator contract. Mass flow and
// thrust are evaluated at the given ambient pressure; each stage's initial
// mass is used for every stage but the current one, which uses the live
// mass passed in.
func VehicleTailSpecs(vehicle Vehicle, fromStage int, pressureAtm, currentMass float64) []upfg.StageSpec {
	specs := make([]upfg.StageSpec, 0, len(vehicle.Stages)-fromStage)
	for i := fromStage; i < len(vehicle.Stages); i++ {
		stage := vehicle.Stages[i]
		if len(stage.Engines) == 0 {
			continue
		}
		force, massFlow := Thrust(stage.Engines, pressureAtm)
		if massFlow <= 0 {
			continue
		}
		mass := stage.InitialMass
		if i == fromStage {
			mass = currentMass
		}
		ve := force / massFlow
		tau := mass / massFlow
		if stage.MaxBurnTime > 0 && stage.MaxBurnTime < tau {
			tau = stage.MaxBurnTime
		}
		specs = append(specs, upfg.StageSpec{EffectiveExhaustVelocity: ve, TauRemaining: tau})
	}
	return specs
}
