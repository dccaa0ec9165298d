// Package config loads a vehicle/mission description from a YAML file via
// Viper, replacing the hand-built Go literals the teacher repo's tests use
// with a document CLI users and test fixtures can both edit, grounded on
// the teacher's config.go (`SMD_CONFIG` env var + viper, generalized here
// to `ASCENT_CONFIG`).
package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"

	ascent "github.com/ubik2/PEGAS-kRPC"
)

// Mission is the fully resolved input to one Simulate phase.
type Mission struct {
	Vehicle   ascent.Vehicle
	Initial   ascent.InitialCondition
	Control   ascent.Control
	Env       ascent.Environment
	Dt        float64
	MaxT      float64
	Jettisons []ascent.JettisonEvent
}

// curveDoc is a 2-column table as it appears in YAML: a list of [x, y]
// pairs.
type curveDoc [][2]float64

type engineDoc struct {
	Name          string   `mapstructure:"name"`
	ThrustCurve   curveDoc `mapstructure:"thrust_curve"`
	MassFlowCurve curveDoc `mapstructure:"mass_flow_curve"`
	ThrottleMin   float64  `mapstructure:"throttle_min"`
	ThrottleMax   float64  `mapstructure:"throttle_max"`
}

type stageDoc struct {
	Mode        string      `mapstructure:"mode"` // "constant-thrust" | "constant-acceleration"
	InitialMass float64     `mapstructure:"initial_mass"`
	GLimit      float64     `mapstructure:"g_limit"`
	Engines     []engineDoc `mapstructure:"engines"`
	Area        float64     `mapstructure:"area"`
	DragCurve   curveDoc    `mapstructure:"drag_curve"`
	MaxBurnTime float64     `mapstructure:"max_burn_time"`
}

type launchSiteDoc struct {
	LongitudeDeg float64 `mapstructure:"longitude_deg"`
	LatitudeDeg  float64 `mapstructure:"latitude_deg"`
	AltitudeM    float64 `mapstructure:"altitude_m"`
}

type flightStateDoc struct {
	Time     float64   `mapstructure:"time"`
	Position []float64 `mapstructure:"position"`
	Velocity []float64 `mapstructure:"velocity"`
}

type initialDoc struct {
	LaunchSite  *launchSiteDoc  `mapstructure:"launch_site"`
	FlightState *flightStateDoc `mapstructure:"flight_state"`
}

type targetDoc struct {
	RadiusM    float64   `mapstructure:"radius_m"`
	VelocityMS float64   `mapstructure:"velocity_ms"`
	Normal     []float64 `mapstructure:"normal"`
}

type controlDoc struct {
	GravityTurn *struct {
		KickoverPitchDeg     float64 `mapstructure:"kickover_pitch_deg"`
		TriggerVerticalSpeed float64 `mapstructure:"trigger_vertical_speed"`
		AzimuthDeg           float64 `mapstructure:"azimuth_deg"`
	} `mapstructure:"gravity_turn"`
	PitchProgram *struct {
		Curve      curveDoc `mapstructure:"curve"`
		AzimuthDeg float64  `mapstructure:"azimuth_deg"`
	} `mapstructure:"pitch_program"`
	UPFG *struct {
		Target      targetDoc `mapstructure:"target"`
		CyclePeriod float64   `mapstructure:"cycle_period"`
	} `mapstructure:"upfg"`
	Coast *struct {
		Duration float64 `mapstructure:"duration"`
	} `mapstructure:"coast"`
}

type jettisonDoc struct {
	Time      float64 `mapstructure:"time"`
	MassDelta float64 `mapstructure:"mass_delta"`
}

type environmentDoc struct {
	GM               float64   `mapstructure:"gm"`
	Radius           float64   `mapstructure:"radius"`
	G0               float64   `mapstructure:"g0"`
	RotationPeriod   float64   `mapstructure:"rotation_period"`
	ConvergenceLimit float64   `mapstructure:"convergence_limit"`
	PressureTable    curveDoc  `mapstructure:"pressure_table"`
	TemperatureTable curveDoc  `mapstructure:"temperature_table"`
}

type missionDoc struct {
	Vehicle struct {
		Name   string     `mapstructure:"name"`
		Stages []stageDoc `mapstructure:"stages"`
	} `mapstructure:"vehicle"`
	Initial     initialDoc      `mapstructure:"initial"`
	Control     controlDoc      `mapstructure:"control"`
	Jettisons   []jettisonDoc   `mapstructure:"jettisons"`
	Environment *environmentDoc `mapstructure:"environment"`
	Dt          float64         `mapstructure:"dt"`
	MaxT        float64         `mapstructure:"max_t"`
}

// Load reads a mission YAML document describing a vehicle, its initial
// condition, target/control law, and environment. If path is empty, the
// ASCENT_CONFIG environment variable is used, mirroring the teacher's
// SMD_CONFIG convention.
func Load(path string) (*Mission, error) {
	if path == "" {
		path = os.Getenv("ASCENT_CONFIG")
	}
	if path == "" {
		return nil, fmt.Errorf("config: no mission file given and ASCENT_CONFIG is unset")
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var doc missionDoc
	if err := v.Unmarshal(&doc); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return fromDoc(doc)
}

func fromDoc(doc missionDoc) (*Mission, error) {
	vehicle := ascent.Vehicle{Name: doc.Vehicle.Name}
	for _, sd := range doc.Vehicle.Stages {
		stage, err := stageFromDoc(sd)
		if err != nil {
			return nil, err
		}
		vehicle.Stages = append(vehicle.Stages, stage)
	}

	initial, err := initialFromDoc(doc.Initial)
	if err != nil {
		return nil, err
	}

	control, err := controlFromDoc(doc.Control)
	if err != nil {
		return nil, err
	}

	env := ascent.Earth
	if doc.Environment != nil {
		env = environmentFromDoc(*doc.Environment)
	}

	var jettisons []ascent.JettisonEvent
	for _, jd := range doc.Jettisons {
		jettisons = append(jettisons, ascent.JettisonEvent{Time: jd.Time, MassDelta: jd.MassDelta})
	}

	dt := doc.Dt
	if dt <= 0 {
		dt = 0.1
	}

	return &Mission{
		Vehicle:   vehicle,
		Initial:   initial,
		Control:   control,
		Env:       env,
		Dt:        dt,
		MaxT:      doc.MaxT,
		Jettisons: jettisons,
	}, nil
}

func stageFromDoc(sd stageDoc) (ascent.Stage, error) {
	var mode ascent.BurnMode
	switch sd.Mode {
	case "constant-thrust", "":
		mode = ascent.ConstantThrust
	case "constant-acceleration":
		mode = ascent.ConstantAcceleration
	default:
		return ascent.Stage{}, fmt.Errorf("config: unknown stage mode %q", sd.Mode)
	}

	engines := make([]ascent.Engine, 0, len(sd.Engines))
	for _, ed := range sd.Engines {
		engines = append(engines, ascent.Engine{
			Name:          ed.Name,
			ThrustCurve:   [][2]float64(ed.ThrustCurve),
			MassFlowCurve: [][2]float64(ed.MassFlowCurve),
			ThrottleMin:   ed.ThrottleMin,
			ThrottleMax:   ed.ThrottleMax,
		})
	}

	return ascent.Stage{
		Mode:        mode,
		InitialMass: sd.InitialMass,
		GLimit:      sd.GLimit,
		Engines:     engines,
		Area:        sd.Area,
		DragCurve:   [][2]float64(sd.DragCurve),
		MaxBurnTime: sd.MaxBurnTime,
	}, nil
}

func initialFromDoc(id initialDoc) (ascent.InitialCondition, error) {
	switch {
	case id.LaunchSite != nil:
		return ascent.NewLaunchSiteInitial(id.LaunchSite.LongitudeDeg, id.LaunchSite.LatitudeDeg, id.LaunchSite.AltitudeM), nil
	case id.FlightState != nil:
		return ascent.NewFlightStateInitial(id.FlightState.Time, id.FlightState.Position, id.FlightState.Velocity, nil), nil
	default:
		return ascent.InitialCondition{}, fmt.Errorf("config: mission has neither launch_site nor flight_state under `initial`")
	}
}

func controlFromDoc(cd controlDoc) (ascent.Control, error) {
	switch {
	case cd.GravityTurn != nil:
		return ascent.Control{GravityTurn: &ascent.GravityTurn{
			KickoverPitchDeg:     cd.GravityTurn.KickoverPitchDeg,
			TriggerVerticalSpeed: cd.GravityTurn.TriggerVerticalSpeed,
			AzimuthDeg:           cd.GravityTurn.AzimuthDeg,
		}}, nil
	case cd.PitchProgram != nil:
		return ascent.Control{PitchProgram: &ascent.PitchProgram{
			Curve:      [][2]float64(cd.PitchProgram.Curve),
			AzimuthDeg: cd.PitchProgram.AzimuthDeg,
		}}, nil
	case cd.UPFG != nil:
		return ascent.Control{UPFG: &ascent.UPFGControl{
			Target: ascent.Target{
				Radius:   cd.UPFG.Target.RadiusM,
				Velocity: cd.UPFG.Target.VelocityMS,
				Normal:   cd.UPFG.Target.Normal,
			},
			CyclePeriod: cd.UPFG.CyclePeriod,
		}}, nil
	case cd.Coast != nil:
		return ascent.Control{Coast: &ascent.Coast{Duration: cd.Coast.Duration}}, nil
	default:
		return ascent.Control{}, fmt.Errorf("config: mission `control` names no known control law")
	}
}

func environmentFromDoc(ed environmentDoc) ascent.Environment {
	env := ascent.Earth
	if ed.GM != 0 {
		env.GM = ed.GM
	}
	if ed.Radius != 0 {
		env.Radius = ed.Radius
	}
	if ed.G0 != 0 {
		env.G0 = ed.G0
	}
	if ed.RotationPeriod != 0 {
		env.RotationPeriod = ed.RotationPeriod
	}
	if ed.ConvergenceLimit != 0 {
		env.ConvergenceLimit = ed.ConvergenceLimit
	}
	if len(ed.PressureTable) > 0 {
		env.PressureTable = [][2]float64(ed.PressureTable)
	}
	if len(ed.TemperatureTable) > 0 {
		env.TemperatureTable = [][2]float64(ed.TemperatureTable)
	}
	return env
}
