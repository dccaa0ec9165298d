// Command ascent loads a mission file, runs the ascent-trajectory
// simulator over one stage of its vehicle (chosen by -stage), logs a
// summary, and optionally
// archives the result to a local SQLite database.
package main

import (
	"flag"
	"log"
	"os"

	kitlog "github.com/go-kit/kit/log"

	ascent "github.com/ubik2/PEGAS-kRPC"
	"github.com/ubik2/PEGAS-kRPC/archive"
	"github.com/ubik2/PEGAS-kRPC/config"
)

var (
	missionPath string
	archivePath string
	stageIndex  int
)

func init() {
	flag.StringVar(&missionPath, "mission", "", "mission YAML file (defaults to $ASCENT_CONFIG)")
	flag.StringVar(&archivePath, "archive", "", "sqlite database to append the result to, if set")
	flag.IntVar(&stageIndex, "stage", 0, "index of the vehicle stage to fly")
}

func main() {
	flag.Parse()

	mission, err := config.Load(missionPath)
	if err != nil {
		log.Fatalf("ascent: %s", err)
	}

	logger := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stdout))
	logger = kitlog.With(logger, "vehicle", mission.Vehicle.Name)

	result, err := ascent.Simulate(ascent.PhaseConfig{
		Vehicle:    mission.Vehicle,
		StageIndex: stageIndex,
		Initial:    mission.Initial,
		Control:    mission.Control,
		Env:        mission.Env,
		Dt:         mission.Dt,
		MaxT:       mission.MaxT,
		Jettisons:  mission.Jettisons,
		Logger:     logger,
	})
	if err != nil {
		log.Fatalf("ascent: simulate: %s", err)
	}

	logger.Log(
		"msg", "phase complete",
		"termination", result.TerminationCode,
		"apoapsis", result.Apoapsis,
		"periapsis", result.Periapsis,
		"max_q", result.MaxDynamicPressure,
		"gravity_loss", result.GravityLoss,
		"drag_loss", result.DragLoss,
		"samples", len(result.History),
	)

	if archivePath != "" {
		store, err := archive.Open(archivePath)
		if err != nil {
			log.Fatalf("ascent: archive: %s", err)
		}
		defer store.Close()
		if err := store.Save(mission.Vehicle.Name, result); err != nil {
			log.Fatalf("ascent: archive: %s", err)
		}
	}
}
