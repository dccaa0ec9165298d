package ascent

// JettisonEvent is a single scheduled discrete mass reduction, per
// spec.md §3/§4.8. Time is mutated to a negative sentinel once consumed,
// matching the original `flight_sim_3d.py` convention (`jettison[j][0] = -1`)
// so an event can never re-fire.
type JettisonEvent struct {
	Time      float64 // s since liftoff
	MassDelta float64 // kg shed when the event fires
}

// ApplyJettisons fires any due events into mass, per spec.md §4.8:
//   - events scheduled before the current phase started (phaseStart) are
//     ignored entirely (they belong to an earlier phase and must not
//     re-fire here);
//   - events due at or before t are consumed exactly once.
func ApplyJettisons(events []JettisonEvent, phaseStart, t, mass float64) float64 {
	for i := range events {
		if events[i].Time < phaseStart {
			continue
		}
		if events[i].Time <= t {
			mass -= events[i].MassDelta
			events[i].Time = -1
		}
	}
	return mass
}
