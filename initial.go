package ascent

import "github.com/ubik2/PEGAS-kRPC/upfg"

// LaunchSite is a static launch point, per spec.md §3.
type LaunchSite struct {
	LongitudeDeg float64
	LatitudeDeg  float64
	AltitudeM    float64
}

// FlightState is an in-flight snapshot used to resume a trajectory, per
// spec.md §3.
type FlightState struct {
	Time     float64
	Position []float64
	Velocity []float64
	UPFG     *upfg.Internal // optional, carried across stages
}

// InitialCondition is the tagged union over the two ways a phase may
// begin, per spec.md §3 and Design Note "Initial-condition variant".
// Exactly one of Site/State is non-nil.
type InitialCondition struct {
	Site  *LaunchSite
	State *FlightState
}

// NewLaunchSiteInitial builds an InitialCondition from a launch site.
func NewLaunchSiteInitial(lon, lat, alt float64) InitialCondition {
	return InitialCondition{Site: &LaunchSite{LongitudeDeg: lon, LatitudeDeg: lat, AltitudeM: alt}}
}

// NewFlightStateInitial builds an InitialCondition from an in-flight state.
func NewFlightStateInitial(t float64, r, v []float64, guidance *upfg.Internal) InitialCondition {
	return InitialCondition{State: &FlightState{Time: t, Position: r, Velocity: v, UPFG: guidance}}
}

// Valid reports whether exactly one variant is populated, per spec.md §7's
// "invalid initial condition" failure kind.
func (ic InitialCondition) Valid() bool {
	return (ic.Site != nil) != (ic.State != nil)
}
