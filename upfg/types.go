// Package upfg implements the unified powered flight guidance collaborator
// described only by contract in spec.md §6: given the remaining vehicle
// characteristics, the desired insertion target, and the current physical
// state, it produces a steering command and a time-to-go estimate, carrying
// a persistence record across calls so successive evaluations refine rather
// than restart the solution. The package is intentionally ignorant of the
// root package's Vehicle/Stage/Target types; the driver translates into the
// numeric StageSpec/Target shapes below before every call.
package upfg

// StageSpec is the burn characteristic of one remaining stage as seen by
// guidance: how fast it can deliver delta-v (EffectiveExhaustVelocity) and
// for how long before it runs dry or hits its burn-time limit (TauRemaining).
type StageSpec struct {
	EffectiveExhaustVelocity float64 // m/s, thrust / mass flow
	TauRemaining             float64 // s, time left before this stage is spent
}

// Target is the desired burnout state: a position and a velocity, both
// already resolved into the inertial frame by the caller. Guidance1
// derives the velocity-to-go from Velocity minus the current velocity.
type Target struct {
	Position []float64 // m, desired burnout position (rd)
	Velocity []float64 // m/s, desired inertial velocity at burnout (vd)
	Normal   []float64 // unit vector, orbital-plane normal
}

// State is the physical snapshot guidance reasons about.
type State struct {
	Time     float64
	Mass     float64
	Position []float64
	Velocity []float64
}

// Internal is the persistence record carried across calls and across
// stages/coasts via the result record, per spec.md §3's "Design Note:
// Persisted guidance internals". Its nine fields mirror, in order, the
// tuple the original flight software threads through every call: conic
// state extrapolation bookkeeping, velocity-to-go, desired burnout
// position, a gravity-integral estimate, burn time elapsed, the time of
// the last evaluation, an unused slot kept only because the original
// carries one, the velocity at the last evaluation, and the
// velocity-to-go computed when this record was created.
type Internal struct {
	CSE             CSEState
	VGo             []float64
	RBias           []float64
	GravityIntegral []float64
	BurnTimeElapsed float64
	LastEvalTime    float64
	Unused          float64
	Velocity        []float64
	VGoBurnout      []float64
}

// Guidance is the steering command produced by one call: an attitude
// expressed as pitch/yaw off the navball frame, and the current estimate
// of time remaining until burnout.
type Guidance struct {
	PitchDeg float64
	YawDeg   float64
	Tgo      float64
}

// Debug carries the named intermediate quantities spec.md's "Supplemented
// feature: debug aggregator" design note asks for, one field per quantity
// the original software logs on every call. Vector fields are stored as
// their 3-vector only; apart from L1 (the magnitude of VGo1), no separate
// magnitude fields are kept.
type Debug struct {
	VGo1      []float64
	L1        float64
	Tgo       float64
	L         float64
	J         float64
	S         float64
	Q         float64
	P         float64
	H         float64
	LambdaVec []float64
	RGrav1    []float64
	RGo1      []float64
	Iz1       []float64
	RGoXY     []float64
	RGoZ      float64
	RGo2      []float64
	LambdaDE  float64
	LambdaDot []float64
	IF        []float64
	DVSensed  []float64
	Diverge   bool
}
