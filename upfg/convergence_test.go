package upfg

import "testing"

// Target.Velocity/Position are absolute burnout-state vectors (Guidance1
// derives the actual velocity-to-go as target.Velocity - state.Velocity);
// these fixtures describe a near-circular 200km-class insertion requiring
// only a modest trim burn from the given state.
func testTargetAndState() (Target, State) {
	target := Target{
		Position: []float64{6671000, 50000, 0},
		Velocity: []float64{0, 7690, 200},
		Normal:   []float64{0, 0, 1},
	}
	state := State{
		Mass:     5000,
		Position: []float64{6571000, 0, 0},
		Velocity: []float64{0, 7793, 0},
	}
	return target, state
}

// TestConvergeStabilizesWithinFewIterations exercises scenario S4: a
// modest velocity-to-go against a single healthy stage should stabilize
// well inside the iteration budget.
func TestConvergeStabilizesWithinFewIterations(t *testing.T) {
	tail := []StageSpec{{EffectiveExhaustVelocity: 3000, TauRemaining: 300}}
	target, state := testTargetAndState()

	result := Converge(tail, target, state, nil, earthMu, 50, 1e-4, 0)
	if !result.Converged {
		t.Fatalf("convergence loop did not converge: %+v", result)
	}
	if result.Iterations > 10 {
		t.Fatalf("converged in %d iterations, want <=10 for a well-posed target", result.Iterations)
	}
	if result.Debug.Diverge {
		t.Fatalf("Debug.Diverge = true on a converged result")
	}
	if result.Guidance.Tgo <= 0 || result.Guidance.Tgo >= tail[0].TauRemaining {
		t.Fatalf("tgo = %f, want positive and within the stage's remaining burn time", result.Guidance.Tgo)
	}
	if result.Diagnostic != "" {
		t.Fatalf("diagnostic line should be empty when anchorUnixSeconds is 0, got %q", result.Diagnostic)
	}
}

func TestConvergeDiagnosticStampedWhenAnchorGiven(t *testing.T) {
	tail := []StageSpec{{EffectiveExhaustVelocity: 3000, TauRemaining: 300}}
	target, state := testTargetAndState()

	result := Converge(tail, target, state, nil, earthMu, 50, 1e-4, 1_700_000_000)
	if result.Diagnostic == "" {
		t.Fatalf("diagnostic line should be stamped when anchorUnixSeconds > 0")
	}
}

func TestGuidance1SeedsFreshInternalOnFirstCall(t *testing.T) {
	tail := []StageSpec{{EffectiveExhaustVelocity: 3000, TauRemaining: 300}}
	target, state := testTargetAndState()

	internal, guidance, _ := Guidance1(tail, target, state, nil, earthMu)
	if internal.BurnTimeElapsed != 0 {
		t.Fatalf("fresh internal BurnTimeElapsed = %f, want 0", internal.BurnTimeElapsed)
	}
	if guidance.Tgo <= 0 {
		t.Fatalf("guidance.Tgo = %f, want positive", guidance.Tgo)
	}
}
