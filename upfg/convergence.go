package upfg

import (
	"fmt"
	"math"
	"time"

	"github.com/soniakeys/meeus/julian"
)

// ConvergeResult is the outcome of repeatedly invoking Guidance1 against a
// fixed physical state until its time-to-go estimate stabilizes, per
// spec.md §4.9's "UPFG convergence loop".
type ConvergeResult struct {
	Internal   *Internal
	Guidance   Guidance
	Debug      Debug
	Iterations int
	Converged  bool
	Diagnostic string // one-line summary, non-empty only when anchorUnixSeconds > 0
}

// Converge runs the convergence loop: it primes the solve with one call,
// then iterates up to maxIterations more times comparing consecutive tgo
// estimates, stopping as soon as the relative change falls under
// relativeThreshold. anchorUnixSeconds, when positive, is used only to
// format a diagnostic line stamped with the Julian date of the call,
// matching how the original mission software timestamps its convergence
// log when a real epoch is available.
func Converge(tail []StageSpec, target Target, state State, prev *Internal, mu float64, maxIterations int, relativeThreshold float64, anchorUnixSeconds float64) ConvergeResult {
	internal, guidance, debug := Guidance1(tail, target, state, prev, mu)
	prevTgo := guidance.Tgo

	result := ConvergeResult{Internal: internal, Guidance: guidance, Debug: debug, Iterations: 1}

	for i := 1; i <= maxIterations; i++ {
		internal, guidance, debug = Guidance1(tail, target, state, internal, mu)
		result = ConvergeResult{Internal: internal, Guidance: guidance, Debug: debug, Iterations: i + 1}

		if prevTgo == 0 {
			break
		}
		relDelta := math.Abs(guidance.Tgo-prevTgo) / prevTgo
		if relDelta < relativeThreshold {
			result.Converged = true
			break
		}
		prevTgo = guidance.Tgo
	}

	debug.Diverge = !result.Converged
	result.Debug = debug

	if anchorUnixSeconds > 0 {
		jd := julian.TimeToJD(time.Unix(int64(anchorUnixSeconds), 0).UTC())
		result.Diagnostic = fmt.Sprintf("upfg converge: jd=%.6f iter=%d tgo=%.3f converged=%v", jd, result.Iterations, result.Guidance.Tgo, result.Converged)
	}

	return result
}
