package ascent

import "testing"

// TestGravityTurnVerticalHopHoldsAzimuth exercises scenario S1: a gravity
// turn that never reaches its trigger vertical speed should hold a zero
// pitch and constant azimuth throughout (a vertical hop).
func TestGravityTurnVerticalHopHoldsAzimuth(t *testing.T) {
	gt := &GravityTurn{KickoverPitchDeg: 45, TriggerVerticalSpeed: 1000, AzimuthDeg: 90}
	fb := StepFeedback{PreviousVerticalSpeed: 50}
	for i := 0; i < 10; i++ {
		cmd := gt.evaluate(1, fb)
		if cmd.PitchDeg != 0 {
			t.Fatalf("step %d: pitch = %f, want 0 (still rising)", i, cmd.PitchDeg)
		}
		if cmd.YawDeg != 90 {
			t.Fatalf("step %d: yaw = %f, want 90", i, cmd.YawDeg)
		}
	}
	if gt.phase != Rising {
		t.Fatalf("phase = %v, want Rising", gt.phase)
	}
}

// TestGravityTurnKickoverSequence exercises scenario S2: once the trigger
// vertical speed is reached, the gravity turn should ramp its commanded
// pitch (capped at KickoverPitchDeg) until the realized surface pitch
// exceeds KickoverPitchDeg, then lock prograde and track that angle.
func TestGravityTurnKickoverSequence(t *testing.T) {
	gt := &GravityTurn{KickoverPitchDeg: 10, TriggerVerticalSpeed: 100, AzimuthDeg: 0}

	// Still rising: trigger not yet reached.
	cmd := gt.evaluate(1, StepFeedback{PreviousVerticalSpeed: 50})
	if gt.phase != Rising || cmd.PitchDeg != 0 {
		t.Fatalf("pre-trigger step: phase=%v cmd=%+v", gt.phase, cmd)
	}

	// Trigger reached: transitions to Kicking on this step and starts the
	// pitch ramp from the previous commanded pitch.
	cmd = gt.evaluate(1, StepFeedback{PreviousVerticalSpeed: 150, PreviousCommandedPitch: 0})
	if gt.phase != Kicking {
		t.Fatalf("phase after trigger = %v, want Kicking", gt.phase)
	}
	if cmd.PitchDeg != 1 {
		t.Fatalf("first kickover step pitch = %f, want 1", cmd.PitchDeg)
	}

	// Ramp continues, clamped at KickoverPitchDeg.
	cmd = gt.evaluate(1, StepFeedback{PreviousVerticalSpeed: 150, PreviousCommandedPitch: cmd.PitchDeg})
	if cmd.PitchDeg != 2 {
		t.Fatalf("second kickover step pitch = %f, want 2", cmd.PitchDeg)
	}

	// Once the realized surface pitch exceeds KickoverPitchDeg, the state
	// machine locks prograde and tracks the realized angle directly.
	cmd = gt.evaluate(1, StepFeedback{PreviousVerticalSpeed: 150, PreviousSurfacePitchDeg: 11, PreviousCommandedPitch: cmd.PitchDeg})
	if gt.phase != ProgradeLock {
		t.Fatalf("phase after kickover complete = %v, want ProgradeLock", gt.phase)
	}
	if cmd.PitchDeg != 11 {
		t.Fatalf("prograde-lock pitch = %f, want 11 (tracking realized surface pitch)", cmd.PitchDeg)
	}
}

func TestPitchProgramFollowsCurve(t *testing.T) {
	c := Control{PitchProgram: &PitchProgram{
		Curve:      [][2]float64{{0, 90}, {100, 0}},
		AzimuthDeg: 45,
	}}
	cmd := c.Evaluate(50, 1, StepFeedback{})
	if cmd.PitchDeg != 45 {
		t.Fatalf("pitch program at t=50 = %f, want 45", cmd.PitchDeg)
	}
	if cmd.YawDeg != 45 {
		t.Fatalf("pitch program azimuth = %f, want 45", cmd.YawDeg)
	}
}

func TestCoastHoldsLastCommandedPitch(t *testing.T) {
	c := Control{Coast: &Coast{Duration: 60}}
	cmd := c.Evaluate(0, 1, StepFeedback{PreviousCommandedPitch: 33})
	if cmd.PitchDeg != 33 {
		t.Fatalf("coast pitch = %f, want 33 (held)", cmd.PitchDeg)
	}
}
