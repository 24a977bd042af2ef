package sim

import "fmt"

// RunConfig groups the parameters identifying one simulation run.
type RunConfig struct {
	Seed      int64  // governs randomized tie-breaks in future heuristics
	Heuristic string // one of the names accepted by NewHeuristic
	// Steps is the step budget. Zero selects path-completion mode: the run
	// ends when every user has arrived.
	Steps int
}

// ThresholdConfig groups the threshold-based heuristic's knobs. Both values
// are fractions of the corresponding per-user budget.
type ThresholdConfig struct {
	Delay        float64 // normalized delay threshold in [0,1]
	Provisioning float64 // normalized provisioning-time threshold in [0,1]
}

// Validate checks that both thresholds are fractions.
func (t ThresholdConfig) Validate() error {
	if t.Delay < 0 || t.Delay > 1 {
		return fmt.Errorf("delay threshold %g outside [0,1]", t.Delay)
	}
	if t.Provisioning < 0 || t.Provisioning > 1 {
		return fmt.Errorf("provisioning threshold %g outside [0,1]", t.Provisioning)
	}
	return nil
}
