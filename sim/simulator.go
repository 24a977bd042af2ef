// sim/simulator.go
package sim

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/edgesim/edgesim/sim/report"
)

// SimState is the lifecycle state of the engine.
type SimState string

const (
	SimUninitialized SimState = "uninitialized"
	SimRunning       SimState = "running"
	SimTerminated    SimState = "terminated"
)

// Simulator is the core object that owns simulated time, the entity arena,
// and the step loop. A run is single-threaded and cooperative: migration
// decisions and capacity accounting are globally ordered, so there is no
// concurrent access to simulation state anywhere.
type Simulator struct {
	Clock int // current step, 1-based while running

	Registry *Registry
	Infra    *Infrastructure
	Mobility MobilityModel
	// Heuristic is the configured migration decision function, invoked once
	// per user per step in registry order.
	Heuristic  Heuristic
	Thresholds ThresholdConfig
	Metrics    *Metrics
	RNG        *PartitionedRNG

	// stepBudget bounds the run; zero selects path-completion mode.
	stepBudget int
	state      SimState
}

// NewSimulator wires a loaded world to a run configuration. The engine
// transitions straight to running: an invalid dataset or configuration never
// produces a Simulator.
func NewSimulator(world *World, cfg RunConfig, thresholds ThresholdConfig) (*Simulator, error) {
	if err := thresholds.Validate(); err != nil {
		return nil, err
	}
	steps := cfg.Steps
	if steps == 0 {
		steps = world.Steps
	}
	if steps < 0 {
		return nil, fmt.Errorf("step budget must not be negative, got %d", steps)
	}

	return &Simulator{
		Registry:   world.Registry,
		Infra:      world.Infrastructure,
		Heuristic:  NewHeuristic(cfg.Heuristic),
		Thresholds: thresholds,
		Metrics:    NewMetrics(),
		RNG:        NewPartitionedRNG(NewSimulationKey(cfg.Seed)),
		stepBudget: steps,
		state:      SimRunning,
	}, nil
}

// State returns the engine's lifecycle state.
func (s *Simulator) State() SimState { return s.state }

// Run drives the step loop until the termination condition is reached: all
// users arrived (path-completion mode) or the step budget is exhausted.
// Cancellation through ctx is honored between steps only, after the current
// metrics have been flushed; no partial-step state is ever exposed.
func (s *Simulator) Run(ctx context.Context) error {
	if s.state != SimRunning {
		return &LifecycleError{Op: "run", State: s.state}
	}

	for !s.done() {
		select {
		case <-ctx.Done():
			s.terminate()
			return ctx.Err()
		default:
		}
		if err := s.Step(); err != nil {
			s.terminate()
			return err
		}
	}
	s.terminate()
	logrus.Infof("[step %04d] simulation ended", s.Clock)
	return nil
}

func (s *Simulator) terminate() {
	s.state = SimTerminated
}

func (s *Simulator) done() bool {
	if s.stepBudget > 0 && s.Clock >= s.stepBudget {
		return true
	}
	for _, u := range s.Registry.Users() {
		if !u.Arrived {
			return false
		}
	}
	return true
}

// Step executes one discrete tick of simulated time. The phase order is
// fixed: mobility, delay evaluation, heuristic invocation, migration commit,
// provisioning advancement, metrics recording.
func (s *Simulator) Step() error {
	if s.state != SimRunning {
		return &LifecycleError{Op: "step", State: s.state}
	}
	s.Clock++
	logrus.Debugf("[step %04d] executing", s.Clock)

	// Phase 1: advance all users that had not yet arrived. A user reaching
	// its final waypoint this step is still evaluated this step and only
	// excluded afterwards.
	eligible := make([]*User, 0, len(s.Registry.Users()))
	for _, u := range s.Registry.Users() {
		if u.Arrived {
			continue
		}
		eligible = append(eligible, u)
		s.Mobility.Advance(u, float64(s.Clock))
		u.AccessServer = s.Infra.NearestServer(u.Position)
	}

	// Phases 2-4: evaluate placements and apply migration decisions, in
	// registry insertion order. Contention for a target server's remaining
	// capacity within one step resolves in this same order.
	var events StepEvents
	for _, u := range eligible {
		for _, svc := range u.Application.Services {
			delay, reachable := s.Infra.AccessDelay(u, svc.DelayHost())
			u.Delay = delay
			if !reachable || delay > u.DelayBudget {
				events.Violations = append(events.Violations, report.ViolationRecord{
					Step:      s.Clock,
					UserID:    u.ID,
					ServiceID: svc.ID,
					Delay:     delay,
					Budget:    u.DelayBudget,
				})
				logrus.Debugf("[step %04d] delay violation: %s on %s (%.2f > %.2f)", s.Clock, u, svc, delay, u.DelayBudget)
			}

			// Services still provisioning are not reconsidered until the
			// in-flight migration completes.
			if svc.State != ServiceActive {
				continue
			}

			decision := s.Heuristic.Decide(u, svc, s.Infra, s.Thresholds)
			if !decision.Migrate || decision.Target == svc.Host {
				continue
			}
			source := svc.Host
			duration := s.Infra.ProvisioningEstimate(svc, decision.Target)
			if err := s.Infra.Relocate(svc, decision.Target, s.Clock); err != nil {
				return fmt.Errorf("step %d: applying decision of %s for %s: %w", s.Clock, s.Heuristic.Name(), u, err)
			}
			events.Migrations = append(events.Migrations, report.MigrationRecord{
				Step:              s.Clock,
				ServiceID:         svc.ID,
				UserID:            u.ID,
				SourceID:          source.ID,
				TargetID:          decision.Target.ID,
				Duration:          duration,
				ProvisioningSteps: svc.ProvisioningTime,
			})
			logrus.Infof("[step %04d] migration: %s %s -> %s for %s", s.Clock, svc, source, decision.Target, u)
		}
	}

	// Phase 5: advance provisioning counters; services whose counter runs
	// out are promoted back to active.
	for _, svc := range s.Registry.Services() {
		svc.advanceProvisioning(s.Clock)
	}

	// Phase 6: hand the step snapshot to the collector.
	s.Metrics.Record(s.Clock, events, s.Registry.Servers())
	return nil
}

// Report assembles the structured run output for external consumers.
func (s *Simulator) Report() *report.RunReport {
	return &report.RunReport{
		Heuristic: s.Heuristic.Name(),
		Seed:      int64(s.RNG.Key()),
		Summary:   s.Metrics.Summary(),
		StepLog:   s.Metrics.StepRecords(),
	}
}
