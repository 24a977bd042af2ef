package sim

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runScenario(t *testing.T, heuristic string) *Simulator {
	t.Helper()
	world, _, _ := scenarioWorld()
	s, err := NewSimulator(world, RunConfig{Seed: 1, Heuristic: heuristic}, ThresholdConfig{})
	require.NoError(t, err)
	require.NoError(t, s.Run(context.Background()))
	return s
}

func TestScenario_NeverMigrate_ZeroMigrations(t *testing.T) {
	s := runScenario(t, HeuristicNeverMigrate)

	summary := s.Metrics.Summary()
	assert.Equal(t, 0, summary.TotalMigrations)
	assert.Equal(t, 3, summary.Steps)
}

func TestScenario_FollowUser_ExactlyOneMigrationAtCrossover(t *testing.T) {
	s := runScenario(t, HeuristicFollowUser)

	// Exactly one migration over the whole run...
	summary := s.Metrics.Summary()
	require.Equal(t, 1, summary.TotalMigrations)

	// ...at the first step where the user is closer to server 2 than to
	// server 1 (the final waypoint).
	steps := s.Metrics.StepRecords()
	require.Len(t, steps, 3)
	assert.Empty(t, steps[0].Migrations)
	assert.Empty(t, steps[1].Migrations)
	require.Len(t, steps[2].Migrations, 1)

	mig := steps[2].Migrations[0]
	assert.Equal(t, 3, mig.Step)
	assert.Equal(t, 1, mig.SourceID)
	assert.Equal(t, 2, mig.TargetID)
	assert.Equal(t, 2, mig.ProvisioningSteps)
}

func TestRun_Deterministic_IdenticalReportsAcrossRuns(t *testing.T) {
	first := runScenario(t, HeuristicFollowUser)
	second := runScenario(t, HeuristicFollowUser)

	assert.Equal(t, first.Report(), second.Report())
}

func TestRun_TerminatesOnPathCompletion(t *testing.T) {
	s := runScenario(t, HeuristicNeverMigrate)

	assert.Equal(t, SimTerminated, s.State())
	assert.Equal(t, 3, s.Clock)
	for _, u := range s.Registry.Users() {
		assert.True(t, u.Arrived)
	}
}

func TestRun_StepBudgetExhaustion(t *testing.T) {
	world, _, _ := scenarioWorld()
	s, err := NewSimulator(world, RunConfig{Seed: 1, Heuristic: HeuristicNeverMigrate, Steps: 2}, ThresholdConfig{})
	require.NoError(t, err)

	require.NoError(t, s.Run(context.Background()))
	assert.Equal(t, 2, s.Clock)
	assert.Equal(t, SimTerminated, s.State())
}

func TestRun_AfterTermination_FailsWithLifecycleError(t *testing.T) {
	s := runScenario(t, HeuristicNeverMigrate)

	err := s.Run(context.Background())
	var lifecycleErr *LifecycleError
	if !errors.As(err, &lifecycleErr) {
		t.Fatalf("expected LifecycleError, got %v", err)
	}
	assert.Equal(t, SimTerminated, lifecycleErr.State)

	err = s.Step()
	assert.Error(t, err)
}

func TestRun_CancellationBetweenSteps_FlushesSummary(t *testing.T) {
	world, _, _ := scenarioWorld()
	s, err := NewSimulator(world, RunConfig{Seed: 1, Heuristic: HeuristicNeverMigrate}, ThresholdConfig{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = s.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, SimTerminated, s.State())

	// The summary is still available: no partial-step state, just whatever
	// full steps completed (none here).
	summary := s.Metrics.Summary()
	assert.Equal(t, 0, summary.Steps)
}

func TestStep_DelayViolationsRecorded(t *testing.T) {
	// GIVEN a user whose delay budget is below the wired path latency
	r := NewRegistry()
	s1 := addServer(r, Point{X: 0, Y: 0}, 10)
	s2 := addServer(r, Point{X: 10, Y: 0}, 10)
	app := &Application{}
	r.AddApplication(app)
	addService(r, app, s2, 4, 0)
	addUser(r, app, []Waypoint{
		{Position: Point{X: 0, Y: 0}, Time: 1},
		{Position: Point{X: 0, Y: 0.1}, Time: 2},
	}, 3, 10)
	world := newTestWorld(r, testLink(s1, s2, 5, 10))

	s, err := NewSimulator(world, RunConfig{Seed: 1, Heuristic: HeuristicNeverMigrate}, ThresholdConfig{})
	require.NoError(t, err)
	require.NoError(t, s.Run(context.Background()))

	// THEN every step records a violation (delay 5 > budget 3)
	summary := s.Metrics.Summary()
	assert.Equal(t, 2, summary.Steps)
	assert.Equal(t, 2, summary.TotalViolations)
}

func TestStep_ProvisioningWindow_DeferredPromotion(t *testing.T) {
	// GIVEN a run long enough to watch a provisioning window close: the
	// user reaches server 2 at step 3 and then lingers there.
	r := NewRegistry()
	s1 := addServer(r, Point{X: 0, Y: 0}, 10)
	s2 := addServer(r, Point{X: 10, Y: 0}, 10)
	app := &Application{}
	r.AddApplication(app)
	svc := addService(r, app, s1, 4, 2)
	addUser(r, app, []Waypoint{
		{Position: Point{X: 0, Y: 0}, Time: 1},
		{Position: Point{X: 10, Y: 0}, Time: 3},
		{Position: Point{X: 10, Y: 0.1}, Time: 8},
	}, 5, 10)
	world := newTestWorld(r, testLink(s1, s2, 1, 10))

	s, err := NewSimulator(world, RunConfig{Seed: 1, Heuristic: HeuristicFollowUser}, ThresholdConfig{})
	require.NoError(t, err)

	// Step 3: migration commits, service enters provisioning.
	for i := 0; i < 3; i++ {
		require.NoError(t, s.Step())
	}
	assert.Equal(t, ServiceProvisioning, svc.State)
	assert.Same(t, s1, svc.DelayHost())

	// Steps 4 and 5 consume the two provisioning steps.
	require.NoError(t, s.Step())
	assert.Equal(t, ServiceProvisioning, svc.State)
	require.NoError(t, s.Step())
	assert.Equal(t, ServiceActive, svc.State)
	assert.Same(t, s2, svc.DelayHost())

	// Exactly one migration despite follow-user running every step: the
	// provisioning service was excluded from re-evaluation.
	assert.Equal(t, 1, s.Metrics.Summary().TotalMigrations)
}

func TestStep_RegistryOrder_SerializesCapacityContention(t *testing.T) {
	// GIVEN two users whose services both want the single free slot on the
	// nearer server
	r := NewRegistry()
	s1 := addServer(r, Point{X: 0, Y: 0}, 10)
	s2 := addServer(r, Point{X: 10, Y: 0}, 4)
	appA := &Application{}
	r.AddApplication(appA)
	appB := &Application{}
	r.AddApplication(appB)
	svcA := addService(r, appA, s1, 4, 0)
	svcB := addService(r, appB, s1, 4, 0)
	path := []Waypoint{
		{Position: Point{X: 10, Y: 0}, Time: 1},
		{Position: Point{X: 10, Y: 0.1}, Time: 2},
	}
	addUser(r, appA, path, 100, 10)
	addUser(r, appB, path, 100, 10)
	world := newTestWorld(r, testLink(s1, s2, 1, 10))

	s, err := NewSimulator(world, RunConfig{Seed: 1, Heuristic: HeuristicFollowUser}, ThresholdConfig{})
	require.NoError(t, err)
	require.NoError(t, s.Run(context.Background()))

	// THEN the first user in registry order wins the capacity; the second
	// stays behind.
	assert.Same(t, s2, svcA.Host)
	assert.Same(t, s1, svcB.Host)
	assert.Equal(t, 1, s.Metrics.Summary().TotalMigrations)
}

func TestNewSimulator_RejectsInvalidThresholds(t *testing.T) {
	world, _, _ := scenarioWorld()

	_, err := NewSimulator(world, RunConfig{Heuristic: HeuristicThreshold}, ThresholdConfig{Delay: 1.5})
	assert.Error(t, err)
}
