// Tracks per-step and run-wide statistics: delay violations, migrations
// performed, and per-server utilization. The collector is a pure observer;
// it never mutates simulation state.

package sim

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/edgesim/edgesim/sim/report"
)

// StepEvents carries what happened during a single step into the collector.
type StepEvents struct {
	Violations []report.ViolationRecord
	Migrations []report.MigrationRecord
}

// Metrics aggregates statistics about the simulation for final reporting.
// Step records are append-only and ordered by step index.
type Metrics struct {
	steps []report.StepRecord

	migrationDurations []float64
	provisioningSteps  []float64
	utilizations       []float64
	totalViolations    int
	overloaded         int
}

func NewMetrics() *Metrics {
	return &Metrics{}
}

// Record appends the summary of one step. The servers slice is read for
// utilization snapshots only.
func (m *Metrics) Record(step int, events StepEvents, servers []*EdgeServer) {
	utilization := make([]report.ServerUtilization, 0, len(servers))
	for _, s := range servers {
		u := s.Utilization()
		utilization = append(utilization, report.ServerUtilization{ServerID: s.ID, Utilization: u})
		m.utilizations = append(m.utilizations, u)
		if !s.Allocation.Fits(s.Capacity) {
			m.overloaded++
		}
	}

	for _, mig := range events.Migrations {
		m.migrationDurations = append(m.migrationDurations, mig.Duration)
		m.provisioningSteps = append(m.provisioningSteps, float64(mig.ProvisioningSteps))
	}
	m.totalViolations += len(events.Violations)

	m.steps = append(m.steps, report.StepRecord{
		Step:        step,
		Violations:  events.Violations,
		Migrations:  events.Migrations,
		Utilization: utilization,
	})
}

// StepRecords returns the ordered per-step records collected so far.
func (m *Metrics) StepRecords() []report.StepRecord {
	return m.steps
}

// Summary aggregates the totals of the run recorded so far.
func (m *Metrics) Summary() report.Summary {
	s := report.Summary{
		Steps:             len(m.steps),
		TotalMigrations:   len(m.migrationDurations),
		TotalViolations:   m.totalViolations,
		OverloadedServers: m.overloaded,
	}
	if len(m.migrationDurations) > 0 {
		s.AvgProvisioningTime = stat.Mean(m.provisioningSteps, nil)
		s.MinMigrationDuration = minOf(m.migrationDurations)
		s.MaxMigrationDuration = maxOf(m.migrationDurations)
	}
	if len(m.utilizations) > 0 {
		s.OccupationRate = stat.Mean(m.utilizations, nil)
	}
	return s
}

// Print displays the aggregated metrics at the end of the simulation.
func (m *Metrics) Print() {
	s := m.Summary()
	fmt.Println("=== Simulation Metrics ===")
	fmt.Printf("Steps                : %d\n", s.Steps)
	fmt.Printf("Migrations           : %d\n", s.TotalMigrations)
	fmt.Printf("Delay Violations     : %d\n", s.TotalViolations)
	fmt.Printf("Occupation Rate      : %.2f\n", s.OccupationRate)
	fmt.Printf("Overloaded Servers   : %d\n", s.OverloadedServers)
	if s.TotalMigrations > 0 {
		fmt.Printf("Avg Provisioning Time: %.2f steps\n", s.AvgProvisioningTime)
		fmt.Printf("Migration Duration   : min %.2f / max %.2f\n", s.MinMigrationDuration, s.MaxMigrationDuration)
	}
}

func minOf(values []float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func maxOf(values []float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}
