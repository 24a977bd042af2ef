// Package report provides the serializable run-output types of the
// simulator. This package has no dependencies on sim/ — it stores pure data
// types consumed by external reporting tooling.
package report

// MigrationRecord captures a single committed service migration.
type MigrationRecord struct {
	Step              int     `json:"step"`
	ServiceID         int     `json:"service_id"`
	UserID            int     `json:"user_id"`
	SourceID          int     `json:"source_id"`
	TargetID          int     `json:"target_id"`
	Duration          float64 `json:"duration"`
	ProvisioningSteps int     `json:"provisioning_steps"`
}

// ViolationRecord captures one observed delay-budget violation.
type ViolationRecord struct {
	Step      int     `json:"step"`
	UserID    int     `json:"user_id"`
	ServiceID int     `json:"service_id"`
	Delay     float64 `json:"delay"`
	Budget    float64 `json:"budget"`
}

// ServerUtilization captures one server's occupied capacity fraction at the
// end of a step.
type ServerUtilization struct {
	ServerID    int     `json:"server_id"`
	Utilization float64 `json:"utilization"`
}

// StepRecord is the summary of one simulation step.
type StepRecord struct {
	Step        int                 `json:"step"`
	Violations  []ViolationRecord   `json:"violations"`
	Migrations  []MigrationRecord   `json:"migrations"`
	Utilization []ServerUtilization `json:"utilization"`
}

// Summary aggregates a whole run.
type Summary struct {
	Steps                int     `json:"steps"`
	TotalMigrations      int     `json:"total_migrations"`
	TotalViolations      int     `json:"total_violations"`
	AvgProvisioningTime  float64 `json:"avg_provisioning_time"`
	MinMigrationDuration float64 `json:"min_migration_duration"`
	MaxMigrationDuration float64 `json:"max_migration_duration"`
	OccupationRate       float64 `json:"occupation_rate"`
	OverloadedServers    int     `json:"overloaded_servers"`
}

// RunReport is the complete structured output of one run.
type RunReport struct {
	Heuristic string       `json:"heuristic"`
	Seed      int64        `json:"seed"`
	Summary   Summary      `json:"summary"`
	StepLog   []StepRecord `json:"step_log"`
}
