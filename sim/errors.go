// Defines the error taxonomy of the simulator. Every class is fatal: the
// simulation is deterministic and synchronous, so an error always reflects a
// logic or data defect and aborts the run with full context. There is no
// transient or retryable class.

package sim

import "fmt"

// DatasetError reports malformed or inconsistent dataset input. It is raised
// during loading, before the simulation transitions to running.
type DatasetError struct {
	Reason string
}

func (e *DatasetError) Error() string {
	return fmt.Sprintf("dataset: %s", e.Reason)
}

func datasetErrorf(format string, args ...any) *DatasetError {
	return &DatasetError{Reason: fmt.Sprintf(format, args...)}
}

// CapacityError reports a relocation that would exceed the target server's
// capacity. The attempted relocation leaves all state unchanged.
type CapacityError struct {
	Step      int
	ServiceID int
	ServerID  int
	Demand    Resources
	Free      Resources
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("capacity: step %d: service_%d demand %v exceeds free capacity %v on server_%d",
		e.Step, e.ServiceID, e.Demand, e.Free, e.ServerID)
}

// LookupError reports a registry miss. A miss always indicates an internal
// consistency bug, never a recoverable condition.
type LookupError struct {
	Kind string
	ID   int
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("lookup: no %s with id %d", e.Kind, e.ID)
}

// LifecycleError reports an operation attempted outside the valid
// state-machine state of the engine.
type LifecycleError struct {
	Op    string
	State SimState
}

func (e *LifecycleError) Error() string {
	return fmt.Sprintf("lifecycle: %s not permitted in state %q", e.Op, e.State)
}
