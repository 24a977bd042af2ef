// Package sim provides the core discrete-time simulation engine for edgesim.
//
// # Reading Guide
//
// Start with these three files to understand the simulation kernel:
//   - registry.go: the entity arena owned by each Simulator (ids, ordered iteration)
//   - topology.go: the infrastructure graph, cached shortest-path delays, and Relocate
//   - simulator.go: the step loop, constraint evaluation, and heuristic dispatch
//
// # Architecture
//
// A Simulator owns all mutable state for one run: the Registry of entities,
// the Infrastructure (topology + placement), the MobilityModel, the selected
// Heuristic, and the Metrics collector. Nothing is process-global; two
// Simulators with distinct seeds and datasets can run side by side with no
// shared state.
//
// Each step performs, in fixed order: mobility updates, per-user delay
// evaluation, heuristic invocation, migration commit, provisioning counter
// advancement, and metrics recording. User evaluation always follows
// registry insertion order so that two runs with the same dataset and seed
// are bit-identical in their decision sequences.
//
// # Key Interfaces
//
// The extension point is the Heuristic interface: a single Decide method
// that maps a read-only view of the infrastructure to a placement Decision.
// The set of heuristics is closed (never-migrate, follow-user,
// threshold-based) and dispatched through NewHeuristic; new variants are
// added by extending that set, not by runtime registration.
//
// Serializable run output lives in the sim/report sub-package, which stores
// pure data types and has no dependency on sim/.
package sim
