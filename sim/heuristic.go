// Defines the migration heuristic contract and the two baseline variants.
// Heuristics are a closed set dispatched through NewHeuristic; they receive
// read access to the infrastructure and must be pure with respect to
// simulation time: identical inputs always yield the same decision.

package sim

import "sort"

// Decision is a heuristic's placement verdict for one service: either no
// action or a migration to a specific server.
type Decision struct {
	Migrate bool
	Target  *EdgeServer
}

// NoAction returns the decision that leaves the placement unchanged.
func NoAction() Decision {
	return Decision{}
}

// MigrateTo returns the decision to relocate the service to the given server.
func MigrateTo(target *EdgeServer) Decision {
	return Decision{Migrate: true, Target: target}
}

// Heuristic decides whether and where to relocate a user's service. Decide is
// invoked once per user per step, after mobility updates, in registry order.
// Implementations must not mutate the infrastructure.
type Heuristic interface {
	Name() string
	Decide(u *User, svc *Service, view *Infrastructure, thresholds ThresholdConfig) Decision
}

// Heuristic names accepted by NewHeuristic.
const (
	HeuristicNeverMigrate = "never-migrate"
	HeuristicFollowUser   = "follow-user"
	HeuristicThreshold    = "threshold-based"
)

// NewHeuristic constructs a heuristic by name. The empty string defaults to
// never-migrate. Unknown names panic: the set is closed and a bad name is a
// configuration bug, not a runtime condition.
func NewHeuristic(name string) Heuristic {
	switch name {
	case HeuristicNeverMigrate, "":
		return &neverMigrate{}
	case HeuristicFollowUser:
		return &followUser{}
	case HeuristicThreshold:
		return &thresholdBased{}
	default:
		panic("unknown heuristic: " + name)
	}
}

// neverMigrate models static placement: services stay where the dataset put
// them, regardless of delay violations.
type neverMigrate struct{}

func (*neverMigrate) Name() string { return HeuristicNeverMigrate }

func (*neverMigrate) Decide(*User, *Service, *Infrastructure, ThresholdConfig) Decision {
	return NoAction()
}

// followUser models maximal responsiveness: every step the service chases
// the nearest feasible server to the user's new position.
type followUser struct{}

func (*followUser) Name() string { return HeuristicFollowUser }

func (*followUser) Decide(u *User, svc *Service, view *Infrastructure, _ ThresholdConfig) Decision {
	for _, cand := range candidatesByDelay(u, view) {
		// The current host being the closest feasible server ends the search.
		if cand == svc.Host {
			return NoAction()
		}
		if cand.CanHost(svc.Demand) {
			return MigrateTo(cand)
		}
	}
	return NoAction()
}

// candidatesByDelay returns all servers ordered by access delay from the
// user, unreachable servers excluded, delay ties broken by lowest id.
func candidatesByDelay(u *User, view *Infrastructure) []*EdgeServer {
	type scored struct {
		server *EdgeServer
		delay  float64
	}
	candidates := make([]scored, 0, len(view.Servers()))
	for _, s := range view.Servers() {
		if d, ok := view.AccessDelay(u, s); ok {
			candidates = append(candidates, scored{server: s, delay: d})
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].delay != candidates[j].delay {
			return candidates[i].delay < candidates[j].delay
		}
		return candidates[i].server.ID < candidates[j].server.ID
	})
	servers := make([]*EdgeServer, len(candidates))
	for i, c := range candidates {
		servers[i] = c.server
	}
	return servers
}
