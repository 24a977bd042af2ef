// Implements the threshold-based migration heuristic. A migration is
// proposed only when both the normalized predicted delay and the normalized
// predicted provisioning time exceed their configured thresholds, and only
// toward the feasible candidate with the lowest combined cost.

package sim

import "math"

type thresholdBased struct{}

func (*thresholdBased) Name() string { return HeuristicThreshold }

// Decide scores every feasible candidate by the sum of its normalized
// predicted delay and normalized predicted provisioning time, with cost ties
// broken by lowest server id. It migrates only when the current placement's
// normalized delay exceeds the delay threshold, the winning candidate's
// normalized provisioning time exceeds the provisioning threshold, and the
// candidate improves on the current host's cost.
func (*thresholdBased) Decide(u *User, svc *Service, view *Infrastructure, thresholds ThresholdConfig) Decision {
	currentCost := math.Inf(1)
	normDelay := math.Inf(1)
	if delay, ok := view.AccessDelay(u, svc.Host); ok {
		normDelay = delay / u.DelayBudget
		// Staying put needs no provisioning, so the current cost has no
		// provisioning component.
		currentCost = normDelay
	}

	var best *EdgeServer
	bestCost := math.Inf(1)
	bestProv := 0.0
	for _, cand := range view.Servers() {
		if cand == svc.Host || !cand.CanHost(svc.Demand) {
			continue
		}
		delay, ok := view.AccessDelay(u, cand)
		if !ok {
			continue
		}
		prov := view.ProvisioningEstimate(svc, cand) / u.ProvisioningBudget
		// Strict comparison keeps the lowest-id candidate on cost ties,
		// since servers iterate in registry order.
		if cost := delay/u.DelayBudget + prov; cost < bestCost {
			best = cand
			bestCost = cost
			bestProv = prov
		}
	}

	if best == nil || bestCost >= currentCost {
		return NoAction()
	}
	if normDelay <= thresholds.Delay || bestProv <= thresholds.Provisioning {
		return NoAction()
	}
	return MigrateTo(best)
}
