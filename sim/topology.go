// Implements the infrastructure model: the link topology as a weighted gonum
// graph, all-pairs shortest-path delays computed once at load time, and the
// single mutation entry point Relocate through which every service placement
// change is serialized.

package sim

import (
	"math"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"
)

// Link is a bidirectional network link between two servers.
type Link struct {
	ID        int
	From      *EdgeServer
	To        *EdgeServer
	Bandwidth float64
	Latency   float64
}

// Infrastructure holds the entity graph of one run and answers topology
// queries against it. Shortest-path delays are computed once at construction
// (Floyd-Warshall over link latencies) and cached; Relocate is the only
// operation that mutates placement state.
type Infrastructure struct {
	registry   *Registry
	links      []*Link
	linkByPair map[[2]int64]*Link

	graph    *simple.WeightedUndirectedGraph
	shortest path.AllShortest
}

// NewInfrastructure builds the topology graph from the registered servers
// and the given links and precomputes all-pairs shortest-path delays.
func NewInfrastructure(registry *Registry, links []*Link) *Infrastructure {
	g := simple.NewWeightedUndirectedGraph(0, math.Inf(1))
	for _, s := range registry.Servers() {
		g.AddNode(simple.Node(s.ID))
	}

	byPair := make(map[[2]int64]*Link, len(links))
	for _, l := range links {
		g.SetWeightedEdge(g.NewWeightedEdge(simple.Node(l.From.ID), simple.Node(l.To.ID), l.Latency))
		byPair[pairKey(int64(l.From.ID), int64(l.To.ID))] = l
	}

	shortest, ok := path.FloydWarshall(g)
	if !ok {
		// Link latencies are validated non-negative at load time, so a
		// negative cycle here is unreachable.
		logrus.Fatalf("topology: shortest-path computation found a negative cycle")
	}

	return &Infrastructure{
		registry:   registry,
		links:      links,
		linkByPair: byPair,
		graph:      g,
		shortest:   shortest,
	}
}

func pairKey(a, b int64) [2]int64 {
	if a > b {
		a, b = b, a
	}
	return [2]int64{a, b}
}

// Registry exposes lookup access to the entities of this run.
func (inf *Infrastructure) Registry() *Registry { return inf.registry }

// Servers returns all servers in registry insertion order.
func (inf *Infrastructure) Servers() []*EdgeServer { return inf.registry.Servers() }

// Links returns all network links.
func (inf *Infrastructure) Links() []*Link { return inf.links }

// PathDelay returns the cached shortest-path delay between two servers. The
// second return is false when no path exists.
func (inf *Infrastructure) PathDelay(a, b *EdgeServer) (float64, bool) {
	if a.ID == b.ID {
		return 0, true
	}
	w := inf.shortest.Weight(int64(a.ID), int64(b.ID))
	if math.IsInf(w, 1) {
		return 0, false
	}
	return w, true
}

// PathBandwidth returns the bottleneck bandwidth along the cached shortest
// path between two servers. The second return is false when no path exists.
// For a server paired with itself the bandwidth is unbounded and the first
// return is +Inf.
func (inf *Infrastructure) PathBandwidth(a, b *EdgeServer) (float64, bool) {
	if a.ID == b.ID {
		return math.Inf(1), true
	}
	nodes, _, _ := inf.shortest.Between(int64(a.ID), int64(b.ID))
	if len(nodes) < 2 {
		return 0, false
	}
	bottleneck := math.Inf(1)
	for i := 0; i < len(nodes)-1; i++ {
		link := inf.linkByPair[pairKey(nodes[i].ID(), nodes[i+1].ID())]
		if link.Bandwidth < bottleneck {
			bottleneck = link.Bandwidth
		}
	}
	return bottleneck, true
}

// AccessDelay returns the delay a user observes when reaching the target
// server: the wireless hop to its access server plus the shortest wired path
// from there. The second return is false when the target is unreachable.
func (inf *Infrastructure) AccessDelay(u *User, target *EdgeServer) (float64, bool) {
	access := u.AccessServer
	if access == nil {
		return 0, false
	}
	wired, ok := inf.PathDelay(access, target)
	if !ok {
		return 0, false
	}
	return access.WirelessDelay + wired, true
}

// NearestServer returns the server closest (euclidean) to the given point,
// with distance ties broken by lowest server id.
func (inf *Infrastructure) NearestServer(p Point) *EdgeServer {
	var nearest *EdgeServer
	best := math.Inf(1)
	for _, s := range inf.registry.Servers() {
		if d := p.DistanceTo(s.Coordinates); d < best {
			best = d
			nearest = s
		}
	}
	return nearest
}

// ProvisioningEstimate predicts the provisioning time of migrating a service
// to the target host: the service's static instantiation time plus the state
// transfer time over the bottleneck bandwidth of the migration path. Services
// without declared size, or migrations within one host, pay only the static
// component.
func (inf *Infrastructure) ProvisioningEstimate(svc *Service, target *EdgeServer) float64 {
	estimate := float64(svc.ProvisioningTime)
	if svc.Size <= 0 || svc.Host == nil || svc.Host.ID == target.ID {
		return estimate
	}
	bandwidth, ok := inf.PathBandwidth(svc.Host, target)
	if !ok || math.IsInf(bandwidth, 1) {
		return estimate
	}
	return estimate + svc.Size/bandwidth
}

// Relocate moves a service to the target server. The capacity check and the
// allocation transfer are atomic: on CapacityError no state has changed.
// Relocating a service onto its current host is a no-op.
func (inf *Infrastructure) Relocate(svc *Service, target *EdgeServer, step int) error {
	source := svc.Host
	if source != nil && source.ID == target.ID {
		return nil
	}

	if !target.CanHost(svc.Demand) {
		return &CapacityError{
			Step:      step,
			ServiceID: svc.ID,
			ServerID:  target.ID,
			Demand:    svc.Demand,
			Free:      target.FreeCapacity(),
		}
	}

	if source != nil {
		source.Allocation = source.Allocation.Sub(svc.Demand)
		source.Services = removeService(source.Services, svc)
	}
	target.Allocation = target.Allocation.Add(svc.Demand)
	target.Services = append(target.Services, svc)
	svc.Host = target

	if source != nil {
		svc.beginProvisioning(source, step)
		logrus.Debugf("[step %04d] relocated %s: %s -> %s", step, svc, source, target)
	}
	return nil
}

func removeService(services []*Service, svc *Service) []*Service {
	for i, s := range services {
		if s.ID == svc.ID {
			return append(services[:i], services[i+1:]...)
		}
	}
	return services
}
