// Defines the EdgeServer entity and the Resources vector used for capacity
// accounting. Allocation is mutated only through Infrastructure.Relocate and
// the dataset loader's initial placement; the invariant allocation <= capacity
// holds at every step or the run aborts.

package sim

import "fmt"

// Resources is a semantic resource vector. All comparisons are
// component-wise; there is no scalarization anywhere in capacity accounting.
type Resources struct {
	CPU    float64 `json:"cpu"`
	Memory float64 `json:"memory"`
	Disk   float64 `json:"disk"`
}

// Add returns r + o.
func (r Resources) Add(o Resources) Resources {
	return Resources{CPU: r.CPU + o.CPU, Memory: r.Memory + o.Memory, Disk: r.Disk + o.Disk}
}

// Sub returns r - o.
func (r Resources) Sub(o Resources) Resources {
	return Resources{CPU: r.CPU - o.CPU, Memory: r.Memory - o.Memory, Disk: r.Disk - o.Disk}
}

// Fits reports whether every component of r is within o.
func (r Resources) Fits(o Resources) bool {
	return r.CPU <= o.CPU && r.Memory <= o.Memory && r.Disk <= o.Disk
}

func (r Resources) String() string {
	return fmt.Sprintf("(cpu=%g mem=%g disk=%g)", r.CPU, r.Memory, r.Disk)
}

// EdgeServer models a host in the edge infrastructure. Servers double as
// network access points for nearby users, so each carries the wireless delay
// paid before any wired hop.
type EdgeServer struct {
	ID            int
	Coordinates   Point
	WirelessDelay float64

	Capacity   Resources
	Allocation Resources
	Services   []*Service
}

func (s *EdgeServer) String() string {
	return fmt.Sprintf("server_%d", s.ID)
}

// FreeCapacity returns the capacity not consumed by hosted services.
func (s *EdgeServer) FreeCapacity() Resources {
	return s.Capacity.Sub(s.Allocation)
}

// CanHost reports whether the server has free capacity for an additional
// demand vector.
func (s *EdgeServer) CanHost(demand Resources) bool {
	return s.Allocation.Add(demand).Fits(s.Capacity)
}

// Utilization returns the mean occupied fraction across the capacity
// components that are actually provisioned on this server.
func (s *EdgeServer) Utilization() float64 {
	var sum float64
	var n int
	for _, c := range [][2]float64{
		{s.Allocation.CPU, s.Capacity.CPU},
		{s.Allocation.Memory, s.Capacity.Memory},
		{s.Allocation.Disk, s.Capacity.Disk},
	} {
		if c[1] > 0 {
			sum += c[0] / c[1]
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
