// Loads the entity graph from a dataset document produced by the external
// dataset generator. Referential integrity and the capacity invariant are
// checked here; any inconsistency aborts with a DatasetError before the
// simulation can start running.

package sim

import (
	"encoding/json"
	"fmt"
	"os"
)

// World is the loaded, validated entity graph a Simulator runs against.
type World struct {
	Registry       *Registry
	Infrastructure *Infrastructure
	// Steps is the step budget suggested by the dataset; zero means the
	// dataset leaves the termination mode to the run configuration.
	Steps int
}

type datasetFile struct {
	SimulationSteps int               `json:"simulation_steps"`
	Servers         []serverSpec      `json:"servers"`
	Links           []linkSpec        `json:"links"`
	Applications    []applicationSpec `json:"applications"`
	Services        []serviceSpec     `json:"services"`
	Users           []userSpec        `json:"users"`
}

type serverSpec struct {
	ID            int        `json:"id"`
	Coordinates   [2]float64 `json:"coordinates"`
	WirelessDelay float64    `json:"wireless_delay"`
	Capacity      Resources  `json:"capacity"`
}

type linkSpec struct {
	ID        int     `json:"id"`
	Nodes     [2]int  `json:"nodes"`
	Latency   float64 `json:"latency"`
	Bandwidth float64 `json:"bandwidth"`
}

type applicationSpec struct {
	ID int `json:"id"`
}

type serviceSpec struct {
	ID               int       `json:"id"`
	Application      int       `json:"application"`
	Demand           Resources `json:"demand"`
	Size             float64   `json:"size"`
	ProvisioningTime int       `json:"provisioning_time"`
	Server           int       `json:"server"`
}

type userSpec struct {
	ID                 int            `json:"id"`
	Application        int            `json:"application"`
	DelayBudget        float64        `json:"delay_budget"`
	ProvisioningBudget float64        `json:"provisioning_budget"`
	Path               []waypointSpec `json:"path"`
}

type waypointSpec struct {
	Position [2]float64 `json:"position"`
	Time     float64    `json:"time"`
}

// LoadDataset reads and validates a dataset file.
func LoadDataset(path string) (*World, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, datasetErrorf("reading %s: %v", path, err)
	}
	return ParseDataset(data)
}

// ParseDataset builds a World from a dataset document. Entities are
// registered in file order; the ids used inside the document are local to it
// and only serve cross-references, the registry assigns the canonical ids.
func ParseDataset(data []byte) (*World, error) {
	var file datasetFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, datasetErrorf("malformed document: %v", err)
	}
	if len(file.Servers) == 0 {
		return nil, datasetErrorf("no servers defined")
	}

	registry := NewRegistry()

	servers := make(map[int]*EdgeServer, len(file.Servers))
	for _, spec := range file.Servers {
		if _, dup := servers[spec.ID]; dup {
			return nil, datasetErrorf("duplicate server id %d", spec.ID)
		}
		if !(Resources{}).Fits(spec.Capacity) {
			return nil, datasetErrorf("server %d has negative capacity %v", spec.ID, spec.Capacity)
		}
		server := &EdgeServer{
			Coordinates:   Point{X: spec.Coordinates[0], Y: spec.Coordinates[1]},
			WirelessDelay: spec.WirelessDelay,
			Capacity:      spec.Capacity,
		}
		registry.AddServer(server)
		servers[spec.ID] = server
	}

	links := make([]*Link, 0, len(file.Links))
	for _, spec := range file.Links {
		from, ok := servers[spec.Nodes[0]]
		if !ok {
			return nil, datasetErrorf("link %d references nonexistent node %d", spec.ID, spec.Nodes[0])
		}
		to, ok := servers[spec.Nodes[1]]
		if !ok {
			return nil, datasetErrorf("link %d references nonexistent node %d", spec.ID, spec.Nodes[1])
		}
		if from == to {
			return nil, datasetErrorf("link %d is a self loop", spec.ID)
		}
		if spec.Latency < 0 {
			return nil, datasetErrorf("link %d has negative latency", spec.ID)
		}
		if spec.Bandwidth <= 0 {
			return nil, datasetErrorf("link %d has non-positive bandwidth", spec.ID)
		}
		links = append(links, &Link{
			ID:        len(links) + 1,
			From:      from,
			To:        to,
			Latency:   spec.Latency,
			Bandwidth: spec.Bandwidth,
		})
	}

	apps := make(map[int]*Application, len(file.Applications))
	for _, spec := range file.Applications {
		if _, dup := apps[spec.ID]; dup {
			return nil, datasetErrorf("duplicate application id %d", spec.ID)
		}
		app := &Application{}
		registry.AddApplication(app)
		apps[spec.ID] = app
	}

	services := make(map[int]*Service, len(file.Services))
	for _, spec := range file.Services {
		if _, dup := services[spec.ID]; dup {
			return nil, datasetErrorf("duplicate service id %d", spec.ID)
		}
		app, ok := apps[spec.Application]
		if !ok {
			return nil, datasetErrorf("service %d references nonexistent application %d", spec.ID, spec.Application)
		}
		host, ok := servers[spec.Server]
		if !ok {
			return nil, datasetErrorf("service %d references nonexistent host %d", spec.ID, spec.Server)
		}
		if spec.ProvisioningTime < 0 {
			return nil, datasetErrorf("service %d has negative provisioning time", spec.ID)
		}
		svc := &Service{
			Demand:           spec.Demand,
			Size:             spec.Size,
			ProvisioningTime: spec.ProvisioningTime,
			State:            ServiceActive,
			Application:      app,
		}
		registry.AddService(svc)
		services[spec.ID] = svc
		app.Services = append(app.Services, svc)

		// Initial placement must respect the capacity invariant; a violation
		// in the dataset is a DatasetError, never silently clamped.
		if !host.CanHost(svc.Demand) {
			return nil, datasetErrorf("initial placement of service %d violates capacity of server %d (demand %v, free %v)",
				spec.ID, spec.Server, svc.Demand, host.FreeCapacity())
		}
		host.Allocation = host.Allocation.Add(svc.Demand)
		host.Services = append(host.Services, svc)
		svc.Host = host
	}

	seenUsers := make(map[int]bool, len(file.Users))
	for _, spec := range file.Users {
		if seenUsers[spec.ID] {
			return nil, datasetErrorf("duplicate user id %d", spec.ID)
		}
		seenUsers[spec.ID] = true
		app, ok := apps[spec.Application]
		if !ok {
			return nil, datasetErrorf("user %d references nonexistent application %d", spec.ID, spec.Application)
		}
		if spec.DelayBudget <= 0 {
			return nil, datasetErrorf("user %d has non-positive delay budget", spec.ID)
		}
		if spec.ProvisioningBudget <= 0 {
			return nil, datasetErrorf("user %d has non-positive provisioning budget", spec.ID)
		}
		path, err := parsePath(spec)
		if err != nil {
			return nil, err
		}
		user := &User{
			Path:               path,
			Position:           path[0].Position,
			Application:        app,
			DelayBudget:        spec.DelayBudget,
			ProvisioningBudget: spec.ProvisioningBudget,
		}
		registry.AddUser(user)
		app.Users = append(app.Users, user)
	}

	world := &World{
		Registry:       registry,
		Infrastructure: NewInfrastructure(registry, links),
		Steps:          file.SimulationSteps,
	}

	// Users attach to their nearest access point before the first step so
	// that step 1 evaluates a fully initialized world.
	for _, u := range registry.Users() {
		u.AccessServer = world.Infrastructure.NearestServer(u.Position)
	}
	return world, nil
}

func parsePath(spec userSpec) ([]Waypoint, error) {
	if len(spec.Path) == 0 {
		return nil, datasetErrorf("user %d has an empty path", spec.ID)
	}
	path := make([]Waypoint, len(spec.Path))
	for i, wp := range spec.Path {
		path[i] = Waypoint{
			Position: Point{X: wp.Position[0], Y: wp.Position[1]},
			Time:     wp.Time,
		}
		if i > 0 && path[i].Time <= path[i-1].Time {
			return nil, &DatasetError{Reason: fmt.Sprintf("user %d waypoint times not strictly increasing", spec.ID)}
		}
	}
	return path, nil
}
