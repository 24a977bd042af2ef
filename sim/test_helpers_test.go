package sim

// Shared builders for assembling worlds directly, bypassing the dataset
// loader, so tests control every attribute precisely.

func scalarRes(v float64) Resources {
	return Resources{CPU: v, Memory: v, Disk: v}
}

func addServer(r *Registry, at Point, capacity float64) *EdgeServer {
	s := &EdgeServer{Coordinates: at, Capacity: scalarRes(capacity)}
	r.AddServer(s)
	return s
}

func addService(r *Registry, app *Application, host *EdgeServer, demand float64, provisioningTime int) *Service {
	svc := &Service{
		Demand:           scalarRes(demand),
		ProvisioningTime: provisioningTime,
		State:            ServiceActive,
		Application:      app,
	}
	r.AddService(svc)
	app.Services = append(app.Services, svc)
	host.Allocation = host.Allocation.Add(svc.Demand)
	host.Services = append(host.Services, svc)
	svc.Host = host
	return svc
}

func addUser(r *Registry, app *Application, path []Waypoint, delayBudget, provisioningBudget float64) *User {
	u := &User{
		Path:               path,
		Position:           path[0].Position,
		Application:        app,
		DelayBudget:        delayBudget,
		ProvisioningBudget: provisioningBudget,
	}
	r.AddUser(u)
	app.Users = append(app.Users, u)
	return u
}

func testLink(a, b *EdgeServer, latency, bandwidth float64) *Link {
	return &Link{From: a, To: b, Latency: latency, Bandwidth: bandwidth}
}

func newTestWorld(r *Registry, links ...*Link) *World {
	w := &World{Registry: r, Infrastructure: NewInfrastructure(r, links)}
	for _, u := range r.Users() {
		u.AccessServer = w.Infrastructure.NearestServer(u.Position)
	}
	return w
}

// scenarioWorld builds the canonical two-server walkthrough: one service
// (demand 4, provisioning time 2) on server 1, and one user walking from
// server 1 at (0,0) to server 2 at (10,0) over a 3-waypoint path.
func scenarioWorld() (*World, *Service, *User) {
	r := NewRegistry()
	s1 := addServer(r, Point{X: 0, Y: 0}, 10)
	s2 := addServer(r, Point{X: 10, Y: 0}, 10)

	app := &Application{}
	r.AddApplication(app)
	svc := addService(r, app, s1, 4, 2)
	user := addUser(r, app, []Waypoint{
		{Position: Point{X: 0, Y: 0}, Time: 1},
		{Position: Point{X: 5, Y: 0}, Time: 2},
		{Position: Point{X: 10, Y: 0}, Time: 3},
	}, 5, 10)

	return newTestWorld(r, testLink(s1, s2, 1, 10)), svc, user
}
