// Implements the entity arena owned by each Simulator. Ids are assigned on
// registration, monotonically increasing within each type partition, and
// iteration always follows insertion order so that step evaluation is
// deterministic across runs.

package sim

// collection is one type partition of the registry. Ids are dense (1..n), so
// lookup is a bounds check and an index.
type collection[T any] struct {
	kind  string
	items []T
}

func (c *collection[T]) add(item T) int {
	c.items = append(c.items, item)
	return len(c.items)
}

func (c *collection[T]) find(id int) (T, error) {
	if id < 1 || id > len(c.items) {
		var zero T
		return zero, &LookupError{Kind: c.kind, ID: id}
	}
	return c.items[id-1], nil
}

// Registry indexes all simulated entities of a single run. It is created by
// the dataset loader, owned by the Simulator, and passed by reference to any
// component that needs lookup access. Entities are never removed; the whole
// registry is discarded when the run ends.
type Registry struct {
	servers  collection[*EdgeServer]
	services collection[*Service]
	users    collection[*User]
	apps     collection[*Application]
}

func NewRegistry() *Registry {
	return &Registry{
		servers:  collection[*EdgeServer]{kind: "server"},
		services: collection[*Service]{kind: "service"},
		users:    collection[*User]{kind: "user"},
		apps:     collection[*Application]{kind: "application"},
	}
}

// AddServer registers a server and assigns its id. Registering an entity
// twice is a programming error and panics.
func (r *Registry) AddServer(s *EdgeServer) int {
	mustBeUnregistered("server", s.ID)
	s.ID = r.servers.add(s)
	return s.ID
}

func (r *Registry) AddService(s *Service) int {
	mustBeUnregistered("service", s.ID)
	s.ID = r.services.add(s)
	return s.ID
}

func (r *Registry) AddUser(u *User) int {
	mustBeUnregistered("user", u.ID)
	u.ID = r.users.add(u)
	return u.ID
}

func (r *Registry) AddApplication(a *Application) int {
	mustBeUnregistered("application", a.ID)
	a.ID = r.apps.add(a)
	return a.ID
}

// Server returns the server with the given id, or a LookupError.
func (r *Registry) Server(id int) (*EdgeServer, error) { return r.servers.find(id) }

// Service returns the service with the given id, or a LookupError.
func (r *Registry) Service(id int) (*Service, error) { return r.services.find(id) }

// User returns the user with the given id, or a LookupError.
func (r *Registry) User(id int) (*User, error) { return r.users.find(id) }

// Application returns the application with the given id, or a LookupError.
func (r *Registry) Application(id int) (*Application, error) { return r.apps.find(id) }

// Servers returns all servers in insertion order. The returned slice is the
// registry's backing store; callers must not mutate it.
func (r *Registry) Servers() []*EdgeServer { return r.servers.items }

// Services returns all services in insertion order.
func (r *Registry) Services() []*Service { return r.services.items }

// Users returns all users in insertion order.
func (r *Registry) Users() []*User { return r.users.items }

// Applications returns all applications in insertion order.
func (r *Registry) Applications() []*Application { return r.apps.items }

func mustBeUnregistered(kind string, id int) {
	if id != 0 {
		panic("registry: " + kind + " registered twice")
	}
}
