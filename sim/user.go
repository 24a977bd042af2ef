// Defines the User entity: a mobile consumer of an application, moving along
// a predefined waypoint path. Position is mutated only by the MobilityModel
// and the arrived flag only by the engine's mobility phase.

package sim

import "fmt"

type User struct {
	ID int

	// Path is the ordered waypoint sequence, with strictly increasing
	// timestamps. Immutable after loading.
	Path []Waypoint
	// Position is the location derived from Path and the current step.
	Position Point
	// Arrived is set once the user passes its final waypoint; arrived users
	// are excluded from further migration evaluation.
	Arrived bool

	Application *Application

	// DelayBudget is the maximum tolerable access delay; exceeding it counts
	// as a delay violation.
	DelayBudget float64
	// ProvisioningBudget is the maximum tolerable provisioning time when one
	// of the user's services is migrated.
	ProvisioningBudget float64

	// AccessServer is the nearest server to the user's current position,
	// refreshed by the engine after each mobility update.
	AccessServer *EdgeServer
	// Delay is the access delay observed in the most recent step.
	Delay float64
}

func (u *User) String() string {
	return fmt.Sprintf("user_%d", u.ID)
}
