// Defines the Application entity: a group of services that jointly back a
// user-facing workload. Applications are not independently schedulable; all
// placement decisions happen at service granularity.

package sim

import "fmt"

type Application struct {
	ID int

	Services []*Service
	Users    []*User
}

func (a *Application) String() string {
	return fmt.Sprintf("application_%d", a.ID)
}
