// Defines the Service entity and its lifecycle states. A service is hosted by
// exactly one server at a time; while a migration is in flight it is in the
// provisioning state and its users are delay-evaluated against the old host
// until the provisioning counter runs out.

package sim

import "fmt"

// ServiceState represents the lifecycle state of a service.
type ServiceState string

const (
	ServiceActive       ServiceState = "active"
	ServiceProvisioning ServiceState = "provisioning"
)

type Service struct {
	ID int

	Demand Resources
	// Size is the amount of state transferred on migration, in the same
	// units as link bandwidth per step. Zero disables the transfer-time
	// component of provisioning estimates.
	Size float64
	// ProvisioningTime is the number of steps the service needs to become
	// fully operational on a new host after a migration commits.
	ProvisioningTime int

	State ServiceState
	// Host is the committed host. During provisioning it already points at
	// the migration target.
	Host *EdgeServer
	// previousHost is the origin of an in-flight migration; delay evaluation
	// uses it until provisioning completes. Nil while active.
	previousHost *EdgeServer
	// provisioningLeft counts the remaining provisioning steps.
	provisioningLeft int
	// migratedStep is the step at which the in-flight migration committed.
	migratedStep int

	Application *Application
}

func (s *Service) String() string {
	return fmt.Sprintf("service_%d", s.ID)
}

// DelayHost returns the server against which user delay is evaluated: the
// old host while a migration is provisioning, the committed host otherwise.
func (s *Service) DelayHost() *EdgeServer {
	if s.State == ServiceProvisioning && s.previousHost != nil {
		return s.previousHost
	}
	return s.Host
}

// beginProvisioning switches the service into the provisioning state after a
// relocation commit. Services with zero provisioning time stay active.
func (s *Service) beginProvisioning(from *EdgeServer, step int) {
	if s.ProvisioningTime <= 0 {
		return
	}
	s.State = ServiceProvisioning
	s.previousHost = from
	s.provisioningLeft = s.ProvisioningTime
	s.migratedStep = step
}

// advanceProvisioning decrements the provisioning counter and promotes the
// service back to active when it reaches zero. Counters advance starting the
// step after the migration committed, so a service provisioned at step k with
// provisioning time p becomes active again at the start of step k+p+1.
func (s *Service) advanceProvisioning(step int) {
	if s.State != ServiceProvisioning || step == s.migratedStep {
		return
	}
	s.provisioningLeft--
	if s.provisioningLeft <= 0 {
		s.State = ServiceActive
		s.previousHost = nil
	}
}
