package domain

import "fmt"

// ActorRole who performs a lifecycle action
type ActorRole string

const (
	RoleCustomer ActorRole = "customer"
	RoleStaff    ActorRole = "staff"
	RoleSystem   ActorRole = "system" // scheduled completion job
)

// ParseActorRole converts a header/claim value into an ActorRole.
// Only customer and staff can come from outside.
func ParseActorRole(s string) (ActorRole, error) {
	switch ActorRole(s) {
	case RoleCustomer, RoleStaff:
		return ActorRole(s), nil
	}
	return "", fmt.Errorf("unknown actor role %q", s)
}

// Actor authenticated caller of a lifecycle operation
type Actor struct {
	UserID int64
	Role   ActorRole
}

// IsStaff returns true for restaurant staff
func (a Actor) IsStaff() bool {
	return a.Role == RoleStaff
}

// SystemActor the actor used by the completion job
func SystemActor() Actor {
	return Actor{Role: RoleSystem}
}
