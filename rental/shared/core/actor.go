package core

// Role is the capability of an actor.
type Role string

// ActorStatus tells whether an actor may act at all.
type ActorStatus string

const (
	RoleStudent Role = "student"
	RoleGuard   Role = "guard"
	RoleAdmin   Role = "admin"

	ActorActive   ActorStatus = "active"
	ActorDisabled ActorStatus = "disabled"
)

// Actor is what the identity provider knows about a user.
// The zero value represents an unknown actor.
type Actor struct {
	ID     string      `json:"id"`
	Role   Role        `json:"role"`
	Status ActorStatus `json:"status"`
}

// BuildActor creates an Actor.
func BuildActor(id string, role Role, status ActorStatus) Actor {
	return Actor{ID: id, Role: role, Status: status}
}

// IsActive reports whether the actor exists, is active, and has the given role.
func (a Actor) IsActive(role Role) bool {
	return a.ID != "" && a.Status == ActorActive && a.Role == role
}

// IsKnown reports whether the actor was resolved by the identity provider.
func (a Actor) IsKnown() bool {
	return a.ID != ""
}
