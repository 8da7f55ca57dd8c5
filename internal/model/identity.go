package model

// Role is the closed set of caller roles recognized by the engine.
// Roles arrive in the JWT "role" claim issued by the auth service.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Identity is the authenticated caller passed explicitly into lifecycle
// operations.  Handlers build it from verified JWT claims; nothing
// downstream reads request state directly.
type Identity struct {
	UserID uint64
	Role   Role
}

// IsAdmin reports whether the identity carries the admin role.
func (i Identity) IsAdmin() bool { return i.Role == RoleAdmin }
