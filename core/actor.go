package core

import "fmt"

// Role is the role an external identity provider assigns to a user.
type Role string

const (
	RoleMember    Role = "member"
	RoleLibrarian Role = "librarian"
)

// ParseRole maps a role name to a Role.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleMember, RoleLibrarian:
		return Role(s), nil
	default:
		return "", NewFailure(KindValidation, "unknown role %q", s)
	}
}

// Actor is the authenticated caller of an operation.
type Actor struct {
	UserID string
	Role   Role
}

// Member builds an Actor with the member role.
func Member(userID string) Actor {
	return Actor{UserID: userID, Role: RoleMember}
}

// Librarian builds an Actor with the librarian role.
func Librarian(userID string) Actor {
	return Actor{UserID: userID, Role: RoleLibrarian}
}

// IsLibrarian reports whether the actor has librarian privileges.
func (a Actor) IsLibrarian() bool {
	return a.Role == RoleLibrarian
}

// CanActFor reports whether the actor may see or change records of userID.
func (a Actor) CanActFor(userID string) bool {
	return a.IsLibrarian() || a.UserID == userID
}

// RequireLibrarian fails with KindForbidden unless the actor is a librarian.
func (a Actor) RequireLibrarian(action string) *Failure {
	if a.IsLibrarian() {
		return nil
	}

	return NewFailure(KindForbidden, "only librarians may %s", action)
}

// String implements fmt.Stringer.
func (a Actor) String() string {
	return fmt.Sprintf("%s(%s)", a.Role, a.UserID)
}

// ScopeFor resolves whose records a listing may show. Members are limited to their own;
// librarians see the requested user, or everyone when userID is empty.
func (a Actor) ScopeFor(userID string) (string, *Failure) {
	if a.IsLibrarian() {
		return userID, nil
	}

	if userID == "" || userID == a.UserID {
		return a.UserID, nil
	}

	return "", NewFailure(KindForbidden, "members may only see their own records")
}
