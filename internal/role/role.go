// Package role models the closed role set {staff, approver, admin} and
// the admin-only grant/revoke operations over it. A user may hold several
// roles at once and must always hold at least one.
package role

type Role string

const (
	Staff    Role = "staff"
	Approver Role = "approver"
	Admin    Role = "admin"
)

// Parse validates a wire-level role string against the closed set.
func Parse(v string) (Role, bool) {
	switch Role(v) {
	case Staff, Approver, Admin:
		return Role(v), true
	}
	return "", false
}

// ParseList keeps only the valid members of vs. Unknown strings are
// dropped silently; they can only appear through stale tokens.
func ParseList(vs []string) []Role {
	roles := make([]Role, 0, len(vs))
	for _, v := range vs {
		if r, ok := Parse(v); ok {
			roles = append(roles, r)
		}
	}
	return roles
}

// HasAny reports whether held contains at least one of the required
// roles. Every authorization check in the services goes through here.
func HasAny(held []Role, required ...Role) bool {
	for _, h := range held {
		for _, r := range required {
			if h == r {
				return true
			}
		}
	}
	return false
}

// Actor is the authenticated caller of an operation, passed explicitly
// into every service method instead of being read from ambient state.
type Actor struct {
	ID    string
	Roles []Role
}

func (a Actor) HasAny(required ...Role) bool {
	return HasAny(a.Roles, required...)
}

func Strings(roles []Role) []string {
	out := make([]string, len(roles))
	for i, r := range roles {
		out[i] = string(r)
	}
	return out
}
