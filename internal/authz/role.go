package authz

// Role is a member's role within a single workspace. The set is closed; permission
// is an explicit allow-set per action, never a rank comparison between roles.
type Role string

const (
	RoleAdmin          Role = "ADMIN"
	RoleProjectManager Role = "PROJECT_MANAGER"
	RoleAccountant     Role = "ACCOUNTANT"
	RoleMember         Role = "MEMBER"
)

func (r Role) String() string {
	return string(r)
}

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleProjectManager, RoleAccountant, RoleMember:
		return true
	default:
		return false
	}
}

// Roles returns the closed set of declared roles.
func Roles() []Role {
	return []Role{RoleAdmin, RoleProjectManager, RoleAccountant, RoleMember}
}
