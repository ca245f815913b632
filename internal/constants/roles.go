package constants

// Role mirrors the platform's user role set
type Role string

const (
	RoleAdmin         Role = "admin"
	RoleSpecialist    Role = "specialist"
	RoleMember        Role = "member"
	RoleMetaSyncAdmin Role = "metasync_admin"
)

// Stringer – convenient for fmt / logs
func (r Role) String() string { return string(r) }

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleSpecialist, RoleMember, RoleMetaSyncAdmin:
		return true
	}
	return false
}
