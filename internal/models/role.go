package models

import "strings"

// Role identifies which contact table an account belongs to.
type Role string

// Known roles.
const (
	RoleStudent      Role = "Student"
	RoleParent       Role = "Parent"
	RoleMentor       Role = "Mentor"
	RoleWritingCoach Role = "Writing Coach"
	RoleTeam         Role = "Team"
	RoleUnknown      Role = "Unknown"
)

// ParseRole maps external text onto a Role, falling back to RoleUnknown.
func ParseRole(raw string) Role {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "student":
		return RoleStudent
	case "parent":
		return RoleParent
	case "mentor":
		return RoleMentor
	case "writing coach":
		return RoleWritingCoach
	case "team":
		return RoleTeam
	default:
		return RoleUnknown
	}
}

// Known reports whether the role is one of the defined variants.
func (r Role) Known() bool {
	return r != RoleUnknown && ParseRole(string(r)) == r
}
