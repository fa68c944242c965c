// internal/domain/models/role.go
package models

// Role is the closed set of account roles. Every authorization decision
// switches exhaustively over these values so that adding a role forces a
// review of each decision point.
type Role string

const (
	// RoleGeneral is the general coordinator (CGPG): administers subjects
	// and user accounts and views aggregate statistics.
	RoleGeneral Role = "general"

	// RoleArea is an area coordinator (CGPAC): approves or rejects lesson
	// plans within the subjects assigned to them.
	RoleArea Role = "area"

	// RoleTeacher is a teacher (Docente): authors lesson plans for the
	// subjects assigned to them.
	RoleTeacher Role = "teacher"
)

// ParseRole maps a stored or submitted role string to a Role.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleGeneral, RoleArea, RoleTeacher:
		return Role(s), true
	default:
		return "", false
	}
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	_, ok := ParseRole(string(r))
	return ok
}

// Label returns the institutional short name used in views.
func (r Role) Label() string {
	switch r {
	case RoleGeneral:
		return "CGPG"
	case RoleArea:
		return "CGPAC"
	case RoleTeacher:
		return "Docente"
	default:
		return string(r)
	}
}

// TeacherKind is the optional sub-type tag on teacher accounts.
type TeacherKind string

const (
	TeacherLead      TeacherKind = "lead"      // Regente
	TeacherAssistant TeacherKind = "assistant" // Auxiliar
	TeacherUntagged  TeacherKind = ""
)

// ParseTeacherKind maps a submitted kind to a TeacherKind. The empty
// string is a valid untagged value.
func ParseTeacherKind(s string) (TeacherKind, bool) {
	switch TeacherKind(s) {
	case TeacherLead, TeacherAssistant, TeacherUntagged:
		return TeacherKind(s), true
	default:
		return "", false
	}
}

// Label returns the display name for the kind, or "-" when untagged.
func (k TeacherKind) Label() string {
	switch k {
	case TeacherLead:
		return "Regente"
	case TeacherAssistant:
		return "Auxiliar"
	default:
		return "-"
	}
}
