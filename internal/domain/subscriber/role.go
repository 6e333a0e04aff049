package subscriber

import "strings"

// Canonical role tags. Registration may use any alias, indices always see
// the canonical form.
const (
	RoleAdmin   = "admin"
	RoleTeacher = "profesor"
	RoleStudent = "estudiante"
)

var roleAliases = map[string]string{
	"admin":         RoleAdmin,
	"administrador": RoleAdmin,
	"administrator": RoleAdmin,
	"profesor":      RoleTeacher,
	"teacher":       RoleTeacher,
	"docente":       RoleTeacher,
	"estudiante":    RoleStudent,
	"student":       RoleStudent,
	"alumno":        RoleStudent,
}

// NormalizeRole maps recognized aliases to their canonical tag. Unrecognized
// input is folded to lower case and returned, never rejected, so role-index
// lookups stay consistent with whatever tag was used at registration.
func NormalizeRole(role string) string {
	key := strings.ToLower(strings.TrimSpace(role))

	if canonical, ok := roleAliases[key]; ok {
		return canonical
	}

	return key
}

func IsValidRole(role string) bool {
	_, ok := roleAliases[strings.ToLower(strings.TrimSpace(role))]

	return ok
}
