package domain

// Role is the part a process plays in the pair. A process starts as either
// primary or backup and may only move from backup to primary.
type Role int

const (
	RolePrimary Role = iota
	RoleBackup
)

// RoleFromFlag maps the backup invocation flag to a role.
func RoleFromFlag(backup bool) Role {
	if backup {
		return RoleBackup
	}
	return RolePrimary
}

// String returns a human-readable representation of the role.
func (r Role) String() string {
	switch r {
	case RolePrimary:
		return "primary"
	case RoleBackup:
		return "backup"
	default:
		return "unknown"
	}
}

// CanPromoteTo reports whether a process in role r may take on role next.
// Promotion is one-way: a primary never becomes a backup again.
func (r Role) CanPromoteTo(next Role) bool {
	return r == RoleBackup && next == RolePrimary
}
