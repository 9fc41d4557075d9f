package ports

import (
	"context"

	"github.com/bft-labs/standby/internal/domain"
)

// Launcher starts new instances of the running program.
type Launcher interface {
	// Spawn starts a new process that will run in the given role.
	// The new process must outlive ctx and the caller.
	Spawn(ctx context.Context, role domain.Role) (Handle, error)
}

// Handle identifies a spawned process.
type Handle struct {
	// PID is the operating system process id.
	PID int
}
