package app

import (
	"fmt"
	"sync"
	"time"

	"github.com/bft-labs/standby/internal/domain"
	"github.com/bft-labs/standby/internal/ports"
)

// ShutdownTimeout is the maximum time to wait for graceful shutdown.
const ShutdownTimeout = 5 * time.Second

// Phase represents the lifecycle phase of a standby process.
type Phase int

const (
	PhaseStopped Phase = iota
	PhaseStarting
	PhaseMonitoring
	PhasePromoting
	PhaseServing
	PhaseStopping
	PhaseCrashed
)

// String returns a human-readable representation of the phase.
func (p Phase) String() string {
	switch p {
	case PhaseStopped:
		return "Stopped"
	case PhaseStarting:
		return "Starting"
	case PhaseMonitoring:
		return "Monitoring"
	case PhasePromoting:
		return "Promoting"
	case PhaseServing:
		return "Serving"
	case PhaseStopping:
		return "Stopping"
	case PhaseCrashed:
		return "Crashed"
	default:
		return "Unknown"
	}
}

// validTransitions is the phase graph:
//
//	Stopped    → Starting
//	Starting   → Monitoring | Serving | Stopping | Crashed
//	Monitoring → Promoting | Stopping | Crashed
//	Promoting  → Serving | Stopping | Crashed
//	Serving    → Stopping | Crashed
//	Stopping   → Stopped | Crashed
//	Crashed    → Starting
//
// Monitoring is only reachable from Starting, and TransitionTo refuses it
// once the process holds RolePrimary. Promotion is never undone.
var validTransitions = map[Phase][]Phase{
	PhaseStopped:    {PhaseStarting},
	PhaseStarting:   {PhaseMonitoring, PhaseServing, PhaseStopping, PhaseCrashed},
	PhaseMonitoring: {PhasePromoting, PhaseStopping, PhaseCrashed},
	PhasePromoting:  {PhaseServing, PhaseStopping, PhaseCrashed},
	PhaseServing:    {PhaseStopping, PhaseCrashed},
	PhaseStopping:   {PhaseStopped, PhaseCrashed},
	PhaseCrashed:    {PhaseStarting},
}

func (p Phase) canTransitionTo(next Phase) bool {
	for _, target := range validTransitions[p] {
		if target == next {
			return true
		}
	}
	return false
}

// EventEmitter is called when the process changes phase or is promoted.
type EventEmitter interface {
	OnPhaseChange(previous, current Phase, reason string)
	OnPromotion(counter uint64)
}

// Lifecycle manages the phase state machine and the role it implies.
type Lifecycle struct {
	mu           sync.RWMutex
	phase        Phase
	role         domain.Role
	logger       ports.Logger
	eventEmitter EventEmitter
}

// NewLifecycle creates a new lifecycle manager in PhaseStopped.
// role is the role the process was started in.
func NewLifecycle(role domain.Role, logger ports.Logger, emitter EventEmitter) *Lifecycle {
	return &Lifecycle{
		phase:        PhaseStopped,
		role:         role,
		logger:       logger,
		eventEmitter: emitter,
	}
}

// Phase returns the current phase.
func (l *Lifecycle) Phase() Phase {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.phase
}

// Role returns the role the process currently holds.
func (l *Lifecycle) Role() domain.Role {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.role
}

// TransitionTo attempts to move to a new phase.
// Returns an error wrapping domain.ErrInvalidTransition if the move is not
// in the phase graph.
func (l *Lifecycle) TransitionTo(next Phase, reason string) error {
	l.mu.Lock()
	previous := l.phase
	if !previous.canTransitionTo(next) {
		l.mu.Unlock()
		return fmt.Errorf("%w: %s to %s", domain.ErrInvalidTransition, previous, next)
	}
	if next == PhaseMonitoring && l.role == domain.RolePrimary {
		l.mu.Unlock()
		return fmt.Errorf("%w: %s cannot monitor", domain.ErrInvalidTransition, domain.RolePrimary)
	}
	l.phase = next
	if next == PhaseServing {
		l.role = domain.RolePrimary
	}
	l.mu.Unlock()

	// Emit event outside of lock
	if l.eventEmitter != nil {
		l.eventEmitter.OnPhaseChange(previous, next, reason)
	}

	l.logger.Info("phase transition",
		ports.String("from", previous.String()),
		ports.String("to", next.String()),
		ports.String("reason", reason),
	)

	return nil
}

// CanStart returns true if Start() can be called.
func (l *Lifecycle) CanStart() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.phase == PhaseStopped || l.phase == PhaseCrashed
}

// CanStop returns true if Stop() can be called.
func (l *Lifecycle) CanStop() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	switch l.phase {
	case PhaseStarting, PhaseMonitoring, PhasePromoting, PhaseServing:
		return true
	default:
		return false
	}
}
