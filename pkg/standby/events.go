package standby

import "github.com/bft-labs/standby/internal/app"

// State is the lifecycle state of a Standby instance.
type State int

const (
	StateStopped State = iota
	StateStarting
	StateMonitoring
	StatePromoting
	StateServing
	StateStopping
	StateCrashed
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case StateStopped:
		return "Stopped"
	case StateStarting:
		return "Starting"
	case StateMonitoring:
		return "Monitoring"
	case StatePromoting:
		return "Promoting"
	case StateServing:
		return "Serving"
	case StateStopping:
		return "Stopping"
	case StateCrashed:
		return "Crashed"
	default:
		return "Unknown"
	}
}

// StateChangeEvent describes a lifecycle transition.
type StateChangeEvent struct {
	Previous State
	Current  State
	Reason   string
}

// PromotionEvent is emitted when a backup decides to take over.
type PromotionEvent struct {
	// Counter is the value the new primary will emit first.
	Counter uint64
}

// EventHandler receives lifecycle notifications.
// Methods are called synchronously from the goroutine that caused the event.
type EventHandler interface {
	OnStateChange(event StateChangeEvent)
	OnPromotion(event PromotionEvent)
}

// BaseEventHandler provides no-op implementations of every EventHandler
// method. Embed it to handle only the events you care about.
type BaseEventHandler struct{}

func (BaseEventHandler) OnStateChange(StateChangeEvent) {}
func (BaseEventHandler) OnPromotion(PromotionEvent)     {}

func convertPhase(p app.Phase) State {
	switch p {
	case app.PhaseStopped:
		return StateStopped
	case app.PhaseStarting:
		return StateStarting
	case app.PhaseMonitoring:
		return StateMonitoring
	case app.PhasePromoting:
		return StatePromoting
	case app.PhaseServing:
		return StateServing
	case app.PhaseStopping:
		return StateStopping
	case app.PhaseCrashed:
		return StateCrashed
	default:
		return StateStopped
	}
}
