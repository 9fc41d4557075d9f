package metrics

import (
	"github.com/bft-labs/standby/internal/domain"
	"github.com/bft-labs/standby/internal/ports"
)

// Nop implements ports.Metrics by discarding every event.
type Nop struct{}

// NewNop creates a no-op metrics recorder.
func NewNop() *Nop {
	return &Nop{}
}

func (Nop) HeartbeatSent(bool)      {}
func (Nop) HeartbeatReceived(bool)  {}
func (Nop) ReceiveError()           {}
func (Nop) CounterEmitted(uint64)   {}
func (Nop) CounterObserved(uint64)  {}
func (Nop) Promoted()               {}
func (Nop) SpawnRequested(bool)     {}
func (Nop) RoleChanged(domain.Role) {}

var _ ports.Metrics = (*Nop)(nil)
