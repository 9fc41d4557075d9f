// Package console writes the primary's counter values to a terminal or any
// other writer, one value per line.
package console

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/bft-labs/standby/internal/ports"
)

// Sink implements ports.CounterSink by printing each value on its own line.
type Sink struct {
	mu  sync.Mutex
	out io.Writer
}

// NewSink creates a sink that writes to out. A nil out means stdout.
func NewSink(out io.Writer) *Sink {
	if out == nil {
		out = os.Stdout
	}
	return &Sink{out: out}
}

// Publish writes value followed by a newline.
func (s *Sink) Publish(value uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := fmt.Fprintln(s.out, value)
	return err
}

var _ ports.CounterSink = (*Sink)(nil)
