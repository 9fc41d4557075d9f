package domain

// InitialCounter is the first value a fresh primary emits.
const InitialCounter Counter = 1

// Counter is the unit of work produced by the primary. It always holds the
// next value to emit. A counter is owned by exactly one handler at a time and
// moves between handlers by value.
type Counter uint64

// Next returns the value to emit now and advances the counter by one.
func (c *Counter) Next() uint64 {
	v := uint64(*c)
	*c++
	return v
}

// Value returns the value that the next call to Next will emit.
func (c Counter) Value() uint64 {
	return uint64(c)
}
