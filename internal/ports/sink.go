package ports

// CounterSink receives every value the primary loop emits, in order.
type CounterSink interface {
	Publish(value uint64) error
}
