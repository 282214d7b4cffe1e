package queue

// Option applies a configuration option to the TimeQueue.
type Option func(*TimeQueue)

// WithCapacity bounds the number of queued events.
func WithCapacity(capacity int) Option {
	return func(q *TimeQueue) {
		if capacity > 0 {
			q.capacity = capacity
		}
	}
}
