package signal

import (
	"sync"
	"time"
)

// Queue is a bounded FIFO of signal tuples shared between a host input
// thread (pushing keyboard/external events) and the guest thread
// (pulling them via pullSignal). It plays the role of the original's
// signal_queue + queue_lock + queue_notifier trio, but as a single Go
// type using sync.Cond instead of a bare mutex+condvar pair.
type Queue struct {
	mu       sync.Mutex
	cond     *sync.Cond
	items    [][]Value
	capacity int
	closed   bool
}

// NewQueue creates a queue that holds at most capacity pending signals;
// a capacity ≤ 0 means unbounded. Pushing past capacity drops the oldest
// pending signal, the same backpressure choice config.Config's
// SignalQueueCapacity exists to tune.
func NewQueue(capacity int) *Queue {
	q := &Queue{capacity: capacity}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Push enqueues one signal tuple and wakes any blocked pullers.
func (q *Queue) Push(values []Value) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	if q.capacity > 0 && len(q.items) >= q.capacity {
		q.items = q.items[1:]
	}
	q.items = append(q.items, values)
	q.cond.Broadcast()
}

// Close wakes every blocked Pull so it returns immediately with no
// values, modeling the host-termination event in spec.md §5 that wakes
// the condvar and causes the guest's next pullSignal to return empty.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	q.cond.Broadcast()
}

// Pull blocks until a signal is available, the deadline passes, or the
// queue is closed. A nil deadline blocks indefinitely. Returns the
// dequeued tuple and true, or nil and false on timeout/close.
func (q *Queue) Pull(deadline *time.Time) ([]Value, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if deadline != nil {
		timer := time.AfterFunc(time.Until(*deadline), func() {
			q.mu.Lock()
			q.cond.Broadcast()
			q.mu.Unlock()
		})
		defer timer.Stop()
	}

	for len(q.items) == 0 && !q.closed {
		if deadline != nil && !time.Now().Before(*deadline) {
			return nil, false
		}
		q.cond.Wait()
	}
	if len(q.items) == 0 {
		return nil, false
	}
	v := q.items[0]
	q.items = q.items[1:]
	return v, true
}
