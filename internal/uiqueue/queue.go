// Package uiqueue is the task queue owned by the UI goroutine. Producers on
// other goroutines post closures; only the owner runs them.
package uiqueue

import (
	"sync"
)

// DefaultCapacity is the number of tasks that may be pending at once.
const DefaultCapacity = 64

// Poster accepts work for the UI goroutine.
type Poster interface {
	Post(task func()) bool
}

// Queue is a bounded FIFO of tasks.
type Queue struct {
	tasks chan func()

	mu     sync.RWMutex
	closed bool
}

// New creates a queue holding up to capacity pending tasks.
func New(capacity int) *Queue {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Queue{tasks: make(chan func(), capacity)}
}

// Post enqueues task without blocking. It returns false when the queue is
// full or closed; the task is then dropped.
func (q *Queue) Post(task func()) bool {
	if task == nil {
		return false
	}
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return false
	}
	select {
	case q.tasks <- task:
		return true
	default:
		return false
	}
}

// Drain runs every task pending at the time of the call, in order, and
// returns how many ran. Must only be called from the owning goroutine.
func (q *Queue) Drain() int {
	n := len(q.tasks)
	for i := 0; i < n; i++ {
		select {
		case task := <-q.tasks:
			task()
		default:
			return i
		}
	}
	return n
}

// Close rejects further posts. Pending tasks can still be drained.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
}

// Len returns the number of pending tasks.
func (q *Queue) Len() int {
	return len(q.tasks)
}
