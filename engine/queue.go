// SPDX-License-Identifier: EPL-2.0

package engine

import "sync"

// queue is an unbounded multi-producer, single-consumer command FIFO.
// Producers never block; the consumer waits on ready.
type queue struct {
	mu     sync.Mutex
	items  []Command
	closed bool
	ready  chan struct{}
}

func newQueue() *queue {
	return &queue{ready: make(chan struct{}, 1)}
}

func (q *queue) push(cmd Command) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrClosed
	}
	q.items = append(q.items, cmd)
	q.mu.Unlock()

	select {
	case q.ready <- struct{}{}:
	default:
	}

	return nil
}

// drain takes every pending command in submission order.
func (q *queue) drain() []Command {
	q.mu.Lock()
	defer q.mu.Unlock()

	items := q.items
	q.items = nil
	return items
}

// close rejects further pushes and drops whatever was not drained.
func (q *queue) close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.closed = true
	q.items = nil
}
