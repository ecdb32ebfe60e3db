package fetch

import (
	"errors"
	"sync"
)

// ErrChannelClosed is returned by Send once the consumer has gone away.
var ErrChannelClosed = errors.New("message channel closed")

// Channel is an unbounded multi-producer, single-consumer queue of messages.
// Send never blocks. Drain never blocks. Messages from one producer are
// drained in the order they were sent.
type Channel struct {
	mu     sync.Mutex
	queue  []Message
	closed bool
	ready  chan struct{}
	done   chan struct{}
}

// NewChannel creates an empty open channel.
func NewChannel() *Channel {
	return &Channel{
		ready: make(chan struct{}, 1),
		done:  make(chan struct{}),
	}
}

// Send enqueues msg and signals Ready.
func (c *Channel) Send(msg Message) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrChannelClosed
	}
	c.queue = append(c.queue, msg)
	c.mu.Unlock()

	// Coalesce wake-ups; one pending signal is enough for a full drain.
	select {
	case c.ready <- struct{}{}:
	default:
	}
	return nil
}

// Drain removes and returns every queued message, oldest first.
// It returns nil when nothing is pending.
func (c *Channel) Drain() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.queue) == 0 {
		return nil
	}
	msgs := c.queue
	c.queue = nil
	return msgs
}

// Len returns the number of pending messages.
func (c *Channel) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.queue)
}

// Ready receives a value after at least one Send since the last receive.
func (c *Channel) Ready() <-chan struct{} {
	return c.ready
}

// Done is closed by Close.
func (c *Channel) Done() <-chan struct{} {
	return c.done
}

// Close rejects further sends. Messages already queued can still be drained.
// Idempotent.
func (c *Channel) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.done)
}
