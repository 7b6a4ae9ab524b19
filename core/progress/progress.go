package progress

import (
	"sync"

	"dataset-reconciler/core/reconcile"
)

// Message is one notification from a running pipeline. Non-terminal
// messages carry free-text status; the single terminal message carries
// either the run summary or the error, never both.
type Message struct {
	// Text is the human-readable status line.
	Text string

	// Terminal marks the final message of a run. After a terminal
	// message the channel is closed.
	Terminal bool

	// Summary is set on a successful terminal message.
	Summary *reconcile.RunSummary

	// Err is set on a failed terminal message.
	Err error
}

// bufferSize gives status producers headroom over a slow consumer before
// advisory messages start being dropped.
const bufferSize = 64

// Channel is a single-producer notification path from a pipeline worker
// to its caller. Status sends never block the worker; exactly one
// terminal message is delivered and closes the channel.
type Channel struct {
	ch chan Message

	mu   sync.Mutex
	done bool
}

// NewChannel creates a progress channel.
func NewChannel() *Channel {
	return &Channel{ch: make(chan Message, bufferSize)}
}

// Messages returns the consumer side of the channel. It is closed after
// the terminal message.
func (c *Channel) Messages() <-chan Message {
	return c.ch
}

// Status sends an advisory status line. If the consumer has fallen behind
// the buffer the message is dropped rather than blocking the work;
// delivered messages keep production order.
func (c *Channel) Status(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.done {
		return
	}

	select {
	case c.ch <- Message{Text: msg}:
	default:
	}
}

// Success delivers the terminal success message with the run summary and
// closes the channel. Subsequent calls are no-ops.
func (c *Channel) Success(text string, summary *reconcile.RunSummary) {
	c.terminate(Message{Text: text, Terminal: true, Summary: summary})
}

// Fail delivers the terminal failure message and closes the channel.
// Subsequent calls are no-ops.
func (c *Channel) Fail(err error) {
	c.terminate(Message{Text: err.Error(), Terminal: true, Err: err})
}

func (c *Channel) terminate(msg Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.done {
		return
	}
	c.done = true

	// Terminal delivery must not be lost: unlike Status this send waits
	// for the consumer if the buffer is full.
	c.ch <- msg
	close(c.ch)
}
