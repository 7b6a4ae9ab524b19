package progress

import (
	"errors"
	"testing"

	"dataset-reconciler/core/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannel_StatusThenSuccess(t *testing.T) {
	c := NewChannel()
	c.Status("Scanned 50000 rows from old file...")
	c.Status("Scanned 100000 rows from old file...")
	c.Success("done", &reconcile.RunSummary{TotalChanges: 3})

	var msgs []Message
	for m := range c.Messages() {
		msgs = append(msgs, m)
	}

	require.Len(t, msgs, 3)
	assert.False(t, msgs[0].Terminal)
	assert.False(t, msgs[1].Terminal)
	assert.True(t, msgs[2].Terminal)
	require.NotNil(t, msgs[2].Summary)
	assert.Equal(t, 3, msgs[2].Summary.TotalChanges)
	assert.NoError(t, msgs[2].Err)
}

func TestChannel_FailureIsExclusive(t *testing.T) {
	c := NewChannel()
	c.Fail(errors.New("source unreadable"))
	// A late success must not produce a second terminal message.
	c.Success("done", &reconcile.RunSummary{})

	var msgs []Message
	for m := range c.Messages() {
		msgs = append(msgs, m)
	}

	require.Len(t, msgs, 1)
	assert.True(t, msgs[0].Terminal)
	assert.Error(t, msgs[0].Err)
	assert.Nil(t, msgs[0].Summary)
}

func TestChannel_StatusAfterTerminalDropped(t *testing.T) {
	c := NewChannel()
	c.Success("done", &reconcile.RunSummary{})
	c.Status("late status")

	var msgs []Message
	for m := range c.Messages() {
		msgs = append(msgs, m)
	}

	require.Len(t, msgs, 1)
	assert.True(t, msgs[0].Terminal)
}

func TestChannel_StatusNeverBlocksProducer(t *testing.T) {
	c := NewChannel()

	produced := make(chan struct{})
	go func() {
		// Flood well past the buffer before any consumer keeps up; every
		// Status call must return immediately.
		for i := 0; i < bufferSize*4; i++ {
			c.Status("status")
		}
		close(produced)
		c.Success("done", &reconcile.RunSummary{})
	}()

	var sawTerminal bool
	for m := range c.Messages() {
		if m.Terminal {
			sawTerminal = true
		}
	}
	<-produced
	require.True(t, sawTerminal, "terminal message must survive dropped statuses")
}
