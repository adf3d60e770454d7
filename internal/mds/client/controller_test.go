package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vayesy/betdaq/internal/mds/commands"
)

func TestQueueOrdersByPriorityThenEnqueueOrder(t *testing.T) {
	c := newController()
	c.Queue(&commands.LogoffPunter{}, 5)
	c.Queue(&commands.GetRefreshPeriod{}, 1)
	c.Queue(&commands.Ping{}, 1)

	out := c.NextToSend()
	require.Len(t, out, 1)
	_, ok := out[0].(*commands.GetRefreshPeriod)
	assert.True(t, ok, "lowest priority, earliest enqueued command should go first")

	out = c.NextToSend()
	require.Len(t, out, 1)
	_, ok = out[0].(*commands.Ping)
	assert.True(t, ok, "same priority, later enqueued command should go second")

	out = c.NextToSend()
	require.Len(t, out, 1)
	_, ok = out[0].(*commands.LogoffPunter)
	assert.True(t, ok)
}

func TestQueueAssignsDistinctCorrelationIDs(t *testing.T) {
	c := newController()
	a := &commands.Ping{}
	b := &commands.GetRefreshPeriod{}
	c.Queue(a, 0)
	c.Queue(b, 0)

	assert.NotEqual(t, a.CorrelationID(), b.CorrelationID())
	assert.NotZero(t, a.CorrelationID())
	assert.NotZero(t, b.CorrelationID())
}

func TestQueueLimitedSendsAtMostOnePerKindPerTick(t *testing.T) {
	c := newController()
	c.QueueLimited(&commands.SubscribeEventHierarchy{})
	c.QueueLimited(&commands.SubscribeEventHierarchy{})
	c.QueueLimited(&commands.SubscribeDetailedMarketPrices{})

	out := c.NextToSend()
	var hierarchyCount, pricesCount int
	for _, cmd := range out {
		switch cmd.(type) {
		case *commands.SubscribeEventHierarchy:
			hierarchyCount++
		case *commands.SubscribeDetailedMarketPrices:
			pricesCount++
		}
	}
	assert.Equal(t, 1, hierarchyCount)
	assert.Equal(t, 1, pricesCount)

	// The second queued hierarchy subscription is still waiting, but the
	// per-kind limiter only allows one send per second so it must not be
	// returned again immediately.
	out = c.NextToSend()
	for _, cmd := range out {
		_, ok := cmd.(*commands.SubscribeEventHierarchy)
		assert.False(t, ok, "rate limiter should block a second send within the same second")
	}
}

func TestNextToSendReturnsNothingWhenEmpty(t *testing.T) {
	c := newController()
	assert.Empty(t, c.NextToSend())
}

func TestResetDropsQueuedAndScheduledCommands(t *testing.T) {
	c := newController()
	c.Queue(&commands.Ping{}, 0)
	c.QueueLimited(&commands.SubscribeMarketInformation{})

	c.Reset()

	assert.Empty(t, c.NextToSend())
}
