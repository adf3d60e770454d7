package responses

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vayesy/betdaq/internal/common"
	"github.com/vayesy/betdaq/internal/mds/commands"
	"github.com/vayesy/betdaq/internal/mds/wire"
)

func TestLoadUnsubscribeFromWireFrame(t *testing.T) {
	raw := "AAPI/6/D\x0220\x02F\x010\x021984840034\x011\x020\x013\x022~3\x01"
	frame, err := wire.ParseFrame(raw)
	require.NoError(t, err)

	resp, err := LoadUnsubscribe(frame.Body)
	require.NoError(t, err)
	assert.Equal(t, 1984840034, resp.CorrelationID())
	assert.Equal(t, common.Success, resp.ReturnCode())
	assert.Equal(t, []int{2, 3}, resp.SubscriptionIDs)
}

func TestByIdentifierCoversEveryCommand(t *testing.T) {
	for _, id := range []commands.Identifier{
		commands.SetAnonymousSessionContextID,
		commands.LogonPunterID,
		commands.PingID,
		commands.SetRefreshPeriodID,
		commands.GetRefreshPeriodID,
		commands.SubscribeMarketInformationID,
		commands.SubscribeDetailedPricesID,
		commands.SubscribeEventHierarchyID,
		commands.SubscribeMatchedAmountsID,
		commands.UnsubscribeID,
	} {
		_, ok := ByIdentifier[id]
		assert.True(t, ok, "missing loader for %d", id)
	}
}

func TestLoadPingWithMessagesInQueue(t *testing.T) {
	body := wire.Tree{0: "5", 1: "0", 2: "3"}
	resp, err := LoadPing(body)
	require.NoError(t, err)
	assert.Equal(t, 5, resp.CorrelationID())
	assert.Equal(t, 3, resp.MessagesInQueue)
}

func TestLoadSubscribeMarketInformationOptionalSubscriptionID(t *testing.T) {
	body := wire.Tree{0: "1", 1: "5", 4: "10"}
	resp, err := LoadSubscribeMarketInformation(body)
	require.NoError(t, err)
	assert.Equal(t, common.EventClassifierDoesNotExist, resp.ReturnCode())
	assert.Nil(t, resp.SubscriptionID)
	assert.Equal(t, 10, resp.AvailableMarketsCount)
}
