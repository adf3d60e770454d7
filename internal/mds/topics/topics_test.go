package topics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vayesy/betdaq/internal/common"
	"github.com/vayesy/betdaq/internal/mds/wire"
)

func TestResolveDataMessageEventTopic(t *testing.T) {
	resolved := ResolveDataMessage("AAPI/6/E/E_1/E/E_100003")
	require.Equal(t, "Event1", resolved.Kind)

	ids, ok := resolved.Kwargs["event_classifier_id"].(map[string]int)
	require.True(t, ok)
	assert.Equal(t, map[string]int{"parent": 1, "sport_id": 100003}, ids)

	msg, err := resolved.Decode(wire.Head{}, wire.Tree{1: "1"})
	require.NoError(t, err)

	event, ok := msg.(*Event1)
	require.True(t, ok)
	assert.Equal(t, 1, event.DisplayOrder)
	require.NotNil(t, event.ClassifierID.Parent)
	assert.Equal(t, 1, *event.ClassifierID.Parent)
	require.NotNil(t, event.ClassifierID.SportID)
	assert.Equal(t, 100003, *event.ClassifierID.SportID)
	assert.Nil(t, event.ClassifierID.SportGroupID)
}

func TestResolveDataMessageMarketTopic(t *testing.T) {
	resolved := ResolveDataMessage("AAPI/3/E/E_1/E/E_100004/E/E_100289/E/E_5100309/E/E_5100394/M/E_12759206")
	require.Equal(t, "Market1", resolved.Kind)

	assert.Equal(t, 12759206, resolved.Kwargs["market_id"])

	ids, ok := resolved.Kwargs["event_classifier_id"].(map[string]int)
	require.True(t, ok)
	assert.Equal(t, map[string]int{
		"parent":         1,
		"sport_id":       100004,
		"sport_group_id": 100289,
		"location_id":    5100309,
		"event_id":       5100394,
	}, ids)
}

func TestResolveDataMessageUnknownSegment(t *testing.T) {
	resolved := ResolveDataMessage("AAPI/6/E/E_1/ZZ")
	assert.Equal(t, UnknownKind, resolved.Kind)
}

func TestResolveDataMessageTooShort(t *testing.T) {
	resolved := ResolveDataMessage("AAPI/6/E")
	assert.Equal(t, UnknownKind, resolved.Kind)
	assert.Nil(t, resolved.Kwargs)
}

func TestResolvedDecodeWithoutSchema(t *testing.T) {
	resolved := Resolved{Kind: UnknownKind}
	_, err := resolved.Decode(wire.Head{}, wire.Tree{})
	assert.Error(t, err)
}

func TestDecodeMExchangeInfo(t *testing.T) {
	body := wire.Tree{
		1:  "12759206",
		2:  "3",
		3:  "T",
		4:  "F",
		5:  "T",
		6:  "T",
		7:  "T",
		8:  "F",
		9:  "F",
		10: "2",
		11: "Cancel",
		12: "Void",
		13: "F",
		16: "3",
		17: "0",
		19: "5",
		20: "1.0",
		24: "0.25",
	}
	msg, err := decodeMExchangeInfo(nil, wire.Head{}, body)
	require.NoError(t, err)

	info, ok := msg.(*MExchangeInfo)
	require.True(t, ok)
	assert.Equal(t, 12759206, info.MarketID)
	assert.Equal(t, 3, int(info.MarketType))
	assert.True(t, info.IsPlayMarket)
	assert.False(t, info.CanBeInRunning)
	assert.Equal(t, 2, int(info.Status))
	assert.Equal(t, "Cancel", info.WithdrawAction)
	assert.Nil(t, info.StartTime)
	assert.Nil(t, info.DelayFactor)
}

func TestBackLayTitleParam(t *testing.T) {
	kwargs := make(map[string]any)
	backLayTitleParam("3_3_0_GBP_1", kwargs)
	assert.Equal(t, 3, kwargs["desired_back_prices"])
	assert.Equal(t, 3, kwargs["desired_lay_prices"])
	assert.Equal(t, 0, kwargs["desired_market_by_volume"])
	assert.Equal(t, common.GBP, kwargs["currency_code"])
	assert.Equal(t, common.PriceFormatDecimal, kwargs["price_format"])
}
