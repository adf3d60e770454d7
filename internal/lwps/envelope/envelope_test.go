package envelope

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vayesy/betdaq/internal/common"
)

func newTestEnvelope(t MessageType, body Body) *Envelope {
	return &Envelope{
		ProtocolHeader: ProtocolHeader{Version: 1},
		EnvelopeHeader: EnvelopeHeader{Version: 1, ItemCount: 2},
		MessageHeader: MessageHeader{
			Version:     1,
			Type:        t,
			TypeVersion: 1,
			Format:      "binary",
			Source:      "12345",
			Transport:   "lwps_tcp1",
			Priority:    3,
			Interface:   "lightweightpriceserverexternal",
		},
		Message: body,
	}
}

func TestPingRoundTrip(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	env := newTestEnvelope(TypePing, &Ping{
		baseBody: baseBody{
			CommandVersion:          1,
			CommandTime:             &now,
			VirtualPunterID:         12345,
			VirtualPunterSessionKey: 999,
		},
		PunterQueryReferenceNumber: 42,
	})

	encoded, err := env.Encode()
	require.NoError(t, err)

	decoded, remaining, err := Decode(encoded)
	require.NoError(t, err)
	assert.Empty(t, remaining)

	assert.Equal(t, byte(1), decoded.ProtocolHeader.Version)
	assert.Equal(t, TypePing, decoded.MessageHeader.Type)
	assert.Equal(t, "lwps_tcp1", decoded.MessageHeader.Transport)

	ping, ok := decoded.Message.(*Ping)
	require.True(t, ok)
	assert.Equal(t, int64(42), ping.PunterQueryReferenceNumber)
	assert.Equal(t, int64(12345), ping.VirtualPunterID)
	require.NotNil(t, ping.CommandTime)
	assert.True(t, now.Equal(*ping.CommandTime))
}

func TestAddLightweightPricesRoundTrip(t *testing.T) {
	env := newTestEnvelope(TypeAddLightweightPrices, &AddLightweightPrices{
		Prices: []LightWeightPriceToAdd{
			{
				SelectionID:           555,
				MarketID:              123,
				Polarity:              For,
				Odds:                  "2.5",
				DeltaStake:            Money{Amount: "10.00", Currency: common.GBP},
				PunterReferenceNumber: 1,
			},
			{
				SelectionID:           556,
				MarketID:              123,
				Polarity:              Against,
				Odds:                  "3.0",
				DeltaStake:            Money{Amount: "-5.00", Currency: common.GBP},
				PunterReferenceNumber: 2,
			},
		},
	})

	encoded, err := env.Encode()
	require.NoError(t, err)

	decoded, remaining, err := Decode(encoded)
	require.NoError(t, err)
	assert.Empty(t, remaining)

	body, ok := decoded.Message.(*AddLightweightPrices)
	require.True(t, ok)
	require.Len(t, body.Prices, 2)
	assert.Equal(t, int64(555), body.Prices[0].SelectionID)
	assert.Equal(t, For, body.Prices[0].Polarity)
	assert.Equal(t, "2.5", body.Prices[0].Odds)
	assert.Equal(t, "10.00", body.Prices[0].DeltaStake.Amount)
	assert.Equal(t, common.GBP, body.Prices[0].DeltaStake.Currency)
	assert.Equal(t, int64(556), body.Prices[1].SelectionID)
	assert.Equal(t, Against, body.Prices[1].Polarity)
}

func TestLWPChangeNotificationWithOptionalFieldsRoundTrip(t *testing.T) {
	orderID := int64(777)
	matched := Money{Amount: "5.00", Currency: common.GBP}
	env := newTestEnvelope(TypeLWPChangeNotification, &LWPChangeNotification{
		Prices: []LightWeightPriceChangeNotification{
			{
				lwpNotificationBase: lwpNotificationBase{
					MarketID:              123,
					SelectionID:           555,
					Polarity:              For,
					Odds:                  "2.5",
					PunterReferenceNumber: 1,
				},
				ActionType:     ActionMatched,
				RemainingStake: Money{Amount: "0.00", Currency: common.GBP},
				MatchedStake:   &matched,
				OrderID:        &orderID,
			},
		},
	})

	encoded, err := env.Encode()
	require.NoError(t, err)

	decoded, _, err := Decode(encoded)
	require.NoError(t, err)

	body, ok := decoded.Message.(*LWPChangeNotification)
	require.True(t, ok)
	require.Len(t, body.Prices, 1)
	item := body.Prices[0]
	assert.Equal(t, ActionMatched, item.ActionType)
	require.NotNil(t, item.MatchedStake)
	assert.Equal(t, "5.00", item.MatchedStake.Amount)
	require.NotNil(t, item.OrderID)
	assert.Equal(t, int64(777), *item.OrderID)
	assert.Nil(t, item.MatchedAgainstSideStake)
}

func TestDecodeEmptyInputReturnsNils(t *testing.T) {
	env, remaining, err := Decode(nil)
	require.NoError(t, err)
	assert.Nil(t, env)
	assert.Nil(t, remaining)
}

func TestDecodeTwoFramesBackToBack(t *testing.T) {
	first, err := newTestEnvelope(TypePing, &Ping{PunterQueryReferenceNumber: 1}).Encode()
	require.NoError(t, err)
	second, err := newTestEnvelope(TypePing, &Ping{PunterQueryReferenceNumber: 2}).Encode()
	require.NoError(t, err)

	buf := append(append([]byte{}, first...), second...)

	env1, remaining, err := Decode(buf)
	require.NoError(t, err)
	require.Equal(t, second, remaining)
	assert.Equal(t, int64(1), env1.Message.(*Ping).PunterQueryReferenceNumber)

	env2, remaining, err := Decode(remaining)
	require.NoError(t, err)
	assert.Empty(t, remaining)
	assert.Equal(t, int64(2), env2.Message.(*Ping).PunterQueryReferenceNumber)
}

func TestDecodeUnknownMessageType(t *testing.T) {
	env := newTestEnvelope(MessageType("notarealtype"), &ResetOccurred{})
	encoded, err := env.Encode()
	require.NoError(t, err)

	_, _, err = Decode(encoded)
	assert.Error(t, err)
}

func TestEncodePropagatesBodyEncodeError(t *testing.T) {
	env := newTestEnvelope(TypeAddLightweightPrices, &AddLightweightPrices{
		Prices: []LightWeightPriceToAdd{{Odds: "garbage"}},
	})
	_, err := env.Encode()
	assert.Error(t, err)
}
