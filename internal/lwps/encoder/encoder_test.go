package encoder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vayesy/betdaq/internal/lwps/envelope"
)

func TestNewDefaults(t *testing.T) {
	e := New(12345, 999)
	assert.Equal(t, int32(1), e.Version)
	assert.Equal(t, int64(12345), e.PunterID)
	assert.Equal(t, int64(999), e.PunterSessionKey)
	assert.Equal(t, "12345", e.Source)
	assert.Equal(t, "binary", e.Format)
	assert.Equal(t, "lwps_tcp1", e.Transport)
	assert.Equal(t, "lightweightpriceserverexternal", e.Interface)
	assert.Equal(t, int32(3), e.Priority)
}

func TestAddLightweightPriceThenParseResponseRoundTrip(t *testing.T) {
	e := New(1, 2)
	frame, err := e.AddLightweightPrice(envelope.LightWeightPriceToAdd{
		SelectionID: 555,
		MarketID:    123,
		Polarity:    envelope.For,
		Odds:        "2.5",
		DeltaStake:  envelope.Money{Amount: "10.00", Currency: "GBP"},
	}, nil)
	require.NoError(t, err)
	require.NotEmpty(t, frame)

	env, remaining, err := e.ParseResponse(frame)
	require.NoError(t, err)
	assert.Empty(t, remaining)

	body, ok := env.Message.(*envelope.AddLightweightPrices)
	require.True(t, ok)
	require.Len(t, body.Prices, 1)
	assert.Equal(t, int64(555), body.Prices[0].SelectionID)
	assert.Equal(t, int64(1), body.VirtualPunterID)
	assert.Equal(t, int64(2), body.VirtualPunterSessionKey)
	require.NotNil(t, body.ExpireAt)
}

func TestPingEncodesRequestedMessageType(t *testing.T) {
	e := New(1, 2)
	frame, err := e.Ping(7, nil)
	require.NoError(t, err)

	env, _, err := e.ParseResponse(frame)
	require.NoError(t, err)
	assert.Equal(t, envelope.TypePing, env.MessageHeader.Type)

	body, ok := env.Message.(*envelope.Ping)
	require.True(t, ok)
	assert.Equal(t, int64(7), body.PunterQueryReferenceNumber)
}

func TestCancelAllLightweightPricesOnMarkets(t *testing.T) {
	e := New(1, 2)
	frame, err := e.CancelAllLightweightPricesOnMarkets([]int64{10, 20}, nil)
	require.NoError(t, err)

	env, _, err := e.ParseResponse(frame)
	require.NoError(t, err)
	body, ok := env.Message.(*envelope.CancelAllLightweightPricesOnMarkets)
	require.True(t, ok)
	assert.Equal(t, []int64{10, 20}, body.MarketIDs)
}

func TestKeepAliveIsBareZeroByte(t *testing.T) {
	assert.Equal(t, []byte{0x00}, KeepAlive)
}
