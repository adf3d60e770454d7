package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vayesy/betdaq/internal/common"
)

func TestPingEncodeOmitsAbsentFields(t *testing.T) {
	c := &Ping{}
	c.SetCorrelationID(5)
	assert.Equal(t, "\x0222\x010\x025\x01", c.Encode())
}

func TestPingEncodeWithAllFields(t *testing.T) {
	clientTime := "2024-01-01T00:00:00.000000Z"
	roundtrip := 120
	lastPing := 1700000000
	c := &Ping{
		CurrentClientTime:   &clientTime,
		LastPingRoundtripMs: &roundtrip,
		LastPingedAt:        &lastPing,
	}
	c.SetCorrelationID(1)
	want := "\x0222\x010\x021\x011\x022024-01-01T00:00:00.000000Z\x012\x02120\x013\x021700000000\x01"
	assert.Equal(t, want, c.Encode())
}

func TestSetAnonymousSessionContextEncode(t *testing.T) {
	c := &SetAnonymousSessionContext{
		Currency:            common.GBP,
		Language:            common.LangEnglish,
		PriceFormat:         common.PriceFormatDecimal,
		AAPIVersion:         "2",
		ClientSpecifiedGUID: "guid-1",
	}
	c.SetCorrelationID(1)
	want := "\x021\x010\x021\x011\x02GBP\x012\x02en\x013\x021\x016\x022\x017\x02guid-1\x01"
	assert.Equal(t, want, c.Encode())
}

func TestLogoffPunterEncode(t *testing.T) {
	c := &LogoffPunter{}
	c.SetCorrelationID(9)
	assert.Equal(t, "\x023\x010\x029\x01", c.Encode())
}

func TestSetRefreshPeriodEncode(t *testing.T) {
	c := &SetRefreshPeriod{RefreshPeriodMs: 500}
	c.SetCorrelationID(2)
	assert.Equal(t, "\x0260\x010\x022\x011\x02500\x01", c.Encode())
}

func TestUnsubscribeAllOmitsSubscriptionIDs(t *testing.T) {
	c := &Unsubscribe{}
	c.SetCorrelationID(3)
	assert.Equal(t, "\x0220\x010\x023\x01", c.Encode())
}

func TestUnsubscribeWithIDs(t *testing.T) {
	c := &Unsubscribe{SubscriptionIDs: []int{10, 11}}
	c.SetCorrelationID(3)
	assert.Equal(t, "\x0220\x010\x023\x013\x0210~11\x01", c.Encode())
}

func TestSubscribeMarketInformationDefaultsAndFlags(t *testing.T) {
	c := &SubscribeMarketInformation{
		FetchOnly:                true,
		WantSelectionInformation:  false,
		WantSelectionBlurb:        true,
	}
	c.SetCorrelationID(4)
	want := "\x029\x010\x024\x017\x02T\x018\x02F\x0112\x02T\x01"
	assert.Equal(t, want, c.Encode())
}

func TestRateLimitedKindsCoversSubscriptions(t *testing.T) {
	assert.Contains(t, RateLimitedKinds, SubscribeEventHierarchyID)
	assert.Contains(t, RateLimitedKinds, SubscribeDetailedPricesID)
	assert.Contains(t, RateLimitedKinds, SubscribeMarketInformationID)
	assert.Contains(t, RateLimitedKinds, SubscribeMatchedAmountsID)
	assert.NotContains(t, RateLimitedKinds, PingID)
}
