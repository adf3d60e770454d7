// Package responses implements the AAPI command acknowledgement schemas:
// the typed replies the server sends back for each command in commands.go,
// keyed by the command identifier carried in the frame head.
package responses

import (
	"github.com/vayesy/betdaq/internal/common"
	"github.com/vayesy/betdaq/internal/mds/commands"
	"github.com/vayesy/betdaq/internal/mds/fields"
	"github.com/vayesy/betdaq/internal/mds/wire"
)

// Response is a decoded command acknowledgement.
type Response interface {
	CorrelationID() int
	ReturnCode() common.ReturnCode
}

type base struct {
	correlationID int
	returnCode    common.ReturnCode
}

func (b base) CorrelationID() int            { return b.correlationID }
func (b base) ReturnCode() common.ReturnCode { return b.returnCode }

func loadBase(body wire.Tree) (base, error) {
	var b base
	if raw, ok := fields.TreeString(body, 0); ok {
		v, err := fields.DecodeInt(raw)
		if err != nil {
			return b, err
		}
		b.correlationID = v
	}
	if raw, ok := fields.TreeString(body, 1); ok {
		v, err := fields.DecodeEnum[common.ReturnCode](raw)
		if err != nil {
			return b, err
		}
		b.returnCode = v
	}
	return b, nil
}

// Ping acknowledges a Ping command.
type Ping struct {
	base
	MessagesInQueue int
}

func LoadPing(body wire.Tree) (*Ping, error) {
	b, err := loadBase(body)
	if err != nil {
		return nil, err
	}
	r := &Ping{base: b}
	if raw, ok := fields.TreeString(body, 2); ok {
		if r.MessagesInQueue, err = fields.DecodeInt(raw); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// SetAnonymousSessionContext acknowledges session initialization.
type SetAnonymousSessionContext struct {
	base
	MaximumMessageSize                      int
	MaximumMarketInformationMarketsCount    *int
	MaximumMarketPricesMarketsCount         *int
	MaximumMarketMatchedAmountsMarketsCount *int
}

func LoadSetAnonymousSessionContext(body wire.Tree) (*SetAnonymousSessionContext, error) {
	b, err := loadBase(body)
	if err != nil {
		return nil, err
	}
	r := &SetAnonymousSessionContext{base: b}
	if raw, ok := fields.TreeString(body, 2); ok {
		if r.MaximumMessageSize, err = fields.DecodeInt(raw); err != nil {
			return nil, err
		}
	}
	if raw, ok := fields.TreeString(body, 3); ok {
		v, err := fields.DecodeInt(raw)
		if err != nil {
			return nil, err
		}
		r.MaximumMarketInformationMarketsCount = &v
	}
	if raw, ok := fields.TreeString(body, 4); ok {
		v, err := fields.DecodeInt(raw)
		if err != nil {
			return nil, err
		}
		r.MaximumMarketPricesMarketsCount = &v
	}
	if raw, ok := fields.TreeString(body, 5); ok {
		v, err := fields.DecodeInt(raw)
		if err != nil {
			return nil, err
		}
		r.MaximumMarketMatchedAmountsMarketsCount = &v
	}
	return r, nil
}

// LogonPunter acknowledges a credentialed session logon.
type LogonPunter struct {
	base
	DebitSportsbookStake                      bool
	DebitExchangeStake                        bool
	PurseIntegrationMode                      string
	CanPlaceForSideOrders                     bool
	CanPlaceAgainstSideOrders                 bool
	RestrictedToFillKillOrders                bool
	Currency                                  common.Currency
	Language                                  common.Lang
	PriceFormat                               common.PriceFormat
	MarketByVolumeAmount                      float64
	AAPISessionToken                          string
	MaximumMessageSize                        int
	MaximumMarketInformationMarketsCount      int
	MaximumMarketPricesMarketsCount           int
	MaximumMarketMatchedAmountsMarketsCount   int
}

func LoadLogonPunter(body wire.Tree) (*LogonPunter, error) {
	b, err := loadBase(body)
	if err != nil {
		return nil, err
	}
	r := &LogonPunter{base: b}
	boolField := func(order int, dst *bool) error {
		raw, ok := fields.TreeString(body, order)
		if !ok {
			return nil
		}
		v, err := fields.DecodeBool(raw)
		if err != nil {
			return err
		}
		*dst = v
		return nil
	}
	intField := func(order int, dst *int) error {
		raw, ok := fields.TreeString(body, order)
		if !ok {
			return nil
		}
		v, err := fields.DecodeInt(raw)
		if err != nil {
			return err
		}
		*dst = v
		return nil
	}
	if err := boolField(2, &r.DebitSportsbookStake); err != nil {
		return nil, err
	}
	if err := boolField(3, &r.DebitExchangeStake); err != nil {
		return nil, err
	}
	if raw, ok := fields.TreeString(body, 4); ok {
		r.PurseIntegrationMode = raw
	}
	if err := boolField(5, &r.CanPlaceForSideOrders); err != nil {
		return nil, err
	}
	if err := boolField(6, &r.CanPlaceAgainstSideOrders); err != nil {
		return nil, err
	}
	if err := boolField(7, &r.RestrictedToFillKillOrders); err != nil {
		return nil, err
	}
	if raw, ok := fields.TreeString(body, 8); ok {
		r.Currency = common.Currency(raw)
	}
	if raw, ok := fields.TreeString(body, 9); ok {
		r.Language = common.Lang(raw)
	}
	if raw, ok := fields.TreeString(body, 10); ok {
		v, err := fields.DecodeEnum[common.PriceFormat](raw)
		if err != nil {
			return nil, err
		}
		r.PriceFormat = v
	}
	if raw, ok := fields.TreeString(body, 11); ok {
		if r.MarketByVolumeAmount, err = fields.DecodeFloat(raw); err != nil {
			return nil, err
		}
	}
	if raw, ok := fields.TreeString(body, 13); ok {
		r.AAPISessionToken = raw
	}
	if err := intField(14, &r.MaximumMessageSize); err != nil {
		return nil, err
	}
	if err := intField(15, &r.MaximumMarketInformationMarketsCount); err != nil {
		return nil, err
	}
	if err := intField(16, &r.MaximumMarketPricesMarketsCount); err != nil {
		return nil, err
	}
	if err := intField(17, &r.MaximumMarketMatchedAmountsMarketsCount); err != nil {
		return nil, err
	}
	return r, nil
}

// SetRefreshPeriod acknowledges a refresh-period negotiation.
type SetRefreshPeriod struct {
	base
	RefreshPeriodMs int
}

func LoadSetRefreshPeriod(body wire.Tree) (*SetRefreshPeriod, error) {
	b, err := loadBase(body)
	if err != nil {
		return nil, err
	}
	r := &SetRefreshPeriod{base: b}
	if raw, ok := fields.TreeString(body, 2); ok {
		if r.RefreshPeriodMs, err = fields.DecodeInt(raw); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// GetRefreshPeriod reports the currently negotiated refresh period.
type GetRefreshPeriod struct {
	base
	RefreshPeriodMs int
}

func LoadGetRefreshPeriod(body wire.Tree) (*GetRefreshPeriod, error) {
	b, err := loadBase(body)
	if err != nil {
		return nil, err
	}
	r := &GetRefreshPeriod{base: b}
	if raw, ok := fields.TreeString(body, 2); ok {
		if r.RefreshPeriodMs, err = fields.DecodeInt(raw); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// SubscribeMarketInformation acknowledges a market-information subscription.
type SubscribeMarketInformation struct {
	base
	SubscriptionID        *int
	MarketIDs             string
	AvailableMarketsCount int
}

func LoadSubscribeMarketInformation(body wire.Tree) (*SubscribeMarketInformation, error) {
	b, err := loadBase(body)
	if err != nil {
		return nil, err
	}
	r := &SubscribeMarketInformation{base: b}
	if raw, ok := fields.TreeString(body, 2); ok {
		v, err := fields.DecodeInt(raw)
		if err != nil {
			return nil, err
		}
		r.SubscriptionID = &v
	}
	if raw, ok := fields.TreeString(body, 3); ok {
		r.MarketIDs = raw
	}
	if raw, ok := fields.TreeString(body, 4); ok {
		if r.AvailableMarketsCount, err = fields.DecodeInt(raw); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// SubscribeDetailedMarketPrices acknowledges a detailed-prices subscription.
type SubscribeDetailedMarketPrices struct {
	base
	SubscriptionID        *int
	MarketIDs             string
	AvailableMarketsCount int
}

func LoadSubscribeDetailedMarketPrices(body wire.Tree) (*SubscribeDetailedMarketPrices, error) {
	b, err := loadBase(body)
	if err != nil {
		return nil, err
	}
	r := &SubscribeDetailedMarketPrices{base: b}
	if raw, ok := fields.TreeString(body, 2); ok {
		v, err := fields.DecodeInt(raw)
		if err != nil {
			return nil, err
		}
		r.SubscriptionID = &v
	}
	if raw, ok := fields.TreeString(body, 3); ok {
		r.MarketIDs = raw
	}
	if raw, ok := fields.TreeString(body, 4); ok {
		if r.AvailableMarketsCount, err = fields.DecodeInt(raw); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// SubscribeEventHierarchy acknowledges an event-hierarchy subscription.
type SubscribeEventHierarchy struct {
	base
	SubscriptionID        *int
	AvailableMarketsCount int
}

func LoadSubscribeEventHierarchy(body wire.Tree) (*SubscribeEventHierarchy, error) {
	b, err := loadBase(body)
	if err != nil {
		return nil, err
	}
	r := &SubscribeEventHierarchy{base: b}
	if raw, ok := fields.TreeString(body, 2); ok {
		v, err := fields.DecodeInt(raw)
		if err != nil {
			return nil, err
		}
		r.SubscriptionID = &v
	}
	if raw, ok := fields.TreeString(body, 4); ok {
		if r.AvailableMarketsCount, err = fields.DecodeInt(raw); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// SubscribeMarketMatchedAmounts acknowledges a matched-amounts subscription.
type SubscribeMarketMatchedAmounts struct {
	base
	SubscriptionID        *int
	MarketIDs             string
	AvailableMarketsCount int
}

func LoadSubscribeMarketMatchedAmounts(body wire.Tree) (*SubscribeMarketMatchedAmounts, error) {
	b, err := loadBase(body)
	if err != nil {
		return nil, err
	}
	r := &SubscribeMarketMatchedAmounts{base: b}
	if raw, ok := fields.TreeString(body, 2); ok {
		v, err := fields.DecodeInt(raw)
		if err != nil {
			return nil, err
		}
		r.SubscriptionID = &v
	}
	if raw, ok := fields.TreeString(body, 3); ok {
		r.MarketIDs = raw
	}
	if raw, ok := fields.TreeString(body, 4); ok {
		if r.AvailableMarketsCount, err = fields.DecodeInt(raw); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Unsubscribe acknowledges an unsubscribe request.
type Unsubscribe struct {
	base
	SubscriptionIDs []int
}

func LoadUnsubscribe(body wire.Tree) (*Unsubscribe, error) {
	b, err := loadBase(body)
	if err != nil {
		return nil, err
	}
	r := &Unsubscribe{base: b}
	if raw, ok := fields.TreeString(body, 3); ok {
		if r.SubscriptionIDs, err = fields.DecodeStrJoined(raw, fields.DecodeInt); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Loader decodes the body tree of a response for a given command identifier.
type Loader func(body wire.Tree) (Response, error)

func wrap[T Response](f func(wire.Tree) (T, error)) Loader {
	return func(body wire.Tree) (Response, error) {
		return f(body)
	}
}

// ByIdentifier maps a command identifier to the loader for its response.
var ByIdentifier = map[commands.Identifier]Loader{
	commands.SetAnonymousSessionContextID: wrap(LoadSetAnonymousSessionContext),
	commands.LogonPunterID:                wrap(LoadLogonPunter),
	commands.PingID:                       wrap(LoadPing),
	commands.SetRefreshPeriodID:           wrap(LoadSetRefreshPeriod),
	commands.GetRefreshPeriodID:           wrap(LoadGetRefreshPeriod),
	commands.SubscribeMarketInformationID: wrap(LoadSubscribeMarketInformation),
	commands.SubscribeDetailedPricesID:    wrap(LoadSubscribeDetailedMarketPrices),
	commands.SubscribeEventHierarchyID:    wrap(LoadSubscribeEventHierarchy),
	commands.SubscribeMatchedAmountsID:    wrap(LoadSubscribeMarketMatchedAmounts),
	commands.UnsubscribeID:                wrap(LoadUnsubscribe),
}
