// Package commands implements the outbound AAPI command schemas: the
// session-management, subscription and ping requests a client can send,
// and their encoding into BLOCK/VALUE delimited wire frames.
package commands

import (
	"strconv"

	"github.com/vayesy/betdaq/internal/common"
	"github.com/vayesy/betdaq/internal/mds/fields"
	"github.com/vayesy/betdaq/internal/mds/wire"
)

// Identifier is the numeric command code carried in the frame header.
type Identifier int

const (
	SetAnonymousSessionContextID Identifier = 1
	LogonPunterID                Identifier = 2
	LogoffPunterID               Identifier = 3
	SubscribeMarketInformationID Identifier = 9
	SubscribeDetailedPricesID    Identifier = 10
	SubscribeEventHierarchyID    Identifier = 12
	SubscribeMatchedAmountsID    Identifier = 14
	UnsubscribeID                Identifier = 20
	PingID                       Identifier = 22
	SetRefreshPeriodID           Identifier = 60
	GetRefreshPeriodID           Identifier = 61
)

// Command is anything that can be assigned a correlation id, prioritized
// in the subscription controller's send queue, and encoded to wire text.
type Command interface {
	Identifier() Identifier
	CorrelationID() int
	SetCorrelationID(id int)
	Encode() string
}

type base struct {
	correlationID int
}

func (b *base) CorrelationID() int        { return b.correlationID }
func (b *base) SetCorrelationID(id int)    { b.correlationID = id }

func encode(identifier Identifier, correlationID int, rest []wire.EncodedField) string {
	all := make([]wire.EncodedField, 0, len(rest)+1)
	all = append(all, wire.EncodedField{Order: 0, Value: strconv.Itoa(correlationID)})
	all = append(all, rest...)
	return wire.EncodeCommand(int(identifier), all)
}

func boolStr(v bool) string { return fields.EncodeBool(v) }

func marketTypesStr(types []common.MarketType) string {
	return fields.EncodeStrJoined(types, func(m common.MarketType) string {
		return strconv.Itoa(int(m))
	})
}

func intListStr(ids []int) string {
	return fields.EncodeStrJoined(ids, strconv.Itoa)
}

// Ping keeps the session alive and measures round trip.
type Ping struct {
	base
	CurrentClientTime    *string
	LastPingRoundtripMs  *int
	LastPingedAt         *int
}

func (c *Ping) Identifier() Identifier { return PingID }

func (c *Ping) Encode() string {
	var f []wire.EncodedField
	if c.CurrentClientTime != nil {
		f = append(f, wire.EncodedField{Order: 1, Value: *c.CurrentClientTime})
	}
	if c.LastPingRoundtripMs != nil {
		f = append(f, wire.EncodedField{Order: 2, Value: strconv.Itoa(*c.LastPingRoundtripMs)})
	}
	if c.LastPingedAt != nil {
		f = append(f, wire.EncodedField{Order: 3, Value: strconv.Itoa(*c.LastPingedAt)})
	}
	return encode(c.Identifier(), c.CorrelationID(), f)
}

// SetAnonymousSessionContext opens an anonymous (credential-free) session.
type SetAnonymousSessionContext struct {
	base
	Currency              common.Currency
	Language              common.Lang
	PriceFormat           common.PriceFormat
	IntegrationPartnerID  *int
	AAPIVersion           string
	ClientSpecifiedGUID   string
	GranularChannelType   *string
	ChannelInformation    *string
	ClientIdentifier      *string
}

func (c *SetAnonymousSessionContext) Identifier() Identifier { return SetAnonymousSessionContextID }

func (c *SetAnonymousSessionContext) Encode() string {
	f := []wire.EncodedField{
		{Order: 1, Value: string(c.Currency)},
		{Order: 2, Value: string(c.Language)},
		{Order: 3, Value: strconv.Itoa(int(c.PriceFormat))},
	}
	if c.IntegrationPartnerID != nil {
		f = append(f, wire.EncodedField{Order: 5, Value: strconv.Itoa(*c.IntegrationPartnerID)})
	}
	f = append(f,
		wire.EncodedField{Order: 6, Value: c.AAPIVersion},
		wire.EncodedField{Order: 7, Value: c.ClientSpecifiedGUID},
	)
	if c.GranularChannelType != nil {
		f = append(f, wire.EncodedField{Order: 8, Value: *c.GranularChannelType})
	}
	if c.ChannelInformation != nil {
		f = append(f, wire.EncodedField{Order: 9, Value: *c.ChannelInformation})
	}
	if c.ClientIdentifier != nil {
		f = append(f, wire.EncodedField{Order: 10, Value: *c.ClientIdentifier})
	}
	return encode(c.Identifier(), c.CorrelationID(), f)
}

// LogonPunter opens a credentialed session for a registered punter.
type LogonPunter struct {
	base
	PartnerToken            *string
	AAPISessionToken        *string
	IntegrationPartnerID    *int
	PartnerUsername         *string
	CleartextPassword       *string
	Currency                *common.Currency
	Language                *common.Lang
	AAPIVersion             string
	ClientSpecifiedGUID     string
	GranularChannelType     *string
	ChannelInformation      *string
	ClientIdentifier        *string
	SessionToken            *string
}

func (c *LogonPunter) Identifier() Identifier { return LogonPunterID }

func (c *LogonPunter) Encode() string {
	var f []wire.EncodedField
	if c.PartnerToken != nil {
		f = append(f, wire.EncodedField{Order: 1, Value: *c.PartnerToken})
	}
	if c.AAPISessionToken != nil {
		f = append(f, wire.EncodedField{Order: 2, Value: *c.AAPISessionToken})
	}
	if c.IntegrationPartnerID != nil {
		f = append(f, wire.EncodedField{Order: 3, Value: strconv.Itoa(*c.IntegrationPartnerID)})
	}
	if c.PartnerUsername != nil {
		f = append(f, wire.EncodedField{Order: 4, Value: *c.PartnerUsername})
	}
	if c.CleartextPassword != nil {
		f = append(f, wire.EncodedField{Order: 5, Value: *c.CleartextPassword})
	}
	if c.Currency != nil {
		f = append(f, wire.EncodedField{Order: 6, Value: string(*c.Currency)})
	}
	if c.Language != nil {
		f = append(f, wire.EncodedField{Order: 7, Value: string(*c.Language)})
	}
	f = append(f,
		wire.EncodedField{Order: 8, Value: c.AAPIVersion},
		wire.EncodedField{Order: 9, Value: c.ClientSpecifiedGUID},
	)
	if c.GranularChannelType != nil {
		f = append(f, wire.EncodedField{Order: 10, Value: *c.GranularChannelType})
	}
	if c.ChannelInformation != nil {
		f = append(f, wire.EncodedField{Order: 12, Value: *c.ChannelInformation})
	}
	if c.ClientIdentifier != nil {
		f = append(f, wire.EncodedField{Order: 13, Value: *c.ClientIdentifier})
	}
	if c.IntegrationPartnerID != nil {
		f = append(f, wire.EncodedField{Order: 14, Value: strconv.Itoa(*c.IntegrationPartnerID)})
	}
	if c.SessionToken != nil {
		f = append(f, wire.EncodedField{Order: 15, Value: *c.SessionToken})
	}
	return encode(c.Identifier(), c.CorrelationID(), f)
}

// LogoffPunter ends the current session.
type LogoffPunter struct{ base }

func (c *LogoffPunter) Identifier() Identifier { return LogoffPunterID }
func (c *LogoffPunter) Encode() string         { return encode(c.Identifier(), c.CorrelationID(), nil) }

// SetRefreshPeriod negotiates the server's batching interval.
type SetRefreshPeriod struct {
	base
	RefreshPeriodMs int
}

func (c *SetRefreshPeriod) Identifier() Identifier { return SetRefreshPeriodID }
func (c *SetRefreshPeriod) Encode() string {
	f := []wire.EncodedField{{Order: 1, Value: strconv.Itoa(c.RefreshPeriodMs)}}
	return encode(c.Identifier(), c.CorrelationID(), f)
}

// GetRefreshPeriod queries the currently negotiated batching interval.
type GetRefreshPeriod struct{ base }

func (c *GetRefreshPeriod) Identifier() Identifier { return GetRefreshPeriodID }
func (c *GetRefreshPeriod) Encode() string         { return encode(c.Identifier(), c.CorrelationID(), nil) }

// SubscribeMarketInformation subscribes to market-level topic updates.
type SubscribeMarketInformation struct {
	base
	EventClassifierID                   *int
	MarketTypesToExclude                []common.MarketType
	MarketTypesToInclude                []common.MarketType
	WantDirectDescendantsOnly           *bool
	MarketIDs                           []int
	FetchOnly                           bool
	WantSelectionInformation            bool
	WantExchangeLanguageInformationOnly *bool
	MarketTaggedValueTopicNames         *string
	ExcludeLanguageTopics               *bool
	WantSelectionBlurb                  bool
}

func (c *SubscribeMarketInformation) Identifier() Identifier { return SubscribeMarketInformationID }

func (c *SubscribeMarketInformation) Encode() string {
	var f []wire.EncodedField
	if c.EventClassifierID != nil {
		f = append(f, wire.EncodedField{Order: 2, Value: strconv.Itoa(*c.EventClassifierID)})
	}
	if len(c.MarketTypesToExclude) > 0 {
		f = append(f, wire.EncodedField{Order: 3, Value: marketTypesStr(c.MarketTypesToExclude)})
	}
	if len(c.MarketTypesToInclude) > 0 {
		f = append(f, wire.EncodedField{Order: 4, Value: marketTypesStr(c.MarketTypesToInclude)})
	}
	if c.WantDirectDescendantsOnly != nil {
		f = append(f, wire.EncodedField{Order: 5, Value: boolStr(*c.WantDirectDescendantsOnly)})
	}
	if len(c.MarketIDs) > 0 {
		f = append(f, wire.EncodedField{Order: 6, Value: intListStr(c.MarketIDs)})
	}
	f = append(f, wire.EncodedField{Order: 7, Value: boolStr(c.FetchOnly)})
	f = append(f, wire.EncodedField{Order: 8, Value: boolStr(c.WantSelectionInformation)})
	if c.WantExchangeLanguageInformationOnly != nil {
		f = append(f, wire.EncodedField{Order: 9, Value: boolStr(*c.WantExchangeLanguageInformationOnly)})
	}
	if c.MarketTaggedValueTopicNames != nil {
		f = append(f, wire.EncodedField{Order: 10, Value: *c.MarketTaggedValueTopicNames})
	}
	if c.ExcludeLanguageTopics != nil {
		f = append(f, wire.EncodedField{Order: 11, Value: boolStr(*c.ExcludeLanguageTopics)})
	}
	f = append(f, wire.EncodedField{Order: 12, Value: boolStr(c.WantSelectionBlurb)})
	return encode(c.Identifier(), c.CorrelationID(), f)
}

// SubscribeDetailedMarketPrices subscribes to ladder-depth price topics.
type SubscribeDetailedMarketPrices struct {
	base
	EventClassifierID          *int
	MarketTypesToExclude       []common.MarketType
	MarketTypesToInclude       []common.MarketType
	WantDirectDescendantsOnly  *bool
	MarketIDs                  []int
	NumberBackPrices           int
	NumberLayPrices            int
	FilterByVolume             float64
	FetchOnly                  bool
}

func (c *SubscribeDetailedMarketPrices) Identifier() Identifier { return SubscribeDetailedPricesID }

func (c *SubscribeDetailedMarketPrices) Encode() string {
	var f []wire.EncodedField
	if c.EventClassifierID != nil {
		f = append(f, wire.EncodedField{Order: 1, Value: strconv.Itoa(*c.EventClassifierID)})
	}
	if len(c.MarketTypesToExclude) > 0 {
		f = append(f, wire.EncodedField{Order: 2, Value: marketTypesStr(c.MarketTypesToExclude)})
	}
	if len(c.MarketTypesToInclude) > 0 {
		f = append(f, wire.EncodedField{Order: 3, Value: marketTypesStr(c.MarketTypesToInclude)})
	}
	if c.WantDirectDescendantsOnly != nil {
		f = append(f, wire.EncodedField{Order: 4, Value: boolStr(*c.WantDirectDescendantsOnly)})
	}
	if len(c.MarketIDs) > 0 {
		f = append(f, wire.EncodedField{Order: 5, Value: intListStr(c.MarketIDs)})
	}
	f = append(f,
		wire.EncodedField{Order: 6, Value: strconv.Itoa(c.NumberBackPrices)},
		wire.EncodedField{Order: 7, Value: strconv.Itoa(c.NumberLayPrices)},
		wire.EncodedField{Order: 8, Value: strconv.FormatFloat(c.FilterByVolume, 'f', -1, 64)},
	)
	f = append(f, wire.EncodedField{Order: 11, Value: boolStr(c.FetchOnly)})
	return encode(c.Identifier(), c.CorrelationID(), f)
}

// SubscribeEventHierarchy subscribes to the full event/market/selection tree.
type SubscribeEventHierarchy struct {
	base
	EventClassifierID                    int
	WantDirectDescendantsOnly             bool
	WantSelectionInformation              bool
	FetchOnly                             bool
	MarketTypesToExclude                  []common.MarketType
	MarketTypesToInclude                  []common.MarketType
	WantExchangeLanguageInformationOnly    *bool
	EventTaggedValueTopicNames             *string
	MarketTaggedValueTopicNames            *string
	ExcludeMarketInformation                *bool
	WantTabInformation                      *bool
	ExcludeLanguageTopics                    *bool
	WantSelectionBlurb                       bool
}

func (c *SubscribeEventHierarchy) Identifier() Identifier { return SubscribeEventHierarchyID }

func (c *SubscribeEventHierarchy) Encode() string {
	f := []wire.EncodedField{
		{Order: 2, Value: strconv.Itoa(c.EventClassifierID)},
		{Order: 3, Value: boolStr(c.WantDirectDescendantsOnly)},
		{Order: 4, Value: boolStr(c.WantSelectionInformation)},
	}
	f = append(f, wire.EncodedField{Order: 5, Value: boolStr(c.FetchOnly)})
	if len(c.MarketTypesToExclude) > 0 {
		f = append(f, wire.EncodedField{Order: 6, Value: marketTypesStr(c.MarketTypesToExclude)})
	}
	if len(c.MarketTypesToInclude) > 0 {
		f = append(f, wire.EncodedField{Order: 7, Value: marketTypesStr(c.MarketTypesToInclude)})
	}
	if c.WantExchangeLanguageInformationOnly != nil {
		f = append(f, wire.EncodedField{Order: 8, Value: boolStr(*c.WantExchangeLanguageInformationOnly)})
	}
	if c.EventTaggedValueTopicNames != nil {
		f = append(f, wire.EncodedField{Order: 9, Value: *c.EventTaggedValueTopicNames})
	}
	if c.MarketTaggedValueTopicNames != nil {
		f = append(f, wire.EncodedField{Order: 10, Value: *c.MarketTaggedValueTopicNames})
	}
	if c.ExcludeMarketInformation != nil {
		f = append(f, wire.EncodedField{Order: 11, Value: boolStr(*c.ExcludeMarketInformation)})
	}
	if c.WantTabInformation != nil {
		f = append(f, wire.EncodedField{Order: 12, Value: boolStr(*c.WantTabInformation)})
	}
	if c.ExcludeLanguageTopics != nil {
		f = append(f, wire.EncodedField{Order: 13, Value: boolStr(*c.ExcludeLanguageTopics)})
	}
	f = append(f, wire.EncodedField{Order: 14, Value: boolStr(c.WantSelectionBlurb)})
	return encode(c.Identifier(), c.CorrelationID(), f)
}

// SubscribeMarketMatchedAmounts subscribes to per-currency matched-amount topics.
type SubscribeMarketMatchedAmounts struct {
	base
	EventClassifierID          *int
	MarketTypesToExclude       []common.MarketType
	MarketTypesToInclude       []common.MarketType
	WantDirectDescendantsOnly  *bool
	MarketIDs                  []int
	FetchOnly                  bool
}

func (c *SubscribeMarketMatchedAmounts) Identifier() Identifier { return SubscribeMatchedAmountsID }

func (c *SubscribeMarketMatchedAmounts) Encode() string {
	var f []wire.EncodedField
	if c.EventClassifierID != nil {
		f = append(f, wire.EncodedField{Order: 1, Value: strconv.Itoa(*c.EventClassifierID)})
	}
	if len(c.MarketTypesToExclude) > 0 {
		f = append(f, wire.EncodedField{Order: 2, Value: marketTypesStr(c.MarketTypesToExclude)})
	}
	if len(c.MarketTypesToInclude) > 0 {
		f = append(f, wire.EncodedField{Order: 3, Value: marketTypesStr(c.MarketTypesToInclude)})
	}
	if c.WantDirectDescendantsOnly != nil {
		f = append(f, wire.EncodedField{Order: 4, Value: boolStr(*c.WantDirectDescendantsOnly)})
	}
	if len(c.MarketIDs) > 0 {
		f = append(f, wire.EncodedField{Order: 5, Value: intListStr(c.MarketIDs)})
	}
	f = append(f, wire.EncodedField{Order: 7, Value: boolStr(c.FetchOnly)})
	return encode(c.Identifier(), c.CorrelationID(), f)
}

// Unsubscribe cancels one or more prior subscriptions, or all of them if
// SubscriptionIDs is empty.
type Unsubscribe struct {
	base
	SubscriptionIDs []int
}

func (c *Unsubscribe) Identifier() Identifier { return UnsubscribeID }

func (c *Unsubscribe) Encode() string {
	var f []wire.EncodedField
	if len(c.SubscriptionIDs) > 0 {
		f = append(f, wire.EncodedField{Order: 3, Value: intListStr(c.SubscriptionIDs)})
	}
	return encode(c.Identifier(), c.CorrelationID(), f)
}

// RateLimitedKinds lists the command types the subscription controller
// throttles to one request per second; every other command goes straight
// to the priority queue.
var RateLimitedKinds = []Identifier{
	SubscribeEventHierarchyID,
	SubscribeDetailedPricesID,
	SubscribeMarketInformationID,
	SubscribeMatchedAmountsID,
}
