// Package envelope implements the order-stream wire format: the
// protocol/envelope/message header trio, the thirteen message bodies
// that ride inside them, and the nested item structures an
// add/cancel/notification body carries as arrays.
package envelope

import (
	"fmt"
	"time"

	"github.com/vayesy/betdaq/internal/common"
	"github.com/vayesy/betdaq/internal/lwps/wire"
)

// MessageType is the wire string identifying a message body's shape,
// carried in the message header rather than the body itself.
type MessageType string

const (
	TypeAddLightweightPrices                      MessageType = "addlightweightprices"
	TypeCancelAllLightweightPrices                 MessageType = "cancelalllightweightprices"
	TypeCancelAllLightweightPricesOnMarkets        MessageType = "cancelalllightweightpricesonmarkets"
	TypeCancelAllLightweightPricesOnSelections     MessageType = "cancelalllightweightpricesonselections"
	TypeCancelLightweightPrices                    MessageType = "cancellightweightprices"
	TypePing                                       MessageType = "ping"
	TypeQueryAllLightweightPrices                  MessageType = "queryalllightweightprices"
	TypeQueryAllLightweightPricesOnMarkets         MessageType = "queryalllightweightpricesonmarkets"
	TypeQueryAllLightweightPricesOnSelections      MessageType = "queryalllightweightpricesonselections"
	TypeLightweightPriceSummary                    MessageType = "lightweightpricesummary"
	TypeLWPChangeNotification                      MessageType = "lwpchangenotification"
	TypePingResponse                               MessageType = "pingresponse"
	TypeResetOccurred                               MessageType = "resetoccurred"
)

// ActionType explains why a lightweight price changed, carried on each
// LWPChangeNotification item. 17 is not assigned by the server.
type ActionType int32

const (
	ActionCancelledExplicitly                     ActionType = 1
	ActionCancelledAll                             ActionType = 2
	ActionMatched                                  ActionType = 3
	ActionChangedExplicitly                        ActionType = 4
	ActionSelectionCompleted                       ActionType = 5
	ActionResetOccurred                            ActionType = 6
	ActionWithdrawalOccurred                       ActionType = 7
	ActionExpired                                  ActionType = 8
	ActionCancelledAllOnSelection                  ActionType = 9
	ActionCancelledOnPunterDisabled                ActionType = 10
	ActionLWPDoesNotExist                          ActionType = 11
	ActionCancelledInvalidPrice                    ActionType = 12
	ActionCancelledInvalidWithdrawalSequenceNumber ActionType = 13
	ActionCancelledInvalidSelectionResetCount      ActionType = 14
	ActionCancelledInvalidCurrency                 ActionType = 15
	ActionCancelledAllOnMarket                     ActionType = 16
	ActionCancelledIncorrectMarketID                ActionType = 18
	ActionCancelledPlayForFreeViolation             ActionType = 19
	ActionCancelledRingfencedLiquidityViolation     ActionType = 20
	ActionCancelledAnUnmatchableAmount              ActionType = 21
)

// Polarity is the side of the book a lightweight price sits on.
type Polarity int32

const (
	Against Polarity = 0
	For     Polarity = 1
)

// ProtocolHeader is the outermost, length-prefixed frame section.
type ProtocolHeader struct {
	Version byte // always 1
}

func (h ProtocolHeader) encode(w *wire.Writer) {
	w.LengthPrefixed(func(w *wire.Writer) {
		w.Byte(h.Version)
	})
}

func decodeProtocolHeader(r *wire.Reader) (ProtocolHeader, error) {
	sub, err := r.LengthPrefixed()
	if err != nil {
		return ProtocolHeader{}, err
	}
	v, err := sub.Byte()
	if err != nil {
		return ProtocolHeader{}, err
	}
	return ProtocolHeader{Version: v}, nil
}

// EnvelopeHeader is the second, length-prefixed frame section.
type EnvelopeHeader struct {
	Version   byte // always 1
	ItemCount byte // always 2
}

func (h EnvelopeHeader) encode(w *wire.Writer) {
	w.LengthPrefixed(func(w *wire.Writer) {
		w.Byte(h.Version)
		w.Byte(h.ItemCount)
	})
}

func decodeEnvelopeHeader(r *wire.Reader) (EnvelopeHeader, error) {
	sub, err := r.LengthPrefixed()
	if err != nil {
		return EnvelopeHeader{}, err
	}
	v, err := sub.Byte()
	if err != nil {
		return EnvelopeHeader{}, err
	}
	n, err := sub.Byte()
	if err != nil {
		return EnvelopeHeader{}, err
	}
	return EnvelopeHeader{Version: v, ItemCount: n}, nil
}

// MessageHeader is the third, length-prefixed frame section; it is the
// only place the message's wire type tag is carried.
type MessageHeader struct {
	Version     int32 // big-endian, always 1
	Type        MessageType
	TypeVersion int32
	Format      string // always "binary"
	Source      string // unique per connection, usually the virtual punter id
	Transport   string // always "lwps_tcp1"
	Priority    int32  // always 3
	Interface   string // "lightweightpriceserverexternal" or "authorisedvirtualpunter"
}

func (h MessageHeader) encode(w *wire.Writer) {
	w.LengthPrefixed(func(w *wire.Writer) {
		w.ReversedInt32(h.Version)
		w.String(string(h.Type))
		w.Int32(h.TypeVersion)
		w.String(h.Format)
		w.String(h.Source)
		w.String(h.Transport)
		w.Int32(h.Priority)
		w.String(h.Interface)
	})
}

func decodeMessageHeader(r *wire.Reader) (MessageHeader, error) {
	sub, err := r.LengthPrefixed()
	if err != nil {
		return MessageHeader{}, err
	}
	var h MessageHeader
	if h.Version, err = sub.ReversedInt32(); err != nil {
		return MessageHeader{}, err
	}
	typ, err := sub.String()
	if err != nil {
		return MessageHeader{}, err
	}
	h.Type = MessageType(typ)
	if h.TypeVersion, err = sub.Int32(); err != nil {
		return MessageHeader{}, err
	}
	if h.Format, err = sub.String(); err != nil {
		return MessageHeader{}, err
	}
	if h.Source, err = sub.String(); err != nil {
		return MessageHeader{}, err
	}
	if h.Transport, err = sub.String(); err != nil {
		return MessageHeader{}, err
	}
	if h.Priority, err = sub.Int32(); err != nil {
		return MessageHeader{}, err
	}
	if h.Interface, err = sub.String(); err != nil {
		return MessageHeader{}, err
	}
	return h, nil
}

// baseBody holds the fields every message body carries ahead of its own
// payload fields.
type baseBody struct {
	CommandVersion          int32
	CommandTime             *time.Time
	ExpireAt                *time.Time
	VirtualPunterID         int64
	VirtualPunterSessionKey int64
}

func (b baseBody) encode(w *wire.Writer) {
	w.Int32(b.CommandVersion)
	w.DateTime(b.CommandTime)
	w.DateTime(b.ExpireAt)
	w.Int64(b.VirtualPunterID)
	w.Int64(b.VirtualPunterSessionKey)
}

func decodeBaseBody(r *wire.Reader) (baseBody, error) {
	var b baseBody
	var err error
	if b.CommandVersion, err = r.Int32(); err != nil {
		return baseBody{}, err
	}
	if b.CommandTime, err = r.DateTime(); err != nil {
		return baseBody{}, err
	}
	if b.ExpireAt, err = r.DateTime(); err != nil {
		return baseBody{}, err
	}
	if b.VirtualPunterID, err = r.Int64(); err != nil {
		return baseBody{}, err
	}
	if b.VirtualPunterSessionKey, err = r.Int64(); err != nil {
		return baseBody{}, err
	}
	return b, nil
}

// Money is a MoneyAmount field: a decimal string plus currency code.
type Money struct {
	Amount   string
	Currency common.Currency
}

func encodeMoney(w *wire.Writer, m Money) {
	w.MoneyAmount(m.Amount, string(m.Currency))
}

func decodeMoney(r *wire.Reader) (Money, error) {
	amount, currency, err := r.MoneyAmount()
	if err != nil {
		return Money{}, err
	}
	return Money{Amount: amount, Currency: common.Currency(currency)}, nil
}

func encodeOptionalMoney(w *wire.Writer, m *Money) {
	w.OptionalPresent(m != nil)
	if m != nil {
		encodeMoney(w, *m)
	}
}

func decodeOptionalMoney(r *wire.Reader) (*Money, error) {
	present, err := r.OptionalPresent()
	if err != nil || !present {
		return nil, err
	}
	m, err := decodeMoney(r)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func encodeOptionalInt64(w *wire.Writer, v *int64) {
	w.OptionalPresent(v != nil)
	if v != nil {
		w.Int64(*v)
	}
}

func decodeOptionalInt64(r *wire.Reader) (*int64, error) {
	present, err := r.OptionalPresent()
	if err != nil || !present {
		return nil, err
	}
	v, err := r.Int64()
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// LightWeightPriceToAdd is one price in an AddLightweightPrices request.
type LightWeightPriceToAdd struct {
	SelectionID                       int64
	MarketID                          int64
	Polarity                          Polarity
	Odds                              string
	DeltaStake                        Money
	ExpirePriceAt                     *time.Time
	ExpectedSelectionResetCount       int32
	ExpectedWithdrawalSequenceNumber  int32
	PunterReferenceNumber             int64
}

func encodeLightWeightPriceToAdd(w *wire.Writer, p LightWeightPriceToAdd) {
	w.Int64(p.SelectionID)
	w.Int64(p.MarketID)
	w.Int32(int32(p.Polarity))
	w.Decimal(p.Odds)
	encodeMoney(w, p.DeltaStake)
	w.DateTime(p.ExpirePriceAt)
	w.Int32(p.ExpectedSelectionResetCount)
	w.Int32(p.ExpectedWithdrawalSequenceNumber)
	w.Int64(p.PunterReferenceNumber)
}

func decodeLightWeightPriceToAdd(r *wire.Reader) (LightWeightPriceToAdd, error) {
	var p LightWeightPriceToAdd
	var err error
	if p.SelectionID, err = r.Int64(); err != nil {
		return p, err
	}
	if p.MarketID, err = r.Int64(); err != nil {
		return p, err
	}
	pol, err := r.Int32()
	if err != nil {
		return p, err
	}
	p.Polarity = Polarity(pol)
	if p.Odds, err = r.Decimal(); err != nil {
		return p, err
	}
	if p.DeltaStake, err = decodeMoney(r); err != nil {
		return p, err
	}
	if p.ExpirePriceAt, err = r.DateTime(); err != nil {
		return p, err
	}
	if p.ExpectedSelectionResetCount, err = r.Int32(); err != nil {
		return p, err
	}
	if p.ExpectedWithdrawalSequenceNumber, err = r.Int32(); err != nil {
		return p, err
	}
	if p.PunterReferenceNumber, err = r.Int64(); err != nil {
		return p, err
	}
	return p, nil
}

// LightWeightPriceToCancel identifies one price in a cancel request.
type LightWeightPriceToCancel struct {
	SelectionID           int64
	Polarity              Polarity
	Odds                  string
	PunterReferenceNumber int64
}

func encodeLightWeightPriceToCancel(w *wire.Writer, p LightWeightPriceToCancel) {
	w.Int64(p.SelectionID)
	w.Int32(int32(p.Polarity))
	w.Decimal(p.Odds)
	w.Int64(p.PunterReferenceNumber)
}

func decodeLightWeightPriceToCancel(r *wire.Reader) (LightWeightPriceToCancel, error) {
	var p LightWeightPriceToCancel
	var err error
	if p.SelectionID, err = r.Int64(); err != nil {
		return p, err
	}
	pol, err := r.Int32()
	if err != nil {
		return p, err
	}
	p.Polarity = Polarity(pol)
	if p.Odds, err = r.Decimal(); err != nil {
		return p, err
	}
	if p.PunterReferenceNumber, err = r.Int64(); err != nil {
		return p, err
	}
	return p, nil
}

// lwpNotificationBase holds the fields shared by a price summary item and
// a change-notification item.
type lwpNotificationBase struct {
	MarketID                          int64
	SelectionID                       int64
	Polarity                          Polarity
	Odds                              string
	PunterReferenceNumber             int64
	ExpireAt                          *time.Time
	ExpectedSelectionResetCount       int32
	ExpectedWithdrawalSequenceNumber  int32
}

func (b lwpNotificationBase) encode(w *wire.Writer) {
	w.Int64(b.MarketID)
	w.Int64(b.SelectionID)
	w.Int32(int32(b.Polarity))
	w.Decimal(b.Odds)
	w.Int64(b.PunterReferenceNumber)
	w.DateTime(b.ExpireAt)
	w.Int32(b.ExpectedSelectionResetCount)
	w.Int32(b.ExpectedWithdrawalSequenceNumber)
}

func decodeLWPNotificationBase(r *wire.Reader) (lwpNotificationBase, error) {
	var b lwpNotificationBase
	var err error
	if b.MarketID, err = r.Int64(); err != nil {
		return b, err
	}
	if b.SelectionID, err = r.Int64(); err != nil {
		return b, err
	}
	pol, err := r.Int32()
	if err != nil {
		return b, err
	}
	b.Polarity = Polarity(pol)
	if b.Odds, err = r.Decimal(); err != nil {
		return b, err
	}
	if b.PunterReferenceNumber, err = r.Int64(); err != nil {
		return b, err
	}
	if b.ExpireAt, err = r.DateTime(); err != nil {
		return b, err
	}
	if b.ExpectedSelectionResetCount, err = r.Int32(); err != nil {
		return b, err
	}
	if b.ExpectedWithdrawalSequenceNumber, err = r.Int32(); err != nil {
		return b, err
	}
	return b, nil
}

// LightWeightPriceNotification is one item of a LightweightPriceSummary
// response: a price still standing at query time.
type LightWeightPriceNotification struct {
	lwpNotificationBase
	RemainingStake Money
}

func encodeLightWeightPriceNotification(w *wire.Writer, n LightWeightPriceNotification) {
	n.lwpNotificationBase.encode(w)
	encodeMoney(w, n.RemainingStake)
}

func decodeLightWeightPriceNotification(r *wire.Reader) (LightWeightPriceNotification, error) {
	base, err := decodeLWPNotificationBase(r)
	if err != nil {
		return LightWeightPriceNotification{}, err
	}
	stake, err := decodeMoney(r)
	if err != nil {
		return LightWeightPriceNotification{}, err
	}
	return LightWeightPriceNotification{lwpNotificationBase: base, RemainingStake: stake}, nil
}

// LightWeightPriceChangeNotification is one item of an LWPChangeNotification
// push: a price that changed state, with the reason and any match detail.
type LightWeightPriceChangeNotification struct {
	lwpNotificationBase
	ActionType               ActionType
	RemainingStake           Money
	MatchedStake             *Money
	OrderID                  *int64
	MatchedAgainstSideStake  *Money
}

func encodeLightWeightPriceChangeNotification(w *wire.Writer, n LightWeightPriceChangeNotification) {
	n.lwpNotificationBase.encode(w)
	w.Int32(int32(n.ActionType))
	encodeMoney(w, n.RemainingStake)
	encodeOptionalMoney(w, n.MatchedStake)
	encodeOptionalInt64(w, n.OrderID)
	encodeOptionalMoney(w, n.MatchedAgainstSideStake)
}

func decodeLightWeightPriceChangeNotification(r *wire.Reader) (LightWeightPriceChangeNotification, error) {
	base, err := decodeLWPNotificationBase(r)
	if err != nil {
		return LightWeightPriceChangeNotification{}, err
	}
	actionRaw, err := r.Int32()
	if err != nil {
		return LightWeightPriceChangeNotification{}, err
	}
	stake, err := decodeMoney(r)
	if err != nil {
		return LightWeightPriceChangeNotification{}, err
	}
	matchedStake, err := decodeOptionalMoney(r)
	if err != nil {
		return LightWeightPriceChangeNotification{}, err
	}
	orderID, err := decodeOptionalInt64(r)
	if err != nil {
		return LightWeightPriceChangeNotification{}, err
	}
	matchedAgainst, err := decodeOptionalMoney(r)
	if err != nil {
		return LightWeightPriceChangeNotification{}, err
	}
	return LightWeightPriceChangeNotification{
		lwpNotificationBase:    base,
		ActionType:             ActionType(actionRaw),
		RemainingStake:         stake,
		MatchedStake:           matchedStake,
		OrderID:                orderID,
		MatchedAgainstSideStake: matchedAgainst,
	}, nil
}

// Body is any of the thirteen message payloads an envelope can carry.
type Body interface {
	Type() MessageType
	encode(w *wire.Writer)
}

// --- requests ---

type AddLightweightPrices struct {
	baseBody
	Prices []LightWeightPriceToAdd
}

func (b *AddLightweightPrices) Type() MessageType { return TypeAddLightweightPrices }
func (b *AddLightweightPrices) encode(w *wire.Writer) {
	b.baseBody.encode(w)
	wire.WriteArray(w, b.Prices, encodeLightWeightPriceToAdd)
}

type CancelAllLightweightPrices struct {
	baseBody
}

func (b *CancelAllLightweightPrices) Type() MessageType { return TypeCancelAllLightweightPrices }
func (b *CancelAllLightweightPrices) encode(w *wire.Writer) {
	b.baseBody.encode(w)
}

type CancelAllLightweightPricesOnMarkets struct {
	baseBody
	MarketIDs []int64
}

func (b *CancelAllLightweightPricesOnMarkets) Type() MessageType {
	return TypeCancelAllLightweightPricesOnMarkets
}
func (b *CancelAllLightweightPricesOnMarkets) encode(w *wire.Writer) {
	b.baseBody.encode(w)
	wire.WriteArray(w, b.MarketIDs, func(w *wire.Writer, v int64) { w.Int64(v) })
}

type CancelAllLightweightPricesOnSelections struct {
	baseBody
	SelectionIDs []int64
}

func (b *CancelAllLightweightPricesOnSelections) Type() MessageType {
	return TypeCancelAllLightweightPricesOnSelections
}
func (b *CancelAllLightweightPricesOnSelections) encode(w *wire.Writer) {
	b.baseBody.encode(w)
	wire.WriteArray(w, b.SelectionIDs, func(w *wire.Writer, v int64) { w.Int64(v) })
}

type CancelLightweightPrices struct {
	baseBody
	Prices []LightWeightPriceToCancel
}

func (b *CancelLightweightPrices) Type() MessageType { return TypeCancelLightweightPrices }
func (b *CancelLightweightPrices) encode(w *wire.Writer) {
	b.baseBody.encode(w)
	wire.WriteArray(w, b.Prices, encodeLightWeightPriceToCancel)
}

type Ping struct {
	baseBody
	PunterQueryReferenceNumber int64
}

func (b *Ping) Type() MessageType { return TypePing }
func (b *Ping) encode(w *wire.Writer) {
	b.baseBody.encode(w)
	w.Int64(b.PunterQueryReferenceNumber)
}

type QueryAllLightweightPrices struct {
	baseBody
	PunterQueryReferenceNumber int64
}

func (b *QueryAllLightweightPrices) Type() MessageType { return TypeQueryAllLightweightPrices }
func (b *QueryAllLightweightPrices) encode(w *wire.Writer) {
	b.baseBody.encode(w)
	w.Int64(b.PunterQueryReferenceNumber)
}

type QueryAllLightweightPricesOnMarkets struct {
	baseBody
	PunterQueryReferenceNumber int64
	MarketIDs                  []int64
}

func (b *QueryAllLightweightPricesOnMarkets) Type() MessageType {
	return TypeQueryAllLightweightPricesOnMarkets
}
func (b *QueryAllLightweightPricesOnMarkets) encode(w *wire.Writer) {
	b.baseBody.encode(w)
	w.Int64(b.PunterQueryReferenceNumber)
	wire.WriteArray(w, b.MarketIDs, func(w *wire.Writer, v int64) { w.Int64(v) })
}

type QueryAllLightweightPricesOnSelections struct {
	baseBody
	PunterQueryReferenceNumber int64
	SelectionIDs                []int64
}

func (b *QueryAllLightweightPricesOnSelections) Type() MessageType {
	return TypeQueryAllLightweightPricesOnSelections
}
func (b *QueryAllLightweightPricesOnSelections) encode(w *wire.Writer) {
	b.baseBody.encode(w)
	w.Int64(b.PunterQueryReferenceNumber)
	wire.WriteArray(w, b.SelectionIDs, func(w *wire.Writer, v int64) { w.Int64(v) })
}

// --- responses ---

type LightweightPriceSummary struct {
	baseBody
	PunterQueryReferenceNumber int64
	TotalSummaryNotifications  int32
	Prices                     []LightWeightPriceNotification
}

func (b *LightweightPriceSummary) Type() MessageType { return TypeLightweightPriceSummary }
func (b *LightweightPriceSummary) encode(w *wire.Writer) {
	b.baseBody.encode(w)
	w.Int64(b.PunterQueryReferenceNumber)
	w.Int32(b.TotalSummaryNotifications)
	wire.WriteArray(w, b.Prices, encodeLightWeightPriceNotification)
}

type LWPChangeNotification struct {
	baseBody
	Prices []LightWeightPriceChangeNotification
}

func (b *LWPChangeNotification) Type() MessageType { return TypeLWPChangeNotification }
func (b *LWPChangeNotification) encode(w *wire.Writer) {
	b.baseBody.encode(w)
	wire.WriteArray(w, b.Prices, encodeLightWeightPriceChangeNotification)
}

type PingResponse struct {
	baseBody
	PunterQueryReferenceNumber int64
	TotalSummaryNotifications  int32
}

func (b *PingResponse) Type() MessageType { return TypePingResponse }
func (b *PingResponse) encode(w *wire.Writer) {
	b.baseBody.encode(w)
	w.Int64(b.PunterQueryReferenceNumber)
	w.Int32(b.TotalSummaryNotifications)
}

type ResetOccurred struct {
	baseBody
}

func (b *ResetOccurred) Type() MessageType { return TypeResetOccurred }
func (b *ResetOccurred) encode(w *wire.Writer) {
	b.baseBody.encode(w)
}

// bodyDecoders dispatches a message header's type string to the decoder
// for its body.
var bodyDecoders = map[MessageType]func(*wire.Reader) (Body, error){
	TypeAddLightweightPrices: func(r *wire.Reader) (Body, error) {
		base, err := decodeBaseBody(r)
		if err != nil {
			return nil, err
		}
		prices, err := wire.ReadArray(r, decodeLightWeightPriceToAdd)
		if err != nil {
			return nil, err
		}
		return &AddLightweightPrices{baseBody: base, Prices: prices}, nil
	},
	TypeCancelAllLightweightPrices: func(r *wire.Reader) (Body, error) {
		base, err := decodeBaseBody(r)
		if err != nil {
			return nil, err
		}
		return &CancelAllLightweightPrices{baseBody: base}, nil
	},
	TypeCancelAllLightweightPricesOnMarkets: func(r *wire.Reader) (Body, error) {
		base, err := decodeBaseBody(r)
		if err != nil {
			return nil, err
		}
		ids, err := wire.ReadArray(r, func(r *wire.Reader) (int64, error) { return r.Int64() })
		if err != nil {
			return nil, err
		}
		return &CancelAllLightweightPricesOnMarkets{baseBody: base, MarketIDs: ids}, nil
	},
	TypeCancelAllLightweightPricesOnSelections: func(r *wire.Reader) (Body, error) {
		base, err := decodeBaseBody(r)
		if err != nil {
			return nil, err
		}
		ids, err := wire.ReadArray(r, func(r *wire.Reader) (int64, error) { return r.Int64() })
		if err != nil {
			return nil, err
		}
		return &CancelAllLightweightPricesOnSelections{baseBody: base, SelectionIDs: ids}, nil
	},
	TypeCancelLightweightPrices: func(r *wire.Reader) (Body, error) {
		base, err := decodeBaseBody(r)
		if err != nil {
			return nil, err
		}
		prices, err := wire.ReadArray(r, decodeLightWeightPriceToCancel)
		if err != nil {
			return nil, err
		}
		return &CancelLightweightPrices{baseBody: base, Prices: prices}, nil
	},
	TypePing: func(r *wire.Reader) (Body, error) {
		base, err := decodeBaseBody(r)
		if err != nil {
			return nil, err
		}
		ref, err := r.Int64()
		if err != nil {
			return nil, err
		}
		return &Ping{baseBody: base, PunterQueryReferenceNumber: ref}, nil
	},
	TypeQueryAllLightweightPrices: func(r *wire.Reader) (Body, error) {
		base, err := decodeBaseBody(r)
		if err != nil {
			return nil, err
		}
		ref, err := r.Int64()
		if err != nil {
			return nil, err
		}
		return &QueryAllLightweightPrices{baseBody: base, PunterQueryReferenceNumber: ref}, nil
	},
	TypeQueryAllLightweightPricesOnMarkets: func(r *wire.Reader) (Body, error) {
		base, err := decodeBaseBody(r)
		if err != nil {
			return nil, err
		}
		ref, err := r.Int64()
		if err != nil {
			return nil, err
		}
		ids, err := wire.ReadArray(r, func(r *wire.Reader) (int64, error) { return r.Int64() })
		if err != nil {
			return nil, err
		}
		return &QueryAllLightweightPricesOnMarkets{baseBody: base, PunterQueryReferenceNumber: ref, MarketIDs: ids}, nil
	},
	TypeQueryAllLightweightPricesOnSelections: func(r *wire.Reader) (Body, error) {
		base, err := decodeBaseBody(r)
		if err != nil {
			return nil, err
		}
		ref, err := r.Int64()
		if err != nil {
			return nil, err
		}
		ids, err := wire.ReadArray(r, func(r *wire.Reader) (int64, error) { return r.Int64() })
		if err != nil {
			return nil, err
		}
		return &QueryAllLightweightPricesOnSelections{baseBody: base, PunterQueryReferenceNumber: ref, SelectionIDs: ids}, nil
	},
	TypeLightweightPriceSummary: func(r *wire.Reader) (Body, error) {
		base, err := decodeBaseBody(r)
		if err != nil {
			return nil, err
		}
		ref, err := r.Int64()
		if err != nil {
			return nil, err
		}
		total, err := r.Int32()
		if err != nil {
			return nil, err
		}
		prices, err := wire.ReadArray(r, decodeLightWeightPriceNotification)
		if err != nil {
			return nil, err
		}
		return &LightweightPriceSummary{baseBody: base, PunterQueryReferenceNumber: ref, TotalSummaryNotifications: total, Prices: prices}, nil
	},
	TypeLWPChangeNotification: func(r *wire.Reader) (Body, error) {
		base, err := decodeBaseBody(r)
		if err != nil {
			return nil, err
		}
		prices, err := wire.ReadArray(r, decodeLightWeightPriceChangeNotification)
		if err != nil {
			return nil, err
		}
		return &LWPChangeNotification{baseBody: base, Prices: prices}, nil
	},
	TypePingResponse: func(r *wire.Reader) (Body, error) {
		base, err := decodeBaseBody(r)
		if err != nil {
			return nil, err
		}
		ref, err := r.Int64()
		if err != nil {
			return nil, err
		}
		total, err := r.Int32()
		if err != nil {
			return nil, err
		}
		return &PingResponse{baseBody: base, PunterQueryReferenceNumber: ref, TotalSummaryNotifications: total}, nil
	},
	TypeResetOccurred: func(r *wire.Reader) (Body, error) {
		base, err := decodeBaseBody(r)
		if err != nil {
			return nil, err
		}
		return &ResetOccurred{baseBody: base}, nil
	},
}

// Envelope is the full frame: protocol/envelope/message headers plus a
// single typed body.
type Envelope struct {
	ProtocolHeader ProtocolHeader
	EnvelopeHeader EnvelopeHeader
	MessageHeader  MessageHeader
	Message        Body
}

// Encode serializes the envelope to its wire form.
func (e *Envelope) Encode() ([]byte, error) {
	w := wire.NewWriter()
	e.ProtocolHeader.encode(w)
	e.EnvelopeHeader.encode(w)
	e.MessageHeader.encode(w)
	w.LengthPrefixed(func(w *wire.Writer) {
		e.Message.encode(w)
	})
	if err := w.Err(); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// Decode parses one envelope from the front of bts and returns it along
// with whatever bytes follow it, so a caller holding a buffer with
// several frames back to back can keep calling Decode on the
// remainder. It returns a nil envelope, nil remainder and nil error on
// empty input.
func Decode(bts []byte) (*Envelope, []byte, error) {
	if len(bts) == 0 {
		return nil, nil, nil
	}
	r := wire.NewReader(bts)
	ph, err := decodeProtocolHeader(r)
	if err != nil {
		return nil, nil, err
	}
	eh, err := decodeEnvelopeHeader(r)
	if err != nil {
		return nil, nil, err
	}
	mh, err := decodeMessageHeader(r)
	if err != nil {
		return nil, nil, err
	}
	bodyReader, err := r.LengthPrefixed()
	if err != nil {
		return nil, nil, err
	}
	decodeBody, ok := bodyDecoders[mh.Type]
	if !ok {
		return nil, nil, fmt.Errorf("lwps/envelope: unknown message type %q", mh.Type)
	}
	message, err := decodeBody(bodyReader)
	if err != nil {
		return nil, nil, err
	}
	env := &Envelope{
		ProtocolHeader: ph,
		EnvelopeHeader: eh,
		MessageHeader:  mh,
		Message:        message,
	}
	return env, r.Remaining(), nil
}
