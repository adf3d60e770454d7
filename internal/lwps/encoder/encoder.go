// Package encoder builds outbound order-stream envelopes: it stamps
// every request with the punter's identity, a source tag and an
// expiry, then hands the assembled envelope to the wire codec.
package encoder

import (
	"strconv"
	"time"

	"github.com/vayesy/betdaq/internal/lwps/envelope"
)

// KeepAlive is the bare byte the connection sends on its heartbeat
// tick; unlike Ping, the server never answers it.
var KeepAlive = []byte{0x00}

// RequestEncoder stamps and encodes outbound order-stream requests for
// one punter session.
type RequestEncoder struct {
	Version           int32
	PunterID          int64
	PunterSessionKey  int64
	Source            string
	Format            string
	Transport         string
	Interface         string
	Priority          int32
	ExpireTimeout     time.Duration
}

// New returns a RequestEncoder for the given punter identity, with the
// same defaults the order-stream server expects of every client.
func New(punterID, punterSessionKey int64) *RequestEncoder {
	return &RequestEncoder{
		Version:          1,
		PunterID:         punterID,
		PunterSessionKey: punterSessionKey,
		Source:           strconv.FormatInt(punterID, 10),
		Format:           "binary",
		Transport:        "lwps_tcp1",
		Interface:        "lightweightpriceserverexternal",
		Priority:         3,
		ExpireTimeout:    time.Hour,
	}
}

func (e *RequestEncoder) messageHeader(t envelope.MessageType) envelope.MessageHeader {
	return envelope.MessageHeader{
		Version:     e.Version,
		Type:        t,
		TypeVersion: e.Version,
		Format:      e.Format,
		Source:      e.Source,
		Transport:   e.Transport,
		Priority:    e.Priority,
		Interface:   e.Interface,
	}
}

func (e *RequestEncoder) expireAtOrDefault(expireAt *time.Time) *time.Time {
	if expireAt != nil {
		return expireAt
	}
	t := time.Now().UTC().Add(e.ExpireTimeout)
	return &t
}

func (e *RequestEncoder) envelope(t envelope.MessageType, message envelope.Body) *envelope.Envelope {
	return &envelope.Envelope{
		ProtocolHeader: envelope.ProtocolHeader{Version: byte(e.Version)},
		EnvelopeHeader: envelope.EnvelopeHeader{Version: byte(e.Version), ItemCount: 2},
		MessageHeader:  e.messageHeader(t),
		Message:        message,
	}
}

// AddLightweightPrice requests a single lightweight price be added, or
// its stake adjusted if the (selection, polarity, odds, reference)
// combination already exists. A negative delta stake reduces it.
func (e *RequestEncoder) AddLightweightPrice(p envelope.LightWeightPriceToAdd, expireAt *time.Time) ([]byte, error) {
	return e.AddLightweightPrices([]envelope.LightWeightPriceToAdd{p}, expireAt)
}

// AddLightweightPrices requests multiple lightweight prices be added in
// a single envelope.
func (e *RequestEncoder) AddLightweightPrices(prices []envelope.LightWeightPriceToAdd, expireAt *time.Time) ([]byte, error) {
	body := &envelope.AddLightweightPrices{Prices: prices}
	body.CommandVersion, body.CommandTime, body.ExpireAt, body.VirtualPunterID, body.VirtualPunterSessionKey =
		e.stampFields(expireAt)
	return e.envelope(envelope.TypeAddLightweightPrices, body).Encode()
}

func (e *RequestEncoder) stampFields(expireAt *time.Time) (int32, *time.Time, *time.Time, int64, int64) {
	now := time.Now().UTC()
	return e.Version, &now, e.expireAtOrDefault(expireAt), e.PunterID, e.PunterSessionKey
}

// CancelAllLightweightPrices cancels every active lightweight price for
// the punter.
func (e *RequestEncoder) CancelAllLightweightPrices(expireAt *time.Time) ([]byte, error) {
	body := &envelope.CancelAllLightweightPrices{}
	body.CommandVersion, body.CommandTime, body.ExpireAt, body.VirtualPunterID, body.VirtualPunterSessionKey =
		e.stampFields(expireAt)
	return e.envelope(envelope.TypeCancelAllLightweightPrices, body).Encode()
}

// CancelAllLightweightPricesOnMarkets cancels every active lightweight
// price on the given markets.
func (e *RequestEncoder) CancelAllLightweightPricesOnMarkets(marketIDs []int64, expireAt *time.Time) ([]byte, error) {
	body := &envelope.CancelAllLightweightPricesOnMarkets{MarketIDs: marketIDs}
	body.CommandVersion, body.CommandTime, body.ExpireAt, body.VirtualPunterID, body.VirtualPunterSessionKey =
		e.stampFields(expireAt)
	return e.envelope(envelope.TypeCancelAllLightweightPricesOnMarkets, body).Encode()
}

// CancelAllLightweightPricesOnSelections cancels every active
// lightweight price on the given selections.
func (e *RequestEncoder) CancelAllLightweightPricesOnSelections(selectionIDs []int64, expireAt *time.Time) ([]byte, error) {
	body := &envelope.CancelAllLightweightPricesOnSelections{SelectionIDs: selectionIDs}
	body.CommandVersion, body.CommandTime, body.ExpireAt, body.VirtualPunterID, body.VirtualPunterSessionKey =
		e.stampFields(expireAt)
	return e.envelope(envelope.TypeCancelAllLightweightPricesOnSelections, body).Encode()
}

// CancelLightweightPrice cancels a single lightweight price.
func (e *RequestEncoder) CancelLightweightPrice(p envelope.LightWeightPriceToCancel, expireAt *time.Time) ([]byte, error) {
	return e.CancelLightweightPrices([]envelope.LightWeightPriceToCancel{p}, expireAt)
}

// CancelLightweightPrices cancels multiple lightweight prices in a
// single envelope.
func (e *RequestEncoder) CancelLightweightPrices(prices []envelope.LightWeightPriceToCancel, expireAt *time.Time) ([]byte, error) {
	body := &envelope.CancelLightweightPrices{Prices: prices}
	body.CommandVersion, body.CommandTime, body.ExpireAt, body.VirtualPunterID, body.VirtualPunterSessionKey =
		e.stampFields(expireAt)
	return e.envelope(envelope.TypeCancelLightweightPrices, body).Encode()
}

// QueryAllLightweightPrices requests a full resync of active lightweight
// prices, typically sent once after a reconnect.
func (e *RequestEncoder) QueryAllLightweightPrices(punterQueryReferenceNumber int64, expireAt *time.Time) ([]byte, error) {
	body := &envelope.QueryAllLightweightPrices{PunterQueryReferenceNumber: punterQueryReferenceNumber}
	body.CommandVersion, body.CommandTime, body.ExpireAt, body.VirtualPunterID, body.VirtualPunterSessionKey =
		e.stampFields(expireAt)
	return e.envelope(envelope.TypeQueryAllLightweightPrices, body).Encode()
}

// QueryAllLightweightPricesOnMarkets requests active lightweight prices
// restricted to the given markets.
func (e *RequestEncoder) QueryAllLightweightPricesOnMarkets(marketIDs []int64, punterQueryReferenceNumber int64, expireAt *time.Time) ([]byte, error) {
	body := &envelope.QueryAllLightweightPricesOnMarkets{MarketIDs: marketIDs, PunterQueryReferenceNumber: punterQueryReferenceNumber}
	body.CommandVersion, body.CommandTime, body.ExpireAt, body.VirtualPunterID, body.VirtualPunterSessionKey =
		e.stampFields(expireAt)
	return e.envelope(envelope.TypeQueryAllLightweightPricesOnMarkets, body).Encode()
}

// QueryAllLightweightPricesOnSelections requests active lightweight
// prices restricted to the given selections.
func (e *RequestEncoder) QueryAllLightweightPricesOnSelections(selectionIDs []int64, punterQueryReferenceNumber int64, expireAt *time.Time) ([]byte, error) {
	body := &envelope.QueryAllLightweightPricesOnSelections{SelectionIDs: selectionIDs, PunterQueryReferenceNumber: punterQueryReferenceNumber}
	body.CommandVersion, body.CommandTime, body.ExpireAt, body.VirtualPunterID, body.VirtualPunterSessionKey =
		e.stampFields(expireAt)
	return e.envelope(envelope.TypeQueryAllLightweightPricesOnSelections, body).Encode()
}

// Ping sends a heartbeat the server answers with PingResponse, unlike
// KeepAlive which draws no reply.
func (e *RequestEncoder) Ping(punterQueryReferenceNumber int64, expireAt *time.Time) ([]byte, error) {
	body := &envelope.Ping{PunterQueryReferenceNumber: punterQueryReferenceNumber}
	body.CommandVersion, body.CommandTime, body.ExpireAt, body.VirtualPunterID, body.VirtualPunterSessionKey =
		e.stampFields(expireAt)
	return e.envelope(envelope.TypePing, body).Encode()
}

// GetEnvelope builds an envelope for a caller-supplied body without
// encoding it, for callers that need to inspect or mutate it first.
func (e *RequestEncoder) GetEnvelope(t envelope.MessageType, body envelope.Body) *envelope.Envelope {
	return e.envelope(t, body)
}

// EncodeRequest builds and encodes an envelope for a caller-supplied body.
func (e *RequestEncoder) EncodeRequest(t envelope.MessageType, body envelope.Body) ([]byte, error) {
	return e.envelope(t, body).Encode()
}

// ParseResponse decodes one envelope from the front of a received
// buffer and returns it along with whatever bytes follow it.
func (e *RequestEncoder) ParseResponse(buf []byte) (*envelope.Envelope, []byte, error) {
	return envelope.Decode(buf)
}
