// Package topics implements the market-data topic tree: a hierarchy of
// named and parameterized path segments that a topic_name resolves
// against to identify which data message a frame carries and to recover
// the identifiers embedded in its path (event/market/selection ids,
// language codes, tagged-value names).
package topics

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/vayesy/betdaq/internal/common"
	"github.com/vayesy/betdaq/internal/mds/fields"
	"github.com/vayesy/betdaq/internal/mds/wire"
)

// UnknownKind is the Resolved.Kind value for a topic path that ran off
// the end of the tree before its segments were exhausted.
const UnknownKind = "unknown"

// Decoder turns a frame's body (plus the identifiers captured while
// walking the path) into a typed topic message.
type Decoder func(kwargs map[string]any, head wire.Head, body wire.Tree) (any, error)

type paramFunc func(segment string, kwargs map[string]any)

// node is one entry in the topic tree. A node reached by a literal path
// segment sets literal; a node reached through a typed path segment
// (an id, a language code, a composite key) sets param instead. decode
// is non-nil only for nodes that carry their own field schema.
type node struct {
	name     string
	literal  string
	param    paramFunc
	children []*node
	decode   Decoder
}

// match mirrors topic_name_to_cls: a node with exactly one child always
// hands the segment to that child, whether or not it looks like a
// literal match; otherwise the segment must match a child's literal tag.
func (n *node) match(segment string) *node {
	if len(n.children) == 1 {
		return n.children[0]
	}
	for _, c := range n.children {
		if c.literal == segment {
			return c
		}
	}
	return nil
}

// Resolved is the result of walking a topic path.
type Resolved struct {
	Kind   string
	Kwargs map[string]any
	decode Decoder
}

// Decode parses the frame body using the schema of the resolved topic.
func (r Resolved) Decode(head wire.Head, body wire.Tree) (any, error) {
	if r.decode == nil {
		return nil, fmt.Errorf("topics: %s carries no field schema", r.Kind)
	}
	return r.decode(r.Kwargs, head, body)
}

// ResolveDataMessage walks the slash-separated tail of topic_name (its
// first three segments, the AAPI/<stream>/E boilerplate, are dropped)
// against the topic tree. Every typed segment passed through on the way
// is decoded into Kwargs. A segment that matches nothing yields
// Kind == UnknownKind with whatever partial Kwargs had accumulated.
func ResolveDataMessage(topicName string) Resolved {
	parts := strings.Split(topicName, "/")
	if len(parts) <= 3 {
		return Resolved{Kind: UnknownKind}
	}
	current := eventsNode
	kwargs := make(map[string]any)
	for _, part := range parts[3:] {
		next := current.match(part)
		if next == nil {
			return Resolved{Kind: UnknownKind, Kwargs: kwargs}
		}
		if next.param != nil {
			next.param(part, kwargs)
		}
		current = next
	}
	return Resolved{Kind: current.name, Kwargs: kwargs, decode: current.decode}
}

// --- path-segment decoders -------------------------------------------------

func idParam(fieldName string) paramFunc {
	return func(segment string, kwargs map[string]any) {
		n, err := strconv.Atoi(fields.StripLeadingE(segment))
		if err != nil {
			return
		}
		kwargs[fieldName] = n
	}
}

func strParam(fieldName string) paramFunc {
	return func(segment string, kwargs map[string]any) {
		kwargs[fieldName] = segment
	}
}

// classifierKeyOrder is the order in which successive Event1 path
// segments populate the nested event_classifier_id map.
var classifierKeyOrder = []string{"parent", "sport_id", "sport_group_id", "location_id", "event_id"}

func classifierParam(segment string, kwargs map[string]any) {
	ids, _ := kwargs["event_classifier_id"].(map[string]int)
	if ids == nil {
		ids = make(map[string]int)
		kwargs["event_classifier_id"] = ids
	}
	if len(ids) >= len(classifierKeyOrder) {
		return
	}
	n, err := strconv.Atoi(fields.StripLeadingE(segment))
	if err != nil {
		return
	}
	ids[classifierKeyOrder[len(ids)]] = n
}

// backLayTitleParam decodes the underscore-joined composite key of a
// BackLayVolumeCurrencyFormat topic into its five named components,
// merging them flat into kwargs (the title itself carries no single id).
func backLayTitleParam(segment string, kwargs map[string]any) {
	parts := fields.DecodeStrJoinedNested(segment)
	if v, ok := parts[0]; ok {
		if n, err := strconv.Atoi(v); err == nil {
			kwargs["desired_back_prices"] = n
		}
	}
	if v, ok := parts[1]; ok {
		if n, err := strconv.Atoi(v); err == nil {
			kwargs["desired_lay_prices"] = n
		}
	}
	if v, ok := parts[2]; ok {
		if n, err := strconv.Atoi(v); err == nil {
			kwargs["desired_market_by_volume"] = n
		}
	}
	if v, ok := parts[3]; ok {
		kwargs["currency_code"] = common.Currency(v)
	}
	if v, ok := parts[4]; ok {
		if n, err := strconv.Atoi(v); err == nil {
			kwargs["price_format"] = common.PriceFormat(n)
		}
	}
}

// --- body-field decode helpers ---------------------------------------------

func decodeInt(body wire.Tree, order int) (int, error) {
	s, ok := fields.TreeString(body, order)
	if !ok {
		return 0, fmt.Errorf("topics: missing field %d", order)
	}
	return fields.DecodeInt(s)
}

func decodeIntPtr(body wire.Tree, order int) *int {
	s, ok := fields.TreeString(body, order)
	if !ok {
		return nil
	}
	v, err := fields.DecodeInt(s)
	if err != nil {
		return nil
	}
	return &v
}

func decodeFloat(body wire.Tree, order int) (float64, error) {
	s, ok := fields.TreeString(body, order)
	if !ok {
		return 0, fmt.Errorf("topics: missing field %d", order)
	}
	return fields.DecodeFloat(s)
}

func decodeFloatPtr(body wire.Tree, order int) *float64 {
	s, ok := fields.TreeString(body, order)
	if !ok {
		return nil
	}
	v, err := fields.DecodeFloat(s)
	if err != nil {
		return nil
	}
	return &v
}

func decodeBool(body wire.Tree, order int) (bool, error) {
	s, ok := fields.TreeString(body, order)
	if !ok {
		return false, fmt.Errorf("topics: missing field %d", order)
	}
	return fields.DecodeBool(s)
}

func decodeBoolPtr(body wire.Tree, order int) *bool {
	s, ok := fields.TreeString(body, order)
	if !ok {
		return nil
	}
	v, err := fields.DecodeBool(s)
	if err != nil {
		return nil
	}
	return &v
}

func decodeStr(body wire.Tree, order int) (string, error) {
	s, ok := fields.TreeString(body, order)
	if !ok {
		return "", fmt.Errorf("topics: missing field %d", order)
	}
	return s, nil
}

func decodeStrPtr(body wire.Tree, order int) *string {
	s, ok := fields.TreeString(body, order)
	if !ok {
		return nil
	}
	return &s
}

func decodeTimePtr(body wire.Tree, order int) *time.Time {
	s, ok := fields.TreeString(body, order)
	if !ok {
		return nil
	}
	t, err := fields.DecodeDateTime(s)
	if err != nil {
		return nil
	}
	return &t
}

func decodeEnum[T ~int](body wire.Tree, order int) (T, error) {
	s, ok := fields.TreeString(body, order)
	if !ok {
		return 0, fmt.Errorf("topics: missing field %d", order)
	}
	return fields.DecodeEnum[T](s)
}

func kwargInt(kwargs map[string]any, name string) int {
	v, _ := kwargs[name].(int)
	return v
}

func kwargStr(kwargs map[string]any, name string) string {
	v, _ := kwargs[name].(string)
	return v
}

// --- leaf message types -----------------------------------------------------

// Currency3 carries the matched-amount totals for one currency of a market.
type Currency3 struct {
	Currency          common.Currency
	ForSideAmount     float64
	AgainstSideAmount float64
}

func decodeCurrency3(kwargs map[string]any, _ wire.Head, body wire.Tree) (any, error) {
	forAmt, err := decodeFloat(body, 1)
	if err != nil {
		return nil, err
	}
	against, err := decodeFloat(body, 2)
	if err != nil {
		return nil, err
	}
	return &Currency3{
		Currency:          common.Currency(kwargStr(kwargs, "currency")),
		ForSideAmount:     forAmt,
		AgainstSideAmount: against,
	}, nil
}

// Language2 carries a market's exchange-level name and race-grade blurb
// in one language.
type Language2 struct {
	Language  common.Lang
	Name      string
	RaceGrade *string
}

func decodeLanguage2(kwargs map[string]any, _ wire.Head, body wire.Tree) (any, error) {
	name, err := decodeStr(body, 1)
	if err != nil {
		return nil, err
	}
	return &Language2{Language: common.Lang(kwargStr(kwargs, "exchange_info_language")), Name: name, RaceGrade: decodeStrPtr(body, 2)}, nil
}

// Language3 carries an event's exchange-level name, description and
// market blurb in one language.
type Language3 struct {
	Language    common.Lang
	Name        string
	Description *string
	MarketBlurb *string
}

func decodeLanguage3(kwargs map[string]any, _ wire.Head, body wire.Tree) (any, error) {
	name, err := decodeStr(body, 1)
	if err != nil {
		return nil, err
	}
	return &Language3{
		Language:    common.Lang(kwargStr(kwargs, "market_exchange_info_language")),
		Name:        name,
		Description: decodeStrPtr(body, 2),
		MarketBlurb: decodeStrPtr(body, 3),
	}, nil
}

// Language4 carries an event's name in one language.
type Language4 struct {
	Language common.Lang
	Name     string
}

func decodeLanguage4(kwargs map[string]any, _ wire.Head, body wire.Tree) (any, error) {
	name, err := decodeStr(body, 1)
	if err != nil {
		return nil, err
	}
	return &Language4{Language: common.Lang(kwargStr(kwargs, "event_language")), Name: name}, nil
}

// Language5 carries a selection's name in one language.
type Language5 struct {
	Language common.Lang
	Name     string
}

func decodeLanguage5(kwargs map[string]any, _ wire.Head, body wire.Tree) (any, error) {
	name, err := decodeStr(body, 1)
	if err != nil {
		return nil, err
	}
	return &Language5{Language: common.Lang(kwargStr(kwargs, "selection_language")), Name: name}, nil
}

// Language6 carries a selection's exchange-level name and blurb in one language.
type Language6 struct {
	Language        common.Lang
	Name            string
	SelectionBlurb  string
}

func decodeLanguage6(kwargs map[string]any, _ wire.Head, body wire.Tree) (any, error) {
	name, err := decodeStr(body, 1)
	if err != nil {
		return nil, err
	}
	blurb, err := decodeStr(body, 2)
	if err != nil {
		return nil, err
	}
	return &Language6{Language: common.Lang(kwargStr(kwargs, "selection_exchange_info_language")), Name: name, SelectionBlurb: blurb}, nil
}

// Language7 carries a market's name in one language.
type Language7 struct {
	Language common.Lang
	Name     string
}

func decodeLanguage7(kwargs map[string]any, _ wire.Head, body wire.Tree) (any, error) {
	name, err := decodeStr(body, 1)
	if err != nil {
		return nil, err
	}
	return &Language7{Language: common.Lang(kwargStr(kwargs, "market_language")), Name: name}, nil
}

// Language14 carries a tab's name in one language.
type Language14 struct {
	Language common.Lang
	Name     string
}

func decodeLanguage14(kwargs map[string]any, _ wire.Head, body wire.Tree) (any, error) {
	name, err := decodeStr(body, 1)
	if err != nil {
		return nil, err
	}
	return &Language14{Language: common.Lang(kwargStr(kwargs, "tab_language")), Name: name}, nil
}

// Score is one timestamped in-play score update.
type Score struct {
	OccurredAt time.Time
	Score      string
}

func decodeScores(body wire.Tree, order int) []Score {
	list, _ := fields.TreeList(body, order)
	out := make([]Score, 0, len(list))
	for _, sub := range list {
		var e Score
		if t := decodeTimePtr(sub, 1); t != nil {
			e.OccurredAt = *t
		}
		if s, ok := fields.TreeString(sub, 2); ok {
			e.Score = s
		}
		out = append(out, e)
	}
	return out
}

// SignificanceTime marks a predicted or actual occurrence of a named
// event milestone (e.g. kick-off, half-time).
type SignificanceTime struct {
	OccurrenceType string
	PredictedTime  *time.Time
	ActualTime     *time.Time
}

func decodeSignificanceTimes(body wire.Tree, order int) []SignificanceTime {
	list, _ := fields.TreeList(body, order)
	out := make([]SignificanceTime, 0, len(list))
	for _, sub := range list {
		e := SignificanceTime{PredictedTime: decodeTimePtr(sub, 2), ActualTime: decodeTimePtr(sub, 3)}
		if s, ok := fields.TreeString(sub, 1); ok {
			e.OccurrenceType = s
		}
		out = append(out, e)
	}
	return out
}

// MExchangeInfo carries a market's exchange-level state and trading flags.
type MExchangeInfo struct {
	MarketID                  int
	MarketType                common.MarketType
	IsPlayMarket              bool
	CanBeInRunning            bool
	ManagedWhenInRunning      bool
	IsVisibleAsTradingMarket  bool
	IsVisibleAsPricedMarket   bool
	IsEnabledForMultiples     bool
	IsCurrentlyInRunning      bool
	Status                    common.MarketStatus
	WithdrawAction            string
	BallotOutAction           string
	CanBeDeadHeated           bool
	StartTime                 *time.Time
	DelayFactor               *int
	NumberOfWinningSelections int
	WithdrawalSequenceNumber  int
	ResultString              *string
	NumberOfSelections        int
	PlacePayout               string
	RedboxSPAvailable         *bool
	BOgAvailable              *bool
	NumberWinningPlaces       *int
	PlaceFraction             string
}

func decodeMExchangeInfo(_ map[string]any, _ wire.Head, body wire.Tree) (any, error) {
	var e MExchangeInfo
	var err error
	if e.MarketID, err = decodeInt(body, 1); err != nil {
		return nil, err
	}
	if e.MarketType, err = decodeEnum[common.MarketType](body, 2); err != nil {
		return nil, err
	}
	if e.IsPlayMarket, err = decodeBool(body, 3); err != nil {
		return nil, err
	}
	if e.CanBeInRunning, err = decodeBool(body, 4); err != nil {
		return nil, err
	}
	if e.ManagedWhenInRunning, err = decodeBool(body, 5); err != nil {
		return nil, err
	}
	if e.IsVisibleAsTradingMarket, err = decodeBool(body, 6); err != nil {
		return nil, err
	}
	if e.IsVisibleAsPricedMarket, err = decodeBool(body, 7); err != nil {
		return nil, err
	}
	if e.IsEnabledForMultiples, err = decodeBool(body, 8); err != nil {
		return nil, err
	}
	if e.IsCurrentlyInRunning, err = decodeBool(body, 9); err != nil {
		return nil, err
	}
	if e.Status, err = decodeEnum[common.MarketStatus](body, 10); err != nil {
		return nil, err
	}
	if e.WithdrawAction, err = decodeStr(body, 11); err != nil {
		return nil, err
	}
	if e.BallotOutAction, err = decodeStr(body, 12); err != nil {
		return nil, err
	}
	if e.CanBeDeadHeated, err = decodeBool(body, 13); err != nil {
		return nil, err
	}
	e.StartTime = decodeTimePtr(body, 14)
	e.DelayFactor = decodeIntPtr(body, 15)
	if e.NumberOfWinningSelections, err = decodeInt(body, 16); err != nil {
		return nil, err
	}
	if e.WithdrawalSequenceNumber, err = decodeInt(body, 17); err != nil {
		return nil, err
	}
	e.ResultString = decodeStrPtr(body, 18)
	if e.NumberOfSelections, err = decodeInt(body, 19); err != nil {
		return nil, err
	}
	if e.PlacePayout, err = decodeStr(body, 20); err != nil {
		return nil, err
	}
	e.RedboxSPAvailable = decodeBoolPtr(body, 21)
	e.BOgAvailable = decodeBoolPtr(body, 22)
	e.NumberWinningPlaces = decodeIntPtr(body, 23)
	if e.PlaceFraction, err = decodeStr(body, 24); err != nil {
		return nil, err
	}
	return &e, nil
}

// SelectionBlurb carries free-text marketing copy for a selection.
type SelectionBlurb struct {
	Blurb string
}

func decodeSelectionBlurb(_ map[string]any, _ wire.Head, body wire.Tree) (any, error) {
	blurb, err := decodeStr(body, 1)
	if err != nil {
		return nil, err
	}
	return &SelectionBlurb{Blurb: blurb}, nil
}

// SExchangeInfo carries a selection's trading status and settlement state.
type SExchangeInfo struct {
	SelectionID          int
	Status               common.SelectionStatus
	SelectionResetCount  int
	WithdrawalFactor     *float64
	SettledTime          *time.Time
	ResultString         *string
	VoidPercentage       string
	LeftSideFactor       string
	RightSideFactor      string
}

func decodeSExchangeInfo(_ map[string]any, _ wire.Head, body wire.Tree) (any, error) {
	var e SExchangeInfo
	var err error
	if e.SelectionID, err = decodeInt(body, 1); err != nil {
		return nil, err
	}
	if e.Status, err = decodeEnum[common.SelectionStatus](body, 2); err != nil {
		return nil, err
	}
	if e.SelectionResetCount, err = decodeInt(body, 3); err != nil {
		return nil, err
	}
	e.WithdrawalFactor = decodeFloatPtr(body, 4)
	e.SettledTime = decodeTimePtr(body, 5)
	e.ResultString = decodeStrPtr(body, 6)
	if e.VoidPercentage, err = decodeStr(body, 7); err != nil {
		return nil, err
	}
	if e.LeftSideFactor, err = decodeStr(body, 8); err != nil {
		return nil, err
	}
	if e.RightSideFactor, err = decodeStr(body, 9); err != nil {
		return nil, err
	}
	return &e, nil
}

// Selection1 carries a selection's display position within its market.
type Selection1 struct {
	SelectionID    int
	DisplayOrder   int
	SelectionIcon  string
}

func decodeSelection1(kwargs map[string]any, _ wire.Head, body wire.Tree) (any, error) {
	order, err := decodeInt(body, 1)
	if err != nil {
		return nil, err
	}
	icon, err := decodeStr(body, 2)
	if err != nil {
		return nil, err
	}
	return &Selection1{SelectionID: kwargInt(kwargs, "selection_id"), DisplayOrder: order, SelectionIcon: icon}, nil
}

// TaggedValue2 carries one named tagged value attached to a market.
type TaggedValue2 struct {
	TaggedValue string
	Value       string
}

func decodeTaggedValue2(kwargs map[string]any, _ wire.Head, body wire.Tree) (any, error) {
	value, err := decodeStr(body, 1)
	if err != nil {
		return nil, err
	}
	return &TaggedValue2{TaggedValue: kwargStr(kwargs, "tagged_value"), Value: value}, nil
}

// Market1 carries a market's display position and live scores.
type Market1 struct {
	MarketID     int
	DisplayOrder int
	Scores       []Score
}

func decodeMarket1(kwargs map[string]any, _ wire.Head, body wire.Tree) (any, error) {
	order, err := decodeInt(body, 1)
	if err != nil {
		return nil, err
	}
	return &Market1{MarketID: kwargInt(kwargs, "market_id"), DisplayOrder: order, Scores: decodeScores(body, 2)}, nil
}

// Tab1 carries a display grouping of markets within an event.
type Tab1 struct {
	GroupingName             string
	DisplayOrder             int
	MarketIDs                string
	NumberOfMarketsToExpand  *int
}

func decodeTab1(kwargs map[string]any, _ wire.Head, body wire.Tree) (any, error) {
	order, err := decodeInt(body, 1)
	if err != nil {
		return nil, err
	}
	ids, err := decodeStr(body, 2)
	if err != nil {
		return nil, err
	}
	return &Tab1{
		GroupingName:            kwargStr(kwargs, "grouping_name"),
		DisplayOrder:            order,
		MarketIDs:               ids,
		NumberOfMarketsToExpand: decodeIntPtr(body, 3),
	}, nil
}

// EExchangeInfo carries an event's exchange-level state.
type EExchangeInfo struct {
	EventClassifierID    int
	IsEnabledForMultiples bool
	StartTime            *time.Time
}

func decodeEExchangeInfo(_ map[string]any, _ wire.Head, body wire.Tree) (any, error) {
	id, err := decodeInt(body, 1)
	if err != nil {
		return nil, err
	}
	multi, err := decodeBool(body, 2)
	if err != nil {
		return nil, err
	}
	return &EExchangeInfo{EventClassifierID: id, IsEnabledForMultiples: multi, StartTime: decodeTimePtr(body, 3)}, nil
}

// EventClassifierID is the ordered chain of sport/location/event
// identifiers captured while descending through nested Event1 segments.
type EventClassifierID struct {
	Parent        *int
	SportID       *int
	SportGroupID  *int
	LocationID    *int
	EventID       *int
}

func classifierFromKwargs(kwargs map[string]any) EventClassifierID {
	ids, _ := kwargs["event_classifier_id"].(map[string]int)
	get := func(k string) *int {
		if v, ok := ids[k]; ok {
			return &v
		}
		return nil
	}
	return EventClassifierID{Parent: get("parent"), SportID: get("sport_id"), SportGroupID: get("sport_group_id"), LocationID: get("location_id"), EventID: get("event_id")}
}

// Event1 carries an event's display position and in-play state.
type Event1 struct {
	ClassifierID       EventClassifierID
	DisplayOrder       int
	Score              []Score
	SignificanceTimes  []SignificanceTime
}

func decodeEvent1(kwargs map[string]any, _ wire.Head, body wire.Tree) (any, error) {
	order, err := decodeInt(body, 1)
	if err != nil {
		return nil, err
	}
	return &Event1{
		ClassifierID:      classifierFromKwargs(kwargs),
		DisplayOrder:      order,
		Score:             decodeScores(body, 2),
		SignificanceTimes: decodeSignificanceTimes(body, 3),
	}, nil
}

// PriceLevel is one back or lay price level's display price and stake.
type PriceLevel struct {
	DisplayPrice float64
	Stake        float64
}

func decodePriceLevels(body wire.Tree, order int) []PriceLevel {
	list, _ := fields.TreeList(body, order)
	out := make([]PriceLevel, 0, len(list))
	for _, sub := range list {
		var p PriceLevel
		if v, err := decodeFloat(sub, 1); err == nil {
			p.DisplayPrice = v
		}
		if v := decodeFloatPtr(sub, 2); v != nil {
			p.Stake = *v
		}
		out = append(out, p)
	}
	return out
}

// SelectionPrices carries one selection's back/lay ladder in the
// back-lay-volume-currency display format addressed by the topic.
type SelectionPrices struct {
	SelectionID            int
	BackPrices             []PriceLevel
	LayPrices              []PriceLevel
	RedboxDisplayPrice     string
	RedboxFractionalPrice  string
}

func decodeSelectionPrices(body wire.Tree, order int) []SelectionPrices {
	list, _ := fields.TreeList(body, order)
	out := make([]SelectionPrices, 0, len(list))
	for _, sub := range list {
		var s SelectionPrices
		if v, err := decodeInt(sub, 1); err == nil {
			s.SelectionID = v
		}
		s.BackPrices = decodePriceLevels(sub, 2)
		s.LayPrices = decodePriceLevels(sub, 3)
		if v, ok := fields.TreeString(sub, 4); ok {
			s.RedboxDisplayPrice = v
		}
		if v, ok := fields.TreeString(sub, 5); ok {
			s.RedboxFractionalPrice = v
		}
		out = append(out, s)
	}
	return out
}

// BackLayVolumeCurrencyFormat carries the full depth-limited back/lay
// ladder for a market, addressed by a composite title key describing
// the requested depth, volume filter, currency and price format.
type BackLayVolumeCurrencyFormat struct {
	DesiredBackPrices       int
	DesiredLayPrices        int
	DesiredMarketByVolume   int
	CurrencyCode            common.Currency
	PriceFormat             common.PriceFormat
	Selections              []SelectionPrices
}

func decodeBackLayVolumeCurrencyFormat(kwargs map[string]any, _ wire.Head, body wire.Tree) (any, error) {
	cur, _ := kwargs["currency_code"].(common.Currency)
	pf, _ := kwargs["price_format"].(common.PriceFormat)
	return &BackLayVolumeCurrencyFormat{
		DesiredBackPrices:     kwargInt(kwargs, "desired_back_prices"),
		DesiredLayPrices:      kwargInt(kwargs, "desired_lay_prices"),
		DesiredMarketByVolume: kwargInt(kwargs, "desired_market_by_volume"),
		CurrencyCode:          cur,
		PriceFormat:           pf,
		Selections:            decodeSelectionPrices(body, 1),
	}, nil
}

// TaggedValue1 carries one named tagged value addressed directly by
// topic name; present in the source taxonomy but never reached through
// the Events root (see package-level documentation in DESIGN.md).
type TaggedValue1 struct {
	TopicName string
	Value     string
}

func decodeTaggedValue1(kwargs map[string]any, _ wire.Head, body wire.Tree) (any, error) {
	value, err := decodeStr(body, 1)
	if err != nil {
		return nil, err
	}
	return &TaggedValue1{TopicName: kwargStr(kwargs, "topic_name"), Value: value}, nil
}

// --- tree wiring -------------------------------------------------------------

var (
	currency3Node = &node{name: "Currency3", param: strParam("currency"), decode: decodeCurrency3}

	language2Node  = &node{name: "Language2", param: strParam("exchange_info_language"), decode: decodeLanguage2}
	language3Node  = &node{name: "Language3", param: strParam("market_exchange_info_language"), decode: decodeLanguage3}
	language4Node  = &node{name: "Language4", param: strParam("event_language"), decode: decodeLanguage4}
	language5Node  = &node{name: "Language5", param: strParam("selection_language"), decode: decodeLanguage5}
	language6Node  = &node{name: "Language6", param: strParam("selection_exchange_info_language"), decode: decodeLanguage6}
	language7Node  = &node{name: "Language7", param: strParam("market_language"), decode: decodeLanguage7}
	language14Node = &node{name: "Language14", param: strParam("tab_language"), decode: decodeLanguage14}

	mMatchedAmountNode = &node{name: "MMatchedAmount", literal: "MMA", children: []*node{currency3Node}}
	mExchangeLangNode  = &node{name: "MExchangeLanguage", literal: "MEL", children: []*node{language3Node}}

	backLayNode = &node{name: "BackLayVolumeCurrencyFormat", param: backLayTitleParam, decode: decodeBackLayVolumeCurrencyFormat}
	marketDetailedPricesNode = &node{name: "MarketDetailedPrices", literal: "MDP", children: []*node{backLayNode}}

	mExchangeInfoNode = &node{
		name:     "MExchangeInfo",
		literal:  "MEI",
		children: []*node{mMatchedAmountNode, mExchangeLangNode, marketDetailedPricesNode},
		decode:   decodeMExchangeInfo,
	}

	selectionBlurbNode   = &node{name: "SelectionBlurb", literal: "SB", decode: decodeSelectionBlurb}
	sExchangeLangNode    = &node{name: "SExchangeLanguage", literal: "SEL", children: []*node{language6Node}}
	sExchangeInfoNode    = &node{name: "SExchangeInfo", literal: "SEI", children: []*node{selectionBlurbNode, sExchangeLangNode}, decode: decodeSExchangeInfo}
	selectionLangNode    = &node{name: "SelectionLanguage", literal: "SL", children: []*node{language5Node}}

	selection1Node = &node{
		name:     "Selection1",
		param:    idParam("selection_id"),
		children: []*node{sExchangeInfoNode, selectionLangNode},
		decode:   decodeSelection1,
	}
	selectionsNode = &node{name: "Selections", literal: "S", children: []*node{selection1Node}}

	taggedValue2Node     = &node{name: "TaggedValue2", param: strParam("tagged_value"), decode: decodeTaggedValue2}
	marketTaggedValuesNode = &node{name: "MarketTaggedValues", literal: "TV", children: []*node{taggedValue2Node}}
	marketLanguageNode   = &node{name: "MarketLanguage", literal: "ML", children: []*node{language7Node}}

	market1Node = &node{
		name:     "Market1",
		param:    idParam("market_id"),
		children: []*node{mExchangeInfoNode, selectionsNode, marketTaggedValuesNode, marketLanguageNode},
		decode:   decodeMarket1,
	}
	marketsNode = &node{name: "Markets", literal: "M", children: []*node{market1Node}}

	tabLanguageNode = &node{name: "TabLanguage", literal: "TL", children: []*node{language14Node}}
	tab1Node        = &node{name: "Tab1", param: strParam("grouping_name"), children: []*node{tabLanguageNode}, decode: decodeTab1}
	tabsNode        = &node{name: "Tabs", literal: "TAB", children: []*node{tab1Node}}

	eExchangeLangNode = &node{name: "EExchangeLanguage", literal: "EEL", children: []*node{language2Node}}
	eExchangeInfoNode = &node{name: "EExchangeInfo", literal: "EEI", children: []*node{tabsNode, eExchangeLangNode}, decode: decodeEExchangeInfo}
	eventLanguageNode = &node{name: "EventLanguage", literal: "EL", children: []*node{language4Node}}

	event1Node = &node{
		name:   "Event1",
		param:  classifierParam,
		decode: decodeEvent1,
		// children wired below once eventsNode exists, to close the cycle.
	}
	eventsNode = &node{name: "Events", literal: "E", children: []*node{event1Node}}
)

func init() {
	event1Node.children = []*node{marketsNode, eExchangeInfoNode, eventLanguageNode, eventsNode}
}
