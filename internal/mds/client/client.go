// Package client drives one market-data session: connecting, logging
// in, running the ping and subscription-sweep loops, dispatching
// incoming responses and topic messages, and reconnecting with backoff
// whenever the connection is lost or the server returns a terminal
// error code.
package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	cclog "github.com/ClusterCockpit/cc-lib/v2/ccLogger"

	"github.com/vayesy/betdaq/internal/common"
	"github.com/vayesy/betdaq/internal/config"
	"github.com/vayesy/betdaq/internal/mds/commands"
	"github.com/vayesy/betdaq/internal/mds/fields"
	"github.com/vayesy/betdaq/internal/mds/responses"
	"github.com/vayesy/betdaq/internal/mds/topics"
	"github.com/vayesy/betdaq/internal/mds/wire"
	"github.com/vayesy/betdaq/internal/metrics"
)

// firstAttemptLimit bounds how many dial attempts the very first
// connection makes before giving up entirely; every later reconnect
// retries without limit.
const firstAttemptLimit = 5

// globalSendInterval is the minimum gap sendLoop enforces between any
// two commands it sends, regardless of kind. Pings, which pingLoop
// writes directly, are not paced by it.
const globalSendInterval = 200 * time.Millisecond

// backoffSchedule is the pause before each of the first three retries of
// a connection attempt; later retries fall back to ConnectionTimeout.
var backoffSchedule = []time.Duration{5 * time.Second, 30 * time.Second, 60 * time.Second}

// Client drives a single AAPI market-data session.
type Client struct {
	cfg  config.MarketData
	ctrl *controller

	conn *websocket.Conn

	subscribedEvents map[int]struct{}
	scheduler        gocron.Scheduler
	sweepJob         gocron.Job
}

// New builds a Client for the given configuration.
func New(cfg config.MarketData) *Client {
	return &Client{
		cfg:              cfg,
		ctrl:             newController(),
		subscribedEvents: make(map[int]struct{}),
	}
}

// Run drives the reconnect loop until ctx is cancelled or the very first
// connection attempt exhausts its retries.
func (c *Client) Run(ctx context.Context) error {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("mds: failed to create scheduler: %w", err)
	}
	c.scheduler = scheduler
	c.scheduler.Start()
	defer c.scheduler.Shutdown()

	first := true
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		conn, err := c.connect(ctx, first)
		if err != nil {
			if first {
				cclog.Errorf("mds: all connection attempts failed, stopping: %s", err.Error())
				return err
			}
			continue
		}
		first = false
		c.conn = conn
		metrics.Reconnects.WithLabelValues("mds").Inc()

		c.runSession(ctx)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second):
		}
	}
}

// connect dials the stream URL, retrying with the original's backoff
// schedule. firstAttempt bounds the number of attempts to firstAttemptLimit;
// subsequent reconnects retry without limit.
func (c *Client) connect(ctx context.Context, firstAttempt bool) (*websocket.Conn, error) {
	for attempt := 0; !firstAttempt || attempt < firstAttemptLimit; attempt++ {
		dialCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
		conn, _, err := websocket.DefaultDialer.DialContext(dialCtx, c.cfg.StreamURL, nil)
		cancel()
		if err == nil {
			return conn, nil
		}
		cclog.Warnf("mds: failed to initialize connection (attempt %d): %s", attempt, err.Error())

		pause := c.cfg.ConnectionTimeout
		if attempt < len(backoffSchedule) {
			pause = backoffSchedule[attempt]
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(pause):
		}
	}
	return nil, errors.New("mds: exhausted connection attempts")
}

// runSession owns one live connection: it starts the ping and send
// loops, blocks on the receive loop, and tears everything down once the
// connection drops.
func (c *Client) runSession(ctx context.Context) {
	sessionCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	c.queueLogin()

	go c.pingLoop(sessionCtx)
	go c.sendLoop(sessionCtx)

	cclog.Info("mds: session established")
	processed := c.receiveLoop(sessionCtx)
	cclog.Infof("mds: connection closed, processed %d messages", processed)

	cancel()
	c.teardownSession()
}

func (c *Client) teardownSession() {
	for id := range c.subscribedEvents {
		delete(c.subscribedEvents, id)
	}
	c.ctrl.Reset()
	if c.sweepJob != nil {
		_ = c.scheduler.RemoveJob(c.sweepJob.ID())
		c.sweepJob = nil
	}
	if c.conn != nil {
		_ = c.conn.WriteMessage(websocket.TextMessage, []byte((&commands.Unsubscribe{}).Encode()))
		_ = c.conn.Close()
		c.conn = nil
	}
}

func (c *Client) queueLogin() {
	guid := uuid.NewString()
	clientIdentifier := fmt.Sprintf("betdaq-price-server-%s", c.cfg.Version)
	currency := common.Currency("GBP")
	language := common.LangEnglish

	if c.cfg.HasCredentials() {
		username, password := c.cfg.Username, c.cfg.Password
		cmd := &commands.LogonPunter{
			PartnerUsername:     &username,
			CleartextPassword:   &password,
			Currency:            &currency,
			Language:            &language,
			AAPIVersion:         c.cfg.Version,
			ClientSpecifiedGUID: guid,
			ClientIdentifier:    &clientIdentifier,
		}
		cclog.Debug("mds: api credentials provided, initializing user session")
		c.ctrl.Queue(cmd, 1)
		return
	}
	cclog.Debug("mds: api credentials not provided, initializing anonymous session")
	cmd := &commands.SetAnonymousSessionContext{
		Currency:            currency,
		Language:            language,
		PriceFormat:         common.PriceFormatDecimal,
		AAPIVersion:         c.cfg.Version,
		ClientSpecifiedGUID: guid,
		ClientIdentifier:    &clientIdentifier,
	}
	c.ctrl.Queue(cmd, 1)
}

// pingLoop sends a Ping command directly (bypassing the priority queue)
// every PingFrequency, stopping once the session context is cancelled
// or a send fails.
func (c *Client) pingLoop(ctx context.Context) {
	cclog.Info("mds: starting ping loop")
	defer cclog.Info("mds: finished ping loop")
	ticker := time.NewTicker(c.cfg.PingFrequency)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			now := time.Now().UTC().Format(fields.DateTimeLayout)
			cmd := &commands.Ping{CurrentClientTime: &now}
			if !c.sendDirect(cmd) {
				return
			}
		}
	}
}

// sendLoop drains the controller's queue and per-kind schedules at a
// steady cadence.
func (c *Client) sendLoop(ctx context.Context) {
	ticker := time.NewTicker(globalSendInterval)
	defer ticker.Stop()
	var lastSent time.Time
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, cmd := range c.ctrl.NextToSend() {
				if wait := globalSendInterval - time.Since(lastSent); wait > 0 {
					select {
					case <-ctx.Done():
						return
					case <-time.After(wait):
					}
				}
				c.sendDirect(cmd)
				lastSent = time.Now()
			}
		}
	}
}

func (c *Client) sendDirect(cmd commands.Command) bool {
	if c.conn == nil {
		return false
	}
	msg := cmd.Encode()
	if err := c.conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
		cclog.Errorf("mds: failed to send command: %s", err.Error())
		return false
	}
	metrics.FramesSent.WithLabelValues("mds").Inc()
	return true
}

// receiveLoop blocks reading frames until the connection closes, no
// frame arrives within ReceiveTimeout (when set), or the session context
// is found cancelled between frames, returning the count of frames
// processed.
func (c *Client) receiveLoop(ctx context.Context) int {
	processed := 0
	for {
		if ctx.Err() != nil {
			return processed
		}
		if c.cfg.ReceiveTimeout > 0 {
			_ = c.conn.SetReadDeadline(time.Now().Add(c.cfg.ReceiveTimeout))
		}
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			return processed
		}
		processed++
		metrics.FramesReceived.WithLabelValues("mds").Inc()
		if err := c.handleRaw(string(raw)); err != nil {
			cclog.Errorf("mds: failed to process message: %s", err.Error())
		}
	}
}

func (c *Client) handleRaw(raw string) error {
	frame, err := wire.ParseFrame(raw)
	if err != nil {
		return err
	}
	head, err := wire.ParseHead(frame.Headers)
	if err != nil {
		return err
	}
	if head.HasMessageIdentifier {
		return c.handleResponseFrame(head, frame.Body)
	}
	return c.handleTopicFrame(head, frame.Body)
}

func (c *Client) handleResponseFrame(head wire.Head, body wire.Tree) error {
	loader, ok := responses.ByIdentifier[commands.Identifier(head.MessageIdentifier)]
	if !ok {
		return nil
	}
	resp, err := loader(body)
	if err != nil {
		return err
	}
	if resp.ReturnCode().IsTerminal() {
		cclog.Errorf("mds: unexpected return code %s for command response, closing connection", resp.ReturnCode())
		return c.conn.Close()
	}
	c.handleResponse(resp)
	return nil
}

func (c *Client) handleResponse(resp responses.Response) {
	switch r := resp.(type) {
	case *responses.LogonPunter:
		c.onLogin()
	case *responses.SetAnonymousSessionContext:
		c.onLogin()
	case *responses.SetRefreshPeriod:
		c.onSetRefreshPeriod(r)
	case *responses.SubscribeEventHierarchy:
		c.onMarketEvent(r.AvailableMarketsCount)
	case *responses.SubscribeMarketInformation:
		c.onMarketEvent(r.AvailableMarketsCount)
	case *responses.SubscribeDetailedMarketPrices:
		c.onMarketEvent(r.AvailableMarketsCount)
	case *responses.SubscribeMarketMatchedAmounts:
		c.onMarketEvent(r.AvailableMarketsCount)
	}
}

func (c *Client) handleTopicFrame(head wire.Head, body wire.Tree) error {
	resolved := topics.ResolveDataMessage(head.TopicName)
	if resolved.Kind == topics.UnknownKind {
		return nil
	}
	msg, err := resolved.Decode(head, body)
	if err != nil {
		return err
	}
	c.handleTopic(head, resolved.Kwargs, msg)
	return nil
}

func (c *Client) handleTopic(head wire.Head, kwargs map[string]any, msg any) {
	switch m := msg.(type) {
	case *topics.Language4:
		c.onLanguage4(head, kwargs, m)
	case *topics.MExchangeInfo:
		c.onMExchangeInfo(head, kwargs, m)
	}
}

// onLogin queues the refresh-period negotiation once a session is open.
func (c *Client) onLogin() {
	cmd := &commands.SetRefreshPeriod{RefreshPeriodMs: int(c.cfg.RefreshPeriod.Milliseconds())}
	c.ctrl.Queue(cmd, 1)
}

// onSetRefreshPeriod starts the periodic classifier sweep once the
// server has acknowledged the negotiated batching interval. A second
// response within the same session (e.g. a re-negotiated period) is a
// no-op if the sweep is already running, rather than leaking the
// previous gocron job. Without a scheduler the response is only logged.
func (c *Client) onSetRefreshPeriod(resp *responses.SetRefreshPeriod) {
	cclog.Infof("mds: refresh period set to %d ms", resp.RefreshPeriodMs)
	if c.sweepJob != nil || c.scheduler == nil {
		return
	}
	job, err := c.scheduler.NewJob(
		gocron.DurationJob(c.cfg.MetaRefreshPeriod),
		gocron.NewTask(c.sweepClassifiers),
	)
	if err != nil {
		cclog.Errorf("mds: failed to schedule classifier sweep: %s", err.Error())
		return
	}
	c.sweepJob = job
	c.sweepClassifiers()
}

// sweepClassifiers re-subscribes to the configured top-level event
// classifier groups, keeping their hierarchies fresh.
func (c *Client) sweepClassifiers() {
	for groupID := range c.cfg.MetaRefreshClassifiers {
		cmd := &commands.SubscribeEventHierarchy{
			EventClassifierID:          groupID,
			WantSelectionInformation:   false,
			WantSelectionBlurb:         false,
			WantDirectDescendantsOnly:  true,
			MarketTypesToInclude:       []common.MarketType{common.MarketTypeWin},
		}
		c.ctrl.QueueLimited(cmd)
	}
}

func (c *Client) onMarketEvent(availableMarketsCount int) {
	if availableMarketsCount == 0 {
		cclog.Error("mds: no more market subscriptions allowed")
	}
}

// onLanguage4 implements the event-discovery cascade: a fresh event id
// triggers a market-information subscription, a bare location id
// triggers a deeper event-hierarchy subscription, and a deletion forgets
// the event so it can be rediscovered later.
func (c *Client) onLanguage4(head wire.Head, kwargs map[string]any, _ *topics.Language4) {
	ids, _ := kwargs["event_classifier_id"].(map[string]int)
	eventID, hasEvent := ids["event_id"]

	if head.MessageType == wire.MessageTypeDelete {
		if hasEvent {
			delete(c.subscribedEvents, eventID)
		}
		return
	}

	if hasEvent {
		if _, seen := c.subscribedEvents[eventID]; seen {
			return
		}
		id := eventID
		cmd := &commands.SubscribeMarketInformation{
			EventClassifierID:          &id,
			WantDirectDescendantsOnly:  boolPtr(true),
			WantSelectionInformation:   true,
			MarketTypesToInclude:       []common.MarketType{common.MarketTypeWin},
		}
		c.ctrl.QueueLimited(cmd)
		c.subscribedEvents[eventID] = struct{}{}
		return
	}

	if locationID, ok := ids["location_id"]; ok {
		cmd := &commands.SubscribeEventHierarchy{
			EventClassifierID:          locationID,
			WantSelectionInformation:   false,
			WantSelectionBlurb:         false,
			WantDirectDescendantsOnly:  true,
			MarketTypesToInclude:       []common.MarketType{common.MarketTypeWin},
		}
		c.ctrl.QueueLimited(cmd)
	}
}

// onMExchangeInfo fans a real (non-sportsbook) market out into the
// detailed-prices and matched-amounts subscriptions once its exchange
// metadata is seen for the first time.
func (c *Client) onMExchangeInfo(head wire.Head, kwargs map[string]any, msg *topics.MExchangeInfo) {
	if head.MessageType == wire.MessageTypeDelete {
		return
	}
	marketID := msg.MarketID
	if marketID == 0 {
		marketID = kwargInt(kwargs, "market_id")
	}
	if marketID == 0 {
		return
	}
	if msg.NumberWinningPlaces != nil && *msg.NumberWinningPlaces != 0 {
		cclog.Debugf("mds: skipping sportsbook win market %d", marketID)
		return
	}

	c.ctrl.QueueLimited(&commands.SubscribeDetailedMarketPrices{
		MarketIDs:        []int{marketID},
		NumberBackPrices: c.cfg.PricesNumber,
		NumberLayPrices:  c.cfg.PricesNumber,
		FilterByVolume:   float64(c.cfg.FilterByVolume),
	})
	c.ctrl.QueueLimited(&commands.SubscribeMarketMatchedAmounts{
		MarketIDs: []int{marketID},
	})
}

func boolPtr(v bool) *bool { return &v }

func kwargInt(kwargs map[string]any, name string) int {
	v, _ := kwargs[name].(int)
	return v
}
