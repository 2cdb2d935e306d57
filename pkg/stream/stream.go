// Package stream consumes the CLOB market websocket channel: book snapshots,
// price changes, tick size changes and last trade prices.
package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/uhyunpark/polyclob/pkg/book"
)

// DefaultMarketURL is the public market channel endpoint.
const DefaultMarketURL = "wss://ws-subscriptions-clob.polymarket.com/ws/market"

// PriceChange is one level update within a price_change event.
type PriceChange struct {
	Price string `json:"price"`
	Size  string `json:"size"`
	Side  string `json:"side"`
}

// PriceChangeMessage reports level updates for one asset.
type PriceChangeMessage struct {
	EventType string        `json:"event_type"`
	AssetID   string        `json:"asset_id"`
	Market    string        `json:"market"`
	Changes   []PriceChange `json:"changes"`
	Timestamp string        `json:"timestamp"`
	Hash      string        `json:"hash"`
}

// TickSizeChangeMessage reports a market moving to a new tick size.
type TickSizeChangeMessage struct {
	EventType   string `json:"event_type"`
	AssetID     string `json:"asset_id"`
	Market      string `json:"market"`
	OldTickSize string `json:"old_tick_size"`
	NewTickSize string `json:"new_tick_size"`
	Timestamp   string `json:"timestamp"`
}

// LastTradePriceMessage reports the latest trade on an asset.
type LastTradePriceMessage struct {
	EventType string `json:"event_type"`
	AssetID   string `json:"asset_id"`
	Market    string `json:"market"`
	Price     string `json:"price"`
	Side      string `json:"side"`
	Size      string `json:"size"`
	Timestamp string `json:"timestamp"`
}

// Callbacks holds the handlers invoked per event type. Nil handlers drop
// their events.
type Callbacks struct {
	OnBook           func(book.OrderBookSummary)
	OnPriceChange    func(PriceChangeMessage)
	OnTickSizeChange func(TickSizeChangeMessage)
	OnLastTradePrice func(LastTradePriceMessage)
}

type subscribeMessage struct {
	Type   string   `json:"type"`
	Assets []string `json:"assets_ids"`
}

type envelope struct {
	EventType string `json:"event_type"`
}

// MarketClient maintains one websocket connection to the market channel.
type MarketClient struct {
	url          string
	conn         *websocket.Conn
	callbacks    Callbacks
	log          *zap.Logger
	pingInterval time.Duration
	stopPing     chan struct{}
}

// NewMarketClient builds a client for the given endpoint. An empty url means
// DefaultMarketURL.
func NewMarketClient(url string, callbacks Callbacks, log *zap.Logger) *MarketClient {
	if url == "" {
		url = DefaultMarketURL
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &MarketClient{
		url:          url,
		callbacks:    callbacks,
		log:          log,
		pingInterval: 50 * time.Second,
		stopPing:     make(chan struct{}),
	}
}

// Connect dials the endpoint and starts the keepalive pinger.
func (c *MarketClient) Connect() error {
	conn, resp, err := websocket.DefaultDialer.Dial(c.url, http.Header{})
	if err != nil {
		if resp != nil {
			return fmt.Errorf("stream: dial %s: status %s: %w", c.url, resp.Status, err)
		}
		return fmt.Errorf("stream: dial %s: %w", c.url, err)
	}
	c.conn = conn
	c.log.Info("market stream connected", zap.String("url", c.url))

	go c.pinger()
	return nil
}

// Subscribe requests events for the given token IDs.
func (c *MarketClient) Subscribe(tokenIDs []string) error {
	if c.conn == nil {
		return fmt.Errorf("stream: not connected")
	}
	msg := subscribeMessage{Type: "subscribe", Assets: tokenIDs}
	if err := c.conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("stream: subscribe: %w", err)
	}
	c.log.Info("subscribed", zap.Int("assets", len(tokenIDs)))
	return nil
}

// Listen reads events until the context is cancelled or the connection
// fails. Events arrive singly or batched in arrays; both forms dispatch to
// the registered callbacks.
func (c *MarketClient) Listen(ctx context.Context) error {
	if c.conn == nil {
		return fmt.Errorf("stream: not connected")
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		_, message, err := c.conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("stream: read: %w", err)
		}
		if len(message) > 0 && message[0] == '[' {
			var batch []json.RawMessage
			if err := json.Unmarshal(message, &batch); err != nil {
				continue
			}
			for _, elem := range batch {
				c.dispatch(elem)
			}
			continue
		}
		c.dispatch(message)
	}
}

func (c *MarketClient) dispatch(message []byte) {
	var env envelope
	if err := json.Unmarshal(message, &env); err != nil {
		return
	}
	switch env.EventType {
	case "book":
		if c.callbacks.OnBook != nil {
			var b book.OrderBookSummary
			if err := json.Unmarshal(message, &b); err == nil {
				c.callbacks.OnBook(b)
			}
		}
	case "price_change":
		if c.callbacks.OnPriceChange != nil {
			var m PriceChangeMessage
			if err := json.Unmarshal(message, &m); err == nil {
				c.callbacks.OnPriceChange(m)
			}
		}
	case "tick_size_change":
		if c.callbacks.OnTickSizeChange != nil {
			var m TickSizeChangeMessage
			if err := json.Unmarshal(message, &m); err == nil {
				c.callbacks.OnTickSizeChange(m)
			}
		}
	case "last_trade_price":
		if c.callbacks.OnLastTradePrice != nil {
			var m LastTradePriceMessage
			if err := json.Unmarshal(message, &m); err == nil {
				c.callbacks.OnLastTradePrice(m)
			}
		}
	}
}

// Close tears down the connection and stops the pinger.
func (c *MarketClient) Close() error {
	close(c.stopPing)
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

func (c *MarketClient) pinger() {
	ticker := time.NewTicker(c.pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-c.stopPing:
			return
		case <-ticker.C:
			if err := c.conn.WriteMessage(websocket.TextMessage, []byte("PING")); err != nil {
				c.log.Warn("ping failed", zap.Error(err))
				return
			}
		}
	}
}
