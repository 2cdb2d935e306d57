// Package client is the HTTP client for the CLOB API. It wraps the public
// market-data endpoints, the L1 key-management endpoints and the L2 trading
// endpoints, and assembles signed orders from trading intents.
package client

import (
	"bytes"
	"context"
	crand "crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/uhyunpark/polyclob/params"
	"github.com/uhyunpark/polyclob/pkg/auth"
	"github.com/uhyunpark/polyclob/pkg/book"
	"github.com/uhyunpark/polyclob/pkg/crypto"
	"github.com/uhyunpark/polyclob/pkg/orderbuilder"
)

// API paths.
const (
	EndpointTime         = "/time"
	EndpointCreateAPIKey = "/auth/api-key"
	EndpointDeriveAPIKey = "/auth/derive-api-key"
	EndpointMarkets      = "/markets"
	EndpointOrderBook    = "/book"
	EndpointTickSize     = "/tick-size"
	EndpointPostOrder    = "/order"
	EndpointCancelAll    = "/cancel-all"
)

// ErrMissingCreds is returned by L2 calls before API credentials are set.
var ErrMissingCreds = errors.New("client: api credentials not set")

// maxSalt bounds the random order salt at 2^53-1 so it survives JSON
// round-trips through number-typed parsers.
var maxSalt = new(big.Int).SetUint64(1<<53 - 1)

// Client talks to one CLOB host on behalf of one signing wallet.
type Client struct {
	host    string
	chainID int64
	signer  *crypto.Signer
	creds   auth.APICreds
	http    *http.Client
	log     *zap.Logger

	now  func() time.Time
	salt func() (*big.Int, error)
}

// New builds a client for host and chainID. The signer may be nil for a
// market-data only client.
func New(host string, chainID int64, signer *crypto.Signer, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		host:    strings.TrimRight(host, "/"),
		chainID: chainID,
		signer:  signer,
		http:    &http.Client{Timeout: 10 * time.Second},
		log:     log,
		now:     time.Now,
		salt: func() (*big.Int, error) {
			return crand.Int(crand.Reader, maxSalt)
		},
	}
}

// SetCreds installs the API key triple used for L2 calls.
func (c *Client) SetCreds(creds auth.APICreds) { c.creds = creds }

// Creds returns the currently installed API credentials.
func (c *Client) Creds() auth.APICreds { return c.creds }

func (c *Client) do(ctx context.Context, method, path string, query url.Values, headers map[string]string, body []byte, out interface{}) error {
	u := c.host + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, rd)
	if err != nil {
		return fmt.Errorf("client: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("client: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("client: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("client: %s %s: status %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(data)))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("client: decode response: %w", err)
	}
	return nil
}

func (c *Client) l2Headers(method, path string, body []byte) (map[string]string, error) {
	if c.creds.Key == "" || c.creds.Secret == "" {
		return nil, ErrMissingCreds
	}
	return auth.CreateL2Headers(c.signer.Address().Hex(), c.creds, c.now().Unix(), method, path, string(body))
}

// GetServerTime returns the server's unix time.
func (c *Client) GetServerTime(ctx context.Context) (int64, error) {
	var ts int64
	if err := c.do(ctx, http.MethodGet, EndpointTime, nil, nil, nil, &ts); err != nil {
		return 0, err
	}
	return ts, nil
}

// GetMarkets fetches one page of the market listing.
func (c *Client) GetMarkets(ctx context.Context, nextCursor string) (json.RawMessage, error) {
	query := url.Values{}
	if nextCursor != "" {
		query.Set("next_cursor", nextCursor)
	}
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, EndpointMarkets, query, nil, nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// GetOrderBook fetches the book snapshot for a token.
func (c *Client) GetOrderBook(ctx context.Context, tokenID string) (*book.OrderBookSummary, error) {
	query := url.Values{}
	query.Set("token_id", tokenID)
	var b book.OrderBookSummary
	if err := c.do(ctx, http.MethodGet, EndpointOrderBook, query, nil, nil, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

type tickSizeResponse struct {
	MinimumTickSize json.Number `json:"minimum_tick_size"`
}

// GetTickSize fetches the minimum tick size for a token as a decimal string.
func (c *Client) GetTickSize(ctx context.Context, tokenID string) (string, error) {
	query := url.Values{}
	query.Set("token_id", tokenID)
	var resp tickSizeResponse
	if err := c.do(ctx, http.MethodGet, EndpointTickSize, query, nil, nil, &resp); err != nil {
		return "", err
	}
	return resp.MinimumTickSize.String(), nil
}

type apiKeyResponse struct {
	APIKey     string `json:"apiKey"`
	Secret     string `json:"secret"`
	Passphrase string `json:"passphrase"`
}

func (r apiKeyResponse) creds() auth.APICreds {
	return auth.APICreds{Key: r.APIKey, Secret: r.Secret, Passphrase: r.Passphrase}
}

// CreateAPIKey registers a new API key triple for the signing wallet and
// installs it on the client.
func (c *Client) CreateAPIKey(ctx context.Context, nonce int64) (auth.APICreds, error) {
	headers, err := auth.CreateL1Headers(c.signer, c.chainID, c.now().Unix(), nonce)
	if err != nil {
		return auth.APICreds{}, err
	}
	var resp apiKeyResponse
	if err := c.do(ctx, http.MethodPost, EndpointCreateAPIKey, nil, headers, nil, &resp); err != nil {
		return auth.APICreds{}, err
	}
	c.creds = resp.creds()
	c.log.Info("created api key", zap.String("key", c.creds.Key))
	return c.creds, nil
}

// DeriveAPIKey recovers the API key triple previously registered for the
// signing wallet and installs it on the client.
func (c *Client) DeriveAPIKey(ctx context.Context, nonce int64) (auth.APICreds, error) {
	headers, err := auth.CreateL1Headers(c.signer, c.chainID, c.now().Unix(), nonce)
	if err != nil {
		return auth.APICreds{}, err
	}
	var resp apiKeyResponse
	if err := c.do(ctx, http.MethodGet, EndpointDeriveAPIKey, nil, headers, nil, &resp); err != nil {
		return auth.APICreds{}, err
	}
	c.creds = resp.creds()
	return c.creds, nil
}

// OrderRequest is a trading intent. For limit orders Size is a share
// quantity and Price the limit price. For market buys Size is collateral to
// spend and Price is ignored; for market sells it is the share quantity.
type OrderRequest struct {
	TokenID       string
	Side          orderbuilder.Side
	Size          decimal.Decimal
	Price         decimal.Decimal
	Expiration    int64
	Nonce         int64
	FeeRateBps    int64
	NegRisk       bool
	SignatureType orderbuilder.SignatureType
}

// PostOrder submits an already signed order under the given time-in-force.
func (c *Client) PostOrder(ctx context.Context, signed orderbuilder.SignedOrder, orderType orderbuilder.OrderType) (json.RawMessage, error) {
	payload := orderbuilder.PostOrderPayload{
		Order:     signed,
		Owner:     c.creds.Key,
		OrderType: string(orderType),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("client: marshal order: %w", err)
	}
	headers, err := c.l2Headers(http.MethodPost, EndpointPostOrder, body)
	if err != nil {
		return nil, err
	}
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPost, EndpointPostOrder, nil, headers, body, &raw); err != nil {
		return nil, err
	}
	c.log.Info("posted order",
		zap.String("token_id", signed.TokenID),
		zap.String("side", signed.Side),
		zap.String("type", string(orderType)))
	return raw, nil
}

// CreateOrder builds, signs and submits a limit order from an intent. The
// tick size is fetched from the server, amounts are derived from the intent's
// price and size, and the salt is drawn from crypto/rand.
func (c *Client) CreateOrder(ctx context.Context, req OrderRequest, orderType orderbuilder.OrderType) (json.RawMessage, error) {
	tickSize, err := c.GetTickSize(ctx, req.TokenID)
	if err != nil {
		return nil, err
	}
	signed, err := c.buildAndSign(req, tickSize, func(args orderbuilder.OrderArgs) (*orderbuilder.Order, error) {
		return orderbuilder.BuildOrder(req.Side, req.Size, req.Price, tickSize, args)
	})
	if err != nil {
		return nil, err
	}
	return c.PostOrder(ctx, signed, orderType)
}

// CreateMarketOrder builds, signs and submits a market order. The clearing
// price is resolved from current book depth, so the order fails with
// ErrNoMatch when a FOK intent cannot be covered.
func (c *Client) CreateMarketOrder(ctx context.Context, req OrderRequest, orderType orderbuilder.OrderType) (json.RawMessage, error) {
	tickSize, err := c.GetTickSize(ctx, req.TokenID)
	if err != nil {
		return nil, err
	}
	snapshot, err := c.GetOrderBook(ctx, req.TokenID)
	if err != nil {
		return nil, err
	}
	bids, err := parseLevels(snapshot.Bids)
	if err != nil {
		return nil, err
	}
	asks, err := parseLevels(snapshot.Asks)
	if err != nil {
		return nil, err
	}
	price, err := orderbuilder.CalculateMarketPrice(req.Side, bids, asks, req.Size, orderType)
	if err != nil {
		return nil, err
	}
	signed, err := c.buildAndSign(req, tickSize, func(args orderbuilder.OrderArgs) (*orderbuilder.Order, error) {
		return orderbuilder.BuildMarketOrder(req.Side, req.Size, price, tickSize, args)
	})
	if err != nil {
		return nil, err
	}
	return c.PostOrder(ctx, signed, orderType)
}

func (c *Client) buildAndSign(req OrderRequest, tickSize string, build func(orderbuilder.OrderArgs) (*orderbuilder.Order, error)) (orderbuilder.SignedOrder, error) {
	salt, err := c.salt()
	if err != nil {
		return orderbuilder.SignedOrder{}, fmt.Errorf("client: generate salt: %w", err)
	}
	order, err := build(orderbuilder.OrderArgs{
		TokenID:       req.TokenID,
		Maker:         c.signer.Address().Hex(),
		Salt:          salt,
		Expiration:    req.Expiration,
		Nonce:         req.Nonce,
		FeeRateBps:    req.FeeRateBps,
		SignatureType: req.SignatureType,
	})
	if err != nil {
		return orderbuilder.SignedOrder{}, err
	}
	exchange, err := params.ExchangeAddress(c.chainID, req.NegRisk)
	if err != nil {
		return orderbuilder.SignedOrder{}, err
	}
	sig, err := crypto.SignOrder(c.signer, order, c.chainID, exchange)
	if err != nil {
		return orderbuilder.SignedOrder{}, err
	}
	return order.WithSignature(sig), nil
}

// CancelAll cancels every open order owned by the API key.
func (c *Client) CancelAll(ctx context.Context) (json.RawMessage, error) {
	headers, err := c.l2Headers(http.MethodDelete, EndpointCancelAll, nil)
	if err != nil {
		return nil, err
	}
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodDelete, EndpointCancelAll, nil, headers, nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func parseLevels(levels []book.OrderSummary) ([]orderbuilder.Level, error) {
	out := make([]orderbuilder.Level, 0, len(levels))
	for _, l := range levels {
		price, err := decimal.NewFromString(l.Price)
		if err != nil {
			return nil, fmt.Errorf("client: bad level price %q: %w", l.Price, err)
		}
		size, err := decimal.NewFromString(l.Size)
		if err != nil {
			return nil, fmt.Errorf("client: bad level size %q: %w", l.Size, err)
		}
		out = append(out, orderbuilder.Level{Price: price, Size: size})
	}
	return out, nil
}
