// Package book holds order book snapshots and their canonical content hash.
package book

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// OrderSummary is a single aggregated price level. Price and size stay as
// decimal strings so the hash covers the server's exact representation.
type OrderSummary struct {
	Price string `json:"price"`
	Size  string `json:"size"`
}

// OrderBookSummary is a full snapshot of one market side pair as delivered
// by the /book endpoint and the market websocket channel.
type OrderBookSummary struct {
	Market       string         `json:"market"`
	AssetID      string         `json:"asset_id"`
	Timestamp    string         `json:"timestamp"`
	Bids         []OrderSummary `json:"bids"`
	Asks         []OrderSummary `json:"asks"`
	MinOrderSize string         `json:"min_order_size,omitempty"`
	TickSize     string         `json:"tick_size,omitempty"`
	NegRisk      *bool          `json:"neg_risk,omitempty"`
	Hash         string         `json:"hash"`
}

// canonical mirrors OrderBookSummary with the hash field pinned empty. The
// field order here defines the byte layout the digest is computed over, so
// it must not change.
type canonical struct {
	Market       string         `json:"market"`
	AssetID      string         `json:"asset_id"`
	Timestamp    string         `json:"timestamp"`
	Bids         []OrderSummary `json:"bids"`
	Asks         []OrderSummary `json:"asks"`
	MinOrderSize string         `json:"min_order_size,omitempty"`
	TickSize     string         `json:"tick_size,omitempty"`
	NegRisk      *bool          `json:"neg_risk,omitempty"`
	Hash         string         `json:"hash"`
}

// ComputeHash computes the canonical SHA-1 digest of the snapshot, stores it
// in b.Hash and returns it. Any prefilled hash is ignored. The digest is
// taken over compact JSON with the hash field empty; min_order_size and
// tick_size are omitted when blank, and neg_risk rides along only when one
// of them is present, matching the upstream serializer.
func (b *OrderBookSummary) ComputeHash() (string, error) {
	c := canonical{
		Market:       b.Market,
		AssetID:      b.AssetID,
		Timestamp:    b.Timestamp,
		Bids:         b.Bids,
		Asks:         b.Asks,
		MinOrderSize: b.MinOrderSize,
		TickSize:     b.TickSize,
	}
	if c.Bids == nil {
		c.Bids = []OrderSummary{}
	}
	if c.Asks == nil {
		c.Asks = []OrderSummary{}
	}
	if c.MinOrderSize != "" || c.TickSize != "" {
		negRisk := false
		if b.NegRisk != nil {
			negRisk = *b.NegRisk
		}
		c.NegRisk = &negRisk
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(&c); err != nil {
		return "", fmt.Errorf("book: encode snapshot: %w", err)
	}
	payload := bytes.TrimRight(buf.Bytes(), "\n")

	sum := sha1.Sum(payload)
	b.Hash = hex.EncodeToString(sum[:])
	return b.Hash, nil
}
