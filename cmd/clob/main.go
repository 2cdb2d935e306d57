// Command clob is a small market-data watcher: it derives API credentials
// for the configured wallet, prints the current book for a token, then
// follows the market websocket channel until interrupted.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/uhyunpark/polyclob/params"
	"github.com/uhyunpark/polyclob/pkg/book"
	"github.com/uhyunpark/polyclob/pkg/client"
	"github.com/uhyunpark/polyclob/pkg/crypto"
	"github.com/uhyunpark/polyclob/pkg/stream"
	"github.com/uhyunpark/polyclob/pkg/util"
)

func main() {
	var (
		host    = flag.String("host", "https://clob.polymarket.com", "CLOB API host")
		wsURL   = flag.String("ws", stream.DefaultMarketURL, "market websocket endpoint")
		chainID = flag.Int64("chain", params.ChainPolygon, "chain id (137 or 80002)")
		tokenID = flag.String("token", "", "token id to watch")
	)
	flag.Parse()

	if *tokenID == "" {
		log.Fatal("-token is required")
	}

	logger, err := util.NewLogger()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	creds := params.CredentialsFromEnv()
	if creds.PrivateKey == "" {
		logger.Fatal("POLY_PRIVATE_KEY not set")
	}
	signer, err := crypto.FromPrivateKeyHex(creds.PrivateKey)
	if err != nil {
		logger.Fatal("bad private key", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := client.New(*host, *chainID, signer, logger)
	if _, err := c.DeriveAPIKey(ctx, 0); err != nil {
		logger.Warn("derive api key failed, continuing with public endpoints", zap.Error(err))
	}

	snapshot, err := c.GetOrderBook(ctx, *tokenID)
	if err != nil {
		logger.Fatal("fetch book", zap.Error(err))
	}
	hash, err := snapshot.ComputeHash()
	if err != nil {
		logger.Fatal("hash book", zap.Error(err))
	}
	logger.Info("book snapshot",
		zap.String("market", snapshot.Market),
		zap.Int("bids", len(snapshot.Bids)),
		zap.Int("asks", len(snapshot.Asks)),
		zap.String("hash", hash))

	ws := stream.NewMarketClient(*wsURL, stream.Callbacks{
		OnBook: func(b book.OrderBookSummary) {
			logger.Info("book",
				zap.String("asset_id", b.AssetID),
				zap.Int("bids", len(b.Bids)),
				zap.Int("asks", len(b.Asks)))
		},
		OnPriceChange: func(m stream.PriceChangeMessage) {
			logger.Info("price_change",
				zap.String("asset_id", m.AssetID),
				zap.Int("changes", len(m.Changes)))
		},
		OnTickSizeChange: func(m stream.TickSizeChangeMessage) {
			logger.Info("tick_size_change",
				zap.String("asset_id", m.AssetID),
				zap.String("new", m.NewTickSize))
		},
		OnLastTradePrice: func(m stream.LastTradePriceMessage) {
			logger.Info("last_trade_price",
				zap.String("asset_id", m.AssetID),
				zap.String("price", m.Price))
		},
	}, logger)

	if err := ws.Connect(); err != nil {
		logger.Fatal("connect stream", zap.Error(err))
	}
	defer ws.Close()
	if err := ws.Subscribe([]string{*tokenID}); err != nil {
		logger.Fatal("subscribe", zap.Error(err))
	}

	if err := ws.Listen(ctx); err != nil && ctx.Err() == nil {
		logger.Error("stream closed", zap.Error(err))
	}
}
