package orderbuilder

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/uhyunpark/polyclob/params"
)

// SignatureType enumerates the wallet scheme authorizing an order.
type SignatureType int

const (
	SignatureEOA        SignatureType = 0
	SignaturePolyProxy  SignatureType = 1
	SignatureGnosisSafe SignatureType = 2
)

// ZeroAddress is the open-order taker.
const ZeroAddress = "0x0000000000000000000000000000000000000000"

// Order is the fully populated on-chain order record consumed by the EIP-712
// signer and the exchange contract. All amount fields are non-negative
// integers in collateral/token base units.
type Order struct {
	Salt          *big.Int
	Maker         string
	Signer        string
	Taker         string
	TokenID       *big.Int
	MakerAmount   *big.Int
	TakerAmount   *big.Int
	Expiration    *big.Int
	Nonce         *big.Int
	FeeRateBps    *big.Int
	Side          Side
	SignatureType SignatureType
}

// OrderArgs carries the caller-supplied order fields that are independent of
// the amount calculation. Salt must come from the caller so that signing
// stays reproducible.
type OrderArgs struct {
	TokenID       string
	Maker         string
	Signer        string   // defaults to Maker
	Taker         string   // defaults to the zero address (open order)
	Salt          *big.Int // required, never generated here
	Expiration    int64
	Nonce         int64
	FeeRateBps    int64
	SignatureType SignatureType
}

// BuildOrder turns a limit intent (side, size, price) into a signable order
// record: tick lookup, raw amount calculation, then fixed-point scaling at
// the collateral token's six decimals.
func BuildOrder(side Side, size, price decimal.Decimal, tickSize string, args OrderArgs) (*Order, error) {
	rc, err := GetRoundConfig(tickSize)
	if err != nil {
		return nil, err
	}
	raw := GetOrderRawAmounts(side, size, price, rc)
	return assemble(raw, args)
}

// BuildMarketOrder is BuildOrder for market intents, where the traded
// quantity is the collateral amount for buys and the price has been resolved
// from book depth.
func BuildMarketOrder(side Side, amount, price decimal.Decimal, tickSize string, args OrderArgs) (*Order, error) {
	rc, err := GetRoundConfig(tickSize)
	if err != nil {
		return nil, err
	}
	raw := GetMarketOrderRawAmounts(side, amount, price, rc)
	return assemble(raw, args)
}

func assemble(raw RawAmounts, args OrderArgs) (*Order, error) {
	if args.Salt == nil {
		return nil, fmt.Errorf("orderbuilder: salt is required")
	}
	tokenID, ok := new(big.Int).SetString(args.TokenID, 10)
	if !ok {
		return nil, fmt.Errorf("orderbuilder: invalid token id %q", args.TokenID)
	}
	signer := args.Signer
	if signer == "" {
		signer = args.Maker
	}
	taker := args.Taker
	if taker == "" {
		taker = ZeroAddress
	}
	return &Order{
		Salt:          args.Salt,
		Maker:         args.Maker,
		Signer:        signer,
		Taker:         taker,
		TokenID:       tokenID,
		MakerAmount:   ParseUnits(raw.MakerAmt, params.CollateralDecimals),
		TakerAmount:   ParseUnits(raw.TakerAmt, params.CollateralDecimals),
		Expiration:    big.NewInt(args.Expiration),
		Nonce:         big.NewInt(args.Nonce),
		FeeRateBps:    big.NewInt(args.FeeRateBps),
		Side:          raw.Side,
		SignatureType: args.SignatureType,
	}, nil
}

// SignedOrder is the wire form of an order plus its signature, serialized the
// way the CLOB API expects it.
type SignedOrder struct {
	Salt          string `json:"salt"`
	Maker         string `json:"maker"`
	Signer        string `json:"signer"`
	Taker         string `json:"taker"`
	TokenID       string `json:"tokenId"`
	MakerAmount   string `json:"makerAmount"`
	TakerAmount   string `json:"takerAmount"`
	Expiration    string `json:"expiration"`
	Nonce         string `json:"nonce"`
	FeeRateBps    string `json:"feeRateBps"`
	Side          string `json:"side"`
	SignatureType int    `json:"signatureType"`
	Signature     string `json:"signature"`
}

// WithSignature renders the order into its wire form.
func (o *Order) WithSignature(signature string) SignedOrder {
	return SignedOrder{
		Salt:          o.Salt.String(),
		Maker:         o.Maker,
		Signer:        o.Signer,
		Taker:         o.Taker,
		TokenID:       o.TokenID.String(),
		MakerAmount:   o.MakerAmount.String(),
		TakerAmount:   o.TakerAmount.String(),
		Expiration:    o.Expiration.String(),
		Nonce:         o.Nonce.String(),
		FeeRateBps:    o.FeeRateBps.String(),
		Side:          o.Side.String(),
		SignatureType: int(o.SignatureType),
		Signature:     signature,
	}
}

// PostOrderPayload is the request body for order submission.
type PostOrderPayload struct {
	Order     SignedOrder `json:"order"`
	Owner     string      `json:"owner"`
	OrderType string      `json:"orderType"`
}
