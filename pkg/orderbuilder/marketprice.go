package orderbuilder

import "github.com/shopspring/decimal"

// Level is one price level of book depth, as returned by the CLOB API.
type Level struct {
	Price decimal.Decimal
	Size  decimal.Decimal
}

// OrderType is the time-in-force of an order.
type OrderType string

const (
	GTC OrderType = "GTC" // good till cancelled
	GTD OrderType = "GTD" // good till date
	FOK OrderType = "FOK" // fill or kill
	FAK OrderType = "FAK" // fill and kill
)

// CalculateBuyMarketPrice resolves the clearing price for a market buy by
// walking ask levels best-first and accumulating notional (price*size) until
// the collateral amount to spend is covered. If depth runs out, a FOK order
// fails with ErrNoMatch; any other type clears at the best level.
func CalculateBuyMarketPrice(asks []Level, amountToMatch decimal.Decimal, orderType OrderType) (decimal.Decimal, error) {
	if len(asks) == 0 {
		return decimal.Zero, ErrNoMatch
	}
	sum := decimal.Zero
	for _, l := range asks {
		sum = sum.Add(l.Size.Mul(l.Price))
		if sum.GreaterThanOrEqual(amountToMatch) {
			return l.Price, nil
		}
	}
	if orderType == FOK {
		return decimal.Zero, ErrNoMatch
	}
	return asks[0].Price, nil
}

// CalculateSellMarketPrice resolves the clearing price for a market sell by
// walking bid levels best-first and accumulating raw size until the quantity
// to sell is covered. Exhausted depth fails FOK orders and clears everything
// else at the best level.
func CalculateSellMarketPrice(bids []Level, amountToMatch decimal.Decimal, orderType OrderType) (decimal.Decimal, error) {
	if len(bids) == 0 {
		return decimal.Zero, ErrNoMatch
	}
	sum := decimal.Zero
	for _, l := range bids {
		sum = sum.Add(l.Size)
		if sum.GreaterThanOrEqual(amountToMatch) {
			return l.Price, nil
		}
	}
	if orderType == FOK {
		return decimal.Zero, ErrNoMatch
	}
	return bids[0].Price, nil
}

// CalculateMarketPrice dispatches to the buy or sell resolver. Buys consume
// asks, sells consume bids; levels must be ordered best price first.
func CalculateMarketPrice(side Side, bids, asks []Level, amountToMatch decimal.Decimal, orderType OrderType) (decimal.Decimal, error) {
	if side == Buy {
		return CalculateBuyMarketPrice(asks, amountToMatch, orderType)
	}
	return CalculateSellMarketPrice(bids, amountToMatch, orderType)
}
