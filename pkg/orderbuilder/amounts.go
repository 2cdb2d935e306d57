package orderbuilder

import (
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/uhyunpark/polyclob/pkg/rounding"
)

// Side of a trade from the order creator's perspective.
type Side int

const (
	Buy Side = iota
	Sell
)

func (s Side) String() string {
	if s == Buy {
		return "BUY"
	}
	return "SELL"
}

// divisionDigits matches the quotient precision of the upstream client's
// decimal division before the rounding cascade is applied.
const divisionDigits = 28

// RawAmounts is the decimal maker/taker quantity pair produced by the amount
// calculators, prior to fixed-point scaling.
type RawAmounts struct {
	Side     Side
	MakerAmt decimal.Decimal
	TakerAmt decimal.Decimal
}

// GetOrderRawAmounts computes the maker/taker amounts for a limit order.
// The price is rounded to the tick's resolution half-away-from-zero, the size
// is floored at the size ceiling, and the derived amount side is pushed
// through the two-stage cascade.
func GetOrderRawAmounts(side Side, size, price decimal.Decimal, rc RoundConfig) RawAmounts {
	rawPrice := rounding.RoundNormal(price, rc.Price)

	if side == Buy {
		rawTakerAmt := rounding.RoundDown(size, rc.Size)
		rawMakerAmt := rawTakerAmt.Mul(rawPrice)
		rawMakerAmt = capAmount(rawMakerAmt, rc)
		return RawAmounts{Side: Buy, MakerAmt: rawMakerAmt, TakerAmt: rawTakerAmt}
	}

	rawMakerAmt := rounding.RoundDown(size, rc.Size)
	rawTakerAmt := rawMakerAmt.Mul(rawPrice)
	rawTakerAmt = capAmount(rawTakerAmt, rc)
	return RawAmounts{Side: Sell, MakerAmt: rawMakerAmt, TakerAmt: rawTakerAmt}
}

// GetMarketOrderRawAmounts computes the maker/taker amounts for a market
// order. The price discovered from depth is floored (never rounded toward the
// counterparty), and for a buy the traded quantity denotes collateral spent,
// so the taker side comes from division.
func GetMarketOrderRawAmounts(side Side, amount, price decimal.Decimal, rc RoundConfig) RawAmounts {
	rawPrice := rounding.RoundDown(price, rc.Price)
	rawMakerAmt := rounding.RoundDown(amount, rc.Size)

	if side == Buy {
		rawTakerAmt := rawMakerAmt.DivRound(rawPrice, divisionDigits)
		rawTakerAmt = capAmount(rawTakerAmt, rc)
		return RawAmounts{Side: Buy, MakerAmt: rawMakerAmt, TakerAmt: rawTakerAmt}
	}

	rawTakerAmt := rawMakerAmt.Mul(rawPrice)
	rawTakerAmt = capAmount(rawTakerAmt, rc)
	return RawAmounts{Side: Sell, MakerAmt: rawMakerAmt, TakerAmt: rawTakerAmt}
}

// capAmount enforces the amount-digit ceiling. The two stages are deliberate:
// rounding up at Amount+4 first hands the rounding remainder to the
// counterparty, and only if the value still carries excess digits is it
// truncated at the hard ceiling. Collapsing this into a single round changes
// which party absorbs the remainder.
func capAmount(amt decimal.Decimal, rc RoundConfig) decimal.Decimal {
	if rounding.DecimalPlaces(amt) > rc.Amount {
		amt = rounding.RoundUp(amt, rc.Amount+4)
		if rounding.DecimalPlaces(amt) > rc.Amount {
			amt = rounding.RoundDown(amt, rc.Amount)
		}
	}
	return amt
}

// ParseUnits scales a decimal quantity to a fixed-point integer at the given
// number of decimals, rounding half away from zero at the integer boundary.
// ParseUnits(50, 6) == 50_000_000.
func ParseUnits(amount decimal.Decimal, decimals int32) *big.Int {
	return amount.Shift(decimals).Round(0).BigInt()
}

// PriceValid reports whether a price sits inside the valid band
// [tick, 1-tick] for the market's tick size.
func PriceValid(price decimal.Decimal, tickSize string) (bool, error) {
	if _, err := GetRoundConfig(tickSize); err != nil {
		return false, err
	}
	tick, err := decimal.NewFromString(tickSize)
	if err != nil {
		return false, err
	}
	one := decimal.NewFromInt(1)
	return price.GreaterThanOrEqual(tick) && price.LessThanOrEqual(one.Sub(tick)), nil
}
