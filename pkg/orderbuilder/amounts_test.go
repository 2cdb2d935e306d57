package orderbuilder

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/uhyunpark/polyclob/pkg/rounding"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestGetRoundConfig(t *testing.T) {
	for _, tick := range SupportedTickSizes() {
		if _, err := GetRoundConfig(tick); err != nil {
			t.Errorf("GetRoundConfig(%s): %v", tick, err)
		}
	}
	want := map[string]RoundConfig{
		"0.1":    {1, 2, 3},
		"0.01":   {2, 2, 4},
		"0.001":  {3, 2, 5},
		"0.0001": {4, 2, 6},
	}
	for tick, rc := range want {
		got, _ := GetRoundConfig(tick)
		if got != rc {
			t.Errorf("GetRoundConfig(%s) = %+v, want %+v", tick, got, rc)
		}
	}
	if _, err := GetRoundConfig("0.05"); !errors.Is(err, ErrUnsupportedTickSize) {
		t.Errorf("GetRoundConfig(0.05) err = %v, want ErrUnsupportedTickSize", err)
	}
}

func TestGetOrderRawAmountsBuy(t *testing.T) {
	rc, _ := GetRoundConfig("0.1")
	cases := []struct {
		price, size, maker, taker string
	}{
		{"0.5", "100", "50", "100"},
		{"0.8", "100", "80", "100"},
		{"0.1", "50", "5", "50"},
	}
	for _, c := range cases {
		got := GetOrderRawAmounts(Buy, dec(c.size), dec(c.price), rc)
		if got.Side != Buy {
			t.Errorf("side = %v", got.Side)
		}
		if !got.MakerAmt.Equal(dec(c.maker)) || !got.TakerAmt.Equal(dec(c.taker)) {
			t.Errorf("buy %s@%s = (%s, %s), want (%s, %s)",
				c.size, c.price, got.MakerAmt, got.TakerAmt, c.maker, c.taker)
		}
	}
}

func TestGetOrderRawAmountsSell(t *testing.T) {
	rc, _ := GetRoundConfig("0.1")
	cases := []struct {
		price, size, maker, taker string
	}{
		{"0.5", "100", "100", "50"},
		{"0.8", "100", "100", "80"},
		{"0.1", "50", "50", "5"},
	}
	for _, c := range cases {
		got := GetOrderRawAmounts(Sell, dec(c.size), dec(c.price), rc)
		if got.Side != Sell {
			t.Errorf("side = %v", got.Side)
		}
		if !got.MakerAmt.Equal(dec(c.maker)) || !got.TakerAmt.Equal(dec(c.taker)) {
			t.Errorf("sell %s@%s = (%s, %s), want (%s, %s)",
				c.size, c.price, got.MakerAmt, got.TakerAmt, c.maker, c.taker)
		}
	}
}

func TestGetMarketOrderRawAmounts(t *testing.T) {
	rc01, _ := GetRoundConfig("0.1")
	rc001, _ := GetRoundConfig("0.01")

	// Buy spends collateral, so the taker side comes from division.
	got := GetMarketOrderRawAmounts(Buy, dec("100"), dec("0.5"), rc01)
	if !got.MakerAmt.Equal(dec("100")) || !got.TakerAmt.Equal(dec("200")) {
		t.Errorf("market buy 100@0.5 = (%s, %s), want (100, 200)", got.MakerAmt, got.TakerAmt)
	}
	got = GetMarketOrderRawAmounts(Buy, dec("100"), dec("0.05"), rc001)
	if !got.MakerAmt.Equal(dec("100")) || !got.TakerAmt.Equal(dec("2000")) {
		t.Errorf("market buy 100@0.05 = (%s, %s), want (100, 2000)", got.MakerAmt, got.TakerAmt)
	}

	got = GetMarketOrderRawAmounts(Sell, dec("100"), dec("0.5"), rc01)
	if !got.MakerAmt.Equal(dec("100")) || !got.TakerAmt.Equal(dec("50")) {
		t.Errorf("market sell 100@0.5 = (%s, %s), want (100, 50)", got.MakerAmt, got.TakerAmt)
	}
}

func TestMarketBuyDigitCascade(t *testing.T) {
	// 100 / 0.3 repeats forever; the cascade rounds up at Amount+4 digits and
	// then truncates at the Amount ceiling.
	rc, _ := GetRoundConfig("0.01")
	got := GetMarketOrderRawAmounts(Buy, dec("100"), dec("0.3"), rc)
	if !got.TakerAmt.Equal(dec("333.3333")) {
		t.Errorf("taker = %s, want 333.3333", got.TakerAmt)
	}
	if rounding.DecimalPlaces(got.TakerAmt) > rc.Amount {
		t.Errorf("taker %s exceeds %d decimal places", got.TakerAmt, rc.Amount)
	}
}

// For sizes and prices already at the tick's resolution the digit ceilings
// hold exactly and the realized price never crosses the limit price in the
// maker's favor.
func TestRawAmountInvariants(t *testing.T) {
	sizes := []string{"0.01", "1", "1.55", "22.33", "100", "999.99"}
	for _, tick := range SupportedTickSizes() {
		rc, _ := GetRoundConfig(tick)
		step := dec(tick)
		one := decimal.NewFromInt(1)
		for price := step; price.LessThan(one); price = price.Add(step) {
			for _, sz := range sizes {
				size := dec(sz)
				rawPrice := rounding.RoundNormal(price, rc.Price)

				buy := GetOrderRawAmounts(Buy, size, price, rc)
				if rounding.DecimalPlaces(buy.MakerAmt) > rc.Amount {
					t.Fatalf("tick %s buy %s@%s: maker %s exceeds %d places",
						tick, sz, price, buy.MakerAmt, rc.Amount)
				}
				if rounding.DecimalPlaces(buy.TakerAmt) > rc.Size {
					t.Fatalf("tick %s buy %s@%s: taker %s exceeds %d places",
						tick, sz, price, buy.TakerAmt, rc.Size)
				}
				if buy.TakerAmt.IsPositive() {
					realized := rounding.RoundNormal(buy.MakerAmt.DivRound(buy.TakerAmt, 16), rc.Price)
					if realized.LessThan(rawPrice) {
						t.Fatalf("tick %s buy %s@%s: realized %s < limit %s",
							tick, sz, price, realized, rawPrice)
					}
				}

				sell := GetOrderRawAmounts(Sell, size, price, rc)
				if rounding.DecimalPlaces(sell.TakerAmt) > rc.Amount {
					t.Fatalf("tick %s sell %s@%s: taker %s exceeds %d places",
						tick, sz, price, sell.TakerAmt, rc.Amount)
				}
				if rounding.DecimalPlaces(sell.MakerAmt) > rc.Size {
					t.Fatalf("tick %s sell %s@%s: maker %s exceeds %d places",
						tick, sz, price, sell.MakerAmt, rc.Size)
				}
				if sell.MakerAmt.IsPositive() {
					realized := rounding.RoundNormal(sell.TakerAmt.DivRound(sell.MakerAmt, 16), rc.Price)
					if realized.GreaterThan(rawPrice) {
						t.Fatalf("tick %s sell %s@%s: realized %s > limit %s",
							tick, sz, price, realized, rawPrice)
					}
				}
			}
		}
	}
}

func TestParseUnits(t *testing.T) {
	cases := []struct {
		in       string
		decimals int32
		want     string
	}{
		{"50", 6, "50000000"},
		{"0.123456", 6, "123456"},
		{"333.3333", 6, "333333300"},
		{"0", 6, "0"},
		{"1", 18, "1000000000000000000"},
	}
	for _, c := range cases {
		got := ParseUnits(dec(c.in), c.decimals)
		if got.String() != c.want {
			t.Errorf("ParseUnits(%s, %d) = %s, want %s", c.in, c.decimals, got, c.want)
		}
	}
}

func TestPriceValid(t *testing.T) {
	cases := []struct {
		price, tick string
		want        bool
	}{
		{"0.00001", "0.0001", false},
		{"0.0001", "0.0001", true},
		{"0.9999", "0.0001", true},
		{"0.99999", "0.0001", false},
		{"0.0001", "0.001", false},
		{"0.001", "0.001", true},
		{"0.999", "0.001", true},
		{"0.9999", "0.001", false},
		{"0.001", "0.01", false},
		{"0.01", "0.01", true},
		{"0.99", "0.01", true},
		{"0.999", "0.01", false},
		{"0.01", "0.1", false},
		{"0.1", "0.1", true},
		{"0.9", "0.1", true},
		{"0.99", "0.1", false},
	}
	for _, c := range cases {
		got, err := PriceValid(dec(c.price), c.tick)
		if err != nil {
			t.Fatalf("PriceValid(%s, %s): %v", c.price, c.tick, err)
		}
		if got != c.want {
			t.Errorf("PriceValid(%s, %s) = %v, want %v", c.price, c.tick, got, c.want)
		}
	}
	if _, err := PriceValid(dec("0.5"), "0.2"); !errors.Is(err, ErrUnsupportedTickSize) {
		t.Errorf("unsupported tick err = %v", err)
	}
}
