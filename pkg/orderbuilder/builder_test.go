package orderbuilder

import (
	"encoding/json"
	"errors"
	"math/big"
	"testing"
)

const testToken = "71321045679252212594626385532706912750332728571942532289631379312455583992563"

func TestBuildOrder(t *testing.T) {
	args := OrderArgs{
		TokenID:       testToken,
		Maker:         "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266",
		Salt:          big.NewInt(1000),
		Nonce:         0,
		SignatureType: SignatureEOA,
	}

	order, err := BuildOrder(Buy, dec("100"), dec("0.5"), "0.1", args)
	if err != nil {
		t.Fatalf("BuildOrder: %v", err)
	}
	if order.MakerAmount.String() != "50000000" {
		t.Errorf("maker amount = %s, want 50000000", order.MakerAmount)
	}
	if order.TakerAmount.String() != "100000000" {
		t.Errorf("taker amount = %s, want 100000000", order.TakerAmount)
	}
	if order.Signer != args.Maker {
		t.Errorf("signer defaulted to %s, want maker", order.Signer)
	}
	if order.Taker != ZeroAddress {
		t.Errorf("taker defaulted to %s, want zero address", order.Taker)
	}
	if order.TokenID.String() != testToken {
		t.Errorf("token id = %s", order.TokenID)
	}
}

func TestBuildMarketOrder(t *testing.T) {
	args := OrderArgs{
		TokenID: testToken,
		Maker:   "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266",
		Salt:    big.NewInt(1000),
	}

	order, err := BuildMarketOrder(Buy, dec("100"), dec("0.05"), "0.01", args)
	if err != nil {
		t.Fatalf("BuildMarketOrder: %v", err)
	}
	if order.MakerAmount.String() != "100000000" {
		t.Errorf("maker amount = %s, want 100000000", order.MakerAmount)
	}
	if order.TakerAmount.String() != "2000000000" {
		t.Errorf("taker amount = %s, want 2000000000", order.TakerAmount)
	}
}

func TestBuildOrderErrors(t *testing.T) {
	args := OrderArgs{TokenID: testToken, Maker: "0x01", Salt: big.NewInt(1)}

	if _, err := BuildOrder(Buy, dec("1"), dec("0.5"), "0.2", args); !errors.Is(err, ErrUnsupportedTickSize) {
		t.Errorf("bad tick err = %v", err)
	}

	noSalt := args
	noSalt.Salt = nil
	if _, err := BuildOrder(Buy, dec("1"), dec("0.5"), "0.1", noSalt); err == nil {
		t.Error("missing salt accepted")
	}

	badToken := args
	badToken.TokenID = "not-a-number"
	if _, err := BuildOrder(Buy, dec("1"), dec("0.5"), "0.1", badToken); err == nil {
		t.Error("invalid token id accepted")
	}
}

func TestSignedOrderWire(t *testing.T) {
	args := OrderArgs{
		TokenID:       "1",
		Maker:         "0x0000000000000000000000000000000000000001",
		Signer:        "0x0000000000000000000000000000000000000002",
		Taker:         "0x0000000000000000000000000000000000000003",
		Salt:          big.NewInt(1000),
		Nonce:         1,
		FeeRateBps:    100,
		SignatureType: SignatureGnosisSafe,
	}
	order, err := BuildOrder(Buy, dec("100"), dec("0.5"), "0.1", args)
	if err != nil {
		t.Fatal(err)
	}
	signed := order.WithSignature("0x")
	payload := PostOrderPayload{Order: signed, Owner: "aaaa-bbbb-cccc-dddd", OrderType: string(GTC)}

	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatal(err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded["owner"] != "aaaa-bbbb-cccc-dddd" || decoded["orderType"] != "GTC" {
		t.Errorf("payload envelope = %v", decoded)
	}
	ord := decoded["order"].(map[string]any)
	if ord["side"] != "BUY" {
		t.Errorf("side = %v, want BUY", ord["side"])
	}
	if ord["makerAmount"] != "50000000" || ord["takerAmount"] != "100000000" {
		t.Errorf("amounts = %v / %v", ord["makerAmount"], ord["takerAmount"])
	}
	if ord["signatureType"] != float64(2) {
		t.Errorf("signatureType = %v", ord["signatureType"])
	}
}
