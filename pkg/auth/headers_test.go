package auth

import (
	"testing"

	"github.com/uhyunpark/polyclob/params"
	"github.com/uhyunpark/polyclob/pkg/crypto"
)

const (
	testPrivateKey = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	testAddress    = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
)

func TestCreateL1Headers(t *testing.T) {
	signer, err := crypto.FromPrivateKeyHex(testPrivateKey)
	if err != nil {
		t.Fatal(err)
	}

	headers, err := CreateL1Headers(signer, params.ChainAmoy, 10000000, 23)
	if err != nil {
		t.Fatalf("CreateL1Headers: %v", err)
	}
	if headers[HeaderAddress] != testAddress {
		t.Errorf("address = %s", headers[HeaderAddress])
	}
	if headers[HeaderTimestamp] != "10000000" {
		t.Errorf("timestamp = %s", headers[HeaderTimestamp])
	}
	if headers[HeaderNonce] != "23" {
		t.Errorf("nonce = %s", headers[HeaderNonce])
	}
	wantSig := "0xf62319a987514da40e57e2f4d7529f7bac38f0355bd88bb5adbb3768d80de6c1682518e0af677d5260366425f4361e7b70c25ae232aff0ab2331e2b164a1aedc1b"
	if headers[HeaderSignature] != wantSig {
		t.Errorf("signature = %s, want %s", headers[HeaderSignature], wantSig)
	}
}

func TestCreateL1HeadersDefaultNonce(t *testing.T) {
	signer, err := crypto.FromPrivateKeyHex(testPrivateKey)
	if err != nil {
		t.Fatal(err)
	}
	headers, err := CreateL1Headers(signer, params.ChainAmoy, 10000000, 0)
	if err != nil {
		t.Fatal(err)
	}
	if headers[HeaderNonce] != "0" {
		t.Errorf("nonce = %s, want 0", headers[HeaderNonce])
	}
}

func TestCreateL2Headers(t *testing.T) {
	creds := APICreds{
		Key:        "000000000-0000-0000-0000-000000000000",
		Secret:     cleanSecret,
		Passphrase: "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
	}

	headers, err := CreateL2Headers(testAddress, creds, 1000000, "test-sign", "/orders", `{"hash": "0x123"}`)
	if err != nil {
		t.Fatalf("CreateL2Headers: %v", err)
	}
	if headers[HeaderAddress] != testAddress {
		t.Errorf("address = %s", headers[HeaderAddress])
	}
	if headers[HeaderAPIKey] != creds.Key {
		t.Errorf("api key = %s", headers[HeaderAPIKey])
	}
	if headers[HeaderPassphrase] != creds.Passphrase {
		t.Errorf("passphrase = %s", headers[HeaderPassphrase])
	}
	if headers[HeaderSignature] != "ZwAdJKvoYRlEKDkNMwd5BuwNNtg93kNaR_oU2HrfVvc=" {
		t.Errorf("signature = %s", headers[HeaderSignature])
	}

	if _, err := CreateL2Headers(testAddress, APICreds{}, 1000000, "GET", "/order", ""); err == nil {
		t.Error("empty secret accepted")
	}
}
