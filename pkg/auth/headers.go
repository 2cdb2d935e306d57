package auth

import (
	"strconv"

	"github.com/uhyunpark/polyclob/pkg/crypto"
)

// Header names consumed by the CLOB API.
const (
	HeaderAddress    = "POLY_ADDRESS"
	HeaderSignature  = "POLY_SIGNATURE"
	HeaderTimestamp  = "POLY_TIMESTAMP"
	HeaderNonce      = "POLY_NONCE"
	HeaderAPIKey     = "POLY_API_KEY"
	HeaderPassphrase = "POLY_PASSPHRASE"
)

// APICreds is the API key triple returned by the create/derive endpoints and
// required for L2 calls.
type APICreds struct {
	Key        string `json:"key"`
	Secret     string `json:"secret"`
	Passphrase string `json:"passphrase"`
}

// CreateL1Headers builds the session-bootstrap headers: the wallet address
// plus an EIP-712 ClobAuth signature over the supplied timestamp (unix
// seconds) and nonce. The timestamp is an argument, not read from a clock,
// so header generation stays reproducible.
func CreateL1Headers(signer *crypto.Signer, chainID int64, timestamp int64, nonce int64) (map[string]string, error) {
	ts := strconv.FormatInt(timestamp, 10)
	sig, err := crypto.BuildClobAuthSignature(signer, chainID, ts, nonce)
	if err != nil {
		return nil, err
	}
	return map[string]string{
		HeaderAddress:   signer.Address().Hex(),
		HeaderSignature: sig,
		HeaderTimestamp: ts,
		HeaderNonce:     strconv.FormatInt(nonce, 10),
	}, nil
}

// CreateL2Headers builds the authenticated-call headers: an HMAC signature
// over timestamp, method, request path and body, plus the API key material.
func CreateL2Headers(address string, creds APICreds, timestamp int64, method, requestPath, body string) (map[string]string, error) {
	ts := strconv.FormatInt(timestamp, 10)
	sig, err := BuildHmacSignature(creds.Secret, ts, method, requestPath, body)
	if err != nil {
		return nil, err
	}
	return map[string]string{
		HeaderAddress:    address,
		HeaderSignature:  sig,
		HeaderTimestamp:  ts,
		HeaderAPIKey:     creds.Key,
		HeaderPassphrase: creds.Passphrase,
	}, nil
}
