package crypto

import (
	"fmt"
	"strconv"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"

	"github.com/uhyunpark/polyclob/pkg/orderbuilder"
)

// Domain constants for the two typed-data schemas. The auth domain is
// deliberately contract-free: the challenge is not bound to a deployment.
const (
	clobAuthDomainName = "ClobAuthDomain"
	orderDomainName    = "CTF Exchange"
	domainVersion      = "1"
)

// AuthAttestation is the fixed literal a wallet signs to prove control.
const AuthAttestation = "This message attests that I control the given wallet"

// ClobAuthTypedData builds the session-authentication challenge for an
// address. The timestamp (unix seconds) and nonce are caller-supplied so the
// resulting signature is reproducible.
func ClobAuthTypedData(address string, chainID int64, timestamp string, nonce int64) apitypes.TypedData {
	return apitypes.TypedData{
		Types: apitypes.Types{
			"EIP712Domain": []apitypes.Type{
				{Name: "name", Type: "string"},
				{Name: "version", Type: "string"},
				{Name: "chainId", Type: "uint256"},
			},
			"ClobAuth": []apitypes.Type{
				{Name: "address", Type: "address"},
				{Name: "timestamp", Type: "string"},
				{Name: "nonce", Type: "uint256"},
				{Name: "message", Type: "string"},
			},
		},
		PrimaryType: "ClobAuth",
		Domain: apitypes.TypedDataDomain{
			Name:    clobAuthDomainName,
			Version: domainVersion,
			ChainId: math.NewHexOrDecimal256(chainID),
		},
		Message: apitypes.TypedDataMessage{
			"address":   address,
			"timestamp": timestamp,
			"nonce":     strconv.FormatInt(nonce, 10),
			"message":   AuthAttestation,
		},
	}
}

// OrderTypedData builds the typed-data document for an order against the
// exchange deployment on the given chain. Every uint256 field is carried as
// its base-10 string.
func OrderTypedData(o *orderbuilder.Order, chainID int64, exchangeAddress string) apitypes.TypedData {
	return apitypes.TypedData{
		Types: apitypes.Types{
			"EIP712Domain": []apitypes.Type{
				{Name: "name", Type: "string"},
				{Name: "version", Type: "string"},
				{Name: "chainId", Type: "uint256"},
				{Name: "verifyingContract", Type: "address"},
			},
			"Order": []apitypes.Type{
				{Name: "salt", Type: "uint256"},
				{Name: "maker", Type: "address"},
				{Name: "signer", Type: "address"},
				{Name: "taker", Type: "address"},
				{Name: "tokenId", Type: "uint256"},
				{Name: "makerAmount", Type: "uint256"},
				{Name: "takerAmount", Type: "uint256"},
				{Name: "expiration", Type: "uint256"},
				{Name: "nonce", Type: "uint256"},
				{Name: "feeRateBps", Type: "uint256"},
				{Name: "side", Type: "uint8"},
				{Name: "signatureType", Type: "uint8"},
			},
		},
		PrimaryType: "Order",
		Domain: apitypes.TypedDataDomain{
			Name:              orderDomainName,
			Version:           domainVersion,
			ChainId:           math.NewHexOrDecimal256(chainID),
			VerifyingContract: exchangeAddress,
		},
		Message: apitypes.TypedDataMessage{
			"salt":          o.Salt.String(),
			"maker":         o.Maker,
			"signer":        o.Signer,
			"taker":         o.Taker,
			"tokenId":       o.TokenID.String(),
			"makerAmount":   o.MakerAmount.String(),
			"takerAmount":   o.TakerAmount.String(),
			"expiration":    o.Expiration.String(),
			"nonce":         o.Nonce.String(),
			"feeRateBps":    o.FeeRateBps.String(),
			"side":          strconv.Itoa(int(o.Side)),
			"signatureType": strconv.Itoa(int(o.SignatureType)),
		},
	}
}

// HashTypedData computes the EIP-712 digest
// keccak256("\x19\x01" || domainSeparator || hashStruct(message)).
func HashTypedData(typedData apitypes.TypedData) ([]byte, error) {
	domainSeparator, err := typedData.HashStruct("EIP712Domain", typedData.Domain.Map())
	if err != nil {
		return nil, fmt.Errorf("failed to hash domain: %w", err)
	}
	messageHash, err := typedData.HashStruct(typedData.PrimaryType, typedData.Message)
	if err != nil {
		return nil, fmt.Errorf("failed to hash message: %w", err)
	}
	rawData := make([]byte, 0, 2+len(domainSeparator)+len(messageHash))
	rawData = append(rawData, 0x19, 0x01)
	rawData = append(rawData, domainSeparator...)
	rawData = append(rawData, messageHash...)
	digest := crypto.Keccak256Hash(rawData)
	return digest.Bytes(), nil
}

// SignTypedData hashes and signs a typed-data document, returning the hex
// signature (0x + 65 bytes r,s,v).
func (s *Signer) SignTypedData(typedData apitypes.TypedData) (string, error) {
	digest, err := HashTypedData(typedData)
	if err != nil {
		return "", err
	}
	signature, err := s.Sign(digest)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("0x%x", signature), nil
}

// BuildClobAuthSignature signs the session-authentication challenge for the
// signer's own address.
func BuildClobAuthSignature(s *Signer, chainID int64, timestamp string, nonce int64) (string, error) {
	typedData := ClobAuthTypedData(s.Address().Hex(), chainID, timestamp, nonce)
	return s.SignTypedData(typedData)
}

// SignOrder signs an order record for the exchange contract on a chain.
func SignOrder(s *Signer, o *orderbuilder.Order, chainID int64, exchangeAddress string) (string, error) {
	typedData := OrderTypedData(o, chainID, exchangeAddress)
	return s.SignTypedData(typedData)
}
