// Package params holds the immutable chain and credential configuration for
// the CLOB client. Contract tables are fixed at compile time; credentials are
// loaded from the environment.
package params

import (
	"errors"
	"os"

	"github.com/joho/godotenv"
)

// Supported chain IDs.
const (
	ChainPolygon int64 = 137
	ChainAmoy    int64 = 80002
)

// CollateralDecimals is the fixed-point scale of the collateral token (USDC).
const CollateralDecimals = 6

// ErrInvalidChain is returned when a chain ID has no contract configuration.
var ErrInvalidChain = errors.New("params: invalid chain id")

// ContractConfig is the set of deployed contract addresses for one chain.
type ContractConfig struct {
	Exchange          string
	NegRiskAdapter    string
	NegRiskExchange   string
	Collateral        string
	ConditionalTokens string
}

var polygonContracts = ContractConfig{
	Exchange:          "0x4bFb41d5B3570DeFd03C39a9A4D8dE6Bd8B8982E",
	NegRiskAdapter:    "0xd91E80cF2E7be2e162c6513ceD06f1dD0dA35296",
	NegRiskExchange:   "0xC5d563A36AE78145C45a50134d48A1215220f80a",
	Collateral:        "0x2791Bca1f2de4661ED88A30C99A7a9449Aa84174",
	ConditionalTokens: "0x4D97DCd97eC945f40cF65F87097ACe5EA0476045",
}

var amoyContracts = ContractConfig{
	Exchange:          "0xdFE02Eb6733538f8Ea35D585af8DE5958AD99E40",
	NegRiskAdapter:    "0xd91E80cF2E7be2e162c6513ceD06f1dD0dA35296",
	NegRiskExchange:   "0xC5d563A36AE78145C45a50134d48A1215220f80a",
	Collateral:        "0x9c4e1703476e875070ee25b56a58b008cfb8fa78",
	ConditionalTokens: "0x69308FB512518e39F9b16112fA8d994F4e2Bf8bB",
}

// Contracts returns the contract configuration for a chain ID.
func Contracts(chainID int64) (ContractConfig, error) {
	switch chainID {
	case ChainPolygon:
		return polygonContracts, nil
	case ChainAmoy:
		return amoyContracts, nil
	default:
		return ContractConfig{}, ErrInvalidChain
	}
}

// ExchangeAddress resolves the verifying contract for order signing on a
// chain. Neg-risk markets settle through a separate exchange deployment.
func ExchangeAddress(chainID int64, negRisk bool) (string, error) {
	cfg, err := Contracts(chainID)
	if err != nil {
		return "", err
	}
	if negRisk {
		return cfg.NegRiskExchange, nil
	}
	return cfg.Exchange, nil
}

// Credentials is the material needed to authenticate against the CLOB API.
// PrivateKey drives L1 (EIP-712) auth; the API key triple drives L2 (HMAC).
type Credentials struct {
	PrivateKey string
	APIKey     string
	Secret     string
	Passphrase string
}

// CredentialsFromEnv loads credentials from the environment, reading a .env
// file first if one is present.
func CredentialsFromEnv() Credentials {
	_ = godotenv.Load()
	return Credentials{
		PrivateKey: os.Getenv("POLY_PRIVATE_KEY"),
		APIKey:     os.Getenv("POLY_API_KEY"),
		Secret:     os.Getenv("POLY_SECRET"),
		Passphrase: os.Getenv("POLY_PASSPHRASE"),
	}
}
