// Command sign-order builds and signs an order offline, printing the exact
// request body and headers an order submission would carry. Useful for
// checking signatures without touching the API.
package main

import (
	"encoding/json"
	"fmt"
	"math/big"
	"os"

	"github.com/shopspring/decimal"

	"github.com/uhyunpark/polyclob/params"
	"github.com/uhyunpark/polyclob/pkg/auth"
	"github.com/uhyunpark/polyclob/pkg/crypto"
	"github.com/uhyunpark/polyclob/pkg/orderbuilder"
)

func main() {
	// Step 1: Load key from environment, or generate a throwaway one
	creds := params.CredentialsFromEnv()
	var signer *crypto.Signer
	var err error
	if creds.PrivateKey != "" {
		signer, err = crypto.FromPrivateKeyHex(creds.PrivateKey)
	} else {
		fmt.Println("POLY_PRIVATE_KEY not set, generating a throwaway key...")
		signer, err = crypto.GenerateKey()
	}
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Address: %s\n\n", signer.Address().Hex())

	// Step 2: Build a limit order: buy 100 shares at 0.50 on a 0.01 market
	args := orderbuilder.OrderArgs{
		TokenID: "71321045679252212594626385532706912750332728571942532289631379312455583992563",
		Maker:   signer.Address().Hex(),
		Salt:    big.NewInt(1000),
	}
	order, err := orderbuilder.BuildOrder(
		orderbuilder.Buy,
		decimal.RequireFromString("100"),
		decimal.RequireFromString("0.5"),
		"0.01",
		args,
	)
	if err != nil {
		fmt.Printf("Error building order: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Order Details:")
	fmt.Printf("  Side: %s\n", order.Side)
	fmt.Printf("  MakerAmount: %s\n", order.MakerAmount.String())
	fmt.Printf("  TakerAmount: %s\n", order.TakerAmount.String())
	fmt.Printf("  TokenId: %s\n\n", order.TokenID.String())

	// Step 3: Sign against the Amoy exchange deployment
	exchange, err := params.ExchangeAddress(params.ChainAmoy, false)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	signature, err := crypto.SignOrder(signer, order, params.ChainAmoy, exchange)
	if err != nil {
		fmt.Printf("Error signing: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Signature: %s\n\n", signature)

	// Step 4: Render the submission body
	payload := orderbuilder.PostOrderPayload{
		Order:     order.WithSignature(signature),
		Owner:     creds.APIKey,
		OrderType: string(orderbuilder.GTC),
	}
	body, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		fmt.Printf("Error marshaling JSON: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Request Body (POST /order):")
	fmt.Println(string(body))
	fmt.Println()

	// Step 5: Show the L1 auth headers for the same wallet
	headers, err := auth.CreateL1Headers(signer, params.ChainAmoy, 10000000, 0)
	if err != nil {
		fmt.Printf("Error building headers: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("L1 Headers (for /auth/api-key):")
	for k, v := range headers {
		fmt.Printf("  %s: %s\n", k, v)
	}
}
