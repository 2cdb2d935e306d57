// Package auth produces the authentication material for CLOB API calls:
// EIP-712 session signatures for L1 headers and HMAC request signatures for
// L2 headers.
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedSecret is returned when an API secret yields no key material.
var ErrMalformedSecret = errors.New("auth: malformed secret")

// BuildHmacSignature computes the L2 request signature: HMAC-SHA256 over
// timestamp+method+path+body (no delimiters), keyed by the decoded API
// secret, base64url-encoded. Secrets are accepted in base64 or base64url
// form; characters outside the base64 alphabet are stripped for backward
// compatibility and padding is restored before decoding.
func BuildHmacSignature(secret, timestamp, method, requestPath, body string) (string, error) {
	key, err := decodeSecret(secret)
	if err != nil {
		return "", err
	}

	message := timestamp + method + requestPath + body
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(message))

	sig := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	sig = strings.ReplaceAll(sig, "+", "-")
	sig = strings.ReplaceAll(sig, "/", "_")
	return sig, nil
}

func decodeSecret(secret string) ([]byte, error) {
	// base64url -> base64
	s := strings.ReplaceAll(secret, "-", "+")
	s = strings.ReplaceAll(s, "_", "/")

	// drop anything outside the base64 alphabet
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9',
			c == '+', c == '/', c == '=':
			b.WriteByte(c)
		}
	}
	s = b.String()

	switch len(s) % 4 {
	case 2:
		s += "=="
	case 3:
		s += "="
	}

	key, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSecret, err)
	}
	if len(key) == 0 {
		return nil, fmt.Errorf("%w: secret decodes to no key material", ErrMalformedSecret)
	}
	return key, nil
}
