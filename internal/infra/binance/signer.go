package binance

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"momentum_go/internal/domain"
)

// Param is one query parameter. Parameters are supplied as an ordered
// slice, not a map: the exchange verifies the signature against the exact
// byte order of the query string, so insertion order is part of the
// signing contract.
type Param struct {
	Key   string
	Value string
}

// SignedQuery is the canonical query string plus its signature; it lives
// for the single HTTP call it authenticates.
type SignedQuery struct {
	Canonical string
	Signature string // lowercase hex
}

// Query returns the full wire query: canonical + "&signature=<hex>".
func (s SignedQuery) Query() string {
	return s.Canonical + "&signature=" + s.Signature
}

// Signer produces signed query strings for private endpoints.
// The secret is held as []byte so it can be wiped after use.
type Signer struct {
	secret []byte
}

// NewSigner creates a signer. An empty secret is a configuration error:
// it must surface before any network call, never as a runtime signing
// failure.
func NewSigner(secret string) (*Signer, error) {
	if secret == "" {
		return nil, &domain.ConfigError{Field: "api.secret_key is required for signing"}
	}
	return &Signer{secret: []byte(secret)}, nil
}

// Sign canonicalizes params in the given order and signs the result.
// Values are concatenated as-is; no URL-encoding is applied beyond what
// the values already contain. That is intentional wire compatibility with
// the exchange's signature check, not an oversight.
func (s *Signer) Sign(params []Param) SignedQuery {
	var b strings.Builder
	for i, p := range params {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(p.Key)
		b.WriteByte('=')
		b.WriteString(p.Value)
	}
	canonical := b.String()

	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(canonical))

	return SignedQuery{
		Canonical: canonical,
		Signature: hex.EncodeToString(mac.Sum(nil)),
	}
}

// Wipe clears the secret from memory.
func (s *Signer) Wipe() {
	if s == nil {
		return
	}
	for i := range s.secret {
		s.secret[i] = 0
	}
}
