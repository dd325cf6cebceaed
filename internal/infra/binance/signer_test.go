package binance

import (
	"strings"
	"testing"
)

func TestSigner_Deterministic(t *testing.T) {
	signer, err := NewSigner("secret")
	if err != nil {
		t.Fatal(err)
	}

	params := []Param{{"a", "1"}, {"b", "2"}}
	first := signer.Sign(params)
	second := signer.Sign(params)

	if first.Query() != second.Query() {
		t.Errorf("signing is not deterministic: %s vs %s", first.Query(), second.Query())
	}
	if first.Canonical != "a=1&b=2" {
		t.Errorf("unexpected canonical string: %s", first.Canonical)
	}
}

func TestSigner_ValueChangesSignature(t *testing.T) {
	signer, _ := NewSigner("secret")

	base := signer.Sign([]Param{{"a", "1"}, {"b", "2"}})
	changed := signer.Sign([]Param{{"a", "1"}, {"b", "3"}})

	if base.Signature == changed.Signature {
		t.Error("changing a parameter value must change the signature")
	}
}

func TestSigner_OrderIsPartOfContract(t *testing.T) {
	signer, _ := NewSigner("secret")

	ab := signer.Sign([]Param{{"a", "1"}, {"b", "2"}})
	ba := signer.Sign([]Param{{"b", "2"}, {"a", "1"}})

	if ab.Signature == ba.Signature {
		t.Error("parameter order must affect the signature")
	}
}

func TestSigner_KnownVector(t *testing.T) {
	// Exchange API docs example: signing the canonical order query with
	// the documented test secret.
	secret := "NhqPtmdSJYdKjVHjA7PZj4Mge3R5YNiP1e3UZjInClVN65XAbvqqM6A7H5fATj0j"
	canonical := "symbol=LTCBTC&side=BUY&type=LIMIT&timeInForce=GTC&quantity=1&price=0.1&recvWindow=5000&timestamp=1499827319559"
	want := "c8db56825ae71d6d79447849e617115f4a920fa2acdcab2b053c4b2838bd6b71"

	signer, _ := NewSigner(secret)
	got := signer.Sign([]Param{
		{"symbol", "LTCBTC"},
		{"side", "BUY"},
		{"type", "LIMIT"},
		{"timeInForce", "GTC"},
		{"quantity", "1"},
		{"price", "0.1"},
		{"recvWindow", "5000"},
		{"timestamp", "1499827319559"},
	})

	if got.Canonical != canonical {
		t.Fatalf("canonical mismatch:\n got %s\nwant %s", got.Canonical, canonical)
	}
	if got.Signature != want {
		t.Errorf("signature mismatch:\n got %s\nwant %s", got.Signature, want)
	}
}

func TestSigner_RoundTrip(t *testing.T) {
	signer, _ := NewSigner("another-secret")

	signed := signer.Sign([]Param{{"timestamp", "1700000000000"}})
	query := signed.Query()

	// Strip the signature field and re-sign the remaining params; the
	// result must reproduce the original byte-for-byte.
	idx := strings.Index(query, "&signature=")
	if idx < 0 {
		t.Fatal("query missing signature field")
	}
	canonical := query[:idx]

	var params []Param
	for _, kv := range strings.Split(canonical, "&") {
		k, v, _ := strings.Cut(kv, "=")
		params = append(params, Param{k, v})
	}

	resigned := signer.Sign(params)
	if resigned.Query() != query {
		t.Errorf("round-trip mismatch:\n got %s\nwant %s", resigned.Query(), query)
	}
}

func TestNewSigner_EmptySecret(t *testing.T) {
	if _, err := NewSigner(""); err == nil {
		t.Error("expected error for empty secret")
	}
}

func TestSigner_LowercaseHex(t *testing.T) {
	signer, _ := NewSigner("secret")
	sig := signer.Sign([]Param{{"a", "1"}}).Signature

	if sig != strings.ToLower(sig) {
		t.Errorf("signature must be lowercase hex: %s", sig)
	}
	if len(sig) != 64 {
		t.Errorf("HMAC-SHA256 hex must be 64 chars, got %d", len(sig))
	}
}
