package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorTaxonomy_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")

	wrapped := fmt.Errorf("fetch failed: %w", &MarketDataError{Symbol: "btcusdt", Err: cause})

	var mde *MarketDataError
	if !errors.As(wrapped, &mde) {
		t.Fatal("expected MarketDataError in chain")
	}
	if mde.Symbol != "btcusdt" {
		t.Errorf("expected symbol btcusdt, got %s", mde.Symbol)
	}
	if !errors.Is(wrapped, cause) {
		t.Error("expected cause to survive unwrapping")
	}
}

func TestErrorTaxonomy_Distinct(t *testing.T) {
	err := error(&OrderError{Symbol: "ethusdt", Side: SideSell, Err: errors.New("rejected")})

	var ae *AuthError
	if errors.As(err, &ae) {
		t.Error("OrderError must not match AuthError")
	}
	var oe *OrderError
	if !errors.As(err, &oe) {
		t.Fatal("expected OrderError")
	}
	if oe.Side != SideSell {
		t.Errorf("expected SELL, got %s", oe.Side)
	}
}

func TestSignalString(t *testing.T) {
	tests := []struct {
		sig  Signal
		want string
	}{
		{SignalBuy, "BUY"},
		{SignalSell, "SELL"},
		{SignalHold, "HOLD"},
		{Signal(99), "UNKNOWN"},
	}
	for _, tt := range tests {
		if got := tt.sig.String(); got != tt.want {
			t.Errorf("Signal(%d).String() = %s, want %s", tt.sig, got, tt.want)
		}
	}
}
