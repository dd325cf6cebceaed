package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"

	"momentum_go/internal/domain"
	"momentum_go/internal/execution"
	"momentum_go/internal/infra"
	"momentum_go/internal/storage"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Price paths engineered against the indicator math: a steep move that
// decelerates leaves RSI pinned at an extreme while the MACD line curls
// back through its signal line.

// oversoldRecovering: every delta negative (RSI 0) but the decline
// decelerates, so the MACD line rises above its lagging signal. BUY.
func oversoldRecovering() []float64 {
	var closes []float64
	for i := 0; i <= 20; i++ {
		closes = append(closes, 1000-20*float64(i))
	}
	for i := 1; i <= 20; i++ {
		closes = append(closes, 600-0.1*float64(i))
	}
	return closes
}

// overboughtStalling is the mirror image: RSI 100 with the MACD line
// dropping below its signal. SELL.
func overboughtStalling() []float64 {
	var closes []float64
	for i := 0; i <= 20; i++ {
		closes = append(closes, 1000+20*float64(i))
	}
	for i := 1; i <= 20; i++ {
		closes = append(closes, 1400+0.1*float64(i))
	}
	return closes
}

func candlesFrom(closes []float64) []domain.Candle {
	out := make([]domain.Candle, len(closes))
	for i, c := range closes {
		out[i] = domain.Candle{
			OpenTime:  int64(i) * 3600_000,
			CloseTime: int64(i+1)*3600_000 - 1,
			Close:     decimal.NewFromFloat(c),
		}
	}
	return out
}

type fakeMarket struct {
	candles map[string][]domain.Candle
	errs    map[string]error
	fetched []string
}

func (f *fakeMarket) GetCandles(_ context.Context, symbol, _ string, _ int) ([]domain.Candle, error) {
	f.fetched = append(f.fetched, symbol)
	if err, ok := f.errs[symbol]; ok {
		return nil, err
	}
	return f.candles[symbol], nil
}

type fakeAccount struct {
	balances map[string]domain.Balance
	err      error
	calls    int
}

func (f *fakeAccount) GetBalances(context.Context) (map[string]domain.Balance, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.balances, nil
}

type orderCall struct {
	symbol string
	side   domain.Side
	qty    decimal.Decimal
}

type fakeExec struct {
	calls []orderCall
}

func (f *fakeExec) PlaceMarketOrder(_ context.Context, symbol string, side domain.Side, qty decimal.Decimal) (domain.OrderResult, error) {
	f.calls = append(f.calls, orderCall{symbol: symbol, side: side, qty: qty})
	return domain.OrderResult{Symbol: symbol, Side: side, Status: "FILLED", ExecutedQty: qty}, nil
}

func (f *fakeExec) Close() error { return nil }

type captureRecorder struct {
	storage.NoopRecorder
	decisions []storage.Decision
}

func (c *captureRecorder) RecordDecision(_ context.Context, d storage.Decision) error {
	c.decisions = append(c.decisions, d)
	return nil
}

func testConfig(pairs ...infra.Pair) *infra.Config {
	cfg := &infra.Config{}
	cfg.Trading.Mode = "dry_run"
	cfg.Trading.Pairs = pairs
	cfg.Trading.Interval = "1h"
	cfg.Trading.CandleLimit = 100
	cfg.Trading.QuoteAssets = []string{"USDT"}
	return cfg
}

func newTestRunner(cfg *infra.Config, market *fakeMarket, account *fakeAccount, exec *fakeExec, rec storage.Recorder) *Runner {
	log := discardLogger()
	liq := execution.NewLiquidator(exec, log)
	return NewRunner(cfg, market, account, exec, liq, rec, log)
}

func TestRunBuySignalPlacesSizedOrder(t *testing.T) {
	cfg := testConfig(infra.Pair{Base: "btc", Quote: "USDT"})
	market := &fakeMarket{candles: map[string][]domain.Candle{
		"btcusdt": candlesFrom(oversoldRecovering()),
	}}
	account := &fakeAccount{balances: map[string]domain.Balance{
		"USDT": {Asset: "USDT", Free: decimal.NewFromInt(100)},
		"BTC":  {Asset: "BTC", Free: decimal.RequireFromString("0.01")},
	}}
	exec := &fakeExec{}
	rec := &captureRecorder{}

	if err := newTestRunner(cfg, market, account, exec, rec).Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(exec.calls) != 2 {
		t.Fatalf("orders = %+v, want liquidation sell then buy", exec.calls)
	}

	sell := exec.calls[0]
	if sell.symbol != "btcusdt" || sell.side != domain.SideSell || !sell.qty.Equal(decimal.RequireFromString("0.01")) {
		t.Errorf("liquidation order = %+v", sell)
	}

	// last close 598.0, half of 100 USDT => 50/598 truncated to 4 decimals
	buy := exec.calls[1]
	if buy.symbol != "btcusdt" || buy.side != domain.SideBuy {
		t.Fatalf("buy order = %+v", buy)
	}
	if !buy.qty.Equal(decimal.RequireFromString("0.0836")) {
		t.Errorf("buy qty = %s, want 0.0836", buy.qty)
	}

	if account.calls != 2 {
		t.Errorf("balance fetches = %d, want one for liquidation and one fresh before the buy", account.calls)
	}

	if len(rec.decisions) != 1 || rec.decisions[0].Signal != domain.SignalBuy {
		t.Fatalf("decisions = %+v, want one BUY for btcusdt", rec.decisions)
	}
}

func TestRunSellSignalTakesNoAction(t *testing.T) {
	cfg := testConfig(infra.Pair{Base: "eth", Quote: "USDT"})
	market := &fakeMarket{candles: map[string][]domain.Candle{
		"ethusdt": candlesFrom(overboughtStalling()),
	}}
	account := &fakeAccount{balances: map[string]domain.Balance{
		"USDT": {Asset: "USDT", Free: decimal.NewFromInt(100)},
	}}
	exec := &fakeExec{}
	rec := &captureRecorder{}

	if err := newTestRunner(cfg, market, account, exec, rec).Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	// exits happen in the liquidation pass, never from a SELL signal
	if len(exec.calls) != 0 {
		t.Errorf("orders = %+v, want none", exec.calls)
	}
	if len(rec.decisions) != 1 || rec.decisions[0].Signal != domain.SignalSell {
		t.Fatalf("decisions = %+v, want one SELL", rec.decisions)
	}
}

func TestRunShortHistoryHolds(t *testing.T) {
	cfg := testConfig(infra.Pair{Base: "btc", Quote: "USDT"})
	market := &fakeMarket{candles: map[string][]domain.Candle{
		"btcusdt": candlesFrom([]float64{1, 2, 3, 4, 5}),
	}}
	account := &fakeAccount{balances: map[string]domain.Balance{
		"USDT": {Asset: "USDT", Free: decimal.NewFromInt(100)},
	}}
	exec := &fakeExec{}
	rec := &captureRecorder{}

	if err := newTestRunner(cfg, market, account, exec, rec).Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(exec.calls) != 0 {
		t.Errorf("orders = %+v, want none on insufficient history", exec.calls)
	}
	if len(rec.decisions) != 1 || rec.decisions[0].Signal != domain.SignalHold {
		t.Fatalf("decisions = %+v, want one HOLD", rec.decisions)
	}
	if rec.decisions[0].HasRSI || rec.decisions[0].HasMACD {
		t.Error("indicators should be undefined on 5 candles")
	}
}

func TestRunMarketDataErrorSkipsOnlyThatPair(t *testing.T) {
	cfg := testConfig(
		infra.Pair{Base: "btc", Quote: "USDT"},
		infra.Pair{Base: "eth", Quote: "USDT"},
	)
	market := &fakeMarket{
		candles: map[string][]domain.Candle{
			"ethusdt": candlesFrom(overboughtStalling()),
		},
		errs: map[string]error{
			"btcusdt": &domain.MarketDataError{Symbol: "btcusdt", Err: errors.New("bad gateway")},
		},
	}
	account := &fakeAccount{balances: map[string]domain.Balance{
		"USDT": {Asset: "USDT", Free: decimal.NewFromInt(100)},
	}}
	exec := &fakeExec{}
	rec := &captureRecorder{}

	if err := newTestRunner(cfg, market, account, exec, rec).Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(market.fetched) != 2 {
		t.Fatalf("fetched = %v, want both pairs attempted", market.fetched)
	}
	if len(rec.decisions) != 1 || rec.decisions[0].Symbol != "ethusdt" {
		t.Fatalf("decisions = %+v, want ethusdt only", rec.decisions)
	}
}

func TestRunAuthErrorSkipsLiquidationNotAnalysis(t *testing.T) {
	cfg := testConfig(infra.Pair{Base: "btc", Quote: "USDT"})
	market := &fakeMarket{candles: map[string][]domain.Candle{
		"btcusdt": candlesFrom(oversoldRecovering()),
	}}
	account := &fakeAccount{err: &domain.AuthError{Op: "account", Err: errors.New("invalid key")}}
	exec := &fakeExec{}
	rec := &captureRecorder{}

	if err := newTestRunner(cfg, market, account, exec, rec).Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	// no balances means no liquidation and no buy, but the signal is
	// still computed and recorded
	if len(exec.calls) != 0 {
		t.Errorf("orders = %+v, want none", exec.calls)
	}
	if len(rec.decisions) != 1 || rec.decisions[0].Signal != domain.SignalBuy {
		t.Fatalf("decisions = %+v, want one BUY recorded", rec.decisions)
	}
}

func TestRunCancelledContext(t *testing.T) {
	cfg := testConfig(infra.Pair{Base: "btc", Quote: "USDT"})
	account := &fakeAccount{balances: map[string]domain.Balance{}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := newTestRunner(cfg, &fakeMarket{}, account, &fakeExec{}, storage.NewNoopRecorder()).Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
