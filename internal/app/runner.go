// Package app owns one trading cycle: liquidate minor holdings, then
// evaluate every configured pair and act on buy signals.
package app

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"momentum_go/internal/domain"
	"momentum_go/internal/execution"
	"momentum_go/internal/indicator"
	"momentum_go/internal/infra"
	"momentum_go/internal/storage"
	"momentum_go/internal/strategy"
)

// MarketData fetches candle history for one symbol.
type MarketData interface {
	GetCandles(ctx context.Context, symbol, interval string, limit int) ([]domain.Candle, error)
}

// AccountGateway fetches the account balance snapshot.
type AccountGateway interface {
	GetBalances(ctx context.Context) (map[string]domain.Balance, error)
}

// Runner drives one full cycle. It holds no position state between runs;
// every cycle starts from a fresh balance snapshot.
type Runner struct {
	cfg     *infra.Config
	market  MarketData
	account AccountGateway
	exec    execution.Execution
	liq     *execution.Liquidator
	rec     storage.Recorder
	log     *slog.Logger
}

func NewRunner(cfg *infra.Config, market MarketData, account AccountGateway, exec execution.Execution, liq *execution.Liquidator, rec storage.Recorder, log *slog.Logger) *Runner {
	return &Runner{
		cfg:     cfg,
		market:  market,
		account: account,
		exec:    exec,
		liq:     liq,
		rec:     rec,
		log:     log,
	}
}

// Run executes one cycle. Errors inside the cycle are handled at their
// own scope (a pair, an asset, one order) and never abort the run; Run
// itself only fails on context cancellation.
func (r *Runner) Run(ctx context.Context) error {
	start := time.Now()
	r.log.Info("cycle start", "pairs", len(r.cfg.Trading.Pairs), "mode", r.cfg.Trading.Mode)

	r.liquidate(ctx)

	for _, pair := range r.cfg.Trading.Pairs {
		if err := ctx.Err(); err != nil {
			return err
		}
		r.evaluatePair(ctx, pair)
	}

	r.log.Info("cycle complete", "elapsed", time.Since(start).Round(time.Millisecond).String())
	return nil
}

// liquidate fetches balances and sells every non-quote holding. A failed
// balance fetch skips the whole step; pair analysis still runs.
func (r *Runner) liquidate(ctx context.Context) {
	balances, err := r.account.GetBalances(ctx)
	if err != nil {
		var authErr *domain.AuthError
		if errors.As(err, &authErr) {
			r.log.Error("balance fetch rejected, skipping liquidation", "op", authErr.Op, "err", err)
		} else {
			r.log.Error("balance fetch failed, skipping liquidation", "err", err)
		}
		return
	}

	list := make([]domain.Balance, 0, len(balances))
	for _, b := range balances {
		list = append(list, b)
	}
	r.liq.LiquidateMinorHoldings(ctx, list, r.cfg.Trading.QuoteAssets)
}

// evaluatePair fetches candles, computes indicators, classifies the
// signal and acts on it. Any failure is logged and ends only this pair.
func (r *Runner) evaluatePair(ctx context.Context, pair infra.Pair) {
	symbol := pair.Symbol()

	candles, err := r.market.GetCandles(ctx, symbol, r.cfg.Trading.Interval, r.cfg.Trading.CandleLimit)
	if err != nil {
		r.log.Error("candle fetch failed, skipping pair", "symbol", symbol, "err", err)
		return
	}

	snap := indicator.Compute(candles)
	sig := strategy.Classify(snap)

	r.log.Info("signal",
		"symbol", symbol,
		"signal", sig.String(),
		"rsi", snap.RSI, "has_rsi", snap.HasRSI,
		"macd", snap.MACD, "macd_signal", snap.MACDSignal, "has_macd", snap.HasMACD,
	)

	if err := r.rec.RecordDecision(ctx, storage.Decision{
		TsUnixMilli: time.Now().UnixMilli(),
		Symbol:      symbol,
		Signal:      sig,
		RSI:         snap.RSI,
		HasRSI:      snap.HasRSI,
		MACD:        snap.MACD,
		MACDSignal:  snap.MACDSignal,
		HasMACD:     snap.HasMACD,
	}); err != nil {
		r.log.Warn("decision audit write failed", "symbol", symbol, "err", err)
	}

	if sig != domain.SignalBuy {
		// Sells are handled by the liquidation pass at cycle start;
		// a SELL signal here carries no separate action.
		return
	}

	r.buy(ctx, pair, candles)
}

// buy sizes and submits a market buy from the latest quote balance.
func (r *Runner) buy(ctx context.Context, pair infra.Pair, candles []domain.Candle) {
	symbol := pair.Symbol()

	balances, err := r.account.GetBalances(ctx)
	if err != nil {
		r.log.Error("balance fetch failed, skipping buy", "symbol", symbol, "err", err)
		return
	}

	quote, ok := balances[pair.Quote]
	if !ok || !quote.HasFree() {
		r.log.Info("no free quote balance, skipping buy", "symbol", symbol, "quote", pair.Quote)
		return
	}

	price := candles[len(candles)-1].Close
	qty, err := execution.BuyQuantity(quote.Free, price)
	if err != nil {
		r.log.Error("buy sizing failed", "symbol", symbol, "err", err)
		return
	}
	if !qty.IsPositive() {
		r.log.Info("buy quantity rounds to zero, skipping", "symbol", symbol,
			"quote_free", quote.Free.String(), "price", price.String())
		return
	}

	if _, err := r.exec.PlaceMarketOrder(ctx, symbol, domain.SideBuy, qty); err != nil {
		r.log.Error("buy failed", "symbol", symbol, "qty", qty.String(), "err", err)
	}
}
