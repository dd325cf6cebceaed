package execution

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"momentum_go/internal/domain"
)

// Liquidator sells every non-quote holding back into the primary quote
// asset at the start of a cycle, so each cycle begins from a flat book.
type Liquidator struct {
	exec Execution
	log  *slog.Logger
}

func NewLiquidator(exec Execution, log *slog.Logger) *Liquidator {
	return &Liquidator{exec: exec, log: log}
}

// LiquidateMinorHoldings market-sells the full free amount of every asset
// that is not a quote asset. Assets are processed in sorted order for
// deterministic logs. A failed sell is logged and skipped; it never stops
// the remaining assets from being attempted.
func (l *Liquidator) LiquidateMinorHoldings(ctx context.Context, balances []domain.Balance, quoteAssets []string) {
	if len(quoteAssets) == 0 {
		l.log.Warn("liquidation skipped: no quote assets configured")
		return
	}
	quote := quoteAssets[0]

	skip := make(map[string]struct{}, len(quoteAssets))
	for _, q := range quoteAssets {
		skip[strings.ToUpper(q)] = struct{}{}
	}

	sorted := make([]domain.Balance, len(balances))
	copy(sorted, balances)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Asset < sorted[j].Asset })

	var attempted, failed int
	for _, bal := range sorted {
		if _, ok := skip[strings.ToUpper(bal.Asset)]; ok {
			continue
		}
		if !bal.HasFree() {
			continue
		}

		symbol := strings.ToLower(bal.Asset + quote)
		attempted++
		if _, err := l.exec.PlaceMarketOrder(ctx, symbol, domain.SideSell, bal.Free); err != nil {
			failed++
			l.log.Error("liquidation sell failed",
				"asset", bal.Asset, "symbol", symbol, "qty", bal.Free.String(), "err", err)
			continue
		}
		l.log.Info("liquidated holding",
			"asset", bal.Asset, "symbol", symbol, "qty", bal.Free.String())
	}

	l.log.Info("liquidation pass complete", "attempted", attempted, "failed", failed)
}
