package execution

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"momentum_go/internal/domain"
	"momentum_go/internal/storage"
)

// DryRunExecution logs and records orders without sending anything to
// the venue. Market data and balances still come from the real exchange,
// only submission is suppressed.
type DryRunExecution struct {
	log *slog.Logger
	rec storage.Recorder
}

func NewDryRunExecution(log *slog.Logger, rec storage.Recorder) *DryRunExecution {
	return &DryRunExecution{log: log, rec: rec}
}

func (e *DryRunExecution) PlaceMarketOrder(ctx context.Context, symbol string, side domain.Side, qty decimal.Decimal) (domain.OrderResult, error) {
	e.log.Info("dry-run order",
		"symbol", symbol, "side", side, "qty", qty.String())

	attempt := storage.OrderAttempt{
		TsUnixMilli: time.Now().UnixMilli(),
		Symbol:      symbol,
		Side:        side,
		Quantity:    qty,
		Status:      "DRY_RUN",
	}
	if err := e.rec.RecordOrder(ctx, attempt); err != nil {
		e.log.Warn("order audit write failed", "symbol", symbol, "err", err)
	}

	return domain.OrderResult{
		ClientOrderID: "dry-run",
		Symbol:        strings.ToUpper(symbol),
		Side:          side,
		Status:        "DRY_RUN",
		ExecutedQty:   qty,
	}, nil
}

func (e *DryRunExecution) Close() error { return nil }
