package execution

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"momentum_go/internal/domain"
	"momentum_go/internal/storage"
)

// LiveExecution submits real market orders through the exchange client.
type LiveExecution struct {
	api OrderAPI
	log *slog.Logger
	rec storage.Recorder
}

func NewLiveExecution(api OrderAPI, log *slog.Logger, rec storage.Recorder) *LiveExecution {
	return &LiveExecution{api: api, log: log, rec: rec}
}

func (e *LiveExecution) PlaceMarketOrder(ctx context.Context, symbol string, side domain.Side, qty decimal.Decimal) (domain.OrderResult, error) {
	res, err := e.api.PlaceMarketOrder(ctx, symbol, side, qty)
	attempt := storage.OrderAttempt{
		TsUnixMilli: time.Now().UnixMilli(),
		Symbol:      symbol,
		Side:        side,
		Quantity:    qty,
	}
	if err != nil {
		attempt.Status = "ERROR"
		attempt.Response = err.Error()
		e.log.Error("order failed",
			"symbol", symbol, "side", side, "qty", qty.String(), "err", err)
	} else {
		attempt.Status = res.Status
		attempt.Response = res.Raw
		e.log.Info("order placed",
			"symbol", symbol, "side", side, "qty", qty.String(),
			"order_id", res.OrderID, "status", res.Status, "response", res.Raw)
	}
	if recErr := e.rec.RecordOrder(ctx, attempt); recErr != nil {
		e.log.Warn("order audit write failed", "symbol", symbol, "err", recErr)
	}
	return res, err
}

func (e *LiveExecution) Close() error {
	return e.api.Close()
}
