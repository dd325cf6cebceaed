package execution

import (
	"fmt"
	"log/slog"

	"momentum_go/internal/storage"
)

// NewExecution selects the executor for the configured trading mode.
// "live" submits real orders through the exchange client; "dry_run"
// logs and records what would have been sent.
func NewExecution(mode string, api OrderAPI, log *slog.Logger, rec storage.Recorder) (Execution, error) {
	switch mode {
	case "live":
		return NewLiveExecution(api, log, rec), nil
	case "dry_run":
		return NewDryRunExecution(log, rec), nil
	default:
		return nil, fmt.Errorf("unknown trading mode %q", mode)
	}
}
