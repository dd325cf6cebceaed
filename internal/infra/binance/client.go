package binance

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"momentum_go/internal/domain"
	"momentum_go/internal/infra"
)

const (
	klinesPath  = "/api/v3/klines"
	accountPath = "/api/v3/account"
	orderPath   = "/api/v3/order"

	// Every HTTP call is bounded by this timeout.
	httpTimeout = 10 * time.Second

	// Public GETs are retried on transient failures; signed POSTs never
	// are, so a timestamp is never reused and a lost response cannot turn
	// into a double fill.
	maxGetAttempts = 3
)

// ClientConfig carries the exchange endpoint and credentials. Built once
// at startup from the validated application config.
type ClientConfig struct {
	BaseURL   string
	AccessKey string
	SecretKey string
}

// Client talks to the exchange REST API: public candle data, the
// authenticated balance snapshot, and order submission.
type Client struct {
	baseURL    string
	accessKey  string
	signer     *Signer
	httpClient *http.Client
	log        *slog.Logger

	marketLimiter  *infra.RateLimiter
	accountLimiter *infra.RateLimiter
	orderLimiter   *infra.RateLimiter
	marketBreaker  *infra.CircuitBreaker
}

// NewClient creates an exchange client. A missing secret fails here,
// before any network call.
func NewClient(cfg ClientConfig, log *slog.Logger) (*Client, error) {
	signer, err := NewSigner(cfg.SecretKey)
	if err != nil {
		return nil, err
	}
	if cfg.AccessKey == "" {
		return nil, &domain.ConfigError{Field: "api.access_key is required"}
	}

	return &Client{
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		accessKey:      cfg.AccessKey,
		signer:         signer,
		httpClient:     &http.Client{Timeout: httpTimeout},
		log:            log,
		marketLimiter:  infra.NewMarketLimiter(),
		accountLimiter: infra.NewAccountLimiter(),
		orderLimiter:   infra.NewOrderLimiter(),
		marketBreaker:  infra.NewCircuitBreaker("market-data", 5, 30*time.Second, log),
	}, nil
}

// Close wipes the signing secret.
func (c *Client) Close() error {
	c.signer.Wipe()
	return nil
}

// GetCandles fetches the OHLCV series for a symbol, oldest-first, at most
// limit entries. Public endpoint, no signing. Any failure surfaces as a
// MarketDataError: the caller skips the pair for this cycle and moves on.
func (c *Client) GetCandles(ctx context.Context, symbol, interval string, limit int) ([]domain.Candle, error) {
	if !c.marketBreaker.Allow() {
		return nil, &domain.MarketDataError{Symbol: symbol, Err: fmt.Errorf("market data circuit open")}
	}

	url := fmt.Sprintf("%s%s?symbol=%s&interval=%s&limit=%d",
		c.baseURL, klinesPath, strings.ToUpper(symbol), interval, limit)

	body, err := c.getWithRetry(ctx, c.marketLimiter, url)
	if err != nil {
		c.marketBreaker.RecordFailure()
		return nil, &domain.MarketDataError{Symbol: symbol, Err: err}
	}

	candles, err := parseKlines(body)
	if err != nil {
		c.marketBreaker.RecordFailure()
		return nil, &domain.MarketDataError{Symbol: symbol, Err: err}
	}

	c.marketBreaker.RecordSuccess()
	return candles, nil
}

// GetBalances fetches the authenticated account snapshot: one entry per
// asset held. A rejected signature or non-2xx response is an AuthError;
// the step needing balances is skipped, the process keeps running.
func (c *Client) GetBalances(ctx context.Context) (map[string]domain.Balance, error) {
	c.accountLimiter.Wait()

	signed := c.signer.Sign([]Param{
		{"timestamp", strconv.FormatInt(time.Now().UnixMilli(), 10)},
	})

	url := c.baseURL + accountPath + "?" + signed.Query()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &domain.AuthError{Op: "balances", Err: err}
	}
	req.Header.Set("X-MBX-APIKEY", c.accessKey)

	body, err := c.do(req)
	if err != nil {
		return nil, &domain.AuthError{Op: "balances", Err: err}
	}

	var acct accountResponse
	if err := json.Unmarshal(body, &acct); err != nil {
		return nil, &domain.AuthError{Op: "balances", Err: fmt.Errorf("malformed account payload: %w", err)}
	}

	balances := make(map[string]domain.Balance, len(acct.Balances))
	for _, b := range acct.Balances {
		free, err := decimal.NewFromString(b.Free)
		if err != nil {
			return nil, &domain.AuthError{Op: "balances", Err: fmt.Errorf("asset %s: bad free amount %q", b.Asset, b.Free)}
		}
		locked, err := decimal.NewFromString(b.Locked)
		if err != nil {
			return nil, &domain.AuthError{Op: "balances", Err: fmt.Errorf("asset %s: bad locked amount %q", b.Asset, b.Locked)}
		}
		balances[b.Asset] = domain.Balance{Asset: b.Asset, Free: free, Locked: locked}
	}
	return balances, nil
}

// PlaceMarketOrder signs and submits one market order. The timestamp is
// generated fresh at call time; the request is sent exactly once.
func (c *Client) PlaceMarketOrder(ctx context.Context, symbol string, side domain.Side, qty decimal.Decimal) (domain.OrderResult, error) {
	c.orderLimiter.Wait()

	clientOrderID := uuid.NewString()
	signed := c.signer.Sign([]Param{
		{"symbol", strings.ToUpper(symbol)},
		{"side", string(side)},
		{"type", domain.OrderTypeMarket},
		{"quantity", qty.String()},
		{"newClientOrderId", clientOrderID},
		{"timestamp", strconv.FormatInt(time.Now().UnixMilli(), 10)},
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+orderPath, strings.NewReader(signed.Query()))
	if err != nil {
		return domain.OrderResult{}, &domain.OrderError{Symbol: symbol, Side: side, Err: err}
	}
	req.Header.Set("X-MBX-APIKEY", c.accessKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	body, err := c.do(req)
	if err != nil {
		return domain.OrderResult{}, &domain.OrderError{Symbol: symbol, Side: side, Err: err}
	}

	var resp orderResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return domain.OrderResult{}, &domain.OrderError{Symbol: symbol, Side: side,
			Err: fmt.Errorf("malformed order response: %w", err)}
	}

	executed := decimal.Zero
	if resp.ExecutedQty != "" {
		if executed, err = decimal.NewFromString(resp.ExecutedQty); err != nil {
			return domain.OrderResult{}, &domain.OrderError{Symbol: symbol, Side: side,
				Err: fmt.Errorf("bad executedQty %q", resp.ExecutedQty)}
		}
	}

	return domain.OrderResult{
		OrderID:       resp.OrderID,
		ClientOrderID: resp.ClientOrderID,
		Symbol:        symbol,
		Side:          side,
		Status:        resp.Status,
		ExecutedQty:   executed,
		Raw:           string(body),
	}, nil
}

// getWithRetry issues a public GET with bounded retry and jittered
// backoff. Only transport failures and 5xx responses are retried.
func (c *Client) getWithRetry(ctx context.Context, limiter *infra.RateLimiter, url string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt < maxGetAttempts; attempt++ {
		if attempt > 0 {
			delay := infra.RetryDelay(attempt - 1)
			c.log.Debug("retrying request", "url", url, "attempt", attempt, "delay", delay)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		limiter.Wait()
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}

		body, err := c.do(req)
		if err == nil {
			return body, nil
		}
		lastErr = err

		var se *statusError
		if errors.As(err, &se) && se.code < 500 {
			return nil, err // client errors are not transient
		}
	}
	return nil, lastErr
}

// statusError carries a non-2xx response with its decoded exchange error.
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	var ae apiError
	if json.Unmarshal([]byte(e.body), &ae) == nil && ae.Msg != "" {
		return fmt.Sprintf("status %d: %s (code %d)", e.code, ae.Msg, ae.Code)
	}
	return fmt.Sprintf("status %d: %s", e.code, e.body)
}

// do executes a request and returns the body, turning non-2xx responses
// into statusError.
func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &statusError{code: resp.StatusCode, body: string(body)}
	}
	return body, nil
}

// parseKlines converts the wire array-of-arrays kline payload into typed
// candles. Field layout per row:
//
//	[0] open time, [1] open, [2] high, [3] low, [4] close, [5] volume,
//	[6] close time, [7] quote volume, [8] trade count, ...
//
// Prices come as strings and must parse as decimals; a malformed row fails
// the whole fetch rather than leaking garbage into indicator math.
func parseKlines(body []byte) ([]domain.Candle, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var rows [][]any
	if err := dec.Decode(&rows); err != nil {
		return nil, fmt.Errorf("malformed klines payload: %w", err)
	}

	candles := make([]domain.Candle, 0, len(rows))
	for i, row := range rows {
		if len(row) < 9 {
			return nil, fmt.Errorf("kline row %d: expected at least 9 fields, got %d", i, len(row))
		}

		openTime, err := klineInt(row[0])
		if err != nil {
			return nil, fmt.Errorf("kline row %d open time: %w", i, err)
		}
		closeTime, err := klineInt(row[6])
		if err != nil {
			return nil, fmt.Errorf("kline row %d close time: %w", i, err)
		}
		trades, err := klineInt(row[8])
		if err != nil {
			return nil, fmt.Errorf("kline row %d trade count: %w", i, err)
		}

		var prices [5]decimal.Decimal
		for j, idx := range []int{1, 2, 3, 4, 5} {
			prices[j], err = klineDecimal(row[idx])
			if err != nil {
				return nil, fmt.Errorf("kline row %d field %d: %w", i, idx, err)
			}
		}

		candles = append(candles, domain.Candle{
			OpenTime:   openTime,
			Open:       prices[0],
			High:       prices[1],
			Low:        prices[2],
			Close:      prices[3],
			Volume:     prices[4],
			CloseTime:  closeTime,
			TradeCount: trades,
		})
	}
	return candles, nil
}

func klineInt(v any) (int64, error) {
	n, ok := v.(json.Number)
	if !ok {
		return 0, fmt.Errorf("expected number, got %T", v)
	}
	return n.Int64()
}

func klineDecimal(v any) (decimal.Decimal, error) {
	switch t := v.(type) {
	case string:
		return decimal.NewFromString(t)
	case json.Number:
		return decimal.NewFromString(t.String())
	default:
		return decimal.Zero, fmt.Errorf("expected decimal string, got %T", v)
	}
}
