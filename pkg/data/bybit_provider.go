package data

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"math"
	"math/rand"
	"net/http"
	"strconv"
	"time"

	bybit_api "github.com/bybit-exchange/bybit.go.api"
	"github.com/phuslu/log"

	errs "github.com/ducminhle1904/market-timing/internal/errors"
	"github.com/ducminhle1904/market-timing/internal/logger"
	"github.com/ducminhle1904/market-timing/internal/period"
	"github.com/ducminhle1904/market-timing/pkg/types"
)

const (
	errCodeRateLimitExceeded = 10006
	maxKlinesPerRequest      = 1000

	// Bybit allows 600 requests per 5s per IP; stay well below
	defaultRequestsPerSecond = 10
)

// KlineFetcher performs one market kline request
type KlineFetcher func(ctx context.Context, params map[string]interface{}) (*bybit_api.ServerResponse, error)

// RetryConfig holds the backoff of failed kline requests
type RetryConfig struct {
	MaxRetries    int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
	JitterEnabled bool
}

func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:    3,
		InitialDelay:  time.Second,
		MaxDelay:      time.Minute,
		BackoffFactor: 2.0,
		JitterEnabled: true,
	}
}

// BybitConfig configures a BybitProvider
type BybitConfig struct {
	APIKey    string
	APISecret string
	Testnet   bool
	Category  string // spot, linear or inverse
	Interval  string // D, W or M
	Start     time.Time
	End       time.Time
	Limit     int
	Retry     RetryConfig

	// RequestsPerSecond throttles kline requests, including retries
	RequestsPerSecond float64
}

// BybitProvider loads klines from the Bybit v5 market endpoint, paging
// backwards from End until Start or the beginning of the history
type BybitProvider struct {
	cfg     BybitConfig
	fetch   KlineFetcher
	limiter *RateLimiter
	logger  *log.Logger
}

type BybitOption func(*BybitProvider)

// WithKlineFetcher replaces the HTTP client
func WithKlineFetcher(f KlineFetcher) BybitOption {
	return func(p *BybitProvider) { p.fetch = f }
}

// WithRateLimiter shares limiter between providers hitting the same account
func WithRateLimiter(limiter *RateLimiter) BybitOption {
	return func(p *BybitProvider) { p.limiter = limiter }
}

func WithBybitLogger(l *log.Logger) BybitOption {
	return func(p *BybitProvider) {
		if l != nil {
			p.logger = l
		}
	}
}

func NewBybitProvider(cfg BybitConfig, opts ...BybitOption) *BybitProvider {
	if cfg.Category == "" {
		cfg.Category = "spot"
	}
	if cfg.Interval == "" {
		cfg.Interval = "D"
	}
	if cfg.Limit <= 0 || cfg.Limit > maxKlinesPerRequest {
		cfg.Limit = maxKlinesPerRequest
	}
	if cfg.Retry.BackoffFactor == 0 {
		cfg.Retry = DefaultRetryConfig()
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = defaultRequestsPerSecond
	}

	p := &BybitProvider{cfg: cfg, logger: logger.Nop()}
	for _, opt := range opts {
		opt(p)
	}
	if p.limiter == nil {
		burst := int(math.Ceil(cfg.RequestsPerSecond))
		p.limiter = NewRateLimiter(burst, cfg.RequestsPerSecond)
	}
	if p.fetch == nil {
		baseURL := bybit_api.MAINNET
		if cfg.Testnet {
			baseURL = bybit_api.TESTNET
		}
		client := bybit_api.NewBybitHttpClient(cfg.APIKey, cfg.APISecret, bybit_api.WithBaseURL(baseURL))
		p.fetch = func(ctx context.Context, params map[string]interface{}) (*bybit_api.ServerResponse, error) {
			return client.NewUtaBybitServiceWithParams(params).GetMarketKline(ctx)
		}
	}
	return p
}

// BybitInterval maps a periodicity to a Bybit kline interval
func BybitInterval(p period.Periodicity) (string, error) {
	switch p {
	case period.Daily:
		return "D", nil
	case period.Weekly:
		return "W", nil
	case period.Monthly:
		return "M", nil
	}
	return "", errs.NewConfigurationError("BybitProvider", "BybitInterval", "no kline interval for periodicity").
		WithContext("periodicity", p.String())
}

func (p *BybitProvider) GetName() string {
	return "Bybit Provider"
}

// LoadData loads every kline of symbol within the configured range, oldest first
func (p *BybitProvider) LoadData(ctx context.Context, symbol string) ([]types.OHLCV, error) {
	end := p.cfg.End
	if end.IsZero() {
		end = time.Now()
	}

	var all []types.OHLCV
	for {
		params := map[string]interface{}{
			"category": p.cfg.Category,
			"symbol":   symbol,
			"interval": p.cfg.Interval,
			"limit":    p.cfg.Limit,
			"end":      end.UnixMilli(),
		}
		if !p.cfg.Start.IsZero() {
			params["start"] = p.cfg.Start.UnixMilli()
		}

		page, err := p.fetchPage(ctx, params)
		if err != nil {
			return nil, errs.NewDataError("BybitProvider", "LoadData", err).WithContext("symbol", symbol)
		}
		if len(page) == 0 {
			break
		}
		all = append(all, page...)

		oldest := page[0].Timestamp
		for _, c := range page {
			if c.Timestamp.Before(oldest) {
				oldest = c.Timestamp
			}
		}
		p.logger.Debug().
			Str("symbol", symbol).
			Int("klines", len(page)).
			Time("oldest", oldest).
			Msg("fetched kline page")

		if len(page) < p.cfg.Limit || (!p.cfg.Start.IsZero() && !oldest.After(p.cfg.Start)) {
			break
		}
		end = oldest.Add(-time.Millisecond)
	}

	filter := NewDefaultDataFilter()
	data := filter.RemoveDuplicates(filter.SortByTimestamp(all))
	if !p.cfg.Start.IsZero() || !p.cfg.End.IsZero() {
		data = filter.FilterByDateRange(data, p.cfg.Start, p.cfg.End)
	}
	return data, nil
}

func (p *BybitProvider) ValidateData(data []types.OHLCV) error {
	return validateSeries("BybitProvider", data)
}

func (p *BybitProvider) fetchPage(ctx context.Context, params map[string]interface{}) ([]types.OHLCV, error) {
	var page []types.OHLCV
	err := retry(ctx, p.cfg.Retry, func() error {
		if err := p.limiter.Wait(ctx); err != nil {
			return err
		}
		resp, err := p.fetch(ctx, params)
		if err != nil {
			return err
		}
		page, err = parseKlineResponse(resp)
		return err
	}, func(attempt int, delay time.Duration, err error) {
		p.logger.Warn().Int("attempt", attempt).Dur("delay", delay).Err(err).Msg("retrying kline request")
	})
	return page, err
}

// apiError is a non-zero retCode returned by Bybit
type apiError struct {
	Code    int
	Message string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("Bybit API error %d: %s", e.Code, e.Message)
}

func isRetryable(err error) bool {
	var apiErr *apiError
	if !stderrors.As(err, &apiErr) {
		return false
	}
	switch apiErr.Code {
	case errCodeRateLimitExceeded,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

func retry(ctx context.Context, cfg RetryConfig, fn func() error, onRetry func(int, time.Duration, error)) error {
	var lastErr error
	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if attempt == cfg.MaxRetries || !isRetryable(lastErr) {
			break
		}

		delay := backoff(attempt, cfg)
		onRetry(attempt+1, delay, lastErr)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return lastErr
}

func backoff(attempt int, cfg RetryConfig) time.Duration {
	delay := time.Duration(float64(cfg.InitialDelay) * math.Pow(cfg.BackoffFactor, float64(attempt)))
	if cfg.MaxDelay > 0 && delay > cfg.MaxDelay {
		delay = cfg.MaxDelay
	}
	if cfg.JitterEnabled {
		delay += time.Duration(float64(delay) * 0.1 * (2*rand.Float64() - 1))
	}
	return delay
}

// parseKlineResponse decodes the kline list. Items are
// [startTime, open, high, low, close, volume, turnover].
func parseKlineResponse(resp *bybit_api.ServerResponse) ([]types.OHLCV, error) {
	if resp == nil {
		return nil, fmt.Errorf("empty response")
	}
	if resp.RetCode != 0 {
		return nil, &apiError{Code: resp.RetCode, Message: resp.RetMsg}
	}

	resultBytes, err := json.Marshal(resp.Result)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	var klineResult struct {
		Symbol   string     `json:"symbol"`
		Category string     `json:"category"`
		List     [][]string `json:"list"`
	}
	if err := json.Unmarshal(resultBytes, &klineResult); err != nil {
		return nil, fmt.Errorf("failed to unmarshal kline result: %w", err)
	}

	klines := make([]types.OHLCV, 0, len(klineResult.List))
	for _, item := range klineResult.List {
		if len(item) < 6 {
			continue
		}
		var values [6]float64
		for i := 0; i < 6; i++ {
			v, err := strconv.ParseFloat(item[i], 64)
			if err != nil {
				return nil, fmt.Errorf("invalid kline field %d %q: %w", i, item[i], err)
			}
			values[i] = v
		}
		klines = append(klines, types.OHLCV{
			Timestamp: time.UnixMilli(int64(values[0])).UTC(),
			Open:      values[1],
			High:      values[2],
			Low:       values[3],
			Close:     values[4],
			Volume:    values[5],
		})
	}
	return klines, nil
}
