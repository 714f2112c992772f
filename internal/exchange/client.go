package exchange

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"signal_bot/pkg/metrics"
	"signal_bot/pkg/tracing"
)

const (
	DefaultBaseURL = "https://api.pionex.com"

	orderPath   = "/api/v1/spot/order"
	balancePath = "/api/v1/spot/balance"

	headerKey       = "X-API-KEY"
	headerSign      = "X-SIGN"
	headerTimestamp = "X-TIMESTAMP"
)

type Config struct {
	BaseURL   string
	APIKey    string
	APISecret string
	Timeout   time.Duration
	RateLimit float64 // запросов в секунду, 0: без ограничения
}

// Client: подписанный REST-клиент одной биржи. Ключи не меняются после создания.
type Client struct {
	http      *http.Client
	baseURL   string
	apiKey    string
	apiSecret string
	limiter   *rate.Limiter
	now       func() time.Time
	log       *zap.Logger
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// WithClock подменяет источник времени для подписи.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

func NewClient(cfg Config, log *zap.Logger, opts ...Option) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	base := strings.TrimSuffix(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}

	c := &Client{
		http:      &http.Client{Timeout: timeout},
		baseURL:   base,
		apiKey:    cfg.APIKey,
		apiSecret: cfg.APISecret,
		limiter:   rate.NewLimiter(limit, 1),
		now:       time.Now,
		log:       log.Named("exchange"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// do подписывает и отправляет запрос. Возвращает тело 2xx ответа или *Error.
func (c *Client) do(ctx context.Context, op, method, path string, body []byte) (data []byte, err error) {
	span, ctx := tracing.StartSpan(ctx, "exchange."+op)
	defer func() {
		tracing.Fail(span, err)
		span.Finish()
		metrics.ExchangeRequestsTotal.WithLabelValues(op, metrics.Outcome(err)).Inc()
	}()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &Error{Kind: KindTransport, Op: op, Err: err}
	}

	ts, sig := c.Sign(method, path, string(body))

	var rdr io.Reader
	if body != nil {
		rdr = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Op: op, Err: err}
	}
	req.Header.Set(headerKey, c.apiKey)
	req.Header.Set(headerSign, sig)
	req.Header.Set(headerTimestamp, strconv.FormatInt(ts, 10))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Op: op, Err: err}
	}
	defer resp.Body.Close()

	data, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Op: op, Err: err}
	}
	span.SetTag("http.status_code", resp.StatusCode)
	if resp.StatusCode/100 != 2 {
		return nil, &Error{Kind: KindStatus, Op: op, Status: resp.StatusCode, Body: string(data)}
	}
	return data, nil
}
