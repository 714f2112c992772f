package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"signal_bot/internal/models"
	"signal_bot/pkg/tracing"
)

const (
	DefaultYahooURL = "https://query1.finance.yahoo.com"
	chartPath       = "/v8/finance/chart/"
	userAgent       = "Mozilla/5.0 (compatible; signal_bot/1.0)"
)

// Yahoo: свечи из chart API Yahoo Finance, берём только close.
type Yahoo struct {
	http    *http.Client
	baseURL string
	log     *zap.Logger
}

func NewYahoo(baseURL string, timeout time.Duration, log *zap.Logger) *Yahoo {
	if baseURL == "" {
		baseURL = DefaultYahooURL
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Yahoo{
		http:    &http.Client{Timeout: timeout},
		baseURL: strings.TrimSuffix(baseURL, "/"),
		log:     log.Named("yahoo"),
	}
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func (y *Yahoo) GetSeries(ctx context.Context, symbol string, lookback, interval time.Duration) (_ models.PriceSeries, err error) {
	span, ctx := tracing.StartSpan(ctx, "yahoo.GetSeries")
	defer func() {
		tracing.Fail(span, err)
		span.Finish()
	}()

	q := url.Values{}
	q.Set("range", RangeParam(lookback))
	q.Set("interval", IntervalParam(interval))
	u := y.baseURL + chartPath + url.PathEscape(symbol) + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, errors.Wrap(err, "yahoo: build request")
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := y.http.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "yahoo: get %s", symbol)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "yahoo: read %s", symbol)
	}

	var r chartResponse
	decodeErr := json.Unmarshal(body, &r)
	if r.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo: %s: %s: %s", symbol, r.Chart.Error.Code, r.Chart.Error.Description)
	}
	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("yahoo: %s: status %d", symbol, resp.StatusCode)
	}
	if decodeErr != nil {
		return nil, errors.Wrapf(decodeErr, "yahoo: decode %s", symbol)
	}
	if len(r.Chart.Result) == 0 {
		return models.PriceSeries{}, nil
	}

	res := r.Chart.Result[0]
	var closes []*float64
	if len(res.Indicators.Quote) > 0 {
		closes = res.Indicators.Quote[0].Close
	}
	series := toSeries(res.Timestamp, closes)
	y.log.Debug("series loaded", zap.String("symbol", symbol), zap.Int("points", len(series)))
	return series, nil
}

// toSeries отбрасывает null-закрытия и точки с неубывающим временем.
func toSeries(ts []int64, closes []*float64) models.PriceSeries {
	n := len(ts)
	if len(closes) < n {
		n = len(closes)
	}
	out := make(models.PriceSeries, 0, n)
	var last time.Time
	for i := 0; i < n; i++ {
		c := closes[i]
		if c == nil {
			continue
		}
		t := time.Unix(ts[i], 0).UTC()
		if len(out) > 0 && !t.After(last) {
			continue
		}
		out = append(out, models.PricePoint{Time: t, Close: *c})
		last = t
	}
	return out
}

// RangeParam: 60 суток -> "60d". Меньше суток округляем до 1d.
func RangeParam(lookback time.Duration) string {
	days := int(lookback / (24 * time.Hour))
	if days < 1 {
		days = 1
	}
	return fmt.Sprintf("%dd", days)
}

// IntervalParam: 1h -> "1h", 15m -> "15m", 24h -> "1d".
func IntervalParam(d time.Duration) string {
	switch {
	case d <= 0:
		return "1h"
	case d%(24*time.Hour) == 0:
		return fmt.Sprintf("%dd", d/(24*time.Hour))
	case d%time.Hour == 0:
		return fmt.Sprintf("%dh", d/time.Hour)
	default:
		m := d / time.Minute
		if m < 1 {
			m = 1
		}
		return fmt.Sprintf("%dm", m)
	}
}
