package exchange

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"signal_bot/internal/models"
	"signal_bot/pkg/metrics"
)

// amount принимает "12.5", 12.5 и null.
type amount float64

func (a *amount) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		*a = 0
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return err
	}
	*a = amount(d.InexactFloat64())
	return nil
}

type balanceEntry struct {
	Asset string `json:"asset"`
	Coin  string `json:"coin"`
	Free  amount `json:"free"`
}

func (e balanceEntry) name() string {
	if e.Asset != "" {
		return e.Asset
	}
	return e.Coin
}

type balanceResponse struct {
	Result *bool           `json:"result"`
	Data   json.RawMessage `json:"data"`
}

// FetchBalance: свободный остаток в котируемой валюте. Нет записи: 0 без ошибки.
func (c *Client) FetchBalance(ctx context.Context) (models.Balance, error) {
	const op = "GetBalance"
	out := models.Balance{Asset: models.QuoteAsset}

	data, err := c.do(ctx, op, http.MethodGet, balancePath, nil)
	if err != nil {
		return out, err
	}

	var r balanceResponse
	if err := json.Unmarshal(data, &r); err != nil {
		return out, &Error{Kind: KindDecode, Op: op, Body: string(data), Err: err}
	}
	if r.Result != nil && !*r.Result {
		return out, &Error{Kind: KindRejected, Op: op, Body: string(data)}
	}

	entries, err := decodeBalances(r.Data)
	if err != nil {
		return out, &Error{Kind: KindDecode, Op: op, Body: string(data), Err: err}
	}
	for _, e := range entries {
		if strings.EqualFold(e.name(), models.QuoteAsset) {
			out.Free = float64(e.Free)
			break
		}
	}
	return out, nil
}

// data бывает списком или {"balances": [...]}.
func decodeBalances(raw json.RawMessage) ([]balanceEntry, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var list []balanceEntry
	if raw[0] == '[' {
		err := json.Unmarshal(raw, &list)
		return list, err
	}
	var wrap struct {
		Balances []balanceEntry `json:"balances"`
	}
	err := json.Unmarshal(raw, &wrap)
	return wrap.Balances, err
}

// GetBalance никогда не падает: при любом сбое пишет в лог и отдаёт 0.
func (c *Client) GetBalance(ctx context.Context) float64 {
	b, err := c.FetchBalance(ctx)
	if err != nil {
		c.log.Error("balance fetch failed",
			zap.String("kind", string(KindOf(err))),
			zap.Error(err),
		)
		return 0
	}
	metrics.BalanceUSDT.Set(b.Free)
	return b.Free
}
