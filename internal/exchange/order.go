package exchange

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"signal_bot/internal/models"
	"signal_bot/pkg/metrics"
)

type orderBody struct {
	Symbol   string `json:"symbol"`
	Side     string `json:"side"`
	Type     string `json:"type"`
	Quantity string `json:"quantity"`
}

type orderResponse struct {
	Result  *bool           `json:"result"`
	Code    json.RawMessage `json:"code"`
	Message string          `json:"message"`
	Data    struct {
		OrderID json.RawMessage `json:"orderId"`
	} `json:"data"`
}

// PlaceOrder отправляет рыночный ордер asset/USDT. Повторов нет: неподтверждённый
// ордер не переотправляется, любой сбой возвращается как *Error.
func (c *Client) PlaceOrder(ctx context.Context, asset string, side models.Side, quantity float64) (ack models.OrderAck, err error) {
	const op = "PlaceOrder"
	asset = strings.ToUpper(asset)
	defer func() {
		metrics.OrdersTotal.WithLabelValues(asset, string(side), metrics.Outcome(err)).Inc()
		if err != nil {
			c.log.Error("order failed",
				zap.String("asset", asset),
				zap.String("side", string(side)),
				zap.Float64("qty", quantity),
				zap.String("kind", string(KindOf(err))),
				zap.Error(err),
			)
		}
	}()

	payload, err := sonic.Marshal(orderBody{
		Symbol:   asset + models.QuoteAsset,
		Side:     string(side),
		Type:     string(models.OrderTypeMarket),
		Quantity: decimal.NewFromFloat(quantity).String(),
	})
	if err != nil {
		return models.OrderAck{}, &Error{Kind: KindDecode, Op: op, Err: err}
	}

	data, err := c.do(ctx, op, http.MethodPost, orderPath, payload)
	if err != nil {
		return models.OrderAck{}, err
	}

	var r orderResponse
	if err := json.Unmarshal(data, &r); err != nil {
		return models.OrderAck{}, &Error{Kind: KindDecode, Op: op, Body: string(data), Err: err}
	}
	if r.Result != nil && !*r.Result {
		return models.OrderAck{}, &Error{
			Kind: KindRejected,
			Op:   op,
			Body: "code=" + rawString(r.Code) + " msg=" + r.Message,
		}
	}

	ack = models.OrderAck{
		OrderID:  rawString(r.Data.OrderID),
		Symbol:   asset,
		Side:     side,
		Quantity: quantity,
	}
	c.log.Info("order placed",
		zap.String("asset", asset),
		zap.String("side", string(side)),
		zap.Float64("qty", quantity),
		zap.String("order_id", ack.OrderID),
	)
	return ack, nil
}

// rawString: "123" и 123 -> 123.
func rawString(raw json.RawMessage) string {
	s := strings.TrimSpace(string(raw))
	if s == "null" {
		return ""
	}
	return strings.Trim(s, `"`)
}
