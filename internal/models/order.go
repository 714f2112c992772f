package models

type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

type OrderType string

const OrderTypeMarket OrderType = "MARKET"

type OrderRequest struct {
	Symbol   string // base asset, venue symbol is Symbol+USDT
	Side     Side
	Type     OrderType
	Quantity float64
}

// NewOrderRequest строит ордер из сигнала. HOLD -> ok=false.
func NewOrderRequest(sig Signal) (OrderRequest, bool) {
	var side Side
	switch sig.Decision {
	case DecisionBuy:
		side = SideBuy
	case DecisionSell:
		side = SideSell
	default:
		return OrderRequest{}, false
	}
	return OrderRequest{
		Symbol:   sig.Instrument.Base,
		Side:     side,
		Type:     OrderTypeMarket,
		Quantity: sig.Instrument.Quantity,
	}, true
}

// OrderAck: подтверждение биржи.
type OrderAck struct {
	OrderID  string
	Symbol   string
	Side     Side
	Quantity float64
}

type Balance struct {
	Asset string
	Free  float64
}
