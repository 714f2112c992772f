package strategy

import (
	"errors"

	"signal_bot/internal/models"
)

// ErrNoData: серия пустая или короче окна индикаторов.
var ErrNoData = errors.New("strategy: no data")

// Params: пороги правил. Берутся из конфига на старте и больше не меняются.
type Params struct {
	RSIPeriod       int
	RSIBuy          float64 // oversold
	RSISell         float64 // overbought
	SMAPeriod       int
	ChangeThreshold float64 // 0.02 => 2%
}

func DefaultParams() Params {
	return Params{
		RSIPeriod:       14,
		RSIBuy:          30,
		RSISell:         70,
		SMAPeriod:       20,
		ChangeThreshold: 0.02,
	}
}

// MinSamples: сколько закрытий нужно, чтобы оба индикатора были определены.
func (p Params) MinSamples() int {
	n := p.RSIPeriod + 1
	if p.SMAPeriod > n {
		n = p.SMAPeriod
	}
	return n
}

// Evaluator: то, что дергает раннер.
type Evaluator interface {
	Evaluate(inst models.Instrument, series models.PriceSeries) (models.Signal, error)
}
