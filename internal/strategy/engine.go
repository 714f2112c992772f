package strategy

import (
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"signal_bot/internal/models"
)

// Engine: RSI + SMA + импульс последней свечи.
type Engine struct {
	p   Params
	log *zap.Logger
	pr  *message.Printer
}

func NewEngine(p Params, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{
		p:   p,
		log: log.Named("strategy"),
		pr:  message.NewPrinter(language.English),
	}
}

func (e *Engine) Params() Params { return e.p }

func (e *Engine) Evaluate(inst models.Instrument, series models.PriceSeries) (models.Signal, error) {
	last, ok := series.Last()
	if !ok {
		return models.Signal{}, ErrNoData
	}
	closes := series.Closes()

	current := last.Close
	previous := current
	if len(closes) > 1 {
		previous = closes[len(closes)-2]
	}
	change := 0.0
	if previous > 0 {
		change = (current - previous) / previous
	}

	rsi, rsiOK := Latest(RSI(closes, e.p.RSIPeriod))
	sma, smaOK := Latest(SMA(closes, e.p.SMAPeriod))
	if !rsiOK || !smaOK {
		e.log.Info("not enough samples",
			zap.String("symbol", inst.Symbol),
			zap.Int("have", len(closes)),
			zap.Int("need", e.p.MinSamples()),
		)
		return models.Signal{}, fmt.Errorf("%s: %d samples, need %d: %w", inst.Symbol, len(closes), e.p.MinSamples(), ErrNoData)
	}

	decision := e.Decide(rsi, sma, current, change)
	sig := models.Signal{
		Instrument:  inst,
		Decision:    decision,
		RSI:         rsi,
		SMA:         sma,
		Price:       current,
		ChangeRatio: change,
	}
	sig.Message = e.format(sig)

	e.log.Info("evaluated",
		zap.String("symbol", inst.Symbol),
		zap.String("decision", string(decision)),
		zap.Float64("rsi", rsi),
		zap.Float64("sma", sma),
		zap.Float64("price", current),
		zap.Float64("change", change),
	)
	return sig, nil
}

// Decide применяет правила по порядку, первое совпадение выигрывает.
// SELL проще получить, чем BUY: RSI и тренд через OR, импульс через AND.
func (e *Engine) Decide(rsi, sma, price, change float64) models.Decision {
	if rsi < e.p.RSIBuy && price > sma && change > e.p.ChangeThreshold {
		return models.DecisionBuy
	}
	if (rsi > e.p.RSISell || price < sma) && change < -e.p.ChangeThreshold {
		return models.DecisionSell
	}
	return models.DecisionHold
}

func (e *Engine) format(sig models.Signal) string {
	return e.pr.Sprintf("%s %s\nRSI: %.1f | Price: $%.2f | %+.2f%%",
		sig.Decision, sig.Instrument.Symbol, sig.RSI, sig.Price, sig.ChangeRatio*100)
}
