package models

import "fmt"

// Decision: итог оценки инструмента.
type Decision string

const (
	DecisionBuy  Decision = "BUY"
	DecisionSell Decision = "SELL"
	DecisionHold Decision = "HOLD"
)

type Signal struct {
	Instrument  Instrument
	Decision    Decision
	RSI         float64
	SMA         float64
	Price       float64
	ChangeRatio float64
	Message     string
}

func (s Signal) String() string {
	return fmt.Sprintf("%s %s rsi=%.1f sma=%.4f price=%.4f change=%.4f",
		s.Instrument.Symbol, s.Decision, s.RSI, s.SMA, s.Price, s.ChangeRatio)
}

// Actionable is true for BUY/SELL.
func (s Signal) Actionable() bool {
	return s.Decision == DecisionBuy || s.Decision == DecisionSell
}
