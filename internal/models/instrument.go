package models

import "strings"

// QuoteAsset is the stablecoin every instrument is traded against.
const QuoteAsset = "USDT"

type Instrument struct {
	Symbol   string  // market data id, e.g. BTC-USD
	Base     string  // BTC
	Quote    string  // USDT
	Quantity float64 // fixed trade size in base units
}

func NewInstrument(symbol string, qty float64) Instrument {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	return Instrument{
		Symbol:   symbol,
		Base:     BaseAsset(symbol),
		Quote:    QuoteAsset,
		Quantity: qty,
	}
}

// BaseAsset: "BTC-USD" -> "BTC".
func BaseAsset(symbol string) string {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	if i := strings.IndexByte(s, '-'); i > 0 {
		return s[:i]
	}
	return s
}

// VenueSymbol: BTC + USDT.
func (i Instrument) VenueSymbol() string { return i.Base + i.Quote }
