package models

import "testing"

func TestNewOrderRequest(t *testing.T) {
	inst := NewInstrument("btc-usd", 0.001)
	cases := []struct {
		decision Decision
		side     Side
		ok       bool
	}{
		{DecisionBuy, SideBuy, true},
		{DecisionSell, SideSell, true},
		{DecisionHold, "", false},
	}
	for _, c := range cases {
		req, ok := NewOrderRequest(Signal{Instrument: inst, Decision: c.decision})
		if ok != c.ok {
			t.Fatalf("%s: expected ok=%v, got %v", c.decision, c.ok, ok)
		}
		if !ok {
			continue
		}
		if req.Side != c.side || req.Type != OrderTypeMarket || req.Symbol != "BTC" || req.Quantity != 0.001 {
			t.Fatalf("%s: unexpected order %+v", c.decision, req)
		}
	}
}

func TestInstrumentSymbols(t *testing.T) {
	inst := NewInstrument(" eth-usd ", 0.01)
	if inst.Symbol != "ETH-USD" || inst.Base != "ETH" || inst.Quote != "USDT" {
		t.Fatalf("unexpected instrument %+v", inst)
	}
	if inst.VenueSymbol() != "ETHUSDT" {
		t.Fatalf("unexpected venue symbol %s", inst.VenueSymbol())
	}
	if BaseAsset("SOL") != "SOL" {
		t.Fatalf("expected bare symbol to be its own base")
	}
}

func TestPriceSeriesCloses(t *testing.T) {
	s := PriceSeries{{Close: 1}, {Close: 2}, {Close: 3}}
	closes := s.Closes()
	if len(closes) != 3 || closes[2] != 3 {
		t.Fatalf("unexpected closes %v", closes)
	}
	last, ok := s.Last()
	if !ok || last.Close != 3 {
		t.Fatalf("unexpected last %+v", last)
	}
	if _, ok := (PriceSeries{}).Last(); ok {
		t.Fatalf("expected empty series to have no last point")
	}
}
