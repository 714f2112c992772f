package runner

import (
	"context"
	"sync"
	"time"

	"signal_bot/internal/models"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type fakePrices struct {
	series map[string]models.PriceSeries
	errs   map[string]error
	panics map[string]bool
	calls  []string
}

func (f *fakePrices) GetSeries(_ context.Context, symbol string, _, _ time.Duration) (models.PriceSeries, error) {
	f.calls = append(f.calls, symbol)
	if f.panics[symbol] {
		panic("provider exploded")
	}
	if err := f.errs[symbol]; err != nil {
		return nil, err
	}
	return f.series[symbol], nil
}

// fakeEngine отдаёт заранее заданное решение по символу.
type fakeEngine struct {
	decisions map[string]models.Decision
	errs      map[string]error
}

func (f *fakeEngine) Evaluate(inst models.Instrument, series models.PriceSeries) (models.Signal, error) {
	if err := f.errs[inst.Symbol]; err != nil {
		return models.Signal{}, err
	}
	d, ok := f.decisions[inst.Symbol]
	if !ok {
		d = models.DecisionHold
	}
	return models.Signal{
		Instrument: inst,
		Decision:   d,
		Message:    string(d) + " " + inst.Symbol,
	}, nil
}

type placedOrder struct {
	asset string
	side  models.Side
	qty   float64
}

type fakeOrders struct {
	orders []placedOrder
	err    error
}

func (f *fakeOrders) PlaceOrder(_ context.Context, asset string, side models.Side, qty float64) (models.OrderAck, error) {
	f.orders = append(f.orders, placedOrder{asset, side, qty})
	if f.err != nil {
		return models.OrderAck{}, f.err
	}
	return models.OrderAck{OrderID: "1", Symbol: asset, Side: side, Quantity: qty}, nil
}

type fakeBalance struct{ v float64 }

func (f *fakeBalance) GetBalance(context.Context) float64 { return f.v }

type fakeNotifier struct {
	texts []string
	err   error
}

func (f *fakeNotifier) Send(_ context.Context, text string) error {
	f.texts = append(f.texts, text)
	return f.err
}

type fakeObserver struct {
	signals   []models.Signal
	evaluated []time.Time
	reported  []time.Time
}

func (f *fakeObserver) OnSignal(sig models.Signal) { f.signals = append(f.signals, sig) }
func (f *fakeObserver) OnEvaluated(at time.Time)   { f.evaluated = append(f.evaluated, at) }
func (f *fakeObserver) OnReported(at time.Time)    { f.reported = append(f.reported, at) }
