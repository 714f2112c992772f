package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"signal_bot/internal/models"
	"signal_bot/internal/strategy"
	"signal_bot/pkg/metrics"
	"signal_bot/pkg/tracing"
)

const (
	TaskEvaluate = "evaluate"
	TaskReport   = "report"
)

type PriceProvider interface {
	GetSeries(ctx context.Context, symbol string, lookback, interval time.Duration) (models.PriceSeries, error)
}

type Notifier interface {
	Send(ctx context.Context, text string) error
}

type OrderPlacer interface {
	PlaceOrder(ctx context.Context, asset string, side models.Side, quantity float64) (models.OrderAck, error)
}

// BalanceReader: 0 при любой ошибке, сбой логирует сам клиент.
type BalanceReader interface {
	GetBalance(ctx context.Context) float64
}

// Observer получает результаты прогонов (health, websocket). Может быть nil.
type Observer interface {
	OnSignal(sig models.Signal)
	OnEvaluated(at time.Time)
	OnReported(at time.Time)
}

type Config struct {
	Lookback       time.Duration
	Interval       time.Duration
	InitialBalance float64
}

type Deps struct {
	Instruments []models.Instrument
	Prices      PriceProvider
	Engine      strategy.Evaluator
	Orders      OrderPlacer
	Balance     BalanceReader
	Notifier    Notifier
	Observer    Observer
	Clock       Clock
	Log         *zap.Logger
}

// Runner: задачи оценки и отчёта. Состояния между прогонами не держит.
type Runner struct {
	cfg         Config
	instruments []models.Instrument
	prices      PriceProvider
	engine      strategy.Evaluator
	orders      OrderPlacer
	balance     BalanceReader
	notifier    Notifier
	observer    Observer
	clock       Clock
	log         *zap.Logger
	pr          *message.Printer
}

func New(cfg Config, d Deps) *Runner {
	if d.Clock == nil {
		d.Clock = SystemClock{}
	}
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	return &Runner{
		cfg:         cfg,
		instruments: append([]models.Instrument(nil), d.Instruments...),
		prices:      d.Prices,
		engine:      d.Engine,
		orders:      d.Orders,
		balance:     d.Balance,
		notifier:    d.Notifier,
		observer:    d.Observer,
		clock:       d.Clock,
		log:         d.Log.Named("runner"),
		pr:          message.NewPrinter(language.English),
	}
}

// Schedule вешает обе задачи на планировщик.
func (r *Runner) Schedule(s *Scheduler, poll, report time.Duration) {
	s.Every(TaskEvaluate, poll, func(ctx context.Context) { r.Evaluate(ctx) })
	s.Every(TaskReport, report, r.Report)
}

// Evaluate проходит по инструментам по очереди. Сбой одного инструмента
// не мешает остальным. Возвращает сигналы, которые удалось посчитать.
func (r *Runner) Evaluate(ctx context.Context) []models.Signal {
	ctx, log := r.startRun(ctx, TaskEvaluate)
	span, ctx := tracing.StartSpan(ctx, "runner.Evaluate")
	defer span.Finish()

	signals := make([]models.Signal, 0, len(r.instruments))
	for _, inst := range r.instruments {
		if ctx.Err() != nil {
			log.Warn("evaluation interrupted", zap.Error(ctx.Err()))
			break
		}
		if sig, ok := r.evaluateOne(ctx, log, inst); ok {
			signals = append(signals, sig)
		}
	}

	if r.observer != nil {
		r.observer.OnEvaluated(r.clock.Now())
	}
	return signals
}

func (r *Runner) evaluateOne(ctx context.Context, log *zap.Logger, inst models.Instrument) (sig models.Signal, ok bool) {
	log = log.With(zap.String("symbol", inst.Symbol))
	span, ctx := tracing.StartSpan(ctx, "runner.evaluate_instrument")
	span.SetTag("symbol", inst.Symbol)
	defer span.Finish()

	defer func() {
		if p := recover(); p != nil {
			err := fmt.Errorf("panic: %v", p)
			tracing.Fail(span, err)
			log.Error("instrument evaluation panicked", zap.Error(err))
			metrics.SkippedTotal.WithLabelValues(inst.Symbol, "panic").Inc()
			ok = false
		}
	}()

	series, err := r.prices.GetSeries(ctx, inst.Symbol, r.cfg.Lookback, r.cfg.Interval)
	if err != nil {
		tracing.Fail(span, err)
		log.Warn("price data unavailable", zap.Error(err))
		metrics.SkippedTotal.WithLabelValues(inst.Symbol, "provider").Inc()
		return models.Signal{}, false
	}

	sig, err = r.engine.Evaluate(inst, series)
	if err != nil {
		reason := "error"
		if errors.Is(err, strategy.ErrNoData) {
			reason = "no_data"
		}
		log.Info("skipped", zap.String("reason", reason), zap.Int("points", len(series)), zap.Error(err))
		metrics.SkippedTotal.WithLabelValues(inst.Symbol, reason).Inc()
		return models.Signal{}, false
	}
	metrics.EvaluationsTotal.WithLabelValues(inst.Symbol, string(sig.Decision)).Inc()
	span.SetTag("decision", string(sig.Decision))
	if r.observer != nil {
		r.observer.OnSignal(sig)
	}

	req, actionable := models.NewOrderRequest(sig)
	if !actionable {
		return sig, true
	}

	ack, err := r.orders.PlaceOrder(ctx, req.Symbol, req.Side, req.Quantity)
	if err != nil {
		tracing.Fail(span, err)
		log.Error("order not placed", zap.String("side", string(req.Side)), zap.Error(err))
	} else {
		log.Info("order placed", zap.String("side", string(req.Side)), zap.String("order_id", ack.OrderID))
	}

	// уведомляем и при неудачном ордере
	r.notify(ctx, log, sig.Message)
	return sig, true
}

// Report шлёт баланс USDT и PnL относительно стартового депозита.
func (r *Runner) Report(ctx context.Context) {
	ctx, log := r.startRun(ctx, TaskReport)
	span, ctx := tracing.StartSpan(ctx, "runner.Report")
	defer span.Finish()

	now := r.clock.Now()
	bal := r.balance.GetBalance(ctx)
	pnl := PnLPercent(bal, r.cfg.InitialBalance)

	log.Info("report", zap.Float64("balance", bal), zap.Float64("pnl_pct", pnl))
	r.notify(ctx, log, r.FormatReport(now, bal, pnl))

	if r.observer != nil {
		r.observer.OnReported(now)
	}
}

// FormatReport: "PROFIT REPORT\nTime: 15:04\nBalance: $1,020.00\nPnL: +2.00%".
func (r *Runner) FormatReport(at time.Time, balance, pnl float64) string {
	return r.pr.Sprintf("PROFIT REPORT\nTime: %s\nBalance: $%.2f\nPnL: %+.2f%%",
		at.Format("15:04"), balance, pnl)
}

// PnLPercent: (balance-initial)/initial*100, 0 при initial <= 0.
func PnLPercent(balance, initial float64) float64 {
	if initial <= 0 {
		return 0
	}
	base := decimal.NewFromFloat(initial)
	return decimal.NewFromFloat(balance).Sub(base).Div(base).Mul(decimal.NewFromInt(100)).Round(2).InexactFloat64()
}

func (r *Runner) notify(ctx context.Context, log *zap.Logger, text string) {
	if err := r.notifier.Send(ctx, text); err != nil {
		log.Error("notification failed", zap.Error(err))
	}
}

func (r *Runner) startRun(ctx context.Context, task string) (context.Context, *zap.Logger) {
	id := uuid.NewString()
	return tracing.WithRunID(ctx, id), r.log.With(zap.String("task", task), zap.String("run_id", id))
}
