package runner

import (
	"context"
	"errors"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"signal_bot/internal/exchange"
	"signal_bot/internal/models"
	"signal_bot/internal/modules/config"
	"signal_bot/internal/notify"
	"signal_bot/internal/strategy"
)

type Params struct {
	fx.In

	Cfg         *config.Config
	Instruments []models.Instrument
	Prices      PriceProvider
	Engine      strategy.Evaluator
	Client      *exchange.Client
	Notifier    notify.Notifier
	Observer    Observer `optional:"true"`
	Log         *zap.Logger
}

func NewRunner(p Params) *Runner {
	return New(Config{
		Lookback:       p.Cfg.MarketData.Lookback,
		Interval:       p.Cfg.MarketData.Interval,
		InitialBalance: p.Cfg.Trading.InitialBalance,
	}, Deps{
		Instruments: p.Instruments,
		Prices:      p.Prices,
		Engine:      p.Engine,
		Orders:      p.Client,
		Balance:     p.Client,
		Notifier:    p.Notifier,
		Observer:    p.Observer,
		Log:         p.Log,
	})
}

func Module() fx.Option {
	return fx.Module("runner",
		fx.Provide(
			NewRunner,
			func(log *zap.Logger) *Scheduler { return NewScheduler(SystemClock{}, log) },
		),
		fx.Invoke(Start),
	)
}

// Start регистрирует задачи и крутит планировщик до остановки приложения.
func Start(lc fx.Lifecycle, cfg *config.Config, r *Runner, s *Scheduler, log *zap.Logger) {
	r.Schedule(s, cfg.Schedule.PollInterval, cfg.Schedule.ReportInterval)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				defer close(done)
				if err := s.Run(ctx, cfg.Schedule.TickInterval); err != nil && !errors.Is(err, context.Canceled) {
					log.Error("scheduler exited", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
				return nil
			case <-stopCtx.Done():
				return stopCtx.Err()
			}
		},
	})
}
