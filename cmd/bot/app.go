package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"signal_bot/internal/exchange"
	"signal_bot/internal/models"
	"signal_bot/internal/modules/config"
	"signal_bot/internal/modules/health"
	"signal_bot/internal/modules/market_data"
	"signal_bot/internal/notify"
	"signal_bot/internal/runner"
	"signal_bot/internal/strategy"
	"signal_bot/pkg/logger"
	"signal_bot/pkg/tracing"
)

const oneShotTimeout = 2 * time.Minute

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	l, err := logger.New(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	logger.Init(l)
	l.Info("config loaded", zap.String("effective", cfg.Redacted()))
	return l, nil
}

func startTracing(lc fx.Lifecycle, cfg *config.Config) error {
	_, closer, err := tracing.InitTracer(tracing.Config{
		Enabled: cfg.Tracing.Enabled,
		Host:    cfg.Tracing.Host,
		Port:    cfg.Tracing.Port,
	})
	if err != nil {
		return fmt.Errorf("init tracer: %w", err)
	}
	lc.Append(fx.StopHook(func() {
		if err := closer.Close(); err != nil {
			logger.Error("Error closing Jaeger tracer: %v", err)
		}
	}))
	return nil
}

// base: общее для всех команд: конфиг, логгер, трейсинг и зависимости раннера.
func base() fx.Option {
	return fx.Options(
		config.Module(),
		fx.Provide(newLogger),
		fx.WithLogger(func(l *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: l.Named("fx").WithOptions(zap.IncreaseLevel(zap.WarnLevel))}
		}),
		fx.Invoke(startTracing),
		strategy.Module(),
		exchange.Module(),
		notify.Module(),
		market_data.Module(),
	)
}

func runBot(cmd *cobra.Command, args []string) error {
	app := fx.New(
		base(),
		health.Module(),
		runner.Module(),
	)
	if err := app.Err(); err != nil {
		return err
	}
	app.Run()
	return nil
}

// oneShot поднимает граф без планировщика и вызывает fn.
func oneShot(fn any, extra ...fx.Option) error {
	opts := append([]fx.Option{base(), fx.Invoke(fn)}, extra...)
	app := fx.New(opts...)
	if err := app.Err(); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), oneShotTimeout)
	defer cancel()
	if err := app.Start(ctx); err != nil {
		return err
	}
	return app.Stop(ctx)
}

func runBalance(cmd *cobra.Command, args []string) error {
	return oneShot(func(cfg *config.Config, client *exchange.Client) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), oneShotTimeout)
		defer cancel()

		bal, err := client.FetchBalance(ctx)
		if err != nil {
			return err
		}
		r := runner.New(runner.Config{InitialBalance: cfg.Trading.InitialBalance}, runner.Deps{})
		fmt.Fprintln(cmd.OutOrStdout(), r.FormatReport(time.Now(), bal.Free, runner.PnLPercent(bal.Free, cfg.Trading.InitialBalance)))
		return nil
	})
}

func newEvaluateCmd() *cobra.Command {
	var trade bool
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Run one evaluation pass and print the signals",
		RunE: func(cmd *cobra.Command, args []string) error {
			return oneShot(func(p runner.Params) {
				ctx, cancel := context.WithTimeout(cmd.Context(), oneShotTimeout)
				defer cancel()

				deps := runner.Deps{
					Instruments: p.Instruments,
					Prices:      p.Prices,
					Engine:      p.Engine,
					Orders:      p.Client,
					Notifier:    p.Notifier,
					Log:         p.Log,
				}
				if !trade {
					deps.Orders = dryRun{log: p.Log}
					deps.Notifier = notify.NewStdout(p.Log)
				}
				r := runner.New(runner.Config{
					Lookback: p.Cfg.MarketData.Lookback,
					Interval: p.Cfg.MarketData.Interval,
				}, deps)

				for _, sig := range r.Evaluate(ctx) {
					fmt.Fprintln(cmd.OutOrStdout(), sig.String())
				}
			})
		},
	}
	cmd.Flags().BoolVar(&trade, "trade", false, "place real orders and send notifications")
	return cmd
}

// dryRun: ордера только в лог.
type dryRun struct{ log *zap.Logger }

func (d dryRun) PlaceOrder(_ context.Context, asset string, side models.Side, qty float64) (models.OrderAck, error) {
	d.log.Info("dry run: order skipped", zap.String("asset", asset), zap.String("side", string(side)), zap.Float64("qty", qty))
	return models.OrderAck{Symbol: asset, Side: side, Quantity: qty}, nil
}
