package market_data

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"signal_bot/internal/modules/config"
	"signal_bot/internal/modules/market_data/service"
	"signal_bot/internal/modules/postgres"
	"signal_bot/internal/runner"
)

func Module() fx.Option {
	return fx.Module("market_data",
		fx.Provide(NewProvider),
	)
}

// NewProvider: yahoo по умолчанию, таблица candles если market_data.source=postgres.
func NewProvider(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (runner.PriceProvider, error) {
	if cfg.MarketData.Source != config.SourcePostgres {
		return service.NewYahoo(cfg.MarketData.BaseURL, cfg.MarketData.Timeout, log), nil
	}
	tx, err := postgres.Connect(lc, cfg.DB)
	if err != nil {
		return nil, err
	}
	return service.NewCandles(tx, log), nil
}
