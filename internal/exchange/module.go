package exchange

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"signal_bot/internal/modules/config"
)

func Module() fx.Option {
	return fx.Module("exchange",
		fx.Provide(
			func(cfg *config.Config, log *zap.Logger) *Client {
				return NewClient(Config{
					BaseURL:   cfg.Exchange.BaseURL,
					APIKey:    cfg.Exchange.APIKey,
					APISecret: cfg.Exchange.APISecret,
					Timeout:   cfg.Exchange.Timeout,
					RateLimit: cfg.Exchange.RateLimit,
				}, log)
			},
		),
	)
}
