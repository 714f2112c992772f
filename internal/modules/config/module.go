package config

import (
	"go.uber.org/fx"

	"signal_bot/internal/models"
	"signal_bot/internal/strategy"
)

func Module() fx.Option {
	return fx.Module("config",
		fx.Provide(
			NewValidConfig,
			func(c *Config) strategy.Params { return c.Params() },
			func(c *Config) []models.Instrument { return c.Instruments() },
		),
	)
}

// NewValidConfig: NewConfig + Validate; ошибка валидации роняет старт приложения.
func NewValidConfig() (*Config, error) {
	cfg, err := NewConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
