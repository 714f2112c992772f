package notify

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"signal_bot/internal/modules/config"
)

func Module() fx.Option {
	return fx.Module("notify",
		fx.Provide(New),
	)
}

// New выбирает телеграм, если заданы токен и чат, иначе stdout.
func New(cfg *config.Config, log *zap.Logger) (Notifier, error) {
	if !cfg.TelegramEnabled() {
		log.Warn("telegram is not configured, notifications go to log")
		return NewStdout(log), nil
	}
	tg, err := NewTelegram(cfg.Telegram.Token, cfg.Telegram.ChatID, cfg.Telegram.Endpoint, log)
	if err != nil {
		return nil, err
	}
	return tg, nil
}
