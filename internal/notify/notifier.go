package notify

import (
	"context"
	"fmt"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"signal_bot/pkg/metrics"
)

// Notifier: доставка текстовых уведомлений. Ошибку вызывающий только логирует.
type Notifier interface {
	Send(ctx context.Context, text string) error
}

// Telegram: отправка в один чат. Входящие апдейты не читаем.
type Telegram struct {
	bot    *tgbot.BotAPI
	chatID int64
	log    *zap.Logger
}

// NewTelegram проверяет токен через getMe. endpoint пустой => api.telegram.org.
func NewTelegram(token string, chatID int64, endpoint string, log *zap.Logger) (*Telegram, error) {
	if endpoint == "" {
		endpoint = tgbot.APIEndpoint
	}
	b, err := tgbot.NewBotAPIWithAPIEndpoint(token, endpoint)
	if err != nil {
		return nil, fmt.Errorf("telegram init: %w", err)
	}
	return &Telegram{
		bot:    b,
		chatID: chatID,
		log:    log.Named("telegram"),
	}, nil
}

func (t *Telegram) Send(ctx context.Context, text string) (err error) {
	defer func() { metrics.NotificationsTotal.WithLabelValues(metrics.Outcome(err)).Inc() }()

	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := t.bot.Send(tgbot.NewMessage(t.chatID, text)); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	t.log.Debug("sent", zap.Int64("chat_id", t.chatID))
	return nil
}

// Stdout для запуска без телеграма, сообщение просто уходит в лог.
type Stdout struct {
	log *zap.Logger
}

func NewStdout(log *zap.Logger) *Stdout { return &Stdout{log: log.Named("notify")} }

func (s *Stdout) Send(_ context.Context, text string) error {
	s.log.Info("notification", zap.String("text", text))
	metrics.NotificationsTotal.WithLabelValues("ok").Inc()
	return nil
}
