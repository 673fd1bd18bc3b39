package notification

import (
	"math/big"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
	"github.com/pkg/errors"
	"github.com/walletops/yoyow_bridge/internal/config"
	"go.uber.org/zap"
)

// Notifier pushes operator alerts to a Telegram group. With an empty token
// it degrades to logging only, so tests and dev setups need no bot.
type Notifier struct {
	cfg    config.TelegramConfig
	logger *zap.Logger
}

func NewNotifier(cfg config.TelegramConfig, logger *zap.Logger) *Notifier {
	return &Notifier{cfg: cfg, logger: logger}
}

// Send delivers one message to the configured group.
func (n *Notifier) Send(msg string) error {
	if n.cfg.BotToken == "" || n.cfg.ChatID == "" {
		n.logger.Info("Telegram not configured, alert logged only", zap.String("message", msg))
		return nil
	}

	bot, err := tgbotapi.NewBotAPI(n.cfg.BotToken)
	if err != nil {
		return errors.Wrap(err, "telegram bot init")
	}

	chatID, ok := big.NewInt(0).SetString(n.cfg.ChatID, 10)
	if !ok {
		return errors.Errorf("invalid telegram chat id %q", n.cfg.ChatID)
	}

	if _, err := bot.Send(tgbotapi.NewMessage(chatID.Int64(), msg)); err != nil {
		return errors.Wrap(err, "telegram send")
	}
	return nil
}

// Alert is Send with failures demoted to a log line; alerting must never
// fail a cycle.
func (n *Notifier) Alert(msg string) {
	if err := n.Send(msg); err != nil {
		n.logger.Warn("Failed to send telegram alert", zap.Error(err), zap.String("message", msg))
	}
}
