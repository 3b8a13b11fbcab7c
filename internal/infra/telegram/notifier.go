// internal/infra/telegram/notifier.go
package telegram

import (
	"fmt"

	"gopkg.in/telebot.v3"
)

// Notifier pushes operational messages (run summaries, failure alerts) to an
// admin chat. It implements the alert.Notifier interface.
type Notifier struct {
	bot    *telebot.Bot
	chatID int64
}

func NewNotifier(token string, chatID int64) (*Notifier, error) {
	// Send-only: no poller is configured because the notifier never
	// receives updates.
	bot, err := telebot.NewBot(telebot.Settings{Token: token})
	if err != nil {
		return nil, fmt.Errorf("could not create Telegram bot: %w", err)
	}
	return &Notifier{bot: bot, chatID: chatID}, nil
}

func (n *Notifier) Notify(text string) error {
	// Telegram caps messages at 4096 chars; summaries with many errors get
	// truncated rather than rejected.
	const limit = 4000
	if len(text) > limit {
		text = text[:limit] + "\n…(truncated)"
	}
	if _, err := n.bot.Send(telebot.ChatID(n.chatID), text); err != nil {
		return fmt.Errorf("telegram send failed: %w", err)
	}
	return nil
}
