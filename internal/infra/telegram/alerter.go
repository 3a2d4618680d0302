package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/estampados/printflow/internal/domain/inventory"
)

// Alerter pushes low-stock alerts to the shop's admin chat.
type Alerter struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func NewAlerter(token string, chatID int64) (*Alerter, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return &Alerter{bot: bot, chatID: chatID}, nil
}

func (a *Alerter) LowStock(_ context.Context, it inventory.Item) error {
	text := fmt.Sprintf("⚠️ Estoque baixo: %s — %.2f %s (mínimo %.2f)",
		it.Name, it.Quantity, it.Unit, it.MinLevel)
	_, err := a.bot.Send(tgbotapi.NewMessage(a.chatID, text))
	return err
}
