package bot

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/checkout"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// NotifyNewOrder posts the order to the staff channel, or to every admin when
// no channel is configured.
func (b *Bot) NotifyNewOrder(ctx context.Context, order checkout.Order) error {
	var errs []error
	for _, chatID := range b.recipients() {
		msg := tgbotapi.NewMessage(chatID, FormatOrderNotification(order))
		if markup, ok := statusKeyboard(order); ok {
			msg.ReplyMarkup = markup
		}
		if err := b.sendMessage(msg); err != nil {
			errs = append(errs, fmt.Errorf("chat %d: %w", chatID, err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("notify new order %d: %w", order.ID, errors.Join(errs...))
	}
	b.logger.Debug("Order notification sent", zap.Int64("order_id", order.ID))
	return nil
}

func (b *Bot) NotifyStatusChange(ctx context.Context, order checkout.Order) error {
	text := fmt.Sprintf("ℹ️ Order #%d is now %s", order.ID, statusLabel(order.Status))

	var errs []error
	for _, chatID := range b.recipients() {
		msg := tgbotapi.NewMessage(chatID, text)
		if markup, ok := statusKeyboard(order); ok {
			msg.ReplyMarkup = markup
		}
		if err := b.sendMessage(msg); err != nil {
			errs = append(errs, fmt.Errorf("chat %d: %w", chatID, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("notify status change %d: %w", order.ID, errors.Join(errs...))
	}
	return nil
}

func (b *Bot) recipients() []int64 {
	if b.cfg.ChannelID != 0 {
		return []int64{b.cfg.ChannelID}
	}
	out := make([]int64, 0, len(b.cfg.AdminIDs))
	for _, id := range b.cfg.AdminIDs {
		if id != 0 {
			out = append(out, id)
		}
	}
	return out
}

// statusKeyboard offers every status the order can still move to.
func statusKeyboard(order checkout.Order) (tgbotapi.InlineKeyboardMarkup, bool) {
	var row []tgbotapi.InlineKeyboardButton
	for _, next := range checkout.Statuses {
		if order.Status.CanMoveTo(next) {
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(
				statusLabel(next), statusCallbackData(order.ID, next)))
		}
	}
	if len(row) == 0 {
		return tgbotapi.InlineKeyboardMarkup{}, false
	}
	return tgbotapi.NewInlineKeyboardMarkup(row), true
}
