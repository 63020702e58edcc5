package bot

import (
	"context"
	"fmt"
	"slices"

	"storefront/internal/checkout"
	"storefront/internal/config"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Orders is the slice of the checkout service the staff bot drives.
type Orders interface {
	ListOrders(ctx context.Context, limit int) ([]checkout.Order, error)
	GetOrder(ctx context.Context, id int64) (checkout.Order, error)
	Statistics(ctx context.Context) (checkout.Statistics, error)
	UpdateStatus(ctx context.Context, id int64, status checkout.Status) (checkout.Order, error)
}

// sender is the part of tgbotapi.BotAPI used outside the update loop.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Bot notifies staff about orders and lets admins move them along.
type Bot struct {
	client *tgbotapi.BotAPI
	api    sender
	logger *zap.Logger
	orders Orders
	cfg    config.TelegramConfig
}

func New(cfg config.TelegramConfig, orders Orders, logger *zap.Logger) (*Bot, error) {
	botAPI, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot API: %w", err)
	}
	botAPI.Debug = cfg.Debug

	logger.Info("Bot authorized",
		zap.String("username", botAPI.Self.UserName),
		zap.Int64("id", botAPI.Self.ID))

	b := newBot(botAPI, cfg, orders, logger)
	b.client = botAPI
	return b, nil
}

func newBot(api sender, cfg config.TelegramConfig, orders Orders, logger *zap.Logger) *Bot {
	return &Bot{api: api, logger: logger, orders: orders, cfg: cfg}
}

// Start polls for updates until ctx is done.
func (b *Bot) Start(ctx context.Context) error {
	if b.client == nil {
		return fmt.Errorf("bot: no telegram client")
	}
	b.logger.Info("Starting bot")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.client.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.logger.Info("Shutting down bot")
			b.client.StopReceivingUpdates()
			return nil

		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.Message != nil:
		b.processMessage(ctx, update.Message)
	case update.CallbackQuery != nil:
		b.processCallback(ctx, update.CallbackQuery)
	}
}

func (b *Bot) processMessage(ctx context.Context, msg *tgbotapi.Message) {
	if !msg.IsCommand() || msg.From == nil {
		return
	}
	chatID := msg.Chat.ID

	b.logger.Debug("Processing command",
		zap.Int64("chat_id", chatID),
		zap.String("command", msg.Command()))

	if !b.isAdmin(msg.From.ID) {
		b.sendError(chatID, "This bot is for staff only")
		return
	}
	b.handleAdminCommand(ctx, chatID, msg.Command(), splitArgs(msg.CommandArguments()))
}

func (b *Bot) processCallback(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	if callback.From == nil || callback.Message == nil {
		return
	}
	chatID := callback.Message.Chat.ID

	b.logger.Debug("Processing callback",
		zap.Int64("chat_id", chatID),
		zap.String("data", callback.Data))

	if !b.isAdmin(callback.From.ID) {
		b.answerCallback(callback.ID, "Not allowed")
		return
	}

	orderID, status, ok := parseStatusCallback(callback.Data)
	if !ok {
		b.answerCallback(callback.ID, "Unknown action")
		return
	}

	order, err := b.orders.UpdateStatus(ctx, orderID, status)
	if err != nil {
		b.logger.Warn("Status update from callback failed",
			zap.Int64("order_id", orderID),
			zap.String("status", string(status)),
			zap.Error(err))
		b.answerCallback(callback.ID, userMessage(err))
		return
	}
	b.answerCallback(callback.ID, fmt.Sprintf("Order #%d is %s", order.ID, statusLabel(order.Status)))
}

func (b *Bot) isAdmin(userID int64) bool {
	return slices.Contains(b.cfg.AdminIDs, userID)
}

func (b *Bot) answerCallback(id, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(id, text)); err != nil {
		b.logger.Error("Failed to answer callback", zap.Error(err))
	}
}

func (b *Bot) sendMessage(msg tgbotapi.MessageConfig) error {
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("Failed to send message",
			zap.Int64("chat_id", msg.ChatID),
			zap.Error(err))
		return err
	}
	return nil
}

func (b *Bot) sendError(chatID int64, text string) {
	_ = b.sendMessage(tgbotapi.NewMessage(chatID, "❌ "+text))
}
