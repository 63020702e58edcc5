package bot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"storefront/internal/checkout"
	"storefront/internal/storage"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const (
	recentOrdersLimit = 10
	exportOrdersLimit = 1000
)

const helpText = "Commands:\n" +
	"/orders - latest orders\n" +
	"/order <id> - order details\n" +
	"/status <id> <pending|preparing|ready|delivered> - move an order\n" +
	"/stats - order statistics\n" +
	"/export - all orders as xlsx"

func (b *Bot) handleAdminCommand(ctx context.Context, chatID int64, cmd string, args []string) {
	switch cmd {
	case "start", "help":
		_ = b.sendMessage(tgbotapi.NewMessage(chatID, helpText))
	case "orders":
		b.handleRecentOrders(ctx, chatID)
	case "order":
		if len(args) < 1 {
			b.sendError(chatID, "Usage: /order <id>")
			return
		}
		b.handleOrderDetails(ctx, chatID, args[0])
	case "status":
		if len(args) < 2 {
			b.sendError(chatID, "Usage: /status <id> <status>")
			return
		}
		b.handleStatusUpdate(ctx, chatID, args[0], args[1])
	case "stats":
		b.handleOrderStats(ctx, chatID)
	case "export":
		b.handleExportOrders(ctx, chatID)
	default:
		b.sendError(chatID, "Unknown command, try /help")
	}
}

func (b *Bot) handleRecentOrders(ctx context.Context, chatID int64) {
	orders, err := b.orders.ListOrders(ctx, recentOrdersLimit)
	if err != nil {
		b.logger.Error("Failed to list orders", zap.Error(err))
		b.sendError(chatID, "Could not load orders")
		return
	}
	if len(orders) == 0 {
		_ = b.sendMessage(tgbotapi.NewMessage(chatID, "No orders yet"))
		return
	}

	var sb strings.Builder
	sb.WriteString("🧾 Latest orders\n\n")
	for _, o := range orders {
		sb.WriteString(FormatOrderSummary(o))
		sb.WriteByte('\n')
	}
	_ = b.sendMessage(tgbotapi.NewMessage(chatID, sb.String()))
}

func (b *Bot) handleOrderDetails(ctx context.Context, chatID int64, rawID string) {
	orderID, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		b.sendError(chatID, "Invalid order ID")
		return
	}

	order, err := b.orders.GetOrder(ctx, orderID)
	if err != nil {
		b.logger.Warn("Failed to get order", zap.Int64("order_id", orderID), zap.Error(err))
		b.sendError(chatID, userMessage(err))
		return
	}

	msg := tgbotapi.NewMessage(chatID, FormatOrderNotification(order))
	if markup, ok := statusKeyboard(order); ok {
		msg.ReplyMarkup = markup
	}
	_ = b.sendMessage(msg)
}

func (b *Bot) handleStatusUpdate(ctx context.Context, chatID int64, rawID, rawStatus string) {
	orderID, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		b.sendError(chatID, "Invalid order ID")
		return
	}

	order, err := b.orders.UpdateStatus(ctx, orderID, checkout.Status(strings.ToLower(rawStatus)))
	if err != nil {
		b.logger.Warn("Failed to update order status",
			zap.Int64("order_id", orderID),
			zap.String("status", rawStatus),
			zap.Error(err))
		b.sendError(chatID, userMessage(err))
		return
	}

	_ = b.sendMessage(tgbotapi.NewMessage(chatID, fmt.Sprintf(
		"✅ Order #%d is now %s", order.ID, statusLabel(order.Status))))
}

func (b *Bot) handleOrderStats(ctx context.Context, chatID int64) {
	stats, err := b.orders.Statistics(ctx)
	if err != nil {
		b.logger.Error("Failed to get order statistics", zap.Error(err))
		b.sendError(chatID, "Could not load statistics")
		return
	}
	_ = b.sendMessage(tgbotapi.NewMessage(chatID, FormatStatistics(stats)))
}

func (b *Bot) handleExportOrders(ctx context.Context, chatID int64) {
	orders, err := b.orders.ListOrders(ctx, exportOrdersLimit)
	if err != nil {
		b.logger.Error("Failed to list orders for export", zap.Error(err))
		b.sendError(chatID, "Could not export orders")
		return
	}

	var buf bytes.Buffer
	if err := storage.WriteOrdersWorkbook(&buf, orders); err != nil {
		b.logger.Error("Failed to build orders workbook", zap.Error(err))
		b.sendError(chatID, "Could not export orders")
		return
	}

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
		Name:  fmt.Sprintf("orders_%s.xlsx", time.Now().Format("20060102")),
		Bytes: buf.Bytes(),
	})
	doc.Caption = fmt.Sprintf("📊 %d orders", len(orders))

	if _, err := b.api.Send(doc); err != nil {
		b.logger.Error("Failed to send Excel file", zap.Error(err))
		b.sendError(chatID, "Failed to send exported file")
	}
}

// userMessage turns a service error into something safe to show staff.
func userMessage(err error) string {
	switch {
	case errors.Is(err, checkout.ErrOrderNotFound):
		return "Order not found"
	case errors.Is(err, checkout.ErrInvalidStatus):
		return "That status change is not allowed"
	default:
		return "Something went wrong"
	}
}

func splitArgs(s string) []string {
	return strings.Fields(s)
}
