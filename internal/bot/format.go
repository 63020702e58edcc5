package bot

import (
	"fmt"
	"strconv"
	"strings"

	"storefront/internal/checkout"
	"storefront/internal/delivery"
)

const callbackStatusPrefix = "status"

var statusLabels = map[checkout.Status]string{
	checkout.StatusPending:   "🆕 Pending",
	checkout.StatusPreparing: "👨‍🍳 Preparing",
	checkout.StatusReady:     "📦 Ready",
	checkout.StatusDelivered: "✅ Delivered",
}

func statusLabel(s checkout.Status) string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

// statusCallbackData encodes a status button as "status:<id>:<status>".
func statusCallbackData(orderID int64, status checkout.Status) string {
	return fmt.Sprintf("%s:%d:%s", callbackStatusPrefix, orderID, status)
}

func parseStatusCallback(data string) (int64, checkout.Status, bool) {
	parts := strings.Split(data, ":")
	if len(parts) != 3 || parts[0] != callbackStatusPrefix {
		return 0, "", false
	}
	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil || id <= 0 {
		return 0, "", false
	}
	status := checkout.Status(parts[2])
	if !status.Valid() {
		return 0, "", false
	}
	return id, status, true
}

// formatMoney renders minor units as shekels.
func formatMoney(v int64) string {
	sign := ""
	if v < 0 {
		sign, v = "-", -v
	}
	return fmt.Sprintf("%s₪%d.%02d", sign, v/100, v%100)
}

func FormatOrderNotification(order checkout.Order) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📦 New order #%d\n\n", order.ID)
	fmt.Fprintf(&sb, "Customer: %s\n", order.CustomerName)
	fmt.Fprintf(&sb, "Phone: %s\n", checkout.FormatPhoneNumber(order.Phone))
	if order.DeliveryMode == delivery.ModeDelivery {
		fmt.Fprintf(&sb, "Delivery to: %s\n", order.Address)
	} else {
		sb.WriteString("Pickup\n")
	}

	sb.WriteString("──────────────────\n")
	for _, l := range order.Lines {
		fmt.Fprintf(&sb, "%d × %s", l.Quantity, l.Name)
		if l.Size != "" {
			fmt.Fprintf(&sb, " (%s)", l.Size)
		}
		fmt.Fprintf(&sb, " - %s\n", formatMoney(l.Subtotal))
	}
	for _, a := range order.AddOns {
		fmt.Fprintf(&sb, "%d × %s (%s) - %s\n", a.Quantity, a.Name, a.Size, formatMoney(a.Subtotal()))
	}
	sb.WriteString("──────────────────\n")

	fmt.Fprintf(&sb, "Subtotal: %s\n", formatMoney(order.Subtotal))
	fmt.Fprintf(&sb, "Total: %s\n", formatMoney(order.Total))
	fmt.Fprintf(&sb, "Status: %s\n", statusLabel(order.Status))
	if !order.CreatedAt.IsZero() {
		fmt.Fprintf(&sb, "Date: %s", order.CreatedAt.Format("02.01.2006 15:04"))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// FormatOrderSummary is the one-line form used in listings.
func FormatOrderSummary(order checkout.Order) string {
	return fmt.Sprintf("#%d %s %s %s, %s",
		order.ID, statusLabel(order.Status), order.DeliveryMode, formatMoney(order.Total), order.CustomerName)
}

func FormatStatistics(stats checkout.Statistics) string {
	var sb strings.Builder
	sb.WriteString("📊 Order statistics\n\n")
	fmt.Fprintf(&sb, "Total: %d (%s)\n", stats.TotalOrders, formatMoney(stats.TotalRevenue))
	fmt.Fprintf(&sb, "Today: %d (%s)\n", stats.TodayOrders, formatMoney(stats.TodayRevenue))
	fmt.Fprintf(&sb, "Week: %d (%s)\n", stats.WeekOrders, formatMoney(stats.WeekRevenue))
	fmt.Fprintf(&sb, "Month: %d (%s)\n\n", stats.MonthOrders, formatMoney(stats.MonthRevenue))
	sb.WriteString("By status:\n")
	for _, s := range checkout.Statuses {
		fmt.Fprintf(&sb, "%s: %d\n", statusLabel(s), stats.StatusCounts[s])
	}
	return strings.TrimRight(sb.String(), "\n")
}
