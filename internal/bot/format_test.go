package bot

import (
	"strings"
	"testing"
	"time"

	"storefront/internal/checkout"
	"storefront/internal/delivery"
)

func TestParseStatusCallback(t *testing.T) {
	tests := []struct {
		data   string
		id     int64
		status checkout.Status
		ok     bool
	}{
		{"status:12:ready", 12, checkout.StatusReady, true},
		{statusCallbackData(7, checkout.StatusDelivered), 7, checkout.StatusDelivered, true},
		{"status:12:cancelled", 0, "", false},
		{"status:x:ready", 0, "", false},
		{"status:-1:ready", 0, "", false},
		{"order:12:ready", 0, "", false},
		{"status:12", 0, "", false},
	}

	for _, tt := range tests {
		id, status, ok := parseStatusCallback(tt.data)
		if id != tt.id || status != tt.status || ok != tt.ok {
			t.Errorf("parseStatusCallback(%q) = %d, %q, %v; want %d, %q, %v",
				tt.data, id, status, ok, tt.id, tt.status, tt.ok)
		}
	}
}

func TestFormatMoney(t *testing.T) {
	tests := map[int64]string{
		0:     "₪0.00",
		5:     "₪0.05",
		11400: "₪114.00",
		6270:  "₪62.70",
		-250:  "-₪2.50",
	}
	for in, want := range tests {
		if got := formatMoney(in); got != want {
			t.Errorf("formatMoney(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatOrderNotification(t *testing.T) {
	order := checkout.Order{
		ID:           42,
		CustomerName: "Dana",
		Phone:        "+972501234567",
		DeliveryMode: delivery.ModeDelivery,
		Address:      "Herzl 1, Haifa",
		Lines: checkout.OrderLines{
			{ItemID: 1, Name: "Margherita", Size: "L", Quantity: 2, UnitPrice: 5700, Subtotal: 11400},
		},
		AddOns:    checkout.AddOns{{Name: "Cola", Size: delivery.DrinkLarge, UnitPrice: 1200, Quantity: 1}},
		Subtotal:  12600,
		Total:     13860,
		Status:    checkout.StatusPending,
		CreatedAt: time.Date(2024, 5, 1, 18, 30, 0, 0, time.UTC),
	}

	text := FormatOrderNotification(order)

	for _, want := range []string{
		"New order #42",
		"Phone: 050-123-4567",
		"Delivery to: Herzl 1, Haifa",
		"2 × Margherita (L) - ₪114.00",
		"1 × Cola (large) - ₪12.00",
		"Total: ₪138.60",
		"Date: 01.05.2024 18:30",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("notification missing %q:\n%s", want, text)
		}
	}
}

func TestFormatOrderNotification_Pickup(t *testing.T) {
	text := FormatOrderNotification(checkout.Order{ID: 1, DeliveryMode: delivery.ModePickup, Status: checkout.StatusReady})
	if !strings.Contains(text, "Pickup") {
		t.Errorf("expected pickup marker in:\n%s", text)
	}
	if strings.Contains(text, "Date:") {
		t.Errorf("zero creation time should be omitted:\n%s", text)
	}
}

func TestFormatStatistics(t *testing.T) {
	text := FormatStatistics(checkout.Statistics{
		TotalOrders:  3,
		TotalRevenue: 15000,
		StatusCounts: map[checkout.Status]int{checkout.StatusPending: 2, checkout.StatusDelivered: 1},
	})

	for _, want := range []string{"Total: 3 (₪150.00)", "🆕 Pending: 2", "👨‍🍳 Preparing: 0", "✅ Delivered: 1"} {
		if !strings.Contains(text, want) {
			t.Errorf("statistics missing %q:\n%s", want, text)
		}
	}
}
