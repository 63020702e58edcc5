package checkout

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"storefront/internal/delivery"
)

const (
	minNameLength    = 2
	minPhoneDigits   = 10
	maxPhoneDigits   = 15
	minAddressLength = 5
)

// Customer is the contact block of a checkout form.
type Customer struct {
	Name    string `json:"customer_name"`
	Phone   string `json:"phone"`
	Address string `json:"address,omitempty"`
}

// Normalize trims fields and rewrites the phone number. Pickup orders drop the address.
func (c Customer) Normalize(mode delivery.Mode) Customer {
	out := Customer{
		Name:    strings.TrimSpace(c.Name),
		Phone:   NormalizePhoneNumber(c.Phone),
		Address: strings.TrimSpace(c.Address),
	}
	if mode != delivery.ModeDelivery {
		out.Address = ""
	}
	return out
}

// Validate wraps ErrInvalidContact with the first problem found.
func (c Customer) Validate(mode delivery.Mode) error {
	if utf8.RuneCountInString(strings.TrimSpace(c.Name)) < minNameLength {
		return fmt.Errorf("%w: name must be at least %d characters", ErrInvalidContact, minNameLength)
	}
	if !IsValidPhoneNumber(c.Phone) {
		return fmt.Errorf("%w: phone number %q", ErrInvalidContact, c.Phone)
	}
	if mode == delivery.ModeDelivery && utf8.RuneCountInString(strings.TrimSpace(c.Address)) < minAddressLength {
		return fmt.Errorf("%w: delivery needs a full address", ErrInvalidContact)
	}
	return nil
}

func digits(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
}

// NormalizePhoneNumber strips formatting and writes local Israeli numbers
// (05X...) in international form.
func NormalizePhoneNumber(phone string) string {
	cleaned := digits(phone)

	if strings.HasPrefix(cleaned, "972") && len(cleaned) == 12 {
		return "+" + cleaned
	}
	if strings.HasPrefix(cleaned, "0") && len(cleaned) == 10 {
		return "+972" + cleaned[1:]
	}
	if strings.HasPrefix(strings.TrimSpace(phone), "+") {
		return "+" + cleaned
	}
	return cleaned
}

func IsValidPhoneNumber(phone string) bool {
	cleaned := digits(phone)
	if len(cleaned) < minPhoneDigits || len(cleaned) > maxPhoneDigits {
		return false
	}

	badNumbers := map[string]bool{
		"0000000000": true,
		"1111111111": true,
		"1234567890": true,
		"0123456789": true,
	}
	return !badNumbers[cleaned]
}

// FormatPhoneNumber renders +972 mobile numbers as 05X-XXX-XXXX.
func FormatPhoneNumber(phone string) string {
	if strings.HasPrefix(phone, "+972") && len(phone) == 13 {
		local := "0" + phone[4:]
		return fmt.Sprintf("%s-%s-%s", local[:3], local[3:6], local[6:])
	}
	return phone
}
