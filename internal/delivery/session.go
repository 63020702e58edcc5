package delivery

import (
	"encoding/json"

	"storefront/internal/cart"
)

// Session is one customer's cart and the mode it is priced for.
type Session struct {
	ID   string
	mode Mode
	cart *cart.Cart
}

func NewSession(id string) *Session {
	return &Session{ID: id, mode: ModePickup, cart: cart.New()}
}

func (s *Session) Mode() Mode {
	if s.mode == "" {
		return ModePickup
	}
	return s.mode
}

func (s *Session) Cart() *cart.Cart {
	if s.cart == nil {
		s.cart = cart.New()
	}
	return s.cart
}

// SwitchDeliveryMode changes the mode and empties the cart. Switching to the
// mode already in effect leaves the cart alone and reports false.
func (s *Session) SwitchDeliveryMode(mode Mode) (cleared bool) {
	if mode == s.Mode() {
		return false
	}
	s.mode = mode
	s.Cart().Clear()
	return true
}

type sessionJSON struct {
	ID   string     `json:"id"`
	Mode Mode       `json:"mode"`
	Cart *cart.Cart `json:"cart"`
}

func (s *Session) MarshalJSON() ([]byte, error) {
	return json.Marshal(sessionJSON{ID: s.ID, Mode: s.Mode(), Cart: s.Cart()})
}

func (s *Session) UnmarshalJSON(data []byte) error {
	raw := sessionJSON{Cart: cart.New()}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	mode, err := ParseMode(string(raw.Mode))
	if err != nil {
		return err
	}
	s.ID, s.mode, s.cart = raw.ID, mode, raw.Cart
	return nil
}
