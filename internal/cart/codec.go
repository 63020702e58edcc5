package cart

import (
	"encoding/json"
	"errors"

	"storefront/internal/menu"
)

type lineJSON struct {
	Kind     Kind            `json:"kind"`
	Config   json.RawMessage `json:"config"`
	Quantity int             `json:"quantity"`
	Item     menu.Item       `json:"item"`
}

// DecodeConfiguration builds the variant named by kind from its JSON body.
func DecodeConfiguration(kind Kind, raw json.RawMessage) (Configuration, error) {
	switch kind {
	case KindPizza:
		return decodeAs[Pizza](kind, raw)
	case KindPasta:
		return decodeAs[Pasta](kind, raw)
	case KindGarlicBread:
		return decodeAs[GarlicBread](kind, raw)
	case KindSalad:
		return decodeAs[Salad](kind, raw)
	case KindPastry:
		return decodeAs[Pastry](kind, raw)
	case KindBakedPotato:
		return decodeAs[BakedPotato](kind, raw)
	case KindPlain:
		return decodeAs[Plain](kind, raw)
	default:
		return nil, invalidf("%s: %q", ErrMsgUnknownKind, kind)
	}
}

func decodeAs[T Configuration](kind Kind, raw json.RawMessage) (Configuration, error) {
	var v T
	if len(raw) == 0 {
		return v, nil
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			return nil, verr
		}
		return nil, invalidf("decode %s configuration: %v", kind, err)
	}
	return v, nil
}

func (l Line) MarshalJSON() ([]byte, error) {
	var raw json.RawMessage
	var kind Kind
	if l.Config != nil {
		kind = l.Config.Kind()
		data, err := json.Marshal(l.Config)
		if err != nil {
			return nil, err
		}
		raw = data
	}
	return json.Marshal(lineJSON{Kind: kind, Config: raw, Quantity: l.Quantity, Item: l.Item})
}

func (l *Line) UnmarshalJSON(data []byte) error {
	var raw lineJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	cfg, err := DecodeConfiguration(raw.Kind, raw.Config)
	if err != nil {
		return err
	}
	*l = Line{Config: cfg, Quantity: clampQuantity(raw.Quantity), Item: raw.Item}
	return nil
}

func (c *Cart) MarshalJSON() ([]byte, error) {
	lines := c.lines
	if lines == nil {
		lines = []Line{}
	}
	return json.Marshal(lines)
}

// UnmarshalJSON restores a cart, merging any lines that turn out equal.
func (c *Cart) UnmarshalJSON(data []byte) error {
	var lines []Line
	if err := json.Unmarshal(data, &lines); err != nil {
		return err
	}
	c.lines = nil
	for _, l := range lines {
		c.Add(l.Config, l.Item, l.Quantity)
	}
	return nil
}
