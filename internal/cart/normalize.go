package cart

import "storefront/internal/menu"

// Normalize clears the fields an item's capability flags rule out, so two
// configurations that price the same also compare equal. A missing flag wins
// over a populated field.
func Normalize(cfg Configuration, item menu.Item) Configuration {
	if cfg == nil {
		return nil
	}

	switch v := cfg.value().(type) {
	case Pizza:
		v.ItemRef = v.ItemRef.normalize(item)
		v.Dough = normalizeDough(v.Dough)
		if !item.AllowsToppings {
			v.Toppings = ToppingLayout{}
		}
		if !item.AllowsSauces {
			v.CreamSauce = false
		}
		return v
	case Pasta:
		v.ItemRef = v.ItemRef.normalize(item)
		if !item.AllowsSauces {
			v.SauceID = ""
		}
		return v
	case GarlicBread:
		v.ItemRef = v.ItemRef.normalize(item)
		if !item.AllowsSauces {
			v.CreamSauce = false
		}
		return v
	case Salad:
		v.ItemRef = v.ItemRef.normalize(item)
		return v
	case Pastry:
		v.ItemRef = v.ItemRef.normalize(item)
		return v
	case BakedPotato:
		v.ItemRef = v.ItemRef.normalize(item)
		if !item.AllowsToppings {
			v.Toppings = ToppingLayout{}
		}
		return v
	case Plain:
		v.ItemRef = v.ItemRef.normalize(item)
		return v
	default:
		return v
	}
}

// normalize drops the size of items sold in one size and spells out the
// default tier for the rest.
func (r ItemRef) normalize(item menu.Item) ItemRef {
	if !item.AllowsSizes {
		r.Tier = ""
		return r
	}
	r.Tier = r.Size()
	return r
}
