package cart

// Equal reports whether two configurations describe the same thing to order.
// Topping regions are compared in order; the toppings inside one region are
// compared regardless of the order they were picked. Item snapshots are not
// part of identity.
func Equal(a, b Configuration) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	a, b = a.value(), b.value()
	if a.Kind() != b.Kind() {
		return false
	}
	return a.sameAs(b)
}
