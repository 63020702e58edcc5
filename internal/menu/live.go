package menu

import "sync/atomic"

// Live holds the most recently loaded catalog. Pricing reads through it so a
// fresh snapshot applies to the next quote without rebuilding the pricer.
type Live struct {
	current atomic.Pointer[Catalog]
}

func NewLive(c *Catalog) *Live {
	l := &Live{}
	l.Set(c)
	return l
}

func (l *Live) Set(c *Catalog) {
	l.current.Store(c)
}

// Catalog returns the current snapshot, or nil before the first load.
func (l *Live) Catalog() *Catalog {
	return l.current.Load()
}

func (l *Live) ToppingPrice(id int64) (int64, bool) {
	return l.Catalog().ToppingPrice(id)
}

func (l *Live) SaucePrice(id string) (int64, bool) {
	return l.Catalog().SaucePrice(id)
}
