package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"storefront/internal/cart"
	"storefront/internal/checkout"
	"storefront/internal/delivery"
	"storefront/internal/menu"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type lineView struct {
	ItemID        int64              `json:"item_id"`
	Name          string             `json:"name"`
	Kind          cart.Kind          `json:"kind"`
	Size          cart.Size          `json:"size,omitempty"`
	Quantity      int                `json:"quantity"`
	Configuration cart.Configuration `json:"configuration"`
	UnitPrice     int64              `json:"unit_price"`
	Subtotal      int64              `json:"subtotal"`
}

type cartView struct {
	SessionID string         `json:"session_id"`
	Mode      delivery.Mode  `json:"mode"`
	Lines     []lineView     `json:"lines"`
	Units     int            `json:"units"`
	Quote     delivery.Quote `json:"quote"`
}

type addItemRequest struct {
	Kind     cart.Kind       `json:"kind"`
	Config   json.RawMessage `json:"config" binding:"required"`
	Quantity int             `json:"quantity"`
}

type quantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

type modeRequest struct {
	Mode string `json:"mode" binding:"required"`
}

type addOnRequest struct {
	Name     string             `json:"name" binding:"required"`
	Size     delivery.DrinkSize `json:"size" binding:"required"`
	Quantity int                `json:"quantity"`
}

type quoteRequest struct {
	AddOns []addOnRequest `json:"add_ons"`
}

type checkoutRequest struct {
	checkout.Customer
	AddOns []addOnRequest `json:"add_ons"`
	Total  *int64         `json:"total"`
}

func (s *Server) getMenu(c *gin.Context) {
	catalog, ok := s.loadCatalog(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"categories": catalog.Categories(),
		"items":      catalog.Items(),
	})
}

func (s *Server) getToppings(c *gin.Context) {
	toppings, err := s.deps.Catalog.GetToppings(c.Request.Context())
	if err != nil {
		s.catalogUnavailable(c, err)
		return
	}
	c.JSON(http.StatusOK, toppings)
}

func (s *Server) getSauces(c *gin.Context) {
	sauces, err := s.deps.Catalog.GetSauces(c.Request.Context())
	if err != nil {
		s.catalogUnavailable(c, err)
		return
	}
	c.JSON(http.StatusOK, sauces)
}

func (s *Server) createSession(c *gin.Context) {
	session := delivery.NewSession(uuid.NewString())
	if err := s.deps.Sessions.Save(c.Request.Context(), session); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, s.view(session))
}

func (s *Server) deleteSession(c *gin.Context) {
	if err := s.deps.Sessions.Delete(c.Request.Context(), c.Param("id")); err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) getCart(c *gin.Context) {
	session, ok := s.loadSession(c)
	if !ok {
		return
	}
	if _, ok := s.loadCatalog(c); !ok {
		return
	}
	c.JSON(http.StatusOK, s.view(session))
}

func (s *Server) clearCart(c *gin.Context) {
	session, ok := s.loadSession(c)
	if !ok {
		return
	}
	session.Cart().Clear()
	s.saveAndRespond(c, http.StatusOK, session)
}

func (s *Server) addItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return
	}

	session, ok := s.loadSession(c)
	if !ok {
		return
	}
	catalog, ok := s.loadCatalog(c)
	if !ok {
		return
	}

	cfg, item, err := s.resolve(catalog, req)
	if err != nil {
		s.writeError(c, err)
		return
	}

	quantity := max(req.Quantity, 1)
	if err := s.deps.Limits.CheckQuantity(quantity); err != nil {
		s.writeError(c, err)
		return
	}
	if err := s.deps.Limits.CheckQuantity(session.Cart().QuantityOf(cfg, item) + quantity); err != nil {
		s.writeError(c, err)
		return
	}

	merged := session.Cart().Add(cfg, item, quantity)
	s.logger.Debug("Cart item added",
		zap.String("session_id", session.ID),
		zap.Int64("item_id", item.ID),
		zap.Bool("merged", merged))

	s.saveAndRespond(c, http.StatusOK, session)
}

// resolve decodes the configuration against the catalog: the item must exist
// and be available, and the configuration kind must match its category.
// Fields the item does not offer are cleared before validation.
func (s *Server) resolve(catalog *menu.Catalog, req addItemRequest) (cart.Configuration, menu.Item, error) {
	var ref cart.ItemRef
	if err := json.Unmarshal(req.Config, &ref); err != nil {
		return nil, menu.Item{}, &cart.ValidationError{
			Code:    cart.StatusInvalidArgument,
			Message: fmt.Sprintf("decode configuration: %v", err),
		}
	}
	if ref.ID <= 0 {
		return nil, menu.Item{}, &cart.ValidationError{Code: cart.StatusInvalidArgument, Message: cart.ErrMsgItemIDRequired}
	}

	item, ok := catalog.Item(ref.ID)
	if !ok {
		return nil, menu.Item{}, fmt.Errorf("item %d: %w", ref.ID, menu.ErrItemNotFound)
	}
	if !item.Available {
		return nil, menu.Item{}, fmt.Errorf("%s: %w", item.Name, errItemUnavailable)
	}

	kind := cart.Kind(catalog.KindOf(item))
	switch {
	case kind == "":
		kind = req.Kind
	case req.Kind != "" && req.Kind != kind:
		return nil, menu.Item{}, &cart.ValidationError{
			Code:    cart.StatusInvalidArgument,
			Message: fmt.Sprintf("%s takes a %s configuration, got %s", item.Name, kind, req.Kind),
		}
	}

	cfg, err := cart.DecodeConfiguration(kind, req.Config)
	if err != nil {
		return nil, menu.Item{}, err
	}
	cfg = cart.Normalize(cfg, item)
	if err := cfg.Validate(s.deps.Limits); err != nil {
		return nil, menu.Item{}, err
	}
	if err := checkToppings(catalog, item, cfg); err != nil {
		return nil, menu.Item{}, err
	}
	return cfg, item, nil
}

// checkToppings refuses catalog toppings restricted to another category.
// Ids the catalog does not know are left to pricing, which charges nothing.
func checkToppings(catalog *menu.Catalog, item menu.Item, cfg cart.Configuration) error {
	var layout cart.ToppingLayout
	switch v := cfg.(type) {
	case cart.Pizza:
		layout = v.Toppings
	case cart.BakedPotato:
		layout = v.Toppings
	default:
		return nil
	}

	for _, section := range layout.Sections() {
		for _, id := range section {
			if _, known := catalog.ToppingPrice(id); known && !catalog.ToppingAllowed(id, item.CategoryID) {
				return &cart.ValidationError{
					Code:    cart.StatusInvalidArgument,
					Message: fmt.Sprintf("topping %d is not offered on %s", id, item.Name),
				}
			}
		}
	}
	return nil
}

func (s *Server) updateQuantity(c *gin.Context) {
	itemID, ok := itemIDParam(c)
	if !ok {
		return
	}
	var req quantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return
	}
	if err := s.deps.Limits.CheckQuantity(*req.Quantity); err != nil {
		s.writeError(c, err)
		return
	}

	session, ok := s.loadSession(c)
	if !ok {
		return
	}
	if _, ok := s.loadCatalog(c); !ok {
		return
	}
	if !session.Cart().UpdateQuantity(itemID, *req.Quantity) {
		c.JSON(http.StatusNotFound, errorBody{Error: "item is not in the cart"})
		return
	}
	s.saveAndRespond(c, http.StatusOK, session)
}

func (s *Server) removeItem(c *gin.Context) {
	itemID, ok := itemIDParam(c)
	if !ok {
		return
	}
	session, ok := s.loadSession(c)
	if !ok {
		return
	}
	if _, ok := s.loadCatalog(c); !ok {
		return
	}
	if session.Cart().Remove(itemID) == 0 {
		c.JSON(http.StatusNotFound, errorBody{Error: "item is not in the cart"})
		return
	}
	s.saveAndRespond(c, http.StatusOK, session)
}

func (s *Server) switchDeliveryMode(c *gin.Context) {
	var req modeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return
	}
	mode, err := delivery.ParseMode(req.Mode)
	if err != nil {
		s.writeError(c, err)
		return
	}

	session, ok := s.loadSession(c)
	if !ok {
		return
	}
	if _, ok := s.loadCatalog(c); !ok {
		return
	}
	cleared := session.SwitchDeliveryMode(mode)
	if err := s.deps.Sessions.Save(c.Request.Context(), session); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cleared": cleared, "cart": s.view(session)})
}

func (s *Server) quote(c *gin.Context) {
	var req quoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return
	}
	addOns, err := s.priceAddOns(req.AddOns)
	if err != nil {
		s.writeError(c, err)
		return
	}

	session, ok := s.loadSession(c)
	if !ok {
		return
	}
	if _, ok := s.loadCatalog(c); !ok {
		return
	}
	c.JSON(http.StatusOK, s.deps.Quoter.Quote(session, addOns))
}

func (s *Server) checkout(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return
	}
	addOns, err := s.priceAddOns(req.AddOns)
	if err != nil {
		s.writeError(c, err)
		return
	}

	session, ok := s.loadSession(c)
	if !ok {
		return
	}
	if _, ok := s.loadCatalog(c); !ok {
		return
	}

	order, err := s.deps.Checkout.Submit(c.Request.Context(), session, checkout.Request{
		Customer:     req.Customer,
		AddOns:       addOns,
		ClaimedTotal: req.Total,
	})
	if err != nil {
		s.writeError(c, err)
		return
	}

	if err := s.deps.Sessions.Save(c.Request.Context(), session); err != nil {
		s.logger.Error("Failed to save session after checkout",
			zap.String("session_id", session.ID),
			zap.Int64("order_id", order.ID),
			zap.Error(err))
	}
	c.JSON(http.StatusCreated, order)
}

func (s *Server) priceAddOns(reqs []addOnRequest) ([]delivery.AddOn, error) {
	out := make([]delivery.AddOn, 0, len(reqs))
	for _, r := range reqs {
		if err := s.deps.Limits.CheckQuantity(r.Quantity); err != nil {
			return nil, err
		}
		a, err := s.deps.Drinks.Drink(r.Name, r.Size, r.Quantity)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

// loadCatalog fetches a fresh snapshot and makes it the one pricing reads.
func (s *Server) loadCatalog(c *gin.Context) (*menu.Catalog, bool) {
	catalog, err := menu.Load(c.Request.Context(), s.deps.Catalog)
	if err != nil {
		s.catalogUnavailable(c, err)
		return nil, false
	}
	s.deps.Live.Set(catalog)
	return catalog, true
}

func (s *Server) catalogUnavailable(c *gin.Context, err error) {
	s.logger.Error("Catalog unavailable", zap.Error(err))
	c.JSON(http.StatusServiceUnavailable, errorBody{Error: "menu is unavailable"})
}

func (s *Server) loadSession(c *gin.Context) (*delivery.Session, bool) {
	session, err := s.deps.Sessions.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return nil, false
	}
	return session, true
}

func (s *Server) saveAndRespond(c *gin.Context, status int, session *delivery.Session) {
	if err := s.deps.Sessions.Save(c.Request.Context(), session); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(status, s.view(session))
}

func (s *Server) view(session *delivery.Session) cartView {
	pricer := s.deps.Quoter.Pricer()
	lines := session.Cart().Lines()

	out := cartView{
		SessionID: session.ID,
		Mode:      session.Mode(),
		Lines:     make([]lineView, 0, len(lines)),
		Units:     session.Cart().Units(),
		Quote:     s.deps.Quoter.Quote(session, nil),
	}
	for _, l := range lines {
		v := lineView{
			ItemID:        l.Config.ItemID(),
			Name:          l.Item.Name,
			Kind:          l.Config.Kind(),
			Quantity:      l.Quantity,
			Configuration: l.Config,
			UnitPrice:     pricer.UnitPrice(l.Config, l.Item),
			Subtotal:      pricer.LineSubtotal(l),
		}
		if l.Item.AllowsSizes {
			v.Size = l.Config.Size()
		}
		out.Lines = append(out.Lines, v)
	}
	return out
}

func itemIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("itemId"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, errorBody{Error: "invalid item id"})
		return 0, false
	}
	return id, true
}
