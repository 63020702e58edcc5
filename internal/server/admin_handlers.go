package server

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"storefront/internal/checkout"
	"storefront/internal/storage"

	"github.com/gin-gonic/gin"
)

const (
	defaultListLimit = 50
	maxListLimit     = 1000
	xlsxContentType  = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type statusRequest struct {
	Status checkout.Status `json:"status" binding:"required"`
}

func (s *Server) listOrders(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultListLimit)))
	if err != nil || limit <= 0 {
		c.JSON(http.StatusBadRequest, errorBody{Error: "invalid limit"})
		return
	}
	limit = min(limit, maxListLimit)

	orders, err := s.deps.Checkout.ListOrders(c.Request.Context(), limit)
	if err != nil {
		s.writeError(c, err)
		return
	}
	if orders == nil {
		orders = []checkout.Order{}
	}
	c.JSON(http.StatusOK, orders)
}

func (s *Server) getOrder(c *gin.Context) {
	id, ok := orderIDParam(c)
	if !ok {
		return
	}
	order, err := s.deps.Checkout.GetOrder(c.Request.Context(), id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (s *Server) updateOrderStatus(c *gin.Context) {
	id, ok := orderIDParam(c)
	if !ok {
		return
	}
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return
	}

	order, err := s.deps.Checkout.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (s *Server) orderStats(c *gin.Context) {
	stats, err := s.deps.Checkout.Statistics(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (s *Server) exportOrders(c *gin.Context) {
	orders, err := s.deps.Checkout.ListOrders(c.Request.Context(), maxListLimit)
	if err != nil {
		s.writeError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := storage.WriteOrdersWorkbook(&buf, orders); err != nil {
		s.writeError(c, err)
		return
	}

	filename := fmt.Sprintf("orders_%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// refreshCatalog drops cached collections after the menu was edited elsewhere
// and reloads the snapshot pricing reads.
func (s *Server) refreshCatalog(c *gin.Context) {
	if cache, ok := s.deps.Catalog.(CatalogCache); ok {
		cache.InvalidateCatalog(c.Request.Context())
	}
	catalog, ok := s.loadCatalog(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": len(catalog.Items())})
}

func orderIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, errorBody{Error: "invalid order id"})
		return 0, false
	}
	return id, true
}
