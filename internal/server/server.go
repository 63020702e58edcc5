package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"storefront/internal/cart"
	"storefront/internal/checkout"
	"storefront/internal/config"
	"storefront/internal/delivery"
	"storefront/internal/menu"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Sessions persists customer sessions between requests.
type Sessions interface {
	Save(ctx context.Context, session *delivery.Session) error
	Get(ctx context.Context, id string) (*delivery.Session, error)
	Delete(ctx context.Context, id string) error
}

// CatalogCache is implemented by catalog readers that cache collections.
type CatalogCache interface {
	InvalidateCatalog(ctx context.Context)
}

// Deps are the collaborators the HTTP API needs.
type Deps struct {
	Catalog  menu.Reader
	Live     *menu.Live
	Quoter   *delivery.Quoter
	Drinks   delivery.DrinkPrices
	Limits   cart.Limits
	Sessions Sessions
	Checkout *checkout.Service
}

type Server struct {
	cfg    config.HTTPConfig
	deps   Deps
	logger *zap.Logger
	engine *gin.Engine
}

func New(cfg config.HTTPConfig, deps Deps, logger *zap.Logger) *Server {
	if deps.Live == nil {
		deps.Live = menu.NewLive(nil)
	}
	s := &Server{cfg: cfg, deps: deps, logger: logger}
	s.engine = s.routes()
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(s.logger))
	r.Use(cors.New(corsConfig(s.cfg.AllowedOrigins)))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.GET("/menu", s.getMenu)
		api.GET("/toppings", s.getToppings)
		api.GET("/sauces", s.getSauces)

		api.POST("/sessions", s.createSession)
		api.DELETE("/sessions/:id", s.deleteSession)

		sessions := api.Group("/sessions/:id")
		{
			sessions.GET("/cart", s.getCart)
			sessions.DELETE("/cart", s.clearCart)
			sessions.POST("/cart/items", s.addItem)
			sessions.PATCH("/cart/items/:itemId", s.updateQuantity)
			sessions.DELETE("/cart/items/:itemId", s.removeItem)
			sessions.PUT("/delivery-mode", s.switchDeliveryMode)
			sessions.POST("/quote", s.quote)
			sessions.POST("/checkout", s.checkout)
		}

		orders := api.Group("/orders")
		orders.Use(adminOnly(s.cfg.AdminToken))
		{
			orders.GET("", s.listOrders)
			orders.GET("/stats", s.orderStats)
			orders.GET("/export", s.exportOrders)
			orders.GET("/:id", s.getOrder)
			orders.PATCH("/:id/status", s.updateOrderStatus)
		}

		api.POST("/catalog/refresh", adminOnly(s.cfg.AdminToken), s.refreshCatalog)
	}

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
		MaxAge:       12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.engine,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", zap.String("addr", s.cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server.Run: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server.Run: shutdown: %w", err)
	}
	return nil
}
