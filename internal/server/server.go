package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/tiendamasiva/storefront-service/internal/config"
	"github.com/tiendamasiva/storefront-service/internal/handlers"
)

// Server owns the gin router and the http.Server lifecycle.
type Server struct {
	config   *config.Config
	router   *gin.Engine
	http     *http.Server
	handlers *handlers.Handlers
	logger   *log.Entry
}

// New builds the router with all storefront routes registered.
func New(h *handlers.Handlers, cfg *config.Config) *Server {
	router := gin.New()
	router.Use(gin.Recovery())

	s := &Server{
		config:   cfg,
		router:   router,
		handlers: h,
		logger:   log.WithField("component", "server"),
	}

	s.setupRoutes()

	s.http = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handlers.Health)
	s.router.GET("/ready", s.handlers.Ready)
	s.router.GET("/version", s.handlers.Version)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := s.router.Group("/api/v1")
	v1.Use(s.handlers.Session())
	{
		v1.POST("/auth/register", s.handlers.Register)
		v1.POST("/auth/login", s.handlers.Login)
		v1.POST("/auth/logout", s.handlers.Logout)

		v1.GET("/catalog", s.handlers.Browse)
		v1.GET("/catalog/:id", s.handlers.GetProduct)

		user := v1.Group("")
		user.Use(s.handlers.RequireUser())
		{
			user.GET("/profile", s.handlers.Profile)
			user.GET("/profile/orders", s.handlers.OrderHistory)

			user.GET("/cart", s.handlers.ViewCart)
			user.POST("/cart/items", s.handlers.AddToCart)
			user.DELETE("/cart", s.handlers.ClearCart)
			user.POST("/cart/coupon", s.handlers.ApplyCoupon)

			user.POST("/checkout", s.handlers.Checkout)
			user.POST("/purchase", s.handlers.QuickPurchase)

			user.GET("/orders/:id", s.handlers.GetReceipt)
		}

		admin := v1.Group("/admin")
		admin.Use(s.handlers.RequireAdmin())
		{
			admin.GET("/products", s.handlers.AdminListProducts)
			admin.POST("/products", s.handlers.AdminCreateProduct)
			admin.DELETE("/products/:id", s.handlers.AdminDeleteProduct)
			admin.GET("/dashboard", s.handlers.AdminDashboard)
			admin.POST("/purchase", s.handlers.QuickPurchase)
		}
	}
}

// Router exposes the gin engine, mainly for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Start begins serving. It blocks until the listener fails or Shutdown
// is called.
func (s *Server) Start() error {
	s.logger.WithField("addr", s.http.Addr).Info("server listening")
	return s.http.ListenAndServe()
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
