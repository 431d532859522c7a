package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"sehub/internal/auth"
	"sehub/internal/config"
	"sehub/internal/reconcile"
	"sehub/internal/user"
	"sehub/internal/wallet"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Users    *user.Handler
	Wallets  *wallet.Handler
	Webhooks *reconcile.Handler
}

type Server struct {
	router  *gin.Engine
	http    *http.Server
	limiter *RateLimiter
}

func New(cfg *config.Config, h Handlers, checks HealthChecks) *Server {
	router := gin.New()
	router.Use(gin.Recovery(), RequestLoggingMiddleware(), MetricsMiddleware(), corsMiddleware())

	limiter := NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, 3*time.Minute)
	limited := RateLimitMiddleware(limiter)

	router.GET("/health", Health(checks))
	router.GET("/metrics", Metrics())
	SetupSwagger(router)

	public := router.Group("/auth")
	public.Use(limited)
	{
		public.POST("/register", h.Users.Register)
		public.POST("/login", h.Users.Login)
		public.POST("/refresh", h.Users.RefreshToken)
	}

	webhooks := router.Group("/webhooks")
	webhooks.Use(limited, auth.APIKeyMiddleware(cfg.WebhookAPIKey))
	{
		webhooks.POST("/bank-transfer", h.Webhooks.BankTransfer)
	}

	authMiddleware := auth.AuthMiddleware(auth.NewIssuer(cfg.JWTSecret))
	protected := router.Group("/")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", h.Users.GetMe)
		protected.GET("/wallet", h.Wallets.GetWallet)
		protected.GET("/wallet/transactions", h.Wallets.ListTransactions)
		protected.POST("/wallet/qr", h.Wallets.CreatePaymentQR)
	}

	admin := router.Group("/admin")
	admin.Use(authMiddleware, auth.RequireRole(user.RoleAdmin))
	{
		admin.POST("/wallets/backfill", h.Wallets.Backfill)
		admin.GET("/wallets/lookup", h.Wallets.AdminLookup)
		admin.GET("/wallets/:id", h.Wallets.AdminGetWallet)
		admin.POST("/wallets/:id/freeze", h.Wallets.Freeze)
		admin.POST("/wallets/:id/unfreeze", h.Wallets.Unfreeze)
		admin.POST("/wallets/:id/close", h.Wallets.Close)
		admin.POST("/wallets/:id/adjustments", h.Wallets.Adjust)
		admin.POST("/wallets/:id/refunds", h.Wallets.Refund)
		admin.GET("/wallets/:id/audit", h.Wallets.Audit)
		admin.POST("/wallets/:id/repair", h.Wallets.Repair)
		admin.GET("/notifications/failed", h.Wallets.FailedNotifications)
	}

	return &Server{
		router: router,
		http: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		limiter: limiter,
	}
}

func (s *Server) Router() *gin.Engine {
	return s.router
}

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	err := s.http.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.limiter.Stop()
	return s.http.Shutdown(ctx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
