// Package devserver is a stand-in for the campus scooter API. It serves every
// endpoint the campusride client calls and is used for local development and
// in-process acceptance tests.
package devserver

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/crypto/bcrypt"

	"github.com/semanticallynull/campusride/internal/middleware"
)

type Config struct {
	// Secret signs issued tokens (HS256).
	Secret   []byte
	Issuer   string
	Audience string
	TokenTTL time.Duration
	// BcryptCost defaults to bcrypt.DefaultCost.
	BcryptCost int

	MetricsUsername string
	MetricsPassword string
}

type Server struct {
	r         *gin.Engine
	cfg       Config
	inventory Inventory
	accounts  *accounts
}

func New(cfg Config, inventory Inventory, logger *slog.Logger, reg *prometheus.Registry) (*Server, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("devserver: token secret is required")
	}
	if cfg.Issuer == "" {
		cfg.Issuer = "campusride-devserver"
	}
	if cfg.Audience == "" {
		cfg.Audience = "campusride"
	}
	if cfg.TokenTTL == 0 {
		cfg.TokenTTL = 24 * time.Hour
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}

	auth, err := middleware.JWT(cfg.Secret, cfg.Issuer, cfg.Audience)
	if err != nil {
		return nil, err
	}

	s := &Server{
		r:         gin.New(),
		cfg:       cfg,
		inventory: inventory,
		accounts:  newAccounts(),
	}

	s.r.Use(gin.Recovery(), middleware.Tracing(), middleware.Logging(logger), middleware.Metrics(reg))

	s.r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	metrics := gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	if cfg.MetricsUsername != "" {
		s.r.GET("/metrics", gin.BasicAuth(gin.Accounts{cfg.MetricsUsername: cfg.MetricsPassword}), metrics)
	} else {
		s.r.GET("/metrics", metrics)
	}

	api := s.r.Group("/api")
	api.POST("/auth/register", s.registerHandler)
	api.POST("/auth/login", s.loginHandler)
	api.POST("/forgot-password", s.forgotPasswordHandler)

	protected := api.Group("", auth)
	protected.GET("/scooter", s.scootersHandler)
	protected.POST("/pyqr/upload", s.uploadHandler)
	protected.PATCH("/scooter/:id/book", s.bookHandler)
	protected.GET("/history", s.historyHandler)
	protected.GET("/history/:id", s.rideHandler)
	protected.GET("/wallet", s.walletHandler)
	protected.POST("/wallet/payment-methods", s.addPaymentMethodHandler)
	protected.DELETE("/wallet/payment-methods/:id", s.removePaymentMethodHandler)
	protected.PATCH("/wallet/payment-methods/:id/default", s.defaultPaymentMethodHandler)
	protected.GET("/profile", s.profileHandler)
	protected.PATCH("/profile/settings", s.settingsHandler)

	return s, nil
}

func (s *Server) Router() *gin.Engine {
	return s.r
}

// userID returns the token subject, answering 401 when it is missing.
func userID(c *gin.Context) (string, bool) {
	id, ok := middleware.GetUserID(c)
	if !ok || id == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Not authorized, no token"})
		return "", false
	}
	return id, true
}

func internalError(c *gin.Context, msg string, err error) {
	middleware.GetLogger(c).ErrorContext(c, msg, "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
}
