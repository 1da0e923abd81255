// Package server
//
// Dashboard server for the MANAS admin panel. Every /dashboard route sits
// behind the session gate; the login flow hands out the session cookie.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/manas-foundation/manas-admin/internal/allowlist"
	"github.com/manas-foundation/manas-admin/internal/apiclient"
	"github.com/manas-foundation/manas-admin/internal/audit"
	"github.com/manas-foundation/manas-admin/internal/config"
	"github.com/manas-foundation/manas-admin/internal/database"
	"github.com/manas-foundation/manas-admin/internal/session"
)

// Issuer obtains session tokens through the one-time-passcode exchange
type Issuer interface {
	SendOTP(ctx context.Context, email string) error
	VerifyOTP(ctx context.Context, email, otp string) (string, error)
}

// Server represents the HTTP server
type Server struct {
	router    *gin.Engine
	db        *gorm.DB
	config    *config.Config
	logger    zerolog.Logger
	gate      *session.Gate
	issuer    Issuer
	events    *audit.Store
	retention *audit.Retention
	redis     *redis.Client
	version   string
}

// New creates a new server instance
func New(cfg *config.Config, zlog zerolog.Logger, version string) (*Server, error) {
	db, err := database.Open(cfg.Database.URL, zlog)
	if err != nil {
		return nil, err
	}

	events := audit.NewStore(db)
	retention, err := audit.NewRetention(events, cfg.Audit.PurgeSchedule, cfg.Audit.Retention, zlog)
	if err != nil {
		return nil, err
	}

	apiClient := apiclient.New(cfg.API.BaseURL)

	opts := []session.Option{session.WithLogger(zlog)}
	var rdb *redis.Client
	if cfg.Gate.AllowListCacheTTL > 0 {
		if cfg.Redis.Address != "" {
			rdb = redis.NewClient(&redis.Options{Addr: cfg.Redis.Address})
			opts = append(opts, session.WithCache(allowlist.NewRedis(rdb, "", cfg.Gate.AllowListCacheTTL, zlog)))
			zlog.Info().Str("redis", cfg.Redis.Address).Dur("ttl", cfg.Gate.AllowListCacheTTL).Msg("Allow-list cache in Redis")
		} else {
			opts = append(opts, session.WithCache(allowlist.NewMemory(cfg.Gate.AllowListCacheTTL)))
			zlog.Info().Dur("ttl", cfg.Gate.AllowListCacheTTL).Msg("Allow-list cache in memory")
		}
	}

	gate := session.NewGate(apiclient.NewDirectory(apiClient), session.Config{
		FallbackEmail: cfg.Gate.FallbackEmail,
		Timeout:       cfg.Gate.DirectoryTimeout,
		Retries:       cfg.Gate.DirectoryRetries,
		RetryDelay:    250 * time.Millisecond,
	}, opts...)

	s := newServer(cfg, zlog, version, gate, apiClient, events)
	s.db = db
	s.retention = retention
	s.redis = rdb
	return s, nil
}

// newServer wires the router around already-built collaborators
func newServer(cfg *config.Config, zlog zerolog.Logger, version string, gate *session.Gate, issuer Issuer, events *audit.Store) *Server {
	s := &Server{
		config:  cfg,
		logger:  zlog,
		gate:    gate,
		issuer:  issuer,
		events:  events,
		version: version,
	}
	registerValidators(zlog)
	s.setupRouter()
	return s
}

// registerValidators adds custom tags to gin's binding validator
func registerValidators(zlog zerolog.Logger) {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	// Six ASCII digits, as mailed by the OTP issuer
	err := v.RegisterValidation("otp", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		if len(value) != 6 {
			return false
		}
		for _, char := range value {
			if char < '0' || char > '9' {
				return false
			}
		}
		return true
	})
	if err != nil {
		zlog.Warn().Err(err).Msg("Failed to register otp validator")
	}
}

// setupRouter configures the Gin router with routes and middleware
func (s *Server) setupRouter() {
	gin.SetMode(gin.ReleaseMode)

	s.router = gin.New()

	s.router.Use(gin.Recovery())
	s.router.Use(requestIDMiddleware())
	s.router.Use(s.loggingMiddleware())

	s.router.Use(cors.New(cors.Config{
		AllowOrigins:     s.config.HTTP.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", requestIDHeader},
		ExposeHeaders:    []string{"Content-Length", requestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check endpoint (no auth required)
	s.router.GET("/health", s.healthCheck)

	// Login flow (no auth required)
	s.router.GET("/", s.loginPage)
	s.router.GET(session.LoginPath, s.loginPage)
	s.router.POST("/login/otp", s.sendOTP)
	s.router.POST("/login/verify", s.verifyOTP)
	s.router.POST("/logout", s.logout)

	// Protected dashboard (session gate on every request)
	dashboard := s.router.Group("/dashboard")
	dashboard.Use(RequireSession(s.gate, s.cookieOptions(), s.events, s.logger))
	{
		dashboard.GET("", s.dashboardHome)
		dashboard.GET("/session", s.currentSession)
		dashboard.GET("/gate-events", s.listGateEvents)
		dashboard.GET("/gate-events/:id", s.getGateEvent)
	}
}

func (s *Server) cookieOptions() CookieOptions {
	return CookieOptions{
		Name:   TokenCookieName,
		Secure: s.config.HTTP.CookieSecure,
	}
}

// loggingMiddleware creates a custom logging middleware using zerolog
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start)

		s.logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", duration).
			Str("client_ip", c.ClientIP()).
			Str("request_id", c.GetString(requestIDKey)).
			Msg("HTTP request")
	}
}

func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "online",
		"timestamp": time.Now().UTC(),
		"service":   "manas-admin",
		"version":   s.version,
	})
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server
func (s *Server) Start() error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	srv := &http.Server{
		Addr:              s.config.ListenAddr,
		Handler:           s.router,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	if s.retention != nil {
		s.retention.Start()
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.config.ListenAddr).Msg("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case <-sigChan:
		s.logger.Info().Msg("Received shutdown signal, shutting down gracefully...")
	case err := <-errChan:
		s.logger.Error().Err(err).Msg("HTTP server error")
		s.close()
		return fmt.Errorf("http server: %w", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	s.logger.Info().Msg("Shutting down HTTP server...")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Error().Err(err).Msg("Error shutting down HTTP server")
		s.close()
		return err
	}

	s.close()
	s.logger.Info().Msg("Server shutdown complete")
	return nil
}

func (s *Server) close() {
	if s.retention != nil {
		s.retention.Stop()
	}

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Warn().Err(err).Msg("Error closing Redis client")
		}
	}

	// Close database connection to flush WAL writes
	if s.db != nil {
		s.logger.Info().Msg("Closing database connection...")
		if err := database.Close(s.db); err != nil {
			s.logger.Error().Err(err).Msg("Error closing database")
		}
	}
}
