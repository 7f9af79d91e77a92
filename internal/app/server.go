// File: internal/app/server.go
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"arta_auction_backend/internal/auction"
	"arta_auction_backend/internal/auth"
	"arta_auction_backend/internal/common"
	"arta_auction_backend/internal/config"
	"arta_auction_backend/internal/contact"
	"arta_auction_backend/internal/jobs"
	"arta_auction_backend/internal/middleware"
	"arta_auction_backend/internal/platform/database"
	"arta_auction_backend/internal/shared"
	"arta_auction_backend/internal/user"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Server struct holds the dependencies for the HTTP server.
type Server struct {
	httpServer *http.Server
	router     *gin.Engine
	cfg        *config.Config
	logger     *zap.Logger
	db         *gorm.DB

	userService user.Service
	syncJob     *jobs.AuctionSyncJob
}

// NewServer creates a new instance of our application server.
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	userHandler *user.Handler,
	authHandler *auth.Handler,
	auctionHandler *auction.Handler,
	contactHandler *contact.Handler,
	syncJob *jobs.AuctionSyncJob,
	userService user.Service,
	tokenService shared.TokenService,
	blocklist shared.TokenBlocklist,
) (*Server, error) {
	gin.SetMode(cfg.GinMode)
	common.RegisterValidators()
	router := gin.New()

	// --- Global Middleware ---
	router.Use(middleware.ZapLogger(logger, cfg))
	router.Use(middleware.ErrorHandler(logger))
	router.Use(gin.Recovery())
	router.Use(cors.New(corsConfig(cfg)))

	authMW := middleware.AuthMiddleware(tokenService, blocklist, logger.Named("AuthMiddleware"))
	adminRoleMW := middleware.RoleAuthMiddleware(common.RoleAdmin)

	// --- Setup Routes ---
	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Backend is running!")
	})
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP", "message": "Arta auction API is healthy!"})
	})

	v1 := router.Group("/api/v1")
	authHandler.RegisterRoutes(v1, authMW)
	userHandler.RegisterRoutes(v1, authMW)
	auctionHandler.RegisterRoutes(v1, authMW, adminRoleMW)
	contactHandler.RegisterRoutes(v1, authMW, adminRoleMW)

	// Unversioned paths the existing SPA already calls.
	legacy := router.Group("/api")
	userHandler.RegisterLegacyRoutes(legacy)
	contactHandler.RegisterLegacyRoutes(legacy)

	addr := fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.ServerTimeout,
		IdleTimeout:  120 * time.Second,
	}

	return &Server{
		httpServer:  httpServer,
		router:      router,
		cfg:         cfg,
		logger:      logger,
		db:          db,
		userService: userService,
		syncJob:     syncJob,
	}, nil
}

func corsConfig(cfg *config.Config) cors.Config {
	corsCfg := cors.DefaultConfig()
	corsCfg.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader}
	corsCfg.ExposeHeaders = []string{"Content-Length", middleware.RequestIDHeader}

	allowAll := len(cfg.CORSAllowedOrigins) == 0
	for _, o := range cfg.CORSAllowedOrigins {
		if o == "*" {
			allowAll = true
		}
	}
	if allowAll {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.CORSAllowedOrigins
		corsCfg.AllowCredentials = true
	}
	return corsCfg
}

// Router exposes the gin engine for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Prepare migrates the schema (when enabled) and seeds the admin account.
func (s *Server) Prepare(ctx context.Context) error {
	if s.cfg.DBAutoMigrate {
		if err := database.AutoMigrate(s.db, &user.User{}, &contact.Contact{}); err != nil {
			return err
		}
		s.logger.Info("Database schema migrated")
	}
	if _, err := s.userService.EnsureAdmin(ctx); err != nil {
		return fmt.Errorf("seeding admin account: %w", err)
	}
	return nil
}

func (s *Server) Start() error {
	if s.syncJob != nil {
		if err := s.syncJob.SetupAndStart(); err != nil {
			s.logger.Error("Failed to setup and start auction sync job", zap.Error(err))
		}
	} else {
		s.logger.Info("Auction sync job is not configured, skipping start.")
	}

	s.logger.Info("HTTP Server starting",
		zap.String("address", s.httpServer.Addr),
		zap.String("gin_mode", s.cfg.GinMode),
	)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.Error("Failed to start HTTP server", zap.Error(err))
		return err
	}
	s.logger.Info("HTTP Server stopped gracefully or an error occurred")
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Attempting graceful server shutdown...")
	if s.syncJob != nil {
		s.syncJob.Stop()
	}
	return s.httpServer.Shutdown(ctx)
}
