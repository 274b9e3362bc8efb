package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	handlers "funding-server/internal/adapter/handler/http"
	"funding-server/internal/config"
	"funding-server/internal/infrastructure/database"
	"funding-server/internal/infrastructure/provider/coinpayments"
	"funding-server/internal/middleware/auth"
	"funding-server/internal/usecase"
)

type Server struct {
	config *config.Config
	logger *zap.Logger
	echo   *echo.Echo
	repos  *database.Repositories
}

// requestValidator wires go-playground/validator into echo.
type requestValidator struct {
	validate *validator.Validate
}

func (v *requestValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

func NewServer(cfg *config.Config, logger *zap.Logger, repos *database.Repositories) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Validator = &requestValidator{validate: validator.New()}

	// Middleware
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{echo.GET, echo.POST},
	}))

	return &Server{
		config: cfg,
		logger: logger,
		echo:   e,
		repos:  repos,
	}
}

func (s *Server) Start() error {
	// Setup routes
	s.setupRoutes()

	addr := fmt.Sprintf("%s:%d", s.config.Server.HTTP.Host, s.config.Server.HTTP.Port)
	s.logger.Info("Starting HTTP server", zap.String("address", addr))

	return s.echo.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) setupRoutes() {
	// Health check
	s.echo.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "healthy",
			"service": s.config.Service.Name,
		})
	})

	// Initialize provider and usecases
	invoiceClient := coinpayments.NewClient(&s.config.Service, s.logger)
	invoiceService := usecase.NewInvoiceService(s.repos.Payment, invoiceClient, s.config.Service.Funding, s.logger)
	reconcileService := usecase.NewReconcileService(s.repos.Payment, s.repos.Balance, s.logger)

	// Initialize handlers
	fundingHandler := handlers.NewFundingHandler(invoiceService, s.repos.Payment, s.repos.Balance, s.logger)
	webhookHandler := handlers.NewWebhookHandler(
		reconcileService,
		s.config.Service.CoinPayments.ClientID,
		s.config.Service.CoinPayments.WebhookSecret,
		s.logger,
	)

	// JWT middleware configuration
	jwtConfig := auth.JWTConfig{
		Secret: s.config.JWT.Secret,
		Logger: s.logger,
		SkipPaths: []string{
			"/health",
			"/webhook",
		},
	}

	// API v1 routes (require JWT authentication)
	v1 := s.echo.Group("/api/v1", auth.JWTMiddleware(jwtConfig))

	v1.POST("/fundings", fundingHandler.CreateFunding)
	v1.GET("/fundings", fundingHandler.GetFundings)
	v1.GET("/balance", fundingHandler.GetBalance)

	// Webhook route (outside API versioning, no JWT)
	s.echo.POST("/webhook", webhookHandler.HandleWebhook)
}
