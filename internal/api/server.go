// Package api is the HTTP surface over the care planning services.
package api

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vladimiradmaev/care-planner/internal/config"
	apperrors "github.com/vladimiradmaev/care-planner/internal/errors"
	"github.com/vladimiradmaev/care-planner/internal/logger"
	"github.com/vladimiradmaev/care-planner/internal/metrics"
	"github.com/vladimiradmaev/care-planner/internal/services"
)

// Services are the application services the handlers call
type Services struct {
	Readings    *services.ReadingService
	Trends      *services.TrendService
	Food        *services.FoodAnalysisService
	Medications *services.MedicationService
	Users       *services.UserService
}

// Server handles the HTTP API
type Server struct {
	app      *fiber.App
	cfg      config.HTTPConfig
	svc      Services
	metrics  *metrics.Metrics
	errors   *apperrors.Handler
	tokenTTL time.Duration
}

func New(cfg config.HTTPConfig, svc Services, m *metrics.Metrics) *Server {
	s := &Server{
		cfg:      cfg,
		svc:      svc,
		metrics:  m,
		errors:   apperrors.NewHandler(logger.GetLogger()),
		tokenTTL: 30 * 24 * time.Hour,
	}
	s.app = fiber.New(fiber.Config{
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
		IdleTimeout:           120 * time.Second,
		DisableStartupMessage: true,
		ErrorHandler:          s.handleError,
	})
	s.setupRoutes()
	return s
}

// App exposes the fiber app, mainly for app.Test
func (s *Server) App() *fiber.App { return s.app }

func (s *Server) setupRoutes() {
	s.app.Use(recover.New())
	s.app.Use(requestIDMiddleware())
	s.app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path} ${locals:request_id}\n",
		Output: logWriter{},
	}))
	s.app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))
	s.app.Use(s.metricsMiddleware())

	s.app.Get("/api/health", s.handleHealth)
	if s.metrics != nil {
		s.app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(s.metrics.Registry, promhttp.HandlerOpts{})))
	}

	v1 := s.app.Group("/api/v1")
	v1.Post("/users", s.handleCreateUser)

	protected := v1.Group("", s.authMiddleware())
	protected.Get("/me", s.handleMe)
	protected.Put("/me/conditions", s.handleSetConditions)

	protected.Post("/readings", s.handleLogReading)
	protected.Get("/summaries/:metric", s.handleWeeklySummary)
	protected.Get("/trends", s.handleTrends)
	protected.Get("/reports/weekly", s.handleWeeklyReport)
	protected.Get("/adjustments", s.handleAdjustments)
	protected.Get("/hba1c", s.handleHbA1c)
	protected.Get("/water/today", s.handleWaterToday)
	protected.Get("/care-plan", s.handleCarePlan)

	protected.Post("/food/analyze", s.handleAnalyzeFood)

	protected.Get("/medications", s.handleListMedications)
	protected.Post("/medications", s.handleCreateMedication)
	protected.Delete("/medications/:id", s.handleDeactivateMedication)
	protected.Post("/medications/:id/intake", s.handleLogIntake)
}

// Start blocks serving on the configured address
func (s *Server) Start() error {
	logger.Info("HTTP API listening", "address", s.cfg.Address)
	return s.app.Listen(s.cfg.Address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

// handleError maps AppError types onto HTTP status codes
func (s *Server) handleError(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) && status >= fiber.StatusInternalServerError {
		appErr = apperrors.NewInternalError(err)
	}
	if status >= fiber.StatusInternalServerError {
		s.errors.Handle(c.UserContext(), appErr)
	}

	message := err.Error()
	if appErr != nil {
		message = appErr.Message
	}
	return c.Status(status).JSON(fiber.Map{"error": message})
}

func statusFor(err error) int {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code
	}
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		return fiber.StatusInternalServerError
	}
	switch appErr.Type {
	case apperrors.ErrorTypeValidation:
		return fiber.StatusBadRequest
	case apperrors.ErrorTypeNotFound:
		return fiber.StatusNotFound
	case apperrors.ErrorTypeUnsupported:
		return fiber.StatusUnprocessableEntity
	case apperrors.ErrorTypePermission:
		return fiber.StatusForbidden
	case apperrors.ErrorTypeRateLimit:
		return fiber.StatusTooManyRequests
	case apperrors.ErrorTypeTimeout:
		return fiber.StatusGatewayTimeout
	case apperrors.ErrorTypeExternal:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

// logWriter sends fiber's access log lines through the structured logger
type logWriter struct{}

func (logWriter) Write(p []byte) (int, error) {
	logger.Debug("http access", "line", string(trimNewline(p)))
	return len(p), nil
}

func trimNewline(p []byte) []byte {
	if n := len(p); n > 0 && p[n-1] == '\n' {
		return p[:n-1]
	}
	return p
}
