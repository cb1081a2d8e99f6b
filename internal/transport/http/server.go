package http

import (
	"fmt"
	"log/slog"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"habithero-service/internal/config"
	"habithero-service/pkg/jwt"
)

// Server hosts the HTTP API
type Server struct {
	app  *fiber.App
	port int
}

// NewServer creates the Fiber application and registers all routes
func NewServer(handler *Handler, tokenManager *jwt.TokenManager, cfg *config.HTTPConfig, authCfg *config.AuthConfig) *Server {
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Development token endpoint: issues a token for the configured session
	// user so a client can reach the protected API without a user service.
	app.Post("/auth/token", func(c *fiber.Ctx) error {
		if authCfg.SessionUserID == "" {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "no session user configured"})
		}
		id, err := uuid.Parse(authCfg.SessionUserID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "invalid session user id"})
		}
		token, expiresAt, err := tokenManager.GenerateToken(id)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to issue token"})
		}
		return c.JSON(fiber.Map{"token": token, "expires_at": expiresAt})
	})

	api := app.Group("/api", AuthMiddleware(tokenManager))

	habits := api.Group("/habits")
	habits.Post("/", handler.createHabit)
	habits.Get("/", handler.listHabits)
	habits.Get("/:id", handler.getHabit)
	habits.Patch("/:id", handler.updateHabit)
	habits.Delete("/:id", handler.deleteHabit)

	habits.Post("/:id/increment", handler.incrementProgress)
	habits.Post("/:id/toggle", handler.toggleCompletion)
	habits.Post("/:id/reset", handler.resetProgress)

	habits.Get("/:id/entries", handler.listEntries)
	habits.Get("/:id/weekly", handler.weeklyData)
	habits.Get("/:id/completion-rate", handler.completionRate)
	habits.Get("/:id/analysis", handler.analyzeHabit)

	api.Get("/quote", handler.dailyQuote)

	debug := api.Group("/debug")
	debug.Post("/reset", handler.triggerReset)
	debug.Post("/recap", handler.triggerRecap)

	return &Server{app: app, port: cfg.Port}
}

// Start starts listening; it blocks until the server stops
func (s *Server) Start() error {
	slog.Info("http server listening", "port", s.port)
	return s.app.Listen(fmt.Sprintf(":%d", s.port))
}

// Stop gracefully shuts the server down
func (s *Server) Stop() {
	if err := s.app.Shutdown(); err != nil {
		slog.Error("http server shutdown failed", "error", err)
	}
}

// App exposes the underlying Fiber app for tests
func (s *Server) App() *fiber.App {
	return s.app
}
