package main

import (
	"encoding/json"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/joho/godotenv"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/scimulator/scimulator/internal/config"
	"github.com/scimulator/scimulator/internal/dto"
	"github.com/scimulator/scimulator/internal/handlers"
	"github.com/scimulator/scimulator/internal/logging"
	"github.com/scimulator/scimulator/internal/middleware"
	"github.com/scimulator/scimulator/internal/policy"
	"github.com/scimulator/scimulator/internal/routes"
	"github.com/scimulator/scimulator/internal/scim"
	"github.com/scimulator/scimulator/internal/services"
	"github.com/scimulator/scimulator/internal/store"
)

func main() {
	// A missing .env just means real environment variables.
	_ = godotenv.Load()

	cfg := config.Load()

	// Structured logging (JSON to stdout)
	logging.Setup(cfg.LogLevel)

	// Policy layers: profile from SCIM_PROFILE, env overrides parsed once
	resolver, err := policy.NewResolver(cfg.Profile, policy.OverridesFromEnv())
	if err != nil {
		slog.Error("invalid SCIM_PROFILE", "profile", cfg.Profile, "error", err)
		os.Exit(1)
	}

	// In-memory log ring backing GET /admin/logs
	memLogs := logging.NewMemoryHandler(logging.DefaultCapacity, cfg.LogLevel)
	slog.SetDefault(slog.New(logging.NewMultiHandler(
		slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}),
		memLogs,
	)))

	st := store.New()
	directory := services.NewDirectoryService(st, resolver)

	// Optional startup seed, same document shape as POST /admin/seed
	if cfg.SeedPath != "" {
		raw, err := os.ReadFile(cfg.SeedPath)
		if err != nil {
			slog.Error("failed to read seed file", "path", cfg.SeedPath, "error", err)
			os.Exit(1)
		}
		var seed dto.SeedRequest
		if err := json.Unmarshal(raw, &seed); err != nil {
			slog.Error("failed to parse seed file", "path", cfg.SeedPath, "error", err)
			os.Exit(1)
		}
		users, groups, err := directory.Seed(&seed)
		if err != nil {
			slog.Error("failed to apply seed file", "path", cfg.SeedPath, "error", err)
			os.Exit(1)
		}
		slog.Info("seed file applied", "path", cfg.SeedPath, "users", users, "groups", groups)
	}

	// Handlers
	usersV1 := handlers.NewUsersHandler(directory, scim.V1)
	usersV2 := handlers.NewUsersHandler(directory, scim.V2)
	groupsV1 := handlers.NewGroupsHandler(directory, scim.V1)
	groupsV2 := handlers.NewGroupsHandler(directory, scim.V2)
	adminHandler := handlers.NewAdminHandler(directory, memLogs)
	healthHandler := handlers.NewHealthHandler(directory)

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      os.Getenv("APP_ENV"),
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    4 * 1024 * 1024,
		ErrorHandler: scimErrorHandler,
	})

	// Sentry middleware
	if cfg.SentryDSN != "" {
		app.Use(sentryfiber.New(sentryfiber.Options{
			Repanic:         true,
			WaitForDelivery: false,
		}))
	}

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		return c.Next()
	})

	// Routes
	routes.Setup(app, cfg, usersV1, usersV2, groupsV1, groupsV2, adminHandler, healthHandler)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port, "profile", resolver.Profile())
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	sentry.Flush(2 * time.Second)

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	slog.Info("server stopped")
}

// scimErrorHandler renders errors that escape the route handlers, such
// as unknown paths, in the envelope of the dialect the request was
// aimed at. Server-side detail stays out of 5xx responses.
func scimErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal server error"
	}

	if strings.HasPrefix(c.Path(), scim.V1.PathPrefix()) {
		return c.Status(code).JSON(dto.NewErrorV1(code, message))
	}
	return c.Status(code).JSON(dto.NewErrorV2(code, message))
}
