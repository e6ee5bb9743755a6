// main.go
//
// Digital dead-man's-switch backend for the Asset Index service
// Copyright (c) 2026 Asset Index
//
// This file is part of asset-index.
// asset-index is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// asset-index is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with asset-index.
// If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	swagger "github.com/gofiber/swagger"

	"github.com/assetindex/asset-index/internal/config"
	"github.com/assetindex/asset-index/internal/database"
	"github.com/assetindex/asset-index/internal/handlers"
	"github.com/assetindex/asset-index/internal/mailer"
	"github.com/assetindex/asset-index/internal/middleware"
	"github.com/assetindex/asset-index/internal/monitor"
	"github.com/assetindex/asset-index/internal/types"

	_ "github.com/assetindex/asset-index/docs/api" // Swagger docs
)

// @title Asset Index API
// @version 1.0.0
// @description Inactivity-monitored asset disclosure service
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url https://github.com/assetindex/asset-index

// @license.name AGPL-3.0
// @license.url https://www.gnu.org/licenses/agpl-3.0.html

// @host localhost:3000
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Select mail transport
	var gateway mailer.Mailer
	switch cfg.MailMode {
	case "smtp":
		gateway = &mailer.SMTPMailer{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUser,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
			Timeout:  cfg.MailTimeout,
		}
	default:
		gateway = mailer.LogMailer{}
	}

	// Start the inactivity monitor
	monCtx, cancelMonitor := context.WithCancel(context.Background())
	defer cancelMonitor()
	mon := monitor.New(db, gateway, nil, cfg.FrontendURL+"/checkin", cfg.MailTimeout)
	mon.Start(monCtx, cfg.MonitorInterval)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler:          customErrorHandler,
		DisableStartupMessage: false,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())

	// Prometheus metrics
	prometheus := fiberprometheus.New("assetindex")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API routes under /api
	api := app.Group("/api")

	// Version middleware
	api.Use(middleware.VersionMiddleware())

	// Create handlers
	authHandler := &handlers.AuthHandler{DB: db, Cfg: cfg}
	userHandler := &handlers.UserHandler{DB: db}
	assetHandler := &handlers.AssetHandler{DB: db}
	contactHandler := &handlers.ContactHandler{DB: db}
	assignmentHandler := &handlers.AssignmentHandler{DB: db}
	disclosureHandler := &handlers.DisclosureHandler{DB: db}
	cronHandler := &handlers.CronHandler{Monitor: mon}
	healthHandler := &handlers.HealthHandler{DB: db, Cfg: cfg}

	// Public routes
	api.Post("/auth/register", authHandler.Register)
	api.Post("/auth/login", authHandler.Login)
	api.Get("/disclosure/:contactId", disclosureHandler.Get)
	api.Get("/cron/monitor", cronHandler.Trigger)
	api.Get("/health", healthHandler.Check)

	// Authenticated routes
	auth := middleware.AuthUser(cfg.JWTSecret)
	api.Get("/user/settings", auth, userHandler.GetSettings)
	api.Put("/user/settings", auth, userHandler.UpdateSettings)
	api.Post("/user/checkin", auth, userHandler.CheckIn)

	api.Get("/assets", auth, assetHandler.List)
	api.Post("/assets", auth, assetHandler.Create)
	api.Put("/assets/:id", auth, assetHandler.Update)
	api.Delete("/assets/:id", auth, assetHandler.Delete)

	api.Get("/contacts", auth, contactHandler.List)
	api.Post("/contacts", auth, contactHandler.Create)
	api.Get("/contacts/:id", auth, contactHandler.Get)
	api.Put("/contacts/:id", auth, contactHandler.Update)
	api.Delete("/contacts/:id", auth, contactHandler.Delete)

	api.Post("/assignments", auth, assignmentHandler.Assign)
	api.Get("/assignments", auth, assignmentHandler.List)
	api.Get("/assignments/contact/:contactId", auth, assignmentHandler.ListForContact)
	api.Put("/assignments/:id", auth, assignmentHandler.Update)
	api.Delete("/assignments/:id", auth, assignmentHandler.Remove)

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"status":    fiber.StatusNotFound,
			"message":   "[404] Resource Not Found",
			"ok":        false,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"url":       c.OriginalURL(),
		})
	})

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("Gracefully shutting down...")
		cancelMonitor()
		_ = app.Shutdown()
	}()

	// Start server
	log.Printf("Starting server on port %s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}

	log.Println("Server stopped")
}

// customErrorHandler handles errors globally
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := err.Error()
	errorType := "unknown"

	if e, ok := err.(*types.CustomError); ok {
		code = e.Code
		message = e.Message
		errorType = e.Type
	} else if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"status":    code,
		"message":   message,
		"ok":        false,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"url":       c.OriginalURL(),
		"type":      errorType,
	})
}
