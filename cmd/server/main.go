package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"accounts-backend/config"
	"accounts-backend/internal/auth"
	"accounts-backend/internal/database"
	"accounts-backend/internal/handlers"
	"accounts-backend/internal/middleware"
	"accounts-backend/internal/repository"
	"accounts-backend/internal/scheduler"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	setupLogger(&cfg.Logger)

	// Initialize database connection
	if err := database.Initialize(&cfg.Database); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer database.Close()

	if err := database.RunMigrations(); err != nil {
		log.Fatal().Err(err).Msg("Failed to run database migrations")
	}

	// Repositories and services
	accountRepo := repository.NewAccountRepository(database.GetDB())
	tokenRepo := repository.NewTokenRepository(database.GetDB())

	tokenService := auth.NewTokenService(cfg, accountRepo, tokenRepo)
	authService := auth.NewAuthService(accountRepo, tokenService, auth.NewDefaultPasswordPolicy())

	// Out-of-band cleanup of expired refresh token rows
	scheduler.Initialize(tokenRepo)
	defer scheduler.Stop()

	app := fiber.New(fiber.Config{
		AppName:      "Accounts API",
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Error().Err(err).
				Str("path", c.Path()).
				Str("ip", c.IP()).
				Msg("Error handling request")

			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}

			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:8090,http://127.0.0.1:8090,http://localhost:5173,http://127.0.0.1:5173",
		AllowHeaders:     "Origin, Content-Type, Accept",
		AllowMethods:     "GET,POST,HEAD,PUT,DELETE,PATCH,OPTIONS",
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// The authentication gate runs once per request before any protected
	// handler; public paths come from config
	app.Use(middleware.Authenticate(cfg, tokenService))

	// Health check routes
	app.Get("/health", healthCheck)
	app.Get("/ready", readinessCheck)

	// Serve static files and entry pages
	app.Static("/static", "./static")
	app.Get("/login", func(c *fiber.Ctx) error {
		return c.SendFile("./internal/templates/login.html")
	})
	app.Get("/register", func(c *fiber.Ctx) error {
		return c.SendFile("./internal/templates/register.html")
	})
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendFile("./internal/templates/home.html")
	})

	// Auth routes
	authHandler := handlers.NewAuthHandler(authService, tokenService, cfg)
	app.Post("/auth/register", authHandler.Register)
	app.Post("/auth/login", authHandler.Login)
	app.Post("/auth/logout", authHandler.Logout)
	app.Post("/auth/change-password", authHandler.ChangePassword)

	// Account routes (behind the gate)
	accountHandler := handlers.NewAccountHandler()
	app.Get("/dashboard", accountHandler.Dashboard)
	app.Get("/profile", accountHandler.Profile)

	// Start server in a goroutine
	serverAddr := cfg.Server.Host + ":" + cfg.Server.Port
	go func() {
		if err := app.Listen(serverAddr); err != nil {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}
}

func setupLogger(cfg *config.LoggerConfig) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	logLevel, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		logLevel = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(logLevel)

	output := os.Stdout
	if cfg.OutputPath != "" {
		file, err := os.OpenFile(cfg.OutputPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err == nil {
			output = file
		}
	}

	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        output,
		TimeFormat: time.RFC3339,
	})
}

// Health check handler
func healthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// Readiness check handler
func readinessCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}
