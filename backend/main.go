package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"project/backend/cache"
	"project/backend/config"
	"project/backend/jobs"
	"project/backend/mail"
	"project/backend/middleware"
	"project/backend/routes"
	"project/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// Initialize database
	db, err := utils.InitDB(cfg)
	if err != nil {
		log.Fatalf("Error initializing database: %v", err)
	}

	// Initialize logger
	logger := utils.InitLogger()

	// Catalog cache: Redis when configured, in-process otherwise
	var kv cache.KV
	if cfg.RedisAddr != "" {
		kv, err = cache.NewRedisKV(cfg.RedisAddr)
		if err != nil {
			log.Fatalf("Error connecting to redis: %v", err)
		}
	} else {
		logger.Println("REDIS_ADDR not set, using in-process catalog cache")
		kv = cache.NewMemoryKV()
	}
	catalog := cache.NewCatalogCache(db, kv, time.Duration(cfg.CacheTTLSeconds)*time.Second, logger)

	// Outbound mail
	var mailer mail.Sender
	if cfg.MailAPIKey != "" {
		mailer, err = mail.NewClient(mail.Config{
			APIKey:  cfg.MailAPIKey,
			BaseURL: cfg.MailBaseURL,
			From:    cfg.MailFrom,
		})
		if err != nil {
			log.Fatalf("Error initializing mailer: %v", err)
		}
	} else {
		logger.Println("MAIL_API_KEY not set, outbound mail is logged and dropped")
		mailer = mail.NewDiscard(logger)
	}

	// Create Fiber app
	app := fiber.New()

	// Middleware
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(middleware.LoggingMiddleware(logger))

	// Setup routes
	routes.SetupRoutes(app, db, catalog, mailer, cfg, logger)

	// Nightly notification retention sweep, stopped on shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	jobs.NewRetention(db, logger, cfg.RetentionDays).Start(ctx)

	// Start server
	go func() {
		if err := app.Listen(":" + cfg.ServerPort); err != nil {
			log.Fatalf("Error starting server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Println("shutting down")
	if err := app.Shutdown(); err != nil {
		logger.Printf("shutdown error: %v", err)
	}
}
