package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"checkin-bot/internal/adapters/http/middleware"
	"checkin-bot/internal/adapters/http/routes"
	"checkin-bot/internal/adapters/persistence/models"
	"checkin-bot/internal/adapters/persistence/repositories"
	"checkin-bot/internal/config"
	"checkin-bot/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer config.CloseDatabase()

	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("❌ Failed to auto migrate: %v", err)
	}
	log.Println("✅ Database migration completed")

	directoryRepo := repositories.NewDirectoryRepository(db)

	// Seed directory (dev only)
	if cfg.IsDev() && cfg.Directory.Seed != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := config.NewSeeder(directoryRepo).Run(ctx, cfg.Directory.Seed); err != nil {
			log.Printf("⚠️ Warning: Failed to seed directory: %v", err)
		}
		cancel()
	}

	// Record sink
	var (
		sink     services.RecordSink
		checkIns repositories.CheckInRepository
	)
	switch cfg.CheckIn.SinkDriver {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer client.Close()

		stream := repositories.NewStreamSink(client, cfg.Redis.Stream)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := stream.Ping(ctx); err != nil {
			log.Printf("⚠️ Warning: Redis not reachable at %s: %v", cfg.Redis.Addr, err)
		}
		cancel()
		sink = stream
		log.Printf("✅ Check-ins go to Redis stream %q", cfg.Redis.Stream)
	default:
		checkIns = repositories.NewCheckInRepository(db)
		sink = checkIns
		log.Println("✅ Check-ins go to the database")
	}

	// Directory snapshot must load before serving
	directory := services.NewDirectoryCache(directoryRepo, cfg.OwnerID)
	{
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if _, err := directory.Reload(ctx); err != nil {
			log.Fatalf("❌ Failed to load directory: %v", err)
		}
		cancel()
	}

	reentry, err := services.ParseReentryPolicy(cfg.CheckIn.Reentry)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	// Initialize services
	gate := services.NewGate(directory)
	sessions := services.NewSessionStore(cfg.CheckIn.SessionTTL, 0)
	submitter := services.NewSubmissionService(sink, cfg.Location, cfg.CheckIn.SinkTimeout)
	checkInService := services.NewCheckInService(sessions, submitter, reentry)
	roleService := services.NewRoleService(directory, directoryRepo)
	telegram := services.NewTelegramService(services.TelegramConfig{
		BotToken:      cfg.Telegram.BotToken,
		APIURL:        cfg.Telegram.APIURL,
		WebhookSecret: cfg.Telegram.WebhookSecret,
	})
	bot := services.NewBotService(gate, checkInService, roleService, telegram)

	// Scheduled jobs
	cronService := services.NewCronService(directory, sessions, cfg.Location)
	if err := cronService.ScheduleDirectoryRefresh(cfg.Directory.RefreshCron); err != nil {
		log.Fatalf("❌ %v", err)
	}
	if err := cronService.ScheduleSessionSweep(cfg.CheckIn.SweepInterval); err != nil {
		log.Fatalf("❌ %v", err)
	}
	cronService.Start()
	defer cronService.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Check-in Bot",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	deps := routes.Dependencies{
		Bot:           bot,
		Directory:     directory,
		Roles:         gate,
		Sessions:      sessions,
		DBCheck:       config.HealthCheck,
		WebhookSecret: telegram.WebhookSecret(),
	}
	if checkIns != nil {
		deps.CheckIns = checkIns
	}
	routes.Setup(app, deps, cfg)

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
	}
	log.Println("✅ Server stopped gracefully")
}
