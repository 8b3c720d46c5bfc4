package main

import (
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/spf13/viper"
	"github.com/streadway/amqp"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"matchmate/internal/handlers"
	"matchmate/internal/middleware"
	"matchmate/internal/models"
	"matchmate/internal/repositories"
	"matchmate/internal/services"
	"matchmate/pkg/mailer"
	"matchmate/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("DATABASE_DSN", "matchmate.db")
	viper.SetDefault("RABBITMQ_URL", "")
	viper.SetDefault("SMTP_ADDR", "localhost:25")
	viper.SetDefault("SMTP_FROM", "noreply@matchmate.app")
	viper.SetDefault("BASE_URL", "http://localhost:8080")
	viper.SetDefault("LOGIN_REDIRECT_URL", "http://localhost:8080/#/login")
	viper.AutomaticEnv()

	appPort := viper.GetString("APP_PORT")

	// The signing secret is a hard precondition for every token
	// operation; refuse to boot without it.
	jwtSecret := viper.GetString("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET must be set")
	}

	// --- Database ---
	db, err := openDatabase(viper.GetString("DATABASE_DSN"))
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.LoveRequest{}, &models.Gift{}, &models.Report{}); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// --- RabbitMQ (optional) ---
	// Domain events are published when a broker is configured; the API
	// works the same without one.
	var events services.EventPublisher
	rabbitMQURL := viper.GetString("RABBITMQ_URL")
	if rabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: rabbitMQURL})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close()
		events = mqClient

		go func() {
			log.Println("Starting RabbitMQ consumer for match events...")
			messageHandler := func(msg amqp.Delivery) error {
				log.Printf("Received %s event (Tag: %d): %s", msg.Type, msg.DeliveryTag, string(msg.Body))
				return nil
			}
			if consumerErr := mqClient.ConsumeMatchEvents(messageHandler); consumerErr != nil {
				log.Printf("Failed to start RabbitMQ consumer: %v", consumerErr)
			}
		}()
	}

	// --- Mailer ---
	mail := mailer.NewSMTPMailer(viper.GetString("SMTP_ADDR"), viper.GetString("SMTP_FROM"))

	// --- Repositories ---
	userRepo := repositories.NewGORMUserRepository(db)
	loveRepo := repositories.NewGORMLoveRequestRepository(db)
	giftRepo := repositories.NewGORMGiftRepository(db)
	reportRepo := repositories.NewGORMReportRepository(db)

	// --- Services ---
	authService := services.NewAuthService(userRepo, mail, jwtSecret, viper.GetString("BASE_URL"))
	userService := services.NewUserService(userRepo)
	matchService := services.NewMatchService(userRepo, loveRepo, giftRepo, events)
	reportService := services.NewReportService(userRepo, reportRepo, events)

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(authService, viper.GetString("LOGIN_REDIRECT_URL"))
	userHandler := handlers.NewUserHandler(userService, reportService)
	matchHandler := handlers.NewMatchHandler(matchService)

	// --- Fiber App ---
	app := fiber.New()
	app.Use(logger.New())

	apiV1 := app.Group("/api/v1")
	authRequired := middleware.AuthRequired(authService)

	authHandler.RegisterRoutes(apiV1)
	userHandler.RegisterRoutes(apiV1, authRequired)
	matchHandler.RegisterRoutes(apiV1, authRequired)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", appPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(appPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}

	log.Println("Server gracefully stopped")
}

// openDatabase opens the configured store: a Postgres DSN selects the
// postgres driver, anything else is treated as a SQLite path.
// TranslateError turns driver-level unique-index violations into
// gorm.ErrDuplicatedKey so the services can remap them to conflicts.
func openDatabase(dsn string) (*gorm.DB, error) {
	cfg := &gorm.Config{TranslateError: true}
	if strings.HasPrefix(dsn, "postgres://") || strings.Contains(dsn, "host=") {
		return gorm.Open(postgres.Open(dsn), cfg)
	}
	return gorm.Open(sqlite.Open(dsn), cfg)
}
