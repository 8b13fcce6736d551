package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"playlight-backend/handlers"
	"playlight-backend/middleware"
	"playlight-backend/models"
	"playlight-backend/services"
	"playlight-backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	sessionSecret := os.Getenv("JWT_SECRET")
	resetSecret := os.Getenv("JWT_RESET_SECRET")
	if sessionSecret == "" || resetSecret == "" {
		log.Fatal("JWT_SECRET and JWT_RESET_SECRET environment variables must be set")
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 10 * 1024 * 1024, // 10MB — uploads are capped well below this
	})

	// CORS allow-list for the dashboard. /platform is excluded here and
	// carries its own open policy, since the widget runs on arbitrary
	// game domains.
	allowedOrigins := os.Getenv("CORS_ORIGIN")
	if allowedOrigins == "" {
		log.Println("⚠️  CORS_ORIGIN environment variable not set, using default: http://localhost:3000")
		allowedOrigins = "http://localhost:3000"
	}
	originsList := strings.Split(allowedOrigins, ",")
	for i, origin := range originsList {
		originsList[i] = strings.TrimSpace(origin)
	}
	app.Use(middleware.DashboardCORS(strings.Join(originsList, ",")))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal("failed to access connection pool:", err)
	}
	sqlDB.SetMaxOpenConns(10)

	if err := db.AutoMigrate(
		&models.User{},
		&models.WhitelistEntry{},
		&models.Game{},
		&models.Statistic{},
		&models.Like{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	if err := utils.InitR2(); err != nil {
		log.Fatal("failed to initialize R2 client:", err)
	}

	mailer, err := utils.NewSMTPMailer()
	if err != nil {
		log.Fatal("failed to configure mailer:", err)
	}

	accountService := services.NewAccountService(db, mailer, sessionSecret, resetSecret, os.Getenv("SITE_DOMAIN"))
	gameService := services.NewGameService(db)
	platformService := services.NewPlatformService(db)
	adminService := services.NewAdminService(db)
	uploadService := services.NewUploadService()
	contactService := services.NewContactService(mailer, os.Getenv("NOTIFICATION_EMAIL"))

	platformService.StartCleanupScheduler()

	handlers.SetupAccountRoutes(app, accountService)
	handlers.SetupGameRoutes(app, gameService, sessionSecret)
	handlers.SetupPlatformRoutes(app, platformService)
	handlers.SetupAdminRoutes(app, adminService, db, sessionSecret)
	handlers.SetupUploadRoutes(app, uploadService, sessionSecret)
	handlers.SetupContactRoutes(app, contactService)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "Server is healthy."})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "5100"
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("✅ Server running on http://localhost:%s", port)
	log.Println("✅ Hourly cleanup scheduler running")
	log.Printf("✅ CORS configured for origins: %s", strings.Join(originsList, ","))

	<-ctx.Done()
	log.Println("Shutting down server...")
	_ = app.Shutdown()
}
