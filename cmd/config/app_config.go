package config

import (
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/gorm"

	"smartfud/internal/alerts"
	"smartfud/internal/api/handlers"
	"smartfud/internal/api/routes"
	"smartfud/internal/middleware"
	"smartfud/internal/utils"
	"smartfud/internal/utils/storage"
	"smartfud/internal/ws"
	"smartfud/pkg/donation"
	"smartfud/pkg/inventory"
	"smartfud/pkg/jwt"
	"smartfud/pkg/mealplan"
	"smartfud/pkg/notification"
	"smartfud/pkg/user"
)

func NewApp(db *gorm.DB) (*fiber.App, error) {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		EnablePrintRoutes: true,
	})
	middlewares := middleware.NewMiddleware()
	validator := utils.Validate

	// setting up logging and limiter
	err := os.MkdirAll("./logs", os.ModePerm)
	if err != nil {
		log.Fatalf("error creating logs directory: %v", err)
	}
	file, err := os.OpenFile(
		"./logs/app.log",
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		log.Fatalf("error opening file: %v", err)
	}
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "Asia/Jakarta",
		Output:     file,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        10,
		Expiration: 1 * time.Second,
	}))

	// utils
	s3 := storage.NewAwsS3()
	hub := ws.NewHub()
	events := ws.NewEventBroadcaster(hub)

	// Repository
	userRepository := user.NewUserRepository(db)
	inventoryRepository := inventory.NewInventoryRepository(db)
	donationRepository := donation.NewDonationRepository(db)
	mealPlanRepository := mealplan.NewMealPlanRepository(db)
	notificationRepository := notification.NewNotificationRepository(db)

	// Service
	jwtService := jwt.NewJWTService()
	userService := user.NewUserService(userRepository, jwtService)
	inventoryService := inventory.NewInventoryService(inventoryRepository, s3, events)
	donationService := donation.NewDonationService(
		db,
		donationRepository,
		inventoryRepository,
		userRepository,
		notificationRepository,
		events,
	)
	mealPlanService := mealplan.NewMealPlanService(
		db,
		mealPlanRepository,
		inventoryRepository,
		notificationRepository,
		events,
	)
	notificationService := notification.NewNotificationService(notificationRepository, events)

	// Handler
	userHandler := handlers.NewUserHandler(userService, validator)
	inventoryHandler := handlers.NewInventoryHandler(inventoryService, validator)
	donationHandler := handlers.NewDonationHandler(donationService, validator)
	mealPlanHandler := handlers.NewMealPlanHandler(mealPlanService, validator)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	wsHandler := handlers.NewWsHandler(hub)

	// Background jobs
	scanner := alerts.NewExpiryScanner(
		inventoryRepository,
		notificationRepository,
		events,
		utils.GetConfig("EXPIRY_SCAN_CRON"),
		true,
	)
	if err := scanner.Start(); err != nil {
		log.Fatalf("error starting expiry scanner: %v", err)
	}

	// routes
	routesConfig := routes.Config{
		App:                 app,
		UserHandler:         userHandler,
		InventoryHandler:    inventoryHandler,
		DonationHandler:     donationHandler,
		MealPlanHandler:     mealPlanHandler,
		NotificationHandler: notificationHandler,
		WsHandler:           wsHandler,
		Middleware:          middlewares,
		JWTService:          jwtService,
	}
	routesConfig.Setup()
	return app, nil
}
