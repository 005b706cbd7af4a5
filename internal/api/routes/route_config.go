package routes

import (
	"github.com/gofiber/fiber/v2"

	"smartfud/internal/api/handlers"
	"smartfud/internal/middleware"
	"smartfud/pkg/jwt"
)

type Config struct {
	App                 *fiber.App
	UserHandler         handlers.UserHandler
	InventoryHandler    handlers.InventoryHandler
	DonationHandler     handlers.DonationHandler
	MealPlanHandler     handlers.MealPlanHandler
	NotificationHandler handlers.NotificationHandler
	WsHandler           handlers.WsHandler
	Middleware          middleware.Middleware
	JWTService          jwt.JWTService
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.User()
	c.Inventory()
	c.Donations()
	c.MealPlans()
	c.Notifications()
	c.Live()
	c.GuestRoute()
}

func (c *Config) User() {
	user := c.App.Group("/api/v1/users")
	// user routes
	{
		user.Post("/register", c.UserHandler.Register)
		user.Post("/login", c.UserHandler.Login)
		user.Post("/send_verify", c.UserHandler.SendVerify)
		user.Get("/verify", c.UserHandler.VerifyEmail)
		user.Get("/me", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.Me)
		user.Patch("/update", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.UpdateUser)
	}
}

func (c *Config) Inventory() {
	inventory := c.App.Group("/api/v1/inventory", c.Middleware.AuthMiddleware(c.JWTService))
	inventory.Get("/dashboard", c.InventoryHandler.GetDashboardStats)

	// Basic CRUD operations
	inventory.Post("", c.InventoryHandler.AddItem)
	inventory.Get("", c.InventoryHandler.GetItems)
	inventory.Get("/:id", c.InventoryHandler.GetItemDetails)
	inventory.Put("/:id", c.InventoryHandler.UpdateItem)
	inventory.Delete("/:id", c.InventoryHandler.DeleteItem)

	// Special operations
	inventory.Post("/:id/image", c.InventoryHandler.UploadItemImage)
	inventory.Post("/:id/used", c.InventoryHandler.MarkAsUsed)
}

func (c *Config) Donations() {
	donations := c.App.Group("/api/v1/donations", c.Middleware.AuthMiddleware(c.JWTService))
	donations.Get("", c.DonationHandler.GetMyDonations)
	donations.Get("/all", c.DonationHandler.GetAllDonations)
	donations.Patch("/:id", c.DonationHandler.UpdateDonation)
	donations.Delete("/:id", c.DonationHandler.DeleteDonation)
	donations.Post("/convert", c.DonationHandler.ConvertFromInventory)
	donations.Post("/redeem", c.DonationHandler.RedeemDonation)
}

func (c *Config) MealPlans() {
	mealPlans := c.App.Group("/api/v1/meal-plans", c.Middleware.AuthMiddleware(c.JWTService))
	mealPlans.Get("/suggestions", c.MealPlanHandler.GetSuggestions)
	mealPlans.Get("/:weekKey", c.MealPlanHandler.GetWeek)
	mealPlans.Put("/:weekKey", c.MealPlanHandler.SaveWeek)
}

func (c *Config) Notifications() {
	notifications := c.App.Group("/api/v1/notifications", c.Middleware.AuthMiddleware(c.JWTService))
	notifications.Get("", c.NotificationHandler.GetNotifications)
	notifications.Patch("/:id/read", c.NotificationHandler.MarkRead)
	notifications.Post("/read-all", c.NotificationHandler.MarkAllRead)
	notifications.Delete("/:id", c.NotificationHandler.DeleteNotification)
}

func (c *Config) Live() {
	c.App.Get("/api/v1/ws",
		c.Middleware.AuthMiddleware(c.JWTService),
		c.WsHandler.Upgrade,
		c.WsHandler.Serve())
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
}
