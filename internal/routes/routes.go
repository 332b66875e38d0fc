package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/manaujo/chefcomanda/internal/config"
	"github.com/manaujo/chefcomanda/internal/handlers"
	"github.com/manaujo/chefcomanda/internal/metrics"
	"github.com/manaujo/chefcomanda/internal/middleware"
	"github.com/manaujo/chefcomanda/internal/services"
	"gorm.io/gorm"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	accessService *services.AccessService,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	webhookHandler *handlers.WebhookHandler,
	billingHandler *handlers.BillingHandler,
	posHandler *handlers.POSHandler,
	comandaHandler *handlers.ComandaHandler,
	menuHandler *handlers.MenuHandler,
	inventoryHandler *handlers.InventoryHandler,
	reportHandler *handlers.ReportHandler,
) {
	app.Get("/metrics", metrics.Handler())

	api := app.Group("/api")

	// General API rate limiter: 120 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               120,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Public digital menu, no auth
	api.Get("/public/menu/:slug", menuHandler.PublicMenu)
	api.Get("/public/menu/:slug/qrcode", menuHandler.MenuQRCode)

	// Auth — public, with a stricter rate limit: 10 req/min per IP
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)

	api.Post("/auth/logout", middleware.JWTProtected(cfg), authHandler.Logout)
	api.Post("/auth/employees", middleware.JWTProtected(cfg), middleware.OwnerRequired(db), authHandler.CreateEmployee)

	// Stripe webhook — signature auth, no JWT
	api.Post("/webhooks/stripe", webhookHandler.HandleStripe)

	// Billing is deliberately outside the subscription gate so lapsed customers
	// can check out again.
	billing := api.Group("/billing", middleware.JWTProtected(cfg))
	billing.Get("/plans", billingHandler.Plans)
	billing.Get("/access", billingHandler.Access)
	billing.Get("/subscription", billingHandler.Subscription)
	billing.Post("/sync", billingHandler.SyncSubscription)
	billing.Post("/checkout", billingHandler.CreateCheckoutSession)
	billing.Post("/cancel", middleware.OwnerRequired(db), billingHandler.CancelSubscription)

	// Everything operational requires a JWT and an active (own or inherited)
	// subscription.
	protected := api.Group("", middleware.JWTProtected(cfg), middleware.SubscriptionRequired(accessService))

	pos := protected.Group("/pos")
	pos.Post("/register/open", posHandler.OpenRegister)
	pos.Get("/register", posHandler.CurrentSession)
	pos.Post("/register/close", posHandler.CloseRegister)
	pos.Post("/movements", posHandler.RecordMovement)
	pos.Get("/movements", posHandler.Movements)
	pos.Post("/sales", posHandler.FinalizeSale)

	tables := protected.Group("/tables")
	tables.Post("", comandaHandler.CreateTable)
	tables.Get("", comandaHandler.ListTables)

	comandas := protected.Group("/comandas")
	comandas.Post("", comandaHandler.OpenComanda)
	comandas.Get("", comandaHandler.ListOpen)
	comandas.Get("/:id", comandaHandler.Get)
	comandas.Post("/:id/items", comandaHandler.AddItem)
	comandas.Put("/:id/items/:itemId", comandaHandler.SetItemQuantity)
	comandas.Delete("/:id/items/:itemId", comandaHandler.RemoveItem)
	comandas.Post("/:id/void", comandaHandler.Void)

	products := protected.Group("/products")
	products.Get("", menuHandler.ListProducts)
	products.Post("", middleware.OwnerRequired(db), menuHandler.CreateProduct)
	products.Put("/:id", middleware.OwnerRequired(db), menuHandler.UpdateProduct)
	products.Delete("/:id", middleware.OwnerRequired(db), menuHandler.DeleteProduct)

	inventory := protected.Group("/inventory")
	inventory.Post("/items", inventoryHandler.CreateItem)
	inventory.Get("/items", inventoryHandler.ListItems)
	inventory.Get("/items/low-stock", inventoryHandler.LowStock)
	inventory.Post("/items/:id/movements", inventoryHandler.Move)
	inventory.Get("/items/:id/movements", inventoryHandler.Movements)

	reports := protected.Group("/reports", middleware.OwnerRequired(db))
	reports.Get("/daily-sales", reportHandler.DailySales)
	reports.Get("/top-products", reportHandler.TopProducts)
	reports.Get("/comandas", reportHandler.ComandaStats)
}
