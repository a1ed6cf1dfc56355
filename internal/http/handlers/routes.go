package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	applog "stockledger/internal/log"
)

// Mount registers every route. Mutating API routes sit behind RequireAPIKey;
// the HTML dashboard additionally uses CSRF tokens.
func (d *Deps) Mount(app *fiber.App) {
	guard := RequireAPIKey(d.Keys)
	p := d.ProductHandler

	app.Get("/", d.InventoryHandler.Root)
	app.Get("/health", d.InventoryHandler.Health)
	app.Get("/metrics", adaptor.HTTPHandler(d.Metrics.Handler()))

	api := app.Group("/api/v1")
	api.Get("/products", p.List)
	api.Post("/products", guard, p.Create)
	api.Post("/products/bulk", guard, p.Bulk)
	api.Get("/products/by-name/:name", p.ByName)
	api.Get("/products/:id", p.Get)
	api.Put("/products/:id/quantity", guard, p.SetQuantity)
	api.Post("/products/:id/add", guard, p.Add)
	api.Post("/products/:id/order", guard, p.Order)
	api.Delete("/products/:id", guard, p.Delete)
	api.Get("/products/:id/transactions", p.History)
	api.Get("/products/:id/status", p.Status)
	api.Get("/products/:id/verify", p.Verify)

	api.Get("/transactions", d.InventoryHandler.Transactions)
	api.Get("/search", limiter.New(limiter.Config{
		Max:        30,
		Expiration: time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "|search"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.search.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded, retry soon"})
		},
	}), d.SearchHandler.Search)
	api.Get("/stats", d.InventoryHandler.Stats)
	api.Post("/backup", guard, d.InventoryHandler.CreateBackup)

	admin := app.Group("/admin", csrf.New(csrf.Config{
		KeyLookup:      "form:csrf",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		ContextKey:     "csrf",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Security(c, "csrf.fail", nil)
			return c.Status(fiber.StatusForbidden).Render("notfound", fiber.Map{"Message": "Security check failed. Please refresh and try again."})
		},
	}))
	admin.Get("/inventory", d.AdminHandler.Inventory)
	admin.Post("/inventory", guard, d.AdminHandler.UpdateInventory)
}
