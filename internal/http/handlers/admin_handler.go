package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "stockledger/internal/log"
	"stockledger/internal/services"
	"stockledger/internal/validate"
)

type AdminHandler struct {
	Ledger *services.LedgerService
	Query  *services.QueryService
}

// GET /admin/inventory
func (h *AdminHandler) Inventory(c *fiber.Ctx) error {
	rows, err := h.Query.ListProducts(c.UserContext())
	if err != nil {
		applog.Error(c, "admin.inventory.list.fail", err, nil)
		return c.Status(statusFor(err)).Render("notfound", fiber.Map{"Message": "Could not load inventory"})
	}
	recent, err := h.Query.ListTransactions(c.UserContext(), 25)
	if err != nil {
		applog.Error(c, "admin.inventory.ledger.fail", err, nil)
	}
	stats, _ := h.Query.Stats(c.UserContext())
	return render(c, "admin_inventory", fiber.Map{
		"Rows":   rows,
		"Recent": recent,
		"Stats":  stats,
		"Err":    c.Query("err"),
	})
}

// POST /admin/inventory sets a product's quantity from the dashboard form.
func (h *AdminHandler) UpdateInventory(c *fiber.Ctx) error {
	pid, okID := validate.ID(c.FormValue("product_id"))
	qty, okQty := validate.Qty(c.FormValue("qty"))
	if !okID || !okQty {
		applog.Security(c, "validation.fail", map[string]any{"form": "admin.inventory"})
		return c.Status(fiber.StatusBadRequest).SendString("invalid input")
	}
	p, err := h.Ledger.SetQuantity(c.UserContext(), pid, qty)
	if err != nil {
		applog.Error(c, "admin.inventory.save.fail", err, map[string]any{"product_id": pid, "qty": qty})
		return c.Status(statusFor(err)).SendString("could not save inventory")
	}
	applog.Audit(c, "admin.inventory.save", map[string]any{"product_id": pid, "product_name": p.Name, "qty": qty})
	return c.Redirect("/admin/inventory")
}
