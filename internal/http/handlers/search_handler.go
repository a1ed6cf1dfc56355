package handlers

import (
	"github.com/gofiber/fiber/v2"

	"stockledger/internal/domain"
	"stockledger/internal/log"
	"stockledger/internal/services"
	"stockledger/internal/validate"
)

type SearchHandler struct {
	Query *services.QueryService
}

// GET /api/v1/search?name=&min_quantity=&max_quantity=&in_stock=
func (h *SearchHandler) Search(c *fiber.Ctx) error {
	var f domain.SearchFilter
	var ok bool
	if f.Name, ok = validate.Q(c.Query("name")); !ok {
		log.Security(c, "validation.fail", map[string]any{"field": "name"})
		return badRequest(c, "api.search", "enter a valid name (letters/numbers only)")
	}
	if f.MinQuantity, ok = validate.OptQty(c.Query("min_quantity")); !ok {
		return badRequest(c, "api.search", "min_quantity must be a non-negative integer")
	}
	if f.MaxQuantity, ok = validate.OptQty(c.Query("max_quantity")); !ok {
		return badRequest(c, "api.search", "max_quantity must be a non-negative integer")
	}
	if f.InStock, ok = validate.OptBool(c.Query("in_stock")); !ok {
		return badRequest(c, "api.search", "in_stock must be true or false")
	}

	products, err := h.Query.SearchProducts(c.UserContext(), f)
	if err != nil {
		return fail(c, "api.search", err)
	}
	return c.JSON(fiber.Map{"products": products, "count": len(products)})
}
