package handlers

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"stockledger/internal/domain"
	"stockledger/internal/log"
	"stockledger/internal/services"
	"stockledger/internal/validate"
)

type ProductHandler struct {
	Ledger *services.LedgerService
	Query  *services.QueryService
}

type createRequest struct {
	ProductName string `json:"product_name" validate:"required"`
	Quantity    *int   `json:"quantity" validate:"required"`
}

type quantityRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

type bulkRequest struct {
	Products []domain.ImportItem `json:"products" validate:"required,min=1,max=100"`
}

func productID(c *fiber.Ctx) (int64, bool) {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		log.Security(c, "validation.fail", map[string]any{"field": "id"})
	}
	return id, ok
}

// POST /api/v1/products
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var req createRequest
	if err := bind(c, &req); err != nil {
		return fail(c, "api.products.create", err)
	}
	p, err := h.Ledger.CreateProduct(c.UserContext(), req.ProductName, *req.Quantity)
	if err != nil {
		return fail(c, "api.products.create", err)
	}
	log.Audit(c, "api.products.create", map[string]any{"product_id": p.ID, "quantity": p.Quantity})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Product created successfully", "product": p})
}

// GET /api/v1/products
func (h *ProductHandler) List(c *fiber.Ctx) error {
	list, err := h.Query.ListProducts(c.UserContext())
	if err != nil {
		return fail(c, "api.products.list", err)
	}
	return c.JSON(fiber.Map{"products": list, "count": len(list)})
}

// GET /api/v1/products/:id
func (h *ProductHandler) Get(c *fiber.Ctx) error {
	id, ok := productID(c)
	if !ok {
		return badRequest(c, "api.products.get", "invalid product id")
	}
	p, found, err := h.Query.GetProduct(c.UserContext(), id)
	if err != nil {
		return fail(c, "api.products.get", err)
	}
	if !found {
		return fail(c, "api.products.get", domain.NotFoundf("product with ID %d not found", id))
	}
	return c.JSON(p)
}

// GET /api/v1/products/by-name/:name
func (h *ProductHandler) ByName(c *fiber.Ctx) error {
	name := c.Params("name")
	p, found, err := h.Query.GetProductByName(c.UserContext(), name)
	if err != nil {
		return fail(c, "api.products.by_name", err)
	}
	if !found {
		return fail(c, "api.products.by_name", domain.NotFoundf("product %q not found", name))
	}
	return c.JSON(p)
}

// PUT /api/v1/products/:id/quantity
func (h *ProductHandler) SetQuantity(c *fiber.Ctx) error {
	return h.adjust(c, "api.products.set", "Product updated successfully", h.Ledger.SetQuantity)
}

// POST /api/v1/products/:id/add
func (h *ProductHandler) Add(c *fiber.Ctx) error {
	return h.adjust(c, "api.products.add", "Quantity adjusted successfully", h.Ledger.IncrementQuantity)
}

// POST /api/v1/products/:id/order
func (h *ProductHandler) Order(c *fiber.Ctx) error {
	return h.adjust(c, "api.products.order", "Order placed successfully", h.Ledger.DecrementQuantity)
}

func (h *ProductHandler) adjust(c *fiber.Ctx, action, msg string, op func(ctx context.Context, id int64, qty int) (domain.Product, error)) error {
	id, ok := productID(c)
	if !ok {
		return badRequest(c, action, "invalid product id")
	}
	var req quantityRequest
	if err := bind(c, &req); err != nil {
		return fail(c, action, err)
	}
	p, err := op(c.UserContext(), id, *req.Quantity)
	if err != nil {
		return fail(c, action, err)
	}
	log.Audit(c, action, map[string]any{"product_id": id, "amount": *req.Quantity, "quantity": p.Quantity})
	return c.JSON(fiber.Map{"message": msg, "product": p})
}

// DELETE /api/v1/products/:id
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, ok := productID(c)
	if !ok {
		return badRequest(c, "api.products.delete", "invalid product id")
	}
	d, err := h.Ledger.DeleteProduct(c.UserContext(), id)
	if err != nil {
		return fail(c, "api.products.delete", err)
	}
	log.Audit(c, "api.products.delete", map[string]any{"product_id": id, "transactions_removed": d.TransactionsRemoved})
	return c.JSON(fiber.Map{"message": "Product deleted successfully", "deleted": d})
}

// GET /api/v1/products/:id/transactions
func (h *ProductHandler) History(c *fiber.Ctx) error {
	id, ok := productID(c)
	if !ok {
		return badRequest(c, "api.products.history", "invalid product id")
	}
	list, err := h.Query.ListTransactionsForProduct(c.UserContext(), id)
	if err != nil {
		return fail(c, "api.products.history", err)
	}
	return c.JSON(fiber.Map{"product_id": id, "transactions": list, "count": len(list)})
}

// GET /api/v1/products/:id/status
func (h *ProductHandler) Status(c *fiber.Ctx) error {
	id, ok := productID(c)
	if !ok {
		return badRequest(c, "api.products.status", "invalid product id")
	}
	a, err := h.Query.Availability(c.UserContext(), id)
	if err != nil {
		return fail(c, "api.products.status", err)
	}
	return c.JSON(a)
}

// GET /api/v1/products/:id/verify
func (h *ProductHandler) Verify(c *fiber.Ctx) error {
	id, ok := productID(c)
	if !ok {
		return badRequest(c, "api.products.verify", "invalid product id")
	}
	check, err := h.Query.VerifyLedger(c.UserContext(), id)
	if err != nil {
		return fail(c, "api.products.verify", err)
	}
	if !check.Consistent {
		log.Security(c, "ledger.drift", map[string]any{"product_id": id, "quantity": check.Quantity, "replayed": check.Replayed})
	}
	return c.JSON(check)
}

// POST /api/v1/products/bulk
func (h *ProductHandler) Bulk(c *fiber.Ctx) error {
	var req bulkRequest
	if err := bind(c, &req); err != nil {
		return fail(c, "api.products.bulk", err)
	}
	res, err := h.Ledger.ImportProducts(c.UserContext(), req.Products)
	if err != nil {
		return fail(c, "api.products.bulk", err)
	}
	log.Audit(c, "api.products.bulk", map[string]any{
		"reference": res.Reference, "created": len(res.Created), "failed": len(res.Failed),
	})
	status := fiber.StatusCreated
	if len(res.Created) == 0 {
		status = fiber.StatusOK
	}
	return c.Status(status).JSON(fiber.Map{
		"message": fmt.Sprintf("Bulk create completed. Success: %d, Failed: %d", len(res.Created), len(res.Failed)),
		"results": res,
	})
}
