package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"stockledger/internal/log"
	"stockledger/internal/repos"
	"stockledger/internal/services"
)

// InventoryHandler serves the store-wide views: ledger feed, stats, backups, health.
type InventoryHandler struct {
	Query  *services.QueryService
	Backup *services.BackupService
	Store  *repos.Store
}

// GET /
func (h *InventoryHandler) Root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "Inventory ledger API is running.",
		"endpoints": fiber.Map{
			"products":     "/api/v1/products",
			"transactions": "/api/v1/transactions",
			"search":       "/api/v1/search",
			"stats":        "/api/v1/stats",
			"health":       "/health",
			"metrics":      "/metrics",
		},
	})
}

// GET /health
func (h *InventoryHandler) Health(c *fiber.Ctx) error {
	db := "healthy"
	if err := h.Store.Ping(c.UserContext()); err != nil {
		log.Error(c, "health.db.fail", err, nil)
		db = "unhealthy"
	}
	return c.JSON(fiber.Map{
		"status":    "healthy",
		"database":  db,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// GET /api/v1/transactions?limit=
func (h *InventoryHandler) Transactions(c *fiber.Ctx) error {
	limit := 0
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return badRequest(c, "api.transactions", "limit must be a positive integer")
		}
		limit = n
	}
	list, err := h.Query.ListTransactions(c.UserContext(), limit)
	if err != nil {
		return fail(c, "api.transactions", err)
	}
	return c.JSON(fiber.Map{"transactions": list, "count": len(list)})
}

// GET /api/v1/stats
func (h *InventoryHandler) Stats(c *fiber.Ctx) error {
	st, err := h.Query.Stats(c.UserContext())
	if err != nil {
		return fail(c, "api.stats", err)
	}
	return c.JSON(st)
}

// POST /api/v1/backup
func (h *InventoryHandler) CreateBackup(c *fiber.Ctx) error {
	path, err := h.Backup.Backup(c.UserContext())
	if err != nil {
		return fail(c, "api.backup", err)
	}
	log.Audit(c, "api.backup", map[string]any{"path": path})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status": true, "message": "Database backup created successfully", "backup_path": path,
	})
}
