package handlers

import (
	"errors"
	"time"

	"github.com/PositiveMinds/Together-As-One-SACCO/internal/adapters/http/middleware"
	"github.com/PositiveMinds/Together-As-One-SACCO/internal/core/domain"
	"github.com/PositiveMinds/Together-As-One-SACCO/internal/core/services"
	"github.com/PositiveMinds/Together-As-One-SACCO/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// BackupHandler handles backup endpoints
type BackupHandler struct {
	backupService *services.BackupService
}

// NewBackupHandler creates a new backup handler
func NewBackupHandler(backupService *services.BackupService) *BackupHandler {
	return &BackupHandler{backupService: backupService}
}

// Export downloads the full ledger
// @Summary Export backup
// @Description Download the full ledger as a JSON envelope
// @Tags Backup
// @Produce json
// @Security BearerAuth
// @Success 200 {string} string "JSON envelope"
// @Router /backup/export [get]
func (h *BackupHandler) Export(c *fiber.Ctx) error {
	blob, err := h.backupService.Export(c.Context(), middleware.UserRole(c))
	if err != nil {
		return response.InternalServerError(c, "Failed to export data")
	}

	filename := "sacco-backup-" + time.Now().Format("2006-01-02") + ".json"
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(blob)
}

// Import replaces the ledger with an uploaded envelope
// @Summary Import backup
// @Description Replace every ledger entity with the uploaded envelope
// @Tags Backup
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /backup/import [post]
func (h *BackupHandler) Import(c *fiber.Ctx) error {
	blob := c.Body()

	if err := h.backupService.Import(c.Context(), blob, middleware.UserRole(c)); err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return response.BadRequest(c, "Backup payload is empty or malformed")
		}
		return response.InternalServerError(c, "Failed to import data")
	}
	return response.Success(c, "Data imported successfully", nil)
}

// Clear wipes the ledger
// @Summary Clear all data
// @Description Remove every ledger entity
// @Tags Backup
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /backup/clear [post]
func (h *BackupHandler) Clear(c *fiber.Ctx) error {
	if err := h.backupService.Clear(c.Context(), middleware.UserRole(c)); err != nil {
		return response.InternalServerError(c, "Failed to clear data")
	}
	return response.Success(c, "All data cleared", nil)
}
