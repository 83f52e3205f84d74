package handlers

import (
	"github.com/PositiveMinds/Together-As-One-SACCO/internal/adapters/persistence/repositories"
	"github.com/PositiveMinds/Together-As-One-SACCO/internal/pkg/pagination"
	"github.com/PositiveMinds/Together-As-One-SACCO/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuditHandler handles audit log endpoints
type AuditHandler struct {
	auditRepo repositories.AuditRepository
}

// NewAuditHandler creates a new audit handler
func NewAuditHandler(auditRepo repositories.AuditRepository) *AuditHandler {
	return &AuditHandler{auditRepo: auditRepo}
}

// List lists audit log entries newest first
// @Summary List audit log
// @Description List audit log entries with pagination
// @Tags Audit
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Router /audit [get]
func (h *AuditHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	entries, total, err := h.auditRepo.List(c.Context(), params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list audit log")
	}
	return response.Success(c, "", pagination.NewResponse(entries, params, total))
}
