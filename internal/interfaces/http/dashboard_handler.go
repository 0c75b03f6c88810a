package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-sync/internal/application/usecase"
)

// DashboardHandler expone el resumen derivado de la vista en vivo (protegido).
type DashboardHandler struct {
	uc *usecase.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *usecase.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// Summary godoc
// @Summary      Resumen de inventario (totales, stock bajo, por categoría)
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardResponse
// @Router       /api/dashboard [get]
func (h *DashboardHandler) Summary(c *fiber.Ctx) error {
	return c.JSON(h.uc.Summary(GetOwnerID(c)))
}
