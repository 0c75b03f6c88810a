package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-sync/internal/application/inventory"
)

// NotificationHandler expone el slot único de notificación de la sesión
// (protegido). Sin cola: GET devuelve el pendiente o 204; DELETE lo vacía.
type NotificationHandler struct {
	stores *inventory.Manager
}

// NewNotificationHandler construye el handler.
func NewNotificationHandler(stores *inventory.Manager) *NotificationHandler {
	return &NotificationHandler{stores: stores}
}

// Pending godoc
// @Summary      Notificación pendiente
// @Tags         notifications
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  entity.Notification
// @Success      204
// @Router       /api/notifications [get]
func (h *NotificationHandler) Pending(c *fiber.Ctx) error {
	note, ok := h.stores.Get(GetOwnerID(c)).Notifier().Pending()
	if !ok {
		return c.SendStatus(fiber.StatusNoContent)
	}
	return c.JSON(note)
}

// Clear godoc
// @Summary      Vaciar el slot de notificación
// @Tags         notifications
// @Security     Bearer
// @Success      204
// @Router       /api/notifications [delete]
func (h *NotificationHandler) Clear(c *fiber.Ctx) error {
	h.stores.Get(GetOwnerID(c)).Notifier().Clear()
	return c.SendStatus(fiber.StatusNoContent)
}
