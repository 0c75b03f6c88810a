package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-sync/internal/application/dto"
	"github.com/jhoicas/inventario-sync/internal/application/inventory"
	"github.com/jhoicas/inventario-sync/internal/domain"
	"github.com/jhoicas/inventario-sync/internal/domain/entity"
)

// ItemHandler maneja las peticiones HTTP para los artículos (protegido).
// Toda mutación viaja al almacén remoto; la respuesta solo confirma el acuse,
// la vista se actualiza por la suscripción.
type ItemHandler struct {
	stores *inventory.Manager
}

// NewItemHandler construye el handler.
func NewItemHandler(stores *inventory.Manager) *ItemHandler {
	return &ItemHandler{stores: stores}
}

// mutationError mapea el error de una mutación al código HTTP.
func mutationError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos del artículo inválidos"})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente"})
	case errors.Is(err, domain.ErrTransport):
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "TRANSPORT", Message: "el almacén remoto rechazó la operación"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}

// List godoc
// @Summary      Vista local de inventario
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ItemsResponse
// @Router       /api/items [get]
func (h *ItemHandler) List(c *fiber.Ctx) error {
	st := h.stores.Get(GetOwnerID(c))
	return c.JSON(dto.ItemsResponse{
		Loading: st.Loading(),
		Items:   dto.ToItemResponses(st.Snapshot()),
	})
}

// Create godoc
// @Summary      Crear artículo
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ItemRequest  true  "Datos del artículo"
// @Success      202   {object}  dto.ItemRequest
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/items [post]
func (h *ItemHandler) Create(c *fiber.Ctx) error {
	var in dto.ItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	st := h.stores.Get(GetOwnerID(c))
	err := st.CreateItem(c.Context(), entity.Item{
		Name:     in.Name,
		Category: in.Category,
		Quantity: in.Quantity,
		Unit:     in.Unit,
		MinStock: in.MinStock,
	})
	if err != nil {
		return mutationError(c, err)
	}
	// 202: el acuse remoto llegó, la vista se refresca por la suscripción.
	return c.Status(fiber.StatusAccepted).JSON(in)
}

// Update godoc
// @Summary      Reemplazar artículo
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string           true  "ID del artículo"
// @Param        body  body  dto.ItemRequest  true  "Artículo completo"
// @Success      202   {object}  dto.ItemRequest
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/items/{id} [put]
func (h *ItemHandler) Update(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	var in dto.ItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	// El motor no re-valida el reemplazo completo; la validación del formulario
	// vive aquí, como en el camino manual de la UI.
	if in.Name == "" || in.Quantity < 0 || in.MinStock < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "name requerido; quantity y min_stock no negativos"})
	}
	st := h.stores.Get(GetOwnerID(c))
	err := st.UpdateItem(c.Context(), id, entity.Item{
		Name:     in.Name,
		Category: in.Category,
		Quantity: in.Quantity,
		Unit:     in.Unit,
		MinStock: in.MinStock,
	})
	if err != nil {
		return mutationError(c, err)
	}
	return c.Status(fiber.StatusAccepted).JSON(in)
}

// Delete godoc
// @Summary      Eliminar artículo
// @Tags         items
// @Security     Bearer
// @Param        id  path  string  true  "ID del artículo"
// @Success      204
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/items/{id} [delete]
func (h *ItemHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	st := h.stores.Get(GetOwnerID(c))
	if err := st.DeleteItem(c.Context(), id); err != nil {
		return mutationError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Adjust godoc
// @Summary      Ajustar stock con delta firmado
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Param        id    path  string                  true  "ID del artículo"
// @Param        body  body  dto.AdjustStockRequest  true  "Delta"
// @Success      202
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/items/{id}/adjust [post]
func (h *ItemHandler) Adjust(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	var in dto.AdjustStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	st := h.stores.Get(GetOwnerID(c))
	// Id ausente en la vista = no-op aceptado (carrera con delete concurrente),
	// también responde 202.
	if err := st.AdjustStock(c.Context(), id, in.Delta); err != nil {
		return mutationError(c, err)
	}
	return c.SendStatus(fiber.StatusAccepted)
}
