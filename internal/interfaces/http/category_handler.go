package http

import (
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-sync/internal/application/dto"
	"github.com/jhoicas/inventario-sync/internal/application/inventory"
)

// CategoryHandler maneja el conjunto de categorías de la sesión (protegido).
type CategoryHandler struct {
	stores *inventory.Manager
}

// NewCategoryHandler construye el handler.
func NewCategoryHandler(stores *inventory.Manager) *CategoryHandler {
	return &CategoryHandler{stores: stores}
}

// List godoc
// @Summary      Categorías de la sesión
// @Tags         categories
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.CategoriesResponse
// @Router       /api/categories [get]
func (h *CategoryHandler) List(c *fiber.Ctx) error {
	cats := h.stores.Get(GetOwnerID(c)).Categories()
	return c.JSON(dto.CategoriesResponse{Categories: cats.List()})
}

// Add godoc
// @Summary      Agregar categoría (duplicado = no-op)
// @Tags         categories
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CategoryRequest  true  "Etiqueta"
// @Success      200   {object}  dto.CategoriesResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/categories [post]
func (h *CategoryHandler) Add(c *fiber.Ctx) error {
	var in dto.CategoryRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Label == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "label es requerido"})
	}
	cats := h.stores.Get(GetOwnerID(c)).Categories()
	cats.Add(in.Label)
	return c.JSON(dto.CategoriesResponse{Categories: cats.List()})
}

// Remove godoc
// @Summary      Eliminar categoría (no cascada sobre artículos)
// @Tags         categories
// @Security     Bearer
// @Produce      json
// @Param        label  path  string  true  "Etiqueta"
// @Success      200    {object}  dto.CategoriesResponse
// @Router       /api/categories/{label} [delete]
func (h *CategoryHandler) Remove(c *fiber.Ctx) error {
	label, err := url.PathUnescape(c.Params("label"))
	if err != nil {
		label = c.Params("label")
	}
	if label == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "label es requerido"})
	}
	cats := h.stores.Get(GetOwnerID(c)).Categories()
	cats.Remove(label)
	return c.JSON(dto.CategoriesResponse{Categories: cats.List()})
}
