package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-sync/internal/application/dto"
	"github.com/jhoicas/inventario-sync/internal/application/inventory"
	"github.com/jhoicas/inventario-sync/internal/application/usecase"
	"github.com/jhoicas/inventario-sync/internal/domain"
)

// AIHandler maneja la ingesta de inventario por lenguaje natural (protegido).
type AIHandler struct {
	uc *usecase.IngestUseCase
}

// NewAIHandler construye el handler.
func NewAIHandler(uc *usecase.IngestUseCase) *AIHandler {
	return &AIHandler{uc: uc}
}

// Ingest godoc
// @Summary      Ingesta de texto libre vía IA
// @Description  Extrae candidatos del texto y los fusiona en el inventario;
// @Description  la falla de un candidato no bloquea a los siguientes.
// @Tags         ai
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.IngestRequest  true  "Texto libre"
// @Success      200   {array}   dto.MergeResultResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/ai/ingest [post]
func (h *AIHandler) Ingest(c *fiber.Ctx) error {
	var in dto.IngestRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	results, err := h.uc.IngestText(c.Context(), GetOwnerID(c), in.Text)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "text es requerido"})
		case errors.Is(err, domain.ErrExtraction):
			return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "EXTRACTION", Message: "no se pudo interpretar el texto"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
		}
	}
	return c.JSON(toMergeResults(results))
}

func toMergeResults(results []inventory.MergeResult) []dto.MergeResultResponse {
	out := make([]dto.MergeResultResponse, len(results))
	for i, r := range results {
		out[i] = dto.MergeResultResponse{
			Name:    r.Name,
			Created: r.Created,
			OK:      r.Err == nil,
		}
		if r.Err != nil {
			out[i].Message = r.Err.Error()
		}
	}
	return out
}
