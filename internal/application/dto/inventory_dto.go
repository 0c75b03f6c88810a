package dto

import (
	"time"

	"github.com/jhoicas/inventario-sync/internal/domain/entity"
)

// ItemResponse artículo tal como lo ve el cliente (incluye low_stock derivado).
type ItemResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Quantity  int       `json:"quantity"`
	Unit      string    `json:"unit"`
	MinStock  int       `json:"min_stock"`
	LowStock  bool      `json:"low_stock"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToItemResponse convierte la entidad a DTO.
func ToItemResponse(i entity.Item) ItemResponse {
	return ItemResponse{
		ID:        i.ID,
		Name:      i.Name,
		Category:  i.Category,
		Quantity:  i.Quantity,
		Unit:      i.Unit,
		MinStock:  i.MinStock,
		LowStock:  i.LowStock(),
		CreatedAt: i.CreatedAt,
		UpdatedAt: i.UpdatedAt,
	}
}

// ToItemResponses convierte la vista completa.
func ToItemResponses(items []entity.Item) []ItemResponse {
	out := make([]ItemResponse, len(items))
	for n, i := range items {
		out[n] = ToItemResponse(i)
	}
	return out
}

// ItemsResponse vista local + flag de carga inicial.
// loading=true solo hasta que llega el primer snapshot de la suscripción.
type ItemsResponse struct {
	Loading bool           `json:"loading"`
	Items   []ItemResponse `json:"items"`
}

// ItemRequest campos de un artículo para crear o reemplazar por completo.
type ItemRequest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Quantity int    `json:"quantity"`
	Unit     string `json:"unit"`
	MinStock int    `json:"min_stock"`
}

// AdjustStockRequest delta firmado para el ajuste rápido de stock.
type AdjustStockRequest struct {
	Delta int `json:"delta"`
}

// IngestRequest texto libre para la ingesta asistida por IA.
type IngestRequest struct {
	Text string `json:"text"`
}

// MergeResultResponse resultado por candidato de una ingesta.
type MergeResultResponse struct {
	Name    string `json:"name"`
	Created bool   `json:"created"` // true = artículo nuevo; false = fusionado con existente
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
}

// CategoryRequest alta de categoría.
type CategoryRequest struct {
	Label string `json:"label"`
}

// CategoriesResponse conjunto ordenado de categorías de la sesión.
type CategoriesResponse struct {
	Categories []string `json:"categories"`
}

// DashboardResponse resumen derivado de la vista local en vivo.
type DashboardResponse struct {
	TotalItems  int            `json:"total_items"`
	LowStock    []ItemResponse `json:"low_stock"`
	PerCategory map[string]int `json:"per_category"`
}
