package usecase

import (
	"github.com/jhoicas/inventario-sync/internal/application/dto"
	"github.com/jhoicas/inventario-sync/internal/application/inventory"
)

// DashboardUseCase deriva el resumen de inventario de la vista local en vivo:
// no consulta el almacén remoto, lee la proyección ya sincronizada del Store.
type DashboardUseCase struct {
	stores *inventory.Manager
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(stores *inventory.Manager) *DashboardUseCase {
	return &DashboardUseCase{stores: stores}
}

// Summary calcula totales, artículos en stock bajo y conteo por categoría.
func (uc *DashboardUseCase) Summary(ownerID string) dto.DashboardResponse {
	items := uc.stores.Get(ownerID).Snapshot()

	out := dto.DashboardResponse{
		TotalItems:  len(items),
		LowStock:    []dto.ItemResponse{},
		PerCategory: make(map[string]int, 8),
	}
	for _, it := range items {
		if it.LowStock() {
			out.LowStock = append(out.LowStock, dto.ToItemResponse(it))
		}
		out.PerCategory[it.Category]++
	}
	return out
}
