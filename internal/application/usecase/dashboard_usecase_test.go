package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/jhoicas/inventario-sync/internal/application/inventory"
	"github.com/jhoicas/inventario-sync/internal/application/usecase"
	"github.com/jhoicas/inventario-sync/internal/domain/entity"
	"github.com/jhoicas/inventario-sync/internal/infrastructure/memstore"
	"github.com/jhoicas/inventario-sync/pkg/logger"
)

func TestDashboard_Summary(t *testing.T) {
	col := memstore.New()
	mgr := inventory.NewManager(context.Background(), func(ownerID string) *inventory.Store {
		return inventory.NewStore(ownerID, col, logger.Nop(), inventory.Options{Locale: language.Spanish})
	})
	t.Cleanup(mgr.CloseAll)
	uc := usecase.NewDashboardUseCase(mgr)

	st := mgr.Get("owner-x")
	require.Eventually(t, func() bool { return !st.Loading() }, 2*time.Second, 5*time.Millisecond)

	for _, it := range []entity.Item{
		{Name: "Resma A4", Category: "Papelería", Quantity: 10, MinStock: 2},
		{Name: "Tijeras", Category: "Papelería", Quantity: 1, MinStock: 2},
		{Name: "Café", Category: "Cafetería", Quantity: 0, MinStock: 1},
	} {
		require.NoError(t, st.CreateItem(context.Background(), it))
	}
	require.Eventually(t, func() bool { return len(st.Snapshot()) == 3 }, 2*time.Second, 5*time.Millisecond)

	resumen := uc.Summary("owner-x")
	assert.Equal(t, 3, resumen.TotalItems)
	require.Len(t, resumen.LowStock, 2, "Tijeras (1<=2) y Café (0<=1) están en stock bajo")
	assert.Equal(t, map[string]int{"Papelería": 2, "Cafetería": 1}, resumen.PerCategory)
}

// El resumen respeta el aislamiento por owner.
func TestDashboard_Summary_OwnerVacio(t *testing.T) {
	col := memstore.New()
	mgr := inventory.NewManager(context.Background(), func(ownerID string) *inventory.Store {
		return inventory.NewStore(ownerID, col, logger.Nop(), inventory.Options{Locale: language.Spanish})
	})
	t.Cleanup(mgr.CloseAll)
	uc := usecase.NewDashboardUseCase(mgr)

	otro := mgr.Get("owner-a")
	require.Eventually(t, func() bool { return !otro.Loading() }, 2*time.Second, 5*time.Millisecond)
	require.NoError(t, otro.CreateItem(context.Background(), entity.Item{Name: "Escoba", Quantity: 2}))
	require.Eventually(t, func() bool { return len(otro.Snapshot()) == 1 }, 2*time.Second, 5*time.Millisecond)

	vacio := mgr.Get("owner-b")
	require.Eventually(t, func() bool { return !vacio.Loading() }, 2*time.Second, 5*time.Millisecond)

	resumen := uc.Summary("owner-b")
	assert.Zero(t, resumen.TotalItems, "los artículos de owner-a no cuentan para owner-b")
	assert.Empty(t, resumen.LowStock)
	assert.Empty(t, resumen.PerCategory)
}
