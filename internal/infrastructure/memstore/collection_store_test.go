package memstore

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-sync/internal/domain"
	"github.com/jhoicas/inventario-sync/internal/domain/entity"
)

// recolector acumula los snapshots entregados a una suscripción.
type recolector struct {
	mu        sync.Mutex
	snapshots [][]entity.Item
}

func (r *recolector) onSnapshot(items []entity.Item) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshots = append(r.snapshots, items)
}

func (r *recolector) cuenta() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.snapshots)
}

func (r *recolector) ultimo() []entity.Item {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.snapshots) == 0 {
		return nil
	}
	return r.snapshots[len(r.snapshots)-1]
}

func esperarSnapshot(t *testing.T, r *recolector, cond func([]entity.Item) bool) {
	t.Helper()
	require.Eventually(t, func() bool {
		return cond(r.ultimo())
	}, 2*time.Second, 5*time.Millisecond)
}

func TestSubscribe_SnapshotInicialAsincrono(t *testing.T) {
	s := New()
	rec := &recolector{}

	unsub, err := s.Subscribe(context.Background(), "owner-a", rec.onSnapshot, nil)
	require.NoError(t, err)
	defer unsub()

	esperarSnapshot(t, rec, func(v []entity.Item) bool { return rec.cuenta() >= 1 })
	assert.Empty(t, rec.ultimo(), "colección vacía: el snapshot inicial llega sin artículos")
}

func TestCreate_DifundeSoloAlOwner(t *testing.T) {
	s := New()
	recA := &recolector{}
	recB := &recolector{}

	unsubA, err := s.Subscribe(context.Background(), "owner-a", recA.onSnapshot, nil)
	require.NoError(t, err)
	defer unsubA()
	unsubB, err := s.Subscribe(context.Background(), "owner-b", recB.onSnapshot, nil)
	require.NoError(t, err)
	defer unsubB()

	id, err := s.Create(context.Background(), &entity.Item{OwnerID: "owner-a", Name: "Papel", Quantity: 3})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	esperarSnapshot(t, recA, func(v []entity.Item) bool { return len(v) == 1 })
	assert.Equal(t, "Papel", recA.ultimo()[0].Name)
	assert.Equal(t, id, recA.ultimo()[0].ID, "el snapshot trae el ID asignado")

	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, recB.ultimo(), "los cambios de owner-a no llegan a owner-b")
}

func TestUpdateQuantity_PropagaElCambio(t *testing.T) {
	s := New()
	id, err := s.Create(context.Background(), &entity.Item{OwnerID: "owner-a", Name: "Café", Quantity: 5})
	require.NoError(t, err)

	rec := &recolector{}
	unsub, err := s.Subscribe(context.Background(), "owner-a", rec.onSnapshot, nil)
	require.NoError(t, err)
	defer unsub()

	require.NoError(t, s.UpdateQuantity(context.Background(), id, 1))

	esperarSnapshot(t, rec, func(v []entity.Item) bool {
		return len(v) == 1 && v[0].Quantity == 1
	})
}

func TestUpdate_IdInexistente(t *testing.T) {
	s := New()
	err := s.Update(context.Background(), "fantasma", &entity.Item{Name: "X"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = s.UpdateQuantity(context.Background(), "fantasma", 3)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Update conserva owner y fecha de creación del documento previo.
func TestUpdate_ConservaOwnerYCreacion(t *testing.T) {
	s := New()
	creado := time.Now().Add(-time.Hour)
	id, err := s.Create(context.Background(), &entity.Item{OwnerID: "owner-a", Name: "Tinta", Quantity: 2, CreatedAt: creado})
	require.NoError(t, err)

	require.NoError(t, s.Update(context.Background(), id, &entity.Item{
		OwnerID: "intruso", Name: "Tinta negra", Quantity: 4,
	}))

	rec := &recolector{}
	unsub, err := s.Subscribe(context.Background(), "owner-a", rec.onSnapshot, nil)
	require.NoError(t, err)
	defer unsub()

	esperarSnapshot(t, rec, func(v []entity.Item) bool { return len(v) == 1 })
	it := rec.ultimo()[0]
	assert.Equal(t, "owner-a", it.OwnerID, "el owner del documento no se puede reasignar")
	assert.Equal(t, "Tinta negra", it.Name)
	assert.WithinDuration(t, creado, it.CreatedAt, time.Second)
}

// Borrar un id inexistente no es error.
func TestDelete_IdInexistente_NoOp(t *testing.T) {
	s := New()
	assert.NoError(t, s.Delete(context.Background(), "fantasma"))
}

// La baja de la suscripción bloquea hasta que no habrá más callbacks.
func TestUnsubscribe_SinCallbacksTardios(t *testing.T) {
	s := New()
	rec := &recolector{}

	unsub, err := s.Subscribe(context.Background(), "owner-a", rec.onSnapshot, nil)
	require.NoError(t, err)
	esperarSnapshot(t, rec, func(v []entity.Item) bool { return rec.cuenta() >= 1 })

	unsub()
	antes := rec.cuenta()

	_, err = s.Create(context.Background(), &entity.Item{OwnerID: "owner-a", Name: "Papel", Quantity: 1})
	require.NoError(t, err)

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, antes, rec.cuenta(), "tras la baja no deben llegar más snapshots")

	unsub() // idempotente
}

// Ráfaga de escrituras: el suscriptor puede perder vistas intermedias pero
// siempre converge al último estado.
func TestBroadcast_ConvergeAlUltimoEstado(t *testing.T) {
	s := New()
	id, err := s.Create(context.Background(), &entity.Item{OwnerID: "owner-a", Name: "Clips", Quantity: 0})
	require.NoError(t, err)

	rec := &recolector{}
	unsub, err := s.Subscribe(context.Background(), "owner-a", rec.onSnapshot, nil)
	require.NoError(t, err)
	defer unsub()

	for q := 1; q <= 50; q++ {
		require.NoError(t, s.UpdateQuantity(context.Background(), id, q))
	}

	esperarSnapshot(t, rec, func(v []entity.Item) bool {
		return len(v) == 1 && v[0].Quantity == 50
	})
}
