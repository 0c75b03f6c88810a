package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/jhoicas/inventario-sync/internal/application/inventory"
	"github.com/jhoicas/inventario-sync/internal/application/usecase"
	"github.com/jhoicas/inventario-sync/internal/domain"
	"github.com/jhoicas/inventario-sync/internal/domain/entity"
	"github.com/jhoicas/inventario-sync/internal/infrastructure/memstore"
	"github.com/jhoicas/inventario-sync/pkg/logger"
)

// extractorFalso implementa ports.ExtractorService con respuesta fija.
type extractorFalso struct {
	candidatos []entity.Candidate
	err        error
	ultimoTxt  string
}

func (e *extractorFalso) ExtractItems(ctx context.Context, text string) ([]entity.Candidate, error) {
	e.ultimoTxt = text
	if e.err != nil {
		return nil, e.err
	}
	return e.candidatos, nil
}

func nuevoEntorno(t *testing.T, extractor *extractorFalso) (*usecase.IngestUseCase, *inventory.Manager, *memstore.CollectionStore) {
	t.Helper()
	col := memstore.New()
	mgr := inventory.NewManager(context.Background(), func(ownerID string) *inventory.Store {
		return inventory.NewStore(ownerID, col, logger.Nop(), inventory.Options{Locale: language.Spanish})
	})
	t.Cleanup(mgr.CloseAll)
	return usecase.NewIngestUseCase(extractor, mgr), mgr, col
}

func esperarSincronizado(t *testing.T, st *inventory.Store, n int) {
	t.Helper()
	require.Eventually(t, func() bool {
		return !st.Loading() && len(st.Snapshot()) == n
	}, 2*time.Second, 5*time.Millisecond)
}

func TestIngestText_TextoVacio(t *testing.T) {
	uc, _, _ := nuevoEntorno(t, &extractorFalso{})

	_, err := uc.IngestText(context.Background(), "owner-x", "   ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Falla de extracción: error envuelto, notificación en la sesión y cero
// artículos creados (nunca parcial).
func TestIngestText_FallaDeExtraccion(t *testing.T) {
	uc, mgr, _ := nuevoEntorno(t, &extractorFalso{err: errors.New("respuesta inválida del modelo")})

	st := mgr.Get("owner-x")
	esperarSincronizado(t, st, 0)

	results, err := uc.IngestText(context.Background(), "owner-x", "compré tres resmas")
	assert.ErrorIs(t, err, domain.ErrExtraction)
	assert.Nil(t, results)

	note, ok := st.Notifier().Pending()
	require.True(t, ok)
	assert.Equal(t, entity.SeverityError, note.Severity)

	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, st.Snapshot(), "una extracción fallida no produce artículos")
}

func TestIngestText_FusionaCandidatosEnOrden(t *testing.T) {
	ext := &extractorFalso{candidatos: []entity.Candidate{
		{Name: "Resma A4", Category: "Papelería", Quantity: 3, Unit: "Resma", MinStock: 1},
		{Name: "Café", Category: "Cafetería", Quantity: 2, Unit: "Kg", MinStock: 1},
	}}
	uc, mgr, _ := nuevoEntorno(t, ext)

	st := mgr.Get("owner-x")
	esperarSincronizado(t, st, 0)

	results, err := uc.IngestText(context.Background(), "owner-x", "compré 3 resmas A4 y 2 kg de café")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "Resma A4", results[0].Name)
	assert.True(t, results[0].Created)
	assert.Equal(t, "Café", results[1].Name)
	assert.True(t, results[1].Created)

	vista := make([]entity.Item, 0)
	require.Eventually(t, func() bool {
		vista = st.Snapshot()
		return len(vista) == 2
	}, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, "Café", vista[0].Name, "la vista queda ordenada por nombre")
	assert.Equal(t, "Resma A4", vista[1].Name)
}

// Cero candidatos es un resultado válido: lote vacío, sin error.
func TestIngestText_LoteVacio(t *testing.T) {
	uc, mgr, _ := nuevoEntorno(t, &extractorFalso{candidatos: nil})

	st := mgr.Get("owner-x")
	esperarSincronizado(t, st, 0)

	results, err := uc.IngestText(context.Background(), "owner-x", "hola, ¿cómo va todo?")
	require.NoError(t, err)
	assert.Empty(t, results)
}

// Un candidato con delta negativo se fusiona contra el inventario existente.
func TestIngestText_ConsumoContraExistente(t *testing.T) {
	ext := &extractorFalso{candidatos: []entity.Candidate{
		{Name: "resma a4", Quantity: -2},
	}}
	uc, mgr, _ := nuevoEntorno(t, ext)

	st := mgr.Get("owner-x")
	esperarSincronizado(t, st, 0)
	require.NoError(t, st.CreateItem(context.Background(), entity.Item{
		Name: "Resma A4", Quantity: 5, Unit: "Resma", MinStock: 1,
	}))
	esperarSincronizado(t, st, 1)

	results, err := uc.IngestText(context.Background(), "owner-x", "usamos dos resmas")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.False(t, results[0].Created, "coincide por nombre normalizado: fusiona")

	require.Eventually(t, func() bool {
		v := st.Snapshot()
		return len(v) == 1 && v[0].Quantity == 3
	}, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, "usamos dos resmas", ext.ultimoTxt, "el texto llega al extractor sin alterar")
}
