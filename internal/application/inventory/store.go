package inventory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/jhoicas/inventario-sync/internal/domain"
	"github.com/jhoicas/inventario-sync/internal/domain/entity"
	"github.com/jhoicas/inventario-sync/internal/domain/repository"
	"github.com/jhoicas/inventario-sync/pkg/logger"
)

// Store es el motor de reconciliación y sincronización en vivo de una sesión:
// se suscribe a la colección remota filtrada por owner, proyecta cada snapshot
// en una vista local ordenada por nombre (orden de locale) y encamina todas
// las mutaciones hacia el almacén remoto.
//
// La vista local NO se actualiza de forma optimista al escribir: solo cambia
// cuando la suscripción entrega el snapshot resultante. Un caller que observa
// éxito en una mutación no puede asumir que Snapshot() ya la refleja.
type Store struct {
	ownerID    string
	col        repository.CollectionStore
	notifier   *Notifier
	categories *Categories
	log        *logger.Logger

	mu          sync.RWMutex
	collator    *collate.Collator // se usa solo bajo mu (no es seguro concurrente)
	items       []entity.Item
	loading     bool
	closed      bool
	unsubscribe func()
	watchers    map[int]chan []entity.Item
	nextWatch   int
}

// Options parámetros de sesión del Store.
type Options struct {
	Locale     language.Tag // orden por nombre de la vista
	Categories []string     // semillas del conjunto de categorías
}

// NewStore construye el motor para un owner. Llamar Start para suscribirse.
func NewStore(ownerID string, col repository.CollectionStore, log *logger.Logger, opts Options) *Store {
	notifier := NewNotifier()
	return &Store{
		ownerID:    ownerID,
		col:        col,
		notifier:   notifier,
		categories: NewCategories(opts.Categories, notifier),
		log:        log,
		collator:   collate.New(opts.Locale, collate.IgnoreCase),
		loading:    true,
		watchers:   make(map[int]chan []entity.Item),
	}
}

// Start inicia la suscripción en vivo. Sin owner no hay suscripción: la vista
// queda vacía y loading=false. Si el transporte falla al suscribir, la vista
// queda vacía y se emite notificación de error; la operación no es fatal.
func (s *Store) Start(ctx context.Context) {
	if s.ownerID == "" {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
		return
	}

	unsub, err := s.col.Subscribe(ctx, s.ownerID, s.applySnapshot, s.onSubscribeError)
	if err != nil {
		s.onSubscribeError(err)
		return
	}

	s.mu.Lock()
	if s.closed {
		// Close ganó la carrera: cancelar de inmediato.
		s.mu.Unlock()
		unsub()
		return
	}
	s.unsubscribe = unsub
	s.mu.Unlock()
}

// Close cancela la suscripción y cierra los observadores de vista. Tras
// retornar no se aplican más snapshots. Las escrituras en vuelo no se abortan.
func (s *Store) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	unsub := s.unsubscribe
	s.unsubscribe = nil
	for id, ch := range s.watchers {
		delete(s.watchers, id)
		close(ch)
	}
	s.mu.Unlock()

	if unsub != nil {
		unsub()
	}
}

// OwnerID devuelve la identidad de sesión del Store.
func (s *Store) OwnerID() string { return s.ownerID }

// Notifier devuelve el canal de notificación de la sesión.
func (s *Store) Notifier() *Notifier { return s.notifier }

// Categories devuelve el conjunto de categorías de la sesión.
func (s *Store) Categories() *Categories { return s.categories }

// Loading indica si aún no llegó el primer snapshot. Queda en false tras el
// primero aunque los siguientes lleguen vacíos.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Snapshot devuelve una copia de solo lectura de la vista local ordenada.
func (s *Store) Snapshot() []entity.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entity.Item, len(s.items))
	copy(out, s.items)
	return out
}

// WatchView registra un observador que recibe cada nueva proyección de la
// vista. La función devuelta lo da de baja.
func (s *Store) WatchView() (<-chan []entity.Item, func()) {
	s.mu.Lock()
	id := s.nextWatch
	s.nextWatch++
	ch := make(chan []entity.Item, 4)
	s.watchers[id] = ch
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.watchers[id]; ok {
			delete(s.watchers, id)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

// applySnapshot proyecta un snapshot remoto: reordena por nombre con el
// collator de la sesión y reemplaza la vista completa.
func (s *Store) applySnapshot(items []entity.Item) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	sort.SliceStable(items, func(i, j int) bool {
		return s.collator.CompareString(items[i].Name, items[j].Name) < 0
	})
	s.items = items
	s.loading = false
	watchers := make([]chan []entity.Item, 0, len(s.watchers))
	for _, ch := range s.watchers {
		watchers = append(watchers, ch)
	}
	s.mu.Unlock()

	for _, ch := range watchers {
		view := make([]entity.Item, len(items))
		copy(view, items)
		select {
		case ch <- view:
		default: // observador lento: pierde proyecciones intermedias
		}
	}
}

// onSubscribeError degrada a vista vacía + notificación de error.
func (s *Store) onSubscribeError(err error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.items = nil
	s.loading = false
	s.mu.Unlock()

	s.log.Error().Err(err).Str("owner", s.ownerID).Msg("suscripción de inventario falló")
	s.notifier.Error("no se pudo sincronizar el inventario")
}

// ── Mutaciones ────────────────────────────────────────────────────────────────

// CreateItem crea un artículo nuevo estampado con el owner de la sesión.
// El alta manual nunca admite cantidades ni umbrales negativos.
func (s *Store) CreateItem(ctx context.Context, in entity.Item) error {
	name := strings.TrimSpace(in.Name)
	if name == "" || in.Quantity < 0 || in.MinStock < 0 {
		s.notifier.Error("datos del artículo inválidos")
		return domain.ErrInvalidInput
	}

	now := time.Now()
	item := entity.Item{
		OwnerID:   s.ownerID,
		Name:      name,
		Category:  in.Category,
		Quantity:  in.Quantity,
		Unit:      in.Unit,
		MinStock:  in.MinStock,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := s.col.Create(ctx, &item); err != nil {
		s.log.Error().Err(err).Str("owner", s.ownerID).Msg("crear artículo falló")
		s.notifier.Error(fmt.Sprintf("no se pudo guardar %s", name))
		return fmt.Errorf("%w: crear %s: %v", domain.ErrTransport, name, err)
	}
	s.notifier.Success(fmt.Sprintf("%s agregado al inventario", name))
	return nil
}

// UpdateItem reemplaza por completo los campos del artículo id. No re-valida
// invariantes más allá de lo que el caller envía (los callers de este sistema
// siempre mandan el objeto completo ya validado).
func (s *Store) UpdateItem(ctx context.Context, id string, in entity.Item) error {
	in.OwnerID = s.ownerID
	in.UpdatedAt = time.Now()
	if err := s.col.Update(ctx, id, &in); err != nil {
		s.log.Error().Err(err).Str("item", id).Msg("actualizar artículo falló")
		s.notifier.Error(fmt.Sprintf("no se pudo actualizar %s", in.Name))
		return fmt.Errorf("%w: actualizar %s: %v", domain.ErrTransport, id, err)
	}
	s.notifier.Success(fmt.Sprintf("%s actualizado", in.Name))
	return nil
}

// DeleteItem elimina el artículo sin borrado suave ni chequeos de dependencia.
func (s *Store) DeleteItem(ctx context.Context, id string) error {
	if err := s.col.Delete(ctx, id); err != nil {
		s.log.Error().Err(err).Str("item", id).Msg("eliminar artículo falló")
		s.notifier.Error("no se pudo eliminar el artículo")
		return fmt.Errorf("%w: eliminar %s: %v", domain.ErrTransport, id, err)
	}
	s.notifier.Success("artículo eliminado")
	return nil
}

// AdjustStock aplica un delta firmado sobre la cantidad, acotada en 0:
// newQuantity = max(0, quantity+delta). El artículo se busca en la vista
// local actual, no con una lectura fresca; si el id ya no está (carrera con
// un delete concurrente) la operación es un no-op aceptado, no un error.
func (s *Store) AdjustStock(ctx context.Context, id string, delta int) error {
	s.mu.RLock()
	var found *entity.Item
	for i := range s.items {
		if s.items[i].ID == id {
			found = &s.items[i]
			break
		}
	}
	var current int
	if found != nil {
		current = found.Quantity
	}
	s.mu.RUnlock()

	if found == nil {
		return nil
	}

	newQuantity := current + delta
	if newQuantity < 0 {
		newQuantity = 0
	}
	if err := s.col.UpdateQuantity(ctx, id, newQuantity); err != nil {
		s.log.Error().Err(err).Str("item", id).Int("delta", delta).Msg("ajuste de stock falló")
		s.notifier.Error("no se pudo ajustar el stock")
		return fmt.Errorf("%w: ajustar %s: %v", domain.ErrTransport, id, err)
	}
	return nil
}

// ── Fusión IA ─────────────────────────────────────────────────────────────────

// MergeResult resultado de fusionar un candidato.
type MergeResult struct {
	Name    string
	Created bool // true = se creó artículo nuevo; false = se fusionó con uno existente
	Err     error
}

// MergeCandidates procesa un lote de candidatos de extracción en orden,
// de forma secuencial e independiente: la falla de uno no bloquea ni revierte
// a los siguientes. La búsqueda por nombre usa el snapshot de la vista tomado
// al inicio del lote; como la vista puede no reflejar aún escrituras del
// propio lote, dos candidatos con el mismo nombre normalizado pueden competir
// contra una cantidad obsoleta. Limitación conocida y documentada.
func (s *Store) MergeCandidates(ctx context.Context, candidates []entity.Candidate) []MergeResult {
	view := s.Snapshot()
	results := make([]MergeResult, 0, len(candidates))
	for _, c := range candidates {
		results = append(results, s.mergeOne(ctx, c, view))
	}
	return results
}

// mergeOne aplica un candidato contra la vista dada. La coincidencia es
// exacta tras normalizar (mayúsculas y espacios extremos); sin distancia de
// edición ni fuzzy real.
func (s *Store) mergeOne(ctx context.Context, c entity.Candidate, view []entity.Item) MergeResult {
	name := strings.TrimSpace(c.Name)
	if name == "" {
		s.notifier.Error("candidato sin nombre descartado")
		return MergeResult{Err: domain.ErrInvalidInput}
	}

	var existing *entity.Item
	for i := range view {
		if strings.EqualFold(strings.TrimSpace(view[i].Name), name) {
			existing = &view[i]
			break
		}
	}

	if existing != nil {
		newQuantity := existing.Quantity + c.Quantity
		if newQuantity < 0 {
			// El stock nunca queda negativo; se verifica antes de cualquier
			// escritura y el artículo queda intacto.
			s.notifier.Error(fmt.Sprintf("stock insuficiente: %s tiene %d", existing.Name, existing.Quantity))
			return MergeResult{Name: existing.Name, Err: domain.ErrInsufficientStock}
		}
		if err := s.col.UpdateQuantity(ctx, existing.ID, newQuantity); err != nil {
			s.log.Error().Err(err).Str("item", existing.ID).Msg("fusión IA falló")
			s.notifier.Error(fmt.Sprintf("no se pudo actualizar %s", existing.Name))
			return MergeResult{Name: existing.Name, Err: fmt.Errorf("%w: fusionar %s: %v", domain.ErrTransport, existing.ID, err)}
		}
		unit := c.Unit
		if unit == "" {
			unit = existing.Unit
		}
		if c.Quantity >= 0 {
			s.notifier.Success(fmt.Sprintf("%d %s añadidos a %s", c.Quantity, unit, existing.Name))
		} else {
			s.notifier.Success(fmt.Sprintf("%d %s retirados de %s", -c.Quantity, unit, existing.Name))
		}
		return MergeResult{Name: existing.Name}
	}

	// Sin coincidencia: alta nueva con la cantidad tal cual, incluso negativa.
	// Asimetría heredada del flujo de fusión (el alta manual sí la rechaza);
	// se conserva deliberadamente a la espera de definición de producto.
	now := time.Now()
	item := entity.Item{
		OwnerID:   s.ownerID,
		Name:      name,
		Category:  c.Category,
		Quantity:  c.Quantity,
		Unit:      c.Unit,
		MinStock:  c.MinStock,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := s.col.Create(ctx, &item); err != nil {
		s.log.Error().Err(err).Str("owner", s.ownerID).Msg("alta por fusión IA falló")
		s.notifier.Error(fmt.Sprintf("no se pudo guardar %s", name))
		return MergeResult{Name: name, Err: fmt.Errorf("%w: crear %s: %v", domain.ErrTransport, name, err)}
	}
	s.notifier.Success(fmt.Sprintf("%s agregado al inventario", name))
	return MergeResult{Name: name, Created: true}
}
