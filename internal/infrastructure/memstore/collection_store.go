// Package memstore implementa los puertos de persistencia en memoria, con la
// misma semántica de snapshots en vivo que el backend Postgres: cada escritura
// confirmada dispara la entrega asíncrona de una vista completa a los
// suscriptores del owner afectado. Sirve al driver "memory" y a los tests.
package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/inventario-sync/internal/domain"
	"github.com/jhoicas/inventario-sync/internal/domain/entity"
	"github.com/jhoicas/inventario-sync/internal/domain/repository"
)

var _ repository.CollectionStore = (*CollectionStore)(nil)

// CollectionStore colección de artículos en memoria con notificación de
// cambios. Los snapshots se entregan en un goroutine por suscripción, nunca
// dentro de la llamada de escritura: igual que con un almacén remoto real,
// una escritura exitosa no implica que la vista ya la refleje.
type CollectionStore struct {
	mu      sync.Mutex
	items   map[string]entity.Item
	subs    map[int]*subscription
	nextSub int
}

type subscription struct {
	ownerID string
	updates chan []entity.Item
	done    chan struct{}
	stopped chan struct{} // cerrado cuando el goroutine de entrega terminó
}

// New construye la colección vacía.
func New() *CollectionStore {
	return &CollectionStore{
		items: make(map[string]entity.Item),
		subs:  make(map[int]*subscription),
	}
}

// Subscribe registra la suscripción y entrega el snapshot inicial de forma
// asíncrona. La función devuelta bloquea hasta que no habrá más callbacks.
func (s *CollectionStore) Subscribe(ctx context.Context, ownerID string, onSnapshot func([]entity.Item), onError func(error)) (func(), error) {
	sub := &subscription{
		ownerID: ownerID,
		updates: make(chan []entity.Item, 1),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}

	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = sub
	initial := s.snapshotLocked(ownerID)
	s.mu.Unlock()

	sub.updates <- initial

	go func() {
		defer close(sub.stopped)
		for {
			select {
			case view := <-sub.updates:
				onSnapshot(view)
			case <-sub.done:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
			close(sub.done)
			<-sub.stopped
		})
	}
	return unsubscribe, nil
}

// Create asigna un ID nuevo, persiste una copia y difunde el cambio.
func (s *CollectionStore) Create(ctx context.Context, item *entity.Item) (string, error) {
	id := uuid.New().String()

	s.mu.Lock()
	stored := *item
	stored.ID = id
	s.items[id] = stored
	s.broadcastLocked(stored.OwnerID)
	s.mu.Unlock()

	return id, nil
}

// Update reemplaza todos los campos del documento id.
func (s *CollectionStore) Update(ctx context.Context, id string, item *entity.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, ok := s.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	stored := *item
	stored.ID = id
	stored.OwnerID = prev.OwnerID
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = prev.CreatedAt
	}
	s.items[id] = stored
	s.broadcastLocked(stored.OwnerID)
	return nil
}

// UpdateQuantity escribe únicamente la cantidad.
func (s *CollectionStore) UpdateQuantity(ctx context.Context, id string, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	stored.Quantity = quantity
	stored.UpdatedAt = time.Now()
	s.items[id] = stored
	s.broadcastLocked(stored.OwnerID)
	return nil
}

// Delete elimina el documento. Borrar un id inexistente no es error, como en
// los almacenes de documentos remotos.
func (s *CollectionStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.items[id]
	if !ok {
		return nil
	}
	delete(s.items, id)
	s.broadcastLocked(stored.OwnerID)
	return nil
}

// snapshotLocked copia los artículos del owner. Llamar con mu tomado.
func (s *CollectionStore) snapshotLocked(ownerID string) []entity.Item {
	out := make([]entity.Item, 0, len(s.items))
	for _, it := range s.items {
		if it.OwnerID == ownerID {
			out = append(out, it)
		}
	}
	return out
}

// broadcastLocked encola el snapshot fresco para cada suscriptor del owner.
// El canal guarda solo la vista más reciente: si hay una pendiente sin
// consumir se descarta, el suscriptor siempre converge al último estado.
func (s *CollectionStore) broadcastLocked(ownerID string) {
	for _, sub := range s.subs {
		if sub.ownerID != ownerID {
			continue
		}
		view := s.snapshotLocked(ownerID)
		select {
		case sub.updates <- view:
		default:
			select {
			case <-sub.updates:
			default:
			}
			sub.updates <- view
		}
	}
}
