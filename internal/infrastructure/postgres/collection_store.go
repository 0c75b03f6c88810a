package postgres

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/inventario-sync/internal/domain"
	"github.com/jhoicas/inventario-sync/internal/domain/entity"
	"github.com/jhoicas/inventario-sync/internal/domain/repository"
	"github.com/jhoicas/inventario-sync/pkg/logger"
)

var _ repository.CollectionStore = (*CollectionStore)(nil)

// itemsChannel canal de pg_notify; el payload es el owner_id afectado.
const itemsChannel = "inventory_items"

// CollectionStore implementación del puerto CollectionStore sobre PostgreSQL.
// Cada escritura confirmada emite pg_notify con el owner afectado; cada
// suscripción mantiene una conexión dedicada en LISTEN y re-consulta el
// snapshot completo del owner ante cada aviso. Última escritura gana; no hay
// resolución de conflictos adicional.
type CollectionStore struct {
	pool *pgxpool.Pool
	log  *logger.Logger
}

// NewCollectionStore construye el adaptador.
func NewCollectionStore(pool *pgxpool.Pool, log *logger.Logger) *CollectionStore {
	return &CollectionStore{pool: pool, log: log}
}

// Subscribe adquiere una conexión dedicada, entra en LISTEN y entrega el
// snapshot inicial seguido de uno por cada cambio del owner. La función
// devuelta cancela y espera al goroutine: tras retornar no hay más callbacks.
func (s *CollectionStore) Subscribe(ctx context.Context, ownerID string, onSnapshot func([]entity.Item), onError func(error)) (func(), error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: adquirir conexión LISTEN: %v", domain.ErrTransport, err)
	}
	if _, err := conn.Exec(ctx, "LISTEN "+itemsChannel); err != nil {
		conn.Release()
		return nil, fmt.Errorf("%w: LISTEN %s: %v", domain.ErrTransport, itemsChannel, err)
	}

	listenCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	go func() {
		defer close(done)
		defer conn.Release()

		items, err := s.queryOwner(listenCtx, ownerID)
		if err != nil {
			if listenCtx.Err() == nil {
				onError(err)
			}
			return
		}
		onSnapshot(items)

		for {
			n, err := conn.Conn().WaitForNotification(listenCtx)
			if err != nil {
				if listenCtx.Err() != nil {
					return // unsubscribe o shutdown
				}
				onError(fmt.Errorf("%w: esperar notificación: %v", domain.ErrTransport, err))
				return
			}
			if n.Payload != ownerID {
				continue
			}
			items, err := s.queryOwner(listenCtx, ownerID)
			if err != nil {
				if listenCtx.Err() != nil {
					return
				}
				onError(err)
				continue
			}
			onSnapshot(items)
		}
	}()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			cancel()
			<-done
		})
	}
	return unsubscribe, nil
}

// queryOwner lee el snapshot completo del owner. El orden fino (locale) lo
// aplica el Store al proyectar; aquí solo se estabiliza la lectura.
func (s *CollectionStore) queryOwner(ctx context.Context, ownerID string) ([]entity.Item, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, owner_id, name, category, quantity, unit, min_stock, created_at, updated_at
		FROM items WHERE owner_id = $1 ORDER BY name`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%w: leer snapshot: %v", domain.ErrTransport, err)
	}
	defer rows.Close()

	var items []entity.Item
	for rows.Next() {
		var it entity.Item
		if err := rows.Scan(&it.ID, &it.OwnerID, &it.Name, &it.Category, &it.Quantity, &it.Unit, &it.MinStock, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%w: scan item: %v", domain.ErrTransport, err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterar snapshot: %v", domain.ErrTransport, err)
	}
	return items, nil
}

// notify difunde el cambio del owner a todos los suscriptores.
func (s *CollectionStore) notify(ctx context.Context, ownerID string) {
	if _, err := s.pool.Exec(ctx, "SELECT pg_notify($1, $2)", itemsChannel, ownerID); err != nil {
		// La escritura ya confirmó; perder el aviso solo retrasa la vista
		// hasta el siguiente cambio.
		s.log.Warn().Err(err).Str("owner", ownerID).Msg("pg_notify falló")
	}
}

// Create persiste un artículo nuevo y devuelve el ID asignado.
func (s *CollectionStore) Create(ctx context.Context, item *entity.Item) (string, error) {
	id := uuid.New().String()
	_, err := s.pool.Exec(ctx, `
		INSERT INTO items (id, owner_id, name, category, quantity, unit, min_stock, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		id, item.OwnerID, item.Name, item.Category, item.Quantity, item.Unit, item.MinStock, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		return "", fmt.Errorf("insert item: %w", err)
	}
	s.notify(ctx, item.OwnerID)
	return id, nil
}

// Update reemplaza todos los campos del artículo id.
func (s *CollectionStore) Update(ctx context.Context, id string, item *entity.Item) error {
	var ownerID string
	err := s.pool.QueryRow(ctx, `
		UPDATE items SET name = $2, category = $3, quantity = $4, unit = $5, min_stock = $6, updated_at = $7
		WHERE id = $1 RETURNING owner_id`,
		id, item.Name, item.Category, item.Quantity, item.Unit, item.MinStock, item.UpdatedAt,
	).Scan(&ownerID)
	if err != nil {
		if isNoRows(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("update item: %w", err)
	}
	s.notify(ctx, ownerID)
	return nil
}

// UpdateQuantity escribe únicamente la cantidad.
func (s *CollectionStore) UpdateQuantity(ctx context.Context, id string, quantity int) error {
	var ownerID string
	err := s.pool.QueryRow(ctx, `
		UPDATE items SET quantity = $2, updated_at = now()
		WHERE id = $1 RETURNING owner_id`,
		id, quantity,
	).Scan(&ownerID)
	if err != nil {
		if isNoRows(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("update quantity: %w", err)
	}
	s.notify(ctx, ownerID)
	return nil
}

// Delete elimina el artículo. Borrar un id inexistente no es error.
func (s *CollectionStore) Delete(ctx context.Context, id string) error {
	var ownerID string
	err := s.pool.QueryRow(ctx, `DELETE FROM items WHERE id = $1 RETURNING owner_id`, id).Scan(&ownerID)
	if err != nil {
		if isNoRows(err) {
			return nil
		}
		return fmt.Errorf("delete item: %w", err)
	}
	s.notify(ctx, ownerID)
	return nil
}
