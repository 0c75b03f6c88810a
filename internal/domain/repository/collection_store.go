package repository

import (
	"context"

	"github.com/jhoicas/inventario-sync/internal/domain/entity"
)

// CollectionStore define el puerto hacia la colección remota de artículos
// (DIP): documentos mutables con identificador opaco, filtrables por owner y
// con notificación de cambios en vivo. Cualquier adaptador (Postgres,
// memoria, mock) debe implementar esta interfaz.
//
// Las escrituras son asíncronas respecto de la vista local: un Create/Update
// exitoso NO implica que la suscripción ya haya entregado el snapshot
// resultante; solo garantiza que llegará no antes del acuse del almacén.
type CollectionStore interface {
	// Subscribe inicia la entrega de snapshots (vistas completas de reemplazo)
	// de todos los artículos del owner. onSnapshot recibe cada vista;
	// onError las fallas del transporte. La función devuelta cancela la
	// suscripción: tras retornar, no se entregan más callbacks.
	Subscribe(ctx context.Context, ownerID string, onSnapshot func([]entity.Item), onError func(error)) (func(), error)

	// Create persiste un artículo nuevo y devuelve el ID asignado.
	Create(ctx context.Context, item *entity.Item) (string, error)

	// Update reemplaza todos los campos del artículo id. Los callers de este
	// sistema siempre envían el objeto completo; no hay merge de campos.
	Update(ctx context.Context, id string, item *entity.Item) error

	// UpdateQuantity escribe únicamente la cantidad (ajustes y fusión IA).
	UpdateQuantity(ctx context.Context, id string, quantity int) error

	// Delete elimina el artículo sin comprobaciones de dependencia.
	Delete(ctx context.Context, id string) error
}
