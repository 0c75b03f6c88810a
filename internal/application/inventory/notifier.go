package inventory

import (
	"sync"

	"github.com/jhoicas/inventario-sync/internal/domain/entity"
)

// Notifier es el canal de notificación de una sesión: un único slot
// pendiente, sin cola ni historial. Cada Emit reemplaza el mensaje anterior
// y asigna un token monótono, de modo que dos emisiones con el mismo
// contenido siguen siendo distinguibles por un consumidor que observe el token.
type Notifier struct {
	mu       sync.Mutex
	pending  *entity.Notification
	token    int64
	watchers map[int]chan entity.Notification
	nextID   int
}

// NewNotifier construye el canal vacío.
func NewNotifier() *Notifier {
	return &Notifier{watchers: make(map[int]chan entity.Notification)}
}

// Emit publica message/severity reemplazando cualquier pendiente y devuelve
// la notificación con su token fresco.
func (n *Notifier) Emit(message, severity string) entity.Notification {
	n.mu.Lock()
	n.token++
	note := entity.Notification{Message: message, Severity: severity, Token: n.token}
	n.pending = &note
	watchers := make([]chan entity.Notification, 0, len(n.watchers))
	for _, ch := range n.watchers {
		watchers = append(watchers, ch)
	}
	n.mu.Unlock()

	// Entrega no bloqueante: un watcher lento pierde emisiones intermedias,
	// igual que el slot único.
	for _, ch := range watchers {
		select {
		case ch <- note:
		default:
		}
	}
	return note
}

// Success emite con severidad success.
func (n *Notifier) Success(message string) entity.Notification {
	return n.Emit(message, entity.SeveritySuccess)
}

// Error emite con severidad error.
func (n *Notifier) Error(message string) entity.Notification {
	return n.Emit(message, entity.SeverityError)
}

// Pending devuelve la notificación pendiente, si la hay.
func (n *Notifier) Pending() (entity.Notification, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.pending == nil {
		return entity.Notification{}, false
	}
	return *n.pending, true
}

// Clear vacía el slot. No reinicia el token.
func (n *Notifier) Clear() {
	n.mu.Lock()
	n.pending = nil
	n.mu.Unlock()
}

// Watch registra un observador que recibe cada emisión futura. La función
// devuelta lo da de baja y cierra el canal.
func (n *Notifier) Watch() (<-chan entity.Notification, func()) {
	n.mu.Lock()
	id := n.nextID
	n.nextID++
	ch := make(chan entity.Notification, 8)
	n.watchers[id] = ch
	n.mu.Unlock()

	cancel := func() {
		n.mu.Lock()
		if _, ok := n.watchers[id]; ok {
			delete(n.watchers, id)
			close(ch)
		}
		n.mu.Unlock()
	}
	return ch, cancel
}
