package http

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-sync/internal/application/dto"
	"github.com/jhoicas/inventario-sync/internal/application/inventory"
	"github.com/jhoicas/inventario-sync/internal/domain/entity"
)

// streamFrame mensaje hacia el cliente del stream en vivo.
type streamFrame struct {
	Type         string               `json:"type"` // snapshot | notification
	Loading      bool                 `json:"loading,omitempty"`
	Items        []dto.ItemResponse   `json:"items,omitempty"`
	Notification *entity.Notification `json:"notification,omitempty"`
}

// StreamUpgrade exige el handshake websocket antes de entrar al handler.
func StreamUpgrade() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}
}

// NewStreamHandler empuja al cliente cada proyección de la vista y cada
// emisión del canal de notificación de su sesión. El primer frame es el
// estado actual; después solo cambios. Cerrar el socket da de baja a los
// observadores, nunca a la suscripción remota del Store.
func NewStreamHandler(stores *inventory.Manager) fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		ownerID, _ := conn.Locals(LocalOwnerID).(string)
		st := stores.Get(ownerID)

		viewCh, cancelView := st.WatchView()
		defer cancelView()
		noteCh, cancelNote := st.Notifier().Watch()
		defer cancelNote()

		// Lector solo para detectar el cierre del cliente.
		closed := make(chan struct{})
		go func() {
			defer close(closed)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		initial := streamFrame{
			Type:    "snapshot",
			Loading: st.Loading(),
			Items:   dto.ToItemResponses(st.Snapshot()),
		}
		if err := conn.WriteJSON(initial); err != nil {
			return
		}

		for {
			select {
			case items, ok := <-viewCh:
				if !ok {
					return
				}
				frame := streamFrame{Type: "snapshot", Items: dto.ToItemResponses(items)}
				if err := conn.WriteJSON(frame); err != nil {
					return
				}
			case note, ok := <-noteCh:
				if !ok {
					return
				}
				frame := streamFrame{Type: "notification", Notification: &note}
				if err := conn.WriteJSON(frame); err != nil {
					return
				}
			case <-closed:
				return
			}
		}
	})
}
