package entity

// Severidades de Notification.
const (
	SeveritySuccess = "success"
	SeverityError   = "error"
)

// Notification es el mensaje pendiente del canal de notificación.
// Hay a lo sumo uno; el siguiente Emit lo reemplaza (sin cola).
// Token cambia en cada emisión para que un consumidor distinga
// dos emisiones con el mismo message/severity.
type Notification struct {
	Message  string `json:"message"`
	Severity string `json:"severity"`
	Token    int64  `json:"token"`
}
