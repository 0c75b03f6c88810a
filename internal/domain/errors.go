package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// Toda falla se captura en el borde de la operación y se convierte en una
// notificación visible; ninguna es fatal para el proceso.
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrTransport          = errors.New("fallo del almacén remoto")
	ErrExtraction         = errors.New("texto no interpretable")
)
