package entity

import "time"

// User representa un usuario del sistema. Su ID es la identidad de sesión
// (owner) bajo la cual se suscriben y mutan los artículos.
type User struct {
	ID           string
	Email        string
	PasswordHash string // hash bcrypt, nunca en claro después de persistir
	Name         string
	CreatedAt    time.Time
}
