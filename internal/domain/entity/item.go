package entity

import "time"

// Item representa un artículo del inventario de oficina.
// Quantity es un conteo entero; el valor persistido nunca es negativo.
// La unicidad del nombre es blanda: solo se aplica en la fusión por IA
// (igualdad tras normalizar mayúsculas y espacios), no en la creación.
type Item struct {
	ID        string // asignado por el almacén remoto al crear; estable de por vida
	OwnerID   string // identidad de la sesión dueña; todo acceso se filtra por él
	Name      string
	Category  string // etiqueta libre; puede quedar obsoleta si se borra la categoría
	Quantity  int
	Unit      string // "Pcs", "Caja", "Resma"...
	MinStock  int    // umbral de stock bajo
	CreatedAt time.Time
	UpdatedAt time.Time
}

// LowStock indica si el artículo está en stock bajo (quantity <= minStock).
func (i Item) LowStock() bool {
	return i.Quantity <= i.MinStock
}
