package inventory

import (
	"fmt"
	"sync"
)

// Categories es el conjunto ordenado de categorías de la sesión. No se
// persiste en el almacén remoto; nace con las semillas de configuración y
// vive lo que viva el Store. Borrar una categoría no toca los artículos que
// ya la llevan: conservan la etiqueta obsoleta hasta que se editen.
type Categories struct {
	notifier *Notifier

	mu     sync.Mutex
	labels []string
}

// NewCategories construye el conjunto con las semillas dadas, en orden.
func NewCategories(seed []string, notifier *Notifier) *Categories {
	labels := make([]string, len(seed))
	copy(labels, seed)
	return &Categories{notifier: notifier, labels: labels}
}

// List devuelve una copia del conjunto en orden.
func (c *Categories) List() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.labels))
	copy(out, c.labels)
	return out
}

// Add agrega la etiqueta al final si no está presente (igualdad exacta de
// string). El duplicado es un no-op sin notificación; el alta real notifica
// éxito. Devuelve si hubo cambio.
func (c *Categories) Add(label string) bool {
	c.mu.Lock()
	for _, l := range c.labels {
		if l == label {
			c.mu.Unlock()
			return false
		}
	}
	c.labels = append(c.labels, label)
	c.mu.Unlock()

	c.notifier.Success(fmt.Sprintf("categoría %q agregada", label))
	return true
}

// Remove quita la etiqueta si está presente. Notifica siempre, incluso cuando
// no estaba: simplificación de UX observada y aceptada, no un defecto.
// Devuelve si hubo cambio.
func (c *Categories) Remove(label string) bool {
	c.mu.Lock()
	removed := false
	for i, l := range c.labels {
		if l == label {
			c.labels = append(c.labels[:i], c.labels[i+1:]...)
			removed = true
			break
		}
	}
	c.mu.Unlock()

	c.notifier.Success(fmt.Sprintf("categoría %q eliminada", label))
	return removed
}
