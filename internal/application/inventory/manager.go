package inventory

import (
	"context"
	"sync"
)

// Manager mantiene un Store por identidad de sesión. El Store se construye y
// suscribe perezosamente al primer acceso autenticado; CloseAll cancela todas
// las suscripciones al apagar el servidor.
type Manager struct {
	ctx     context.Context
	factory func(ownerID string) *Store

	mu     sync.Mutex
	stores map[string]*Store
	closed bool
}

// NewManager construye el registro. ctx acota la vida de las suscripciones.
func NewManager(ctx context.Context, factory func(ownerID string) *Store) *Manager {
	return &Manager{
		ctx:     ctx,
		factory: factory,
		stores:  make(map[string]*Store),
	}
}

// Get devuelve el Store del owner, creándolo y suscribiéndolo si no existe.
func (m *Manager) Get(ownerID string) *Store {
	m.mu.Lock()
	defer m.mu.Unlock()
	if st, ok := m.stores[ownerID]; ok {
		return st
	}
	st := m.factory(ownerID)
	if m.closed {
		// Apagando: entregar un store cerrado en vez de abrir suscripciones nuevas.
		st.Close()
		return st
	}
	st.Start(m.ctx)
	m.stores[ownerID] = st
	return st
}

// CloseAll cierra todos los stores registrados. Idempotente.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	stores := make([]*Store, 0, len(m.stores))
	for _, st := range m.stores {
		stores = append(stores, st)
	}
	m.stores = make(map[string]*Store)
	m.mu.Unlock()

	for _, st := range stores {
		st.Close()
	}
}
