package metadata

import "sync"

// Registry holds the entity configurations, keyed by url slug. Loaded once at
// startup; reads are concurrent across requests.
type Registry struct {
	mu       sync.RWMutex
	entities map[string]*Entity
	order    []string
}

func NewRegistry() *Registry {
	return &Registry{entities: make(map[string]*Entity)}
}

// GetEntity returns the entity with the given slug, or nil.
func (r *Registry) GetEntity(name string) *Entity {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.entities[name]
}

// AllEntities returns all registered entities in registration order. Used by
// the navigation shell.
func (r *Registry) AllEntities() []*Entity {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entities := make([]*Entity, 0, len(r.order))
	for _, name := range r.order {
		entities = append(entities, r.entities[name])
	}
	return entities
}

// Load replaces all entities in the registry after checking each
// configuration's invariants.
func (r *Registry) Load(entities []*Entity) error {
	for _, e := range entities {
		if err := e.Check(); err != nil {
			return err
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.entities = make(map[string]*Entity, len(entities))
	r.order = make([]string, 0, len(entities))
	for _, e := range entities {
		r.entities[e.Name] = e
		r.order = append(r.order, e.Name)
	}
	return nil
}
