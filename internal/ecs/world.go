package ecs

import "sort"

// World is the central entity registry and component store.
//
// Entities may optionally carry a string key (level entities use
// "<type>-<row>-<col>") so that game state can refer to them by a stable
// name across the frame loop, the store and the snapshot feed.
type World struct {
	nextID     EntityID
	alive      map[EntityID]bool
	keys       map[string]EntityID
	names      map[EntityID]string
	components map[ComponentType]map[EntityID]Component
}

// NewWorld creates an empty World.
func NewWorld() *World {
	return &World{
		nextID:     1,
		alive:      make(map[EntityID]bool),
		keys:       make(map[string]EntityID),
		names:      make(map[EntityID]string),
		components: make(map[ComponentType]map[EntityID]Component),
	}
}

// CreateEntity mints a new entity ID and marks it alive.
func (w *World) CreateEntity() EntityID {
	id := w.nextID
	w.nextID++
	w.alive[id] = true
	return id
}

// CreateKeyed mints a new entity registered under key. A key that is already
// bound to a live entity returns that entity and false.
func (w *World) CreateKeyed(key string) (EntityID, bool) {
	if id, ok := w.keys[key]; ok && w.alive[id] {
		return id, false
	}
	id := w.CreateEntity()
	w.keys[key] = id
	w.names[id] = key
	return id, true
}

// Lookup returns the live entity registered under key.
func (w *World) Lookup(key string) (EntityID, bool) {
	id, ok := w.keys[key]
	if !ok || !w.alive[id] {
		return NilEntity, false
	}
	return id, true
}

// Key returns the key an entity was created with, or "".
func (w *World) Key(id EntityID) string {
	return w.names[id]
}

// DestroyEntity marks the entity dead and removes all its components.
func (w *World) DestroyEntity(id EntityID) {
	if !w.alive[id] {
		return
	}
	w.alive[id] = false
	for t := range w.components {
		w.Remove(id, t)
	}
	if key, ok := w.names[id]; ok {
		delete(w.keys, key)
		delete(w.names, id)
	}
}

// Alive reports whether the entity is alive.
func (w *World) Alive(id EntityID) bool {
	return w.alive[id]
}

// Add attaches a component to an entity, replacing any previous one of the
// same type.
func (w *World) Add(id EntityID, c Component) {
	t := c.Type()
	if w.components[t] == nil {
		w.components[t] = make(map[EntityID]Component)
	}
	w.components[t][id] = c
}

// Get returns the component of the given type for entity id, or nil.
func (w *World) Get(id EntityID, t ComponentType) Component {
	store := w.components[t]
	if store == nil {
		return nil
	}
	return store[id]
}

// Remove detaches a component from an entity.
func (w *World) Remove(id EntityID, t ComponentType) {
	if store := w.components[t]; store != nil {
		delete(store, id)
	}
}

// Has reports whether entity id has a component of the given type.
func (w *World) Has(id EntityID, t ComponentType) bool {
	return w.Get(id, t) != nil
}

// Query returns all alive entities that have every listed component type,
// in creation order.
func (w *World) Query(types ...ComponentType) []EntityID {
	if len(types) == 0 {
		return nil
	}
	// Use the smallest store as the candidate set.
	smallest := types[0]
	for _, t := range types[1:] {
		if len(w.components[t]) < len(w.components[smallest]) {
			smallest = t
		}
	}
	store := w.components[smallest]
	if store == nil {
		return nil
	}
	var result []EntityID
	for id := range store {
		if !w.alive[id] {
			continue
		}
		match := true
		for _, t := range types {
			if t == smallest {
				continue
			}
			if !w.Has(id, t) {
				match = false
				break
			}
		}
		if match {
			result = append(result, id)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i] < result[j] })
	return result
}

// Count returns the number of live entities.
func (w *World) Count() int {
	n := 0
	for _, ok := range w.alive {
		if ok {
			n++
		}
	}
	return n
}
