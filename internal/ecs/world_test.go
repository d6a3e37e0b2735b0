package ecs

import "testing"

// stub components used only in tests
type markComp struct{ val int }

func (markComp) Type() ComponentType { return 1 }

type flagComp struct{}

func (flagComp) Type() ComponentType { return 2 }

func TestCreateEntity(t *testing.T) {
	w := NewWorld()
	id := w.CreateEntity()
	if id == NilEntity {
		t.Fatal("expected non-nil entity ID")
	}
	if !w.Alive(id) {
		t.Fatal("expected entity to be alive after creation")
	}
}

func TestAddAndGetComponent(t *testing.T) {
	w := NewWorld()
	id := w.CreateEntity()
	w.Add(id, markComp{val: 42})

	c, ok := w.Get(id, ComponentType(1)).(markComp)
	if !ok {
		t.Fatal("expected markComp component")
	}
	if c.val != 42 {
		t.Fatalf("expected val=42, got %d", c.val)
	}
}

func TestDestroyEntityRemovesComponents(t *testing.T) {
	w := NewWorld()
	id := w.CreateEntity()
	w.Add(id, markComp{val: 7})
	w.DestroyEntity(id)

	if w.Alive(id) {
		t.Fatal("entity should not be alive after DestroyEntity")
	}
	if w.Get(id, ComponentType(1)) != nil {
		t.Fatal("component should be gone after DestroyEntity")
	}
}

func TestQueryFiltersAndOrders(t *testing.T) {
	w := NewWorld()

	var both []EntityID
	for i := 0; i < 5; i++ {
		id := w.CreateEntity()
		w.Add(id, markComp{val: i})
		if i%2 == 0 {
			w.Add(id, flagComp{})
			both = append(both, id)
		}
	}

	got := w.Query(ComponentType(1), ComponentType(2))
	if len(got) != len(both) {
		t.Fatalf("expected %d results, got %d", len(both), len(got))
	}
	for i := range both {
		if got[i] != both[i] {
			t.Fatalf("result[%d] = %v; want %v (creation order)", i, got[i], both[i])
		}
	}
}

func TestHasAndRemove(t *testing.T) {
	w := NewWorld()
	id := w.CreateEntity()

	if w.Has(id, ComponentType(1)) {
		t.Fatal("Has should return false before Add")
	}
	w.Add(id, markComp{val: 1})
	if !w.Has(id, ComponentType(1)) {
		t.Fatal("Has should return true after Add")
	}
	w.Remove(id, ComponentType(1))
	if w.Has(id, ComponentType(1)) {
		t.Fatal("Has should return false after Remove")
	}
	// Removing a type that was never added must not panic.
	w.Remove(id, ComponentType(99))
}

func TestQueryExcludesDeadEntities(t *testing.T) {
	w := NewWorld()
	alive := w.CreateEntity()
	w.Add(alive, markComp{})

	dead := w.CreateEntity()
	w.Add(dead, markComp{})
	w.DestroyEntity(dead)

	results := w.Query(ComponentType(1))
	if len(results) != 1 || results[0] != alive {
		t.Fatalf("expected only the alive entity; got %v", results)
	}
}

func TestKeyedEntities(t *testing.T) {
	w := NewWorld()
	id, created := w.CreateKeyed("door-5-5")
	if !created || id == NilEntity {
		t.Fatalf("CreateKeyed = (%v, %v); want new entity", id, created)
	}

	again, created := w.CreateKeyed("door-5-5")
	if created || again != id {
		t.Fatalf("duplicate key returned (%v, %v); want (%v, false)", again, created, id)
	}

	got, ok := w.Lookup("door-5-5")
	if !ok || got != id {
		t.Fatalf("Lookup = (%v, %v); want (%v, true)", got, ok, id)
	}
	if w.Key(id) != "door-5-5" {
		t.Errorf("Key(%v) = %q", id, w.Key(id))
	}

	w.DestroyEntity(id)
	if _, ok := w.Lookup("door-5-5"); ok {
		t.Fatal("Lookup should fail after DestroyEntity")
	}
	if w.Key(id) != "" {
		t.Fatal("Key should be cleared after DestroyEntity")
	}

	fresh, created := w.CreateKeyed("door-5-5")
	if !created || fresh == id {
		t.Fatalf("re-creating a destroyed key should mint a new entity, got %v", fresh)
	}
}

func TestCount(t *testing.T) {
	w := NewWorld()
	a := w.CreateEntity()
	w.CreateEntity()
	w.DestroyEntity(a)
	if n := w.Count(); n != 1 {
		t.Fatalf("Count = %d; want 1", n)
	}
}
