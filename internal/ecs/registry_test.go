package ecs

import (
	"testing"

	"homestead-server/internal/core/types"
	"homestead-server/internal/core/types/enums"
)

func TestRegistryCreateUnique(t *testing.T) {
	store := NewStore()
	registry := NewRegistry(store)

	seen := map[types.EntityID]bool{}
	for i := 0; i < 100; i++ {
		id := registry.Create(enums.EntityTypeItem)
		if id.IsNil() {
			t.Fatal("Create returned the nil ID")
		}
		if seen[id] {
			t.Fatalf("Duplicate ID issued: %s", id)
		}
		seen[id] = true
		if !registry.Exists(id) {
			t.Fatalf("Freshly created entity does not exist: %s", id)
		}
	}
}

// Уничтожение чистит компоненты и делает старую ссылку недействительной;
// переиспользованный слот получает другое поколение.
func TestRegistryGenerationGuard(t *testing.T) {
	store := NewStore()
	registry := NewRegistry(store)

	old := registry.Create(enums.EntityTypeCharacter)
	store.Set(old, &positionComponent{X: 7})

	registry.Destroy(old)
	if registry.Exists(old) {
		t.Fatal("Destroyed entity still exists")
	}
	if store.Has(old, kindPosition) {
		t.Error("Components survived Destroy")
	}

	// Слот переиспользуется, но поколение другое
	fresh := registry.Create(enums.EntityTypeCharacter)
	if fresh.Index() != old.Index() {
		t.Fatalf("Slot not reused. Got index %d, want %d", fresh.Index(), old.Index())
	}
	if fresh.Generation() == old.Generation() {
		t.Error("Reused slot kept the old generation")
	}

	// Устаревшая ссылка не «попадает» в новую сущность
	if registry.Exists(old) {
		t.Error("Stale reference resolves to the new entity")
	}
	if got := GetAs[positionComponent](store, old, kindPosition); got != nil {
		t.Errorf("Stale reference reads components: %+v", got)
	}
}

func TestRegistryDestroyIdempotent(t *testing.T) {
	store := NewStore()
	registry := NewRegistry(store)

	id := registry.Create(enums.EntityTypeEnemy)
	registry.Destroy(id)
	// Повторное уничтожение не должно портить свободный список
	registry.Destroy(id)
	registry.Destroy(types.NilEntityID)

	a := registry.Create(enums.EntityTypeEnemy)
	b := registry.Create(enums.EntityTypeEnemy)
	if a == b {
		t.Fatalf("Double destroy corrupted the free list: %s == %s", a, b)
	}
}

func TestRegistryNilNeverExists(t *testing.T) {
	registry := NewRegistry(NewStore())
	if registry.Exists(types.NilEntityID) {
		t.Error("Nil ID reported as existing")
	}
}
