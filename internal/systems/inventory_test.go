package systems

import (
	"testing"

	"homestead-server/internal/core/types/enums"
	"homestead-server/internal/domain"
)

func TestSpawnItemFromCatalog(t *testing.T) {
	r := newTestRig()

	id := r.Inventory.SpawnItem("iron_sword", 1, 0)
	if id.IsNil() {
		t.Fatal("Spawn of a known item returned nil")
	}
	item := r.Inventory.Item(id)
	if item.CatalogID != "iron_sword" || item.Quality != 50 {
		t.Errorf("Spawned item is wrong: %+v", item)
	}
	if item.Category != enums.ItemCategoryEquipment || item.Slot != enums.EquipSlotWeapon {
		t.Errorf("Category/slot parsing is wrong: %+v", item)
	}

	if got := r.Inventory.SpawnItem("no_such_item", 1, 0); !got.IsNil() {
		t.Error("Spawn of an unknown item succeeded")
	}
}

// Стопки с одинаковым каталожным ID и качеством сливаются; слитая
// без остатка сущность уничтожается.
func TestAddItemMergesStacks(t *testing.T) {
	r := newTestRig()
	hero := r.newHero()

	if !r.Inventory.AddByCatalog(hero, "iron_ore", 10, 0, enums.RarityCommon) {
		t.Fatal("First add failed")
	}
	extra := r.Inventory.SpawnItem("iron_ore", 5, 0)
	if !r.Inventory.AddItem(hero, extra) {
		t.Fatal("Merge add failed")
	}

	if got := r.Inventory.CountQuantity(hero, "iron_ore", 0); got != 15 {
		t.Errorf("Merged quantity is wrong. Got %d, want %d", got, 15)
	}
	// Поглощенная сущность уничтожена
	if r.Registry.Exists(extra) {
		t.Error("Fully merged item entity still exists")
	}
	// Занята ровно одна ячейка
	if slot := r.Inventory.FindEmptySlot(hero); slot != 1 {
		t.Errorf("Unexpected first empty slot. Got %d, want %d", slot, 1)
	}
}

// Разное качество не сливается в одну стопку.
func TestStacksSeparatedByQuality(t *testing.T) {
	r := newTestRig()
	hero := r.newHero()

	r.Inventory.AddByCatalog(hero, "iron_ore", 5, 40, enums.RarityCommon)
	r.Inventory.AddByCatalog(hero, "iron_ore", 5, 80, enums.RarityCommon)

	if got := r.Inventory.CountQuantity(hero, "iron_ore", 0); got != 10 {
		t.Errorf("Total quantity is wrong. Got %d, want %d", got, 10)
	}
	if got := r.Inventory.CountQuantity(hero, "iron_ore", 60); got != 5 {
		t.Errorf("Quality-filtered quantity is wrong. Got %d, want %d", got, 5)
	}
	if got := r.Inventory.AverageQuality(hero, "iron_ore", 0); got != 60 {
		t.Errorf("Average quality is wrong. Got %v, want %v", got, 60.0)
	}
}

// Списание - все-или-ничего: при нехватке инвентарь не тронут.
func TestRemoveQuantityAllOrNothing(t *testing.T) {
	r := newTestRig()
	hero := r.newHero()
	r.Inventory.AddByCatalog(hero, "iron_ore", 5, 0, enums.RarityCommon)

	if r.Inventory.RemoveQuantity(hero, "iron_ore", 10, 0) {
		t.Fatal("Removal of more than available succeeded")
	}
	if got := r.Inventory.CountQuantity(hero, "iron_ore", 0); got != 5 {
		t.Errorf("Inventory touched by failed removal. Got %d, want %d", got, 5)
	}

	if !r.Inventory.RemoveQuantity(hero, "iron_ore", 5, 0) {
		t.Fatal("Exact removal failed")
	}
	if got := r.Inventory.CountQuantity(hero, "iron_ore", 0); got != 0 {
		t.Errorf("Quantity after removal is wrong. Got %d, want %d", got, 0)
	}
	// Опустевшая стопка освобождает ячейку
	if slot := r.Inventory.FindEmptySlot(hero); slot != 0 {
		t.Errorf("Emptied slot not released. First empty slot %d, want %d", slot, 0)
	}
}

// Списание с порогом качества не трогает стопки ниже порога.
func TestRemoveQuantityRespectsMinQuality(t *testing.T) {
	r := newTestRig()
	hero := r.newHero()
	r.Inventory.AddByCatalog(hero, "iron_ore", 5, 40, enums.RarityCommon)
	r.Inventory.AddByCatalog(hero, "iron_ore", 5, 80, enums.RarityCommon)

	if !r.Inventory.RemoveQuantity(hero, "iron_ore", 3, 60) {
		t.Fatal("Quality-filtered removal failed")
	}
	if got := r.Inventory.CountQuantity(hero, "iron_ore", 60); got != 2 {
		t.Errorf("High-quality remainder is wrong. Got %d, want %d", got, 2)
	}
	if got := r.Inventory.CountQuantity(hero, "iron_ore", 0); got != 7 {
		t.Errorf("Total remainder is wrong. Got %d, want %d", got, 7)
	}
}

// Частичное слияние не выполняется: если остаток после долива стопок
// некуда класть, добавление отказывает целиком.
func TestAddItemNoPartialMerge(t *testing.T) {
	r := newTestRig()
	hero := r.Registry.Create(enums.EntityTypeCharacter)
	r.Store.Set(hero, domain.NewInventoryComponent(2))

	// Ячейка 0: стопка руды 90/99, ячейка 1: меч. Пустых ячеек нет.
	r.Inventory.AddByCatalog(hero, "iron_ore", 90, 0, enums.RarityCommon)
	r.Inventory.AddByCatalog(hero, "iron_sword", 1, 0, enums.RarityCommon)

	// В стопку влезает 9, остальным 11 места нет
	extra := r.Inventory.SpawnItem("iron_ore", 20, 0)
	if r.Inventory.AddItem(hero, extra) {
		t.Fatal("Add succeeded with no room for the remainder")
	}
	if got := r.Inventory.CountQuantity(hero, "iron_ore", 0); got != 90 {
		t.Errorf("Existing stack touched by rejected add. Got %d, want %d", got, 90)
	}
	// Отклоненная сущность не тронута и не уничтожена
	if item := r.Inventory.Item(extra); item == nil || item.StackSize != 20 {
		t.Errorf("Rejected item mutated: %+v", item)
	}
}

// Объем больше MaxStack раскладывается кусками по пустым ячейкам.
func TestAddItemSplitsOversizedStack(t *testing.T) {
	r := newTestRig()
	hero := r.newHero()

	if !r.Inventory.AddByCatalog(hero, "iron_ore", 250, 0, enums.RarityCommon) {
		t.Fatal("Add of an oversized stack failed")
	}
	if got := r.Inventory.CountQuantity(hero, "iron_ore", 0); got != 250 {
		t.Errorf("Split quantity is wrong. Got %d, want %d", got, 250)
	}
	// 99 + 99 + 52: заняты ровно три ячейки
	if slot := r.Inventory.FindEmptySlot(hero); slot != 3 {
		t.Errorf("Unexpected first empty slot. Got %d, want %d", slot, 3)
	}
}

// FreeCapacity: пустые ячейки плюс недобор в стопках того же
// каталожного ID.
func TestFreeCapacity(t *testing.T) {
	r := newTestRig()
	hero := r.Registry.Create(enums.EntityTypeCharacter)
	r.Store.Set(hero, domain.NewInventoryComponent(3))

	r.Inventory.AddByCatalog(hero, "iron_ore", 90, 0, enums.RarityCommon)
	r.Inventory.AddByCatalog(hero, "iron_sword", 1, 0, enums.RarityCommon)

	// 9 в стопке руды + 99 в пустой ячейке
	if got := r.Inventory.FreeCapacity(hero, "iron_ore"); got != 108 {
		t.Errorf("Ore capacity is wrong. Got %d, want %d", got, 108)
	}
	// Мечи не стопкуются: только пустая ячейка
	if got := r.Inventory.FreeCapacity(hero, "iron_sword"); got != 1 {
		t.Errorf("Sword capacity is wrong. Got %d, want %d", got, 1)
	}
	if got := r.Inventory.FreeCapacity(hero, "no_such_item"); got != 0 {
		t.Errorf("Unknown item capacity is wrong. Got %d, want %d", got, 0)
	}
}

// Переполнение: нет пустых ячеек - добавление отказывает, состояние
// не тронуто.
func TestAddItemOverflow(t *testing.T) {
	r := newTestRig()
	hero := r.Registry.Create(enums.EntityTypeCharacter)
	r.Store.Set(hero, domain.NewInventoryComponent(1))

	if !r.Inventory.AddByCatalog(hero, "iron_sword", 1, 0, enums.RarityCommon) {
		t.Fatal("First add failed")
	}
	if r.Inventory.AddByCatalog(hero, "leather_armor", 1, 0, enums.RarityCommon) {
		t.Error("Add into a full inventory succeeded")
	}
	if got := r.Inventory.CountQuantity(hero, "leather_armor", 0); got != 0 {
		t.Errorf("Overflowed item leaked into inventory: %d", got)
	}
}
