package systems

import (
	"time"

	"github.com/sirupsen/logrus"

	"homestead-server/internal/core/types"
	"homestead-server/internal/core/types/enums"
	"homestead-server/internal/data"
	"homestead-server/internal/domain"
	"homestead-server/internal/ecs"
	"homestead-server/pkg/logger"
)

// InventorySystem - слотовый инвентарь.
//
// Предметы - полноценные сущности с ItemComponent; слот инвентаря
// хранит ссылку. Стопки (stackable) сливаются по (каталожный ID,
// качество, редкость). Все списания - все-или-ничего: при нехватке
// инвентарь остается нетронутым.
type InventorySystem struct {
	ecs.BaseSystem
	catalog map[string]data.ItemTemplate
	log     *logrus.Entry
}

func NewInventorySystem(base ecs.BaseSystem, catalog map[string]data.ItemTemplate) *InventorySystem {
	return &InventorySystem{
		BaseSystem: base,
		catalog:    catalog,
		log:        logger.WithSystem("inventory_system"),
	}
}

func (s *InventorySystem) Name() string { return "inventory" }

func (s *InventorySystem) RequiredKinds() []ecs.Kind {
	return []ecs.Kind{domain.KindInventory}
}

// Update - no-op: инвентарь чисто реактивен.
func (s *InventorySystem) Update(dt time.Duration) {}

// SpawnItem создает предмет-сущность из каталожного шаблона.
// quality <= 0 означает «качество из шаблона».
// Возвращает NilEntityID, если шаблон неизвестен.
func (s *InventorySystem) SpawnItem(catalogID string, quantity, quality int) types.EntityID {
	tpl, ok := s.catalog[catalogID]
	if !ok {
		s.log.WithField("catalog_id", catalogID).Warn("Spawn failed: unknown catalog item.")
		return types.NilEntityID
	}
	if quantity <= 0 {
		quantity = 1
	}
	if quality <= 0 {
		quality = tpl.Quality
	}
	maxStack := tpl.MaxStack
	if maxStack <= 0 {
		maxStack = domain.DefaultMaxStack
	}

	id := s.Registry.Create(enums.EntityTypeItem)
	s.Store.Set(id, &domain.ItemComponent{
		CatalogID: tpl.ID,
		Name:      tpl.Name,
		Category:  enums.ParseItemCategory(tpl.Category),
		Slot:      enums.ParseEquipSlot(tpl.Slot),
		Quality:   quality,
		Rarity:    enums.RarityCommon,
		StackSize: quantity,
		MaxStack:  maxStack,
		Weight:    tpl.Weight,
		Volume:    tpl.Volume,
		Modifiers: data.ToModifiers(tpl.Modifiers),
	})
	return id
}

// Item возвращает запись предмета или nil.
func (s *InventorySystem) Item(id types.EntityID) *domain.ItemComponent {
	return ecs.GetAs[domain.ItemComponent](s.Store, id, domain.KindItem)
}

func (s *InventorySystem) inventory(owner types.EntityID) *domain.InventoryComponent {
	return ecs.GetAs[domain.InventoryComponent](s.Store, owner, domain.KindInventory)
}

// FindEmptySlot возвращает индекс первой пустой ячейки или -1.
func (s *InventorySystem) FindEmptySlot(owner types.EntityID) int {
	inv := s.inventory(owner)
	if inv == nil {
		return -1
	}
	for i, slot := range inv.Slots {
		if slot.IsNil() {
			return i
		}
	}
	return -1
}

// AddItem кладет предмет-сущность в инвентарь владельца.
// Стопки сливаются с существующими того же каталожного ID, качества и
// редкости; слитая без остатка сущность уничтожается. Все-или-ничего:
// вместимость считается до первой мутации, при нехватке места
// возвращается false и ни одна стопка не тронута.
func (s *InventorySystem) AddItem(owner, itemID types.EntityID) bool {
	inv := s.inventory(owner)
	item := s.Item(itemID)
	if inv == nil || item == nil {
		return false
	}
	maxStack := item.MaxStack
	if maxStack < 1 {
		maxStack = 1
	}

	// 1. Вместимость: место в подходящих стопках плюс пустые ячейки
	mergeable, free := 0, 0
	for _, slotID := range inv.Slots {
		if slotID.IsNil() {
			free++
			continue
		}
		if maxStack > 1 {
			existing := s.Item(slotID)
			if existing != nil && sameStack(existing, item) {
				mergeable += existing.MaxStack - existing.StackSize
			}
		}
	}
	remainder := item.StackSize - mergeable
	if remainder > 0 {
		need := (remainder + maxStack - 1) / maxStack
		if free < need {
			return false
		}
	}

	// 2. Слияние: поместится гарантированно весь объем
	remaining := item.StackSize
	if maxStack > 1 {
		for _, slotID := range inv.Slots {
			if slotID.IsNil() || remaining == 0 {
				continue
			}
			existing := s.Item(slotID)
			if existing == nil || !sameStack(existing, item) {
				continue
			}
			space := existing.MaxStack - existing.StackSize
			if space <= 0 {
				continue
			}
			moved := remaining
			if moved > space {
				moved = space
			}
			existing.StackSize += moved
			remaining -= moved
		}
	}

	if remaining == 0 {
		// Предмет растворился в существующих стопках
		s.Registry.Destroy(itemID)
		return true
	}

	// 3. Остаток - по пустым ячейкам кусками не больше MaxStack
	item.StackSize = remaining
	for item.StackSize > maxStack {
		chunk := *item
		chunk.StackSize = maxStack
		chunkID := s.Registry.Create(enums.EntityTypeItem)
		s.Store.Set(chunkID, &chunk)
		inv.Slots[s.FindEmptySlot(owner)] = chunkID
		item.StackSize -= maxStack
	}
	inv.Slots[s.FindEmptySlot(owner)] = itemID
	return true
}

// AddByCatalog добавляет quantity единиц каталожного предмета,
// создавая сущности по мере необходимости. Используется генерацией
// ресурсов работы и продукцией крафта.
func (s *InventorySystem) AddByCatalog(owner types.EntityID, catalogID string, quantity, quality int, rarity enums.Rarity) bool {
	if quantity <= 0 {
		return true
	}
	itemID := s.SpawnItem(catalogID, quantity, quality)
	if itemID.IsNil() {
		return false
	}
	if rarity != enums.RarityCommon {
		if item := s.Item(itemID); item != nil {
			item.Rarity = rarity
		}
	}
	if !s.AddItem(owner, itemID) {
		s.Registry.Destroy(itemID)
		return false
	}
	return true
}

// FreeCapacity - сколько единиц каталожного предмета инвентарь может
// принять: место в стопках того же каталожного ID плюс пустые ячейки.
// Оценка оптимистична по качеству/редкости (они известны только при
// фактическом добавлении); несовпадение уводит остаток в пустые ячейки.
func (s *InventorySystem) FreeCapacity(owner types.EntityID, catalogID string) int {
	inv := s.inventory(owner)
	tpl, ok := s.catalog[catalogID]
	if inv == nil || !ok {
		return 0
	}
	maxStack := tpl.MaxStack
	if maxStack <= 0 {
		maxStack = domain.DefaultMaxStack
	}

	capacity := 0
	for _, slotID := range inv.Slots {
		if slotID.IsNil() {
			capacity += maxStack
			continue
		}
		if maxStack > 1 {
			item := s.Item(slotID)
			if item != nil && item.CatalogID == catalogID {
				capacity += item.MaxStack - item.StackSize
			}
		}
	}
	return capacity
}

// CountQuantity считает суммарное количество каталожного предмета
// с качеством не ниже minQuality.
func (s *InventorySystem) CountQuantity(owner types.EntityID, catalogID string, minQuality int) int {
	inv := s.inventory(owner)
	if inv == nil {
		return 0
	}
	total := 0
	for _, slotID := range inv.Slots {
		if slotID.IsNil() {
			continue
		}
		item := s.Item(slotID)
		if item != nil && item.CatalogID == catalogID && item.Quality >= minQuality {
			total += item.StackSize
		}
	}
	return total
}

// HasQuantity проверяет наличие количества без учета качества.
func (s *InventorySystem) HasQuantity(owner types.EntityID, catalogID string, quantity int) bool {
	return s.CountQuantity(owner, catalogID, 0) >= quantity
}

// RemoveQuantity списывает quantity единиц каталожного предмета
// с качеством не ниже minQuality. Все-или-ничего: при нехватке
// возвращает false и НЕ трогает инвентарь.
func (s *InventorySystem) RemoveQuantity(owner types.EntityID, catalogID string, quantity, minQuality int) bool {
	if quantity <= 0 {
		return true
	}
	if s.CountQuantity(owner, catalogID, minQuality) < quantity {
		return false
	}

	inv := s.inventory(owner)
	remaining := quantity
	for i, slotID := range inv.Slots {
		if remaining == 0 {
			break
		}
		if slotID.IsNil() {
			continue
		}
		item := s.Item(slotID)
		if item == nil || item.CatalogID != catalogID || item.Quality < minQuality {
			continue
		}
		taken := remaining
		if taken > item.StackSize {
			taken = item.StackSize
		}
		item.StackSize -= taken
		remaining -= taken
		if item.StackSize == 0 {
			inv.Slots[i] = types.NilEntityID
			s.Registry.Destroy(slotID)
		}
	}
	return true
}

// AverageQuality - среднее качество имеющихся единиц каталожного
// предмета (взвешенное по размеру стопок). 0, если предмета нет.
func (s *InventorySystem) AverageQuality(owner types.EntityID, catalogID string, minQuality int) float64 {
	inv := s.inventory(owner)
	if inv == nil {
		return 0
	}
	total, sum := 0, 0
	for _, slotID := range inv.Slots {
		if slotID.IsNil() {
			continue
		}
		item := s.Item(slotID)
		if item != nil && item.CatalogID == catalogID && item.Quality >= minQuality {
			total += item.StackSize
			sum += item.Quality * item.StackSize
		}
	}
	if total == 0 {
		return 0
	}
	return float64(sum) / float64(total)
}

// sameStack: стопки сливаются только при полном совпадении
// каталожного ID, качества и редкости.
func sameStack(a, b *domain.ItemComponent) bool {
	return a.CatalogID == b.CatalogID && a.Quality == b.Quality && a.Rarity == b.Rarity
}
