package systems

import (
	"time"

	"github.com/sirupsen/logrus"

	"homestead-server/internal/core/types"
	"homestead-server/internal/core/types/enums"
	"homestead-server/internal/domain"
	"homestead-server/internal/ecs"
	"homestead-server/pkg/logger"
)

// EquipmentSystem - экипировка персонажей.
//
// Конечный автомат на пару (персонаж, слот): Пусто <-> Занято(предмет).
// Инвариант эксклюзивности - предмет надет максимум в одном слоте
// максимум одного персонажа - обеспечивается приватным индексом
// предмет -> носитель. Индексом владеет только эта система; никто
// другой его не дублирует.
//
// Все провалы валидации возвращают false: диагностика уходит в логи,
// а не в таксономию кодов ошибок.
type EquipmentSystem struct {
	ecs.BaseSystem
	// equippedBy: предмет -> персонаж, на котором он сейчас надет
	equippedBy map[types.EntityID]types.EntityID
	clock      func() time.Time
	log        *logrus.Entry
}

func NewEquipmentSystem(base ecs.BaseSystem, clock func() time.Time) *EquipmentSystem {
	if clock == nil {
		clock = time.Now
	}
	return &EquipmentSystem{
		BaseSystem: base,
		equippedBy: make(map[types.EntityID]types.EntityID),
		clock:      clock,
		log:        logger.WithSystem("equipment_system"),
	}
}

func (s *EquipmentSystem) Name() string { return "equipment" }

func (s *EquipmentSystem) RequiredKinds() []ecs.Kind {
	return []ecs.Kind{domain.KindEquipment}
}

// Update - no-op: система чисто событийная.
func (s *EquipmentSystem) Update(dt time.Duration) {}

// CanEquip - чистый предикат валидации экипировки. Без побочных
// эффектов: используется и внутри Equip, и снаружи для блокировки UI.
func (s *EquipmentSystem) CanEquip(character, item types.EntityID, slot enums.EquipSlot) bool {
	return s.validateEquip(character, item, slot) == ""
}

// validateEquip возвращает причину отказа или пустую строку.
func (s *EquipmentSystem) validateEquip(character, item types.EntityID, slot enums.EquipSlot) string {
	if !s.Registry.Exists(character) {
		return "персонаж не существует"
	}
	if ecs.GetAs[domain.EquipmentComponent](s.Store, character, domain.KindEquipment) == nil {
		return "у персонажа нет слотов экипировки"
	}
	if item.IsNil() || !s.Registry.Exists(item) {
		return "предмет не существует"
	}
	if !validSlot(slot) {
		return "неизвестный слот"
	}
	itemComp := ecs.GetAs[domain.ItemComponent](s.Store, item, domain.KindItem)
	if itemComp == nil {
		return "это не предмет"
	}
	if itemComp.Category != enums.ItemCategoryEquipment {
		return "этот предмет нельзя надеть"
	}
	// Слот предмета обязан совпадать с целевым.
	// Алиас misc -> accessory уже разрешен на этапе парсинга шаблона.
	if itemComp.Slot != slot {
		return "предмет не подходит к этому слоту"
	}
	if _, taken := s.equippedBy[item]; taken {
		return "предмет уже экипирован"
	}
	return ""
}

// Equip надевает предмет в слот персонажа.
//
// Если слот занят, старый предмет сначала снимается тем же путем, что
// и явный Unequip - включая его собственный эмит пересчета. Поэтому
// «замена» - это снять-потом-надеть, и протокол пересчета срабатывает
// с корректными бонусами до и после. Пересчет производных
// характеристик завершается до возврата из этого вызова.
func (s *EquipmentSystem) Equip(character, item types.EntityID, slot enums.EquipSlot) bool {
	if reason := s.validateEquip(character, item, slot); reason != "" {
		s.log.WithFields(logrus.Fields{
			"character": character.String(),
			"item":      item.String(),
			"slot":      slot.String(),
			"reason":    reason,
		}).Warn("Equip rejected.")
		return false
	}

	eq := ecs.GetAs[domain.EquipmentComponent](s.Store, character, domain.KindEquipment)

	// Замена: каскадное снятие занятого слота
	if !eq.Slots[slot].IsNil() {
		if !s.Unequip(character, slot) {
			return false
		}
	}

	eq.Slots[slot] = item
	s.equippedBy[item] = character

	s.Bus.Emit(domain.EquipmentChangedEvent{
		EventMeta:   domain.Meta(s.clock()),
		CharacterID: character,
		Slot:        slot,
		ItemID:      item,
		Equipped:    true,
	})

	s.log.WithFields(logrus.Fields{
		"character": character.String(),
		"item":      item.String(),
		"slot":      slot.String(),
	}).Info("Item equipped.")
	return true
}

// Unequip снимает предмет из слота.
// Возвращает false, если слот пуст, персонаж не существует или слот
// неизвестен.
func (s *EquipmentSystem) Unequip(character types.EntityID, slot enums.EquipSlot) bool {
	if !s.Registry.Exists(character) || !validSlot(slot) {
		return false
	}
	eq := ecs.GetAs[domain.EquipmentComponent](s.Store, character, domain.KindEquipment)
	if eq == nil {
		return false
	}
	item := eq.Slots[slot]
	if item.IsNil() {
		return false
	}

	eq.Slots[slot] = types.NilEntityID
	delete(s.equippedBy, item)

	s.Bus.Emit(domain.EquipmentChangedEvent{
		EventMeta:   domain.Meta(s.clock()),
		CharacterID: character,
		Slot:        slot,
		ItemID:      item,
		Equipped:    false,
	})

	s.log.WithFields(logrus.Fields{
		"character": character.String(),
		"item":      item.String(),
		"slot":      slot.String(),
	}).Info("Item unequipped.")
	return true
}

// --- ЧИСТЫЕ ЧТЕНИЯ ---

// GetEquippedItem возвращает предмет в слоте персонажа.
func (s *EquipmentSystem) GetEquippedItem(character types.EntityID, slot enums.EquipSlot) (types.EntityID, bool) {
	eq := ecs.GetAs[domain.EquipmentComponent](s.Store, character, domain.KindEquipment)
	if eq == nil || !validSlot(slot) {
		return types.NilEntityID, false
	}
	item := eq.Slots[slot]
	if item.IsNil() {
		return types.NilEntityID, false
	}
	return item, true
}

// GetAllEquippedItems возвращает копию занятых слотов персонажа.
func (s *EquipmentSystem) GetAllEquippedItems(character types.EntityID) map[enums.EquipSlot]types.EntityID {
	out := make(map[enums.EquipSlot]types.EntityID)
	eq := ecs.GetAs[domain.EquipmentComponent](s.Store, character, domain.KindEquipment)
	if eq == nil {
		return out
	}
	for _, slot := range enums.AllEquipSlots {
		if id := eq.Slots[slot]; !id.IsNil() {
			out[slot] = id
		}
	}
	return out
}

// IsItemEquipped проверяет, надет ли предмет хоть на кого-то.
func (s *EquipmentSystem) IsItemEquipped(item types.EntityID) bool {
	_, ok := s.equippedBy[item]
	return ok
}

// GetEquippedByCharacter возвращает носителя предмета.
func (s *EquipmentSystem) GetEquippedByCharacter(item types.EntityID) (types.EntityID, bool) {
	owner, ok := s.equippedBy[item]
	return owner, ok
}

func validSlot(slot enums.EquipSlot) bool {
	switch slot {
	case enums.EquipSlotWeapon, enums.EquipSlotOffhand, enums.EquipSlotArmor, enums.EquipSlotAccessory:
		return true
	}
	return false
}
