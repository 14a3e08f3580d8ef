package enums

import "strings"

// --- КАТЕГОРИИ ПРЕДМЕТОВ ---

type ItemCategory uint8

const (
	ItemCategoryUnknown    ItemCategory = iota // 0
	ItemCategoryEquipment                      // 1
	ItemCategoryMaterial                       // 2
	ItemCategoryConsumable                     // 3
	ItemCategoryBadge                          // 4
	ItemCategoryMisc                           // 5
)

var itemCategoryToString = map[ItemCategory]string{
	ItemCategoryEquipment:  "EQUIPMENT",
	ItemCategoryMaterial:   "MATERIAL",
	ItemCategoryConsumable: "CONSUMABLE",
	ItemCategoryBadge:      "BADGE",
	ItemCategoryMisc:       "MISC",
}

var itemCategoryStringToType = map[string]ItemCategory{
	"EQUIPMENT":  ItemCategoryEquipment,
	"MATERIAL":   ItemCategoryMaterial,
	"CONSUMABLE": ItemCategoryConsumable,
	"BADGE":      ItemCategoryBadge,
	"MISC":       ItemCategoryMisc,
}

func (c ItemCategory) String() string {
	if val, ok := itemCategoryToString[c]; ok {
		return val
	}
	return "UNKNOWN"
}

func ParseItemCategory(s string) ItemCategory {
	upper := strings.ToUpper(s)
	if val, ok := itemCategoryStringToType[upper]; ok {
		return val
	}
	return ItemCategoryUnknown
}

// --- СЛОТЫ ЭКИПИРОВКИ ---

// EquipSlot - именованный слот экипировки персонажа.
// У каждого персонажа фиксированный набор из четырех слотов.
type EquipSlot uint8

const (
	EquipSlotUnknown EquipSlot = iota
	EquipSlotWeapon
	EquipSlotOffhand
	EquipSlotArmor
	EquipSlotAccessory
)

// AllEquipSlots - фиксированный порядок обхода слотов.
// Порядок важен: пересчет характеристик применяет модификаторы
// именно в этой последовательности, поэтому он детерминирован.
var AllEquipSlots = []EquipSlot{
	EquipSlotWeapon,
	EquipSlotOffhand,
	EquipSlotArmor,
	EquipSlotAccessory,
}

var equipSlotToString = map[EquipSlot]string{
	EquipSlotWeapon:    "WEAPON",
	EquipSlotOffhand:   "OFFHAND",
	EquipSlotArmor:     "ARMOR",
	EquipSlotAccessory: "ACCESSORY",
}

var equipSlotStringToType = map[string]EquipSlot{
	"WEAPON":    EquipSlotWeapon,
	"OFFHAND":   EquipSlotOffhand,
	"ARMOR":     EquipSlotArmor,
	"ACCESSORY": EquipSlotAccessory,
	// Легаси-алиас: предметы со слотом "misc" надеваются в слот аксессуара.
	"MISC": EquipSlotAccessory,
}

func (s EquipSlot) String() string {
	if val, ok := equipSlotToString[s]; ok {
		return val
	}
	return "UNKNOWN"
}

func ParseEquipSlot(s string) EquipSlot {
	upper := strings.ToUpper(s)
	if val, ok := equipSlotStringToType[upper]; ok {
		return val
	}
	return EquipSlotUnknown
}
