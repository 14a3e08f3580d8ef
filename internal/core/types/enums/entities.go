package enums

import "strings"

type EntityType uint8

const (
	EntityTypeUnknown EntityType = iota
	EntityTypeCharacter
	EntityTypeEnemy
	EntityTypeItem
	EntityTypeParty
)

var entityTypeToString = map[EntityType]string{
	EntityTypeCharacter: "CHARACTER",
	EntityTypeEnemy:     "ENEMY",
	EntityTypeItem:      "ITEM",
	EntityTypeParty:     "PARTY",
}

var entityTypeStringToType = map[string]EntityType{
	"CHARACTER": EntityTypeCharacter,
	"ENEMY":     EntityTypeEnemy,
	"ITEM":      EntityTypeItem,
	"PARTY":     EntityTypeParty,
}

// String возвращает строковое представление (для логов и дебага)
func (e EntityType) String() string {
	if val, ok := entityTypeToString[e]; ok {
		return val
	}
	return "UNKNOWN"
}

// ParseEntityType конвертирует строку в Enum (нужно для загрузки шаблонов/конфигов)
func ParseEntityType(s string) EntityType {
	upper := strings.ToUpper(s)
	if val, ok := entityTypeStringToType[upper]; ok {
		return val
	}
	return EntityTypeUnknown
}
