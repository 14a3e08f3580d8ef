package enums

import "strings"

// CharacterStatus - текущее занятие персонажа.
// Переходы статусов всегда сопровождаются событием character_status_changed.
type CharacterStatus uint8

const (
	StatusUnknown CharacterStatus = iota
	StatusAvailable
	StatusWorking
	StatusCrafting
	StatusInCombat
	StatusInjured
)

var characterStatusToString = map[CharacterStatus]string{
	StatusAvailable: "AVAILABLE",
	StatusWorking:   "WORKING",
	StatusCrafting:  "CRAFTING",
	StatusInCombat:  "IN_COMBAT",
	StatusInjured:   "INJURED",
}

var characterStatusStringToType = map[string]CharacterStatus{
	"AVAILABLE": StatusAvailable,
	"WORKING":   StatusWorking,
	"CRAFTING":  StatusCrafting,
	"IN_COMBAT": StatusInCombat,
	"INJURED":   StatusInjured,
}

func (s CharacterStatus) String() string {
	if val, ok := characterStatusToString[s]; ok {
		return val
	}
	return "UNKNOWN"
}

func ParseCharacterStatus(s string) CharacterStatus {
	upper := strings.ToUpper(s)
	if val, ok := characterStatusStringToType[upper]; ok {
		return val
	}
	return StatusUnknown
}
