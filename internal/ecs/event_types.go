package ecs

import (
	"strings"
	"time"
)

// EventType - внутренний числовой идентификатор события.
//
// Набор событий закрытый: вместо строковых имен используется enum,
// чтобы опечатка в имени ловилась компилятором, а не в рантайме.
type EventType uint8

const (
	EventUnknown EventType = iota
	EventCharacterRecruited
	EventCharacterStatusChanged
	EventCharacterLevelUp
	EventCharacterDeath
	EventCharacterJobChanged
	EventAttributeChanged
	EventHealthChanged
	EventEquipmentChanged
	EventBadgeEquipped
	EventBadgeUnequipped
	EventWorkStarted
	EventWorkCompleted
	EventWorkCancelled
	EventCraftingStarted
	EventCraftingCompleted
	EventCraftingFailed
	EventCombatStarted
	EventCombatEnded
	EventAchievementUnlocked
	EventCurrencyChanged
)

// Маппинг для логов Domain -> String
var eventTypeToString = map[EventType]string{
	EventCharacterRecruited:     "CHARACTER_RECRUITED",
	EventCharacterStatusChanged: "CHARACTER_STATUS_CHANGED",
	EventCharacterLevelUp:       "CHARACTER_LEVEL_UP",
	EventCharacterDeath:         "CHARACTER_DEATH",
	EventCharacterJobChanged:    "CHARACTER_JOB_CHANGED",
	EventAttributeChanged:       "ATTRIBUTE_CHANGED",
	EventHealthChanged:          "HEALTH_CHANGED",
	EventEquipmentChanged:       "EQUIPMENT_CHANGED",
	EventBadgeEquipped:          "BADGE_EQUIPPED",
	EventBadgeUnequipped:        "BADGE_UNEQUIPPED",
	EventWorkStarted:            "WORK_STARTED",
	EventWorkCompleted:          "WORK_COMPLETED",
	EventWorkCancelled:          "WORK_CANCELLED",
	EventCraftingStarted:        "CRAFTING_STARTED",
	EventCraftingCompleted:      "CRAFTING_COMPLETED",
	EventCraftingFailed:         "CRAFTING_FAILED",
	EventCombatStarted:          "COMBAT_STARTED",
	EventCombatEnded:            "COMBAT_ENDED",
	EventAchievementUnlocked:    "ACHIEVEMENT_UNLOCKED",
	EventCurrencyChanged:        "CURRENCY_CHANGED",
}

// Маппинг для конвертации конфигов/сейвов String -> Domain
var eventStringToType = map[string]EventType{}

func init() {
	for t, s := range eventTypeToString {
		eventStringToType[s] = t
	}
}

// ParseEventType конвертирует строку в EventType.
func ParseEventType(s string) EventType {
	// Нечувствительно к регистру для надежности
	upper := strings.ToUpper(s)
	if val, ok := eventStringToType[upper]; ok {
		return val
	}
	return EventUnknown
}

// String реализует интерфейс Stringer (для fmt.Printf и логов)
func (t EventType) String() string {
	if val, ok := eventTypeToString[t]; ok {
		return val
	}
	return "UNKNOWN"
}

// Event - полезная нагрузка события.
// Каждый тип события имеет свою структуру с временной меткой и
// идентификаторами затронутых сущностей (см. internal/domain/events.go).
type Event interface {
	Type() EventType
	Occurred() time.Time
}
