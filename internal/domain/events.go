package domain

import (
	"time"

	"homestead-server/internal/core/types"
	"homestead-server/internal/core/types/enums"
	"homestead-server/internal/ecs"
)

// --- СОБЫТИЯ ---
//
// Полезные нагрузки событий шины. Каждая несет временную метку и
// идентификаторы затронутых сущностей; внешние потребители (UI, сейвы,
// достижения) подписываются на них так же, как внутренние системы.

// EventMeta - общая часть всех событий.
type EventMeta struct {
	Timestamp time.Time `json:"timestamp"`
}

func (m EventMeta) Occurred() time.Time { return m.Timestamp }

// Meta проставляет текущее время. Хелпер для эмитящих систем.
func Meta(now time.Time) EventMeta { return EventMeta{Timestamp: now} }

type CharacterRecruitedEvent struct {
	EventMeta
	CharacterID types.EntityID `json:"characterId"`
	Name        string         `json:"name"`
}

func (CharacterRecruitedEvent) Type() ecs.EventType { return ecs.EventCharacterRecruited }

type CharacterStatusChangedEvent struct {
	EventMeta
	CharacterID types.EntityID        `json:"characterId"`
	Previous    enums.CharacterStatus `json:"previous"`
	Current     enums.CharacterStatus `json:"current"`
}

func (CharacterStatusChangedEvent) Type() ecs.EventType { return ecs.EventCharacterStatusChanged }

type CharacterLevelUpEvent struct {
	EventMeta
	CharacterID types.EntityID `json:"characterId"`
	NewLevel    int            `json:"newLevel"`
}

func (CharacterLevelUpEvent) Type() ecs.EventType { return ecs.EventCharacterLevelUp }

type CharacterDeathEvent struct {
	EventMeta
	CharacterID types.EntityID `json:"characterId"`
}

func (CharacterDeathEvent) Type() ecs.EventType { return ecs.EventCharacterDeath }

type CharacterJobChangedEvent struct {
	EventMeta
	CharacterID   types.EntityID `json:"characterId"`
	PreviousJobID string         `json:"previousJobId"`
	JobID         string         `json:"jobId"`
}

func (CharacterJobChangedEvent) Type() ecs.EventType { return ecs.EventCharacterJobChanged }

// AttributeChangedEvent эмитится при любом изменении базовых атрибутов
// (рост уровня, зелья). Система атрибутов слушает его и пересчитывает
// производные характеристики немедленно.
type AttributeChangedEvent struct {
	EventMeta
	CharacterID types.EntityID `json:"characterId"`
}

func (AttributeChangedEvent) Type() ecs.EventType { return ecs.EventAttributeChanged }

type HealthChangedEvent struct {
	EventMeta
	CharacterID types.EntityID `json:"characterId"`
	Previous    float64        `json:"previous"`
	Current     float64        `json:"current"`
}

func (HealthChangedEvent) Type() ecs.EventType { return ecs.EventHealthChanged }

// EquipmentChangedEvent - ключевое событие протокола пересчета:
// эмитится внутри того же вызова, что и мутация слота.
type EquipmentChangedEvent struct {
	EventMeta
	CharacterID types.EntityID  `json:"characterId"`
	Slot        enums.EquipSlot `json:"slot"`
	ItemID      types.EntityID  `json:"itemId"`
	Equipped    bool            `json:"equipped"` // true - надели, false - сняли
}

func (EquipmentChangedEvent) Type() ecs.EventType { return ecs.EventEquipmentChanged }

type BadgeEquippedEvent struct {
	EventMeta
	CharacterID types.EntityID `json:"characterId"`
	BadgeID     string         `json:"badgeId"`
}

func (BadgeEquippedEvent) Type() ecs.EventType { return ecs.EventBadgeEquipped }

type BadgeUnequippedEvent struct {
	EventMeta
	CharacterID types.EntityID `json:"characterId"`
	BadgeID     string         `json:"badgeId"`
}

func (BadgeUnequippedEvent) Type() ecs.EventType { return ecs.EventBadgeUnequipped }

type WorkStartedEvent struct {
	EventMeta
	CharacterID types.EntityID `json:"characterId"`
	SessionID   string         `json:"sessionId"`
	TypeID      string         `json:"typeId"`
}

func (WorkStartedEvent) Type() ecs.EventType { return ecs.EventWorkStarted }

type WorkCompletedEvent struct {
	EventMeta
	CharacterID types.EntityID `json:"characterId"`
	SessionID   string         `json:"sessionId"`
	TypeID      string         `json:"typeId"`
	Resources   map[string]int `json:"resources"`
	Experience  int            `json:"experience"`
}

func (WorkCompletedEvent) Type() ecs.EventType { return ecs.EventWorkCompleted }

type WorkCancelledEvent struct {
	EventMeta
	CharacterID types.EntityID `json:"characterId"`
	SessionID   string         `json:"sessionId"`
	TypeID      string         `json:"typeId"`
	Ratio       float64        `json:"ratio"` // доля выполненного, [0..1]
	Resources   map[string]int `json:"resources"`
	Experience  int            `json:"experience"`
}

func (WorkCancelledEvent) Type() ecs.EventType { return ecs.EventWorkCancelled }

type CraftingStartedEvent struct {
	EventMeta
	CharacterID types.EntityID `json:"characterId"`
	SessionID   string         `json:"sessionId"`
	RecipeID    string         `json:"recipeId"`
}

func (CraftingStartedEvent) Type() ecs.EventType { return ecs.EventCraftingStarted }

type CraftingCompletedEvent struct {
	EventMeta
	CharacterID types.EntityID `json:"characterId"`
	SessionID   string         `json:"sessionId"`
	RecipeID    string         `json:"recipeId"`
	ItemID      string         `json:"itemId"` // каталожный ID продукта; сущность могла слиться со стопкой
	Rarity      enums.Rarity   `json:"rarity"`
	Experience  int            `json:"experience"`
}

func (CraftingCompletedEvent) Type() ecs.EventType { return ecs.EventCraftingCompleted }

type CraftingFailedEvent struct {
	EventMeta
	CharacterID types.EntityID `json:"characterId"`
	SessionID   string         `json:"sessionId"`
	RecipeID    string         `json:"recipeId"`
	Experience  int            `json:"experience"`
}

func (CraftingFailedEvent) Type() ecs.EventType { return ecs.EventCraftingFailed }

type CombatStartedEvent struct {
	EventMeta
	CombatID string           `json:"combatId"`
	PartyID  types.EntityID   `json:"partyId"`
	Heroes   []types.EntityID `json:"heroes"`
	Enemies  []types.EntityID `json:"enemies"`
}

func (CombatStartedEvent) Type() ecs.EventType { return ecs.EventCombatStarted }

type CombatEndedEvent struct {
	EventMeta
	CombatID         string           `json:"combatId"`
	PartyID          types.EntityID   `json:"partyId"`
	Victory          bool             `json:"victory"`
	Survivors        []types.EntityID `json:"survivors"`
	Casualties       []types.EntityID `json:"casualties"`
	EnemiesDefeated  int              `json:"enemiesDefeated"`
	ExperiencePerSur int              `json:"experiencePerSurvivor"`
}

func (CombatEndedEvent) Type() ecs.EventType { return ecs.EventCombatEnded }

type AchievementUnlockedEvent struct {
	EventMeta
	CharacterID   types.EntityID `json:"characterId"`
	AchievementID string         `json:"achievementId"`
	BadgeID       string         `json:"badgeId,omitempty"`
}

func (AchievementUnlockedEvent) Type() ecs.EventType { return ecs.EventAchievementUnlocked }

type CurrencyChangedEvent struct {
	EventMeta
	EntityID      types.EntityID             `json:"entityId"`
	Direction     enums.TransactionDirection `json:"direction"`
	Currency      enums.CurrencyKind         `json:"currency"`
	Amount        int                        `json:"amount"`
	Reason        string                     `json:"reason"`
	TransactionID string                     `json:"transactionId"`
}

func (CurrencyChangedEvent) Type() ecs.EventType { return ecs.EventCurrencyChanged }
