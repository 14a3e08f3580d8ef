package domain

import (
	"time"

	"homestead-server/internal/core/types"
	"homestead-server/internal/core/types/enums"
	"homestead-server/internal/ecs"
)

// --- СЕССИИ (работа и крафт) ---
//
// Обе сессии - вариации одной формы: проверка возможности -> создание
// записи -> прогресс по времени -> завершение/отмена с расчетом итога.

// WorkAssignment - одна сессия работы.
type WorkAssignment struct {
	SessionID  string              `json:"sessionId"`
	TypeID     string              `json:"typeId"`
	StartedAt  time.Time           `json:"startedAt"`
	Duration   time.Duration       `json:"duration"`
	Efficiency float64             `json:"efficiency"`
	Status     enums.SessionStatus `json:"status"`

	// Итоги, заполняются при завершении/отмене
	ResourcesGenerated map[string]int `json:"resourcesGenerated,omitempty"`
	ExperienceGained   int            `json:"experienceGained"`
	SettledAt          time.Time      `json:"settledAt,omitempty"`
}

// WorkComponent - назначение работы персонажа.
// Инвариант: не более одной активной сессии; завершенные уходят
// в append-only историю.
type WorkComponent struct {
	Active  *WorkAssignment  `json:"active,omitempty"`
	History []WorkAssignment `json:"history"`
}

func (c *WorkComponent) Kind() ecs.Kind { return KindWork }

// ConsumedMaterial - материал, списанный при старте крафта.
type ConsumedMaterial struct {
	ItemID   string `json:"itemId"`
	Quantity int    `json:"quantity"`
}

// CraftingSession - одна сессия крафта.
// Снапшоты (SuccessRate, EstimatedQuality, SkillLevel) фиксируются
// в момент старта: смена экипировки во время крафта на него не влияет.
type CraftingSession struct {
	SessionID string              `json:"sessionId"`
	RecipeID  string              `json:"recipeId"`
	CrafterID types.EntityID      `json:"crafterId"`
	Consumed  []ConsumedMaterial  `json:"consumed"`
	StartedAt time.Time           `json:"startedAt"`
	Duration  time.Duration       `json:"duration"`
	Status    enums.SessionStatus `json:"status"`

	SuccessRate      float64 `json:"successRate"`
	EstimatedQuality int     `json:"estimatedQuality"`
	SkillLevel       int     `json:"skillLevel"`

	// Итоги
	ProducedItemID   string       `json:"producedItemId,omitempty"`
	ProducedRarity   enums.Rarity `json:"producedRarity,omitempty"`
	ExperienceGained int          `json:"experienceGained"`
	SettledAt        time.Time    `json:"settledAt,omitempty"`
}

// CraftingComponent - крафт персонажа.
// Инвариант: не более одной активной сессии на крафтера.
type CraftingComponent struct {
	Active  *CraftingSession  `json:"active,omitempty"`
	History []CraftingSession `json:"history"`
}

func (c *CraftingComponent) Kind() ecs.Kind { return KindCrafting }
