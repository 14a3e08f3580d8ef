package domain

import "strings"

// StatID - адрес конкретной производной характеристики.
// Используется модификаторами предметов, профессий и жетонов.
type StatID uint8

const (
	StatUnknown StatID = iota
	StatAttack
	StatDefense
	StatMoveSpeed
	StatDodgeRate
	StatCritRate
	StatCritDamage
	StatResistance
	StatMagicPower
	StatCarryWeight
	StatHitRate
	StatExpRate
	StatHealthRegen
	StatManaRegen
	StatMaxHealth
	StatMaxMana
)

var statIDToString = map[StatID]string{
	StatAttack:      "attack",
	StatDefense:     "defense",
	StatMoveSpeed:   "move_speed",
	StatDodgeRate:   "dodge_rate",
	StatCritRate:    "crit_rate",
	StatCritDamage:  "crit_damage",
	StatResistance:  "resistance",
	StatMagicPower:  "magic_power",
	StatCarryWeight: "carry_weight",
	StatHitRate:     "hit_rate",
	StatExpRate:     "exp_rate",
	StatHealthRegen: "health_regen",
	StatManaRegen:   "mana_regen",
	StatMaxHealth:   "max_health",
	StatMaxMana:     "max_mana",
}

var statIDStringToType = map[string]StatID{}

func init() {
	for id, s := range statIDToString {
		statIDStringToType[s] = id
	}
}

func (s StatID) String() string {
	if val, ok := statIDToString[s]; ok {
		return val
	}
	return "unknown"
}

// ParseStatID конвертирует строку из конфига в StatID.
func ParseStatID(s string) StatID {
	lower := strings.ToLower(strings.TrimSpace(s))
	if val, ok := statIDStringToType[lower]; ok {
		return val
	}
	return StatUnknown
}

// ModifierType определяет, как модификатор применяется к характеристике.
type ModifierType uint8

const (
	// ModifierFlat - плоская прибавка (+20 атаки)
	ModifierFlat ModifierType = iota + 1
	// ModifierPercent - процентная прибавка (+10% атаки),
	// применяется мультипликативно к уже набранному значению
	ModifierPercent
)

func (t ModifierType) String() string {
	switch t {
	case ModifierFlat:
		return "flat"
	case ModifierPercent:
		return "percent"
	}
	return "unknown"
}

func ParseModifierType(s string) ModifierType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "flat":
		return ModifierFlat
	case "percent":
		return ModifierPercent
	}
	return 0
}

// StatModifier - один модификатор характеристики.
// Несколько модификаторов на одну характеристику складываются:
// сначала все плоские, затем все процентные (см. пересчет в systems).
type StatModifier struct {
	Stat  StatID       `json:"stat"`
	Type  ModifierType `json:"type"`
	Value float64      `json:"value"`
}
