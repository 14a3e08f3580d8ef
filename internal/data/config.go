package data

import (
	"homestead-server/internal/core/types/enums"
	"homestead-server/internal/domain"
)

// --- ЗАПИСИ КОНФИГУРАЦИИ ---
//
// Тонкие таблицы данных (профессии, виды работ, рецепты, каталог
// предметов, шаблоны врагов). Ядро требует от них только поиск по ID;
// записи, не прошедшие структурную валидацию, молча пропускаются
// загрузчиком (с warn-логом), а не роняют процесс.

// ModifierConfig - модификатор характеристики в сыром виде конфига.
type ModifierConfig struct {
	Stat  string  `yaml:"stat" json:"stat"`
	Type  string  `yaml:"type" json:"type"`
	Value float64 `yaml:"value" json:"value"`
}

// ToModifier конвертирует запись конфига в доменный модификатор.
// Возвращает false, если stat или type не распознаны.
func (m ModifierConfig) ToModifier() (domain.StatModifier, bool) {
	stat := domain.ParseStatID(m.Stat)
	typ := domain.ParseModifierType(m.Type)
	if stat == domain.StatUnknown || typ == 0 {
		return domain.StatModifier{}, false
	}
	return domain.StatModifier{Stat: stat, Type: typ, Value: m.Value}, true
}

// ToModifiers конвертирует список, отбрасывая нераспознанные записи.
func ToModifiers(configs []ModifierConfig) []domain.StatModifier {
	out := make([]domain.StatModifier, 0, len(configs))
	for _, c := range configs {
		if mod, ok := c.ToModifier(); ok {
			out = append(out, mod)
		}
	}
	return out
}

// ItemTemplate - запись каталога предметов.
type ItemTemplate struct {
	ID        string           `yaml:"id" json:"id"`
	Name      string           `yaml:"name" json:"name"`
	Category  string           `yaml:"category" json:"category"`
	Slot      string           `yaml:"slot,omitempty" json:"slot,omitempty"`
	Quality   int              `yaml:"quality" json:"quality"`
	MaxStack  int              `yaml:"maxStack" json:"maxStack"`
	Weight    float64          `yaml:"weight" json:"weight"`
	Volume    float64          `yaml:"volume" json:"volume"`
	Modifiers []ModifierConfig `yaml:"modifiers,omitempty" json:"modifiers,omitempty"`
}

func (t ItemTemplate) valid() bool {
	return t.ID != "" && enums.ParseItemCategory(t.Category) != enums.ItemCategoryUnknown
}

// JobSkillConfig - навык, выдаваемый профессией.
type JobSkillConfig struct {
	ID    string `yaml:"id" json:"id"`
	Name  string `yaml:"name" json:"name"`
	Kind  string `yaml:"kind" json:"kind"`
	Level int    `yaml:"level" json:"level"`
}

// JobRequirements - пороги для смены профессии.
type JobRequirements struct {
	Level      int            `yaml:"level" json:"level"`
	Attributes map[string]int `yaml:"attributes,omitempty" json:"attributes,omitempty"`
}

// JobConfig - профессия.
type JobConfig struct {
	ID           string           `yaml:"id" json:"id"`
	Name         string           `yaml:"name" json:"name"`
	Requirements JobRequirements  `yaml:"requirements" json:"requirements"`
	StatBonus    []ModifierConfig `yaml:"statBonus,omitempty" json:"statBonus,omitempty"`
	Skills       []JobSkillConfig `yaml:"skills,omitempty" json:"skills,omitempty"`
}

func (j JobConfig) valid() bool { return j.ID != "" }

// ResourceYield - вид ресурса, производимого работой.
type ResourceYield struct {
	ItemID  string  `yaml:"itemId" json:"itemId"`
	PerHour float64 `yaml:"perHour" json:"perHour"`
}

// WorkTypeConfig - вид работы.
type WorkTypeConfig struct {
	ID                string         `yaml:"id" json:"id"`
	Name              string         `yaml:"name" json:"name"`
	RequiredBadge     string         `yaml:"requiredBadge,omitempty" json:"requiredBadge,omitempty"`
	MinAttributes     map[string]int `yaml:"minAttributes,omitempty" json:"minAttributes,omitempty"`
	Yields            []ResourceYield `yaml:"yields" json:"yields"`
	ExperiencePerHour int            `yaml:"experiencePerHour" json:"experiencePerHour"`
}

func (w WorkTypeConfig) valid() bool {
	if w.ID == "" {
		return false
	}
	for _, y := range w.Yields {
		if y.ItemID == "" {
			return false
		}
	}
	return true
}

// MaterialRequirement - требование рецепта к материалу.
type MaterialRequirement struct {
	ItemID     string `json:"itemId"`
	Quantity   int    `json:"quantity"`
	MinQuality int    `json:"minQuality,omitempty"`
}

// CraftRequirement - нематериальное требование рецепта.
// Kind: "skill" | "tool" | "facility" | "job".
type CraftRequirement struct {
	Kind  string `json:"kind"`
	ID    string `json:"id"`
	Level int    `json:"level,omitempty"`
}

// RarityChance - строка взвешенной таблицы редкости.
// Итоговый шанс = BaseChance + QualityBonus*качество + SkillBonus*навык.
// Сумма шансов <= 1; остаток неявно уходит в обычную редкость.
type RarityChance struct {
	Rarity       string  `json:"rarity"`
	BaseChance   float64 `json:"baseChance"`
	QualityBonus float64 `json:"qualityBonus,omitempty"`
	SkillBonus   float64 `json:"skillBonus,omitempty"`
}

// RecipeResult - описание продукта рецепта.
type RecipeResult struct {
	ItemID      string `json:"itemId"`
	Quantity    int    `json:"quantity"`
	BaseQuality int    `json:"baseQuality"`
}

// RecipeConfig - рецепт крафта (исторически поставляется в JSON).
type RecipeConfig struct {
	ID              string                `json:"id"`
	Name            string                `json:"name"`
	Materials       []MaterialRequirement `json:"materials"`
	Requirements    []CraftRequirement    `json:"requirements,omitempty"`
	Result          RecipeResult          `json:"result"`
	RarityTable     []RarityChance        `json:"rarityTable,omitempty"`
	BaseSuccessRate float64               `json:"baseSuccessRate"`
	DurationMs      int64                 `json:"durationMs"`
	Experience      int                   `json:"experience"`
	SkillID         string                `json:"skillId,omitempty"`
	SkillUpChance   float64               `json:"skillUpChance,omitempty"`
}

func (r RecipeConfig) valid() bool {
	if r.ID == "" || r.Result.ItemID == "" {
		return false
	}
	for _, m := range r.Materials {
		// Требование с пустым itemId - структурный брак всей записи
		if m.ItemID == "" || m.Quantity <= 0 {
			return false
		}
	}
	return true
}

// EnemyTemplate - шаблон врага для синтеза эфемерных боевых сущностей.
type EnemyTemplate struct {
	ID        string `yaml:"id" json:"id"`
	Name      string `yaml:"name" json:"name"`
	Level     int    `yaml:"level" json:"level"`
	Strength  int    `yaml:"strength" json:"strength"`
	Agility   int    `yaml:"agility" json:"agility"`
	Wisdom    int    `yaml:"wisdom" json:"wisdom"`
	Technique int    `yaml:"technique" json:"technique"`
}

func (e EnemyTemplate) valid() bool { return e.ID != "" && e.Level > 0 }

// BadgeConfig - жетон, выдаваемый достижением.
type BadgeConfig struct {
	ID        string           `yaml:"id" json:"id"`
	Name      string           `yaml:"name" json:"name"`
	Modifiers []ModifierConfig `yaml:"modifiers,omitempty" json:"modifiers,omitempty"`
}

// ToBadge конвертирует конфиг в доменный жетон.
func (b BadgeConfig) ToBadge() domain.Badge {
	return domain.Badge{ID: b.ID, Name: b.Name, Modifiers: ToModifiers(b.Modifiers)}
}

// AchievementConfig - достижение коллекции.
// Counter - имя счетчика (enemies_defeated, work_completed, ...).
type AchievementConfig struct {
	ID        string      `yaml:"id" json:"id"`
	Name      string      `yaml:"name" json:"name"`
	Counter   string      `yaml:"counter" json:"counter"`
	Threshold int         `yaml:"threshold" json:"threshold"`
	Badge     BadgeConfig `yaml:"badge" json:"badge"`
}

func (a AchievementConfig) valid() bool {
	return a.ID != "" && a.Counter != "" && a.Threshold > 0
}

// AttributeValue достает значение атрибута по имени из конфигового
// словаря требований (strength/agility/wisdom/technique).
func AttributeValue(attr domain.AttributeComponent, name string) int {
	switch name {
	case "strength":
		return attr.Strength
	case "agility":
		return attr.Agility
	case "wisdom":
		return attr.Wisdom
	case "technique":
		return attr.Technique
	}
	return 0
}
