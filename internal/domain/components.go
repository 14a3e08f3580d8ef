package domain

import (
	"homestead-server/internal/core/types"
	"homestead-server/internal/core/types/enums"
	"homestead-server/internal/ecs"
)

// --- КОМПОНЕНТЫ ---
//
// Все компоненты - чистые записи значений с json-тегами: сериализатор
// может снять снапшот хранилища и восстановить его без участия систем.
// Поведение (пересчет, клампы, переходы статусов) живет в internal/systems.

// AttributeComponent - базовые атрибуты персонажа.
// Экипировка и профессия их НИКОГДА не трогают: это источник истины,
// от которого считаются производные характеристики.
type AttributeComponent struct {
	Strength  int `json:"strength"`
	Agility   int `json:"agility"`
	Wisdom    int `json:"wisdom"`
	Technique int `json:"technique"`
}

func (c *AttributeComponent) Kind() ecs.Kind { return KindAttribute }

// DerivedStatsComponent - производные характеристики.
//
// Целиком функция от (атрибуты + профессия + экипировка + жетоны).
// Запись всегда перезаписывается пересчетом полностью, никогда не
// патчится инкрементально - поэтому дрейфа от потерянных событий нет.
type DerivedStatsComponent struct {
	Attack      float64 `json:"attack"`
	Defense     float64 `json:"defense"`
	MoveSpeed   float64 `json:"moveSpeed"`
	DodgeRate   float64 `json:"dodgeRate"`
	CritRate    float64 `json:"critRate"`
	CritDamage  float64 `json:"critDamage"`
	Resistance  float64 `json:"resistance"`
	MagicPower  float64 `json:"magicPower"`
	CarryWeight float64 `json:"carryWeight"`
	HitRate     float64 `json:"hitRate"`
	ExpRate     float64 `json:"expRate"`
	HealthRegen float64 `json:"healthRegen"`
	ManaRegen   float64 `json:"manaRegen"`
	Weight      float64 `json:"weight"`
	Volume      float64 `json:"volume"`
}

func (c *DerivedStatsComponent) Kind() ecs.Kind { return KindDerivedStats }

// HealthComponent - здоровье. Инвариант: 0 <= Current <= Maximum.
type HealthComponent struct {
	Current float64 `json:"current"`
	Maximum float64 `json:"maximum"`
}

func (c *HealthComponent) Kind() ecs.Kind { return KindHealth }

// ManaComponent - мана. Инвариант: 0 <= Current <= Maximum.
type ManaComponent struct {
	Current float64 `json:"current"`
	Maximum float64 `json:"maximum"`
}

func (c *ManaComponent) Kind() ecs.Kind { return KindMana }

// CharacterInfoComponent - имя, статус, уровень и профессия персонажа.
type CharacterInfoComponent struct {
	Name             string                `json:"name"`
	Status           enums.CharacterStatus `json:"status"`
	Level            int                   `json:"level"`
	Experience       int                   `json:"experience"`
	ExperienceToNext int                   `json:"experienceToNext"`
	JobID            string                `json:"jobId"`
}

func (c *CharacterInfoComponent) Kind() ecs.Kind { return KindCharacterInfo }

// EquipmentComponent - четыре именованных слота экипировки.
//
// Ссылки на предметы слабые: жизненным циклом предмета владеет
// инвентарь, слот лишь отмечает «этот предмет надет сюда».
// NilEntityID означает пустой слот.
type EquipmentComponent struct {
	Slots map[enums.EquipSlot]types.EntityID `json:"slots"`
}

func (c *EquipmentComponent) Kind() ecs.Kind { return KindEquipment }

// NewEquipmentComponent создает компонент с четырьмя пустыми слотами.
func NewEquipmentComponent() *EquipmentComponent {
	slots := make(map[enums.EquipSlot]types.EntityID, len(enums.AllEquipSlots))
	for _, s := range enums.AllEquipSlots {
		slots[s] = types.NilEntityID
	}
	return &EquipmentComponent{Slots: slots}
}

// Skill - один навык персонажа.
// FromJob отмечает навык, выданный текущей профессией: при смене
// профессии заменяются только такие навыки, остальные сохраняются.
type Skill struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Kind    enums.SkillKind `json:"kind"`
	Level   int             `json:"level"`
	FromJob bool            `json:"fromJob"`
}

// SkillsComponent - навыки персонажа.
type SkillsComponent struct {
	Skills []Skill `json:"skills"`
}

func (c *SkillsComponent) Kind() ecs.Kind { return KindSkills }

// Badge - жетон достижения с бонусами к характеристикам.
type Badge struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Modifiers []StatModifier `json:"modifiers"`
}

// BadgesComponent - надетые жетоны персонажа.
type BadgesComponent struct {
	Equipped []Badge `json:"equipped"`
}

func (c *BadgesComponent) Kind() ecs.Kind { return KindBadges }

// ItemComponent - данные предмета-сущности.
type ItemComponent struct {
	CatalogID string             `json:"catalogId"` // ID записи в каталоге предметов
	Name      string             `json:"name"`
	Category  enums.ItemCategory `json:"category"`
	Slot      enums.EquipSlot    `json:"slot,omitempty"` // для экипировки
	Quality   int                `json:"quality"`        // 1..100
	Rarity    enums.Rarity       `json:"rarity"`
	StackSize int                `json:"stackSize"`
	MaxStack  int                `json:"maxStack"`
	Weight    float64            `json:"weight"`
	Volume    float64            `json:"volume"`
	Modifiers []StatModifier     `json:"modifiers,omitempty"`
}

func (c *ItemComponent) Kind() ecs.Kind { return KindItem }

// InventoryComponent - слотовый инвентарь.
// Каждый слот хранит ссылку на предмет-сущность или NilEntityID.
type InventoryComponent struct {
	Slots    []types.EntityID `json:"slots"`
	MaxSlots int              `json:"maxSlots"`
}

func (c *InventoryComponent) Kind() ecs.Kind { return KindInventory }

// NewInventoryComponent создает пустой инвентарь на maxSlots ячеек.
func NewInventoryComponent(maxSlots int) *InventoryComponent {
	return &InventoryComponent{
		Slots:    make([]types.EntityID, maxSlots),
		MaxSlots: maxSlots,
	}
}

// WalletComponent - кошелек. Балансы никогда не уходят в минус.
type WalletComponent struct {
	Balances map[enums.CurrencyKind]int `json:"balances"`
}

func (c *WalletComponent) Kind() ecs.Kind { return KindWallet }

// NewWalletComponent создает пустой кошелек.
func NewWalletComponent() *WalletComponent {
	return &WalletComponent{Balances: make(map[enums.CurrencyKind]int)}
}

// PartyComponent - отряд: список персонажей-участников.
// Ссылки слабые, персонажи живут независимо от отряда.
type PartyComponent struct {
	Name    string           `json:"name"`
	Members []types.EntityID `json:"members"`
	Active  bool             `json:"active"`
}

func (c *PartyComponent) Kind() ecs.Kind { return KindParty }

// CombatStateComponent вешается на отряд на время боя.
// Детали боя (участники, очередность) живут в боевой системе,
// компонент хранит только привязку к инстансу.
type CombatStateComponent struct {
	CombatID string `json:"combatId"`
	Round    int    `json:"round"`
}

func (c *CombatStateComponent) Kind() ecs.Kind { return KindCombatState }
