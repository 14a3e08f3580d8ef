package domain

// Базовые формулы производных характеристик.
// Здоровье и мана фиксированы дизайном, остальные коэффициенты - наш
// выбор баланса (см. DESIGN.md), структура слоев при этом неизменна:
// база от атрибутов -> плоские модификаторы -> процентные.
const (
	BaseHealth        = 100.0
	HealthPerStrength = 5.0
	BaseMana          = 50.0
	ManaPerWisdom     = 3.0

	BaseAttack         = 5.0
	AttackPerStrength  = 2.0
	AttackPerTechnique = 1.0

	BaseDefense        = 3.0
	DefensePerStrength = 1.0
	DefensePerAgility  = 1.0

	BaseMoveSpeed      = 10.0
	MoveSpeedPerAgi    = 2.0
	DodgePerAgility    = 0.5
	BaseCritRate       = 5.0
	CritRatePerTech    = 0.5
	BaseCritDamage     = 150.0
	CritDamagePerTech  = 1.0
	ResistPerWisdom    = 1.0
	MagicPerWisdom     = 2.0
	BaseCarryWeight    = 20.0
	CarryPerStrength   = 3.0
	BaseHitRate        = 90.0
	HitRatePerTech     = 0.5
	BaseExpRate        = 100.0
	BaseHealthRegen    = 1.0
	HealthRegenPerStr  = 0.1
	BaseManaRegen      = 1.0
	ManaRegenPerWisdom = 0.1
)

// Боевые константы
const (
	// Разброс урона: множитель равномерно из [0.9, 1.1]
	DamageVarianceMin = 0.9
	DamageVarianceMax = 1.1

	// Нижний порог урона: любой удар наносит хотя бы 1
	MinDamage = 1.0

	// Снижение урона защитой: reduction = defense / (defense + DefenseSoftCap)
	DefenseSoftCap = 100.0

	// Опыт за врага: уровень врага * ExpPerEnemyLevel
	ExpPerEnemyLevel = 10

	// Штраф за размер отряда: каждый участник сверх первого снимает
	// PartySizePenaltyStep от множителя, но не ниже PartySizePenaltyFloor
	PartySizePenaltyStep  = 0.1
	PartySizePenaltyFloor = 0.5
)

// Прогрессия уровней
const (
	// Порог следующего уровня: Level * ExpToNextPerLevel
	ExpToNextPerLevel = 100

	// Рост уровня дает +1 к каждому базовому атрибуту
	AttributeGainPerLevel = 1
)

// Работа
const (
	WorkBaseEfficiency    = 1.0
	WorkAttrBonusPerPoint = 0.05 // за каждое очко атрибута сверх минимума
	WorkLevelBonus        = 0.02 // за уровень персонажа
	WorkMinEfficiency     = 0.1
	WorkMaxEfficiency     = 2.0
)

// Крафт
const (
	CraftMinSuccessRate = 0.05
	CraftMaxSuccessRate = 0.95
	// Провал крафта дает половину опыта рецепта (политика: частичный
	// опыт за попытку, прогресс навыка - только за успех).
	CraftFailExpRatio = 0.5

	CraftSkillRateBonus    = 0.02  // к шансу успеха за уровень навыка
	CraftQualityRateBonus  = 0.001 // к шансу успеха за пункт качества материалов
	CraftQualityPerPoint   = 0.3   // вклад качества материалов в качество результата
	CraftSkillQualityBonus = 2.0   // вклад уровня навыка в качество результата
	CraftMaxQuality        = 100
	CraftMinQuality        = 1
)

// Инвентарь
const (
	DefaultInventorySlots = 20
	DefaultMaxStack       = 99
)
