package systems

import (
	"time"

	"github.com/sirupsen/logrus"

	"homestead-server/internal/core/types"
	"homestead-server/internal/core/types/enums"
	"homestead-server/internal/data"
	"homestead-server/internal/domain"
	"homestead-server/internal/ecs"
	"homestead-server/pkg/logger"
)

// AttributeSystem - протокол немедленного пересчета производных
// характеристик.
//
// Любая мутация, влияющая на производные характеристики (экипировка,
// жетон, профессия, рост атрибутов), эмитит событие; система слушает
// его и пересчитывает DerivedStats затронутого персонажа синхронно,
// внутри того же вызова, что и мутация. Пересчет всегда полный -
// запись заменяется целиком, инкрементальных патчей нет, поэтому
// пропущенное событие снятия не оставляет дрейфа.
type AttributeSystem struct {
	ecs.BaseSystem
	jobs map[string]data.JobConfig
	log  *logrus.Entry
}

func NewAttributeSystem(base ecs.BaseSystem, jobs map[string]data.JobConfig) *AttributeSystem {
	s := &AttributeSystem{
		BaseSystem: base,
		jobs:       jobs,
		log:        logger.WithSystem("attribute_system"),
	}

	// Реактивные подписки: каждое из этих событий означает, что вход
	// функции производных характеристик изменился.
	recalc := func(id types.EntityID) { s.Recalculate(id) }
	s.Bus.Subscribe(ecs.EventEquipmentChanged, func(e ecs.Event) {
		recalc(e.(domain.EquipmentChangedEvent).CharacterID)
	})
	s.Bus.Subscribe(ecs.EventBadgeEquipped, func(e ecs.Event) {
		recalc(e.(domain.BadgeEquippedEvent).CharacterID)
	})
	s.Bus.Subscribe(ecs.EventBadgeUnequipped, func(e ecs.Event) {
		recalc(e.(domain.BadgeUnequippedEvent).CharacterID)
	})
	s.Bus.Subscribe(ecs.EventCharacterJobChanged, func(e ecs.Event) {
		recalc(e.(domain.CharacterJobChangedEvent).CharacterID)
	})
	s.Bus.Subscribe(ecs.EventAttributeChanged, func(e ecs.Event) {
		recalc(e.(domain.AttributeChangedEvent).CharacterID)
	})

	return s
}

func (s *AttributeSystem) Name() string { return "attributes" }

func (s *AttributeSystem) RequiredKinds() []ecs.Kind {
	return []ecs.Kind{domain.KindAttribute, domain.KindDerivedStats}
}

// Update - no-op: система чисто событийная.
func (s *AttributeSystem) Update(dt time.Duration) {}

// Recalculate полностью перестраивает DerivedStats сущности.
//
// Порядок детерминирован: база от атрибутов -> плоские модификаторы
// (слоты экипировки в фиксированном порядке, затем профессия, затем
// жетоны) -> процентные модификаторы в том же порядке сбора.
// Благодаря полному пересчету снятие предмета в точности отменяет
// эффект надевания.
//
// Отсутствие Attribute или DerivedStats - no-op, не ошибка: такие
// сущности не носят экипировку, и попадание сюда деградирует мягко.
func (s *AttributeSystem) Recalculate(id types.EntityID) {
	attr := ecs.GetAs[domain.AttributeComponent](s.Store, id, domain.KindAttribute)
	if attr == nil || !s.Store.Has(id, domain.KindDerivedStats) {
		s.log.WithField("entity_id", id.String()).Debug("Recalculate skipped: missing attribute or derived stats.")
		return
	}

	// 1. База от атрибутов
	ds := baselineStats(*attr)
	maxHealth := domain.BaseHealth + float64(attr.Strength)*domain.HealthPerStrength
	maxMana := domain.BaseMana + float64(attr.Wisdom)*domain.ManaPerWisdom

	// 2. Сбор модификаторов в детерминированном порядке
	var flats, percents []domain.StatModifier
	collect := func(mods []domain.StatModifier) {
		for _, m := range mods {
			if m.Type == domain.ModifierFlat {
				flats = append(flats, m)
			} else {
				percents = append(percents, m)
			}
		}
	}

	// 2а. Экипировка: слоты в фиксированном порядке
	if eq := ecs.GetAs[domain.EquipmentComponent](s.Store, id, domain.KindEquipment); eq != nil {
		for _, slot := range enums.AllEquipSlots {
			itemID := eq.Slots[slot]
			if itemID.IsNil() {
				continue
			}
			item := ecs.GetAs[domain.ItemComponent](s.Store, itemID, domain.KindItem)
			if item == nil {
				continue
			}
			collect(item.Modifiers)
			ds.Weight += item.Weight
			ds.Volume += item.Volume
		}
	}

	// 2б. Бонус профессии
	if info := ecs.GetAs[domain.CharacterInfoComponent](s.Store, id, domain.KindCharacterInfo); info != nil && info.JobID != "" {
		if job, ok := s.jobs[info.JobID]; ok {
			collect(data.ToModifiers(job.StatBonus))
		}
	}

	// 2в. Жетоны
	if badges := ecs.GetAs[domain.BadgesComponent](s.Store, id, domain.KindBadges); badges != nil {
		for _, b := range badges.Equipped {
			collect(b.Modifiers)
		}
	}

	// 3. Применение: сначала все плоские, затем все процентные
	for _, m := range flats {
		applyFlat(&ds, &maxHealth, &maxMana, m)
	}
	for _, m := range percents {
		applyPercent(&ds, &maxHealth, &maxMana, m)
	}

	// 4. Полная замена записи
	s.Store.Set(id, &ds)

	// 5. Пересчет максимумов здоровья/маны: текущее значение
	// сохраняется и только ограничивается новым максимумом сверху.
	if hp := ecs.GetAs[domain.HealthComponent](s.Store, id, domain.KindHealth); hp != nil {
		hp.Maximum = maxHealth
		if hp.Current > hp.Maximum {
			hp.Current = hp.Maximum
		}
	}
	if mana := ecs.GetAs[domain.ManaComponent](s.Store, id, domain.KindMana); mana != nil {
		mana.Maximum = maxMana
		if mana.Current > mana.Maximum {
			mana.Current = mana.Maximum
		}
	}
}

// ModifyAttributes изменяет базовые атрибуты (зелья, события сюжета)
// и немедленно запускает пересчет через attribute_changed.
func (s *AttributeSystem) ModifyAttributes(id types.EntityID, dStr, dAgi, dWis, dTech int, now time.Time) bool {
	attr := ecs.GetAs[domain.AttributeComponent](s.Store, id, domain.KindAttribute)
	if attr == nil {
		return false
	}
	attr.Strength += dStr
	attr.Agility += dAgi
	attr.Wisdom += dWis
	attr.Technique += dTech

	s.Bus.Emit(domain.AttributeChangedEvent{EventMeta: domain.Meta(now), CharacterID: id})
	return true
}

// baselineStats - фиксированная формула атрибуты -> базовые
// производные характеристики (до модификаторов).
func baselineStats(attr domain.AttributeComponent) domain.DerivedStatsComponent {
	str := float64(attr.Strength)
	agi := float64(attr.Agility)
	wis := float64(attr.Wisdom)
	tech := float64(attr.Technique)

	return domain.DerivedStatsComponent{
		Attack:      domain.BaseAttack + str*domain.AttackPerStrength + tech*domain.AttackPerTechnique,
		Defense:     domain.BaseDefense + str*domain.DefensePerStrength + agi*domain.DefensePerAgility,
		MoveSpeed:   domain.BaseMoveSpeed + agi*domain.MoveSpeedPerAgi,
		DodgeRate:   agi * domain.DodgePerAgility,
		CritRate:    domain.BaseCritRate + tech*domain.CritRatePerTech,
		CritDamage:  domain.BaseCritDamage + tech*domain.CritDamagePerTech,
		Resistance:  wis * domain.ResistPerWisdom,
		MagicPower:  wis * domain.MagicPerWisdom,
		CarryWeight: domain.BaseCarryWeight + str*domain.CarryPerStrength,
		HitRate:     domain.BaseHitRate + tech*domain.HitRatePerTech,
		ExpRate:     domain.BaseExpRate,
		HealthRegen: domain.BaseHealthRegen + str*domain.HealthRegenPerStr,
		ManaRegen:   domain.BaseManaRegen + wis*domain.ManaRegenPerWisdom,
	}
}

// applyFlat прибавляет плоский модификатор к нужной характеристике.
func applyFlat(ds *domain.DerivedStatsComponent, maxHealth, maxMana *float64, m domain.StatModifier) {
	switch m.Stat {
	case domain.StatAttack:
		ds.Attack += m.Value
	case domain.StatDefense:
		ds.Defense += m.Value
	case domain.StatMoveSpeed:
		ds.MoveSpeed += m.Value
	case domain.StatDodgeRate:
		ds.DodgeRate += m.Value
	case domain.StatCritRate:
		ds.CritRate += m.Value
	case domain.StatCritDamage:
		ds.CritDamage += m.Value
	case domain.StatResistance:
		ds.Resistance += m.Value
	case domain.StatMagicPower:
		ds.MagicPower += m.Value
	case domain.StatCarryWeight:
		ds.CarryWeight += m.Value
	case domain.StatHitRate:
		ds.HitRate += m.Value
	case domain.StatExpRate:
		ds.ExpRate += m.Value
	case domain.StatHealthRegen:
		ds.HealthRegen += m.Value
	case domain.StatManaRegen:
		ds.ManaRegen += m.Value
	case domain.StatMaxHealth:
		*maxHealth += m.Value
	case domain.StatMaxMana:
		*maxMana += m.Value
	}
}

// applyPercent применяет процентный модификатор мультипликативно
// к уже набранному значению характеристики.
func applyPercent(ds *domain.DerivedStatsComponent, maxHealth, maxMana *float64, m domain.StatModifier) {
	factor := 1 + m.Value/100
	switch m.Stat {
	case domain.StatAttack:
		ds.Attack *= factor
	case domain.StatDefense:
		ds.Defense *= factor
	case domain.StatMoveSpeed:
		ds.MoveSpeed *= factor
	case domain.StatDodgeRate:
		ds.DodgeRate *= factor
	case domain.StatCritRate:
		ds.CritRate *= factor
	case domain.StatCritDamage:
		ds.CritDamage *= factor
	case domain.StatResistance:
		ds.Resistance *= factor
	case domain.StatMagicPower:
		ds.MagicPower *= factor
	case domain.StatCarryWeight:
		ds.CarryWeight *= factor
	case domain.StatHitRate:
		ds.HitRate *= factor
	case domain.StatExpRate:
		ds.ExpRate *= factor
	case domain.StatHealthRegen:
		ds.HealthRegen *= factor
	case domain.StatManaRegen:
		ds.ManaRegen *= factor
	case domain.StatMaxHealth:
		*maxHealth *= factor
	case domain.StatMaxMana:
		*maxMana *= factor
	}
}
