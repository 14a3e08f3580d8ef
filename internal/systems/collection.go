package systems

import (
	"time"

	"github.com/sirupsen/logrus"

	"homestead-server/internal/core/types"
	"homestead-server/internal/data"
	"homestead-server/internal/domain"
	"homestead-server/internal/ecs"
	"homestead-server/pkg/logger"
)

// Имена счетчиков, которые система ведет сама по событиям шины.
// Таблица достижений ссылается на них по этим строкам.
const (
	CounterEnemiesDefeated = "enemies_defeated"
	CounterWorkCompleted   = "work_completed"
	CounterItemsCrafted    = "items_crafted"
	CounterLevelsGained    = "levels_gained"
)

// CollectionSystem - достижения и жетоны.
//
// Система пассивно слушает шину и ведет счетчики по персонажам.
// Достижение срабатывает один раз, когда счетчик достигает порога;
// наградной жетон попадает в коллекцию персонажа, откуда его можно
// надеть. Надетый жетон дает бонусы через тот же протокол пересчета,
// что и экипировка.
type CollectionSystem struct {
	ecs.BaseSystem
	achievements []data.AchievementConfig
	counters     map[types.EntityID]map[string]int
	unlocked     map[types.EntityID]map[string]bool
	owned        map[types.EntityID][]domain.Badge // коллекция: заработанные, но не обязательно надетые
	clock        func() time.Time
	log          *logrus.Entry
}

func NewCollectionSystem(base ecs.BaseSystem, achievements []data.AchievementConfig, clock func() time.Time) *CollectionSystem {
	if clock == nil {
		clock = time.Now
	}
	s := &CollectionSystem{
		BaseSystem:   base,
		achievements: achievements,
		counters:     make(map[types.EntityID]map[string]int),
		unlocked:     make(map[types.EntityID]map[string]bool),
		owned:        make(map[types.EntityID][]domain.Badge),
		clock:        clock,
		log:          logger.WithSystem("collection_system"),
	}

	s.Bus.Subscribe(ecs.EventCombatEnded, func(e ecs.Event) {
		ev := e.(domain.CombatEndedEvent)
		if !ev.Victory {
			return
		}
		for _, id := range ev.Survivors {
			s.Increment(id, CounterEnemiesDefeated, ev.EnemiesDefeated)
		}
	})
	s.Bus.Subscribe(ecs.EventWorkCompleted, func(e ecs.Event) {
		s.Increment(e.(domain.WorkCompletedEvent).CharacterID, CounterWorkCompleted, 1)
	})
	s.Bus.Subscribe(ecs.EventCraftingCompleted, func(e ecs.Event) {
		s.Increment(e.(domain.CraftingCompletedEvent).CharacterID, CounterItemsCrafted, 1)
	})
	s.Bus.Subscribe(ecs.EventCharacterLevelUp, func(e ecs.Event) {
		s.Increment(e.(domain.CharacterLevelUpEvent).CharacterID, CounterLevelsGained, 1)
	})

	return s
}

func (s *CollectionSystem) Name() string { return "collection" }

func (s *CollectionSystem) RequiredKinds() []ecs.Kind {
	return []ecs.Kind{domain.KindBadges}
}

// Update - no-op: система чисто событийная.
func (s *CollectionSystem) Update(dt time.Duration) {}

// Increment наращивает счетчик персонажа и проверяет пороги
// достижений. Delta <= 0 игнорируется.
func (s *CollectionSystem) Increment(character types.EntityID, counter string, delta int) {
	if delta <= 0 {
		return
	}
	byName, ok := s.counters[character]
	if !ok {
		byName = make(map[string]int)
		s.counters[character] = byName
	}
	byName[counter] += delta
	s.checkThresholds(character, counter, byName[counter])
}

// Counter возвращает значение счетчика персонажа.
func (s *CollectionSystem) Counter(character types.EntityID, counter string) int {
	return s.counters[character][counter]
}

// checkThresholds разблокирует все достижения по счетчику, чей порог
// достигнут. Каждое - не более одного раза за жизнь персонажа.
func (s *CollectionSystem) checkThresholds(character types.EntityID, counter string, value int) {
	for _, a := range s.achievements {
		if a.Counter != counter || value < a.Threshold {
			continue
		}
		if s.unlocked[character][a.ID] {
			continue
		}
		s.unlock(character, a)
	}
}

func (s *CollectionSystem) unlock(character types.EntityID, a data.AchievementConfig) {
	byID, ok := s.unlocked[character]
	if !ok {
		byID = make(map[string]bool)
		s.unlocked[character] = byID
	}
	byID[a.ID] = true

	badgeID := ""
	if a.Badge.ID != "" {
		badge := a.Badge.ToBadge()
		s.owned[character] = append(s.owned[character], badge)
		badgeID = badge.ID
	}

	s.Bus.Emit(domain.AchievementUnlockedEvent{
		EventMeta:     domain.Meta(s.clock()),
		CharacterID:   character,
		AchievementID: a.ID,
		BadgeID:       badgeID,
	})

	s.log.WithFields(logrus.Fields{
		"character":   character.String(),
		"achievement": a.ID,
		"badge":       badgeID,
	}).Info("Achievement unlocked.")
}

// IsUnlocked проверяет, открыто ли достижение у персонажа.
func (s *CollectionSystem) IsUnlocked(character types.EntityID, achievementID string) bool {
	return s.unlocked[character][achievementID]
}

// OwnedBadges возвращает заработанные жетоны персонажа.
func (s *CollectionSystem) OwnedBadges(character types.EntityID) []domain.Badge {
	return s.owned[character]
}

// EquipBadge надевает заработанный жетон. Бонусы жетона вступают в
// силу немедленно через пересчет производных характеристик.
func (s *CollectionSystem) EquipBadge(character types.EntityID, badgeID string) bool {
	var badge *domain.Badge
	for i := range s.owned[character] {
		if s.owned[character][i].ID == badgeID {
			badge = &s.owned[character][i]
			break
		}
	}
	if badge == nil {
		s.log.WithFields(logrus.Fields{
			"character": character.String(),
			"badge":     badgeID,
		}).Warn("Badge equip rejected: not owned.")
		return false
	}

	badges := ecs.GetAs[domain.BadgesComponent](s.Store, character, domain.KindBadges)
	if badges == nil {
		badges = &domain.BadgesComponent{}
		s.Store.Set(character, badges)
	}
	for _, b := range badges.Equipped {
		if b.ID == badgeID {
			return false // уже надет
		}
	}

	badges.Equipped = append(badges.Equipped, *badge)
	s.Bus.Emit(domain.BadgeEquippedEvent{
		EventMeta:   domain.Meta(s.clock()),
		CharacterID: character,
		BadgeID:     badgeID,
	})
	return true
}

// UnequipBadge снимает жетон; он остается в коллекции.
func (s *CollectionSystem) UnequipBadge(character types.EntityID, badgeID string) bool {
	badges := ecs.GetAs[domain.BadgesComponent](s.Store, character, domain.KindBadges)
	if badges == nil {
		return false
	}
	for i, b := range badges.Equipped {
		if b.ID == badgeID {
			badges.Equipped = append(badges.Equipped[:i], badges.Equipped[i+1:]...)
			s.Bus.Emit(domain.BadgeUnequippedEvent{
				EventMeta:   domain.Meta(s.clock()),
				CharacterID: character,
				BadgeID:     badgeID,
			})
			return true
		}
	}
	return false
}
