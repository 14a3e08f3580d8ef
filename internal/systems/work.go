package systems

import (
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"homestead-server/internal/core/types"
	"homestead-server/internal/core/types/enums"
	"homestead-server/internal/data"
	"homestead-server/internal/domain"
	"homestead-server/internal/ecs"
	"homestead-server/pkg/logger"
)

// WorkSystem - назначения на работу.
//
// Персонаж занимает работу целиком: одна активная сессия, статус
// WORKING, взаимное исключение с крафтом и боем через проверку
// статуса. Итог (ресурсы, опыт) начисляется один раз при завершении
// или отмене; отмена платит пропорционально отработанному.
type WorkSystem struct {
	ecs.BaseSystem
	types     map[string]data.WorkTypeConfig
	inventory *InventorySystem
	clock     func() time.Time
	log       *logrus.Entry
}

func NewWorkSystem(base ecs.BaseSystem, workTypes map[string]data.WorkTypeConfig, inventory *InventorySystem, clock func() time.Time) *WorkSystem {
	if clock == nil {
		clock = time.Now
	}
	return &WorkSystem{
		BaseSystem: base,
		types:      workTypes,
		inventory:  inventory,
		clock:      clock,
		log:        logger.WithSystem("work_system"),
	}
}

func (s *WorkSystem) Name() string { return "work" }

func (s *WorkSystem) RequiredKinds() []ecs.Kind {
	return []ecs.Kind{domain.KindWork, domain.KindCharacterInfo}
}

// AssignWork назначает персонажа на работу на заданный срок.
// Возвращает ID сессии.
func (s *WorkSystem) AssignWork(character types.EntityID, typeID string, duration time.Duration) (string, OpResult) {
	wt, ok := s.types[typeID]
	if !ok {
		return "", Fail(FailurePrecondition, "неизвестный вид работы")
	}
	if duration <= 0 {
		return "", Fail(FailurePrecondition, "длительность должна быть положительной")
	}

	info := ecs.GetAs[domain.CharacterInfoComponent](s.Store, character, domain.KindCharacterInfo)
	if info == nil {
		return "", Fail(FailurePrecondition, "персонаж не существует")
	}
	// Взаимное исключение занятий: работа берется только из AVAILABLE
	if info.Status != enums.StatusAvailable {
		return "", Fail(FailureConflict, "персонаж занят: "+info.Status.String())
	}

	attr := ecs.GetAs[domain.AttributeComponent](s.Store, character, domain.KindAttribute)
	if attr == nil {
		return "", Fail(FailurePrecondition, "у персонажа нет атрибутов")
	}
	for name, min := range wt.MinAttributes {
		if data.AttributeValue(*attr, name) < min {
			return "", Fail(FailurePrecondition, "не хватает атрибута: "+name)
		}
	}
	if wt.RequiredBadge != "" && !hasBadge(s.Store, character, wt.RequiredBadge) {
		return "", Fail(FailurePrecondition, "требуется жетон: "+wt.RequiredBadge)
	}

	work := ecs.GetAs[domain.WorkComponent](s.Store, character, domain.KindWork)
	if work == nil {
		work = &domain.WorkComponent{}
		s.Store.Set(character, work)
	}
	if work.Active != nil {
		return "", Fail(FailureConflict, "у персонажа уже есть активная работа")
	}

	now := s.clock()
	session := &domain.WorkAssignment{
		SessionID:  uuid.NewString(),
		TypeID:     typeID,
		StartedAt:  now,
		Duration:   duration,
		Efficiency: s.efficiency(wt, *attr, info.Level),
		Status:     enums.SessionInProgress,
	}
	work.Active = session
	setStatus(s.Store, s.Bus, character, enums.StatusWorking, now)

	s.Bus.Emit(domain.WorkStartedEvent{
		EventMeta:   domain.Meta(now),
		CharacterID: character,
		SessionID:   session.SessionID,
		TypeID:      typeID,
	})

	s.log.WithFields(logrus.Fields{
		"character":  character.String(),
		"session_id": session.SessionID,
		"type_id":    typeID,
		"efficiency": session.Efficiency,
	}).Info("Work assigned.")

	return session.SessionID, Success()
}

// efficiency - множитель выработки: база + бонус за атрибуты сверх
// минимума + бонус за уровень, кламп в [0.1, 2.0].
func (s *WorkSystem) efficiency(wt data.WorkTypeConfig, attr domain.AttributeComponent, level int) float64 {
	eff := domain.WorkBaseEfficiency
	for name, min := range wt.MinAttributes {
		if excess := data.AttributeValue(attr, name) - min; excess > 0 {
			eff += float64(excess) * domain.WorkAttrBonusPerPoint
		}
	}
	eff += float64(level) * domain.WorkLevelBonus

	if eff < domain.WorkMinEfficiency {
		eff = domain.WorkMinEfficiency
	}
	if eff > domain.WorkMaxEfficiency {
		eff = domain.WorkMaxEfficiency
	}
	return eff
}

// Update завершает сессии, у которых вышел срок.
func (s *WorkSystem) Update(dt time.Duration) {
	now := s.clock()
	for _, id := range s.Store.Query(domain.KindWork) {
		work := ecs.GetAs[domain.WorkComponent](s.Store, id, domain.KindWork)
		if work == nil || work.Active == nil {
			continue
		}
		if now.Sub(work.Active.StartedAt) >= work.Active.Duration {
			s.settle(id, work, 1.0, enums.SessionCompleted, now)
		}
	}
}

// CancelWork досрочно прерывает работу. Выработка и опыт начисляются
// пропорционально отработанной доле срока.
func (s *WorkSystem) CancelWork(character types.EntityID) OpResult {
	work := ecs.GetAs[domain.WorkComponent](s.Store, character, domain.KindWork)
	if work == nil || work.Active == nil {
		return Fail(FailurePrecondition, "у персонажа нет активной работы")
	}

	now := s.clock()
	ratio := float64(now.Sub(work.Active.StartedAt)) / float64(work.Active.Duration)
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}

	s.settle(character, work, ratio, enums.SessionCancelled, now)
	return Success()
}

// ActiveAssignment возвращает текущую сессию персонажа или nil.
func (s *WorkSystem) ActiveAssignment(character types.EntityID) *domain.WorkAssignment {
	work := ecs.GetAs[domain.WorkComponent](s.Store, character, domain.KindWork)
	if work == nil {
		return nil
	}
	return work.Active
}

// settle - единственная точка начисления итогов сессии.
//
// Идемпотентность обеспечивается структурно: сессия здесь снимается
// с Active и уходит в историю, второго вызова для нее не бывает.
func (s *WorkSystem) settle(character types.EntityID, work *domain.WorkComponent, ratio float64, status enums.SessionStatus, now time.Time) {
	session := work.Active
	wt := s.types[session.TypeID]

	hours := session.Duration.Hours() * ratio * session.Efficiency

	resources := make(map[string]int)
	for _, y := range wt.Yields {
		amount := int(y.PerHour * hours)
		if amount <= 0 {
			continue
		}
		if !s.inventory.AddByCatalog(character, y.ItemID, amount, 0, enums.RarityCommon) {
			s.log.WithFields(logrus.Fields{
				"character": character.String(),
				"item_id":   y.ItemID,
				"amount":    amount,
			}).Warn("Work yield lost: inventory full or unknown item.")
			continue
		}
		resources[y.ItemID] = amount
	}
	experience := int(float64(wt.ExperiencePerHour) * hours)

	session.Status = status
	session.ResourcesGenerated = resources
	session.ExperienceGained = experience
	session.SettledAt = now

	work.Active = nil
	work.History = append(work.History, *session)

	setStatus(s.Store, s.Bus, character, enums.StatusAvailable, now)
	grantExperience(s.Store, s.Bus, character, experience, now)

	if status == enums.SessionCancelled {
		s.Bus.Emit(domain.WorkCancelledEvent{
			EventMeta:   domain.Meta(now),
			CharacterID: character,
			SessionID:   session.SessionID,
			TypeID:      session.TypeID,
			Ratio:       ratio,
			Resources:   resources,
			Experience:  experience,
		})
	} else {
		s.Bus.Emit(domain.WorkCompletedEvent{
			EventMeta:   domain.Meta(now),
			CharacterID: character,
			SessionID:   session.SessionID,
			TypeID:      session.TypeID,
			Resources:   resources,
			Experience:  experience,
		})
	}

	s.log.WithFields(logrus.Fields{
		"character":  character.String(),
		"session_id": session.SessionID,
		"status":     status.String(),
		"experience": experience,
	}).Info("Work settled.")
}

// hasBadge проверяет, надет ли на персонажа жетон с данным ID.
func hasBadge(store *ecs.Store, character types.EntityID, badgeID string) bool {
	badges := ecs.GetAs[domain.BadgesComponent](store, character, domain.KindBadges)
	if badges == nil {
		return false
	}
	for _, b := range badges.Equipped {
		if b.ID == badgeID {
			return true
		}
	}
	return false
}
