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

// JobSystem - профессии персонажей.
//
// Смена профессии атомарна: бонусы старой профессии перестают
// действовать, бонусы новой начинают, навыки от старой профессии
// заменяются навыками новой. Навыки, полученные НЕ от профессии
// (выученные, от жетонов), переживают смену.
type JobSystem struct {
	ecs.BaseSystem
	jobs  map[string]data.JobConfig
	clock func() time.Time
	log   *logrus.Entry
}

func NewJobSystem(base ecs.BaseSystem, jobs map[string]data.JobConfig, clock func() time.Time) *JobSystem {
	if clock == nil {
		clock = time.Now
	}
	return &JobSystem{
		BaseSystem: base,
		jobs:       jobs,
		clock:      clock,
		log:        logger.WithSystem("job_system"),
	}
}

func (s *JobSystem) Name() string { return "jobs" }

func (s *JobSystem) RequiredKinds() []ecs.Kind {
	return []ecs.Kind{domain.KindCharacterInfo}
}

// Update - no-op: система чисто событийная.
func (s *JobSystem) Update(dt time.Duration) {}

// CanChangeJob - чистая проверка требований профессии.
func (s *JobSystem) CanChangeJob(character types.EntityID, jobID string) OpResult {
	job, ok := s.jobs[jobID]
	if !ok {
		return Fail(FailurePrecondition, "неизвестная профессия")
	}
	info := ecs.GetAs[domain.CharacterInfoComponent](s.Store, character, domain.KindCharacterInfo)
	if info == nil {
		return Fail(FailurePrecondition, "персонаж не существует")
	}
	if info.JobID == jobID {
		return Fail(FailureConflict, "персонаж уже в этой профессии")
	}
	if info.Status != enums.StatusAvailable {
		return Fail(FailureConflict, "персонаж занят: "+info.Status.String())
	}
	if info.Level < job.Requirements.Level {
		return Fail(FailurePrecondition, "не хватает уровня")
	}
	attr := ecs.GetAs[domain.AttributeComponent](s.Store, character, domain.KindAttribute)
	if attr == nil {
		return Fail(FailurePrecondition, "у персонажа нет атрибутов")
	}
	for name, min := range job.Requirements.Attributes {
		if data.AttributeValue(*attr, name) < min {
			return Fail(FailurePrecondition, "не хватает атрибута: "+name)
		}
	}
	return Success()
}

// ChangeJob переводит персонажа в новую профессию.
//
// Порядок фиксирован: замена навыков -> смена JobID -> событие.
// Пересчет производных характеристик (снятие бонусов старой
// профессии, наложение новой) происходит в обработчике события, до
// возврата из этого вызова.
func (s *JobSystem) ChangeJob(character types.EntityID, jobID string) OpResult {
	if result := s.CanChangeJob(character, jobID); !result.OK {
		s.log.WithFields(logrus.Fields{
			"character": character.String(),
			"job_id":    jobID,
			"reason":    result.Reason,
		}).Warn("Job change rejected.")
		return result
	}

	job := s.jobs[jobID]
	info := ecs.GetAs[domain.CharacterInfoComponent](s.Store, character, domain.KindCharacterInfo)
	previous := info.JobID

	s.replaceJobSkills(character, job)
	info.JobID = jobID

	now := s.clock()
	s.Bus.Emit(domain.CharacterJobChangedEvent{
		EventMeta:     domain.Meta(now),
		CharacterID:   character,
		PreviousJobID: previous,
		JobID:         jobID,
	})

	s.log.WithFields(logrus.Fields{
		"character": character.String(),
		"previous":  previous,
		"job_id":    jobID,
	}).Info("Job changed.")

	return Success()
}

// replaceJobSkills убирает навыки старой профессии и добавляет навыки
// новой. Навыки с FromJob=false не трогаются.
func (s *JobSystem) replaceJobSkills(character types.EntityID, job data.JobConfig) {
	skills := ecs.GetAs[domain.SkillsComponent](s.Store, character, domain.KindSkills)
	if skills == nil {
		skills = &domain.SkillsComponent{}
		s.Store.Set(character, skills)
	}

	kept := make([]domain.Skill, 0, len(skills.Skills)+len(job.Skills))
	for _, sk := range skills.Skills {
		if !sk.FromJob {
			kept = append(kept, sk)
		}
	}
	for _, cfg := range job.Skills {
		level := cfg.Level
		if level <= 0 {
			level = 1
		}
		kept = append(kept, domain.Skill{
			ID:      cfg.ID,
			Name:    cfg.Name,
			Kind:    enums.ParseSkillKind(cfg.Kind),
			Level:   level,
			FromJob: true,
		})
	}
	skills.Skills = kept
}

// JobOf возвращает конфиг текущей профессии персонажа.
func (s *JobSystem) JobOf(character types.EntityID) (data.JobConfig, bool) {
	info := ecs.GetAs[domain.CharacterInfoComponent](s.Store, character, domain.KindCharacterInfo)
	if info == nil || info.JobID == "" {
		return data.JobConfig{}, false
	}
	job, ok := s.jobs[info.JobID]
	return job, ok
}
