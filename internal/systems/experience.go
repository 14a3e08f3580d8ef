package systems

import (
	"time"

	"homestead-server/internal/core/types"
	"homestead-server/internal/domain"
	"homestead-server/internal/ecs"
)

// grantExperience начисляет опыт с переносом через уровни.
//
// Пока накопленный опыт достигает порога, порог вычитается, уровень
// растет, порог пересчитывается. Каждый взятый уровень дает +1 ко всем
// базовым атрибутам и эмитит character_level_up; изменение атрибутов
// эмитит attribute_changed, на которое система атрибутов отвечает
// немедленным пересчетом производных характеристик.
//
// Возвращает количество взятых уровней.
func grantExperience(store *ecs.Store, bus *ecs.Bus, id types.EntityID, amount int, now time.Time) int {
	if amount <= 0 {
		return 0
	}

	info := ecs.GetAs[domain.CharacterInfoComponent](store, id, domain.KindCharacterInfo)
	if info == nil {
		return 0
	}

	info.Experience += amount

	levels := 0
	for info.ExperienceToNext > 0 && info.Experience >= info.ExperienceToNext {
		info.Experience -= info.ExperienceToNext
		info.Level++
		info.ExperienceToNext = info.Level * domain.ExpToNextPerLevel
		levels++

		// Рост атрибутов на уровне
		if attr := ecs.GetAs[domain.AttributeComponent](store, id, domain.KindAttribute); attr != nil {
			attr.Strength += domain.AttributeGainPerLevel
			attr.Agility += domain.AttributeGainPerLevel
			attr.Wisdom += domain.AttributeGainPerLevel
			attr.Technique += domain.AttributeGainPerLevel

			bus.Emit(domain.AttributeChangedEvent{EventMeta: domain.Meta(now), CharacterID: id})
		}

		bus.Emit(domain.CharacterLevelUpEvent{
			EventMeta:   domain.Meta(now),
			CharacterID: id,
			NewLevel:    info.Level,
		})
	}

	return levels
}
