package systems

import (
	"time"

	"homestead-server/internal/core/types"
	"homestead-server/internal/core/types/enums"
	"homestead-server/internal/domain"
	"homestead-server/internal/ecs"
)

// setStatus переводит персонажа в новый статус и эмитит
// character_status_changed. Повторная установка того же статуса - no-op.
func setStatus(store *ecs.Store, bus *ecs.Bus, id types.EntityID, status enums.CharacterStatus, now time.Time) {
	info := ecs.GetAs[domain.CharacterInfoComponent](store, id, domain.KindCharacterInfo)
	if info == nil || info.Status == status {
		return
	}

	prev := info.Status
	info.Status = status

	bus.Emit(domain.CharacterStatusChangedEvent{
		EventMeta:   domain.Meta(now),
		CharacterID: id,
		Previous:    prev,
		Current:     status,
	})
}
