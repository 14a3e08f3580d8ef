package domain

import "homestead-server/internal/ecs"

// Закрытый набор видов компонентов.
// Инвариант хранилища: не более одного компонента каждого вида на сущность.
const (
	KindAttribute ecs.Kind = iota + 1
	KindDerivedStats
	KindHealth
	KindMana
	KindCharacterInfo
	KindEquipment
	KindSkills
	KindBadges
	KindInventory
	KindWallet
	KindItem
	KindWork
	KindCrafting
	KindCombatState
	KindParty
)
