package systems

import (
	"testing"

	"homestead-server/internal/core/types"
	"homestead-server/internal/domain"
	"homestead-server/internal/ecs"
)

type collectionRig struct {
	*testRig
	Collection *CollectionSystem
}

func newCollectionRig() *collectionRig {
	r := newTestRig()
	return &collectionRig{
		testRig:    r,
		Collection: NewCollectionSystem(r.Base, testAchievements(), r.Clock.Now),
	}
}

// Достижение открывается по порогу счетчика и ровно один раз.
func TestAchievementUnlocksOnce(t *testing.T) {
	r := newCollectionRig()
	hero := r.newHero()

	unlocks := 0
	r.Bus.Subscribe(ecs.EventAchievementUnlocked, func(e ecs.Event) { unlocks++ })

	// hard_worker: порог 2 завершенных работы
	r.Collection.Increment(hero, CounterWorkCompleted, 1)
	if r.Collection.IsUnlocked(hero, "hard_worker") {
		t.Fatal("Achievement unlocked below threshold")
	}
	r.Collection.Increment(hero, CounterWorkCompleted, 1)
	if !r.Collection.IsUnlocked(hero, "hard_worker") {
		t.Fatal("Achievement not unlocked at threshold")
	}

	// Дальнейший рост счетчика не переоткрывает достижение
	r.Collection.Increment(hero, CounterWorkCompleted, 5)
	if unlocks != 1 {
		t.Errorf("Unlock emitted %d times, want once", unlocks)
	}
	if got := r.Collection.Counter(hero, CounterWorkCompleted); got != 7 {
		t.Errorf("Counter value is wrong. Got %d, want %d", got, 7)
	}
}

// Счетчики персонажей независимы.
func TestCountersPerCharacter(t *testing.T) {
	r := newCollectionRig()
	first := r.newHero()
	second := r.newHero()

	r.Collection.Increment(first, CounterEnemiesDefeated, 3)
	if got := r.Collection.Counter(second, CounterEnemiesDefeated); got != 0 {
		t.Errorf("Counter leaked between characters. Got %d, want %d", got, 0)
	}
}

// Наградной жетон попадает в коллекцию; надевание дает бонус через
// пересчет, снятие возвращает все как было.
func TestBadgeEquipGivesBonus(t *testing.T) {
	r := newCollectionRig()
	hero := r.newHero()
	base := r.stats(hero).Attack

	// first_blood выдает hunter_badge (+2 атаки)
	r.Collection.Increment(hero, CounterEnemiesDefeated, 1)
	owned := r.Collection.OwnedBadges(hero)
	if len(owned) != 1 || owned[0].ID != "hunter_badge" {
		t.Fatalf("Owned badges are wrong: %+v", owned)
	}
	// Сам факт владения бонуса не дает
	if got := r.stats(hero).Attack; got != base {
		t.Fatalf("Unequipped badge affected stats. Got %v, want %v", got, base)
	}

	if !r.Collection.EquipBadge(hero, "hunter_badge") {
		t.Fatal("Badge equip failed")
	}
	if got := r.stats(hero).Attack; got != base+2 {
		t.Errorf("Badge bonus missing. Got %v, want %v", got, base+2)
	}
	// Повторное надевание - no-op
	if r.Collection.EquipBadge(hero, "hunter_badge") {
		t.Error("Double badge equip succeeded")
	}

	if !r.Collection.UnequipBadge(hero, "hunter_badge") {
		t.Fatal("Badge unequip failed")
	}
	if got := r.stats(hero).Attack; got != base {
		t.Errorf("Stats not restored after badge unequip. Got %v, want %v", got, base)
	}
}

func TestEquipBadgeNotOwned(t *testing.T) {
	r := newCollectionRig()
	hero := r.newHero()

	if r.Collection.EquipBadge(hero, "hunter_badge") {
		t.Error("Equipped a badge the character does not own")
	}
}

// Счетчики растут от событий шины без явных вызовов.
func TestCountersDrivenByEvents(t *testing.T) {
	r := newCollectionRig()
	hero := r.newHero()

	r.Bus.Emit(domain.WorkCompletedEvent{
		EventMeta:   domain.Meta(r.Clock.Now()),
		CharacterID: hero,
		SessionID:   "s1",
		TypeID:      "mining",
	})
	r.Bus.Emit(domain.CraftingCompletedEvent{
		EventMeta:   domain.Meta(r.Clock.Now()),
		CharacterID: hero,
		SessionID:   "s2",
		RecipeID:    "smelt_iron",
	})
	r.Bus.Emit(domain.CombatEndedEvent{
		EventMeta:       domain.Meta(r.Clock.Now()),
		CombatID:        "c1",
		Victory:         true,
		Survivors:       []types.EntityID{hero},
		EnemiesDefeated: 2,
	})

	if got := r.Collection.Counter(hero, CounterWorkCompleted); got != 1 {
		t.Errorf("Work counter is wrong. Got %d, want %d", got, 1)
	}
	if got := r.Collection.Counter(hero, CounterItemsCrafted); got != 1 {
		t.Errorf("Craft counter is wrong. Got %d, want %d", got, 1)
	}
	if got := r.Collection.Counter(hero, CounterEnemiesDefeated); got != 2 {
		t.Errorf("Enemies counter is wrong. Got %d, want %d", got, 2)
	}
}
