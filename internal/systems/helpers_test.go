package systems

import (
	"time"

	"homestead-server/internal/core/types"
	"homestead-server/internal/core/types/enums"
	"homestead-server/internal/data"
	"homestead-server/internal/domain"
	"homestead-server/internal/ecs"
)

// fakeClock - управляемое время для систем с длительностями.
type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// testWorld - минимальная сборка реестра, хранилища и шины для тестов
// отдельных систем.
type testWorld struct {
	Registry *ecs.Registry
	Store    *ecs.Store
	Bus      *ecs.Bus
	Base     ecs.BaseSystem
	Clock    *fakeClock
}

func newTestWorld() *testWorld {
	store := ecs.NewStore()
	registry := ecs.NewRegistry(store)
	bus := ecs.NewBus()
	return &testWorld{
		Registry: registry,
		Store:    store,
		Bus:      bus,
		Base:     ecs.NewBaseSystem(registry, store, bus),
		Clock:    newFakeClock(),
	}
}

// newCharacter создает персонажа с полным набором компонентов,
// как это делает движок при вербовке.
func (w *testWorld) newCharacter(name string, attrs domain.AttributeComponent) types.EntityID {
	id := w.Registry.Create(enums.EntityTypeCharacter)
	w.Store.Set(id, &attrs)
	w.Store.Set(id, &domain.DerivedStatsComponent{})
	w.Store.Set(id, &domain.HealthComponent{})
	w.Store.Set(id, &domain.ManaComponent{})
	w.Store.Set(id, &domain.CharacterInfoComponent{
		Name:             name,
		Status:           enums.StatusAvailable,
		Level:            1,
		ExperienceToNext: domain.ExpToNextPerLevel,
	})
	w.Store.Set(id, domain.NewEquipmentComponent())
	w.Store.Set(id, &domain.SkillsComponent{})
	w.Store.Set(id, &domain.BadgesComponent{})
	w.Store.Set(id, domain.NewInventoryComponent(domain.DefaultInventorySlots))
	w.Store.Set(id, domain.NewWalletComponent())
	w.Store.Set(id, &domain.WorkComponent{})
	w.Store.Set(id, &domain.CraftingComponent{})
	return id
}

func (w *testWorld) health(id types.EntityID) *domain.HealthComponent {
	return ecs.GetAs[domain.HealthComponent](w.Store, id, domain.KindHealth)
}

func (w *testWorld) stats(id types.EntityID) *domain.DerivedStatsComponent {
	return ecs.GetAs[domain.DerivedStatsComponent](w.Store, id, domain.KindDerivedStats)
}

func (w *testWorld) info(id types.EntityID) *domain.CharacterInfoComponent {
	return ecs.GetAs[domain.CharacterInfoComponent](w.Store, id, domain.KindCharacterInfo)
}

// --- ФИКСТУРЫ ДАННЫХ ---

func flatMod(stat string, value float64) data.ModifierConfig {
	return data.ModifierConfig{Stat: stat, Type: "flat", Value: value}
}

func percentMod(stat string, value float64) data.ModifierConfig {
	return data.ModifierConfig{Stat: stat, Type: "percent", Value: value}
}

// testCatalog - каталог предметов для тестов экипировки и крафта.
func testCatalog() map[string]data.ItemTemplate {
	return map[string]data.ItemTemplate{
		"iron_sword": {
			ID: "iron_sword", Name: "Железный меч", Category: "equipment", Slot: "weapon",
			Quality: 50, MaxStack: 1, Weight: 5, Volume: 2,
			Modifiers: []data.ModifierConfig{flatMod("attack", 10)},
		},
		"steel_sword": {
			ID: "steel_sword", Name: "Стальной меч", Category: "equipment", Slot: "weapon",
			Quality: 60, MaxStack: 1, Weight: 6, Volume: 2,
			Modifiers: []data.ModifierConfig{flatMod("attack", 30)},
		},
		"fine_sword": {
			ID: "fine_sword", Name: "Отличный меч", Category: "equipment", Slot: "weapon",
			Quality: 70, MaxStack: 1, Weight: 4, Volume: 2,
			Modifiers: []data.ModifierConfig{flatMod("attack", 25)},
		},
		"leather_armor": {
			ID: "leather_armor", Name: "Кожаный доспех", Category: "equipment", Slot: "armor",
			Quality: 40, MaxStack: 1, Weight: 8, Volume: 4,
			Modifiers: []data.ModifierConfig{flatMod("defense", 5), percentMod("max_health", 10)},
		},
		"iron_ore": {
			ID: "iron_ore", Name: "Железная руда", Category: "material",
			Quality: 50, MaxStack: 99, Weight: 1, Volume: 1,
		},
		"coal": {
			ID: "coal", Name: "Уголь", Category: "material",
			Quality: 50, MaxStack: 99, Weight: 0.5, Volume: 1,
		},
		"iron_ingot": {
			ID: "iron_ingot", Name: "Железный слиток", Category: "material",
			Quality: 50, MaxStack: 99, Weight: 2, Volume: 1,
		},
		"hammer": {
			ID: "hammer", Name: "Молот", Category: "misc",
			Quality: 50, MaxStack: 1, Weight: 3, Volume: 1,
		},
	}
}

func testWorkTypes() map[string]data.WorkTypeConfig {
	return map[string]data.WorkTypeConfig{
		"mining": {
			ID: "mining", Name: "Добыча руды",
			MinAttributes: map[string]int{"strength": 8},
			Yields: []data.ResourceYield{
				{ItemID: "iron_ore", PerHour: 10},
				{ItemID: "coal", PerHour: 4},
			},
			ExperiencePerHour: 20,
		},
		"scouting": {
			ID: "scouting", Name: "Разведка",
			MinAttributes:     map[string]int{"agility": 12},
			Yields:            []data.ResourceYield{{ItemID: "coal", PerHour: 2}},
			ExperiencePerHour: 30,
		},
	}
}

func testRecipes() map[string]data.RecipeConfig {
	return map[string]data.RecipeConfig{
		"smelt_iron": {
			ID: "smelt_iron", Name: "Выплавка железа",
			Materials: []data.MaterialRequirement{
				{ItemID: "iron_ore", Quantity: 2},
				{ItemID: "coal", Quantity: 1},
			},
			Result:          data.RecipeResult{ItemID: "iron_ingot", Quantity: 1, BaseQuality: 30},
			BaseSuccessRate: 0.6,
			DurationMs:      60_000,
			Experience:      40,
			SkillID:         "smithing",
			SkillUpChance:   1.0,
		},
		"forge_sword": {
			ID: "forge_sword", Name: "Ковка меча",
			Materials: []data.MaterialRequirement{
				{ItemID: "iron_ingot", Quantity: 3, MinQuality: 20},
			},
			Requirements: []data.CraftRequirement{
				{Kind: "tool", ID: "hammer"},
				{Kind: "skill", ID: "smithing", Level: 2},
			},
			Result: data.RecipeResult{ItemID: "iron_sword", Quantity: 1, BaseQuality: 40},
			RarityTable: []data.RarityChance{
				{Rarity: "RARE", BaseChance: 0.1, SkillBonus: 0.01},
			},
			BaseSuccessRate: 0.5,
			DurationMs:      120_000,
			Experience:      100,
			SkillID:         "smithing",
		},
	}
}

func testJobs() map[string]data.JobConfig {
	return map[string]data.JobConfig{
		"miner": {
			ID: "miner", Name: "Шахтер",
			Requirements: data.JobRequirements{Level: 1, Attributes: map[string]int{"strength": 10}},
			StatBonus:    []data.ModifierConfig{flatMod("attack", 3)},
			Skills: []data.JobSkillConfig{
				{ID: "prospecting", Name: "Горное чутье", Kind: "passive", Level: 1},
			},
		},
		"blacksmith": {
			ID: "blacksmith", Name: "Кузнец",
			Requirements: data.JobRequirements{Level: 2, Attributes: map[string]int{"technique": 12}},
			StatBonus:    []data.ModifierConfig{percentMod("attack", 20)},
			Skills: []data.JobSkillConfig{
				{ID: "smithing", Name: "Кузнечное дело", Kind: "passive", Level: 2},
			},
		},
	}
}

func testEnemies() map[string]data.EnemyTemplate {
	return map[string]data.EnemyTemplate{
		"rat": {
			ID: "rat", Name: "Гигантская крыса", Level: 1,
			Strength: 2, Agility: 3, Wisdom: 1, Technique: 1,
		},
		"bandit": {
			ID: "bandit", Name: "Бандит", Level: 3,
			Strength: 8, Agility: 7, Wisdom: 4, Technique: 6,
		},
	}
}

func testAchievements() []data.AchievementConfig {
	return []data.AchievementConfig{
		{
			ID: "first_blood", Name: "Первая кровь",
			Counter: CounterEnemiesDefeated, Threshold: 1,
			Badge: data.BadgeConfig{
				ID: "hunter_badge", Name: "Жетон охотника",
				Modifiers: []data.ModifierConfig{flatMod("attack", 2)},
			},
		},
		{
			ID: "hard_worker", Name: "Трудяга",
			Counter: CounterWorkCompleted, Threshold: 2,
			Badge: data.BadgeConfig{ID: "worker_badge", Name: "Жетон трудяги"},
		},
	}
}
