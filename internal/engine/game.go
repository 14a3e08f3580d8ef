package engine

import (
	"time"

	"github.com/sirupsen/logrus"

	"homestead-server/internal/core/types"
	"homestead-server/internal/core/types/enums"
	"homestead-server/internal/data"
	"homestead-server/internal/domain"
	"homestead-server/internal/ecs"
	"homestead-server/internal/systems"
	"homestead-server/pkg/logger"
	"homestead-server/pkg/rng"
)

// Game собирает движок симуляции: реестр, хранилище, шину и все
// игровые системы, связанные через нее.
//
// Порядок тика фиксирован: работа -> крафт -> бой. Событийные системы
// (атрибуты, экипировка, коллекция, валюта) в тике не участвуют - они
// срабатывают синхронно на события мутирующих вызовов.
type Game struct {
	Registry *ecs.Registry
	Store    *ecs.Store
	Bus      *ecs.Bus
	Bundle   *data.Bundle

	Attributes *systems.AttributeSystem
	Equipment  *systems.EquipmentSystem
	Inventory  *systems.InventorySystem
	Combat     *systems.CombatSystem
	Work       *systems.WorkSystem
	Crafting   *systems.CraftingSystem
	Jobs       *systems.JobSystem
	Currency   *systems.CurrencySystem
	Collection *systems.CollectionSystem

	ticking []ecs.System // системы, получающие Update, в порядке тика

	inventorySlots int
	clock          func() time.Time
	log            *logrus.Entry
}

// NewGame собирает движок. random и clock подставляются снаружи:
// боевой запуск дает rng.NewFromTime() и time.Now, тесты -
// детерминированные заглушки.
func NewGame(bundle *data.Bundle, random rng.Source, clock func() time.Time, cfg Config) *Game {
	if clock == nil {
		clock = time.Now
	}
	if random == nil {
		random = rng.New(cfg.Seed)
	}
	slots := cfg.InventorySlots
	if slots <= 0 {
		slots = domain.DefaultInventorySlots
	}

	store := ecs.NewStore()
	registry := ecs.NewRegistry(store)
	bus := ecs.NewBus()
	base := ecs.NewBaseSystem(registry, store, bus)

	g := &Game{
		Registry: registry,
		Store:    store,
		Bus:      bus,
		Bundle:   bundle,

		// Система атрибутов подписывается первой: ее пересчет должен
		// отработать раньше любых других реакций на то же событие.
		Attributes: systems.NewAttributeSystem(base, bundle.Jobs),
		Inventory:  systems.NewInventorySystem(base, bundle.Items),
		Equipment:  systems.NewEquipmentSystem(base, clock),
		Combat:     systems.NewCombatSystem(base, random, clock),
		Jobs:       systems.NewJobSystem(base, bundle.Jobs, clock),
		Currency:   systems.NewCurrencySystem(base, clock),
		Collection: systems.NewCollectionSystem(base, bundle.Achievements, clock),

		inventorySlots: slots,
		clock:          clock,
		log:            logger.WithSystem("game"),
	}
	g.Work = systems.NewWorkSystem(base, bundle.WorkTypes, g.Inventory, clock)
	g.Crafting = systems.NewCraftingSystem(base, bundle.Recipes, g.Inventory, random, clock)

	g.ticking = []ecs.System{g.Work, g.Crafting, g.Combat}
	return g
}

// Update продвигает симуляцию на один тик.
func (g *Game) Update(dt time.Duration) {
	for _, s := range g.ticking {
		s.Update(dt)
	}
}

// RecruitCharacter создает полностью оснащенного персонажа: атрибуты,
// производные характеристики, здоровье/мана на максимуме, пустые
// экипировка, инвентарь и кошелек.
func (g *Game) RecruitCharacter(name string, attrs domain.AttributeComponent) types.EntityID {
	id := g.Registry.Create(enums.EntityTypeCharacter)

	g.Store.Set(id, &attrs)
	g.Store.Set(id, &domain.DerivedStatsComponent{})
	g.Store.Set(id, &domain.HealthComponent{})
	g.Store.Set(id, &domain.ManaComponent{})
	g.Store.Set(id, &domain.CharacterInfoComponent{
		Name:             name,
		Status:           enums.StatusAvailable,
		Level:            1,
		ExperienceToNext: domain.ExpToNextPerLevel,
	})
	g.Store.Set(id, domain.NewEquipmentComponent())
	g.Store.Set(id, &domain.SkillsComponent{})
	g.Store.Set(id, &domain.BadgesComponent{})
	g.Store.Set(id, domain.NewInventoryComponent(g.inventorySlots))
	g.Store.Set(id, domain.NewWalletComponent())
	g.Store.Set(id, &domain.WorkComponent{})
	g.Store.Set(id, &domain.CraftingComponent{})

	// Первичный пересчет заполняет производные характеристики и
	// максимумы; текущие здоровье и мана стартуют с максимума.
	g.Attributes.Recalculate(id)
	if hp := ecs.GetAs[domain.HealthComponent](g.Store, id, domain.KindHealth); hp != nil {
		hp.Current = hp.Maximum
	}
	if mana := ecs.GetAs[domain.ManaComponent](g.Store, id, domain.KindMana); mana != nil {
		mana.Current = mana.Maximum
	}

	g.Bus.Emit(domain.CharacterRecruitedEvent{
		EventMeta:   domain.Meta(g.clock()),
		CharacterID: id,
		Name:        name,
	})

	g.log.WithFields(logrus.Fields{
		"character": id.String(),
		"name":      name,
	}).Info("Character recruited.")

	return id
}

// CreateParty собирает отряд из живых персонажей.
func (g *Game) CreateParty(name string, members []types.EntityID) (types.EntityID, systems.OpResult) {
	if len(members) == 0 {
		return types.NilEntityID, systems.Fail(systems.FailurePrecondition, "отряд не может быть пустым")
	}
	for _, m := range members {
		if !g.Registry.Exists(m) || !g.Store.Has(m, domain.KindCharacterInfo) {
			return types.NilEntityID, systems.Fail(systems.FailurePrecondition, "участник не является персонажем")
		}
	}

	id := g.Registry.Create(enums.EntityTypeParty)
	g.Store.Set(id, &domain.PartyComponent{
		Name:    name,
		Members: append([]types.EntityID(nil), members...),
		Active:  true,
	})
	return id, systems.Success()
}

// DisbandParty распускает отряд. Отряд в бою распустить нельзя.
func (g *Game) DisbandParty(partyID types.EntityID) systems.OpResult {
	party := ecs.GetAs[domain.PartyComponent](g.Store, partyID, domain.KindParty)
	if party == nil {
		return systems.Fail(systems.FailurePrecondition, "отряд не существует")
	}
	if g.Store.Has(partyID, domain.KindCombatState) {
		return systems.Fail(systems.FailureConflict, "отряд в бою")
	}
	g.Registry.Destroy(partyID)
	return systems.Success()
}
