package systems

import (
	"container/heap"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"homestead-server/internal/core/types"
	"homestead-server/internal/core/types/enums"
	"homestead-server/internal/data"
	"homestead-server/internal/domain"
	"homestead-server/internal/ecs"
	"homestead-server/pkg/logger"
	"homestead-server/pkg/rng"
)

// DamageResult - разбор одного удара. Все четыре поля заполняются
// всегда: потребителям нужно различать крит, блок и обычное попадание.
type DamageResult struct {
	RawDamage    float64 `json:"rawDamage"`
	IsCritical   bool    `json:"isCritical"`
	IsBlocked    bool    `json:"isBlocked"`
	ActualDamage float64 `json:"actualDamage"`
}

// CombatInfo - снапшот состояния боя для внешних потребителей.
type CombatInfo struct {
	CombatID     string           `json:"combatId"`
	PartyID      types.EntityID   `json:"partyId"`
	Round        int              `json:"round"`
	AliveHeroes  []types.EntityID `json:"aliveHeroes"`
	AliveEnemies []types.EntityID `json:"aliveEnemies"`
}

// combatInstance - один идущий бой. Живет только внутри системы;
// наружу утекают снапшоты и события.
type combatInstance struct {
	id      string
	partyID types.EntityID
	heroes  []types.EntityID
	enemies []types.EntityID
	queue   *turnQueue
	round   int
}

// CombatSystem - авторазрешаемые бои отрядов против синтезированных
// врагов.
//
// Враги - эфемерные сущности: создаются из шаблонов при старте боя и
// уничтожаются при его завершении. Очередность ходов - тиковая
// инициатива от MoveSpeed (быстрые ходят чаще). Каждый Update
// разыгрывает один раунд каждого идущего боя; условия конца
// перепроверяются после каждого удара, не по расписанию.
type CombatSystem struct {
	ecs.BaseSystem
	random    rng.Source
	clock     func() time.Time
	instances map[string]*combatInstance
	byParty   map[types.EntityID]string
	log       *logrus.Entry
}

func NewCombatSystem(base ecs.BaseSystem, random rng.Source, clock func() time.Time) *CombatSystem {
	if clock == nil {
		clock = time.Now
	}
	return &CombatSystem{
		BaseSystem: base,
		random:     random,
		clock:      clock,
		instances:  make(map[string]*combatInstance),
		byParty:    make(map[types.EntityID]string),
		log:        logger.WithSystem("combat_system"),
	}
}

func (s *CombatSystem) Name() string { return "combat" }

func (s *CombatSystem) RequiredKinds() []ecs.Kind {
	return []ecs.Kind{domain.KindHealth, domain.KindDerivedStats}
}

// StartCombat запускает бой отряда против набора шаблонов врагов.
// Возвращает ID боя. Отказ (пустой отряд, отряд уже в бою, нет живых
// бойцов) - OpResult с причиной, состояние мира не тронуто.
func (s *CombatSystem) StartCombat(partyID types.EntityID, encounter []data.EnemyTemplate) (string, OpResult) {
	party := ecs.GetAs[domain.PartyComponent](s.Store, partyID, domain.KindParty)
	if party == nil {
		return "", Fail(FailurePrecondition, "отряд не существует")
	}
	if !party.Active {
		return "", Fail(FailurePrecondition, "отряд неактивен")
	}
	if _, busy := s.byParty[partyID]; busy {
		return "", Fail(FailureConflict, "отряд уже в бою")
	}
	if len(encounter) == 0 {
		return "", Fail(FailurePrecondition, "пустой список врагов")
	}

	// Боеспособны только живые и свободные участники
	var heroes []types.EntityID
	for _, id := range party.Members {
		if !s.Registry.Exists(id) || !s.isAlive(id) {
			continue
		}
		info := ecs.GetAs[domain.CharacterInfoComponent](s.Store, id, domain.KindCharacterInfo)
		if info != nil && info.Status != enums.StatusAvailable {
			continue
		}
		heroes = append(heroes, id)
	}
	if len(heroes) == 0 {
		return "", Fail(FailurePrecondition, "в отряде нет боеспособных персонажей")
	}

	now := s.clock()
	combatID := uuid.NewString()

	// Синтез эфемерных боевых сущностей из шаблонов
	enemies := make([]types.EntityID, 0, len(encounter))
	for _, tpl := range encounter {
		enemies = append(enemies, s.spawnEnemy(tpl))
	}

	inst := &combatInstance{
		id:      combatID,
		partyID: partyID,
		heroes:  heroes,
		enemies: enemies,
	}
	all := make([]types.EntityID, 0, len(heroes)+len(enemies))
	all = append(all, heroes...)
	all = append(all, enemies...)
	inst.queue = newTurnQueue(all, s.moveSpeed, s.random)

	s.instances[combatID] = inst
	s.byParty[partyID] = combatID
	s.Store.Set(partyID, &domain.CombatStateComponent{CombatID: combatID})

	for _, id := range heroes {
		setStatus(s.Store, s.Bus, id, enums.StatusInCombat, now)
	}

	s.Bus.Emit(domain.CombatStartedEvent{
		EventMeta: domain.Meta(now),
		CombatID:  combatID,
		PartyID:   partyID,
		Heroes:    heroes,
		Enemies:   enemies,
	})

	s.log.WithFields(logrus.Fields{
		"combat_id": combatID,
		"party_id":  partyID.String(),
		"heroes":    len(heroes),
		"enemies":   len(enemies),
	}).Info("Combat started.")

	return combatID, Success()
}

// spawnEnemy создает боевую сущность врага из шаблона: атрибуты из
// таблицы, производные характеристики по тем же базовым формулам, что
// и у персонажей.
func (s *CombatSystem) spawnEnemy(tpl data.EnemyTemplate) types.EntityID {
	id := s.Registry.Create(enums.EntityTypeEnemy)

	attr := domain.AttributeComponent{
		Strength:  tpl.Strength,
		Agility:   tpl.Agility,
		Wisdom:    tpl.Wisdom,
		Technique: tpl.Technique,
	}
	ds := baselineStats(attr)
	maxHealth := domain.BaseHealth + float64(attr.Strength)*domain.HealthPerStrength

	s.Store.Set(id, &attr)
	s.Store.Set(id, &ds)
	s.Store.Set(id, &domain.HealthComponent{Current: maxHealth, Maximum: maxHealth})
	s.Store.Set(id, &domain.CharacterInfoComponent{
		Name:  tpl.Name,
		Level: tpl.Level,
	})
	return id
}

// Update разыгрывает по одному раунду каждого идущего боя.
func (s *CombatSystem) Update(dt time.Duration) {
	// Снапшот ключей: EndCombat внутри раунда мутирует s.instances
	ids := make([]string, 0, len(s.instances))
	for id := range s.instances {
		ids = append(ids, id)
	}
	for _, id := range ids {
		if inst, ok := s.instances[id]; ok {
			s.runRound(inst)
		}
	}
}

// runRound: раунд = столько действий, сколько бойцов живо на его
// начало. Инициатива тиковая, поэтому быстрый боец может получить в
// раунде два действия, а медленный - ни одного.
func (s *CombatSystem) runRound(inst *combatInstance) {
	inst.round++
	actions := s.countAlive(inst.heroes) + s.countAlive(inst.enemies)

	for i := 0; i < actions; i++ {
		if s.checkEnd(inst) {
			return
		}
		if inst.queue.Len() == 0 {
			break
		}
		item := (*inst.queue)[0]
		if !s.isAlive(item.ID) {
			heap.Remove(inst.queue, item.index)
			continue
		}
		s.performAction(inst, item.ID)
		inst.queue.reschedule(item, s.moveSpeed(item.ID))
	}
	s.checkEnd(inst)
}

// performAction: боец бьет случайную живую цель противоположной
// стороны.
func (s *CombatSystem) performAction(inst *combatInstance, attacker types.EntityID) {
	var pool []types.EntityID
	if contains(inst.heroes, attacker) {
		pool = aliveOf(inst.enemies, s.isAlive)
	} else {
		pool = aliveOf(inst.heroes, s.isAlive)
	}
	if len(pool) == 0 {
		return
	}
	target := pool[s.random.IntBetween(0, len(pool)-1)]

	result := s.CalculateDamage(attacker, target, 1)
	if s.ApplyDamage(target, result.ActualDamage) {
		inst.queue.remove(target)
	}
}

// CalculateDamage - чистый расчет удара attacker -> defender.
//
// Порядок: атака * множитель навыка * разброс [0.9, 1.1] -> бросок
// крита (CritRate/100, множитель CritDamage/100) -> снижение защитой
// defense/(defense+100) -> бросок блока (DodgeRate/100): успешный блок
// половинит уже сниженный урон -> нижний порог 1.
//
// skillMultiplier - множитель навыка/приема; 1 для обычной атаки.
func (s *CombatSystem) CalculateDamage(attacker, defender types.EntityID, skillMultiplier float64) DamageResult {
	atk := ecs.GetAs[domain.DerivedStatsComponent](s.Store, attacker, domain.KindDerivedStats)
	def := ecs.GetAs[domain.DerivedStatsComponent](s.Store, defender, domain.KindDerivedStats)
	if atk == nil {
		return DamageResult{}
	}
	if skillMultiplier <= 0 {
		skillMultiplier = 1
	}

	var block, defense float64
	if def != nil {
		block = def.DodgeRate
		defense = def.Defense
	}

	variance := domain.DamageVarianceMin + s.random.Float64()*(domain.DamageVarianceMax-domain.DamageVarianceMin)
	raw := atk.Attack * skillMultiplier * variance

	crit := s.random.Float64()*100 < atk.CritRate
	if crit {
		raw *= atk.CritDamage / 100
	}

	reduction := defense / (defense + domain.DefenseSoftCap)
	actual := raw * (1 - reduction)

	blocked := s.random.Float64()*100 < block
	if blocked {
		actual /= 2
	}
	if actual < domain.MinDamage {
		actual = domain.MinDamage
	}

	return DamageResult{
		RawDamage:    raw,
		IsCritical:   crit,
		IsBlocked:    blocked,
		ActualDamage: actual,
	}
}

// ApplyDamage списывает урон с клампом в ноль и возвращает, убил ли
// цель именно этот вызов. Пересечение нуля эмитит смерть ровно один
// раз и переводит цель в статус «ранен»: повторные удары по трупу -
// no-op без повторной смерти.
func (s *CombatSystem) ApplyDamage(target types.EntityID, damage float64) bool {
	hp := ecs.GetAs[domain.HealthComponent](s.Store, target, domain.KindHealth)
	if hp == nil || hp.Current <= 0 {
		return false
	}
	if damage < 0 {
		damage = 0
	}
	now := s.clock()
	previous := hp.Current
	hp.Current -= damage
	if hp.Current < 0 {
		hp.Current = 0
	}

	s.Bus.Emit(domain.HealthChangedEvent{
		EventMeta:   domain.Meta(now),
		CharacterID: target,
		Previous:    previous,
		Current:     hp.Current,
	})

	if hp.Current == 0 {
		setStatus(s.Store, s.Bus, target, enums.StatusInjured, now)
		s.Bus.Emit(domain.CharacterDeathEvent{EventMeta: domain.Meta(now), CharacterID: target})
		return true
	}
	return false
}

// checkEnd завершает бой, если одна из сторон выбита.
func (s *CombatSystem) checkEnd(inst *combatInstance) bool {
	if _, running := s.instances[inst.id]; !running {
		return true
	}
	heroesAlive := s.countAlive(inst.heroes)
	enemiesAlive := s.countAlive(inst.enemies)
	if heroesAlive > 0 && enemiesAlive > 0 {
		return false
	}
	s.endCombat(inst, heroesAlive > 0)
	return true
}

// endCombat подводит итог: опыт выжившим, статусы, зачистка врагов и
// инстанса.
//
// Опыт: сумма (уровень врага * 10) * штраф за размер отряда, поровну
// на каждого выжившего. Штраф: 1 - 0.1*(размер-1), не ниже 0.5 -
// большой отряд побеждает легче, но растет медленнее.
func (s *CombatSystem) endCombat(inst *combatInstance, victory bool) {
	now := s.clock()

	var survivors, casualties []types.EntityID
	for _, id := range inst.heroes {
		if s.isAlive(id) {
			survivors = append(survivors, id)
		} else {
			casualties = append(casualties, id)
		}
	}

	defeated := 0
	totalExp := 0
	for _, id := range inst.enemies {
		if !s.isAlive(id) {
			defeated++
			if info := ecs.GetAs[domain.CharacterInfoComponent](s.Store, id, domain.KindCharacterInfo); info != nil {
				totalExp += info.Level * domain.ExpPerEnemyLevel
			}
		}
	}

	expPerSurvivor := 0
	if victory && len(survivors) > 0 {
		penalty := 1 - domain.PartySizePenaltyStep*float64(len(inst.heroes)-1)
		if penalty < domain.PartySizePenaltyFloor {
			penalty = domain.PartySizePenaltyFloor
		}
		expPerSurvivor = int(float64(totalExp) * penalty / float64(len(survivors)))
		for _, id := range survivors {
			grantExperience(s.Store, s.Bus, id, expPerSurvivor, now)
		}
	}

	// Статусы: выжившие возвращаются в строй, павшие - в лазарет
	for _, id := range survivors {
		setStatus(s.Store, s.Bus, id, enums.StatusAvailable, now)
	}
	for _, id := range casualties {
		setStatus(s.Store, s.Bus, id, enums.StatusInjured, now)
	}

	// Эфемерные враги уничтожаются вместе с боем
	for _, id := range inst.enemies {
		s.Registry.Destroy(id)
	}

	s.Store.Remove(inst.partyID, domain.KindCombatState)
	delete(s.instances, inst.id)
	delete(s.byParty, inst.partyID)

	s.Bus.Emit(domain.CombatEndedEvent{
		EventMeta:        domain.Meta(now),
		CombatID:         inst.id,
		PartyID:          inst.partyID,
		Victory:          victory,
		Survivors:        survivors,
		Casualties:       casualties,
		EnemiesDefeated:  defeated,
		ExperiencePerSur: expPerSurvivor,
	})

	s.log.WithFields(logrus.Fields{
		"combat_id": inst.id,
		"victory":   victory,
		"rounds":    inst.round,
		"survivors": len(survivors),
	}).Info("Combat ended.")
}

// GetCombatInfo возвращает снапшот идущего боя или nil, если бой
// завершен или не существует.
func (s *CombatSystem) GetCombatInfo(combatID string) *CombatInfo {
	inst, ok := s.instances[combatID]
	if !ok {
		return nil
	}
	return &CombatInfo{
		CombatID:     inst.id,
		PartyID:      inst.partyID,
		Round:        inst.round,
		AliveHeroes:  aliveOf(inst.heroes, s.isAlive),
		AliveEnemies: aliveOf(inst.enemies, s.isAlive),
	}
}

// ActiveCombatID возвращает ID боя отряда, если отряд сейчас воюет.
func (s *CombatSystem) ActiveCombatID(partyID types.EntityID) (string, bool) {
	id, ok := s.byParty[partyID]
	return id, ok
}

// --- ВНУТРЕННИЕ ХЕЛПЕРЫ ---

func (s *CombatSystem) isAlive(id types.EntityID) bool {
	hp := ecs.GetAs[domain.HealthComponent](s.Store, id, domain.KindHealth)
	return hp != nil && hp.Current > 0
}

func (s *CombatSystem) moveSpeed(id types.EntityID) float64 {
	if ds := ecs.GetAs[domain.DerivedStatsComponent](s.Store, id, domain.KindDerivedStats); ds != nil {
		return ds.MoveSpeed
	}
	return 1
}

func (s *CombatSystem) countAlive(ids []types.EntityID) int {
	n := 0
	for _, id := range ids {
		if s.isAlive(id) {
			n++
		}
	}
	return n
}

func aliveOf(ids []types.EntityID, alive func(types.EntityID) bool) []types.EntityID {
	out := make([]types.EntityID, 0, len(ids))
	for _, id := range ids {
		if alive(id) {
			out = append(out, id)
		}
	}
	return out
}

func contains(ids []types.EntityID, id types.EntityID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
