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
	"homestead-server/pkg/rng"
)

// CraftingValidation - полный разбор возможности крафта.
// Возвращается и при отказе: UI показывает, чего именно не хватает.
type CraftingValidation struct {
	CanCraft            bool          `json:"canCraft"`
	MissingMaterials    []MissingItem `json:"missingMaterials,omitempty"`
	MissingRequirements []string      `json:"missingRequirements,omitempty"`
	SuccessRate         float64       `json:"successRate"`
	EstimatedQuality    int           `json:"estimatedQuality"`
}

// CraftingSystem - производство предметов по рецептам.
//
// Материалы списываются в момент старта, а не завершения: сессия -
// это уже вложенные ресурсы. Шанс успеха и ожидаемое качество
// снапшотятся при старте и на исход влияет только бросок. Провал
// съедает материалы и дает половину опыта; прогресс навыка - только
// за успех. Отмена материалы не возвращает.
type CraftingSystem struct {
	ecs.BaseSystem
	recipes    map[string]data.RecipeConfig
	inventory  *InventorySystem
	random     rng.Source
	clock      func() time.Time
	facilities map[string]bool // построенные мастерские поселения
	log        *logrus.Entry
}

func NewCraftingSystem(base ecs.BaseSystem, recipes map[string]data.RecipeConfig, inventory *InventorySystem, random rng.Source, clock func() time.Time) *CraftingSystem {
	if clock == nil {
		clock = time.Now
	}
	return &CraftingSystem{
		BaseSystem: base,
		recipes:    recipes,
		inventory:  inventory,
		random:     random,
		clock:      clock,
		facilities: make(map[string]bool),
		log:        logger.WithSystem("crafting_system"),
	}
}

func (s *CraftingSystem) Name() string { return "crafting" }

func (s *CraftingSystem) RequiredKinds() []ecs.Kind {
	return []ecs.Kind{domain.KindCrafting, domain.KindInventory}
}

// RegisterFacility отмечает мастерскую как построенную: рецепты с
// требованием facility становятся доступны всем крафтерам.
func (s *CraftingSystem) RegisterFacility(id string) {
	s.facilities[id] = true
}

// ValidateCrafting проверяет рецепт против крафтера без побочных
// эффектов. Шанс успеха и ожидаемое качество считаются даже при
// отказе, от имеющихся материалов.
func (s *CraftingSystem) ValidateCrafting(character types.EntityID, recipeID string) CraftingValidation {
	recipe, ok := s.recipes[recipeID]
	if !ok {
		return CraftingValidation{MissingRequirements: []string{"неизвестный рецепт: " + recipeID}}
	}

	v := CraftingValidation{CanCraft: true}

	// Материалы
	for _, m := range recipe.Materials {
		have := s.inventory.CountQuantity(character, m.ItemID, m.MinQuality)
		if have < m.Quantity {
			v.CanCraft = false
			v.MissingMaterials = append(v.MissingMaterials, MissingItem{
				ItemID:   m.ItemID,
				Required: m.Quantity,
				Have:     have,
			})
		}
	}

	// Нематериальные требования
	for _, r := range recipe.Requirements {
		if reason := s.checkRequirement(character, r); reason != "" {
			v.CanCraft = false
			v.MissingRequirements = append(v.MissingRequirements, reason)
		}
	}

	skill := skillLevel(s.Store, character, recipe.SkillID)
	quality := s.materialQuality(character, recipe)
	v.SuccessRate = successRate(recipe, skill, quality)
	v.EstimatedQuality = estimatedQuality(recipe, skill, quality)
	return v
}

func (s *CraftingSystem) checkRequirement(character types.EntityID, r data.CraftRequirement) string {
	switch r.Kind {
	case "skill":
		if skillLevel(s.Store, character, r.ID) < r.Level {
			return "навык: " + r.ID
		}
	case "tool":
		if !s.inventory.HasQuantity(character, r.ID, 1) {
			return "инструмент: " + r.ID
		}
	case "facility":
		if !s.facilities[r.ID] {
			return "мастерская: " + r.ID
		}
	case "job":
		info := ecs.GetAs[domain.CharacterInfoComponent](s.Store, character, domain.KindCharacterInfo)
		if info == nil || info.JobID != r.ID {
			return "профессия: " + r.ID
		}
	default:
		return "неизвестное требование: " + r.Kind
	}
	return ""
}

// materialQuality - среднее качество имеющихся материалов рецепта,
// взвешенное по требуемым количествам.
func (s *CraftingSystem) materialQuality(character types.EntityID, recipe data.RecipeConfig) float64 {
	total, sum := 0, 0.0
	for _, m := range recipe.Materials {
		avg := s.inventory.AverageQuality(character, m.ItemID, m.MinQuality)
		if avg <= 0 {
			continue
		}
		total += m.Quantity
		sum += avg * float64(m.Quantity)
	}
	if total == 0 {
		return 0
	}
	return sum / float64(total)
}

// successRate: база рецепта + бонус навыка + бонус качества
// материалов, кламп в [0.05, 0.95] - гарантированных исходов нет.
func successRate(recipe data.RecipeConfig, skill int, quality float64) float64 {
	rate := recipe.BaseSuccessRate +
		float64(skill)*domain.CraftSkillRateBonus +
		quality*domain.CraftQualityRateBonus
	if rate < domain.CraftMinSuccessRate {
		rate = domain.CraftMinSuccessRate
	}
	if rate > domain.CraftMaxSuccessRate {
		rate = domain.CraftMaxSuccessRate
	}
	return rate
}

// estimatedQuality: база результата + вклад качества материалов +
// вклад навыка, кламп в [1, 100]. Монотонно по обоим входам.
func estimatedQuality(recipe data.RecipeConfig, skill int, quality float64) int {
	q := float64(recipe.Result.BaseQuality) +
		quality*domain.CraftQualityPerPoint +
		float64(skill)*domain.CraftSkillQualityBonus
	if q < domain.CraftMinQuality {
		q = domain.CraftMinQuality
	}
	if q > domain.CraftMaxQuality {
		q = domain.CraftMaxQuality
	}
	return int(q)
}

// StartCrafting запускает сессию крафта, немедленно списывая
// материалы. Возвращает ID сессии.
func (s *CraftingSystem) StartCrafting(character types.EntityID, recipeID string) (string, OpResult) {
	recipe, ok := s.recipes[recipeID]
	if !ok {
		return "", Fail(FailurePrecondition, "неизвестный рецепт")
	}

	info := ecs.GetAs[domain.CharacterInfoComponent](s.Store, character, domain.KindCharacterInfo)
	if info == nil {
		return "", Fail(FailurePrecondition, "персонаж не существует")
	}
	if info.Status != enums.StatusAvailable {
		return "", Fail(FailureConflict, "персонаж занят: "+info.Status.String())
	}

	crafting := ecs.GetAs[domain.CraftingComponent](s.Store, character, domain.KindCrafting)
	if crafting == nil {
		crafting = &domain.CraftingComponent{}
		s.Store.Set(character, crafting)
	}
	if crafting.Active != nil {
		return "", Fail(FailureConflict, "у персонажа уже идет крафт")
	}

	validation := s.ValidateCrafting(character, recipeID)
	if !validation.CanCraft {
		if len(validation.MissingMaterials) > 0 {
			return "", FailMissing("не хватает материалов", validation.MissingMaterials)
		}
		return "", Fail(FailurePrecondition, "требования рецепта не выполнены")
	}

	// Место под результат проверяется до списания материалов: сессия,
	// чей продукт заведомо некуда класть, не стартует.
	quantity := recipe.Result.Quantity
	if quantity <= 0 {
		quantity = 1
	}
	if s.inventory.FreeCapacity(character, recipe.Result.ItemID) < quantity {
		return "", Fail(FailureInsufficiency, "нет места для результата крафта")
	}

	// Списание материалов: валидация выше гарантирует наличие, поэтому
	// частичного списания не бывает.
	consumed := make([]domain.ConsumedMaterial, 0, len(recipe.Materials))
	for _, m := range recipe.Materials {
		if !s.inventory.RemoveQuantity(character, m.ItemID, m.Quantity, m.MinQuality) {
			s.log.WithFields(logrus.Fields{
				"character": character.String(),
				"item_id":   m.ItemID,
			}).Error("Material removal failed after validation passed.")
			return "", Fail(FailureInsufficiency, "не удалось списать материалы")
		}
		consumed = append(consumed, domain.ConsumedMaterial{ItemID: m.ItemID, Quantity: m.Quantity})
	}

	now := s.clock()
	session := &domain.CraftingSession{
		SessionID: uuid.NewString(),
		RecipeID:  recipeID,
		CrafterID: character,
		Consumed:  consumed,
		StartedAt: now,
		Duration:  time.Duration(recipe.DurationMs) * time.Millisecond,
		Status:    enums.SessionInProgress,

		SuccessRate:      validation.SuccessRate,
		EstimatedQuality: validation.EstimatedQuality,
		SkillLevel:       skillLevel(s.Store, character, recipe.SkillID),
	}
	crafting.Active = session
	setStatus(s.Store, s.Bus, character, enums.StatusCrafting, now)

	s.Bus.Emit(domain.CraftingStartedEvent{
		EventMeta:   domain.Meta(now),
		CharacterID: character,
		SessionID:   session.SessionID,
		RecipeID:    recipeID,
	})

	s.log.WithFields(logrus.Fields{
		"character":    character.String(),
		"session_id":   session.SessionID,
		"recipe_id":    recipeID,
		"success_rate": session.SuccessRate,
	}).Info("Crafting started.")

	return session.SessionID, Success()
}

// Update разрешает сессии, у которых вышел срок.
func (s *CraftingSystem) Update(dt time.Duration) {
	now := s.clock()
	for _, id := range s.Store.Query(domain.KindCrafting) {
		crafting := ecs.GetAs[domain.CraftingComponent](s.Store, id, domain.KindCrafting)
		if crafting == nil || crafting.Active == nil {
			continue
		}
		if now.Sub(crafting.Active.StartedAt) >= crafting.Active.Duration {
			s.resolve(id, crafting, now)
		}
	}
}

// resolve разыгрывает исход завершившейся сессии.
func (s *CraftingSystem) resolve(character types.EntityID, crafting *domain.CraftingComponent, now time.Time) {
	session := crafting.Active
	recipe := s.recipes[session.RecipeID]

	if s.random.Float64() < session.SuccessRate {
		s.resolveSuccess(character, session, recipe, now)
	} else {
		s.resolveFailure(character, session, recipe, now)
	}

	crafting.Active = nil
	crafting.History = append(crafting.History, *session)
	setStatus(s.Store, s.Bus, character, enums.StatusAvailable, now)
}

func (s *CraftingSystem) resolveSuccess(character types.EntityID, session *domain.CraftingSession, recipe data.RecipeConfig, now time.Time) {
	rarity := s.rollRarity(recipe, session.EstimatedQuality, session.SkillLevel)

	quantity := recipe.Result.Quantity
	if quantity <= 0 {
		quantity = 1
	}
	if !s.inventory.AddByCatalog(character, recipe.Result.ItemID, quantity, session.EstimatedQuality, rarity) {
		s.log.WithFields(logrus.Fields{
			"character": character.String(),
			"item_id":   recipe.Result.ItemID,
		}).Warn("Crafted item lost: inventory full.")
	}

	session.Status = enums.SessionCompleted
	session.ProducedItemID = recipe.Result.ItemID
	session.ProducedRarity = rarity
	session.ExperienceGained = recipe.Experience
	session.SettledAt = now

	grantExperience(s.Store, s.Bus, character, recipe.Experience, now)

	// Прогресс навыка - только за успешный крафт
	if recipe.SkillID != "" && s.random.Float64() < recipe.SkillUpChance {
		bumpSkill(s.Store, character, recipe.SkillID)
	}

	s.Bus.Emit(domain.CraftingCompletedEvent{
		EventMeta:   domain.Meta(now),
		CharacterID: character,
		SessionID:   session.SessionID,
		RecipeID:    session.RecipeID,
		ItemID:      recipe.Result.ItemID,
		Rarity:      rarity,
		Experience:  recipe.Experience,
	})

	s.log.WithFields(logrus.Fields{
		"character":  character.String(),
		"session_id": session.SessionID,
		"rarity":     rarity.String(),
		"quality":    session.EstimatedQuality,
	}).Info("Crafting succeeded.")
}

func (s *CraftingSystem) resolveFailure(character types.EntityID, session *domain.CraftingSession, recipe data.RecipeConfig, now time.Time) {
	experience := int(float64(recipe.Experience) * domain.CraftFailExpRatio)

	session.Status = enums.SessionFailed
	session.ExperienceGained = experience
	session.SettledAt = now

	grantExperience(s.Store, s.Bus, character, experience, now)

	s.Bus.Emit(domain.CraftingFailedEvent{
		EventMeta:   domain.Meta(now),
		CharacterID: character,
		SessionID:   session.SessionID,
		RecipeID:    session.RecipeID,
		Experience:  experience,
	})

	s.log.WithFields(logrus.Fields{
		"character":  character.String(),
		"session_id": session.SessionID,
		"recipe_id":  session.RecipeID,
	}).Info("Crafting failed.")
}

// rollRarity бросает взвешенную таблицу редкости рецепта.
// Шанс строки = база + бонус качества + бонус навыка; остаток
// вероятности уходит в обычную редкость.
func (s *CraftingSystem) rollRarity(recipe data.RecipeConfig, quality, skill int) enums.Rarity {
	roll := s.random.Float64()
	cumulative := 0.0
	for _, rc := range recipe.RarityTable {
		chance := rc.BaseChance + rc.QualityBonus*float64(quality) + rc.SkillBonus*float64(skill)
		if chance < 0 {
			continue
		}
		cumulative += chance
		if roll < cumulative {
			return enums.ParseRarity(rc.Rarity)
		}
	}
	return enums.RarityCommon
}

// CancelCrafting досрочно прерывает сессию. Материалы не
// возвращаются: они списаны при старте и считаются вложенными.
func (s *CraftingSystem) CancelCrafting(character types.EntityID) OpResult {
	crafting := ecs.GetAs[domain.CraftingComponent](s.Store, character, domain.KindCrafting)
	if crafting == nil || crafting.Active == nil {
		return Fail(FailurePrecondition, "у персонажа нет идущего крафта")
	}

	now := s.clock()
	session := crafting.Active
	session.Status = enums.SessionCancelled
	session.SettledAt = now

	crafting.Active = nil
	crafting.History = append(crafting.History, *session)
	setStatus(s.Store, s.Bus, character, enums.StatusAvailable, now)

	s.log.WithFields(logrus.Fields{
		"character":  character.String(),
		"session_id": session.SessionID,
		"recipe_id":  session.RecipeID,
	}).Info("Crafting cancelled.")

	return Success()
}

// ActiveSession возвращает текущую сессию крафтера или nil.
func (s *CraftingSystem) ActiveSession(character types.EntityID) *domain.CraftingSession {
	crafting := ecs.GetAs[domain.CraftingComponent](s.Store, character, domain.KindCrafting)
	if crafting == nil {
		return nil
	}
	return crafting.Active
}

// --- НАВЫКИ ---

// skillLevel возвращает уровень навыка персонажа (0, если навыка нет).
func skillLevel(store *ecs.Store, character types.EntityID, skillID string) int {
	if skillID == "" {
		return 0
	}
	skills := ecs.GetAs[domain.SkillsComponent](store, character, domain.KindSkills)
	if skills == nil {
		return 0
	}
	for _, sk := range skills.Skills {
		if sk.ID == skillID {
			return sk.Level
		}
	}
	return 0
}

// bumpSkill повышает уровень навыка на 1, создавая навык при
// отсутствии.
func bumpSkill(store *ecs.Store, character types.EntityID, skillID string) {
	skills := ecs.GetAs[domain.SkillsComponent](store, character, domain.KindSkills)
	if skills == nil {
		skills = &domain.SkillsComponent{}
		store.Set(character, skills)
	}
	for i := range skills.Skills {
		if skills.Skills[i].ID == skillID {
			skills.Skills[i].Level++
			return
		}
	}
	skills.Skills = append(skills.Skills, domain.Skill{
		ID:    skillID,
		Name:  skillID,
		Kind:  enums.SkillKindPassive,
		Level: 1,
	})
}
