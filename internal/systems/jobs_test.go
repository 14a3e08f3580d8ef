package systems

import (
	"testing"

	"homestead-server/internal/core/types"
	"homestead-server/internal/domain"
	"homestead-server/internal/ecs"
)

type jobRig struct {
	*testRig
	Jobs *JobSystem
}

func newJobRig() *jobRig {
	r := newTestRig()
	return &jobRig{
		testRig: r,
		Jobs:    NewJobSystem(r.Base, testJobs(), r.Clock.Now),
	}
}

func (r *jobRig) skills(id types.EntityID) []domain.Skill {
	c, _ := r.Store.Get(id, domain.KindSkills)
	return c.(*domain.SkillsComponent).Skills
}

func TestChangeJobRequirements(t *testing.T) {
	r := newJobRig()
	hero := r.newHero() // уровень 1, все атрибуты 10

	// blacksmith: уровень 2 и technique 12
	if result := r.Jobs.ChangeJob(hero, "blacksmith"); result.OK {
		t.Error("Job change succeeded without meeting requirements")
	}
	if result := r.Jobs.ChangeJob(hero, "no_such_job"); result.OK {
		t.Error("Change to an unknown job succeeded")
	}
	// miner: уровень 1, strength 10 - проходит
	if result := r.Jobs.ChangeJob(hero, "miner"); !result.OK {
		t.Fatalf("Valid job change failed: %s", result.Reason)
	}
	if r.info(hero).JobID != "miner" {
		t.Errorf("JobID is wrong. Got %q, want %q", r.info(hero).JobID, "miner")
	}
	// Повторная смена на ту же профессию - отказ
	if result := r.Jobs.ChangeJob(hero, "miner"); result.OK {
		t.Error("Change to the same job succeeded")
	}
}

// Бонус профессии применяется немедленно и исчезает при смене.
func TestJobBonusThroughRecalculation(t *testing.T) {
	r := newJobRig()
	hero := r.newHero()
	base := r.stats(hero).Attack // 35

	if result := r.Jobs.ChangeJob(hero, "miner"); !result.OK {
		t.Fatalf("Job change failed: %s", result.Reason)
	}
	// miner: +3 атаки плоско
	if got := r.stats(hero).Attack; got != base+3 {
		t.Errorf("Job flat bonus missing. Got %v, want %v", got, base+3)
	}

	// Дотягиваем до кузнеца и меняем: плоский бонус исчезает,
	// процентный появляется
	r.Attributes.ModifyAttributes(hero, 0, 0, 0, 2, r.Clock.Now()) // technique 12
	r.info(hero).Level = 2
	if result := r.Jobs.ChangeJob(hero, "blacksmith"); !result.OK {
		t.Fatalf("Second job change failed: %s", result.Reason)
	}
	// attack база выросла от technique: 5 + 20 + 12 = 37; +20% = 44.4
	want := 37 * 1.2
	if got := r.stats(hero).Attack; got != want {
		t.Errorf("Job percent bonus is wrong. Got %v, want %v", got, want)
	}
}

// Навыки профессии заменяются при смене; выученные вне профессии
// сохраняются.
func TestJobSkillReplacement(t *testing.T) {
	r := newJobRig()
	hero := r.newHero()

	// Навык, выученный независимо от профессии
	bumpSkill(r.Store, hero, "fishing")

	r.Jobs.ChangeJob(hero, "miner")
	hasSkill := func(id string) bool {
		for _, sk := range r.skills(hero) {
			if sk.ID == id {
				return true
			}
		}
		return false
	}
	if !hasSkill("prospecting") || !hasSkill("fishing") {
		t.Fatalf("Skills after first job are wrong: %+v", r.skills(hero))
	}

	r.Attributes.ModifyAttributes(hero, 0, 0, 0, 2, r.Clock.Now())
	r.info(hero).Level = 2
	r.Jobs.ChangeJob(hero, "blacksmith")

	if hasSkill("prospecting") {
		t.Error("Old job skill survived the change")
	}
	if !hasSkill("smithing") {
		t.Error("New job skill missing")
	}
	if !hasSkill("fishing") {
		t.Error("Independently learned skill lost on job change")
	}
}

// Смена профессии эмитит событие со старой и новой профессией.
func TestJobChangeEvent(t *testing.T) {
	r := newJobRig()
	hero := r.newHero()

	var got *domain.CharacterJobChangedEvent
	r.Bus.Subscribe(ecs.EventCharacterJobChanged, func(e ecs.Event) {
		ev := e.(domain.CharacterJobChangedEvent)
		got = &ev
	})

	r.Jobs.ChangeJob(hero, "miner")
	if got == nil {
		t.Fatal("No job change event emitted")
	}
	if got.PreviousJobID != "" || got.JobID != "miner" {
		t.Errorf("Event content is wrong: %+v", got)
	}
}
