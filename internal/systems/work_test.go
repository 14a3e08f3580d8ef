package systems

import (
	"testing"
	"time"

	"homestead-server/internal/core/types"
	"homestead-server/internal/core/types/enums"
	"homestead-server/internal/domain"
	"homestead-server/internal/ecs"
)

type workRig struct {
	*testRig
	Work *WorkSystem
}

func newWorkRig() *workRig {
	r := newTestRig()
	return &workRig{
		testRig: r,
		Work:    NewWorkSystem(r.Base, testWorkTypes(), r.Inventory, r.Clock.Now),
	}
}

func (r *workRig) newMiner() types.EntityID {
	id := r.newCharacter("Шахтер", domain.AttributeComponent{
		Strength: 12, Agility: 8, Wisdom: 6, Technique: 8,
	})
	r.Attributes.Recalculate(id)
	r.health(id).Current = r.health(id).Maximum
	return id
}

func TestAssignWorkValidation(t *testing.T) {
	r := newWorkRig()
	miner := r.newMiner()

	if _, result := r.Work.AssignWork(miner, "no_such_work", time.Hour); result.OK {
		t.Error("Assigned an unknown work type")
	}
	if _, result := r.Work.AssignWork(miner, "mining", 0); result.OK {
		t.Error("Assigned work with zero duration")
	}
	// scouting требует agility 12, у шахтера 8
	if _, result := r.Work.AssignWork(miner, "scouting", time.Hour); result.OK {
		t.Error("Assigned work without meeting attribute minimums")
	}

	if _, result := r.Work.AssignWork(miner, "mining", time.Hour); !result.OK {
		t.Fatalf("Valid assignment failed: %s", result.Reason)
	}
	if r.info(miner).Status != enums.StatusWorking {
		t.Errorf("Status after assignment is wrong. Got %s, want %s", r.info(miner).Status, enums.StatusWorking)
	}
}

// Работающий персонаж не может взять вторую работу.
func TestWorkMutualExclusion(t *testing.T) {
	r := newWorkRig()
	miner := r.newMiner()

	if _, result := r.Work.AssignWork(miner, "mining", time.Hour); !result.OK {
		t.Fatalf("First assignment failed: %s", result.Reason)
	}
	_, result := r.Work.AssignWork(miner, "mining", time.Hour)
	if result.OK {
		t.Fatal("Second assignment succeeded while working")
	}
	if result.Failure != FailureConflict {
		t.Errorf("Unexpected failure kind. Got %s, want %s", result.Failure, FailureConflict)
	}
}

// Эффективность: база 1.0 + 0.05 за очко сверх минимума + 0.02 за
// уровень.
func TestWorkEfficiencyFormula(t *testing.T) {
	r := newWorkRig()
	miner := r.newMiner() // strength 12, минимум 8, уровень 1

	sessionID, result := r.Work.AssignWork(miner, "mining", time.Hour)
	if !result.OK {
		t.Fatalf("Assignment failed: %s", result.Reason)
	}

	active := r.Work.ActiveAssignment(miner)
	if active == nil || active.SessionID != sessionID {
		t.Fatal("Active assignment not found")
	}
	want := domain.WorkBaseEfficiency
	want += float64(4) * domain.WorkAttrBonusPerPoint
	want += float64(1) * domain.WorkLevelBonus
	if active.Efficiency != want {
		t.Errorf("Efficiency is wrong. Got %v, want %v", active.Efficiency, want)
	}
}

// Полное завершение: ресурсы и опыт за весь срок с учетом
// эффективности.
func TestWorkCompletion(t *testing.T) {
	r := newWorkRig()
	miner := r.newMiner()

	var completed *domain.WorkCompletedEvent
	r.Bus.Subscribe(ecs.EventWorkCompleted, func(e ecs.Event) {
		ev := e.(domain.WorkCompletedEvent)
		completed = &ev
	})

	if _, result := r.Work.AssignWork(miner, "mining", 2*time.Hour); !result.OK {
		t.Fatalf("Assignment failed: %s", result.Reason)
	}

	// До срока ничего не происходит
	r.Clock.Advance(time.Hour)
	r.Work.Update(0)
	if completed != nil {
		t.Fatal("Work completed before its duration elapsed")
	}

	r.Clock.Advance(time.Hour)
	r.Work.Update(0)
	if completed == nil {
		t.Fatal("Work did not complete after its duration")
	}

	// 2 часа * эффективность 1.22: руда 10/ч -> 24, уголь 4/ч -> 9
	if got := r.Inventory.CountQuantity(miner, "iron_ore", 0); got != 24 {
		t.Errorf("Ore yield is wrong. Got %d, want %d", got, 24)
	}
	if got := r.Inventory.CountQuantity(miner, "coal", 0); got != 9 {
		t.Errorf("Coal yield is wrong. Got %d, want %d", got, 9)
	}
	// Опыт 20/ч * 2ч * 1.22 = 48
	if got := r.info(miner).Experience; got != 48 {
		t.Errorf("Experience is wrong. Got %d, want %d", got, 48)
	}

	if r.info(miner).Status != enums.StatusAvailable {
		t.Errorf("Status after completion is wrong. Got %s", r.info(miner).Status)
	}
	if r.Work.ActiveAssignment(miner) != nil {
		t.Error("Active assignment not cleared after completion")
	}

	// Сессия ушла в историю с терминальным статусом
	work, _ := r.Store.Get(miner, domain.KindWork)
	history := work.(*domain.WorkComponent).History
	if len(history) != 1 || history[0].Status != enums.SessionCompleted {
		t.Errorf("History record is wrong: %+v", history)
	}
}

// Отмена на середине срока платит половину выработки и опыта.
func TestWorkCancellationMidway(t *testing.T) {
	r := newWorkRig()
	miner := r.newMiner()

	if _, result := r.Work.AssignWork(miner, "mining", 2*time.Hour); !result.OK {
		t.Fatalf("Assignment failed: %s", result.Reason)
	}

	r.Clock.Advance(time.Hour)
	if result := r.Work.CancelWork(miner); !result.OK {
		t.Fatalf("Cancellation failed: %s", result.Reason)
	}

	// Половина от полного срока: руда 10/ч * 1ч * 1.22 = 12
	if got := r.Inventory.CountQuantity(miner, "iron_ore", 0); got != 12 {
		t.Errorf("Prorated ore yield is wrong. Got %d, want %d", got, 12)
	}
	// Опыт 20/ч * 1ч * 1.22 = 24
	if got := r.info(miner).Experience; got != 24 {
		t.Errorf("Prorated experience is wrong. Got %d, want %d", got, 24)
	}
	if r.info(miner).Status != enums.StatusAvailable {
		t.Errorf("Status after cancellation is wrong. Got %s", r.info(miner).Status)
	}

	// Повторная отмена - отказ, итог не начисляется дважды
	if result := r.Work.CancelWork(miner); result.OK {
		t.Error("Second cancellation succeeded")
	}
	if got := r.Inventory.CountQuantity(miner, "iron_ore", 0); got != 12 {
		t.Errorf("Yield changed after the second cancel. Got %d, want %d", got, 12)
	}
}

// Завершение работы может поднять уровень: опыт переносится через
// порог, атрибуты растут.
func TestWorkExperienceLevelsUp(t *testing.T) {
	r := newWorkRig()
	miner := r.newMiner()
	strBefore := ecsGetAttr(r.testRig, miner).Strength

	// 20/ч * 6ч * 1.22 = 146 опыта, порог 100
	if _, result := r.Work.AssignWork(miner, "mining", 6*time.Hour); !result.OK {
		t.Fatalf("Assignment failed: %s", result.Reason)
	}
	r.Clock.Advance(6 * time.Hour)
	r.Work.Update(0)

	info := r.info(miner)
	if info.Level != 2 {
		t.Fatalf("Level is wrong. Got %d, want %d", info.Level, 2)
	}
	if info.Experience != 46 {
		t.Errorf("Carried-over experience is wrong. Got %d, want %d", info.Experience, 46)
	}
	if info.ExperienceToNext != 200 {
		t.Errorf("Next threshold is wrong. Got %d, want %d", info.ExperienceToNext, 200)
	}
	if got := ecsGetAttr(r.testRig, miner).Strength; got != strBefore+1 {
		t.Errorf("Attribute gain on level up missing. Got %d, want %d", got, strBefore+1)
	}
}
