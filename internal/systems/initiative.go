package systems

import (
	"container/heap"

	"homestead-server/internal/core/types"
	"homestead-server/pkg/rng"
)

// Стоимость одного действия в тиках инициативы. Задержка между
// действиями бойца = baseActionCost / MoveSpeed, так что быстрые
// бойцы ходят чаще, а не просто первыми.
const baseActionCost = 100.0

// turnItem - элемент очереди инициативы.
type turnItem struct {
	ID       types.EntityID
	NextTick float64 // тик следующего действия; чем меньше, тем раньше ход
	Order    int     // случайный жребий, разрешает равные тики
	index    int     // позиция в куче (нужна для heap.Fix)
}

// turnQueue - min-heap по NextTick. Равные тики разрешаются жребием,
// брошенным при вступлении в бой: одинаково быстрые бойцы не получают
// преимущества от порядка в списке отряда.
type turnQueue []*turnItem

func (q turnQueue) Len() int { return len(q) }

func (q turnQueue) Less(i, j int) bool {
	if q[i].NextTick != q[j].NextTick {
		return q[i].NextTick < q[j].NextTick
	}
	return q[i].Order < q[j].Order
}

func (q turnQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *turnQueue) Push(x interface{}) {
	n := len(*q)
	item := x.(*turnItem)
	item.index = n
	*q = append(*q, item)
}

func (q *turnQueue) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil // избегаем утечки памяти
	item.index = -1
	*q = old[0 : n-1]
	return item
}

// reschedule сдвигает бойца на его следующий тик действия.
func (q *turnQueue) reschedule(item *turnItem, moveSpeed float64) {
	if moveSpeed < 1 {
		moveSpeed = 1
	}
	item.NextTick += baseActionCost / moveSpeed
	heap.Fix(q, item.index)
}

// remove убирает выбывшего (погибшего) бойца из очереди.
func (q *turnQueue) remove(id types.EntityID) {
	for _, item := range *q {
		if item.ID == id {
			heap.Remove(q, item.index)
			return
		}
	}
}

// newTurnQueue строит очередь: стартовый тик каждого бойца - его
// задержка действия, поэтому первый ход достается самому быстрому.
func newTurnQueue(combatants []types.EntityID, speedOf func(types.EntityID) float64, random rng.Source) *turnQueue {
	q := make(turnQueue, 0, len(combatants))
	for i, id := range combatants {
		speed := speedOf(id)
		if speed < 1 {
			speed = 1
		}
		q = append(q, &turnItem{
			ID:       id,
			NextTick: baseActionCost / speed,
			Order:    random.IntBetween(0, 1<<30),
			index:    i,
		})
	}
	heap.Init(&q)
	return &q
}
