package ecs

import (
	"homestead-server/internal/core/types"
	"homestead-server/internal/core/types/enums"
	"homestead-server/pkg/logger"
)

// Registry выдает уникальные идентификаторы сущностей и следит за их
// жизненным циклом.
//
// Слоты переиспользуются через поколение (Generation в EntityID):
// уничтоженная сущность освобождает слот, но новый ID в этом слоте
// получает другое поколение, поэтому устаревшие ссылки никогда не
// «попадают» в новую сущность.
type Registry struct {
	store *Store

	// generations[index] - текущее поколение слота
	generations []uint16
	// alive[index] - жив ли слот прямо сейчас
	alive []bool
	// freeList - индексы освобожденных слотов
	freeList []uint64
}

func NewRegistry(store *Store) *Registry {
	return &Registry{
		store: store,
		// Индекс 0 зарезервирован под NilEntityID
		generations: make([]uint16, 1),
		alive:       make([]bool, 1),
	}
}

// Create выдает новый уникальный EntityID заданного типа.
func (r *Registry) Create(t enums.EntityType) types.EntityID {
	var index uint64

	if n := len(r.freeList); n > 0 {
		index = r.freeList[n-1]
		r.freeList = r.freeList[:n-1]
	} else {
		index = uint64(len(r.generations))
		r.generations = append(r.generations, 0)
		r.alive = append(r.alive, false)
	}

	r.alive[index] = true
	id := types.PackEntityID(uint8(t), r.generations[index], index)

	logger.WithSystem("registry").WithField("entity_id", id.String()).Debug("Entity created")
	return id
}

// Destroy уничтожает сущность: все ее компоненты удаляются из Store,
// слот уходит в свободный список со сдвинутым поколением.
// Уничтожение несуществующей (или уже уничтоженной) сущности - no-op.
func (r *Registry) Destroy(id types.EntityID) {
	if !r.Exists(id) {
		return
	}

	r.store.RemoveAll(id)

	index := id.Index()
	r.alive[index] = false
	r.generations[index]++ // старые ссылки на слот становятся недействительными
	r.freeList = append(r.freeList, index)

	logger.WithSystem("registry").WithField("entity_id", id.String()).Debug("Entity destroyed")
}

// Exists проверяет, жива ли сущность с данным ID.
// Ссылка с устаревшим поколением считается несуществующей.
func (r *Registry) Exists(id types.EntityID) bool {
	if id.IsNil() {
		return false
	}
	index := id.Index()
	if index >= uint64(len(r.alive)) {
		return false
	}
	return r.alive[index] && r.generations[index] == id.Generation()
}
