package ecs

import "time"

// System - единица поведения, привязанная к реестру, хранилищу и шине.
//
// Система объявляет набор требуемых компонентов и получает рабочее
// множество сущностей через Store.Query. Периодическая работа идет
// через Update (раз в тик), реактивная - через подписки на шину.
// Чисто событийные системы реализуют Update как no-op.
type System interface {
	Name() string
	RequiredKinds() []Kind
	Update(dt time.Duration)
}

// BaseSystem - общая обвязка для систем: доступ к реестру, хранилищу
// и шине, полученный при конструировании.
type BaseSystem struct {
	Registry *Registry
	Store    *Store
	Bus      *Bus
}

func NewBaseSystem(registry *Registry, store *Store, bus *Bus) BaseSystem {
	return BaseSystem{Registry: registry, Store: store, Bus: bus}
}
