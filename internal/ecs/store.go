package ecs

import (
	"errors"
	"sort"

	"homestead-server/internal/core/types"
)

// Kind - дискриминант вида компонента.
// Закрытый набор констант объявлен в internal/domain/kinds.go.
type Kind uint8

// Component - чистая запись данных, прикрепляемая к сущности.
// Никакого поведения: только значения и тег вида.
type Component interface {
	Kind() Kind
}

// ErrAlreadyExists возвращается из Add, если компонент этого вида
// уже прикреплен к сущности. Молчаливой перезаписи нет - для нее
// есть явный Set.
var ErrAlreadyExists = errors.New("component already exists")

// Store - единственный владелец всех записей компонентов.
// Сущность здесь - ключ поиска, а не контейнер.
//
// Store сам не генерирует событий: мутирующая система обязана сама
// эмитить событие, когда изменение имеет геймплейный смысл.
type Store struct {
	// components: сущность -> вид -> запись
	components map[types.EntityID]map[Kind]Component
}

func NewStore() *Store {
	return &Store{
		components: make(map[types.EntityID]map[Kind]Component),
	}
}

// Add прикрепляет компонент к сущности.
// Возвращает ErrAlreadyExists, если компонент такого вида уже есть.
func (s *Store) Add(id types.EntityID, c Component) error {
	byKind, ok := s.components[id]
	if !ok {
		byKind = make(map[Kind]Component)
		s.components[id] = byKind
	}
	if _, exists := byKind[c.Kind()]; exists {
		return ErrAlreadyExists
	}
	byKind[c.Kind()] = c
	return nil
}

// Set перезаписывает компонент (или добавляет, если его не было).
func (s *Store) Set(id types.EntityID, c Component) {
	byKind, ok := s.components[id]
	if !ok {
		byKind = make(map[Kind]Component)
		s.components[id] = byKind
	}
	byKind[c.Kind()] = c
}

// Get возвращает компонент сущности или nil, если его нет.
//
// Возвращается живой указатель на хранимую запись: модель исполнения
// однопоточная, мутация через ссылку допустима, но система, которая
// мутирует, сама обязана эмитить соответствующее событие.
func (s *Store) Get(id types.EntityID, kind Kind) (Component, bool) {
	byKind, ok := s.components[id]
	if !ok {
		return nil, false
	}
	c, ok := byKind[kind]
	return c, ok
}

// Has проверяет наличие компонента вида kind у сущности.
func (s *Store) Has(id types.EntityID, kind Kind) bool {
	byKind, ok := s.components[id]
	if !ok {
		return false
	}
	_, ok = byKind[kind]
	return ok
}

// Remove удаляет компонент вида kind у сущности. Отсутствие - no-op.
func (s *Store) Remove(id types.EntityID, kind Kind) {
	if byKind, ok := s.components[id]; ok {
		delete(byKind, kind)
		if len(byKind) == 0 {
			delete(s.components, id)
		}
	}
}

// RemoveAll удаляет все компоненты сущности (вызывается при Destroy).
func (s *Store) RemoveAll(id types.EntityID) {
	delete(s.components, id)
}

// Query возвращает срез сущностей, имеющих ВСЕ перечисленные виды.
//
// Результат - снапшот, отсортированный по ID: обработчики событий могут
// удалять сущности прямо во время итерации по нему, не ломая обход.
func (s *Store) Query(kinds ...Kind) []types.EntityID {
	result := make([]types.EntityID, 0)

outer:
	for id, byKind := range s.components {
		for _, k := range kinds {
			if _, ok := byKind[k]; !ok {
				continue outer
			}
		}
		result = append(result, id)
	}

	sort.Slice(result, func(i, j int) bool { return result[i] < result[j] })
	return result
}

// GetAs - типизированный доступ к компоненту.
// Возвращает nil, если компонента нет или вид не совпал.
//
// Двухпараметрическая форма нужна из-за pointer-receiver у Kind():
// ограничение PT говорит компилятору, что именно *T реализует
// Component. На вызовах PT выводится автоматически:
// GetAs[domain.HealthComponent](store, id, kind).
func GetAs[T any, PT interface {
	*T
	Component
}](s *Store, id types.EntityID, kind Kind) *T {
	c, ok := s.Get(id, kind)
	if !ok {
		return nil
	}
	typed, ok := c.(PT)
	if !ok {
		return nil
	}
	return (*T)(typed)
}
