package ecs

import (
	"homestead-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// Handler - подписчик на событие.
type Handler func(Event)

// Bus - синхронная внутрипроцессная шина событий.
//
// Emit вызывает всех подписчиков немедленно, в порядке регистрации,
// на стеке вызывающего - до возврата из Emit. Именно это дает гарантию
// «пересчет характеристик происходит внутри того же вызова, что и
// мутация», без отложенных очередей.
//
// Шина создается явно и передается системам через конструктор -
// никакого глобального состояния, тесты собирают свежую шину.
type Bus struct {
	handlers map[EventType][]Handler
}

func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe регистрирует обработчик события.
// Порядок регистрации определяет порядок вызова.
func (b *Bus) Subscribe(t EventType, h Handler) {
	b.handlers[t] = append(b.handlers[t], h)
}

// Emit доставляет событие всем подписчикам синхронно.
//
// Вложенные Emit (обработчик эмитит новое событие) выполняются
// depth-first: вложенное событие полностью обрабатывается до того,
// как продолжатся оставшиеся подписчики внешнего.
//
// Паника в одном обработчике не мешает остальным: она перехватывается,
// логируется, доставка продолжается.
func (b *Bus) Emit(e Event) {
	// Снапшот списка: подписка во время доставки не влияет на текущий Emit
	subscribers := b.handlers[e.Type()]

	for i := range subscribers {
		b.safeInvoke(e, subscribers[i], i)
	}
}

func (b *Bus) safeInvoke(e Event, h Handler, index int) {
	defer func() {
		if r := recover(); r != nil {
			logger.WithSystem("event_bus").WithFields(logrus.Fields{
				"event":         e.Type().String(),
				"handler_index": index,
				"panic":         r,
			}).Error("Event handler panicked, continuing delivery.")
		}
	}()
	h(e)
}
