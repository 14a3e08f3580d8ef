package types

import (
	"fmt"
	"strconv"
)

// EntityID — 64-битный идентификатор сущности.
//
// EntityID является value-type и предназначен для дешёвого копирования,
// сериализации и сравнения.
//
// Формат битов (от старших к младшим):
//
//	[ Type (8) | Generation (16) | Index (40) ]
//
// Где:
//   - Type — тип сущности (Character, Enemy, Item и т.д.)
//   - Generation — версия слота сущности (защита от устаревших ссылок)
//   - Index — порядковый номер слота в реестре
//
// Пока где-то в компонентах может храниться ссылка на уничтоженную
// сущность, её слот переиспользуется только с новым Generation —
// старый EntityID при этом никогда не «оживает» заново.
type EntityID uint64

// NilEntityID — нулевой идентификатор сущности.
//
// Используется как аналог nil: пустой слот экипировки, отсутствующая
// ссылка и т.д.
const NilEntityID EntityID = 0

// Конфигурация битов EntityID. Общее количество бит — 64.
const (
	// bitsIndex — количество бит под порядковый номер слота.
	bitsIndex = 40

	// bitsGen — количество бит под поколение слота.
	// Используется для защиты от использования устаревших ссылок.
	bitsGen = 16

	// bitsType — количество бит под тип сущности (до 256 типов).
	bitsType = 8

	// Сдвиги битов
	shiftGen  = bitsIndex
	shiftType = bitsIndex + bitsGen

	// Маски для извлечения значений
	maskIndex = (1 << bitsIndex) - 1
	maskGen   = (1 << bitsGen) - 1
	maskType  = (1 << bitsType) - 1
)

// PackEntityID собирает EntityID из составных частей.
//
// Функция не выполняет проверок диапазонов значений и предполагает,
// что входные данные валидны.
func PackEntityID(typeID uint8, gen uint16, index uint64) EntityID {
	return EntityID(
		(uint64(typeID) << shiftType) |
			(uint64(gen) << shiftGen) |
			(index & maskIndex),
	)
}

// Index возвращает порядковый номер слота сущности.
func (id EntityID) Index() uint64 {
	return uint64(id & maskIndex)
}

// Generation возвращает поколение слота сущности.
//
// Используется для обнаружения устаревших ссылок на уничтоженные сущности.
func (id EntityID) Generation() uint16 {
	return uint16((id >> shiftGen) & maskGen)
}

// Type возвращает тип сущности.
func (id EntityID) Type() uint8 {
	return uint8((id >> shiftType) & maskType)
}

// IsNil проверяет, является ли идентификатор нулевым.
func (id EntityID) IsNil() bool {
	return id == NilEntityID
}

// String возвращает человекочитаемое представление EntityID.
// Предназначено для логирования и отладки.
func (id EntityID) String() string {
	if id.IsNil() {
		return "<nil>"
	}
	return fmt.Sprintf("[type=%d gen=%d idx=%d]", id.Type(), id.Generation(), id.Index())
}

// MarshalJSON сериализует EntityID в JSON как строку.
//
// Это необходимо для предотвращения потери точности при работе с
// JavaScript и другими средами, не поддерживающими uint64.
func (id EntityID) MarshalJSON() ([]byte, error) {
	return []byte(`"` + strconv.FormatUint(uint64(id), 10) + `"`), nil
}

// UnmarshalJSON десериализует EntityID из JSON.
// Поддерживаются как строковое, так и числовое представление.
func (id *EntityID) UnmarshalJSON(data []byte) error {
	s := string(data)

	if len(s) > 1 && s[0] == '"' {
		s = s[1 : len(s)-1]
	}

	if s == "" {
		*id = NilEntityID
		return nil
	}

	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return err
	}

	*id = EntityID(v)
	return nil
}
