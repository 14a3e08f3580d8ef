package rng

import (
	"math/rand"
	"time"
)

// Source абстрагирует источник случайности для игровых формул.
//
// Вся случайность геймплея (разброс урона, криты, уклонения, таблицы
// редкости) проходит через этот интерфейс, чтобы тесты могли подставить
// детерминированную последовательность вместо math/rand.
type Source interface {
	// Float64 возвращает число в диапазоне [0.0, 1.0).
	Float64() float64
	// IntBetween возвращает целое в диапазоне [min, max] включительно.
	IntBetween(min, max int) int
}

// randSource - боевая реализация поверх math/rand.
type randSource struct {
	r *rand.Rand
}

// New создает источник случайности с заданным зерном.
func New(seed int64) Source {
	return &randSource{r: rand.New(rand.NewSource(seed))}
}

// NewFromTime создает источник со случайным зерном (текущее время).
func NewFromTime() Source {
	return New(time.Now().UnixNano())
}

func (s *randSource) Float64() float64 {
	return s.r.Float64()
}

func (s *randSource) IntBetween(min, max int) int {
	if max <= min {
		return min
	}
	return min + s.r.Intn(max-min+1)
}

// Sequence - детерминированный источник для тестов.
// Отдает значения из заранее заданных списков по кругу.
type Sequence struct {
	Floats []float64
	Ints   []int

	fi, ii int
}

func (s *Sequence) Float64() float64 {
	if len(s.Floats) == 0 {
		return 0
	}
	v := s.Floats[s.fi%len(s.Floats)]
	s.fi++
	return v
}

func (s *Sequence) IntBetween(min, max int) int {
	if len(s.Ints) == 0 {
		return min
	}
	v := s.Ints[s.ii%len(s.Ints)]
	s.ii++
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
