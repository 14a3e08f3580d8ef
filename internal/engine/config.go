package engine

import "time"

// Config хранит параметры запуска движка.
type Config struct {
	// Seed - мастер-зерно всей игровой случайности (урон, криты,
	// исходы крафта). Один сид - одна воспроизводимая симуляция.
	Seed int64

	// DataDir - каталог конфигурационных таблиц (профессии, рецепты,
	// каталог предметов, шаблоны врагов).
	DataDir string

	// InventorySlots - размер инвентаря новых персонажей.
	InventorySlots int
}

// NewConfig создает конфиг по умолчанию (случайный сид).
func NewConfig() Config {
	return Config{
		Seed:           time.Now().UnixNano(),
		DataDir:        "data",
		InventorySlots: 0, // 0 - размер по умолчанию
	}
}
