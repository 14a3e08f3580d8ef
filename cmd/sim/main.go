package main

import (
	"flag"
	"time"

	"homestead-server/internal/core/types"
	"homestead-server/internal/data"
	"homestead-server/internal/domain"
	"homestead-server/internal/engine"
	"homestead-server/internal/version"
	"homestead-server/pkg/logger"
	"homestead-server/pkg/rng"
)

func init() {
	logger.Init()
}

func main() {
	// 1. Парсинг конфигурации
	var seed int64
	var dataDir string
	var ticks int
	var tickMs int
	// Флаг -seed. По умолчанию 0 (значит сгенерировать случайно).
	flag.Int64Var(&seed, "seed", 0, "Simulation seed (0 for random)")
	flag.StringVar(&dataDir, "data", "data", "Path to the data tables directory")
	flag.IntVar(&ticks, "ticks", 120, "Number of simulation ticks to run")
	flag.IntVar(&tickMs, "tick-ms", 500, "Tick length in milliseconds")
	flag.Parse()

	logger.Log.Info("Starting Homestead simulation...")
	logger.Log.Info(version.String())

	cfg := engine.NewConfig()
	cfg.DataDir = dataDir
	if seed != 0 {
		cfg.Seed = seed
		logger.Log.Infof("Using explicit seed: %d", seed)
	} else {
		logger.Log.Infof("Using random seed: %d", cfg.Seed)
	}

	// 2. Загрузка таблиц и сборка движка
	bundle := data.LoadBundle(cfg.DataDir)
	game := engine.NewGame(bundle, rng.New(cfg.Seed), time.Now, cfg)

	// 3. Демонстрационное поселение: шахтер уходит работать,
	// разведчица отправляется в бой
	miner := game.RecruitCharacter("Боргрим", domain.AttributeComponent{
		Strength: 14, Agility: 8, Wisdom: 6, Technique: 10,
	})
	scout := game.RecruitCharacter("Лираэль", domain.AttributeComponent{
		Strength: 8, Agility: 15, Wisdom: 10, Technique: 9,
	})

	for id := range bundle.WorkTypes {
		if _, result := game.Work.AssignWork(miner, id, 30*time.Second); result.OK {
			break
		}
	}

	if partyID, result := game.CreateParty("Разведотряд", []types.EntityID{scout}); result.OK {
		encounter := make([]data.EnemyTemplate, 0, 2)
		for _, tpl := range bundle.Enemies {
			encounter = append(encounter, tpl)
			if len(encounter) == 2 {
				break
			}
		}
		if len(encounter) > 0 {
			game.Combat.StartCombat(partyID, encounter)
		}
	}

	// 4. Главный цикл
	dt := time.Duration(tickMs) * time.Millisecond
	for i := 0; i < ticks; i++ {
		game.Update(dt)
		time.Sleep(dt)
	}

	logger.Log.Info("Simulation finished.")
}
