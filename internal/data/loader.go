package data

import (
	"encoding/json"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"homestead-server/pkg/logger"
)

// Bundle - все загруженные таблицы данных, индексированные по ID.
type Bundle struct {
	Jobs         map[string]JobConfig
	WorkTypes    map[string]WorkTypeConfig
	Recipes      map[string]RecipeConfig
	Items        map[string]ItemTemplate
	Enemies      map[string]EnemyTemplate
	Achievements []AchievementConfig
}

// NewBundle создает пустой бандл (удобно для тестов).
func NewBundle() *Bundle {
	return &Bundle{
		Jobs:      make(map[string]JobConfig),
		WorkTypes: make(map[string]WorkTypeConfig),
		Recipes:   make(map[string]RecipeConfig),
		Items:     make(map[string]ItemTemplate),
		Enemies:   make(map[string]EnemyTemplate),
	}
}

// LoadBundle читает все таблицы из каталога данных.
// Отсутствующий файл - не ошибка (warn и пустая таблица): ядро обязано
// подниматься и на частичном наборе данных.
func LoadBundle(dir string) *Bundle {
	b := NewBundle()

	b.Jobs = indexJobs(ParseJobs(readFile(filepath.Join(dir, "jobs.yaml"))))
	b.WorkTypes = indexWorkTypes(ParseWorkTypes(readFile(filepath.Join(dir, "work_types.yaml"))))
	b.Items = indexItems(ParseItems(readFile(filepath.Join(dir, "items.yaml"))))
	b.Enemies = indexEnemies(ParseEnemies(readFile(filepath.Join(dir, "enemies.yaml"))))
	b.Recipes = indexRecipes(ParseRecipes(readFile(filepath.Join(dir, "recipes.json"))))
	b.Achievements = ParseAchievements(readFile(filepath.Join(dir, "achievements.yaml")))

	logger.WithSystem("data_loader").
		WithField("jobs", len(b.Jobs)).
		WithField("work_types", len(b.WorkTypes)).
		WithField("recipes", len(b.Recipes)).
		WithField("items", len(b.Items)).
		WithField("enemies", len(b.Enemies)).
		WithField("achievements", len(b.Achievements)).
		Info("Data bundle loaded.")

	return b
}

func readFile(path string) []byte {
	raw, err := os.ReadFile(path)
	if err != nil {
		logger.WithSystem("data_loader").WithField("path", path).
			Warn("Data file missing or unreadable, skipping.")
		return nil
	}
	return raw
}

// --- ПАРСЕРЫ ---
//
// Каждый парсер терпим к браку: нераспознанный файл дает пустой список,
// отдельная невалидная запись пропускается с warn-логом.

func ParseJobs(raw []byte) []JobConfig {
	var doc struct {
		Jobs []JobConfig `yaml:"jobs"`
	}
	if len(raw) == 0 {
		return nil
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		logger.WithSystem("data_loader").WithError(err).Warn("Failed to parse jobs.yaml")
		return nil
	}
	out := make([]JobConfig, 0, len(doc.Jobs))
	for _, j := range doc.Jobs {
		if !j.valid() {
			logger.WithSystem("data_loader").WithField("id", j.ID).Warn("Skipping invalid job record.")
			continue
		}
		out = append(out, j)
	}
	return out
}

func ParseWorkTypes(raw []byte) []WorkTypeConfig {
	var doc struct {
		WorkTypes []WorkTypeConfig `yaml:"workTypes"`
	}
	if len(raw) == 0 {
		return nil
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		logger.WithSystem("data_loader").WithError(err).Warn("Failed to parse work_types.yaml")
		return nil
	}
	out := make([]WorkTypeConfig, 0, len(doc.WorkTypes))
	for _, w := range doc.WorkTypes {
		if !w.valid() {
			logger.WithSystem("data_loader").WithField("id", w.ID).Warn("Skipping invalid work type record.")
			continue
		}
		out = append(out, w)
	}
	return out
}

func ParseItems(raw []byte) []ItemTemplate {
	var doc struct {
		Items []ItemTemplate `yaml:"items"`
	}
	if len(raw) == 0 {
		return nil
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		logger.WithSystem("data_loader").WithError(err).Warn("Failed to parse items.yaml")
		return nil
	}
	out := make([]ItemTemplate, 0, len(doc.Items))
	for _, it := range doc.Items {
		if !it.valid() {
			logger.WithSystem("data_loader").WithField("id", it.ID).Warn("Skipping invalid item record.")
			continue
		}
		out = append(out, it)
	}
	return out
}

func ParseEnemies(raw []byte) []EnemyTemplate {
	var doc struct {
		Enemies []EnemyTemplate `yaml:"enemies"`
	}
	if len(raw) == 0 {
		return nil
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		logger.WithSystem("data_loader").WithError(err).Warn("Failed to parse enemies.yaml")
		return nil
	}
	out := make([]EnemyTemplate, 0, len(doc.Enemies))
	for _, e := range doc.Enemies {
		if !e.valid() {
			logger.WithSystem("data_loader").WithField("id", e.ID).Warn("Skipping invalid enemy record.")
			continue
		}
		out = append(out, e)
	}
	return out
}

// ParseRecipes читает рецепты из JSON (исторический формат таблицы).
func ParseRecipes(raw []byte) []RecipeConfig {
	var doc struct {
		Recipes []RecipeConfig `json:"recipes"`
	}
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		logger.WithSystem("data_loader").WithError(err).Warn("Failed to parse recipes.json")
		return nil
	}
	out := make([]RecipeConfig, 0, len(doc.Recipes))
	for _, r := range doc.Recipes {
		if !r.valid() {
			logger.WithSystem("data_loader").WithField("id", r.ID).Warn("Skipping invalid recipe record.")
			continue
		}
		out = append(out, r)
	}
	return out
}

func ParseAchievements(raw []byte) []AchievementConfig {
	var doc struct {
		Achievements []AchievementConfig `yaml:"achievements"`
	}
	if len(raw) == 0 {
		return nil
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		logger.WithSystem("data_loader").WithError(err).Warn("Failed to parse achievements.yaml")
		return nil
	}
	out := make([]AchievementConfig, 0, len(doc.Achievements))
	for _, a := range doc.Achievements {
		if !a.valid() {
			logger.WithSystem("data_loader").WithField("id", a.ID).Warn("Skipping invalid achievement record.")
			continue
		}
		out = append(out, a)
	}
	return out
}

// --- ИНДЕКСАЦИЯ ---

func indexJobs(list []JobConfig) map[string]JobConfig {
	m := make(map[string]JobConfig, len(list))
	for _, v := range list {
		m[v.ID] = v
	}
	return m
}

func indexWorkTypes(list []WorkTypeConfig) map[string]WorkTypeConfig {
	m := make(map[string]WorkTypeConfig, len(list))
	for _, v := range list {
		m[v.ID] = v
	}
	return m
}

func indexItems(list []ItemTemplate) map[string]ItemTemplate {
	m := make(map[string]ItemTemplate, len(list))
	for _, v := range list {
		m[v.ID] = v
	}
	return m
}

func indexEnemies(list []EnemyTemplate) map[string]EnemyTemplate {
	m := make(map[string]EnemyTemplate, len(list))
	for _, v := range list {
		m[v.ID] = v
	}
	return m
}

func indexRecipes(list []RecipeConfig) map[string]RecipeConfig {
	m := make(map[string]RecipeConfig, len(list))
	for _, v := range list {
		m[v.ID] = v
	}
	return m
}
