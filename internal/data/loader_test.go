package data

import (
	"os"
	"testing"

	"homestead-server/internal/domain"
	"homestead-server/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

func TestParseJobsSkipsInvalid(t *testing.T) {
	raw := []byte(`
jobs:
  - id: miner
    name: Шахтер
    requirements:
      level: 1
      attributes:
        strength: 10
    statBonus:
      - stat: attack
        type: flat
        value: 3
  - id: ""
    name: Безымянная запись
`)
	jobs := ParseJobs(raw)
	if len(jobs) != 1 {
		t.Fatalf("Job count is wrong. Got %d, want %d", len(jobs), 1)
	}
	j := jobs[0]
	if j.ID != "miner" || j.Requirements.Level != 1 || j.Requirements.Attributes["strength"] != 10 {
		t.Errorf("Parsed job is wrong: %+v", j)
	}
	mods := ToModifiers(j.StatBonus)
	if len(mods) != 1 || mods[0].Stat != domain.StatAttack || mods[0].Type != domain.ModifierFlat || mods[0].Value != 3 {
		t.Errorf("Parsed stat bonus is wrong: %+v", mods)
	}
}

func TestParseWorkTypesSkipsEmptyYieldItem(t *testing.T) {
	raw := []byte(`
workTypes:
  - id: mining
    name: Добыча руды
    experiencePerHour: 20
    yields:
      - itemId: iron_ore
        perHour: 10
  - id: broken
    name: Брак
    yields:
      - itemId: ""
        perHour: 5
`)
	types := ParseWorkTypes(raw)
	if len(types) != 1 || types[0].ID != "mining" {
		t.Fatalf("Work types are wrong: %+v", types)
	}
	if types[0].Yields[0].PerHour != 10 {
		t.Errorf("Yield rate is wrong. Got %v, want %v", types[0].Yields[0].PerHour, 10.0)
	}
}

func TestParseItemsValidatesCategory(t *testing.T) {
	raw := []byte(`
items:
  - id: iron_sword
    name: Железный меч
    category: EQUIPMENT
    slot: weapon
    quality: 50
    maxStack: 1
    modifiers:
      - stat: attack
        type: flat
        value: 10
  - id: mystery
    name: Неизвестная категория
    category: GARBAGE
`)
	items := ParseItems(raw)
	if len(items) != 1 || items[0].ID != "iron_sword" {
		t.Fatalf("Items are wrong: %+v", items)
	}
}

func TestParseRecipesSkipsEmptyMaterial(t *testing.T) {
	raw := []byte(`{
  "recipes": [
    {
      "id": "smelt_iron",
      "name": "Выплавка железа",
      "materials": [{"itemId": "iron_ore", "quantity": 2}],
      "result": {"itemId": "iron_ingot", "quantity": 1, "baseQuality": 30},
      "baseSuccessRate": 0.6,
      "durationMs": 60000,
      "experience": 40
    },
    {
      "id": "broken",
      "materials": [{"itemId": "", "quantity": 1}],
      "result": {"itemId": "x", "quantity": 1}
    }
  ]
}`)
	recipes := ParseRecipes(raw)
	if len(recipes) != 1 || recipes[0].ID != "smelt_iron" {
		t.Fatalf("Recipes are wrong: %+v", recipes)
	}
	if recipes[0].DurationMs != 60000 || recipes[0].BaseSuccessRate != 0.6 {
		t.Errorf("Recipe fields are wrong: %+v", recipes[0])
	}
}

func TestParseGarbageInput(t *testing.T) {
	if got := ParseJobs([]byte("{{{ не yaml")); got != nil {
		t.Errorf("Garbage yaml produced jobs: %+v", got)
	}
	if got := ParseRecipes([]byte("не json")); got != nil {
		t.Errorf("Garbage json produced recipes: %+v", got)
	}
	if got := ParseEnemies(nil); got != nil {
		t.Errorf("Empty input produced enemies: %+v", got)
	}
}

func TestParseAchievements(t *testing.T) {
	raw := []byte(`
achievements:
  - id: first_blood
    name: Первая кровь
    counter: enemies_defeated
    threshold: 1
    badge:
      id: hunter_badge
      name: Жетон охотника
      modifiers:
        - stat: attack
          type: flat
          value: 2
  - id: broken
    counter: ""
    threshold: 1
`)
	list := ParseAchievements(raw)
	if len(list) != 1 || list[0].ID != "first_blood" {
		t.Fatalf("Achievements are wrong: %+v", list)
	}
	badge := list[0].Badge.ToBadge()
	if badge.ID != "hunter_badge" || len(badge.Modifiers) != 1 {
		t.Errorf("Badge conversion is wrong: %+v", badge)
	}
}

// Отсутствующий каталог данных дает пустой бандл, а не панику.
func TestLoadBundleMissingDir(t *testing.T) {
	b := LoadBundle(t.TempDir())
	if len(b.Jobs) != 0 || len(b.Recipes) != 0 || len(b.Items) != 0 {
		t.Errorf("Bundle from an empty dir is not empty: %+v", b)
	}
}

func TestLoadBundleFromFiles(t *testing.T) {
	dir := t.TempDir()
	items := []byte("items:\n  - id: iron_ore\n    name: Железная руда\n    category: MATERIAL\n    quality: 50\n    maxStack: 99\n")
	if err := os.WriteFile(dir+"/items.yaml", items, 0o644); err != nil {
		t.Fatal(err)
	}

	b := LoadBundle(dir)
	if _, ok := b.Items["iron_ore"]; !ok {
		t.Errorf("Bundle missing the loaded item: %+v", b.Items)
	}
}
