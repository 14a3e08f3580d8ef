package enums

import "strings"

// Rarity - редкость созданного предмета.
type Rarity uint8

const (
	RarityCommon Rarity = iota
	RarityUncommon
	RarityRare
	RarityEpic
	RarityLegendary
)

var rarityToString = map[Rarity]string{
	RarityCommon:    "COMMON",
	RarityUncommon:  "UNCOMMON",
	RarityRare:      "RARE",
	RarityEpic:      "EPIC",
	RarityLegendary: "LEGENDARY",
}

var rarityStringToType = map[string]Rarity{
	"COMMON":    RarityCommon,
	"UNCOMMON":  RarityUncommon,
	"RARE":      RarityRare,
	"EPIC":      RarityEpic,
	"LEGENDARY": RarityLegendary,
}

func (r Rarity) String() string {
	if val, ok := rarityToString[r]; ok {
		return val
	}
	return "COMMON"
}

func ParseRarity(s string) Rarity {
	upper := strings.ToUpper(s)
	if val, ok := rarityStringToType[upper]; ok {
		return val
	}
	return RarityCommon
}
