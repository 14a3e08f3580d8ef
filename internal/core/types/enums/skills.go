package enums

import "strings"

// SkillKind - вид навыка персонажа.
type SkillKind uint8

const (
	SkillKindUnknown SkillKind = iota
	SkillKindPassive
	SkillKindActive
	SkillKindBadge
)

var skillKindToString = map[SkillKind]string{
	SkillKindPassive: "PASSIVE",
	SkillKindActive:  "ACTIVE",
	SkillKindBadge:   "BADGE",
}

var skillKindStringToType = map[string]SkillKind{
	"PASSIVE": SkillKindPassive,
	"ACTIVE":  SkillKindActive,
	"BADGE":   SkillKindBadge,
}

func (k SkillKind) String() string {
	if val, ok := skillKindToString[k]; ok {
		return val
	}
	return "UNKNOWN"
}

func ParseSkillKind(s string) SkillKind {
	upper := strings.ToUpper(s)
	if val, ok := skillKindStringToType[upper]; ok {
		return val
	}
	return SkillKindUnknown
}
