// Package stat holds the bilingual stat-name tables shared by the calculator,
// the effect parser and the dice roller.
//
// Canonical keys are the internal identifiers ("Body", "MaxHP"); labels are
// the localized display names ("肉体", "最大HP"). The mapping is data, not
// code: ad-hoc keys that appear in neither table pass through verbatim.
package stat

import (
	"sort"
	"strings"
)

// Labels maps canonical stat keys to their localized display labels.
var Labels = map[string]string{
	"Grade":          "グレード",
	"Science":        "科学技術力",
	"MagicKnowledge": "魔術熟知",
	"Combat":         "戦闘能力",
	"Magic":          "魔力",
	"Spirit":         "精神",
	"Body":           "肉体",
	"MaxHP":          "最大HP",
	"MaxMP":          "最大MP",
	"Defense":        "防護",
	"MagicDefense":   "魔術防御",
	"ActionSpeed":    "行動速度",
	"DamageDice":     "ダメージダイス",
	"InsightCheck":   "看破判定",
	"RecoveryAmount": "回復量",
	"KnowledgeCheck": "知識判定",
	"GatheringCount": "採集回数",
	"SpellCheck":     "魔術行使",
}

// StandardOrder is the display order for the standard stat block.
var StandardOrder = []string{
	"Grade",
	"ActionSpeed",
	"Science",
	"MagicKnowledge",
	"Combat",
	"Magic",
	"Spirit",
	"Body",
	"MaxHP",
	"MaxMP",
	"Defense",
	"MagicDefense",
}

// AbilityKeys are the stats grown directly with experience.
var AbilityKeys = []string{
	"Body",
	"Spirit",
	"Combat",
	"Science",
	"Magic",
	"MagicKnowledge",
}

// DefaultFormulas is the baked-in derived-stat formula table. Equipment and
// skill overrides overlay it during the bonus pass.
var DefaultFormulas = map[string]string{
	"MaxHP":        "({Grade} + {Body}) * 5",
	"MaxMP":        "({Grade} + {Spirit}) * 5",
	"Defense":      "{Body} * 2",
	"MagicDefense": "{Spirit} * 2",
	"ActionSpeed":  "{Grade} + {Science} + 10",
	"DamageDice":   "1 + floor({Combat} / 10)",
}

// canonicalByLabel is the exact inverse of Labels, built once at init.
var canonicalByLabel = func() map[string]string {
	inverse := make(map[string]string, len(Labels))
	for key, label := range Labels {
		inverse[label] = key
	}
	return inverse
}()

// labelsLongestFirst caches label keys sorted by descending length so that
// in-text replacement never lets a short label clobber a longer one that
// contains it.
var labelsLongestFirst = func() []string {
	labels := make([]string, 0, len(canonicalByLabel))
	for label := range canonicalByLabel {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool {
		if len(labels[i]) != len(labels[j]) {
			return len(labels[i]) > len(labels[j])
		}
		return labels[i] < labels[j]
	})
	return labels
}()

// Canonical resolves a localized label to its canonical key. Names that are
// not in the table are treated as ad-hoc custom stats and returned verbatim.
func Canonical(name string) string {
	if key, ok := canonicalByLabel[name]; ok {
		return key
	}
	return name
}

// Label returns the localized display label for a canonical key, or the key
// itself when no label is registered.
func Label(key string) string {
	if label, ok := Labels[key]; ok {
		return label
	}
	return key
}

// IsCanonical reports whether key is one of the built-in canonical keys.
func IsCanonical(key string) bool {
	_, ok := Labels[key]
	return ok
}

// CanonicalizeText replaces every localized label embedded in raw text with
// its canonical key, longest label first.
func CanonicalizeText(text string) string {
	for _, label := range labelsLongestFirst {
		if strings.Contains(text, label) {
			text = strings.ReplaceAll(text, label, canonicalByLabel[label])
		}
	}
	return text
}
