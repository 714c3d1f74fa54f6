// Package effect parses user-authored effect text ("肉体+2, 防護:{肉体}/2,
// GrantStat:karma(カルマ)=0") into calculator inputs. The grammar is lenient:
// tokens that match no form are ignored rather than rejected, since effect
// strings double as display text.
package effect

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/astmary-project/astmery/internal/character"
	"github.com/astmary-project/astmery/internal/character/stat"
)

// Parsed is the machine-readable side of an effect string.
type Parsed struct {
	// StatModifiers holds fixed additive bonuses keyed by canonical stat.
	StatModifiers map[string]float64
	// DynamicModifiers holds formula-valued bonuses keyed by canonical stat.
	DynamicModifiers map[string]string
	// GrantedStats are new primary stats introduced by the effect.
	GrantedStats []character.GrantedStat
	// GrantedResources are new pools introduced by the effect.
	GrantedResources []character.Resource
}

// Token forms, tried in order; the first match wins.
var (
	// Tokens are runs of non-separator characters, with {...} and (...)
	// groups kept intact so formulas survive splitting.
	tokenPattern = regexp.MustCompile(`(?:\{[^{}]*\}|\([^()]*\)|[^,、\s])+`)

	// GrantStat:Key(Label)=N or GrantStat:Label=N
	grantStatPattern = regexp.MustCompile(`^(?i:GrantStat):(.+?)(?:\((.+?)\))?=(\d+)$`)
	// GrantResource:Name=N or GrantResource:Name{max:10,min:0,init:10}
	grantResourcePattern = regexp.MustCompile(`^(?i:GrantResource):(.+?)(?:=(.+)|\{(.+)\})?$`)
	// Stat+N / Stat-N
	staticPattern = regexp.MustCompile(`^(.+?)([+-])(\d+)$`)
	// Stat:Formula (ASCII or full-width colon)
	dynamicPattern = regexp.MustCompile(`^(.+?)[:：](.+)$`)
)

// Parse extracts every recognized token from an effect string. Unrecognized
// tokens are skipped silently.
func Parse(text string) Parsed {
	parsed := Parsed{
		StatModifiers:    map[string]float64{},
		DynamicModifiers: map[string]string{},
	}

	for _, token := range tokenPattern.FindAllString(text, -1) {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}

		if m := grantStatPattern.FindStringSubmatch(token); m != nil {
			key, label, value := m[1], m[2], m[3]
			if label == "" {
				label = key
			}
			parsed.GrantedStats = append(parsed.GrantedStats, character.GrantedStat{
				Key:    key,
				Label:  label,
				Value:  value,
				IsMain: true,
			})
			continue
		}

		if m := grantResourcePattern.FindStringSubmatch(token); m != nil {
			parsed.GrantedResources = append(parsed.GrantedResources, grantedResource(m[1], m[2], m[3]))
			continue
		}

		if m := staticPattern.FindStringSubmatch(token); m != nil {
			value, err := strconv.ParseFloat(m[3], 64)
			if err != nil {
				continue
			}
			if m[2] == "-" {
				value = -value
			}
			key := stat.Canonical(strings.TrimSpace(m[1]))
			parsed.StatModifiers[key] += value
			continue
		}

		if m := dynamicPattern.FindStringSubmatch(token); m != nil {
			key := stat.Canonical(strings.TrimSpace(m[1]))
			parsed.DynamicModifiers[key] = strings.TrimSpace(m[2])
		}
	}
	return parsed
}

// grantedResource builds a pool from either the simple form ("=10", max and
// initial both 10, min 0) or the property form ("max:10,min:0,init:10",
// initial defaulting to max).
func grantedResource(name, simple, props string) character.Resource {
	max, min, initial := 0, 0, 0
	switch {
	case props != "":
		pairs := map[string]int{}
		hasInit := false
		for _, pair := range strings.Split(props, ",") {
			kv := strings.FieldsFunc(pair, func(r rune) bool { return r == ':' || r == '=' })
			if len(kv) != 2 {
				continue
			}
			key := strings.ToLower(strings.TrimSpace(kv[0]))
			value, err := strconv.Atoi(strings.TrimSpace(kv[1]))
			if err != nil {
				value = 0
			}
			pairs[key] = value
			if key == "init" {
				hasInit = true
			}
		}
		max = pairs["max"]
		min = pairs["min"]
		if hasInit {
			initial = pairs["init"]
		} else {
			initial = max
		}
	case simple != "":
		if v, err := strconv.Atoi(simple); err == nil {
			max = v
		}
		initial = max
	}
	return character.Resource{
		ID:        uuid.NewString(),
		Name:      name,
		Max:       strconv.Itoa(max),
		Min:       strconv.Itoa(min),
		Initial:   strconv.Itoa(initial),
		ResetMode: character.ResetToInitial,
	}
}

// Variant folds the modifier halves of the parse into a calculator variant.
// Fixed bonuses become constant formulas so both kinds flow through one map.
func (p Parsed) Variant() character.Variant {
	modifiers := make(map[string]string, len(p.StatModifiers)+len(p.DynamicModifiers))
	for key, value := range p.StatModifiers {
		modifiers[key] = strconv.FormatFloat(value, 'f', -1, 64)
	}
	for key, f := range p.DynamicModifiers {
		modifiers[key] = f
	}
	if len(modifiers) == 0 {
		return character.Variant{}
	}
	return character.Variant{Modifiers: modifiers}
}
