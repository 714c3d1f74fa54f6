// Package dice evaluates roll formulas: standard NdM notation mixed with
// arithmetic and {Stat} references resolved against a character state.
package dice

import (
	"errors"
	"fmt"
	"math/rand"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/astmary-project/astmery/internal/character"
	"github.com/astmary-project/astmery/internal/character/formula"
	"github.com/astmary-project/astmery/internal/character/stat"
)

// ErrInvalidRoll marks a formula the roller could not interpret.
var ErrInvalidRoll = errors.New("invalid roll formula")

// Request describes one roll. Seed fixes the random sequence when non-zero;
// otherwise the roll seeds from the clock.
type Request struct {
	Formula string
	State   *character.State
	Seed    int64
}

// Result is the outcome of one roll. Detail keeps the bracketed per-die
// values ("[3, 5] + 4") for display; Total is the evaluated sum. Critical is
// set when every die shows its maximum, Fumble when every die shows 1.
type Result struct {
	Total    float64
	Detail   string
	Critical bool
	Fumble   bool
}

var (
	placeholderPattern = regexp.MustCompile(`\{([^{}]+)\}`)
	dicePattern        = regexp.MustCompile(`(\d+)[dD](\d+)`)
	bracketPattern     = regexp.MustCompile(`\[([\d, ]+)\]`)
	letterPattern      = regexp.MustCompile(`[\p{L}_]+`)
)

var functionNames = map[string]bool{
	"sqrt": true, "ceil": true, "floor": true, "round": true,
	"abs": true, "min": true, "max": true, "pow": true,
}

// Roll resolves stat references, rolls every NdM group and evaluates the
// remaining arithmetic. Formulas containing references that resolve to
// nothing (plain words, unknown stats outside braces) are rejected, so
// callers can distinguish a roll from free-text chat.
func Roll(req Request) (Result, error) {
	expr := strings.TrimSpace(req.Formula)
	if expr == "" {
		return Result{}, fmt.Errorf("%w: empty formula", ErrInvalidRoll)
	}

	scope := rollScope(req.State)
	expr = placeholderPattern.ReplaceAllStringFunc(expr, func(match string) string {
		name := match[1 : len(match)-1]
		value, _ := scope.Value(name)
		return formatNumber(value)
	})
	expr = replaceBareStats(expr, req.State)

	rng := rand.New(rand.NewSource(seedOf(req)))
	critical, fumble := false, false
	rolled := false
	detail := dicePattern.ReplaceAllStringFunc(expr, func(match string) string {
		m := dicePattern.FindStringSubmatch(match)
		count, _ := strconv.Atoi(m[1])
		sides, _ := strconv.Atoi(m[2])
		if count <= 0 || sides <= 0 {
			return match
		}
		rolls := make([]string, count)
		allMax, allOne := true, true
		for i := 0; i < count; i++ {
			v := rng.Intn(sides) + 1
			rolls[i] = strconv.Itoa(v)
			allMax = allMax && v == sides
			allOne = allOne && v == 1
		}
		rolled = true
		critical = critical || allMax
		fumble = fumble || allOne
		return "[" + strings.Join(rolls, ", ") + "]"
	})

	evalExpr := bracketPattern.ReplaceAllStringFunc(detail, func(match string) string {
		sum := 0
		for _, part := range strings.Split(match[1:len(match)-1], ",") {
			v, _ := strconv.Atoi(strings.TrimSpace(part))
			sum += v
		}
		return "(" + strconv.Itoa(sum) + ")"
	})

	if name := unresolvedReference(evalExpr); name != "" {
		return Result{}, fmt.Errorf("%w: unknown reference %q", ErrInvalidRoll, name)
	}

	total, err := formula.Eval(evalExpr, formula.Scope{})
	if err != nil {
		return Result{}, fmt.Errorf("%w: %s", ErrInvalidRoll, req.Formula)
	}

	return Result{
		Total:    total,
		Detail:   detail,
		Critical: rolled && critical,
		Fumble:   rolled && fumble,
	}, nil
}

func seedOf(req Request) int64 {
	if req.Seed != 0 {
		return req.Seed
	}
	return time.Now().UnixNano()
}

func rollScope(state *character.State) formula.Scope {
	if state == nil {
		return formula.Scope{}
	}
	return state.Scope(nil)
}

// replaceBareStats substitutes known stat and derived-stat names appearing
// outside braces, longest name first so "MaxHP" never decays into "Max" +
// "HP". English names replace on word boundaries; Japanese labels replace
// verbatim.
func replaceBareStats(expr string, state *character.State) string {
	if state == nil {
		return expr
	}
	values := make(map[string]float64, len(state.Stats)+len(state.DerivedStats))
	for key, v := range state.Stats {
		values[key] = v
	}
	for key, v := range state.DerivedStats {
		values[key] = v
		if label := stat.Label(key); label != key {
			values[label] = v
		}
	}
	for key, v := range state.Stats {
		if label := stat.Label(key); label != key {
			values[label] = v
		}
	}

	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	// Longest first, ties alphabetical for determinism.
	for i := 0; i < len(names); i++ {
		for j := i + 1; j < len(names); j++ {
			if len(names[j]) > len(names[i]) || (len(names[j]) == len(names[i]) && names[j] < names[i]) {
				names[i], names[j] = names[j], names[i]
			}
		}
	}

	for _, name := range names {
		if !strings.Contains(expr, name) {
			continue
		}
		replacement := formatNumber(values[name])
		if isWordName(name) {
			pattern := regexp.MustCompile(`\b` + regexp.QuoteMeta(name) + `\b`)
			expr = pattern.ReplaceAllString(expr, replacement)
		} else {
			expr = strings.ReplaceAll(expr, name, replacement)
		}
	}
	return expr
}

func isWordName(name string) bool {
	for _, r := range name {
		wordy := r == '_' || (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		if !wordy {
			return false
		}
	}
	return name != ""
}

// unresolvedReference returns the first identifier left in the expression
// that is not a function name. Anything surviving replacement is a word the
// roller cannot score.
func unresolvedReference(expr string) string {
	for _, match := range letterPattern.FindAllString(expr, -1) {
		if !functionNames[strings.ToLower(match)] {
			return match
		}
	}
	return ""
}

func formatNumber(v float64) string {
	return "(" + strconv.FormatFloat(v, 'f', -1, 64) + ")"
}
