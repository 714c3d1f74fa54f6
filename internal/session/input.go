package session

import (
	"strings"

	"github.com/astmary-project/astmery/internal/character"
	"github.com/astmary-project/astmery/internal/dice"
)

// SplitDiceInput separates a chat line into a roll formula and a trailing
// description: "2d6 + 3 Attack" splits into "2d6 + 3" and "Attack". The
// longest space-delimited prefix that the roller accepts wins; lines with no
// valid prefix are not rolls.
func SplitDiceInput(input string, state *character.State) (formula, description string, ok bool) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return "", "", false
	}

	best := -1
	for i := range parts {
		prefix := strings.Join(parts[:i+1], " ")
		// Syntax probe only; a fixed seed keeps it cheap and side-effect free.
		if _, err := dice.Roll(dice.Request{Formula: prefix, State: state, Seed: 1}); err == nil {
			best = i
		}
	}
	if best < 0 {
		return "", "", false
	}
	return strings.Join(parts[:best+1], " "), strings.Join(parts[best+1:], " "), true
}
