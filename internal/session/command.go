package session

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/astmary-project/astmery/internal/character"
)

// Chat-command grammar: a leading colon marks a resource command.
//
//	:reset            reset every resettable resource (alias :rest)
//	:HP-5             modify by a delta
//	:MP=12            set to a value
//	:MP=reset         reset one resource (alias =init)
//	:HP-5;MP+2        several updates in one line
//
// Right-hand sides may be formulas ("{Grade}*2") as well as numbers.
var (
	resetAllPattern = regexp.MustCompile(`^:(?i:reset|rest)$`)
	updatePattern   = regexp.MustCompile(`^:?([^=+\-]+)([=+\-])(.+)$`)
)

// ParseCommand parses a chat line into resource events. Non-commands return
// nil; the caller falls back to dice-roll parsing and then plain chat.
func ParseCommand(input string) []Event {
	trimmed := strings.TrimSpace(input)

	if resetAllPattern.MatchString(trimmed) {
		return []Event{NewResetResources()}
	}
	if !strings.HasPrefix(trimmed, ":") {
		return nil
	}

	var events []Event
	for _, part := range strings.Split(trimmed, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		m := updatePattern.FindStringSubmatch(part)
		if m == nil {
			continue
		}
		resourceID := strings.ToLower(strings.TrimSpace(m[1]))
		operator := m[2]
		rhs := strings.TrimSpace(m[3])
		if resourceID == "" || rhs == "" {
			continue
		}

		update := character.ResourceUpdate{ResourceID: resourceID}
		switch operator {
		case "=":
			if lower := strings.ToLower(rhs); lower == "reset" || lower == "init" {
				update.Op = character.ResourceOpReset
				break
			}
			update.Op = character.ResourceOpSet
			fillOperand(&update, rhs, false)
		case "+":
			update.Op = character.ResourceOpModify
			fillOperand(&update, rhs, false)
		case "-":
			update.Op = character.ResourceOpModify
			fillOperand(&update, rhs, true)
		}
		events = append(events, NewResourceUpdate(update))
	}
	return events
}

// fillOperand stores the right-hand side as a number when it is one, as a
// formula otherwise. A formula under a minus operator is negated whole.
func fillOperand(update *character.ResourceUpdate, rhs string, negate bool) {
	if value, err := strconv.ParseFloat(rhs, 64); err == nil && !strings.Contains(rhs, "{") {
		if negate {
			value = -value
		}
		update.Value = &value
		return
	}
	if negate {
		update.Formula = "-(" + rhs + ")"
		return
	}
	update.Formula = rhs
}
