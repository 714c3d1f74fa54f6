// Package formula evaluates the arithmetic expressions that drive stat
// values, derived stats, resource bounds and roll modifiers.
//
// A formula is plain arithmetic over numbers and stat references. Stat
// references are written as {Key} placeholders (localized or canonical) or as
// bare identifiers. The grammar is deliberately restricted: operators,
// comparisons, a ternary conditional and a fixed function whitelist. Formulas
// are end-user-authored content, so evaluation never panics; a broken formula
// yields 0 plus an error for the caller to surface.
package formula

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/astmary-project/astmery/internal/character/stat"
)

// ErrInvalidFormula indicates the expression could not be parsed.
var ErrInvalidFormula = errors.New("invalid formula")

// ErrNotFinite indicates the expression evaluated to NaN or infinity.
var ErrNotFinite = errors.New("formula result is not finite")

// Scope supplies stat values to a formula. Resolution order for a reference:
// overrides (exact key, then canonical), derived stats (canonical), base
// stats (canonical, then exact), else 0.
type Scope struct {
	Stats     map[string]float64
	Derived   map[string]float64
	Overrides map[string]float64
}

// Value resolves a stat reference. The boolean reports whether any layer
// defined the key; undefined references evaluate as 0.
func (s Scope) Value(name string) (float64, bool) {
	canonical := stat.Canonical(name)
	if value, ok := s.Overrides[name]; ok {
		return value, true
	}
	if value, ok := s.Overrides[canonical]; ok {
		return value, true
	}
	if value, ok := s.Derived[canonical]; ok {
		return value, true
	}
	if value, ok := s.Stats[canonical]; ok {
		return value, true
	}
	if value, ok := s.Stats[name]; ok {
		return value, true
	}
	return 0, false
}

// Eval evaluates a formula against the scope. On any parse or evaluation
// failure it returns 0 and a non-nil error; it never panics. Evaluation is
// deterministic: the same expression and scope always produce the same value.
func Eval(expr string, scope Scope) (float64, error) {
	parser := &parser{scope: scope}
	parser.tokens = tokenize(expr)

	value, err := parser.parseTernary()
	if err != nil {
		return 0, err
	}
	if !parser.atEnd() {
		return 0, fmt.Errorf("%w: unexpected %q", ErrInvalidFormula, parser.peek().text)
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, fmt.Errorf("%w: %s", ErrNotFinite, expr)
	}
	return value, nil
}

// EvalNumberOrFormula treats the input as a bare number when possible and
// falls back to full evaluation. Resource bounds and granted values are
// stored as formula strings but are most often plain literals.
func EvalNumberOrFormula(input string, scope Scope) (float64, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return 0, nil
	}
	if n, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return n, nil
	}
	return Eval(trimmed, scope)
}

type tokenKind int

const (
	tokenNumber tokenKind = iota
	tokenIdent
	tokenRef // {Key} placeholder
	tokenOp
	tokenInvalid
)

type token struct {
	kind tokenKind
	text string
}

var operators = []string{
	"<=", ">=", "==", "!=", "&&", "||",
	"+", "-", "*", "/", "%", "(", ")", "<", ">", "?", ":", ",", "!",
}

func tokenize(expr string) []token {
	var tokens []token
	runes := []rune(expr)
	i := 0
	for i < len(runes) {
		r := runes[i]
		if unicode.IsSpace(r) {
			i++
			continue
		}
		if r == '{' {
			end := -1
			for j := i + 1; j < len(runes); j++ {
				if runes[j] == '}' {
					end = j
					break
				}
			}
			if end < 0 {
				tokens = append(tokens, token{kind: tokenInvalid, text: string(runes[i:])})
				return tokens
			}
			name := strings.TrimSpace(string(runes[i+1 : end]))
			tokens = append(tokens, token{kind: tokenRef, text: name})
			i = end + 1
			continue
		}
		if unicode.IsDigit(r) || r == '.' {
			j := i
			for j < len(runes) && (unicode.IsDigit(runes[j]) || runes[j] == '.') {
				j++
			}
			tokens = append(tokens, token{kind: tokenNumber, text: string(runes[i:j])})
			i = j
			continue
		}
		if isIdentRune(r) {
			j := i
			for j < len(runes) && (isIdentRune(runes[j]) || unicode.IsDigit(runes[j])) {
				j++
			}
			tokens = append(tokens, token{kind: tokenIdent, text: string(runes[i:j])})
			i = j
			continue
		}
		matched := false
		rest := string(runes[i:])
		for _, op := range operators {
			if strings.HasPrefix(rest, op) {
				tokens = append(tokens, token{kind: tokenOp, text: op})
				i += len([]rune(op))
				matched = true
				break
			}
		}
		if !matched {
			tokens = append(tokens, token{kind: tokenInvalid, text: string(r)})
			i++
		}
	}
	return tokens
}

func isIdentRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

type parser struct {
	tokens []token
	pos    int
	scope  Scope
}

func (p *parser) atEnd() bool { return p.pos >= len(p.tokens) }

func (p *parser) peek() token {
	if p.atEnd() {
		return token{kind: tokenInvalid, text: "end of formula"}
	}
	return p.tokens[p.pos]
}

func (p *parser) acceptOp(text string) bool {
	if !p.atEnd() && p.tokens[p.pos].kind == tokenOp && p.tokens[p.pos].text == text {
		p.pos++
		return true
	}
	return false
}

func (p *parser) expectOp(text string) error {
	if p.acceptOp(text) {
		return nil
	}
	return fmt.Errorf("%w: expected %q, found %q", ErrInvalidFormula, text, p.peek().text)
}

func (p *parser) parseTernary() (float64, error) {
	condition, err := p.parseOr()
	if err != nil {
		return 0, err
	}
	if !p.acceptOp("?") {
		return condition, nil
	}
	whenTrue, err := p.parseTernary()
	if err != nil {
		return 0, err
	}
	if err := p.expectOp(":"); err != nil {
		return 0, err
	}
	whenFalse, err := p.parseTernary()
	if err != nil {
		return 0, err
	}
	if condition != 0 {
		return whenTrue, nil
	}
	return whenFalse, nil
}

func (p *parser) parseOr() (float64, error) {
	left, err := p.parseAnd()
	if err != nil {
		return 0, err
	}
	for p.acceptOp("||") {
		right, err := p.parseAnd()
		if err != nil {
			return 0, err
		}
		left = boolToNumber(left != 0 || right != 0)
	}
	return left, nil
}

func (p *parser) parseAnd() (float64, error) {
	left, err := p.parseComparison()
	if err != nil {
		return 0, err
	}
	for p.acceptOp("&&") {
		right, err := p.parseComparison()
		if err != nil {
			return 0, err
		}
		left = boolToNumber(left != 0 && right != 0)
	}
	return left, nil
}

func (p *parser) parseComparison() (float64, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return 0, err
	}
	for {
		var op string
		switch {
		case p.acceptOp("<="):
			op = "<="
		case p.acceptOp(">="):
			op = ">="
		case p.acceptOp("=="):
			op = "=="
		case p.acceptOp("!="):
			op = "!="
		case p.acceptOp("<"):
			op = "<"
		case p.acceptOp(">"):
			op = ">"
		default:
			return left, nil
		}
		right, err := p.parseAdditive()
		if err != nil {
			return 0, err
		}
		switch op {
		case "<=":
			left = boolToNumber(left <= right)
		case ">=":
			left = boolToNumber(left >= right)
		case "==":
			left = boolToNumber(left == right)
		case "!=":
			left = boolToNumber(left != right)
		case "<":
			left = boolToNumber(left < right)
		case ">":
			left = boolToNumber(left > right)
		}
	}
}

func (p *parser) parseAdditive() (float64, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return 0, err
	}
	for {
		switch {
		case p.acceptOp("+"):
			right, err := p.parseMultiplicative()
			if err != nil {
				return 0, err
			}
			left += right
		case p.acceptOp("-"):
			right, err := p.parseMultiplicative()
			if err != nil {
				return 0, err
			}
			left -= right
		default:
			return left, nil
		}
	}
}

func (p *parser) parseMultiplicative() (float64, error) {
	left, err := p.parseUnary()
	if err != nil {
		return 0, err
	}
	for {
		switch {
		case p.acceptOp("*"):
			right, err := p.parseUnary()
			if err != nil {
				return 0, err
			}
			left *= right
		case p.acceptOp("/"):
			right, err := p.parseUnary()
			if err != nil {
				return 0, err
			}
			left /= right
		case p.acceptOp("%"):
			right, err := p.parseUnary()
			if err != nil {
				return 0, err
			}
			left = math.Mod(left, right)
		default:
			return left, nil
		}
	}
}

func (p *parser) parseUnary() (float64, error) {
	if p.acceptOp("-") {
		value, err := p.parseUnary()
		if err != nil {
			return 0, err
		}
		return -value, nil
	}
	if p.acceptOp("!") {
		value, err := p.parseUnary()
		if err != nil {
			return 0, err
		}
		return boolToNumber(value == 0), nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (float64, error) {
	if p.atEnd() {
		return 0, fmt.Errorf("%w: unexpected end of formula", ErrInvalidFormula)
	}
	tok := p.tokens[p.pos]
	switch tok.kind {
	case tokenNumber:
		p.pos++
		value, err := strconv.ParseFloat(tok.text, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: bad number %q", ErrInvalidFormula, tok.text)
		}
		return value, nil
	case tokenRef:
		p.pos++
		value, _ := p.scope.Value(tok.text)
		return value, nil
	case tokenIdent:
		p.pos++
		if p.acceptOp("(") {
			return p.parseCall(tok.text)
		}
		value, _ := p.scope.Value(tok.text)
		return value, nil
	case tokenOp:
		if tok.text == "(" {
			p.pos++
			value, err := p.parseTernary()
			if err != nil {
				return 0, err
			}
			if err := p.expectOp(")"); err != nil {
				return 0, err
			}
			return value, nil
		}
	}
	return 0, fmt.Errorf("%w: unexpected %q", ErrInvalidFormula, tok.text)
}

func (p *parser) parseCall(name string) (float64, error) {
	var args []float64
	if !p.acceptOp(")") {
		for {
			arg, err := p.parseTernary()
			if err != nil {
				return 0, err
			}
			args = append(args, arg)
			if p.acceptOp(",") {
				continue
			}
			if err := p.expectOp(")"); err != nil {
				return 0, err
			}
			break
		}
	}
	return applyFunction(name, args)
}

func applyFunction(name string, args []float64) (float64, error) {
	unary := func(fn func(float64) float64) (float64, error) {
		if len(args) != 1 {
			return 0, fmt.Errorf("%w: %s takes one argument", ErrInvalidFormula, name)
		}
		return fn(args[0]), nil
	}
	switch strings.ToLower(name) {
	case "sqrt":
		return unary(math.Sqrt)
	case "ceil":
		return unary(math.Ceil)
	case "floor":
		return unary(math.Floor)
	case "round":
		return unary(math.Round)
	case "abs":
		return unary(math.Abs)
	case "pow":
		if len(args) != 2 {
			return 0, fmt.Errorf("%w: pow takes two arguments", ErrInvalidFormula)
		}
		return math.Pow(args[0], args[1]), nil
	case "min":
		if len(args) == 0 {
			return 0, fmt.Errorf("%w: min takes at least one argument", ErrInvalidFormula)
		}
		result := args[0]
		for _, arg := range args[1:] {
			result = math.Min(result, arg)
		}
		return result, nil
	case "max":
		if len(args) == 0 {
			return 0, fmt.Errorf("%w: max takes at least one argument", ErrInvalidFormula)
		}
		result := args[0]
		for _, arg := range args[1:] {
			result = math.Max(result, arg)
		}
		return result, nil
	}
	return 0, fmt.Errorf("%w: unknown function %q", ErrInvalidFormula, name)
}

func boolToNumber(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
