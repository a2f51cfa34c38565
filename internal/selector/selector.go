// Package selector turns "<strategy>:<pattern>" strings into locators the driver understands.
//
// The pattern is an fmt format string. Its verbs (%s, %d, %[1]s, ...) are filled from the
// parameters given at resolve time, and a literal percent sign is written "%%":
//
//	loc, err := selector.Resolve("xpath://input[@id='%s']", "telephone")
//	// loc.Pattern == "//input[@id='telephone']"
package selector

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"petclinic-acceptance/pkg/apperr"
)

const separator = ":"

type Strategy string

const (
	StrategyID    Strategy = "id"
	StrategyCSS   Strategy = "css"
	StrategyXPath Strategy = "xpath"
)

var (
	ErrMalformedSelector   = errors.New("expected a selector of the form strategy:pattern")
	ErrUnsupportedStrategy = errors.New("unsupported selector strategy")
	ErrArityMismatch       = errors.New("parameter count does not match pattern placeholders")
	ErrBadVerb             = errors.New("malformed format verb")
)

// ParseStrategy accepts only the exact, case-sensitive names id, css and xpath.
func ParseStrategy(s string) (Strategy, bool) {
	switch Strategy(s) {
	case StrategyID, StrategyCSS, StrategyXPath:
		return Strategy(s), true
	}

	return "", false
}

// Template is a parsed selector whose pattern has not been substituted yet.
type Template struct {
	Strategy     Strategy
	Pattern      string
	Placeholders int
}

// Locator is a fully substituted selector. It is built per call and never mutated.
type Locator struct {
	Strategy Strategy
	Pattern  string
}

func (l Locator) String() string {
	return string(l.Strategy) + separator + l.Pattern
}

// Engine renders the locator in playwright's selector-engine syntax.
func (l Locator) Engine() string {
	return string(l.Strategy) + "=" + l.Pattern
}

func Compile(raw string) (Template, error) {
	const op = "selector.Compile"

	prefix, pattern, found := strings.Cut(raw, separator)
	if !found {
		return Template{}, apperr.Wrap(op, apperr.CodeMalformedSelector,
			fmt.Errorf("%w: %q", ErrMalformedSelector, raw), map[string]any{
				apperr.MetaSelector: raw,
				apperr.MetaStage:    apperr.StageResolve,
			})
	}

	strategy, ok := ParseStrategy(prefix)
	if !ok {
		return Template{}, apperr.Wrap(op, apperr.CodeUnsupportedStrategy,
			fmt.Errorf("%w %q in %q", ErrUnsupportedStrategy, prefix, raw), map[string]any{
				apperr.MetaSelector: raw,
				apperr.MetaStage:    apperr.StageResolve,
			})
	}

	placeholders, err := countArgs(pattern)
	if err != nil {
		return Template{}, apperr.Wrap(op, apperr.CodeMalformedSelector,
			fmt.Errorf("%w: %w in %q", ErrMalformedSelector, err, raw), map[string]any{
				apperr.MetaSelector: raw,
				apperr.MetaStage:    apperr.StageResolve,
			})
	}

	return Template{
		Strategy:     strategy,
		Pattern:      pattern,
		Placeholders: placeholders,
	}, nil
}

// Resolve substitutes params into the pattern. The number of params must match the
// arguments the pattern consumes, including when there are none.
func (t Template) Resolve(params ...any) (Locator, error) {
	const op = "selector.Resolve"

	if len(params) != t.Placeholders {
		return Locator{}, apperr.Wrap(op, apperr.CodeMalformedSelector,
			fmt.Errorf("%w: want %d, got %d", ErrArityMismatch, t.Placeholders, len(params)), map[string]any{
				apperr.MetaSelector: t.String(),
				apperr.MetaParams:   params,
				apperr.MetaStage:    apperr.StageResolve,
			})
	}

	return Locator{Strategy: t.Strategy, Pattern: fmt.Sprintf(t.Pattern, params...)}, nil
}

func (t Template) String() string {
	return string(t.Strategy) + separator + t.Pattern
}

// Resolve compiles raw and substitutes params in one step.
func Resolve(raw string, params ...any) (Locator, error) {
	t, err := Compile(raw)
	if err != nil {
		return Locator{}, err
	}

	return t.Resolve(params...)
}

// countArgs returns how many arguments fmt consumes when formatting pattern. It follows
// fmt's rules for explicit indexes ("%[2]s") and star width or precision ("%*d", "%.*f"):
// the result is the highest argument position used.
func countArgs(pattern string) (int, error) {
	var argNum, needed int

	use := func() {
		argNum++
		needed = max(needed, argNum)
	}

	end := len(pattern)

	for i := 0; i < end; i++ {
		if pattern[i] != '%' {
			continue
		}

		i++

		for i < end && strings.IndexByte("+-# 0", pattern[i]) >= 0 {
			i++
		}

		var err error
		if i, err = argIndex(pattern, i, &argNum); err != nil {
			return 0, err
		}

		i = widthOrPrecision(pattern, i, use)

		if i < end && pattern[i] == '.' {
			if i, err = argIndex(pattern, i+1, &argNum); err != nil {
				return 0, err
			}

			i = widthOrPrecision(pattern, i, use)
		}

		if i, err = argIndex(pattern, i, &argNum); err != nil {
			return 0, err
		}

		if i >= end {
			return 0, fmt.Errorf("%w: pattern ends with '%%'", ErrBadVerb)
		}

		if pattern[i] == '%' {
			continue
		}

		use()

		_, size := utf8.DecodeRuneInString(pattern[i:])
		i += size - 1
	}

	return needed, nil
}

// argIndex consumes an explicit "[n]" at i and points argNum at argument n.
func argIndex(pattern string, i int, argNum *int) (int, error) {
	if i >= len(pattern) || pattern[i] != '[' {
		return i, nil
	}

	closing := strings.IndexByte(pattern[i:], ']')
	if closing < 0 {
		return 0, fmt.Errorf("%w: unterminated argument index", ErrBadVerb)
	}

	n, err := strconv.Atoi(pattern[i+1 : i+closing])
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: bad argument index %q", ErrBadVerb, pattern[i:i+closing+1])
	}

	*argNum = n - 1

	return i + closing + 1, nil
}

func widthOrPrecision(pattern string, i int, use func()) int {
	if i < len(pattern) && pattern[i] == '*' {
		use()

		return i + 1
	}

	for i < len(pattern) && pattern[i] >= '0' && pattern[i] <= '9' {
		i++
	}

	return i
}
