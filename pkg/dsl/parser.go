// hab/pkg/dsl/parser.go

package dsl

import (
	"regexp"
	"strconv"
	"strings"

	"smarthab/hab/pkg/logging"
)

// The rule grammar is a single line:
//
//	IF <condition> (AND <condition>)* THEN <action> (AND <action>)*
//
// with <condition> one of "temperature {>,<,>=,<=} N", "time is HH:MM"
// or "motion detected", and <action> one of the ten vocabulary phrases.
//
// Parse is deliberately lenient rather than rejecting: it tokenizes the
// text into clauses on the IF/THEN/AND keywords and skips any clause it
// does not recognize. An unrecognized condition clause therefore
// weakens the rule (fewer conditions to satisfy) instead of failing it,
// and a rule with no recognized condition at all is vacuously true.
// This keeps Parse total: every string yields a (possibly empty)
// condition set and action list, never an error.

type section int

const (
	sectionAny section = iota
	sectionCondition
	sectionAction
)

type clause struct {
	text    string
	section section
}

// tokenize splits rule text into clauses. IF and THEN switch the
// current section; AND separates clauses within a section. Keywords are
// matched case-insensitively, clause content is case-sensitive.
func tokenize(text string) []clause {
	var clauses []clause
	current := sectionAny
	var words []string

	flush := func() {
		if len(words) > 0 {
			clauses = append(clauses, clause{text: strings.Join(words, " "), section: current})
			words = nil
		}
	}

	for _, word := range strings.Fields(text) {
		switch {
		case strings.EqualFold(word, "IF"):
			flush()
			current = sectionCondition
		case strings.EqualFold(word, "THEN"):
			flush()
			current = sectionAction
		case strings.EqualFold(word, "AND"):
			flush()
		default:
			words = append(words, word)
		}
	}
	flush()
	return clauses
}

var timeValue = regexp.MustCompile(`^\d{2}:\d{2}$`)

// matchCondition recognizes a single condition clause. The bool result
// reports whether the clause matched any known condition form.
func matchCondition(text string) (Condition, bool) {
	fields := strings.Fields(text)

	if len(fields) == 3 && fields[0] == "temperature" {
		op := Operator(fields[1])
		switch op {
		case OpGreater, OpLess, OpGreaterEqual, OpLessEqual:
			if value, err := strconv.Atoi(fields[2]); err == nil {
				return TemperatureCondition{Operator: op, Value: value}, true
			}
		}
	}

	if len(fields) == 3 && fields[0] == "time" && fields[1] == "is" && timeValue.MatchString(fields[2]) {
		return TimeCondition{Value: fields[2]}, true
	}

	if len(fields) == 2 && fields[0] == "motion" && fields[1] == "detected" {
		return MotionCondition{Detected: true}, true
	}

	return nil, false
}

// Parse converts one rule text into its conditions and actions.
//
// Actions are matched against the whole action section by substring
// containment and emitted in vocabulary order, not text order. A
// ten-phrase table keeps that a stable contract: "turn on lights"
// always precedes "turn off ac" in the result no matter how the rule
// was written.
func Parse(text string) ([]Condition, []Action) {
	var conditions []Condition
	var actions []Action

	clauses := tokenize(text)

	var actionText []string
	for _, cl := range clauses {
		switch cl.section {
		case sectionCondition:
			if cond, ok := matchCondition(cl.text); ok {
				conditions = append(conditions, cond)
			} else {
				logging.Logger.Debug().Str("clause", cl.text).Msg("Skipping unrecognized condition clause")
			}
		case sectionAction:
			actionText = append(actionText, cl.text)
		case sectionAny:
			// No IF/THEN marker seen yet: a clause may be either form.
			if cond, ok := matchCondition(cl.text); ok {
				conditions = append(conditions, cond)
			} else {
				actionText = append(actionText, cl.text)
			}
		}
	}

	joined := strings.Join(actionText, " AND ")
	for _, ap := range actionVocabulary {
		if strings.Contains(joined, ap.phrase) {
			actions = append(actions, ap.action)
		}
	}

	logging.Logger.Debug().
		Str("rule", text).
		Int("conditions", len(conditions)).
		Int("actions", len(actions)).
		Msg("Parsed rule")

	return conditions, actions
}
