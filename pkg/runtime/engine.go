// hab/pkg/runtime/engine.go

package runtime

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"smarthab/hab/pkg/dsl"
	"smarthab/hab/pkg/logging"
	"smarthab/hab/pkg/store"
)

var (
	ErrEmptyRule       = errors.New("empty rule text")
	ErrDuplicateRule   = errors.New("duplicate rule text")
	ErrIndexOutOfRange = errors.New("rule index out of range")
)

// DefaultRules seed every new engine.
var DefaultRules = []string{
	"IF temperature > 25 THEN turn on ac",
	"IF motion detected THEN turn on security",
	"IF time is 18:00 THEN turn on lights",
}

// Engine owns the rule collection and evaluates it against the device
// store. All rule operations run on the caller's goroutine; the engine
// is single-threaded by design and must not be re-entered from within
// a pass. Only the stats copy is shared with the dashboard.
type Engine struct {
	store store.Store
	rules []string

	statsMutex    sync.Mutex
	stats         EngineStats
	triggerCounts map[string]int
}

// RuleStats reports one rule's cumulative trigger count.
type RuleStats struct {
	Text     string `json:"text"`
	Triggers int    `json:"triggers"`
}

// EngineStats is the dashboard payload: pass count, device snapshot
// and per-rule trigger totals, refreshed after every pass.
type EngineStats struct {
	Passes  int                 `json:"passes"`
	Devices []store.DeviceEntry `json:"devices"`
	Rules   []RuleStats         `json:"rules"`
}

// NewEngine creates an engine over the given store, seeded with the
// default automation rules.
func NewEngine(s store.Store) *Engine {
	return NewEngineWithRules(s, DefaultRules)
}

// NewEngineWithRules creates an engine with an explicit starting rule
// collection.
func NewEngineWithRules(s store.Store, rules []string) *Engine {
	e := &Engine{
		store:         s,
		rules:         append([]string(nil), rules...),
		triggerCounts: make(map[string]int),
	}
	e.refreshStats()
	return e
}

// Store exposes the device store for manual control and setters.
func (e *Engine) Store() store.Store {
	return e.store
}

// AddRule appends a rule text to the collection. Empty and duplicate
// texts are rejected without mutating the collection.
func (e *Engine) AddRule(text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyRule
	}
	for _, existing := range e.rules {
		if existing == text {
			return ErrDuplicateRule
		}
	}
	e.rules = append(e.rules, text)
	logging.Logger.Info().Str("rule", text).Msg("Rule added")
	e.refreshStats()
	return nil
}

// RemoveRule deletes the rule at the given position and returns its
// text. Out-of-range indices are rejected without mutation.
func (e *Engine) RemoveRule(index int) (string, error) {
	if index < 0 || index >= len(e.rules) {
		return "", ErrIndexOutOfRange
	}
	removed := e.rules[index]
	e.rules = append(e.rules[:index], e.rules[index+1:]...)
	delete(e.triggerCounts, removed)
	logging.Logger.Info().Str("rule", removed).Msg("Rule removed")
	e.refreshStats()
	return removed, nil
}

// ListRules returns the rule texts in insertion order.
func (e *Engine) ListRules() []string {
	return append([]string(nil), e.rules...)
}

// ExecuteRules runs one pass over the collection in list order and
// returns the texts of rules that changed at least one device value.
//
// Rules are re-parsed on every pass; there is no compiled form. The
// store is mutated in place, so a later rule sees changes made by an
// earlier rule within the same pass, but a rule made newly true by a
// later rule is not revisited until the next external trigger.
func (e *Engine) ExecuteRules() []string {
	var triggered []string

	for _, rule := range e.rules {
		conditions, actions := dsl.Parse(rule)

		satisfied := true
		for _, condition := range conditions {
			if !e.evaluate(condition) {
				satisfied = false
				break
			}
		}

		if !satisfied || len(actions) == 0 {
			continue
		}

		changed := false
		for _, action := range actions {
			old, _ := e.store.GetDevice(action.Device)
			if err := e.store.SetDevice(action.Device, action.On); err != nil {
				logging.LogError(logging.Logger, err)
				continue
			}
			if old != action.On {
				changed = true
				logging.Logger.Info().
					Str("device", action.Device).
					Bool("on", action.On).
					Str("rule", rule).
					Msg("Action executed")
			}
		}
		if changed {
			triggered = append(triggered, rule)
			e.triggerCounts[rule]++
		}
	}

	e.statsMutex.Lock()
	e.stats.Passes++
	e.statsMutex.Unlock()
	e.refreshStats()

	return triggered
}

// evaluate checks one condition against current device state. The
// switch is exhaustive over the closed condition set; comparisons use
// plain value semantics, so a malformed stored time string simply never
// equals a well-formed condition value.
func (e *Engine) evaluate(condition dsl.Condition) bool {
	switch c := condition.(type) {
	case dsl.TemperatureCondition:
		value, _ := e.store.GetDevice("temperature")
		temp, ok := value.(int)
		if !ok {
			return false
		}
		return compareInt(temp, c.Value, c.Operator)
	case dsl.TimeCondition:
		value, _ := e.store.GetDevice("time")
		clock, ok := value.(string)
		if !ok {
			return false
		}
		return clock == c.Value
	case dsl.MotionCondition:
		value, _ := e.store.GetDevice("motion")
		motion, ok := value.(bool)
		if !ok {
			return false
		}
		return motion == c.Detected
	default:
		logging.Logger.Warn().Str("condition", condition.String()).Msg("Unknown condition kind")
		return false
	}
}

func compareInt(a, b int, operator dsl.Operator) bool {
	switch operator {
	case dsl.OpGreater:
		return a > b
	case dsl.OpLess:
		return a < b
	case dsl.OpGreaterEqual:
		return a >= b
	case dsl.OpLessEqual:
		return a <= b
	default:
		logging.Logger.Warn().Str("operator", string(operator)).Msg("Unsupported operator")
		return false
	}
}

var (
	setTemperatureCommand = regexp.MustCompile(`^set temperature to (\d+)$`)
	setTimeCommand        = regexp.MustCompile(`^set time to (\d{1,2}:\d{2})$`)
)

// commandNormalizer folds translator device synonyms down to the
// canonical action vocabulary before matching.
var commandNormalizer = strings.NewReplacer(
	"motion detection", "motion",
	"motion sensor", "motion",
	"security system", "security",
)

// ExecuteCommand applies an AND-joined direct command string: setter
// fragments go through the validated entry points, action phrases are
// applied to the store. The rule collection is re-evaluated after each
// applied fragment; all triggered rule texts are returned in order.
func (e *Engine) ExecuteCommand(command string) ([]string, error) {
	var triggered []string

	for _, fragment := range strings.Split(command, " AND ") {
		fragment = strings.TrimSpace(fragment)
		if fragment == "" {
			continue
		}

		switch {
		case setTemperatureCommand.MatchString(fragment):
			m := setTemperatureCommand.FindStringSubmatch(fragment)
			temp, err := strconv.Atoi(m[1])
			if err != nil {
				return triggered, fmt.Errorf("invalid temperature in %q: %w", fragment, err)
			}
			if err := store.SetTemperatureValidated(e.store, temp); err != nil {
				return triggered, err
			}
		case setTimeCommand.MatchString(fragment):
			m := setTimeCommand.FindStringSubmatch(fragment)
			clock := m[1]
			if len(clock) == 4 { // pad H:MM to HH:MM
				clock = "0" + clock
			}
			if err := store.SetTimeValidated(e.store, clock); err != nil {
				return triggered, err
			}
		default:
			normalized := commandNormalizer.Replace(fragment)
			_, actions := dsl.Parse(normalized)
			if len(actions) == 0 {
				logging.Logger.Warn().Str("fragment", fragment).Msg("Unrecognized command fragment")
				continue
			}
			for _, action := range actions {
				if err := e.store.SetDevice(action.Device, action.On); err != nil {
					return triggered, err
				}
			}
		}

		triggered = append(triggered, e.ExecuteRules()...)
	}

	return triggered, nil
}

// refreshStats rebuilds the dashboard stats copy. Called after every
// mutation so dashboard goroutines never touch live engine state.
func (e *Engine) refreshStats() {
	ruleStats := make([]RuleStats, 0, len(e.rules))
	for _, rule := range e.rules {
		ruleStats = append(ruleStats, RuleStats{Text: rule, Triggers: e.triggerCounts[rule]})
	}
	snapshot := e.store.Snapshot()

	e.statsMutex.Lock()
	e.stats.Devices = snapshot
	e.stats.Rules = ruleStats
	e.statsMutex.Unlock()
}

// GetStats returns a copy of the current engine stats.
func (e *Engine) GetStats() EngineStats {
	e.statsMutex.Lock()
	defer e.statsMutex.Unlock()

	stats := EngineStats{
		Passes:  e.stats.Passes,
		Devices: append([]store.DeviceEntry(nil), e.stats.Devices...),
		Rules:   append([]RuleStats(nil), e.stats.Rules...),
	}
	return stats
}
