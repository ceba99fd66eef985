// hab/pkg/dsl/types.go

package dsl

import "fmt"

// Operator is a comparison operator in a temperature condition.
type Operator string

const (
	OpGreater      Operator = ">"
	OpLess         Operator = "<"
	OpGreaterEqual Operator = ">="
	OpLessEqual    Operator = "<="
)

// Condition is a closed set of predicate kinds over device state.
// The evaluator switches exhaustively over the three concrete types.
type Condition interface {
	condition()
	String() string
}

// TemperatureCondition compares the temperature sensor to a threshold.
type TemperatureCondition struct {
	Operator Operator
	Value    int
}

func (TemperatureCondition) condition() {}

func (c TemperatureCondition) String() string {
	return fmt.Sprintf("temperature %s %d", c.Operator, c.Value)
}

// TimeCondition is an exact HH:MM match against the clock. The DSL only
// expresses time equality; interval phrasing exists solely in the
// translator's output and is not recognized here.
type TimeCondition struct {
	Value string
}

func (TimeCondition) condition() {}

func (c TimeCondition) String() string {
	return fmt.Sprintf("time is %s", c.Value)
}

// MotionCondition matches the motion sensor. The DSL can only express
// "motion detected", so Detected is always true when parsed.
type MotionCondition struct {
	Detected bool
}

func (MotionCondition) condition() {}

func (c MotionCondition) String() string {
	return "motion detected"
}

// Action switches one device to the desired state.
type Action struct {
	Device string
	On     bool
}

func (a Action) String() string {
	if a.On {
		return "turn on " + a.Device
	}
	return "turn off " + a.Device
}

// actionPhrase binds one literal DSL phrase to its action.
type actionPhrase struct {
	phrase string
	action Action
}

// actionVocabulary is the full, explicitly ordered action table.
// Matching and emission follow this order regardless of where a phrase
// appears in the rule text; the ordering is a documented contract, not
// an accident of map iteration.
var actionVocabulary = []actionPhrase{
	{"turn on lights", Action{Device: "lights", On: true}},
	{"turn off lights", Action{Device: "lights", On: false}},
	{"turn on ac", Action{Device: "ac", On: true}},
	{"turn off ac", Action{Device: "ac", On: false}},
	{"turn on heating", Action{Device: "heating", On: true}},
	{"turn off heating", Action{Device: "heating", On: false}},
	{"turn on security", Action{Device: "security", On: true}},
	{"turn off security", Action{Device: "security", On: false}},
	{"turn on motion", Action{Device: "motion", On: true}},
	{"turn off motion", Action{Device: "motion", On: false}},
}

// ActionPhrases returns the vocabulary phrases in matching order.
func ActionPhrases() []string {
	phrases := make([]string, len(actionVocabulary))
	for i, ap := range actionVocabulary {
		phrases[i] = ap.phrase
	}
	return phrases
}
