// hab/pkg/nlp/translator.go

// Package nlp converts free-form text into DSL rule strings or direct
// device commands. There is no general language understanding here:
// classification runs over fixed, enumerable vocabularies, and anything
// outside them yields the Sentinel value.
package nlp

import (
	"regexp"
	"strings"

	"smarthab/hab/pkg/logging"
)

// Sentinel is returned when no rule or command could be extracted.
const Sentinel = "Could not parse command"

// temperatureClass maps a descriptor vocabulary to the DSL condition it
// implies. Classes are checked in order and at most one contributes.
type temperatureClass struct {
	pattern   *regexp.Regexp
	condition string
}

var temperatureClasses = []temperatureClass{
	{regexp.MustCompile(`\b(hot|warm)\b`), "temperature > 25"},
	{regexp.MustCompile(`\b(cold|cool|chilly)\b`), "temperature < 18"},
	{regexp.MustCompile(`comfortable|normal temperature`), "temperature >= 18 AND temperature <= 22"},
}

// timeClass maps time-of-day words to a compound interval condition.
// All classes are checked; each contributes at most once. The emitted
// intervals are translator-only syntax: the DSL parser cannot re-derive
// them from its "time is" form, so they pass through stored rules as
// opaque text.
type timeClass struct {
	words     []string
	condition string
}

var timeClasses = []timeClass{
	{[]string{"in the evening", "evening", "at night", "dark"}, "time >= 18:00 AND time < 22:00"},
	{[]string{"morning", "in the morning", "dawn"}, "time >= 06:00 AND time < 10:00"},
	{[]string{"afternoon", "in the afternoon"}, "time >= 12:00 AND time < 18:00"},
}

var motionWords = []string{"motion", "movement", "detect"}

var (
	setTimePattern        = regexp.MustCompile(`set time to (\d{1,2}:\d{2})`)
	setTemperaturePattern = regexp.MustCompile(`set temperature to (\d+)`)
)

// conditionalWords gate the rule-vs-command decision by plain substring
// containment, so embedded occurrences count too: the "if" inside
// "verify" makes a text conditional.
var conditionalWords = []string{"if", "when"}

// deviceSynonyms pairs each device with the phrases users call it by.
// Order is fixed so action fragments always come out in the same
// device order.
type deviceSynonyms struct {
	device   string
	synonyms []string
}

var deviceVocabulary = []deviceSynonyms{
	{"lights", []string{"light", "lights"}},
	{"ac", []string{"ac", "air conditioning", "cooling"}},
	{"heating", []string{"heating", "heater"}},
	{"security", []string{"security", "alarm", "security system"}},
	{"motion", []string{"motion", "motion detection", "motion sensor", "movement"}},
}

var (
	onVerbs  = []string{"turn on", "enable", "activate", "start"}
	offVerbs = []string{"turn off", "disable", "deactivate", "stop"}
)

// timeOfDayWords gates the conditional-rule decision alongside if/when.
var timeOfDayWords = []string{"morning", "evening", "afternoon", "night"}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

// verbMatch reports whether any verb+synonym combination for the given
// verb group appears in the text.
func verbMatch(text string, verbs []string, synonyms []string) bool {
	for _, syn := range synonyms {
		for _, verb := range verbs {
			if strings.Contains(text, verb+" "+syn) {
				return true
			}
		}
	}
	return false
}

// Translate classifies free text into one of three outcomes: a DSL rule
// string (IF ... THEN ...), an AND-joined direct command, or Sentinel.
func Translate(text string) string {
	lower := strings.ToLower(text)

	var conditions []string
	var actions []string
	var directCommands []string

	// Temperature descriptor: first matching class wins.
	for _, tc := range temperatureClasses {
		if tc.pattern.MatchString(lower) {
			conditions = append(conditions, tc.condition)
			break
		}
	}

	// Time-of-day intervals: independent, each at most once.
	for _, tc := range timeClasses {
		if containsAny(lower, tc.words) {
			conditions = append(conditions, tc.condition)
		}
	}

	if containsAny(lower, motionWords) {
		conditions = append(conditions, "motion detected")
	}

	// Direct setters.
	if m := setTimePattern.FindStringSubmatch(lower); m != nil {
		directCommands = append(directCommands, "set time to "+m[1])
	}
	if m := setTemperaturePattern.FindStringSubmatch(lower); m != nil {
		directCommands = append(directCommands, "set temperature to "+m[1])
	}

	// Device actions: one normalized fragment per device per polarity.
	for _, ds := range deviceVocabulary {
		if verbMatch(lower, onVerbs, ds.synonyms) {
			actions = append(actions, "turn on "+ds.device)
		}
		if verbMatch(lower, offVerbs, ds.synonyms) {
			actions = append(actions, "turn off "+ds.device)
		}
	}

	conditional := containsAny(lower, conditionalWords) || containsAny(lower, timeOfDayWords)

	if conditional && len(conditions) > 0 && len(actions) > 0 {
		rule := "IF " + strings.Join(conditions, " AND ") + " THEN " + strings.Join(actions, " AND ")
		logging.Logger.Debug().Str("text", text).Str("rule", rule).Msg("Translated conditional rule")
		return rule
	}

	if len(directCommands) > 0 || len(actions) > 0 {
		command := strings.Join(append(directCommands, actions...), " AND ")
		logging.Logger.Debug().Str("text", text).Str("command", command).Msg("Translated direct command")
		return command
	}

	logging.Logger.Debug().Str("text", text).Msg("Could not translate text")
	return Sentinel
}
