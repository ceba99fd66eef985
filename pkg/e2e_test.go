// hab/pkg/e2e_test.go
package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"smarthab/hab/pkg/nlp"
	"smarthab/hab/pkg/runtime"
	"smarthab/hab/pkg/store"
)

// TestEndToEnd walks the full path: free text through the translator,
// into the rule collection, evaluated against live device state.
func TestEndToEnd(t *testing.T) {
	mem := store.NewMemoryStore()
	engine := runtime.NewEngineWithRules(mem, nil)

	// Translate a conditional sentence and store it as a rule.
	rule := nlp.Translate("When it is hot turn on ac")
	assert.Equal(t, "IF temperature > 25 THEN turn on ac", rule)
	assert.NoError(t, engine.AddRule(rule))

	// Nothing fires at the default 22 degrees.
	assert.Empty(t, engine.ExecuteRules())

	// A translated direct command pushes the temperature up and the
	// stored rule fires on the post-set pass.
	command := nlp.Translate("set temperature to 30")
	assert.Equal(t, "set temperature to 30", command)

	triggered, err := engine.ExecuteCommand(command)
	assert.NoError(t, err)
	assert.Equal(t, []string{rule}, triggered)

	ac, _ := mem.GetDevice("ac")
	assert.Equal(t, true, ac)

	// Re-running changes nothing further.
	assert.Empty(t, engine.ExecuteRules())
}

func TestEndToEndDirectToggle(t *testing.T) {
	mem := store.NewMemoryStore()
	engine := runtime.NewEngine(mem)

	command := nlp.Translate("Disable motion detection")
	assert.Equal(t, "turn off motion", command)

	mem.SetDevice("motion", true)
	_, err := engine.ExecuteCommand(command)
	assert.NoError(t, err)

	motion, _ := mem.GetDevice("motion")
	assert.Equal(t, false, motion)
}
