// hab/cmd/habd/habd_main_test.go

package main

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smarthab/hab/pkg/runtime"
	"smarthab/hab/pkg/store"
)

func TestParseConfigDefaults(t *testing.T) {
	viper.Reset()

	config, err := parseConfig([]string{"habd"})
	require.NoError(t, err)

	assert.Equal(t, "info", config.LogLevel)
	assert.Equal(t, "console", config.LogDestination)
	assert.False(t, config.RedisEnabled)
	assert.Equal(t, "localhost:6379", config.RedisAddress)
	assert.False(t, config.DashboardEnabled)
	assert.Equal(t, 8080, config.DashboardPort)
	assert.Equal(t, 5, config.DashboardInterval)
	assert.False(t, config.Demo)
}

func TestParseConfigFile(t *testing.T) {
	viper.Reset()

	configFile, err := os.CreateTemp("", "hab_config*.json")
	require.NoError(t, err)
	defer os.Remove(configFile.Name())

	configContent := `{
		"logging": {"level": "debug", "output": "console"},
		"redis": {"enabled": true, "address": "localhost:7000", "database": 2},
		"dashboard": {"enabled": true, "port": 9090, "update_interval": 15}
	}`
	_, err = configFile.WriteString(configContent)
	require.NoError(t, err)
	configFile.Close()

	config, err := parseConfig([]string{"habd", "--config", configFile.Name()})
	require.NoError(t, err)

	assert.Equal(t, "debug", config.LogLevel)
	assert.True(t, config.RedisEnabled)
	assert.Equal(t, "localhost:7000", config.RedisAddress)
	assert.Equal(t, 2, config.RedisDB)
	assert.True(t, config.DashboardEnabled)
	assert.Equal(t, 9090, config.DashboardPort)
	assert.Equal(t, 15, config.DashboardInterval)
}

func TestParseConfigDemoFlag(t *testing.T) {
	viper.Reset()

	config, err := parseConfig([]string{"habd", "--demo"})
	require.NoError(t, err)
	assert.True(t, config.Demo)
}

func TestRunDemo(t *testing.T) {
	engine := runtime.NewEngine(store.NewMemoryStore())
	var out bytes.Buffer

	runDemo(engine, &out)

	output := out.String()
	assert.Contains(t, output, "Setting temperature to 26°C (hot)")
	assert.Contains(t, output, "Triggered: IF temperature > 25 THEN turn on ac")
	assert.Contains(t, output, "Triggered: IF motion detected THEN turn on security")
	assert.Contains(t, output, "Triggered: IF time is 18:00 THEN turn on lights")
	assert.Contains(t, output, "DEVICE STATUS:")
}

func TestMenuLoopExit(t *testing.T) {
	engine := runtime.NewEngine(store.NewMemoryStore())
	in := strings.NewReader("8\n")
	var out bytes.Buffer

	err := menuLoop(engine, in, &out)
	assert.NoError(t, err)
	assert.Contains(t, out.String(), "Goodbye")
}

func TestMenuLoopStatusAndRules(t *testing.T) {
	engine := runtime.NewEngine(store.NewMemoryStore())
	in := strings.NewReader("1\n3\n8\n")
	var out bytes.Buffer

	err := menuLoop(engine, in, &out)
	assert.NoError(t, err)

	output := out.String()
	assert.Contains(t, output, "DEVICE STATUS:")
	assert.Contains(t, output, "Temperature: 22°C")
	assert.Contains(t, output, "AUTOMATION RULES:")
	assert.Contains(t, output, "1. IF temperature > 25 THEN turn on ac")
}

func TestMenuLoopAddAndRemoveRule(t *testing.T) {
	engine := runtime.NewEngine(store.NewMemoryStore())
	in := strings.NewReader("4\nIF temperature < 18 THEN turn on heating\n5\n4\n8\n")
	var out bytes.Buffer

	err := menuLoop(engine, in, &out)
	assert.NoError(t, err)

	assert.Contains(t, out.String(), "Rule added: IF temperature < 18 THEN turn on heating")
	assert.Contains(t, out.String(), "Rule removed: IF temperature < 18 THEN turn on heating")
	assert.Len(t, engine.ListRules(), 3)
}

func TestMenuLoopNaturalLanguage(t *testing.T) {
	engine := runtime.NewEngine(store.NewMemoryStore())
	in := strings.NewReader("6\nWhen it is cold turn on heating\ny\n8\n")
	var out bytes.Buffer

	err := menuLoop(engine, in, &out)
	assert.NoError(t, err)

	assert.Contains(t, out.String(), "Parsed: IF temperature < 18 THEN turn on heating")
	assert.Contains(t, engine.ListRules(), "IF temperature < 18 THEN turn on heating")
}
