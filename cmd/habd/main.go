// hab/cmd/habd/main.go

package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"smarthab/hab/pkg/logging"
	"smarthab/hab/pkg/nlp"
	"smarthab/hab/pkg/runtime"
	"smarthab/hab/pkg/store"
)

// Config represents the application configuration
type Config struct {
	LogLevel          string
	LogDestination    string
	RedisEnabled      bool
	RedisAddress      string
	RedisPassword     string
	RedisDB           int
	DashboardEnabled  bool
	DashboardPort     int
	DashboardInterval int
	Demo              bool
}

func main() {
	if err := run(os.Args, os.Stdin, os.Stdout); err != nil {
		log.Fatal().Err(err).Msg("Application failed")
	}
}

func run(args []string, in io.Reader, out io.Writer) error {
	config, err := parseConfig(args)
	if err != nil {
		return fmt.Errorf("failed to parse configuration: %w", err)
	}

	if err := logging.ConfigureLogger(config.LogLevel, config.LogDestination); err != nil {
		return fmt.Errorf("failed to configure logger: %w", err)
	}

	engine, cleanup, err := setupEngine(config)
	if err != nil {
		return fmt.Errorf("failed to setup engine: %w", err)
	}
	defer cleanup()

	if config.DashboardEnabled {
		dashboard := runtime.NewDashboard(engine, config.DashboardPort,
			time.Duration(config.DashboardInterval)*time.Second)
		go func() {
			if err := dashboard.Start(); err != nil {
				log.Error().Err(err).Msg("Dashboard stopped")
			}
		}()
	}

	fmt.Fprintln(out, "Smart Home System Initialized")
	fmt.Fprintln(out, strings.Repeat("=", 50))

	if config.Demo {
		runDemo(engine, out)
		return nil
	}

	return menuLoop(engine, in, out)
}

func parseConfig(args []string) (*Config, error) {
	flags := flag.NewFlagSet(args[0], flag.ContinueOnError)
	configFile := flags.String("config", "", "Path to configuration file")
	demo := flags.Bool("demo", false, "Run the scripted automation demo and exit")
	if err := flags.Parse(args[1:]); err != nil {
		return nil, err
	}

	viper.SetConfigType("json")
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.output", "console")
	viper.SetDefault("redis.enabled", false)
	viper.SetDefault("redis.address", "localhost:6379")
	viper.SetDefault("redis.database", 0)
	viper.SetDefault("dashboard.enabled", false)
	viper.SetDefault("dashboard.port", 8080)
	viper.SetDefault("dashboard.update_interval", 5)

	if *configFile == "" {
		viper.SetConfigName("hab_config")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.hab")
		viper.AddConfigPath("/etc/hab")
	} else {
		viper.SetConfigFile(*configFile)
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || *configFile != "" {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		log.Info().Msg("No configuration file found, using defaults")
	}

	return &Config{
		LogLevel:          viper.GetString("logging.level"),
		LogDestination:    viper.GetString("logging.output"),
		RedisEnabled:      viper.GetBool("redis.enabled"),
		RedisAddress:      viper.GetString("redis.address"),
		RedisPassword:     viper.GetString("redis.password"),
		RedisDB:           viper.GetInt("redis.database"),
		DashboardEnabled:  viper.GetBool("dashboard.enabled"),
		DashboardPort:     viper.GetInt("dashboard.port"),
		DashboardInterval: viper.GetInt("dashboard.update_interval"),
		Demo:              *demo,
	}, nil
}

// setupEngine builds the device store (optionally mirrored to Redis)
// and the rule engine seeded with the default rules.
func setupEngine(config *Config) (*runtime.Engine, func(), error) {
	mem := store.NewMemoryStore()
	cleanup := func() {}

	var deviceStore store.Store = mem
	if config.RedisEnabled {
		redisStore, err := store.NewRedisStore(mem, config.RedisAddress, config.RedisPassword, config.RedisDB)
		if err != nil {
			return nil, nil, err
		}
		deviceStore = redisStore
		cleanup = func() { redisStore.Close() }
	}

	return runtime.NewEngine(deviceStore), cleanup, nil
}

func printMenu(out io.Writer) {
	fmt.Fprintln(out, "\n"+strings.Repeat("=", 50))
	fmt.Fprintln(out, "SMART HOME CONTROL MENU")
	fmt.Fprintln(out, strings.Repeat("=", 50))
	fmt.Fprintln(out, "1. Show device status")
	fmt.Fprintln(out, "2. Control devices manually")
	fmt.Fprintln(out, "3. Show automation rules")
	fmt.Fprintln(out, "4. Add automation rule")
	fmt.Fprintln(out, "5. Remove automation rule")
	fmt.Fprintln(out, "6. Natural language command")
	fmt.Fprintln(out, "7. Run automation demo")
	fmt.Fprintln(out, "8. Exit")
	fmt.Fprintln(out, strings.Repeat("-", 50))
}

func menuLoop(engine *runtime.Engine, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)

	for {
		printMenu(out)
		choice, ok := prompt(scanner, out, "Enter your choice (1-8): ")
		if !ok {
			return nil
		}

		switch choice {
		case "1":
			displayStatus(engine, out)
		case "2":
			manualControl(engine, scanner, out)
		case "3":
			listRules(engine, out)
		case "4":
			text, ok := prompt(scanner, out, "Enter new rule (e.g., 'IF temperature > 25 THEN turn on ac'): ")
			if !ok {
				return nil
			}
			if err := engine.AddRule(text); err != nil {
				fmt.Fprintf(out, "Invalid or duplicate rule: %v\n", err)
			} else {
				fmt.Fprintf(out, "Rule added: %s\n", text)
			}
		case "5":
			listRules(engine, out)
			input, ok := prompt(scanner, out, "Enter rule number to remove: ")
			if !ok {
				return nil
			}
			number, err := strconv.Atoi(input)
			if err != nil {
				fmt.Fprintln(out, "Invalid rule number")
				continue
			}
			removed, err := engine.RemoveRule(number - 1)
			if err != nil {
				fmt.Fprintln(out, "Invalid rule index")
			} else {
				fmt.Fprintf(out, "Rule removed: %s\n", removed)
			}
		case "6":
			naturalLanguageCommand(engine, scanner, out)
		case "7":
			runDemo(engine, out)
		case "8":
			fmt.Fprintln(out, "Goodbye! Smart Home System shutting down...")
			return nil
		default:
			fmt.Fprintln(out, "Invalid choice. Please enter 1-8.")
		}
	}
}

func prompt(scanner *bufio.Scanner, out io.Writer, message string) (string, bool) {
	fmt.Fprint(out, message)
	if !scanner.Scan() {
		return "", false
	}
	return strings.TrimSpace(scanner.Text()), true
}

func displayStatus(engine *runtime.Engine, out io.Writer) {
	fmt.Fprintln(out, "\nDEVICE STATUS:")
	fmt.Fprintln(out, strings.Repeat("-", 30))
	for _, entry := range engine.Store().Snapshot() {
		name := strings.ToUpper(entry.Key[:1]) + entry.Key[1:]
		switch value := entry.Value.(type) {
		case bool:
			status := "OFF"
			if value {
				status = "ON"
			}
			fmt.Fprintf(out, "%s: %s\n", name, status)
		case int:
			fmt.Fprintf(out, "%s: %d°C\n", name, value)
		default:
			fmt.Fprintf(out, "%s: %v\n", name, value)
		}
	}
}

func listRules(engine *runtime.Engine, out io.Writer) {
	fmt.Fprintln(out, "\nAUTOMATION RULES:")
	fmt.Fprintln(out, strings.Repeat("-", 40))
	for i, rule := range engine.ListRules() {
		fmt.Fprintf(out, "%d. %s\n", i+1, rule)
	}
}

func manualControl(engine *runtime.Engine, scanner *bufio.Scanner, out io.Writer) {
	fmt.Fprintln(out, "\nMANUAL DEVICE CONTROL:")
	fmt.Fprintln(out, "1. Set temperature")
	fmt.Fprintln(out, "2. Set time")
	fmt.Fprintln(out, "3. Toggle motion detection")
	fmt.Fprintln(out, "4. Toggle lights")
	fmt.Fprintln(out, "5. Toggle AC")

	choice, ok := prompt(scanner, out, "Select option (1-5): ")
	if !ok {
		return
	}

	deviceStore := engine.Store()

	switch choice {
	case "1":
		input, ok := prompt(scanner, out, "Enter temperature (15-35°C): ")
		if !ok {
			return
		}
		temp, err := strconv.Atoi(input)
		if err != nil {
			fmt.Fprintln(out, "Invalid temperature value")
			return
		}
		if err := store.SetTemperatureValidated(deviceStore, temp); err != nil {
			fmt.Fprintf(out, "Temperature must be between %d-%d°C\n", store.MinTemperature, store.MaxTemperature)
			return
		}
		fmt.Fprintf(out, "Temperature set to %d°C\n", temp)
		reportTriggered(engine.ExecuteRules(), out)
	case "2":
		input, ok := prompt(scanner, out, "Enter time (HH:MM): ")
		if !ok {
			return
		}
		if err := store.SetTimeValidated(deviceStore, input); err != nil {
			fmt.Fprintln(out, "Invalid time format (use HH:MM)")
			return
		}
		fmt.Fprintf(out, "Time set to %s\n", input)
		reportTriggered(engine.ExecuteRules(), out)
	case "3":
		value, _ := deviceStore.GetDevice("motion")
		motion := !value.(bool)
		deviceStore.SetDevice("motion", motion)
		status := "NONE"
		if motion {
			status = "DETECTED"
		}
		fmt.Fprintf(out, "Motion detection: %s\n", status)
		reportTriggered(engine.ExecuteRules(), out)
	case "4":
		toggleDevice(deviceStore, "lights", "Lights", out)
	case "5":
		toggleDevice(deviceStore, "ac", "AC", out)
	}
}

func toggleDevice(deviceStore store.Store, key, name string, out io.Writer) {
	value, _ := deviceStore.GetDevice(key)
	on := !value.(bool)
	deviceStore.SetDevice(key, on)
	status := "OFF"
	if on {
		status = "ON"
	}
	fmt.Fprintf(out, "%s: %s\n", name, status)
}

func naturalLanguageCommand(engine *runtime.Engine, scanner *bufio.Scanner, out io.Writer) {
	fmt.Fprintln(out, "\nNATURAL LANGUAGE COMMAND:")
	fmt.Fprintln(out, "Examples:")
	fmt.Fprintln(out, "  - 'When it is hot turn on ac'")
	fmt.Fprintln(out, "  - 'If motion detected turn on security'")
	fmt.Fprintln(out, "  - 'In the evening turn on lights'")
	fmt.Fprintln(out, "  - 'Turn off lights'")
	fmt.Fprintln(out, "  - 'Set temperature to 20'")
	fmt.Fprintln(out, "  - 'Disable motion detection'")

	command, ok := prompt(scanner, out, "\nEnter command: ")
	if !ok || command == "" {
		fmt.Fprintln(out, "Please enter a command")
		return
	}

	translated := nlp.Translate(command)
	fmt.Fprintf(out, "\nParsed: %s\n", translated)

	switch {
	case strings.Contains(translated, "IF ") && strings.Contains(translated, " THEN "):
		answer, ok := prompt(scanner, out, "Add this rule to automation? (y/n): ")
		if !ok {
			return
		}
		if strings.ToLower(answer) == "y" {
			if err := engine.AddRule(translated); err != nil {
				fmt.Fprintf(out, "Invalid or duplicate rule: %v\n", err)
			} else {
				fmt.Fprintf(out, "Rule added: %s\n", translated)
			}
		}
	case translated != nlp.Sentinel:
		fmt.Fprintln(out, "Executing direct command...")
		triggered, err := engine.ExecuteCommand(translated)
		if err != nil {
			fmt.Fprintf(out, "Command failed: %v\n", err)
			return
		}
		for _, rule := range triggered {
			fmt.Fprintf(out, "Triggered by rule: %s\n", rule)
		}
	default:
		fmt.Fprintln(out, "Could not understand the command")
	}
}

func reportTriggered(triggered []string, out io.Writer) {
	for _, rule := range triggered {
		fmt.Fprintf(out, "Triggered by rule: %s\n", rule)
	}
}

// runDemo walks the three scripted scenarios: a hot afternoon, motion
// at the door, and the clock reaching evening.
func runDemo(engine *runtime.Engine, out io.Writer) {
	fmt.Fprintln(out, "\nAUTOMATION DEMO:")
	fmt.Fprintln(out, "Simulating different scenarios...")

	scenarios := []struct {
		description string
		apply       func() error
	}{
		{"Setting temperature to 26°C (hot)", func() error {
			return engine.Store().SetDevice("temperature", 26)
		}},
		{"Activating motion sensor", func() error {
			return engine.Store().SetDevice("motion", true)
		}},
		{"Setting time to 18:00 (evening)", func() error {
			return engine.Store().SetDevice("time", "18:00")
		}},
	}

	for _, scenario := range scenarios {
		fmt.Fprintf(out, "\n%s\n", scenario.description)
		if err := scenario.apply(); err != nil {
			logging.LogError(logging.Logger, err)
			continue
		}

		triggered := engine.ExecuteRules()
		if len(triggered) == 0 {
			fmt.Fprintln(out, "   No rules triggered")
		}
		for _, rule := range triggered {
			fmt.Fprintf(out, "   Triggered: %s\n", rule)
		}

		displayStatus(engine, out)
		time.Sleep(1 * time.Second)
	}
}
