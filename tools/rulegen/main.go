// hab/tools/rulegen/main.go

// rulegen emits random natural-language commands or DSL rules for
// exercising the translator and parser by hand or under load.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"strings"

	"github.com/brianvoe/gofakeit/v6"
)

var conditionPhrases = []string{
	"it is hot",
	"it is warm",
	"it is cold",
	"it is chilly",
	"the temperature is comfortable",
	"in the evening",
	"in the morning",
	"in the afternoon",
	"at night",
	"motion detected",
	"there is movement",
}

var devicePhrases = []string{
	"lights", "ac", "air conditioning", "cooling", "heating",
	"heater", "security", "alarm", "motion detection", "motion sensor",
}

var onVerbs = []string{"turn on", "enable", "activate", "start"}
var offVerbs = []string{"turn off", "disable", "deactivate", "stop"}

var dslOperators = []string{">", "<", ">=", "<="}

var dslActions = []string{
	"turn on lights", "turn off lights",
	"turn on ac", "turn off ac",
	"turn on heating", "turn off heating",
	"turn on security", "turn off security",
	"turn on motion", "turn off motion",
}

func pick(items []string) string {
	return items[rand.Intn(len(items))]
}

func randomActionPhrase() string {
	verbs := onVerbs
	if gofakeit.Bool() {
		verbs = offVerbs
	}
	return pick(verbs) + " " + pick(devicePhrases)
}

// generateNL builds a plausible free-text command. Roughly half are
// conditional ("when it is hot ..."), the rest direct commands, with
// occasional setter commands and filler words mixed in.
func generateNL() string {
	switch rand.Intn(5) {
	case 0:
		return fmt.Sprintf("set temperature to %d", gofakeit.Number(10, 40))
	case 1:
		return fmt.Sprintf("set time to %02d:%02d", gofakeit.Number(0, 23), gofakeit.Number(0, 59))
	case 2, 3:
		opener := pick([]string{"if", "when"})
		return fmt.Sprintf("%s %s %s", opener, pick(conditionPhrases), randomActionPhrase())
	default:
		filler := ""
		if gofakeit.Bool() {
			filler = gofakeit.Word() + " "
		}
		return filler + randomActionPhrase()
	}
}

// generateDSL builds a canonical rule straight in the DSL grammar.
func generateDSL() string {
	var conditions []string
	switch rand.Intn(3) {
	case 0:
		conditions = append(conditions,
			fmt.Sprintf("temperature %s %d", pick(dslOperators), gofakeit.Number(15, 35)))
	case 1:
		conditions = append(conditions,
			fmt.Sprintf("time is %02d:%02d", gofakeit.Number(0, 23), gofakeit.Number(0, 59)))
	default:
		conditions = append(conditions, "motion detected")
	}
	if rand.Intn(4) == 0 { // occasionally an interval rule
		low := gofakeit.Number(15, 25)
		conditions = []string{
			fmt.Sprintf("temperature >= %d", low),
			fmt.Sprintf("temperature <= %d", low+gofakeit.Number(1, 10)),
		}
	}

	actions := []string{pick(dslActions)}
	if rand.Intn(3) == 0 {
		actions = append(actions, pick(dslActions))
	}

	return "IF " + strings.Join(conditions, " AND ") + " THEN " + strings.Join(actions, " AND ")
}

func main() {
	count := flag.Int("count", 10, "Number of lines to generate")
	format := flag.String("format", "nl", "Output format: nl or dsl")
	output := flag.String("output", "", "Output file (default stdout)")
	seed := flag.Int64("seed", 0, "Random seed (0 = random)")
	flag.Parse()

	if *seed != 0 {
		rand.Seed(*seed)
		gofakeit.Seed(*seed)
	}

	out := os.Stdout
	if *output != "" {
		file, err := os.Create(*output)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create output file: %v\n", err)
			os.Exit(1)
		}
		defer file.Close()
		out = file
	}

	for i := 0; i < *count; i++ {
		switch *format {
		case "nl":
			fmt.Fprintln(out, generateNL())
		case "dsl":
			fmt.Fprintln(out, generateDSL())
		default:
			fmt.Fprintf(os.Stderr, "Unknown format: %s\n", *format)
			os.Exit(1)
		}
	}
}
