package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jwebster45206/escape-engine/pkg/command"
	"github.com/jwebster45206/escape-engine/pkg/scenario"
	"github.com/jwebster45206/escape-engine/pkg/state"
)

func main() {
	dump := flag.Bool("dump", false, "print the rule tables as YAML")
	strict := flag.Bool("strict", false, "treat shadowed triggers as errors")
	flag.Parse()

	sc := scenario.EscapeRoom()

	if *dump {
		if err := dumpScenario(os.Stdout, sc); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to dump scenario: %v\n", err)
			os.Exit(1)
		}
		return
	}

	fmt.Printf("Validating %s...\n", sc.Name)
	if ok := report(os.Stdout, sc, *strict); !ok {
		fmt.Fprintln(os.Stderr, "Validation failed")
		os.Exit(1)
	}
	fmt.Println("Scenario is valid!")
}

// report prints problems and shadowed triggers. It returns false when the
// scenario should be rejected.
func report(w io.Writer, sc *scenario.Scenario, strict bool) bool {
	ok := true
	for _, p := range sc.Validate() {
		fmt.Fprintf(w, "ERROR   %s\n", p)
		ok = false
	}

	shadowed := sc.Shadowed(command.GlobalBindings())
	level := "WARNING"
	if strict {
		level = "ERROR  "
	}
	for _, stage := range state.AllStages {
		for _, sh := range shadowed[stage] {
			fmt.Fprintf(w, "%s %s: %s trigger %q is always taken by %s %q\n",
				level, stage, sh.Intent, sh.Phrase, sh.By, sh.ByPhrase)
			if strict {
				ok = false
			}
		}
	}
	return ok
}

func dumpScenario(w io.Writer, sc *scenario.Scenario) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(sc); err != nil {
		return err
	}
	return enc.Close()
}
