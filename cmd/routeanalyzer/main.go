// Command routeanalyzer is the CLI surface over the search engine: search
// runs the engine to completion, and route/greedy/minimize/draw/observe/
// info each operate on a single saved route file. Flag parsing uses
// github.com/spf13/pflag directly rather than a command framework like
// cobra: seven flat subcommands with no nesting don't need one.
package main

import (
	"fmt"
	"os"
)

var subcommands = map[string]func(args []string) error{
	"search":   runSearch,
	"route":    runRoute,
	"greedy":   runGreedy,
	"minimize": runMinimize,
	"draw":     runDraw,
	"observe":  runObserve,
	"info":     runInfo,
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage())
		os.Exit(2)
	}

	run, ok := subcommands[os.Args[1]]
	if !ok {
		fmt.Fprintf(os.Stderr, "routeanalyzer: unknown subcommand %q\n%s\n", os.Args[1], usage())
		os.Exit(2)
	}

	if err := run(os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, "routeanalyzer:", err)
		os.Exit(1)
	}
}

func usage() string {
	return "usage: routeanalyzer <search|route|greedy|minimize|draw|observe|info> [flags]"
}
