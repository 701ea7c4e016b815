package main

import (
	"flag"
	"fmt"
	"os"
)

// cmdReset forgets every drawn schedule. The participant list is kept so
// the next draw can start right away.
func (a *app) cmdReset(args []string) int {
	flags := flag.NewFlagSet("reset", flag.ContinueOnError)
	jsonOut := flags.Bool("json", false, "JSON output")
	if err := flags.Parse(args); err != nil {
		return exitErr
	}

	n, err := a.store.DeleteDraws()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ht: reset: %v\n", err)
		return exitErr
	}
	if *jsonOut {
		printJSON(map[string]any{"deleted": n})
		return exitOK
	}
	fmt.Printf("forgot %d draw(s); participants kept\n", n)
	return exitOK
}
