package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/daviddao/halftime/pkg/model"
	"github.com/daviddao/halftime/pkg/timeline"
)

const showUsage = "usage: ht show [token | --id DRAW] [--units hms|ms] [--reveal] [--json]"

func (a *app) cmdShow(args []string) int {
	flags := flag.NewFlagSet("show", flag.ContinueOnError)
	units := flags.String("units", a.presets.Units, "time format: hms or ms")
	reveal := flags.Bool("reveal", false, "show names of a surprise schedule")
	drawID := flags.String("id", "", "show a previous draw by ID (see ht history)")
	jsonOut := flags.Bool("json", false, "JSON output")
	if err := flags.Parse(args); err != nil {
		return exitErr
	}

	// flag stops at the first positional argument; pick up flags after it.
	token := flags.Arg(0)
	if flags.NArg() > 1 {
		if err := flags.Parse(flags.Args()[1:]); err != nil {
			return exitErr
		}
		if flags.NArg() > 0 {
			fmt.Fprintln(os.Stderr, showUsage)
			return exitErr
		}
	}
	if token != "" && *drawID != "" {
		fmt.Fprintln(os.Stderr, showUsage)
		return exitErr
	}

	u, err := timeline.ParseUnits(*units)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ht: show: %v\n", err)
		return exitErr
	}

	if *drawID != "" {
		d, err := a.store.GetDraw(*drawID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ht: show: draw %s: %v\n", *drawID, err)
			return exitErr
		}
		token = d.Token
	}

	sched, err := a.loadSchedule(token)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ht: show: %v\n", err)
		if errors.Is(err, model.ErrMalformedToken) {
			return exitMalformed
		}
		return exitErr
	}

	hidden := sched.Surprise && !*reveal
	if *jsonOut {
		printJSON(a.newView(sched, hidden))
		return exitOK
	}
	if err := a.printSchedule(sched, u, hidden); err != nil {
		fmt.Fprintf(os.Stderr, "ht: show: %v\n", err)
		return exitErr
	}
	return exitOK
}
