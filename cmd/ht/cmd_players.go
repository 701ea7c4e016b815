package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/daviddao/halftime/pkg/store"
)

func (a *app) cmdPlayers(args []string) int {
	flags := flag.NewFlagSet("players", flag.ContinueOnError)
	jsonOut := flags.Bool("json", false, "JSON output")
	if err := flags.Parse(args); err != nil {
		return exitErr
	}

	ps, err := a.store.ListParticipants()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ht: players: %v\n", err)
		return exitErr
	}

	if *jsonOut {
		printJSON(map[string]any{"participants": ps, "count": len(ps)})
		return exitOK
	}
	if len(ps) == 0 {
		fmt.Println("no participants (add some with: ht add <name>)")
		return exitOK
	}
	for i, p := range ps {
		fmt.Printf("%3d  %s\n", i+1, p.Name)
	}
	return exitOK
}

func (a *app) cmdAdd(args []string) int {
	flags := flag.NewFlagSet("add", flag.ContinueOnError)
	if err := flags.Parse(args); err != nil {
		return exitErr
	}
	if flags.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: ht add <name>...")
		return exitErr
	}

	for _, name := range flags.Args() {
		if strings.TrimSpace(name) == "" {
			fmt.Fprintln(os.Stderr, "ht: add: empty name skipped")
			continue
		}
		pos, err := a.store.AddParticipant(name)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ht: add: %v\n", err)
			return exitErr
		}
		fmt.Printf("added #%d %s\n", pos+1, store.NormalizeName(name))
	}
	return exitOK
}

func (a *app) cmdRename(args []string) int {
	flags := flag.NewFlagSet("rename", flag.ContinueOnError)
	if err := flags.Parse(args); err != nil {
		return exitErr
	}
	if flags.NArg() < 2 {
		fmt.Fprintln(os.Stderr, "usage: ht rename <n> <name>")
		return exitErr
	}
	pos, err := participantIndex(flags.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "ht: rename: %v\n", err)
		return exitErr
	}
	name := strings.Join(flags.Args()[1:], " ")
	if err := a.store.RenameParticipant(pos, name); err != nil {
		fmt.Fprintf(os.Stderr, "ht: rename: %v\n", err)
		return exitErr
	}
	fmt.Printf("renamed #%d to %s\n", pos+1, store.NormalizeName(name))
	return exitOK
}

func (a *app) cmdRemove(args []string) int {
	flags := flag.NewFlagSet("remove", flag.ContinueOnError)
	if err := flags.Parse(args); err != nil {
		return exitErr
	}
	if flags.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: ht remove <n>")
		return exitErr
	}
	pos, err := participantIndex(flags.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "ht: remove: %v\n", err)
		return exitErr
	}
	if err := a.store.RemoveParticipant(pos); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			fmt.Fprintf(os.Stderr, "ht: remove: no participant #%d\n", pos+1)
		} else {
			fmt.Fprintf(os.Stderr, "ht: remove: %v\n", err)
		}
		return exitErr
	}
	fmt.Printf("removed #%d\n", pos+1)
	return exitOK
}

func (a *app) cmdClear(args []string) int {
	flags := flag.NewFlagSet("clear", flag.ContinueOnError)
	if err := flags.Parse(args); err != nil {
		return exitErr
	}
	if err := a.store.ClearParticipants(); err != nil {
		fmt.Fprintf(os.Stderr, "ht: clear: %v\n", err)
		return exitErr
	}
	fmt.Println("participant list cleared")
	return exitOK
}
