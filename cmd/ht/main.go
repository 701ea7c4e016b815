// Command ht draws fair, shareable playing-time schedules.
package main

import (
	"fmt"
	"os"
)

const version = "1.0.0"

// Exit codes.
const (
	exitOK        = 0
	exitErr       = 1
	exitMalformed = 2
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(exitErr)
	}

	switch os.Args[1] {
	case "--help", "-h", "help":
		printUsage()
		return
	case "--version", "-v", "version":
		fmt.Println("ht", version)
		return
	}

	a, err := newApp()
	if err != nil {
		fatal("%v", err)
	}

	code := run(a, os.Args[1], os.Args[2:])
	a.Close()
	os.Exit(code)
}

func run(a *app, cmd string, args []string) int {
	switch cmd {
	// Participants
	case "players", "ls":
		return a.cmdPlayers(args)
	case "add":
		return a.cmdAdd(args)
	case "rename":
		return a.cmdRename(args)
	case "remove", "rm":
		return a.cmdRemove(args)
	case "clear":
		return a.cmdClear(args)

	// Schedules
	case "draw":
		return a.cmdDraw(args)
	case "show":
		return a.cmdShow(args)
	case "history":
		return a.cmdHistory(args)
	case "reset":
		return a.cmdReset(args)

	case "serve":
		return a.cmdServe(args)

	default:
		fmt.Fprintf(os.Stderr, "ht: unknown command %q\n", cmd)
		fmt.Fprintln(os.Stderr, "Run 'ht --help' for usage.")
		return exitErr
	}
}

func printUsage() {
	fmt.Print(`ht: fair playing-time schedules you can share as a link

Cuts a game into equal windows, draws who plays each one, and marks half time.
The whole schedule travels in a short token.

Usage:
  ht <command> [flags]

Participants:
  players                   List the draft participant list
  add <name>...             Append participants (duplicates allowed)
  rename <n> <name>         Rename participant #n
  remove <n>                Remove participant #n
  clear                     Empty the participant list

Schedules:
  draw [--duration 90m] [--slots N] [--per-round] [--surprise] [--seed N]
                            Draw a schedule for the current participants
  show [token | --id DRAW] [--units hms|ms] [--reveal]
                            Rebuild a schedule from a token or a previous draw
                            (default: latest draw)
  history [--limit N]       List previous draws
  reset                     Forget drawn schedules (participants are kept)

Server:
  serve [--addr HOST:PORT]  Serve the JSON API and /metrics

Aliases:
  ls = players, rm = remove

Environment:
  HALFTIME_DB         SQLite database path (default: .halftime/halftime.db)
  HALFTIME_CONFIG     YAML presets file (duration, slots_per_participant, ...)
  HALFTIME_LOG_LEVEL  debug, info, warn, error (default: warn)
  HALFTIME_HTTP_ADDR  Listen address for serve (default: 127.0.0.1:8090)
  HALFTIME_BASE_URL   Prefix for share links (unset: print tokens only)

Most commands support --json for machine-readable output.

Exit codes:
  0  success
  1  error
  2  malformed share token
`)
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "ht: "+format+"\n", args...)
	os.Exit(exitErr)
}
