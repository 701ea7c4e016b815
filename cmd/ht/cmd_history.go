package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"

	"github.com/daviddao/halftime/pkg/timeline"
)

// historyEntry is one row of `ht history --json`.
type historyEntry struct {
	ID           string `json:"id"`
	Token        string `json:"token"`
	Surprise     bool   `json:"surprise"`
	CreatedAt    string `json:"created_at"`
	Participants int    `json:"participants"`
	Windows      int    `json:"windows"`
	Seconds      int    `json:"total_duration_seconds"`
}

func (a *app) cmdHistory(args []string) int {
	flags := flag.NewFlagSet("history", flag.ContinueOnError)
	limit := flags.Int("limit", 10, "max draws to list")
	jsonOut := flags.Bool("json", false, "JSON output")
	if err := flags.Parse(args); err != nil {
		return exitErr
	}

	draws, err := a.store.ListDraws(*limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ht: history: %v\n", err)
		return exitErr
	}

	entries := make([]historyEntry, 0, len(draws))
	for _, d := range draws {
		e := historyEntry{ID: d.ID, Token: d.Token, Surprise: d.Surprise, CreatedAt: d.CreatedAt.Format("2006-01-02T15:04:05Z07:00")}
		if s, err := a.svc.ReconstructSchedule(d.Token); err == nil {
			e.Participants = len(s.ParticipantNames)
			e.Windows = len(s.Assignment)
			e.Seconds = s.TotalDurationSeconds
		} else {
			a.logger.Warn().Err(err).Str("draw", d.ID).Msg("stored token no longer decodes")
		}
		entries = append(entries, e)
	}

	if *jsonOut {
		printJSON(map[string]any{"draws": entries, "count": len(entries)})
		return exitOK
	}
	if len(draws) == 0 {
		fmt.Println("no draws yet")
		return exitOK
	}
	for i, e := range entries {
		note := ""
		if e.Surprise {
			note = " (surprise)"
		}
		fmt.Printf("%-14s %d participants, %d windows, %s%s\n    id:    %s\n    token: %s\n",
			humanize.Time(draws[i].CreatedAt), e.Participants, e.Windows,
			timeline.FormatClock(e.Seconds, timeline.UnitsHMS), note, e.ID, e.Token)
	}
	return exitOK
}
