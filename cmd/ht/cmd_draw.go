package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/daviddao/halftime/pkg/model"
	"github.com/daviddao/halftime/pkg/schedule"
	"github.com/daviddao/halftime/pkg/shuffle"
	"github.com/daviddao/halftime/pkg/timeline"
)

func (a *app) cmdDraw(args []string) int {
	flags := flag.NewFlagSet("draw", flag.ContinueOnError)
	duration := flags.Duration("duration", a.presets.Duration, "game length (whole seconds)")
	slots := flags.Int("slots", a.presets.SlotsPerParticipant, "windows per participant")
	perRound := flags.Bool("per-round", a.presets.PerRound, "shuffle each round separately")
	surprise := flags.Bool("surprise", a.presets.Surprise, "hide names until revealed")
	seed := flags.Uint64("seed", 0, "seed for a reproducible draw")
	units := flags.String("units", a.presets.Units, "time format: hms or ms")
	jsonOut := flags.Bool("json", false, "JSON output")
	if err := flags.Parse(args); err != nil {
		return exitErr
	}

	u, err := timeline.ParseUnits(*units)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ht: draw: %v\n", err)
		return exitErr
	}
	if *duration%time.Second != 0 {
		fmt.Fprintf(os.Stderr, "ht: draw: duration %v is not a whole number of seconds\n", *duration)
		return exitErr
	}

	ps, err := a.store.ListParticipants()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ht: draw: %v\n", err)
		return exitErr
	}

	svc := a.svc
	seeded := false
	flags.Visit(func(f *flag.Flag) { seeded = seeded || f.Name == "seed" })
	if seeded {
		s := *seed
		svc = schedule.New(
			schedule.WithLogger(a.logger),
			schedule.WithSourceFactory(func() shuffle.Source { return shuffle.NewSource(s) }),
		)
	}

	opts := model.GameOptions{
		SlotsPerParticipant:  *slots,
		TotalDurationSeconds: int(*duration / time.Second),
		PerRound:             *perRound,
	}
	sched, err := svc.CreateSchedule(ps, opts, *surprise)
	if err != nil {
		if errors.Is(err, model.ErrInvalidConfiguration) && len(ps) == 0 {
			fmt.Fprintln(os.Stderr, "ht: draw: no participants (add some with: ht add <name>)")
		} else {
			fmt.Fprintf(os.Stderr, "ht: draw: %v\n", err)
		}
		return exitErr
	}

	d, err := a.store.SaveDraw(sched.Token, sched.Surprise)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ht: draw: save: %v\n", err)
		return exitErr
	}

	if *jsonOut {
		printJSON(map[string]any{"draw_id": d.ID, "schedule": a.newView(sched, sched.Surprise)})
		return exitOK
	}
	if err := a.printSchedule(sched, u, sched.Surprise); err != nil {
		fmt.Fprintf(os.Stderr, "ht: draw: %v\n", err)
		return exitErr
	}
	return exitOK
}
