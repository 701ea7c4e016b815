package main

import (
	"fmt"
	"os"

	"github.com/daviddao/halftime/pkg/model"
	"github.com/daviddao/halftime/pkg/server"
	"github.com/daviddao/halftime/pkg/timeline"
)

// scheduleView is the --json shape of a schedule. When Hidden is set the
// participant names are left out and allocation labels are masked.
type scheduleView struct {
	Token                string             `json:"token"`
	ShareURL             string             `json:"share_url,omitempty"`
	TotalDurationSeconds int                `json:"total_duration_seconds"`
	Participants         []string           `json:"participants,omitempty"`
	Surprise             bool               `json:"surprise"`
	Hidden               bool               `json:"hidden"`
	Allocations          []model.Allocation `json:"allocations"`
	Shares               []timeline.Share   `json:"shares,omitempty"`
}

func (a *app) shareURL(token string) string {
	if a.cfg.BaseURL == "" {
		return ""
	}
	return server.ShareURL(a.cfg.BaseURL, token)
}

func (a *app) newView(s *model.Schedule, hidden bool) scheduleView {
	v := scheduleView{
		Token:                s.Token,
		ShareURL:             a.shareURL(s.Token),
		TotalDurationSeconds: s.TotalDurationSeconds,
		Surprise:             s.Surprise,
		Hidden:               hidden,
	}
	if hidden {
		v.Allocations = make([]model.Allocation, len(s.Allocations))
		for i, al := range s.Allocations {
			if !al.IsMarker() {
				al.Label = timeline.HiddenLabel
			}
			v.Allocations[i] = al
		}
		return v
	}
	v.Participants = s.ParticipantNames
	v.Allocations = s.Allocations
	v.Shares = timeline.Shares(s.ParticipantNames, s.Assignment, s.TotalDurationSeconds)
	return v
}

// printSchedule writes the human-readable form of s to stdout.
func (a *app) printSchedule(s *model.Schedule, units timeline.Units, hidden bool) error {
	fmt.Printf("%d participants, %d windows, %s total\n",
		len(s.ParticipantNames), len(s.Assignment), timeline.FormatClock(s.TotalDurationSeconds, units))
	fmt.Println()
	if err := timeline.Render(os.Stdout, s.Allocations, timeline.RenderOptions{Units: units, Hidden: hidden}); err != nil {
		return err
	}
	if hidden {
		fmt.Println()
		fmt.Println("surprise mode: names hidden (ht show --reveal to see them)")
	} else {
		fmt.Println()
		for _, sh := range timeline.Shares(s.ParticipantNames, s.Assignment, s.TotalDurationSeconds) {
			fmt.Printf("  #%-3d %-16s %s in %d window(s)\n",
				sh.Participant+1, sh.Label, timeline.FormatClock(sh.Seconds, units), sh.Windows)
		}
	}
	fmt.Println()
	fmt.Printf("token: %s\n", s.Token)
	if u := a.shareURL(s.Token); u != "" {
		fmt.Printf("share: %s\n", u)
	}
	return nil
}
