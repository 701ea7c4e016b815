// Package timeline renders computed schedules for a terminal.
package timeline

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/daviddao/halftime/pkg/model"
)

// Units selects how clock times are printed.
type Units string

const (
	UnitsHMS Units = "hms" // 01:02:03
	UnitsMS  Units = "ms"  // 62:03
)

// ParseUnits accepts "hms" or "ms" (case-insensitive); empty means hms.
func ParseUnits(s string) (Units, error) {
	switch Units(strings.ToLower(strings.TrimSpace(s))) {
	case "", UnitsHMS:
		return UnitsHMS, nil
	case UnitsMS:
		return UnitsMS, nil
	default:
		return "", fmt.Errorf("unknown units %q (want hms or ms)", s)
	}
}

// FormatClock prints seconds from kick-off. Minutes are not wrapped in ms
// mode, so a 90 minute game ends at 90:00.
func FormatClock(seconds int, u Units) string {
	if seconds < 0 {
		seconds = 0
	}
	if u == UnitsMS {
		return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// HiddenLabel replaces participant names in surprise mode.
const HiddenLabel = "???"

// RenderOptions controls Render.
type RenderOptions struct {
	Units Units
	// Hidden masks participant labels. Marker labels stay visible.
	Hidden bool
}

// Render writes one row per allocation. Marker rows carry a single time.
func Render(w io.Writer, allocs []model.Allocation, opts RenderOptions) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, a := range allocs {
		var err error
		if a.IsMarker() {
			_, err = fmt.Fprintf(tw, "--- %s\t%s\t\n", a.Label, FormatClock(a.Start, opts.Units))
		} else {
			label := a.Label
			if opts.Hidden {
				label = HiddenLabel
			}
			_, err = fmt.Fprintf(tw, "    %s\t%s\t%s\n", label,
				FormatClock(a.Start, opts.Units), FormatClock(a.End, opts.Units))
		}
		if err != nil {
			return err
		}
	}
	return tw.Flush()
}

// Share is one participant's total playing time. Participant is the
// 0-based position; names need not be unique.
type Share struct {
	Participant int    `json:"participant"`
	Label       string `json:"label"`
	Seconds     int    `json:"seconds"`
	Windows     int    `json:"windows"`
}

// Shares totals playing time per participant position from the assignment
// and window layout, in participant order. A window split by the half-time
// marker counts once. Invalid layouts yield nil.
func Shares(names []string, assignment model.SlotAssignment, totalSeconds int) []Share {
	window, ok := model.WindowSeconds(totalSeconds, len(assignment))
	if !ok || len(names) == 0 {
		return nil
	}
	out := make([]Share, len(names))
	for i, name := range names {
		out[i] = Share{Participant: i, Label: name}
	}
	last := len(assignment) - 1
	for i, who := range assignment {
		if who < 0 || who >= len(out) {
			continue
		}
		secs := window
		if i == last {
			secs = totalSeconds - last*window
		}
		out[who].Seconds += secs
		out[who].Windows++
	}
	return out
}
