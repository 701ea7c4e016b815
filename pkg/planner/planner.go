// Package planner draws slot assignments and expands them into the
// allocation list shown to players.
//
// Plan is the only randomized step. Expand is deterministic: the same
// assignment, names and duration always produce the same allocations,
// which is what lets a share token reproduce a schedule exactly.
package planner

import (
	"fmt"

	"github.com/daviddao/halftime/pkg/model"
	"github.com/daviddao/halftime/pkg/shuffle"
)

// CheckOptions validates a participant count and game options before any
// randomness is drawn.
func CheckOptions(participantCount int, opts model.GameOptions) error {
	if participantCount < 1 {
		return fmt.Errorf("%w: need at least one participant", model.ErrInvalidConfiguration)
	}
	if opts.SlotsPerParticipant < 1 {
		return fmt.Errorf("%w: slots per participant must be at least 1, got %d",
			model.ErrInvalidConfiguration, opts.SlotsPerParticipant)
	}
	if opts.TotalDurationSeconds <= 0 {
		return fmt.Errorf("%w: total duration must be positive, got %ds",
			model.ErrInvalidConfiguration, opts.TotalDurationSeconds)
	}
	if opts.TotalDurationSeconds > model.MaxDurationSeconds {
		return fmt.Errorf("%w: total duration %ds exceeds %d",
			model.ErrInvalidConfiguration, opts.TotalDurationSeconds, model.MaxDurationSeconds)
	}
	if err := checkSlotCount(participantCount, opts.SlotsPerParticipant); err != nil {
		return err
	}
	slots := participantCount * opts.SlotsPerParticipant
	if _, ok := model.WindowSeconds(opts.TotalDurationSeconds, slots); !ok {
		return fmt.Errorf("%w: %ds cannot hold %d slots",
			model.ErrInvalidConfiguration, opts.TotalDurationSeconds, slots)
	}
	return nil
}

// checkSlotCount rejects participantCount*slotsPerParticipant above
// model.MaxSlots without computing the product, which could overflow.
func checkSlotCount(participantCount, slotsPerParticipant int) error {
	if participantCount > model.MaxSlots || slotsPerParticipant > model.MaxSlots/participantCount {
		return fmt.Errorf("%w: %d participants x %d slots exceeds the limit of %d",
			model.ErrInvalidConfiguration, participantCount, slotsPerParticipant, model.MaxSlots)
	}
	return nil
}

// Plan draws a slot assignment of length participantCount*slotsPerParticipant
// in which every participant appears exactly slotsPerParticipant times.
//
// With perRound set the assignment is built from one independent
// permutation per round, so every block of participantCount consecutive
// entries names each participant once. Without it the whole multiset is
// shuffled at once and only the overall count is guaranteed.
func Plan(src shuffle.Source, participantCount, slotsPerParticipant int, perRound bool) (model.SlotAssignment, error) {
	if participantCount < 1 || slotsPerParticipant < 1 {
		return nil, fmt.Errorf("%w: %d participants x %d slots",
			model.ErrInvalidConfiguration, participantCount, slotsPerParticipant)
	}
	if err := checkSlotCount(participantCount, slotsPerParticipant); err != nil {
		return nil, err
	}

	slotCount := participantCount * slotsPerParticipant
	out := make(model.SlotAssignment, 0, slotCount)

	if perRound {
		for round := 0; round < slotsPerParticipant; round++ {
			out = append(out, shuffle.Permute(src, participantCount)...)
		}
		return out, nil
	}

	flat := make([]int, slotCount)
	for i := range flat {
		flat[i] = i % participantCount
	}
	for _, pos := range shuffle.Permute(src, slotCount) {
		out = append(out, flat[pos])
	}
	return out, nil
}

// Expand turns an assignment into the final allocation list.
//
// The game is cut into len(assignment) windows of round(total/slots)
// seconds; the last window is stretched or shrunk to end exactly at total.
// A window straddling the half (total/2) is split around the half-time
// marker. When the half falls on a window edge the marker goes before the
// window at index slots/2.
func Expand(assignment model.SlotAssignment, names []string, totalDurationSeconds int) ([]model.Allocation, error) {
	p := model.Payload{
		TotalDurationSeconds: totalDurationSeconds,
		ParticipantNames:     names,
		Assignment:           assignment,
	}
	if err := model.ValidatePayload(p); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrInvalidConfiguration, err)
	}

	slotCount := len(assignment)
	window, _ := model.WindowSeconds(totalDurationSeconds, slotCount)

	windows := make([]model.Allocation, slotCount)
	for i, who := range assignment {
		windows[i] = model.Allocation{
			Start: i * window,
			End:   (i + 1) * window,
			Label: names[who],
			Kind:  model.KindSlot,
		}
	}
	windows[slotCount-1].End = totalDurationSeconds

	half := totalDurationSeconds / 2
	marker := model.Allocation{Start: half, End: half, Label: model.HalfTimeLabel, Kind: model.KindMarker}

	out := make([]model.Allocation, 0, slotCount+2)
	for k, w := range windows {
		if w.Start < half && half < w.End {
			before, after := w, w
			before.End, before.Kind = half, model.KindSlotSplit
			after.Start, after.Kind = half, model.KindSlotSplit
			out = append(out, windows[:k]...)
			out = append(out, before, marker, after)
			return append(out, windows[k+1:]...), nil
		}
	}

	mid := boundaryIndex(windows, half)
	out = append(out, windows[:mid]...)
	out = append(out, marker)
	return append(out, windows[mid:]...), nil
}

// boundaryIndex returns where the marker goes when no window straddles the
// half: the sequence midpoint. Rounding can leave the half on a different
// edge (e.g. 12s over 5 slots puts it at the start of window 3); the marker
// then moves to that edge so the list stays sorted by time.
func boundaryIndex(windows []model.Allocation, half int) int {
	mid := len(windows) / 2
	if windows[mid].Start == half {
		return mid
	}
	for k, w := range windows {
		if w.Start == half {
			return k
		}
	}
	return mid
}
