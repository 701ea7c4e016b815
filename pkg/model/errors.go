package model

import (
	"errors"
	"fmt"
	"math"
)

// Upper bounds on a schedule. Tokens carry the duration as a 32-bit value.
const (
	MaxDurationSeconds = math.MaxInt32
	MaxSlots           = 10000
)

var (
	// ErrInvalidConfiguration is returned when participant count, slot
	// multiplicity or duration is out of range. Callers fix their input;
	// nothing retries internally.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrMalformedToken is returned when a share token is absent, truncated,
	// of a foreign version or internally inconsistent. Callers treat it as
	// "no shared schedule" and fall back to local state.
	ErrMalformedToken = errors.New("malformed token")
)

// WindowSeconds returns the rounded per-slot window length for a game of
// total seconds cut into slotCount windows, and whether that layout is
// usable: every window must be non-empty and the last window must still
// start before the end of the game once rounding drift is absorbed.
func WindowSeconds(total, slotCount int) (int, bool) {
	if total <= 0 || slotCount <= 0 {
		return 0, false
	}
	// round half up: floor(total/slotCount + 1/2)
	w := (2*total + slotCount) / (2 * slotCount)
	if w < 1 || (slotCount-1)*w >= total {
		return w, false
	}
	return w, true
}

// ValidatePayload checks the structural rules shared by the planner and the
// token codec. It reports the first violation as a plain error; callers
// wrap it with the sentinel that fits their side of the boundary.
func ValidatePayload(p Payload) error {
	if p.TotalDurationSeconds <= 0 {
		return errors.New("total duration must be positive")
	}
	if p.TotalDurationSeconds > MaxDurationSeconds {
		return fmt.Errorf("total duration %ds exceeds %d", p.TotalDurationSeconds, MaxDurationSeconds)
	}
	n := len(p.ParticipantNames)
	if n == 0 {
		return errors.New("no participants")
	}
	if len(p.Assignment) == 0 || len(p.Assignment)%n != 0 {
		return errors.New("assignment length is not a positive multiple of the participant count")
	}
	if len(p.Assignment) > MaxSlots {
		return fmt.Errorf("%d slots exceeds the limit of %d", len(p.Assignment), MaxSlots)
	}
	for i, idx := range p.Assignment {
		if idx < 0 || idx >= n {
			return fmt.Errorf("assignment entry %d is %d, want [0,%d)", i, idx, n)
		}
	}
	if _, ok := WindowSeconds(p.TotalDurationSeconds, len(p.Assignment)); !ok {
		return fmt.Errorf("%ds is too short for %d slots", p.TotalDurationSeconds, len(p.Assignment))
	}
	return nil
}

