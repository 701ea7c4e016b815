// Package model defines the core domain types for halftime.
//
// A game of known length is cut into equal windows, one per slot. Every
// participant owns the same number of slots; the order is drawn at random
// and recorded as a SlotAssignment. The assignment, the participant names,
// the total duration and the surprise flag are the whole state of a
// schedule: the Allocation list shown to players is always derived from
// them, never edited.
package model

import "time"

// HalfTimeLabel is the label of the zero-length marker between the halves.
const HalfTimeLabel = "Half Time"

// Participant is one person in the rotation. Identity is positional.
type Participant struct {
	Name string `json:"name"`
}

// GameOptions is the immutable input to a single schedule computation.
type GameOptions struct {
	SlotsPerParticipant  int  `json:"slots_per_participant"`
	TotalDurationSeconds int  `json:"total_duration_seconds"`
	PerRound             bool `json:"per_round"`
}

// SlotAssignment lists, per equal-length window, the index of the
// participant who owns it.
type SlotAssignment []int

// AllocationKind distinguishes whole windows, halves of a window split by
// the half-time marker, and the marker itself.
type AllocationKind string

const (
	KindSlot      AllocationKind = "slot"
	KindSlotSplit AllocationKind = "slot-split"
	KindMarker    AllocationKind = "marker"
)

// Allocation is one row of a computed schedule. Start and End are seconds
// from kick-off; a marker has Start == End.
type Allocation struct {
	Start int            `json:"start"`
	End   int            `json:"end"`
	Label string         `json:"label"`
	Kind  AllocationKind `json:"kind"`
}

// Seconds returns the length of the allocation.
func (a Allocation) Seconds() int { return a.End - a.Start }

// IsMarker reports whether a is the half-time marker.
func (a Allocation) IsMarker() bool { return a.Kind == KindMarker }

// Payload is everything a share token carries.
type Payload struct {
	TotalDurationSeconds int            `json:"total_duration_seconds"`
	ParticipantNames     []string       `json:"participant_names"`
	Assignment           SlotAssignment `json:"assignment"`
	Surprise             bool           `json:"surprise"`
}

// Schedule is the result of creating or reconstructing a schedule: the
// derived allocations, the token that reproduces them, and the generating
// payload (whose Surprise flag the caller uses to decide on masking).
type Schedule struct {
	Allocations []Allocation `json:"allocations"`
	Token       string       `json:"token"`
	Payload
}

// Draw is a previously computed schedule remembered by the local store.
// Only the token is kept; the schedule is rebuilt from it on demand.
type Draw struct {
	ID        string    `json:"id"`
	Token     string    `json:"token"`
	Surprise  bool      `json:"surprise"`
	CreatedAt time.Time `json:"created_at"`
}
