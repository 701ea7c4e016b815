// Package schedule is the entry point for drawing and sharing schedules.
//
// CreateSchedule draws a fresh assignment, expands it and encodes that same
// assignment into a share token. ReconstructSchedule goes the other way.
// The Service keeps no state between calls; each call gets its own random
// source from the configured factory, so one Service can be used from many
// goroutines.
package schedule

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/daviddao/halftime/pkg/codec"
	"github.com/daviddao/halftime/pkg/metrics"
	"github.com/daviddao/halftime/pkg/model"
	"github.com/daviddao/halftime/pkg/planner"
	"github.com/daviddao/halftime/pkg/shuffle"
)

// Option configures a Service.
type Option func(*Service)

// WithSourceFactory sets where per-call randomness comes from. Tests pass a
// factory returning shuffle.NewSource(seed) for reproducible draws.
func WithSourceFactory(f shuffle.Factory) Option {
	return func(s *Service) {
		if f != nil {
			s.newSource = f
		}
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithMetrics sets the metrics collector. The default is metrics.Nop.
func WithMetrics(c metrics.Collector) Option {
	return func(s *Service) {
		if c != nil {
			s.metrics = c
		}
	}
}

// Service draws and rebuilds schedules.
type Service struct {
	newSource shuffle.Factory
	logger    zerolog.Logger
	metrics   metrics.Collector
}

// New returns a Service with a fresh random source per call.
func New(opts ...Option) *Service {
	s := &Service{
		newSource: shuffle.NewRandomSource,
		logger:    zerolog.Nop(),
		metrics:   metrics.Nop{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateSchedule draws a schedule for participants and returns it together
// with the token that reproduces it. Invalid options fail with
// model.ErrInvalidConfiguration before any randomness is used.
func (s *Service) CreateSchedule(participants []model.Participant, opts model.GameOptions, surprise bool) (*model.Schedule, error) {
	if err := planner.CheckOptions(len(participants), opts); err != nil {
		s.metrics.RecordRejected(metrics.ReasonInvalidConfiguration)
		return nil, err
	}

	assignment, err := planner.Plan(s.newSource(), len(participants), opts.SlotsPerParticipant, opts.PerRound)
	if err != nil {
		return nil, err
	}

	names := make([]string, len(participants))
	for i, p := range participants {
		names[i] = p.Name
	}

	allocs, err := planner.Expand(assignment, names, opts.TotalDurationSeconds)
	if err != nil {
		return nil, err
	}

	payload := model.Payload{
		TotalDurationSeconds: opts.TotalDurationSeconds,
		ParticipantNames:     names,
		Assignment:           assignment,
		Surprise:             surprise,
	}
	token, err := codec.Encode(payload)
	if err != nil {
		return nil, fmt.Errorf("encode share token: %w", err)
	}

	s.metrics.RecordCreated(len(participants), opts.SlotsPerParticipant, opts.PerRound)
	s.logger.Debug().
		Int("participants", len(participants)).
		Int("slots", len(assignment)).
		Int("duration_s", opts.TotalDurationSeconds).
		Bool("per_round", opts.PerRound).
		Bool("surprise", surprise).
		Msg("schedule drawn")

	return &model.Schedule{Allocations: allocs, Token: token, Payload: payload}, nil
}

// ReconstructSchedule rebuilds the schedule a token was created from.
// Malformed tokens fail with model.ErrMalformedToken; no substitute
// schedule is ever produced.
func (s *Service) ReconstructSchedule(token string) (*model.Schedule, error) {
	payload, err := codec.Decode(token)
	if err != nil {
		s.metrics.RecordRejected(metrics.ReasonMalformedToken)
		s.logger.Debug().Err(err).Msg("share token rejected")
		return nil, err
	}

	allocs, err := planner.Expand(payload.Assignment, payload.ParticipantNames, payload.TotalDurationSeconds)
	if err != nil {
		// Decode validates the same rules Expand does; treat any
		// disagreement as a bad token rather than a caller error.
		s.metrics.RecordRejected(metrics.ReasonMalformedToken)
		return nil, fmt.Errorf("%w: %v", model.ErrMalformedToken, err)
	}

	s.metrics.RecordReconstructed(len(payload.Assignment))
	return &model.Schedule{Allocations: allocs, Token: token, Payload: payload}, nil
}
