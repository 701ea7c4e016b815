package schedule

import (
	"bytes"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/daviddao/halftime/pkg/codec"
	"github.com/daviddao/halftime/pkg/metrics"
	"github.com/daviddao/halftime/pkg/model"
	"github.com/daviddao/halftime/pkg/planner"
	"github.com/daviddao/halftime/pkg/shuffle"
)

type recordingMetrics struct {
	mu            sync.Mutex
	created       int
	reconstructed int
	rejected      map[string]int
}

func (r *recordingMetrics) RecordCreated(int, int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.created++
}

func (r *recordingMetrics) RecordReconstructed(int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reconstructed++
}

func (r *recordingMetrics) RecordRejected(reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.rejected == nil {
		r.rejected = map[string]int{}
	}
	r.rejected[reason]++
}

type panicSource struct{}

func (panicSource) IntN(int) int { panic("randomness drawn") }

func seeded(seed uint64) Option {
	return WithSourceFactory(func() shuffle.Source { return shuffle.NewSource(seed) })
}

func people(names ...string) []model.Participant {
	out := make([]model.Participant, len(names))
	for i, n := range names {
		out[i] = model.Participant{Name: n}
	}
	return out
}

func TestCreateSchedule(t *testing.T) {
	t.Run("token reproduces the displayed schedule", func(t *testing.T) {
		svc := New(seeded(1))
		opts := model.GameOptions{SlotsPerParticipant: 2, TotalDurationSeconds: 5400, PerRound: true}

		created, err := svc.CreateSchedule(people("Ana", "Bo", "Cyd", "Dee"), opts, true)
		require.NoError(t, err)
		require.NotEmpty(t, created.Token)
		require.True(t, created.Surprise)
		require.Len(t, created.Assignment, 8)

		rebuilt, err := svc.ReconstructSchedule(created.Token)
		require.NoError(t, err)
		require.Equal(t, created.Allocations, rebuilt.Allocations)
		require.Equal(t, created.Payload, rebuilt.Payload)
		require.True(t, rebuilt.Surprise)
	})

	t.Run("encodes the assignment it expanded", func(t *testing.T) {
		svc := New(seeded(2))
		opts := model.GameOptions{SlotsPerParticipant: 3, TotalDurationSeconds: 3600}
		created, err := svc.CreateSchedule(people("A", "B", "C"), opts, false)
		require.NoError(t, err)

		decoded, err := codec.Decode(created.Token)
		require.NoError(t, err)
		require.Equal(t, created.Assignment, decoded.Assignment)

		expanded, err := planner.Expand(decoded.Assignment, decoded.ParticipantNames, decoded.TotalDurationSeconds)
		require.NoError(t, err)
		require.Equal(t, created.Allocations, expanded)
	})

	t.Run("same seed same schedule", func(t *testing.T) {
		opts := model.GameOptions{SlotsPerParticipant: 1, TotalDurationSeconds: 90}
		a, err := New(seeded(9)).CreateSchedule(people("A", "B", "C", "D", "E"), opts, false)
		require.NoError(t, err)
		b, err := New(seeded(9)).CreateSchedule(people("A", "B", "C", "D", "E"), opts, false)
		require.NoError(t, err)
		require.Equal(t, a.Token, b.Token)
	})

	t.Run("invalid configuration draws nothing", func(t *testing.T) {
		m := &recordingMetrics{}
		svc := New(WithSourceFactory(func() shuffle.Source { return panicSource{} }), WithMetrics(m))

		cases := []struct {
			name         string
			participants []model.Participant
			opts         model.GameOptions
		}{
			{"no participants", nil, model.GameOptions{SlotsPerParticipant: 1, TotalDurationSeconds: 90}},
			{"zero slots", people("A"), model.GameOptions{SlotsPerParticipant: 0, TotalDurationSeconds: 90}},
			{"zero duration", people("A"), model.GameOptions{SlotsPerParticipant: 1, TotalDurationSeconds: 0}},
			{"duration above 32 bits", people("A"), model.GameOptions{SlotsPerParticipant: 1, TotalDurationSeconds: model.MaxDurationSeconds + 1}},
			{"slot product overflows", people("A", "B", "C"), model.GameOptions{SlotsPerParticipant: 6148914691236517206, TotalDurationSeconds: 90, PerRound: true}},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				s, err := svc.CreateSchedule(tc.participants, tc.opts, false)
				require.ErrorIs(t, err, model.ErrInvalidConfiguration)
				require.Nil(t, s)
			})
		}
		require.Equal(t, 5, m.rejected[metrics.ReasonInvalidConfiguration])
		require.Zero(t, m.created)
	})

	t.Run("logs the draw", func(t *testing.T) {
		var buf bytes.Buffer
		svc := New(seeded(3), WithLogger(zerolog.New(&buf).Level(zerolog.DebugLevel)))
		_, err := svc.CreateSchedule(people("A", "B"), model.GameOptions{SlotsPerParticipant: 1, TotalDurationSeconds: 100}, false)
		require.NoError(t, err)
		require.Contains(t, buf.String(), "schedule drawn")
		require.Contains(t, buf.String(), `"participants":2`)
	})
}

func TestReconstructSchedule(t *testing.T) {
	t.Run("fixed assignment", func(t *testing.T) {
		tok, err := codec.Encode(model.Payload{
			TotalDurationSeconds: 90,
			ParticipantNames:     []string{"A", "B", "C"},
			Assignment:           model.SlotAssignment{1, 0, 2},
		})
		require.NoError(t, err)

		got, err := New().ReconstructSchedule(tok)
		require.NoError(t, err)
		require.False(t, got.Surprise)
		require.Equal(t, []model.Allocation{
			{Start: 0, End: 30, Label: "B", Kind: model.KindSlot},
			{Start: 30, End: 45, Label: "A", Kind: model.KindSlotSplit},
			{Start: 45, End: 45, Label: model.HalfTimeLabel, Kind: model.KindMarker},
			{Start: 45, End: 60, Label: "A", Kind: model.KindSlotSplit},
			{Start: 60, End: 90, Label: "C", Kind: model.KindSlot},
		}, got.Allocations)
	})

	t.Run("malformed token propagates without substitution", func(t *testing.T) {
		m := &recordingMetrics{}
		svc := New(WithSourceFactory(func() shuffle.Source { return panicSource{} }), WithMetrics(m))
		for _, tok := range []string{"", "garbage", "SFQBCFo"} {
			got, err := svc.ReconstructSchedule(tok)
			require.ErrorIs(t, err, model.ErrMalformedToken)
			require.Nil(t, got)
		}
		require.Equal(t, 3, m.rejected[metrics.ReasonMalformedToken])
		require.Zero(t, m.reconstructed)
	})
}

func TestService_ConcurrentUse(t *testing.T) {
	svc := New()
	opts := model.GameOptions{SlotsPerParticipant: 2, TotalDurationSeconds: 5400, PerRound: true}

	var wg sync.WaitGroup
	errs := make(chan error, 32)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s, err := svc.CreateSchedule(people("A", "B", "C"), opts, false)
			if err != nil {
				errs <- err
				return
			}
			if _, err := svc.ReconstructSchedule(s.Token); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}
}
