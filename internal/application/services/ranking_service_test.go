package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/Emergencybeddiscovery/internal/domain/entities"
)

func intPtr(v int) *int { return &v }

func rankable(id string, available, total int) *entities.Candidate {
	return &entities.Candidate{
		ID:            id,
		Name:          id,
		AvailableBeds: available,
		TotalBeds:     total,
		IsOperating:   true,
		Location:      entities.Coordinates{Latitude: 37.5, Longitude: 127.0},
	}
}

func TestRank_TimeScoreInterpolatesAcrossObservedRange(t *testing.T) {
	fastest := rankable("fastest", 10, 20)
	fastest.RouteDuration = intPtr(300)
	slowest := rankable("slowest", 10, 20)
	slowest.RouteDuration = intPtr(900)
	middle := rankable("middle", 10, 20)
	middle.RouteDuration = intPtr(600)

	scored := NewRankingService().Rank([]*entities.Candidate{slowest, middle, fastest})

	require.Len(t, scored, 3)
	byID := make(map[string]ScoredCandidate)
	for _, sc := range scored {
		byID[sc.Candidate.ID] = sc
	}
	assert.InDelta(t, 40.0, byID["fastest"].Breakdown["time"], 0.001)
	assert.InDelta(t, 20.0, byID["middle"].Breakdown["time"], 0.001)
	assert.InDelta(t, 0.0, byID["slowest"].Breakdown["time"], 0.001)
	assert.Equal(t, "fastest", scored[0].Candidate.ID)
}

func TestRank_MissingDurationGetsMidpointNotPenalty(t *testing.T) {
	measured := rankable("measured", 10, 20)
	measured.RouteDuration = intPtr(300)
	unmeasured := rankable("unmeasured", 10, 20)

	scored := NewRankingService().Rank([]*entities.Candidate{measured, unmeasured})

	for _, sc := range scored {
		if sc.Candidate.ID == "unmeasured" {
			assert.InDelta(t, 20.0, sc.Breakdown["time"], 0.001)
		}
	}
}

func TestRank_NoDurationsAnywhereGetsMidpoint(t *testing.T) {
	scored := NewRankingService().Rank([]*entities.Candidate{rankable("a", 10, 20)})
	require.Len(t, scored, 1)
	assert.InDelta(t, 20.0, scored[0].Breakdown["time"], 0.001)
}

func TestRank_SingleDurationGetsFullTimeScore(t *testing.T) {
	only := rankable("only", 10, 20)
	only.RouteDuration = intPtr(450)

	scored := NewRankingService().Rank([]*entities.Candidate{only})

	require.Len(t, scored, 1)
	assert.InDelta(t, 40.0, scored[0].Breakdown["time"], 0.001)
}

func TestRank_BedScorePerAvailability(t *testing.T) {
	tests := []struct {
		name      string
		candidate *entities.Candidate
		want      float64
	}{
		{"half free scales above the floor", rankable("a", 10, 20), 25.0},
		{"limited by occupancy", rankable("b", 3, 20), 15.0},
		{"full", rankable("c", 0, 20), 0.0},
		{"unknown when not operating", func() *entities.Candidate {
			c := rankable("d", 10, 20)
			c.IsOperating = false
			return c
		}(), 10.0},
		{"unknown when no beds reported", rankable("e", 0, 0), 10.0},
	}

	svc := NewRankingService()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, breakdown := svc.Score(tt.candidate, []*entities.Candidate{tt.candidate})
			assert.InDelta(t, tt.want, breakdown["beds"], 0.001)
		})
	}
}

func TestRank_TraumaScoreLadder(t *testing.T) {
	tests := []struct {
		level *int
		want  float64
	}{
		{intPtr(1), 20.0},
		{intPtr(2), 15.0},
		{intPtr(3), 10.0},
		{nil, 5.0},
	}

	svc := NewRankingService()
	for _, tt := range tests {
		c := rankable("x", 10, 20)
		c.TraumaLevel = tt.level
		_, breakdown := svc.Score(c, []*entities.Candidate{c})
		assert.InDelta(t, tt.want, breakdown["trauma"], 0.001)
	}
}

func TestRank_OperatingScore(t *testing.T) {
	open := rankable("open", 10, 20)
	closed := rankable("closed", 10, 20)
	closed.IsOperating = false

	svc := NewRankingService()
	_, openBreakdown := svc.Score(open, []*entities.Candidate{open})
	_, closedBreakdown := svc.Score(closed, []*entities.Candidate{closed})

	assert.InDelta(t, 10.0, openBreakdown["operating"], 0.001)
	assert.InDelta(t, 0.0, closedBreakdown["operating"], 0.001)
}

func TestRank_CompositeStaysWithinBounds(t *testing.T) {
	best := rankable("best", 19, 20)
	best.RouteDuration = intPtr(300)
	best.TraumaLevel = intPtr(1)
	worst := rankable("worst", 0, 20)
	worst.RouteDuration = intPtr(900)
	worst.IsOperating = false

	scored := NewRankingService().Rank([]*entities.Candidate{best, worst})

	for _, sc := range scored {
		assert.GreaterOrEqual(t, sc.Score, 0.0)
		assert.LessOrEqual(t, sc.Score, 100.0)
	}
	assert.Equal(t, "best", scored[0].Candidate.ID)
}

func TestRank_TiesKeepInputOrder(t *testing.T) {
	first := rankable("first", 10, 20)
	first.RouteDuration = intPtr(600)
	second := rankable("second", 10, 20)
	second.RouteDuration = intPtr(600)
	// Spread the duration range so both land on the same interpolated score.
	floor := rankable("floor", 0, 20)
	floor.RouteDuration = intPtr(900)
	ceiling := rankable("ceiling", 19, 20)
	ceiling.RouteDuration = intPtr(300)

	scored := NewRankingService().Rank([]*entities.Candidate{ceiling, first, second, floor})

	var tied []string
	for _, sc := range scored {
		if sc.Candidate.ID == "first" || sc.Candidate.ID == "second" {
			tied = append(tied, sc.Candidate.ID)
		}
	}
	assert.Equal(t, []string{"first", "second"}, tied)
}

func TestRank_IsDeterministic(t *testing.T) {
	candidates := []*entities.Candidate{
		rankable("a", 10, 20),
		rankable("b", 3, 20),
		rankable("c", 0, 20),
	}
	candidates[0].RouteDuration = intPtr(300)
	candidates[1].RouteDuration = intPtr(600)

	svc := NewRankingService()
	first := svc.Rank(candidates)
	second := svc.Rank(candidates)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Candidate.ID, second[i].Candidate.ID)
		assert.Equal(t, first[i].Score, second[i].Score)
	}
}

func TestRank_EmptyInput(t *testing.T) {
	assert.Nil(t, NewRankingService().Rank(nil))
}
