package services

import (
	"sort"

	"github.com/zatekoja/Emergencybeddiscovery/internal/domain/entities"
)

// Sub-score caps. The four factors are independently capped and summed
// into a 0-100 composite.
const (
	maxTimeScore      = 40.0
	maxBedScore       = 30.0
	maxTraumaScore    = 20.0
	maxOperatingScore = 10.0

	missingDurationScore = maxTimeScore / 2
)

// ScoredCandidate pairs a candidate with its composite score. Scores are
// ephemeral: produced and consumed within one ranking pass, never stored.
type ScoredCandidate struct {
	Candidate *entities.Candidate `json:"candidate"`
	Score     float64             `json:"score"`
	Breakdown map[string]float64  `json:"breakdown,omitempty"`
}

// RankingService computes the composite score. It is a pure function of
// its inputs: ranking the same list twice yields identical scores and
// identical order.
type RankingService struct{}

// NewRankingService creates a new ranking service.
func NewRankingService() *RankingService {
	return &RankingService{}
}

// Rank scores every candidate against the whole list and sorts by score
// descending. The sort is stable; ties keep their input order.
func (s *RankingService) Rank(candidates []*entities.Candidate) []ScoredCandidate {
	if len(candidates) == 0 {
		return nil
	}

	minDur, maxDur, haveDur := durationRange(candidates)

	scored := make([]ScoredCandidate, len(candidates))
	for i, c := range candidates {
		score, breakdown := s.score(c, minDur, maxDur, haveDur)
		scored[i] = ScoredCandidate{
			Candidate: c,
			Score:     score,
			Breakdown: breakdown,
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	return scored
}

// Score computes one candidate's composite score in the context of the
// full candidate list.
func (s *RankingService) Score(candidate *entities.Candidate, all []*entities.Candidate) (float64, map[string]float64) {
	minDur, maxDur, haveDur := durationRange(all)
	return s.score(candidate, minDur, maxDur, haveDur)
}

func (s *RankingService) score(c *entities.Candidate, minDur, maxDur int, haveDur bool) (float64, map[string]float64) {
	breakdown := map[string]float64{
		"time":      timeScore(c, minDur, maxDur, haveDur),
		"beds":      bedScore(c),
		"trauma":    traumaScore(c),
		"operating": operatingScore(c),
	}

	total := breakdown["time"] + breakdown["beds"] + breakdown["trauma"] + breakdown["operating"]
	return total, breakdown
}

// timeScore interpolates linearly between the fastest and slowest
// observed route durations. Candidates without a duration get the
// midpoint rather than a penalty, since absence means "not measured".
func timeScore(c *entities.Candidate, minDur, maxDur int, haveDur bool) float64 {
	if c.RouteDuration == nil || !haveDur {
		return missingDurationScore
	}
	if minDur == maxDur {
		return maxTimeScore
	}
	fraction := float64(*c.RouteDuration-minDur) / float64(maxDur-minDur)
	return maxTimeScore * (1 - fraction)
}

func bedScore(c *entities.Candidate) float64 {
	switch c.Availability() {
	case entities.AvailabilityAvailable:
		return 20 + 10*float64(c.AvailableBeds)/float64(c.TotalBeds)
	case entities.AvailabilityLimited:
		return 15
	case entities.AvailabilityFull:
		return 0
	default:
		return 10
	}
}

func traumaScore(c *entities.Candidate) float64 {
	if c.TraumaLevel == nil {
		return 5
	}
	switch *c.TraumaLevel {
	case 1:
		return maxTraumaScore
	case 2:
		return 15
	case 3:
		return 10
	default:
		return 5
	}
}

func operatingScore(c *entities.Candidate) float64 {
	if c.IsOperating {
		return maxOperatingScore
	}
	return 0
}

func durationRange(candidates []*entities.Candidate) (minDur, maxDur int, haveDur bool) {
	for _, c := range candidates {
		if c.RouteDuration == nil {
			continue
		}
		d := *c.RouteDuration
		if !haveDur {
			minDur, maxDur = d, d
			haveDur = true
			continue
		}
		if d < minDur {
			minDur = d
		}
		if d > maxDur {
			maxDur = d
		}
	}
	return minDur, maxDur, haveDur
}
