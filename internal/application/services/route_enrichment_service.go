package services

import (
	"context"
	"sync"
	"time"

	"github.com/zatekoja/Emergencybeddiscovery/internal/domain/entities"
	"github.com/zatekoja/Emergencybeddiscovery/internal/domain/providers"
	"github.com/zatekoja/Emergencybeddiscovery/internal/infrastructure/observability"
	"github.com/zatekoja/Emergencybeddiscovery/pkg/config"
)

const routeCallAttempts = 2

// RouteEnrichmentService attaches travel duration/distance to the
// closest candidates. Route calls are expensive, so only a top slice of
// an already distance-sorted list is enriched, concurrently, with fast
// individual timeouts. A failed call degrades one candidate's data, not
// the batch.
type RouteEnrichmentService struct {
	routing     providers.RoutingProvider
	priority    providers.RoutePriority
	callTimeout time.Duration
}

// NewRouteEnrichmentService creates a new route enrichment service.
func NewRouteEnrichmentService(routing providers.RoutingProvider, cfg config.RoutingConfig) *RouteEnrichmentService {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 || timeout > 3*time.Second {
		timeout = 3 * time.Second
	}
	priority := providers.RoutePriority(cfg.Priority)
	if priority == "" {
		priority = providers.RoutePriorityRecommend
	}
	return &RouteEnrichmentService{
		routing:     routing,
		priority:    priority,
		callTimeout: timeout,
	}
}

// EnrichTop enriches the first k candidates of a distance-sorted list and
// returns a new list; the tail is carried over untouched.
func (s *RouteEnrichmentService) EnrichTop(ctx context.Context, origin entities.Coordinates, candidates []*entities.Candidate, k int) []*entities.Candidate {
	return s.enrichRange(ctx, origin, candidates, 0, k)
}

// LoadMore extends enrichment to a further slice without recomputing
// earlier entries.
func (s *RouteEnrichmentService) LoadMore(ctx context.Context, origin entities.Coordinates, candidates []*entities.Candidate, fromIndex, count int) []*entities.Candidate {
	return s.enrichRange(ctx, origin, candidates, fromIndex, fromIndex+count)
}

func (s *RouteEnrichmentService) enrichRange(ctx context.Context, origin entities.Coordinates, candidates []*entities.Candidate, from, to int) []*entities.Candidate {
	results := make([]*entities.Candidate, len(candidates))
	copy(results, candidates)

	if from < 0 {
		from = 0
	}
	if to > len(candidates) {
		to = len(candidates)
	}
	if from >= to {
		return results
	}

	// Each unit is independent and merged by index; a timeout on one call
	// never cancels its siblings.
	var wg sync.WaitGroup
	for i := from; i < to; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			results[idx] = s.enrichOne(ctx, origin, candidates[idx])
		}(i)
	}
	wg.Wait()

	return results
}

func (s *RouteEnrichmentService) enrichOne(ctx context.Context, origin entities.Coordinates, candidate *entities.Candidate) *entities.Candidate {
	logger := observability.LoggerFromContext(ctx)

	if candidate.NeedsGeocoding() {
		return candidate
	}
	if origin == candidate.Location {
		// Caller is standing at the facility; no point asking the router.
		return candidate.WithRoute(0, 0)
	}

	var summary *providers.RouteSummary
	var err error
	for attempt := 1; attempt <= routeCallAttempts; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
		summary, err = s.routing.GetRoute(callCtx, origin, candidate.Location, s.priority)
		cancel()
		if err == nil {
			break
		}
	}
	if err != nil {
		// Keep the great-circle data only; the candidate stays in the list.
		logger.Debug().
			Str("candidate_id", candidate.ID).
			Err(err).
			Msg("route enrichment failed for candidate")
		return candidate
	}
	if summary == nil {
		// No route exists between the points. Not a fault.
		return candidate
	}

	return candidate.WithRoute(summary.DurationSeconds, summary.DistanceMeters)
}
