package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/zatekoja/Emergencybeddiscovery/internal/domain/entities"
	"github.com/zatekoja/Emergencybeddiscovery/internal/domain/providers"
	"github.com/zatekoja/Emergencybeddiscovery/internal/infrastructure/observability"
	"github.com/zatekoja/Emergencybeddiscovery/pkg/config"
)

// Feed rows sometimes carry a placeholder instead of a facility name.
// Those are never worth a geocode call.
var noDataMarkers = []string{
	"정보없음",
	"정보 없음",
	"no information available",
}

const searchResultSize = 5

// CountryBounds is the plausible bounding box for geocode results.
type CountryBounds struct {
	MinLat float64
	MaxLat float64
	MinLon float64
	MaxLon float64
}

// Contains reports whether the coordinates fall inside the box.
func (b CountryBounds) Contains(c entities.Coordinates) bool {
	return c.Latitude >= b.MinLat && c.Latitude <= b.MaxLat &&
		c.Longitude >= b.MinLon && c.Longitude <= b.MaxLon
}

// CoordinateResolverService resolves facility names to coordinates via a
// three-strategy keyword-search waterfall. It is deliberately sequential:
// every external call goes through a single-slot throttle with a minimum
// spacing, because the place-search quota does not tolerate fan-out.
type CoordinateResolverService struct {
	search       providers.PlaceSearchProvider
	categoryCode string
	bounds       CountryBounds
	maxDriftKm   float64
	callInterval time.Duration

	mu       sync.Mutex
	lastCall time.Time
}

// NewCoordinateResolverService creates a new coordinate resolver.
func NewCoordinateResolverService(search providers.PlaceSearchProvider, searchCfg config.PlaceSearchConfig, pipelineCfg config.PipelineConfig) *CoordinateResolverService {
	interval := time.Duration(searchCfg.CallIntervalMs) * time.Millisecond
	if interval < 100*time.Millisecond {
		interval = 100 * time.Millisecond
	}
	return &CoordinateResolverService{
		search:       search,
		categoryCode: searchCfg.CategoryCode,
		bounds: CountryBounds{
			MinLat: pipelineCfg.BoundsMinLat,
			MaxLat: pipelineCfg.BoundsMaxLat,
			MinLon: pipelineCfg.BoundsMinLon,
			MaxLon: pipelineCfg.BoundsMaxLon,
		},
		maxDriftKm:   pipelineCfg.GeocodeMaxDriftKm,
		callInterval: interval,
	}
}

// Resolve tries to geocode a facility name. A nil result means the name
// could not be resolved plausibly; the caller keeps the candidate's
// original coordinates. Errors from the search provider are absorbed —
// a failed strategy just falls through to the next one.
func (s *CoordinateResolverService) Resolve(ctx context.Context, name, regionHint string, origin *entities.Coordinates) (*providers.GeocodeResult, error) {
	logger := observability.LoggerFromContext(ctx)

	if isNoDataName(name) {
		return nil, nil
	}

	for _, query := range s.buildQueries(name, regionHint) {
		if err := s.throttle(ctx); err != nil {
			return nil, err
		}

		places, err := s.search.SearchKeyword(ctx, query, searchResultSize)
		if err != nil {
			logger.Debug().Str("query", query).Err(err).Msg("place search strategy failed")
			continue
		}

		if place := s.pickPlausible(places, origin); place != nil {
			address := place.RoadAddress
			if address == "" {
				address = place.Address
			}
			return &providers.GeocodeResult{
				Location:        place.Location,
				ResolvedAddress: address,
			}, nil
		}
	}

	return nil, nil
}

// buildQueries produces the waterfall queries in priority order: cleaned
// name with region hint, raw name with region hint (only when a hint
// exists), cleaned name alone. Consecutive duplicates are collapsed so a
// missing hint does not spend two calls on the same query.
func (s *CoordinateResolverService) buildQueries(name, regionHint string) []string {
	cleaned := cleanName(name)
	raw := strings.TrimSpace(name)

	var queries []string
	if regionHint != "" {
		queries = append(queries, regionHint+" "+cleaned)
		if raw != cleaned {
			queries = append(queries, regionHint+" "+raw)
		}
	}
	queries = append(queries, cleaned)

	seen := make(map[string]bool, len(queries))
	out := queries[:0]
	for _, q := range queries {
		if q == "" || seen[q] {
			continue
		}
		seen[q] = true
		out = append(out, q)
	}
	return out
}

// pickPlausible applies the plausibility guards and returns the best hit:
// in-bounds, within drift of the origin, preferring the medical category
// where one matches, otherwise the top surviving result.
func (s *CoordinateResolverService) pickPlausible(places []providers.Place, origin *entities.Coordinates) *providers.Place {
	var fallback *providers.Place
	for i := range places {
		place := places[i]
		if !s.bounds.Contains(place.Location) {
			continue
		}
		if origin != nil && origin.DistanceToKm(place.Location) > s.maxDriftKm {
			// Keyword matches far from the caller are almost always a
			// different facility with a similar name.
			continue
		}
		if s.categoryCode != "" && place.CategoryGroupCode == s.categoryCode {
			return &place
		}
		if fallback == nil {
			fallback = &place
		}
	}
	return fallback
}

// throttle enforces the minimum spacing between external search calls.
// The mutex doubles as the single-slot worker: concurrent callers
// serialize here instead of fanning out.
func (s *CoordinateResolverService) throttle(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	wait := s.callInterval - time.Since(s.lastCall)
	if !s.lastCall.IsZero() && wait > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
	s.lastCall = time.Now()
	return nil
}

func cleanName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

func isNoDataName(name string) bool {
	lowered := strings.ToLower(strings.TrimSpace(name))
	if lowered == "" {
		return true
	}
	for _, marker := range noDataMarkers {
		if strings.Contains(lowered, marker) {
			return true
		}
	}
	return false
}
