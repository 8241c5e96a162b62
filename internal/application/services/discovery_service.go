package services

import (
	"context"
	"sort"
	"time"

	"github.com/zatekoja/Emergencybeddiscovery/internal/domain/entities"
	"github.com/zatekoja/Emergencybeddiscovery/internal/domain/providers"
	"github.com/zatekoja/Emergencybeddiscovery/internal/infrastructure/observability"
	"github.com/zatekoja/Emergencybeddiscovery/pkg/config"
	apperrors "github.com/zatekoja/Emergencybeddiscovery/pkg/errors"
)

// estimatedAvailabilityRatio is the placeholder used when the feed omits
// a live bed count. Candidates built this way carry BedsEstimated so the
// gap is visible downstream.
const estimatedAvailabilityRatio = 0.3

// DiscoveryResult is the outcome of one pipeline run. It always exists;
// upstream failure shows up as an empty list plus a warning, never as an
// error surfaced to the caller.
type DiscoveryResult struct {
	Facilities      []ScoredCandidate `json:"facilities"`
	Region          string            `json:"region"`
	Warning         entities.Warning  `json:"warning,omitempty"`
	FromCache       bool              `json:"from_cache,omitempty"`
	CacheAgeMinutes int               `json:"cache_age_minutes,omitempty"`
}

// DiscoveryService orchestrates one request/response cycle: region
// inference, fetch with snapshot fallback, coordinate resolution,
// distance bounding, top-K route enrichment and ranking.
type DiscoveryService struct {
	feed      providers.BedFeedProvider
	resolver  *CoordinateResolverService
	enricher  *RouteEnrichmentService
	ranker    *RankingService
	snapshots *SnapshotService

	maxDistanceKm float64
	enrichCount   int
	staleAfter    time.Duration
	now           func() time.Time
}

// NewDiscoveryService creates a new discovery service.
func NewDiscoveryService(
	feed providers.BedFeedProvider,
	resolver *CoordinateResolverService,
	enricher *RouteEnrichmentService,
	ranker *RankingService,
	snapshots *SnapshotService,
	cfg config.PipelineConfig,
) *DiscoveryService {
	enrichCount := cfg.RouteEnrichCount
	if enrichCount <= 0 {
		enrichCount = 10
	}
	return &DiscoveryService{
		feed:          feed,
		resolver:      resolver,
		enricher:      enricher,
		ranker:        ranker,
		snapshots:     snapshots,
		maxDistanceKm: cfg.MaxDistanceKm,
		enrichCount:   enrichCount,
		staleAfter:    time.Duration(cfg.StaleDataMinutes) * time.Minute,
		now:           time.Now,
	}
}

// Discover runs the full pipeline for a caller position. Fetch failures
// are recovered locally via the snapshot cache; the method never returns
// an error for an upstream hiccup.
func (s *DiscoveryService) Discover(ctx context.Context, origin entities.Coordinates) (*DiscoveryResult, error) {
	logger := observability.LoggerFromContext(ctx)

	region := entities.InferRegion(origin)

	records, err := s.feed.FetchBeds(ctx, region)
	if err != nil {
		logger.Warn().
			Str("region", region).
			Err(err).
			Msg("bed feed fetch failed, attempting snapshot fallback")
		return s.fromSnapshot(ctx, origin, region), nil
	}

	candidates := s.mapRecords(ctx, records)
	candidates = s.resolveCoordinates(ctx, candidates, region, origin)
	candidates = s.boundByDistance(ctx, candidates, origin)

	sort.SliceStable(candidates, func(i, j int) bool {
		return origin.DistanceTo(candidates[i].Location) < origin.DistanceTo(candidates[j].Location)
	})

	candidates = s.enricher.EnrichTop(ctx, origin, candidates, s.enrichCount)

	s.snapshots.Save(ctx, candidates, origin, region)

	return &DiscoveryResult{
		Facilities: s.ranker.Rank(candidates),
		Region:     region,
		Warning:    s.warningFor(candidates),
	}, nil
}

// LoadMoreRoutes extends route enrichment to a further slice of an
// already returned candidate list.
func (s *DiscoveryService) LoadMoreRoutes(ctx context.Context, origin entities.Coordinates, candidates []*entities.Candidate, fromIndex, count int) []*entities.Candidate {
	return s.enricher.LoadMore(ctx, origin, candidates, fromIndex, count)
}

func (s *DiscoveryService) fromSnapshot(ctx context.Context, origin entities.Coordinates, region string) *DiscoveryResult {
	snap, err := s.snapshots.Load(ctx, origin)
	if err != nil || snap == nil {
		return &DiscoveryResult{
			Region:  region,
			Warning: entities.WarningNoFacilitiesFound,
		}
	}

	warning := s.warningFor(snap.Candidates)
	if warning == entities.WarningNone {
		// Served from cache: the caller must know this is not live data.
		warning = entities.WarningDataStale
	}

	return &DiscoveryResult{
		Facilities:      s.ranker.Rank(snap.Candidates),
		Region:          snap.Region,
		Warning:         warning,
		FromCache:       true,
		CacheAgeMinutes: snap.AgeMinutes,
	}
}

func (s *DiscoveryService) mapRecords(ctx context.Context, records []providers.BedRecord) []*entities.Candidate {
	logger := observability.LoggerFromContext(ctx)

	candidates := make([]*entities.Candidate, 0, len(records))
	for _, record := range records {
		candidate, err := NewCandidateFromRecord(record)
		if err != nil {
			logger.Warn().
				Str("record_id", record.ID).
				Str("record_name", record.Name).
				Err(err).
				Msg("rejecting malformed feed record")
			continue
		}
		candidates = append(candidates, candidate)
	}
	return candidates
}

// resolveCoordinates runs the resolver strictly sequentially over the
// candidates that need it. The resolver enforces its own call spacing;
// this loop must never fan out.
func (s *DiscoveryService) resolveCoordinates(ctx context.Context, candidates []*entities.Candidate, region string, origin entities.Coordinates) []*entities.Candidate {
	logger := observability.LoggerFromContext(ctx)

	out := make([]*entities.Candidate, len(candidates))
	for i, candidate := range candidates {
		out[i] = candidate
		if !candidate.NeedsGeocoding() {
			continue
		}

		result, err := s.resolver.Resolve(ctx, candidate.Name, region, &origin)
		if err != nil {
			logger.Warn().Str("candidate_id", candidate.ID).Err(err).Msg("coordinate resolution aborted")
			continue
		}
		if result == nil {
			// Kept with original coordinates; the distance bound decides.
			continue
		}
		out[i] = candidate.WithLocation(result.Location, result.ResolvedAddress)
	}
	return out
}

func (s *DiscoveryService) boundByDistance(ctx context.Context, candidates []*entities.Candidate, origin entities.Coordinates) []*entities.Candidate {
	logger := observability.LoggerFromContext(ctx)

	kept := make([]*entities.Candidate, 0, len(candidates))
	for _, candidate := range candidates {
		distanceKm := origin.DistanceToKm(candidate.Location)
		if candidate.NeedsGeocoding() || distanceKm > s.maxDistanceKm {
			logger.Info().
				Str("candidate_id", candidate.ID).
				Str("candidate_name", candidate.Name).
				Float64("distance_km", distanceKm).
				Msg("excluding candidate beyond distance bound")
			continue
		}
		kept = append(kept, candidate)
	}
	return kept
}

// warningFor applies the warning taxonomy, first-applicable wins.
func (s *DiscoveryService) warningFor(candidates []*entities.Candidate) entities.Warning {
	operating := false
	for _, c := range candidates {
		if c.IsOperating {
			operating = true
			break
		}
	}
	if !operating {
		return entities.WarningNoFacilitiesFound
	}

	cutoff := s.now().Add(-s.staleAfter)
	for _, c := range candidates {
		if c.LastUpdated.Before(cutoff) {
			return entities.WarningDataStale
		}
	}
	return entities.WarningNone
}

// NewCandidateFromRecord validates a raw feed record and builds a
// candidate. Records without an identity or violating the bed invariant
// are rejected before entering the pipeline.
func NewCandidateFromRecord(record providers.BedRecord) (*entities.Candidate, error) {
	if record.ID == "" {
		return nil, apperrors.NewValidationError("feed record missing facility id")
	}
	if record.Name == "" {
		return nil, apperrors.NewValidationError("feed record missing facility name")
	}
	if record.TotalBeds < 0 {
		return nil, apperrors.NewValidationError("feed record reports negative total beds")
	}

	available := 0
	estimated := false
	if record.AvailableBeds != nil {
		available = *record.AvailableBeds
	} else {
		// Known data-fidelity gap: some rows never report a live count.
		available = int(float64(record.TotalBeds) * estimatedAvailabilityRatio)
		estimated = true
	}
	if available < 0 || available > record.TotalBeds {
		return nil, apperrors.NewValidationError("feed record violates bed invariant")
	}

	var trauma *int
	if record.TraumaLevel != nil && *record.TraumaLevel >= 1 && *record.TraumaLevel <= 3 {
		level := *record.TraumaLevel
		trauma = &level
	}

	return &entities.Candidate{
		ID:             record.ID,
		Name:           record.Name,
		Location:       record.Location,
		Address:        record.Address,
		PhoneNumber:    record.PhoneNumber,
		EmergencyPhone: record.EmergencyPhone,
		AvailableBeds:  available,
		TotalBeds:      record.TotalBeds,
		BedsEstimated:  estimated,
		HasCT:          record.HasCT,
		HasMRI:         record.HasMRI,
		HasSurgery:     record.HasSurgery,
		TraumaLevel:    trauma,
		IsOperating:    record.IsOperating,
		LastUpdated:    record.UpdatedAt,
	}, nil
}
