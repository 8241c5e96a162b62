package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/zatekoja/Emergencybeddiscovery/internal/domain/entities"
	"github.com/zatekoja/Emergencybeddiscovery/internal/domain/providers"
	"github.com/zatekoja/Emergencybeddiscovery/internal/infrastructure/observability"
	"github.com/zatekoja/Emergencybeddiscovery/pkg/config"
)

const snapshotKey = "discovery:snapshot:last"

// SnapshotResult is a validated snapshot load. IsFresh is a tighter
// honesty signal than mere validity: a valid-but-not-fresh snapshot is
// served with its age so the boundary can label it.
type SnapshotResult struct {
	Candidates []*entities.Candidate
	Region     string
	IsFresh    bool
	AgeMinutes int
}

// SnapshotService persists the last successful result set and serves it
// back when a fetch fails. Single logical key, single writer; the store
// replaces the blob atomically on SET.
type SnapshotService struct {
	cache      providers.CacheProvider
	maxAge     time.Duration
	freshAge   time.Duration
	maxDriftKm float64
	now        func() time.Time
}

// NewSnapshotService creates a new snapshot service.
func NewSnapshotService(cache providers.CacheProvider, cfg config.PipelineConfig) *SnapshotService {
	return &SnapshotService{
		cache:      cache,
		maxAge:     time.Duration(cfg.SnapshotMaxAgeMinutes) * time.Minute,
		freshAge:   time.Duration(cfg.SnapshotFreshMinutes) * time.Minute,
		maxDriftKm: cfg.GeocodeMaxDriftKm,
		now:        time.Now,
	}
}

// Save writes the snapshot. Storage failures never propagate: the stale
// blob is cleared so a later fallback cannot serve half-written data, and
// the pipeline carries on without caching.
func (s *SnapshotService) Save(ctx context.Context, candidates []*entities.Candidate, origin entities.Coordinates, region string) {
	logger := observability.LoggerFromContext(ctx)

	snapshot := entities.Snapshot{
		Candidates: candidates,
		Origin:     origin,
		CapturedAt: s.now(),
		Region:     region,
	}

	payload, err := json.Marshal(snapshot)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to encode snapshot, clearing cache")
		_ = s.cache.Delete(ctx, snapshotKey)
		return
	}

	if err := s.cache.Set(ctx, snapshotKey, payload, int(s.maxAge.Seconds())); err != nil {
		logger.Warn().Err(err).Msg("failed to write snapshot, clearing cache")
		_ = s.cache.Delete(ctx, snapshotKey)
	}
}

// Load returns the stored snapshot when it is still usable for the given
// origin. A nil result means no usable snapshot exists: absent, older
// than the validity ceiling, or captured implausibly far from the caller.
func (s *SnapshotService) Load(ctx context.Context, origin entities.Coordinates) (*SnapshotResult, error) {
	payload, err := s.cache.Get(ctx, snapshotKey)
	if err != nil || len(payload) == 0 {
		return nil, nil
	}

	var snapshot entities.Snapshot
	if err := json.Unmarshal(payload, &snapshot); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Msg("stored snapshot is corrupt, clearing")
		_ = s.cache.Delete(ctx, snapshotKey)
		return nil, nil
	}

	age := s.now().Sub(snapshot.CapturedAt)
	if age > s.maxAge {
		return nil, nil
	}
	if origin.DistanceToKm(snapshot.Origin) > s.maxDriftKm {
		// The caller moved too far for the cached list to be relevant.
		return nil, nil
	}

	return &SnapshotResult{
		Candidates: snapshot.Candidates,
		Region:     snapshot.Region,
		IsFresh:    age <= s.freshAge,
		AgeMinutes: snapshot.AgeMinutes(s.now()),
	}, nil
}
