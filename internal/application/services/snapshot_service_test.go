package services

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/Emergencybeddiscovery/internal/adapters/cache"
	"github.com/zatekoja/Emergencybeddiscovery/internal/domain/entities"
	"github.com/zatekoja/Emergencybeddiscovery/internal/domain/providers"
	redisclient "github.com/zatekoja/Emergencybeddiscovery/internal/infrastructure/clients/redis"
	"github.com/zatekoja/Emergencybeddiscovery/pkg/config"
)

func snapshotFixture(t *testing.T) (*SnapshotService, providers.CacheProvider, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redisclient.NewClientFromAddr(mr.Addr())
	t.Cleanup(func() { _ = client.Close() })

	cacheProvider := cache.NewRedisAdapter(client)
	svc := NewSnapshotService(cacheProvider, config.PipelineConfig{
		SnapshotMaxAgeMinutes: 30,
		SnapshotFreshMinutes:  5,
		GeocodeMaxDriftKm:     100,
	})
	return svc, cacheProvider, mr
}

func seoulOrigin() entities.Coordinates {
	return entities.Coordinates{Latitude: 37.5665, Longitude: 126.978}
}

func TestSnapshot_RoundTrip(t *testing.T) {
	svc, _, _ := snapshotFixture(t)
	ctx := context.Background()

	candidates := []*entities.Candidate{
		rankable("a", 10, 20),
		rankable("b", 3, 20),
	}
	svc.Save(ctx, candidates, seoulOrigin(), "서울특별시")

	result, err := svc.Load(ctx, seoulOrigin())
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.IsFresh)
	assert.Equal(t, 0, result.AgeMinutes)
	assert.Equal(t, "서울특별시", result.Region)
	require.Len(t, result.Candidates, 2)
	assert.Equal(t, "a", result.Candidates[0].ID)
	assert.Equal(t, 20, result.Candidates[0].TotalBeds)
}

func TestSnapshot_AbsentMeansNil(t *testing.T) {
	svc, _, _ := snapshotFixture(t)

	result, err := svc.Load(context.Background(), seoulOrigin())
	assert.NoError(t, err)
	assert.Nil(t, result)
}

func TestSnapshot_ExpiredIsNotServed(t *testing.T) {
	svc, _, _ := snapshotFixture(t)
	ctx := context.Background()

	captured := time.Now()
	svc.now = func() time.Time { return captured }
	svc.Save(ctx, []*entities.Candidate{rankable("a", 10, 20)}, seoulOrigin(), "서울특별시")

	svc.now = func() time.Time { return captured.Add(31 * time.Minute) }
	result, err := svc.Load(ctx, seoulOrigin())
	assert.NoError(t, err)
	assert.Nil(t, result)
}

func TestSnapshot_ValidButNotFreshCarriesAge(t *testing.T) {
	svc, _, _ := snapshotFixture(t)
	ctx := context.Background()

	captured := time.Now()
	svc.now = func() time.Time { return captured }
	svc.Save(ctx, []*entities.Candidate{rankable("a", 10, 20)}, seoulOrigin(), "서울특별시")

	svc.now = func() time.Time { return captured.Add(10 * time.Minute) }
	result, err := svc.Load(ctx, seoulOrigin())
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.False(t, result.IsFresh)
	assert.Equal(t, 10, result.AgeMinutes)
}

func TestSnapshot_OriginDriftInvalidates(t *testing.T) {
	svc, _, _ := snapshotFixture(t)
	ctx := context.Background()

	svc.Save(ctx, []*entities.Candidate{rankable("a", 10, 20)}, seoulOrigin(), "서울특별시")

	// Busan is well over the drift ceiling from the captured origin.
	busan := entities.Coordinates{Latitude: 35.1796, Longitude: 129.0756}
	result, err := svc.Load(ctx, busan)
	assert.NoError(t, err)
	assert.Nil(t, result)
}

func TestSnapshot_CorruptBlobIsClearedNotServed(t *testing.T) {
	svc, cacheProvider, _ := snapshotFixture(t)
	ctx := context.Background()

	require.NoError(t, cacheProvider.Set(ctx, "discovery:snapshot:last", []byte("{not json"), 60))

	result, err := svc.Load(ctx, seoulOrigin())
	assert.NoError(t, err)
	assert.Nil(t, result)

	exists, err := cacheProvider.Exists(ctx, "discovery:snapshot:last")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestSnapshot_SaveFailureDoesNotPropagate(t *testing.T) {
	svc, _, mr := snapshotFixture(t)
	mr.Close()

	// Must not panic; the pipeline carries on without a cache write.
	svc.Save(context.Background(), []*entities.Candidate{rankable("a", 10, 20)}, seoulOrigin(), "서울특별시")
}

func TestSnapshot_WriteSetsExpiry(t *testing.T) {
	svc, _, mr := snapshotFixture(t)
	ctx := context.Background()

	svc.Save(ctx, []*entities.Candidate{rankable("a", 10, 20)}, seoulOrigin(), "서울특별시")

	ttl := mr.TTL("discovery:snapshot:last")
	assert.Equal(t, 30*time.Minute, ttl)
}
