package routing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/Emergencybeddiscovery/internal/domain/entities"
	"github.com/zatekoja/Emergencybeddiscovery/internal/domain/providers"
	"github.com/zatekoja/Emergencybeddiscovery/pkg/config"
)

func testConfig(baseURL string) config.RoutingConfig {
	return config.RoutingConfig{
		BaseURL:        baseURL,
		APIKey:         "kakao-test-key",
		Priority:       "RECOMMEND",
		TimeoutSeconds: 2,
	}
}

func TestGetRoute_ParsesSummary(t *testing.T) {
	payload := `{"routes": [{
		"result_code": 0,
		"result_msg": "길찾기 성공",
		"summary": {
			"distance": 12850,
			"duration": 1460,
			"fare": {"taxi": 14300, "toll": 0}
		}
	}]}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "KakaoAK kakao-test-key", r.Header.Get("Authorization"))
		// Kakao expects lon,lat ordering.
		assert.Equal(t, "126.978000,37.566500", r.URL.Query().Get("origin"))
		assert.Equal(t, "TIME", r.URL.Query().Get("priority"))
		w.Write([]byte(payload))
	}))
	defer server.Close()

	provider := NewKakaoProviderWithOptions(testConfig(server.URL), server.Client())

	origin := entities.Coordinates{Latitude: 37.5665, Longitude: 126.978}
	dest := entities.Coordinates{Latitude: 37.579617, Longitude: 126.998814}
	summary, err := provider.GetRoute(context.Background(), origin, dest, providers.RoutePriorityTime)

	require.NoError(t, err)
	require.NotNil(t, summary)
	assert.Equal(t, 12850, summary.DistanceMeters)
	assert.Equal(t, 1460, summary.DurationSeconds)
	assert.Equal(t, 14300, summary.TaxiFare)
	assert.Equal(t, 0, summary.TollFare)
}

func TestGetRoute_NonZeroResultCodeMeansNoRoute(t *testing.T) {
	payload := `{"routes": [{"result_code": 104, "result_msg": "출발지와 도착지가 5m 이내로 인접"}]}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(payload))
	}))
	defer server.Close()

	provider := NewKakaoProviderWithOptions(testConfig(server.URL), server.Client())
	summary, err := provider.GetRoute(context.Background(), entities.Coordinates{Latitude: 37.5, Longitude: 127.0}, entities.Coordinates{Latitude: 37.5001, Longitude: 127.0001}, providers.RoutePriorityRecommend)

	assert.NoError(t, err)
	assert.Nil(t, summary)
}

func TestGetRoute_EmptyRoutesMeansNoRoute(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"routes": []}`))
	}))
	defer server.Close()

	provider := NewKakaoProviderWithOptions(testConfig(server.URL), server.Client())
	summary, err := provider.GetRoute(context.Background(), entities.Coordinates{Latitude: 37.5, Longitude: 127.0}, entities.Coordinates{Latitude: 35.1, Longitude: 129.0}, providers.RoutePriorityRecommend)

	assert.NoError(t, err)
	assert.Nil(t, summary)
}

func TestGetRoute_TransportFailureIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	provider := NewKakaoProviderWithOptions(testConfig(server.URL), server.Client())
	_, err := provider.GetRoute(context.Background(), entities.Coordinates{Latitude: 37.5, Longitude: 127.0}, entities.Coordinates{Latitude: 35.1, Longitude: 129.0}, providers.RoutePriorityRecommend)

	assert.Error(t, err)
}
