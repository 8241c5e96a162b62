package placesearch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/zatekoja/Emergencybeddiscovery/internal/domain/entities"
	"github.com/zatekoja/Emergencybeddiscovery/internal/domain/providers"
	"github.com/zatekoja/Emergencybeddiscovery/pkg/config"
)

const defaultHTTPTimeout = 5 * time.Second

// KakaoProvider implements PlaceSearchProvider using the Kakao local
// keyword search API.
type KakaoProvider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewKakaoProvider creates a new Kakao place search provider.
func NewKakaoProvider(cfg config.PlaceSearchConfig) providers.PlaceSearchProvider {
	return NewKakaoProviderWithOptions(cfg, nil)
}

// NewKakaoProviderWithOptions allows overriding the HTTP client (used for tests).
func NewKakaoProviderWithOptions(cfg config.PlaceSearchConfig, httpClient *http.Client) providers.PlaceSearchProvider {
	if httpClient == nil {
		timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
		if timeout <= 0 {
			timeout = defaultHTTPTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &KakaoProvider{
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: httpClient,
	}
}

// SearchKeyword runs one keyword search and returns the raw hits in
// provider order. An empty result is not an error.
func (p *KakaoProvider) SearchKeyword(ctx context.Context, query string, size int) ([]providers.Place, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("query is required")
	}
	if size <= 0 {
		size = 5
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("size", strconv.Itoa(size))

	reqURL := fmt.Sprintf("%s?%s", p.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build place search request: %w", err)
	}
	req.Header.Set("Authorization", "KakaoAK "+p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("place search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("place search returned status %d", resp.StatusCode)
	}

	var payload keywordSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode place search response: %w", err)
	}

	places := make([]providers.Place, 0, len(payload.Documents))
	for _, doc := range payload.Documents {
		lat, latErr := strconv.ParseFloat(doc.Y, 64)
		lon, lonErr := strconv.ParseFloat(doc.X, 64)
		if latErr != nil || lonErr != nil {
			continue
		}
		places = append(places, providers.Place{
			Name:              doc.PlaceName,
			CategoryGroupCode: doc.CategoryGroupCode,
			Address:           doc.AddressName,
			RoadAddress:       doc.RoadAddressName,
			Location: entities.Coordinates{
				Latitude:  lat,
				Longitude: lon,
			},
		})
	}
	return places, nil
}

type keywordSearchResponse struct {
	Documents []keywordSearchDocument `json:"documents"`
}

type keywordSearchDocument struct {
	PlaceName         string `json:"place_name"`
	CategoryGroupCode string `json:"category_group_code"`
	AddressName       string `json:"address_name"`
	RoadAddressName   string `json:"road_address_name"`
	// Coordinates arrive as numeric strings: x is longitude, y latitude.
	X string `json:"x"`
	Y string `json:"y"`
}
