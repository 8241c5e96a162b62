package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/zatekoja/Emergencybeddiscovery/internal/domain/entities"
	"github.com/zatekoja/Emergencybeddiscovery/internal/domain/providers"
	"github.com/zatekoja/Emergencybeddiscovery/pkg/config"
)

const defaultHTTPTimeout = 3 * time.Second

// KakaoProvider implements RoutingProvider using the Kakao Mobility
// directions API.
type KakaoProvider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewKakaoProvider creates a new Kakao routing provider.
func NewKakaoProvider(cfg config.RoutingConfig) providers.RoutingProvider {
	return NewKakaoProviderWithOptions(cfg, nil)
}

// NewKakaoProviderWithOptions allows overriding the HTTP client (used for tests).
func NewKakaoProviderWithOptions(cfg config.RoutingConfig, httpClient *http.Client) providers.RoutingProvider {
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

// GetRoute computes a driving route. A result_code other than 0 from the
// provider means no route exists and yields a nil summary, not an error.
func (p *KakaoProvider) GetRoute(ctx context.Context, origin, destination entities.Coordinates, priority providers.RoutePriority) (*providers.RouteSummary, error) {
	if priority == "" {
		priority = providers.RoutePriorityRecommend
	}

	params := url.Values{}
	params.Set("origin", fmt.Sprintf("%f,%f", origin.Longitude, origin.Latitude))
	params.Set("destination", fmt.Sprintf("%f,%f", destination.Longitude, destination.Latitude))
	params.Set("priority", string(priority))

	reqURL := fmt.Sprintf("%s?%s", p.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build directions request: %w", err)
	}
	req.Header.Set("Authorization", "KakaoAK "+p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("directions request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("directions request returned status %d", resp.StatusCode)
	}

	var payload directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode directions response: %w", err)
	}

	if len(payload.Routes) == 0 {
		return nil, nil
	}
	route := payload.Routes[0]
	if route.ResultCode != 0 {
		return nil, nil
	}

	return &providers.RouteSummary{
		DistanceMeters:  route.Summary.Distance,
		DurationSeconds: route.Summary.Duration,
		TaxiFare:        route.Summary.Fare.Taxi,
		TollFare:        route.Summary.Fare.Toll,
	}, nil
}

type directionsResponse struct {
	Routes []directionsRoute `json:"routes"`
}

type directionsRoute struct {
	ResultCode int               `json:"result_code"`
	ResultMsg  string            `json:"result_msg"`
	Summary    directionsSummary `json:"summary"`
}

type directionsSummary struct {
	Distance int            `json:"distance"`
	Duration int            `json:"duration"`
	Fare     directionsFare `json:"fare"`
}

type directionsFare struct {
	Taxi int `json:"taxi"`
	Toll int `json:"toll"`
}
