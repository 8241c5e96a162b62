package bedfeed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"github.com/zatekoja/Emergencybeddiscovery/internal/domain/entities"
	"github.com/zatekoja/Emergencybeddiscovery/internal/domain/providers"
	"github.com/zatekoja/Emergencybeddiscovery/internal/infrastructure/observability"
	"github.com/zatekoja/Emergencybeddiscovery/pkg/config"
	apperrors "github.com/zatekoja/Emergencybeddiscovery/pkg/errors"
	"github.com/zatekoja/Emergencybeddiscovery/pkg/retry"
)

const resultCodeOK = "00"

// Feed timestamps are KST without an offset.
var feedTimeZone = time.FixedZone("KST", 9*60*60)

// HTTPProvider implements BedFeedProvider against the public
// bed-availability open API.
type HTTPProvider struct {
	baseURL    string
	apiKey     string
	pageSize   int
	maxRetries int
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
}

// NewHTTPProvider creates a new bed feed provider.
func NewHTTPProvider(cfg config.BedFeedConfig) providers.BedFeedProvider {
	return NewHTTPProviderWithOptions(cfg, nil)
}

// NewHTTPProviderWithOptions allows overriding the HTTP client (used for tests).
func NewHTTPProviderWithOptions(cfg config.BedFeedConfig, httpClient *http.Client) providers.BedFeedProvider {
	if httpClient == nil {
		timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "bed-feed",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
	return &HTTPProvider{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		pageSize:   cfg.PageSize,
		maxRetries: cfg.MaxRetries,
		httpClient: httpClient,
		breaker:    breaker,
	}
}

// FetchBeds fetches the bed-availability feed for a region. Transient
// transport failures are retried with exponential backoff; rate-limit,
// credential and structural failures are returned immediately as typed
// errors and consume no further attempts.
func (p *HTTPProvider) FetchBeds(ctx context.Context, regionHint string) ([]providers.BedRecord, error) {
	logger := observability.LoggerFromContext(ctx)

	maxAttempts := p.maxRetries
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	cfg := retry.Config{
		MaxAttempts:   maxAttempts,
		InitialDelay:  1 * time.Second,
		MaxDelay:      8 * time.Second,
		BackoffFactor: 2.0,
	}

	var records []providers.BedRecord
	err := retry.DoWithLog(ctx, cfg, "bed-feed", func() error {
		result, err := p.breaker.Execute(func() (interface{}, error) {
			return p.fetchOnce(ctx, regionHint)
		})
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			return retry.Permanent(apperrors.NewUnavailableError("bed feed circuit open", err))
		}
		if err != nil {
			return err
		}
		records = result.([]providers.BedRecord)
		return nil
	}, func(attempt int, err error, nextDelay time.Duration) {
		logger.Warn().
			Int("attempt", attempt).
			Dur("next_delay", nextDelay).
			Err(err).
			Msg("bed feed fetch failed, retrying")
	})
	if err != nil {
		if apperrors.IsRateLimited(err) || apperrors.IsAuthFailure(err) || apperrors.IsUpstream(err) || apperrors.IsUnavailable(err) {
			return nil, err
		}
		return nil, apperrors.NewUnavailableError("bed feed unreachable", err)
	}
	return records, nil
}

func (p *HTTPProvider) fetchOnce(ctx context.Context, regionHint string) ([]providers.BedRecord, error) {
	params := url.Values{}
	params.Set("serviceKey", p.apiKey)
	params.Set("STAGE1", regionHint)
	params.Set("pageNo", "1")
	params.Set("numOfRows", fmt.Sprintf("%d", p.pageSize))
	params.Set("_type", "json")

	reqURL := fmt.Sprintf("%s?%s", p.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, retry.Permanent(apperrors.NewInternalError("failed to build bed feed request", err))
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		// Transport and timeout failures are retriable.
		return nil, fmt.Errorf("bed feed request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, retry.Permanent(apperrors.NewRateLimitedError("bed feed rate limit exceeded"))
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		// Retrying a bad credential wastes quota.
		return nil, retry.Permanent(apperrors.NewAuthFailureError(fmt.Sprintf("bed feed rejected credentials (status %d)", resp.StatusCode)))
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, fmt.Errorf("bed feed returned status %d", resp.StatusCode)
	}

	var envelope feedEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, retry.Permanent(apperrors.NewUpstreamError("bed feed response is not a valid envelope", err))
	}
	if envelope.Header == nil {
		return nil, retry.Permanent(apperrors.NewUpstreamError("bed feed response missing result header", nil))
	}
	if envelope.Header.ResultCode != resultCodeOK {
		msg := fmt.Sprintf("bed feed result %s: %s", envelope.Header.ResultCode, envelope.Header.ResultMsg)
		return nil, retry.Permanent(apperrors.NewUpstreamError(msg, nil))
	}

	records := make([]providers.BedRecord, 0, len(envelope.Body.Items.Item))
	for _, item := range envelope.Body.Items.Item {
		records = append(records, item.toRecord())
	}
	return records, nil
}

type feedEnvelope struct {
	Header *feedHeader `json:"header"`
	Body   feedBody    `json:"body"`
}

type feedHeader struct {
	ResultCode string `json:"resultCode"`
	ResultMsg  string `json:"resultMsg"`
}

type feedBody struct {
	Items feedItems `json:"items"`
}

// feedItems normalizes the upstream quirk of serializing a single row as
// an object and multiple rows as an array under the same key.
type feedItems struct {
	Item []feedItem
}

func (f *feedItems) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" || trimmed == `""` {
		f.Item = nil
		return nil
	}

	var wrapper struct {
		Item json.RawMessage `json:"item"`
	}
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return err
	}
	raw := strings.TrimSpace(string(wrapper.Item))
	if raw == "" || raw == "null" {
		f.Item = nil
		return nil
	}

	if strings.HasPrefix(raw, "[") {
		return json.Unmarshal(wrapper.Item, &f.Item)
	}
	var single feedItem
	if err := json.Unmarshal(wrapper.Item, &single); err != nil {
		return err
	}
	f.Item = []feedItem{single}
	return nil
}

type feedItem struct {
	HospitalID     string      `json:"hpid"`
	Name           string      `json:"dutyName"`
	Address        string      `json:"dutyAddr"`
	Tel            string      `json:"dutyTel1"`
	EmergencyTel   string      `json:"dutyTel3"`
	AvailableBeds  json.Number `json:"hvec"`
	TotalBeds      json.Number `json:"hperyn"`
	CTAvailable    string      `json:"hvctayn"`
	MRIAvailable   string      `json:"hvmriayn"`
	SurgeryRoom    string      `json:"hvoperyn"`
	EROperating    string      `json:"dutyEryn"`
	TraumaLevel    json.Number `json:"traumaLevel"`
	UpdatedAt      string      `json:"hvidate"`
	Latitude       json.Number `json:"wgs84Lat"`
	Longitude      json.Number `json:"wgs84Lon"`
}

func (i feedItem) toRecord() providers.BedRecord {
	return providers.BedRecord{
		ID:             strings.TrimSpace(i.HospitalID),
		Name:           strings.TrimSpace(i.Name),
		Address:        strings.TrimSpace(i.Address),
		PhoneNumber:    strings.TrimSpace(i.Tel),
		EmergencyPhone: strings.TrimSpace(i.EmergencyTel),
		AvailableBeds:  numberToIntPtr(i.AvailableBeds),
		TotalBeds:      numberToInt(i.TotalBeds),
		HasCT:          isYes(i.CTAvailable),
		HasMRI:         isYes(i.MRIAvailable),
		HasSurgery:     isYes(i.SurgeryRoom),
		TraumaLevel:    numberToIntPtr(i.TraumaLevel),
		IsOperating:    i.EROperating == "" || isYes(i.EROperating) || i.EROperating == "1",
		Location: entities.Coordinates{
			Latitude:  numberToFloat(i.Latitude),
			Longitude: numberToFloat(i.Longitude),
		},
		UpdatedAt: parseFeedTime(i.UpdatedAt),
	}
}

func isYes(v string) bool {
	return strings.EqualFold(strings.TrimSpace(v), "Y")
}

func numberToInt(n json.Number) int {
	if v := numberToIntPtr(n); v != nil {
		return *v
	}
	return 0
}

func numberToIntPtr(n json.Number) *int {
	if n.String() == "" {
		return nil
	}
	v, err := n.Int64()
	if err != nil {
		return nil
	}
	value := int(v)
	return &value
}

func numberToFloat(n json.Number) float64 {
	if n.String() == "" {
		return 0
	}
	v, err := n.Float64()
	if err != nil {
		return 0
	}
	return v
}

func parseFeedTime(v string) time.Time {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}
	}
	t, err := time.ParseInLocation("20060102150405", v, feedTimeZone)
	if err != nil {
		return time.Time{}
	}
	return t
}
