package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all application configuration
type Config struct {
	Server      ServerConfig
	Redis       RedisConfig
	BedFeed     BedFeedConfig
	PlaceSearch PlaceSearchConfig
	Routing     RoutingConfig
	Pipeline    PipelineConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host        string
	Port        int
	Environment string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// BedFeedConfig holds bed-availability feed configuration
type BedFeedConfig struct {
	BaseURL        string
	APIKey         string
	TimeoutSeconds int
	MaxRetries     int
	PageSize       int
}

// PlaceSearchConfig holds keyword place-search provider configuration
type PlaceSearchConfig struct {
	BaseURL        string
	APIKey         string
	CategoryCode   string
	TimeoutSeconds int
	// CallIntervalMs is the minimum spacing between external search calls.
	CallIntervalMs int
}

// RoutingConfig holds routing provider configuration
type RoutingConfig struct {
	BaseURL        string
	APIKey         string
	Priority       string
	TimeoutSeconds int
}

// PipelineConfig holds discovery pipeline tuning
type PipelineConfig struct {
	MaxDistanceKm         float64
	GeocodeMaxDriftKm     float64
	RouteEnrichCount      int
	SnapshotMaxAgeMinutes int
	SnapshotFreshMinutes  int
	StaleDataMinutes      int
	// Plausible country bounding box for geocode results.
	BoundsMinLat float64
	BoundsMaxLat float64
	BoundsMinLon float64
	BoundsMaxLon float64
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	return &Config{
		Server: ServerConfig{
			Host:        getEnv("SERVER_HOST", "0.0.0.0"),
			Port:        getEnvAsInt("SERVER_PORT", 8080),
			Environment: getEnv("APP_ENV", "development"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		BedFeed: BedFeedConfig{
			BaseURL:        getEnv("BED_FEED_BASE_URL", "https://apis.data.go.kr/B552657/ErmctInfoInqireService"),
			APIKey:         getEnv("BED_FEED_API_KEY", ""),
			TimeoutSeconds: getEnvAsInt("BED_FEED_TIMEOUT_SECONDS", 10),
			MaxRetries:     getEnvAsInt("BED_FEED_MAX_RETRIES", 3),
			PageSize:       getEnvAsInt("BED_FEED_PAGE_SIZE", 50),
		},
		PlaceSearch: PlaceSearchConfig{
			BaseURL:        getEnv("PLACE_SEARCH_BASE_URL", "https://dapi.kakao.com/v2/local/search/keyword.json"),
			APIKey:         getEnv("PLACE_SEARCH_API_KEY", ""),
			CategoryCode:   getEnv("PLACE_SEARCH_CATEGORY_CODE", "HP8"),
			TimeoutSeconds: getEnvAsInt("PLACE_SEARCH_TIMEOUT_SECONDS", 5),
			CallIntervalMs: getEnvAsInt("PLACE_SEARCH_CALL_INTERVAL_MS", 100),
		},
		Routing: RoutingConfig{
			BaseURL:        getEnv("ROUTING_BASE_URL", "https://apis-navi.kakaomobility.com/v1/directions"),
			APIKey:         getEnv("ROUTING_API_KEY", ""),
			Priority:       getEnv("ROUTING_PRIORITY", "RECOMMEND"),
			TimeoutSeconds: getEnvAsInt("ROUTING_TIMEOUT_SECONDS", 3),
		},
		Pipeline: PipelineConfig{
			MaxDistanceKm:         getEnvAsFloat("PIPELINE_MAX_DISTANCE_KM", 100),
			GeocodeMaxDriftKm:     getEnvAsFloat("PIPELINE_GEOCODE_MAX_DRIFT_KM", 100),
			RouteEnrichCount:      getEnvAsInt("PIPELINE_ROUTE_ENRICH_COUNT", 10),
			SnapshotMaxAgeMinutes: getEnvAsInt("PIPELINE_SNAPSHOT_MAX_AGE_MINUTES", 30),
			SnapshotFreshMinutes:  getEnvAsInt("PIPELINE_SNAPSHOT_FRESH_MINUTES", 5),
			StaleDataMinutes:      getEnvAsInt("PIPELINE_STALE_DATA_MINUTES", 5),
			BoundsMinLat:          getEnvAsFloat("PIPELINE_BOUNDS_MIN_LAT", 33.0),
			BoundsMaxLat:          getEnvAsFloat("PIPELINE_BOUNDS_MAX_LAT", 38.7),
			BoundsMinLon:          getEnvAsFloat("PIPELINE_BOUNDS_MIN_LON", 124.5),
			BoundsMaxLon:          getEnvAsFloat("PIPELINE_BOUNDS_MAX_LON", 132.0),
		},
	}, nil
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}
