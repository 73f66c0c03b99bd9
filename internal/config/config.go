package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/i474232898/weather-archive-storage/internal/weather"
	"github.com/i474232898/weather-archive-storage/internal/weather/providers"
)

// Storage backends accepted in STORAGE_BACKEND.
const (
	BackendGCS    = "gcs"
	BackendMemory = "memory"
)

// defaultCredentialsFile is used for local development when
// GOOGLE_APPLICATION_CREDENTIALS is unset. On Cloud Run the attached service
// account is picked up through application default credentials instead.
const defaultCredentialsFile = "credentials.json"

type AppConfig struct {
	// Object storage.
	StorageBackend  string
	BucketName      string
	BucketFolder    string
	CredentialsFile string

	// LocalFolder stages series files before upload.
	LocalFolder string

	ArchiveURL  string
	HTTPTimeout time.Duration

	// Scheduled ingestion; disabled when Locations is empty.
	FetchInterval time.Duration
	Locations     []weather.Location
	LookbackDays  int

	Port string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	cfg := &AppConfig{}

	cfg.StorageBackend = strings.ToLower(getenvDefault("STORAGE_BACKEND", BackendGCS))
	switch cfg.StorageBackend {
	case BackendGCS, BackendMemory:
	default:
		return nil, fmt.Errorf("invalid STORAGE_BACKEND %q: use %s or %s", cfg.StorageBackend, BackendGCS, BackendMemory)
	}

	cfg.BucketName = os.Getenv("BUCKET_NAME")
	if cfg.StorageBackend == BackendGCS && cfg.BucketName == "" {
		return nil, fmt.Errorf("BUCKET_NAME is required for the %s backend", BackendGCS)
	}
	cfg.BucketFolder = strings.Trim(getenvDefault("BUCKET_FOLDER_NAME", "weather-data"), "/")

	cfg.CredentialsFile = os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")
	if cfg.CredentialsFile == "" {
		if _, err := os.Stat(defaultCredentialsFile); err == nil {
			cfg.CredentialsFile = defaultCredentialsFile
		}
	}

	cfg.LocalFolder = getenvDefault("LOCAL_FOLDER_NAME", "tmp")
	cfg.ArchiveURL = getenvDefault("ARCHIVE_API_URL", providers.DefaultArchiveURL)

	timeout, err := time.ParseDuration(getenvDefault("HTTP_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	// Scheduler interval: default once a day.
	interval, err := time.ParseDuration(getenvDefault("FETCH_INTERVAL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid FETCH_INTERVAL: %w", err)
	}
	cfg.FetchInterval = interval
	cfg.LookbackDays = getenvInt("SCHEDULE_LOOKBACK_DAYS", 7)

	locs, err := parseLocations(os.Getenv("SCHEDULE_COORDINATES"))
	if err != nil {
		return nil, err
	}
	cfg.Locations = locs

	cfg.Port = getenvDefault("PORT", "8080")

	return cfg, nil
}

// parseLocations reads "lat:lon;lat:lon".
func parseLocations(s string) ([]weather.Location, error) {
	var locs []weather.Location
	for _, pair := range strings.Split(s, ";") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		lat, lon, ok := strings.Cut(pair, ":")
		lat, lon = strings.TrimSpace(lat), strings.TrimSpace(lon)
		if !ok || lat == "" || lon == "" {
			return nil, fmt.Errorf("invalid SCHEDULE_COORDINATES entry %q: want lat:lon", pair)
		}
		locs = append(locs, weather.Location{Latitude: lat, Longitude: lon})
	}
	return locs, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}
