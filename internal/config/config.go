package config

import (
	"errors"
	"os"
	"strings"
)

// Common errors
var (
	ErrMissingRemoteURL = errors.New("LOCATION_API_URL environment variable is required")
)

// Config holds the daemon's configuration.
type Config struct {
	// Port the local facade listens on.
	Port string

	// DBPath is the device-local sqlite file.
	DBPath string

	// RemoteBaseURL and APIKey for the location service.
	RemoteBaseURL string
	APIKey        string

	// NATSURL enables the broker-backed reachability source when set;
	// otherwise the monitor starts from AssumeOnline and is driven via the
	// facade's connectivity override.
	NATSURL      string
	AssumeOnline bool

	// SeedFixture optionally pre-warms the cache on startup.
	SeedFixture string
}

// LoadFromEnv loads configuration from environment variables.
//
// Environment variables:
//   - PORT: facade listen port (default: "5050")
//   - LOCATION_DB: sqlite path (default: "location-core.db")
//   - LOCATION_API_URL: base URL of the location service (required)
//   - LOCATION_API_KEY: bearer token for the location service
//   - NATS_URL: broker URL for connectivity signalling
//   - ASSUME_ONLINE: "true" starts the monitor online when NATS_URL is unset
//   - SEED_FIXTURE: YAML fixture to warm the cache with on startup
func LoadFromEnv() Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = "5050"
	}
	dbPath := os.Getenv("LOCATION_DB")
	if dbPath == "" {
		dbPath = "location-core.db"
	}

	return Config{
		Port:          port,
		DBPath:        dbPath,
		RemoteBaseURL: strings.TrimRight(os.Getenv("LOCATION_API_URL"), "/"),
		APIKey:        os.Getenv("LOCATION_API_KEY"),
		NATSURL:       os.Getenv("NATS_URL"),
		AssumeOnline:  strings.EqualFold(os.Getenv("ASSUME_ONLINE"), "true"),
		SeedFixture:   os.Getenv("SEED_FIXTURE"),
	}
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if c.RemoteBaseURL == "" {
		return ErrMissingRemoteURL
	}
	return nil
}
