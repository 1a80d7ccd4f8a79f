// Package container provides dependency injection and lifecycle management
// for the travel claim service.
package container

import (
	"fmt"
	"time"
)

// Config holds all configuration for the Container.
// It aggregates configurations for all subsystems.
type Config struct {
	// Routing configuration for the road-distance service
	Routing RoutingConfig

	// Rates in baht per kilometre
	Rates RatesConfig

	// Claim session settings
	Claim ClaimConfig

	// Document rendering and archive settings
	Document DocumentConfig

	// Receipt upload settings
	Receipt ReceiptConfig

	// CatalogPath is the YAML list of named places; empty uses the built-in list
	CatalogPath string
}

// RoutingConfig holds route service settings.
type RoutingConfig struct {
	// Enabled turns off road routing entirely when false; every
	// distance then falls back to the straight-line estimate
	Enabled bool

	BaseURL string
	Profile string

	// Timeout bounds one whole resolution, retries included
	Timeout time.Duration

	// AttemptTimeout bounds a single HTTP request
	AttemptTimeout time.Duration

	MaxAttempts int
	Backoff     time.Duration
	UserAgent   string
}

// RatesConfig holds per-kilometre rates.
type RatesConfig struct {
	CarPerKm        float64
	MotorcyclePerKm float64
}

// ClaimConfig holds claim session settings.
type ClaimConfig struct {
	DefaultDepartment string
	DefaultVehicle    string
	PlaceSnapRadiusKm float64

	// SessionTTL is how long an idle session is kept
	SessionTTL    time.Duration
	SweepSchedule string
	MaxSessions   int
}

// DocumentConfig holds document settings.
type DocumentConfig struct {
	// AssetsDir is the root for FontPath and LogoPath
	AssetsDir string
	FontPath  string
	LogoPath  string
	XLSXFont  string

	// ArchiveDir keeps a copy of every export; empty disables archiving
	ArchiveDir       string
	ArchiveRetention time.Duration
	PruneSchedule    string
}

// ReceiptConfig holds receipt upload limits.
type ReceiptConfig struct {
	MaxBytes     int
	MaxDimension int
	JPEGQuality  int
	AllowPDF     bool
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Routing: RoutingConfig{
			Enabled:        true,
			BaseURL:        "https://router.project-osrm.org",
			Profile:        "driving",
			Timeout:        8 * time.Second,
			AttemptTimeout: 5 * time.Second,
			MaxAttempts:    2,
			Backoff:        250 * time.Millisecond,
			UserAgent:      "travel-claim/1.0",
		},
		Rates: RatesConfig{
			CarPerKm:        5,
			MotorcyclePerKm: 2,
		},
		Claim: ClaimConfig{
			DefaultVehicle:    "CAR",
			PlaceSnapRadiusKm: 0.2,
			SessionTTL:        2 * time.Hour,
			SweepSchedule:     "0 */5 * * * *",
			MaxSessions:       10000,
		},
		Document: DocumentConfig{
			AssetsDir:        "assets",
			FontPath:         "fonts/Sarabun-Regular.ttf",
			LogoPath:         "logo.png",
			XLSXFont:         "TH Sarabun New",
			ArchiveRetention: 30 * 24 * time.Hour,
			PruneSchedule:    "0 30 3 * * *",
		},
		Receipt: ReceiptConfig{
			MaxBytes:     10 << 20,
			MaxDimension: 1600,
			JPEGQuality:  85,
			AllowPDF:     true,
		},
	}
}

// Validate checks that required configuration values are present.
func (c *Config) Validate() error {
	if c.Routing.Enabled {
		if c.Routing.BaseURL == "" {
			return fmt.Errorf("routing base URL is required when routing is enabled")
		}
		if c.Routing.Timeout <= 0 {
			return fmt.Errorf("routing timeout must be positive")
		}
	}

	if c.Claim.SessionTTL <= 0 {
		return fmt.Errorf("session TTL must be positive")
	}
	if c.Claim.SweepSchedule == "" {
		return fmt.Errorf("session sweep schedule is required")
	}

	if c.Document.ArchiveDir != "" && c.Document.ArchiveRetention > 0 && c.Document.PruneSchedule == "" {
		return fmt.Errorf("archive prune schedule is required when retention is set")
	}

	if c.Receipt.MaxBytes <= 0 {
		return fmt.Errorf("receipt max bytes must be positive")
	}

	return nil
}
