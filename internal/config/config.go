// Package config loads the service configuration from YAML and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/teerapatzza/travel-claim/internal/domain/entity"
)

// EnvPrefix prefixes every environment override, e.g. TRAVELCLAIM_SERVER_PORT
const EnvPrefix = "TRAVELCLAIM"

// Config holds all application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Routing  RoutingConfig  `mapstructure:"routing"`
	Rates    RatesConfig    `mapstructure:"rates"`
	Claim    ClaimConfig    `mapstructure:"claim"`
	Document DocumentConfig `mapstructure:"document"`
	Receipt  ReceiptConfig  `mapstructure:"receipt"`
	Catalog  CatalogConfig  `mapstructure:"catalog"`
	Logger   LoggerConfig   `mapstructure:"logger"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	CORSOrigins     []string      `mapstructure:"cors_origins"`
}

// RoutingConfig holds route service configuration
type RoutingConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	BaseURL        string        `mapstructure:"base_url"`
	Profile        string        `mapstructure:"profile"`
	Timeout        time.Duration `mapstructure:"timeout"`
	AttemptTimeout time.Duration `mapstructure:"attempt_timeout"`
	MaxAttempts    int           `mapstructure:"max_attempts"`
	Backoff        time.Duration `mapstructure:"backoff"`
	UserAgent      string        `mapstructure:"user_agent"`
}

// RatesConfig holds per-kilometre reimbursement rates in baht
type RatesConfig struct {
	CarPerKm        float64 `mapstructure:"car_per_km"`
	MotorcyclePerKm float64 `mapstructure:"motorcycle_per_km"`
}

// ClaimConfig holds claim session settings
type ClaimConfig struct {
	DefaultDepartment string        `mapstructure:"default_department"`
	DefaultVehicle    string        `mapstructure:"default_vehicle"`
	PlaceSnapRadiusKm float64       `mapstructure:"place_snap_radius_km"`
	SessionTTL        time.Duration `mapstructure:"session_ttl"`
	SweepSchedule     string        `mapstructure:"sweep_schedule"`
	MaxSessions       int           `mapstructure:"max_sessions"`
}

// DocumentConfig holds document rendering configuration
type DocumentConfig struct {
	AssetsDir        string        `mapstructure:"assets_dir"`
	FontPath         string        `mapstructure:"font_path"`
	LogoPath         string        `mapstructure:"logo_path"`
	XLSXFont         string        `mapstructure:"xlsx_font"`
	ArchiveDir       string        `mapstructure:"archive_dir"`
	ArchiveRetention time.Duration `mapstructure:"archive_retention"`
	PruneSchedule    string        `mapstructure:"prune_schedule"`
}

// ReceiptConfig holds receipt upload limits
type ReceiptConfig struct {
	MaxBytes     int  `mapstructure:"max_bytes"`
	MaxDimension int  `mapstructure:"max_dimension"`
	JPEGQuality  int  `mapstructure:"jpeg_quality"`
	AllowPDF     bool `mapstructure:"allow_pdf"`
}

// CatalogConfig points at the named-place list. Empty uses the built-in list.
type CatalogConfig struct {
	Path string `mapstructure:"path"`
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// Load reads configPath (YAML) and applies environment overrides.
// A missing file is not an error: defaults and environment apply.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	bindEnvVars(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	return decode(v)
}

// Default returns the built-in defaults. Files and environment are ignored.
func Default() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	return decode(v)
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 15*time.Second)
	v.SetDefault("server.cors_origins", []string{"*"})

	// Routing defaults
	v.SetDefault("routing.enabled", true)
	v.SetDefault("routing.base_url", "https://router.project-osrm.org")
	v.SetDefault("routing.profile", "driving")
	v.SetDefault("routing.timeout", 8*time.Second)
	v.SetDefault("routing.attempt_timeout", 5*time.Second)
	v.SetDefault("routing.max_attempts", 2)
	v.SetDefault("routing.backoff", 250*time.Millisecond)
	v.SetDefault("routing.user_agent", "travel-claim/1.0")

	// Rate defaults
	v.SetDefault("rates.car_per_km", 5.0)
	v.SetDefault("rates.motorcycle_per_km", 2.0)

	// Claim defaults
	v.SetDefault("claim.default_department", entity.DefaultDepartment)
	v.SetDefault("claim.default_vehicle", string(entity.VehicleCar))
	v.SetDefault("claim.place_snap_radius_km", 0.2)
	v.SetDefault("claim.session_ttl", 2*time.Hour)
	v.SetDefault("claim.sweep_schedule", "0 */5 * * * *")
	v.SetDefault("claim.max_sessions", 10000)

	// Document defaults
	v.SetDefault("document.assets_dir", "assets")
	v.SetDefault("document.font_path", "fonts/Sarabun-Regular.ttf")
	v.SetDefault("document.logo_path", "logo.png")
	v.SetDefault("document.xlsx_font", "TH Sarabun New")
	v.SetDefault("document.archive_dir", "")
	v.SetDefault("document.archive_retention", 30*24*time.Hour)
	v.SetDefault("document.prune_schedule", "0 30 3 * * *")

	// Receipt defaults
	v.SetDefault("receipt.max_bytes", 10<<20)
	v.SetDefault("receipt.max_dimension", 1600)
	v.SetDefault("receipt.jpeg_quality", 85)
	v.SetDefault("receipt.allow_pdf", true)

	// Catalog defaults
	v.SetDefault("catalog.path", "")

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.output_path", "stdout")
	v.SetDefault("logger.format", "json")
}

// bindEnvVars binds environment variables to configuration
func bindEnvVars(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// conventional name used by OSRM deployments
	_ = v.BindEnv("routing.base_url", EnvPrefix+"_ROUTING_BASE_URL", "OSRM_BASE_URL")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}

	if c.Routing.Enabled {
		if c.Routing.BaseURL == "" {
			return fmt.Errorf("routing.base_url is required when routing is enabled")
		}
		if c.Routing.Timeout <= 0 {
			return fmt.Errorf("routing.timeout must be positive")
		}
		if c.Routing.MaxAttempts < 1 {
			return fmt.Errorf("routing.max_attempts must be at least 1")
		}
	}

	if c.Rates.CarPerKm < 0 || c.Rates.MotorcyclePerKm < 0 {
		return fmt.Errorf("rates must not be negative")
	}

	if _, err := entity.ParseVehicleType(c.Claim.DefaultVehicle); err != nil {
		return fmt.Errorf("claim.default_vehicle: %w", err)
	}
	if c.Claim.PlaceSnapRadiusKm < 0 {
		return fmt.Errorf("claim.place_snap_radius_km must not be negative")
	}
	if c.Claim.SessionTTL <= 0 {
		return fmt.Errorf("claim.session_ttl must be positive")
	}

	if c.Receipt.MaxBytes <= 0 {
		return fmt.Errorf("receipt.max_bytes must be positive")
	}
	if c.Receipt.JPEGQuality < 1 || c.Receipt.JPEGQuality > 100 {
		return fmt.Errorf("receipt.jpeg_quality must be between 1 and 100")
	}

	return nil
}
