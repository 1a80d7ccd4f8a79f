package config

import (
	"github.com/teerapatzza/travel-claim/internal/container"
)

// ToContainerConfig converts the application Config to a container.Config.
// This provides a bridge between the file-based config loaded by viper
// and the container's configuration structure.
func (c *Config) ToContainerConfig() *container.Config {
	return &container.Config{
		Routing: container.RoutingConfig{
			Enabled:        c.Routing.Enabled,
			BaseURL:        c.Routing.BaseURL,
			Profile:        c.Routing.Profile,
			Timeout:        c.Routing.Timeout,
			AttemptTimeout: c.Routing.AttemptTimeout,
			MaxAttempts:    c.Routing.MaxAttempts,
			Backoff:        c.Routing.Backoff,
			UserAgent:      c.Routing.UserAgent,
		},
		Rates: container.RatesConfig{
			CarPerKm:        c.Rates.CarPerKm,
			MotorcyclePerKm: c.Rates.MotorcyclePerKm,
		},
		Claim: container.ClaimConfig{
			DefaultDepartment: c.Claim.DefaultDepartment,
			DefaultVehicle:    c.Claim.DefaultVehicle,
			PlaceSnapRadiusKm: c.Claim.PlaceSnapRadiusKm,
			SessionTTL:        c.Claim.SessionTTL,
			SweepSchedule:     c.Claim.SweepSchedule,
			MaxSessions:       c.Claim.MaxSessions,
		},
		Document: container.DocumentConfig{
			AssetsDir:        c.Document.AssetsDir,
			FontPath:         c.Document.FontPath,
			LogoPath:         c.Document.LogoPath,
			XLSXFont:         c.Document.XLSXFont,
			ArchiveDir:       c.Document.ArchiveDir,
			ArchiveRetention: c.Document.ArchiveRetention,
			PruneSchedule:    c.Document.PruneSchedule,
		},
		Receipt: container.ReceiptConfig{
			MaxBytes:     c.Receipt.MaxBytes,
			MaxDimension: c.Receipt.MaxDimension,
			JPEGQuality:  c.Receipt.JPEGQuality,
			AllowPDF:     c.Receipt.AllowPDF,
		},
		CatalogPath: c.Catalog.Path,
	}
}
