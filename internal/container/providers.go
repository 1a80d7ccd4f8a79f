package container

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/teerapatzza/travel-claim/internal/application/dispatcher"
	"github.com/teerapatzza/travel-claim/internal/application/port"
	"github.com/teerapatzza/travel-claim/internal/application/service"
	"github.com/teerapatzza/travel-claim/internal/domain/entity"
	"github.com/teerapatzza/travel-claim/internal/domain/reimbursement"
	"github.com/teerapatzza/travel-claim/internal/infrastructure/catalog"
	"github.com/teerapatzza/travel-claim/internal/infrastructure/document"
	"github.com/teerapatzza/travel-claim/internal/infrastructure/httpx"
	"github.com/teerapatzza/travel-claim/internal/infrastructure/receipt"
	"github.com/teerapatzza/travel-claim/internal/infrastructure/routing"
	"github.com/teerapatzza/travel-claim/internal/infrastructure/session"
	"github.com/teerapatzza/travel-claim/internal/infrastructure/storage"
	"github.com/teerapatzza/travel-claim/internal/infrastructure/worker"
)

// StorageBundle groups the file stores.
type StorageBundle struct {
	// Assets holds the font and logo
	Assets *storage.LocalFileStorage

	// Archive is nil when archiving is disabled
	Archive *storage.LocalFileStorage
}

// RenderBundle groups document collaborators.
type RenderBundle struct {
	Receipts  port.ReceiptEncoder
	Renderers []port.DocumentRenderer
}

// ProvideStorage creates the file stores.
func ProvideStorage(cfg *DocumentConfig, logger *zap.Logger) (*StorageBundle, error) {
	bundle := &StorageBundle{
		Assets: storage.NewLocalFileStorage(cfg.AssetsDir, logger),
	}
	if cfg.ArchiveDir != "" {
		bundle.Archive = storage.NewLocalFileStorage(cfg.ArchiveDir, logger)
	}

	logger.Info("Storage initialized",
		zap.String("assets_dir", cfg.AssetsDir),
		zap.String("archive_dir", cfg.ArchiveDir))

	return bundle, nil
}

// ProvideCatalog loads the named-place list, or the built-in list when no path is set.
func ProvideCatalog(path string, logger *zap.Logger) (*catalog.Catalog, error) {
	if path == "" {
		c := catalog.Builtin()
		logger.Info("Using built-in place catalog", zap.Int("places", c.Len()))
		return c, nil
	}

	c, err := catalog.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load place catalog: %w", err)
	}

	logger.Info("Place catalog loaded", zap.String("path", path), zap.Int("places", c.Len()))
	return c, nil
}

// ProvideRouteService creates the OSRM client. It returns a nil
// interface when routing is disabled.
func ProvideRouteService(cfg *RoutingConfig, logger *zap.Logger) (port.RouteService, error) {
	if !cfg.Enabled {
		logger.Warn("Road routing disabled, distances use straight-line estimate")
		return nil, nil
	}

	httpClient := httpx.NewClient(httpx.ClientOptions{
		Timeout:   cfg.AttemptTimeout,
		UserAgent: cfg.UserAgent,
		Logger:    logger,
	})

	client, err := routing.NewOSRMClient(routing.Config{
		BaseURL:     cfg.BaseURL,
		Profile:     cfg.Profile,
		MaxAttempts: cfg.MaxAttempts,
		Backoff:     cfg.Backoff,
	}, httpClient, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create route client: %w", err)
	}

	logger.Info("Route client initialized",
		zap.String("base_url", cfg.BaseURL),
		zap.String("profile", cfg.Profile))

	return client, nil
}

// ProvideSessionStore creates the in-memory session store.
func ProvideSessionStore(cfg *ClaimConfig, logger *zap.Logger) *session.MemoryStore {
	return session.NewMemoryStore(logger, session.WithMaxSessions(cfg.MaxSessions))
}

// ProvideRenderers creates the receipt encoder and the document renderers.
func ProvideRenderers(cfg *Config, assets port.FileStorage, logger *zap.Logger) (*RenderBundle, error) {
	encoder := receipt.NewEncoder(receipt.Config{
		MaxBytes:     cfg.Receipt.MaxBytes,
		MaxDimension: cfg.Receipt.MaxDimension,
		JPEGQuality:  cfg.Receipt.JPEGQuality,
		AllowPDF:     cfg.Receipt.AllowPDF,
	}, logger)

	docAssets := document.NewAssets(assets, cfg.Document.FontPath, cfg.Document.LogoPath, logger)

	return &RenderBundle{
		Receipts: encoder,
		Renderers: []port.DocumentRenderer{
			document.NewPDFRenderer(docAssets, document.DefaultSketchStyle(), logger),
			document.NewXLSXRenderer(cfg.Document.XLSXFont, logger),
		},
	}, nil
}

// ProvideDispatcher creates the event dispatcher.
func ProvideDispatcher(logger *zap.Logger) (dispatcher.Dispatcher, error) {
	disp := dispatcher.NewDispatcher(
		dispatcher.WithLogger(&dispatcherLoggerAdapter{logger: logger}),
	)
	logger.Info("Event dispatcher initialized")
	return disp, nil
}

// ServiceDeps holds dependencies for creating services.
type ServiceDeps struct {
	Config     *Config
	Catalog    port.PlaceCatalog
	Routes     port.RouteService
	Sessions   port.SessionStore
	Render     *RenderBundle
	Archive    port.FileStorage
	Dispatcher dispatcher.Dispatcher
	Logger     *zap.Logger
}

// ServiceBundle groups all application services.
type ServiceBundle struct {
	Claims     service.ClaimService
	Distances  service.DistanceService
	Calculator *reimbursement.Calculator
}

// ProvideServices creates the application services and subscribes the
// event handlers that keep claims consistent.
func ProvideServices(deps *ServiceDeps) (*ServiceBundle, error) {
	cfg := deps.Config
	svcLogger := &zapLoggerAdapter{logger: deps.Logger}

	vehicle, err := entity.ParseVehicleType(cfg.Claim.DefaultVehicle)
	if err != nil {
		return nil, fmt.Errorf("default vehicle: %w", err)
	}

	calculator := reimbursement.NewCalculator(reimbursement.Rates{
		CarPerKm:        cfg.Rates.CarPerKm,
		MotorcyclePerKm: cfg.Rates.MotorcyclePerKm,
	})
	distances := service.NewDistanceService(deps.Routes, cfg.Routing.Timeout, svcLogger)

	service.NewRecalculator(deps.Sessions, distances, calculator, svcLogger).Register(deps.Dispatcher)
	if deps.Archive != nil {
		service.NewExportArchiver(deps.Archive, svcLogger).Register(deps.Dispatcher)
	}

	claims, err := service.NewClaimService(service.ClaimServiceDeps{
		Sessions:          deps.Sessions,
		Points:            service.NewPointResolver(deps.Catalog, cfg.Claim.PlaceSnapRadiusKm),
		Distances:         distances,
		Calculator:        calculator,
		Receipts:          deps.Render.Receipts,
		Renderers:         deps.Render.Renderers,
		Dispatcher:        deps.Dispatcher,
		DefaultDepartment: cfg.Claim.DefaultDepartment,
		DefaultVehicle:    vehicle,
		Logger:            svcLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create claim service: %w", err)
	}

	deps.Logger.Info("Application services initialized",
		zap.Float64("car_rate", calculator.Rates().CarPerKm),
		zap.Float64("motorcycle_rate", calculator.Rates().MotorcyclePerKm),
		zap.Bool("archive", deps.Archive != nil))

	return &ServiceBundle{
		Claims:     claims,
		Distances:  distances,
		Calculator: calculator,
	}, nil
}

// WorkerDeps holds dependencies for creating workers.
type WorkerDeps struct {
	Config  *Config
	Claims  worker.SessionExpirer
	Archive worker.ArchivePruner
	Logger  *zap.Logger
}

// ProvideWorkers creates the worker manager with the maintenance scheduler.
func ProvideWorkers(deps *WorkerDeps) (*worker.Manager, error) {
	cfg := deps.Config
	manager := worker.NewManager(deps.Logger)

	scheduler := worker.NewScheduler("maintenance", deps.Logger)
	if err := scheduler.Add(worker.SessionSweepJob(cfg.Claim.SweepSchedule, cfg.Claim.SessionTTL, deps.Claims, nil, deps.Logger)); err != nil {
		return nil, fmt.Errorf("failed to schedule session sweep: %w", err)
	}

	if deps.Archive != nil && cfg.Document.ArchiveRetention > 0 {
		job := worker.ArchivePruneJob(cfg.Document.PruneSchedule, cfg.Document.ArchiveRetention, deps.Archive, nil)
		if err := scheduler.Add(job); err != nil {
			return nil, fmt.Errorf("failed to schedule archive prune: %w", err)
		}
	}

	manager.Register(scheduler)

	deps.Logger.Info("Workers initialized", zap.Strings("workers", manager.Names()))
	return manager, nil
}
