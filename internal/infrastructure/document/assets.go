package document

import (
	"context"
	"fmt"
	"sync"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"

	"github.com/teerapatzza/travel-claim/internal/application/port"
	"github.com/teerapatzza/travel-claim/internal/domain/entity"
)

// Assets loads optional document resources from file storage.
// Loaded bytes are cached; a missing file is retried on the next render.
type Assets struct {
	storage  port.FileStorage
	fontPath string
	logoPath string
	logger   *zap.Logger

	mu    sync.Mutex
	cache map[string][]byte
}

// NewAssets creates an asset loader. Empty paths disable that resource.
func NewAssets(storage port.FileStorage, fontPath, logoPath string, logger *zap.Logger) *Assets {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Assets{
		storage:  storage,
		fontPath: fontPath,
		logoPath: logoPath,
		logger:   logger,
		cache:    make(map[string][]byte),
	}
}

// Font returns the TrueType font used for Thai text
func (a *Assets) Font(ctx context.Context) ([]byte, error) {
	return a.load(ctx, "font", a.fontPath)
}

// Logo returns the header logo and its fpdf image type (PNG, JPG, GIF)
func (a *Assets) Logo(ctx context.Context) ([]byte, string, error) {
	data, err := a.load(ctx, "logo", a.logoPath)
	if err != nil {
		return nil, "", err
	}

	switch mimetype.Detect(data).String() {
	case "image/png":
		return data, "PNG", nil
	case "image/jpeg":
		return data, "JPG", nil
	case "image/gif":
		return data, "GIF", nil
	}
	return nil, "", fmt.Errorf("%w: logo %s is not a PNG, JPEG or GIF image", entity.ErrResourceMissing, a.logoPath)
}

func (a *Assets) load(ctx context.Context, kind, path string) ([]byte, error) {
	if path == "" || a.storage == nil {
		return nil, fmt.Errorf("%w: no %s configured", entity.ErrResourceMissing, kind)
	}

	a.mu.Lock()
	cached, ok := a.cache[path]
	a.mu.Unlock()
	if ok {
		return cached, nil
	}

	data, err := a.storage.Read(ctx, path)
	if err != nil {
		a.logger.Warn("Document resource unavailable",
			zap.String("kind", kind),
			zap.String("path", a.storage.GetFullPath(path)),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %s %s: %v", entity.ErrResourceMissing, kind, path, err)
	}

	a.mu.Lock()
	a.cache[path] = data
	a.mu.Unlock()
	return data, nil
}
