// Package receipt normalises uploaded receipts into embeddable JPEG images.
package receipt

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
	"github.com/gen2brain/go-fitz"
	"go.uber.org/zap"
	_ "golang.org/x/image/webp"

	"github.com/teerapatzza/travel-claim/internal/application/port"
	"github.com/teerapatzza/travel-claim/internal/domain/entity"
)

const (
	DefaultMaxBytes     = 10 << 20
	DefaultMaxDimension = 1600
	DefaultJPEGQuality  = 85
)

// Config controls the accepted input and the output image
type Config struct {
	MaxBytes     int
	MaxDimension int
	JPEGQuality  int
	// AllowPDF rasterises the first page of PDF receipts
	AllowPDF bool
}

var imageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/bmp":  true,
	"image/tiff": true,
	"image/webp": true,
}

// Encoder implements port.ReceiptEncoder
type Encoder struct {
	cfg    Config
	logger *zap.Logger
	now    func() time.Time
}

var _ port.ReceiptEncoder = (*Encoder)(nil)

// NewEncoder creates an Encoder, filling zero config values with defaults
func NewEncoder(cfg Config, logger *zap.Logger) *Encoder {
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = DefaultMaxBytes
	}
	if cfg.MaxDimension <= 0 {
		cfg.MaxDimension = DefaultMaxDimension
	}
	if cfg.JPEGQuality <= 0 || cfg.JPEGQuality > 100 {
		cfg.JPEGQuality = DefaultJPEGQuality
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Encoder{cfg: cfg, logger: logger, now: time.Now}
}

// Encode validates data and returns a resized JPEG
func (e *Encoder) Encode(ctx context.Context, fileName string, data []byte) (*entity.ReceiptImage, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty upload", entity.ErrNotAnImage)
	}
	if len(data) > e.cfg.MaxBytes {
		return nil, fmt.Errorf("%w: %d bytes exceeds %d", entity.ErrReceiptTooLarge, len(data), e.cfg.MaxBytes)
	}

	mtype := mimetype.Detect(data)
	sourceType := mtype.String()
	if i := strings.IndexByte(sourceType, ';'); i >= 0 {
		sourceType = sourceType[:i]
	}

	var (
		img image.Image
		err error
	)
	switch {
	case imageTypes[sourceType]:
		img, err = imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", entity.ErrNotAnImage, err)
		}
	case sourceType == "application/pdf" && e.cfg.AllowPDF:
		img, err = e.rasterisePDF(data)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: detected %s", entity.ErrNotAnImage, sourceType)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img = e.fit(img)
	img = flatten(img)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(e.cfg.JPEGQuality)); err != nil {
		return nil, fmt.Errorf("failed to encode receipt: %w", err)
	}

	bounds := img.Bounds()
	e.logger.Debug("Receipt encoded",
		zap.String("file_name", fileName),
		zap.String("source_type", sourceType),
		zap.Int("original_size", len(data)),
		zap.Int("encoded_size", buf.Len()),
		zap.Int("width", bounds.Dx()),
		zap.Int("height", bounds.Dy()))

	return &entity.ReceiptImage{
		FileName:     cleanFileName(fileName),
		SourceType:   sourceType,
		ContentType:  "image/jpeg",
		Width:        bounds.Dx(),
		Height:       bounds.Dy(),
		Data:         buf.Bytes(),
		AttachedAt:   e.now(),
		OriginalSize: len(data),
	}, nil
}

func (e *Encoder) rasterisePDF(data []byte) (image.Image, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("%w: unreadable PDF: %v", entity.ErrNotAnImage, err)
	}
	defer doc.Close()

	if doc.NumPage() == 0 {
		return nil, fmt.Errorf("%w: PDF has no pages", entity.ErrNotAnImage)
	}
	if doc.NumPage() > 1 {
		e.logger.Info("Receipt PDF has several pages, using the first", zap.Int("pages", doc.NumPage()))
	}

	img, err := doc.Image(0)
	if err != nil {
		return nil, fmt.Errorf("failed to render receipt PDF: %w", err)
	}
	return img, nil
}

// fit shrinks img so neither side exceeds MaxDimension; it never enlarges
func (e *Encoder) fit(img image.Image) image.Image {
	b := img.Bounds()
	if b.Dx() <= e.cfg.MaxDimension && b.Dy() <= e.cfg.MaxDimension {
		return img
	}
	return imaging.Fit(img, e.cfg.MaxDimension, e.cfg.MaxDimension, imaging.Lanczos)
}

// flatten composes img over white so transparent areas do not turn black in JPEG
func flatten(img image.Image) image.Image {
	b := img.Bounds()
	bg := imaging.New(b.Dx(), b.Dy(), color.White)
	return imaging.Overlay(bg, img, image.Pt(0, 0), 1.0)
}

func cleanFileName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		return "receipt"
	}
	return name
}
