package port

import (
	"context"

	"github.com/teerapatzza/travel-claim/internal/domain/entity"
)

// RouteService finds a driving route between two points.
// Any failure means no usable route; callers fall back to a straight line.
type RouteService interface {
	Route(ctx context.Context, start, end entity.Coordinate) (*entity.RouteResult, error)
}

// PlaceCatalog provides the fixed list of named origins/destinations
type PlaceCatalog interface {
	List() []entity.Place
	Get(id string) (entity.Place, error)
	// Nearest returns the closest place within radiusKm, or false when none is
	Nearest(c entity.Coordinate, radiusKm float64) (entity.Place, bool)
}

// RenderedDocument is a finished claim document ready to download
type RenderedDocument struct {
	FileName    string
	ContentType string
	Content     []byte
	// Warnings lists degraded resources (missing font, logo...)
	Warnings []string
}

// DocumentRenderer turns a claim payload into a downloadable file
type DocumentRenderer interface {
	Format() string
	Render(ctx context.Context, doc *entity.ClaimDocument) (*RenderedDocument, error)
}

// ReceiptEncoder converts an uploaded file into an embeddable image
type ReceiptEncoder interface {
	Encode(ctx context.Context, fileName string, data []byte) (*entity.ReceiptImage, error)
}
