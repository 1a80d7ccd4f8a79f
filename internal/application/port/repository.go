package port

import (
	"context"
	"time"

	"github.com/teerapatzza/travel-claim/internal/domain/entity"
)

// SessionStore keeps live claim sessions in memory
type SessionStore interface {
	Create(ctx context.Context, record *entity.ClaimRecord) (*entity.ClaimSession, error)
	Get(ctx context.Context, id string) (*entity.ClaimSession, error)
	Delete(ctx context.Context, id string) error
	// Sweep removes sessions idle since before cutoff and returns their IDs
	Sweep(ctx context.Context, cutoff time.Time) []string
	Count() int
}
