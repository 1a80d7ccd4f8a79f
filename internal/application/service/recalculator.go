package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/teerapatzza/travel-claim/internal/application/dispatcher"
	"github.com/teerapatzza/travel-claim/internal/application/port"
	"github.com/teerapatzza/travel-claim/internal/domain/entity"
	"github.com/teerapatzza/travel-claim/internal/domain/event"
	"github.com/teerapatzza/travel-claim/internal/domain/reimbursement"
)

// Recalculator keeps distance and total in step with claim edits.
// Point changes re-run distance resolution; a result is applied only if
// no newer point change happened meanwhile.
type Recalculator struct {
	sessions   port.SessionStore
	distances  DistanceService
	calculator *reimbursement.Calculator
	logger     Logger
}

// NewRecalculator creates a Recalculator
func NewRecalculator(sessions port.SessionStore, distances DistanceService, calculator *reimbursement.Calculator, logger Logger) *Recalculator {
	return &Recalculator{
		sessions:   sessions,
		distances:  distances,
		calculator: calculator,
		logger:     logger,
	}
}

// Register subscribes the recalculator to every event that changes a total
func (r *Recalculator) Register(d dispatcher.Dispatcher) {
	d.SubscribeAll(
		[]event.Type{event.TypePointsChanged, event.TypeVehicleChanged, event.TypeCostsChanged},
		"recalculator",
		"re-resolves distance and recomputes claim total",
		r.Handle,
	)
}

// Handle processes one claim change event
func (r *Recalculator) Handle(ctx context.Context, evt *event.Event) error {
	if !evt.Type.TriggersRecalculation() {
		return nil
	}

	session, err := r.sessions.Get(ctx, evt.SessionID)
	if err != nil {
		return err
	}

	if evt.Type == event.TypePointsChanged {
		return r.resolveAndApply(ctx, session, evt.GetPayloadUint(event.KeyResolutionSeq))
	}

	return session.Update(r.recomputeTotal)
}

func (r *Recalculator) resolveAndApply(ctx context.Context, session *entity.ClaimSession, seq uint64) error {
	snap := session.Snapshot()

	var resolution *entity.DistanceResolution
	if snap.HasBothPoints() {
		// Network call happens outside the session lock. A cancelled caller
		// must not turn a healthy route into a straight-line fallback; the
		// wait is bounded by the distance service timeout.
		res, err := r.distances.Resolve(context.WithoutCancel(ctx), snap.Origin.Location, snap.Destination.Location)
		if err != nil {
			return fmt.Errorf("resolve distance: %w", err)
		}
		resolution = res
	}

	err := session.Update(func(rec *entity.ClaimRecord) error {
		if !session.IsCurrentResolution(seq) {
			return entity.ErrStaleResolution
		}
		rec.Resolution = resolution
		return r.recomputeTotal(rec)
	})
	if errors.Is(err, entity.ErrStaleResolution) {
		r.logger.Info("Discarding superseded distance resolution",
			"session_id", session.ID,
			"resolution_seq", seq,
			"current_seq", session.CurrentResolution(),
		)
		return nil
	}
	if err != nil {
		return err
	}

	if resolution != nil {
		r.logger.Info("Distance resolved",
			"session_id", session.ID,
			"distance_km", resolution.DistanceKm,
			"is_fallback", resolution.IsFallback,
		)
	}
	return nil
}

// recomputeTotal must run under the session lock
func (r *Recalculator) recomputeTotal(rec *entity.ClaimRecord) error {
	total, err := r.calculator.ComputeTotal(rec.VehicleType, rec.DistanceKm(), rec.TicketCost, rec.TaxiCost)
	if err != nil {
		return err
	}
	rec.TotalAmount = total
	return nil
}
