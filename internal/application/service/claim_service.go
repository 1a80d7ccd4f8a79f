package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/teerapatzza/travel-claim/internal/application/dispatcher"
	"github.com/teerapatzza/travel-claim/internal/application/port"
	"github.com/teerapatzza/travel-claim/internal/domain/entity"
	"github.com/teerapatzza/travel-claim/internal/domain/event"
	"github.com/teerapatzza/travel-claim/internal/domain/reimbursement"
)

// ClaimView is a consistent snapshot of a claim session
type ClaimView struct {
	SessionID string
	Record    *entity.ClaimRecord
}

// ClaimDetails are the free-text header fields of a claim
type ClaimDetails struct {
	ClaimantName string
	Department   string
	Purpose      string
}

// QuoteRequest asks for a total without creating a session
type QuoteRequest struct {
	VehicleType entity.VehicleType
	Origin      *PointSelection
	Destination *PointSelection
	TicketCost  float64
	TaxiCost    float64
}

// Quote is the answer to a QuoteRequest
type Quote struct {
	Resolution *entity.DistanceResolution `json:"resolution,omitempty"`
	Breakdown  entity.CostBreakdown       `json:"breakdown"`
}

// ClaimService drives a claim session from first click to exported document
type ClaimService interface {
	StartSession(ctx context.Context, department string) (*ClaimView, error)
	GetClaim(ctx context.Context, sessionID string) (*ClaimView, error)
	UpdateDetails(ctx context.Context, sessionID string, details ClaimDetails) (*ClaimView, error)
	SetVehicleType(ctx context.Context, sessionID string, vehicle entity.VehicleType) (*ClaimView, error)
	SetCosts(ctx context.Context, sessionID string, ticketCost, taxiCost float64) (*ClaimView, error)
	// MapClick fills origin, then destination; later clicks are ignored
	MapClick(ctx context.Context, sessionID string, location entity.Coordinate) (*ClaimView, error)
	SelectPoint(ctx context.Context, sessionID string, role entity.PointRole, sel PointSelection) (*ClaimView, error)
	AttachReceipt(ctx context.Context, sessionID, fileName string, data []byte) (*ClaimView, error)
	RemoveReceipt(ctx context.Context, sessionID string) (*ClaimView, error)
	Reset(ctx context.Context, sessionID string) (*ClaimView, error)
	// Export renders the claim and locks exactly the state it rendered
	Export(ctx context.Context, sessionID, format string) (*port.RenderedDocument, error)
	DeleteSession(ctx context.Context, sessionID string) error
	ExpireIdle(ctx context.Context, cutoff time.Time) int
	Quote(ctx context.Context, req QuoteRequest) (*Quote, error)
}

// ClaimServiceDeps holds dependencies required for creating the claim service
type ClaimServiceDeps struct {
	Sessions          port.SessionStore
	Points            *PointResolver
	Distances         DistanceService
	Calculator        *reimbursement.Calculator
	Receipts          port.ReceiptEncoder
	Renderers         []port.DocumentRenderer
	Dispatcher        dispatcher.Dispatcher
	DefaultDepartment string
	// DefaultVehicle is preselected on new claims; empty keeps CAR
	DefaultVehicle entity.VehicleType
	Logger         Logger
	// Now defaults to time.Now
	Now func() time.Time
}

// maxExportAttempts bounds re-rendering when edits keep landing mid-export
const maxExportAttempts = 3

type claimServiceImpl struct {
	sessions          port.SessionStore
	points            *PointResolver
	distances         DistanceService
	calculator        *reimbursement.Calculator
	receipts          port.ReceiptEncoder
	renderers         map[string]port.DocumentRenderer
	dispatcher        dispatcher.Dispatcher
	defaultDepartment string
	defaultVehicle    entity.VehicleType
	logger            Logger
	now               func() time.Time
}

// NewClaimService creates a new ClaimService
func NewClaimService(deps ClaimServiceDeps) (ClaimService, error) {
	if deps.Sessions == nil {
		return nil, fmt.Errorf("session store is required")
	}
	if deps.Points == nil {
		return nil, fmt.Errorf("point resolver is required")
	}
	if deps.Distances == nil {
		return nil, fmt.Errorf("distance service is required")
	}
	if deps.Calculator == nil {
		return nil, fmt.Errorf("calculator is required")
	}
	if deps.Dispatcher == nil {
		return nil, fmt.Errorf("dispatcher is required")
	}
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	renderers := make(map[string]port.DocumentRenderer, len(deps.Renderers))
	for _, r := range deps.Renderers {
		renderers[strings.ToLower(r.Format())] = r
	}

	now := deps.Now
	if now == nil {
		now = time.Now
	}

	return &claimServiceImpl{
		sessions:          deps.Sessions,
		points:            deps.Points,
		distances:         deps.Distances,
		calculator:        deps.Calculator,
		receipts:          deps.Receipts,
		renderers:         renderers,
		dispatcher:        deps.Dispatcher,
		defaultDepartment: deps.DefaultDepartment,
		defaultVehicle:    deps.DefaultVehicle,
		logger:            deps.Logger,
		now:               now,
	}, nil
}

func (s *claimServiceImpl) StartSession(ctx context.Context, department string) (*ClaimView, error) {
	if strings.TrimSpace(department) == "" {
		department = s.defaultDepartment
	}

	record := entity.NewClaimRecord(department)
	if s.defaultVehicle.IsValid() {
		record.VehicleType = s.defaultVehicle
	}

	session, err := s.sessions.Create(ctx, record)
	if err != nil {
		s.logger.Error("Failed to create claim session", "error", err)
		return nil, err
	}

	s.logger.Info("Claim session started", "session_id", session.ID)
	s.dispatcher.DispatchAsync(ctx, s.newEvent(ctx, event.TypeSessionStarted, session.ID, nil))

	return s.view(session), nil
}

func (s *claimServiceImpl) GetClaim(ctx context.Context, sessionID string) (*ClaimView, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.view(session), nil
}

func (s *claimServiceImpl) UpdateDetails(ctx context.Context, sessionID string, details ClaimDetails) (*ClaimView, error) {
	return s.mutate(ctx, sessionID, "", func(rec *entity.ClaimRecord) error {
		return rec.SetDetails(details.ClaimantName, details.Department, details.Purpose)
	})
}

func (s *claimServiceImpl) SetVehicleType(ctx context.Context, sessionID string, vehicle entity.VehicleType) (*ClaimView, error) {
	if !vehicle.IsValid() {
		return nil, fmt.Errorf("%w: %q", entity.ErrUnknownVehicleType, vehicle)
	}
	return s.mutate(ctx, sessionID, event.TypeVehicleChanged, func(rec *entity.ClaimRecord) error {
		return rec.SetVehicleType(vehicle)
	})
}

func (s *claimServiceImpl) SetCosts(ctx context.Context, sessionID string, ticketCost, taxiCost float64) (*ClaimView, error) {
	return s.mutate(ctx, sessionID, event.TypeCostsChanged, func(rec *entity.ClaimRecord) error {
		return rec.SetCosts(ticketCost, taxiCost)
	})
}

func (s *claimServiceImpl) MapClick(ctx context.Context, sessionID string, location entity.Coordinate) (*ClaimView, error) {
	wp, err := s.points.Resolve(PointSelection{Channel: entity.ChannelClick, Location: &location})
	if err != nil {
		return nil, err
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	var (
		seq     uint64
		role    entity.PointRole
		ignored bool
	)
	err = session.Update(func(rec *entity.ClaimRecord) error {
		next, ok := rec.NextClickRole()
		if !ok {
			ignored = true
			return nil
		}
		if err := rec.SetPoint(next, wp); err != nil {
			return err
		}
		role = next
		seq = session.BeginResolution()
		return nil
	})
	if err != nil {
		return nil, err
	}

	if ignored {
		s.logger.Info("Map click ignored, both points already set", "session_id", sessionID)
		return s.view(session), nil
	}

	return s.afterPointChange(ctx, session, role, entity.ChannelClick, seq)
}

func (s *claimServiceImpl) SelectPoint(ctx context.Context, sessionID string, role entity.PointRole, sel PointSelection) (*ClaimView, error) {
	if _, err := entity.ParsePointRole(string(role)); err != nil {
		return nil, err
	}

	wp, err := s.points.Resolve(sel)
	if err != nil {
		return nil, err
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	var seq uint64
	err = session.Update(func(rec *entity.ClaimRecord) error {
		if err := rec.SetPoint(role, wp); err != nil {
			return err
		}
		seq = session.BeginResolution()
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.afterPointChange(ctx, session, role, sel.Channel, seq)
}

func (s *claimServiceImpl) afterPointChange(ctx context.Context, session *entity.ClaimSession, role entity.PointRole, channel entity.InputChannel, seq uint64) (*ClaimView, error) {
	evt := s.newEvent(ctx, event.TypePointsChanged, session.ID, map[string]interface{}{
		event.KeyResolutionSeq: seq,
		event.KeyRole:          string(role),
		event.KeyChannel:       string(channel),
	})
	if err := s.dispatcher.Dispatch(ctx, evt); err != nil {
		s.logger.Error("Failed to process point change", "session_id", session.ID, "error", err)
		return nil, err
	}
	return s.view(session), nil
}

func (s *claimServiceImpl) AttachReceipt(ctx context.Context, sessionID, fileName string, data []byte) (*ClaimView, error) {
	if s.receipts == nil {
		return nil, fmt.Errorf("receipt attachments are disabled")
	}
	if _, err := s.sessions.Get(ctx, sessionID); err != nil {
		return nil, err
	}

	img, err := s.receipts.Encode(ctx, fileName, data)
	if err != nil {
		s.logger.Error("Failed to encode receipt", "session_id", sessionID, "file_name", fileName, "error", err)
		return nil, err
	}

	return s.mutate(ctx, sessionID, "", func(rec *entity.ClaimRecord) error {
		return rec.AttachReceipt(img)
	})
}

func (s *claimServiceImpl) RemoveReceipt(ctx context.Context, sessionID string) (*ClaimView, error) {
	return s.mutate(ctx, sessionID, "", func(rec *entity.ClaimRecord) error {
		return rec.RemoveReceipt()
	})
}

func (s *claimServiceImpl) Reset(ctx context.Context, sessionID string) (*ClaimView, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	err = session.Update(func(rec *entity.ClaimRecord) error {
		rec.Reset()
		// Invalidate any in-flight resolution for the cleared points
		session.BeginResolution()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Claim reset", "session_id", sessionID)
	if err := s.dispatcher.Dispatch(ctx, s.newEvent(ctx, event.TypeClaimReset, sessionID, nil)); err != nil {
		return nil, err
	}
	return s.view(session), nil
}

func (s *claimServiceImpl) Export(ctx context.Context, sessionID, format string) (*port.RenderedDocument, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = entity.FormatPDF
	}
	renderer, ok := s.renderers[format]
	if !ok {
		return nil, fmt.Errorf("%w: %q", entity.ErrUnsupportedDocument, format)
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	var rendered *port.RenderedDocument
	for attempt := 1; ; attempt++ {
		snap, revision := session.SnapshotRevision()
		rendered, err = s.render(ctx, renderer, sessionID, format, snap)
		if err != nil {
			return nil, err
		}

		// Lock only the revision that was rendered; an edit that landed
		// while rendering means the document is already out of date.
		exportedAt := s.now()
		err = session.UpdateIfRevision(revision, func(rec *entity.ClaimRecord) error {
			if !rec.IsExported() {
				rec.MarkExported(exportedAt)
			}
			return nil
		})
		if err == nil {
			break
		}
		if !errors.Is(err, entity.ErrClaimChanged) || attempt == maxExportAttempts {
			return nil, err
		}
		s.logger.Info("Claim changed while rendering, exporting again",
			"session_id", sessionID,
			"attempt", attempt,
		)
	}

	s.logger.Info("Claim exported",
		"session_id", sessionID,
		"format", format,
		"file_name", rendered.FileName,
		"size", len(rendered.Content),
		"warnings", len(rendered.Warnings),
	)

	s.dispatcher.DispatchAsync(ctx, s.newEvent(ctx, event.TypeClaimExported, sessionID, map[string]interface{}{
		event.KeyFormat:   format,
		event.KeyFileName: rendered.FileName,
		event.KeyContent:  rendered.Content,
	}))

	return rendered, nil
}

func (s *claimServiceImpl) render(ctx context.Context, renderer port.DocumentRenderer, sessionID, format string, snap *entity.ClaimRecord) (*port.RenderedDocument, error) {
	if snap.VehicleType.IsDistanceRated() && snap.Resolution == nil {
		return nil, fmt.Errorf("%w: origin and destination are required for %s", entity.ErrClaimIncomplete, snap.VehicleType)
	}

	breakdown, err := s.calculator.Breakdown(snap.VehicleType, snap.DistanceKm(), snap.TicketCost, snap.TaxiCost)
	if err != nil {
		return nil, err
	}

	doc := entity.NewClaimDocument(snap, breakdown, s.now())
	rendered, err := renderer.Render(ctx, doc)
	if err != nil {
		s.logger.Error("Failed to render claim document",
			"session_id", sessionID,
			"format", format,
			"error", err,
		)
		if !errors.Is(err, entity.ErrDocumentGeneration) {
			err = fmt.Errorf("%w: %v", entity.ErrDocumentGeneration, err)
		}
		return nil, err
	}
	return rendered, nil
}

func (s *claimServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return err
	}
	s.logger.Info("Claim session deleted", "session_id", sessionID)
	return nil
}

func (s *claimServiceImpl) ExpireIdle(ctx context.Context, cutoff time.Time) int {
	expired := s.sessions.Sweep(ctx, cutoff)
	for _, id := range expired {
		s.dispatcher.DispatchAsync(ctx, s.newEvent(ctx, event.TypeSessionExpired, id, nil))
	}
	if len(expired) > 0 {
		s.logger.Info("Expired idle claim sessions", "count", len(expired), "cutoff", cutoff)
	}
	return len(expired)
}

func (s *claimServiceImpl) Quote(ctx context.Context, req QuoteRequest) (*Quote, error) {
	if !req.VehicleType.IsValid() {
		return nil, fmt.Errorf("%w: %q", entity.ErrUnknownVehicleType, req.VehicleType)
	}

	q := &Quote{}
	if req.Origin != nil && req.Destination != nil {
		origin, err := s.points.Resolve(*req.Origin)
		if err != nil {
			return nil, err
		}
		destination, err := s.points.Resolve(*req.Destination)
		if err != nil {
			return nil, err
		}
		q.Resolution, err = s.distances.Resolve(ctx, origin.Location, destination.Location)
		if err != nil {
			return nil, err
		}
	} else if req.VehicleType.IsDistanceRated() {
		return nil, fmt.Errorf("%w: origin and destination are required for %s", entity.ErrClaimIncomplete, req.VehicleType)
	}

	var distanceKm float64
	if q.Resolution != nil {
		distanceKm = q.Resolution.DistanceKm
	}

	breakdown, err := s.calculator.Breakdown(req.VehicleType, distanceKm, req.TicketCost, req.TaxiCost)
	if err != nil {
		return nil, err
	}
	q.Breakdown = breakdown
	return q, nil
}

// mutate applies fn under the session lock and, when evtType is set,
// dispatches it so derived values are refreshed before the view is taken
func (s *claimServiceImpl) mutate(ctx context.Context, sessionID string, evtType event.Type, fn func(rec *entity.ClaimRecord) error) (*ClaimView, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if err := session.Update(fn); err != nil {
		return nil, err
	}

	if evtType != "" {
		if err := s.dispatcher.Dispatch(ctx, s.newEvent(ctx, evtType, sessionID, nil)); err != nil {
			s.logger.Error("Failed to process claim change",
				"session_id", sessionID,
				"event_type", evtType,
				"error", err,
			)
			return nil, err
		}
	}

	return s.view(session), nil
}

func (s *claimServiceImpl) newEvent(ctx context.Context, t event.Type, sessionID string, payload map[string]interface{}) *event.Event {
	return event.NewEventWithCorrelation(t, sessionID, payload, CorrelationID(ctx))
}

func (s *claimServiceImpl) view(session *entity.ClaimSession) *ClaimView {
	return &ClaimView{
		SessionID: session.ID,
		Record:    session.Snapshot(),
	}
}
