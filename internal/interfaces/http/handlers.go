package http

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/teerapatzza/travel-claim/internal/application/port"
	"github.com/teerapatzza/travel-claim/internal/application/service"
	"github.com/teerapatzza/travel-claim/internal/domain/entity"
)

// WarningsHeader lists degraded document resources, separated by "; "
const WarningsHeader = "X-Document-Warnings"

// Handlers contains all HTTP request handlers
type Handlers struct {
	claims         service.ClaimService
	places         port.PlaceCatalog
	health         HealthFunc
	maxUploadBytes int64
	logger         Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(
	claims service.ClaimService,
	places port.PlaceCatalog,
	health HealthFunc,
	maxUploadBytes int64,
	logger Logger,
) *Handlers {
	return &Handlers{
		claims:         claims,
		places:         places,
		health:         health,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   "1.0.0",
	}

	status := http.StatusOK
	if h.health != nil {
		healthy, details := h.health()
		response.Components = details
		if !healthy {
			response.Status = "unhealthy"
			status = http.StatusServiceUnavailable
		}
	}

	c.JSON(status, Response{
		Success: status == http.StatusOK,
		Data:    response,
	})
}

// ListPlaces handles GET /api/places
func (h *Handlers) ListPlaces(c *gin.Context) {
	places := []entity.Place{}
	if h.places != nil {
		places = h.places.List()
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    places,
	})
}

// Quote handles POST /api/quote
func (h *Handlers) Quote(c *gin.Context) {
	var req QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid quote request", err)
		return
	}

	vehicle, err := entity.ParseVehicleType(req.VehicleType)
	if err != nil {
		h.writeError(c, "invalid vehicle type", err)
		return
	}

	qr := service.QuoteRequest{
		VehicleType: vehicle,
		TicketCost:  req.TicketCost,
		TaxiCost:    req.TaxiCost,
	}
	if req.Origin != nil {
		sel := req.Origin.toPointSelection()
		qr.Origin = &sel
	}
	if req.Destination != nil {
		sel := req.Destination.toPointSelection()
		qr.Destination = &sel
	}

	quote, err := h.claims.Quote(c.Request.Context(), qr)
	if err != nil {
		h.writeError(c, "failed to compute quote", err)
		return
	}

	resp := QuoteResponse{Breakdown: quote.Breakdown}
	if quote.Resolution != nil {
		resp.DistanceKm = quote.Resolution.DistanceKm
		resp.IsFallback = quote.Resolution.IsFallback
		resp.Path = quote.Resolution.Path
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    resp,
	})
}

// StartClaim handles POST /api/claims
func (h *Handlers) StartClaim(c *gin.Context) {
	var req StartClaimRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.badRequest(c, "invalid claim request", err)
			return
		}
	}

	view, err := h.claims.StartSession(c.Request.Context(), req.Department)
	if err != nil {
		h.writeError(c, "failed to start claim", err)
		return
	}

	h.logger.Info("Claim session started", "session_id", view.SessionID)
	c.JSON(http.StatusCreated, Response{
		Success: true,
		Data:    toClaimResponse(view),
	})
}

// GetClaim handles GET /api/claims/:id
func (h *Handlers) GetClaim(c *gin.Context) {
	view, err := h.claims.GetClaim(c.Request.Context(), c.Param("id"))
	h.respondClaim(c, view, err, "failed to get claim")
}

// DeleteClaim handles DELETE /api/claims/:id
func (h *Handlers) DeleteClaim(c *gin.Context) {
	if err := h.claims.DeleteSession(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, "failed to delete claim", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UpdateDetails handles PATCH /api/claims/:id/details
func (h *Handlers) UpdateDetails(c *gin.Context) {
	var req DetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid details", err)
		return
	}

	view, err := h.claims.UpdateDetails(c.Request.Context(), c.Param("id"), service.ClaimDetails{
		ClaimantName: req.ClaimantName,
		Department:   req.Department,
		Purpose:      req.Purpose,
	})
	h.respondClaim(c, view, err, "failed to update details")
}

// SetVehicle handles PUT /api/claims/:id/vehicle
func (h *Handlers) SetVehicle(c *gin.Context) {
	var req VehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid vehicle type", err)
		return
	}

	vehicle, err := entity.ParseVehicleType(req.VehicleType)
	if err != nil {
		h.writeError(c, "invalid vehicle type", err)
		return
	}

	view, err := h.claims.SetVehicleType(c.Request.Context(), c.Param("id"), vehicle)
	h.respondClaim(c, view, err, "failed to set vehicle type")
}

// SetCosts handles PUT /api/claims/:id/costs
func (h *Handlers) SetCosts(c *gin.Context) {
	var req CostsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid costs", err)
		return
	}

	view, err := h.claims.SetCosts(c.Request.Context(), c.Param("id"), req.TicketCost, req.TaxiCost)
	h.respondClaim(c, view, err, "failed to set costs")
}

// MapClick handles POST /api/claims/:id/map-click
func (h *Handlers) MapClick(c *gin.Context) {
	var req LocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid location", err)
		return
	}

	loc := entity.Coordinate{Lat: *req.Lat, Lng: *req.Lng}
	view, err := h.claims.MapClick(c.Request.Context(), c.Param("id"), loc)
	h.respondClaim(c, view, err, "failed to apply map click")
}

// SelectPoint handles PUT /api/claims/:id/points/:role
func (h *Handlers) SelectPoint(c *gin.Context) {
	role, err := entity.ParsePointRole(c.Param("role"))
	if err != nil {
		h.writeError(c, "invalid point role", err)
		return
	}

	var req PointRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid point", err)
		return
	}

	view, err := h.claims.SelectPoint(c.Request.Context(), c.Param("id"), role, req.toPointSelection())
	h.respondClaim(c, view, err, "failed to select point")
}

// AttachReceipt handles POST /api/claims/:id/receipt (multipart field "file")
func (h *Handlers) AttachReceipt(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		h.badRequest(c, "receipt file is required", err)
		return
	}
	if h.maxUploadBytes > 0 && header.Size > h.maxUploadBytes {
		h.writeError(c, "receipt rejected", fmt.Errorf("%w: %d bytes", entity.ErrReceiptTooLarge, header.Size))
		return
	}

	f, err := header.Open()
	if err != nil {
		h.writeError(c, "failed to read receipt", err)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		h.writeError(c, "failed to read receipt", err)
		return
	}

	view, err := h.claims.AttachReceipt(c.Request.Context(), c.Param("id"), header.Filename, data)
	h.respondClaim(c, view, err, "failed to attach receipt")
}

// RemoveReceipt handles DELETE /api/claims/:id/receipt
func (h *Handlers) RemoveReceipt(c *gin.Context) {
	view, err := h.claims.RemoveReceipt(c.Request.Context(), c.Param("id"))
	h.respondClaim(c, view, err, "failed to remove receipt")
}

// Reset handles POST /api/claims/:id/reset
func (h *Handlers) Reset(c *gin.Context) {
	view, err := h.claims.Reset(c.Request.Context(), c.Param("id"))
	h.respondClaim(c, view, err, "failed to reset claim")
}

// Export handles GET /api/claims/:id/export?format=pdf|xlsx
func (h *Handlers) Export(c *gin.Context) {
	format := c.DefaultQuery("format", entity.FormatPDF)

	doc, err := h.claims.Export(c.Request.Context(), c.Param("id"), format)
	if err != nil {
		h.writeError(c, "document generation failed", err)
		return
	}

	if len(doc.Warnings) > 0 {
		c.Header(WarningsHeader, strings.Join(doc.Warnings, "; "))
	}
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": doc.FileName}))
	c.Data(http.StatusOK, doc.ContentType, doc.Content)
}

func (h *Handlers) respondClaim(c *gin.Context, view *service.ClaimView, err error, msg string) {
	if err != nil {
		h.writeError(c, msg, err)
		return
	}
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    toClaimResponse(view),
	})
}
