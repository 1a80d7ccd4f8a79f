package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/teerapatzza/travel-claim/internal/application/dispatcher"
	"github.com/teerapatzza/travel-claim/internal/application/port"
	"github.com/teerapatzza/travel-claim/internal/application/service"
	"github.com/teerapatzza/travel-claim/internal/domain/entity"
	"github.com/teerapatzza/travel-claim/internal/domain/reimbursement"
	"github.com/teerapatzza/travel-claim/internal/infrastructure/catalog"
	"github.com/teerapatzza/travel-claim/internal/infrastructure/receipt"
	"github.com/teerapatzza/travel-claim/internal/infrastructure/session"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type stubRenderer struct {
	format   string
	warnings []string
	err      error
}

func (r *stubRenderer) Format() string { return r.format }

func (r *stubRenderer) Render(_ context.Context, doc *entity.ClaimDocument) (*port.RenderedDocument, error) {
	if r.err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrDocumentGeneration, r.err)
	}
	return &port.RenderedDocument{
		FileName:    "Travel_Claim_" + doc.ClaimantName + "." + r.format,
		ContentType: "application/octet-stream",
		Content:     []byte("rendered " + r.format),
		Warnings:    r.warnings,
	}, nil
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

type testServer struct {
	t      *testing.T
	router http.Handler
	xlsx   *stubRenderer
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	disp := dispatcher.NewDispatcher()
	t.Cleanup(func() { _ = disp.Close() })

	store := session.NewMemoryStore(zap.NewNop())
	calc := reimbursement.NewCalculator(reimbursement.DefaultRates())
	distances := service.NewDistanceService(nil, time.Second, nopLogger{})
	service.NewRecalculator(store, distances, calc, nopLogger{}).Register(disp)

	places := catalog.Builtin()
	pdf := &stubRenderer{format: entity.FormatPDF, warnings: []string{"resource missing: font"}}
	xlsx := &stubRenderer{format: entity.FormatXLSX}

	claims, err := service.NewClaimService(service.ClaimServiceDeps{
		Sessions:   store,
		Points:     service.NewPointResolver(places, 0.2),
		Distances:  distances,
		Calculator: calc,
		Receipts:   receipt.NewEncoder(receipt.Config{MaxBytes: 1 << 20}, zap.NewNop()),
		Renderers:  []port.DocumentRenderer{pdf, xlsx},
		Dispatcher: disp,
		Logger:     nopLogger{},
	})
	require.NoError(t, err)

	cfg := DefaultServerConfig()
	cfg.MaxUploadBytes = 1 << 20
	health := func() (bool, interface{}) { return true, map[string]string{"sessions": "ok"} }

	srv, err := NewServer(cfg, claims, places, health, nopLogger{})
	require.NoError(t, err)

	return &testServer{t: t, router: srv.Router(), xlsx: xlsx}
}

func (s *testServer) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	s.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) upload(path, fileName string, content []byte) *httptest.ResponseRecorder {
	s.t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", fileName)
	require.NoError(s.t, err)
	_, err = part.Write(content)
	require.NoError(s.t, err)
	require.NoError(s.t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decodeClaim(t *testing.T, w *httptest.ResponseRecorder) ClaimResponse {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	require.True(t, env.Success, env.Error)

	var claim ClaimResponse
	require.NoError(t, json.Unmarshal(env.Data, &claim))
	return claim
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	assert.False(t, env.Success)
	return env.Error
}

func (s *testServer) startClaim() ClaimResponse {
	s.t.Helper()
	w := s.do(http.MethodPost, "/api/claims", nil)
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	return decodeClaim(s.t, w)
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 40, 30))
	for x := 0; x < 40; x++ {
		img.Set(x, 10, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestHealthCheck(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"healthy"`)
	assert.Contains(t, w.Body.String(), `"sessions":"ok"`)
}

func TestListPlaces(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/api/places", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	var places []entity.Place
	require.NoError(t, json.Unmarshal(env.Data, &places))
	assert.Len(t, places, 7)
}

func TestRequestIDAndCORS(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	assert.Equal(t, "req-123", w.Header().Get(RequestIDHeader))
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	w = s.do(http.MethodGet, "/health", nil)
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	w = s.do(http.MethodOptions, "/api/claims", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestClaimFlow_MapClicksToExport(t *testing.T) {
	s := newTestServer(t)
	claim := s.startClaim()
	base := "/api/claims/" + claim.SessionID

	assert.Equal(t, "CAR", claim.VehicleType)
	assert.Equal(t, entity.DefaultDepartment, claim.Department)

	w := s.do(http.MethodPatch, base+"/details", DetailsRequest{ClaimantName: "Somchai", Purpose: "ประชุม"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Somchai", decodeClaim(t, w).ClaimantName)

	w = s.do(http.MethodPost, base+"/map-click", map[string]float64{"lat": 13.7367, "lng": 100.5232})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = s.do(http.MethodPost, base+"/map-click", map[string]float64{"lat": 13.7462, "lng": 100.5347})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	claim = decodeClaim(t, w)
	require.NotNil(t, claim.Origin)
	require.NotNil(t, claim.Destination)
	assert.True(t, claim.IsFallback)
	assert.Greater(t, claim.DistanceKm, 0.0)
	assert.InDelta(t, claim.DistanceKm*5, claim.TotalAmount, 0.01)

	w = s.do(http.MethodGet, base+"/export?format=pdf", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "rendered pdf", w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Disposition"), "Travel_Claim_Somchai.pdf")
	assert.Equal(t, "resource missing: font", w.Header().Get(WarningsHeader))

	w = s.do(http.MethodPut, base+"/costs", CostsRequest{TicketCost: 100})
	assert.Equal(t, http.StatusConflict, w.Code)
	decodeError(t, w)

	w = s.do(http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decodeClaim(t, w).Exported)

	w = s.do(http.MethodPost, base+"/reset", nil)
	require.Equal(t, http.StatusOK, w.Code)
	claim = decodeClaim(t, w)
	assert.False(t, claim.Exported)
	assert.Nil(t, claim.Origin)
	assert.Zero(t, claim.TotalAmount)
}

func TestClaimFlow_ActualCostVehicle(t *testing.T) {
	s := newTestServer(t)
	base := "/api/claims/" + s.startClaim().SessionID

	w := s.do(http.MethodPut, base+"/vehicle", VehicleRequest{VehicleType: "plane"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "PLANE", decodeClaim(t, w).VehicleType)

	w = s.do(http.MethodPut, base+"/costs", CostsRequest{TicketCost: 1500, TaxiCost: 300})
	require.Equal(t, http.StatusOK, w.Code)
	assert.InDelta(t, 1800.0, decodeClaim(t, w).TotalAmount, 1e-9)

	w = s.do(http.MethodPut, base+"/vehicle", VehicleRequest{VehicleType: "rocket"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSelectPoint(t *testing.T) {
	s := newTestServer(t)
	base := "/api/claims/" + s.startClaim().SessionID

	w := s.do(http.MethodPut, base+"/points/origin", PointRequest{Channel: "place", PlaceID: "office"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	claim := decodeClaim(t, w)
	require.NotNil(t, claim.Origin)
	assert.Equal(t, "office", claim.Origin.PlaceID)

	lat, lng := 13.7462, 100.5347
	w = s.do(http.MethodPut, base+"/points/destination", PointRequest{Channel: "drag", Lat: &lat, Lng: &lng})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Greater(t, decodeClaim(t, w).DistanceKm, 0.0)

	tests := []struct {
		name   string
		path   string
		body   interface{}
		status int
	}{
		{"unknown place", base + "/points/origin", PointRequest{Channel: "place", PlaceID: "nowhere"}, http.StatusNotFound},
		{"bad role", base + "/points/middle", PointRequest{Channel: "place", PlaceID: "office"}, http.StatusBadRequest},
		{"place without id", base + "/points/origin", PointRequest{Channel: "place"}, http.StatusBadRequest},
		{"bad channel", base + "/points/origin", map[string]string{"channel": "teleport"}, http.StatusBadRequest},
		{"latitude out of range", base + "/map-click", map[string]float64{"lat": 91, "lng": 100}, http.StatusBadRequest},
		{"missing location", base + "/map-click", map[string]float64{}, http.StatusBadRequest},
		{"unknown session", "/api/claims/missing/points/origin", PointRequest{Channel: "place", PlaceID: "office"}, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			method := http.MethodPut
			if tt.path == base+"/map-click" {
				method = http.MethodPost
			}
			w := s.do(method, tt.path, tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}
}

func TestExportErrors(t *testing.T) {
	s := newTestServer(t)
	base := "/api/claims/" + s.startClaim().SessionID

	w := s.do(http.MethodGet, base+"/export", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	s.do(http.MethodPut, base+"/points/origin", PointRequest{Channel: "place", PlaceID: "office"})
	s.do(http.MethodPut, base+"/points/destination", PointRequest{Channel: "place", PlaceID: "siam"})

	w = s.do(http.MethodGet, base+"/export?format=docx", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	s.xlsx.err = fmt.Errorf("disk full")
	w = s.do(http.MethodGet, base+"/export?format=xlsx", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "document generation failed", decodeError(t, w))

	// a failed export leaves the claim editable
	w = s.do(http.MethodPut, base+"/costs", CostsRequest{TaxiCost: 50})
	assert.Equal(t, http.StatusOK, w.Code)

	s.xlsx.err = nil
	w = s.do(http.MethodGet, base+"/export?format=xlsx", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get(WarningsHeader))
}

func TestReceiptUpload(t *testing.T) {
	s := newTestServer(t)
	base := "/api/claims/" + s.startClaim().SessionID

	w := s.upload(base+"/receipt", "receipt.png", pngBytes(t))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	claim := decodeClaim(t, w)
	require.NotNil(t, claim.Receipt)
	assert.Equal(t, 40, claim.Receipt.Width)

	w = s.upload(base+"/receipt", "notes.txt", []byte("just text"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, base+"/receipt", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodDelete, base+"/receipt", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, decodeClaim(t, w).Receipt)
}

func TestDeleteClaim(t *testing.T) {
	s := newTestServer(t)
	base := "/api/claims/" + s.startClaim().SessionID

	w := s.do(http.MethodDelete, base, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = s.do(http.MethodGet, base, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestQuote(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/api/quote", QuoteRequest{
		VehicleType: "motorcycle",
		Origin:      &PointRequest{Channel: "place", PlaceID: "office"},
		Destination: &PointRequest{Channel: "place", PlaceID: "siam"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	var quote QuoteResponse
	require.NoError(t, json.Unmarshal(env.Data, &quote))
	assert.True(t, quote.IsFallback)
	assert.Equal(t, entity.VehicleMotorcycle, quote.Breakdown.VehicleType)
	assert.InDelta(t, quote.DistanceKm*2, quote.Breakdown.Total, 0.01)

	w = s.do(http.MethodPost, "/api/quote", QuoteRequest{VehicleType: "CAR"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = s.do(http.MethodPost, "/api/quote", QuoteRequest{VehicleType: "taxi", TaxiCost: 250})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":250`)

	w = s.do(http.MethodPost, "/api/quote", QuoteRequest{VehicleType: "boat"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{entity.ErrSessionNotFound, http.StatusNotFound},
		{fmt.Errorf("wrap: %w", entity.ErrPlaceNotFound), http.StatusNotFound},
		{entity.ErrInvalidCoordinate, http.StatusBadRequest},
		{entity.ErrNotAnImage, http.StatusBadRequest},
		{entity.ErrReceiptTooLarge, http.StatusRequestEntityTooLarge},
		{entity.ErrClaimExported, http.StatusConflict},
		{fmt.Errorf("export: %w", entity.ErrClaimChanged), http.StatusConflict},
		{entity.ErrClaimIncomplete, http.StatusUnprocessableEntity},
		{entity.ErrDocumentGeneration, http.StatusInternalServerError},
		{fmt.Errorf("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.status, statusFor(tt.err), tt.err.Error())
	}
}
