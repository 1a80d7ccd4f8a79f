package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/teerapatzza/travel-claim/internal/application/service"
	"github.com/teerapatzza/travel-claim/internal/config"
	"github.com/teerapatzza/travel-claim/internal/container"
	"github.com/teerapatzza/travel-claim/internal/domain/entity"
)

func startTestContainer(t *testing.T) *container.Container {
	t.Helper()
	cfg, err := config.Default()
	require.NoError(t, err)
	cfg.Routing.Enabled = false
	cfg.Document.AssetsDir = t.TempDir()

	app, err := container.NewContainer(cfg.ToContainerConfig(), zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, app.Start(context.Background()))
	t.Cleanup(func() { _ = app.Close() })
	return app
}

func TestParsePoint(t *testing.T) {
	sel, err := parsePoint("office")
	require.NoError(t, err)
	assert.Equal(t, entity.ChannelPlace, sel.Channel)
	assert.Equal(t, "office", sel.PlaceID)

	sel, err = parsePoint(" 13.7462, 100.5347 ")
	require.NoError(t, err)
	assert.Equal(t, entity.ChannelClick, sel.Channel)
	require.NotNil(t, sel.Location)
	assert.Equal(t, 13.7462, sel.Location.Lat)
	assert.Equal(t, 100.5347, sel.Location.Lng)

	sel, err = parsePoint("")
	require.NoError(t, err)
	assert.Nil(t, sel)

	_, err = parsePoint("north,100")
	assert.ErrorIs(t, err, entity.ErrInvalidCoordinate)

	_, err = parsePoint("95,100")
	assert.ErrorIs(t, err, entity.ErrInvalidCoordinate)
}

func TestReadClaimFile(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "claim.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("claimant_name: Somchai\nvehicle_type: taxi\ntaxi_cost: 250\n"), 0o644))
	claim, err := readClaimFile(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, "Somchai", claim.ClaimantName)
	assert.Equal(t, "taxi", claim.VehicleType)
	assert.Equal(t, 250.0, claim.TaxiCost)

	jsonPath := filepath.Join(dir, "claim.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"claimant_name":"Malee","origin":"office","destination":"siam"}`), 0o644))
	claim, err = readClaimFile(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, "Malee", claim.ClaimantName)
	assert.Equal(t, "siam", claim.Destination)

	_, err = readClaimFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestRenderClaim(t *testing.T) {
	app := startTestContainer(t)
	ctx := context.Background()

	claim := &claimFile{
		ClaimantName: "Somchai",
		Purpose:      "ประชุม",
		VehicleType:  "car",
		Origin:       "office",
		Destination:  "13.7462,100.5347",
	}

	doc, err := renderClaim(ctx, app.ClaimService(), claim, ".", entity.FormatXLSX)
	require.NoError(t, err)
	assert.Equal(t, "Travel_Claim_Somchai.xlsx", doc.FileName)
	assert.NotEmpty(t, doc.Content)

	// the replay session is removed afterwards
	health := app.Health()
	assert.Equal(t, "active: 0", health.Components["sessions"].Message)
}

func TestRenderClaim_Errors(t *testing.T) {
	app := startTestContainer(t)
	ctx := context.Background()

	_, err := renderClaim(ctx, app.ClaimService(), &claimFile{VehicleType: "car"}, ".", entity.FormatPDF)
	assert.ErrorIs(t, err, entity.ErrClaimIncomplete)

	_, err = renderClaim(ctx, app.ClaimService(), &claimFile{VehicleType: "boat"}, ".", entity.FormatPDF)
	assert.ErrorIs(t, err, entity.ErrUnknownVehicleType)

	_, err = renderClaim(ctx, app.ClaimService(), &claimFile{Origin: "nowhere"}, ".", entity.FormatPDF)
	assert.ErrorIs(t, err, entity.ErrPlaceNotFound)

	_, err = renderClaim(ctx, app.ClaimService(), &claimFile{VehicleType: "taxi", Receipt: "missing.jpg"}, t.TempDir(), entity.FormatPDF)
	assert.Error(t, err)
}

func TestPrintQuote(t *testing.T) {
	var buf bytes.Buffer
	printQuote(&buf, &service.Quote{
		Resolution: &entity.DistanceResolution{DistanceKm: 12.5, IsFallback: true},
		Breakdown: entity.CostBreakdown{
			VehicleType:    entity.VehicleCar,
			RatePerKm:      5,
			DistanceKm:     12.5,
			DistanceAmount: 62.5,
			Total:          62.5,
		},
	})

	out := buf.String()
	assert.Contains(t, out, "Private car")
	assert.Contains(t, out, "12.50 km (straight line)")
	assert.Contains(t, out, "Total:     62.50 THB")
}
