package document

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/teerapatzza/travel-claim/internal/domain/entity"
)

type memStorage struct {
	files map[string][]byte
}

func (m *memStorage) Save(ctx context.Context, path string, content []byte) error {
	m.files[path] = content
	return nil
}

func (m *memStorage) Read(ctx context.Context, path string) ([]byte, error) {
	b, ok := m.files[path]
	if !ok {
		return nil, fmt.Errorf("read %s: %w", path, os.ErrNotExist)
	}
	return b, nil
}

func (m *memStorage) Exists(ctx context.Context, path string) bool {
	_, ok := m.files[path]
	return ok
}

func (m *memStorage) Delete(ctx context.Context, path string) error {
	delete(m.files, path)
	return nil
}

func (m *memStorage) GetFullPath(relativePath string) string { return "/assets/" + relativePath }

func encodeImage(t *testing.T, w, h int, asJPEG bool) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: 80, B: 160, A: 255})
		}
	}
	var buf bytes.Buffer
	if asJPEG {
		require.NoError(t, jpeg.Encode(&buf, img, nil))
	} else {
		require.NoError(t, png.Encode(&buf, img))
	}
	return buf.Bytes()
}

func sampleDocument() *entity.ClaimDocument {
	origin := entity.Coordinate{Lat: 13.7367, Lng: 100.5232}
	dest := entity.Coordinate{Lat: 13.7466, Lng: 100.5390}
	return &entity.ClaimDocument{
		ClaimantName:    "Somchai Jaidee",
		Department:      entity.DefaultDepartment,
		Purpose:         "ประชุมประจำเดือน",
		IssuedAt:        time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC),
		VehicleType:     entity.VehicleCar,
		OriginName:      "สำนักงาน",
		DestinationName: "สยาม",
		Origin:          &origin,
		Destination:     &dest,
		Resolution: &entity.DistanceResolution{
			DistanceKm: 2.1,
			Path:       []entity.Coordinate{origin, {Lat: 13.74, Lng: 100.53}, dest},
		},
		Breakdown: entity.CostBreakdown{
			VehicleType:    entity.VehicleCar,
			RatePerKm:      5,
			DistanceKm:     2.1,
			DistanceAmount: 10.5,
			Total:          10.5,
		},
	}
}

func countPages(pdf []byte) int {
	return bytes.Count(pdf, []byte("/Type /Page\n"))
}

func TestPDFRenderer_WithoutAssets(t *testing.T) {
	r := NewPDFRenderer(NewAssets(&memStorage{files: map[string][]byte{}}, "fonts/Sarabun-Regular.ttf", "logo.png", nil), DefaultSketchStyle(), nil)
	assert.Equal(t, "pdf", r.Format())

	out, err := r.Render(context.Background(), sampleDocument())
	require.NoError(t, err)

	assert.Equal(t, "Travel_Claim_Somchai_Jaidee.pdf", out.FileName)
	assert.Equal(t, "application/pdf", out.ContentType)
	assert.True(t, bytes.HasPrefix(out.Content, []byte("%PDF-")))
	assert.Equal(t, 1, countPages(out.Content))

	require.Len(t, out.Warnings, 2, "font and logo are both reported")
	for _, w := range out.Warnings {
		assert.Contains(t, w, entity.ErrResourceMissing.Error())
	}
}

func TestPDFRenderer_LogoAndReceipt(t *testing.T) {
	storage := &memStorage{files: map[string][]byte{
		"logo.png": encodeImage(t, 40, 40, false),
	}}
	r := NewPDFRenderer(NewAssets(storage, "", "logo.png", nil), DefaultSketchStyle(), nil)

	doc := sampleDocument()
	doc.Receipt = &entity.ReceiptImage{
		FileName:    "slip.jpg",
		ContentType: "image/jpeg",
		Width:       120,
		Height:      240,
		Data:        encodeImage(t, 120, 240, true),
	}

	out, err := r.Render(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, 2, countPages(out.Content), "receipt gets its own page")
	require.Len(t, out.Warnings, 1)
	assert.Contains(t, out.Warnings[0], "font")
}

func TestPDFRenderer_EmbedsFont(t *testing.T) {
	storage := &memStorage{files: map[string][]byte{"fonts/body.ttf": goregular.TTF}}
	r := NewPDFRenderer(NewAssets(storage, "fonts/body.ttf", "", nil), DefaultSketchStyle(), nil)

	out, err := r.Render(context.Background(), sampleDocument())
	require.NoError(t, err)
	assert.True(t, bytes.Contains(out.Content, []byte("/FontFile2")), "font is embedded")
	require.Len(t, out.Warnings, 1)
	assert.Contains(t, out.Warnings[0], "logo")
}

func TestPDFRenderer_CorruptFontFallsBack(t *testing.T) {
	for name, font := range map[string][]byte{
		"not a font": []byte("this file is not a TrueType font at all"),
		"truncated":  goregular.TTF[:64],
	} {
		t.Run(name, func(t *testing.T) {
			storage := &memStorage{files: map[string][]byte{"fonts/body.ttf": font}}
			r := NewPDFRenderer(NewAssets(storage, "fonts/body.ttf", "", nil), DefaultSketchStyle(), nil)

			out, err := r.Render(context.Background(), sampleDocument())
			require.NoError(t, err)
			assert.True(t, bytes.HasPrefix(out.Content, []byte("%PDF-")))
			assert.Equal(t, 1, countPages(out.Content))
			assert.False(t, bytes.Contains(out.Content, []byte("/FontFile2")))

			require.Len(t, out.Warnings, 2)
			assert.Contains(t, out.Warnings[0], entity.ErrResourceMissing.Error())
			assert.Contains(t, out.Warnings[0], "font")
		})
	}
}

func TestPDFRenderer_FallbackAndActualCost(t *testing.T) {
	r := NewPDFRenderer(nil, DefaultSketchStyle(), nil)

	fallback := sampleDocument()
	fallback.Resolution.IsFallback = true
	fallback.Resolution.Path = []entity.Coordinate{*fallback.Origin, *fallback.Destination}
	_, err := r.Render(context.Background(), fallback)
	require.NoError(t, err)

	plane := &entity.ClaimDocument{
		IssuedAt:    time.Now(),
		VehicleType: entity.VehiclePlane,
		Breakdown:   entity.CostBreakdown{VehicleType: entity.VehiclePlane, TicketCost: 1500, TaxiCost: 300, Total: 1800},
	}
	out, err := r.Render(context.Background(), plane)
	require.NoError(t, err)
	assert.Equal(t, "Travel_Claim_Report.pdf", out.FileName)

	_, err = r.Render(context.Background(), nil)
	assert.ErrorIs(t, err, entity.ErrDocumentGeneration)
}

func TestPDFRenderer_BrokenReceipt(t *testing.T) {
	r := NewPDFRenderer(nil, DefaultSketchStyle(), nil)
	doc := sampleDocument()
	doc.Receipt = &entity.ReceiptImage{Data: []byte("not a jpeg"), Width: 10, Height: 10}

	_, err := r.Render(context.Background(), doc)
	assert.ErrorIs(t, err, entity.ErrDocumentGeneration)
}

func TestXLSXRenderer_Render(t *testing.T) {
	r := NewXLSXRenderer("TH Sarabun New", nil)
	assert.Equal(t, "xlsx", r.Format())

	doc := sampleDocument()
	doc.Receipt = &entity.ReceiptImage{FileName: "slip.jpg", Width: 80, Height: 60, Data: encodeImage(t, 80, 60, true)}

	out, err := r.Render(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, "Travel_Claim_Somchai_Jaidee.xlsx", out.FileName)

	f, err := excelize.OpenReader(bytes.NewReader(out.Content))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{thaiLabels.SheetClaim, thaiLabels.SheetReceipt}, f.GetSheetList())

	sheet := thaiLabels.SheetClaim
	title, err := f.GetCellValue(sheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, thaiLabels.Title, title)

	date, _ := f.GetCellValue(sheet, "B3")
	assert.Equal(t, "15 มีนาคม 2567", date)

	name, _ := f.GetCellValue(sheet, "B4")
	assert.Equal(t, "Somchai Jaidee", name)

	label, _ := f.GetCellValue(sheet, "A13")
	assert.True(t, strings.HasPrefix(label, thaiLabels.Total))
	total, _ := f.GetCellValue(sheet, "B13", excelize.Options{RawCellValue: true})
	assert.Equal(t, "10.5", total)

	pics, err := f.GetPictures(thaiLabels.SheetReceipt, "A3")
	require.NoError(t, err)
	assert.Len(t, pics, 1)
}

func TestProjectPath(t *testing.T) {
	b := box{X: 10, Y: 100, W: 180, H: 90}
	style := DefaultSketchStyle()

	path := []entity.Coordinate{
		{Lat: 13.70, Lng: 100.50},
		{Lat: 13.75, Lng: 100.55},
		{Lat: 13.80, Lng: 100.60},
	}
	pts := projectPath(path, b, style)
	require.Len(t, pts, 3)

	for _, p := range pts {
		assert.GreaterOrEqual(t, p.X, b.X+style.Padding-1e-9)
		assert.LessOrEqual(t, p.X, b.X+b.W-style.Padding+1e-9)
		assert.GreaterOrEqual(t, p.Y, b.Y+style.Padding-1e-9)
		assert.LessOrEqual(t, p.Y, b.Y+b.H-style.Padding+1e-9)
	}
	assert.Greater(t, pts[0].Y, pts[2].Y, "north is up")
	assert.Less(t, pts[0].X, pts[2].X)

	assert.Empty(t, projectPath(nil, b, style))

	single := projectPath(path[:1], b, style)
	require.Len(t, single, 1)
	assert.InDelta(t, b.X+b.W/2, single[0].X, 1e-9)
}

func TestProjectPath_SimplifiesLongPaths(t *testing.T) {
	style := DefaultSketchStyle()
	style.MaxPathPoints = 10

	var path []entity.Coordinate
	for i := 0; i < 200; i++ {
		path = append(path, entity.Coordinate{Lat: 13.7 + float64(i)*0.0005, Lng: 100.5 + float64(i)*0.0005})
	}
	pts := projectPath(path, box{W: 100, H: 100}, style)
	assert.Less(t, len(pts), 200)
	assert.GreaterOrEqual(t, len(pts), 2)
}

func TestFormatting(t *testing.T) {
	day := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "15 มีนาคม 2567", formatDate(day, true))
	assert.Equal(t, "15 March 2024", formatDate(day, false))

	assert.Equal(t, "1,234.50", formatAmount(1234.5))
	assert.Equal(t, "0.00", formatAmount(0))

	assert.Equal(t, "Caf\xe9 ?", toLatin1("Café ก"))

	assert.Equal(t, "Report", safeFileName("  "))
	assert.Equal(t, "a_b_c", safeFileName("a/b c"))
	assert.Equal(t, "Travel_Claim_สมชาย.pdf", fileName("สมชาย", "pdf"))
}
