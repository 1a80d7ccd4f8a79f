package document

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/teerapatzza/travel-claim/internal/application/port"
	"github.com/teerapatzza/travel-claim/internal/domain/entity"
)

const amountFormat = "#,##0.00"

// XLSXRenderer renders claims as a workbook for accounting import.
// Spreadsheet apps supply fonts, so labels are always Thai.
type XLSXRenderer struct {
	fontName string
	logger   *zap.Logger
}

var _ port.DocumentRenderer = (*XLSXRenderer)(nil)

// NewXLSXRenderer creates an XLSX renderer. fontName sets the workbook default font.
func NewXLSXRenderer(fontName string, logger *zap.Logger) *XLSXRenderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &XLSXRenderer{fontName: fontName, logger: logger}
}

// Format implements port.DocumentRenderer
func (r *XLSXRenderer) Format() string {
	return entity.FormatXLSX
}

// sheetWriter records the first error so cell writes read linearly
type sheetWriter struct {
	f     *excelize.File
	sheet string
	row   int
	err   error
}

func (s *sheetWriter) set(cell string, v interface{}) {
	if s.err != nil {
		return
	}
	if err := s.f.SetCellValue(s.sheet, cell, v); err != nil {
		s.err = fmt.Errorf("set %s: %w", cell, err)
	}
}

func (s *sheetWriter) style(from, to string, id int) {
	if s.err != nil {
		return
	}
	if err := s.f.SetCellStyle(s.sheet, from, to, id); err != nil {
		s.err = fmt.Errorf("style %s:%s: %w", from, to, err)
	}
}

// line writes label in column A and value in column B of the next row
func (s *sheetWriter) line(label string, value interface{}) string {
	s.row++
	s.set(fmt.Sprintf("A%d", s.row), label)
	cell := fmt.Sprintf("B%d", s.row)
	s.set(cell, value)
	return cell
}

// Render implements port.DocumentRenderer
func (r *XLSXRenderer) Render(ctx context.Context, doc *entity.ClaimDocument) (*port.RenderedDocument, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: nothing to render", entity.ErrDocumentGeneration)
	}

	l := thaiLabels
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			r.logger.Warn("Failed to close workbook", zap.Error(err))
		}
	}()

	var warnings []string
	if r.fontName != "" {
		if err := f.SetDefaultFont(r.fontName); err != nil {
			warnings = append(warnings, fmt.Sprintf("%v: font %s: %v", entity.ErrResourceMissing, r.fontName, err))
			r.logger.Warn("Failed to set workbook font", zap.String("font", r.fontName), zap.Error(err))
		}
	}

	if err := r.fill(f, doc, l); err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrDocumentGeneration, err)
	}

	if doc.Receipt != nil && len(doc.Receipt.Data) > 0 {
		if err := r.addReceipt(f, doc.Receipt, l); err != nil {
			return nil, fmt.Errorf("%w: receipt: %v", entity.ErrDocumentGeneration, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrDocumentGeneration, err)
	}

	return &port.RenderedDocument{
		FileName:    fileName(doc.ClaimantName, "xlsx"),
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Content:     buf.Bytes(),
		Warnings:    warnings,
	}, nil
}

func (r *XLSXRenderer) fill(f *excelize.File, doc *entity.ClaimDocument, l labels) error {
	if err := f.SetSheetName("Sheet1", l.SheetClaim); err != nil {
		return err
	}
	if err := f.SetDocProps(&excelize.DocProperties{
		Title:   l.Title,
		Creator: "Travel Claim System",
		Created: doc.IssuedAt.UTC().Format(time.RFC3339),
	}); err != nil {
		return err
	}
	if err := f.SetColWidth(l.SheetClaim, "A", "A", 22); err != nil {
		return err
	}
	if err := f.SetColWidth(l.SheetClaim, "B", "B", 48); err != nil {
		return err
	}

	titleStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 16}})
	if err != nil {
		return err
	}
	amountFmt := amountFormat
	amountStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &amountFmt})
	if err != nil {
		return err
	}
	totalStyle, err := f.NewStyle(&excelize.Style{
		Font:         &excelize.Font{Bold: true, Size: 14, Color: "003296"},
		Fill:         excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"E6F0FF"}},
		CustomNumFmt: &amountFmt,
	})
	if err != nil {
		return err
	}

	s := &sheetWriter{f: f, sheet: l.SheetClaim}
	s.row = 1
	s.set("A1", l.Title)
	s.style("A1", "A1", titleStyle)
	s.row++

	s.line(l.Date, formatDate(doc.IssuedAt, true))
	s.line(l.Claimant, orDash(doc.ClaimantName))
	s.line(l.Department, orDash(doc.Department))
	s.line(l.Purpose, orDash(doc.Purpose))
	s.line(l.Vehicle, doc.VehicleType.Label(true))

	if doc.Origin != nil && doc.Destination != nil {
		s.line(l.Route, fmt.Sprintf("%s -> %s", placeName(doc.OriginName, *doc.Origin), placeName(doc.DestinationName, *doc.Destination)))
	}
	if doc.Resolution != nil {
		note := l.RoutedNote
		if doc.Resolution.IsFallback {
			note = l.FallbackNote
		}
		cell := s.line(fmt.Sprintf("%s (%s) %s", l.Distance, l.Kilometres, note), round2(doc.Resolution.DistanceKm))
		s.style(cell, cell, amountStyle)
	}

	b := doc.Breakdown
	if doc.VehicleType.IsDistanceRated() {
		cell := s.line(fmt.Sprintf("%s (%s)", l.Rate, l.PerKilometre), b.RatePerKm)
		s.style(cell, cell, amountStyle)
		cell = s.line(l.DistanceCost, b.DistanceAmount)
		s.style(cell, cell, amountStyle)
	} else {
		if doc.VehicleType == entity.VehiclePlane {
			cell := s.line(l.TicketCost, b.TicketCost)
			s.style(cell, cell, amountStyle)
		}
		cell := s.line(l.TaxiCost, b.TaxiCost)
		s.style(cell, cell, amountStyle)
	}

	s.row++
	cell := s.line(fmt.Sprintf("%s (%s)", l.Total, l.Currency), b.Total)
	s.style(fmt.Sprintf("A%d", s.row), cell, totalStyle)

	s.row++
	s.line("", l.Footer)
	return s.err
}

func (r *XLSXRenderer) addReceipt(f *excelize.File, receipt *entity.ReceiptImage, l labels) error {
	if _, err := f.NewSheet(l.SheetReceipt); err != nil {
		return err
	}
	if err := f.SetCellValue(l.SheetReceipt, "A1", l.ReceiptTitle); err != nil {
		return err
	}

	// keep the picture around 600 px wide
	scale := 1.0
	if receipt.Width > 600 {
		scale = 600 / float64(receipt.Width)
	}
	return f.AddPictureFromBytes(l.SheetReceipt, "A3", &excelize.Picture{
		Extension: ".jpg",
		File:      receipt.Data,
		Format: &excelize.GraphicOptions{
			ScaleX:          scale,
			ScaleY:          scale,
			AltText:         receipt.FileName,
			LockAspectRatio: true,
		},
	})
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
