// Package document renders claim documents as PDF and XLSX files.
package document

import (
	"bytes"
	"context"
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"
	"go.uber.org/zap"

	"github.com/teerapatzza/travel-claim/internal/application/port"
	"github.com/teerapatzza/travel-claim/internal/domain/entity"
)

const (
	pdfFontFamily  = "Sarabun"
	coreFontFamily = "Helvetica"

	pageWidth   = 210.0
	marginLeft  = 15.0
	marginRight = 195.0
)

// PDFRenderer renders claims to A4 PDF
type PDFRenderer struct {
	assets *Assets
	style  SketchStyle
	logger *zap.Logger
}

var _ port.DocumentRenderer = (*PDFRenderer)(nil)

// NewPDFRenderer creates a PDF renderer drawing route sketches with style
func NewPDFRenderer(assets *Assets, style SketchStyle, logger *zap.Logger) *PDFRenderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if assets == nil {
		assets = NewAssets(nil, "", "", logger)
	}
	return &PDFRenderer{
		assets: assets,
		style:  style,
		logger: logger,
	}
}

// Format implements port.DocumentRenderer
func (r *PDFRenderer) Format() string {
	return entity.FormatPDF
}

// pdfWriter wraps fpdf with the font family and text encoding chosen for one render
type pdfWriter struct {
	pdf    *fpdf.Fpdf
	family string
	l      labels
}

func (w *pdfWriter) text(s string) string {
	if w.l.Thai {
		return s
	}
	return toLatin1(s)
}

func (w *pdfWriter) font(size float64) {
	w.pdf.SetFont(w.family, "", size)
}

func (w *pdfWriter) centered(y, size float64, s string) {
	w.font(size)
	w.pdf.SetXY(0, y)
	w.pdf.CellFormat(pageWidth, size*0.5, w.text(s), "", 0, "C", false, 0, "")
}

func (w *pdfWriter) at(x, y float64, s string) {
	w.pdf.Text(x, y, w.text(s))
}

func newPDF(doc *entity.ClaimDocument) *fpdf.Fpdf {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreator("Travel Claim System", true)
	pdf.SetTitle(thaiLabels.Title, true)
	pdf.SetCreationDate(doc.IssuedAt)
	return pdf
}

// embedFont registers font as the Thai family and selects it. fpdf only
// prints some parse failures and panics on truncated files, so both are
// turned into errors here.
func embedFont(pdf *fpdf.Fpdf, font []byte) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parse font: %v", r)
		}
	}()

	pdf.AddUTF8FontFromBytes(pdfFontFamily, "", font)
	pdf.SetFont(pdfFontFamily, "", 12)
	if pdf.Err() {
		return pdf.Error()
	}
	return nil
}

// Render implements port.DocumentRenderer
func (r *PDFRenderer) Render(ctx context.Context, doc *entity.ClaimDocument) (*port.RenderedDocument, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: nothing to render", entity.ErrDocumentGeneration)
	}

	var warnings []string
	pdf := newPDF(doc)

	w := &pdfWriter{pdf: pdf, family: coreFontFamily, l: englishLabels}
	if font, err := r.assets.Font(ctx); err != nil {
		warnings = append(warnings, err.Error())
		r.logger.Warn("Thai font unavailable, rendering claim with English labels", zap.Error(err))
	} else if err := embedFont(pdf, font); err != nil {
		warnings = append(warnings, fmt.Sprintf("%v: font: %v", entity.ErrResourceMissing, err))
		r.logger.Warn("Thai font could not be embedded, rendering claim with English labels", zap.Error(err))
		// start over so no half-registered font is left in the document
		pdf = newPDF(doc)
		w.pdf = pdf
	} else {
		w.family, w.l = pdfFontFamily, thaiLabels
	}

	pdf.AddPage()
	l := w.l

	if logo, imgType, err := r.assets.Logo(ctx); err == nil {
		opts := fpdf.ImageOptions{ImageType: imgType}
		pdf.RegisterImageOptionsReader("logo", opts, bytes.NewReader(logo))
		pdf.ImageOptions("logo", marginLeft, 10, 20, 20, false, opts, 0, "")
		if pdf.Err() {
			// a broken logo must not sink the document
			warnings = append(warnings, fmt.Sprintf("%v: logo: %v", entity.ErrResourceMissing, pdf.Error()))
			pdf.ClearError()
		}
	} else {
		warnings = append(warnings, err.Error())
	}

	// Header
	w.centered(20, 22, l.Title)
	w.font(14)
	w.at(150, 40, fmt.Sprintf("%s: %s", l.Date, formatDate(doc.IssuedAt, l.Thai)))
	pdf.SetLineWidth(0.5)
	pdf.SetDrawColor(0, 0, 0)
	pdf.Line(marginLeft, 45, marginRight, 45)

	// Claim details
	w.font(16)
	y := 60.0
	row := func(label, value string) {
		if value == "" {
			value = l.Unnamed
		}
		w.at(20, y, fmt.Sprintf("%s: %s", label, value))
		y += 10
	}
	row(l.Claimant, doc.ClaimantName)
	row(l.Department, doc.Department)
	row(l.Purpose, doc.Purpose)
	row(l.Vehicle, doc.VehicleType.Label(l.Thai))

	if doc.Origin != nil && doc.Destination != nil {
		row(l.Route, fmt.Sprintf("%s -> %s", placeName(doc.OriginName, *doc.Origin), placeName(doc.DestinationName, *doc.Destination)))
	}
	if doc.Resolution != nil {
		note := l.RoutedNote
		if doc.Resolution.IsFallback {
			note = l.FallbackNote
		}
		row(l.Distance, fmt.Sprintf("%s %s %s", formatDistance(doc.Resolution.DistanceKm), l.Kilometres, note))
	}

	// Breakdown
	w.font(13)
	b := doc.Breakdown
	if doc.VehicleType.IsDistanceRated() {
		row(l.Rate, fmt.Sprintf("%s %s", formatAmount(b.RatePerKm), l.PerKilometre))
		row(l.DistanceCost, fmt.Sprintf("%s x %s = %s %s", formatDistance(b.DistanceKm), formatAmount(b.RatePerKm), formatAmount(b.DistanceAmount), l.Currency))
	} else {
		if doc.VehicleType == entity.VehiclePlane {
			row(l.TicketCost, fmt.Sprintf("%s %s", formatAmount(b.TicketCost), l.Currency))
		}
		row(l.TaxiCost, fmt.Sprintf("%s %s", formatAmount(b.TaxiCost), l.Currency))
	}

	// Total box
	y += 10
	pdf.SetFillColor(230, 240, 255)
	pdf.Rect(marginLeft, y-10, marginRight-marginLeft, 30, "F")
	pdf.SetTextColor(0, 50, 150)
	w.centered(y, 20, fmt.Sprintf("%s: %s %s", l.Total, formatAmount(b.Total), l.Currency))
	pdf.SetTextColor(0, 0, 0)
	y += 30

	// Route sketch
	if doc.Resolution != nil && len(doc.Resolution.Path) > 0 {
		w.font(12)
		w.at(marginLeft, y, l.RouteSketch)
		sketchH := math.Min(90, 265-y)
		if sketchH > 20 {
			drawRouteSketch(pdf, box{X: marginLeft, Y: y + 3, W: marginRight - marginLeft, H: sketchH}, doc.Resolution.Path, doc.Resolution.IsFallback, r.style)
		}
	}

	r.footer(w)

	if doc.Receipt != nil && len(doc.Receipt.Data) > 0 {
		if err := r.receiptPage(w, doc.Receipt); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrDocumentGeneration, err)
	}

	return &port.RenderedDocument{
		FileName:    fileName(doc.ClaimantName, "pdf"),
		ContentType: "application/pdf",
		Content:     buf.Bytes(),
		Warnings:    warnings,
	}, nil
}

func (r *PDFRenderer) footer(w *pdfWriter) {
	w.pdf.SetTextColor(150, 150, 150)
	w.centered(278, 10, w.l.Footer)
	w.pdf.SetTextColor(0, 0, 0)
}

func (r *PDFRenderer) receiptPage(w *pdfWriter, receipt *entity.ReceiptImage) error {
	pdf := w.pdf
	pdf.AddPage()
	w.centered(15, 18, w.l.ReceiptTitle)

	opts := fpdf.ImageOptions{ImageType: "JPG"}
	pdf.RegisterImageOptionsReader("receipt", opts, bytes.NewReader(receipt.Data))
	if pdf.Err() {
		return fmt.Errorf("%w: receipt image: %v", entity.ErrDocumentGeneration, pdf.Error())
	}

	maxW, maxH := marginRight-marginLeft, 240.0
	imgW, imgH := maxW, maxH
	if receipt.Width > 0 && receipt.Height > 0 {
		scale := math.Min(maxW/float64(receipt.Width), maxH/float64(receipt.Height))
		imgW, imgH = float64(receipt.Width)*scale, float64(receipt.Height)*scale
	}
	x := (pageWidth - imgW) / 2
	pdf.ImageOptions("receipt", x, 28, imgW, imgH, false, opts, 0, "")

	r.footer(w)
	if pdf.Err() {
		return fmt.Errorf("%w: %v", entity.ErrDocumentGeneration, pdf.Error())
	}
	return nil
}

func placeName(name string, c entity.Coordinate) string {
	if name != "" {
		return name
	}
	return c.String()
}
