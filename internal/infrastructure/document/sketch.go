package document

import (
	"math"

	"github.com/go-pdf/fpdf"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/simplify"

	"github.com/teerapatzza/travel-claim/internal/domain/entity"
)

// RGB is a PDF colour
type RGB struct {
	R, G, B int
}

// SketchStyle controls how the route sketch is drawn. It is passed to each
// render call; renderers hold no shared drawing state.
type SketchStyle struct {
	LineColor     RGB
	LineWidth     float64
	FallbackDash  []float64
	StartColor    RGB
	EndColor      RGB
	MarkerRadius  float64
	FrameColor    RGB
	Padding       float64
	MaxPathPoints int
}

// DefaultSketchStyle is blue route, green start, red end
func DefaultSketchStyle() SketchStyle {
	return SketchStyle{
		LineColor:     RGB{37, 99, 235},
		LineWidth:     0.8,
		FallbackDash:  []float64{2, 1.5},
		StartColor:    RGB{22, 163, 74},
		EndColor:      RGB{220, 38, 38},
		MarkerRadius:  1.8,
		FrameColor:    RGB{203, 213, 225},
		Padding:       6,
		MaxPathPoints: 400,
	}
}

type box struct {
	X, Y, W, H float64
}

// projectPath maps a lat/lng path into b, preserving aspect ratio.
// Long paths are simplified first so the sketch stays light.
func projectPath(path []entity.Coordinate, b box, style SketchStyle) []fpdf.PointType {
	if len(path) == 0 {
		return nil
	}

	lat0 := path[0].Lat * math.Pi / 180
	ls := make(orb.LineString, 0, len(path))
	for _, c := range path {
		ls = append(ls, orb.Point{c.Lng * math.Cos(lat0), c.Lat})
	}

	bound := ls.Bound()
	spanX := bound.Max[0] - bound.Min[0]
	spanY := bound.Max[1] - bound.Min[1]

	if style.MaxPathPoints > 1 && len(ls) > style.MaxPathPoints {
		tolerance := math.Max(spanX, spanY) / 500
		ls = simplify.DouglasPeucker(tolerance).Simplify(ls.Clone()).(orb.LineString)
	}

	innerW := b.W - 2*style.Padding
	innerH := b.H - 2*style.Padding
	scale := 0.0
	switch {
	case spanX > 0 && spanY > 0:
		scale = math.Min(innerW/spanX, innerH/spanY)
	case spanX > 0:
		scale = innerW / spanX
	case spanY > 0:
		scale = innerH / spanY
	}

	// centre the drawing inside the box
	offX := b.X + style.Padding + (innerW-spanX*scale)/2
	offY := b.Y + style.Padding + (innerH-spanY*scale)/2

	pts := make([]fpdf.PointType, 0, len(ls))
	for _, p := range ls {
		pts = append(pts, fpdf.PointType{
			X: offX + (p[0]-bound.Min[0])*scale,
			// PDF y grows downward
			Y: offY + (bound.Max[1]-p[1])*scale,
		})
	}
	return pts
}

// drawRouteSketch draws path inside b; fallback paths are dashed
func drawRouteSketch(pdf *fpdf.Fpdf, b box, path []entity.Coordinate, fallback bool, style SketchStyle) {
	pdf.SetDrawColor(style.FrameColor.R, style.FrameColor.G, style.FrameColor.B)
	pdf.SetLineWidth(0.2)
	pdf.Rect(b.X, b.Y, b.W, b.H, "D")

	pts := projectPath(path, b, style)
	if len(pts) == 0 {
		return
	}

	pdf.SetDrawColor(style.LineColor.R, style.LineColor.G, style.LineColor.B)
	pdf.SetLineWidth(style.LineWidth)
	if fallback {
		pdf.SetDashPattern(style.FallbackDash, 0)
	}
	for i := 1; i < len(pts); i++ {
		pdf.Line(pts[i-1].X, pts[i-1].Y, pts[i].X, pts[i].Y)
	}
	pdf.SetDashPattern([]float64{}, 0)

	start, end := pts[0], pts[len(pts)-1]
	pdf.SetFillColor(style.StartColor.R, style.StartColor.G, style.StartColor.B)
	pdf.Circle(start.X, start.Y, style.MarkerRadius, "F")
	pdf.SetFillColor(style.EndColor.R, style.EndColor.G, style.EndColor.B)
	pdf.Circle(end.X, end.Y, style.MarkerRadius, "F")
}
