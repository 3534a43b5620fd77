package export

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"github.com/tdewolff/canvas"
	svgrender "github.com/tdewolff/canvas/renderers/svg"

	"github.com/piwi3910/NestCut/internal/model"
)

// mmPerInch converts job coordinates (inches) to canvas units (mm).
const mmPerInch = 25.4

// rgba converts a palette entry into a color usable by the canvas context.
func rgba(c partColor) color.RGBA {
	return color.RGBA{R: uint8(c.R), G: uint8(c.G), B: uint8(c.B), A: 255}
}

// WriteSheetSVG renders one sheet layout as an SVG image: the sheet outline,
// the usable-area boundary, reusable offcut strips, and every placed part as
// a filled silhouette. Holes stay open because contours are kept
// counter-clockwise and holes clockwise, which the nonzero fill rule
// resolves correctly.
func WriteSheetSVG(path string, sheet *model.Sheet, job model.NestJob) error {
	w := job.SheetWidth * mmPerInch
	h := job.SheetHeight * mmPerInch

	c := canvas.New(w, h)
	ctx := canvas.NewContext(c)

	// Sheet background
	ctx.SetFillColor(rgba(sheetFill))
	ctx.SetStrokeColor(color.RGBA{R: 100, G: 100, B: 100, A: 255})
	ctx.SetStrokeWidth(0.5)
	ctx.DrawPath(0, 0, canvas.Rectangle(w, h))

	// Usable area boundary inside the margin band
	if job.Margin > 0 {
		m := job.Margin * mmPerInch
		ctx.SetFillColor(color.RGBA{0, 0, 0, 0})
		ctx.SetStrokeColor(color.RGBA{R: 200, A: 255})
		ctx.SetStrokeWidth(0.3)
		ctx.DrawPath(m, m, canvas.Rectangle(w-2*m, h-2*m))
	}

	// Offcut strips behind the parts
	for _, o := range model.DetectOffcuts(sheet) {
		ctx.SetFillColor(color.RGBA{R: 220, G: 240, B: 220, A: 255})
		ctx.SetStrokeColor(color.RGBA{G: 140, A: 255})
		ctx.SetStrokeWidth(0.2)
		ctx.DrawPath((o.X+job.Margin)*mmPerInch, (o.Y+job.Margin)*mmPerInch,
			canvas.Rectangle(o.Width*mmPerInch, o.Height*mmPerInch))
	}

	// Placed part silhouettes
	for i, p := range sheet.Placements {
		geom := p.Def.Geometry.Transform(p.Rotation, p.Mirrored, p.X+job.Margin, p.Y+job.Margin)
		ctx.SetFillColor(rgba(partColors[i%len(partColors)]))
		ctx.SetStrokeColor(color.RGBA{R: 30, G: 30, B: 30, A: 255})
		ctx.SetStrokeWidth(0.3)
		ctx.DrawPath(0, 0, polygonPath(geom))
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create preview file: %w", err)
	}

	svg := svgrender.New(f, w, h, nil)
	c.RenderTo(svg)
	if err := svg.Close(); err != nil {
		f.Close()
		return fmt.Errorf("failed to write SVG: %w", err)
	}
	return f.Close()
}

// polygonPath builds a single path holding the outer ring and one subpath
// per hole.
func polygonPath(geom model.PolygonSet) *canvas.Path {
	p := &canvas.Path{}
	appendRing(p, geom.Outer)
	for _, hole := range geom.Holes {
		appendRing(p, hole)
	}
	return p
}

func appendRing(p *canvas.Path, ring model.Polygon) {
	if len(ring) == 0 {
		return
	}
	p.MoveTo(ring[0].X*mmPerInch, ring[0].Y*mmPerInch)
	for _, pt := range ring[1:] {
		p.LineTo(pt.X*mmPerInch, pt.Y*mmPerInch)
	}
	p.Close()
}

// WritePreviews renders every sheet of a result into dir, one SVG per sheet,
// and returns the written paths.
func WritePreviews(dir string, job model.NestJob, result *model.NestResult) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create preview directory: %w", err)
	}

	var paths []string
	for _, sheet := range result.Sheets {
		name := fmt.Sprintf("sheet_%03d.svg", sheet.Index+1)
		path := filepath.Join(dir, name)
		if err := WriteSheetSVG(path, sheet, job); err != nil {
			return nil, fmt.Errorf("sheet %d: %w", sheet.Index+1, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
