// Package output writes the deliverables of a finished nesting job: one DXF
// document per sheet and a JSON manifest describing every placement.
package output

import (
	"fmt"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/drawing"
	"github.com/yofu/dxf/entity"

	"github.com/piwi3910/NestCut/internal/model"
)

// Layer names in the emitted documents. Part geometry always goes on
// LayerCut; the sheet outline, when drawn, goes on LayerSheet so shops can
// toggle it off before sending the file to a machine.
const (
	LayerCut   = "CUT"
	LayerSheet = "SHEET"
)

// DXFOptions controls the per-sheet document content.
type DXFOptions struct {
	// Boundary draws the full sheet rectangle on the SHEET layer.
	Boundary bool
}

// WriteSheetDXF writes one sheet's placements to path as a DXF document.
// Parts are emitted from their original entities, so arcs and circles stay
// exact instead of being discretized. Coordinates are sheet coordinates:
// the margin offset is already applied.
func WriteSheetDXF(path string, sheet *model.Sheet, job model.NestJob, opts DXFOptions) error {
	d := dxf.NewDrawing()

	if opts.Boundary {
		if _, err := d.AddLayer(LayerSheet, dxf.DefaultColor, dxf.DefaultLineType, true); err != nil {
			return fmt.Errorf("sheet %d: add layer %s: %w", sheet.Index, LayerSheet, err)
		}
		if err := drawBoundary(d, job.SheetWidth, job.SheetHeight); err != nil {
			return fmt.Errorf("sheet %d: draw boundary: %w", sheet.Index, err)
		}
	}

	if _, err := d.AddLayer(LayerCut, dxf.DefaultColor, dxf.DefaultLineType, true); err != nil {
		return fmt.Errorf("sheet %d: add layer %s: %w", sheet.Index, LayerCut, err)
	}
	for _, p := range sheet.Placements {
		for _, e := range p.Def.Entities {
			placed := e.Transform(p.Rotation, p.Mirrored, p.X+job.Margin, p.Y+job.Margin)
			if err := writeEntity(d, placed); err != nil {
				return fmt.Errorf("sheet %d: instance %s: %w", sheet.Index, p.InstanceID, err)
			}
		}
	}

	if err := d.SaveAs(path); err != nil {
		return fmt.Errorf("sheet %d: write %s: %w", sheet.Index, path, err)
	}
	return nil
}

func drawBoundary(d *drawing.Drawing, w, h float64) error {
	lines := [][4]float64{
		{0, 0, w, 0},
		{w, 0, w, h},
		{w, h, 0, h},
		{0, h, 0, 0},
	}
	for _, l := range lines {
		if _, err := d.Line(l[0], l[1], 0, l[2], l[3], 0); err != nil {
			return err
		}
	}
	return nil
}

func writeEntity(d *drawing.Drawing, e model.Entity) error {
	switch e.Kind {
	case model.LineEntity:
		_, err := d.Line(e.Start.X, e.Start.Y, 0, e.End.X, e.End.Y, 0)
		return err
	case model.CircleEntity:
		_, err := d.Circle(e.Center.X, e.Center.Y, 0, e.Radius)
		return err
	case model.ArcEntity:
		c := entity.NewCircle()
		c.Center[0] = e.Center.X
		c.Center[1] = e.Center.Y
		c.Radius = e.Radius
		a := entity.NewArc(c)
		a.Angle[0] = e.StartAngle
		a.Angle[1] = e.EndAngle
		a.SetLayer(d.CurrentLayer)
		d.AddEntity(a)
		return nil
	default:
		return fmt.Errorf("unknown entity kind %d", e.Kind)
	}
}

// SheetFileName returns the canonical DXF file name for a sheet index,
// 1-based for the people reading the output directory.
func SheetFileName(index int) string {
	return fmt.Sprintf("sheet_%03d.dxf", index+1)
}
