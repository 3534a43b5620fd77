// Package export renders finished nesting results into shop-floor documents:
// a PDF layout report, QR-coded part labels, and SVG sheet previews.
package export

import (
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"

	"github.com/piwi3910/NestCut/internal/model"
)

// partColor represents an RGB color for a placed part.
type partColor struct {
	R, G, B int
}

// partColors assigns each placement on a sheet a distinct, cycling color.
var partColors = []partColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

// sheetFill is the sheet background color (light wood tone).
var sheetFill = partColor{R: 210, G: 180, B: 140}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	legendHeight = 20.0
	drawAreaTop  = marginTop + headerHeight + 5.0
)

// ExportPDF generates a PDF document for a finished nesting job. Each sheet
// is rendered on its own page with the placed part silhouettes, margin and
// offcut zones, followed by a summary page with overall statistics.
func ExportPDF(path string, job model.NestJob, result *model.NestResult) error {
	if len(result.Sheets) == 0 {
		return fmt.Errorf("no sheets to export")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	for _, sheet := range result.Sheets {
		pdf.AddPage()
		renderSheetPage(pdf, sheet, job, len(result.Sheets))
	}

	pdf.AddPage()
	renderSummaryPage(pdf, job, result)

	return pdf.OutputFileAndClose(path)
}

// renderSheetPage draws a single sheet on the current PDF page.
func renderSheetPage(pdf *fpdf.Fpdf, sheet *model.Sheet, job model.NestJob, totalSheets int) {
	// Title
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("Sheet %d of %d (%.4g x %.4g in)", sheet.Index+1, totalSheets, job.SheetWidth, job.SheetHeight)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	// Stats line
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Parts: %d | Used area: %.1f in\xb2 | Utilization: %.1f%% | Cut length: %.1f in",
		len(sheet.Placements), sheet.UsedArea(), sheet.Utilization()*100, sheet.CutLength())
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	// Scale the sheet to fit the drawing area.
	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom - legendHeight
	scale := math.Min(drawWidth/job.SheetWidth, drawHeight/job.SheetHeight)

	canvasW := job.SheetWidth * scale
	canvasH := job.SheetHeight * scale
	offsetX := marginLeft + (drawWidth-canvasW)/2
	offsetY := drawAreaTop

	// Sheet coordinates are Y-up, the page is Y-down.
	toPage := func(x, y float64) (float64, float64) {
		return offsetX + x*scale, offsetY + (job.SheetHeight-y)*scale
	}

	// Sheet background
	pdf.SetFillColor(sheetFill.R, sheetFill.G, sheetFill.B)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(offsetX, offsetY, canvasW, canvasH, "FD")

	drawMarginZones(pdf, job, scale, toPage)
	drawOffcuts(pdf, sheet, job.Margin, scale, toPage)

	// Placed part silhouettes
	for i, p := range sheet.Placements {
		col := partColors[i%len(partColors)]
		geom := p.Def.Geometry.Transform(p.Rotation, p.Mirrored, p.X+job.Margin, p.Y+job.Margin)

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.3)
		pdf.Polygon(polygonPoints(geom.Outer, toPage), "FD")

		// Holes punch back to the sheet color.
		pdf.SetFillColor(sheetFill.R, sheetFill.G, sheetFill.B)
		for _, hole := range geom.Holes {
			pdf.Polygon(polygonPoints(hole, toPage), "FD")
		}

		drawPartLabel(pdf, p, job.Margin, scale, toPage)
	}

	drawDimensionAnnotations(pdf, job, offsetX, offsetY, canvasW, canvasH)
	drawPartsLegend(pdf, sheet, offsetY+canvasH+5)
}

// polygonPoints converts a polygon into page-space fpdf points.
func polygonPoints(ring model.Polygon, toPage func(x, y float64) (float64, float64)) []fpdf.PointType {
	pts := make([]fpdf.PointType, len(ring))
	for i, pt := range ring {
		x, y := toPage(pt.X, pt.Y)
		pts[i] = fpdf.PointType{X: x, Y: y}
	}
	return pts
}

// drawPartLabel centers the instance label inside the placement footprint
// when the footprint is large enough to hold it.
func drawPartLabel(pdf *fpdf.Fpdf, p model.Placement, margin, scale float64, toPage func(x, y float64) (float64, float64)) {
	pw := p.Footprint.Width * scale
	ph := p.Footprint.Height * scale
	if pw <= 15 || ph <= 8 {
		return
	}

	cx, cy := toPage(p.Footprint.X+margin+p.Footprint.Width/2, p.Footprint.Y+margin+p.Footprint.Height/2)

	pdf.SetFont("Helvetica", "", labelFontSize(pw, ph))
	pdf.SetTextColor(0, 0, 0)

	label := p.Def.Label
	w, h := p.Def.BoundingBox()
	dims := fmt.Sprintf("%.3g x %.3g", w, h)

	labelW := pdf.GetStringWidth(label)
	if labelW < pw-2 {
		pdf.SetXY(cx-labelW/2, cy-4)
		pdf.CellFormat(labelW, 4, label, "", 0, "C", false, 0, "")
	}
	dimsW := pdf.GetStringWidth(dims)
	if ph > 14 && dimsW < pw-2 {
		pdf.SetXY(cx-dimsW/2, cy)
		pdf.CellFormat(dimsW, 4, dims, "", 0, "C", false, 0, "")
	}
}

// drawMarginZones hatches the non-cuttable margin band around the usable
// area.
func drawMarginZones(pdf *fpdf.Fpdf, job model.NestJob, scale float64, toPage func(x, y float64) (float64, float64)) {
	if job.Margin <= 0 {
		return
	}

	m := job.Margin
	w, h := job.SheetWidth, job.SheetHeight
	zones := []model.Rect{
		{X: 0, Y: 0, Width: w, Height: m},           // bottom
		{X: 0, Y: h - m, Width: w, Height: m},       // top
		{X: 0, Y: m, Width: m, Height: h - 2*m},     // left
		{X: w - m, Y: m, Width: m, Height: h - 2*m}, // right
	}

	for _, zone := range zones {
		zx, zy := toPage(zone.X, zone.Y+zone.Height)
		zw := zone.Width * scale
		zh := zone.Height * scale

		pdf.SetFillColor(255, 200, 200)
		pdf.SetDrawColor(200, 0, 0)
		pdf.SetLineWidth(0.3)
		pdf.Rect(zx, zy, zw, zh, "FD")
		drawHatchPattern(pdf, zx, zy, zw, zh, 200, 0, 0)
	}

	pdf.SetTextColor(0, 0, 0)
}

// drawOffcuts marks reusable remnant strips so the shop knows what to keep.
func drawOffcuts(pdf *fpdf.Fpdf, sheet *model.Sheet, margin, scale float64, toPage func(x, y float64) (float64, float64)) {
	for _, o := range model.DetectOffcuts(sheet) {
		zx, zy := toPage(o.X+margin, o.Y+margin+o.Height)
		zw := o.Width * scale
		zh := o.Height * scale

		pdf.SetFillColor(220, 240, 220)
		pdf.SetDrawColor(0, 140, 0)
		pdf.SetLineWidth(0.2)
		pdf.Rect(zx, zy, zw, zh, "FD")
		drawHatchPattern(pdf, zx, zy, zw, zh, 0, 140, 0)

		if zw > 20 && zh > 8 {
			pdf.SetFont("Helvetica", "B", 6)
			pdf.SetTextColor(0, 120, 0)
			label := fmt.Sprintf("OFFCUT %.3g x %.3g", o.Width, o.Height)
			labelW := pdf.GetStringWidth(label)
			pdf.SetXY(zx+(zw-labelW)/2, zy+zh/2-2)
			pdf.CellFormat(labelW, 4, label, "", 0, "C", false, 0, "")
		}
	}

	pdf.SetTextColor(0, 0, 0)
}

// drawHatchPattern draws diagonal lines inside a rectangle to mark zones.
func drawHatchPattern(pdf *fpdf.Fpdf, x, y, w, h float64, r, g, b int) {
	pdf.SetDrawColor(r, g, b)
	pdf.SetLineWidth(0.15)

	spacing := 4.0
	maxDist := w + h

	for d := spacing; d < maxDist; d += spacing {
		x1 := x + math.Max(0, d-h)
		y1 := y + math.Min(h, d)
		x2 := x + math.Min(w, d)
		y2 := y + math.Max(0, d-w)

		pdf.Line(x1, y1, x2, y2)
	}
}

// drawDimensionAnnotations adds width and height labels outside the sheet
// rectangle.
func drawDimensionAnnotations(pdf *fpdf.Fpdf, job model.NestJob, offsetX, offsetY, canvasW, canvasH float64) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)

	widthLabel := fmt.Sprintf("%.4g in", job.SheetWidth)
	wLabelW := pdf.GetStringWidth(widthLabel)
	pdf.SetXY(offsetX+(canvasW-wLabelW)/2, offsetY+canvasH+1)
	pdf.CellFormat(wLabelW, 4, widthLabel, "", 0, "C", false, 0, "")

	heightLabel := fmt.Sprintf("%.4g in", job.SheetHeight)
	pdf.TransformBegin()
	pdf.TransformRotate(90, offsetX-3, offsetY+canvasH/2)
	hLabelW := pdf.GetStringWidth(heightLabel)
	pdf.SetXY(offsetX-3-hLabelW/2, offsetY+canvasH/2-2)
	pdf.CellFormat(hLabelW, 4, heightLabel, "", 0, "C", false, 0, "")
	pdf.TransformEnd()

	pdf.SetTextColor(0, 0, 0)
}

// drawPartsLegend renders a compact legend of placed parts below the sheet.
func drawPartsLegend(pdf *fpdf.Fpdf, sheet *model.Sheet, startY float64) {
	if len(sheet.Placements) == 0 {
		return
	}

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, startY)
	pdf.CellFormat(30, 4, "Parts placed:", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	xPos := marginLeft + 32
	maxX := pageWidth - marginRight

	for i, p := range sheet.Placements {
		col := partColors[i%len(partColors)]
		label := fmt.Sprintf("%s [%s]", p.Def.Label, p.InstanceID)
		if p.Rotation != 0 {
			label += fmt.Sprintf(" R%g", p.Rotation)
		}
		if p.Mirrored {
			label += " M"
		}
		labelW := pdf.GetStringWidth(label) + 6

		if xPos+labelW > maxX {
			startY += 5
			xPos = marginLeft
		}

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.Rect(xPos, startY+0.5, 3, 3, "F")

		pdf.SetXY(xPos+4, startY)
		pdf.CellFormat(labelW-4, 4, label, "", 0, "L", false, 0, "")

		xPos += labelW + 2
	}
}

// renderSummaryPage draws the final summary page with overall statistics.
func renderSummaryPage(pdf *fpdf.Fpdf, job model.NestJob, result *model.NestResult) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Nesting Summary", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Overall Statistics", "", 0, "L", false, 0, "")
	y += 9

	offcuts := model.DetectAllOffcuts(result)
	summaryItems := []struct {
		label string
		value string
	}{
		{"Sheets Used", fmt.Sprintf("%d", result.Metrics.Sheets)},
		{"Parts Placed", fmt.Sprintf("%d", result.Metrics.Parts)},
		{"Overall Utilization", fmt.Sprintf("%.1f%%", result.TotalUtilization()*100)},
		{"Total Cut Length", fmt.Sprintf("%.1f in", result.TotalCutLength())},
		{"Reusable Offcut Area", fmt.Sprintf("%.1f in\xb2", model.TotalOffcutArea(offcuts))},
		{"Runtime", fmt.Sprintf("%.2f s", result.Metrics.RuntimeS)},
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range summaryItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(60, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(40, 6, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 7
	}

	y += 5

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Sheet Breakdown", "", 0, "L", false, 0, "")
	y += 9

	colWidths := []float64{20, 45, 30, 40, 45, 45}
	headers := []string{"Sheet", "Usable Size", "Parts", "Utilization", "Cut Length", "Offcuts"}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	xPos := marginLeft
	for i, header := range headers {
		pdf.SetXY(xPos, y)
		pdf.CellFormat(colWidths[i], 6, header, "1", 0, "C", true, 0, "")
		xPos += colWidths[i]
	}
	y += 6

	pdf.SetFont("Helvetica", "", 9)
	for i, sheet := range result.Sheets {
		xPos = marginLeft
		rowData := []string{
			fmt.Sprintf("%d", sheet.Index+1),
			fmt.Sprintf("%.4g x %.4g in", sheet.Width, sheet.Height),
			fmt.Sprintf("%d", len(sheet.Placements)),
			fmt.Sprintf("%.1f%%", sheet.Utilization()*100),
			fmt.Sprintf("%.1f in", sheet.CutLength()),
			fmt.Sprintf("%d", len(model.DetectOffcuts(sheet))),
		}

		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}

		for j, cell := range rowData {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[j], 6, cell, "1", 0, "C", true, 0, "")
			xPos += colWidths[j]
		}
		y += 6
	}

	// Job parameters block
	y += 8
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Job Parameters", "", 0, "L", false, 0, "")
	y += 9

	mirror := "no"
	if job.AllowMirror {
		mirror = "yes"
	}
	paramItems := []struct {
		label string
		value string
	}{
		{"Sheet Size", fmt.Sprintf("%.4g x %.4g in", job.SheetWidth, job.SheetHeight)},
		{"Margin", fmt.Sprintf("%.3g in", job.Margin)},
		{"Spacing", fmt.Sprintf("%.3g in", job.Spacing)},
		{"Kerf", fmt.Sprintf("%.3g in", job.Kerf)},
		{"Chord Tolerance", fmt.Sprintf("%.3g in", job.ChordTol)},
		{"Rotation Step", fmt.Sprintf("%g\xb0", job.RotationStep)},
		{"Mirroring", mirror},
	}

	pdf.SetFont("Helvetica", "", 9)
	for _, item := range paramItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(50, 5, item.label+":", "", 0, "L", false, 0, "")
		pdf.CellFormat(40, 5, item.value, "", 0, "L", false, 0, "")
		y += 5
	}

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by NestCut - DXF Nesting Engine", "", 0, "C", false, 0, "")
}

// labelFontSize returns an appropriate font size for a footprint rendered at
// the given page dimensions.
func labelFontSize(w, h float64) float64 {
	minDim := math.Min(w, h)
	switch {
	case minDim > 40:
		return 8
	case minDim > 20:
		return 7
	default:
		return 6
	}
}
