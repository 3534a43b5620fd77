package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/piwi3910/NestCut/internal/model"
)

// LabelInfo holds the data encoded into each part label's QR code. The JSON
// keys match the placement records in the job manifest, so a scanned label
// resolves against manifest.json without translation.
type LabelInfo struct {
	InstanceID string  `json:"instance_id"`
	PartLabel  string  `json:"label"`
	SourcePath string  `json:"source_path"`
	Width      float64 `json:"width_in"`
	Height     float64 `json:"height_in"`
	SheetIndex int     `json:"sheet_index"`
	X          float64 `json:"x_in"`
	Y          float64 `json:"y_in"`
	Rotation   float64 `json:"rotation_deg"`
	Mirrored   bool    `json:"mirrored"`
}

// Label layout constants for Avery 5160-compatible labels (3 columns, 10 rows per page).
// Each label cell is approximately 66.7mm x 25.4mm on US Letter paper.
const (
	labelPageWidth  = 215.9 // US Letter width in mm
	labelPageHeight = 279.4 // US Letter height in mm
	labelMarginTop  = 12.7  // mm
	labelMarginLeft = 4.8   // mm
	labelWidth      = 66.7  // mm per label
	labelHeight     = 25.4  // mm per label
	labelCols       = 3
	labelRows       = 10
	labelsPerPage   = labelCols * labelRows
	qrSize          = 20.0 // QR code size in mm
	labelPadding    = 2.0  // mm internal padding
)

// ExportLabels generates a PDF of QR-coded labels for all placed instances.
// Each label carries the part name, its raw dimensions, the sheet and
// position it was nested to, and a QR code encoding the placement record as
// JSON. Labels are laid out on a standard label sheet format (Avery 5160 /
// 3 columns x 10 rows on US Letter).
func ExportLabels(path string, job model.NestJob, result *model.NestResult) error {
	labels := CollectLabelInfos(job, result)
	if len(labels) == 0 {
		return fmt.Errorf("no placed instances to generate labels for")
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)

	for i, label := range labels {
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}

		posOnPage := i % labelsPerPage
		col := posOnPage % labelCols
		row := posOnPage / labelCols

		x := labelMarginLeft + float64(col)*labelWidth
		y := labelMarginTop + float64(row)*labelHeight

		if err := renderLabel(pdf, x, y, label); err != nil {
			return fmt.Errorf("failed to render label for %q: %w", label.InstanceID, err)
		}
	}

	return pdf.OutputFileAndClose(path)
}

// renderLabel draws a single label at the given position.
func renderLabel(pdf *fpdf.Fpdf, x, y float64, info LabelInfo) error {
	// Draw light border for cutting guide
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, labelWidth, labelHeight, "D")

	// Generate QR code PNG bytes
	qrData, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal label info: %w", err)
	}

	qrPNG, err := qrcode.Encode(string(qrData), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	// Instance IDs are unique across the result, so they double as image names.
	imgName := "qr_" + info.InstanceID
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))

	// Place QR code on the right side of the label
	qrX := x + labelWidth - qrSize - labelPadding
	qrY := y + (labelHeight-qrSize)/2
	pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	// Text area (left side of label)
	textX := x + labelPadding
	textW := labelWidth - qrSize - 3*labelPadding

	// Part label (bold, larger)
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX, y+labelPadding)

	// Truncate label if too long
	partLabel := info.PartLabel
	if pdf.GetStringWidth(partLabel) > textW {
		for len(partLabel) > 0 && pdf.GetStringWidth(partLabel+"...") > textW {
			partLabel = partLabel[:len(partLabel)-1]
		}
		partLabel += "..."
	}
	pdf.CellFormat(textW, 4.5, partLabel, "", 1, "L", false, 0, "")

	// Dimensions
	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(textX, y+labelPadding+5)
	dims := fmt.Sprintf("%.3g x %.3g in", info.Width, info.Height)
	pdf.CellFormat(textW, 3.5, dims, "", 1, "L", false, 0, "")

	// Sheet and position info
	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(textX, y+labelPadding+9)
	sheetInfo := fmt.Sprintf("Sheet %d @ (%.2f, %.2f)", info.SheetIndex+1, info.X, info.Y)
	pdf.CellFormat(textW, 3, sheetInfo, "", 1, "L", false, 0, "")

	// Instance ID for traceability
	pdf.SetXY(textX, y+labelPadding+12.5)
	pdf.CellFormat(textW, 3, info.InstanceID, "", 1, "L", false, 0, "")

	// Orientation indicator
	if info.Rotation != 0 || info.Mirrored {
		pdf.SetXY(textX, y+labelPadding+16)
		pdf.SetFont("Helvetica", "I", 6)
		pdf.SetTextColor(150, 100, 0)
		orient := ""
		if info.Rotation != 0 {
			orient = fmt.Sprintf("Rotated %g\xb0", info.Rotation)
		}
		if info.Mirrored {
			if orient != "" {
				orient += ", "
			}
			orient += "mirrored"
		}
		pdf.CellFormat(textW, 3, orient, "", 0, "L", false, 0, "")
	}

	// Reset text color
	pdf.SetTextColor(0, 0, 0)

	return nil
}

// CollectLabelInfos extracts label records from a nesting result for use in
// testing or alternative export formats. Positions are in sheet coordinates
// (margin included) and dimensions are the part's own bounding box, not the
// rotated footprint.
func CollectLabelInfos(job model.NestJob, result *model.NestResult) []LabelInfo {
	var labels []LabelInfo
	for _, sheet := range result.Sheets {
		for _, p := range sheet.Placements {
			min, max := p.Def.Geometry.Outer.BoundingBox()
			labels = append(labels, LabelInfo{
				InstanceID: p.InstanceID,
				PartLabel:  p.Def.Label,
				SourcePath: p.Source,
				Width:      max.X - min.X,
				Height:     max.Y - min.Y,
				SheetIndex: sheet.Index,
				X:          p.X + job.Margin,
				Y:          p.Y + job.Margin,
				Rotation:   p.Rotation,
				Mirrored:   p.Mirrored,
			})
		}
	}
	return labels
}
