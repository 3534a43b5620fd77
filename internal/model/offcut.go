package model

import (
	"fmt"
	"math"
	"sort"

	"github.com/google/uuid"
)

// Offcut represents a usable rectangular remnant left on a sheet after
// nesting. Coordinates are in the usable frame: origin at the bottom-left
// corner inside the margin, Y up, inches.
type Offcut struct {
	ID         string  `json:"id"`
	SheetIndex int     `json:"sheet_index"` // Index of the source sheet in the result
	X          float64 `json:"x_in"`
	Y          float64 `json:"y_in"`
	Width      float64 `json:"width_in"`
	Height     float64 `json:"height_in"`
}

// Area returns the area of the offcut in square inches.
func (o Offcut) Area() float64 {
	return o.Width * o.Height
}

// MinOffcutDimension is the minimum width or height (in inches) for a
// remnant to be considered a usable offcut. Anything narrower is waste.
const MinOffcutDimension = 2.0

// MinOffcutArea is the minimum area (in square inches) for a remnant to be
// considered usable.
const MinOffcutArea = 16.0 // 2in x 8in equivalent

// offcutID derives a stable ID from the sheet index and strip kind so that
// reruns of the same job produce identical output.
func offcutID(sheetIndex int, kind string) string {
	label := fmt.Sprintf("offcut:%d:%s", sheetIndex, kind)
	return uuid.NewSHA1(partNamespace, []byte(label)).String()[:8]
}

// DetectOffcuts identifies rectangular remnant strips on a packed sheet
// that are large enough to be worth keeping. Placement footprints already
// include the spacing and kerf allowance, so the strips clear the cuts.
func DetectOffcuts(sheet *Sheet) []Offcut {
	if len(sheet.Placements) == 0 {
		// Entire usable area is an offcut (unlikely but handle it)
		return []Offcut{{
			ID:         offcutID(sheet.Index, "full"),
			SheetIndex: sheet.Index,
			X:          0,
			Y:          0,
			Width:      sheet.Width,
			Height:     sheet.Height,
		}}
	}

	// Find the bounding box of all footprints to identify large unused strips
	var maxRight, maxTop float64
	for _, p := range sheet.Placements {
		right := p.Footprint.X + p.Footprint.Width
		top := p.Footprint.Y + p.Footprint.Height
		if right > maxRight {
			maxRight = right
		}
		if top > maxTop {
			maxTop = top
		}
	}

	var offcuts []Offcut

	// Right strip: area to the right of all footprints
	rightStripW := sheet.Width - maxRight
	if rightStripW >= MinOffcutDimension && sheet.Height >= MinOffcutDimension && rightStripW*sheet.Height >= MinOffcutArea {
		offcuts = append(offcuts, Offcut{
			ID:         offcutID(sheet.Index, "right"),
			SheetIndex: sheet.Index,
			X:          maxRight,
			Y:          0,
			Width:      rightStripW,
			Height:     sheet.Height,
		})
	}

	// Top strip: area above all footprints (only up to the right edge of
	// the footprints to avoid overlapping the right strip)
	topStripH := sheet.Height - maxTop
	usableTopW := math.Min(maxRight, sheet.Width)
	if topStripH >= MinOffcutDimension && usableTopW >= MinOffcutDimension && topStripH*usableTopW >= MinOffcutArea {
		offcuts = append(offcuts, Offcut{
			ID:         offcutID(sheet.Index, "top"),
			SheetIndex: sheet.Index,
			X:          0,
			Y:          maxTop,
			Width:      usableTopW,
			Height:     topStripH,
		})
	}

	// Sort by area descending (largest offcuts first)
	sort.Slice(offcuts, func(i, j int) bool {
		return offcuts[i].Area() > offcuts[j].Area()
	})

	return offcuts
}

// DetectAllOffcuts finds offcuts across all sheets in a nest result.
func DetectAllOffcuts(result *NestResult) []Offcut {
	var all []Offcut
	for _, sheet := range result.Sheets {
		all = append(all, DetectOffcuts(sheet)...)
	}
	return all
}

// TotalOffcutArea returns the total area of all offcuts in square inches.
func TotalOffcutArea(offcuts []Offcut) float64 {
	var total float64
	for _, o := range offcuts {
		total += o.Area()
	}
	return total
}
