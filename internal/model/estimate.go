package model

import "math"

// NestEstimate holds the results of a pre-nest material estimate.
type NestEstimate struct {
	TotalPartArea      float64 `json:"total_part_area_in2"`      // net part area, holes excluded (sq in)
	TotalFootprintArea float64 `json:"total_footprint_area_in2"` // bbox area incl. spacing/kerf allowance (sq in)
	UsableSheetArea    float64 `json:"usable_sheet_area_in2"`    // area of one sheet inside margins (sq in)
	SheetsNeededExact  float64 `json:"sheets_needed_exact"`      // exact fractional number of sheets
	SheetsNeededMin    int     `json:"sheets_needed_min"`        // minimum sheets (ceiling of exact)
	BestUtilization    float64 `json:"best_utilization"`         // part area over minimum-sheet usable area
}

// EstimateSheets computes an area-based lower bound on sheet consumption
// for a set of part definitions. A packed layout can only do worse than a
// perfect area fill, so the real nest needs at least this many sheets.
func EstimateSheets(job NestJob, defs []PartDefinition) NestEstimate {
	halfGap := job.HalfGap()

	var partArea, footprintArea float64
	for _, def := range defs {
		w, h := def.BoundingBox()
		w += 2 * halfGap
		h += 2 * halfGap
		partArea += def.Area() * float64(def.Quantity)
		footprintArea += w * h * float64(def.Quantity)
	}

	usable := job.UsableWidth() * job.UsableHeight()
	est := NestEstimate{
		TotalPartArea:      partArea,
		TotalFootprintArea: footprintArea,
		UsableSheetArea:    usable,
	}
	if usable <= 0 {
		return est
	}

	est.SheetsNeededExact = footprintArea / usable
	est.SheetsNeededMin = int(math.Ceil(est.SheetsNeededExact))
	if est.SheetsNeededMin > 0 {
		est.BestUtilization = partArea / (float64(est.SheetsNeededMin) * usable)
	}
	return est
}
