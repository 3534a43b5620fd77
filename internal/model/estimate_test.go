package model

import (
	"math"
	"testing"
)

func TestEstimateSheetsBasic(t *testing.T) {
	job := NestJob{SheetWidth: 21, SheetHeight: 21, Margin: 0.5}
	defs := []PartDefinition{
		NewPartDefinition("a.dxf", "", squareGeom(10), nil, 4),
	}
	est := EstimateSheets(job, defs)

	if math.Abs(est.TotalPartArea-400) > 1e-9 {
		t.Errorf("expected part area 400, got %g", est.TotalPartArea)
	}
	if math.Abs(est.TotalFootprintArea-400) > 1e-9 {
		t.Errorf("expected footprint area 400, got %g", est.TotalFootprintArea)
	}
	if est.SheetsNeededMin != 1 {
		t.Errorf("expected 1 sheet, got %d", est.SheetsNeededMin)
	}
	if math.Abs(est.BestUtilization-1.0) > 1e-9 {
		t.Errorf("expected utilization 1.0, got %g", est.BestUtilization)
	}
}

func TestEstimateSheetsSpacingInflatesFootprint(t *testing.T) {
	job := NestJob{SheetWidth: 20, SheetHeight: 20, Spacing: 1, Kerf: 1}
	defs := []PartDefinition{NewPartDefinition("a.dxf", "", squareGeom(10), nil, 4)}
	est := EstimateSheets(job, defs)

	// Half gap is 1.0, so each footprint is 12 x 12.
	if math.Abs(est.TotalFootprintArea-4*144) > 1e-9 {
		t.Errorf("expected footprint area 576, got %g", est.TotalFootprintArea)
	}
	if est.SheetsNeededMin != 2 {
		t.Errorf("expected 2 sheets, got %d", est.SheetsNeededMin)
	}
	if est.BestUtilization >= 1.0 {
		t.Errorf("utilization should drop below 1.0, got %g", est.BestUtilization)
	}
}

func TestEstimateSheetsZeroUsableArea(t *testing.T) {
	job := NestJob{SheetWidth: 1, SheetHeight: 1, Margin: 0.5}
	defs := []PartDefinition{NewPartDefinition("a.dxf", "", squareGeom(10), nil, 1)}
	est := EstimateSheets(job, defs)

	if est.SheetsNeededMin != 0 {
		t.Errorf("expected 0 sheets for zero usable area, got %d", est.SheetsNeededMin)
	}
	if est.TotalPartArea <= 0 {
		t.Error("expected positive part area even with unusable sheet")
	}
}

func TestEstimateSheetsHolesDoNotCount(t *testing.T) {
	geom := PolygonSet{
		Outer: Polygon{{0, 0}, {10, 0}, {10, 10}, {0, 10}},
		Holes: []Polygon{{{2, 2}, {2, 8}, {8, 8}, {8, 2}}},
	}
	job := NestJob{SheetWidth: 10, SheetHeight: 10}
	est := EstimateSheets(job, []PartDefinition{NewPartDefinition("a.dxf", "", geom, nil, 1)})

	// Net part area excludes the hole, the footprint does not.
	if math.Abs(est.TotalPartArea-64) > 1e-9 {
		t.Errorf("expected net part area 64, got %g", est.TotalPartArea)
	}
	if math.Abs(est.TotalFootprintArea-100) > 1e-9 {
		t.Errorf("expected footprint area 100, got %g", est.TotalFootprintArea)
	}
}
