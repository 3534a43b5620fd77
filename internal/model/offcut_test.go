package model

import (
	"fmt"
	"math"
	"testing"
)

// placedSheet builds a 47x47 usable sheet with one placement per footprint.
func placedSheet(index int, footprints ...Rect) *Sheet {
	def := NewPartDefinition("a.dxf", "", squareGeom(1), nil, 1)
	s := &Sheet{Index: index, Width: 47, Height: 47}
	for i, f := range footprints {
		s.Placements = append(s.Placements, Placement{
			InstanceID: fmt.Sprintf("%s-%02d", def.ID, i+1),
			Def:        &def,
			Footprint:  f,
		})
	}
	return s
}

func TestDetectOffcutsEmptySheet(t *testing.T) {
	s := &Sheet{Index: 0, Width: 47, Height: 47}
	offcuts := DetectOffcuts(s)
	if len(offcuts) != 1 {
		t.Fatalf("expected 1 offcut, got %d", len(offcuts))
	}
	o := offcuts[0]
	if o.X != 0 || o.Y != 0 || o.Width != 47 || o.Height != 47 {
		t.Errorf("expected the whole usable area, got %+v", o)
	}
}

func TestDetectOffcutsRightStrip(t *testing.T) {
	s := placedSheet(0, Rect{X: 0, Y: 0, Width: 20, Height: 47})
	offcuts := DetectOffcuts(s)
	if len(offcuts) != 1 {
		t.Fatalf("expected 1 offcut, got %d: %+v", len(offcuts), offcuts)
	}
	o := offcuts[0]
	if o.X != 20 || o.Y != 0 || o.Width != 27 || o.Height != 47 {
		t.Errorf("unexpected right strip: %+v", o)
	}
}

func TestDetectOffcutsTopStripClampedToPartWidth(t *testing.T) {
	s := placedSheet(1, Rect{X: 0, Y: 0, Width: 20, Height: 10})
	offcuts := DetectOffcuts(s)
	if len(offcuts) != 2 {
		t.Fatalf("expected 2 offcuts, got %d: %+v", len(offcuts), offcuts)
	}

	// Largest first: the right strip spans the full height.
	right, top := offcuts[0], offcuts[1]
	if right.X != 20 || right.Width != 27 || right.Height != 47 {
		t.Errorf("unexpected right strip: %+v", right)
	}
	if top.X != 0 || top.Y != 10 || top.Width != 20 || top.Height != 37 {
		t.Errorf("unexpected top strip: %+v", top)
	}
}

func TestDetectOffcutsIgnoresSlivers(t *testing.T) {
	// All but a 1 in strip on the right and half an inch on top is covered.
	s := placedSheet(2, Rect{X: 0, Y: 0, Width: 46, Height: 46.5})
	if offcuts := DetectOffcuts(s); len(offcuts) != 0 {
		t.Errorf("expected no offcuts, got %+v", offcuts)
	}
}

func TestOffcutIDsAreStable(t *testing.T) {
	a := DetectOffcuts(placedSheet(0, Rect{X: 0, Y: 0, Width: 20, Height: 10}))
	b := DetectOffcuts(placedSheet(0, Rect{X: 0, Y: 0, Width: 20, Height: 10}))
	if len(a) != len(b) {
		t.Fatalf("expected identical results, got %d vs %d offcuts", len(a), len(b))
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			t.Errorf("offcut %d: id %s != %s", i, a[i].ID, b[i].ID)
		}
	}
}

func TestDetectAllOffcuts(t *testing.T) {
	result := &NestResult{Sheets: []*Sheet{
		placedSheet(0, Rect{X: 0, Y: 0, Width: 20, Height: 47}),
		placedSheet(1, Rect{X: 0, Y: 0, Width: 47, Height: 47}),
	}}
	offcuts := DetectAllOffcuts(result)
	if len(offcuts) != 1 {
		t.Fatalf("expected 1 offcut, got %d", len(offcuts))
	}
	if offcuts[0].SheetIndex != 0 {
		t.Errorf("expected offcut from sheet 0, got sheet %d", offcuts[0].SheetIndex)
	}
}

func TestTotalOffcutArea(t *testing.T) {
	offcuts := []Offcut{
		{Width: 10, Height: 10},
		{Width: 5, Height: 2},
	}
	if got := TotalOffcutArea(offcuts); math.Abs(got-110) > 1e-9 {
		t.Errorf("expected 110, got %g", got)
	}
}
