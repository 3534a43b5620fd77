package model

import "testing"

func TestEntityKindString(t *testing.T) {
	if LineEntity.String() != "LINE" || ArcEntity.String() != "ARC" || CircleEntity.String() != "CIRCLE" {
		t.Errorf("unexpected kind names: %s %s %s", LineEntity, ArcEntity, CircleEntity)
	}
}

func TestLineTransformRotation(t *testing.T) {
	e := Line(Point2D{0, 0}, Point2D{10, 0}).Transform(90, false, 1, 2)
	if e.Start.X != 1 || e.Start.Y != 2 {
		t.Errorf("expected start (1, 2), got (%g, %g)", e.Start.X, e.Start.Y)
	}
	if e.End.X != 1 || e.End.Y != 12 {
		t.Errorf("expected end (1, 12), got (%g, %g)", e.End.X, e.End.Y)
	}
}

func TestCircleTransform(t *testing.T) {
	e := Circle(Point2D{3, 0}, 2).Transform(180, false, 10, 0)
	if e.Center.X != 7 || e.Center.Y != 0 {
		t.Errorf("expected center (7, 0), got (%g, %g)", e.Center.X, e.Center.Y)
	}
	if e.Radius != 2 {
		t.Errorf("radius should be unchanged, got %g", e.Radius)
	}
}

func TestArcTransformRotationShiftsAngles(t *testing.T) {
	e := Arc(Point2D{0, 0}, 5, 0, 90).Transform(90, false, 0, 0)
	if e.StartAngle != 90 || e.EndAngle != 180 {
		t.Errorf("expected angles 90..180, got %g..%g", e.StartAngle, e.EndAngle)
	}
}

func TestArcTransformRotationWraps(t *testing.T) {
	e := Arc(Point2D{0, 0}, 5, 300, 350).Transform(90, false, 0, 0)
	if e.StartAngle != 30 || e.EndAngle != 80 {
		t.Errorf("expected angles 30..80, got %g..%g", e.StartAngle, e.EndAngle)
	}
}

func TestArcTransformMirrorKeepsSweepDirection(t *testing.T) {
	// A quarter arc from 0 to 90 mirrors to a quarter arc from 90 to 180,
	// still swept counter-clockwise.
	e := Arc(Point2D{2, 0}, 5, 0, 90).Transform(0, true, 0, 0)
	if e.Center.X != -2 {
		t.Errorf("expected mirrored center x -2, got %g", e.Center.X)
	}
	if e.StartAngle != 90 || e.EndAngle != 180 {
		t.Errorf("expected angles 90..180, got %g..%g", e.StartAngle, e.EndAngle)
	}
}

func TestNormalizeDeg(t *testing.T) {
	tests := []struct{ in, want float64 }{
		{0, 0},
		{360, 0},
		{-90, 270},
		{450, 90},
		{720, 0},
	}
	for _, tt := range tests {
		if got := normalizeDeg(tt.in); got != tt.want {
			t.Errorf("normalizeDeg(%g) = %g, want %g", tt.in, got, tt.want)
		}
	}
}
