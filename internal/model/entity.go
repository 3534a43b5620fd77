package model

import "math"

// EntityKind identifies the geometric primitive an Entity holds.
type EntityKind int

const (
	LineEntity EntityKind = iota
	ArcEntity
	CircleEntity
)

func (k EntityKind) String() string {
	switch k {
	case ArcEntity:
		return "ARC"
	case CircleEntity:
		return "CIRCLE"
	default:
		return "LINE"
	}
}

// Entity is one source geometry primitive of a part, kept in its exact
// (non-discretized) form so nested output preserves true arcs. Bulge
// segments of polylines are decomposed into Line and Arc entities at import,
// which changes representation but not shape.
//
// Arcs sweep counter-clockwise from StartAngle to EndAngle (degrees from the
// positive X axis), matching the DXF convention.
type Entity struct {
	Kind       EntityKind `json:"kind"`
	Start      Point2D    `json:"start,omitempty"`
	End        Point2D    `json:"end,omitempty"`
	Center     Point2D    `json:"center,omitempty"`
	Radius     float64    `json:"radius,omitempty"`
	StartAngle float64    `json:"start_angle,omitempty"`
	EndAngle   float64    `json:"end_angle,omitempty"`
}

// Line builds a line entity between two points.
func Line(start, end Point2D) Entity {
	return Entity{Kind: LineEntity, Start: start, End: end}
}

// Arc builds a counter-clockwise arc entity. Angles are in degrees.
func Arc(center Point2D, radius, startAngle, endAngle float64) Entity {
	return Entity{Kind: ArcEntity, Center: center, Radius: radius, StartAngle: startAngle, EndAngle: endAngle}
}

// Circle builds a full circle entity.
func Circle(center Point2D, radius float64) Entity {
	return Entity{Kind: CircleEntity, Center: center, Radius: radius}
}

// Transform mirrors (across the Y axis, if requested), rotates
// counter-clockwise about the origin by rotDeg degrees, and translates the
// entity. Mirrored arcs keep the counter-clockwise convention by swapping
// and reflecting their angle range.
func (e Entity) Transform(rotDeg float64, mirrored bool, dx, dy float64) Entity {
	out := e
	switch e.Kind {
	case LineEntity:
		out.Start = transformPoint(e.Start, rotDeg, mirrored, dx, dy)
		out.End = transformPoint(e.End, rotDeg, mirrored, dx, dy)

	case CircleEntity:
		out.Center = transformPoint(e.Center, rotDeg, mirrored, dx, dy)

	case ArcEntity:
		out.Center = transformPoint(e.Center, rotDeg, mirrored, dx, dy)
		start, end := e.StartAngle, e.EndAngle
		if mirrored {
			// Reflection maps angle a to 180-a and reverses the sweep.
			start, end = 180-e.EndAngle, 180-e.StartAngle
		}
		out.StartAngle = normalizeDeg(start + rotDeg)
		out.EndAngle = normalizeDeg(end + rotDeg)
	}
	return out
}

func transformPoint(p Point2D, rotDeg float64, mirrored bool, dx, dy float64) Point2D {
	if mirrored {
		p.X = -p.X
	}
	sin, cos := sincosDeg(rotDeg)
	return Point2D{
		X: p.X*cos - p.Y*sin + dx,
		Y: p.X*sin + p.Y*cos + dy,
	}
}

// normalizeDeg wraps an angle into [0, 360).
func normalizeDeg(deg float64) float64 {
	d := math.Mod(deg, 360)
	if d < 0 {
		d += 360
	}
	return d
}
