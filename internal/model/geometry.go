package model

import "math"

// Point2D represents a 2D coordinate in inches.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Polygon represents a closed polygon as a sequence of 2D points.
// The polygon is implicitly closed: the last point connects back to the first.
// Outer contours are wound counter-clockwise (positive signed area), holes
// clockwise (negative signed area).
type Polygon []Point2D

// BoundingBox returns the min and max corners of the polygon.
func (p Polygon) BoundingBox() (min, max Point2D) {
	if len(p) == 0 {
		return Point2D{}, Point2D{}
	}
	min = Point2D{X: p[0].X, Y: p[0].Y}
	max = Point2D{X: p[0].X, Y: p[0].Y}
	for _, pt := range p[1:] {
		if pt.X < min.X {
			min.X = pt.X
		}
		if pt.Y < min.Y {
			min.Y = pt.Y
		}
		if pt.X > max.X {
			max.X = pt.X
		}
		if pt.Y > max.Y {
			max.Y = pt.Y
		}
	}
	return min, max
}

// Translate shifts all points by dx, dy.
func (p Polygon) Translate(dx, dy float64) Polygon {
	result := make(Polygon, len(p))
	for i, pt := range p {
		result[i] = Point2D{X: pt.X + dx, Y: pt.Y + dy}
	}
	return result
}

// Rotate rotates all points about the origin by the given angle in degrees,
// counter-clockwise. Quarter-turn angles use exact sine/cosine values so that
// axis-aligned geometry stays axis-aligned.
func (p Polygon) Rotate(deg float64) Polygon {
	sin, cos := sincosDeg(deg)
	result := make(Polygon, len(p))
	for i, pt := range p {
		result[i] = Point2D{
			X: pt.X*cos - pt.Y*sin,
			Y: pt.X*sin + pt.Y*cos,
		}
	}
	return result
}

// Mirror reflects all points across the Y axis (x becomes -x). Note that
// mirroring reverses the winding direction.
func (p Polygon) Mirror() Polygon {
	result := make(Polygon, len(p))
	for i, pt := range p {
		result[i] = Point2D{X: -pt.X, Y: pt.Y}
	}
	return result
}

// Reverse returns the polygon with its vertex order (and therefore its
// winding direction) reversed.
func (p Polygon) Reverse() Polygon {
	result := make(Polygon, len(p))
	for i, pt := range p {
		result[len(p)-1-i] = pt
	}
	return result
}

// SignedArea computes the polygon area using the shoelace formula.
// Positive for counter-clockwise winding, negative for clockwise.
func (p Polygon) SignedArea() float64 {
	n := len(p)
	if n < 3 {
		return 0
	}
	var area float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += p[i].X * p[j].Y
		area -= p[j].X * p[i].Y
	}
	return area / 2
}

// Area returns the absolute polygon area.
func (p Polygon) Area() float64 {
	return math.Abs(p.SignedArea())
}

// Perimeter returns the total edge length of the closed polygon.
func (p Polygon) Perimeter() float64 {
	n := len(p)
	if n < 2 {
		return 0
	}
	var total float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		dx := p[j].X - p[i].X
		dy := p[j].Y - p[i].Y
		total += math.Sqrt(dx*dx + dy*dy)
	}
	return total
}

// Contains reports whether the point lies strictly inside the polygon,
// using the even-odd ray casting rule. Points on the boundary are not
// guaranteed to be classified consistently.
func (p Polygon) Contains(pt Point2D) bool {
	n := len(p)
	if n < 3 {
		return false
	}
	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		pi, pj := p[i], p[j]
		if (pi.Y > pt.Y) != (pj.Y > pt.Y) &&
			pt.X < (pj.X-pi.X)*(pt.Y-pi.Y)/(pj.Y-pi.Y)+pi.X {
			inside = !inside
		}
	}
	return inside
}

// sincosDeg returns sin and cos for an angle in degrees, with exact values
// for multiples of 90 so rotated boxes keep exact dimensions.
func sincosDeg(deg float64) (sin, cos float64) {
	switch math.Mod(math.Mod(deg, 360)+360, 360) {
	case 0:
		return 0, 1
	case 90:
		return 1, 0
	case 180:
		return 0, -1
	case 270:
		return -1, 0
	}
	rad := deg * math.Pi / 180
	return math.Sin(rad), math.Cos(rad)
}

// PolygonSet is a part silhouette: one outer contour plus zero or more holes.
// The outer contour is wound counter-clockwise, holes clockwise.
type PolygonSet struct {
	Outer Polygon   `json:"outer"`
	Holes []Polygon `json:"holes,omitempty"`
}

// Area returns the net material area: outer area minus hole areas.
func (ps PolygonSet) Area() float64 {
	area := ps.Outer.Area()
	for _, h := range ps.Holes {
		area -= h.Area()
	}
	if area < 0 {
		return 0
	}
	return area
}

// CutLength returns the total cut path length: the outer perimeter plus the
// perimeter of every hole.
func (ps PolygonSet) CutLength() float64 {
	total := ps.Outer.Perimeter()
	for _, h := range ps.Holes {
		total += h.Perimeter()
	}
	return total
}

// Transform rotates (degrees, counter-clockwise about the origin), optionally
// mirrors across the Y axis before rotating, and then translates every ring.
func (ps PolygonSet) Transform(rotDeg float64, mirrored bool, dx, dy float64) PolygonSet {
	apply := func(p Polygon) Polygon {
		if mirrored {
			p = p.Mirror()
		}
		return p.Rotate(rotDeg).Translate(dx, dy)
	}
	out := PolygonSet{Outer: apply(ps.Outer)}
	if len(ps.Holes) > 0 {
		out.Holes = make([]Polygon, len(ps.Holes))
		for i, h := range ps.Holes {
			out.Holes[i] = apply(h)
		}
	}
	return out
}

// Normalize translates the set so the outer contour's bounding box starts at
// (0, 0) and enforces the winding convention (outer counter-clockwise, holes
// clockwise).
func (ps PolygonSet) Normalize() PolygonSet {
	min, _ := ps.Outer.BoundingBox()
	out := PolygonSet{Outer: ps.Outer.Translate(-min.X, -min.Y)}
	if out.Outer.SignedArea() < 0 {
		out.Outer = out.Outer.Reverse()
	}
	if len(ps.Holes) > 0 {
		out.Holes = make([]Polygon, len(ps.Holes))
		for i, h := range ps.Holes {
			hole := h.Translate(-min.X, -min.Y)
			if hole.SignedArea() > 0 {
				hole = hole.Reverse()
			}
			out.Holes[i] = hole
		}
	}
	return out
}

// Rect is an axis-aligned rectangle, used for placement footprints,
// occupancy queries, and offcut accounting.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Area returns the rectangle area.
func (r Rect) Area() float64 {
	return r.Width * r.Height
}

// geomEps is the slack used when comparing placement coordinates, so that
// touching footprints do not count as overlapping.
const geomEps = 1e-9

// Overlaps reports whether two rectangles overlap with positive area.
// Rectangles that merely share an edge do not overlap.
func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.X+o.Width-geomEps && r.X+r.Width > o.X+geomEps &&
		r.Y < o.Y+o.Height-geomEps && r.Y+r.Height > o.Y+geomEps
}

// ContainedIn reports whether r lies entirely within the rectangle
// spanning (0, 0) to (w, h).
func (r Rect) ContainedIn(w, h float64) bool {
	return r.X >= -geomEps && r.Y >= -geomEps &&
		r.X+r.Width <= w+geomEps && r.Y+r.Height <= h+geomEps
}
