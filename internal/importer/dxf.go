// Package importer turns DXF drawings into nestable part geometry and reads
// part lists from CSV or Excel files.
package importer

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"
	"github.com/yofu/dxf/table"

	"github.com/piwi3910/NestCut/internal/model"
)

// DefaultLayers is the layer allow-list used when Options.Layers is empty.
// Layer comparison is case-insensitive.
var DefaultLayers = []string{"CUT", "0"}

const (
	// snapTolCap bounds how loose endpoint stitching may get regardless of
	// the chord tolerance.
	snapTolCap = 1e-4

	minCircleSegments = 8
	maxArcSegments    = 2048

	// minPartDim and minPartArea reject contours that collapse to a point
	// or a sliver once stitched.
	minPartDim  = 1e-4
	minPartArea = 1e-8
)

// Options control how DXF geometry is read.
type Options struct {
	// Layers is the entity layer allow-list; empty means DefaultLayers.
	Layers []string
	// ChordTol is the maximum chord-to-arc deviation in inches used when
	// discretizing curves. Zero or negative means model.DefaultChordTol.
	ChordTol float64
	// Multi allows the file to contain several disjoint outer contours,
	// each becoming its own part.
	Multi bool
}

// PartGeometry is one imported part before quantities and constraints are
// attached: the discretized silhouette plus the original entities, both in a
// local frame whose outer bounding box starts at the origin.
type PartGeometry struct {
	Source   string
	Label    string
	Set      model.PolygonSet
	Entities []model.Entity
}

// chain is a discretized run of connected entities. Open chains wait in the
// stitch pool; closed ones become contours.
type chain struct {
	pts  model.Polygon
	ents []model.Entity
}

// ImportFile reads one DXF file and returns the parts found on the allowed
// layers. A file normally holds a single part; with opts.Multi every disjoint
// outer contour becomes its own part, labeled "<path>#k" in descending area
// order.
func ImportFile(path string, opts Options) ([]PartGeometry, error) {
	drawing, err := dxf.Open(path)
	if err != nil {
		return nil, &model.ParseError{Source: path, Reason: "cannot open DXF file", Err: err}
	}

	tol := opts.ChordTol
	if tol <= 0 {
		tol = model.DefaultChordTol
	}
	snap := snapTol(tol)
	layers := opts.Layers
	if len(layers) == 0 {
		layers = DefaultLayers
	}

	var pool []chain   // loose paths still to be stitched
	var closed []chain // complete loops (circles, closed polylines)
	total := 0
	for _, ent := range drawing.Entities() {
		total++
		if !layerAllowed(layers, layerName(ent)) {
			continue
		}
		switch e := ent.(type) {
		case *entity.Line:
			p1 := model.Point2D{X: e.Start[0], Y: e.Start[1]}
			p2 := model.Point2D{X: e.End[0], Y: e.End[1]}
			if math.Hypot(p2.X-p1.X, p2.Y-p1.Y) < 1e-12 {
				continue // zero-length line, nothing to cut
			}
			pool = append(pool, chain{
				pts:  model.Polygon{p1, p2},
				ents: []model.Entity{model.Line(p1, p2)},
			})
		case *entity.Arc:
			if e.Radius <= 0 {
				return nil, &model.DegenerateGeometryError{
					Source: path,
					Reason: fmt.Sprintf("arc with non-positive radius %g", e.Radius),
				}
			}
			pool = append(pool, arcPath(e.Center[0], e.Center[1], e.Radius, e.Angle[0], e.Angle[1], tol))
		case *entity.Circle:
			if e.Radius <= 0 {
				return nil, &model.DegenerateGeometryError{
					Source: path,
					Reason: fmt.Sprintf("circle with non-positive radius %g", e.Radius),
				}
			}
			closed = append(closed, circleLoop(e.Center[0], e.Center[1], e.Radius, tol))
		case *entity.LwPolyline:
			edges := lwPolylineEdges(e, tol)
			if len(edges) == 0 {
				continue
			}
			if e.Closed {
				closed = append(closed, joinEdges(edges, snap))
			} else {
				pool = append(pool, edges...)
			}
		default:
			// TEXT, DIMENSION, HATCH and friends carry no cut geometry.
		}
	}
	if total == 0 {
		return nil, &model.ParseError{Source: path, Reason: "file contains no entities"}
	}
	if len(pool) == 0 && len(closed) == 0 {
		return nil, &model.ParseError{
			Source: path,
			Reason: fmt.Sprintf("no usable entities on layers %s", strings.Join(layers, ", ")),
		}
	}

	loops, open := stitch(pool, snap)
	if len(open) > 0 {
		p := open[0].pts[0]
		return nil, &model.DegenerateGeometryError{
			Source: path,
			Reason: fmt.Sprintf("open contour near (%.4f, %.4f): %d chain(s) do not close", p.X, p.Y, len(open)),
		}
	}
	closed = append(closed, loops...)

	for _, c := range closed {
		if len(c.pts) < 3 {
			return nil, &model.DegenerateGeometryError{
				Source: path,
				Reason: "contour has fewer than 3 distinct points",
			}
		}
	}

	groups, err := groupContours(closed, path, opts.Multi)
	if err != nil {
		return nil, err
	}

	parts := make([]PartGeometry, 0, len(groups))
	for k, g := range groups {
		label := path
		if len(groups) > 1 {
			label = fmt.Sprintf("%s#%d", path, k+1)
		}
		part, err := buildPart(path, label, g)
		if err != nil {
			return nil, err
		}
		parts = append(parts, part)
	}
	return parts, nil
}

// snapTol derives the endpoint stitching tolerance from the chord tolerance.
// Stitching must be tighter than discretization or distinct joints blur
// together.
func snapTol(chordTol float64) float64 {
	return math.Min(snapTolCap, chordTol/10)
}

func layerAllowed(layers []string, name string) bool {
	for _, l := range layers {
		if strings.EqualFold(l, name) {
			return true
		}
	}
	return false
}

// layerName returns the layer an entity sits on, or "0" when the entity does
// not expose one.
func layerName(ent entity.Entity) string {
	type layered interface{ Layer() *table.Layer }
	l, ok := ent.(layered)
	if !ok || l.Layer() == nil {
		return "0"
	}
	type named interface{ Name() string }
	if n, ok := any(l.Layer()).(named); ok {
		return n.Name()
	}
	return "0"
}

func pointsClose(a, b model.Point2D, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol && math.Abs(a.Y-b.Y) <= tol
}

// chordSegments returns how many chords keep the deviation from a circular
// sweep (radians, radius r) under tol.
func chordSegments(sweep, r, tol float64) int {
	ratio := 1 - tol/r
	if ratio < -1 {
		ratio = -1
	}
	per := 2 * math.Acos(ratio) // widest sweep one chord may span
	if per <= 0 {
		return maxArcSegments // tol/r underflowed
	}
	n := int(math.Ceil(math.Abs(sweep) / per))
	if n < 1 {
		n = 1
	}
	if n > maxArcSegments {
		n = maxArcSegments
	}
	return n
}

// arcPath discretizes a counter-clockwise arc between two angles in degrees,
// as DXF ARC entities are defined.
func arcPath(cx, cy, r, startDeg, endDeg, tol float64) chain {
	start := startDeg * math.Pi / 180
	end := endDeg * math.Pi / 180
	for end <= start {
		end += 2 * math.Pi
	}
	sweep := end - start
	n := chordSegments(sweep, r, tol)
	pts := make(model.Polygon, 0, n+1)
	for i := 0; i <= n; i++ {
		a := start + sweep*float64(i)/float64(n)
		pts = append(pts, model.Point2D{X: cx + r*math.Cos(a), Y: cy + r*math.Sin(a)})
	}
	center := model.Point2D{X: cx, Y: cy}
	return chain{pts: pts, ents: []model.Entity{model.Arc(center, r, startDeg, endDeg)}}
}

func circleLoop(cx, cy, r, tol float64) chain {
	n := chordSegments(2*math.Pi, r, tol)
	if n < minCircleSegments {
		n = minCircleSegments
	}
	pts := make(model.Polygon, 0, n)
	for i := 0; i < n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		pts = append(pts, model.Point2D{X: cx + r*math.Cos(a), Y: cy + r*math.Sin(a)})
	}
	center := model.Point2D{X: cx, Y: cy}
	return chain{pts: pts, ents: []model.Entity{model.Circle(center, r)}}
}

// bulgeArc expands one bulged polyline edge into chord points plus the arc it
// came from. The bulge is tan(theta/4) of the included angle, positive when
// the arc sweeps counter-clockwise from p1 to p2.
func bulgeArc(p1, p2 model.Point2D, bulge, tol float64) chain {
	dx, dy := p2.X-p1.X, p2.Y-p1.Y
	chord := math.Hypot(dx, dy)
	if chord < 1e-12 {
		return chain{pts: model.Polygon{p1, p2}, ents: []model.Entity{model.Line(p1, p2)}}
	}
	sagitta := math.Abs(bulge) * chord / 2
	r := (chord*chord/(4*sagitta) + sagitta) / 2

	// Unit normal pointing left of the travel direction; the center sits on
	// that side for positive bulges, opposite for negative ones. The offset
	// r-sagitta goes negative past a half circle, which puts the center on
	// the chord's far side.
	nx, ny := -dy/chord, dx/chord
	if bulge < 0 {
		nx, ny = -nx, -ny
	}
	mx, my := (p1.X+p2.X)/2, (p1.Y+p2.Y)/2
	cx := mx + nx*(r-sagitta)
	cy := my + ny*(r-sagitta)

	start := math.Atan2(p1.Y-cy, p1.X-cx)
	end := math.Atan2(p2.Y-cy, p2.X-cx)
	if bulge > 0 {
		for end <= start {
			end += 2 * math.Pi
		}
	} else {
		for end >= start {
			end -= 2 * math.Pi
		}
	}
	sweep := end - start

	n := chordSegments(sweep, r, tol)
	pts := make(model.Polygon, 0, n+1)
	pts = append(pts, p1)
	for i := 1; i < n; i++ {
		a := start + sweep*float64(i)/float64(n)
		pts = append(pts, model.Point2D{X: cx + r*math.Cos(a), Y: cy + r*math.Sin(a)})
	}
	pts = append(pts, p2)

	// Stored arcs run counter-clockwise, so a negative bulge swaps the ends.
	sa, ea := start, end
	if bulge < 0 {
		sa, ea = end, start
	}
	center := model.Point2D{X: cx, Y: cy}
	arc := model.Arc(center, r, sa*180/math.Pi, ea*180/math.Pi)
	return chain{pts: pts, ents: []model.Entity{arc}}
}

// lwPolylineEdges expands a polyline into per-edge chains, honoring bulges.
// Zero-length edges (a closing vertex repeating the first) are dropped.
func lwPolylineEdges(e *entity.LwPolyline, tol float64) []chain {
	n := len(e.Vertices)
	if n < 2 {
		return nil
	}
	edges := n - 1
	if e.Closed {
		edges = n
	}
	out := make([]chain, 0, edges)
	for i := 0; i < edges; i++ {
		v1 := e.Vertices[i]
		v2 := e.Vertices[(i+1)%n]
		p1 := model.Point2D{X: v1[0], Y: v1[1]}
		p2 := model.Point2D{X: v2[0], Y: v2[1]}
		if math.Hypot(p2.X-p1.X, p2.Y-p1.Y) < 1e-12 {
			continue
		}
		bulge := 0.0
		if i < len(e.Bulges) {
			bulge = e.Bulges[i]
		}
		if bulge != 0 {
			out = append(out, bulgeArc(p1, p2, bulge, tol))
		} else {
			out = append(out, chain{
				pts:  model.Polygon{p1, p2},
				ents: []model.Entity{model.Line(p1, p2)},
			})
		}
	}
	return out
}

// joinEdges concatenates the edges of a closed polyline into a single loop,
// collapsing the shared endpoints.
func joinEdges(edges []chain, snap float64) chain {
	var pts model.Polygon
	var ents []model.Entity
	for _, e := range edges {
		ents = append(ents, e.ents...)
		for _, p := range e.pts {
			if len(pts) > 0 && pointsClose(pts[len(pts)-1], p, snap) {
				continue
			}
			pts = append(pts, p)
		}
	}
	if len(pts) > 1 && pointsClose(pts[0], pts[len(pts)-1], snap) {
		pts = pts[:len(pts)-1]
	}
	return chain{pts: pts, ents: ents}
}

// stitch greedily connects loose chains end to end. Chains whose tail returns
// to their head become closed loops; anything left over is reported back so
// the caller can reject the geometry.
func stitch(pool []chain, snap float64) (closed, open []chain) {
	used := make([]bool, len(pool))
	for i := range pool {
		if used[i] {
			continue
		}
		used[i] = true
		pts := append(model.Polygon(nil), pool[i].pts...)
		ents := append([]model.Entity(nil), pool[i].ents...)
		for {
			if len(pts) > 2 && pointsClose(pts[0], pts[len(pts)-1], snap) {
				break
			}
			tail := pts[len(pts)-1]
			next := -1
			reversed := false
			for j := range pool {
				if used[j] {
					continue
				}
				if pointsClose(tail, pool[j].pts[0], snap) {
					next, reversed = j, false
					break
				}
				if pointsClose(tail, pool[j].pts[len(pool[j].pts)-1], snap) {
					next, reversed = j, true
					break
				}
			}
			if next < 0 {
				break
			}
			used[next] = true
			add := pool[next].pts
			if reversed {
				add = add.Reverse()
			}
			pts = append(pts, add[1:]...)
			ents = append(ents, pool[next].ents...)
		}
		c := chain{pts: pts, ents: ents}
		if len(pts) > 2 && pointsClose(pts[0], pts[len(pts)-1], snap) {
			c.pts = pts[:len(pts)-1] // drop the duplicated closing point
			closed = append(closed, c)
		} else {
			open = append(open, c)
		}
	}
	return closed, open
}

// contourGroup is one outer boundary with the holes cut out of it.
type contourGroup struct {
	outer chain
	holes []chain
}

// groupContours assigns every closed contour a role: a contour contained by
// nothing is an outer boundary, a contour inside exactly one other is a hole.
// Deeper nesting has no cut semantics and is rejected, as are multiple outer
// boundaries unless the caller asked for a multi-part file.
func groupContours(pieces []chain, source string, multi bool) ([]contourGroup, error) {
	sort.SliceStable(pieces, func(i, j int) bool {
		return pieces[i].pts.Area() > pieces[j].pts.Area()
	})

	parent := make([]int, len(pieces))
	depth := make([]int, len(pieces))
	for i := range pieces {
		parent[i] = -1
		for j := range pieces {
			if j == i || pieces[j].pts.Area() <= pieces[i].pts.Area() {
				continue
			}
			if pieces[j].pts.Contains(pieces[i].pts[0]) {
				depth[i]++
				// The smallest containing contour is the direct parent.
				if parent[i] == -1 || pieces[j].pts.Area() < pieces[parent[i]].pts.Area() {
					parent[i] = j
				}
			}
		}
	}

	groupOf := make(map[int]int)
	var groups []contourGroup
	for i := range pieces {
		switch depth[i] {
		case 0:
			groupOf[i] = len(groups)
			groups = append(groups, contourGroup{outer: pieces[i]})
		case 1:
			g := groupOf[parent[i]]
			groups[g].holes = append(groups[g].holes, pieces[i])
		default:
			return nil, &model.DegenerateGeometryError{
				Source: source,
				Reason: "contours nested more than one level deep",
			}
		}
	}
	if len(groups) > 1 && !multi {
		return nil, &model.DegenerateGeometryError{
			Source: source,
			Reason: fmt.Sprintf("%d disjoint outer contours in a single-part file", len(groups)),
		}
	}
	return groups, nil
}

// buildPart assembles one outer contour and its holes into a part whose local
// frame starts at the origin. The original entities get the same shift so
// they stay aligned with the discretized silhouette.
func buildPart(source, label string, g contourGroup) (PartGeometry, error) {
	min, max := g.outer.pts.BoundingBox()
	w, h := max.X-min.X, max.Y-min.Y
	if w < minPartDim || h < minPartDim || g.outer.pts.Area() < minPartArea {
		return PartGeometry{}, &model.DegenerateGeometryError{
			Source: source,
			Reason: fmt.Sprintf("outer contour %.6g x %.6g collapses to a sliver", w, h),
		}
	}

	set := model.PolygonSet{Outer: g.outer.pts}
	ents := append([]model.Entity(nil), g.outer.ents...)
	for _, hole := range g.holes {
		set.Holes = append(set.Holes, hole.pts)
		ents = append(ents, hole.ents...)
	}
	set = set.Normalize()
	for i := range ents {
		ents[i] = ents[i].Transform(0, false, -min.X, -min.Y)
	}
	return PartGeometry{Source: source, Label: label, Set: set, Entities: ents}, nil
}
