package engine

import (
	"math"

	"github.com/piwi3910/NestCut/internal/model"
)

// inflate offsets a closed contour outward by h with mitered joins. The
// result is used only for occupancy queries, so self-intersections that a
// large offset can produce at deep concavities are tolerated: the bounding
// box and overlap behavior stay conservative.
func inflate(p model.Polygon, h float64) model.Polygon {
	if h == 0 || len(p) < 3 {
		return p
	}
	contour := dropDegenerateEdges(p)
	if len(contour) < 3 {
		return p
	}
	// Outward normals below assume counter-clockwise winding.
	if contour.SignedArea() < 0 {
		contour = contour.Reverse()
	}

	n := len(contour)
	out := make(model.Polygon, 0, n)
	for i := 0; i < n; i++ {
		prev := contour[(i+n-1)%n]
		cur := contour[i]
		next := contour[(i+1)%n]

		n1x, n1y := edgeNormal(prev, cur)
		n2x, n2y := edgeNormal(cur, next)

		dot := n1x*n2x + n1y*n2y
		if 1+dot < 1e-9 {
			// The edges double back on themselves; a miter would shoot to
			// infinity. Bevel the spike with one offset point per edge.
			out = append(out,
				model.Point2D{X: cur.X + h*n1x, Y: cur.Y + h*n1y},
				model.Point2D{X: cur.X + h*n2x, Y: cur.Y + h*n2y})
			continue
		}
		// Miter: the offset vertex lies along the summed normals, scaled so
		// both adjacent edges end up exactly h away.
		scale := h / (1 + dot)
		out = append(out, model.Point2D{
			X: cur.X + (n1x+n2x)*scale,
			Y: cur.Y + (n1y+n2y)*scale,
		})
	}
	return out
}

// edgeNormal returns the outward unit normal of the edge a->b on a
// counter-clockwise contour.
func edgeNormal(a, b model.Point2D) (nx, ny float64) {
	dx := b.X - a.X
	dy := b.Y - a.Y
	l := math.Hypot(dx, dy)
	if l == 0 {
		return 0, 0
	}
	return dy / l, -dx / l
}

// dropDegenerateEdges removes consecutive duplicate vertices, including a
// duplicated closing vertex, so every edge has a well-defined normal.
func dropDegenerateEdges(p model.Polygon) model.Polygon {
	const minEdge = 1e-12
	out := make(model.Polygon, 0, len(p))
	for _, pt := range p {
		if len(out) > 0 {
			last := out[len(out)-1]
			if math.Hypot(pt.X-last.X, pt.Y-last.Y) < minEdge {
				continue
			}
		}
		out = append(out, pt)
	}
	for len(out) > 1 {
		first := out[0]
		last := out[len(out)-1]
		if math.Hypot(first.X-last.X, first.Y-last.Y) >= minEdge {
			break
		}
		out = out[:len(out)-1]
	}
	return out
}
