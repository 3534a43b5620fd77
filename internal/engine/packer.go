package engine

import (
	"math"
	"sort"

	"github.com/piwi3910/NestCut/internal/model"
)

// candidate is one allowed orientation of a part: the bounding box of its
// expanded silhouette at that rotation and mirror state, plus the local bbox
// min corner. Placing the footprint rect at an anchor means translating the
// part by (anchor - offset).
type candidate struct {
	index    int
	angle    float64
	mirrored bool
	width    float64
	height   float64
	offsetX  float64
	offsetY  float64
}

// buildCandidates enumerates the orientations the packer may try for a
// definition, in deterministic order: unmirrored rotations ascending, then
// mirrored rotations when both the job and the part allow mirroring. Part
// constraints replace the job's rotation set entirely.
func buildCandidates(def *model.PartDefinition, job model.NestJob) []candidate {
	expanded := inflate(def.Geometry.Outer, job.HalfGap())

	angles := job.RotationAngles()
	if len(def.Constraints.Rotations) > 0 {
		angles = append([]float64(nil), def.Constraints.Rotations...)
		sort.Float64s(angles)
	}
	mirrors := []bool{false}
	if job.AllowMirror && !def.Constraints.NoMirror {
		mirrors = append(mirrors, true)
	}

	cands := make([]candidate, 0, len(angles)*len(mirrors))
	for _, m := range mirrors {
		base := expanded
		if m {
			base = base.Mirror()
		}
		for _, a := range angles {
			min, max := base.Rotate(a).BoundingBox()
			cands = append(cands, candidate{
				index:    len(cands),
				angle:    a,
				mirrored: m,
				width:    max.X - min.X,
				height:   max.Y - min.Y,
				offsetX:  min.X,
				offsetY:  min.Y,
			})
		}
	}
	return cands
}

// anyFits reports whether at least one candidate fits a w x h rectangle.
func anyFits(cands []candidate, w, h float64) bool {
	for _, c := range cands {
		if c.width <= w+geomSlack && c.height <= h+geomSlack {
			return true
		}
	}
	return false
}

// geomSlack absorbs float64 noise when comparing coordinates during
// placement selection.
const geomSlack = 1e-9

// sheetPacker runs bottom-left-fill over one sheet's usable rectangle.
// Anchors are the positions the next footprint's min corner may take: the
// sheet origin plus, for every committed footprint, its bottom-right,
// top-left, and top-right corners.
type sheetPacker struct {
	width   float64
	height  float64
	rects   []model.Rect
	anchors []model.Point2D
}

func newSheetPacker(w, h float64) *sheetPacker {
	return &sheetPacker{
		width:   w,
		height:  h,
		anchors: []model.Point2D{{X: 0, Y: 0}},
	}
}

// place tries every anchor and candidate pairing and commits the footprint
// whose top edge ends up lowest, breaking ties by smaller anchor x and then
// smaller candidate index. It returns the committed rect and the winning
// candidate's index, or ok=false when nothing fits the remaining space.
func (p *sheetPacker) place(cands []candidate) (model.Rect, int, bool) {
	bestTop := math.Inf(1)
	bestX := math.Inf(1)
	bestIdx := -1
	var best model.Rect

	for _, a := range p.anchors {
		for _, c := range cands {
			r := model.Rect{X: a.X, Y: a.Y, Width: c.width, Height: c.height}
			if !r.ContainedIn(p.width, p.height) || p.overlapsAny(r) {
				continue
			}
			top := r.Y + r.Height
			better := top < bestTop-geomSlack ||
				(top < bestTop+geomSlack && (a.X < bestX-geomSlack ||
					(a.X < bestX+geomSlack && c.index < bestIdx)))
			if better {
				bestTop = top
				bestX = a.X
				bestIdx = c.index
				best = r
			}
		}
	}
	if bestIdx < 0 {
		return model.Rect{}, -1, false
	}
	p.commit(best)
	return best, bestIdx, true
}

func (p *sheetPacker) overlapsAny(r model.Rect) bool {
	for _, o := range p.rects {
		if r.Overlaps(o) {
			return true
		}
	}
	return false
}

// commit records the footprint and seeds anchors at its free corners.
// Anchors that end up covered by later placements are harmless: every
// probe re-checks containment and overlap.
func (p *sheetPacker) commit(r model.Rect) {
	p.rects = append(p.rects, r)
	p.anchors = append(p.anchors,
		model.Point2D{X: r.X + r.Width, Y: r.Y},
		model.Point2D{X: r.X, Y: r.Y + r.Height},
		model.Point2D{X: r.X + r.Width, Y: r.Y + r.Height},
	)
}
