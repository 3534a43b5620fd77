// Package engine packs imported part geometry onto fixed-size sheets using a
// deterministic bottom-left-fill strategy over inflated bounding-box
// footprints. Given identical inputs it always produces identical placements.
package engine

import (
	"fmt"
	"sort"
	"time"

	"github.com/piwi3910/NestCut/internal/model"
)

// Nest packs every instance of the given definitions onto as few sheets as
// possible. Definitions arrive pre-imported so callers can reuse them across
// parameter sweeps without touching the source files again.
//
// The job aborts on the first failure; errors are the model error types and
// matchable with errors.As. Sheets are allocated lazily: a new one opens only
// when no existing sheet can take the current instance, and the result never
// contains an empty sheet.
func Nest(job model.NestJob, defs []model.PartDefinition) (*model.NestResult, error) {
	start := time.Now()
	if err := job.ValidateParams(); err != nil {
		return nil, err
	}

	usableW := job.UsableWidth()
	usableH := job.UsableHeight()

	candidates := make(map[string][]candidate, len(defs))
	for i := range defs {
		def := &defs[i]
		cands := buildCandidates(def, job)
		if !anyFits(cands, usableW, usableH) {
			return nil, &model.OversizedPartError{
				Source:  def.Source,
				Width:   cands[0].width,
				Height:  cands[0].height,
				UsableW: usableW,
				UsableH: usableH,
			}
		}
		candidates[def.ID] = cands
	}

	instances := model.ExpandInstances(defs)
	sortByFootprint(instances, candidates)

	deadline := start.Add(time.Duration(job.EffectiveTimeoutS() * float64(time.Second)))
	alloc := newSheetAllocator(usableW, usableH, job.EffectiveMaxSheets())

	for _, inst := range instances {
		if time.Now().After(deadline) {
			return nil, &model.TimeoutError{
				Reason: fmt.Sprintf("wall clock budget of %gs exhausted after %d of %d placements",
					job.EffectiveTimeoutS(), alloc.placed(), len(instances)),
			}
		}
		if err := alloc.place(inst, candidates[inst.Def.ID], len(instances)); err != nil {
			return nil, err
		}
	}

	return &model.NestResult{
		Sheets: alloc.sheets,
		Metrics: model.Metrics{
			RuntimeS: time.Since(start).Seconds(),
			Parts:    len(instances),
			Sheets:   len(alloc.sheets),
		},
	}, nil
}

// newPlacement converts a committed footprint back into the part transform:
// the translation that moves the rotated part's expanded bbox min corner onto
// the footprint's min corner.
func newPlacement(inst model.PartInstance, c candidate, r model.Rect) model.Placement {
	return model.Placement{
		InstanceID: inst.ID,
		Source:     inst.Def.Source,
		X:          r.X - c.offsetX,
		Y:          r.Y - c.offsetY,
		Rotation:   c.angle,
		Mirrored:   c.mirrored,
		Def:        inst.Def,
		Footprint:  r,
	}
}

// sortByFootprint orders instances by their first candidate's footprint area,
// largest first. The sort is stable, so equal-area instances keep expansion
// order and reruns stay reproducible.
func sortByFootprint(instances []model.PartInstance, candidates map[string][]candidate) {
	area := func(inst model.PartInstance) float64 {
		c := candidates[inst.Def.ID][0]
		return c.width * c.height
	}
	sort.SliceStable(instances, func(i, j int) bool {
		return area(instances[i]) > area(instances[j])
	})
}
