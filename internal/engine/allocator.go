package engine

import (
	"fmt"

	"github.com/piwi3910/NestCut/internal/model"
)

// sheetAllocator owns the sheets of a running job. Every placement goes
// through it: open sheets are probed in opening order and a new sheet is cut
// only when none of them can take the instance, so the result never holds an
// empty sheet and sheet indices match opening order.
type sheetAllocator struct {
	width, height float64
	maxSheets     int

	packers []*sheetPacker
	sheets  []*model.Sheet
}

func newSheetAllocator(width, height float64, maxSheets int) *sheetAllocator {
	return &sheetAllocator{width: width, height: height, maxSheets: maxSheets}
}

// place packs one instance using its precomputed candidates. The first open
// sheet with room wins; otherwise a new sheet opens, subject to the cap.
// total is the job's instance count, used for progress in error messages.
func (a *sheetAllocator) place(inst model.PartInstance, cands []candidate, total int) error {
	for i, p := range a.packers {
		if rect, idx, ok := p.place(cands); ok {
			a.sheets[i].Placements = append(a.sheets[i].Placements, newPlacement(inst, cands[idx], rect))
			return nil
		}
	}

	if len(a.packers) >= a.maxSheets {
		return &model.TimeoutError{
			Reason: fmt.Sprintf("sheet cap of %d reached with %d of %d placements done",
				a.maxSheets, a.placed(), total),
		}
	}

	p := newSheetPacker(a.width, a.height)
	rect, idx, ok := p.place(cands)
	if !ok {
		// anyFits promised at least one orientation fits an empty sheet.
		return &model.PackingFailureError{
			InstanceID: inst.ID,
			Reason:     "no orientation fits an empty sheet after the oversize check passed",
		}
	}
	a.packers = append(a.packers, p)
	sheet := &model.Sheet{Index: len(a.sheets), Width: a.width, Height: a.height}
	sheet.Placements = append(sheet.Placements, newPlacement(inst, cands[idx], rect))
	a.sheets = append(a.sheets, sheet)
	return nil
}

// placed counts the instances committed so far.
func (a *sheetAllocator) placed() int {
	var n int
	for _, s := range a.sheets {
		n += len(s.Placements)
	}
	return n
}
