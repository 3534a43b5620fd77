package engine

import (
	"fmt"

	"github.com/piwi3910/NestCut/internal/model"
)

// PlacementViolation is one broken placement invariant found by
// CheckPlacements: two footprints overlapping, a footprint outside the usable
// area, or an instance ID appearing twice.
type PlacementViolation struct {
	SheetIndex int
	InstanceID string
	OtherID    string // second instance for overlap violations
	Kind       string // "overlap", "out-of-bounds", "duplicate-id"
	Detail     string
}

// CheckPlacements re-checks a finished result against the placement
// invariants. The packer cannot produce violations by construction; the check
// exists so exports can refuse results that were edited by hand or assembled
// from a stale manifest.
func CheckPlacements(result *model.NestResult, job model.NestJob) []PlacementViolation {
	usableW := job.UsableWidth()
	usableH := job.UsableHeight()

	var violations []PlacementViolation
	seen := make(map[string]int) // instance ID -> sheet it first appeared on

	for _, sheet := range result.Sheets {
		for i, a := range sheet.Placements {
			if first, dup := seen[a.InstanceID]; dup {
				violations = append(violations, PlacementViolation{
					SheetIndex: sheet.Index,
					InstanceID: a.InstanceID,
					Kind:       "duplicate-id",
					Detail:     fmt.Sprintf("already placed on sheet %d", first),
				})
			} else {
				seen[a.InstanceID] = sheet.Index
			}

			if !a.Footprint.ContainedIn(usableW, usableH) {
				violations = append(violations, PlacementViolation{
					SheetIndex: sheet.Index,
					InstanceID: a.InstanceID,
					Kind:       "out-of-bounds",
					Detail: fmt.Sprintf("footprint at (%.3f, %.3f) sized %.3f x %.3f exceeds usable %.3f x %.3f",
						a.Footprint.X, a.Footprint.Y, a.Footprint.Width, a.Footprint.Height, usableW, usableH),
				})
			}

			// Each overlapping pair is reported once, from the earlier placement.
			for _, b := range sheet.Placements[i+1:] {
				if a.Footprint.Overlaps(b.Footprint) {
					violations = append(violations, PlacementViolation{
						SheetIndex: sheet.Index,
						InstanceID: a.InstanceID,
						OtherID:    b.InstanceID,
						Kind:       "overlap",
						Detail:     fmt.Sprintf("footprint overlaps instance %s", b.InstanceID),
					})
				}
			}
		}
	}
	return violations
}

// FormatViolationWarnings produces human-readable warning messages from
// placement violations, one line each, in detection order.
func FormatViolationWarnings(violations []PlacementViolation) []string {
	var warnings []string
	for _, v := range violations {
		msg := fmt.Sprintf("Sheet %d: instance %s: %s: %s",
			v.SheetIndex+1, v.InstanceID, v.Kind, v.Detail)
		warnings = append(warnings, msg)
	}
	return warnings
}
