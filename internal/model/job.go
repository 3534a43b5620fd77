package model

import "fmt"

// NestItem is one requested part in a NestJob: a source DXF plus quantity
// and optional orientation constraints.
type NestItem struct {
	SourcePath  string           `json:"source_geometry"`
	Quantity    int              `json:"qty"`
	Constraints *PartConstraints `json:"constraints,omitempty"`
	Multi       bool             `json:"multi,omitempty"` // source may contain multiple disjoint parts
}

// NestJob is the full nesting request. Read-only for the engine's duration.
// All lengths are inches, angles degrees.
type NestJob struct {
	SheetWidth   float64    `json:"sheet_width_in"`
	SheetHeight  float64    `json:"sheet_height_in"`
	Margin       float64    `json:"margin_in"`
	Spacing      float64    `json:"spacing_in"`
	Kerf         float64    `json:"kerf_in"`
	ChordTol     float64    `json:"chord_tol_in"`
	RotationStep float64    `json:"rotation_step_deg"`
	AllowMirror  bool       `json:"allow_mirror"`
	Items        []NestItem `json:"items"`

	// Safety bounds for the placement loop. Zero values fall back to
	// DefaultMaxSheets / DefaultTimeoutS.
	MaxSheets int     `json:"max_sheets,omitempty"`
	TimeoutS  float64 `json:"timeout_s,omitempty"`
}

// Default safety bounds and parameters for jobs that leave them unset.
const (
	DefaultMaxSheets = 64
	DefaultTimeoutS  = 60.0
	DefaultChordTol  = 0.01
)

// DefaultJob returns a job preset for a 4x8 ft sheet with common CNC router
// clearances. Items must still be supplied.
func DefaultJob() NestJob {
	return NestJob{
		SheetWidth:   96,
		SheetHeight:  48,
		Margin:       0.5,
		Spacing:      0.25,
		Kerf:         0.125,
		ChordTol:     DefaultChordTol,
		RotationStep: 90,
		AllowMirror:  false,
		MaxSheets:    DefaultMaxSheets,
		TimeoutS:     DefaultTimeoutS,
	}
}

// ValidateParams checks the sheet and algorithm parameters for internal
// consistency, ignoring the item list. Useful when definitions arrive
// pre-imported.
func (j NestJob) ValidateParams() error {
	if j.SheetWidth <= 0 || j.SheetHeight <= 0 {
		return fmt.Errorf("sheet dimensions must be positive, got %g x %g", j.SheetWidth, j.SheetHeight)
	}
	if j.Margin < 0 || j.Spacing < 0 || j.Kerf < 0 {
		return fmt.Errorf("margin, spacing and kerf must be non-negative")
	}
	if j.UsableWidth() <= 0 || j.UsableHeight() <= 0 {
		return fmt.Errorf("margin %g leaves no usable area on a %g x %g sheet", j.Margin, j.SheetWidth, j.SheetHeight)
	}
	if j.ChordTol <= 0 {
		return fmt.Errorf("chord tolerance must be positive, got %g", j.ChordTol)
	}
	if j.RotationStep < 0 || j.RotationStep >= 360 {
		return fmt.Errorf("rotation step must be in [0, 360), got %g", j.RotationStep)
	}
	return nil
}

// Validate checks the job parameters and items for internal consistency.
// It does not touch the referenced geometry files.
func (j NestJob) Validate() error {
	if err := j.ValidateParams(); err != nil {
		return err
	}
	if len(j.Items) == 0 {
		return fmt.Errorf("job has no items")
	}
	for i, it := range j.Items {
		if it.SourcePath == "" {
			return fmt.Errorf("item %d has no source geometry", i)
		}
		if it.Quantity <= 0 {
			return fmt.Errorf("item %d (%s) has non-positive quantity %d", i, it.SourcePath, it.Quantity)
		}
		if it.Constraints != nil {
			for _, r := range it.Constraints.Rotations {
				if r < 0 || r >= 360 {
					return fmt.Errorf("item %d (%s) has rotation %g outside [0, 360)", i, it.SourcePath, r)
				}
			}
		}
	}
	return nil
}

// UsableWidth returns the sheet width minus the margin on both sides.
func (j NestJob) UsableWidth() float64 {
	return j.SheetWidth - 2*j.Margin
}

// UsableHeight returns the sheet height minus the margin on both sides.
func (j NestJob) UsableHeight() float64 {
	return j.SheetHeight - 2*j.Margin
}

// HalfGap is the outward offset applied to each part footprint: half of the
// spacing plus kerf budget, so two expanded footprints that touch leave the
// full gap between the real outlines.
func (j NestJob) HalfGap() float64 {
	return (j.Spacing + j.Kerf) / 2
}

// EffectiveMaxSheets returns the configured sheet cap or the default.
func (j NestJob) EffectiveMaxSheets() int {
	if j.MaxSheets > 0 {
		return j.MaxSheets
	}
	return DefaultMaxSheets
}

// EffectiveTimeoutS returns the configured timeout or the default.
func (j NestJob) EffectiveTimeoutS() float64 {
	if j.TimeoutS > 0 {
		return j.TimeoutS
	}
	return DefaultTimeoutS
}

// RotationAngles enumerates the job's rotation candidates: 0, step, 2*step,
// and so on below 360. A zero step disables rotation (angle 0 only).
func (j NestJob) RotationAngles() []float64 {
	if j.RotationStep <= 0 {
		return []float64{0}
	}
	var angles []float64
	for a := 0.0; a < 360-1e-9; a += j.RotationStep {
		angles = append(angles, a)
	}
	return angles
}
