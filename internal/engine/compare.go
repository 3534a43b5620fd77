package engine

import (
	"fmt"

	"github.com/piwi3910/NestCut/internal/model"
)

// ComparisonScenario defines a named job variation to compare. Scenarios vary
// packing parameters only; geometry is imported once and shared, so chord
// tolerance changes need a fresh import and are out of scope here.
type ComparisonScenario struct {
	Name string
	Job  model.NestJob
}

// ComparisonResult holds the nesting result and computed statistics for a
// single scenario. Err is set when the variation failed to pack (for example
// a wider margin making a part oversized); a failed variation does not abort
// the sweep.
type ComparisonResult struct {
	Scenario    ComparisonScenario
	Result      *model.NestResult
	Err         error
	SheetsUsed  int
	Utilization float64
	CutLength   float64
}

// CompareScenarios runs the nesting for each scenario against the same
// definitions and returns the results in scenario order. This enables
// side-by-side comparison of different packing parameters (rotation step,
// spacing, mirroring, and so on).
func CompareScenarios(scenarios []ComparisonScenario, defs []model.PartDefinition) []ComparisonResult {
	results := make([]ComparisonResult, 0, len(scenarios))

	for _, scenario := range scenarios {
		result, err := Nest(scenario.Job, defs)

		cr := ComparisonResult{
			Scenario: scenario,
			Result:   result,
			Err:      err,
		}
		if err == nil {
			cr.SheetsUsed = result.Metrics.Sheets
			cr.Utilization = result.TotalUtilization()
			cr.CutLength = result.TotalCutLength()
		}
		results = append(results, cr)
	}

	return results
}

// BuildDefaultScenarios generates a set of comparison scenarios based on the
// current job, varying key parameters to show what-if alternatives.
func BuildDefaultScenarios(base model.NestJob) []ComparisonScenario {
	scenarios := []ComparisonScenario{
		{
			Name: "Current Settings",
			Job:  base,
		},
	}

	// Scenario: standard quarter-turn rotations
	if base.RotationStep != 90 {
		quarter := base
		quarter.RotationStep = 90
		scenarios = append(scenarios, ComparisonScenario{
			Name: "Rotation Step 90",
			Job:  quarter,
		})
	}

	// Scenario: finer rotation search
	if base.RotationStep == 0 || base.RotationStep > 45 {
		fine := base
		fine.RotationStep = 45
		scenarios = append(scenarios, ComparisonScenario{
			Name: "Rotation Step 45",
			Job:  fine,
		})
	}

	// Scenario: allow mirrored placements
	if !base.AllowMirror {
		mirrored := base
		mirrored.AllowMirror = true
		scenarios = append(scenarios, ComparisonScenario{
			Name: "Mirroring Allowed",
			Job:  mirrored,
		})
	}

	// Scenario: tighter spacing (simulate thinner tooling)
	if base.Spacing > 0 {
		tight := base
		tight.Spacing = base.Spacing * 0.5
		scenarios = append(scenarios, ComparisonScenario{
			Name: fmt.Sprintf("Spacing %.3fin (half)", tight.Spacing),
			Job:  tight,
		})
	}

	// Scenario: no sheet margin
	if base.Margin > 0 {
		noMargin := base
		noMargin.Margin = 0
		scenarios = append(scenarios, ComparisonScenario{
			Name: "No Margin",
			Job:  noMargin,
		})
	}

	return scenarios
}
