package engine

import (
	"testing"

	"github.com/piwi3910/NestCut/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDefaultScenarios_FromDefaultJob(t *testing.T) {
	scenarios := BuildDefaultScenarios(model.DefaultJob())

	require.NotEmpty(t, scenarios)
	assert.Equal(t, "Current Settings", scenarios[0].Name)

	names := make(map[string]bool, len(scenarios))
	for _, sc := range scenarios {
		assert.False(t, names[sc.Name], "duplicate scenario name %q", sc.Name)
		names[sc.Name] = true
	}
	// The default job uses step 90, no mirroring, positive spacing and
	// margin, so every variation except "Rotation Step 90" applies.
	assert.True(t, names["Rotation Step 45"])
	assert.True(t, names["Mirroring Allowed"])
	assert.True(t, names["No Margin"])
	assert.False(t, names["Rotation Step 90"])
}

func TestBuildDefaultScenarios_SkipsRedundantVariations(t *testing.T) {
	base := testJob(20, 20)
	base.RotationStep = 45
	base.AllowMirror = true

	scenarios := BuildDefaultScenarios(base)

	require.Len(t, scenarios, 2)
	assert.Equal(t, "Current Settings", scenarios[0].Name)
	assert.Equal(t, "Rotation Step 90", scenarios[1].Name)
}

func TestCompareScenarios_RunsEveryScenario(t *testing.T) {
	defs := []model.PartDefinition{rectDef("square", 10, 10, 2)}

	tight := testJob(20, 20)
	tight.Margin = 5 // usable 10x10, one square per sheet
	scenarios := []ComparisonScenario{
		{Name: "roomy", Job: testJob(20, 20)},
		{Name: "tight", Job: tight},
	}

	results := CompareScenarios(scenarios, defs)

	require.Len(t, results, 2)
	require.NoError(t, results[0].Err)
	require.NoError(t, results[1].Err)
	assert.Equal(t, "roomy", results[0].Scenario.Name)
	assert.Equal(t, 1, results[0].SheetsUsed)
	assert.Equal(t, 2, results[1].SheetsUsed)
	assert.InDelta(t, 0.5, results[0].Utilization, 1e-12)
	assert.InDelta(t, 80.0, results[0].CutLength, 1e-9)
}

func TestCompareScenarios_FailedVariationDoesNotAbortSweep(t *testing.T) {
	defs := []model.PartDefinition{rectDef("square", 10, 10, 1)}

	impossible := testJob(20, 20)
	impossible.Margin = 6 // usable 8x8, the square cannot fit
	scenarios := []ComparisonScenario{
		{Name: "fits", Job: testJob(20, 20)},
		{Name: "impossible", Job: impossible},
	}

	results := CompareScenarios(scenarios, defs)

	require.Len(t, results, 2)
	assert.NoError(t, results[0].Err)
	assert.Error(t, results[1].Err)
	assert.Nil(t, results[1].Result)
	assert.Equal(t, 0, results[1].SheetsUsed)
}
