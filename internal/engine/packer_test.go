package engine

import (
	"testing"

	"github.com/piwi3910/NestCut/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCandidates_RotationStepEnumerates(t *testing.T) {
	def := rectDef("square", 10, 4, 1)
	job := testJob(20, 20)
	job.RotationStep = 90

	cands := buildCandidates(&def, job)

	require.Len(t, cands, 4)
	angles := []float64{0, 90, 180, 270}
	for i, c := range cands {
		assert.Equal(t, i, c.index)
		assert.Equal(t, angles[i], c.angle)
		assert.False(t, c.mirrored)
	}
	assert.Equal(t, 10.0, cands[0].width)
	assert.Equal(t, 4.0, cands[0].height)
	assert.Equal(t, 4.0, cands[1].width)
	assert.Equal(t, 10.0, cands[1].height)
}

func TestBuildCandidates_MirrorDoublesTheSet(t *testing.T) {
	def := rectDef("square", 10, 4, 1)
	job := testJob(20, 20)
	job.RotationStep = 90
	job.AllowMirror = true

	cands := buildCandidates(&def, job)

	require.Len(t, cands, 8)
	for i, c := range cands {
		assert.Equal(t, i >= 4, c.mirrored, "candidate %d", i)
	}
}

func TestBuildCandidates_NoMirrorConstraintWins(t *testing.T) {
	def := rectDef("square", 10, 4, 1)
	def.Constraints.NoMirror = true
	job := testJob(20, 20)
	job.RotationStep = 90
	job.AllowMirror = true

	cands := buildCandidates(&def, job)

	require.Len(t, cands, 4)
	for _, c := range cands {
		assert.False(t, c.mirrored)
	}
}

func TestBuildCandidates_ConstraintAnglesSorted(t *testing.T) {
	def := rectDef("square", 10, 4, 1)
	def.Constraints.Rotations = []float64{270, 45}
	job := testJob(20, 20)
	job.RotationStep = 90

	cands := buildCandidates(&def, job)

	require.Len(t, cands, 2)
	assert.Equal(t, 45.0, cands[0].angle)
	assert.Equal(t, 270.0, cands[1].angle)
}

func TestBuildCandidates_HalfGapInflatesFootprint(t *testing.T) {
	def := rectDef("square", 10, 10, 1)
	job := testJob(30, 30)
	job.Spacing = 2
	job.Kerf = 1

	cands := buildCandidates(&def, job)

	require.Len(t, cands, 1)
	assert.InDelta(t, 13.0, cands[0].width, 1e-9)
	assert.InDelta(t, 13.0, cands[0].height, 1e-9)
	assert.InDelta(t, -1.5, cands[0].offsetX, 1e-9)
	assert.InDelta(t, -1.5, cands[0].offsetY, 1e-9)
}

func TestSheetPacker_SeedsCornerAnchors(t *testing.T) {
	p := newSheetPacker(20, 20)
	cands := []candidate{{index: 0, width: 10, height: 10}}

	rect, idx, ok := p.place(cands)

	require.True(t, ok)
	assert.Equal(t, 0, idx)
	assert.Equal(t, model.Rect{X: 0, Y: 0, Width: 10, Height: 10}, rect)
	assert.Contains(t, p.anchors, model.Point2D{X: 10, Y: 0})
	assert.Contains(t, p.anchors, model.Point2D{X: 0, Y: 10})
	assert.Contains(t, p.anchors, model.Point2D{X: 10, Y: 10})
}

func TestSheetPacker_LowerTopEdgeBeatsCandidateOrder(t *testing.T) {
	// The tall candidate comes first, but the flat one ends with a lower top
	// edge and must win.
	p := newSheetPacker(20, 20)
	cands := []candidate{
		{index: 0, width: 1, height: 2},
		{index: 1, width: 2, height: 1},
	}

	rect, idx, ok := p.place(cands)

	require.True(t, ok)
	assert.Equal(t, 1, idx)
	assert.Equal(t, 1.0, rect.Height)
}

func TestSheetPacker_TopEdgeTieFallsToCandidateIndex(t *testing.T) {
	p := newSheetPacker(20, 20)
	cands := []candidate{
		{index: 0, width: 5, height: 10},
		{index: 1, width: 8, height: 10},
	}

	rect, idx, ok := p.place(cands)

	require.True(t, ok)
	assert.Equal(t, 0, idx)
	assert.Equal(t, 5.0, rect.Width)
}

func TestSheetPacker_AnchorTieFallsToSmallerX(t *testing.T) {
	// A block committed mid-sheet leaves equal-height slots on both sides;
	// the left one wins.
	p := newSheetPacker(30, 10)
	p.commit(model.Rect{X: 10, Y: 0, Width: 10, Height: 10})
	cands := []candidate{{index: 0, width: 10, height: 10}}

	rect, _, ok := p.place(cands)

	require.True(t, ok)
	assert.Equal(t, 0.0, rect.X)
	assert.Equal(t, 0.0, rect.Y)
}

func TestSheetPacker_RejectsWhenNothingFits(t *testing.T) {
	p := newSheetPacker(20, 20)
	p.commit(model.Rect{X: 0, Y: 0, Width: 10, Height: 10})
	cands := []candidate{{index: 0, width: 20, height: 20}}

	_, idx, ok := p.place(cands)

	assert.False(t, ok)
	assert.Equal(t, -1, idx)
}

func TestSheetPacker_EdgeContactIsNotOverlap(t *testing.T) {
	p := newSheetPacker(20, 10)
	p.commit(model.Rect{X: 0, Y: 0, Width: 10, Height: 10})
	cands := []candidate{{index: 0, width: 10, height: 10}}

	rect, _, ok := p.place(cands)

	require.True(t, ok)
	assert.Equal(t, 10.0, rect.X)
	assert.Equal(t, 0.0, rect.Y)
}

func TestAnyFits(t *testing.T) {
	cands := []candidate{
		{index: 0, width: 25, height: 5},
		{index: 1, width: 5, height: 25},
	}
	assert.True(t, anyFits(cands, 30, 10))
	assert.True(t, anyFits(cands, 10, 30))
	assert.False(t, anyFits(cands, 20, 20))
}
