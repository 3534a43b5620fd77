package engine

import (
	"math"
	"testing"

	"github.com/piwi3910/NestCut/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInflate_SquareGrowsOnAllSides(t *testing.T) {
	square := poly([2]float64{0, 0}, [2]float64{10, 0}, [2]float64{10, 10}, [2]float64{0, 10})

	out := inflate(square, 1)

	require.Len(t, out, 4)
	min, max := out.BoundingBox()
	assert.InDelta(t, -1.0, min.X, 1e-9)
	assert.InDelta(t, -1.0, min.Y, 1e-9)
	assert.InDelta(t, 11.0, max.X, 1e-9)
	assert.InDelta(t, 11.0, max.Y, 1e-9)
	assert.InDelta(t, 144.0, out.Area(), 1e-9)
}

func TestInflate_ZeroOffsetReturnsInput(t *testing.T) {
	square := poly([2]float64{0, 0}, [2]float64{10, 0}, [2]float64{10, 10}, [2]float64{0, 10})

	out := inflate(square, 0)

	assert.Equal(t, square, out)
}

func TestInflate_ClockwiseInputStillGrowsOutward(t *testing.T) {
	square := poly([2]float64{0, 0}, [2]float64{10, 0}, [2]float64{10, 10}, [2]float64{0, 10})
	clockwise := square.Reverse()

	out := inflate(clockwise, 1)

	min, max := out.BoundingBox()
	assert.InDelta(t, -1.0, min.X, 1e-9)
	assert.InDelta(t, 11.0, max.X, 1e-9)
	assert.Positive(t, out.SignedArea(), "result should be counter-clockwise")
}

func TestInflate_MiterExtendsSharpCorner(t *testing.T) {
	// Right triangle with a 45 degree corner at (10, 0). Offsetting the two
	// adjacent edges by 1 and intersecting them lands the miter vertex at
	// (11 + sqrt(2), -1).
	tri := poly([2]float64{0, 0}, [2]float64{10, 0}, [2]float64{0, 10})

	out := inflate(tri, 1)

	require.Len(t, out, 3)
	var corner model.Point2D
	found := false
	for _, pt := range out {
		if pt.X > 10 {
			corner = pt
			found = true
		}
	}
	require.True(t, found, "expected an offset vertex past x=10")
	assert.InDelta(t, 11+math.Sqrt2, corner.X, 1e-9)
	assert.InDelta(t, -1.0, corner.Y, 1e-9)
}

func TestInflate_DuplicateVerticesDropped(t *testing.T) {
	square := poly(
		[2]float64{0, 0}, [2]float64{10, 0}, [2]float64{10, 0},
		[2]float64{10, 10}, [2]float64{0, 10}, [2]float64{0, 0},
	)

	out := inflate(square, 1)

	require.Len(t, out, 4)
	assert.InDelta(t, 144.0, out.Area(), 1e-9)
}

func TestInflate_DegenerateContourPassesThrough(t *testing.T) {
	line := poly([2]float64{0, 0}, [2]float64{10, 0})

	out := inflate(line, 1)

	assert.Equal(t, line, out)
}
