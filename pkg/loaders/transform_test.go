package loaders

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvertAffineRoundTripsPoints(t *testing.T) {
	// A scale + rotation (about Z by 90deg) + translation.
	m := [16]float64{
		0, 2, 0, 0, // col0
		-3, 0, 0, 0, // col1
		0, 0, 1.5, 0, // col2
		5, -2, 1, 1, // col3 (translation)
	}

	inv, ok := InvertAffine(m)
	require.True(t, ok)

	points := [][3]float64{{0, 0, 0}, {1, 2, 3}, {-4, 0.5, 7}}
	for _, p := range points {
		x := transformPoint(m, p)
		back := transformPoint(inv, x)
		assert.InDelta(t, p[0], back[0], 1e-9)
		assert.InDelta(t, p[1], back[1], 1e-9)
		assert.InDelta(t, p[2], back[2], 1e-9)
	}
}

func TestInvertAffineRejectsSingular(t *testing.T) {
	var m [16]float64 // all zero: singular 3x3
	_, ok := InvertAffine(m)
	assert.False(t, ok)
}

func transformPoint(m [16]float64, p [3]float64) [3]float64 {
	return [3]float64{
		m[0]*p[0] + m[4]*p[1] + m[8]*p[2] + m[12],
		m[1]*p[0] + m[5]*p[1] + m[9]*p[2] + m[13],
		m[2]*p[0] + m[6]*p[1] + m[10]*p[2] + m[14],
	}
}
