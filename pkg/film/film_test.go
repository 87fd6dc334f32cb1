package film

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMeanIsArithmeticAverage(t *testing.T) {
	f := New(1, 1)
	f.AddSample(0, 0, 1, 1, 1)
	f.AddSample(0, 0, 0, 0, 0)
	r, g, b := f.Mean(0, 0)
	assert.InDelta(t, 0.5, r, 1e-12)
	assert.InDelta(t, 0.5, g, 1e-12)
	assert.InDelta(t, 0.5, b, 1e-12)
}

func TestResolveUnitRadianceIsOpaqueWhite(t *testing.T) {
	f := New(1, 1)
	f.AddSample(0, 0, 1, 1, 1)
	buf := f.Resolve()
	assert.Equal(t, byte(255), buf[0])
	assert.Equal(t, byte(255), buf[3])
}

func TestResolveEmptyPixelIsBlackOpaque(t *testing.T) {
	f := New(2, 2)
	buf := f.Resolve()
	assert.Equal(t, byte(0), buf[0])
	assert.Equal(t, byte(255), buf[3])
}

func TestResolveMidGrayMatchesGammaFormula(t *testing.T) {
	f := New(1, 1)
	f.AddSample(0, 0, 0.5, 0.5, 0.5)
	buf := f.Resolve()
	want := byte(math.Pow(0.5, 1.0/2.2)*255 + 0.5)
	assert.Equal(t, want, buf[0])
}

func TestBoxFilterSpreadsEnergyToNeighbors(t *testing.T) {
	f := New(3, 3)
	f.BoxFilter = true
	f.AddSample(1, 1, 1, 1, 1)
	buf := f.Resolve()
	corner := buf[(0*3+0)*4]
	assert.Greater(t, corner, byte(0))
}

func TestWithoutBoxFilterCornerStaysBlack(t *testing.T) {
	f := New(3, 3)
	f.AddSample(1, 1, 1, 1, 1)
	buf := f.Resolve()
	corner := buf[(0*3+0)*4]
	assert.Equal(t, byte(0), corner)
}
