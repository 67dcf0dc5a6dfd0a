package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/colgrid/pkg/errors"
)

// newEngine builds a flushed engine over columns a, b, c, ... with the given
// widths.
func newEngine(t *testing.T, available float64, ws ...Width) (*Engine, []*Column) {
	t.Helper()
	set := NewSet()
	cs := cols(ws...)
	for _, c := range cs {
		require.NoError(t, set.Insert(c))
	}
	e := NewEngine(set)
	e.SetAvailableSpace(available)
	e.Flush()
	return e, cs
}

func widthsOf(cs []*Column) []float64 {
	out := make([]float64, len(cs))
	for i, c := range cs {
		out[i] = c.DisplayValue()
	}
	return out
}

func TestResizeTakesFromNeighboursEvenly(t *testing.T) {
	e, cs := newEngine(t, 200, Pixel(100), Pixel(50), Pixel(50))

	granted, err := e.ResizeColumn("a", 30)
	require.NoError(t, err)
	assert.InDelta(t, 30, granted, tol)
	assertWidths(t, []float64{130, 35, 35}, widthsOf(cs))

	// The resize is committed: a full pass reproduces it.
	e.InvalidateWidths()
	e.Flush()
	assertWidths(t, []float64{130, 35, 35}, widthsOf(cs))
	assert.Equal(t, Pixel(130), cs[0].Width())
}

func TestResizeUnmetDelta(t *testing.T) {
	e, cs := newEngine(t, 150, Pixel(100), Pixel(50))
	cs[1].SetMinWidth(40)

	granted, err := e.ResizeColumn("a", 30)
	require.NoError(t, err)
	assert.InDelta(t, 10, granted, tol)
	assertWidths(t, []float64{110, 40}, widthsOf(cs))
}

func TestResizeClampedByMax(t *testing.T) {
	e, cs := newEngine(t, 200, Pixel(100), Pixel(50), Pixel(50))
	cs[0].SetMaxWidth(110)

	granted, err := e.ResizeColumn("a", 30)
	require.NoError(t, err)
	assert.InDelta(t, 10, granted, tol)
	assertWidths(t, []float64{110, 45, 45}, widthsOf(cs))
}

func TestResizeTakesSlackFirst(t *testing.T) {
	e, cs := newEngine(t, 300, Pixel(100), Pixel(50), Pixel(50))

	granted, err := e.ResizeColumn("b", 60)
	require.NoError(t, err)
	assert.InDelta(t, 60, granted, tol)
	assertWidths(t, []float64{100, 110, 50}, widthsOf(cs))
}

func TestResizeStarNeighbours(t *testing.T) {
	e, cs := newEngine(t, 200, Pixel(50), Star(1), Star(2))

	granted, err := e.ResizeColumn("b", 30)
	require.NoError(t, err)
	assert.InDelta(t, 30, granted, tol)
	assertWidths(t, []float64{50, 80, 70}, widthsOf(cs))

	// Star factors were renormalized to the new widths.
	assert.InDelta(t, 1.6, cs[1].Width().Value, tol)
	assert.InDelta(t, 1.4, cs[2].Width().Value, tol)

	e.InvalidateWidths()
	e.Flush()
	assertWidths(t, []float64{50, 80, 70}, widthsOf(cs))
}

func TestResizeNegativeGivesToStars(t *testing.T) {
	e, cs := newEngine(t, 200, Pixel(50), Star(1), Star(2))

	granted, err := e.ResizeColumn("a", -20)
	require.NoError(t, err)
	assert.InDelta(t, -20, granted, tol)
	assertWidths(t, []float64{30, 170.0 / 3, 340.0 / 3}, widthsOf(cs))
	assert.InDelta(t, 1, cs[1].Width().Value, tol)
	assert.InDelta(t, 2, cs[2].Width().Value, tol)
}

func TestResizeNegativeClampedByMin(t *testing.T) {
	e, cs := newEngine(t, 200, Pixel(100), Pixel(50), Pixel(50))

	granted, err := e.ResizeColumn("a", -500)
	require.NoError(t, err)
	assert.InDelta(t, -80, granted, tol)
	// Pixel neighbours are already at their own width; the rest is slack.
	assertWidths(t, []float64{20, 50, 50}, widthsOf(cs))
}

func TestResizeNegativeGrowsAutoToContent(t *testing.T) {
	set := NewSet()
	cs := cols(Pixel(100), Auto(), Pixel(50))
	cs[1].SetDesiredValue(80)
	for _, c := range cs {
		require.NoError(t, set.Insert(c))
	}
	e := NewEngine(set)
	e.SetAvailableSpace(230)
	e.Flush()
	assertWidths(t, []float64{100, 80, 50}, widthsOf(cs))

	_, err := e.ResizeColumn("a", 30)
	require.NoError(t, err)
	assertWidths(t, []float64{130, 65, 35}, widthsOf(cs))
	assert.Equal(t, KindAuto, cs[1].Width().Kind)

	_, err = e.ResizeColumn("a", -40)
	require.NoError(t, err)
	// b grows back to its content width, the rest becomes slack.
	assertWidths(t, []float64{90, 80, 35}, widthsOf(cs))
}

func TestRaisingMaxGrowsToContent(t *testing.T) {
	set := NewSet()
	cs := cols(Pixel(100), Auto())
	cs[1].SetDesiredValue(80)
	cs[1].SetMaxWidth(60)
	for _, c := range cs {
		require.NoError(t, set.Insert(c))
	}
	e := NewEngine(set)
	e.SetAvailableSpace(160)
	e.Flush()
	assertWidths(t, []float64{100, 60}, widthsOf(cs))

	cs[1].SetMaxWidth(200)
	assertWidths(t, []float64{100, 80}, widthsOf(cs))
	assert.Equal(t, 1, e.Stats().Distributions, "applied without a full distribute")
}

func TestResizeMonotonicity(t *testing.T) {
	e, cs := newEngine(t, 600, Pixel(100), Star(1), Auto(), Star(2), Pixel(80))
	before := widthsOf(cs)

	for _, delta := range []float64{45, -30, 500, -500} {
		prev := widthsOf(cs)
		granted, err := e.ResizeColumn("c", delta)
		require.NoError(t, err)
		if delta > 0 {
			assert.LessOrEqual(t, granted, delta+tol)
			assert.GreaterOrEqual(t, granted, -tol)
		} else {
			assert.GreaterOrEqual(t, granted, delta-tol)
			assert.LessOrEqual(t, granted, tol)
		}
		assert.InDelta(t, prev[2]+granted, cs[2].DisplayValue(), tol)
		assert.InDelta(t, before[0], cs[0].DisplayValue(), tol, "columns before never change")
		assert.InDelta(t, before[1], cs[1].DisplayValue(), tol, "columns before never change")
		for _, c := range cs {
			assert.GreaterOrEqual(t, c.DisplayValue(), c.MinWidth()-tol)
		}
	}
}

func TestResizeErrors(t *testing.T) {
	e, cs := newEngine(t, 200, Pixel(100), Pixel(100))

	_, err := e.ResizeColumn("zz", 10)
	assert.True(t, errors.Is(err, errors.ErrCodeColumnNotFound))

	cs[0].SetCanResize(false)
	granted, err := e.ResizeColumn("a", 10)
	require.NoError(t, err)
	assert.Zero(t, granted)
}

func TestShrinkEvenlyRounds(t *testing.T) {
	cs := cols(Pixel(0), Pixel(0), Pixel(0))
	for i, w := range []float64{30, 60, 100} {
		cs[i].display = w
	}
	rest := shrinkEvenly(cs, 100, (*Column).minFloor)
	assert.Zero(t, rest)
	// 10 from each, then 30 from the two wider ones, then 10 from the last.
	assertWidths(t, []float64{20, 20, 50}, widthsOf(cs))

	rest = shrinkEvenly(cs, 100, (*Column).minFloor)
	assert.InDelta(t, 70, rest, tol)
	assertWidths(t, []float64{20, 20, 20}, widthsOf(cs))
}
