package grid

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tol = 1e-6

func cols(ws ...Width) []*Column {
	out := make([]*Column, len(ws))
	for i, w := range ws {
		out[i] = NewColumn(ID(rune('a'+i)), w)
	}
	return out
}

func assertWidths(t *testing.T, want, got []float64) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		if math.IsNaN(want[i]) {
			assert.True(t, math.IsNaN(got[i]), "width[%d] = %v, want NaN", i, got[i])
			continue
		}
		assert.InDelta(t, want[i], got[i], tol, "width[%d]", i)
	}
}

func TestDistributeWorkedExamples(t *testing.T) {
	t.Run("pixel and stars", func(t *testing.T) {
		cs := cols(Pixel(50), Star(1), Star(2))
		assertWidths(t, []float64{50, 50, 100}, Distribute(cs, 200))
	})

	t.Run("star pinned at max", func(t *testing.T) {
		cs := cols(Pixel(50), Star(1), Star(2))
		cs[2].SetMaxWidth(60)
		assertWidths(t, []float64{50, 90, 60}, Distribute(cs, 200))
	})

	t.Run("star pinned at min", func(t *testing.T) {
		cs := cols(Star(1), Star(9))
		cs[0].SetMinWidth(30)
		assertWidths(t, []float64{30, 70}, Distribute(cs, 100))
	})

	t.Run("min pin lowers share below earlier min", func(t *testing.T) {
		cs := cols(Star(1), Star(1), Star(1))
		cs[0].SetMinWidth(30)
		cs[1].SetMinWidth(80)
		cs[2].SetMinWidth(0)
		assertWidths(t, []float64{30, 80, 10}, Distribute(cs, 120))
	})

	t.Run("min pins before max pin", func(t *testing.T) {
		cs := cols(Star(1), Star(1), Star(2))
		cs[0].SetMinWidth(50)
		cs[1].SetMinWidth(0)
		cs[1].SetMaxWidth(10)
		cs[2].SetMinWidth(0)
		// unit 25 pins a at 50, then b at max 10, then c takes the rest.
		assertWidths(t, []float64{50, 10, 40}, Distribute(cs, 100))
	})
}

func TestDistributeEdgeCases(t *testing.T) {
	tests := []struct {
		name      string
		setup     func() []*Column
		available float64
		want      []float64
	}{
		{
			name:      "empty",
			setup:     func() []*Column { return nil },
			available: 100,
			want:      []float64{},
		},
		{
			name: "hidden column",
			setup: func() []*Column {
				cs := cols(Pixel(50), Star(1), Star(1))
				cs[1].SetVisible(false)
				return cs
			},
			available: 200,
			want:      []float64{50, math.NaN(), 150},
		},
		{
			name: "all hidden",
			setup: func() []*Column {
				cs := cols(Star(1))
				cs[0].SetVisible(false)
				return cs
			},
			available: 200,
			want:      []float64{math.NaN()},
		},
		{
			name:      "zero star factor takes min",
			setup:     func() []*Column { return cols(Pixel(50), Star(0), Star(1)) },
			available: 200,
			want:      []float64{50, 20, 130},
		},
		{
			name:      "nan available clamps to total min",
			setup:     func() []*Column { return cols(Pixel(50), Star(1)) },
			available: math.NaN(),
			want:      []float64{20, 20},
		},
		{
			name:      "negative available clamps to total min",
			setup:     func() []*Column { return cols(Pixel(50), Star(1)) },
			available: -10,
			want:      []float64{20, 20},
		},
		{
			name:      "no stars keeps natural widths",
			setup:     func() []*Column { return cols(Pixel(50), Pixel(70)) },
			available: 10,
			want:      []float64{50, 70},
		},
		{
			name: "measured auto column",
			setup: func() []*Column {
				cs := cols(Auto(), Star(1))
				cs[0].SetDesiredValue(80)
				return cs
			},
			available: 200,
			want:      []float64{80, 120},
		},
		{
			name:      "unmeasured auto falls back to min",
			setup:     func() []*Column { return cols(Auto(), Star(1)) },
			available: 200,
			want:      []float64{20, 180},
		},
		{
			name:      "non-star columns shrink evenly",
			setup:     func() []*Column { return cols(Pixel(100), Pixel(40), Star(1)) },
			available: 100,
			want:      []float64{60, 20, 20},
		},
		{
			name: "pixel clamped by max",
			setup: func() []*Column {
				cs := cols(Pixel(500), Star(1))
				cs[0].SetMaxWidth(100)
				return cs
			},
			available: 300,
			want:      []float64{100, 200},
		},
		{
			name: "available clamped to total max",
			setup: func() []*Column {
				cs := cols(Auto(), Star(1))
				cs[0].SetDesiredValue(150)
				cs[0].SetMaxWidth(150)
				cs[1].SetMaxWidth(50)
				return cs
			},
			available: 300,
			want:      []float64{150, 50},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertWidths(t, tt.want, Distribute(tt.setup(), tt.available))
		})
	}
}

func TestDistributeDoesNotMutate(t *testing.T) {
	cs := cols(Pixel(50), Star(1))
	Distribute(cs, 200)
	for _, c := range cs {
		assert.True(t, math.IsNaN(c.DisplayValue()))
	}
}

func TestApplyWritesStarDesired(t *testing.T) {
	cs := cols(Pixel(50), Star(1), Star(2))
	cs[2].SetMaxWidth(60)
	used := Apply(cs, 200)

	assert.InDelta(t, 200, used, tol)
	assert.InDelta(t, 90, cs[1].DisplayValue(), tol)
	// Desired keeps the unpinned ratio.
	assert.InDelta(t, 2, cs[2].DesiredValue()/cs[1].DesiredValue(), tol)
}

func randomStarSet(r *rand.Rand) ([]*Column, float64) {
	n := 1 + r.Intn(8)
	cs := make([]*Column, 0, n+1)
	totalMin := 0.0
	for i := 0; i < n; i++ {
		var c *Column
		switch r.Intn(3) {
		case 0:
			c = NewColumn("", Pixel(r.Float64()*150))
		case 1:
			c = NewColumn("", Auto())
			c.SetDesiredValue(r.Float64() * 150)
		default:
			c = NewColumn("", Star(0.5+r.Float64()*3))
			if r.Intn(2) == 0 {
				c.SetMaxWidth(r.Float64() * 200)
			}
		}
		// Mins large enough to compete with the proportional share, and at
		// times above a pixel or measured width.
		c.SetMinWidth(r.Float64() * 160)
		totalMin += c.MinWidth()
		cs = append(cs, c)
	}
	// An unbounded star keeps totalMax infinite so the whole width is used.
	star := NewColumn("", Star(1))
	star.SetMinWidth(r.Float64() * 40)
	totalMin += star.MinWidth()
	cs = append(cs, star)
	return cs, totalMin + r.Float64()*400
}

func TestDistributeProperties(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for i := 0; i < 500; i++ {
		cs, available := randomStarSet(r)
		got := Distribute(cs, available)

		sum := 0.0
		for j, w := range got {
			sum += w
			c := cs[j]
			require.GreaterOrEqual(t, w, c.MinWidth()-tol, "case %d col %d below min", i, j)
			require.LessOrEqual(t, w, c.MaxWidth()+tol, "case %d col %d above max", i, j)
		}
		require.InDelta(t, available, sum, 1e-6*math.Max(1, available), "case %d conservation", i)

		// Unpinned star columns share in proportion to their factors.
		var unit float64
		for j, c := range cs {
			if !c.IsStar() || math.Abs(got[j]-c.MinWidth()) <= tol || math.Abs(got[j]-c.MaxWidth()) <= tol {
				continue
			}
			u := got[j] / c.Width().Value
			if unit == 0 {
				unit = u
				continue
			}
			require.InDelta(t, unit, u, 1e-6*math.Max(1, unit), "case %d proportionality", i)
		}

		// Idempotence.
		Apply(cs, available)
		again := Distribute(cs, available)
		for j := range got {
			require.InDelta(t, got[j], again[j], tol, "case %d idempotence", i)
		}
	}
}
