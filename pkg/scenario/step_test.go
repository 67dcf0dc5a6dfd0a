package scenario

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/colgrid/pkg/errors"
	"github.com/matzehuels/colgrid/pkg/grid"
)

func TestParseStep(t *testing.T) {
	tests := []struct {
		in   string
		want Step
	}{
		{"resize name 30", Step{Op: OpResize, ID: "name", Value: 30, Index: -1}},
		{"resize name -12.5px", Step{Op: OpResize, ID: "name", Value: -12.5, Index: -1}},
		{"move 3 0", Step{Op: OpMove, From: 3, To: 0, Index: -1}},
		{"insert x 2* 1", Step{Op: OpInsert, ID: "x", Width: grid.Star(2), Index: 1}},
		{"insert x auto", Step{Op: OpInsert, ID: "x", Width: grid.Auto(), Index: -1}},
		{"width col.total 80px", Step{Op: OpWidth, ID: "col.total", Width: grid.Pixel(80), Index: -1}},
		{"avail 600", Step{Op: OpAvail, Value: 600, Index: -1}},
		{"frozen 2", Step{Op: OpFrozen, Index: 2}},
		{"max a inf", Step{Op: OpMax, ID: "a", Value: math.Inf(1), Index: -1}},
		{"BLUR", Step{Op: OpBlur, Index: -1}},
		{"flush", Step{Op: OpFlush, Index: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseStep(tt.in)
			require.NoError(t, err)
			tt.want.Raw = tt.in
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseStepErrors(t *testing.T) {
	for _, in := range []string{
		"",
		"jump a",
		"resize a",
		"resize a 1 2",
		"resize a wide",
		"move a 1",
		"insert x wide",
		"avail inf",
		"hide",
	} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseStep(in)
			assert.True(t, errors.Is(err, errors.ErrCodeInvalidStep), "ParseStep(%q) error = %v", in, err)
		})
	}
}

func TestParseStepsReportsLine(t *testing.T) {
	_, err := ParseSteps([]string{"flush", "nope"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "step 2")
}

func TestStepApply(t *testing.T) {
	sc, err := Parse([]byte(ordersTOML))
	require.NoError(t, err)
	e, err := sc.Build()
	require.NoError(t, err)
	e.Flush()

	run := func(line string) {
		t.Helper()
		st, err := ParseStep(line)
		require.NoError(t, err)
		require.NoError(t, st.Apply(e))
	}

	run("insert d 40 0")
	assert.Equal(t, grid.ID("d"), e.Set().AtDisplay(0).ID())
	run("move 0 3")
	assert.Equal(t, grid.ID("d"), e.Set().AtDisplay(3).ID())
	run("min a 70")
	a, _ := e.Set().Get("a")
	assert.Equal(t, 70.0, a.MinWidth())
	run("viewport 500")
	run("scroll 10")
	run("frozen 1")
	assert.Equal(t, grid.LayoutContext{ViewportWidth: 500, ScrollOffset: 10, FrozenCount: 1, Virtualize: true}, e.LayoutContext())
	run("blur")
	assert.Equal(t, grid.ID(""), e.Focused())
	run("remove d")
	_, ok := e.Set().Get("d")
	assert.False(t, ok)

	st, err := ParseStep("hide zz")
	require.NoError(t, err)
	assert.True(t, errors.Is(st.Apply(e), errors.ErrCodeColumnNotFound))
}
