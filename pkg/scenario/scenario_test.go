package scenario

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/colgrid/pkg/errors"
	"github.com/matzehuels/colgrid/pkg/grid"
)

const ordersTOML = `
name = "orders"
available = 200
steps = ["resize b 30", "hide c"]

[viewport]
width = 150
virtualize = true
focus = "c"

[[columns]]
id = "a"
width = "50px"

[[columns]]
id = "b"
width = "*"
header = "Customer"

[[columns]]
id = "c"
width = "2*"
max = 60
`

func TestParse(t *testing.T) {
	sc, err := Parse([]byte(ordersTOML))
	require.NoError(t, err)
	assert.Equal(t, "orders", sc.Name)
	assert.Equal(t, 200.0, sc.Available)
	require.Len(t, sc.Columns, 3)
	assert.Equal(t, "Customer", sc.Columns[1].Header)
	require.NotNil(t, sc.Columns[2].Max)
	assert.Equal(t, 60.0, *sc.Columns[2].Max)
	assert.Equal(t, grid.LayoutContext{ViewportWidth: 150, Virtualize: true}, sc.LayoutContext())

	steps, err := sc.ParsedSteps()
	require.NoError(t, err)
	require.Len(t, steps, 2)
	assert.Equal(t, OpResize, steps[0].Op)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		toml string
		code errors.Code
	}{
		{"syntax", `name = `, errors.ErrCodeInvalidScenario},
		{"unknown key", "colour = 1\n[[columns]]\nid = \"a\"\nwidth = \"*\"", errors.ErrCodeInvalidScenario},
		{"no columns", `name = "x"`, errors.ErrCodeInvalidScenario},
		{"bad width", "[[columns]]\nid = \"a\"\nwidth = \"wide\"", errors.ErrCodeInvalidScenario},
		{"duplicate id", "[[columns]]\nid = \"a\"\nwidth = \"*\"\n[[columns]]\nid = \"a\"\nwidth = \"*\"", errors.ErrCodeDuplicateColumn},
		{"partial display index", "[[columns]]\nid = \"a\"\nwidth = \"*\"\ndisplay_index = 0\n[[columns]]\nid = \"b\"\nwidth = \"*\"", errors.ErrCodeInvalidScenario},
		{"bad step", "steps = [\"jump a\"]\n[[columns]]\nid = \"a\"\nwidth = \"*\"", errors.ErrCodeInvalidScenario},
		{"unknown focus", "[viewport]\nfocus = \"zz\"\n[[columns]]\nid = \"a\"\nwidth = \"*\"", errors.ErrCodeColumnNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.toml))
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.GetCode(err), "error: %v", err)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "orders.toml")
	require.NoError(t, os.WriteFile(path, []byte(ordersTOML), 0o644))

	sc, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "orders", sc.Name)

	_, err = Load(filepath.Join(dir, "missing.toml"))
	assert.True(t, errors.Is(err, errors.ErrCodeFileNotFound))

	_, err = Load(filepath.Join(dir, "orders.json"))
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidPath))
}

func TestBuild(t *testing.T) {
	sc, err := Parse([]byte(ordersTOML))
	require.NoError(t, err)

	e, err := sc.Build()
	require.NoError(t, err)
	assert.Equal(t, grid.ID("c"), e.Focused())

	snap := e.Flush()
	assert.InDelta(t, 50, snap.Widths["a"], 1e-9)
	assert.InDelta(t, 90, snap.Widths["b"], 1e-9)
	assert.InDelta(t, 60, snap.Widths["c"], 1e-9)
	assert.Equal(t, []grid.ID{"a", "b", "c"}, snap.Realized)

	steps, err := sc.ParsedSteps()
	require.NoError(t, err)
	for _, st := range steps {
		require.NoError(t, st.Apply(e))
	}
	snap = e.Flush()
	_, visible := snap.Widths["c"]
	assert.False(t, visible)
}

func TestBuildDisplayIndices(t *testing.T) {
	sc, err := Parse([]byte(`
[[columns]]
id = "a"
width = "10"
display_index = 1

[[columns]]
id = "b"
width = "10"
display_index = 0
`))
	require.NoError(t, err)
	e, err := sc.Build()
	require.NoError(t, err)
	assert.Equal(t, grid.ID("b"), e.Set().AtDisplay(0).ID())
}

func TestEncodeRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Example().Encode(&buf))

	sc, err := Parse(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, Example(), sc)
}

func TestMeasurer(t *testing.T) {
	sc := Example()
	m := NewMeasurer(sc)
	cols, _, err := sc.BuildColumns()
	require.NoError(t, err)

	// name: auto, header "Name" is 48px, content 140.
	assert.Equal(t, 140.0, m.Measure(cols[1], 1e9))
	assert.Equal(t, 100.0, m.Measure(cols[1], 100), "constraint caps the measurement")
	// qty: header only.
	assert.Equal(t, HeaderWidth("Qty"), m.Measure(cols[2], 1e9))

	m.SetContent("qty", 500)
	assert.Equal(t, HeaderWidth("Qty"), m.Measure(cols[2], 1e9), "header sizing ignores cells")
}
