// Package scenario loads layout scenarios from TOML files.
//
// A scenario describes a column set, the space it is laid out into, a
// viewport, and a script of steps (resizes, scrolls, visibility changes) to
// replay against a [grid.Engine]:
//
//	name = "orders"
//	available = 600
//	steps = ["resize id 30", "scroll 120", "hide notes"]
//
//	[viewport]
//	width = 400
//	virtualize = true
//
//	[[columns]]
//	id = "id"
//	width = "60px"
//
//	[[columns]]
//	id = "notes"
//	width = "2*"
//	max = 300
//
// Widths use the literal syntax of [ParseWidth]; steps the syntax of
// [ParseStep].
package scenario

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/colgrid/pkg/errors"
	"github.com/matzehuels/colgrid/pkg/grid"
)

// Scenario is the decoded form of a scenario file.
type Scenario struct {
	Name      string       `toml:"name"`
	Available float64      `toml:"available"`
	Strict    bool         `toml:"strict"`
	Steps     []string     `toml:"steps,omitempty"`
	Viewport  Viewport     `toml:"viewport"`
	Columns   []ColumnSpec `toml:"columns"`
}

// Viewport is the initial layout context.
type Viewport struct {
	Width      float64 `toml:"width"`
	Scroll     float64 `toml:"scroll"`
	Frozen     int     `toml:"frozen"`
	Virtualize bool    `toml:"virtualize"`
	Focus      string  `toml:"focus,omitempty"`
}

// ColumnSpec declares one column. Unset optional fields keep the column
// defaults.
type ColumnSpec struct {
	ID           string   `toml:"id"`
	Header       string   `toml:"header,omitempty"`
	Width        string   `toml:"width"`
	Min          *float64 `toml:"min,omitempty"`
	Max          *float64 `toml:"max,omitempty"`
	Desired      *float64 `toml:"desired,omitempty"`
	Content      *float64 `toml:"content,omitempty"`
	Visible      *bool    `toml:"visible,omitempty"`
	DisplayIndex *int     `toml:"display_index,omitempty"`
	CanResize    *bool    `toml:"can_resize,omitempty"`
	Focusable    *bool    `toml:"focusable,omitempty"`
}

// Load reads and validates a scenario file.
func Load(path string) (*Scenario, error) {
	if err := errors.ValidateScenarioPath(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "scenario %s not found", path)
		}
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	sc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sc, nil
}

// Parse decodes and validates scenario TOML. Unknown keys are rejected.
func Parse(data []byte) (*Scenario, error) {
	var sc Scenario
	md, err := toml.Decode(string(data), &sc)
	if err != nil {
		var perr toml.ParseError
		if stderrors.As(err, &perr) {
			return nil, errors.Wrap(errors.ErrCodeInvalidScenario, err, "%s", perr.ErrorWithPosition())
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidScenario, err, "decode scenario")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidScenario, "unknown keys: %s", strings.Join(keys, ", "))
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// Validate checks column ids, widths, display indices and steps.
func (s *Scenario) Validate() error {
	if len(s.Columns) == 0 {
		return errors.New(errors.ErrCodeInvalidScenario, "scenario has no columns")
	}
	seen := make(map[string]bool, len(s.Columns))
	withIndex := 0
	for i, c := range s.Columns {
		if c.ID != "" {
			if err := errors.ValidateColumnID(c.ID); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidScenario, err, "column %d", i+1)
			}
			if seen[c.ID] {
				return errors.New(errors.ErrCodeDuplicateColumn, "duplicate column id %q", c.ID)
			}
			seen[c.ID] = true
		}
		if _, err := ParseWidth(c.Width); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidScenario, err, "column %q", c.ID)
		}
		if c.DisplayIndex != nil {
			withIndex++
		}
	}
	if withIndex != 0 && withIndex != len(s.Columns) {
		return errors.New(errors.ErrCodeInvalidScenario, "display_index must be set on all columns or none")
	}
	if s.Viewport.Focus != "" && !seen[s.Viewport.Focus] {
		return errors.New(errors.ErrCodeColumnNotFound, "focus column %q not found", s.Viewport.Focus)
	}
	if _, err := ParseSteps(s.Steps); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidScenario, err, "steps")
	}
	return nil
}

// LayoutContext returns the initial viewport as a grid layout context.
func (s *Scenario) LayoutContext() grid.LayoutContext {
	return grid.LayoutContext{
		ViewportWidth: s.Viewport.Width,
		ScrollOffset:  s.Viewport.Scroll,
		FrozenCount:   s.Viewport.Frozen,
		Virtualize:    s.Viewport.Virtualize,
	}
}

// BuildColumns creates grid columns and their display indices. indices is
// nil when the scenario keeps declaration order.
func (s *Scenario) BuildColumns() (cols []*grid.Column, indices []int, err error) {
	cols = make([]*grid.Column, len(s.Columns))
	for i, spec := range s.Columns {
		w, err := ParseWidth(spec.Width)
		if err != nil {
			return nil, nil, err
		}
		c := grid.NewColumn(grid.ID(spec.ID), w)
		if spec.Header != "" {
			c.SetHeader(spec.Header)
		}
		if spec.Min != nil {
			c.SetMinWidth(*spec.Min)
		}
		if spec.Max != nil {
			c.SetMaxWidth(*spec.Max)
		}
		if spec.Desired != nil {
			c.SetDesiredValue(*spec.Desired)
		}
		if spec.Visible != nil {
			c.SetVisible(*spec.Visible)
		}
		if spec.CanResize != nil {
			c.SetCanResize(*spec.CanResize)
		}
		if spec.Focusable != nil {
			c.SetFocusable(*spec.Focusable)
		}
		if spec.DisplayIndex != nil {
			if indices == nil {
				indices = make([]int, len(s.Columns))
			}
			indices[i] = *spec.DisplayIndex
		}
		cols[i] = c
	}
	return cols, indices, nil
}

// Build creates a column set and an engine configured from the scenario.
// The engine measures columns with the scenario's content widths. No pass
// has run yet.
func (s *Scenario) Build(opts ...grid.Option) (*grid.Engine, error) {
	cols, indices, err := s.BuildColumns()
	if err != nil {
		return nil, err
	}
	set := grid.NewSet()
	if err := set.Reset(cols, indices); err != nil {
		return nil, err
	}

	base := []grid.Option{
		grid.WithMeasurer(NewMeasurer(s)),
		grid.WithLayoutContext(s.LayoutContext()),
		grid.WithStrictInvariants(s.Strict),
	}
	e := grid.NewEngine(set, append(base, opts...)...)
	e.SetAvailableSpace(s.Available)
	if s.Viewport.Focus != "" {
		if err := e.SetFocus(grid.ID(s.Viewport.Focus)); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// ParsedSteps returns the parsed step script.
func (s *Scenario) ParsedSteps() ([]Step, error) { return ParseSteps(s.Steps) }

// Encode writes the scenario as TOML.
func (s *Scenario) Encode(w io.Writer) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(s); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode scenario")
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// Example returns a small scenario exercising star sizing, a frozen column
// and a resize.
func Example() *Scenario {
	f := func(v float64) *float64 { return &v }
	return &Scenario{
		Name:      "example",
		Available: 600,
		Steps: []string{
			"resize name 40",
			"scroll 120",
			"focus total",
			"hide notes",
		},
		Viewport: Viewport{Width: 320, Frozen: 1, Virtualize: true},
		Columns: []ColumnSpec{
			{ID: "id", Header: "ID", Width: "60px"},
			{ID: "name", Header: "Name", Width: "auto", Content: f(140)},
			{ID: "qty", Header: "Qty", Width: "header"},
			{ID: "notes", Header: "Notes", Width: "2*", Max: f(300)},
			{ID: "total", Header: "Total", Width: "*", Min: f(80)},
		},
	}
}
