package scenario

import (
	"math"
	"unicode/utf8"

	"github.com/matzehuels/colgrid/pkg/grid"
)

// Header metrics used to estimate header widths.
const (
	headerCharWidth = 8.0
	headerPadding   = 16.0
)

// Measurer reports the content widths declared in a scenario. Headers are
// estimated from their length.
type Measurer struct {
	content map[grid.ID]float64
}

// NewMeasurer collects the content widths of s.
func NewMeasurer(s *Scenario) *Measurer {
	m := &Measurer{content: make(map[grid.ID]float64)}
	for _, c := range s.Columns {
		if c.Content != nil {
			m.content[grid.ID(c.ID)] = *c.Content
		}
	}
	return m
}

// SetContent overrides the cell content width of a column.
func (m *Measurer) SetContent(id grid.ID, w float64) { m.content[id] = w }

// Measure implements grid.Measurer.
func (m *Measurer) Measure(c *grid.Column, constraint float64) float64 {
	header := HeaderWidth(c.Header())
	cells := m.content[c.ID()]

	var w float64
	switch c.Width().Kind {
	case grid.KindSizeToHeader:
		w = header
	case grid.KindSizeToCells:
		w = cells
	default:
		w = math.Max(header, cells)
	}
	return math.Min(w, constraint)
}

// HeaderWidth estimates the rendered width of a header label.
func HeaderWidth(header string) float64 {
	if header == "" {
		return 0
	}
	return float64(utf8.RuneCountInString(header))*headerCharWidth + headerPadding
}
