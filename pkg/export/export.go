// Package export encodes layout results for files and terminals.
//
// Two formats are supported: "json" (machine readable, rounded to a fixed
// precision) and "text" (one table per step). Both take a [Document], which
// the pipeline builds from a scenario run.
package export

import (
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/matzehuels/colgrid/pkg/errors"
	"github.com/matzehuels/colgrid/pkg/grid"
)

// Supported formats.
const (
	FormatJSON = "json"
	FormatText = "text"
)

// DefaultPrecision is the number of decimals widths are rounded to.
const DefaultPrecision = 2

// Frame is the layout after one step.
type Frame struct {
	Label    string
	Snapshot grid.Snapshot
}

// Document is a complete scenario run.
type Document struct {
	Name   string
	Frames []Frame
	Stats  grid.Stats
}

// ValidateFormat reports an INVALID_FORMAT error for unknown formats.
func ValidateFormat(format string) error {
	switch format {
	case FormatJSON, FormatText:
		return nil
	}
	return errors.New(errors.ErrCodeInvalidFormat, "invalid format %q (must be one of: json, text)", format)
}

// Encode writes doc in the given format.
func Encode(w io.Writer, format string, doc Document, precision int) error {
	switch format {
	case FormatJSON:
		return JSON(w, doc, precision)
	case FormatText:
		return Text(w, doc, precision)
	}
	return ValidateFormat(format)
}

// Row is one visible column of a frame.
type Row struct {
	ID       grid.ID `json:"id"`
	Width    float64 `json:"width"`
	Offset   float64 `json:"offset"`
	Realized bool    `json:"realized"`
}

// Rows lists the visible columns of s left to right.
func Rows(s grid.Snapshot) []Row {
	realized := make(map[grid.ID]bool, len(s.Realized))
	for _, id := range s.Realized {
		realized[id] = true
	}
	rows := make([]Row, 0, len(s.Widths))
	for id, w := range s.Widths {
		rows = append(rows, Row{ID: id, Width: w, Offset: s.Offsets[id], Realized: realized[id]})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Offset != rows[j].Offset {
			return rows[i].Offset < rows[j].Offset
		}
		return rows[i].ID < rows[j].ID
	})
	return rows
}

func round(v float64, precision int) float64 {
	if precision < 0 {
		return v
	}
	p := math.Pow10(precision)
	return math.Round(v*p) / p
}

func format(v float64, precision int) string {
	if precision < 0 {
		precision = DefaultPrecision
	}
	return fmt.Sprintf("%.*f", precision, v)
}
