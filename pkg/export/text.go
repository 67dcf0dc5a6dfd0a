package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Text writes one table per frame. Realized columns are marked with "*".
func Text(w io.Writer, doc Document, precision int) error {
	var b strings.Builder
	if doc.Name != "" {
		fmt.Fprintf(&b, "scenario %s\n\n", doc.Name)
	}
	for i, f := range doc.Frames {
		if i > 0 {
			b.WriteString("\n")
		}
		label := f.Label
		if label == "" {
			label = "initial"
		}
		fmt.Fprintf(&b, "[%d] %s  available=%s extent=%s\n", i, label,
			format(f.Snapshot.Available, precision), format(f.Snapshot.Extent, precision))
		b.WriteString(Table(f, precision).Render())
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "\npasses=%d distributions=%d resizes=%d measures=%d\n",
		doc.Stats.Passes, doc.Stats.Distributions, doc.Stats.Resizes, doc.Stats.Measures)

	_, err := io.WriteString(w, b.String())
	return err
}

// Table builds the width table of a frame. Callers may restyle it.
func Table(f Frame, precision int) *table.Table {
	rows := Rows(f.Snapshot)
	data := make([][]string, len(rows))
	for i, r := range rows {
		mark := ""
		if r.Realized {
			mark = "*"
		}
		data[i] = []string{string(r.ID), format(r.Width, precision), format(r.Offset, precision), mark}
	}
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Column", "Width", "Offset", "R").
		Rows(data...)
}
