package export

import (
	"io"

	jsoniter "github.com/json-iterator/go"

	"github.com/matzehuels/colgrid/pkg/grid"
)

var api = jsoniter.Config{
	EscapeHTML:             true,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
}.Froze()

type jsonDocument struct {
	Name   string      `json:"name"`
	Frames []jsonFrame `json:"frames"`
	Stats  grid.Stats  `json:"stats"`
}

type jsonFrame struct {
	Step          string               `json:"step"`
	Pass          int                  `json:"pass"`
	Available     float64              `json:"available"`
	Extent        float64              `json:"extent"`
	Average       float64              `json:"average_column_width"`
	Columns       []Row                `json:"columns"`
	Blocks        []grid.RealizedBlock `json:"blocks"`
	DisplayBlocks []grid.RealizedBlock `json:"display_blocks"`
}

// JSON writes doc as indented JSON with widths rounded to precision
// decimals. A negative precision keeps full precision.
func JSON(w io.Writer, doc Document, precision int) error {
	out := jsonDocument{Name: doc.Name, Stats: doc.Stats, Frames: make([]jsonFrame, len(doc.Frames))}
	for i, f := range doc.Frames {
		rows := Rows(f.Snapshot)
		for j := range rows {
			rows[j].Width = round(rows[j].Width, precision)
			rows[j].Offset = round(rows[j].Offset, precision)
		}
		out.Frames[i] = jsonFrame{
			Step:          f.Label,
			Pass:          f.Snapshot.Pass,
			Available:     round(f.Snapshot.Available, precision),
			Extent:        round(f.Snapshot.Extent, precision),
			Average:       round(f.Snapshot.AverageColumnWidth, precision),
			Columns:       rows,
			Blocks:        nonNil(f.Snapshot.Blocks),
			DisplayBlocks: nonNil(f.Snapshot.DisplayBlocks),
		}
	}

	enc := api.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func nonNil(b []grid.RealizedBlock) []grid.RealizedBlock {
	if b == nil {
		return []grid.RealizedBlock{}
	}
	return b
}
