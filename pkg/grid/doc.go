// Package grid computes column widths and column virtualization for a
// scrollable, columnar grid.
//
// The package is the layout-allocation core only: it never renders anything.
// A host owns a [Set] of [Column] values, feeds the [Engine] the available
// width and the viewport, and reads back the resolved pixel widths and the
// realized column blocks it should materialize.
//
// # Sizing
//
// Each column has a [Width]: Auto, Pixel, SizeToCells, SizeToHeader or Star.
// Non-star columns resolve to their pixel value or their measured content width.
// Star columns share whatever space is left in proportion to their star
// factors, subject to their min and max widths. See [Distribute].
//
// # Incremental updates
//
// Between full recomputations, user resizes and available-space changes are
// applied incrementally by redistributing the delta among neighbouring columns
// (see [Engine.ResizeColumn]). Columns before the resized column in display
// order never change.
//
// # Virtualization
//
// Each pass walks the visible columns in display order and realizes those that
// intersect the viewport, the frozen columns, the focused column and its focus
// trail. Realized columns are compacted into [RealizedBlock] runs.
//
// # Passes
//
// Mutations only set dirty flags. The host calls [Engine.Flush] once per layout
// cycle; N mutations cost one recompute.
//
//	set := grid.NewSet()
//	_ = set.Insert(grid.NewColumn("id", grid.Pixel(50)))
//	_ = set.Insert(grid.NewColumn("name", grid.Star(1)))
//	_ = set.Insert(grid.NewColumn("notes", grid.Star(2)))
//
//	e := grid.NewEngine(set, grid.Options{})
//	e.SetAvailableSpace(200)
//	snap := e.Flush()
//	fmt.Println(snap.Widths["notes"]) // 100
package grid
