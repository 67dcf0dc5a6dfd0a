package grid

import "math"

// LayoutContext describes the viewport a pass lays columns out into.
type LayoutContext struct {
	ViewportWidth float64
	ScrollOffset  float64
	// FrozenCount is the number of leading visible columns that do not
	// scroll.
	FrozenCount int
	Virtualize  bool
}

func (lc LayoutContext) sanitized() LayoutContext {
	lc.ViewportWidth = sanitize(lc.ViewportWidth)
	lc.ScrollOffset = sanitize(lc.ScrollOffset)
	if lc.FrozenCount < 0 {
		lc.FrozenCount = 0
	}
	return lc
}

// RealizedBlock is a maximal run of realized columns with inclusive bounds.
// StartOffset is the number of realized columns in earlier blocks.
type RealizedBlock struct {
	StartIndex  int `json:"start"`
	EndIndex    int `json:"end"`
	StartOffset int `json:"offset"`
}

// Len returns the number of columns in b.
func (b RealizedBlock) Len() int { return b.EndIndex - b.StartIndex + 1 }

// Contains reports whether index i lies in b.
func (b RealizedBlock) Contains(i int) bool { return i >= b.StartIndex && i <= b.EndIndex }

// buildBlocks compacts a flag arena into blocks.
func buildBlocks(arena []bool) []RealizedBlock {
	var blocks []RealizedBlock
	count := 0
	for i := 0; i < len(arena); i++ {
		if !arena[i] {
			continue
		}
		start := i
		for i+1 < len(arena) && arena[i+1] {
			i++
		}
		blocks = append(blocks, RealizedBlock{StartIndex: start, EndIndex: i, StartOffset: count})
		count += i - start + 1
	}
	return blocks
}

// scan is the result of one virtualization pass.
type scan struct {
	arena        []bool         // by storage index
	displayArena []bool         // by display index
	offsets      map[ID]float64 // visible columns only
	unresolved   []*Column
	extent       float64
}

// scanColumns walks the set in display order and decides which columns are
// realized. measure is called for realized columns whose content width is
// still unknown.
func scanColumns(set *Set, lc LayoutContext, focused *Column, average float64, measure func(*Column)) scan {
	lc = lc.sanitized()
	n := set.Len()
	sc := scan{
		arena:        make([]bool, n),
		displayArena: make([]bool, n),
		offsets:      make(map[ID]float64, n),
	}

	width := func(c *Column) float64 {
		if !math.IsNaN(c.display) {
			return c.display
		}
		return average
	}

	var frozenWidth float64
	frozen := 0
	for d := 0; d < n && frozen < lc.FrozenCount; d++ {
		if c := set.order[d]; c.visible {
			frozenWidth += width(c)
			frozen++
		}
	}
	start := lc.ScrollOffset + frozenWidth
	end := lc.ScrollOffset + lc.ViewportWidth

	realize := func(c *Column) {
		sc.arena[c.index] = true
		sc.displayArena[c.displayIndex] = true
	}

	var vis []*Column
	offset := 0.0
	for d := 0; d < n; d++ {
		c := set.order[d]
		if !c.visible {
			continue
		}
		vis = append(vis, c)
		w := width(c)
		sc.offsets[c.id] = offset

		switch {
		case !lc.Virtualize:
			realize(c)
		case len(vis) <= lc.FrozenCount:
			realize(c)
		case lc.ViewportWidth > 0 && offset < end && offset+w > start:
			realize(c)
		}
		offset += w
	}
	sc.extent = offset

	if focused != nil && focused.owner == set && focused.visible {
		realize(focused)
		if lc.ViewportWidth > 0 {
			pos := -1
			for i, c := range vis {
				if c == focused {
					pos = i
					break
				}
			}
			for i := pos - 1; i >= 0; i-- {
				if vis[i].focusable {
					realize(vis[i])
					break
				}
			}
			for i := pos + 1; i < len(vis); i++ {
				if vis[i].focusable {
					realize(vis[i])
					break
				}
			}
		}
	}

	for _, c := range vis {
		if !sc.arena[c.index] {
			continue
		}
		if c.width.NeedsMeasure() && math.IsNaN(c.desired) && measure != nil {
			measure(c)
		}
		if math.IsNaN(c.display) {
			sc.unresolved = append(sc.unresolved, c)
		}
	}
	return sc
}
