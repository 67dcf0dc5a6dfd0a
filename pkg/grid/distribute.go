package grid

import "math"

// Distribute computes display widths for cols, given in display order, within
// available pixels. The result is aligned with cols; hidden columns get NaN.
// Columns are not modified.
//
// Non-star columns take their pixel value or measured width, clamped. The
// remaining space is shared among star columns by factor, pinning columns
// that would violate their min or max. When the set has no visible star
// columns, non-star columns keep their natural widths and the grid scrolls.
func Distribute(cols []*Column, available float64) []float64 {
	slots := newSlots(cols)
	solve(slots, available)

	out := make([]float64, len(cols))
	for i := range slots {
		out[i] = slots[i].display
	}
	return out
}

// Apply runs Distribute and writes the display values back, together with
// the proportional desired values of star columns. It returns the available
// space actually used after clamping into the visible columns' total bounds.
func Apply(cols []*Column, available float64) float64 {
	slots := newSlots(cols)
	used := solve(slots, available)
	for i := range slots {
		s := &slots[i]
		s.col.display = s.display
		if s.star && s.visible {
			s.col.desired = s.desired
		}
	}
	return used
}

// slot is the working state of one column during a solve.
type slot struct {
	col     *Column
	visible bool
	star    bool
	factor  float64
	min     float64
	max     float64
	desired float64
	display float64
}

func newSlots(cols []*Column) []slot {
	slots := make([]slot, len(cols))
	for i, c := range cols {
		slots[i] = slot{
			col:     c,
			visible: c.visible,
			star:    c.width.IsStar(),
			factor:  c.width.Value,
			min:     c.min,
			max:     math.Max(c.max, c.min),
			desired: c.desired,
			display: math.NaN(),
		}
	}
	return slots
}

// solve fills in display values and returns the clamped available space.
func solve(slots []slot, available float64) float64 {
	available = sanitize(available)

	var vis, nonStar, stars []*slot
	for i := range slots {
		s := &slots[i]
		if !s.visible {
			continue
		}
		vis = append(vis, s)
		if s.star {
			stars = append(stars, s)
		} else {
			nonStar = append(nonStar, s)
		}
	}
	if len(vis) == 0 {
		return 0
	}

	for _, s := range nonStar {
		s.display = clamp(s.col.resolved(), s.min, s.max)
	}

	if len(stars) == 0 {
		var total float64
		for _, s := range nonStar {
			total += s.display
		}
		return total
	}

	var totalMin, totalMax, starMin float64
	for _, s := range vis {
		totalMin += s.min
		totalMax += s.max
		if s.star {
			starMin += s.min
		}
	}
	available = clamp(available, totalMin, totalMax)

	var required float64
	for _, s := range nonStar {
		required += s.display
	}
	space := available - starMin
	if required > space {
		shrinkSlots(nonStar, required-space)
		required = space
	}

	solveStars(stars, starMin+space-required)
	expandToDesired(vis, available)
	return available
}

// shrinkSlots removes amount evenly from non-star slots, in rounds bounded by
// the smallest remaining lag above min.
func shrinkSlots(slots []*slot, amount float64) {
	for amount > eps {
		var active []*slot
		lag := math.Inf(1)
		for _, s := range slots {
			if l := s.display - s.min; l > eps {
				active = append(active, s)
				lag = math.Min(lag, l)
			}
		}
		if len(active) == 0 {
			return
		}
		per := lag
		if lag*float64(len(active)) >= amount {
			per = amount / float64(len(active))
		}
		for _, s := range active {
			s.display -= per
		}
		amount -= per * float64(len(active))
	}
}

// solveStars shares space among star slots by factor. Min violations are
// pinned until none remain, then the first max violation is pinned and the
// loop restarts. Zero-factor columns take their min.
func solveStars(stars []*slot, space float64) {
	pool := make([]*slot, 0, len(stars))
	for _, s := range stars {
		if s.factor <= 0 {
			s.display = clamp(0, s.min, s.max)
			s.desired = 0
			space -= s.display
			continue
		}
		pool = append(pool, s)
	}
	if len(pool) == 0 {
		return
	}
	all := append([]*slot(nil), pool...)

	var poolMin, poolMax float64
	for _, s := range pool {
		poolMin += s.min
		poolMax += s.max
	}
	space = clamp(space, poolMin, poolMax)

	unit := 0.0
	for len(pool) > 0 {
		unit = space / sumFactor(pool)

		// Each min pin lowers the unit, so sweep again until nothing pins.
		kept := pool[:0]
		for _, s := range pool {
			if greater(s.min, unit*s.factor) {
				s.display = s.min
				space = math.Max(0, space-s.min)
				continue
			}
			kept = append(kept, s)
		}
		if len(kept) < len(pool) {
			pool = kept
			continue
		}

		pinned := false
		for i, s := range pool {
			if greater(unit*s.factor, s.max) {
				s.display = s.max
				space = math.Max(0, space-s.max)
				pool = append(pool[:i], pool[i+1:]...)
				pinned = true
				break
			}
		}
		if pinned {
			continue
		}

		for _, s := range pool {
			s.display = unit * s.factor
		}
		break
	}

	for _, s := range all {
		s.desired = unit * s.factor
	}
}

func sumFactor(slots []*slot) float64 {
	var f float64
	for _, s := range slots {
		f += s.factor
	}
	return f
}

// expandToDesired hands leftover space to non-star columns that are narrower
// than their content, in display order.
func expandToDesired(vis []*slot, available float64) {
	var total float64
	for _, s := range vis {
		total += s.display
	}
	slack := available - total
	for _, s := range vis {
		if slack <= eps {
			return
		}
		if s.star || math.IsNaN(s.desired) || s.col.width.Kind == KindPixel {
			continue
		}
		target := math.Min(s.desired, s.max)
		if grow := target - s.display; grow > eps {
			grow = math.Min(grow, slack)
			s.display += grow
			slack -= grow
		}
	}
}
