package grid

import "math"

// bound returns the width a column stops at while shrinking or growing.
type bound func(*Column) float64

// shrinkEvenly takes amount from cols in even rounds. Each round removes the
// smallest remaining lag above floor from every column that still has one.
// It returns the part of amount that could not be taken.
func shrinkEvenly(cols []*Column, amount float64, floor bound) float64 {
	for amount > eps {
		var active []*Column
		lag := math.Inf(1)
		for _, c := range cols {
			if l := c.display - floor(c); l > eps {
				active = append(active, c)
				lag = math.Min(lag, l)
			}
		}
		if len(active) == 0 {
			break
		}
		per := lag
		if lag*float64(len(active)) >= amount {
			per = amount / float64(len(active))
		}
		for _, c := range active {
			c.display -= per
		}
		amount -= per * float64(len(active))
	}
	return math.Max(amount, 0)
}

// growEvenly is the mirror of shrinkEvenly.
func growEvenly(cols []*Column, amount float64, ceiling bound) float64 {
	for amount > eps {
		var active []*Column
		lag := math.Inf(1)
		for _, c := range cols {
			if l := ceiling(c) - c.display; l > eps {
				active = append(active, c)
				lag = math.Min(lag, l)
			}
		}
		if len(active) == 0 {
			break
		}
		per := lag
		if lag*float64(len(active)) >= amount {
			per = amount / float64(len(active))
		}
		for _, c := range active {
			c.display += per
		}
		amount -= per * float64(len(active))
	}
	return math.Max(amount, 0)
}

// resizeStars re-solves star columns into their current total plus delta,
// keeping their proportions. It returns the part of delta that could not be
// applied because of min or max.
func resizeStars(stars []*Column, delta float64) float64 {
	if len(stars) == 0 || isZero(delta) {
		return math.Abs(delta)
	}
	var total, lo, hi float64
	for _, c := range stars {
		total += c.display
		lo += c.min
		hi += math.Max(c.max, c.min)
	}
	target := clamp(total+delta, lo, hi)
	applied := target - total
	if delta > 0 && applied < 0 || delta < 0 && applied > 0 {
		applied = 0
		target = total
	}

	slots := make([]*slot, len(stars))
	for i, c := range stars {
		slots[i] = &slot{
			col:     c,
			visible: true,
			star:    true,
			factor:  c.width.Value,
			min:     c.min,
			max:     math.Max(c.max, c.min),
			desired: c.desired,
			display: c.display,
		}
	}
	solveStars(slots, target)
	for _, s := range slots {
		s.col.display = s.display
		s.col.desired = s.desired
	}
	return math.Max(math.Abs(delta)-math.Abs(applied), 0)
}

func splitStars(cols []*Column) (nonStar, stars []*Column) {
	for _, c := range cols {
		if c.width.IsStar() {
			stars = append(stars, c)
		} else {
			nonStar = append(nonStar, c)
		}
	}
	return nonStar, stars
}

func totalDisplay(cols []*Column) float64 {
	var t float64
	for _, c := range cols {
		if !math.IsNaN(c.display) {
			t += c.display
		}
	}
	return t
}

// takeAway frees amount pixels from cols for a column that wants to grow.
// Order: unused slack, non-star columns down to their content width, star
// columns proportionally down to min, non-star columns down to min. It
// returns the part that could not be freed.
func takeAway(cols []*Column, amount, slack float64) float64 {
	if slack > eps {
		amount -= math.Min(slack, amount)
	}
	nonStar, stars := splitStars(cols)
	amount = shrinkEvenly(nonStar, amount, (*Column).desiredFloor)
	amount = resizeStars(stars, -amount)
	return shrinkEvenly(nonStar, amount, (*Column).minFloor)
}

// giveAway hands amount pixels to cols: non-star columns up to their content
// width, then star columns proportionally up to max. The rest is returned and
// becomes slack.
func giveAway(cols []*Column, amount float64) float64 {
	nonStar, stars := splitStars(cols)
	amount = growEvenly(nonStar, amount, (*Column).desiredCeiling)
	return resizeStars(stars, amount)
}

// resizeColumn grows or shrinks c, the column at position idx of vis, by
// delta pixels. Only columns after c absorb the change. It returns the delta
// actually applied.
//
// With force set, c's width changes by the full delta (used when a min or max
// change pushes the column) and neighbours absorb what they can.
func resizeColumn(vis []*Column, idx int, delta, available float64, force bool) float64 {
	c := vis[idx]
	after := vis[idx+1:]
	nonStar, stars := splitStars(after)

	if delta > 0 {
		if !force {
			delta = math.Min(delta, c.max-c.display)
		}
		if delta <= eps {
			return 0
		}
		need := delta
		if slack := available - totalDisplay(vis); slack > eps {
			need -= math.Min(slack, need)
		}
		need = shrinkEvenly(nonStar, need, (*Column).desiredFloor)
		need = shrinkEvenly(nonStar, need, (*Column).minFloor)
		need = resizeStars(stars, -need)

		granted := delta
		if !force {
			granted = delta - need
		}
		c.display += granted
		return granted
	}

	shrink := -delta
	if !force {
		shrink = math.Min(shrink, c.display-c.min)
	}
	if shrink <= eps {
		return 0
	}
	c.display -= shrink
	rest := growEvenly(nonStar, shrink, (*Column).desiredCeiling)
	resizeStars(stars, rest)
	return -shrink
}

// commitResize records a user resize so that a later full distribute
// reproduces it. A non-star c becomes Pixel at its display width, and Pixel
// neighbours take their new widths. Star
// factors are renormalized to the display widths with the total weight kept.
func commitResize(vis []*Column, c *Column, before []float64) {
	for i, col := range vis {
		if col.width.IsStar() {
			continue
		}
		if col == c || col.width.IsPixel() && !sameValue(before[i], col.display) {
			col.width = Pixel(col.display)
		}
	}

	changed := false
	var factor, display float64
	var stars []*Column
	for i, col := range vis {
		if !col.width.IsStar() || col.width.Value <= 0 {
			continue
		}
		stars = append(stars, col)
		factor += col.width.Value
		display += col.display
		if !sameValue(before[i], col.display) {
			changed = true
		}
	}
	if !changed || display <= eps {
		return
	}
	k := factor / display
	for _, col := range stars {
		col.width.Value = col.display * k
		col.desired = col.display
	}
}

func snapshotDisplay(cols []*Column) []float64 {
	out := make([]float64, len(cols))
	for i, c := range cols {
		out[i] = c.display
	}
	return out
}
