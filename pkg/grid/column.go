package grid

import (
	"math"

	"github.com/google/uuid"
)

// ID identifies a column within its Set.
type ID string

// DefaultMinWidth is the min width of new columns. Their max is +Inf.
const DefaultMinWidth = 20.0

// Property names a column field whose change is reported to the Set listener.
type Property uint8

const (
	PropWidth Property = iota
	PropMinWidth
	PropMaxWidth
	PropVisible
	PropDesired
	PropCanResize
	PropFocusable
	PropHeader
)

func (p Property) String() string {
	switch p {
	case PropWidth:
		return "width"
	case PropMinWidth:
		return "min"
	case PropMaxWidth:
		return "max"
	case PropVisible:
		return "visible"
	case PropDesired:
		return "desired"
	case PropCanResize:
		return "can_resize"
	case PropFocusable:
		return "focusable"
	case PropHeader:
		return "header"
	default:
		return "unknown"
	}
}

// PropertyChange describes a single column mutation.
type PropertyChange struct {
	Column   *Column
	Property Property
	// Old holds the previous numeric value for min, max, desired and
	// width-value changes. NaN otherwise.
	Old float64
	// Coerced is set when a min/max change produced min > max and max was
	// raised to min.
	Coerced bool
}

// Column is the sizing record of one grid column.
//
// Mutators notify the owning Set, which forwards the change to its listener.
// DisplayValue is written only by the layout engine.
type Column struct {
	id        ID
	header    string
	width     Width
	min       float64
	max       float64
	desired   float64
	display   float64
	visible   bool
	canResize bool
	focusable bool

	owner        *Set
	index        int // storage position in owner
	displayIndex int
}

// NewColumn creates a visible, resizable, focusable column with default
// constraints. An empty id is replaced with a random UUID.
func NewColumn(id ID, w Width) *Column {
	if id == "" {
		id = ID(uuid.NewString())
	}
	return &Column{
		id:           id,
		header:       string(id),
		width:        w,
		min:          DefaultMinWidth,
		max:          math.Inf(1),
		desired:      math.NaN(),
		display:      math.NaN(),
		visible:      true,
		canResize:    true,
		focusable:    true,
		index:        -1,
		displayIndex: -1,
	}
}

func (c *Column) ID() ID                { return c.id }
func (c *Column) Header() string        { return c.header }
func (c *Column) Width() Width          { return c.width }
func (c *Column) MinWidth() float64     { return c.min }
func (c *Column) MaxWidth() float64     { return c.max }
func (c *Column) Visible() bool         { return c.visible }
func (c *Column) CanResize() bool       { return c.canResize }
func (c *Column) Focusable() bool       { return c.focusable }
func (c *Column) DisplayIndex() int     { return c.displayIndex }
func (c *Column) Index() int            { return c.index }
func (c *Column) IsStar() bool          { return c.width.IsStar() }
func (c *Column) DesiredValue() float64 { return c.desired }

// DisplayValue is the resolved width in pixels, NaN before the first pass.
func (c *Column) DisplayValue() float64 { return c.display }

// SetHeader sets the header text. It has no layout effect.
func (c *Column) SetHeader(h string) {
	if c.header == h {
		return
	}
	c.header = h
	c.notify(PropertyChange{Column: c, Property: PropHeader, Old: math.NaN()})
}

// SetWidth replaces the sizing mode. Negative or non-finite values are
// treated as zero.
func (c *Column) SetWidth(w Width) {
	w.Value = sanitize(w.Value)
	if c.width == w {
		return
	}
	old := c.width.Value
	c.width = w
	c.notify(PropertyChange{Column: c, Property: PropWidth, Old: old})
}

// SetMinWidth sets the lower bound. If it exceeds the max, max is raised.
func (c *Column) SetMinWidth(v float64) {
	v = sanitize(v)
	if v == c.min {
		return
	}
	old := c.min
	c.min = v
	coerced := false
	if c.max < c.min {
		c.max = c.min
		coerced = true
	}
	c.notify(PropertyChange{Column: c, Property: PropMinWidth, Old: old, Coerced: coerced})
}

// SetMaxWidth sets the upper bound; +Inf means unbounded. A max below the
// current min is coerced up to min.
func (c *Column) SetMaxWidth(v float64) {
	if math.IsNaN(v) {
		v = math.Inf(1)
	}
	if v < 0 {
		v = 0
	}
	coerced := false
	if v < c.min {
		v = c.min
		coerced = true
	}
	if v == c.max && !coerced {
		return
	}
	old := c.max
	c.max = v
	c.notify(PropertyChange{Column: c, Property: PropMaxWidth, Old: old, Coerced: coerced})
}

// SetVisible shows or hides the column.
func (c *Column) SetVisible(v bool) {
	if c.visible == v {
		return
	}
	c.visible = v
	c.notify(PropertyChange{Column: c, Property: PropVisible, Old: math.NaN()})
}

// SetDesiredValue records a measured content width. NaN marks it stale.
func (c *Column) SetDesiredValue(v float64) {
	if !math.IsNaN(v) {
		v = sanitize(v)
	}
	if sameValue(c.desired, v) {
		return
	}
	old := c.desired
	c.desired = v
	c.notify(PropertyChange{Column: c, Property: PropDesired, Old: old})
}

func (c *Column) SetCanResize(v bool) {
	if c.canResize == v {
		return
	}
	c.canResize = v
	c.notify(PropertyChange{Column: c, Property: PropCanResize, Old: math.NaN()})
}

func (c *Column) SetFocusable(v bool) {
	if c.focusable == v {
		return
	}
	c.focusable = v
	c.notify(PropertyChange{Column: c, Property: PropFocusable, Old: math.NaN()})
}

func (c *Column) notify(pc PropertyChange) {
	if c.owner != nil {
		c.owner.columnChanged(pc)
	}
}

// resolved is the width a non-star column asks for before clamping.
func (c *Column) resolved() float64 {
	if c.width.Kind == KindPixel {
		return c.width.Value
	}
	if math.IsNaN(c.desired) {
		return c.min
	}
	return c.desired
}

// clampWidth clamps v into the column's constraints. Min wins when they cross.
func (c *Column) clampWidth(v float64) float64 {
	return clamp(v, c.min, c.max)
}

// desiredFloor is the width a shrinking non-star column stops at before it
// starts giving up content.
func (c *Column) desiredFloor() float64 {
	if math.IsNaN(c.desired) || c.width.Kind == KindPixel {
		return c.display
	}
	return clamp(c.desired, c.min, c.display)
}

// desiredCeiling is the width a growing non-star column stops at.
func (c *Column) desiredCeiling() float64 {
	if math.IsNaN(c.desired) || c.width.Kind == KindPixel {
		return c.display
	}
	return clamp(c.desired, c.display, c.max)
}

func (c *Column) minFloor() float64   { return c.min }
func (c *Column) maxCeiling() float64 { return c.max }
