package grid

import (
	"io"
	"math"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/colgrid/pkg/errors"
)

// Measurer supplies content widths for Auto, SizeToCells and SizeToHeader
// columns. constraint is the column's max width, possibly +Inf.
type Measurer interface {
	Measure(c *Column, constraint float64) float64
}

// MeasureFunc adapts a function to Measurer.
type MeasureFunc func(c *Column, constraint float64) float64

func (f MeasureFunc) Measure(c *Column, constraint float64) float64 { return f(c, constraint) }

// Generator materializes and releases columns as they enter and leave the
// realized set.
type Generator interface {
	Realize(c *Column)
	Release(c *Column)
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

func WithMeasurer(m Measurer) Option   { return func(e *Engine) { e.measurer = m } }
func WithGenerator(g Generator) Option { return func(e *Engine) { e.generator = g } }

// WithStrictInvariants makes a pass panic when a realized column ends up with
// an unresolved width instead of logging it.
func WithStrictInvariants(strict bool) Option { return func(e *Engine) { e.strict = strict } }

// WithLayoutContext sets the initial viewport.
func WithLayoutContext(lc LayoutContext) Option { return func(e *Engine) { e.layout = lc } }

// Stats counts the work an engine has done.
type Stats struct {
	Passes        int `json:"passes"`
	Distributions int `json:"distributions"`
	Rescans       int `json:"rescans"`
	Resizes       int `json:"resizes"`
	Incremental   int `json:"incremental"`
	Measures      int `json:"measures"`
	Realizations  int `json:"realizations"`
	Releases      int `json:"releases"`
}

// Snapshot is a copy of the engine's published results after a pass.
type Snapshot struct {
	Pass               int             `json:"pass"`
	Available          float64         `json:"available"`
	AverageColumnWidth float64         `json:"average_column_width"`
	Extent             float64         `json:"extent"`
	Widths             map[ID]float64  `json:"widths"`
	Offsets            map[ID]float64  `json:"offsets"`
	Realized           []ID            `json:"realized"`
	Blocks             []RealizedBlock `json:"blocks"`
	DisplayBlocks      []RealizedBlock `json:"display_blocks"`
	Layout             LayoutContext   `json:"-"`
}

// Engine owns the layout state of one Set. It is not safe for concurrent use.
//
// Mutations of the set, its columns or the engine inputs only mark state
// dirty; Flush recomputes widths and realized blocks once.
type Engine struct {
	set       *Set
	logger    *log.Logger
	measurer  Measurer
	generator Generator
	strict    bool

	available float64 // sanitized host input
	effective float64 // available after clamping by the last distribute
	layout    LayoutContext
	focused   *Column
	resizing  *Column

	widthsDirty    bool
	blocksDirty    bool
	averageDirty   bool
	inPass         bool
	deferredWidths bool
	deferredBlocks bool

	average       float64
	realized      map[ID]*Column
	realizedOrder []*Column
	offsets       map[ID]float64
	extent        float64
	blocks        []RealizedBlock
	displayBlocks []RealizedBlock

	stats Stats
}

// NewEngine creates an engine for set and installs itself as the set's
// listener. The first Flush runs a full pass.
func NewEngine(set *Set, opts ...Option) *Engine {
	e := &Engine{
		set:          set,
		logger:       log.New(io.Discard),
		realized:     make(map[ID]*Column),
		widthsDirty:  true,
		blocksDirty:  true,
		averageDirty: true,
	}
	for _, opt := range opts {
		opt(e)
	}
	set.SetListener(e)
	return e
}

func (e *Engine) Set() *Set                    { return e.set }
func (e *Engine) Stats() Stats                 { return e.stats }
func (e *Engine) LayoutContext() LayoutContext { return e.layout }

// Available returns the available width as last set by the host.
func (e *Engine) Available() float64 { return e.available }

// Dirty reports whether a Flush would recompute anything.
func (e *Engine) Dirty() bool { return e.widthsDirty || e.blocksDirty }

// InvalidateWidths forces a full distribute on the next pass. Called during
// a pass, it takes effect on the pass after.
func (e *Engine) InvalidateWidths() {
	if e.inPass {
		e.deferredWidths = true
		return
	}
	e.widthsDirty = true
	e.blocksDirty = true
	e.averageDirty = true
}

// InvalidateBlocks forces a rescan of the realized set on the next pass.
func (e *Engine) InvalidateBlocks() {
	if e.inPass {
		e.deferredBlocks = true
		return
	}
	e.blocksDirty = true
}

// SetAvailableSpace sets the width the columns are laid out into. NaN,
// infinite and negative values are treated as zero. With resolved widths the
// delta is redistributed incrementally.
func (e *Engine) SetAvailableSpace(w float64) {
	w = sanitize(w)
	if w == e.available {
		return
	}
	e.available = w
	if !e.canIncrement() {
		e.InvalidateWidths()
		return
	}

	vis := e.set.VisibleColumns()
	if !hasStars(vis) {
		// Non-star sets keep their natural widths.
		e.InvalidateBlocks()
		return
	}
	lo, hi := bounds(vis)
	next := clamp(w, lo, hi)
	delta := next - e.effective
	switch {
	case delta > eps:
		giveAway(vis, delta)
	case delta < -eps:
		takeAway(vis, -delta, e.effective-totalDisplay(vis))
	}
	e.effective = next
	e.stats.Incremental++
	e.averageDirty = true
	e.InvalidateBlocks()
}

// SetLayoutContext replaces the viewport.
func (e *Engine) SetLayoutContext(lc LayoutContext) {
	if lc == e.layout {
		return
	}
	e.layout = lc
	e.InvalidateBlocks()
}

// SetViewportWidth changes only the viewport width.
func (e *Engine) SetViewportWidth(w float64) {
	lc := e.layout
	lc.ViewportWidth = w
	e.SetLayoutContext(lc)
}

// SetScrollOffset changes only the horizontal scroll offset.
func (e *Engine) SetScrollOffset(x float64) {
	lc := e.layout
	lc.ScrollOffset = x
	e.SetLayoutContext(lc)
}

// SetFocus moves focus to the column with the given id.
func (e *Engine) SetFocus(id ID) error {
	c, ok := e.set.Get(id)
	if !ok {
		return errors.New(errors.ErrCodeColumnNotFound, "column %q not found", id)
	}
	if e.focused != c {
		e.focused = c
		e.InvalidateBlocks()
	}
	return nil
}

// ClearFocus removes focus from any column.
func (e *Engine) ClearFocus() {
	if e.focused != nil {
		e.focused = nil
		e.InvalidateBlocks()
	}
}

// Focused returns the focused column id, or "".
func (e *Engine) Focused() ID {
	if e.focused == nil {
		return ""
	}
	return e.focused.id
}

// BeginColumnResize starts a resize session on the column. While a session
// is active, hiding, showing, inserting and removing columns adjusts widths
// incrementally instead of forcing a full distribute.
func (e *Engine) BeginColumnResize(id ID) error {
	c, ok := e.set.Get(id)
	if !ok {
		return errors.New(errors.ErrCodeColumnNotFound, "column %q not found", id)
	}
	e.resizing = c
	return nil
}

// EndColumnResize ends the active resize session, if any.
func (e *Engine) EndColumnResize() { e.resizing = nil }

// ResizeColumn grows or shrinks a column by delta pixels, taking the space
// from or giving it to the columns after it. Columns before it keep their
// widths. It returns the delta actually applied.
func (e *Engine) ResizeColumn(id ID, delta float64) (float64, error) {
	c, ok := e.set.Get(id)
	if !ok {
		return 0, errors.New(errors.ErrCodeColumnNotFound, "column %q not found", id)
	}
	if !finite(delta) {
		return 0, errors.New(errors.ErrCodeInvalidInput, "resize delta must be finite, got %v", delta)
	}
	if !c.visible || !c.canResize {
		e.logger.Debug("resize ignored", "column", id, "visible", c.visible, "can_resize", c.canResize)
		return 0, nil
	}
	e.ensureWidths()

	vis := e.set.VisibleColumns()
	idx := indexOf(vis, c)
	before := snapshotDisplay(vis)
	granted := resizeColumn(vis, idx, delta, e.available, false)
	commitResize(vis, c, before)

	e.stats.Resizes++
	e.averageDirty = true
	e.InvalidateBlocks()
	e.logger.Debug("column resized", "column", id, "requested", delta, "granted", granted, "width", c.display)
	return granted, nil
}

// OnStructuralChange implements Listener.
func (e *Engine) OnStructuralChange(ch Change) {
	switch ch.Kind {
	case Added:
		if c := ch.Column; c.visible && e.resizing != nil && e.canIncrement() {
			e.admit(c)
		} else {
			e.InvalidateWidths()
		}
	case Removed:
		c := ch.Column
		e.forget(c)
		if c.visible && !math.IsNaN(c.display) && e.resizing != nil && e.canIncrement() {
			e.giveBack(c.display)
		} else {
			e.InvalidateWidths()
		}
	case Moved:
		e.InvalidateWidths()
	case Replaced:
		e.forget(ch.Old)
		e.InvalidateWidths()
	case Reset:
		for _, c := range ch.Previous {
			if c.owner != e.set {
				e.forget(c)
			}
		}
		e.InvalidateWidths()
	}
	e.averageDirty = true
	e.InvalidateBlocks()
}

// OnColumnChanged implements Listener.
func (e *Engine) OnColumnChanged(pc PropertyChange) {
	c := pc.Column
	switch pc.Property {
	case PropWidth:
		e.InvalidateWidths()
	case PropMinWidth, PropMaxWidth:
		if pc.Coerced {
			e.logger.Warn("degenerate constraint, max coerced to min", "column", c.id, "min", c.min, "max", c.max)
		}
		e.constrain(c)
		if pc.Property == PropMaxWidth && c.width.NeedsMeasure() {
			e.remeasured(c)
		}
	case PropVisible:
		switch {
		case e.resizing == nil || !e.canIncrement():
			e.InvalidateWidths()
		case c.visible:
			e.admit(c)
		case !math.IsNaN(c.display):
			e.giveBack(c.display)
		default:
			e.InvalidateWidths()
		}
		e.averageDirty = true
	case PropDesired:
		e.remeasured(c)
	case PropFocusable:
		e.InvalidateBlocks()
	case PropCanResize, PropHeader:
	}
}

// constrain clamps c after a min or max change and lets the columns after it
// absorb the difference.
func (e *Engine) constrain(c *Column) {
	if !c.visible {
		e.InvalidateBlocks()
		return
	}
	if !e.canIncrement() || math.IsNaN(c.display) {
		e.InvalidateWidths()
		return
	}
	delta := c.clampWidth(c.display) - c.display
	if isZero(delta) {
		return
	}
	vis := e.set.VisibleColumns()
	resizeColumn(vis, indexOf(vis, c), delta, e.available, true)
	e.stats.Incremental++
	e.averageDirty = true
	e.InvalidateBlocks()
}

// remeasured grows a non-star column whose content got wider.
func (e *Engine) remeasured(c *Column) {
	if !c.visible || !c.width.NeedsMeasure() {
		return
	}
	if !e.canIncrement() || math.IsNaN(c.display) || math.IsNaN(c.desired) {
		e.InvalidateWidths()
		return
	}
	grow := c.clampWidth(c.desired) - c.display
	if grow <= eps {
		return
	}
	vis := e.set.VisibleColumns()
	if hasStars(vis) {
		others := without(vis, c)
		grow -= takeAway(others, grow, e.available-totalDisplay(vis))
	}
	c.display += grow
	e.stats.Incremental++
	e.averageDirty = true
	e.InvalidateBlocks()
}

// admit gives a newly shown or inserted column its width by taking space
// from the other visible columns.
func (e *Engine) admit(c *Column) {
	vis := e.set.VisibleColumns()
	others := without(vis, c)
	want := e.initialWidth(c, others)
	unmet := takeAway(others, want, e.available-totalDisplay(others))
	c.display = c.clampWidth(want - unmet)
	e.stats.Incremental++
	e.averageDirty = true
	e.InvalidateBlocks()
}

// giveBack hands a departing column's width to the remaining columns.
func (e *Engine) giveBack(w float64) {
	giveAway(e.set.VisibleColumns(), w)
	e.stats.Incremental++
	e.averageDirty = true
	e.InvalidateBlocks()
}

func (e *Engine) initialWidth(c *Column, others []*Column) float64 {
	if !c.width.IsStar() {
		return c.clampWidth(c.resolved())
	}
	var factor, display float64
	for _, o := range others {
		if o.width.IsStar() && o.width.Value > 0 {
			factor += o.width.Value
			display += o.display
		}
	}
	if c.width.Value <= 0 {
		return c.min
	}
	if factor <= 0 {
		return c.clampWidth(math.Max(e.available-totalDisplay(others), 0))
	}
	return c.clampWidth(display / (factor + c.width.Value) * c.width.Value)
}

// forget drops engine references to a column leaving the set.
func (e *Engine) forget(c *Column) {
	if c == nil {
		return
	}
	if e.realized[c.id] == c {
		delete(e.realized, c.id)
		e.release(c)
	}
	if e.focused == c {
		e.focused = nil
	}
	if e.resizing == c {
		e.resizing = nil
	}
}

func (e *Engine) canIncrement() bool { return !e.widthsDirty && !e.inPass }

func (e *Engine) ensureWidths() {
	if e.widthsDirty {
		e.distribute()
	}
}

// Flush runs one layout pass: a full distribute if widths are dirty, then a
// rescan of the realized set if blocks are dirty. Invalidations raised by
// collaborators during the pass are applied to the next pass.
func (e *Engine) Flush() Snapshot {
	e.inPass = true
	defer func() { e.inPass = false }()
	e.stats.Passes++

	distributed := e.widthsDirty
	if e.widthsDirty {
		e.distribute()
	}
	rescanned := e.blocksDirty
	if e.blocksDirty {
		e.rescan()
	}

	e.inPass = false
	if e.deferredWidths {
		e.deferredWidths = false
		e.InvalidateWidths()
	}
	if e.deferredBlocks {
		e.deferredBlocks = false
		e.InvalidateBlocks()
	}
	e.logger.Debug("layout pass",
		"pass", e.stats.Passes,
		"distributed", distributed,
		"rescanned", rescanned,
		"realized", len(e.realizedOrder),
		"dirty", e.Dirty(),
	)
	return e.Snapshot()
}

// Settle flushes until nothing is dirty or maxPasses passes have run.
func (e *Engine) Settle(maxPasses int) Snapshot {
	snap := e.Flush()
	for i := 1; i < maxPasses && e.Dirty(); i++ {
		snap = e.Flush()
	}
	return snap
}

func (e *Engine) distribute() {
	virtualized := e.layout.Virtualize
	for _, c := range e.set.order {
		if !c.visible || !c.width.NeedsMeasure() || !math.IsNaN(c.desired) {
			continue
		}
		if !virtualized || e.realized[c.id] == c {
			e.measure(c)
		}
	}
	e.effective = Apply(e.set.order, e.available)
	e.widthsDirty = false
	e.blocksDirty = true
	e.averageDirty = true
	e.stats.Distributions++
}

func (e *Engine) measure(c *Column) {
	if e.measurer == nil {
		return
	}
	w := e.measurer.Measure(c, c.max)
	c.desired = sanitize(w)
	e.stats.Measures++
}

// measureLate measures a column after widths were distributed; the result
// is picked up by the next pass.
func (e *Engine) measureLate(c *Column) {
	if e.measurer == nil {
		return
	}
	e.measure(c)
	e.deferredWidths = true
}

func (e *Engine) rescan() {
	sc := scanColumns(e.set, e.layout, e.focused, e.AverageColumnWidth(), e.measureLate)
	e.blocksDirty = false
	e.stats.Rescans++

	for _, c := range sc.unresolved {
		if e.strict {
			panic(errors.New(errors.ErrCodeUnresolvedWidth, "realized column %q has no resolved width", c.id))
		}
		e.logger.Warn("realized column has no resolved width, using zero", "column", c.id)
	}

	realized := func(c *Column) bool { return c.owner == e.set && c.index < len(sc.arena) && sc.arena[c.index] }
	for _, c := range e.realizedOrder {
		if e.realized[c.id] == c && !realized(c) {
			delete(e.realized, c.id)
			e.release(c)
		}
	}
	order := make([]*Column, 0, len(e.realizedOrder))
	for _, c := range e.set.order {
		if !realized(c) {
			continue
		}
		order = append(order, c)
		if e.realized[c.id] != c {
			e.realized[c.id] = c
			e.stats.Realizations++
			if e.generator != nil {
				e.generator.Realize(c)
			}
		}
	}
	e.realizedOrder = order

	e.offsets = sc.offsets
	e.extent = sc.extent
	e.blocks = buildBlocks(sc.arena)
	e.displayBlocks = buildBlocks(sc.displayArena)
}

func (e *Engine) release(c *Column) {
	e.stats.Releases++
	if e.generator != nil {
		e.generator.Release(c)
	}
}

// AverageColumnWidth is the mean display width of visible columns with a
// resolved width, or DefaultMinWidth when there are none. It is an estimate
// for columns that have not been realized.
func (e *Engine) AverageColumnWidth() float64 {
	if !e.averageDirty {
		return e.average
	}
	var sum float64
	n := 0
	for _, c := range e.set.columns {
		if c.visible && !math.IsNaN(c.display) {
			sum += c.display
			n++
		}
	}
	e.average = DefaultMinWidth
	if n > 0 {
		e.average = sum / float64(n)
	}
	e.averageDirty = false
	return e.average
}

// ResolvedWidths returns the display width of every visible column. An
// unresolved width is reported as zero.
func (e *Engine) ResolvedWidths() map[ID]float64 {
	out := make(map[ID]float64, len(e.set.columns))
	for _, c := range e.set.columns {
		if !c.visible {
			continue
		}
		w := c.display
		if math.IsNaN(w) {
			w = 0
		}
		out[c.id] = w
	}
	return out
}

// Offsets returns the left edge of every visible column in content
// coordinates, as of the last pass.
func (e *Engine) Offsets() map[ID]float64 {
	out := make(map[ID]float64, len(e.offsets))
	for id, off := range e.offsets {
		out[id] = off
	}
	return out
}

// RealizedBlocks returns the realized runs in storage index space.
func (e *Engine) RealizedBlocks() []RealizedBlock {
	return append([]RealizedBlock(nil), e.blocks...)
}

// RealizedDisplayBlocks returns the realized runs in display index space.
func (e *Engine) RealizedDisplayBlocks() []RealizedBlock {
	return append([]RealizedBlock(nil), e.displayBlocks...)
}

// Realized reports whether the column was realized by the last pass.
func (e *Engine) Realized(id ID) bool {
	_, ok := e.realized[id]
	return ok
}

// RealizedColumns returns the realized column ids in display order.
func (e *Engine) RealizedColumns() []ID {
	out := make([]ID, len(e.realizedOrder))
	for i, c := range e.realizedOrder {
		out[i] = c.id
	}
	return out
}

// Snapshot copies the published results.
func (e *Engine) Snapshot() Snapshot {
	return Snapshot{
		Pass:               e.stats.Passes,
		Available:          e.available,
		AverageColumnWidth: e.AverageColumnWidth(),
		Extent:             e.extent,
		Widths:             e.ResolvedWidths(),
		Offsets:            e.Offsets(),
		Realized:           e.RealizedColumns(),
		Blocks:             e.RealizedBlocks(),
		DisplayBlocks:      e.RealizedDisplayBlocks(),
		Layout:             e.layout,
	}
}

func hasStars(cols []*Column) bool {
	for _, c := range cols {
		if c.width.IsStar() {
			return true
		}
	}
	return false
}

func bounds(cols []*Column) (lo, hi float64) {
	for _, c := range cols {
		lo += c.min
		hi += math.Max(c.max, c.min)
	}
	return lo, hi
}

func indexOf(cols []*Column, c *Column) int {
	for i, col := range cols {
		if col == c {
			return i
		}
	}
	return -1
}

func without(cols []*Column, c *Column) []*Column {
	out := make([]*Column, 0, len(cols))
	for _, col := range cols {
		if col != c {
			out = append(out, col)
		}
	}
	return out
}
