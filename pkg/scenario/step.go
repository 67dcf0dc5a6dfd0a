package scenario

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/colgrid/pkg/errors"
	"github.com/matzehuels/colgrid/pkg/grid"
)

// Op is a step operation.
type Op string

const (
	OpResize   Op = "resize"   // resize <id> <delta>
	OpBegin    Op = "begin"    // begin <id>: start a resize session
	OpEnd      Op = "end"      // end: finish the resize session
	OpMove     Op = "move"     // move <from> <to>
	OpHide     Op = "hide"     // hide <id>
	OpShow     Op = "show"     // show <id>
	OpRemove   Op = "remove"   // remove <id>
	OpInsert   Op = "insert"   // insert <id> <width> [displayIndex]
	OpWidth    Op = "width"    // width <id> <width>
	OpAvail    Op = "avail"    // avail <px>
	OpViewport Op = "viewport" // viewport <px>
	OpScroll   Op = "scroll"   // scroll <px>
	OpFrozen   Op = "frozen"   // frozen <n>
	OpFocus    Op = "focus"    // focus <id>
	OpBlur     Op = "blur"     // blur
	OpMeasure  Op = "measure"  // measure <id> <px>
	OpMin      Op = "min"      // min <id> <px>
	OpMax      Op = "max"      // max <id> <px|inf>
	OpFlush    Op = "flush"    // flush
)

// arity lists the argument kinds each op takes. A trailing "?" marks an
// optional argument.
var arity = map[Op][]string{
	OpResize:   {"id", "number"},
	OpBegin:    {"id"},
	OpEnd:      {},
	OpMove:     {"index", "index"},
	OpHide:     {"id"},
	OpShow:     {"id"},
	OpRemove:   {"id"},
	OpInsert:   {"id", "width", "index?"},
	OpWidth:    {"id", "width"},
	OpAvail:    {"number"},
	OpViewport: {"number"},
	OpScroll:   {"number"},
	OpFrozen:   {"index"},
	OpFocus:    {"id"},
	OpBlur:     {},
	OpMeasure:  {"id", "number"},
	OpMin:      {"id", "number"},
	OpMax:      {"id", "number"},
	OpFlush:    {},
}

// Step is one parsed step of a scenario script.
type Step struct {
	Op    Op
	ID    grid.ID
	Value float64
	Width grid.Width
	From  int
	To    int
	// Index is the display index of an insert, -1 to append.
	Index int
	Raw   string
}

// String returns the step as written.
func (s Step) String() string { return s.Raw }

// ParseStep parses one step line such as "resize name 30".
func ParseStep(line string) (Step, error) {
	expr, err := stepParser.ParseString("", line)
	if err != nil {
		return Step{}, errors.Wrap(errors.ErrCodeInvalidStep, err, "invalid step %q", line)
	}

	op := Op(strings.ToLower(expr.Op))
	kinds, ok := arity[op]
	if !ok {
		return Step{}, errors.New(errors.ErrCodeInvalidStep, "unknown step %q", expr.Op)
	}
	required := 0
	for _, k := range kinds {
		if !strings.HasSuffix(k, "?") {
			required++
		}
	}
	if len(expr.Args) < required || len(expr.Args) > len(kinds) {
		return Step{}, errors.New(errors.ErrCodeInvalidStep, "step %q takes %d argument(s), got %d", op, len(kinds), len(expr.Args))
	}

	st := Step{Op: op, Index: -1, Raw: strings.TrimSpace(line)}
	indices := 0
	for i, arg := range expr.Args {
		text := arg.Text
		switch strings.TrimSuffix(kinds[i], "?") {
		case "id":
			st.ID = grid.ID(text)
		case "number":
			v, err := parseNumber(text)
			if err != nil || math.IsNaN(v) || math.IsInf(v, -1) || math.IsInf(v, 1) && op != OpMax {
				return Step{}, errors.New(errors.ErrCodeInvalidStep, "step %q: %q is not a number", op, text)
			}
			st.Value = v
		case "width":
			w, err := ParseWidth(text)
			if err != nil {
				return Step{}, errors.Wrap(errors.ErrCodeInvalidStep, err, "step %q", op)
			}
			st.Width = w
		case "index":
			n, err := strconv.Atoi(text)
			if err != nil {
				return Step{}, errors.New(errors.ErrCodeInvalidStep, "step %q: %q is not an index", op, text)
			}
			switch {
			case op == OpInsert || op == OpFrozen:
				st.Index = n
			case indices == 0:
				st.From = n
			default:
				st.To = n
			}
			indices++
		}
	}
	return st, nil
}

// ParseSteps parses every line, reporting the first failure with its
// position.
func ParseSteps(lines []string) ([]Step, error) {
	steps := make([]Step, 0, len(lines))
	for i, line := range lines {
		st, err := ParseStep(line)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		steps = append(steps, st)
	}
	return steps, nil
}

// Apply performs the step on an engine.
func (s Step) Apply(e *grid.Engine) error {
	set := e.Set()
	column := func() (*grid.Column, error) {
		c, ok := set.Get(s.ID)
		if !ok {
			return nil, errors.New(errors.ErrCodeColumnNotFound, "column %q not found", s.ID)
		}
		return c, nil
	}

	switch s.Op {
	case OpResize:
		_, err := e.ResizeColumn(s.ID, s.Value)
		return err
	case OpBegin:
		return e.BeginColumnResize(s.ID)
	case OpEnd:
		e.EndColumnResize()
	case OpMove:
		return set.Move(s.From, s.To)
	case OpHide, OpShow:
		c, err := column()
		if err != nil {
			return err
		}
		c.SetVisible(s.Op == OpShow)
	case OpRemove:
		return set.Remove(s.ID)
	case OpInsert:
		c := grid.NewColumn(s.ID, s.Width)
		if s.Index < 0 {
			return set.Insert(c)
		}
		return set.InsertAt(c, s.Index)
	case OpWidth:
		c, err := column()
		if err != nil {
			return err
		}
		c.SetWidth(s.Width)
	case OpAvail:
		e.SetAvailableSpace(s.Value)
	case OpViewport:
		e.SetViewportWidth(s.Value)
	case OpScroll:
		e.SetScrollOffset(s.Value)
	case OpFrozen:
		lc := e.LayoutContext()
		lc.FrozenCount = s.Index
		e.SetLayoutContext(lc)
	case OpFocus:
		return e.SetFocus(s.ID)
	case OpBlur:
		e.ClearFocus()
	case OpMeasure:
		c, err := column()
		if err != nil {
			return err
		}
		c.SetDesiredValue(s.Value)
	case OpMin, OpMax:
		c, err := column()
		if err != nil {
			return err
		}
		if s.Op == OpMin {
			c.SetMinWidth(s.Value)
		} else {
			c.SetMaxWidth(s.Value)
		}
	case OpFlush:
		e.Flush()
	default:
		return errors.New(errors.ErrCodeInvalidStep, "unknown step %q", s.Op)
	}
	return nil
}
