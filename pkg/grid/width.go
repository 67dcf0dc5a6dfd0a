package grid

import (
	"fmt"
	"math"
	"strconv"
)

// Kind specifies how a Width is interpreted.
type Kind uint8

const (
	KindAuto         Kind = iota // Larger of header and cell content
	KindPixel                    // Absolute pixels
	KindSizeToCells              // Cell content width
	KindSizeToHeader             // Header content width
	KindStar                     // Weighted share of the remaining space
)

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	switch k {
	case KindAuto:
		return "auto"
	case KindPixel:
		return "pixel"
	case KindSizeToCells:
		return "cells"
	case KindSizeToHeader:
		return "header"
	case KindStar:
		return "star"
	default:
		return "unknown"
	}
}

// Width is the requested sizing of a column. Value is the pixel count for
// KindPixel and the star factor for KindStar; it is ignored otherwise.
type Width struct {
	Kind  Kind
	Value float64
}

// Auto returns a Width sized to the larger of header and cell content.
func Auto() Width { return Width{Kind: KindAuto} }

// Pixel returns a Width of n absolute pixels.
func Pixel(n float64) Width { return Width{Kind: KindPixel, Value: n} }

// SizeToCells returns a Width sized to the widest cell.
func SizeToCells() Width { return Width{Kind: KindSizeToCells} }

// SizeToHeader returns a Width sized to the header.
func SizeToHeader() Width { return Width{Kind: KindSizeToHeader} }

// Star returns a Width that takes factor shares of the space left over by
// non-star columns.
func Star(factor float64) Width { return Width{Kind: KindStar, Value: factor} }

// IsStar reports whether w is proportional.
func (w Width) IsStar() bool { return w.Kind == KindStar }

// IsPixel reports whether w is an absolute pixel width.
func (w Width) IsPixel() bool { return w.Kind == KindPixel }

// NeedsMeasure reports whether resolving w requires a measured content width.
func (w Width) NeedsMeasure() bool {
	switch w.Kind {
	case KindAuto, KindSizeToCells, KindSizeToHeader:
		return true
	default:
		return false
	}
}

// String formats w the way scenario files spell it.
func (w Width) String() string {
	switch w.Kind {
	case KindPixel:
		return strconv.FormatFloat(w.Value, 'f', -1, 64)
	case KindStar:
		if w.Value == 1 {
			return "*"
		}
		return strconv.FormatFloat(w.Value, 'f', -1, 64) + "*"
	default:
		return w.Kind.String()
	}
}

// Validate rejects negative or non-finite pixel and star values.
func (w Width) Validate() error {
	switch w.Kind {
	case KindPixel, KindStar:
		if math.IsNaN(w.Value) || math.IsInf(w.Value, 0) || w.Value < 0 {
			return fmt.Errorf("%s width must be a finite non-negative number, got %v", w.Kind, w.Value)
		}
	case KindAuto, KindSizeToCells, KindSizeToHeader:
	default:
		return fmt.Errorf("unknown width kind %d", w.Kind)
	}
	return nil
}
