package scenario

import (
	"strconv"
	"strings"

	"github.com/matzehuels/colgrid/pkg/errors"
	"github.com/matzehuels/colgrid/pkg/grid"
)

// ParseWidth parses a width literal:
//
//	auto                 larger of header and cell content
//	cells, sizetocells   cell content
//	header, sizetoheader header content
//	120, 120px           absolute pixels
//	*, 2.5*              star factor
func ParseWidth(s string) (grid.Width, error) {
	if strings.TrimSpace(s) == "" {
		return grid.Width{}, errors.New(errors.ErrCodeInvalidWidth, "width cannot be empty")
	}
	expr, err := widthParser.ParseString("", s)
	if err != nil {
		return grid.Width{}, errors.Wrap(errors.ErrCodeInvalidWidth, err, "invalid width %q", s)
	}

	var w grid.Width
	switch {
	case expr.Bare:
		w = grid.Star(1)
	case expr.Keyword != nil:
		switch strings.ToLower(*expr.Keyword) {
		case "auto":
			w = grid.Auto()
		case "cells", "sizetocells":
			w = grid.SizeToCells()
		case "header", "sizetoheader":
			w = grid.SizeToHeader()
		default:
			return grid.Width{}, errors.New(errors.ErrCodeInvalidWidth, "unknown width keyword %q", *expr.Keyword)
		}
	case expr.Number != nil:
		v, err := parseNumber(*expr.Number)
		if err != nil {
			return grid.Width{}, errors.Wrap(errors.ErrCodeInvalidWidth, err, "invalid width %q", s)
		}
		if expr.Star {
			if strings.HasSuffix(*expr.Number, "px") {
				return grid.Width{}, errors.New(errors.ErrCodeInvalidWidth, "invalid width %q: star factor with px unit", s)
			}
			w = grid.Star(v)
		} else {
			w = grid.Pixel(v)
		}
	}

	if err := w.Validate(); err != nil {
		return grid.Width{}, errors.Wrap(errors.ErrCodeInvalidWidth, err, "invalid width %q", s)
	}
	return w, nil
}

func parseNumber(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSuffix(s, "px"), 64)
}
