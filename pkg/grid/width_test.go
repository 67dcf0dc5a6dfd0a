package grid

import (
	"math"
	"testing"
)

func TestWidthString(t *testing.T) {
	tests := []struct {
		w    Width
		want string
	}{
		{Auto(), "auto"},
		{SizeToCells(), "cells"},
		{SizeToHeader(), "header"},
		{Pixel(120), "120"},
		{Pixel(12.5), "12.5"},
		{Star(1), "*"},
		{Star(2.5), "2.5*"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.w.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWidthValidate(t *testing.T) {
	tests := []struct {
		name    string
		w       Width
		wantErr bool
	}{
		{"auto", Auto(), false},
		{"pixel", Pixel(10), false},
		{"zero star", Star(0), false},
		{"negative pixel", Pixel(-1), true},
		{"nan star", Star(math.NaN()), true},
		{"inf pixel", Pixel(math.Inf(1)), true},
		{"unknown kind", Width{Kind: 42}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.w.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewColumnDefaults(t *testing.T) {
	c := NewColumn("", Star(1))
	if c.ID() == "" {
		t.Fatal("expected generated id")
	}
	if c.MinWidth() != DefaultMinWidth {
		t.Errorf("MinWidth = %v, want %v", c.MinWidth(), DefaultMinWidth)
	}
	if !math.IsInf(c.MaxWidth(), 1) {
		t.Errorf("MaxWidth = %v, want +Inf", c.MaxWidth())
	}
	if !math.IsNaN(c.DesiredValue()) || !math.IsNaN(c.DisplayValue()) {
		t.Error("new column should be unmeasured and unresolved")
	}
	if !c.Visible() || !c.CanResize() || !c.Focusable() {
		t.Error("new column should be visible, resizable and focusable")
	}
}

func TestColumnConstraintCoercion(t *testing.T) {
	c := NewColumn("a", Auto())
	c.SetMinWidth(50)
	c.SetMaxWidth(30)
	if c.MaxWidth() != 50 {
		t.Errorf("MaxWidth = %v, want coerced to 50", c.MaxWidth())
	}

	c.SetMinWidth(80)
	if c.MaxWidth() != 80 {
		t.Errorf("MaxWidth = %v, want raised to 80", c.MaxWidth())
	}

	c.SetMinWidth(math.NaN())
	if c.MinWidth() != 0 {
		t.Errorf("MinWidth = %v, want NaN mapped to 0", c.MinWidth())
	}
}
