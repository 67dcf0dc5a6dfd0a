package errors

import (
	"strings"
	"testing"
)

func TestValidateColumnID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "price", false},
		{"with dash", "unit-price", false},
		{"with underscore", "unit_price", false},
		{"uuid", "0b9f7f3c-2f59-4d7c-9a43-0e2c2f1b3a10", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 200), true},
		{"space", "unit price", true},
		{"tab", "unit\tprice", true},
		{"control char", "unit\x01price", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateColumnID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateColumnID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidColumnID) {
				t.Errorf("ValidateColumnID(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidColumnID)
			}
		})
	}
}

func TestValidateScenarioPath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"relative", "testdata/orders.toml", false},
		{"upper case extension", "ORDERS.TOML", false},
		{"absolute", "/tmp/grid.toml", false},

		{"empty", "", true},
		{"json", "orders.json", true},
		{"no extension", "orders", true},
		{"null byte", "orders\x00.toml", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateScenarioPath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateScenarioPath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
