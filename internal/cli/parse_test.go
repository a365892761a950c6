package cli

import (
	"math"
	"testing"

	"github.com/boardworks/panelize/pkg/errors"
	"github.com/boardworks/panelize/pkg/merge"
)

func TestParseOffset(t *testing.T) {
	tests := []struct {
		name    string
		val     string
		want    float64
		wantErr bool
	}{
		{name: "millimeters", val: "10mm", want: 10},
		{name: "negative", val: "-3.5mm", want: -3.5},
		{name: "explicit plus", val: "+2mm", want: 2},
		{name: "mils", val: "100mil", want: 2.54},
		{name: "inches", val: "2in", want: 50.8},
		{name: "fraction without leading zero", val: ".5mm", want: 0.5},
		{name: "no unit", val: "10", wantErr: true},
		{name: "unknown unit", val: "10cm", wantErr: true},
		{name: "empty", val: "", wantErr: true},
		{name: "not a number", val: "abcmm", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseOffset(tt.val)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseOffset(%q) error = %v, wantErr %v", tt.val, err, tt.wantErr)
			}
			if err != nil {
				if code := errors.GetCode(err); code != errors.ErrCodeInvalidOffset {
					t.Errorf("code = %v, want INVALID_OFFSET", code)
				}
				return
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("ParseOffset(%q) = %v, want %v", tt.val, got, tt.want)
			}
		})
	}
}

func TestParseRotation(t *testing.T) {
	tests := []struct {
		val     string
		want    int
		wantErr bool
	}{
		{val: "0", want: 0},
		{val: "90", want: 90},
		{val: "180", want: 180},
		{val: "270", want: 270},
		{val: "45", wantErr: true},
		{val: "360", wantErr: true},
		{val: "ninety", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.val, func(t *testing.T) {
			got, err := ParseRotation(tt.val)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseRotation(%q) error = %v, wantErr %v", tt.val, err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("ParseRotation(%q) = %d, want %d", tt.val, got, tt.want)
			}
		})
	}
}

func TestParseInputSpecs(t *testing.T) {
	specs, err := parseInputSpecs([]string{
		"a.brd",
		"b.brd", "-x", "50mm", "-r", "90",
		"c.brd", "--offy", "1in",
	})
	if err != nil {
		t.Fatalf("parseInputSpecs: %v", err)
	}
	if len(specs) != 3 {
		t.Fatalf("specs = %d, want 3", len(specs))
	}

	if specs[0].File != "a.brd" || !specs[0].Placement.IsIdentity() {
		t.Errorf("spec[0] = %+v, want a.brd at identity", specs[0])
	}

	want := merge.Placement{OffsetX: 50, Rotation: 90}
	if specs[1].File != "b.brd" || specs[1].Placement != want {
		t.Errorf("spec[1] = %+v, want b.brd at %+v", specs[1], want)
	}

	if specs[2].File != "c.brd" || specs[2].Placement.OffsetY != 25.4 {
		t.Errorf("spec[2] = %+v, want c.brd offset y 25.4", specs[2])
	}
}

func TestParseInputSpecsErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "no inputs", args: nil},
		{name: "flag before file", args: []string{"-x", "10mm", "a.brd"}},
		{name: "missing value", args: []string{"a.brd", "-x"}},
		{name: "unknown flag", args: []string{"a.brd", "--scale", "2"}},
		{name: "bad offset", args: []string{"a.brd", "-x", "10"}},
		{name: "bad rotation", args: []string{"a.brd", "-r", "45"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseInputSpecs(tt.args); err == nil {
				t.Errorf("parseInputSpecs(%v) succeeded, want error", tt.args)
			}
		})
	}
}
