package cli

import (
	"strconv"
	"strings"

	"github.com/boardworks/panelize/pkg/errors"
	"github.com/boardworks/panelize/pkg/merge"
)

// inputSpec is one input board as given on the command line or in a layout
// file: the file path plus its placement on the panel.
type inputSpec struct {
	File      string
	Placement merge.Placement
}

// unitFactors converts offset unit suffixes to millimeters, the native unit
// of Eagle board coordinates. The factors are exact.
var unitFactors = map[string]float64{
	"mm":  1,
	"mil": 0.0254,
	"in":  25.4,
}

// ParseOffset parses an offset value with a mandatory unit suffix into
// millimeters, e.g. "10mm" -> 10, "100mil" -> 2.54, "-1in" -> -25.4.
func ParseOffset(val string) (float64, error) {
	if err := errors.ValidateOffset(val); err != nil {
		return 0, err
	}
	for suffix, factor := range unitFactors {
		if strings.HasSuffix(val, suffix) {
			n, err := strconv.ParseFloat(strings.TrimSuffix(val, suffix), 64)
			if err != nil {
				return 0, errors.New(errors.ErrCodeInvalidOffset, "cannot parse %q as an offset", val)
			}
			return n * factor, nil
		}
	}
	// Unreachable: ValidateOffset guarantees one of the suffixes matched.
	return 0, errors.New(errors.ErrCodeInvalidOffset, "cannot parse %q as an offset", val)
}

// ParseRotation parses a placement rotation given in degrees.
func ParseRotation(val string) (int, error) {
	deg, err := strconv.Atoi(val)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidRotation,
			"cannot parse %q as a rotation; expected degrees", val)
	}
	if err := errors.ValidateRotation(deg); err != nil {
		return 0, err
	}
	return deg, nil
}

// parseInputSpecs parses the merge command's positional tail: a sequence of
// input files, each optionally followed by its own placement flags.
//
//	a.brd b.brd -x 50mm -r 90 c.brd -y 100mm
//
// Placement flags always bind to the input file they follow. A flag before
// the first file is an error.
func parseInputSpecs(args []string) ([]inputSpec, error) {
	var specs []inputSpec
	current := -1

	i := 0
	for i < len(args) {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") {
			specs = append(specs, inputSpec{File: arg})
			current = len(specs) - 1
			i++
			continue
		}

		if current < 0 {
			return nil, errors.New(errors.ErrCodeInvalidInput,
				"placement flag %s appears before any input file", arg)
		}
		if i+1 >= len(args) {
			return nil, errors.New(errors.ErrCodeInvalidInput,
				"placement flag %s is missing its value", arg)
		}
		value := args[i+1]
		place := &specs[current].Placement

		var err error
		switch arg {
		case "-x", "--offx":
			place.OffsetX, err = ParseOffset(value)
		case "-y", "--offy":
			place.OffsetY, err = ParseOffset(value)
		case "-r", "--rotation":
			place.Rotation, err = ParseRotation(value)
		default:
			return nil, errors.New(errors.ErrCodeInvalidInput,
				"unknown placement flag %s (want -x/--offx, -y/--offy or -r/--rotation)", arg)
		}
		if err != nil {
			return nil, errors.Wrap(errors.GetCode(err), err, "input %s", specs[current].File)
		}
		i += 2
	}

	if len(specs) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no input files given")
	}
	return specs, nil
}
