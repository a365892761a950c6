package errors

import "regexp"

// Rotations supported for placing an input board on the panel. Right angles
// only: these compose exactly as coordinate swaps with no rounding error.
const (
	Rotation0   = 0
	Rotation90  = 90
	Rotation180 = 180
	Rotation270 = 270
)

// ValidateRotation validates a panel placement rotation in degrees.
func ValidateRotation(deg int) error {
	switch deg {
	case Rotation0, Rotation90, Rotation180, Rotation270:
		return nil
	}
	return New(ErrCodeInvalidRotation,
		"unsupported rotation %d (must be one of 0, 90, 180, 270)", deg)
}

// offsetRegex matches an offset value with a required unit suffix,
// e.g. "100mm", "-3.5mm", "50mil", "2in".
var offsetRegex = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)(mm|mil|in)$`)

// ValidateOffset validates the textual form of an offset value.
// The unit suffix is mandatory so that bare numbers are never silently
// interpreted in the wrong unit.
func ValidateOffset(val string) error {
	if val == "" {
		return New(ErrCodeInvalidOffset, "offset cannot be empty")
	}
	if !offsetRegex.MatchString(val) {
		return New(ErrCodeInvalidOffset,
			"cannot parse %q as an offset; expected a number with a mm, mil or in suffix", val)
	}
	return nil
}

// ValidateBoardName validates a library, element or signal name from an
// input document. Names are embedded verbatim in the output document, so
// control characters are rejected outright.
func ValidateBoardName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "name cannot be empty")
	}
	for _, r := range name {
		if r < 0x20 || r == 0x7f {
			return New(ErrCodeInvalidInput, "name %q contains control characters", name)
		}
	}
	return nil
}
