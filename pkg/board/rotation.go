package board

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Rotation is an Eagle rotation attribute such as "R90" or "MR180".
// The prefix carries the mirror (M) and spin (S) flags; the angle is
// counter-clockwise degrees. The zero value renders as "R0".
type Rotation struct {
	Prefix string // Flag letters including the trailing R ("R", "MR", "SR", ...)
	Angle  int    // Counter-clockwise angle in degrees, [0, 360)
}

var rotationRegex = regexp.MustCompile(`^([A-Za-z]*)(\d+)$`)

// ParseRotation parses a rotation attribute value. The empty string parses
// as the zero rotation, matching how Eagle omits rot="R0".
func ParseRotation(val string) (Rotation, error) {
	if val == "" {
		return Rotation{}, nil
	}
	m := rotationRegex.FindStringSubmatch(val)
	if m == nil {
		return Rotation{}, fmt.Errorf("unsupported rotation attribute %q", val)
	}
	angle, err := strconv.Atoi(m[2])
	if err != nil {
		return Rotation{}, fmt.Errorf("unsupported rotation attribute %q", val)
	}
	return Rotation{Prefix: m[1], Angle: angle % 360}, nil
}

// Mirrored reports whether the rotation carries the mirror flag.
func (r Rotation) Mirrored() bool {
	return strings.Contains(r.Prefix, "M")
}

// IsZero reports whether the rotation is the default "R0" with no flags.
func (r Rotation) IsZero() bool {
	return r.Angle == 0 && (r.Prefix == "" || r.Prefix == "R")
}

// Rotate returns the rotation turned counter-clockwise by deg degrees.
// Mirrored rotations turn the opposite way: a mirrored part's visual
// rotation runs clockwise, so placing its board rotated CCW subtracts.
func (r Rotation) Rotate(deg int) Rotation {
	angle := r.Angle
	if r.Mirrored() {
		angle = ((angle-deg)%360 + 360) % 360
	} else {
		angle = (angle + deg) % 360
	}
	return Rotation{Prefix: r.Prefix, Angle: angle}
}

// String renders the attribute value, e.g. "R0", "R270", "MR90".
func (r Rotation) String() string {
	prefix := r.Prefix
	if prefix == "" {
		prefix = "R"
	}
	return prefix + strconv.Itoa(r.Angle)
}
