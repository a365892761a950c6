package merge

import (
	"fmt"
	"strings"

	"github.com/boardworks/panelize/pkg/errors"
)

// UnsupportedFeatureError reports a document construct outside the supported
// schema subset. It is raised by the feature gate before any merging touches
// the document.
type UnsupportedFeatureError struct {
	File      string // Input file the construct came from
	Path      string // Document path of the construct
	Construct string // The offending tag, attribute or reference
}

// Error implements the error interface.
func (e *UnsupportedFeatureError) Error() string {
	return fmt.Sprintf("%s: unsupported construct %s at %s", e.File, e.Construct, e.Path)
}

// Code returns the machine-readable error code.
func (e *UnsupportedFeatureError) Code() errors.Code {
	return errors.ErrCodeUnsupportedFeature
}

// LibraryConflictError reports two inputs defining the same-named library
// entity with different content. Path points at the first divergence found.
type LibraryConflictError struct {
	File    string // Input file whose definition conflicts
	Library string // Library name
	Path    string // First point of divergence (e.g. /library[RES]/package[R0805]/smd[1])
	Ours    string // Rendering of the already-merged definition at Path
	Theirs  string // Rendering of the incoming definition at Path
}

// Error implements the error interface.
func (e *LibraryConflictError) Error() string {
	return fmt.Sprintf("%s: library %q differs at %s: have %s, incoming %s",
		e.File, e.Library, e.Path, e.Ours, e.Theirs)
}

// Code returns the machine-readable error code.
func (e *LibraryConflictError) Code() errors.Code {
	return errors.ErrCodeLibraryConflict
}

// DesignRuleMismatchError reports design rule sets that are not exactly
// equal between inputs. Params lists every differing parameter.
type DesignRuleMismatchError struct {
	File   string   // Input file whose rules differ
	Params []string // Names of the differing parameters
}

// Error implements the error interface.
func (e *DesignRuleMismatchError) Error() string {
	return fmt.Sprintf("%s: design rules differ in: %s", e.File, strings.Join(e.Params, ", "))
}

// Code returns the machine-readable error code.
func (e *DesignRuleMismatchError) Code() errors.Code {
	return errors.ErrCodeRuleMismatch
}

// SectionMismatchError reports a board-wide section (net classes, variant
// definitions, global attributes, schema version) that must be identical
// across inputs but is not.
type SectionMismatchError struct {
	File    string // Input file whose section differs
	Section string // Section name
	Detail  string // Human-readable description of the difference
}

// Error implements the error interface.
func (e *SectionMismatchError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: section %s differs between inputs", e.File, e.Section)
	}
	return fmt.Sprintf("%s: section %s differs between inputs: %s", e.File, e.Section, e.Detail)
}

// Code returns the machine-readable error code.
func (e *SectionMismatchError) Code() errors.Code {
	return errors.ErrCodeSectionMismatch
}
