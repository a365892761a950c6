package merge

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/boardworks/panelize/pkg/board"
	"github.com/boardworks/panelize/pkg/errors"
)

// baselineMajorVersion is the oldest schema generation the merge engine
// understands. Earlier file formats use a different structure entirely.
const baselineMajorVersion = 6

// Gate validates that a document stays within the supported schema subset.
// It runs before any transform or merge touches the document, so an
// unsupported input can never partially corrupt the accumulated output.
//
// The gate checks, in order:
//   - the schema version marker is present and not older than the baseline
//   - the codec recorded no unknown constructs
//   - element and signal names are well formed (names are embedded verbatim
//     in the output document)
//   - every element references a library and package the document defines
//   - every signal contact ref names a placed element and one of its pads
//
// Schema violations are returned as an [UnsupportedFeatureError].
func Gate(doc *board.Document, file string) error {
	if err := gateVersion(doc, file); err != nil {
		return err
	}

	if len(doc.Unknown) > 0 {
		u := doc.Unknown[0]
		return &UnsupportedFeatureError{File: file, Path: u.Path, Construct: u.Construct}
	}

	for _, el := range doc.Elements {
		if err := errors.ValidateBoardName(el.Name); err != nil {
			return errors.Wrap(errors.GetCode(err), err, "%s: %s", file, elementPath(el.Name))
		}
		lib := doc.Library(el.Library)
		if lib == nil {
			return &UnsupportedFeatureError{
				File:      file,
				Path:      elementPath(el.Name),
				Construct: fmt.Sprintf("reference to undefined library %q", el.Library),
			}
		}
		if lib.Package(el.Package) == nil {
			return &UnsupportedFeatureError{
				File:      file,
				Path:      elementPath(el.Name),
				Construct: fmt.Sprintf("reference to undefined package %q in library %q", el.Package, el.Library),
			}
		}
	}

	for _, sig := range doc.Signals {
		if err := errors.ValidateBoardName(sig.Name); err != nil {
			return errors.Wrap(errors.GetCode(err), err, "%s: %s", file, signalPath(sig.Name))
		}
		for _, ref := range sig.ContactRefs {
			el := doc.Element(ref.Element)
			if el == nil {
				return &UnsupportedFeatureError{
					File:      file,
					Path:      signalPath(sig.Name),
					Construct: fmt.Sprintf("contact ref to missing element %q", ref.Element),
				}
			}
			if !padExists(doc, el, ref.Pad) {
				return &UnsupportedFeatureError{
					File:      file,
					Path:      signalPath(sig.Name),
					Construct: fmt.Sprintf("contact ref to missing pad %q of element %q", ref.Pad, ref.Element),
				}
			}
		}
	}

	return nil
}

func gateVersion(doc *board.Document, file string) error {
	if doc.Version == "" {
		return &UnsupportedFeatureError{File: file, Path: "/eagle", Construct: "missing version marker"}
	}
	major := doc.Version
	if i := strings.IndexByte(major, '.'); i >= 0 {
		major = major[:i]
	}
	n, err := strconv.Atoi(major)
	if err != nil {
		return &UnsupportedFeatureError{
			File: file, Path: "/eagle",
			Construct: fmt.Sprintf("version marker %q", doc.Version),
		}
	}
	if n < baselineMajorVersion {
		return &UnsupportedFeatureError{
			File: file, Path: "/eagle",
			Construct: fmt.Sprintf("schema version %s predates supported baseline %d.x", doc.Version, baselineMajorVersion),
		}
	}
	return nil
}

// padExists reports whether the element's package defines a pad (through
// hole or SMD) with the given name. Gate has already verified the package
// reference resolves when the elements are walked before the signals.
func padExists(doc *board.Document, el *board.Element, pad string) bool {
	lib := doc.Library(el.Library)
	if lib == nil {
		return false
	}
	pkg := lib.Package(el.Package)
	if pkg == nil {
		return false
	}
	for _, p := range pkg.Pads {
		if p.Name == pad {
			return true
		}
	}
	for _, s := range pkg.SMDs {
		if s.Name == pad {
			return true
		}
	}
	return false
}

func elementPath(name string) string {
	return fmt.Sprintf("/eagle/drawing/board/elements/element[%s]", name)
}

func signalPath(name string) string {
	return fmt.Sprintf("/eagle/drawing/board/signals/signal[%s]", name)
}
