package merge

import (
	"fmt"
	"sort"

	"github.com/boardworks/panelize/pkg/board"
)

// MergeLibraries folds the incoming libraries into existing. Libraries and
// packages not seen before are added (deep-copied); same-named packages must
// be structurally identical, otherwise a [LibraryConflictError] pointing at
// the first divergence is returned. Comparison is a pure recursive walk over
// the typed model, so neither formatting nor shape-ordering differences in
// the source files can cause false conflicts.
//
// On success the returned slice is existing with any new entries appended;
// existing entries are never modified beyond gaining new packages.
func MergeLibraries(existing, incoming []*board.Library, file string) ([]*board.Library, error) {
	for _, in := range incoming {
		var have *board.Library
		for _, l := range existing {
			if l.Name == in.Name {
				have = l
				break
			}
		}
		if have == nil {
			existing = append(existing, in.Clone())
			continue
		}
		if err := mergeLibrary(have, in, file); err != nil {
			return nil, err
		}
	}
	return existing, nil
}

// mergeLibrary merges one same-named incoming library into have.
func mergeLibrary(have, in *board.Library, file string) error {
	// Description is informational: keep the first non-empty one.
	if have.Description == "" {
		have.Description = in.Description
	}

	for _, pkg := range in.Packages {
		found := have.Package(pkg.Name)
		if found == nil {
			have.Packages = append(have.Packages, pkg.Clone())
			continue
		}
		path := fmt.Sprintf("/library[%s]/package[%s]", in.Name, pkg.Name)
		if div := comparePackages(found, pkg, path); div != nil {
			return &LibraryConflictError{
				File:    file,
				Library: in.Name,
				Path:    div.path,
				Ours:    div.ours,
				Theirs:  div.theirs,
			}
		}
	}
	return nil
}

// divergence describes the first structural difference found between two
// definitions.
type divergence struct {
	path   string
	ours   string
	theirs string
}

func diff(path string, ours, theirs any) *divergence {
	return &divergence{path: path, ours: fmt.Sprintf("%+v", ours), theirs: fmt.Sprintf("%+v", theirs)}
}

// comparePackages deep-compares two package definitions and returns the
// first divergence, or nil when they are structurally identical. Shapes are
// compared in canonical order, not document order: the editor saves
// identical footprints with children in whatever order it last touched them,
// and that must never count as a conflict. Divergence paths index the
// canonical order.
func comparePackages(a, b *board.Package, path string) *divergence {
	if a.Description != b.Description {
		return diff(path+"/description", a.Description, b.Description)
	}
	if d := compareShapes(a.Wires, b.Wires, path, "wire"); d != nil {
		return d
	}
	if d := compareShapes(a.Rectangles, b.Rectangles, path, "rectangle"); d != nil {
		return d
	}
	if d := compareShapes(a.Circles, b.Circles, path, "circle"); d != nil {
		return d
	}
	if d := compareShapes(a.Texts, b.Texts, path, "text"); d != nil {
		return d
	}
	if d := compareShapes(a.Pads, b.Pads, path, "pad"); d != nil {
		return d
	}
	if d := compareShapes(a.SMDs, b.SMDs, path, "smd"); d != nil {
		return d
	}
	if d := compareShapes(a.Holes, b.Holes, path, "hole"); d != nil {
		return d
	}
	return comparePolygons(a.Polygons, b.Polygons, path)
}

// sortedCopy returns a copy of s ordered by the rendered form of each entry,
// giving every shape slice a canonical order independent of how the source
// file listed it.
func sortedCopy[T any](s []T) []T {
	out := append([]T(nil), s...)
	sort.Slice(out, func(i, j int) bool {
		return fmt.Sprintf("%+v", out[i]) < fmt.Sprintf("%+v", out[j])
	})
	return out
}

// compareShapes compares two shape slices without regard to document order.
func compareShapes[T comparable](a, b []T, path, tag string) *divergence {
	return compareSlice(sortedCopy(a), sortedCopy(b), path, tag)
}

// compareSlice compares two slices of comparable drawing primitives entry by
// entry, in the order given.
func compareSlice[T comparable](a, b []T, path, tag string) *divergence {
	if len(a) != len(b) {
		return diff(fmt.Sprintf("%s/%s", path, tag),
			fmt.Sprintf("%d entries", len(a)), fmt.Sprintf("%d entries", len(b)))
	}
	for i := range a {
		if a[i] != b[i] {
			return diff(fmt.Sprintf("%s/%s[%d]", path, tag, i), a[i], b[i])
		}
	}
	return nil
}

// polygonProps is the comparable scalar part of a polygon. Vertices are
// compared separately: their order defines the outline, so it is
// semantically meaningful and compared as given.
type polygonProps struct {
	Width    float64
	Layer    int
	Spacing  float64
	Isolate  float64
	Orphans  bool
	Thermals bool
	Rank     int
}

func propsOf(p board.Polygon) polygonProps {
	return polygonProps{
		Width:    p.Width,
		Layer:    p.Layer,
		Spacing:  p.Spacing,
		Isolate:  p.Isolate,
		Orphans:  p.Orphans,
		Thermals: p.Thermals,
		Rank:     p.Rank,
	}
}

func comparePolygons(a, b []board.Polygon, path string) *divergence {
	if len(a) != len(b) {
		return diff(path+"/polygon",
			fmt.Sprintf("%d entries", len(a)), fmt.Sprintf("%d entries", len(b)))
	}
	as, bs := sortedCopy(a), sortedCopy(b)
	for i := range as {
		ppath := fmt.Sprintf("%s/polygon[%d]", path, i)
		if pa, pb := propsOf(as[i]), propsOf(bs[i]); pa != pb {
			return diff(ppath, pa, pb)
		}
		if d := compareSlice(as[i].Vertices, bs[i].Vertices, ppath, "vertex"); d != nil {
			return d
		}
	}
	return nil
}
