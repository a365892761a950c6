package merge

import (
	"reflect"
	"testing"

	"github.com/boardworks/panelize/pkg/board"
)

// transformFixture is a board with every coordinate-bearing construct the
// transform must touch.
func transformFixture() *board.Document {
	return &board.Document{
		Version: "6.5.0",
		Plain: board.Drawing{
			Wires:      []board.Wire{{X1: 1, Y1: 2, X2: 3, Y2: 4, Width: 0.2, Layer: 20}},
			Texts:      []board.Text{{X: 1, Y: 1, Size: 1.27, Layer: 21, Rot: board.Rotation{Prefix: "R", Angle: 90}, Value: "label"}},
			Dimensions: []board.Dimension{{X1: 0, Y1: 0, X2: 10, Y2: 0, X3: 5, Y3: 2, Layer: 47}},
			Circles:    []board.Circle{{X: 3, Y: 4, Radius: 1, Width: 0.1, Layer: 21}},
			Rectangles: []board.Rectangle{{X1: 0, Y1: 0, X2: 2, Y2: 1, Layer: 21}},
			Frames:     []board.Frame{{X1: 0, Y1: 0, X2: 100, Y2: 80, Columns: 8, Rows: 5, Layer: 94}},
			Holes:      []board.Hole{{X: 5, Y: 5, Drill: 3.2}},
			Polygons:   []board.Polygon{{Width: 0.2, Layer: 1, Vertices: []board.Vertex{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 4}}}},
		},
		Elements: []*board.Element{{
			Name: "R1", Library: "RES", Package: "R0805", X: 10, Y: 20,
			Rot: board.Rotation{Prefix: "R", Angle: 90},
			Attributes: []board.ElementAttribute{
				{Name: "NAME", X: 10, Y: 22, Size: 1.27, Layer: 25},
			},
		}},
		Signals: []*board.Signal{{
			Name:     "N$1",
			Wires:    []board.Wire{{X1: 10, Y1: 20, X2: 15, Y2: 20, Width: 0.4, Layer: 1}},
			Vias:     []board.Via{{X: 15, Y: 20, Extent: "1-16", Drill: 0.3}},
			Polygons: []board.Polygon{{Width: 0.2, Layer: 16, Vertices: []board.Vertex{{X: 1, Y: 1}, {X: 2, Y: 1}, {X: 2, Y: 2}}}},
		}},
	}
}

func TestTransformIdentity(t *testing.T) {
	doc := transformFixture()
	got := Transform(doc, Placement{})

	if !reflect.DeepEqual(doc, got) {
		t.Error("identity transform changed the document")
	}
}

func TestTransformDoesNotMutateInput(t *testing.T) {
	doc := transformFixture()
	_ = Transform(doc, Placement{OffsetX: 50, Rotation: 90})

	if !reflect.DeepEqual(doc, transformFixture()) {
		t.Error("input document was mutated")
	}
}

func TestTransformRotate90WithOffset(t *testing.T) {
	doc := transformFixture()
	got := Transform(doc, Placement{OffsetX: 50, Rotation: 90})

	// (x, y) -> (-y + 50, x)
	w := got.Plain.Wires[0]
	if w.X1 != 48 || w.Y1 != 1 || w.X2 != 46 || w.Y2 != 3 {
		t.Errorf("wire = (%v,%v)-(%v,%v), want (48,1)-(46,3)", w.X1, w.Y1, w.X2, w.Y2)
	}

	el := got.Elements[0]
	if el.X != 30 || el.Y != 10 {
		t.Errorf("element at (%v,%v), want (30,10)", el.X, el.Y)
	}
	if gotRot, want := el.Rot.String(), "R180"; gotRot != want {
		t.Errorf("element rot = %s, want %s", gotRot, want)
	}
	attr := el.Attribute("NAME")
	if attr == nil || attr.X != 28 || attr.Y != 10 {
		t.Errorf("NAME label moved to (%v,%v), want (28,10)", attr.X, attr.Y)
	}

	via := got.Signals[0].Vias[0]
	if via.X != 30 || via.Y != 15 {
		t.Errorf("via at (%v,%v), want (30,15)", via.X, via.Y)
	}
	v := got.Signals[0].Polygons[0].Vertices[0]
	if v.X != 49 || v.Y != 1 {
		t.Errorf("polygon vertex at (%v,%v), want (49,1)", v.X, v.Y)
	}
	hole := got.Plain.Holes[0]
	if hole.X != 45 || hole.Y != 5 {
		t.Errorf("hole at (%v,%v), want (45,5)", hole.X, hole.Y)
	}
}

func TestTransformRotate180(t *testing.T) {
	doc := transformFixture()
	got := Transform(doc, Placement{Rotation: 180})

	el := got.Elements[0]
	if el.X != -10 || el.Y != -20 {
		t.Errorf("element at (%v,%v), want (-10,-20)", el.X, el.Y)
	}
	if gotRot, want := el.Rot.String(), "R270"; gotRot != want {
		t.Errorf("element rot = %s, want %s", gotRot, want)
	}
}

func TestTransformMirroredElement(t *testing.T) {
	doc := transformFixture()
	doc.Elements[0].Rot = board.Rotation{Prefix: "MR", Angle: 0}

	got := Transform(doc, Placement{Rotation: 90})
	if gotRot, want := got.Elements[0].Rot.String(), "MR270"; gotRot != want {
		t.Errorf("mirrored element rot = %s, want %s", gotRot, want)
	}
}

func TestTransformFourQuarterTurnsIsIdentity(t *testing.T) {
	doc := transformFixture()
	got := doc
	for i := 0; i < 4; i++ {
		got = Transform(got, Placement{Rotation: 90})
	}
	if !reflect.DeepEqual(doc, got) {
		t.Error("four 90 degree rotations do not compose to the identity")
	}
}

func TestTransformOffsetOnly(t *testing.T) {
	doc := transformFixture()
	got := Transform(doc, Placement{OffsetX: 100, OffsetY: -25})

	el := got.Elements[0]
	if el.X != 110 || el.Y != -5 {
		t.Errorf("element at (%v,%v), want (110,-5)", el.X, el.Y)
	}
	if gotRot, want := el.Rot.String(), "R90"; gotRot != want {
		t.Errorf("element rot = %s, want %s (offset must not rotate)", gotRot, want)
	}
}
