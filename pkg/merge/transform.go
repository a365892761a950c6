package merge

import "github.com/boardworks/panelize/pkg/board"

// Placement positions one input board on the panel. The board is first
// rotated counter-clockwise about its local origin, then translated.
type Placement struct {
	OffsetX  float64 // Horizontal offset in millimeters
	OffsetY  float64 // Vertical offset in millimeters
	Rotation int     // Counter-clockwise rotation: 0, 90, 180 or 270 degrees
}

// IsIdentity reports whether the placement leaves the board untouched.
func (p Placement) IsIdentity() bool {
	return p.OffsetX == 0 && p.OffsetY == 0 && p.Rotation%360 == 0
}

// apply rotates (x, y) about the origin and translates by the offset.
// Right angles only, implemented as coordinate swaps and negations so the
// transform is exact: no trigonometry, no floating-point drift.
func (p Placement) apply(x, y float64) (float64, float64) {
	switch p.Rotation % 360 {
	case 90:
		x, y = -y, x
	case 180:
		x, y = -x, -y
	case 270:
		x, y = y, -x
	}
	return x + p.OffsetX, y + p.OffsetY
}

// Transform returns a copy of doc with the placement applied to every
// coordinate-bearing construct: board-level graphics, element positions and
// their attribute labels, and routed signal geometry. Package definitions
// are not touched; their shapes are placed relative to each element and
// follow the element's position and rotation. The input document is never
// mutated.
//
// The placement rotation must be a right angle; Merger validates this
// before calling Transform.
func Transform(doc *board.Document, p Placement) *board.Document {
	out := doc.Clone()
	if p.IsIdentity() {
		return out
	}

	transformDrawing(&out.Plain, p)

	for _, el := range out.Elements {
		el.X, el.Y = p.apply(el.X, el.Y)
		el.Rot = el.Rot.Rotate(p.Rotation)
		for i := range el.Attributes {
			a := &el.Attributes[i]
			a.X, a.Y = p.apply(a.X, a.Y)
			a.Rot = a.Rot.Rotate(p.Rotation)
		}
	}

	for _, sig := range out.Signals {
		for i := range sig.Wires {
			transformWire(&sig.Wires[i], p)
		}
		for i := range sig.Vias {
			sig.Vias[i].X, sig.Vias[i].Y = p.apply(sig.Vias[i].X, sig.Vias[i].Y)
		}
		for i := range sig.Polygons {
			transformPolygon(&sig.Polygons[i], p)
		}
	}

	return out
}

func transformDrawing(d *board.Drawing, p Placement) {
	for i := range d.Wires {
		transformWire(&d.Wires[i], p)
	}
	for i := range d.Texts {
		t := &d.Texts[i]
		t.X, t.Y = p.apply(t.X, t.Y)
		t.Rot = t.Rot.Rotate(p.Rotation)
	}
	for i := range d.Dimensions {
		dim := &d.Dimensions[i]
		dim.X1, dim.Y1 = p.apply(dim.X1, dim.Y1)
		dim.X2, dim.Y2 = p.apply(dim.X2, dim.Y2)
		dim.X3, dim.Y3 = p.apply(dim.X3, dim.Y3)
	}
	for i := range d.Circles {
		d.Circles[i].X, d.Circles[i].Y = p.apply(d.Circles[i].X, d.Circles[i].Y)
	}
	for i := range d.Rectangles {
		// Rotation is expressed by moving the corners; the rot attribute
		// stays as-is.
		r := &d.Rectangles[i]
		r.X1, r.Y1 = p.apply(r.X1, r.Y1)
		r.X2, r.Y2 = p.apply(r.X2, r.Y2)
	}
	for i := range d.Frames {
		f := &d.Frames[i]
		f.X1, f.Y1 = p.apply(f.X1, f.Y1)
		f.X2, f.Y2 = p.apply(f.X2, f.Y2)
	}
	for i := range d.Holes {
		d.Holes[i].X, d.Holes[i].Y = p.apply(d.Holes[i].X, d.Holes[i].Y)
	}
	for i := range d.Polygons {
		transformPolygon(&d.Polygons[i], p)
	}
}

func transformWire(w *board.Wire, p Placement) {
	w.X1, w.Y1 = p.apply(w.X1, w.Y1)
	w.X2, w.Y2 = p.apply(w.X2, w.Y2)
}

func transformPolygon(poly *board.Polygon, p Placement) {
	for i := range poly.Vertices {
		poly.Vertices[i].X, poly.Vertices[i].Y = p.apply(poly.Vertices[i].X, poly.Vertices[i].Y)
	}
}
