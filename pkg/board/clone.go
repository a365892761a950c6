package board

// Clone returns a deep copy of the document. The merge engine transforms
// clones so the caller's documents are never mutated, which keeps inputs
// reusable across runs and trivially testable.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	out := &Document{
		Version:     d.Version,
		Settings:    append([]Setting(nil), d.Settings...),
		Grid:        d.Grid.clone(),
		Layers:      append([]Layer(nil), d.Layers...),
		Plain:       d.Plain.clone(),
		Attributes:  append([]Attribute(nil), d.Attributes...),
		VariantDefs: append([]VariantDef(nil), d.VariantDefs...),
		DesignRules: d.DesignRules.clone(),
		Autorouter:  d.Autorouter.clone(),
		Unknown:     append([]UnknownConstruct(nil), d.Unknown...),
	}
	for _, c := range d.Classes {
		c.Clearances = append([]Clearance(nil), c.Clearances...)
		out.Classes = append(out.Classes, c)
	}
	for _, l := range d.Libraries {
		out.Libraries = append(out.Libraries, l.Clone())
	}
	for _, e := range d.Elements {
		out.Elements = append(out.Elements, e.Clone())
	}
	for _, s := range d.Signals {
		out.Signals = append(out.Signals, s.Clone())
	}
	return out
}

// Clone returns a deep copy of the library.
func (l *Library) Clone() *Library {
	if l == nil {
		return nil
	}
	out := &Library{Name: l.Name, Description: l.Description}
	for _, p := range l.Packages {
		out.Packages = append(out.Packages, p.Clone())
	}
	return out
}

// Clone returns a deep copy of the package.
func (p *Package) Clone() *Package {
	if p == nil {
		return nil
	}
	out := *p
	out.Wires = append([]Wire(nil), p.Wires...)
	out.Rectangles = append([]Rectangle(nil), p.Rectangles...)
	out.Circles = append([]Circle(nil), p.Circles...)
	out.Texts = append([]Text(nil), p.Texts...)
	out.Pads = append([]Pad(nil), p.Pads...)
	out.SMDs = append([]SMD(nil), p.SMDs...)
	out.Holes = append([]Hole(nil), p.Holes...)
	out.Polygons = clonePolygons(p.Polygons)
	return &out
}

// Clone returns a deep copy of the element.
func (e *Element) Clone() *Element {
	if e == nil {
		return nil
	}
	out := *e
	out.Attributes = append([]ElementAttribute(nil), e.Attributes...)
	out.Variants = append([]Variant(nil), e.Variants...)
	return &out
}

// Clone returns a deep copy of the signal.
func (s *Signal) Clone() *Signal {
	if s == nil {
		return nil
	}
	out := *s
	out.ContactRefs = append([]ContactRef(nil), s.ContactRefs...)
	out.Wires = append([]Wire(nil), s.Wires...)
	out.Vias = append([]Via(nil), s.Vias...)
	out.Polygons = clonePolygons(s.Polygons)
	return &out
}

func (g *Grid) clone() *Grid {
	if g == nil {
		return nil
	}
	return &Grid{Attrs: append([]Attr(nil), g.Attrs...)}
}

func (d *DesignRules) clone() *DesignRules {
	if d == nil {
		return nil
	}
	return &DesignRules{
		Name:         d.Name,
		Descriptions: append([]Description(nil), d.Descriptions...),
		Params:       append([]Param(nil), d.Params...),
	}
}

func (a *Autorouter) clone() *Autorouter {
	if a == nil {
		return nil
	}
	out := &Autorouter{}
	for _, p := range a.Passes {
		p.Params = append([]Param(nil), p.Params...)
		out.Passes = append(out.Passes, p)
	}
	return out
}

func (d Drawing) clone() Drawing {
	return Drawing{
		Wires:      append([]Wire(nil), d.Wires...),
		Texts:      append([]Text(nil), d.Texts...),
		Dimensions: append([]Dimension(nil), d.Dimensions...),
		Circles:    append([]Circle(nil), d.Circles...),
		Rectangles: append([]Rectangle(nil), d.Rectangles...),
		Frames:     append([]Frame(nil), d.Frames...),
		Holes:      append([]Hole(nil), d.Holes...),
		Polygons:   clonePolygons(d.Polygons),
	}
}

func clonePolygons(polys []Polygon) []Polygon {
	if polys == nil {
		return nil
	}
	out := make([]Polygon, 0, len(polys))
	for _, p := range polys {
		p.Vertices = append([]Vertex(nil), p.Vertices...)
		out = append(out, p)
	}
	return out
}
