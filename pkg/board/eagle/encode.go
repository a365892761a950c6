package eagle

import (
	"context"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/beevik/etree"

	"github.com/boardworks/panelize/pkg/board"
	"github.com/boardworks/panelize/pkg/errors"
	"github.com/boardworks/panelize/pkg/observability"
)

// EncodeFile writes a board document to a .brd file. On failure the partial
// file is removed so a broken merge never leaves output behind.
func EncodeFile(doc *board.Document, path string) error {
	start := time.Now()

	f, err := os.Create(path)
	if err != nil {
		err = errors.Wrap(errors.ErrCodeInternal, err, "failed to create %s", path)
		observability.Codec().OnEncode(context.Background(), path, 0, time.Since(start), err)
		return err
	}
	if err := Encode(doc, f); err != nil {
		f.Close()
		os.Remove(path)
		observability.Codec().OnEncode(context.Background(), path, 0, time.Since(start), err)
		return err
	}

	size := 0
	if fi, err := f.Stat(); err == nil {
		size = int(fi.Size())
	}
	err = f.Close()
	observability.Codec().OnEncode(context.Background(), path, size, time.Since(start), err)
	return err
}

// Encode writes a board document as .brd XML, including the XML declaration
// and the Eagle doctype header.
func Encode(doc *board.Document, w io.Writer) error {
	tree := etree.NewDocument()
	tree.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	tree.CreateDirective(`DOCTYPE eagle SYSTEM "eagle.dtd"`)

	e := &encoder{}
	root := tree.CreateElement("eagle")
	if doc.Version != "" {
		root.CreateAttr("version", doc.Version)
	}
	e.drawing(root.CreateElement("drawing"), doc)

	if _, err := tree.WriteTo(w); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "failed to write board XML")
	}
	return nil
}

type encoder struct{}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// setNum writes a numeric attribute.
func setNum(el *etree.Element, name string, v float64) {
	el.CreateAttr(name, num(v))
}

// setOptNum writes a numeric attribute only when non-zero.
func setOptNum(el *etree.Element, name string, v float64) {
	if v != 0 {
		el.CreateAttr(name, num(v))
	}
}

// setOptStr writes a string attribute only when non-empty.
func setOptStr(el *etree.Element, name, v string) {
	if v != "" {
		el.CreateAttr(name, v)
	}
}

// setOptRot writes a rotation attribute unless it is the default R0.
func setOptRot(el *etree.Element, name string, r board.Rotation) {
	if !r.IsZero() {
		el.CreateAttr(name, r.String())
	}
}

// setBool writes a yes/no attribute only when it differs from the default.
func setBool(el *etree.Element, name string, v, def bool) {
	if v == def {
		return
	}
	if v {
		el.CreateAttr(name, "yes")
	} else {
		el.CreateAttr(name, "no")
	}
}

func (e *encoder) drawing(el *etree.Element, doc *board.Document) {
	if len(doc.Settings) > 0 {
		settings := el.CreateElement("settings")
		for _, s := range doc.Settings {
			settings.CreateElement("setting").CreateAttr(s.Name, s.Value)
		}
	}
	if doc.Grid != nil {
		grid := el.CreateElement("grid")
		for _, a := range doc.Grid.Attrs {
			grid.CreateAttr(a.Name, a.Value)
		}
	}
	if len(doc.Layers) > 0 {
		layers := el.CreateElement("layers")
		for _, l := range doc.Layers {
			layer := layers.CreateElement("layer")
			layer.CreateAttr("number", strconv.Itoa(l.Number))
			layer.CreateAttr("name", l.Name)
			layer.CreateAttr("color", strconv.Itoa(l.Color))
			layer.CreateAttr("fill", strconv.Itoa(l.Fill))
			setBool(layer, "visible", l.Visible, true)
			setBool(layer, "active", l.Active, true)
		}
	}
	e.board(el.CreateElement("board"), doc)
}

func (e *encoder) board(el *etree.Element, doc *board.Document) {
	e.drawingContent(el.CreateElement("plain"), doc.Plain)

	libraries := el.CreateElement("libraries")
	for _, lib := range doc.Libraries {
		e.library(libraries.CreateElement("library"), lib)
	}

	if len(doc.Attributes) > 0 {
		attributes := el.CreateElement("attributes")
		for _, a := range doc.Attributes {
			attr := attributes.CreateElement("attribute")
			attr.CreateAttr("name", a.Name)
			attr.CreateAttr("value", a.Value)
			setBool(attr, "constant", a.Constant, false)
		}
	}

	if len(doc.VariantDefs) > 0 {
		defs := el.CreateElement("variantdefs")
		for _, v := range doc.VariantDefs {
			def := defs.CreateElement("variantdef")
			def.CreateAttr("name", v.Name)
			setBool(def, "current", v.Current, false)
		}
	}

	if len(doc.Classes) > 0 {
		classes := el.CreateElement("classes")
		for _, c := range doc.Classes {
			class := classes.CreateElement("class")
			class.CreateAttr("number", strconv.Itoa(c.Number))
			class.CreateAttr("name", c.Name)
			setOptNum(class, "width", c.Width)
			setOptNum(class, "drill", c.Drill)
			for _, cl := range c.Clearances {
				clearance := class.CreateElement("clearance")
				clearance.CreateAttr("class", strconv.Itoa(cl.Class))
				setOptNum(clearance, "value", cl.Value)
			}
		}
	}

	if doc.DesignRules != nil {
		e.designRules(el.CreateElement("designrules"), doc.DesignRules)
	}

	if doc.Autorouter != nil {
		router := el.CreateElement("autorouter")
		for _, p := range doc.Autorouter.Passes {
			pass := router.CreateElement("pass")
			pass.CreateAttr("name", p.Name)
			setOptStr(pass, "refer", p.Refers)
			setBool(pass, "active", p.Active, false)
			for _, param := range p.Params {
				pe := pass.CreateElement("param")
				pe.CreateAttr("name", param.Name)
				pe.CreateAttr("value", param.Value)
			}
		}
	}

	elements := el.CreateElement("elements")
	for _, elem := range doc.Elements {
		e.element(elements.CreateElement("element"), elem)
	}

	signals := el.CreateElement("signals")
	for _, sig := range doc.Signals {
		e.signal(signals.CreateElement("signal"), sig)
	}
}

func (e *encoder) library(el *etree.Element, lib *board.Library) {
	el.CreateAttr("name", lib.Name)
	if lib.Description != "" {
		el.CreateElement("description").SetText(lib.Description)
	}
	packages := el.CreateElement("packages")
	for _, pkg := range lib.Packages {
		e.pkg(packages.CreateElement("package"), pkg)
	}
}

func (e *encoder) pkg(el *etree.Element, pkg *board.Package) {
	el.CreateAttr("name", pkg.Name)
	if pkg.Description != "" {
		el.CreateElement("description").SetText(pkg.Description)
	}
	for _, w := range pkg.Wires {
		e.wire(el.CreateElement("wire"), w)
	}
	for _, r := range pkg.Rectangles {
		e.rectangle(el.CreateElement("rectangle"), r)
	}
	for _, c := range pkg.Circles {
		e.circle(el.CreateElement("circle"), c)
	}
	for _, t := range pkg.Texts {
		e.text(el.CreateElement("text"), t)
	}
	for _, p := range pkg.Pads {
		pad := el.CreateElement("pad")
		pad.CreateAttr("name", p.Name)
		setNum(pad, "x", p.X)
		setNum(pad, "y", p.Y)
		setNum(pad, "drill", p.Drill)
		setOptNum(pad, "diameter", p.Diameter)
		setOptStr(pad, "shape", p.Shape)
		setOptRot(pad, "rot", p.Rot)
	}
	for _, s := range pkg.SMDs {
		smd := el.CreateElement("smd")
		smd.CreateAttr("name", s.Name)
		setNum(smd, "x", s.X)
		setNum(smd, "y", s.Y)
		setNum(smd, "dx", s.DX)
		setNum(smd, "dy", s.DY)
		smd.CreateAttr("layer", strconv.Itoa(s.Layer))
		if s.Roundness != 0 {
			smd.CreateAttr("roundness", strconv.Itoa(s.Roundness))
		}
		setOptRot(smd, "rot", s.Rot)
	}
	for _, h := range pkg.Holes {
		e.hole(el.CreateElement("hole"), h)
	}
	for _, p := range pkg.Polygons {
		e.polygon(el.CreateElement("polygon"), p)
	}
}

func (e *encoder) designRules(el *etree.Element, rules *board.DesignRules) {
	setOptStr(el, "name", rules.Name)
	for _, d := range rules.Descriptions {
		desc := el.CreateElement("description")
		setOptStr(desc, "language", d.Language)
		desc.SetText(d.Text)
	}
	for _, p := range rules.Params {
		param := el.CreateElement("param")
		param.CreateAttr("name", p.Name)
		param.CreateAttr("value", p.Value)
	}
}

func (e *encoder) element(el *etree.Element, elem *board.Element) {
	el.CreateAttr("name", elem.Name)
	el.CreateAttr("library", elem.Library)
	el.CreateAttr("package", elem.Package)
	el.CreateAttr("value", elem.Value)
	setNum(el, "x", elem.X)
	setNum(el, "y", elem.Y)
	setBool(el, "locked", elem.Locked, false)
	setBool(el, "smashed", elem.Smashed, false)
	setOptRot(el, "rot", elem.Rot)

	for _, a := range elem.Attributes {
		attr := el.CreateElement("attribute")
		attr.CreateAttr("name", a.Name)
		setOptStr(attr, "value", a.Value)
		setNum(attr, "x", a.X)
		setNum(attr, "y", a.Y)
		setOptNum(attr, "size", a.Size)
		if a.Layer != 0 {
			attr.CreateAttr("layer", strconv.Itoa(a.Layer))
		}
		if a.Ratio != 0 {
			attr.CreateAttr("ratio", strconv.Itoa(a.Ratio))
		}
		setOptStr(attr, "font", a.Font)
		setOptStr(attr, "align", a.Align)
		setOptRot(attr, "rot", a.Rot)
		setOptStr(attr, "display", a.Display)
	}
	for _, v := range elem.Variants {
		variant := el.CreateElement("variant")
		variant.CreateAttr("name", v.Name)
		setBool(variant, "populate", v.Populate, true)
		setOptStr(variant, "value", v.Value)
		setOptStr(variant, "technology", v.Technology)
	}
}

func (e *encoder) signal(el *etree.Element, sig *board.Signal) {
	el.CreateAttr("name", sig.Name)
	if sig.Class != 0 {
		el.CreateAttr("class", strconv.Itoa(sig.Class))
	}
	setBool(el, "airwireshidden", sig.AirwiresHidden, false)

	for _, c := range sig.ContactRefs {
		ref := el.CreateElement("contactref")
		ref.CreateAttr("element", c.Element)
		ref.CreateAttr("pad", c.Pad)
		setOptStr(ref, "route", c.Route)
		setOptStr(ref, "routetag", c.RouteTag)
	}
	for _, w := range sig.Wires {
		e.wire(el.CreateElement("wire"), w)
	}
	for _, v := range sig.Vias {
		via := el.CreateElement("via")
		setNum(via, "x", v.X)
		setNum(via, "y", v.Y)
		via.CreateAttr("extent", v.Extent)
		setNum(via, "drill", v.Drill)
		setOptNum(via, "diameter", v.Diameter)
		setOptStr(via, "shape", v.Shape)
	}
	for _, p := range sig.Polygons {
		e.polygon(el.CreateElement("polygon"), p)
	}
}

func (e *encoder) drawingContent(el *etree.Element, d board.Drawing) {
	for _, w := range d.Wires {
		e.wire(el.CreateElement("wire"), w)
	}
	for _, t := range d.Texts {
		e.text(el.CreateElement("text"), t)
	}
	for _, dim := range d.Dimensions {
		dm := el.CreateElement("dimension")
		setNum(dm, "x1", dim.X1)
		setNum(dm, "y1", dim.Y1)
		setNum(dm, "x2", dim.X2)
		setNum(dm, "y2", dim.Y2)
		setNum(dm, "x3", dim.X3)
		setNum(dm, "y3", dim.Y3)
		dm.CreateAttr("layer", strconv.Itoa(dim.Layer))
		setOptStr(dm, "dtype", dim.DType)
		setOptNum(dm, "width", dim.Width)
	}
	for _, c := range d.Circles {
		e.circle(el.CreateElement("circle"), c)
	}
	for _, r := range d.Rectangles {
		e.rectangle(el.CreateElement("rectangle"), r)
	}
	for _, f := range d.Frames {
		fr := el.CreateElement("frame")
		setNum(fr, "x1", f.X1)
		setNum(fr, "y1", f.Y1)
		setNum(fr, "x2", f.X2)
		setNum(fr, "y2", f.Y2)
		fr.CreateAttr("columns", strconv.Itoa(f.Columns))
		fr.CreateAttr("rows", strconv.Itoa(f.Rows))
		fr.CreateAttr("layer", strconv.Itoa(f.Layer))
		setOptStr(fr, "border", f.Border)
	}
	for _, h := range d.Holes {
		e.hole(el.CreateElement("hole"), h)
	}
	for _, p := range d.Polygons {
		e.polygon(el.CreateElement("polygon"), p)
	}
}

func (e *encoder) wire(el *etree.Element, w board.Wire) {
	setNum(el, "x1", w.X1)
	setNum(el, "y1", w.Y1)
	setNum(el, "x2", w.X2)
	setNum(el, "y2", w.Y2)
	setNum(el, "width", w.Width)
	el.CreateAttr("layer", strconv.Itoa(w.Layer))
	setOptNum(el, "curve", w.Curve)
	setOptStr(el, "cap", w.Cap)
}

func (e *encoder) text(el *etree.Element, t board.Text) {
	setNum(el, "x", t.X)
	setNum(el, "y", t.Y)
	setNum(el, "size", t.Size)
	el.CreateAttr("layer", strconv.Itoa(t.Layer))
	if t.Ratio != 0 {
		el.CreateAttr("ratio", strconv.Itoa(t.Ratio))
	}
	setOptStr(el, "font", t.Font)
	setOptStr(el, "align", t.Align)
	setOptRot(el, "rot", t.Rot)
	el.SetText(t.Value)
}

func (e *encoder) circle(el *etree.Element, c board.Circle) {
	setNum(el, "x", c.X)
	setNum(el, "y", c.Y)
	setNum(el, "radius", c.Radius)
	setNum(el, "width", c.Width)
	el.CreateAttr("layer", strconv.Itoa(c.Layer))
}

func (e *encoder) rectangle(el *etree.Element, r board.Rectangle) {
	setNum(el, "x1", r.X1)
	setNum(el, "y1", r.Y1)
	setNum(el, "x2", r.X2)
	setNum(el, "y2", r.Y2)
	el.CreateAttr("layer", strconv.Itoa(r.Layer))
	setOptRot(el, "rot", r.Rot)
}

func (e *encoder) hole(el *etree.Element, h board.Hole) {
	setNum(el, "x", h.X)
	setNum(el, "y", h.Y)
	setNum(el, "drill", h.Drill)
}

func (e *encoder) polygon(el *etree.Element, p board.Polygon) {
	setNum(el, "width", p.Width)
	el.CreateAttr("layer", strconv.Itoa(p.Layer))
	setOptNum(el, "spacing", p.Spacing)
	setOptNum(el, "isolate", p.Isolate)
	setBool(el, "orphans", p.Orphans, false)
	setBool(el, "thermals", p.Thermals, true)
	if p.Rank != 0 {
		el.CreateAttr("rank", strconv.Itoa(p.Rank))
	}
	for _, v := range p.Vertices {
		vertex := el.CreateElement("vertex")
		setNum(vertex, "x", v.X)
		setNum(vertex, "y", v.Y)
		setOptNum(vertex, "curve", v.Curve)
	}
}
