package eagle

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/beevik/etree"

	"github.com/boardworks/panelize/pkg/board"
	"github.com/boardworks/panelize/pkg/errors"
	"github.com/boardworks/panelize/pkg/observability"
)

// DecodeFile reads and decodes a .brd file.
func DecodeFile(path string) (*board.Document, error) {
	start := time.Now()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			err = errors.New(errors.ErrCodeFileNotFound, "input file %s not found", path)
		} else {
			err = errors.Wrap(errors.ErrCodeParse, err, "failed to open %s", path)
		}
		observability.Codec().OnDecode(context.Background(), path, 0, time.Since(start), err)
		return nil, err
	}

	doc, err := Decode(bytes.NewReader(data))
	if err != nil {
		err = errors.Wrap(errors.ErrCodeParse, err, "failed to decode %s", path)
	}
	observability.Codec().OnDecode(context.Background(), path, len(data), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Decode decodes a board document from .brd XML.
func Decode(r io.Reader) (*board.Document, error) {
	tree := etree.NewDocument()
	if _, err := tree.ReadFrom(r); err != nil {
		return nil, errors.Wrap(errors.ErrCodeParse, err, "malformed XML")
	}
	root := tree.SelectElement("eagle")
	if root == nil {
		return nil, errors.New(errors.ErrCodeParse, "missing /eagle root element")
	}

	d := &decoder{doc: &board.Document{}}
	d.eagle(root)
	if d.err != nil {
		return nil, d.err
	}
	d.doc.Unknown = d.unknown
	return d.doc, nil
}

// decoder walks the XML tree and accumulates the typed model. Unknown tags
// and attributes are collected rather than treated as decode errors; the
// feature gate decides whether the document is usable.
type decoder struct {
	doc     *board.Document
	unknown []board.UnknownConstruct
	err     error
}

func (d *decoder) unsupported(path, construct string) {
	d.unknown = append(d.unknown, board.UnknownConstruct{Path: path, Construct: construct})
}

func (d *decoder) fail(path, format string, args ...any) {
	if d.err == nil {
		d.err = errors.New(errors.ErrCodeParse, "%s: %s", path, fmt.Sprintf(format, args...))
	}
}

// attrs wraps attribute access for one element, tracking which attributes
// were consumed so that leftovers can be flagged as unsupported.
type attrs struct {
	d    *decoder
	el   *etree.Element
	path string
	seen map[string]bool
}

func (d *decoder) attrs(el *etree.Element, path string) *attrs {
	return &attrs{d: d, el: el, path: path, seen: make(map[string]bool)}
}

func (a *attrs) str(name string) string {
	a.seen[name] = true
	return a.el.SelectAttrValue(name, "")
}

func (a *attrs) float(name string) float64 {
	s := a.str(name)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		a.d.fail(a.path, "attribute %s=%q is not a number", name, s)
	}
	return v
}

func (a *attrs) intval(name string) int {
	s := a.str(name)
	if s == "" {
		return 0
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		a.d.fail(a.path, "attribute %s=%q is not an integer", name, s)
	}
	return v
}

// boolean decodes Eagle's yes/no attributes with the given default.
func (a *attrs) boolean(name string, def bool) bool {
	switch a.str(name) {
	case "yes":
		return true
	case "no":
		return false
	default:
		return def
	}
}

func (a *attrs) rot(name string) board.Rotation {
	s := a.str(name)
	r, err := board.ParseRotation(s)
	if err != nil {
		a.d.unsupported(a.path, fmt.Sprintf("%s=%q", name, s))
	}
	return r
}

// done flags attributes that were present but never consumed.
func (a *attrs) done() {
	for _, attr := range a.el.Attr {
		if !a.seen[attr.Key] {
			a.d.unsupported(a.path, fmt.Sprintf("attribute %s", attr.Key))
		}
	}
}

func (d *decoder) eagle(el *etree.Element) {
	a := d.attrs(el, "/eagle")
	d.doc.Version = a.str("version")
	a.done()

	for _, child := range el.ChildElements() {
		switch child.Tag {
		case "drawing":
			d.drawing(child)
		case "compatibility":
			// Compatibility notes carry no board content.
		default:
			d.unsupported("/eagle", child.Tag)
		}
	}
}

func (d *decoder) drawing(el *etree.Element) {
	const path = "/eagle/drawing"
	d.attrs(el, path).done()

	for _, child := range el.ChildElements() {
		switch child.Tag {
		case "settings":
			d.settings(child)
		case "grid":
			d.grid(child)
		case "layers":
			d.layers(child)
		case "board":
			d.board(child)
		default:
			d.unsupported(path, child.Tag)
		}
	}
}

func (d *decoder) settings(el *etree.Element) {
	const path = "/eagle/drawing/settings"
	d.attrs(el, path).done()

	for _, child := range el.ChildElements() {
		if child.Tag != "setting" {
			d.unsupported(path, child.Tag)
			continue
		}
		if len(child.ChildElements()) > 0 {
			d.unsupported(path+"/setting", child.ChildElements()[0].Tag)
		}
		for _, attr := range child.Attr {
			d.doc.Settings = append(d.doc.Settings, board.Setting{Name: attr.Key, Value: attr.Value})
		}
	}
}

func (d *decoder) grid(el *etree.Element) {
	grid := &board.Grid{}
	for _, attr := range el.Attr {
		grid.Attrs = append(grid.Attrs, board.Attr{Name: attr.Key, Value: attr.Value})
	}
	d.doc.Grid = grid
}

func (d *decoder) layers(el *etree.Element) {
	const path = "/eagle/drawing/layers"
	d.attrs(el, path).done()

	for _, child := range el.ChildElements() {
		if child.Tag != "layer" {
			d.unsupported(path, child.Tag)
			continue
		}
		a := d.attrs(child, path+"/layer")
		layer := board.Layer{
			Number:  a.intval("number"),
			Name:    a.str("name"),
			Color:   a.intval("color"),
			Fill:    a.intval("fill"),
			Visible: a.boolean("visible", true),
			Active:  a.boolean("active", true),
		}
		a.done()
		d.doc.Layers = append(d.doc.Layers, layer)
	}
}

func (d *decoder) board(el *etree.Element) {
	const path = "/eagle/drawing/board"
	d.attrs(el, path).done()

	for _, child := range el.ChildElements() {
		switch child.Tag {
		case "plain":
			d.doc.Plain = d.drawingContent(child, path+"/plain")
		case "libraries":
			d.libraries(child)
		case "attributes":
			d.boardAttributes(child)
		case "variantdefs":
			d.variantDefs(child)
		case "classes":
			d.classes(child)
		case "designrules":
			d.designRules(child)
		case "autorouter":
			d.autorouter(child)
		case "elements":
			d.elements(child)
		case "signals":
			d.signals(child)
		case "errors":
			// DRC error markers are never merged; drop them.
		default:
			d.unsupported(path, child.Tag)
		}
	}
}

// drawingContent decodes the graphic primitives shared by the plain section
// and package definitions.
func (d *decoder) drawingContent(el *etree.Element, path string) board.Drawing {
	d.attrs(el, path).done()

	var out board.Drawing
	for _, child := range el.ChildElements() {
		cpath := path + "/" + child.Tag
		switch child.Tag {
		case "wire":
			out.Wires = append(out.Wires, d.wire(child, cpath))
		case "text":
			out.Texts = append(out.Texts, d.text(child, cpath))
		case "dimension":
			a := d.attrs(child, cpath)
			out.Dimensions = append(out.Dimensions, board.Dimension{
				X1: a.float("x1"), Y1: a.float("y1"),
				X2: a.float("x2"), Y2: a.float("y2"),
				X3: a.float("x3"), Y3: a.float("y3"),
				Layer: a.intval("layer"),
				DType: a.str("dtype"),
				Width: a.float("width"),
			})
			a.done()
		case "circle":
			a := d.attrs(child, cpath)
			out.Circles = append(out.Circles, board.Circle{
				X: a.float("x"), Y: a.float("y"),
				Radius: a.float("radius"),
				Width:  a.float("width"),
				Layer:  a.intval("layer"),
			})
			a.done()
		case "rectangle":
			a := d.attrs(child, cpath)
			out.Rectangles = append(out.Rectangles, board.Rectangle{
				X1: a.float("x1"), Y1: a.float("y1"),
				X2: a.float("x2"), Y2: a.float("y2"),
				Layer: a.intval("layer"),
				Rot:   a.rot("rot"),
			})
			a.done()
		case "frame":
			a := d.attrs(child, cpath)
			out.Frames = append(out.Frames, board.Frame{
				X1: a.float("x1"), Y1: a.float("y1"),
				X2: a.float("x2"), Y2: a.float("y2"),
				Columns: a.intval("columns"),
				Rows:    a.intval("rows"),
				Layer:   a.intval("layer"),
				Border:  a.str("border"),
			})
			a.done()
		case "hole":
			a := d.attrs(child, cpath)
			out.Holes = append(out.Holes, board.Hole{
				X: a.float("x"), Y: a.float("y"),
				Drill: a.float("drill"),
			})
			a.done()
		case "polygon":
			out.Polygons = append(out.Polygons, d.polygon(child, cpath))
		default:
			d.unsupported(path, child.Tag)
		}
	}
	return out
}

func (d *decoder) wire(el *etree.Element, path string) board.Wire {
	a := d.attrs(el, path)
	w := board.Wire{
		X1: a.float("x1"), Y1: a.float("y1"),
		X2: a.float("x2"), Y2: a.float("y2"),
		Width: a.float("width"),
		Layer: a.intval("layer"),
		Curve: a.float("curve"),
		Cap:   a.str("cap"),
	}
	a.done()
	return w
}

func (d *decoder) text(el *etree.Element, path string) board.Text {
	a := d.attrs(el, path)
	t := board.Text{
		X: a.float("x"), Y: a.float("y"),
		Size:  a.float("size"),
		Layer: a.intval("layer"),
		Ratio: a.intval("ratio"),
		Font:  a.str("font"),
		Align: a.str("align"),
		Rot:   a.rot("rot"),
		Value: el.Text(),
	}
	a.done()
	return t
}

func (d *decoder) polygon(el *etree.Element, path string) board.Polygon {
	a := d.attrs(el, path)
	p := board.Polygon{
		Width:    a.float("width"),
		Layer:    a.intval("layer"),
		Spacing:  a.float("spacing"),
		Isolate:  a.float("isolate"),
		Orphans:  a.boolean("orphans", false),
		Thermals: a.boolean("thermals", true),
		Rank:     a.intval("rank"),
	}
	a.done()

	for _, child := range el.ChildElements() {
		if child.Tag != "vertex" {
			d.unsupported(path, child.Tag)
			continue
		}
		va := d.attrs(child, path+"/vertex")
		p.Vertices = append(p.Vertices, board.Vertex{
			X: va.float("x"), Y: va.float("y"),
			Curve: va.float("curve"),
		})
		va.done()
	}
	return p
}

func (d *decoder) libraries(el *etree.Element) {
	const path = "/eagle/drawing/board/libraries"
	d.attrs(el, path).done()

	for _, child := range el.ChildElements() {
		if child.Tag != "library" {
			d.unsupported(path, child.Tag)
			continue
		}
		a := d.attrs(child, path+"/library")
		lib := &board.Library{Name: a.str("name")}
		a.done()
		lpath := fmt.Sprintf("%s/library[%s]", path, lib.Name)

		for _, lc := range child.ChildElements() {
			switch lc.Tag {
			case "description":
				lib.Description = lc.Text()
			case "packages":
				d.packages(lc, lib, lpath+"/packages")
			default:
				d.unsupported(lpath, lc.Tag)
			}
		}
		d.doc.Libraries = append(d.doc.Libraries, lib)
	}
}

func (d *decoder) packages(el *etree.Element, lib *board.Library, path string) {
	d.attrs(el, path).done()

	for _, child := range el.ChildElements() {
		if child.Tag != "package" {
			d.unsupported(path, child.Tag)
			continue
		}
		a := d.attrs(child, path+"/package")
		pkg := &board.Package{Name: a.str("name")}
		a.done()
		ppath := fmt.Sprintf("%s/package[%s]", path, pkg.Name)

		for _, pc := range child.ChildElements() {
			cpath := ppath + "/" + pc.Tag
			switch pc.Tag {
			case "description":
				pkg.Description = pc.Text()
			case "wire":
				pkg.Wires = append(pkg.Wires, d.wire(pc, cpath))
			case "rectangle":
				pa := d.attrs(pc, cpath)
				pkg.Rectangles = append(pkg.Rectangles, board.Rectangle{
					X1: pa.float("x1"), Y1: pa.float("y1"),
					X2: pa.float("x2"), Y2: pa.float("y2"),
					Layer: pa.intval("layer"),
					Rot:   pa.rot("rot"),
				})
				pa.done()
			case "circle":
				pa := d.attrs(pc, cpath)
				pkg.Circles = append(pkg.Circles, board.Circle{
					X: pa.float("x"), Y: pa.float("y"),
					Radius: pa.float("radius"),
					Width:  pa.float("width"),
					Layer:  pa.intval("layer"),
				})
				pa.done()
			case "text":
				pkg.Texts = append(pkg.Texts, d.text(pc, cpath))
			case "pad":
				pa := d.attrs(pc, cpath)
				pkg.Pads = append(pkg.Pads, board.Pad{
					Name: pa.str("name"),
					X:    pa.float("x"), Y: pa.float("y"),
					Drill:    pa.float("drill"),
					Diameter: pa.float("diameter"),
					Shape:    pa.str("shape"),
					Rot:      pa.rot("rot"),
				})
				pa.done()
			case "smd":
				pa := d.attrs(pc, cpath)
				pkg.SMDs = append(pkg.SMDs, board.SMD{
					Name: pa.str("name"),
					X:    pa.float("x"), Y: pa.float("y"),
					DX: pa.float("dx"), DY: pa.float("dy"),
					Layer:     pa.intval("layer"),
					Roundness: pa.intval("roundness"),
					Rot:       pa.rot("rot"),
				})
				pa.done()
			case "hole":
				pa := d.attrs(pc, cpath)
				pkg.Holes = append(pkg.Holes, board.Hole{
					X: pa.float("x"), Y: pa.float("y"),
					Drill: pa.float("drill"),
				})
				pa.done()
			case "polygon":
				pkg.Polygons = append(pkg.Polygons, d.polygon(pc, cpath))
			default:
				d.unsupported(ppath, pc.Tag)
			}
		}
		lib.Packages = append(lib.Packages, pkg)
	}
}

func (d *decoder) boardAttributes(el *etree.Element) {
	const path = "/eagle/drawing/board/attributes"
	d.attrs(el, path).done()

	for _, child := range el.ChildElements() {
		if child.Tag != "attribute" {
			d.unsupported(path, child.Tag)
			continue
		}
		a := d.attrs(child, path+"/attribute")
		d.doc.Attributes = append(d.doc.Attributes, board.Attribute{
			Name:     a.str("name"),
			Value:    a.str("value"),
			Constant: a.boolean("constant", false),
		})
		a.done()
	}
}

func (d *decoder) variantDefs(el *etree.Element) {
	const path = "/eagle/drawing/board/variantdefs"
	d.attrs(el, path).done()

	for _, child := range el.ChildElements() {
		if child.Tag != "variantdef" {
			d.unsupported(path, child.Tag)
			continue
		}
		a := d.attrs(child, path+"/variantdef")
		d.doc.VariantDefs = append(d.doc.VariantDefs, board.VariantDef{
			Name:    a.str("name"),
			Current: a.boolean("current", false),
		})
		a.done()
	}
}

func (d *decoder) classes(el *etree.Element) {
	const path = "/eagle/drawing/board/classes"
	d.attrs(el, path).done()

	for _, child := range el.ChildElements() {
		if child.Tag != "class" {
			d.unsupported(path, child.Tag)
			continue
		}
		a := d.attrs(child, path+"/class")
		class := board.NetClass{
			Number: a.intval("number"),
			Name:   a.str("name"),
			Width:  a.float("width"),
			Drill:  a.float("drill"),
		}
		a.done()

		for _, cc := range child.ChildElements() {
			if cc.Tag != "clearance" {
				d.unsupported(path+"/class", cc.Tag)
				continue
			}
			ca := d.attrs(cc, path+"/class/clearance")
			class.Clearances = append(class.Clearances, board.Clearance{
				Class: ca.intval("class"),
				Value: ca.float("value"),
			})
			ca.done()
		}
		d.doc.Classes = append(d.doc.Classes, class)
	}
}

func (d *decoder) designRules(el *etree.Element) {
	const path = "/eagle/drawing/board/designrules"
	a := d.attrs(el, path)
	rules := &board.DesignRules{Name: a.str("name")}
	a.done()

	for _, child := range el.ChildElements() {
		switch child.Tag {
		case "description":
			ca := d.attrs(child, path+"/description")
			rules.Descriptions = append(rules.Descriptions, board.Description{
				Language: ca.str("language"),
				Text:     child.Text(),
			})
			ca.done()
		case "param":
			ca := d.attrs(child, path+"/param")
			rules.Params = append(rules.Params, board.Param{
				Name:  ca.str("name"),
				Value: ca.str("value"),
			})
			ca.done()
		default:
			d.unsupported(path, child.Tag)
		}
	}
	d.doc.DesignRules = rules
}

func (d *decoder) autorouter(el *etree.Element) {
	const path = "/eagle/drawing/board/autorouter"
	d.attrs(el, path).done()

	router := &board.Autorouter{}
	for _, child := range el.ChildElements() {
		if child.Tag != "pass" {
			d.unsupported(path, child.Tag)
			continue
		}
		a := d.attrs(child, path+"/pass")
		pass := board.AutorouterPass{
			Name:   a.str("name"),
			Refers: a.str("refer"),
			Active: a.boolean("active", false),
		}
		a.done()

		for _, pc := range child.ChildElements() {
			if pc.Tag != "param" {
				d.unsupported(path+"/pass", pc.Tag)
				continue
			}
			pa := d.attrs(pc, path+"/pass/param")
			pass.Params = append(pass.Params, board.Param{
				Name:  pa.str("name"),
				Value: pa.str("value"),
			})
			pa.done()
		}
		router.Passes = append(router.Passes, pass)
	}
	d.doc.Autorouter = router
}

func (d *decoder) elements(el *etree.Element) {
	const path = "/eagle/drawing/board/elements"
	d.attrs(el, path).done()

	for _, child := range el.ChildElements() {
		if child.Tag != "element" {
			d.unsupported(path, child.Tag)
			continue
		}
		a := d.attrs(child, path+"/element")
		elem := &board.Element{
			Name:    a.str("name"),
			Library: a.str("library"),
			Package: a.str("package"),
			Value:   a.str("value"),
			X:       a.float("x"),
			Y:       a.float("y"),
			Rot:     a.rot("rot"),
			Locked:  a.boolean("locked", false),
			Smashed: a.boolean("smashed", false),
		}
		a.done()
		epath := fmt.Sprintf("%s/element[%s]", path, elem.Name)

		for _, ec := range child.ChildElements() {
			switch ec.Tag {
			case "attribute":
				ea := d.attrs(ec, epath+"/attribute")
				elem.Attributes = append(elem.Attributes, board.ElementAttribute{
					Name:    ea.str("name"),
					Value:   ea.str("value"),
					X:       ea.float("x"),
					Y:       ea.float("y"),
					Size:    ea.float("size"),
					Layer:   ea.intval("layer"),
					Ratio:   ea.intval("ratio"),
					Font:    ea.str("font"),
					Align:   ea.str("align"),
					Rot:     ea.rot("rot"),
					Display: ea.str("display"),
				})
				ea.done()
			case "variant":
				va := d.attrs(ec, epath+"/variant")
				elem.Variants = append(elem.Variants, board.Variant{
					Name:       va.str("name"),
					Populate:   va.boolean("populate", true),
					Value:      va.str("value"),
					Technology: va.str("technology"),
				})
				va.done()
			default:
				d.unsupported(epath, ec.Tag)
			}
		}
		d.doc.Elements = append(d.doc.Elements, elem)
	}
}

func (d *decoder) signals(el *etree.Element) {
	const path = "/eagle/drawing/board/signals"
	d.attrs(el, path).done()

	for _, child := range el.ChildElements() {
		if child.Tag != "signal" {
			d.unsupported(path, child.Tag)
			continue
		}
		a := d.attrs(child, path+"/signal")
		sig := &board.Signal{
			Name:           a.str("name"),
			Class:          a.intval("class"),
			AirwiresHidden: a.boolean("airwireshidden", false),
		}
		a.done()
		spath := fmt.Sprintf("%s/signal[%s]", path, sig.Name)

		for _, sc := range child.ChildElements() {
			cpath := spath + "/" + sc.Tag
			switch sc.Tag {
			case "contactref":
				ca := d.attrs(sc, cpath)
				sig.ContactRefs = append(sig.ContactRefs, board.ContactRef{
					Element:  ca.str("element"),
					Pad:      ca.str("pad"),
					Route:    ca.str("route"),
					RouteTag: ca.str("routetag"),
				})
				ca.done()
			case "wire":
				sig.Wires = append(sig.Wires, d.wire(sc, cpath))
			case "via":
				va := d.attrs(sc, cpath)
				sig.Vias = append(sig.Vias, board.Via{
					X: va.float("x"), Y: va.float("y"),
					Extent:   va.str("extent"),
					Drill:    va.float("drill"),
					Diameter: va.float("diameter"),
					Shape:    va.str("shape"),
				})
				va.done()
			case "polygon":
				sig.Polygons = append(sig.Polygons, d.polygon(sc, cpath))
			default:
				d.unsupported(spath, sc.Tag)
			}
		}
		d.doc.Signals = append(d.doc.Signals, sig)
	}
}
