package board

// Document is the in-memory model of one Eagle .brd board file.
type Document struct {
	Version     string       // Schema version marker (e.g. "6.5.0")
	Settings    []Setting    // Editor settings key/value pairs
	Grid        *Grid        // Editor grid configuration
	Layers      []Layer      // Layer table
	Plain       Drawing      // Board-level graphics outside any signal
	Libraries   []*Library   // Embedded component libraries
	Attributes  []Attribute  // Global board attributes
	VariantDefs []VariantDef // Assembly variant definitions
	Classes     []NetClass   // Net classes
	DesignRules *DesignRules // Manufacturing design rules
	Autorouter  *Autorouter  // Autorouter pass configuration
	Elements    []*Element   // Placed component instances
	Signals     []*Signal    // Electrical nets
	Unknown     []UnknownConstruct // Constructs outside the supported schema subset
}

// UnknownConstruct records a document construct the codec does not model.
// The merge engine rejects documents carrying any of these before touching
// them, so unsupported input can never partially corrupt a panel.
type UnknownConstruct struct {
	Path      string // Document path of the construct (e.g. /eagle/drawing/board/fusion)
	Construct string // Tag or attribute name
}

// Setting is one editor setting, e.g. alwaysvectorfont="yes".
type Setting struct {
	Name  string
	Value string
}

// Grid holds the editor grid configuration. It is carried over verbatim from
// the first input board and never transformed, so attributes stay opaque.
type Grid struct {
	Attrs []Attr
}

// Attr is a single preserved XML attribute.
type Attr struct {
	Name  string
	Value string
}

// Layer is one entry of the layer table.
type Layer struct {
	Number  int    // Layer number (1 = Top copper, 16 = Bottom copper, ...)
	Name    string // Layer name
	Color   int    // Display color index
	Fill    int    // Fill style index
	Visible bool   // Layer visible in the editor
	Active  bool   // Layer selectable in the editor
}

// Library is a named, embedded collection of package footprints.
type Library struct {
	Name        string     // Library name; identity key during merging
	Description string     // Optional HTML description
	Packages    []*Package // Footprint definitions
}

// Package returns the package with the given name, or nil.
func (l *Library) Package(name string) *Package {
	for _, p := range l.Packages {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// Package is one footprint definition inside a library.
type Package struct {
	Name        string // Package name; unique within its library
	Description string // Optional HTML description

	Wires      []Wire
	Rectangles []Rectangle
	Circles    []Circle
	Texts      []Text
	Pads       []Pad
	SMDs       []SMD
	Holes      []Hole
	Polygons   []Polygon
}

// Pad is a through-hole pad of a package.
type Pad struct {
	Name     string   // Pad name referenced by signal contact refs
	X, Y     float64  // Center, package-local coordinates
	Drill    float64  // Drill diameter
	Diameter float64  // Pad diameter (0 = auto)
	Shape    string   // square, round, octagon, long, offset ("" = round)
	Rot      Rotation // Pad rotation
}

// SMD is a surface-mount pad of a package.
type SMD struct {
	Name      string   // Pad name referenced by signal contact refs
	X, Y      float64  // Center, package-local coordinates
	DX, DY    float64  // Pad dimensions
	Layer     int      // Copper layer
	Roundness int      // Corner roundness percentage
	Rot       Rotation // Pad rotation
}

// Wire is a line segment (plain graphics, package outline or routed track).
type Wire struct {
	X1, Y1 float64 // Start point
	X2, Y2 float64 // End point
	Width  float64 // Line width
	Layer  int     // Layer number
	Curve  float64 // Arc curvature in degrees (0 = straight)
	Cap    string  // Line cap style ("" = round)
}

// Text is a text object.
type Text struct {
	X, Y  float64  // Anchor point
	Size  float64  // Text height
	Layer int      // Layer number
	Ratio int      // Stroke ratio percentage
	Font  string   // vector, proportional, fixed ("" = proportional)
	Align string   // Anchor alignment ("" = bottom-left)
	Rot   Rotation // Text rotation
	Value string   // Text content
}

// Dimension is a measurement annotation between three reference points.
type Dimension struct {
	X1, Y1 float64 // First reference point
	X2, Y2 float64 // Second reference point
	X3, Y3 float64 // Dimension line position
	Layer  int     // Layer number
	DType  string  // Dimension type ("" = parallel)
	Width  float64 // Line width
}

// Circle is a circle outline.
type Circle struct {
	X, Y   float64 // Center
	Radius float64 // Radius
	Width  float64 // Line width (0 = filled)
	Layer  int     // Layer number
}

// Rectangle is a filled rectangle. Rotation is preserved as an attribute;
// panel rotation is applied by moving the corner coordinates.
type Rectangle struct {
	X1, Y1 float64  // First corner
	X2, Y2 float64  // Opposite corner
	Layer  int      // Layer number
	Rot    Rotation // Rectangle rotation
}

// Frame is a drawing frame.
type Frame struct {
	X1, Y1  float64 // First corner
	X2, Y2  float64 // Opposite corner
	Columns int     // Number of columns
	Rows    int     // Number of rows
	Layer   int     // Layer number
	Border  string  // Border sides spec ("" = all)
}

// Hole is an unplated drill hole.
type Hole struct {
	X, Y  float64 // Center
	Drill float64 // Drill diameter
}

// Polygon is a polygon, either plain graphics or a signal copper pour.
type Polygon struct {
	Width    float64  // Outline width
	Layer    int      // Layer number
	Spacing  float64  // Hatch spacing (0 = solid)
	Isolate  float64  // Isolation distance
	Orphans  bool     // Keep unconnected islands
	Thermals bool     // Generate thermal reliefs
	Rank     int      // Pour priority rank
	Vertices []Vertex // Outline vertices
}

// Vertex is one polygon outline vertex.
type Vertex struct {
	X, Y  float64 // Position
	Curve float64 // Arc curvature to the next vertex in degrees
}

// Via is a plated through connection inside a signal.
type Via struct {
	X, Y     float64 // Center
	Extent   string  // Layer extent (e.g. "1-16")
	Drill    float64 // Drill diameter
	Diameter float64 // Via diameter (0 = auto)
	Shape    string  // round, square, octagon ("" = round)
}

// Drawing groups the board-level graphics that live outside any signal.
type Drawing struct {
	Wires      []Wire
	Texts      []Text
	Dimensions []Dimension
	Circles    []Circle
	Rectangles []Rectangle
	Frames     []Frame
	Holes      []Hole
	Polygons   []Polygon
}

// Element is one placed component instance.
type Element struct {
	Name    string   // Instance name; unique within a document
	Library string   // Referenced library name
	Package string   // Referenced package name within the library
	Value   string   // Component value (e.g. "10k")
	X, Y    float64  // Placement position
	Rot     Rotation // Placement rotation
	Locked  bool     // Element locked against moving
	Smashed bool     // Attribute labels detached from the element

	Attributes []ElementAttribute // Attribute labels (NAME, VALUE, overrides)
	Variants   []Variant          // Assembly variant overrides
}

// Attribute returns the element attribute with the given name, or nil.
func (e *Element) Attribute(name string) *ElementAttribute {
	for i := range e.Attributes {
		if e.Attributes[i].Name == name {
			return &e.Attributes[i]
		}
	}
	return nil
}

// ElementAttribute is a positioned attribute label attached to an element.
type ElementAttribute struct {
	Name    string   // Attribute name (NAME, VALUE, ...)
	Value   string   // Attribute value, if carried inline
	X, Y    float64  // Label position
	Size    float64  // Text height
	Layer   int      // Layer number
	Ratio   int      // Stroke ratio percentage
	Font    string   // Label font ("" = default)
	Align   string   // Label alignment ("" = default)
	Rot     Rotation // Label rotation
	Display string   // Display mode: "", "off", "value", "name", "both"
}

// Variant is an assembly variant override on an element.
type Variant struct {
	Name       string // Variant definition name
	Populate   bool   // Whether the element is populated in this variant
	Value      string // Variant-specific value
	Technology string // Variant-specific technology
}

// Attribute is a global board attribute.
type Attribute struct {
	Name     string
	Value    string
	Constant bool
}

// VariantDef declares an assembly variant.
type VariantDef struct {
	Name    string
	Current bool
}

// NetClass is a net class with routing constraints.
type NetClass struct {
	Number     int         // Class number
	Name       string      // Class name
	Width      float64     // Minimum track width
	Drill      float64     // Minimum drill diameter
	Clearances []Clearance // Inter-class clearances
}

// Clearance is a clearance requirement against another net class.
type Clearance struct {
	Class int     // Other class number
	Value float64 // Required clearance
}

// DesignRules is the named set of manufacturing rule parameters. It is
// treated as an opaque unit during merging: all inputs must carry an exactly
// equal rule set.
type DesignRules struct {
	Name         string        // Rule set name
	Descriptions []Description // Localized descriptions
	Params       []Param       // Rule parameters in document order
}

// Param returns the value of the named rule parameter and whether it exists.
func (d *DesignRules) Param(name string) (string, bool) {
	for _, p := range d.Params {
		if p.Name == name {
			return p.Value, true
		}
	}
	return "", false
}

// Description is a localized design-rules description.
type Description struct {
	Language string
	Text     string
}

// Param is one design rule parameter.
type Param struct {
	Name  string
	Value string
}

// Autorouter holds the autorouter pass configuration. Carried over verbatim
// from the first input board that has one.
type Autorouter struct {
	Passes []AutorouterPass
}

// AutorouterPass is one configured autorouter pass.
type AutorouterPass struct {
	Name    string
	Refers  string
	Active  bool
	Params  []Param
}

// Signal is a named electrical net.
type Signal struct {
	Name           string       // Net name; unique within a document
	Class          int          // Net class number
	AirwiresHidden bool         // Airwires hidden in the editor
	ContactRefs    []ContactRef // Pad connections
	Wires          []Wire       // Routed track segments
	Vias           []Via        // Vias
	Polygons       []Polygon    // Copper pours
}

// ContactRef connects a signal to one pad of a placed element.
type ContactRef struct {
	Element  string // Element name
	Pad      string // Pad name within the element's package
	Route    string // Routing status ("" , "all", "any")
	RouteTag string // Routing tag
}

// Library returns the library with the given name, or nil.
func (d *Document) Library(name string) *Library {
	for _, l := range d.Libraries {
		if l.Name == name {
			return l
		}
	}
	return nil
}

// Element returns the element with the given name, or nil.
func (d *Document) Element(name string) *Element {
	for _, e := range d.Elements {
		if e.Name == name {
			return e
		}
	}
	return nil
}

// Signal returns the signal with the given name, or nil.
func (d *Document) Signal(name string) *Signal {
	for _, s := range d.Signals {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// Layer returns the layer with the given number and whether it exists.
func (d *Document) Layer(number int) (Layer, bool) {
	for _, l := range d.Layers {
		if l.Number == number {
			return l, true
		}
	}
	return Layer{}, false
}
